package testhelp

import (
	"bytes"
	"log/slog"
	"os"
	"sync"
)

func Logger() *slog.Logger {
	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})

	return slog.New(h).With(
		slog.String("service", "cachespec"),
		slog.String("env", "test"),
	)
}

// Buffer is a goroutine safe sink for captured log lines.
type Buffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *Buffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *Buffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// CaptureLogger returns a debug level text logger writing into the returned buffer.
func CaptureLogger() (*slog.Logger, *Buffer) {
	out := &Buffer{}
	return slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: slog.LevelDebug})), out
}
