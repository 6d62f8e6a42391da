package telemetry

import (
	"context"
	"log/slog"
	"time"

	"github.com/Borislavv/go-ash-cachespec/config"
)

type Logger interface {
	Interval() time.Duration
	Close() error
}

// Logs periodically reports per-interval evaluation counters.
type Logs struct {
	ctx      context.Context
	cancel   context.CancelFunc
	cfg      *config.TelemetryCfg
	logger   *slog.Logger
	counters *Counters
	entries  func() int
	interval time.Duration
	done     chan struct{}
}

// New starts the logs loop when cfg enables it. entries reports the number of loaded entries.
func New(ctx context.Context, cfg *config.TelemetryCfg, logger *slog.Logger, counters *Counters, entries func() int) *Logs {
	ctx, cancel := context.WithCancel(ctx)
	l := &Logs{
		ctx:      ctx,
		cancel:   cancel,
		cfg:      cfg,
		logger:   logger,
		counters: counters,
		entries:  entries,
		done:     make(chan struct{}),
	}
	if cfg.IsLogsEnabled() {
		l.interval = cfg.LogsInterval
	}
	return l.run()
}

func (l *Logs) Interval() time.Duration {
	return l.interval
}

// Close stops the loop and waits for it to exit.
func (l *Logs) Close() error {
	l.cancel()
	<-l.done
	return nil
}

func (l *Logs) run() *Logs {
	if l.cfg.IsLogsEnabled() {
		go l.loop()
	} else {
		close(l.done)
	}
	return l
}

func (l *Logs) loop() {
	defer close(l.done)

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	prev := l.counters.snapshot()

	for {
		select {
		case <-l.ctx.Done():
			return

		case <-ticker.C:
			cur := l.counters.snapshot()
			d := deltaSnapshot(prev, cur)
			prev = cur

			common := []any{"interval", l.interval.String()}

			l.logger.Info("evaluations",
				append(common,
					"total", int64(d.evaluations),
					"cacheable", int64(d.cacheable),
					"not_cacheable", int64(d.notCacheable),
					"delayed_invalidations", int64(d.delayed),
				)...,
			)

			if d.dependencyIDs > 0 || d.invalidationIDs > 0 {
				l.logger.Info("identities",
					append(common,
						"dependency_ids", int64(d.dependencyIDs),
						"invalidation_ids", int64(d.invalidationIDs),
					)...,
				)
			}

			if d.hookErrors > 0 {
				l.logger.Warn("hook_errors",
					append(common, "errors", int64(d.hookErrors))...,
				)
			}

			if l.entries != nil {
				l.logger.Info("spec", append(common, "entries", l.entries())...)
			}
		}
	}
}
