package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Borislavv/go-ash-cachespec"
	"github.com/Borislavv/go-ash-cachespec/config"
	"github.com/Borislavv/go-ash-cachespec/internal/logging"
	"github.com/Borislavv/go-ash-cachespec/model"
	"github.com/Borislavv/go-ash-cachespec/source"
	"gopkg.in/yaml.v3"
)

var errUsage = errors.New("usage: cachespec -spec cachespec.xml [-config engine.yaml] [-request request.yaml] [-entry name]")

type flags struct {
	spec     string
	config   string
	request  string
	entry    string
	logLevel string
	console  bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	var f flags
	fs := flag.NewFlagSet("cachespec", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&f.spec, "spec", "", "Path to the cachespec XML document (required)")
	fs.StringVar(&f.config, "config", "", "Path to the engine YAML configuration")
	fs.StringVar(&f.request, "request", "", "Path to a YAML request fixture to evaluate")
	fs.StringVar(&f.entry, "entry", "", "Evaluate only the entry with this template name")
	fs.StringVar(&f.logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	fs.BoolVar(&f.console, "console", true, "Human readable logs instead of JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if f.spec == "" {
		return errUsage
	}

	level, err := logging.ParseLevel(f.logLevel)
	if err != nil {
		return err
	}
	logger := logging.New(stderr, level, f.console)

	cfg := config.Default()
	if f.config != "" {
		if cfg, err = config.LoadConfig(f.config); err != nil {
			return err
		}
	}

	spec, err := cachespec.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = spec.Close() }()

	if err = spec.LoadFile(f.spec); err != nil {
		return err
	}

	out := output{Entries: summarize(spec.Entries())}
	if f.request != "" {
		if out.Results, err = evaluate(spec, f.request, f.entry, logger); err != nil {
			return err
		}
	}

	enc := yaml.NewEncoder(stdout)
	enc.SetIndent(2)
	if err = enc.Encode(out); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return enc.Close()
}

type output struct {
	Entries []entrySummary `yaml:"entries"`
	Results []result       `yaml:"results,omitempty"`
}

type entrySummary struct {
	Class         string              `yaml:"class"`
	Names         []string            `yaml:"names"`
	Instance      string              `yaml:"instance,omitempty"`
	SharingPolicy model.SharingPolicy `yaml:"sharing_policy"`
	CacheIDs      int                 `yaml:"cache_ids"`
	DependencyIDs int                 `yaml:"dependency_ids,omitempty"`
	Invalidations int                 `yaml:"invalidations,omitempty"`
}

type result struct {
	Entry               string `yaml:"entry"`
	cachespec.Result    `yaml:",inline"`
	DelayedInvalidation []string `yaml:"delayed_invalidation_ids,omitempty"`
}

func summarize(entries []*model.ConfigEntry) []entrySummary {
	out := make([]entrySummary, 0, len(entries))
	for _, e := range entries {
		out = append(out, entrySummary{
			Class:         e.ClassName,
			Names:         e.AllNames,
			Instance:      e.InstanceName,
			SharingPolicy: e.SharingPolicy,
			CacheIDs:      len(e.CacheIDs),
			DependencyIDs: len(e.DependencyIDs),
			Invalidations: len(e.Invalidations),
		})
	}
	return out
}

// evaluate runs the request fixture against one entry, or every entry when name is empty.
// The fixture stands for the state after a command ran too, so delayed invalidations are
// resolved against it right away.
func evaluate(spec *cachespec.Spec, path, name string, logger *slog.Logger) ([]result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read request fixture %s: %w", path, err)
	}
	var values map[string]any
	if err = yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("unmarshal request fixture %s: %w", path, err)
	}
	src := source.NewMap(values)

	entries := spec.Entries()
	if name != "" {
		entry, ok := spec.Entry(name)
		if !ok {
			return nil, fmt.Errorf("%w: %s", cachespec.ErrUnknownEntry, name)
		}
		entries = []*model.ConfigEntry{entry}
	}

	out := make([]result, 0, len(entries))
	for _, entry := range entries {
		res, err := spec.Evaluate(entry, src)
		if err != nil {
			return nil, err
		}
		r := result{Entry: entry.Name, Result: *res}
		if res.DelayInvalidations {
			if r.DelayedInvalidation, err = spec.ProcessDelayedInvalidations(entry, src); err != nil {
				return nil, err
			}
		}
		logger.Debug("entry evaluated", "entry", entry.Name, "cacheable", res.Cacheable, "id", res.ID)
		out = append(out, r)
	}
	return out, nil
}
