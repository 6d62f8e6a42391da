package cachespec

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync/atomic"

	"github.com/Borislavv/go-ash-cachespec/config"
	"github.com/Borislavv/go-ash-cachespec/internal/generator"
	"github.com/Borislavv/go-ash-cachespec/internal/parser"
	"github.com/Borislavv/go-ash-cachespec/internal/processor"
	"github.com/Borislavv/go-ash-cachespec/internal/telemetry"
	"github.com/Borislavv/go-ash-cachespec/model"
	"github.com/Borislavv/go-ash-cachespec/source"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ErrNotLoaded    = errors.New("cachespec: no document loaded")
	ErrUnknownEntry = errors.New("cachespec: unknown entry")
)

type (
	Result                = processor.Result
	ValueSource           = processor.ValueSource
	EntryInfo             = processor.EntryInfo
	IDGenerator           = processor.IDGenerator
	MetaDataGenerator     = processor.MetaDataGenerator
	InvalidationGenerator = processor.InvalidationGenerator
	IDFunc                = generator.IDFunc
	MetaDataFunc          = generator.MetaDataFunc
	InvalidationFunc      = generator.InvalidationFunc
	Registry              = generator.Registry
	Document              = parser.Document
)

type CacheSpec interface {
	Load(r io.Reader) error
	LoadFile(path string) error
	Document() *Document
	Entries() []*model.ConfigEntry
	Instances() []*model.CacheInstance
	Entry(name string) (*model.ConfigEntry, bool)
	Evaluate(entry *model.ConfigEntry, src ValueSource) (*Result, error)
	EvaluateName(name string, src ValueSource) (*Result, error)
	ProcessDelayedInvalidations(entry *model.ConfigEntry, src ValueSource) ([]string, error)
	telemetry.Logger
	io.Closer
}

var _ CacheSpec = (*Spec)(nil)

// loaded is an immutable view of one document; Load swaps it as a whole.
type loaded struct {
	doc    *parser.Document
	byName map[string]*model.ConfigEntry
}

type Spec struct {
	telemetry.Logger
	cfg        *config.Engine
	logger     *slog.Logger
	generators *generator.Registry
	accessors  *source.Accessors
	counters   *telemetry.Counters
	pool       *processor.Pool
	current    atomic.Pointer[loaded]
	cls        context.CancelFunc
}

type Option func(*options)

type options struct {
	registerer prometheus.Registerer
	labels     prometheus.Labels
}

// WithRegisterer sets where the evaluation collector is registered when
// telemetry.prometheus is on. Defaults to prometheus.DefaultRegisterer.
func WithRegisterer(reg prometheus.Registerer, constLabels prometheus.Labels) Option {
	return func(o *options) {
		o.registerer = reg
		o.labels = constLabels
	}
}

func New(ctx context.Context, cfg *config.Engine, logger *slog.Logger, opts ...Option) (*Spec, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	o := &options{registerer: prometheus.DefaultRegisterer}
	for _, opt := range opts {
		opt(o)
	}

	gens, err := generator.FromConfig(cfg.Generators)
	if err != nil {
		return nil, fmt.Errorf("build generators: %w", err)
	}
	size := config.DefaultAccessorCacheSize
	if cfg.Reflect.Enabled() && cfg.Reflect.AccessorCacheSize > 0 {
		size = cfg.Reflect.AccessorCacheSize
	}
	accessors, err := source.NewAccessors(size)
	if err != nil {
		return nil, err
	}

	counters := telemetry.NewCounters()
	if cfg.Telemetry.Enabled() && cfg.Telemetry.Prometheus {
		if err = o.registerer.Register(telemetry.NewCollector(counters, o.labels)); err != nil {
			return nil, fmt.Errorf("register collector: %w", err)
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	s := &Spec{
		cfg:        cfg,
		logger:     logger,
		generators: gens,
		accessors:  accessors,
		counters:   counters,
		pool:       processor.NewPool(cfg, gens, logger),
		cls:        cancel,
	}
	s.Logger = telemetry.New(ctx, cfg.Telemetry, logger, counters, s.entriesLen)
	return s, nil
}

// Load parses a document and makes it current. The previous document stays in
// effect if parsing fails.
func (s *Spec) Load(r io.Reader) error {
	doc, err := parser.Parse(r, parser.Options{
		AppName: s.cfg.AppName,
		Prefix:  s.cfg.Prefix,
		Logger:  s.logger,
	})
	if err != nil {
		return err
	}

	byName := make(map[string]*model.ConfigEntry, len(doc.Entries))
	for _, entry := range doc.Entries {
		processor.PreProcess(entry)
		for _, name := range entry.AllNames {
			if prev, ok := byName[name]; ok {
				s.logger.Warn("duplicate entry name, first declaration wins",
					"name", name, "class", entry.ClassName, "kept_class", prev.ClassName)
				continue
			}
			byName[name] = entry
		}
	}
	s.current.Store(&loaded{doc: doc, byName: byName})

	s.logger.Info("cachespec loaded",
		"entries", len(doc.Entries), "instances", len(doc.Instances), "names", len(byName))
	return nil
}

func (s *Spec) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open cachespec %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	if err = s.Load(f); err != nil {
		return fmt.Errorf("load cachespec %s: %w", path, err)
	}
	return nil
}

// Document returns the current document, nil before the first successful Load.
func (s *Spec) Document() *Document {
	if l := s.current.Load(); l != nil {
		return l.doc
	}
	return nil
}

func (s *Spec) Entries() []*model.ConfigEntry {
	if l := s.current.Load(); l != nil {
		return l.doc.Entries
	}
	return nil
}

func (s *Spec) Instances() []*model.CacheInstance {
	if l := s.current.Load(); l != nil {
		return l.doc.Instances
	}
	return nil
}

// Entry finds an entry by any of its template names.
func (s *Spec) Entry(name string) (*model.ConfigEntry, bool) {
	l := s.current.Load()
	if l == nil {
		return nil, false
	}
	entry, ok := l.byName[name]
	return entry, ok
}

func (s *Spec) entriesLen() int {
	return len(s.Entries())
}

// Evaluate runs the processor for one request against entry.
func (s *Spec) Evaluate(entry *model.ConfigEntry, src ValueSource) (*Result, error) {
	proc := s.pool.Get(entry, src)
	defer s.pool.Put(proc)

	if _, err := proc.Execute(); err != nil {
		s.counters.HookError()
		return nil, fmt.Errorf("evaluate %s: %w", entry.Name, err)
	}
	res, err := proc.Result()
	if err != nil {
		s.counters.HookError()
		return nil, fmt.Errorf("evaluate %s: %w", entry.Name, err)
	}
	s.counters.Observe(res.Cacheable, res.DelayInvalidations, len(proc.DependencyIDs()), len(res.InvalidationIDs))
	return res, nil
}

// EvaluateName evaluates the entry registered under name.
func (s *Spec) EvaluateName(name string, src ValueSource) (*Result, error) {
	if s.current.Load() == nil {
		return nil, ErrNotLoaded
	}
	entry, ok := s.Entry(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEntry, name)
	}
	return s.Evaluate(entry, src)
}

// ProcessDelayedInvalidations computes the invalidation ids of a command whose
// entry delays them, once the command has run and src reflects its final state.
func (s *Spec) ProcessDelayedInvalidations(entry *model.ConfigEntry, src ValueSource) ([]string, error) {
	proc := s.pool.Get(entry, src)
	defer s.pool.Put(proc)

	ids, err := proc.ProcessDelayedInvalidations(src)
	if err != nil {
		s.counters.HookError()
		return nil, fmt.Errorf("delayed invalidations of %s: %w", entry.Name, err)
	}
	s.counters.AddInvalidationIDs(len(ids))
	return append([]string(nil), ids...), nil
}

// Generators exposes the registry so that Go generators can be added next to configured ones.
func (s *Spec) Generators() *Registry {
	return s.generators
}

// Reflect returns a value source for method and field components evaluated on target.
func (s *Spec) Reflect(target any) *source.Reflect {
	return s.accessors.Source(target)
}

func (s *Spec) Close() error {
	s.cls()
	return s.Logger.Close()
}
