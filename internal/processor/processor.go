package processor

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/Borislavv/go-ash-cachespec/config"
	"github.com/Borislavv/go-ash-cachespec/model"
)

const unset = model.Unset

// Processor evaluates one ConfigEntry against one ValueSource.
// Call order: Reset, Execute, then ID / SetEntryInfo / DependencyIDs / InvalidationIDs.
// A Processor is not safe for concurrent use; reuse it only across a Reset.
type Processor struct {
	cfg    *config.Engine
	gens   Generators
	logger *slog.Logger

	entry     *model.ConfigEntry
	src       ValueSource
	compat602 bool

	cacheable          bool
	delayInvalidations bool
	id                 strings.Builder
	metaData           *model.CacheID

	sharing       model.SharingPolicy
	persistToDisk bool
	doNotCache    bool
	timeout       int
	inactivity    int
	priority      int

	dependencyIDs   []string
	invalidationIDs []string
	// multipleIDs collects ids fanned out by multipleIDs components of the
	// dependency id or invalidation being evaluated.
	multipleIDs []string
}

// New returns a Processor. A nil gens resolves no generator names, a nil logger discards logs.
func New(cfg *config.Engine, gens Generators, logger *slog.Logger) *Processor {
	if gens == nil {
		gens = noGenerators{}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Processor{cfg: cfg, gens: gens, logger: logger}
}

// Reset clears every per-call field and binds the processor to entry and src.
func (p *Processor) Reset(entry *model.ConfigEntry, src ValueSource) {
	p.entry = entry
	p.src = src
	p.compat602 = p.cfg.Compat602For(entry.InstanceName)

	p.cacheable = false
	p.delayInvalidations = false
	p.id.Reset()
	p.metaData = nil

	p.sharing = entry.SharingPolicy
	p.persistToDisk = true
	p.doNotCache = false
	p.timeout = unset
	p.inactivity = unset
	p.priority = unset

	p.dependencyIDs = p.dependencyIDs[:0]
	p.invalidationIDs = p.invalidationIDs[:0]
	p.multipleIDs = p.multipleIDs[:0]
}

// Execute computes the cache id, invalidation ids and dependency ids of the bound entry.
// It reports whether the entry is cacheable. Errors come only from the value source and generators.
func (p *Processor) Execute() (bool, error) {
	if p.entry == nil {
		return false, ErrNotReset
	}

	for _, cid := range p.entry.CacheIDs {
		ok, err := p.processCacheID(cid)
		if err != nil {
			return false, err
		}
		if ok {
			p.cacheable = true
			break
		}
	}
	if !p.cacheable {
		p.id.Reset()
	}

	if p.entry.IsCommand() && entryPolicy(p.entry).DelayInvalidations {
		p.delayInvalidations = true
	} else if err := p.processInvalidations(); err != nil {
		return false, err
	}

	for _, dep := range p.entry.DependencyIDs {
		if err := p.processDependencyID(dep); err != nil {
			return false, err
		}
	}
	return p.cacheable, nil
}

// ID returns the computed cache id, or "" when the entry is not cacheable.
func (p *Processor) ID() string {
	if !p.cacheable {
		return ""
	}
	return p.id.String()
}

func (p *Processor) Cacheable() bool { return p.cacheable }

// DelayInvalidations reports whether invalidations were left for ProcessDelayedInvalidations.
func (p *Processor) DelayInvalidations() bool { return p.delayInvalidations }

func (p *Processor) DoNotCache() bool { return p.doNotCache }

func (p *Processor) DependencyIDs() []string { return p.dependencyIDs }

func (p *Processor) InvalidationIDs() []string { return p.invalidationIDs }

// SetEntryInfo hands the identity and policy of a cacheable evaluation to info.
// It does nothing when the entry is not cacheable.
func (p *Processor) SetEntryInfo(info EntryInfo) error {
	if !p.cacheable {
		return nil
	}

	info.SetID(p.id.String())
	info.SetTemplate(p.entry.Name)
	info.SetSharingPolicy(p.sharing)
	info.SetPersistToDisk(p.persistToDisk)
	info.SetPrimaryStorage(entryPolicy(p.entry).PrimaryStorage)
	info.SetDoNotCache(p.doNotCache)
	info.SetTimeout(p.timeout)
	info.SetInactivity(p.inactivity)
	if p.priority > 0 {
		info.SetPriority(p.priority)
	}
	for _, id := range p.dependencyIDs {
		info.AddDependencyID(id)
	}

	if p.metaData == nil {
		return nil
	}
	gen, ok := p.gens.MetaDataGenerator(p.metaData.MetaDataGenerator)
	if !ok {
		p.logger.Debug("metadata generator not registered", "entry", p.entry.Name, "generator", p.metaData.MetaDataGenerator)
		return nil
	}
	if err := gen.GenerateMetaData(p.metaData, p.src, info); err != nil {
		return fmt.Errorf("metadata generator %s: %w", p.metaData.MetaDataGenerator, err)
	}
	return nil
}

// ProcessDelayedInvalidations computes the invalidation ids of a command whose
// invalidations were delayed until after it ran. A non-nil src replaces the bound source.
func (p *Processor) ProcessDelayedInvalidations(src ValueSource) ([]string, error) {
	if p.entry == nil {
		return nil, ErrNotReset
	}
	if src != nil {
		p.src = src
	}
	p.invalidationIDs = p.invalidationIDs[:0]
	if err := p.processInvalidations(); err != nil {
		return nil, err
	}
	p.delayInvalidations = false
	return p.invalidationIDs, nil
}

func (p *Processor) processCacheID(cid *model.CacheID) (bool, error) {
	p.id.Reset()
	p.id.WriteString(p.entry.Name)

	if cid.IDGenerator != "" {
		gen, ok := p.gens.IDGenerator(cid.IDGenerator)
		if !ok {
			p.logger.Debug("id generator not registered", "entry", p.entry.Name, "generator", cid.IDGenerator)
			return false, nil
		}
		id, err := gen.GenerateID(cid, p.src)
		if err != nil {
			return false, fmt.Errorf("id generator %s: %w", cid.IDGenerator, err)
		}
		if id == "" {
			return false, nil
		}
		p.id.WriteByte(':')
		p.id.WriteString(id)
	} else {
		for _, comp := range cid.Components {
			ok, err := p.processComponent(comp, nil)
			if err != nil || !ok {
				return false, err
			}
		}
	}

	p.priority = cid.Priority
	p.timeout = cid.Timeout
	p.inactivity = cid.Inactivity
	p.metaData = nil
	if cid.MetaDataGenerator != "" {
		p.metaData = cid
	}

	entry := entryPolicy(p.entry)
	if entry.PersistToDisk != nil {
		p.persistToDisk = *entry.PersistToDisk
	}
	if entry.DoNotCache != nil {
		p.doNotCache = *entry.DoNotCache
	}
	override := cacheIDPolicy(cid)
	if override.PersistToDisk != nil {
		p.persistToDisk = *override.PersistToDisk
	}
	if override.DoNotCache != nil {
		p.doNotCache = *override.DoNotCache
	}
	return true, nil
}

func (p *Processor) processDependencyID(dep *model.DependencyID) error {
	var buf strings.Builder
	buf.WriteString(dep.BaseName)
	p.multipleIDs = p.multipleIDs[:0]

	for _, comp := range dep.Components {
		ok, err := p.processComponent(comp, &buf)
		if err != nil || !ok {
			return err
		}
	}

	p.dependencyIDs = appendIDs(p.dependencyIDs, buf.String(), p.multipleIDs)
	return nil
}

func (p *Processor) processInvalidations() error {
	for _, inv := range p.entry.Invalidations {
		if err := p.processInvalidation(inv); err != nil {
			return err
		}
	}
	return nil
}

func (p *Processor) processInvalidation(inv *model.Invalidation) error {
	if inv.InvalidationGenerator != "" {
		gen, ok := p.gens.InvalidationGenerator(inv.InvalidationGenerator)
		if !ok {
			p.logger.Debug("invalidation generator not registered", "entry", p.entry.Name, "generator", inv.InvalidationGenerator)
			return nil
		}
		ids, err := gen.GenerateInvalidationIDs(inv, p.src)
		if err != nil {
			return fmt.Errorf("invalidation generator %s: %w", inv.InvalidationGenerator, err)
		}
		for _, id := range ids {
			if inv.BaseName != "" {
				id = inv.BaseName + ":" + id
			}
			p.invalidationIDs = append(p.invalidationIDs, id)
		}
		return nil
	}

	var buf strings.Builder
	buf.WriteString(inv.BaseName)
	p.multipleIDs = p.multipleIDs[:0]

	for _, comp := range inv.Components {
		ok, err := p.processComponent(comp, &buf)
		if err != nil || !ok {
			return err
		}
	}

	p.invalidationIDs = appendIDs(p.invalidationIDs, buf.String(), p.multipleIDs)
	return nil
}

func appendIDs(dst []string, id string, multiple []string) []string {
	if id != "" {
		dst = append(dst, id)
	}
	for _, m := range multiple {
		if m != "" {
			dst = append(dst, m)
		}
	}
	return dst
}
