package generator

import (
	"slices"
	"sync"

	"github.com/Borislavv/go-ash-cachespec/internal/processor"
	"github.com/Borislavv/go-ash-cachespec/model"
)

// IDFunc adapts a function to processor.IDGenerator.
type IDFunc func(cid *model.CacheID, src processor.ValueSource) (string, error)

func (f IDFunc) GenerateID(cid *model.CacheID, src processor.ValueSource) (string, error) {
	return f(cid, src)
}

// MetaDataFunc adapts a function to processor.MetaDataGenerator.
type MetaDataFunc func(cid *model.CacheID, src processor.ValueSource, info processor.EntryInfo) error

func (f MetaDataFunc) GenerateMetaData(cid *model.CacheID, src processor.ValueSource, info processor.EntryInfo) error {
	return f(cid, src, info)
}

// InvalidationFunc adapts a function to processor.InvalidationGenerator.
type InvalidationFunc func(inv *model.Invalidation, src processor.ValueSource) ([]string, error)

func (f InvalidationFunc) GenerateInvalidationIDs(inv *model.Invalidation, src processor.ValueSource) ([]string, error) {
	return f(inv, src)
}

// Registry maps generator names used in documents to implementations.
// Lookups may run concurrently with registration.
type Registry struct {
	mu            sync.RWMutex
	ids           map[string]processor.IDGenerator
	metaData      map[string]processor.MetaDataGenerator
	invalidations map[string]processor.InvalidationGenerator
}

func NewRegistry() *Registry {
	return &Registry{
		ids:           make(map[string]processor.IDGenerator),
		metaData:      make(map[string]processor.MetaDataGenerator),
		invalidations: make(map[string]processor.InvalidationGenerator),
	}
}

func (r *Registry) RegisterID(name string, gen processor.IDGenerator) {
	r.mu.Lock()
	r.ids[name] = gen
	r.mu.Unlock()
}

func (r *Registry) RegisterMetaData(name string, gen processor.MetaDataGenerator) {
	r.mu.Lock()
	r.metaData[name] = gen
	r.mu.Unlock()
}

func (r *Registry) RegisterInvalidation(name string, gen processor.InvalidationGenerator) {
	r.mu.Lock()
	r.invalidations[name] = gen
	r.mu.Unlock()
}

func (r *Registry) IDGenerator(name string) (processor.IDGenerator, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	gen, ok := r.ids[name]
	return gen, ok
}

func (r *Registry) MetaDataGenerator(name string) (processor.MetaDataGenerator, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	gen, ok := r.metaData[name]
	return gen, ok
}

func (r *Registry) InvalidationGenerator(name string) (processor.InvalidationGenerator, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	gen, ok := r.invalidations[name]
	return gen, ok
}

// Names lists registered generator names per kind in lexical order.
func (r *Registry) Names() (ids, metaData, invalidations []string) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for name := range r.ids {
		ids = append(ids, name)
	}
	for name := range r.metaData {
		metaData = append(metaData, name)
	}
	for name := range r.invalidations {
		invalidations = append(invalidations, name)
	}
	slices.Sort(ids)
	slices.Sort(metaData)
	slices.Sort(invalidations)
	return ids, metaData, invalidations
}
