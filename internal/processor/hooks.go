package processor

import (
	"github.com/Borislavv/go-ash-cachespec/model"
)

// ValueSource retrieves the runtime value of a component. A nil value means the
// value is absent. Slices and arrays are treated as multi-valued results.
type ValueSource interface {
	ComponentValue(c *model.Component) (any, error)
}

// EntryInfo receives the identity and policy of a cacheable evaluation.
type EntryInfo interface {
	SetID(id string)
	SetTemplate(template string)
	SetSharingPolicy(policy model.SharingPolicy)
	SetPersistToDisk(persist bool)
	SetPrimaryStorage(storage string)
	SetDoNotCache(doNotCache bool)
	SetTimeout(seconds int)
	SetInactivity(seconds int)
	SetPriority(priority int)
	AddDependencyID(id string)
}

// IDGenerator builds the variable part of a cache id. An empty result means no id.
type IDGenerator interface {
	GenerateID(cid *model.CacheID, src ValueSource) (string, error)
}

// MetaDataGenerator adjusts the policy of an entry after its id is known.
type MetaDataGenerator interface {
	GenerateMetaData(cid *model.CacheID, src ValueSource, info EntryInfo) error
}

// InvalidationGenerator produces invalidation ids for an invalidation rule.
type InvalidationGenerator interface {
	GenerateInvalidationIDs(inv *model.Invalidation, src ValueSource) ([]string, error)
}

// Generators resolves generator names declared in a document.
type Generators interface {
	IDGenerator(name string) (IDGenerator, bool)
	MetaDataGenerator(name string) (MetaDataGenerator, bool)
	InvalidationGenerator(name string) (InvalidationGenerator, bool)
}

type noGenerators struct{}

func (noGenerators) IDGenerator(string) (IDGenerator, bool)                     { return nil, false }
func (noGenerators) MetaDataGenerator(string) (MetaDataGenerator, bool)         { return nil, false }
func (noGenerators) InvalidationGenerator(string) (InvalidationGenerator, bool) { return nil, false }
