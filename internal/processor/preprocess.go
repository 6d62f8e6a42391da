package processor

import (
	"strings"

	"github.com/Borislavv/go-ash-cachespec/model"
)

// PreProcess resolves the string properties of entry and its cache ids into typed
// policy records. It must run at load time, before the entry is shared between
// evaluations. Running it again yields the same records.
func PreProcess(entry *model.ConfigEntry) {
	entry.Resolved = resolveEntry(entry)
	for _, cid := range entry.CacheIDs {
		cid.Resolved = resolveCacheID(cid)
	}
}

func resolveEntry(entry *model.ConfigEntry) *model.EntryPolicy {
	p := &model.EntryPolicy{
		PrimaryStorage: model.PrimaryStorageMemory,
		PersistToDisk:  boolProperty(entry.Properties, model.PropertyPersistToDisk),
		DoNotCache:     boolProperty(entry.Properties, model.PropertyDoNotCache),
	}
	if delay := boolProperty(entry.Properties, model.PropertyDelayInvalidations); delay != nil {
		p.DelayInvalidations = *delay
	}
	if prop, ok := entry.Properties[model.PropertyPrimaryStorage]; ok && model.IsValidPrimaryStorage(prop.Value) {
		p.PrimaryStorage = prop.Value
	}
	return p
}

func resolveCacheID(cid *model.CacheID) *model.CacheIDPolicy {
	return &model.CacheIDPolicy{
		PersistToDisk: boolProperty(cid.Properties, model.PropertyPersistToDisk),
		DoNotCache:    boolProperty(cid.Properties, model.PropertyDoNotCache),
	}
}

// boolProperty is nil when the property is not declared.
func boolProperty(props map[string]*model.Property, name string) *bool {
	prop, ok := props[name]
	if !ok || prop == nil {
		return nil
	}
	v := strings.EqualFold(strings.TrimSpace(prop.Value), "true")
	return &v
}

func entryPolicy(entry *model.ConfigEntry) *model.EntryPolicy {
	if entry.Resolved != nil {
		return entry.Resolved
	}
	return resolveEntry(entry)
}

func cacheIDPolicy(cid *model.CacheID) *model.CacheIDPolicy {
	if cid.Resolved != nil {
		return cid.Resolved
	}
	return resolveCacheID(cid)
}
