package model

// EntryPolicy holds typed values resolved from ConfigEntry properties.
// Nil pointers mean the property was not declared at this level.
type EntryPolicy struct {
	DelayInvalidations bool
	PrimaryStorage     string
	PersistToDisk      *bool
	DoNotCache         *bool
}

// CacheIDPolicy holds typed overrides resolved from CacheID properties.
type CacheIDPolicy struct {
	PersistToDisk *bool
	DoNotCache    *bool
}

func (p *EntryPolicy) Clone() *EntryPolicy {
	if p == nil {
		return nil
	}
	return &EntryPolicy{
		DelayInvalidations: p.DelayInvalidations,
		PrimaryStorage:     p.PrimaryStorage,
		PersistToDisk:      cloneBool(p.PersistToDisk),
		DoNotCache:         cloneBool(p.DoNotCache),
	}
}

func (p *CacheIDPolicy) Clone() *CacheIDPolicy {
	if p == nil {
		return nil
	}
	return &CacheIDPolicy{PersistToDisk: cloneBool(p.PersistToDisk), DoNotCache: cloneBool(p.DoNotCache)}
}

func cloneBool(b *bool) *bool {
	if b == nil {
		return nil
	}
	v := *b
	return &v
}
