package model

// CacheInstance is a named cache partition grouping a subset of entries.
type CacheInstance struct {
	Name               string
	SkipCacheAttribute string
	Entries            []*ConfigEntry
}

func (c *CacheInstance) Clone() *CacheInstance {
	if c == nil {
		return nil
	}
	out := &CacheInstance{Name: c.Name, SkipCacheAttribute: c.SkipCacheAttribute}
	if c.Entries != nil {
		out.Entries = make([]*ConfigEntry, len(c.Entries))
		for i, e := range c.Entries {
			out.Entries[i] = e.Clone()
		}
	}
	return out
}
