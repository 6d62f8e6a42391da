package model

// CacheID is one strategy for building a cache id. Either IDGenerator names an external
// hook, or Components are evaluated in order.
type CacheID struct {
	DisplayName       string
	Timeout           int
	Inactivity        int
	Priority          int
	IDGenerator       string
	MetaDataGenerator string
	Components        []*Component
	Properties        map[string]*Property

	// Resolved is filled once at load time, see processor.PreProcess.
	Resolved *CacheIDPolicy
}

// Unset is the value of timeout and inactivity when a cache-id does not declare them.
const Unset = -1

func NewCacheID() *CacheID {
	return &CacheID{
		Timeout:    Unset,
		Inactivity: Unset,
		Properties: make(map[string]*Property),
	}
}

// AddComponent appends c unless an id generator was already set.
func (c *CacheID) AddComponent(comp *Component) error {
	if comp == nil || comp.IType == TypeUnknown {
		return ErrInvalidComponent
	}
	if c.IDGenerator != "" {
		return ErrGeneratorConflict
	}
	c.Components = append(c.Components, comp)
	return nil
}

// SetIDGenerator sets the generator unless components were already added.
func (c *CacheID) SetIDGenerator(name string) error {
	if len(c.Components) > 0 {
		return ErrGeneratorConflict
	}
	c.IDGenerator = name
	return nil
}

func (c *CacheID) Clone() *CacheID {
	if c == nil {
		return nil
	}
	out := *c
	out.Components = cloneComponents(c.Components)
	out.Properties = cloneProperties(c.Properties)
	out.Resolved = c.Resolved.Clone()
	return &out
}
