package model

// Invalidation produces ids that remove matching cache entries. Either
// InvalidationGenerator names an external hook, or Components are evaluated.
type Invalidation struct {
	BaseName              string
	InvalidationGenerator string
	Components            []*Component
}

func (i *Invalidation) AddComponent(comp *Component) error {
	if comp == nil || comp.IType == TypeUnknown {
		return ErrInvalidComponent
	}
	if i.InvalidationGenerator != "" {
		return ErrGeneratorConflict
	}
	i.Components = append(i.Components, comp)
	return nil
}

func (i *Invalidation) SetInvalidationGenerator(name string) error {
	if len(i.Components) > 0 {
		return ErrGeneratorConflict
	}
	i.InvalidationGenerator = name
	return nil
}

func (i *Invalidation) Clone() *Invalidation {
	if i == nil {
		return nil
	}
	return &Invalidation{
		BaseName:              i.BaseName,
		InvalidationGenerator: i.InvalidationGenerator,
		Components:            cloneComponents(i.Components),
	}
}
