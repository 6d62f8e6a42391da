package model

// DependencyID produces group ids used for bulk invalidation.
type DependencyID struct {
	BaseName   string
	Components []*Component
}

func (d *DependencyID) AddComponent(comp *Component) error {
	if comp == nil || comp.IType == TypeUnknown {
		return ErrInvalidComponent
	}
	d.Components = append(d.Components, comp)
	return nil
}

func (d *DependencyID) Clone() *DependencyID {
	if d == nil {
		return nil
	}
	return &DependencyID{BaseName: d.BaseName, Components: cloneComponents(d.Components)}
}
