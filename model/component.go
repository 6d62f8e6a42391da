package model

// Component is the atomic comparison unit of a cache id, dependency id or invalidation.
type Component struct {
	Type        string
	IType       ComponentType
	ID          string
	IgnoreValue bool
	MultipleIDs bool
	Required    bool
	Index       int

	Method *Method
	Field  *Field

	Values         map[string]*Value
	NotValues      map[string]*NotValue
	ValueRanges    []Range
	NotValueRanges []Range
}

func NewComponent(t ComponentType) *Component {
	return &Component{
		Type:      t.String(),
		IType:     t,
		Required:  true,
		Index:     -1,
		Values:    make(map[string]*Value),
		NotValues: make(map[string]*NotValue),
	}
}

// Name is the label used when the component contributes to a cache id.
func (c *Component) Name() string {
	if c.ID != "" {
		return c.ID
	}
	return c.Type
}

// SetMethod assigns the accessor chain. The first of method/field wins.
func (c *Component) SetMethod(m *Method) error {
	if c.Method != nil || c.Field != nil {
		return ErrAccessorConflict
	}
	c.Method = m
	return nil
}

// SetField assigns the accessor chain. The first of method/field wins.
func (c *Component) SetField(f *Field) error {
	if c.Method != nil || c.Field != nil {
		return ErrAccessorConflict
	}
	c.Field = f
	return nil
}

func (c *Component) AddValue(v string) {
	if c.Values == nil {
		c.Values = make(map[string]*Value)
	}
	c.Values[v] = &Value{Value: v}
}

func (c *Component) AddNotValue(v string) {
	if c.NotValues == nil {
		c.NotValues = make(map[string]*NotValue)
	}
	c.NotValues[v] = &NotValue{Value: v}
}

// HasPositive reports whether any value or value range constrains the component.
func (c *Component) HasPositive() bool {
	return len(c.Values) > 0 || len(c.ValueRanges) > 0
}

// HasNegative reports whether any not-value or not-value range constrains the component.
func (c *Component) HasNegative() bool {
	return len(c.NotValues) > 0 || len(c.NotValueRanges) > 0
}

// MatchesPositive is the literal-or-range test against the positive constraints.
func (c *Component) MatchesPositive(v string) bool {
	if _, ok := c.Values[v]; ok {
		return true
	}
	return inRanges(v, c.ValueRanges)
}

// MatchesNegative is the literal-or-range test against the negative constraints.
func (c *Component) MatchesNegative(v string) bool {
	if _, ok := c.NotValues[v]; ok {
		return true
	}
	return inRanges(v, c.NotValueRanges)
}

// Accepts applies positive constraints and then the negative veto to v.
func (c *Component) Accepts(v string) bool {
	ok := true
	if c.HasPositive() {
		ok = c.MatchesPositive(v)
	}
	if c.HasNegative() {
		ok = ok && !c.MatchesNegative(v)
	}
	return ok
}

func (c *Component) Clone() *Component {
	if c == nil {
		return nil
	}
	out := *c
	out.Method = c.Method.Clone()
	out.Field = c.Field.Clone()
	out.Values = make(map[string]*Value, len(c.Values))
	for k, v := range c.Values {
		out.Values[k] = v.Clone()
	}
	out.NotValues = make(map[string]*NotValue, len(c.NotValues))
	for k, v := range c.NotValues {
		out.NotValues[k] = v.Clone()
	}
	out.ValueRanges = cloneRanges(c.ValueRanges)
	out.NotValueRanges = cloneRanges(c.NotValueRanges)
	return &out
}

func cloneComponents(in []*Component) []*Component {
	if in == nil {
		return nil
	}
	out := make([]*Component, len(in))
	for i, c := range in {
		out[i] = c.Clone()
	}
	return out
}
