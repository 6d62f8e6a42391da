package model

// Method is one step of an accessor chain: call Name on the current object,
// optionally select Index from the result, then continue with Method or Field.
type Method struct {
	Name   string
	Index  int
	Method *Method
	Field  *Field
}

// Field is the field counterpart of Method.
type Field struct {
	Name   string
	Index  int
	Method *Method
	Field  *Field
}

func NewMethod(name string) *Method { return &Method{Name: name, Index: -1} }
func NewField(name string) *Field   { return &Field{Name: name, Index: -1} }

// SetNext attaches the following step of the chain. Exactly one of m, f may be set.
func (m *Method) SetNext(next *Method, f *Field) error {
	if m.Method != nil || m.Field != nil || (next != nil && f != nil) {
		return ErrAccessorConflict
	}
	m.Method, m.Field = next, f
	return nil
}

// SetNext attaches the following step of the chain. Exactly one of m, f may be set.
func (f *Field) SetNext(m *Method, next *Field) error {
	if f.Method != nil || f.Field != nil || (m != nil && next != nil) {
		return ErrAccessorConflict
	}
	f.Method, f.Field = m, next
	return nil
}

func (m *Method) Clone() *Method {
	if m == nil {
		return nil
	}
	return &Method{Name: m.Name, Index: m.Index, Method: m.Method.Clone(), Field: m.Field.Clone()}
}

func (f *Field) Clone() *Field {
	if f == nil {
		return nil
	}
	return &Field{Name: f.Name, Index: f.Index, Method: f.Method.Clone(), Field: f.Field.Clone()}
}
