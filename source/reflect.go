package source

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/Borislavv/go-ash-cachespec/model"
	lru "github.com/hashicorp/golang-lru/v2"
)

var (
	// ErrAccessorCall is returned when an accessor method returns a non-nil error.
	ErrAccessorCall = errors.New("source: accessor method failed")

	errorType = reflect.TypeOf((*error)(nil)).Elem()
)

// step is one link of an accessor chain.
type step struct {
	name   string
	method bool
	index  int
}

type planKey struct {
	t      reflect.Type
	name   string
	method bool
}

// plan is the resolved form of a step on one concrete type.
type plan struct {
	found  bool
	method int
	field  []int
}

// Accessors memoizes (type, accessor) resolutions shared by every Reflect source built from it.
type Accessors struct {
	plans *lru.Cache[planKey, plan]
}

func NewAccessors(size int) (*Accessors, error) {
	plans, err := lru.New[planKey, plan](size)
	if err != nil {
		return nil, fmt.Errorf("new accessor cache: %w", err)
	}
	return &Accessors{plans: plans}, nil
}

// Len reports the number of memoized resolutions.
func (a *Accessors) Len() int { return a.plans.Len() }

// Source returns a ValueSource evaluating method and field components against target.
func (a *Accessors) Source(target any) *Reflect {
	return &Reflect{accessors: a, target: reflect.ValueOf(target)}
}

// Reflect serves command components: a method or field component names an accessor on
// the target (by id), optionally continued by a nested method/field chain.
// Document names map onto Go names: "getSku" tries getSku, GetSku, then Sku.
type Reflect struct {
	accessors *Accessors
	target    reflect.Value
}

func (r *Reflect) ComponentValue(c *model.Component) (any, error) {
	if c.IType != model.TypeMethod && c.IType != model.TypeField {
		return nil, nil
	}

	v := r.target
	for _, s := range chain(c) {
		next, err := r.apply(v, s)
		if err != nil {
			return nil, fmt.Errorf("%s %s: %w", kind(s), s.name, err)
		}
		if !next.IsValid() {
			return nil, nil
		}
		v = next
	}
	v = indexed(v, c.Index)
	if !v.IsValid() || !v.CanInterface() || isNilValue(v) {
		return nil, nil
	}
	return v.Interface(), nil
}

func chain(c *model.Component) []step {
	var steps []step
	if c.ID != "" {
		steps = append(steps, step{name: c.ID, method: c.IType == model.TypeMethod, index: -1})
	}
	m, f := c.Method, c.Field
	for m != nil || f != nil {
		if m != nil {
			steps = append(steps, step{name: m.Name, method: true, index: m.Index})
			m, f = m.Method, m.Field
		} else {
			steps = append(steps, step{name: f.Name, index: f.Index})
			m, f = f.Method, f.Field
		}
	}
	return steps
}

// apply resolves s on v. An invalid result means the value is absent.
func (r *Reflect) apply(v reflect.Value, s step) (reflect.Value, error) {
	v = addressable(v)
	if !v.IsValid() {
		return reflect.Value{}, nil
	}

	p := r.resolve(v, s)
	if !p.found {
		return reflect.Value{}, nil
	}

	var out reflect.Value
	if s.method {
		results := v.Method(p.method).Call(nil)
		if len(results) == 2 && !results[1].IsNil() {
			return reflect.Value{}, fmt.Errorf("%w: %w", ErrAccessorCall, results[1].Interface().(error))
		}
		out = results[0]
	} else {
		field, err := v.Elem().FieldByIndexErr(p.field)
		if err != nil {
			return reflect.Value{}, nil
		}
		out = field
	}
	return indexed(out, s.index), nil
}

func (r *Reflect) resolve(v reflect.Value, s step) plan {
	key := planKey{t: v.Type(), name: s.name, method: s.method}
	if p, ok := r.accessors.plans.Get(key); ok {
		return p
	}

	var p plan
	isStruct := v.Kind() == reflect.Pointer && v.Type().Elem().Kind() == reflect.Struct
	for _, name := range goNames(s.name) {
		if !s.method && !isStruct {
			break
		}
		if s.method {
			m, ok := v.Type().MethodByName(name)
			if ok && accessorMethod(m.Type) {
				p = plan{found: true, method: m.Index}
				break
			}
			continue
		}
		if f, ok := v.Type().Elem().FieldByName(name); ok && f.IsExported() {
			p = plan{found: true, field: f.Index}
			break
		}
	}
	r.accessors.plans.Add(key, p)
	return p
}

// accessorMethod accepts func(recv) T and func(recv) (T, error).
func accessorMethod(t reflect.Type) bool {
	if t.NumIn() != 1 {
		return false
	}
	switch t.NumOut() {
	case 1:
		return true
	case 2:
		return t.Out(1) == errorType
	}
	return false
}

func goNames(name string) []string {
	names := []string{name, capitalize(name)}
	if rest, ok := strings.CutPrefix(name, "get"); ok && rest != "" {
		names = append(names, capitalize(rest))
	} else if rest, ok = strings.CutPrefix(name, "is"); ok && rest != "" {
		names = append(names, capitalize(rest))
	}
	return names
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}

// addressable dereferences interfaces and returns a pointer to a struct, so that both
// pointer and value receiver methods are reachable. Non-struct values are returned as is.
func addressable(v reflect.Value) reflect.Value {
	for v.IsValid() && v.Kind() == reflect.Interface {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	if !v.IsValid() {
		return v
	}
	switch v.Kind() {
	case reflect.Pointer:
		if v.IsNil() {
			return reflect.Value{}
		}
		if v.Elem().Kind() == reflect.Struct {
			return v
		}
	case reflect.Struct:
		if v.CanAddr() {
			return v.Addr()
		}
		p := reflect.New(v.Type())
		p.Elem().Set(v)
		return p
	}
	return v
}

// indexed selects element i of a slice or array; i < 0 leaves v unchanged.
func indexed(v reflect.Value, i int) reflect.Value {
	if i < 0 || !v.IsValid() {
		return v
	}
	for v.Kind() == reflect.Interface || v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	if (v.Kind() != reflect.Slice && v.Kind() != reflect.Array) || i >= v.Len() {
		return reflect.Value{}
	}
	return v.Index(i)
}

func isNilValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Interface, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	}
	return false
}

func kind(s step) string {
	if s.method {
		return "method"
	}
	return "field"
}
