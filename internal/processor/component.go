package processor

import (
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/Borislavv/go-ash-cachespec/model"
)

// processComponent evaluates comp and appends its contribution. A nil dep means comp
// belongs to a cache id and writes "name=value" into the id; otherwise comp belongs to a
// dependency id or invalidation and writes the bare value into dep.
func (p *Processor) processComponent(comp *model.Component, dep *strings.Builder) (bool, error) {
	raw, err := p.src.ComponentValue(comp)
	if err != nil {
		return false, fmt.Errorf("component %s: %w", comp.Name(), err)
	}

	elems, isList := flatten(raw)
	fanOut := dep != nil && comp.MultipleIDs && comp.IType.IsMultiValued() && len(elems) > 1

	var (
		value    string
		hasValue bool
		primary  = -1
	)
	switch {
	case isList && fanOut:
		// the first accepted element is the match value; with none accepted the
		// first element stands in so the required and compat_602 rules still apply
		value, hasValue = elems[0], true
		if primary = slices.IndexFunc(elems, comp.Accepts); primary >= 0 {
			value = elems[primary]
		}
	case isList:
		value, hasValue = join(elems)
	case !isNil(raw):
		value, hasValue = stringify(raw), true
	}

	var ok bool
	if hasValue {
		ok = comp.Accepts(value)
		if !ok && !comp.Required && p.compat602 {
			ok = true
		}
	} else {
		ok = !comp.Required
	}
	if !ok || !hasValue {
		return ok, nil
	}

	if dep == nil {
		p.id.WriteByte(':')
		p.id.WriteString(comp.Name())
		if !comp.IgnoreValue {
			p.id.WriteByte('=')
			p.id.WriteString(value)
		}
		return true, nil
	}

	current := dep.String()
	if !comp.IgnoreValue {
		dep.WriteByte(':')
		dep.WriteString(value)
		for i := range p.multipleIDs {
			p.multipleIDs[i] += ":" + value
		}
	}
	if fanOut && primary >= 0 {
		for i, elem := range elems {
			if i != primary && comp.Accepts(elem) {
				p.multipleIDs = append(p.multipleIDs, current+":"+elem)
			}
		}
	}
	return true, nil
}

// flatten turns a slice or array value into its non-nil elements rendered as strings.
// The second result reports whether v was a list at all.
func flatten(v any) ([]string, bool) {
	switch t := v.(type) {
	case nil, string, []byte:
		return nil, false
	case []string:
		return t, true
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			if !isNil(e) {
				out = append(out, stringify(e))
			}
		}
		return out, true
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]string, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		e := rv.Index(i).Interface()
		if !isNil(e) {
			out = append(out, stringify(e))
		}
	}
	return out, true
}

// join renders a multi-valued result as one comma separated value. An empty list has no value.
func join(elems []string) (string, bool) {
	if len(elems) == 0 {
		return "", false
	}
	return strings.Join(elems, ","), true
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []byte:
		return string(t)
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(v)
	}
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Interface, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
