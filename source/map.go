package source

import (
	"strings"

	"github.com/Borislavv/go-ash-cachespec/model"
)

// Map serves component values from static data, keyed by component type and then id:
//
//	parameter:
//	  uid: "42"
//	attribute:
//	  roles: [admin, editor]
//	locale: en_US
//
// A scalar under a type answers components of that type that declare no id.
type Map struct {
	values map[string]any
}

// NewMap wraps values; type keys are matched case-insensitively.
func NewMap(values map[string]any) *Map {
	m := &Map{values: make(map[string]any, len(values))}
	for t, v := range values {
		m.values[strings.ToLower(t)] = v
	}
	return m
}

// Set stores the value of the component (t, id) and returns m.
func (m *Map) Set(t model.ComponentType, id string, v any) *Map {
	key := strings.ToLower(t.String())
	inner, ok := m.values[key].(map[string]any)
	if !ok {
		inner = make(map[string]any)
		m.values[key] = inner
	}
	inner[id] = v
	return m
}

func (m *Map) ComponentValue(c *model.Component) (any, error) {
	v, ok := m.values[strings.ToLower(c.Type)]
	if !ok {
		return nil, nil
	}
	if inner, ok := v.(map[string]any); ok {
		return inner[c.ID], nil
	}
	if c.ID == "" {
		return v, nil
	}
	return nil, nil
}
