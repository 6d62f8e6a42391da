package generator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/Borislavv/go-ash-cachespec/config"
	"github.com/Borislavv/go-ash-cachespec/internal/processor"
	"github.com/Borislavv/go-ash-cachespec/model"
	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
	"github.com/google/cel-go/common/types/traits"
	"github.com/google/cel-go/ext"
)

const (
	inputsVar = "inputs"
	costLimit = 1_000_000
	noSuchKey = "no such key"

	metaTimeout       = "timeout"
	metaInactivity    = "inactivity"
	metaPriority      = "priority"
	metaPersistToDisk = "persist_to_disk"
)

var (
	ErrUnknownInputType = errors.New("generator: unknown input component type")
	ErrResultType       = errors.New("generator: unexpected expression result type")
	// ErrMissingInput marks an evaluation that read an input the value source did not provide.
	// Generators turn it into an empty result.
	ErrMissingInput = errors.New("generator: expression read an absent input")

	stringSliceType = reflect.TypeOf([]string(nil))
)

type input struct {
	name      string
	component *model.Component
}

// Expression is a generator backed by a compiled CEL program. The same value
// serves as an id, metadata or invalidation generator depending on where it is registered.
type Expression struct {
	name    string
	inputs  []input
	program cel.Program
}

func newEnv() (*cel.Env, error) {
	env, err := cel.NewEnv(
		cel.Variable(inputsVar, cel.MapType(cel.StringType, cel.DynType)),
		ext.Strings(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}
	return env, nil
}

// Compile builds an Expression generator from its configuration.
func Compile(env *cel.Env, name string, cfg *config.GeneratorCfg) (*Expression, error) {
	gen := &Expression{name: name}
	for _, in := range cfg.Inputs {
		t, ok := model.ParseComponentType(in.Type)
		if !ok {
			return nil, fmt.Errorf("%w: %q in generator %s", ErrUnknownInputType, in.Type, name)
		}
		comp := model.NewComponent(t)
		comp.ID = in.ID
		gen.inputs = append(gen.inputs, input{name: in.Name, component: comp})
	}

	ast, issues := env.Compile(cfg.Expression)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile error in generator %s: %w", name, issues.Err())
	}
	prog, err := env.Program(ast, cel.CostLimit(costLimit))
	if err != nil {
		return nil, fmt.Errorf("program creation error in generator %s: %w", name, err)
	}
	gen.program = prog
	return gen, nil
}

// FromConfig compiles every generator declared in cfg into a new Registry.
func FromConfig(cfg *config.GeneratorsCfg) (*Registry, error) {
	reg := NewRegistry()
	if !cfg.Enabled() {
		return reg, nil
	}

	env, err := newEnv()
	if err != nil {
		return nil, err
	}

	for name, gc := range cfg.ID {
		if gc == nil {
			continue
		}
		gen, err := Compile(env, name, gc)
		if err != nil {
			return nil, err
		}
		reg.RegisterID(name, gen)
	}
	for name, gc := range cfg.MetaData {
		if gc == nil {
			continue
		}
		gen, err := Compile(env, name, gc)
		if err != nil {
			return nil, err
		}
		reg.RegisterMetaData(name, gen)
	}
	for name, gc := range cfg.Invalidation {
		if gc == nil {
			continue
		}
		gen, err := Compile(env, name, gc)
		if err != nil {
			return nil, err
		}
		reg.RegisterInvalidation(name, gen)
	}
	return reg, nil
}

func (e *Expression) eval(src processor.ValueSource) (ref.Val, error) {
	inputs := make(map[string]any, len(e.inputs))
	absent := false
	for _, in := range e.inputs {
		v, err := src.ComponentValue(in.component)
		if err != nil {
			return nil, fmt.Errorf("input %s of generator %s: %w", in.name, e.name, err)
		}
		if v = normalize(v); v != nil {
			inputs[in.name] = v
		} else {
			absent = true
		}
	}

	out, _, err := e.program.Eval(map[string]any{inputsVar: inputs})
	if err != nil {
		if absent && strings.Contains(err.Error(), noSuchKey) {
			return nil, fmt.Errorf("%w: generator %s: %v", ErrMissingInput, e.name, err)
		}
		return nil, fmt.Errorf("evaluate generator %s: %w", e.name, err)
	}
	return out, nil
}

func (e *Expression) GenerateID(_ *model.CacheID, src processor.ValueSource) (string, error) {
	out, err := e.eval(src)
	if errors.Is(err, ErrMissingInput) {
		return "", nil
	} else if err != nil {
		return "", err
	}
	id, ok := out.Value().(string)
	if !ok {
		return "", fmt.Errorf("%w: generator %s returned %s, want string", ErrResultType, e.name, out.Type().TypeName())
	}
	return id, nil
}

func (e *Expression) GenerateInvalidationIDs(_ *model.Invalidation, src processor.ValueSource) ([]string, error) {
	out, err := e.eval(src)
	if errors.Is(err, ErrMissingInput) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	native, err := out.ConvertToNative(stringSliceType)
	if err != nil {
		return nil, fmt.Errorf("%w: generator %s: %w", ErrResultType, e.name, err)
	}
	return native.([]string), nil
}

func (e *Expression) GenerateMetaData(_ *model.CacheID, src processor.ValueSource, info processor.EntryInfo) error {
	out, err := e.eval(src)
	if errors.Is(err, ErrMissingInput) {
		return nil
	} else if err != nil {
		return err
	}
	m, ok := out.(traits.Mapper)
	if !ok {
		return fmt.Errorf("%w: generator %s returned %s, want map", ErrResultType, e.name, out.Type().TypeName())
	}

	if v, ok := intField(m, metaTimeout); ok {
		info.SetTimeout(v)
	}
	if v, ok := intField(m, metaInactivity); ok {
		info.SetInactivity(v)
	}
	if v, ok := intField(m, metaPriority); ok {
		info.SetPriority(v)
	}
	if v, found := m.Find(types.String(metaPersistToDisk)); found {
		if b, ok := v.Value().(bool); ok {
			info.SetPersistToDisk(b)
		}
	}
	return nil
}

func intField(m traits.Mapper, key string) (int, bool) {
	v, found := m.Find(types.String(key))
	if !found {
		return 0, false
	}
	switch n := v.Value().(type) {
	case int64:
		return int(n), true
	case uint64:
		return int(n), true
	}
	return 0, false
}

// normalize renders a component value as a string or a list of strings.
func normalize(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		return t
	case []byte:
		return string(t)
	case []string:
		return t
	case fmt.Stringer:
		return t.String()
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil
		}
	case reflect.Slice, reflect.Array:
		out := make([]string, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			if e := normalize(rv.Index(i).Interface()); e != nil {
				out = append(out, fmt.Sprint(e))
			}
		}
		return out
	}
	return fmt.Sprint(v)
}
