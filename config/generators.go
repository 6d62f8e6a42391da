package config

// GeneratorsCfg declares CEL-backed generators by name.
type GeneratorsCfg struct {
	// ID generators must evaluate to a string; an empty string means "no id".
	ID map[string]*GeneratorCfg `yaml:"id"`

	// MetaData generators must evaluate to a map; recognised keys are
	// "timeout", "inactivity", "priority" (ints) and "persist_to_disk" (bool).
	MetaData map[string]*GeneratorCfg `yaml:"metadata"`

	// Invalidation generators must evaluate to a list of strings.
	Invalidation map[string]*GeneratorCfg `yaml:"invalidation"`
}

type GeneratorCfg struct {
	// Inputs are fetched from the value source and exposed to the expression
	// as the map variable "inputs", keyed by GeneratorInput.Name.
	Inputs []GeneratorInput `yaml:"inputs"`

	// Expression is a CEL expression, e.g.:
	//   has(inputs.uid) ? "u-" + inputs.uid : ""
	// Inputs the value source does not provide are left out of "inputs"; guard them with has().
	// An unguarded read of an absent input yields an empty result: no id, no invalidation ids,
	// no metadata changes.
	Expression string `yaml:"expression"`
}

type GeneratorInput struct {
	// Type is a component type spelling, e.g. "parameter" or "cookie".
	Type string `yaml:"type"`
	// ID selects the value within the type, e.g. the parameter name.
	ID string `yaml:"id"`
	// Name is the key under "inputs"; defaults to ID, then Type.
	Name string `yaml:"name"`
}

func (cfg *GeneratorsCfg) Enabled() bool {
	return cfg != nil
}
