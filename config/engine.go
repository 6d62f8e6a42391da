package config

// Engine groups the options of the cache-identity engine.
// Optional subsystems are pointers; a nil pointer disables them.
type Engine struct {
	// Compat602 enables the legacy leniency under which an optional component whose value
	// fails its value/not-value constraints still counts as matched.
	// It is the default for every cache instance; see Instances for overrides.
	Compat602 bool `yaml:"compat_602"`

	// AppName is copied into every loaded entry.
	AppName string `yaml:"app_name"`

	// AppContext maps an entry class (servlet, static, webservice, portlet, command)
	// to the URI prefix used to qualify that entry's template names.
	// Example:
	//   servlet: /myapp
	AppContext map[string]string `yaml:"app_context"`

	// Instances holds per cache-instance overrides keyed by instance name.
	// The empty name addresses entries that are not scoped to an instance.
	Instances map[string]*InstanceCfg `yaml:"instances"`

	// Generators declares expression-backed id, metadata and invalidation generators
	// addressable by name from <idgenerator>, <metadatagenerator> and <invalidationgenerator>.
	// If nil, only generators registered from Go code are available.
	Generators *GeneratorsCfg `yaml:"generators"`

	// Telemetry configures evaluation counters reporting.
	// If nil, counters are still kept but never logged or exported.
	Telemetry *TelemetryCfg `yaml:"telemetry"`

	// Reflect configures the reflection-based value source used for command objects.
	Reflect *ReflectCfg `yaml:"reflect"`
}

type InstanceCfg struct {
	// Compat602 overrides Engine.Compat602 for one cache instance when set.
	Compat602 *bool `yaml:"compat_602"`
}

// Compat602For resolves the leniency switch for the named cache instance.
func (cfg *Engine) Compat602For(instance string) bool {
	if cfg == nil {
		return false
	}
	if inst, ok := cfg.Instances[instance]; ok && inst != nil && inst.Compat602 != nil {
		return *inst.Compat602
	}
	return cfg.Compat602
}

// Prefix returns the app context prefix for an entry class, if any.
func (cfg *Engine) Prefix(className string) (string, bool) {
	if cfg == nil || cfg.AppContext == nil {
		return "", false
	}
	p, ok := cfg.AppContext[className]
	return p, ok
}
