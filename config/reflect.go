package config

const DefaultAccessorCacheSize = 1024

type ReflectCfg struct {
	// AccessorCacheSize bounds the number of memoized (type, accessor) lookups.
	AccessorCacheSize int `yaml:"accessor_cache_size"`
}

func (cfg *ReflectCfg) Enabled() bool {
	return cfg != nil
}
