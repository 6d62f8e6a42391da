package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Default returns an Engine with every optional subsystem at its defaults.
func Default() *Engine {
	cfg := &Engine{}
	cfg.AdjustConfig()
	return cfg
}

func (cfg *Engine) AdjustConfig() {
	if !cfg.Reflect.Enabled() {
		cfg.Reflect = &ReflectCfg{}
	}
	if cfg.Reflect.AccessorCacheSize <= 0 {
		cfg.Reflect.AccessorCacheSize = DefaultAccessorCacheSize
	}

	if len(cfg.AppContext) > 0 {
		normalized := make(map[string]string, len(cfg.AppContext))
		for class, prefix := range cfg.AppContext {
			normalized[strings.ToLower(strings.TrimSpace(class))] = strings.TrimSpace(prefix)
		}
		cfg.AppContext = normalized
	}

	if cfg.Generators.Enabled() {
		for _, group := range []map[string]*GeneratorCfg{cfg.Generators.ID, cfg.Generators.MetaData, cfg.Generators.Invalidation} {
			for _, gen := range group {
				if gen == nil {
					continue
				}
				for i := range gen.Inputs {
					if gen.Inputs[i].Name == "" {
						gen.Inputs[i].Name = gen.Inputs[i].ID
					}
					if gen.Inputs[i].Name == "" {
						gen.Inputs[i].Name = gen.Inputs[i].Type
					}
				}
			}
		}
	}
}

func LoadConfig(path string) (*Engine, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("stat config path: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config yaml file %s: %w", path, err)
	}

	var cfg *Engine
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal yaml from %s: %w", path, err)
	}
	if cfg == nil {
		cfg = &Engine{}
	}
	cfg.AdjustConfig()

	return cfg, nil
}
