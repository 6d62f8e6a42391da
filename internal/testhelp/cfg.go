package testhelp

import (
	"time"

	"github.com/Borislavv/go-ash-cachespec/config"
)

func Cfg() *config.Engine {
	c := &config.Engine{
		AppName: "testApp",
		AppContext: map[string]string{
			"servlet": "/myapp",
			"static":  "/myapp",
		},
		Telemetry: &config.TelemetryCfg{
			LogsInterval: time.Second * 5,
		},
	}
	c.AdjustConfig()
	return c
}

// Compat602Cfg is Cfg with the legacy leniency switched on engine-wide.
func Compat602Cfg() *config.Engine {
	c := Cfg()
	c.Compat602 = true
	return c
}

func GeneratorsCfg() *config.Engine {
	c := Cfg()
	c.Generators = &config.GeneratorsCfg{
		ID: map[string]*config.GeneratorCfg{
			"userGen": {
				Inputs:     []config.GeneratorInput{{Type: "parameter", ID: "uid"}},
				Expression: `has(inputs.uid) ? "u-" + inputs.uid : ""`,
			},
		},
		MetaData: map[string]*config.GeneratorCfg{
			"shortLived": {
				Expression: `{"timeout": 30, "priority": 7}`,
			},
		},
		Invalidation: map[string]*config.GeneratorCfg{
			"byTags": {
				Inputs:     []config.GeneratorInput{{Type: "parameter", ID: "tags"}},
				Expression: `has(inputs.tags) ? inputs.tags.split(",") : []`,
			},
		},
	}
	c.AdjustConfig()
	return c
}
