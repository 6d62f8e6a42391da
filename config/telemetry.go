package config

import "time"

type TelemetryCfg struct {
	// LogsInterval is the period of evaluation counter logs. Zero disables the logs.
	LogsInterval time.Duration `yaml:"logs_interval"`

	// Prometheus registers the evaluation counters on the registerer passed to the engine.
	Prometheus bool `yaml:"prometheus"`
}

func (cfg *TelemetryCfg) Enabled() bool {
	return cfg != nil
}

// IsLogsEnabled is derived from LogsInterval.
func (cfg *TelemetryCfg) IsLogsEnabled() bool {
	return cfg.Enabled() && cfg.LogsInterval > 0
}
