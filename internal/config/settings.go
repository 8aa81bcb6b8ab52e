package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix scopes environment overrides, e.g. TRADESPACE_LOG_LEVEL.
const EnvPrefix = "TRADESPACE"

// Settings are process-level knobs shared by the CLI and the HTTP server.
type Settings struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
	DataDir   string `mapstructure:"data_dir"`
	Workers   int    `mapstructure:"workers"`

	HTTPAddr       string `mapstructure:"http_addr"`
	MetricsEnabled bool   `mapstructure:"metrics_enabled"`

	TracingEnabled  bool    `mapstructure:"tracing_enabled"`
	TracingExporter string  `mapstructure:"tracing_exporter"`
	TracingRatio    float64 `mapstructure:"tracing_sample_ratio"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")
	v.SetDefault("data_dir", "runs")
	v.SetDefault("workers", 0)
	v.SetDefault("http_addr", ":8080")
	v.SetDefault("metrics_enabled", true)
	v.SetDefault("tracing_enabled", false)
	v.SetDefault("tracing_exporter", "stderr")
	v.SetDefault("tracing_sample_ratio", 1.0)
}

// LoadSettings layers defaults, an optional settings file and TRADESPACE_*
// environment variables, in increasing precedence.
func LoadSettings(path string) (*Settings, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read settings %s: %w", path, err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Settings) Validate() error {
	switch {
	case s.Workers < 0:
		return errors.New("workers must be >= 0")
	case s.DataDir == "":
		return errors.New("data_dir is required")
	case s.TracingRatio < 0 || s.TracingRatio > 1:
		return fmt.Errorf("tracing_sample_ratio must be in [0, 1], got %g", s.TracingRatio)
	}
	return nil
}
