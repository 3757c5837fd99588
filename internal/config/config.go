// Package config loads runtime configuration: env-first with an optional
// YAML file. All placement tunables live here so deployments can adjust
// the empirical thresholds without a rebuild.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config is the process configuration.
type Config struct {
	Env string `mapstructure:"env"` // "dev" enables CORS for the local UI

	HTTP struct {
		Addr         string `mapstructure:"addr"`
		MaxBodyBytes int64  `mapstructure:"max_body_bytes"`
	} `mapstructure:"http"`

	Redis struct {
		Addr string `mapstructure:"addr"`
		DB   int    `mapstructure:"db"`
	} `mapstructure:"redis"`

	Placement struct {
		FillThreshold  float64 `mapstructure:"fill_threshold"`
		SmallItemRatio float64 `mapstructure:"small_item_ratio"`
	} `mapstructure:"placement"`

	Rearrange struct {
		CostThreshold float64 `mapstructure:"cost_threshold"`
	} `mapstructure:"rearrange"`
}

// Load reads configuration from INTERSTELLAR_* env vars and, when path is
// non-empty, a YAML file. Env wins over file, file over defaults.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("env", "prod")
	v.SetDefault("http.addr", "127.0.0.1:8080")
	v.SetDefault("http.max_body_bytes", int64(10<<20))
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("placement.fill_threshold", 0.85)
	v.SetDefault("placement.small_item_ratio", 0.3)
	v.SetDefault("rearrange.cost_threshold", 100.0)

	v.SetEnvPrefix("INTERSTELLAR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %q: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Placement.FillThreshold <= 0 || c.Placement.FillThreshold > 1 {
		return fmt.Errorf("placement.fill_threshold must be in (0,1], got %v", c.Placement.FillThreshold)
	}
	if c.Placement.SmallItemRatio <= 0 || c.Placement.SmallItemRatio >= 1 {
		return fmt.Errorf("placement.small_item_ratio must be in (0,1), got %v", c.Placement.SmallItemRatio)
	}
	if c.Rearrange.CostThreshold < 0 {
		return fmt.Errorf("rearrange.cost_threshold must be non-negative, got %v", c.Rearrange.CostThreshold)
	}
	return nil
}
