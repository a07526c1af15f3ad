package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/floodlab/riskdispatch/core/metrics"
	"github.com/floodlab/riskdispatch/infra/kafka"
	"github.com/floodlab/riskdispatch/infra/mqtt"
)

type Config struct {
	Engine   EngineConfig   `json:"engine"`
	Dispatch DispatchConfig `json:"dispatch"`
	Registry RegistryConfig `json:"registry"`
	MQTT     mqtt.Config    `json:"mqtt"`
	Kafka    kafka.Config   `json:"kafka"`
	Metrics  metrics.Config `json:"metrics"`
	Logging  LoggingConfig  `json:"logging"`
	API      APIConfig      `json:"api"`
}

func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("RD_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "rd_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SetDefaults applies section defaults in place.
func (c *Config) SetDefaults() {
	c.Engine.SetDefaults()
	c.Dispatch.SetDefaults()
	c.Registry.SetDefaults()
	c.MQTT.SetDefaults()
	c.Kafka.SetDefaults()
	c.Metrics.SetDefaults()
	c.Logging.SetDefaults()
	c.API.SetDefaults()
}

// Validate checks every section. The first failing section wins.
func (c Config) Validate() error {
	sections := []struct {
		name string
		fn   func() error
	}{
		{"engine", c.Engine.Validate},
		{"dispatch", c.Dispatch.Validate},
		{"registry", c.Registry.Validate},
		{"mqtt", c.MQTT.Validate},
		{"kafka", c.Kafka.Validate},
		{"metrics", c.Metrics.Validate},
		{"logging", c.Logging.Validate},
		{"api", c.API.Validate},
	}
	for _, s := range sections {
		if err := s.fn(); err != nil {
			return fmt.Errorf("%s config: %w", s.name, err)
		}
	}
	return nil
}
