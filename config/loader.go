package config

import (
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Defaults applied after load when the corresponding field is zero.
const (
	DefaultPort      = 8080
	DefaultLimitRows = 50000
	DefaultTopN      = 50
)

// Load reads and validates the application configuration. The first
// readable path wins; with no paths the default search order is used.
func Load(paths ...string) (AppConfig, error) {
	if len(paths) == 0 {
		paths = []string{"config.yml", "./deploy/config.yml"}
	}
	var data []byte
	var err error
	for _, p := range paths {
		data, err = os.ReadFile(p)
		if err == nil {
			break
		}
	}
	if err != nil {
		return AppConfig{}, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return AppConfig{}, err
	}
	v := validator.New()
	if err := v.Struct(cfg.Server); err != nil {
		return AppConfig{}, err
	}
	if err := v.Struct(cfg.Upload); err != nil {
		return AppConfig{}, err
	}
	return withDefaults(cfg), nil
}

// Default returns the configuration used when no config file is present.
func Default() AppConfig {
	return withDefaults(AppConfig{})
}

func withDefaults(cfg AppConfig) AppConfig {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultPort
	}
	if cfg.Upload.LimitRows == 0 {
		cfg.Upload.LimitRows = DefaultLimitRows
	}
	if cfg.Upload.TopN == 0 {
		cfg.Upload.TopN = DefaultTopN
	}
	return cfg
}
