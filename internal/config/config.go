package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/EdwardHuber/process-triage-dashboard/internal/core/domain"
	"github.com/EdwardHuber/process-triage-dashboard/internal/infrastructure/voltool"
)

// Config holds everything tunable about a triage run that is not a
// per-invocation flag. The locator settings are deliberately configurable:
// a future Volatility version may change what its help invocation exits
// with.
type Config struct {
	Candidates      []string
	AcceptExitCodes []int
	ImageFlag       string
	Plugins         []string
	LogLevel        string
}

// NewViper builds a viper instance with the MEMTRIAGE_* environment
// bindings and defaults applied. An optional YAML config file path may be
// supplied; when empty, $HOME/.memtriage.yaml is used if present.
func NewViper(configFile string) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix("MEMTRIAGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("candidates", voltool.DefaultCandidates())
	v.SetDefault("accept_exit_codes", voltool.DefaultAcceptExitCodes())
	v.SetDefault("image_flag", voltool.DefaultImageFlag)
	v.SetDefault("plugins", defaultPluginNames())
	v.SetDefault("log_level", "info")

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
		return v, nil
	}

	v.SetConfigName(".memtriage")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return v, nil
}

// NewConfig materializes a Config from viper and validates it.
func NewConfig(v *viper.Viper) (Config, error) {
	cfg := Config{
		Candidates:      v.GetStringSlice("candidates"),
		AcceptExitCodes: v.GetIntSlice("accept_exit_codes"),
		ImageFlag:       v.GetString("image_flag"),
		Plugins:         v.GetStringSlice("plugins"),
		LogLevel:        v.GetString("log_level"),
	}

	if len(cfg.Candidates) == 0 {
		return Config{}, fmt.Errorf("candidates cannot be empty")
	}
	if len(cfg.AcceptExitCodes) == 0 {
		return Config{}, fmt.Errorf("accept_exit_codes cannot be empty")
	}
	if cfg.ImageFlag == "" {
		return Config{}, fmt.Errorf("image_flag cannot be empty")
	}
	if len(cfg.Plugins) == 0 {
		return Config{}, fmt.Errorf("plugins cannot be empty")
	}

	return cfg, nil
}

// Load builds viper and materializes the Config in one step.
func Load(configFile string) (Config, error) {
	v, err := NewViper(configFile)
	if err != nil {
		return Config{}, err
	}
	return NewConfig(v)
}

func defaultPluginNames() []string {
	plugins := domain.DefaultPlugins()
	names := make([]string, 0, len(plugins))
	for _, p := range plugins {
		names = append(names, p.Name())
	}
	return names
}
