package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const envPrefix = "FORMPRESENTER"

type config struct {
	Definitions  string         `mapstructure:"definitions"`
	PromptPrefix string         `mapstructure:"prompt_prefix"`
	Model        map[string]any `mapstructure:"model"`
}

// loadConfig merges, lowest first: formpresenter.yaml, FORMPRESENTER_*
// environment variables and command line flags.
func loadConfig(cmd *cobra.Command) (config, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlag("definitions", cmd.Flags().Lookup("definitions")); err != nil {
		return config{}, err
	}
	if err := v.BindPFlag("prompt_prefix", cmd.Flags().Lookup("prompt-prefix")); err != nil {
		return config{}, err
	}

	path, _ := cmd.Flags().GetString("config")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("formpresenter")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg config
	if err := v.Unmarshal(&cfg); err != nil {
		return config{}, fmt.Errorf("decode config: %w", err)
	}

	assignments, _ := cmd.Flags().GetStringArray("set")
	overrides, err := parseAssignments(assignments)
	if err != nil {
		return config{}, err
	}
	if len(overrides) > 0 && cfg.Model == nil {
		cfg.Model = make(map[string]any, len(overrides))
	}
	for key, value := range overrides {
		cfg.Model[key] = value
	}
	return cfg, nil
}

// parseAssignments turns key=value pairs into model values. Values are
// decoded as YAML scalars so amount=250 yields a number and flag=true a bool.
func parseAssignments(pairs []string) (map[string]any, error) {
	out := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, raw, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --set %q: expected key=value", pair)
		}
		out[key] = decodeScalar(raw)
	}
	return out, nil
}

func decodeScalar(raw string) any {
	var value any
	if err := yaml.Unmarshal([]byte(raw), &value); err != nil {
		return raw
	}
	switch value.(type) {
	case string, nil:
		return value
	case map[string]any, []any:
		return raw
	}
	// Phone numbers and zero-padded codes stay strings.
	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(trimmed, "+") || (len(trimmed) > 1 && trimmed[0] == '0' && trimmed[1] != '.') {
		return raw
	}
	return value
}
