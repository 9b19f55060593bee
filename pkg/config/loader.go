package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Profile defaults.
const (
	DefaultChunkSize     = 100
	DefaultReserveTokens = 1024
	DefaultModel         = "claude"
	DefaultTheme         = "monokai"
)

// Load resolves a configuration from defaults, an optional profile file
// and VIEWFANG_* environment variables. CLI overrides are applied by the
// caller on the returned value before Validate.
func Load(profilePath string) (*Config, error) {
	viperCfg := viper.New()

	setDefaults(viperCfg)

	if profilePath != "" {
		viperCfg.SetConfigFile(profilePath)
	} else {
		viperCfg.SetConfigName("viewfang")
		viperCfg.SetConfigType("yaml")
		viperCfg.AddConfigPath(".")
		viperCfg.AddConfigPath("$XDG_CONFIG_HOME/viewfang")
		viperCfg.AddConfigPath("$HOME/.config/viewfang")
		viperCfg.AddConfigPath("/etc/viewfang")
	}

	viperCfg.SetEnvPrefix("VIEWFANG")
	viperCfg.AutomaticEnv()
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFoundErr) {
			return nil, fmt.Errorf("read profile: %w", readErr)
		}
	}

	var cfg Config

	unmarshalErr := viperCfg.Unmarshal(&cfg)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("unmarshal profile: %w", unmarshalErr)
	}

	return &cfg, nil
}

// setDefaults registers built-in defaults on the viper instance.
func setDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("mode", string(ModePlain))
	viperCfg.SetDefault("format", string(FormatText))
	viperCfg.SetDefault("max_lines", 0)
	viperCfg.SetDefault("max_bytes", 0)
	viperCfg.SetDefault("range.start", 0)
	viperCfg.SetDefault("range.end", 0)
	viperCfg.SetDefault("fit_context", false)
	viperCfg.SetDefault("model", DefaultModel)
	viperCfg.SetDefault("reserve_tokens", DefaultReserveTokens)
	viperCfg.SetDefault("summary_depth", string(DepthStandard))
	viperCfg.SetDefault("language", "")
	viperCfg.SetDefault("theme", DefaultTheme)
	viperCfg.SetDefault("number_style", string(NumberNone))
	viperCfg.SetDefault("streaming.chunk_size", DefaultChunkSize)
	viperCfg.SetDefault("streaming.checkpoint_path", "")
	viperCfg.SetDefault("streaming.output_path", "")
	viperCfg.SetDefault("streaming.resume", false)
	viperCfg.SetDefault("pretty", false)
	viperCfg.SetDefault("validate_output", false)
	viperCfg.SetDefault("force_raw", false)
	viperCfg.SetDefault("color", string(ColorAuto))
	viperCfg.SetDefault("log_level", "warn")
}
