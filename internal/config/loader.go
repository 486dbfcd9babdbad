package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/quillbase/quill/pkg/wordcount"
)

// configName is the config file name without extension.
const configName = ".quill"

// configType is the config file format.
const configType = "yaml"

// envPrefix is the environment variable prefix for quill settings.
const envPrefix = "QUILL"

// Load reads configuration from file, env vars, and defaults.
// If configPath is non-empty, it is used as the explicit config file path.
// Otherwise, the config file is searched in CWD and $HOME.
// A missing config file is not an error; defaults are used.
func Load(configPath string) (*Config, error) {
	viperCfg := viper.New()

	applyDefaults(viperCfg)

	viperCfg.SetConfigType(configType)
	viperCfg.SetEnvPrefix(envPrefix)
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viperCfg.AutomaticEnv()

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName(configName)
		viperCfg.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viperCfg.AddConfigPath(home)
		}
	}

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFound) {
			return nil, fmt.Errorf("read config: %w", readErr)
		}
	}

	var cfg Config

	unmarshalErr := viperCfg.Unmarshal(&cfg)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("unmarshal config: %w", unmarshalErr)
	}

	validateErr := cfg.Validate()
	if validateErr != nil {
		return nil, fmt.Errorf("validate config: %w", validateErr)
	}

	return &cfg, nil
}

func applyDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("tracking.words_per_line", DefaultWordsPerLine)
	viperCfg.SetDefault("tracking.extensions", wordcount.ManuscriptExtensions)
	viperCfg.SetDefault("tracking.history_limit", DefaultHistoryLimit)

	viperCfg.SetDefault("progress.days", DefaultProgressDays)
	viperCfg.SetDefault("progress.bar_width", DefaultBarWidth)

	viperCfg.SetDefault("remote.name", DefaultRemoteName)
	viperCfg.SetDefault("remote.private", true)

	viperCfg.SetDefault("sidecar.enabled", true)
}
