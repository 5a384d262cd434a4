package config

import (
	"errors"
	"strings"

	"github.com/spf13/viper"
)

const (
	configName = "lobbyqueue"
	configType = "yaml"
	envPrefix  = "LOBBYQUEUE"
)

type Config struct {
	ListenAddr          string `mapstructure:"listen_addr"`
	GinMode             string `mapstructure:"gin_mode"`
	LogLevel            string `mapstructure:"log_level"`
	AdminToken          string `mapstructure:"admin_token"`
	SweepInterval       int    `mapstructure:"sweep_interval_seconds"`
	ConfirmTimeout      int    `mapstructure:"confirm_timeout_seconds"`
	TrackedMessageKeep  int    `mapstructure:"tracked_message_keep"`
	TrackedMessageDelay int    `mapstructure:"tracked_message_delay_seconds"`
}

// Load reads settings from an optional lobbyqueue.yaml in the working
// directory, overridden by LOBBYQUEUE_* environment variables.
func Load(cfg *viper.Viper) (*Config, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	cfg.SetConfigName(configName)
	cfg.SetConfigType(configType)
	cfg.AddConfigPath(".")
	cfg.AddConfigPath("/etc/lobbyqueue")

	cfg.SetDefault("listen_addr", ":8080")
	cfg.SetDefault("gin_mode", "release")
	cfg.SetDefault("log_level", "info")
	cfg.SetDefault("admin_token", "")
	cfg.SetDefault("sweep_interval_seconds", 30)
	cfg.SetDefault("confirm_timeout_seconds", 120)
	cfg.SetDefault("tracked_message_keep", 3)
	cfg.SetDefault("tracked_message_delay_seconds", 20)

	cfg.SetEnvPrefix(envPrefix)
	cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	cfg.AutomaticEnv()

	if err := cfg.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	c := &Config{}
	if err := cfg.Unmarshal(c); err != nil {
		return nil, err
	}
	return c, nil
}
