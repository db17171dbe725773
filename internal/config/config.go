package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the process-wide configuration, loaded once at startup and passed
// explicitly into the components that need it.
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Server     ServerConfig     `mapstructure:"server"`
	Log        LogConfig        `mapstructure:"log"`
	Validation ValidationConfig `mapstructure:"validation"`
}

type AppConfig struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"` // development, staging, production
}

type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type LogConfig struct {
	Level string `mapstructure:"level"` // debug, info, warn, error
}

// ValidationConfig holds the rule inputs that were tunable in the catalog:
// the content word lists and the daily creation ceiling. They are immutable
// after load; the rule engine receives them by value.
type ValidationConfig struct {
	DisallowedTerms         []string `mapstructure:"disallowed_terms"`
	ChildrenRestrictedWords []string `mapstructure:"children_restricted_words"`
	TechnicalKeywords       []string `mapstructure:"technical_keywords"`
	DailyOrderLimit         int      `mapstructure:"daily_order_limit"`
}

// Load reads configuration from the optional YAML file at path, with
// CATALOG_-prefixed environment variables taking precedence. Every key has a
// default, so a missing file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("catalog")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("config: read %s: %w", path, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	if cfg.Validation.DailyOrderLimit <= 0 {
		return nil, fmt.Errorf("config: daily_order_limit must be positive, got %d", cfg.Validation.DailyOrderLimit)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "catalog")
	v.SetDefault("app.env", "development")

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("log.level", "info")

	v.SetDefault("validation.disallowed_terms", []string{"badword1", "badword2"})
	v.SetDefault("validation.children_restricted_words", []string{"violent", "adult", "horror"})
	v.SetDefault("validation.technical_keywords", []string{
		"software", "programming", "cloud", "database", "system",
		"ai", "algorithm", "machine learning", "engineering", "devops",
	})
	v.SetDefault("validation.daily_order_limit", 500)
}
