package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. ADVENTURE_TELNET_PORT.
const EnvPrefix = "ADVENTURE"

var defaults = map[string]any{
	"logging.level":  "info",
	"logging.format": "json",
	"logging.output": "stderr",

	"telnet.host":          "0.0.0.0",
	"telnet.port":          4000,
	"telnet.read_timeout":  "5m",
	"telnet.write_timeout": "30s",

	"storage.backend": StorageFile,
	"storage.dir":     "saves",

	"database.host":              "localhost",
	"database.port":              5432,
	"database.user":              "adventure",
	"database.password":          "adventure",
	"database.name":              "adventure",
	"database.sslmode":           "disable",
	"database.max_conns":         10,
	"database.min_conns":         2,
	"database.max_conn_lifetime": "1h",
	"database.auto_migrate":      true,

	"narrator.provider":   NarratorTemplate,
	"narrator.api_key":    "",
	"narrator.model":      "",
	"narrator.max_tokens": 300,
	"narrator.timeout":    "20s",

	"game.locale":          "ru",
	"game.seed":            0,
	"game.daylight_turns":  8,
	"game.pig_sleep_turns": 12,
	"game.history_size":    10,
	"game.script_dir":      "",
}

// Defaults returns a Viper instance carrying only the default values.
func Defaults() *viper.Viper {
	v := viper.New()
	for key, val := range defaults {
		v.SetDefault(key, val)
	}
	return v
}

// Load layers defaults, the optional YAML file at path and ADVENTURE_*
// environment variables, then validates the result.
func Load(path string) (Config, error) {
	v := Defaults()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config %s: %w", path, err)
		}
	}
	return LoadFromViper(v)
}

// LoadFromViper decodes and validates v.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
