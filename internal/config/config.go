// Package config loads the settings shared by the telnet server, the local
// client and the migration tool.
package config

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"
)

// Storage backends.
const (
	StorageFile     = "file"
	StoragePostgres = "postgres"
)

// Narrator providers.
const (
	NarratorAnthropic = "anthropic"
	NarratorGemini    = "gemini"
	NarratorTemplate  = "template"
)

// Config is the complete application configuration.
type Config struct {
	Logging  LoggingConfig  `mapstructure:"logging"`
	Telnet   TelnetConfig   `mapstructure:"telnet"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Database DatabaseConfig `mapstructure:"database"`
	Narrator NarratorConfig `mapstructure:"narrator"`
	Game     GameConfig     `mapstructure:"game"`
}

// LoggingConfig selects the zap level, encoder and sink.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn or error
	Format string `mapstructure:"format"` // json or console
	// Output is a zap sink: "stderr", "stdout" or a file path.
	Output string `mapstructure:"output"`
}

// TelnetConfig is the listener of the multi-session server.
type TelnetConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	// ReadTimeout disconnects players idle for longer; zero disables it.
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// Addr joins Host and Port into a listen address.
func (t TelnetConfig) Addr() string {
	return net.JoinHostPort(t.Host, strconv.Itoa(t.Port))
}

// StorageConfig picks the save backend.
type StorageConfig struct {
	Backend string `mapstructure:"backend"`
	// Dir holds one JSON file per save slot when Backend is "file".
	Dir string `mapstructure:"dir"`
}

// DatabaseConfig describes the PostgreSQL save database.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
	// AutoMigrate brings the schema up to date when the store opens.
	AutoMigrate bool `mapstructure:"auto_migrate"`
}

// DSN renders the connection URL understood by pgx and golang-migrate.
func (d DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     net.JoinHostPort(d.Host, strconv.Itoa(d.Port)),
		Path:     "/" + d.Name,
		RawQuery: "sslmode=" + d.SSLMode,
	}
	return u.String()
}

// NarratorConfig configures the service that answers free-form actions.
type NarratorConfig struct {
	Provider  string        `mapstructure:"provider"`
	APIKey    string        `mapstructure:"api_key"`
	Model     string        `mapstructure:"model"`
	MaxTokens int           `mapstructure:"max_tokens"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// Remote reports whether the provider calls an external API.
func (n NarratorConfig) Remote() bool {
	return n.Provider == NarratorAnthropic || n.Provider == NarratorGemini
}

// GameConfig holds engine tunables.
type GameConfig struct {
	Locale string `mapstructure:"locale"`
	// Seed fixes the hazard sequence of new horror sessions; 0 picks one per session.
	Seed          int64 `mapstructure:"seed"`
	DaylightTurns int   `mapstructure:"daylight_turns"`
	PigSleepTurns int   `mapstructure:"pig_sleep_turns"`
	HistorySize   int   `mapstructure:"history_size"`
	// ScriptDir overrides the embedded Lua ambience scripts per world.
	ScriptDir string `mapstructure:"script_dir"`
}

func (c Config) String() string {
	return fmt.Sprintf("storage=%s narrator=%s locale=%s telnet=%s",
		c.Storage.Backend, c.Narrator.Provider, c.Game.Locale, c.Telnet.Addr())
}
