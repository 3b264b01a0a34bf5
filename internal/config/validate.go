package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// violations accumulates every broken rule so one run reports them all.
type violations []string

func (v *violations) check(ok bool, format string, args ...any) {
	if !ok {
		*v = append(*v, fmt.Sprintf(format, args...))
	}
}

func (v *violations) oneOf(key, got string, allowed ...string) {
	v.check(slices.Contains(allowed, got), "%s must be one of [%s], got %q", key, strings.Join(allowed, ", "), got)
}

func (v *violations) port(key string, p int) {
	v.check(p >= 1 && p <= 65535, "%s must be 1-65535, got %d", key, p)
}

// Validate reports every rule broken by c in one error wrapping ErrInvalid.
// Database settings are only checked when the postgres backend is selected.
func (c Config) Validate() error {
	var v violations
	c.Logging.validate(&v)
	c.Telnet.validate(&v)
	c.Storage.validate(&v)
	if c.Storage.Backend == StoragePostgres {
		c.Database.validate(&v)
	}
	c.Narrator.validate(&v)
	c.Game.validate(&v)

	if len(v) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(v, "; "))
}

func (l LoggingConfig) validate(v *violations) {
	v.oneOf("logging.level", l.Level, "debug", "info", "warn", "error")
	v.oneOf("logging.format", l.Format, "json", "console")
}

func (t TelnetConfig) validate(v *violations) {
	v.port("telnet.port", t.Port)
	v.check(t.ReadTimeout >= 0, "telnet.read_timeout must not be negative")
	v.check(t.WriteTimeout >= 0, "telnet.write_timeout must not be negative")
}

func (s StorageConfig) validate(v *violations) {
	v.oneOf("storage.backend", s.Backend, StorageFile, StoragePostgres)
	if s.Backend == StorageFile {
		v.check(s.Dir != "", "storage.dir must not be empty for the file backend")
	}
}

func (d DatabaseConfig) validate(v *violations) {
	v.check(d.Host != "", "database.host must not be empty")
	v.port("database.port", d.Port)
	v.check(d.User != "", "database.user must not be empty")
	v.check(d.Name != "", "database.name must not be empty")
	v.oneOf("database.sslmode", d.SSLMode, "disable", "require", "verify-ca", "verify-full")
	v.check(d.MaxConns >= 1, "database.max_conns must be >= 1, got %d", d.MaxConns)
	v.check(d.MinConns >= 0, "database.min_conns must be >= 0, got %d", d.MinConns)
	v.check(d.MinConns <= d.MaxConns, "database.min_conns must not exceed database.max_conns")
}

func (n NarratorConfig) validate(v *violations) {
	v.oneOf("narrator.provider", n.Provider, NarratorAnthropic, NarratorGemini, NarratorTemplate)
	if n.Remote() {
		v.check(n.APIKey != "", "narrator.api_key must not be empty for provider %q", n.Provider)
		v.check(n.Model != "", "narrator.model must not be empty for provider %q", n.Provider)
	}
	v.check(n.MaxTokens >= 1, "narrator.max_tokens must be >= 1, got %d", n.MaxTokens)
	v.check(n.Timeout > 0, "narrator.timeout must be positive")
}

func (g GameConfig) validate(v *violations) {
	v.oneOf("game.locale", g.Locale, "ru", "en")
	v.check(g.Seed >= 0, "game.seed must be >= 0, got %d", g.Seed)
	v.check(g.DaylightTurns >= 1, "game.daylight_turns must be >= 1, got %d", g.DaylightTurns)
	v.check(g.PigSleepTurns >= 1, "game.pig_sleep_turns must be >= 1, got %d", g.PigSleepTurns)
	v.check(g.HistorySize >= 1, "game.history_size must be >= 1, got %d", g.HistorySize)
}
