package fsqlexec

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"gopkg.in/ini.v1"
)

// Defaults used when the CLI is not told where the connection settings live.
const (
	DefaultIniFile   = "postgres.ini"
	DefaultProfile   = "PostgreSQL"
	DefaultEnvPrefix = "FSQLEXEC_"
)

// ConnectionProvider yields an open, live database connection from a
// configuration source and a profile name within it.
type ConnectionProvider interface {
	Connect(ctx context.Context, source, profile string) (*sql.DB, error)
}

// ProviderFunc adapts a function to ConnectionProvider.
type ProviderFunc func(ctx context.Context, source, profile string) (*sql.DB, error)

// Connect calls f.
func (f ProviderFunc) Connect(ctx context.Context, source, profile string) (*sql.DB, error) {
	return f(ctx, source, profile)
}

// ConnConfig holds the settings needed to open a connection.
type ConnConfig struct {
	// Driver is "pg" or "sqlite3".
	Driver string `koanf:"driver"`

	// URL is a complete connection string. When set the other fields are
	// ignored (for SQLite it is the database path).
	URL string `koanf:"url"`

	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	Database string `koanf:"dbname"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`
	SSLMode  string `koanf:"sslmode"`

	// Path is the SQLite database file.
	Path string `koanf:"path"`
}

// IniProvider reads connection settings from a section of an INI file.
// Environment variables starting with EnvPrefix override the file, e.g.
// FSQLEXEC_PASSWORD overrides "password".
type IniProvider struct {
	// Driver, when set, is used regardless of the section's "driver" key.
	// Otherwise the section decides, defaulting to "pg".
	Driver string

	EnvPrefix string
}

var _ ConnectionProvider = IniProvider{}

// Load resolves the settings of profile in the INI file source.
//
// Precedence (highest to lowest): env vars > INI section > defaults.
func (p IniProvider) Load(source, profile string) (ConnConfig, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(map[string]interface{}{
		"driver": "pg",
		"host":   "localhost",
		"port":   5432,
	}, "."), nil); err != nil {
		return ConnConfig{}, fmt.Errorf("failed to load defaults: %w", err)
	}

	section, err := readIniSection(source, profile)
	if err != nil {
		return ConnConfig{}, err
	}
	if err := k.Load(confmap.Provider(section, "."), nil); err != nil {
		return ConnConfig{}, fmt.Errorf("failed to load profile %s: %w", profile, err)
	}

	if p.EnvPrefix != "" {
		if err := k.Load(env.Provider(p.EnvPrefix, ".", func(s string) string {
			return strings.ToLower(strings.TrimPrefix(s, p.EnvPrefix))
		}), nil); err != nil {
			return ConnConfig{}, fmt.Errorf("failed to load env vars: %w", err)
		}
	}

	var cc ConnConfig
	if err := k.Unmarshal("", &cc); err != nil {
		return ConnConfig{}, fmt.Errorf("unable to decode connection settings: %w", err)
	}
	// Accept the spellings commonly found in libpq and driver configs.
	if cc.Database == "" {
		cc.Database = k.String("database")
	}
	if cc.User == "" {
		cc.User = k.String("username")
	}
	if p.Driver != "" {
		cc.Driver = p.Driver
	}
	cc.Driver = normalizeDriver(cc.Driver)
	return cc, nil
}

// Connect loads the profile and opens the database it describes.
func (p IniProvider) Connect(ctx context.Context, source, profile string) (*sql.DB, error) {
	cc, err := p.Load(source, profile)
	if err != nil {
		return nil, err
	}
	return Open(ctx, cc)
}

// readIniSection returns the keys of one INI section, lower-cased.
func readIniSection(source, profile string) (map[string]interface{}, error) {
	data, err := os.ReadFile(source)
	if err != nil {
		return nil, &FileAccessError{Path: source, Err: err}
	}
	f, err := ini.Load(data)
	if err != nil {
		return nil, fmt.Errorf("error parsing ini file %s: %w", source, err)
	}
	sec, err := f.GetSection(profile)
	if err != nil {
		return nil, fmt.Errorf("profile [%s] not found in %s", profile, source)
	}
	values := make(map[string]interface{}, len(sec.Keys()))
	for _, key := range sec.Keys() {
		values[strings.ToLower(key.Name())] = key.Value()
	}
	return values, nil
}

// Open opens the database described by cc and verifies that it answers.
func Open(ctx context.Context, cc ConnConfig) (*sql.DB, error) {
	d, err := newDialect(cc.Driver)
	if err != nil {
		return nil, err
	}
	db, err := d.open(ctx, cc)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("cannot connect to %s database: %w", d.name(), err)
	}
	return db, nil
}
