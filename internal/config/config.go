package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"

	"github.com/saltyorg/schoolbook/internal/database"
)

const (
	defaultLogLevel     = "info"
	defaultLogMaxSizeMB = 50
	defaultLogBackups   = 5
	defaultLogMaxAge    = 30
	defaultLogCompress  = true
)

var ErrInvalidConfig = errors.New("invalid config")

var (
	validLogLevels    = []string{"trace", "debug", "info", "warn", "error"}
	validJournalModes = []string{"WAL", "DELETE", "TRUNCATE", "PERSIST", "MEMORY", "OFF"}
)

type Config struct {
	Database DatabaseConfig `toml:"database"`
	Logging  LoggingConfig  `toml:"logging"`
}

type DatabaseConfig struct {
	Path        string        `toml:"path"`
	BusyTimeout time.Duration `toml:"busy_timeout"`
	JournalMode string        `toml:"journal_mode"`
}

// LoggingConfig controls the console logger and the optional rotating file.
// An empty File keeps logging on the console only, unless BesideDatabase
// asks for a log file in the database's directory.
type LoggingConfig struct {
	Level          string `toml:"level"`
	File           string `toml:"file"`
	BesideDatabase bool   `toml:"beside_database"`
	MaxSizeMB      int    `toml:"max_size_mb"`
	MaxBackups     int    `toml:"max_backups"`
	MaxAgeDays     int    `toml:"max_age_days"`
	Compress       bool   `toml:"compress"`
}

type LoadOptions struct {
	// ConfigPath is a TOML file; a missing file is not an error
	ConfigPath string
	// EnvFile is a dotenv file whose values sit below the process environment
	EnvFile string
	// Env replaces the process environment when non-nil
	Env map[string]string
}

func DefaultConfig() Config {
	return Config{
		Database: DatabaseConfig{
			Path:        database.DefaultPath,
			BusyTimeout: database.DefaultBusyTimeout,
			JournalMode: database.DefaultJournalMode,
		},
		Logging: LoggingConfig{
			Level:      defaultLogLevel,
			MaxSizeMB:  defaultLogMaxSizeMB,
			MaxBackups: defaultLogBackups,
			MaxAgeDays: defaultLogMaxAge,
			Compress:   defaultLogCompress,
		},
	}
}

// Load resolves configuration: defaults, then the TOML file, then the
// dotenv file, then the environment.
func Load(opts LoadOptions) (Config, error) {
	cfg := DefaultConfig()

	if err := loadAndApplyFile(opts.ConfigPath, &cfg); err != nil {
		return Config{}, err
	}

	env, err := resolveEnv(opts)
	if err != nil {
		return Config{}, err
	}
	if err := applyEnvOverrides(&cfg, NewLoader(env)); err != nil {
		return Config{}, err
	}

	if err := validate(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

type rawConfig struct {
	Database *rawDatabase `toml:"database"`
	Logging  *rawLogging  `toml:"logging"`
}

type rawDatabase struct {
	Path        *string `toml:"path"`
	BusyTimeout *string `toml:"busy_timeout"`
	JournalMode *string `toml:"journal_mode"`
}

type rawLogging struct {
	Level          *string `toml:"level"`
	File           *string `toml:"file"`
	BesideDatabase *bool   `toml:"beside_database"`
	MaxSizeMB      *int    `toml:"max_size_mb"`
	MaxBackups     *int    `toml:"max_backups"`
	MaxAgeDays     *int    `toml:"max_age_days"`
	Compress       *bool   `toml:"compress"`
}

func loadAndApplyFile(path string, cfg *Config) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config file %q: %w", path, err)
	}

	var raw rawConfig
	if err := toml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: parse TOML file %q: %v", ErrInvalidConfig, path, err)
	}

	return applyRawConfig(cfg, raw)
}

func applyRawConfig(cfg *Config, raw rawConfig) error {
	if raw.Database != nil {
		setValue(raw.Database.Path, &cfg.Database.Path)
		setValue(raw.Database.JournalMode, &cfg.Database.JournalMode)
		if raw.Database.BusyTimeout != nil {
			d, err := time.ParseDuration(*raw.Database.BusyTimeout)
			if err != nil {
				return fmt.Errorf("%w: parse database.busy_timeout: %v", ErrInvalidConfig, err)
			}
			cfg.Database.BusyTimeout = d
		}
	}

	if raw.Logging != nil {
		setValue(raw.Logging.Level, &cfg.Logging.Level)
		setValue(raw.Logging.File, &cfg.Logging.File)
		setValue(raw.Logging.BesideDatabase, &cfg.Logging.BesideDatabase)
		setValue(raw.Logging.MaxSizeMB, &cfg.Logging.MaxSizeMB)
		setValue(raw.Logging.MaxBackups, &cfg.Logging.MaxBackups)
		setValue(raw.Logging.MaxAgeDays, &cfg.Logging.MaxAgeDays)
		setValue(raw.Logging.Compress, &cfg.Logging.Compress)
	}

	return nil
}

func setValue[T any](src *T, dst *T) {
	if src != nil {
		*dst = *src
	}
}

// resolveEnv merges the dotenv file below the process (or supplied) environment
func resolveEnv(opts LoadOptions) (EnvSettings, error) {
	env := EnvSettings{}

	if opts.EnvFile != "" {
		values, err := godotenv.Read(opts.EnvFile)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: read env file %q: %v", ErrInvalidConfig, opts.EnvFile, err)
		}
		for k, v := range values {
			env[k] = v
		}
	}

	if opts.Env != nil {
		for k, v := range opts.Env {
			env[k] = v
		}
		return env, nil
	}

	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok && strings.HasPrefix(k, EnvPrefix) {
			env[k] = v
		}
	}
	return env, nil
}

func applyEnvOverrides(cfg *Config, l *Loader) error {
	cfg.Database.Path = l.String("database.path", cfg.Database.Path)
	cfg.Database.JournalMode = l.String("database.journal_mode", cfg.Database.JournalMode)
	cfg.Logging.Level = l.String("logging.level", cfg.Logging.Level)
	cfg.Logging.File = l.String("logging.file", cfg.Logging.File)

	return errors.Join(
		l.SetDuration("database.busy_timeout", &cfg.Database.BusyTimeout),
		l.SetBool("logging.beside_database", &cfg.Logging.BesideDatabase),
		l.SetInt("logging.max_size_mb", &cfg.Logging.MaxSizeMB),
		l.SetInt("logging.max_backups", &cfg.Logging.MaxBackups),
		l.SetInt("logging.max_age_days", &cfg.Logging.MaxAgeDays),
		l.SetBool("logging.compress", &cfg.Logging.Compress),
	)
}

func validate(cfg Config) error {
	if strings.TrimSpace(cfg.Database.Path) == "" {
		return fmt.Errorf("%w: database.path must not be empty", ErrInvalidConfig)
	}
	if cfg.Database.BusyTimeout < 0 {
		return fmt.Errorf("%w: database.busy_timeout must not be negative", ErrInvalidConfig)
	}
	if !slices.Contains(validJournalModes, strings.ToUpper(cfg.Database.JournalMode)) {
		return fmt.Errorf("%w: unsupported database.journal_mode %q", ErrInvalidConfig, cfg.Database.JournalMode)
	}
	if !slices.Contains(validLogLevels, strings.ToLower(cfg.Logging.Level)) {
		return fmt.Errorf("%w: unsupported logging.level %q", ErrInvalidConfig, cfg.Logging.Level)
	}
	if cfg.Logging.MaxSizeMB <= 0 {
		return fmt.Errorf("%w: logging.max_size_mb must be positive", ErrInvalidConfig)
	}
	if cfg.Logging.MaxBackups < 0 || cfg.Logging.MaxAgeDays < 0 {
		return fmt.Errorf("%w: logging retention must not be negative", ErrInvalidConfig)
	}
	return nil
}
