package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// EnvPrefix namespaces every environment variable the application reads
const EnvPrefix = "SCHOOLBOOK_"

// SettingsGetter is an interface for retrieving settings by dotted key
type SettingsGetter interface {
	GetSetting(key string) (string, error)
}

// EnvSettings resolves dotted keys against an environment snapshot:
// "database.path" is read from SCHOOLBOOK_DATABASE_PATH.
type EnvSettings map[string]string

// EnvName returns the environment variable that backs key
func EnvName(key string) string {
	return EnvPrefix + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// GetSetting implements SettingsGetter
func (e EnvSettings) GetSetting(key string) (string, error) {
	return strings.TrimSpace(e[EnvName(key)]), nil
}

// Loader provides typed access to settings with default values
type Loader struct {
	db SettingsGetter
}

// NewLoader creates a new settings loader
func NewLoader(db SettingsGetter) *Loader {
	return &Loader{db: db}
}

// String retrieves a string setting, returning defaultVal if not found or empty
func (l *Loader) String(key, defaultVal string) string {
	if val, _ := l.db.GetSetting(key); val != "" {
		return val
	}
	return defaultVal
}

// SetInt overwrites dst when key is set. A value that is not an integer
// fails with ErrInvalidConfig.
func (l *Loader) SetInt(key string, dst *int) error {
	val, err := l.db.GetSetting(key)
	if err != nil || val == "" {
		return err
	}
	v, err := strconv.Atoi(val)
	if err != nil {
		return fmt.Errorf("%w: parse %s: %v", ErrInvalidConfig, EnvName(key), err)
	}
	*dst = v
	return nil
}

// SetBool overwrites dst when key is set. Accepts the strconv.ParseBool
// spellings (1, t, true, TRUE, 0, f, false, ...).
func (l *Loader) SetBool(key string, dst *bool) error {
	val, err := l.db.GetSetting(key)
	if err != nil || val == "" {
		return err
	}
	v, err := strconv.ParseBool(val)
	if err != nil {
		return fmt.Errorf("%w: parse %s: %v", ErrInvalidConfig, EnvName(key), err)
	}
	*dst = v
	return nil
}

// SetDuration overwrites dst when key is set.
// Expects the value to be in Go duration format (e.g., "1h30m", "5s")
func (l *Loader) SetDuration(key string, dst *time.Duration) error {
	val, err := l.db.GetSetting(key)
	if err != nil || val == "" {
		return err
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return fmt.Errorf("%w: parse %s: %v", ErrInvalidConfig, EnvName(key), err)
	}
	*dst = d
	return nil
}
