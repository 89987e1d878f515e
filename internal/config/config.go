// Package config provides configuration management for memuc-go.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// Default configuration values.
const (
	DefaultConfigDir  = ".config/memuc-go"
	DefaultConfigFile = "config.yaml"
	DefaultDataDir    = ".local/share/memuc-go"
)

// Sentinel errors for configuration operations.
var (
	ErrInvalidKey   = errors.New("invalid configuration key")
	ErrInvalidValue = errors.New("invalid configuration value")
	ErrNoEditor     = errors.New("EDITOR environment variable not set")
)

// validKeys is built once from Config struct reflection.
var validKeys = buildValidKeys()

// validate is the shared validator instance.
var validate = validator.New()

// Config represents the full memuc-go configuration.
type Config struct {
	Memuc    MemucConfig    `mapstructure:"memuc"`
	Retry    RetryConfig    `mapstructure:"retry"`
	Timeouts TimeoutsConfig `mapstructure:"timeouts"`
	Storage  StorageConfig  `mapstructure:"storage" validate:"required"`
	VM       VMConfig       `mapstructure:"vm"`
}

// MemucConfig points at the memuc executable. An empty path means search
// the registry and the PATH.
type MemucConfig struct {
	Path string `mapstructure:"path"`
}

// RetryConfig controls how retry-eligible operations are repeated.
type RetryConfig struct {
	Attempts   int           `mapstructure:"attempts" validate:"min=1,max=20"`
	Backoff    time.Duration `mapstructure:"backoff" validate:"min=0"`
	MaxBackoff time.Duration `mapstructure:"max_backoff" validate:"min=0"`
}

// TimeoutsConfig holds per-operation bounds. Default applies to commands
// that take an optional --timeout; zero leaves them unbounded.
type TimeoutsConfig struct {
	Default   time.Duration `mapstructure:"default" validate:"min=0"`
	Rename    time.Duration `mapstructure:"rename" validate:"min=0"`
	AppList   time.Duration `mapstructure:"app_list" validate:"min=0"`
	Shortcut  time.Duration `mapstructure:"shortcut" validate:"min=0"`
	KillGrace time.Duration `mapstructure:"kill_grace" validate:"min=0"`
}

// StorageConfig holds storage location configuration.
type StorageConfig struct {
	Tasks      string `mapstructure:"tasks" validate:"required"`
	Transcript string `mapstructure:"transcript"`
}

// VMConfig holds defaults for new VMs.
type VMConfig struct {
	DefaultVersion string `mapstructure:"default_version" validate:"required,numeric"`
}

// Validate checks the configuration for errors using struct tags.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// Loader provides configuration loading and saving.
type Loader struct {
	v       *viper.Viper
	path    string
	homeDir string
}

// NewLoader creates a new configuration loader.
func NewLoader() (*Loader, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("get home directory: %w", err)
	}

	configPath := filepath.Join(home, DefaultConfigDir, DefaultConfigFile)

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	v.SetEnvPrefix("MEMUC")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	//nolint:errcheck // BindEnv only fails with zero arguments
	v.BindEnv("memuc.path", "MEMUC_PATH")

	l := &Loader{
		v:       v,
		path:    configPath,
		homeDir: home,
	}

	l.setDefaults()

	return l, nil
}

// setDefaults sets all default configuration values using Viper.
func (l *Loader) setDefaults() {
	l.v.SetDefault("memuc.path", "")
	l.v.SetDefault("retry.attempts", 3)
	l.v.SetDefault("retry.backoff", "0s")
	l.v.SetDefault("retry.max_backoff", "0s")
	l.v.SetDefault("timeouts.default", "0s")
	l.v.SetDefault("timeouts.rename", "10s")
	l.v.SetDefault("timeouts.app_list", "10s")
	l.v.SetDefault("timeouts.shortcut", "10s")
	l.v.SetDefault("timeouts.kill_grace", "2s")
	l.v.SetDefault("storage.tasks", "~/.local/share/memuc-go/tasks.json")
	l.v.SetDefault("storage.transcript", "~/.local/share/memuc-go/transcript.jsonl")
	l.v.SetDefault("vm.default_version", "96")
}

// Load reads the configuration file, creating defaults if it doesn't exist.
func (l *Loader) Load() (*Config, error) {
	if _, err := os.Stat(l.path); os.IsNotExist(err) {
		if err := l.createDefault(); err != nil {
			return nil, fmt.Errorf("create default config: %w", err)
		}
	}

	if err := l.v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	return l.decode()
}

// Defaults returns the built-in configuration, ignoring the config file and
// the environment.
func Defaults() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("get home directory: %w", err)
	}

	l := &Loader{v: viper.New(), homeDir: home}
	l.setDefaults()
	return l.decode()
}

// decode unmarshals the current settings, expands paths and validates.
func (l *Loader) decode() (*Config, error) {
	var cfg Config
	if err := l.v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.WeaklyTypedInput = true
		dc.DecodeHook = mapstructure.StringToTimeDurationHookFunc()
	}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.Memuc.Path = l.expandPath(cfg.Memuc.Path)
	cfg.Storage.Tasks = l.expandPath(cfg.Storage.Tasks)
	cfg.Storage.Transcript = l.expandPath(cfg.Storage.Transcript)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Path returns the configuration file path.
func (l *Loader) Path() string {
	return l.path
}

// Get returns a configuration value by dot-notation key.
func (l *Loader) Get(key string) (any, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	return l.v.Get(key), nil
}

// All returns every setting as a nested map.
func (l *Loader) All() map[string]any {
	return l.v.AllSettings()
}

// Set sets a configuration value by dot-notation key and writes the file.
func (l *Loader) Set(key, value string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	if err := validateValue(key, value); err != nil {
		return err
	}

	l.v.Set(key, value)
	return l.v.WriteConfig()
}

// validateValue checks value against the type of the field behind key.
func validateValue(key, value string) error {
	switch validKeys[key] {
	case reflect.TypeFor[time.Duration]():
		if d, err := time.ParseDuration(value); err != nil || d < 0 {
			return fmt.Errorf("%w: %s wants a non-negative duration like 10s, got %q", ErrInvalidValue, key, value)
		}
	case reflect.TypeFor[int]():
		if n, err := strconv.Atoi(value); err != nil || n < 1 {
			return fmt.Errorf("%w: %s wants a positive integer, got %q", ErrInvalidValue, key, value)
		}
	}
	return nil
}

// createDefault writes the default configuration file using Viper.
func (l *Loader) createDefault() error {
	dir := filepath.Dir(l.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	return l.v.SafeWriteConfigAs(l.path)
}

// expandPath replaces ~ with the home directory.
func (l *Loader) expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(l.homeDir, path[2:])
	}
	if path == "~" {
		return l.homeDir
	}
	return path
}

// ValidateKey checks if a key is a settable configuration key.
func ValidateKey(key string) error {
	if key == "" {
		return fmt.Errorf("%w: empty key", ErrInvalidKey)
	}

	if t, ok := validKeys[key]; ok && t.Kind() != reflect.Struct {
		return nil
	}

	return fmt.Errorf("%w: %s", ErrInvalidKey, key)
}

// Keys returns every settable key, sorted.
func Keys() []string {
	keys := make([]string, 0, len(validKeys))
	for k, t := range validKeys {
		if t.Kind() != reflect.Struct {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	return keys
}

// buildValidKeys maps every key of Config to its Go type.
func buildValidKeys() map[string]reflect.Type {
	keys := make(map[string]reflect.Type)
	addKeysFromType(reflect.TypeOf(Config{}), "", keys)
	return keys
}

// addKeysFromType recursively adds keys from a struct type.
func addKeysFromType(t reflect.Type, prefix string, keys map[string]reflect.Type) {
	for i := range t.NumField() {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}
		keys[key] = field.Type

		if field.Type.Kind() == reflect.Struct {
			addKeysFromType(field.Type, key, keys)
		}
	}
}
