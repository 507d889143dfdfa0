package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/JonMunkholm/tseload/pkg/tseload"
)

// lookupFunc resolves a key to a raw value. ok is false when the key is unset.
type lookupFunc func(key string) (value string, ok bool)

// Load reads the config file at path, overlays environment variables,
// applies defaults and validates the result. Every failure wraps
// tseload.ErrConfig.
func Load(path string) (*Config, error) {
	file, err := readFile(path)
	if err != nil {
		return nil, err
	}
	return load(chain(envLookup, file.lookup))
}

// FromEnv builds the configuration from the environment alone.
func FromEnv() (*Config, error) {
	return load(envLookup)
}

func load(lookup lookupFunc) (*Config, error) {
	cfg := &Config{}

	if err := loadStruct(reflect.ValueOf(cfg).Elem(), lookup); err != nil {
		return nil, fmt.Errorf("%w: config load: %w", tseload.ErrConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: config validation: %w", tseload.ErrConfig, err)
	}

	return cfg, nil
}

// fileValues holds the flat key/value map read from a config file.
type fileValues map[string]string

func (f fileValues) lookup(key string) (string, bool) {
	v, ok := f[key]
	return v, ok
}

// readFile parses a flat JSON or YAML mapping. JSON is a subset of YAML, so
// one decoder covers both.
func readFile(path string) (fileValues, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: config file not found: %s", tseload.ErrConfig, path)
		}
		return nil, fmt.Errorf("%w: read config %s: %w", tseload.ErrConfig, path, err)
	}

	raw := map[string]any{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: parse config %s: %w", tseload.ErrConfig, filepath.Base(path), err)
	}

	values := make(fileValues, len(raw))
	for k, v := range raw {
		switch v := v.(type) {
		case nil:
			continue
		case map[string]any, []any:
			return nil, fmt.Errorf("%w: config key %s must be a scalar", tseload.ErrConfig, k)
		default:
			values[k] = fmt.Sprint(v)
		}
	}
	return values, nil
}

func envLookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	if ok && v == "" {
		return "", false
	}
	return v, ok
}

// chain returns the first value found, in order.
func chain(lookups ...lookupFunc) lookupFunc {
	return func(key string) (string, bool) {
		for _, l := range lookups {
			if v, ok := l(key); ok {
				return v, true
			}
		}
		return "", false
	}
}

// loadStruct recursively populates struct fields from the lookup chain.
func loadStruct(v reflect.Value, lookup lookupFunc) error {
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fieldVal := v.Field(i)

		// Skip unexported fields
		if !fieldVal.CanSet() {
			continue
		}

		if field.Type.Kind() == reflect.Struct {
			if err := loadStruct(fieldVal, lookup); err != nil {
				return err
			}
			continue
		}

		key := field.Tag.Get("env")
		defaultVal := field.Tag.Get("default")
		required := field.Tag.Get("required") == "true"

		if key == "" {
			continue
		}

		value, ok := lookup(key)
		if !ok || strings.TrimSpace(value) == "" {
			if required {
				return fmt.Errorf("required key %s is not set", key)
			}
			value = defaultVal
		}

		if value == "" {
			continue
		}

		if err := setField(fieldVal, value); err != nil {
			return fmt.Errorf("invalid value for %s=%q: %w", key, value, err)
		}
	}

	return nil
}

// setField sets a reflect.Value from a string based on its type.
func setField(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Int, reflect.Int64:
		i, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
		if err != nil {
			return fmt.Errorf("invalid integer: %w", err)
		}
		field.SetInt(i)

	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean: %w", err)
		}
		field.SetBool(b)

	default:
		return fmt.Errorf("unsupported field type: %s", field.Kind())
	}

	return nil
}

// Validate checks that the configuration is valid.
// Returns an error describing all validation failures.
func (c *Config) Validate() error {
	var errs []string

	if c.Database.URI == "" {
		errs = append(errs, "DB_URI is required")
	}
	if c.Database.MaxConns <= 0 {
		errs = append(errs, "DB_MAX_CONNS must be positive")
	}

	if c.Source.Path == "" {
		errs = append(errs, "FILE_PATH is required")
	}

	if c.Load.BatchSize <= 0 {
		errs = append(errs, "LOAD_BATCH_SIZE must be positive")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Sprintf("LOG_LEVEL (%q) must be one of: debug, info, warn, error", c.Logging.Level))
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		errs = append(errs, fmt.Sprintf("LOG_FORMAT (%q) must be one of: text, json", c.Logging.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

// String returns a safe string representation of the config for logging.
// The database URI is masked.
func (c *Config) String() string {
	var b strings.Builder
	b.WriteString("Config{")
	b.WriteString(fmt.Sprintf("Database: {URI: [MASKED], MaxConns: %d}, ", c.Database.MaxConns))
	b.WriteString(fmt.Sprintf("Source: {Path: %q}, ", c.Source.Path))
	b.WriteString(fmt.Sprintf("Load: {BatchSize: %d}, ", c.Load.BatchSize))
	b.WriteString(fmt.Sprintf("Logging: {Level: %q, Format: %q}",
		c.Logging.Level, c.Logging.Format))
	b.WriteString("}")
	return b.String()
}
