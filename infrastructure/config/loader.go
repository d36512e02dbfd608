// Package config loads YAML configuration files and overlays values from
// the environment.
//
// Before any overrides are applied, dotenv files are read with godotenv:
// the file named by ENV_FILE when set, otherwise .env.local followed by .env.
// Variables already present in the process environment are never replaced.
//
// Fields opt in to overrides with an env tag:
//
//	type Config struct {
//	    Port int `yaml:"port" env:"SERVICE_PORT"`
//	}
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const configPathEnv = "CONFIG_PATH"

var durationType = reflect.TypeFor[time.Duration]()

// Load parses the YAML file at path into a new T and applies env overrides.
func Load[T any](path string) (*T, error) {
	if err := loadDotenv(); err != nil {
		return nil, fmt.Errorf("load environment files: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}

	var cfg T
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	ApplyEnv(&cfg)
	return &cfg, nil
}

// LoadWithDefaults is Load followed by setDefaults. Environment values are
// applied again afterwards so they always take precedence over defaults.
func LoadWithDefaults[T any](path string, setDefaults func(*T)) (*T, error) {
	cfg, err := Load[T](path)
	if err != nil {
		return nil, err
	}

	if setDefaults != nil {
		setDefaults(cfg)
	}

	ApplyEnv(cfg)
	return cfg, nil
}

// GetConfigPath returns $CONFIG_PATH, or defaultPath when it is unset.
func GetConfigPath(defaultPath string) string {
	if p := os.Getenv(configPathEnv); p != "" {
		return p
	}
	return defaultPath
}

func loadDotenv() error {
	if envFile := os.Getenv("ENV_FILE"); envFile != "" {
		return ignoreMissing(godotenv.Load(envFile), envFile)
	}

	// godotenv.Load keeps existing values, so the first file loaded wins.
	for _, name := range []string{".env.local", ".env"} {
		if err := ignoreMissing(godotenv.Load(name), name); err != nil {
			return err
		}
	}
	return nil
}

func ignoreMissing(err error, name string) error {
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("load %s: %w", name, err)
}

// ApplyEnv walks the struct pointed to by cfg and sets every field tagged
// with env from the matching, non-empty environment variable. Nested
// structs are visited recursively. Unparseable values are ignored.
func ApplyEnv(cfg any) {
	v := reflect.ValueOf(cfg)
	if v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	applyEnvToStruct(v)
}

func applyEnvToStruct(v reflect.Value) {
	if v.Kind() != reflect.Struct {
		return
	}

	t := v.Type()
	for i := range v.NumField() {
		field := v.Field(i)
		if !field.CanSet() {
			continue
		}

		switch {
		case field.Kind() == reflect.Struct:
			applyEnvToStruct(field)
			continue
		case field.Kind() == reflect.Pointer && field.Type().Elem().Kind() == reflect.Struct:
			if field.IsNil() {
				field.Set(reflect.New(field.Type().Elem()))
			}
			applyEnvToStruct(field.Elem())
			continue
		}

		name := t.Field(i).Tag.Get("env")
		if name == "" {
			continue
		}
		if val := os.Getenv(name); val != "" {
			setField(field, val)
		}
	}
}

func setField(field reflect.Value, val string) {
	switch field.Kind() {
	case reflect.String:
		field.SetString(val)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if field.Type() == durationType {
			if d, err := time.ParseDuration(val); err == nil {
				field.SetInt(int64(d))
			}
			return
		}
		if n, err := strconv.ParseInt(val, 10, 64); err == nil {
			field.SetInt(n)
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if n, err := strconv.ParseUint(val, 10, 64); err == nil {
			field.SetUint(n)
		}
	case reflect.Float32, reflect.Float64:
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			field.SetFloat(f)
		}
	case reflect.Bool:
		field.SetBool(ParseBool(val))
	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.String {
			return
		}
		parts := strings.Split(val, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		field.Set(reflect.ValueOf(parts))
	default:
	}
}

// ParseBool accepts "true", "1" and "yes" in any case.
func ParseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes":
		return true
	default:
		return false
	}
}
