package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrInvalidConfig is returned when the provided config is not a pointer to a struct
	// that embeds EnvConfig.
	ErrInvalidConfig = errors.New("config must be a pointer to a struct embedding EnvConfig")

	// ErrVarNotSet is returned when a required environment variable is not set and has no default.
	ErrVarNotSet = errors.New("env var not set")

	// ErrUnsupportedVarType is returned when trying to parse an environment variable
	// into an unsupported Go type.
	ErrUnsupportedVarType = errors.New("unsupported env var type")
)

//nolint:gochecknoglobals
var durationType = reflect.TypeOf(time.Duration(0))

// EnvConfig must be embedded in configuration structs passed to Parse.
type EnvConfig struct {
	namespace string
}

// Namespace returns the namespace the config was parsed with.
func (c EnvConfig) Namespace() string {
	return c.namespace
}

func getEnvConfig(cfg any) (*EnvConfig, error) {
	v := reflect.ValueOf(cfg)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		return nil, ErrInvalidConfig
	}

	v = v.Elem()

	for i := range v.NumField() {
		field := v.Type().Field(i)
		//nolint:exhaustruct,forcetypeassert
		if field.Anonymous && field.Type == reflect.TypeOf(EnvConfig{}) {
			return v.Field(i).Addr().Interface().(*EnvConfig), nil
		}
	}

	return nil, ErrInvalidConfig
}

// Parse fills cfg from environment variables.
//
// Fields are bound with `env:"NAME"` and may carry a `default:"..."`; nested structs add
// their `envPrefix` to the names of their fields. A variable is looked up with the full
// namespace first, then with each shorter namespace prefix, then without one: for namespace
// "HOMECASE_LOGINSVC" and name "AUTH_ISSUER" the candidates are HOMECASE_LOGINSVC_AUTH_ISSUER,
// HOMECASE_AUTH_ISSUER and AUTH_ISSUER.
//
// Supported field types are string, bool, signed integers and time.Duration.
func Parse(_ context.Context, cfg any, namespace string) error {
	envConfig, err := getEnvConfig(cfg)
	if err != nil {
		return fmt.Errorf("get env config: %w", err)
	}

	envConfig.namespace = namespace

	return parseStruct(candidatePrefixes(namespace), "", reflect.ValueOf(cfg).Elem())
}

func candidatePrefixes(namespace string) []string {
	var prefixes []string

	if namespace != "" {
		parts := strings.Split(namespace, "_")
		for i := len(parts); i > 0; i-- {
			prefixes = append(prefixes, strings.Join(parts[:i], "_")+"_")
		}
	}

	return append(prefixes, "")
}

func parseStruct(prefixes []string, envPrefix string, v reflect.Value) error {
	t := v.Type()

	for i := range t.NumField() {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		if field.Type.Kind() == reflect.Struct {
			if err := parseStruct(prefixes, envPrefix+field.Tag.Get("envPrefix"), v.Field(i)); err != nil {
				return err
			}

			continue
		}

		if err := parseField(prefixes, envPrefix, field, v.Field(i)); err != nil {
			return fmt.Errorf("parse field %s: %w", field.Name, err)
		}
	}

	return nil
}

func lookupEnv(prefixes []string, name string) (string, bool) {
	for _, prefix := range prefixes {
		if value, ok := os.LookupEnv(prefix + name); ok {
			return value, true
		}
	}

	return "", false
}

func parseField(prefixes []string, envPrefix string, field reflect.StructField, value reflect.Value) error {
	envTag := field.Tag.Get("env")
	if envTag == "" {
		return nil
	}

	envValue, ok := lookupEnv(prefixes, envPrefix+envTag)
	if !ok {
		defaultValue, hasDefault := field.Tag.Lookup("default")
		if !hasDefault {
			return fmt.Errorf("%w: %s", ErrVarNotSet, envPrefix+envTag)
		}

		envValue = defaultValue
	}

	if field.Type == durationType {
		d, err := time.ParseDuration(envValue)
		if err != nil {
			return fmt.Errorf("invalid duration for %s: %w", envTag, err)
		}

		value.SetInt(int64(d))

		return nil
	}

	//nolint:exhaustive
	switch field.Type.Kind() {
	case reflect.String:
		value.SetString(envValue)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(envValue, 10, field.Type.Bits())
		if err != nil {
			return fmt.Errorf("invalid type for %s: %w", envTag, err)
		}

		value.SetInt(n)
	case reflect.Bool:
		b, err := strconv.ParseBool(envValue)
		if err != nil {
			return fmt.Errorf("invalid type for %s: %w", envTag, err)
		}

		value.SetBool(b)
	default:
		return fmt.Errorf("%w: %s (%v)", ErrUnsupportedVarType, envTag, field.Type.Kind())
	}

	return nil
}
