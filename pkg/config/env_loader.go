/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/carverauto/nmapping/pkg/logger"
)

var (
	// ErrDstMustBeNonNilPointer indicates that the destination must be a non-nil pointer.
	ErrDstMustBeNonNilPointer = errors.New("dst must be a non-nil pointer")
	// ErrDstMustBePointerToStruct indicates that the destination must be a pointer to a struct.
	ErrDstMustBePointerToStruct = errors.New("dst must be a pointer to a struct")

	errUnsupportedEnvField = errors.New("unsupported field type")
	errInvalidMapEntry     = errors.New("map entries must be key=value")
)

// EnvConfigLoader fills a configuration struct from prefixed environment variables.
// Variable names are the upper-cased JSON tags joined with underscores, so
// NMAPPING_DATABASE_POSTGRES_HOST sets Database.Postgres.Host. A complete
// <prefix>CONFIG_JSON document takes precedence over individual variables.
type EnvConfigLoader struct {
	logger logger.Logger
	prefix string
}

// NewEnvConfigLoader creates a new environment variable config loader.
func NewEnvConfigLoader(log logger.Logger, prefix string) *EnvConfigLoader {
	return &EnvConfigLoader{
		logger: log,
		prefix: prefix,
	}
}

// Load implements ConfigLoader. Malformed values are reported together after every
// variable has been applied.
func (e *EnvConfigLoader) Load(_ context.Context, _ string, dst interface{}) error {
	if doc := os.Getenv(e.prefix + "CONFIG_JSON"); doc != "" {
		if err := json.Unmarshal([]byte(doc), dst); err != nil {
			return fmt.Errorf("failed to unmarshal %sCONFIG_JSON: %w", e.prefix, err)
		}

		e.debug("loaded configuration from " + e.prefix + "CONFIG_JSON")

		return nil
	}

	v := reflect.ValueOf(dst)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		return ErrDstMustBeNonNilPointer
	}

	if v.Elem().Kind() != reflect.Struct {
		return ErrDstMustBePointerToStruct
	}

	var errs []error

	e.fillStruct(v.Elem(), e.prefix, &errs)

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	e.debug("loaded configuration from environment variables")

	return nil
}

func (e *EnvConfigLoader) debug(msg string) {
	if e.logger != nil {
		e.logger.Debug().Str("prefix", e.prefix).Msg(msg)
	}
}

func (e *EnvConfigLoader) fillStruct(v reflect.Value, prefix string, errs *[]error) {
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		name, ok := envFieldName(t.Field(i))
		if !ok || !v.Field(i).CanSet() {
			continue
		}

		e.fillField(v.Field(i), prefix+name, errs)
	}
}

func (e *EnvConfigLoader) fillField(field reflect.Value, name string, errs *[]error) {
	switch {
	case field.Kind() == reflect.Struct:
		e.fillStruct(field, name+"_", errs)

		return
	case field.Kind() == reflect.Ptr && field.Type().Elem().Kind() == reflect.Struct:
		// Optional sections stay nil unless a variable under them is set.
		if field.IsNil() {
			if !hasEnvWithPrefix(name + "_") {
				return
			}

			field.Set(reflect.New(field.Type().Elem()))
		}

		e.fillStruct(field.Elem(), name+"_", errs)

		return
	}

	raw, ok := os.LookupEnv(name)
	if !ok || raw == "" {
		return
	}

	if err := setScalar(field, raw); err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", name, err))

		return
	}

	if e.logger != nil {
		e.logger.Debug().Str("env", name).Msg("Applied environment override")
	}
}

// envFieldName returns the variable suffix for a struct field, or false when the
// field has no JSON name.
func envFieldName(f reflect.StructField) (string, bool) {
	tag, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if tag == "" || tag == "-" {
		return "", false
	}

	return strings.ToUpper(strings.ReplaceAll(tag, ".", "_")), true
}

var durationType = reflect.TypeOf(time.Duration(0))

// setScalar parses raw into the leaf kinds the configuration models use.
func setScalar(field reflect.Value, raw string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(raw)
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return err
		}

		field.SetBool(b)
	case reflect.Int, reflect.Int32, reflect.Int64:
		if field.Type() == durationType || field.Type().Name() == "Duration" {
			d, err := time.ParseDuration(raw)
			if err != nil {
				return err
			}

			field.SetInt(int64(d))

			return nil
		}

		n, err := strconv.ParseInt(raw, 10, field.Type().Bits())
		if err != nil {
			return err
		}

		field.SetInt(n)
	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("%w: %s", errUnsupportedEnvField, field.Type())
		}

		parts := strings.Split(raw, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}

		field.Set(reflect.ValueOf(parts).Convert(field.Type()))
	case reflect.Map:
		if field.Type().Key().Kind() != reflect.String || field.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("%w: %s", errUnsupportedEnvField, field.Type())
		}

		m, err := parsePairs(raw)
		if err != nil {
			return err
		}

		field.Set(reflect.ValueOf(m).Convert(field.Type()))
	default:
		return fmt.Errorf("%w: %s", errUnsupportedEnvField, field.Type())
	}

	return nil
}

// parsePairs reads "k1=v1,k2=v2".
func parsePairs(raw string) (map[string]string, error) {
	m := make(map[string]string)

	for _, pair := range strings.Split(raw, ",") {
		k, v, ok := strings.Cut(pair, "=")
		k = strings.TrimSpace(k)

		if !ok || k == "" {
			return nil, fmt.Errorf("%w: %q", errInvalidMapEntry, pair)
		}

		m[k] = strings.TrimSpace(v)
	}

	return m, nil
}

func hasEnvWithPrefix(prefix string) bool {
	for _, kv := range os.Environ() {
		if strings.HasPrefix(kv, prefix) {
			return true
		}
	}

	return false
}
