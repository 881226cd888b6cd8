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
	"encoding/json"
	"errors"
	"reflect"
	"strings"
)

var errSanitizeNotStruct = errors.New("config must be a struct or pointer to struct")

// SanitizeForLog marshals a configuration struct with every `sensitive:"true"` field
// left out, for logging the effective configuration at startup. Output keys follow
// the JSON tags so the result reads like the configuration file.
func SanitizeForLog(cfg interface{}) ([]byte, error) {
	if cfg == nil {
		return nil, nil
	}

	v := reflect.ValueOf(cfg)
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil, nil
		}

		v = v.Elem()
	}

	if v.Kind() != reflect.Struct {
		return nil, errSanitizeNotStruct
	}

	return json.Marshal(redact(v))
}

// redact converts v into JSON-ready values, dropping sensitive struct fields at any depth.
func redact(v reflect.Value) interface{} {
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface:
		if v.IsNil() {
			return nil
		}

		return redact(v.Elem())
	case reflect.Struct:
		// Types with their own encoding (Duration) keep it.
		if _, ok := v.Interface().(json.Marshaler); ok {
			return v.Interface()
		}

		out := make(map[string]interface{}, v.NumField())
		t := v.Type()

		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if !f.IsExported() || f.Tag.Get("sensitive") == "true" {
				continue
			}

			name, opts, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				continue
			}

			if name == "" {
				name = f.Name
			}

			fv := v.Field(i)
			if strings.Contains(opts, "omitempty") && fv.IsZero() {
				continue
			}

			out[name] = redact(fv)
		}

		return out
	case reflect.Slice:
		if v.IsNil() {
			return nil
		}

		items := make([]interface{}, v.Len())
		for i := range items {
			items[i] = redact(v.Index(i))
		}

		return items
	case reflect.Map:
		if v.IsNil() {
			return nil
		}

		out := make(map[string]interface{}, v.Len())
		iter := v.MapRange()

		for iter.Next() {
			if iter.Key().Kind() == reflect.String {
				out[iter.Key().String()] = redact(iter.Value())
			}
		}

		return out
	default:
		return v.Interface()
	}
}
