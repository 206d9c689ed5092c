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
	"reflect"
	"strings"
)

const redactedValue = "[REDACTED]"

//nolint:gochecknoglobals // reflect type compared on every field
var jsonMarshalerType = reflect.TypeOf((*json.Marshaler)(nil)).Elem()

// Redacted marshals cfg to JSON with every non-empty field tagged
// sensitive:"true" replaced by a placeholder. Untagged embedded structs are
// flattened the way encoding/json flattens them. Types with their own
// MarshalJSON are emitted as they marshal themselves.
func Redacted(cfg interface{}) ([]byte, error) {
	if cfg == nil {
		return []byte("null"), nil
	}

	return json.Marshal(redact(reflect.ValueOf(cfg)))
}

func redact(v reflect.Value) interface{} {
	for v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil
		}

		v = v.Elem()
	}

	if v.Type().Implements(jsonMarshalerType) || reflect.PointerTo(v.Type()).Implements(jsonMarshalerType) {
		return v.Interface()
	}

	switch v.Kind() {
	case reflect.Struct:
		out := make(map[string]interface{})
		redactStruct(v, out)

		return out
	case reflect.Slice, reflect.Array:
		if v.Kind() == reflect.Slice && v.IsNil() {
			return nil
		}

		out := make([]interface{}, v.Len())
		for i := range out {
			out[i] = redact(v.Index(i))
		}

		return out
	default:
		return v.Interface()
	}
}

func redactStruct(v reflect.Value, out map[string]interface{}) {
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		tag := field.Tag.Get("json")
		if tag == "-" {
			continue
		}

		fv := v.Field(i)

		if field.Anonymous && tag == "" && fv.Kind() == reflect.Struct {
			redactStruct(fv, out)
			continue
		}

		name, opts, _ := strings.Cut(tag, ",")
		if name == "" {
			name = field.Name
		}

		if strings.Contains(opts, "omitempty") && fv.IsZero() {
			continue
		}

		if field.Tag.Get("sensitive") == "true" {
			if !fv.IsZero() {
				out[name] = redactedValue
			}

			continue
		}

		out[name] = redact(fv)
	}
}
