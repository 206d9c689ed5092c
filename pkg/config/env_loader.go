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

	"github.com/carverauto/linkwatch/pkg/logger"
	"github.com/carverauto/linkwatch/pkg/models"
)

var (
	// ErrDstMustBeNonNilPointer indicates that the destination must be a non-nil pointer.
	ErrDstMustBeNonNilPointer = errors.New("dst must be a non-nil pointer")
	// ErrDstMustBePointerToStruct indicates that the destination must be a pointer to a struct.
	ErrDstMustBePointerToStruct = errors.New("dst must be a pointer to a struct")
	errUnsupportedFieldKind     = errors.New("unsupported field kind")
)

//nolint:gochecknoglobals // reflect types compared on every int field
var (
	stdDurationType    = reflect.TypeOf(time.Duration(0))
	modelsDurationType = reflect.TypeOf(models.Duration(0))
)

// EnvConfigLoader loads configuration from environment variables.
// Nested struct fields are joined with underscores, so with the prefix
// LINKWATCH_ the field nats.url is read from LINKWATCH_NATS_URL.
// <prefix>CONFIG_JSON, when set, replaces per-field lookup entirely.
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

// Load implements ConfigLoader by reading from environment variables.
func (e *EnvConfigLoader) Load(_ context.Context, _ string, dst interface{}) error {
	if jsonConfig := os.Getenv(e.prefix + "CONFIG_JSON"); jsonConfig != "" {
		if err := json.Unmarshal([]byte(jsonConfig), dst); err != nil {
			return fmt.Errorf("failed to unmarshal %sCONFIG_JSON: %w", e.prefix, err)
		}

		e.debug("Loaded configuration from CONFIG_JSON environment variable")

		return nil
	}

	v := reflect.ValueOf(dst)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		return ErrDstMustBeNonNilPointer
	}

	v = v.Elem()
	if v.Kind() != reflect.Struct {
		return ErrDstMustBePointerToStruct
	}

	e.loadStruct(v, e.prefix)

	e.debug("Loaded configuration from environment variables")

	return nil
}

func (e *EnvConfigLoader) debug(msg string) {
	if e.logger != nil {
		e.logger.Debug().Str("prefix", e.prefix).Msg(msg)
	}
}

func (e *EnvConfigLoader) loadStruct(v reflect.Value, prefix string) {
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)

		if !field.CanSet() {
			continue
		}

		jsonTag := fieldType.Tag.Get("json")

		// Untagged embedded structs share the parent's namespace, as in JSON.
		if fieldType.Anonymous && jsonTag == "" && field.Kind() == reflect.Struct {
			e.loadStruct(field, prefix)
			continue
		}

		if jsonTag == "" || jsonTag == "-" {
			continue
		}

		fieldName := strings.Split(jsonTag, ",")[0]
		envName := prefix + strings.ToUpper(strings.ReplaceAll(fieldName, ".", "_"))

		if err := e.setFieldValue(field, envName); err != nil && e.logger != nil {
			// A bad value leaves the field untouched; Validate reports what matters.
			e.logger.Warn().
				Str("field", fieldName).
				Str("env", envName).
				Err(err).
				Msg("Ignoring invalid environment value")
		}
	}
}

func (e *EnvConfigLoader) setFieldValue(field reflect.Value, envName string) error {
	envValue, set := os.LookupEnv(envName)

	if isNestedStruct(field) {
		if set {
			// Whole-struct JSON wins over per-field variables.
			return json.Unmarshal([]byte(envValue), field.Addr().Interface())
		}

		if field.Kind() == reflect.Ptr {
			if !hasEnvWithPrefix(envName + "_") {
				return nil
			}

			if field.IsNil() {
				field.Set(reflect.New(field.Type().Elem()))
			}

			e.loadStruct(field.Elem(), envName+"_")

			return nil
		}

		e.loadStruct(field, envName+"_")

		return nil
	}

	if !set || envValue == "" {
		return nil
	}

	return setFieldByKind(field, envName, envValue)
}

func isNestedStruct(field reflect.Value) bool {
	if field.Kind() == reflect.Struct {
		return true
	}

	return field.Kind() == reflect.Ptr && field.Type().Elem().Kind() == reflect.Struct
}

func hasEnvWithPrefix(prefix string) bool {
	for _, kv := range os.Environ() {
		if strings.HasPrefix(kv, prefix) {
			return true
		}
	}

	return false
}

func setFieldByKind(field reflect.Value, envName, envValue string) error {
	//nolint:exhaustive // remaining kinds fall through to JSON
	switch field.Kind() {
	case reflect.String:
		field.SetString(envValue)
	case reflect.Bool:
		b, err := strconv.ParseBool(envValue)
		if err != nil {
			return fmt.Errorf("invalid boolean value for %s: %w", envName, err)
		}

		field.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return setIntField(field, envName, envValue)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u, err := strconv.ParseUint(envValue, 10, field.Type().Bits())
		if err != nil {
			return fmt.Errorf("invalid unsigned integer value for %s: %w", envName, err)
		}

		field.SetUint(u)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(envValue, 64)
		if err != nil {
			return fmt.Errorf("invalid float value for %s: %w", envName, err)
		}

		field.SetFloat(f)
	case reflect.Slice:
		return setSliceField(field, envName, envValue)
	case reflect.Map:
		if err := json.Unmarshal([]byte(envValue), field.Addr().Interface()); err != nil {
			return fmt.Errorf("invalid map value for %s: %w", envName, err)
		}
	case reflect.Ptr:
		if field.IsNil() {
			field.Set(reflect.New(field.Type().Elem()))
		}

		return setFieldByKind(field.Elem(), envName, envValue)
	default:
		return fmt.Errorf("%w %s for %s", errUnsupportedFieldKind, field.Kind(), envName)
	}

	return nil
}

// setIntField accepts Go duration strings for time.Duration and models.Duration.
func setIntField(field reflect.Value, envName, envValue string) error {
	if field.Type() == stdDurationType || field.Type() == modelsDurationType {
		d, err := time.ParseDuration(envValue)
		if err != nil {
			return fmt.Errorf("invalid duration value for %s: %w", envName, err)
		}

		field.SetInt(int64(d))

		return nil
	}

	i, err := strconv.ParseInt(envValue, 10, field.Type().Bits())
	if err != nil {
		return fmt.Errorf("invalid integer value for %s: %w", envName, err)
	}

	field.SetInt(i)

	return nil
}

// setSliceField takes a JSON array when the value looks like one and a
// comma-separated list otherwise. Each list item is decoded as a JSON string,
// so element types with UnmarshalJSON (such as models.Device) accept bare
// addresses.
func setSliceField(field reflect.Value, envName, envValue string) error {
	if strings.HasPrefix(strings.TrimSpace(envValue), "[") {
		if err := json.Unmarshal([]byte(envValue), field.Addr().Interface()); err != nil {
			return fmt.Errorf("invalid slice value for %s: %w", envName, err)
		}

		return nil
	}

	values := strings.Split(envValue, ",")
	slice := reflect.MakeSlice(field.Type(), 0, len(values))

	for _, raw := range values {
		item := strings.TrimSpace(raw)
		if item == "" {
			continue
		}

		elem := reflect.New(field.Type().Elem())

		if elem.Elem().Kind() == reflect.String {
			elem.Elem().SetString(item)
		} else {
			quoted, _ := json.Marshal(item)
			if err := json.Unmarshal(quoted, elem.Interface()); err != nil {
				return fmt.Errorf("invalid list item %q for %s: %w", item, envName, err)
			}
		}

		slice = reflect.Append(slice, elem.Elem())
	}

	field.Set(slice)

	return nil
}
