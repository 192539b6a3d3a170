package xrm

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// Scan resolves one resource per leaf field of target and decodes the
// results into it. target must be a non-nil struct pointer. Field
// resource names come from the `xrm` tag, falling back to the Go field
// name; nested structs extend the name with dots, and prefix, when not
// empty, is prepended to every query. Fields tagged `xrm:"-"` are
// skipped.
//
// Queries run by name only. A field whose query matches nothing keeps
// its current value, so targets can be pre-filled with defaults before
// scanning. Decoding is weakly typed through mapstructure: resource
// values convert to numbers, booleans, time.Duration, and
// comma-separated slices as the field type demands.
func (d *Database) Scan(prefix string, target any) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return fmt.Errorf("target of Scan must be a non-nil pointer, got %T", target)
	}
	elem := rv.Elem()
	if elem.Kind() != reflect.Struct {
		return fmt.Errorf("target of Scan must point to a struct, got %T", target)
	}

	// Allow a trailing dot on the prefix for convenience.
	prefix = strings.TrimSuffix(prefix, ".")

	values := make(map[string]any)
	if err := d.collectFields(elem.Type(), prefix, "", values); err != nil {
		return err
	}

	decoderConfig := &mapstructure.DecoderConfig{
		Result:           target,
		TagName:          "xrm",
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	}
	decoder, err := mapstructure.NewDecoder(decoderConfig)
	if err != nil {
		return fmt.Errorf("failed to create mapstructure decoder: %w", err)
	}
	if err := decoder.Decode(values); err != nil {
		return fmt.Errorf("failed to scan resources into %T: %w", target, err)
	}

	return nil
}

// collectFields walks a struct type, querying the database once per leaf
// field and recording found values under the field's path relative to
// the scan root. Struct and struct-pointer fields recurse instead of
// being queried themselves.
func (d *Database) collectFields(t reflect.Type, queryPrefix, relPrefix string, values map[string]any) error {
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		tag := field.Tag.Get("xrm")
		if tag == "-" {
			continue
		}
		key := field.Name
		if tag != "" {
			parts := strings.Split(tag, ",")
			if parts[0] != "" {
				key = parts[0]
			}
		}

		queryPath := key
		if queryPrefix != "" {
			queryPath = queryPrefix + "." + key
		}
		relPath := key
		if relPrefix != "" {
			relPath = relPrefix + "." + key
		}

		fieldType := field.Type
		if fieldType.Kind() == reflect.Ptr {
			fieldType = fieldType.Elem()
		}
		if fieldType.Kind() == reflect.Struct {
			if err := d.collectFields(fieldType, queryPath, relPath, values); err != nil {
				return err
			}
			continue
		}

		r, err := d.Query(queryPath, "")
		if err != nil {
			return fmt.Errorf("field %s: %w", field.Name, err)
		}
		if value, ok := r.Value(); ok {
			setNestedValue(values, relPath, value)
		}
	}
	return nil
}
