package fusedex

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

const tagKey = "fusedex"

// schemaMeta holds parsed struct tag metadata, cached per TypedSearch.
type schemaMeta struct {
	typ reflect.Type // struct type for reconstruction

	// Struct field populated from the hit id.
	keyIdx int

	// Mapping from document field name to struct field index.
	fields []fieldMapping
}

type fieldMapping struct {
	structIdx int
	name      string
}

// parseSchema reflects on T and extracts fusedex struct tag metadata.
func parseSchema[T any]() (*schemaMeta, error) {
	var zero T
	t := reflect.TypeOf(zero)
	if t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("fusedex: type %v is not a struct", t)
	}

	meta := &schemaMeta{typ: t, keyIdx: -1}

	for i := range t.NumField() {
		f := t.Field(i)
		tag := f.Tag.Get(tagKey)
		if tag == "" || tag == "-" {
			continue
		}
		if err := applyTag(meta, i, f.Name, tag); err != nil {
			return nil, err
		}
	}

	if meta.keyIdx == -1 {
		return nil, fmt.Errorf("fusedex: no field with `fusedex:\"...,key\"` tag in %s", t)
	}
	return meta, nil
}

// applyTag processes a single struct field's fusedex tag.
func applyTag(meta *schemaMeta, idx int, fieldName, tag string) error {
	parts := strings.SplitN(tag, ",", 2)
	name := parts[0]
	modifier := ""
	if len(parts) == 2 {
		modifier = parts[1]
	}

	switch modifier {
	case "key":
		if meta.keyIdx != -1 {
			return fmt.Errorf("fusedex: duplicate key tag on field %s", fieldName)
		}
		meta.keyIdx = idx
	case "":
		// Plain mapping: document field name → struct field.
	default:
		return fmt.Errorf("fusedex: unknown modifier %q on field %s", modifier, fieldName)
	}
	if name != "" {
		meta.fields = append(meta.fields, fieldMapping{structIdx: idx, name: name})
	}
	return nil
}

// fieldNames returns the mapped document field names, for the field list of
// a search request.
func (m *schemaMeta) fieldNames() []string {
	names := make([]string, len(m.fields))
	for i, f := range m.fields {
		names[i] = f.name
	}
	return names
}

// fromFields reconstructs a typed struct from a hit's id and field map.
// Field values are coerced per driver encoding: Solr yields json.Number,
// RediSearch yields strings.
func (m *schemaMeta) fromFields(id string, fields map[string]any) any {
	v := reflect.New(m.typ).Elem()

	key := v.Field(m.keyIdx)
	if key.Kind() == reflect.String {
		key.SetString(id)
	}

	for _, fm := range m.fields {
		val, ok := fields[fm.name]
		if !ok {
			continue
		}
		setFieldValue(v.Field(fm.structIdx), val)
	}
	return v.Interface()
}

// setFieldValue assigns a backend field value to a struct field, coercing
// across the encodings the drivers produce. Unassignable combinations are
// left at the zero value.
func setFieldValue(v reflect.Value, val any) {
	switch tv := val.(type) {
	case string:
		setFromString(v, tv)
	case bool:
		if v.Kind() == reflect.Bool {
			v.SetBool(tv)
		}
	case float64:
		setNumeric(v, tv)
	case json.Number:
		if v.Kind() == reflect.String {
			v.SetString(tv.String())
			return
		}
		if f, err := tv.Float64(); err == nil {
			setNumeric(v, f)
		}
	case []any:
		setFromSlice(v, tv)
	}
}

func setFromString(v reflect.Value, s string) {
	switch v.Kind() {
	case reflect.String:
		v.SetString(s)
	case reflect.Bool:
		if b, err := strconv.ParseBool(s); err == nil {
			v.SetBool(b)
		}
	default:
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			setNumeric(v, f)
		}
	}
}

func setFromSlice(v reflect.Value, vals []any) {
	if v.Kind() != reflect.Slice {
		// Solr returns single-valued fields as one-element arrays when the
		// schema marks them multiValued.
		if len(vals) > 0 {
			setFieldValue(v, vals[0])
		}
		return
	}

	out := reflect.MakeSlice(v.Type(), len(vals), len(vals))
	for i, val := range vals {
		setFieldValue(out.Index(i), val)
	}
	v.Set(out)
}

func setNumeric(v reflect.Value, f float64) {
	switch v.Kind() {
	case reflect.Float32, reflect.Float64:
		v.SetFloat(f)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v.SetInt(int64(f))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v.SetUint(uint64(f))
	}
}
