package reqvalidation

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// ErrUndocumentable is returned when a schema field has no OpenAPI type equivalent.
var ErrUndocumentable = errors.New("field type has no OpenAPI equivalent")

// FieldDoc is the documentation entry for one schema field.
type FieldDoc struct {
	Name     string
	Required bool
	Schema   *openapi3.SchemaRef
}

// Describer is implemented by schemas that can be projected into documentation entries.
type Describer interface {
	Fields() ([]FieldDoc, error)
}

// objectField is one input member of a struct schema.
type objectField struct {
	name     string
	goName   string
	index    []int
	typ      reflect.Type
	optional bool
}

type fieldKey struct {
	addr uintptr
	typ  reflect.Type
}

// jsonName returns the JSON member name of sf and whether it takes part in (de)serialisation.
func jsonName(sf reflect.StructField) (string, bool) {
	tag := strings.Split(sf.Tag.Get("json"), ",")[0]
	if tag == "-" {
		return "", false
	}
	if tag == "" {
		return sf.Name, true
	}
	return tag, true
}

// objectFields lists the input members of struct type t in declaration order.
// Only fields carrying a json tag are members, matching openapi3gen.
// Members promoted from non-pointer embedded structs are included; fields
// tagged json:"-" or docs:"skip" are not.
func objectFields(t reflect.Type) ([]objectField, error) {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("schema type %s is not a struct", t)
	}

	inst := reflect.New(t)
	optional := map[fieldKey]bool{}
	if rules, ok := rulesOf(context.Background(), inst.Interface()); ok {
		for _, fr := range ExpandFields(context.Background(), inst.Interface(), rules) {
			fv := reflect.ValueOf(fr.fieldPtr)
			if fv.Kind() != reflect.Ptr || fv.IsNil() {
				return nil, fmt.Errorf("schema %s: rule target must be a non-nil pointer, got %T", t, fr.fieldPtr)
			}
			if fr.isOptional() {
				optional[fieldKey{fv.Pointer(), fv.Type().Elem()}] = true
			}
		}
	}

	var fields []objectField
	for _, sf := range reflect.VisibleFields(t) {
		if sf.Anonymous || !sf.IsExported() {
			continue
		}
		if _, tagged := sf.Tag.Lookup("json"); !tagged {
			continue
		}
		if strings.Split(sf.Tag.Get("docs"), ",")[0] == "skip" {
			continue
		}
		name, ok := jsonName(sf)
		if !ok {
			continue
		}
		fv, err := inst.Elem().FieldByIndexErr(sf.Index)
		if err != nil {
			// promoted through a nil embedded pointer
			continue
		}
		fields = append(fields, objectField{
			name:     name,
			goName:   sf.Name,
			index:    sf.Index,
			typ:      sf.Type,
			optional: optional[fieldKey{fv.Addr().Pointer(), sf.Type}],
		})
	}
	return fields, nil
}

// FieldDocs projects the struct schema value into one documentation entry per
// field, in declaration order. A field is required unless its rules contain
// Optional. Property schemas carry the OpenAPI translation of the Go type
// plus everything the field's rules describe.
func FieldDocs(value any) ([]FieldDoc, error) {
	t := reflect.TypeOf(value)
	if t == nil {
		return nil, errors.New("nil schema value")
	}
	fields, err := objectFields(t)
	if err != nil {
		return nil, err
	}
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	ref, err := NewSchemaRefForValue(value)
	if err != nil {
		return nil, err
	}

	docs := make([]FieldDoc, 0, len(fields))
	for _, f := range fields {
		prop := ref.Value.Properties[f.name]
		if prop == nil || prop.Value == nil || !documentable(prop.Value) {
			return nil, fmt.Errorf("%s.%s (%s): %w", t.Name(), f.goName, f.typ, ErrUndocumentable)
		}
		docs = append(docs, FieldDoc{
			Name:     f.name,
			Required: !f.optional,
			Schema:   prop,
		})
	}
	return docs, nil
}

func documentable(s *openapi3.Schema) bool {
	if s.Type != nil && len(*s.Type) > 0 {
		return true
	}
	return len(s.OneOf) > 0 || len(s.AnyOf) > 0 || len(s.AllOf) > 0
}
