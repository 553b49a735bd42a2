package reqvalidation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"reflect"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// ErrUnsupportedInput is returned by Parse for raw values it cannot read.
var ErrUnsupportedInput = errors.New("unsupported raw input")

// ObjectSchema parses raw request parts into a T, a struct whose pointer
// usually implements Ruler. Every json-tagged field is a member; a member
// is required unless its rules contain Optional.
//
// Accepted raw inputs:
//   - nil, read as an empty object
//   - url.Values, map[string][]string and map[string]string; values are
//     coerced from text into the field type
//   - []byte, json.RawMessage and io.Reader holding a JSON object; members
//     are decoded strictly into the field type
//   - map[string]any; strings are coerced as text, anything else as JSON
//   - T or *T, which are only normalized and validated
//
// An ObjectSchema is immutable and safe for concurrent use.
type ObjectSchema[T any] struct {
	fields  []objectField
	members map[string]bool
	strict  bool
}

// NewObject builds the schema for T. It fails when T is not a struct or its
// rules point outside of it.
func NewObject[T any]() (*ObjectSchema[T], error) {
	var zero T
	fields, err := objectFields(reflect.TypeOf(&zero))
	if err != nil {
		return nil, err
	}
	s := &ObjectSchema[T]{
		fields:  fields,
		members: make(map[string]bool, len(fields)),
	}
	for _, f := range fields {
		s.members[f.name] = true
	}
	return s, nil
}

// NewObjectMust is like NewObject but panics on error. Use it for package-level schemas.
func NewObjectMust[T any]() *ObjectSchema[T] {
	s, err := NewObject[T]()
	if err != nil {
		panic(err)
	}
	return s
}

// Strict returns a copy of s that rejects members T does not declare.
func (s *ObjectSchema[T]) Strict() *ObjectSchema[T] {
	cp := *s
	cp.strict = true
	return &cp
}

// Parse implements Schema. The parsed value is a T.
func (s *ObjectSchema[T]) Parse(ctx context.Context, raw any) (any, error) {
	v, err := s.Decode(ctx, raw)
	if err != nil {
		return nil, err
	}
	return v, nil
}

// Decode is the typed form of Parse. Schema violations are returned as
// FieldErrors; any other error means the input could not be read at all.
func (s *ObjectSchema[T]) Decode(ctx context.Context, raw any) (T, error) {
	var out T
	switch r := raw.(type) {
	case T:
		out = r
		return out, s.check(ctx, &out, nil, nil, nil)
	case *T:
		if r != nil {
			out = *r
			return out, s.check(ctx, &out, nil, nil, nil)
		}
		raw = nil
	}

	members, err := collectMembers(raw)
	if err != nil {
		return out, err
	}

	pre := map[string]FieldError{}
	absent := map[string]bool{}
	target := reflect.ValueOf(&out).Elem()
	for _, f := range s.fields {
		m, ok := members[f.name]
		if !ok || (m.isNull() && f.optional) {
			if f.optional {
				absent[f.name] = true
			} else {
				pre[f.name] = FieldError{Field: f.name, Code: CodeRequired, Message: "is required"}
			}
			continue
		}
		if m.isNull() {
			pre[f.name] = FieldError{Field: f.name, Code: CodeInvalidType, Message: "must not be null"}
			continue
		}
		val, err := m.coerce(f.typ)
		if err != nil {
			var te *typeError
			if !errors.As(err, &te) {
				return out, fmt.Errorf("field %s: %w", f.name, err)
			}
			pre[f.name] = te.fieldError(f.name)
			continue
		}
		dst, err := target.FieldByIndexErr(f.index)
		if err != nil {
			return out, err
		}
		dst.Set(val)
	}

	var unknown FieldErrors
	if s.strict {
		for _, name := range sortedNames(members) {
			if !s.members[name] {
				unknown = append(unknown, FieldError{Field: name, Code: CodeUnknownField, Message: "is not allowed"})
			}
		}
	}
	return out, s.check(ctx, &out, pre, absent, unknown)
}

// check normalizes and validates out, merging in errors found while reading it.
// Rules of absent optional members are not reported; they only judge values
// that were supplied.
func (s *ObjectSchema[T]) check(ctx context.Context, out *T, pre map[string]FieldError, absent map[string]bool, unknown FieldErrors) error {
	normalizeRecursive(ctx, out)

	order := make([]string, len(s.fields))
	for i, f := range s.fields {
		order[i] = f.name
	}
	var ruleErrs FieldErrors
	if err := ValidateCtx(ctx, out); err != nil {
		var ierr error
		ruleErrs, ierr = flattenErrors(err, order)
		if ierr != nil {
			return ierr
		}
	}

	var errs FieldErrors
	for _, f := range s.fields {
		if fe, ok := pre[f.name]; ok {
			errs = append(errs, fe)
			continue
		}
		if absent[f.name] {
			continue
		}
		for _, e := range ruleErrs {
			if topLevel(e.Field) == f.name {
				errs = append(errs, e)
			}
		}
	}
	errs = append(errs, unknown...)
	for _, e := range ruleErrs {
		if !s.members[topLevel(e.Field)] {
			errs = append(errs, e)
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Fields implements Describer.
func (s *ObjectSchema[T]) Fields() ([]FieldDoc, error) {
	return FieldDocs(new(T))
}

// SchemaRef returns the OpenAPI schema of T.
func (s *ObjectSchema[T]) SchemaRef() (*openapi3.SchemaRef, error) {
	return NewSchemaRefForValue(new(T))
}

func topLevel(path string) string {
	name, _, _ := strings.Cut(path, ".")
	return name
}

// member is one raw input member, either text or JSON.
type member struct {
	text []string
	json json.RawMessage
}

func (m member) isNull() bool {
	return m.text == nil && isJSONNull(m.json)
}

func (m member) coerce(t reflect.Type) (reflect.Value, error) {
	if m.text != nil {
		return coerceText(t, m.text)
	}
	return coerceJSON(t, m.json)
}

func sortedNames(members map[string]member) []string {
	names := make([]string, 0, len(members))
	for name := range members {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func collectMembers(raw any) (map[string]member, error) {
	members := map[string]member{}
	switch r := raw.(type) {
	case nil:
	case url.Values:
		return textMembers(r), nil
	case map[string][]string:
		return textMembers(r), nil
	case map[string]string:
		for k, v := range r {
			members[k] = member{text: []string{v}}
		}
	case map[string]any:
		for k, v := range r {
			switch tv := v.(type) {
			case string:
				members[k] = member{text: []string{tv}}
			case []string:
				if len(tv) > 0 {
					members[k] = member{text: tv}
				}
			default:
				b, err := json.Marshal(v)
				if err != nil {
					return nil, fmt.Errorf("member %s: %w", k, err)
				}
				members[k] = member{json: b}
			}
		}
	case json.RawMessage:
		return jsonMembers(r)
	case []byte:
		return jsonMembers(r)
	case io.Reader:
		b, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}
		return jsonMembers(b)
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedInput, raw)
	}
	return members, nil
}

func textMembers(values map[string][]string) map[string]member {
	members := make(map[string]member, len(values))
	for k, v := range values {
		if len(v) > 0 {
			members[k] = member{text: v}
		}
	}
	return members
}

func jsonMembers(b []byte) (map[string]member, error) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return map[string]member{}, nil
	}
	if !json.Valid(b) {
		return nil, errors.New("malformed JSON input")
	}
	if b[0] != '{' {
		return nil, FieldErrors{{Code: CodeNotObject, Message: "must be a JSON object"}}
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(b, &obj); err != nil {
		return nil, err
	}
	members := make(map[string]member, len(obj))
	for k, v := range obj {
		members[k] = member{json: v}
	}
	return members, nil
}
