package reqvalidation

import (
	"reflect"

	"github.com/getkin/kin-openapi/openapi3"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type lengthRule struct {
	validation.LengthRule
	min, max int
}

// Length returns a validation rule that checks if a string's rune length is within the specified range.
// A max of 0 means no upper bound.
func Length(lo, hi int) Rule {
	return &lengthRule{
		validation.RuneLength(lo, hi),
		lo,
		hi,
	}
}

// MinLength is Length(n, 0).
func MinLength(n int) Rule {
	return Length(n, 0)
}

// Validate applies the ozzo rule, except that a present empty string,
// slice or map is still held to the minimum.
func (r *lengthRule) Validate(value any) error {
	value, isNil := validation.Indirect(value)
	if isNil {
		return nil
	}
	if !validation.IsEmpty(value) || !hasLength(value) {
		return r.LengthRule.Validate(value)
	}
	if r.min == 0 {
		return nil
	}
	switch {
	case r.min == r.max:
		return validation.ErrLengthInvalid.SetParams(map[string]any{"min": r.min})
	case r.max == 0:
		return validation.ErrLengthTooShort.SetParams(map[string]any{"min": r.min})
	default:
		return validation.ErrLengthOutOfRange.SetParams(map[string]any{"min": r.min, "max": r.max})
	}
}

func hasLength(value any) bool {
	switch reflect.ValueOf(value).Kind() {
	case reflect.String, reflect.Slice, reflect.Map, reflect.Array:
		return true
	}
	return false
}

func (r *lengthRule) Describe(_ string, _ *openapi3.Schema, ref *openapi3.SchemaRef) error {
	if ref.Value.Type.Is(openapi3.TypeArray) {
		ref.Value.MinItems = uint64(r.min)
		if r.max > 0 {
			maxItems := uint64(r.max)
			ref.Value.MaxItems = &maxItems
		}
		return nil
	}
	ref.Value.MinLength = uint64(r.min)
	if r.max > 0 {
		maxLength := uint64(r.max)
		ref.Value.MaxLength = &maxLength
	}
	return nil
}
