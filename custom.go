package reqvalidation

import (
	"github.com/getkin/kin-openapi/openapi3"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type custom struct {
	f    func(any) error
	desc string
}

// Custom returns a validation rule that uses f for validation and desc for documentation.
// f receives the raw field value, nil pointers included.
func Custom(f func(any) error, desc string) Rule {
	return custom{
		f:    f,
		desc: desc,
	}
}

func (r custom) Describe(_ string, _ *openapi3.Schema, ref *openapi3.SchemaRef) error {
	appendDescription(ref, r.desc)
	return nil
}

func (r custom) Validate(value any) error {
	return r.f(value)
}

// By wraps a RuleFunc into a Rule. Unlike Custom, f only sees dereferenced,
// non-nil values.
func By(f RuleFunc, desc string) Rule {
	return &inlineRule{validation.By(validation.RuleFunc(f)), desc}
}

type inlineRule struct {
	validation.Rule
	desc string
}

func (r *inlineRule) Validate(value any) error {
	value, isNil := validation.Indirect(value)
	if isNil {
		return nil
	}
	return r.Rule.Validate(value)
}

func (r *inlineRule) Describe(_ string, _ *openapi3.Schema, ref *openapi3.SchemaRef) error {
	appendDescription(ref, r.desc)
	return nil
}

type docRule struct {
	apply func(ref *openapi3.SchemaRef)
}

func (r docRule) Validate(any) error { return nil }

func (r docRule) Describe(_ string, _ *openapi3.Schema, ref *openapi3.SchemaRef) error {
	r.apply(ref)
	return nil
}

// Default returns a documentation-only rule that sets the schema default value.
// Defaults are applied by the caller (see the env package), not by validation.
func Default(a any) Rule {
	return docRule{func(ref *openapi3.SchemaRef) { ref.Value.Default = a }}
}

// Describe returns a documentation-only rule that appends desc to the schema description.
func Describe(desc string) Rule {
	return docRule{func(ref *openapi3.SchemaRef) { appendDescription(ref, desc) }}
}

// Example returns a documentation-only rule that sets the schema example value.
func Example(ex any) Rule {
	return docRule{func(ref *openapi3.SchemaRef) { ref.Value.Example = ex }}
}
