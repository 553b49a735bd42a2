package reqvalidation

import (
	"slices"

	"github.com/getkin/kin-openapi/openapi3"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type requiredRule struct {
	validation.RequiredRule
}

// Required is a validation rule that checks if a value is not empty.
// Presence alone is enforced for every field not marked Optional; Required
// additionally rejects zero values such as "".
var Required = requiredRule{validation.Required}

func (r requiredRule) Describe(name string, schema *openapi3.Schema, _ *openapi3.SchemaRef) error {
	addRequired(schema, name)
	return nil
}

type optionalRule struct{}

// Optional marks a field that may be absent from the input. Optional fields
// are documented as not required and skip the presence check; use a pointer
// type to tell an absent value apart from a zero one.
var Optional Rule = optionalRule{}

func (optionalRule) Validate(any) error { return nil }

func (optionalRule) Describe(string, *openapi3.Schema, *openapi3.SchemaRef) error { return nil }

func addRequired(schema *openapi3.Schema, name string) {
	if !slices.Contains(schema.Required, name) {
		schema.Required = append(schema.Required, name)
	}
}
