package reqvalidation

import (
	"context"

	"github.com/getkin/kin-openapi/openapi3"
)

type (
	// RuleFunc is a function type that validates a value and returns an error if invalid.
	RuleFunc func(value any) error

	// Rule is the interface that all validation rules must implement.
	// Describe mutates the OpenAPI schema of the field the rule is attached to;
	// schema is the parent object schema and ref is the field's own property.
	Rule interface {
		Validate(value any) error
		Describe(name string, schema *openapi3.Schema, ref *openapi3.SchemaRef) error
	}

	// FieldRules binds a struct field pointer to its validation rules.
	FieldRules struct {
		fieldPtr any
		tag      string
		rules    []Rule
	}

	// Ruler is implemented by struct schemas. Rules is called on a fresh
	// value for every validation and documentation pass.
	Ruler interface {
		Rules() []*FieldRules
	}

	// ContextRuler is like Ruler but receives the request context.
	ContextRuler interface {
		Rules(ctx context.Context) []*FieldRules
	}

	// ValueRuler is implemented by non-struct types (e.g. type Mode string)
	// that carry their own validation rules. The returned rules are applied
	// during both validation and OpenAPI schema generation wherever the
	// type appears as a struct field.
	//
	//	type Mode string
	//
	//	func (m Mode) ValueRules() []Rule {
	//	    return []Rule{In(Mode("development"), Mode("production"))}
	//	}
	ValueRuler interface {
		ValueRules() []Rule
	}
)

// appendDescription adds desc to the property description, separated by a space.
func appendDescription(ref *openapi3.SchemaRef, desc string) {
	if desc == "" {
		return
	}
	if ref.Value.Description != "" {
		ref.Value.Description += " "
	}
	ref.Value.Description += desc
}
