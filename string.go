package reqvalidation

import (
	"github.com/getkin/kin-openapi/openapi3"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type stringRule struct {
	validation.StringRule
	valid     func(string) bool
	err       validation.Error
	desc      string
	format    string
	checkZero bool
}

// NewStringRuleWithError returns a string validation rule with a custom error and schema description.
func NewStringRuleWithError(validator func(string) bool, err validation.Error, desc string) Rule {
	return stringRule{
		StringRule: validation.NewStringRuleWithError(validator, err),
		desc:       desc,
	}
}

// NewStringRule returns a string validation rule using desc as both the error message and schema description.
func NewStringRule(validator func(string) bool, desc string) Rule {
	return stringRule{
		StringRule: validation.NewStringRule(validator, desc),
		desc:       desc,
	}
}

// NewFormatRule returns a string rule documented as an OpenAPI format
// (e.g. "email"). Unlike NewStringRule, a present empty string is checked
// as well, so "" is not a valid email.
func NewFormatRule(validator func(string) bool, err validation.Error, format string) Rule {
	return stringRule{
		StringRule: validation.NewStringRuleWithError(validator, err),
		valid:      validator,
		err:        err,
		format:     format,
		checkZero:  true,
	}
}

func (r stringRule) Validate(value any) error {
	if !r.checkZero {
		return r.StringRule.Validate(value)
	}
	value, isNil := validation.Indirect(value)
	if isNil {
		return nil
	}
	s, err := validation.EnsureString(value)
	if err != nil {
		return err
	}
	if !r.valid(s) {
		return r.err
	}
	return nil
}

func (r stringRule) Describe(_ string, _ *openapi3.Schema, ref *openapi3.SchemaRef) error {
	if r.format != "" {
		ref.Value.Format = r.format
	}
	appendDescription(ref, r.desc)
	return nil
}
