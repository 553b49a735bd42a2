package reqvalidation

import (
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// In returns a validation rule that checks if a value is one of the allowed values.
func In(values ...any) Rule {
	want := make([]string, len(values))
	for i := range values {
		want[i] = fmt.Sprintf("'%v'", values[i])
	}
	return &inRule{
		InRule: validation.In(values...),
		values: values,
		want:   strings.Join(want, ", "),
	}
}

// inRule is a validation rule that validates if a value can be found in the given list of values.
type inRule struct {
	validation.InRule
	values []any
	want   string
}

func (r *inRule) Validate(value any) error {
	if err := r.InRule.Validate(value); err != nil {
		v, _ := validation.Indirect(value)
		return validation.ErrInInvalid.SetMessage(fmt.Sprintf("must be one of %s, got '%v'", r.want, v))
	}
	return nil
}

func (r *inRule) Describe(_ string, _ *openapi3.Schema, ref *openapi3.SchemaRef) error {
	ref.Value.Enum = r.values
	return nil
}
