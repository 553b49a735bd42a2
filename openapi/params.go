package openapi

import (
	"fmt"

	v "github.com/Gobd/reqvalidation"
	"github.com/getkin/kin-openapi/openapi3"
)

// Params projects the fields of d into OpenAPI parameters located in in
// (openapi3.ParameterInPath or openapi3.ParameterInQuery), keeping the
// field order. Path parameters must be required.
func Params(in string, d v.Describer) (openapi3.Parameters, error) {
	switch in {
	case openapi3.ParameterInPath, openapi3.ParameterInQuery, openapi3.ParameterInHeader:
	default:
		return nil, fmt.Errorf("unsupported parameter location %q", in)
	}

	docs, err := d.Fields()
	if err != nil {
		return nil, err
	}

	params := make(openapi3.Parameters, 0, len(docs))
	for _, fd := range docs {
		if in == openapi3.ParameterInPath && !fd.Required {
			return nil, fmt.Errorf("path parameter %q must be required", fd.Name)
		}
		p := &openapi3.Parameter{
			Name:        fd.Name,
			In:          in,
			Required:    fd.Required,
			Description: fd.Schema.Value.Description,
			Schema:      fd.Schema,
		}
		params = append(params, &openapi3.ParameterRef{Value: p})
	}
	return params, nil
}
