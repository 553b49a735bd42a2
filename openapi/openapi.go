package openapi

import (
	"errors"
	"fmt"
	"net/http"
	"sort"

	v "github.com/Gobd/reqvalidation"
	"github.com/getkin/kin-openapi/openapi3"
)

// Response describes an HTTP response. A response without bodies has no content.
type Response struct {
	Desc   string
	Bodies []any
}

// Endpoint describes a single API operation.
//
// Schemas documents the parts a [v.Pipe] validates: the param and query
// schemas must implement [v.Describer] and are projected with [Params], the
// body schema must provide its own SchemaRef (as [v.ObjectSchema] does).
// Request and Requests document a body from plain values and win over the
// body schema.
type Endpoint struct {
	Summary     string
	Description string
	Tags        []string
	Schemas     v.Schemas
	Request     any
	Requests    []any               // oneOf request bodies
	Response    any                 // 200 response body
	Responses   map[string]Response // overrides Response
}

type schemaRefer interface {
	SchemaRef() (*openapi3.SchemaRef, error)
}

// NewRequestMust is like [NewRequest] but panics on error.
func NewRequestMust(vs ...any) *openapi3.RequestBodyRef {
	o, err := NewRequest(vs...)
	if err != nil {
		panic(err)
	}
	return o
}

// NewRequest generates a required JSON request body from the given values.
// Several values are combined with oneOf.
func NewRequest(vs ...any) (*openapi3.RequestBodyRef, error) {
	if len(vs) == 0 {
		return nil, errors.New("no values given")
	}
	refs := make(openapi3.SchemaRefs, 0, len(vs))
	for _, val := range vs {
		ref, err := v.NewSchemaRefForValue(val)
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return requestBody(oneOf(refs)), nil
}

func requestBody(schema *openapi3.SchemaRef) *openapi3.RequestBodyRef {
	return &openapi3.RequestBodyRef{
		Value: openapi3.NewRequestBody().
			WithRequired(true).
			WithContent(openapi3.NewContentWithJSONSchemaRef(schema)),
	}
}

func oneOf(refs openapi3.SchemaRefs) *openapi3.SchemaRef {
	if len(refs) == 1 {
		return refs[0]
	}
	return &openapi3.SchemaRef{Value: &openapi3.Schema{OneOf: refs}}
}

// NewResponseMust is like [NewResponse] but panics on error.
func NewResponseMust(vs map[string]Response) *openapi3.Responses {
	o, err := NewResponse(vs)
	if err != nil {
		panic(err)
	}
	return o
}

// NewResponse creates an OpenAPI responses object. Map keys are status
// codes (e.g. "200", "4xx").
func NewResponse(vs map[string]Response) (*openapi3.Responses, error) {
	if len(vs) == 0 {
		return nil, errors.New("no values given")
	}

	codes := make([]string, 0, len(vs))
	for code := range vs {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	opts := make([]openapi3.NewResponsesOption, 0, len(vs))
	for _, code := range codes {
		resp := openapi3.NewResponse().WithDescription(vs[code].Desc)
		if len(vs[code].Bodies) > 0 {
			refs := make(openapi3.SchemaRefs, 0, len(vs[code].Bodies))
			for _, body := range vs[code].Bodies {
				ref, err := v.NewSchemaRefForValue(body)
				if err != nil {
					return nil, fmt.Errorf("response %s: %w", code, err)
				}
				refs = append(refs, ref)
			}
			resp.WithContent(openapi3.NewContentWithJSONSchemaRef(oneOf(refs)))
		}
		opts = append(opts, openapi3.WithName(code, resp))
	}
	return openapi3.NewResponses(opts...), nil
}

// DocBase returns a basic OpenAPI 3.0.3 document.
func DocBase(serviceName, description, version string) *openapi3.T {
	return &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:       serviceName,
			Description: description,
			Version:     version,
		},
		Paths: openapi3.NewPaths(),
	}
}

// AddPath sets the operation for method at path, keeping the other methods of the path.
func AddPath(path, method string, doc *openapi3.T, op *openapi3.Operation) {
	p := doc.Paths.Value(path)
	if p == nil {
		p = &openapi3.PathItem{}
	}
	p.SetOperation(method, op)
	doc.Paths.Set(path, p)
}

// AddEndpoint builds the operation described by ep and registers it at path and method.
func AddEndpoint(doc *openapi3.T, path, method, operationID string, ep Endpoint) error {
	op := &openapi3.Operation{
		OperationID: operationID,
		Summary:     ep.Summary,
		Description: ep.Description,
		Tags:        ep.Tags,
	}

	for _, loc := range []struct {
		part v.Part
		in   string
	}{{v.PartParam, openapi3.ParameterInPath}, {v.PartQuery, openapi3.ParameterInQuery}} {
		s, ok := ep.Schemas[loc.part]
		if !ok {
			continue
		}
		d, ok := s.(v.Describer)
		if !ok {
			return fmt.Errorf("%s %s: %s schema %T cannot be documented", method, path, loc.part, s)
		}
		params, err := Params(loc.in, d)
		if err != nil {
			return fmt.Errorf("%s %s: %w", method, path, err)
		}
		op.Parameters = append(op.Parameters, params...)
	}

	switch {
	case len(ep.Requests) > 0:
		body, err := NewRequest(ep.Requests...)
		if err != nil {
			return err
		}
		op.RequestBody = body
	case ep.Request != nil:
		body, err := NewRequest(ep.Request)
		if err != nil {
			return err
		}
		op.RequestBody = body
	case ep.Schemas[v.PartBody] != nil:
		s, ok := ep.Schemas[v.PartBody].(schemaRefer)
		if !ok {
			return fmt.Errorf("%s %s: body schema %T cannot be documented", method, path, ep.Schemas[v.PartBody])
		}
		ref, err := s.SchemaRef()
		if err != nil {
			return fmt.Errorf("%s %s: %w", method, path, err)
		}
		op.RequestBody = requestBody(ref)
	}

	responses := ep.Responses
	if responses == nil && ep.Response != nil {
		responses = map[string]Response{
			"200": {Desc: "OK", Bodies: []any{ep.Response}},
		}
	}
	if responses != nil {
		r, err := NewResponse(responses)
		if err != nil {
			return fmt.Errorf("%s %s: %w", method, path, err)
		}
		op.Responses = r
	} else {
		op.Responses = openapi3.NewResponses()
	}

	AddPath(path, method, doc, op)
	return nil
}

func mustAdd(doc *openapi3.T, path, method, operationID string, ep Endpoint) {
	if err := AddEndpoint(doc, path, method, operationID, ep); err != nil {
		panic(err)
	}
}

// Get registers a GET endpoint on doc. It panics on error.
func Get(doc *openapi3.T, path, operationID string, ep Endpoint) {
	mustAdd(doc, path, http.MethodGet, operationID, ep)
}

// Post registers a POST endpoint on doc. It panics on error.
func Post(doc *openapi3.T, path, operationID string, ep Endpoint) {
	mustAdd(doc, path, http.MethodPost, operationID, ep)
}

// Put registers a PUT endpoint on doc. It panics on error.
func Put(doc *openapi3.T, path, operationID string, ep Endpoint) {
	mustAdd(doc, path, http.MethodPut, operationID, ep)
}

// Patch registers a PATCH endpoint on doc. It panics on error.
func Patch(doc *openapi3.T, path, operationID string, ep Endpoint) {
	mustAdd(doc, path, http.MethodPatch, operationID, ep)
}

// Delete registers a DELETE endpoint on doc. It panics on error.
func Delete(doc *openapi3.T, path, operationID string, ep Endpoint) {
	mustAdd(doc, path, http.MethodDelete, operationID, ep)
}
