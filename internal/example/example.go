// Package example is the sample route showing the validation pipe on every
// request part: POST /example/{userId}.
package example

import (
	"encoding/json"
	"net/http"

	v "github.com/Gobd/reqvalidation"
	"github.com/Gobd/reqvalidation/is"
	"github.com/Gobd/reqvalidation/openapi"
	"github.com/Gobd/reqvalidation/transform"
)

// Path is the chi route pattern of the example route.
const Path = "/example/{userId}"

// MessageOK is the message of every successful response.
const MessageOK = "Validated successfully"

type Params struct {
	UserID string `json:"userId"`
}

func (p *Params) Rules() []*v.FieldRules {
	return []*v.FieldRules{
		v.Field(&p.UserID, is.UUID, v.Example("8b6e9d0a-22f5-4b59-95dc-1caa4d9f7d35")),
	}
}

type Query struct {
	Active *bool `json:"active,omitempty"`
	Limit  *int  `json:"limit,omitempty"`
}

func (q *Query) Rules() []*v.FieldRules {
	return []*v.FieldRules{
		v.Field(&q.Active, v.Optional),
		v.Field(&q.Limit, v.Optional, v.Min(1), v.Max(100)),
	}
}

type Body struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (b *Body) Rules() []*v.FieldRules {
	return []*v.FieldRules{
		v.Field(&b.Name, v.MinLength(3), v.Example("John Doe")),
		v.Field(&b.Email, is.Email, v.Example("john.doe@example.com")),
	}
}

func (b *Body) Normalize() {
	transform.StructTrimSpace(b)
}

// Data echoes the validated request parts.
type Data struct {
	Params Params `json:"params"`
	Query  Query  `json:"query"`
	Body   Body   `json:"body"`
}

type Response struct {
	Message string `json:"message"`
	Data    Data   `json:"data"`
}

func (r *Response) Rules() []*v.FieldRules {
	return []*v.FieldRules{
		v.Field(&r.Message, v.In(MessageOK)),
		v.Field(&r.Data),
	}
}

var (
	paramsSchema = v.NewObjectMust[Params]()
	querySchema  = v.NewObjectMust[Query]()
	bodySchema   = v.NewObjectMust[Body]()
)

// Schemas returns the schema of every part of the route.
func Schemas() v.Schemas {
	return v.Schemas{
		v.PartParam: paramsSchema,
		v.PartQuery: querySchema,
		v.PartBody:  bodySchema,
	}
}

// Endpoint documents the route.
func Endpoint() openapi.Endpoint {
	return openapi.Endpoint{
		Summary:     "Example endpoint with full validation and Swagger docs",
		Description: "Validates the user id, the query and the body, then echoes them back.",
		Tags:        []string{"Example"},
		Schemas:     Schemas(),
		Responses: map[string]openapi.Response{
			"200": {Desc: "OK", Bodies: []any{Response{}}},
			"400": {Desc: "Bad Request", Bodies: []any{v.BadRequestError{}}},
			"422": {Desc: "Unprocessable Entity"},
		},
	}
}

// Handle answers a request already validated by a pipe built from Schemas.
func Handle(w http.ResponseWriter, r *http.Request) {
	params, _ := v.From[Params](r, v.PartParam)
	query, _ := v.From[Query](r, v.PartQuery)
	body, _ := v.From[Body](r, v.PartBody)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(Response{
		Message: MessageOK,
		Data: Data{
			Params: params,
			Query:  query,
			Body:   body,
		},
	})
}
