package reqvalidation

import (
	"context"
	"errors"
	"net/http"
)

// Part identifies the request part a value was read from.
type Part string

const (
	PartParam Part = "param"
	PartQuery Part = "query"
	PartBody  Part = "body"
)

// Parts lists the request parts in the order the middleware processes them.
var Parts = []Part{PartParam, PartQuery, PartBody}

// Schema parses a raw request part. ObjectSchema implements it.
type Schema interface {
	Parse(ctx context.Context, raw any) (any, error)
}

// Schemas maps request parts to their schema. Parts without an entry are not validated.
type Schemas map[Part]Schema

// RejectHook observes every request the middleware rejects.
type RejectHook func(r *http.Request, err *BadRequestError)

// Option configures a Pipe.
type Option func(*Pipe)

// WithRejectHook registers fn to be called for every rejected request.
func WithRejectHook(fn RejectHook) Option {
	return func(p *Pipe) { p.onReject = fn }
}

// WithMaxBodyBytes limits the body size read by the middleware. n <= 0 keeps the default.
func WithMaxBodyBytes(n int64) Option {
	return func(p *Pipe) {
		if n > 0 {
			p.maxBody = n
		}
	}
}

// DefaultMaxBodyBytes is the body limit of a Pipe without WithMaxBodyBytes.
const DefaultMaxBodyBytes int64 = 1 << 20

// Pipe validates request parts against their schemas. It is immutable
// after New and safe for concurrent use.
type Pipe struct {
	schemas  Schemas
	onReject RejectHook
	maxBody  int64
}

// New returns a Pipe for schemas. The map is copied.
func New(schemas Schemas, opts ...Option) *Pipe {
	p := &Pipe{
		schemas: make(Schemas, len(schemas)),
		maxBody: DefaultMaxBodyBytes,
	}
	for part, s := range schemas {
		if s != nil {
			p.schemas[part] = s
		}
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Schema returns the schema registered for part.
func (p *Pipe) Schema(part Part) (Schema, bool) {
	s, ok := p.schemas[part]
	return s, ok
}

// Transform parses raw with the schema of part. Without a schema raw is
// returned unchanged. Every failure, a panic inside the schema included,
// is reported as a *BadRequestError; only schema violations carry field
// errors.
func (p *Pipe) Transform(ctx context.Context, part Part, raw any) (out any, err error) {
	s, ok := p.schemas[part]
	if !ok {
		return raw, nil
	}

	defer func() {
		if rec := recover(); rec != nil {
			out, err = nil, newBadRequest(part, nil)
		}
	}()

	v, perr := s.Parse(ctx, raw)
	if perr == nil {
		return v, nil
	}
	var fe FieldErrors
	if errors.As(perr, &fe) && len(fe) > 0 {
		return nil, newBadRequest(part, fe)
	}
	return nil, newBadRequest(part, nil)
}
