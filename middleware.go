package reqvalidation

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
)

// ParamsFunc returns the path parameters of a request, e.g. from the router.
type ParamsFunc func(*http.Request) map[string]string

type partKey struct {
	part Part
}

// Middleware returns an http middleware running the pipe on every request.
// Parts are processed in the order param, query, body. Parsed values are
// stored in the request context (see From); the first failure is written
// with WriteError and next is not called.
//
// A body without schema is left unread on r.Body. A validated body is
// restored on r.Body as well.
func (p *Pipe) Middleware(params ParamsFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			for _, part := range Parts {
				raw, skip, err := p.readPart(w, r, part, params)
				if err != nil {
					p.reject(w, r, newBadRequest(part, nil))
					return
				}
				if skip {
					continue
				}
				v, err := p.Transform(ctx, part, raw)
				if err != nil {
					var bre *BadRequestError
					if !errors.As(err, &bre) {
						bre = newBadRequest(part, nil)
					}
					p.reject(w, r, bre)
					return
				}
				ctx = context.WithValue(ctx, partKey{part}, v)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// readPart returns the raw value of part. skip is set for a body without schema.
func (p *Pipe) readPart(w http.ResponseWriter, r *http.Request, part Part, params ParamsFunc) (raw any, skip bool, err error) {
	switch part {
	case PartParam:
		if params == nil {
			return map[string]string{}, false, nil
		}
		ps := params(r)
		if ps == nil {
			ps = map[string]string{}
		}
		return ps, false, nil
	case PartQuery:
		return r.URL.Query(), false, nil
	case PartBody:
		if _, ok := p.schemas[PartBody]; !ok || r.Body == nil || r.Body == http.NoBody {
			return nil, !ok, nil
		}
		b, err := io.ReadAll(http.MaxBytesReader(w, r.Body, p.maxBody))
		_ = r.Body.Close()
		if err != nil {
			return nil, false, err
		}
		r.Body = io.NopCloser(bytes.NewReader(b))
		return b, false, nil
	}
	return nil, true, nil
}

func (p *Pipe) reject(w http.ResponseWriter, r *http.Request, err *BadRequestError) {
	if p.onReject != nil {
		p.onReject(r, err)
	}
	WriteError(w, err)
}

// ValueOf returns the value the middleware stored for part.
func ValueOf(ctx context.Context, part Part) (any, bool) {
	v := ctx.Value(partKey{part})
	return v, v != nil
}

// From returns the parsed value of part as a T. ok is false when the part
// was not processed or holds another type.
func From[T any](r *http.Request, part Part) (T, bool) {
	v, ok := r.Context().Value(partKey{part}).(T)
	return v, ok
}
