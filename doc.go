// Package reqvalidation validates HTTP request parts against declarative
// struct schemas and projects the same schemas into OpenAPI 3 documentation.
//
// A schema is a struct whose pointer implements [Ruler]:
//
//	type CreateUser struct {
//	    Name  string `json:"name"`
//	    Email string `json:"email"`
//	    Age   *int   `json:"age,omitempty"`
//	}
//
//	func (u *CreateUser) Rules() []*FieldRules {
//	    return []*FieldRules{
//	        Field(&u.Name, MinLength(3)),
//	        Field(&u.Email, is.Email),
//	        Field(&u.Age, Optional, Min(0)),
//	    }
//	}
//
// Every field is required unless its rules contain [Optional]. Wrap the type
// with [NewObject] to get a [Schema] that coerces raw query strings, path
// parameters or JSON bodies into the struct, then validates it:
//
//	pipe := New(Schemas{PartBody: NewObjectMust[CreateUser]()})
//	r.With(pipe.Middleware(nil)).Post("/users", create)
//
// Inside the handler, [From] returns the validated value. A request that
// fails validation never reaches the handler; it is answered with a
// [BadRequestError].
//
// [FieldDocs] turns the same struct into ordered documentation entries, so
// docs and validation cannot drift.
//
// Sub-packages:
//   - openapi – document building, parameter projection and Swagger UI
//   - env – typed environment configuration parsed through a schema
//   - is – string format rules (email, uuid, url)
//   - transform – struct string transformation utilities
package reqvalidation
