package reqvalidation

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Error codes produced by ObjectSchema itself. Rule failures carry the
// ozzo-validation codes (e.g. validation_length_too_short).
const (
	CodeRequired     = "validation_required"
	CodeInvalidType  = "validation_invalid_type"
	CodeUnknownField = "validation_unknown_field"
	CodeNotObject    = "validation_not_object"
)

// Message of every BadRequestError.
const MessageValidationFailed = "Validation failed"

// FieldError is one field-level failure. Field is the dotted path of the
// offending member ("" for the value as a whole).
type FieldError struct {
	Field   string `json:"field"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// FieldErrors is an ordered list of field failures. It is the structured
// schema violation returned by ObjectSchema.Parse.
type FieldErrors []FieldError

func (fe FieldErrors) Error() string {
	msgs := make([]string, len(fe))
	for i, e := range fe {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

// Has reports whether any error is attached to field.
func (fe FieldErrors) Has(field string) bool {
	for _, e := range fe {
		if e.Field == field {
			return true
		}
	}
	return false
}

// BadRequestError is the terminal result of a failed Pipe transform.
type BadRequestError struct {
	Message    string      `json:"message"`
	StatusCode int         `json:"statusCode"`
	Errors     FieldErrors `json:"errors,omitempty"`
	Part       Part        `json:"-"`
}

func newBadRequest(part Part, errs FieldErrors) *BadRequestError {
	return &BadRequestError{
		Message:    MessageValidationFailed,
		StatusCode: http.StatusBadRequest,
		Errors:     errs,
		Part:       part,
	}
}

func (e *BadRequestError) Error() string {
	if len(e.Errors) == 0 {
		return e.Message
	}
	return e.Message + ": " + e.Errors.Error()
}

// HTTPStatus returns the status code the error should be answered with.
func (e *BadRequestError) HTTPStatus() int {
	return e.StatusCode
}

func (e *BadRequestError) Unwrap() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e.Errors
}

// WriteError writes err as a JSON response.
func WriteError(w http.ResponseWriter, err *BadRequestError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.HTTPStatus())
	_ = json.NewEncoder(w).Encode(err)
}

// flattenErrors converts the result of a rule run into FieldErrors. Top-level
// keys follow order; nested keys are sorted. Internal ozzo errors are
// returned unchanged as the second value.
func flattenErrors(err error, order []string) (FieldErrors, error) {
	var out FieldErrors
	if ierr := appendFlat(&out, "", err, order); ierr != nil {
		return nil, ierr
	}
	return out, nil
}

func appendFlat(out *FieldErrors, prefix string, err error, order []string) error {
	var ie validation.InternalError
	if errors.As(err, &ie) && ie.InternalError() != nil {
		return err
	}

	var es validation.Errors
	if !errors.As(err, &es) {
		fe := FieldError{Field: prefix, Message: err.Error()}
		var ve validation.Error
		if errors.As(err, &ve) {
			fe.Code = ve.Code()
		}
		*out = append(*out, fe)
		return nil
	}

	for _, key := range orderedKeys(es, order) {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}
		if err := appendFlat(out, path, es[key], nil); err != nil {
			return err
		}
	}
	return nil
}

// orderedKeys returns the keys of es, those listed in order first.
// The rest are sorted, numerically when both keys are indexes.
func orderedKeys(es validation.Errors, order []string) []string {
	keys := make([]string, 0, len(es))
	seen := make(map[string]bool, len(order))
	for _, k := range order {
		if es[k] != nil && !seen[k] {
			keys = append(keys, k)
			seen[k] = true
		}
	}
	var rest []string
	for k, v := range es {
		if v != nil && !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Slice(rest, func(i, j int) bool {
		a, errA := strconv.Atoi(rest[i])
		b, errB := strconv.Atoi(rest[j])
		if errA == nil && errB == nil {
			return a < b
		}
		return rest[i] < rest[j]
	})
	return append(keys, rest...)
}
