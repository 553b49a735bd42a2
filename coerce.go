package reqvalidation

import (
	"bytes"
	"encoding"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"
)

// ErrUnsupportedKind is returned when a field type cannot be filled from text input.
var ErrUnsupportedKind = errors.New("field kind cannot be coerced from text")

var textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()

// typeError is a coercion failure caused by the input. path is relative to the field.
type typeError struct {
	path string
	msg  string
}

func (e *typeError) Error() string { return e.msg }

func (e *typeError) fieldError(field string) FieldError {
	if e.path != "" {
		field += "." + e.path
	}
	return FieldError{Field: field, Code: CodeInvalidType, Message: e.msg}
}

// kindName describes t the way a JSON client sees it.
func kindName(t reflect.Type) string {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return "a string"
	case reflect.Bool:
		return "a boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "an integer"
	case reflect.Float32, reflect.Float64:
		return "a number"
	case reflect.Slice, reflect.Array:
		return "an array"
	case reflect.Map, reflect.Struct:
		return "an object"
	}
	return "a valid value"
}

// coerceText converts query or path text into a value of type t.
// Repeated values are only accepted for slices.
func coerceText(t reflect.Type, vals []string) (reflect.Value, error) {
	if reflect.PointerTo(t).Implements(textUnmarshalerType) && t.Kind() != reflect.String {
		if len(vals) != 1 {
			return reflect.Value{}, &typeError{msg: "must be a single value"}
		}
		v := reflect.New(t)
		if err := v.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(vals[0])); err != nil {
			return reflect.Value{}, &typeError{msg: fmt.Sprintf("is invalid: %v", err)}
		}
		return v.Elem(), nil
	}

	switch t.Kind() {
	case reflect.Ptr:
		elem, err := coerceText(t.Elem(), vals)
		if err != nil {
			return reflect.Value{}, err
		}
		p := reflect.New(t.Elem())
		p.Elem().Set(elem)
		return p, nil
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			break
		}
		s := reflect.MakeSlice(t, 0, len(vals))
		for i, val := range vals {
			elem, err := coerceText(t.Elem(), []string{val})
			if err != nil {
				var te *typeError
				if errors.As(err, &te) {
					te.path = strconv.Itoa(i)
				}
				return reflect.Value{}, err
			}
			s = reflect.Append(s, elem)
		}
		return s, nil
	}

	if len(vals) != 1 {
		return reflect.Value{}, &typeError{msg: "must be a single value"}
	}
	return parseScalar(t, vals[0])
}

func parseScalar(t reflect.Type, s string) (reflect.Value, error) {
	v := reflect.New(t).Elem()
	switch t.Kind() {
	case reflect.String:
		v.SetString(s)
	case reflect.Bool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return v, &typeError{msg: "must be a boolean"}
		}
		v.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(s, 10, t.Bits())
		if err != nil {
			return v, &typeError{msg: intMessage(err)}
		}
		v.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(s, 10, t.Bits())
		if err != nil {
			return v, &typeError{msg: intMessage(err)}
		}
		v.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(s, t.Bits())
		if err != nil {
			return v, &typeError{msg: "must be a number"}
		}
		v.SetFloat(f)
	case reflect.Slice:
		// []byte
		v.SetBytes([]byte(s))
	case reflect.Interface:
		if t.NumMethod() != 0 {
			return v, fmt.Errorf("%w: %s", ErrUnsupportedKind, t)
		}
		v.Set(reflect.ValueOf(s))
	default:
		return v, fmt.Errorf("%w: %s", ErrUnsupportedKind, t)
	}
	return v, nil
}

func intMessage(err error) string {
	if errors.Is(err, strconv.ErrRange) {
		return "is out of range"
	}
	return "must be an integer"
}

// coerceJSON decodes one JSON member into a value of type t. Numbers are
// not read from strings and null is left to the caller.
func coerceJSON(t reflect.Type, raw json.RawMessage) (reflect.Value, error) {
	v := reflect.New(t)
	err := json.Unmarshal(raw, v.Interface())
	if err == nil {
		return v.Elem(), nil
	}

	var ute *json.UnmarshalTypeError
	if errors.As(err, &ute) {
		return reflect.Value{}, &typeError{path: ute.Field, msg: "must be " + kindName(ute.Type)}
	}
	var se *json.SyntaxError
	if errors.As(err, &se) {
		return reflect.Value{}, err
	}
	// UnmarshalJSON / UnmarshalText of the field type rejected the value.
	return reflect.Value{}, &typeError{msg: fmt.Sprintf("is invalid: %v", err)}
}

func isJSONNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}
