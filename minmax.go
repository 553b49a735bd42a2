package reqvalidation

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"

	"github.com/getkin/kin-openapi/openapi3"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type thresholdRule struct {
	validation.ThresholdRule
	threshold any
	min       bool
}

// Min returns a validation rule that checks if a value is greater than or equal to the specified minimum.
// Unlike the plain ozzo rule, a present zero number is compared too; only nil is skipped.
func Min(threshold any) Rule {
	return thresholdRule{
		validation.Min(threshold),
		threshold,
		true,
	}
}

// Max returns a validation rule that checks if a value is less than or equal to the specified maximum.
func Max(threshold any) Rule {
	return thresholdRule{
		validation.Max(threshold),
		threshold,
		false,
	}
}

func (r thresholdRule) Describe(_ string, _ *openapi3.Schema, ref *openapi3.SchemaRef) error {
	if ref.Value.Type.Is(openapi3.TypeString) {
		ref.Value.Format = fmt.Sprintf("%T", r.threshold)
	}
	f, err := getFloat(r.threshold)
	if err != nil {
		return err
	}
	if r.min {
		ref.Value.Min = &f
	} else {
		ref.Value.Max = &f
	}
	return nil
}

var floatType = reflect.TypeOf(float64(0))

func getFloat(unk any) (float64, error) {
	v := reflect.Indirect(reflect.ValueOf(unk))
	if !v.IsValid() || !v.Type().ConvertibleTo(floatType) {
		return 0, fmt.Errorf("cannot convert %T to float64", unk)
	}
	return v.Convert(floatType).Float(), nil
}

func isNumberKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// Validate checks if the given value is valid or not.
func (r thresholdRule) Validate(value any) error {
	value, isNil := validation.Indirect(value)
	if isNil {
		return nil
	}

	kind := reflect.ValueOf(value).Kind()
	if kind == reflect.String {
		if validation.IsEmpty(value) {
			return nil
		}
		return r.validateString(value)
	}

	// ozzo skips empty values, which would let a present 0 through Min(1).
	if validation.IsEmpty(value) && isNumberKind(kind) {
		return r.validateZero()
	}
	return r.ThresholdRule.Validate(value)
}

func (r thresholdRule) validateZero() error {
	t, err := getFloat(r.threshold)
	if err != nil {
		return err
	}
	if r.min && t > 0 {
		return validation.ErrMinGreaterEqualThanRequired.SetParams(map[string]any{"threshold": r.threshold})
	}
	if !r.min && t < 0 {
		return validation.ErrMaxLessEqualThanRequired.SetParams(map[string]any{"threshold": r.threshold})
	}
	return nil
}

// validateString parses numeric strings (and json.Number) using the threshold's kind.
func (r thresholdRule) validateString(value any) error {
	s := reflect.ValueOf(value).String()
	if v, ok := value.(fmt.Stringer); ok {
		s = v.String()
	}

	var (
		parsed any
		err    error
	)
	switch reflect.ValueOf(r.threshold).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		parsed, err = strconv.ParseInt(s, 10, 64)
		if err != nil {
			return errors.New("must be int64")
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		parsed, err = strconv.ParseUint(s, 10, 64)
		if err != nil {
			return errors.New("must be uint64")
		}
	case reflect.Float32, reflect.Float64:
		parsed, err = strconv.ParseFloat(s, 64)
		if err != nil {
			return errors.New("must be float64")
		}
	default:
		parsed = s
	}
	return r.ThresholdRule.Validate(parsed)
}
