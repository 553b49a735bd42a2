package reqvalidation

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Validate runs the rules of value. Structs are validated through their
// Ruler or ContextRuler rules, other types through ValueRuler, and slices
// or maps of Ruler structs element by element. Field errors are returned
// as validation.Errors keyed by JSON member name.
func Validate(value any) error {
	return validateCore(context.Background(), value)
}

// ValidateCtx is like Validate but passes ctx to ContextRuler.Rules.
func ValidateCtx(ctx context.Context, value any) error {
	return validateCore(ctx, value)
}

// ValidateStruct validates structPtr against explicit field rules.
func ValidateStruct(structPtr any, fields []*FieldRules) error {
	return validation.ValidateStruct(structPtr, convertFieldRules(context.Background(), structPtr, fields...)...)
}

// UnmarshalAndValidate decodes b into dst, runs Normalize hooks and validates.
// Unlike ObjectSchema it performs no presence check.
func UnmarshalAndValidate(b []byte, dst any) error {
	return UnmarshalAndValidateCtx(context.Background(), b, dst)
}

// UnmarshalAndValidateCtx is like UnmarshalAndValidate with a context.
func UnmarshalAndValidateCtx(ctx context.Context, b []byte, dst any) error {
	if err := json.Unmarshal(b, dst); err != nil {
		return err
	}
	normalizeRecursive(ctx, dst)
	return ValidateCtx(ctx, dst)
}

// DecodeAndValidate is UnmarshalAndValidate for an [io.Reader].
func DecodeAndValidate(r io.Reader, dst any) error {
	return DecodeAndValidateCtx(context.Background(), r, dst)
}

// DecodeAndValidateCtx is like DecodeAndValidate with a context.
func DecodeAndValidateCtx(ctx context.Context, r io.Reader, dst any) error {
	if err := json.NewDecoder(r).Decode(dst); err != nil {
		return err
	}
	normalizeRecursive(ctx, dst)
	return ValidateCtx(ctx, dst)
}

func validateStructRules(ctx context.Context, structPtr any) (bool, error) {
	rules, ok := rulesOf(ctx, structPtr)
	if !ok {
		return false, nil
	}
	return true, validation.ValidateStruct(structPtr, convertFieldRules(ctx, structPtr, rules...)...)
}

func validateCore(ctx context.Context, value any) error {
	rv := reflect.ValueOf(value)
	if !rv.IsValid() || (rv.Kind() == reflect.Ptr && rv.IsNil()) {
		return nil
	}

	if ok, err := validateStructRules(ctx, value); ok {
		return err
	}
	// ozzo hands struct fields over by value; *T may still carry the rules.
	if rv.Kind() == reflect.Struct {
		ptr := reflect.New(rv.Type())
		ptr.Elem().Set(rv)
		if ok, err := validateStructRules(ctx, ptr.Interface()); ok {
			return err
		}
	}

	if vr, ok := value.(ValueRuler); ok {
		for _, rule := range vr.ValueRules() {
			if err := rule.Validate(value); err != nil {
				return err
			}
		}
		return nil
	}

	rv = reflect.Indirect(rv)
	switch rv.Kind() {
	case reflect.Map:
		if shouldAutoValidate(rv.Type().Elem()) {
			return validateMap(ctx, rv)
		}
	case reflect.Slice, reflect.Array:
		if shouldAutoValidate(rv.Type().Elem()) {
			return validateSlice(ctx, rv)
		}
	case reflect.Ptr, reflect.Interface:
		if !rv.IsNil() {
			return validateCore(ctx, rv.Elem().Interface())
		}
	}
	return nil
}

// shouldAutoValidate reports whether elements of t (or of nested collections of t) carry rules.
func shouldAutoValidate(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Struct:
		_, ok := rulesOf(context.Background(), reflect.New(t).Interface())
		return ok
	case reflect.Ptr:
		return t.Elem().Kind() == reflect.Struct && shouldAutoValidate(t.Elem())
	case reflect.Slice, reflect.Array, reflect.Map:
		return shouldAutoValidate(t.Elem())
	}
	return false
}

func validateElement(ctx context.Context, v reflect.Value) error {
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface:
		if v.IsNil() {
			return nil
		}
		return validateCore(ctx, v.Interface())
	case reflect.Struct:
		ptr := reflect.New(v.Type())
		ptr.Elem().Set(v)
		return validateCore(ctx, ptr.Interface())
	case reflect.Slice, reflect.Array, reflect.Map:
		return validateCore(ctx, v.Interface())
	}
	return nil
}

func validateSlice(ctx context.Context, rv reflect.Value) error {
	errs := validation.Errors{}
	for i := range rv.Len() {
		if err := validateElement(ctx, rv.Index(i)); err != nil {
			errs[strconv.Itoa(i)] = err
		}
	}
	return errs.Filter()
}

func validateMap(ctx context.Context, rv reflect.Value) error {
	errs := validation.Errors{}
	iter := rv.MapRange()
	for iter.Next() {
		if err := validateElement(ctx, iter.Value()); err != nil {
			errs[fmt.Sprint(iter.Key().Interface())] = err
		}
	}
	return errs.Filter()
}

// rulerBridge lets ozzo descend into struct fields that carry their own rules.
type rulerBridge struct {
	ctx context.Context
}

func (b *rulerBridge) Validate(value any) error {
	if value == nil {
		return nil
	}
	return validateCore(b.ctx, value)
}

// convertFieldRules turns FieldRules into ozzo field rules, flattening
// embedded rulers and appending a rulerBridge to every field.
func convertFieldRules(ctx context.Context, structPtr any, fields ...*FieldRules) []*validation.FieldRules {
	flat := ExpandFields(ctx, structPtr, fields)
	out := make([]*validation.FieldRules, len(flat))
	for i, fr := range flat {
		rules := make([]validation.Rule, 0, len(fr.rules)+1)
		for _, r := range fr.rules {
			rules = append(rules, r)
		}
		rules = append(rules, &rulerBridge{ctx: ctx})
		out[i] = validation.Field(fr.fieldPtr, rules...)
	}
	return out
}
