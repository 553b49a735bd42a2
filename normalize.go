package reqvalidation

import (
	"context"
	"reflect"
)

// Normalizer is implemented by schemas that clean up decoded input before
// validation, e.g. trimming whitespace. Normalize is called on the top-level
// value first and then on every nested struct, pointer, slice element and
// map value that implements it.
type Normalizer interface {
	Normalize()
}

// ContextNormalizer is like Normalizer but receives the request context.
type ContextNormalizer interface {
	Normalize(context.Context)
}

func callNormalize(ctx context.Context, v any) {
	switch n := v.(type) {
	case ContextNormalizer:
		n.Normalize(ctx)
	case Normalizer:
		n.Normalize()
	}
}

// normalizeRecursive runs the Normalize hooks of a and everything reachable from it.
func normalizeRecursive(ctx context.Context, a any) {
	if a == nil {
		return
	}
	rv := reflect.ValueOf(a)
	if rv.Kind() == reflect.Ptr && rv.IsNil() {
		return
	}
	callNormalize(ctx, a)
	normalizeChildren(ctx, reflect.Indirect(rv))
}

// normalizeValue normalizes one addressable or pointer value and then its children.
func normalizeValue(ctx context.Context, v reflect.Value) {
	switch v.Kind() {
	case reflect.Ptr:
		if v.IsNil() {
			return
		}
		callNormalize(ctx, v.Interface())
		normalizeChildren(ctx, v.Elem())
	case reflect.Struct:
		if v.CanAddr() {
			callNormalize(ctx, v.Addr().Interface())
		}
		normalizeChildren(ctx, v)
	case reflect.Slice, reflect.Array, reflect.Map:
		normalizeChildren(ctx, v)
	}
}

func normalizeChildren(ctx context.Context, v reflect.Value) {
	switch v.Kind() {
	case reflect.Struct:
		for i := range v.NumField() {
			if v.Type().Field(i).IsExported() {
				normalizeValue(ctx, v.Field(i))
			}
		}
	case reflect.Slice, reflect.Array:
		for i := range v.Len() {
			normalizeValue(ctx, v.Index(i))
		}
	case reflect.Map:
		// Map values are not addressable; normalize a copy and store it back.
		iter := v.MapRange()
		for iter.Next() {
			val := iter.Value()
			if val.Kind() != reflect.Struct {
				normalizeValue(ctx, val)
				continue
			}
			cp := reflect.New(val.Type())
			cp.Elem().Set(val)
			normalizeValue(ctx, cp)
			v.SetMapIndex(iter.Key(), cp.Elem())
		}
	}
}
