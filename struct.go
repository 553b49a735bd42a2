package reqvalidation

import (
	"context"
	"reflect"
)

// Field creates a FieldRules binding a struct field pointer to its validation rules.
func Field[T any](fieldPtr *T, rules ...Rule) *FieldRules {
	return &FieldRules{
		fieldPtr: fieldPtr,
		rules:    rules,
	}
}

// isOptional reports whether the rule set contains Optional.
func (fr *FieldRules) isOptional() bool {
	for _, r := range fr.rules {
		if _, ok := r.(optionalRule); ok {
			return true
		}
	}
	return false
}

// rulesOf returns the field rules of structPtr when it implements Ruler or ContextRuler.
func rulesOf(ctx context.Context, structPtr any) ([]*FieldRules, bool) {
	switch r := structPtr.(type) {
	case Ruler:
		return r.Rules(), true
	case ContextRuler:
		return r.Rules(ctx), true
	}
	return nil, false
}

// ExpandFields flattens embedded Ruler/ContextRuler field rules into the parent's rule set.
// Non-embedded fields are returned as-is. Embedded Ruler fields have their Rules() inlined
// recursively, so error keys and schema properties are flat.
func ExpandFields(ctx context.Context, structPtr any, fields []*FieldRules) []*FieldRules {
	structVal := reflect.Indirect(reflect.ValueOf(structPtr))
	if !structVal.IsValid() || structVal.Kind() != reflect.Struct {
		return fields
	}

	result := make([]*FieldRules, 0, len(fields))
	for _, fr := range fields {
		fv := reflect.ValueOf(fr.fieldPtr)
		if fv.Kind() == reflect.Ptr {
			if sf := FindStructField(structVal, fv); sf != nil && sf.Anonymous {
				embeddedPtr := fv.Interface()
				if inner, ok := rulesOf(ctx, embeddedPtr); ok {
					result = append(result, ExpandFields(ctx, embeddedPtr, inner)...)
					continue
				}
			}
		}
		result = append(result, fr)
	}
	return result
}

// FindStructField returns the field of structValue located at the address held by fieldValue.
// It searches embedded structs as well; nil is returned when nothing matches.
func FindStructField(structValue reflect.Value, fieldValue reflect.Value) *reflect.StructField {
	ptr := fieldValue.Pointer()
	for i := structValue.NumField() - 1; i >= 0; i-- {
		sf := structValue.Type().Field(i)
		// An embedded struct shares its address with its first field, so the type must match too.
		if ptr == structValue.Field(i).UnsafeAddr() && sf.Type == fieldValue.Elem().Type() {
			return &sf
		}
		if !sf.Anonymous {
			continue
		}
		fi := structValue.Field(i)
		if sf.Type.Kind() == reflect.Ptr {
			fi = fi.Elem()
		}
		if fi.Kind() == reflect.Struct {
			if f := FindStructField(fi, fieldValue); f != nil {
				return f
			}
		}
	}
	return nil
}
