package transform

import (
	"reflect"
	"strings"
)

// StructTrimSpace applies strings.TrimSpace to every string reachable from v.
func StructTrimSpace(v any) {
	StructStringFunc(v, strings.TrimSpace)
}

// StructToLower applies strings.ToLower to every string reachable from v.
func StructToLower(v any) {
	StructStringFunc(v, strings.ToLower)
}

// StructStringFunc applies f to every string reachable from the struct
// pointer v: plain fields, pointers, nested and embedded structs, slice
// elements and map values. Interface fields are not entered.
func StructStringFunc(v any, f func(string) string) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return
	}
	rewrite(rv.Elem(), f)
}

// StructMulti runs fns on v in order.
func StructMulti(v any, fns ...func(any)) {
	for _, fn := range fns {
		fn(v)
	}
}

// rewrite applies f below v, which must be settable unless it is a map or pointer.
func rewrite(v reflect.Value, f func(string) string) {
	switch v.Kind() {
	case reflect.String:
		if v.CanSet() {
			v.SetString(f(v.String()))
		}
	case reflect.Pointer:
		if !v.IsNil() {
			rewrite(v.Elem(), f)
		}
	case reflect.Struct:
		t := v.Type()
		for i := range v.NumField() {
			sf := t.Field(i)
			if !sf.IsExported() || sf.Tag.Get("transform") == "-" {
				continue
			}
			rewrite(v.Field(i), f)
		}
	case reflect.Slice, reflect.Array:
		for i := range v.Len() {
			rewrite(v.Index(i), f)
		}
	case reflect.Map:
		rewriteMap(v, f)
	}
}

// rewriteMap copies each value out, rewrites it and stores it back, since
// map values are not addressable.
func rewriteMap(m reflect.Value, f func(string) string) {
	if m.IsNil() {
		return
	}
	iter := m.MapRange()
	for iter.Next() {
		val := iter.Value()
		switch val.Kind() {
		case reflect.String, reflect.Struct, reflect.Array:
			cp := reflect.New(val.Type()).Elem()
			cp.Set(val)
			rewrite(cp, f)
			m.SetMapIndex(iter.Key(), cp)
		default:
			rewrite(val, f)
		}
	}
}
