package reqvalidation

import (
	"context"
	"reflect"
	"strings"
)

// MissingRules returns the JSON names of exported fields of structPtr that
// no rule in its Rules() refers to. Embedded rulers are expanded first.
// Fields tagged json:"-", docs:"skip" or validate:"-" are ignored, as are
// the names (Go or JSON) listed in exclude.
//
// Use it in tests to catch forgotten fields:
//
//	assert.Empty(t, v.MissingRules(&Body{}))
func MissingRules(structPtr any, exclude ...string) []string {
	rules, ok := rulesOf(context.Background(), structPtr)
	if !ok {
		return nil
	}
	rules = ExpandFields(context.Background(), structPtr, rules)

	structVal := reflect.Indirect(reflect.ValueOf(structPtr))
	covered := map[string]bool{}
	for _, fr := range rules {
		fv := reflect.ValueOf(fr.fieldPtr)
		if fv.Kind() != reflect.Ptr {
			continue
		}
		if sf := FindStructField(structVal, fv); sf != nil {
			name, _ := jsonName(*sf)
			covered[name] = true
		}
	}

	excl := map[string]bool{}
	for _, e := range exclude {
		excl[e] = true
	}

	var missing []string
	for _, sf := range reflect.VisibleFields(structVal.Type()) {
		if sf.Anonymous || !sf.IsExported() || sf.Tag.Get("validate") == "-" {
			continue
		}
		if strings.Split(sf.Tag.Get("docs"), ",")[0] == "skip" {
			continue
		}
		name, ok := jsonName(sf)
		if !ok || excl[name] || excl[sf.Name] || covered[name] {
			continue
		}
		missing = append(missing, name)
	}
	return missing
}
