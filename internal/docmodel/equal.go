// internal/docmodel/equal.go
package docmodel

import "reflect"

// ValuesEqual is the equality gate for cell writes. Cell values are
// scalars, []interface{} lists or marker structs, possibly nested, so
// plain == is not enough; interface comparison also panics on slices.
func ValuesEqual(a, b interface{}) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	if ta.Comparable() {
		return a == b
	}
	return reflect.DeepEqual(a, b)
}
