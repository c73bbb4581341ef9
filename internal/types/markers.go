// internal/types/markers.go
package types

// Cell values are plain interface{} values: scalars, []interface{}
// lists, or one of the sentinel markers below.

// Censored is the sentinel returned in place of real cell content when
// access rules redact it. An editor seeing it shows an empty value.
type Censored struct{}

// RaisedException marks a formula cell whose last evaluation raised an
// error. Summary is always present; Detail is filled in asynchronously
// by the error-detail fetch when available.
type RaisedException struct {
	Code    string // short machine tag, e.g. "ZeroDivisionError"
	Summary string // one-line human summary
	Detail  string // richer detail, empty until fetched
}

// IsCensored reports whether v is the censored-content marker.
func IsCensored(v interface{}) bool {
	_, ok := v.(Censored)
	return ok
}

// AsException returns the exception marker carried by v, if any.
func AsException(v interface{}) (RaisedException, bool) {
	exc, ok := v.(RaisedException)
	return exc, ok
}
