package issue

import "fmt"

// ErrorKind tags a validation failure so callers can branch without
// string-matching messages.
type ErrorKind string

const (
	ErrDimensionMismatch ErrorKind = "dimension_mismatch"
	ErrOutOfRange        ErrorKind = "out_of_range"
	ErrMalformedProfile  ErrorKind = "malformed_profile"
)

// ValidationError reports an invalid proposal, dimension, or party profile.
// Evaluation aborts on the first one — nothing is partially scored.
type ValidationError struct {
	Kind      ErrorKind `json:"kind"`
	Dimension string    `json:"dimension,omitempty"`
	Party     string    `json:"party,omitempty"`
	Detail    string    `json:"detail"`
}

func (e *ValidationError) Error() string {
	msg := string(e.Kind)
	if e.Party != "" {
		msg += " party=" + e.Party
	}
	if e.Dimension != "" {
		msg += " dimension=" + e.Dimension
	}
	return fmt.Sprintf("%s: %s", msg, e.Detail)
}
