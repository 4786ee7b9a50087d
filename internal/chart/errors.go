package chart

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedDocument    = errors.New("malformed chart document")
	ErrMissingRequiredField = errors.New("missing required field")
	ErrUnknownEnumValue     = errors.New("unknown enum value")
)

// FieldError locates a decode failure inside the document. Event is -1 for
// fields outside the actions array.
type FieldError struct {
	Event int
	Kind  string
	Field string
	Token string
	Err   error
}

func (e *FieldError) Error() string {
	where := "settings"
	if e.Event >= 0 {
		where = fmt.Sprintf("action %d (%s)", e.Event, e.Kind)
	}
	if e.Token != "" {
		return fmt.Sprintf("chart: %s: %s %q: %v", where, e.Field, e.Token, e.Err)
	}
	return fmt.Sprintf("chart: %s: %s: %v", where, e.Field, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }
