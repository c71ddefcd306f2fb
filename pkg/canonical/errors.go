package canonical

import (
	"errors"
	"fmt"
)

var ErrEncoding = errors.New("record has no canonical encoding")

const (
	ReasonNonFinite     = "non-finite number"
	ReasonCycle         = "cyclic reference"
	ReasonInvalidUTF8   = "invalid UTF-8 string"
	ReasonUnsupported   = "unsupported value"
	ReasonInvalidNumber = "invalid number literal"
	ReasonInvalidJSON   = "invalid JSON"
)

// EncodingError reports a record that cannot be canonicalized. Path locates
// the offending value using $-rooted JSON path notation.
type EncodingError struct {
	Path   string
	Reason string
	Err    error
}

func (e *EncodingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("canonical encoding failed at %s: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("canonical encoding failed at %s: %s", e.Path, e.Reason)
}

func (e *EncodingError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrEncoding, e.Err}
	}
	return []error{ErrEncoding}
}
