package source

import (
	"errors"
	"fmt"

	"forecastwatch/internal/record"
)

// UnavailableError reports a transient failure reaching a source:
// network errors, timeouts, or upstream 5xx responses after retries are
// exhausted. The orchestrator treats it as absence of data for that
// (sector, source) pair.
type UnavailableError struct {
	Source record.SourceID
	Err    error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("source %s unavailable: %v", e.Source, e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

// ParseError reports a malformed response. It is permanent for that
// response: retrying would fetch the same bytes.
type ParseError struct {
	Source record.SourceID
	Msg    string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("source %s: %s: %v", e.Source, e.Msg, e.Err)
	}
	return fmt.Sprintf("source %s: %s", e.Source, e.Msg)
}

func (e *ParseError) Unwrap() error { return e.Err }

// IsUnavailable reports whether err is a transient source failure.
func IsUnavailable(err error) bool {
	var ue *UnavailableError
	return errors.As(err, &ue)
}

// IsParse reports whether err is a malformed-response failure.
func IsParse(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}
