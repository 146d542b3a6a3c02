package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrNoMappingRule  = errors.New("no mapping rule matches object")
	ErrUnknownSource  = errors.New("unknown source")
	ErrContractNotSet = errors.New("no active semantic contract")
)

// MissingFieldMappingError reports a selected or filtered semantic field
// that has no concrete mapping in a rule. Compilation of that rule aborts;
// other matching rules are unaffected.
type MissingFieldMappingError struct {
	Field  string
	Object string
}

func (e *MissingFieldMappingError) Error() string {
	return fmt.Sprintf("no field mapping for %q on object %q", e.Field, e.Object)
}

// ConnectorUnavailableError wraps a network or backend failure from a
// connector call so the engine can report it as a per-plan partial failure.
type ConnectorUnavailableError struct {
	SourceID string
	Err      error
}

func (e *ConnectorUnavailableError) Error() string {
	return fmt.Sprintf("source %s unavailable: %v", e.SourceID, e.Err)
}

func (e *ConnectorUnavailableError) Unwrap() error { return e.Err }

// IsClientInput reports whether err should map to a 4xx-class response at
// the transport boundary (bad query rather than engine fault).
func IsClientInput(err error) bool {
	var mfe *MissingFieldMappingError
	return errors.Is(err, ErrNoMappingRule) || errors.As(err, &mfe)
}
