package pattern

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors wrapped by *ConfigError. Callers branch with errors.Is.
var (
	// ErrUnknownField reports template tokens with no registry entry.
	ErrUnknownField = errors.New("unknown field")

	// ErrDuplicateField reports a token referenced more than once in a template.
	ErrDuplicateField = errors.New("duplicate field reference")

	// ErrMissingField reports a required token absent from a template.
	ErrMissingField = errors.New("missing required field")

	// ErrNoDateFields reports a template that references no date tokens.
	ErrNoDateFields = errors.New("no date fields in template")

	// ErrBadFragment reports a field pattern that does not compile.
	ErrBadFragment = errors.New("invalid field pattern")
)

// ConfigError describes a template or registry misconfiguration.
type ConfigError struct {
	Op     string   // failing operation, e.g. "check" or "add field"
	Tokens []string // offending tokens, if any
	Err    error
}

func (e *ConfigError) Error() string {
	if len(e.Tokens) > 0 {
		return fmt.Sprintf("%s: %v: %s", e.Op, e.Err, strings.Join(e.Tokens, ", "))
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }
