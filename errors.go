package halyard

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Azhovan/halyard/sourcecli"
)

// Error codes for resolution failures.
const (
	CodeMissingRequired = "missing_required"
	CodeConversion      = "conversion"
	CodeUnknownArgument = "unknown_argument"
)

// ErrHelp is returned by Resolve when --help or -h was given. Callers should
// print Usage() and exit zero.
var ErrHelp = sourcecli.ErrHelp

// ErrConfigWritten is returned by Resolve when the write-config flag was set
// and the effective configuration has been written out. Callers should exit
// zero.
var ErrConfigWritten = errors.New("halyard: config file written")

// ResolveError aggregates all parameter-level resolution failures for one
// invocation. Missing required parameters, conversion failures and (in strict
// mode) unknown arguments are collected and reported together, not one at a
// time.
type ResolveError struct {
	ParamErrors []ParamError
}

// Error formats resolution errors as a multi-line message.
func (e *ResolveError) Error() string {
	if len(e.ParamErrors) == 0 {
		return "config resolution failed: no errors"
	}

	var b strings.Builder
	if len(e.ParamErrors) == 1 {
		b.WriteString("config resolution failed: 1 error\n")
	} else {
		fmt.Fprintf(&b, "config resolution failed: %d errors\n", len(e.ParamErrors))
	}

	for _, pe := range e.ParamErrors {
		fmt.Fprintf(&b, "  - %s\n", pe.Error())
	}

	return strings.TrimRight(b.String(), "\n")
}

// ParamError represents a single parameter resolution failure.
type ParamError struct {
	Param   string // Parameter name, or the offending token for unknown arguments
	Origin  Origin // Source that supplied the failing value, if any
	Raw     string // Raw value that failed conversion, if any
	Code    string // Error code (e.g., "missing_required", "conversion")
	Message string // Human-readable description
}

func (e ParamError) Error() string {
	if e.Origin != "" {
		return fmt.Sprintf("%s: %s (%s, source=%s)", e.Param, e.Message, e.Code, e.Origin)
	}
	return fmt.Sprintf("%s: %s (%s)", e.Param, e.Message, e.Code)
}
