package halyard

import (
	"strings"
	"testing"
)

func TestParamError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      ParamError
		expected string
	}{
		{
			name: "missing required has no source",
			err: ParamError{
				Param:   "db-url",
				Code:    CodeMissingRequired,
				Message: "missing required parameter",
			},
			expected: "db-url: missing required parameter (missing_required)",
		},
		{
			name: "conversion names the source",
			err: ParamError{
				Param:   "port",
				Origin:  OriginConfigFile,
				Raw:     "abc",
				Code:    CodeConversion,
				Message: `invalid int "abc"`,
			},
			expected: `port: invalid int "abc" (conversion, source=config-file)`,
		},
		{
			name: "unknown argument",
			err: ParamError{
				Param:   "--nope",
				Origin:  OriginCommandLine,
				Code:    CodeUnknownArgument,
				Message: "unknown argument",
			},
			expected: "--nope: unknown argument (unknown_argument, source=command-line)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestResolveError_Error(t *testing.T) {
	err := &ResolveError{ParamErrors: []ParamError{
		{Param: "db-url", Code: CodeMissingRequired, Message: "missing required parameter"},
		{Param: "port", Origin: OriginEnvironment, Raw: "x", Code: CodeConversion, Message: `invalid int "x"`},
	}}

	msg := err.Error()
	if !strings.HasPrefix(msg, "config resolution failed: 2 errors") {
		t.Errorf("unexpected header: %q", msg)
	}

	lines := strings.Split(msg, "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d: %q", len(lines), msg)
	}
	if !strings.HasPrefix(lines[1], "  - db-url:") || !strings.HasPrefix(lines[2], "  - port:") {
		t.Errorf("unexpected detail lines: %q", msg)
	}
}

func TestResolveError_Singular(t *testing.T) {
	err := &ResolveError{ParamErrors: []ParamError{
		{Param: "db-url", Code: CodeMissingRequired, Message: "missing required parameter"},
	}}
	if !strings.HasPrefix(err.Error(), "config resolution failed: 1 error\n") {
		t.Errorf("unexpected message: %q", err.Error())
	}
}
