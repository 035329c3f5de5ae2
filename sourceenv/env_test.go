package sourceenv

import (
	"testing"
)

func TestVarFor(t *testing.T) {
	tests := []struct {
		prefix   string
		param    string
		expected string
	}{
		{"APP_", "my-arg", "APP_MY_ARG"},
		{"APP_", "port", "APP_PORT"},
		{"", "rate-limit", "RATE_LIMIT"},
		{"SVC_", "db.host", "SVC_DB_HOST"},
	}

	for _, tt := range tests {
		if got := VarFor(tt.prefix, tt.param); got != tt.expected {
			t.Errorf("VarFor(%q, %q) = %q, want %q", tt.prefix, tt.param, got, tt.expected)
		}
	}
}

func TestLookup(t *testing.T) {
	env := map[string]string{
		"APP_HOST":  "db.example.com",
		"APP_EMPTY": "",
	}
	opts := Options{LookupEnv: func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}}

	bindings := []Binding{
		{Param: "host", Var: "APP_HOST"},
		{Param: "empty", Var: "APP_EMPTY"},
		{Param: "missing", Var: "APP_MISSING"},
	}

	values := Lookup(bindings, opts)
	if len(values) != 2 {
		t.Fatalf("expected 2 values, got %d", len(values))
	}

	if values[0].Param != "host" || values[0].Raw != "db.example.com" || values[0].Var != "APP_HOST" {
		t.Errorf("unexpected first value: %+v", values[0])
	}

	// An empty value is a value, not an unset variable.
	if values[1].Param != "empty" || values[1].Raw != "" {
		t.Errorf("unexpected second value: %+v", values[1])
	}
}

func TestLookup_DefaultsToProcessEnv(t *testing.T) {
	t.Setenv("HALYARD_TEST_VAR", "from-process")

	values := Lookup([]Binding{{Param: "p", Var: "HALYARD_TEST_VAR"}}, Options{})
	if len(values) != 1 {
		t.Fatalf("expected 1 value, got %d", len(values))
	}
	if values[0].Raw != "from-process" {
		t.Errorf("expected %q, got %q", "from-process", values[0].Raw)
	}
}
