package sourceenv

import (
	"os"

	"github.com/Azhovan/halyard/internal/keyname"
)

// Binding maps one parameter to the environment variable that can set it.
type Binding struct {
	Param string // Parameter name
	Var   string // Environment variable name
}

// Value is one environment variable that was present.
type Value struct {
	Param string
	Var   string
	Raw   string
}

// Options configures environment lookup behavior.
type Options struct {
	// LookupEnv overrides the process environment, for tests.
	// Default: os.LookupEnv.
	LookupEnv func(string) (string, bool)
}

// VarFor derives the environment variable name for a parameter under the
// given prefix: "APP_" + "my-arg" → "APP_MY_ARG".
func VarFor(prefix, param string) string {
	return keyname.ToEnvVar(prefix, param)
}

// Lookup resolves each binding against the environment, preserving binding
// order. Variables that are unset are skipped; an empty value is a value.
func Lookup(bindings []Binding, opts Options) []Value {
	lookup := opts.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}

	var values []Value
	for _, b := range bindings {
		raw, ok := lookup(b.Var)
		if !ok {
			continue
		}
		values = append(values, Value{Param: b.Param, Var: b.Var, Raw: raw})
	}

	return values
}
