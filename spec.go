package halyard

// Kind is the declared value type of a parameter. Conversion from raw
// candidate strings is uniform across sources, so a bad value is reported the
// same way whether it came from a flag, an environment variable or a file.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindFloat
	KindBool
	KindDuration
	KindTime
	KindStrings
)

// String returns the kind name used in error messages.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindDuration:
		return "duration"
	case KindTime:
		return "time"
	case KindStrings:
		return "string list"
	default:
		return "unknown"
	}
}

// Spec is the declared shape of one configurable value. Specs are immutable
// once registered; declaring parameters after Resolve panics.
type Spec struct {
	Name       string   // Primary name (long flag and config-file key)
	Usage      string   // Help text
	Aliases    []string // Extra long flags / config-file keys
	Short      string   // Single-character shorthand
	EnvVar     string   // Explicit environment variable (overrides prefix derivation)
	Kind       Kind
	Required   bool
	Secret     bool // Redacted in effective-value output
	Append     bool // List accumulates across sources instead of being replaced
	Positional bool

	defaultValue any
	defaultRaw   string
	hasDefault   bool
	internal     bool // Config-path / write-config flags; not settable from files
	noEnv        bool
}

// SpecOption customizes a parameter declaration.
type SpecOption func(*Spec)

// Alias adds extra long flags that also work as config-file keys.
func Alias(names ...string) SpecOption {
	return func(s *Spec) {
		s.Aliases = append(s.Aliases, names...)
	}
}

// Short sets a single-character flag shorthand (e.g., "p" for -p).
func Short(s string) SpecOption {
	return func(sp *Spec) {
		sp.Short = s
	}
}

// Env binds the parameter to an explicit environment variable, overriding the
// prefix-derived name.
func Env(name string) SpecOption {
	return func(s *Spec) {
		s.EnvVar = name
	}
}

// NoEnv excludes the parameter from environment lookup even when the resolver
// has an env prefix configured.
func NoEnv() SpecOption {
	return func(s *Spec) {
		s.noEnv = true
	}
}

// Required marks the parameter as mandatory. Required parameters ignore their
// declared default; absence from every source is a resolution error.
func Required() SpecOption {
	return func(s *Spec) {
		s.Required = true
	}
}

// Secret marks the parameter for redaction in effective-value output.
func Secret() SpecOption {
	return func(s *Spec) {
		s.Secret = true
	}
}

// Append declares list accumulation across sources: instead of the usual
// replace-by-precedence, candidates from every providing source concatenate,
// lowest precedence first. Only meaningful for Strings parameters.
func Append() SpecOption {
	return func(s *Spec) {
		s.Append = true
	}
}

// HasDefault reports whether the parameter carries a usable default.
func (s *Spec) HasDefault() bool {
	return s.hasDefault && !s.Required
}

// Default returns the declared default value and whether one applies.
func (s *Spec) Default() (any, bool) {
	if !s.HasDefault() {
		return nil, false
	}
	return s.defaultValue, true
}

// envSettable reports whether the parameter participates in environment
// lookup. Positionals and internal flags never do.
func (s *Spec) envSettable() bool {
	return !s.Positional && !s.noEnv && !s.internal
}
