package halyard

import "context"

// Origin identifies where a candidate value was discovered.
type Origin string

const (
	OriginCommandLine Origin = "command-line"
	OriginEnvironment Origin = "environment"
	OriginConfigFile  Origin = "config-file"
	OriginDefault     Origin = "default"
)

// Candidate is one raw value for a parameter discovered in one source.
// Candidates are recorded in discovery order; the resolver picks the one from
// the highest-precedence source (command-line > environment > config file >
// default), or concatenates them for append-merge parameters.
type Candidate struct {
	// Key is the name under which the value was discovered. For environment
	// candidates this is the parameter name; for file candidates it is the
	// config-file key, which may be an alias of the parameter.
	Key string

	// Raw is the unconverted string value.
	Raw string

	// Origin classifies the source. Custom sources may leave it empty, in
	// which case the resolver treats them at config-file precedence.
	Origin Origin

	// Detail names the concrete source, e.g. the environment variable or the
	// config file path.
	Detail string
}

// Source provides configuration candidates from a backend. The built-in
// environment and file layers are wired by the resolver itself; WithSource
// adds custom sources at config-file precedence, above the default config
// files and below a file named explicitly on the command line.
type Source interface {
	// Name identifies the source in provenance and error messages.
	Name() string

	// Load returns all candidates the source can provide. Sources with
	// nothing to contribute should return an empty slice, not an error.
	Load(ctx context.Context) ([]Candidate, error)
}
