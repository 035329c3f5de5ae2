package halyard

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Azhovan/halyard/internal/keyname"
	"github.com/Azhovan/halyard/sourcecli"
	"github.com/Azhovan/halyard/sourceenv"
	"github.com/Azhovan/halyard/sourcefile"
)

// Resolver ingests parameter specifications and up to three value sources
// (command-line tokens, config files, environment variables) and produces a
// single resolved parameter set with deterministic precedence:
//
//	command-line > environment variable > config file > default
//
// Resolution is single-pass and synchronous, meant to run once at process
// startup. A Resolver is not safe for concurrent use; the ResolvedSet it
// produces is immutable and safe to share.
type Resolver struct {
	name        string
	description string
	strict      bool
	envPrefix   string
	envAuto     bool
	defaultFiles []string
	configFlag  string
	configEnv   string
	writeFlag   string
	fileFormat  string
	lookupEnv   func(string) (string, bool)
	sources     []Source

	specs    []*Spec
	byName   map[string]*Spec
	byKey    map[string]*Spec
	handles  map[string]any
	resolved bool
}

// Option configures a Resolver at construction.
type Option func(*Resolver)

// Description sets introductory help text printed by Usage.
func Description(text string) Option {
	return func(r *Resolver) { r.description = text }
}

// Strict makes unknown command-line arguments and unknown config-file keys
// resolution errors instead of being silently ignored.
func Strict() Option {
	return func(r *Resolver) { r.strict = true }
}

// EnvPrefix makes every flag parameter settable via an environment variable
// named prefix plus the upper-snake form of the parameter name (e.g. prefix
// "APP_" makes --my-arg settable via APP_MY_ARG). An explicit Env binding on
// a parameter overrides the derived name.
func EnvPrefix(prefix string) Option {
	return func(r *Resolver) {
		r.envPrefix = prefix
		r.envAuto = true
	}
}

// DefaultConfigFiles sets config files to read in order when present; values
// from each file override those from previous ones. Missing files are
// silently skipped. A leading "~/" expands to the user's home directory.
func DefaultConfigFiles(paths ...string) Option {
	return func(r *Resolver) { r.defaultFiles = append(r.defaultFiles, paths...) }
}

// ConfigFlag declares a flag that supplies an explicit config file path. The
// named file outranks all default config files and must exist.
func ConfigFlag(name, usage string) Option {
	return func(r *Resolver) {
		if usage == "" {
			usage = "config file path"
		}
		r.configFlag = name
		r.declareInternal(name, usage)
	}
}

// ConfigEnv names an environment variable that supplies the config file path
// when the config flag is not set.
func ConfigEnv(varName string) Option {
	return func(r *Resolver) { r.configEnv = varName }
}

// WriteConfigFlag declares a flag that, when set, makes Resolve write the
// effective configuration to the given path and return ErrConfigWritten.
func WriteConfigFlag(name string) Option {
	return func(r *Resolver) {
		r.writeFlag = name
		r.declareInternal(name, "write the effective configuration to this path and exit")
	}
}

// FileFormat forces the config file format ("simple", "yaml", "toml",
// "json") instead of inferring it from the file extension.
func FileFormat(format string) Option {
	return func(r *Resolver) { r.fileFormat = format }
}

// LookupEnv overrides the process environment, for tests.
func LookupEnv(fn func(string) (string, bool)) Option {
	return func(r *Resolver) { r.lookupEnv = fn }
}

// New creates a Resolver for the named program.
func New(name string, opts ...Option) *Resolver {
	r := &Resolver{
		name:    name,
		byName:  make(map[string]*Spec),
		byKey:   make(map[string]*Spec),
		handles: make(map[string]any),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.lookupEnv == nil {
		r.lookupEnv = os.LookupEnv
	}
	return r
}

// WithSource adds a custom candidate source at config-file precedence, above
// the default config files and below a file named explicitly on the command
// line. Sources added later override earlier ones.
func (r *Resolver) WithSource(src Source) *Resolver {
	r.sources = append(r.sources, src)
	return r
}

// String declares a string parameter and returns a handle populated by
// Resolve.
func (r *Resolver) String(name, def, usage string, opts ...SpecOption) *string {
	r.declare(name, KindString, usage, def, opts...)
	return registerHandle(r, name, def)
}

// Int declares an integer parameter.
func (r *Resolver) Int(name string, def int, usage string, opts ...SpecOption) *int {
	r.declare(name, KindInt, usage, def, opts...)
	return registerHandle(r, name, def)
}

// Float declares a float parameter.
func (r *Resolver) Float(name string, def float64, usage string, opts ...SpecOption) *float64 {
	r.declare(name, KindFloat, usage, def, opts...)
	return registerHandle(r, name, def)
}

// Bool declares a boolean parameter. On the command line a bare --name means
// true; --name=false switches it off.
func (r *Resolver) Bool(name string, def bool, usage string, opts ...SpecOption) *bool {
	r.declare(name, KindBool, usage, def, opts...)
	return registerHandle(r, name, def)
}

// Duration declares a time.Duration parameter (Go duration syntax, e.g.
// "1m30s").
func (r *Resolver) Duration(name string, def time.Duration, usage string, opts ...SpecOption) *time.Duration {
	r.declare(name, KindDuration, usage, def, opts...)
	return registerHandle(r, name, def)
}

// Time declares an RFC 3339 timestamp parameter.
func (r *Resolver) Time(name string, def time.Time, usage string, opts ...SpecOption) *time.Time {
	r.declare(name, KindTime, usage, def, opts...)
	return registerHandle(r, name, def)
}

// Strings declares a string-list parameter. On the command line the flag
// repeats; in files and environment variables both "[a, b]" bracket syntax
// and a bare comma-separated list are accepted. With the Append option the
// list accumulates across sources instead of being replaced by precedence.
func (r *Resolver) Strings(name string, def []string, usage string, opts ...SpecOption) *[]string {
	r.declare(name, KindStrings, usage, def, opts...)
	return registerHandle(r, name, def)
}

// Arg declares a positional string parameter, consumed from the leftover
// arguments in declaration order. Positionals are never settable from the
// environment or config files.
func (r *Resolver) Arg(name, usage string, opts ...SpecOption) *string {
	s := r.declare(name, KindString, usage, "", opts...)
	s.Positional = true
	return registerHandle(r, name, "")
}

// RestArgs declares a trailing positional list capturing all remaining
// arguments.
func (r *Resolver) RestArgs(name, usage string, opts ...SpecOption) *[]string {
	s := r.declare(name, KindStrings, usage, []string(nil), opts...)
	s.Positional = true
	return registerHandle(r, name, []string(nil))
}

// Lookup returns the specification registered under name.
func (r *Resolver) Lookup(name string) (*Spec, bool) {
	s, ok := r.byName[name]
	return s, ok
}

func (r *Resolver) declare(name string, kind Kind, usage string, def any, opts ...SpecOption) *Spec {
	if r.resolved {
		panic(fmt.Sprintf("halyard: parameter %q declared after Resolve", name))
	}
	if !keyname.Valid(name) {
		panic(fmt.Sprintf("halyard: invalid parameter name %q", name))
	}

	s := &Spec{
		Name:         name,
		Kind:         kind,
		Usage:        usage,
		defaultValue: def,
		hasDefault:   true,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.defaultRaw = formatValue(kind, def)

	if s.Short != "" && len(s.Short) != 1 {
		panic(fmt.Sprintf("halyard: shorthand for %q must be one character, got %q", name, s.Short))
	}

	r.index(s, s.Name)
	for _, alias := range s.Aliases {
		if !keyname.Valid(alias) {
			panic(fmt.Sprintf("halyard: invalid alias %q for parameter %q", alias, name))
		}
		r.index(s, alias)
	}

	r.specs = append(r.specs, s)
	r.byName[s.Name] = s
	return s
}

func (r *Resolver) index(s *Spec, key string) {
	folded := keyname.Fold(key)
	if prev, dup := r.byKey[folded]; dup {
		panic(fmt.Sprintf("halyard: name %q conflicts with parameter %q", key, prev.Name))
	}
	r.byKey[folded] = s
}

func (r *Resolver) declareInternal(name, usage string) {
	s := r.declare(name, KindString, usage, "")
	s.internal = true
}

func registerHandle[T any](r *Resolver, name string, def T) *T {
	p := new(T)
	*p = def
	r.handles[name] = p
	return p
}

// Resolve parses args, reads config files and environment variables, and
// selects one typed value per declared parameter by precedence. All
// missing-required, conversion and (in strict mode) unknown-argument errors
// are accumulated and returned together in a *ResolveError; a config file
// that cannot be parsed is fatal and reported alone. Returns ErrHelp when
// --help was given and ErrConfigWritten after a write-config run.
func (r *Resolver) Resolve(ctx context.Context, args []string) (*ResolvedSet, error) {
	r.resolved = true

	cliRes, err := sourcecli.Parse(r.name, r.cliFlags(), args)
	if err != nil {
		if errors.Is(err, sourcecli.ErrHelp) {
			return nil, ErrHelp
		}
		return nil, err
	}

	var perrs []ParamError
	if r.strict {
		for _, tok := range cliRes.Unknown {
			perrs = append(perrs, ParamError{
				Param:   tok,
				Origin:  OriginCommandLine,
				Code:    CodeUnknownArgument,
				Message: "unknown argument",
			})
		}
	}

	cliVals := make(map[string][]string, len(cliRes.Settings))
	for _, s := range cliRes.Settings {
		cliVals[s.Name] = s.Values
	}
	posVals, leftover := r.assignPositionals(cliRes.Rest)
	if r.strict {
		for _, tok := range leftover {
			perrs = append(perrs, ParamError{
				Param:   tok,
				Origin:  OriginCommandLine,
				Code:    CodeUnknownArgument,
				Message: "unexpected positional argument",
			})
		}
	}

	fileCands, err := r.loadFileCandidates(ctx, cliVals)
	if err != nil {
		return nil, err
	}

	fileByParam := make(map[string][]Candidate)
	for _, c := range fileCands {
		sp, ok := r.byKey[keyname.Fold(c.Key)]
		if !ok || sp.internal || sp.Positional {
			if !ok && r.strict {
				perrs = append(perrs, ParamError{
					Param:   c.Key,
					Origin:  c.Origin,
					Code:    CodeUnknownArgument,
					Message: fmt.Sprintf("unknown configuration key in %s", c.Detail),
				})
			}
			continue
		}
		fileByParam[sp.Name] = append(fileByParam[sp.Name], c)
	}

	envVals := r.lookupEnvValues()

	set := newResolvedSet()
	for _, sp := range r.specs {
		vals := cliVals[sp.Name]
		if sp.Positional {
			vals = posVals[sp.Name]
		}
		rp, perr := resolveParam(sp, vals, envVals, fileByParam)
		if perr != nil {
			perrs = append(perrs, *perr)
			continue
		}
		if rp != nil {
			set.add(sp, *rp)
		}
	}

	if len(perrs) > 0 {
		return nil, &ResolveError{ParamErrors: perrs}
	}

	r.fillHandles(set)

	if r.writeFlag != "" {
		if path, ok := set.String(r.writeFlag); ok && path != "" {
			if err := writeConfigFile(set, path); err != nil {
				return nil, err
			}
			return set, ErrConfigWritten
		}
	}

	return set, nil
}

// cliFlags maps the declared specs onto command-line flag descriptors.
func (r *Resolver) cliFlags() []sourcecli.Flag {
	var flags []sourcecli.Flag
	for _, sp := range r.specs {
		if sp.Positional {
			continue
		}
		flags = append(flags, sourcecli.Flag{
			Name:    sp.Name,
			Short:   sp.Short,
			Usage:   sp.Usage,
			Aliases: sp.Aliases,
			Bool:    sp.Kind == KindBool,
			Multi:   sp.Kind == KindStrings,
		})
	}
	return flags
}

// assignPositionals hands leftover arguments to positional specs in
// declaration order. A Strings positional captures the rest.
func (r *Resolver) assignPositionals(rest []string) (map[string][]string, []string) {
	posVals := make(map[string][]string)
	for _, sp := range r.specs {
		if !sp.Positional || len(rest) == 0 {
			continue
		}
		if sp.Kind == KindStrings {
			posVals[sp.Name] = rest
			rest = nil
			continue
		}
		posVals[sp.Name] = rest[:1]
		rest = rest[1:]
	}
	return posVals, rest
}

// loadFileCandidates reads all config file layers in precedence order, lowest
// first: default files, custom sources, then the explicitly named file. A
// file that fails to parse is fatal.
func (r *Resolver) loadFileCandidates(ctx context.Context, cliVals map[string][]string) ([]Candidate, error) {
	var cands []Candidate

	for _, path := range r.defaultFiles {
		p := expandHome(path)
		entries, err := sourcefile.Parse(p, sourcefile.Options{Format: r.fileFormat})
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			cands = append(cands, Candidate{Key: e.Key, Raw: e.Value, Origin: OriginConfigFile, Detail: p})
		}
	}

	for _, src := range r.sources {
		loaded, err := src.Load(ctx)
		if err != nil {
			return nil, fmt.Errorf("load source %s: %w", src.Name(), err)
		}
		for _, c := range loaded {
			if c.Origin == "" {
				c.Origin = OriginConfigFile
			}
			if c.Detail == "" {
				c.Detail = src.Name()
			}
			cands = append(cands, c)
		}
	}

	explicit := ""
	if r.configFlag != "" {
		if vs := cliVals[r.configFlag]; len(vs) > 0 {
			explicit = vs[len(vs)-1]
		}
	}
	if explicit == "" && r.configEnv != "" {
		if v, ok := r.lookupEnv(r.configEnv); ok && v != "" {
			explicit = v
		}
	}
	if explicit != "" {
		p := expandHome(explicit)
		entries, err := sourcefile.Parse(p, sourcefile.Options{Format: r.fileFormat, Required: true})
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			cands = append(cands, Candidate{Key: e.Key, Raw: e.Value, Origin: OriginConfigFile, Detail: p})
		}
	}

	return cands, nil
}

// lookupEnvValues resolves the environment variable for each env-settable
// spec, explicit bindings first, then prefix-derived names.
func (r *Resolver) lookupEnvValues() map[string]sourceenv.Value {
	var bindings []sourceenv.Binding
	for _, sp := range r.specs {
		if !sp.envSettable() {
			continue
		}
		v := sp.EnvVar
		if v == "" {
			if !r.envAuto {
				continue
			}
			v = sourceenv.VarFor(r.envPrefix, sp.Name)
		}
		bindings = append(bindings, sourceenv.Binding{Param: sp.Name, Var: v})
	}

	values := make(map[string]sourceenv.Value)
	for _, v := range sourceenv.Lookup(bindings, sourceenv.Options{LookupEnv: r.lookupEnv}) {
		values[v.Param] = v
	}
	return values
}

// resolveParam selects and converts the effective value for one parameter.
// Returns (nil, nil) when the parameter has no value from any source and is
// not required.
func resolveParam(sp *Spec, cliVals []string, envVals map[string]sourceenv.Value, fileByParam map[string][]Candidate) (*resolvedParam, *ParamError) {
	env, hasEnv := envVals[sp.Name]
	files := fileByParam[sp.Name]

	if sp.Append && sp.Kind == KindStrings {
		if rp := mergeAppend(sp, cliVals, env, hasEnv, files); rp != nil {
			return rp, nil
		}
	} else {
		switch {
		case len(cliVals) > 0:
			return convertCandidate(sp, joinRaw(sp, cliVals), OriginCommandLine, "")

		case hasEnv:
			return convertCandidate(sp, env.Raw, OriginEnvironment, env.Var)

		case len(files) > 0:
			return convertCandidate(sp, winningFileRaw(sp, files), OriginConfigFile, files[len(files)-1].Detail)
		}
	}

	if sp.HasDefault() {
		return &resolvedParam{
			spec:   sp,
			value:  sp.defaultValue,
			origin: OriginDefault,
			raw:    sp.defaultRaw,
		}, nil
	}

	if sp.Required {
		return nil, &ParamError{
			Param:   sp.Name,
			Code:    CodeMissingRequired,
			Message: "missing required parameter",
		}
	}

	return nil, nil
}

// mergeAppend concatenates list candidates from every providing source,
// lowest precedence first. Returns nil when no source provided a value.
func mergeAppend(sp *Spec, cliVals []string, env sourceenv.Value, hasEnv bool, files []Candidate) *resolvedParam {
	var elems []string
	provided := false

	for _, c := range files {
		elems = append(elems, splitList(c.Raw)...)
		provided = true
	}
	if hasEnv {
		elems = append(elems, splitList(env.Raw)...)
		provided = true
	}
	for _, v := range cliVals {
		elems = append(elems, splitList(v)...)
		provided = true
	}

	if !provided {
		return nil
	}

	rp := &resolvedParam{spec: sp, value: elems, raw: formatValue(KindStrings, elems)}
	switch {
	case len(cliVals) > 0:
		rp.origin = OriginCommandLine
	case hasEnv:
		rp.origin = OriginEnvironment
		rp.detail = env.Var
	default:
		rp.origin = OriginConfigFile
		rp.detail = files[len(files)-1].Detail
	}
	return rp
}

// joinRaw reduces the command-line occurrences of one parameter to a single
// raw value. Strings parameters concatenate their occurrences; everything
// else has already been reduced to the last occurrence.
func joinRaw(sp *Spec, vals []string) string {
	if sp.Kind != KindStrings {
		return vals[len(vals)-1]
	}

	var elems []string
	for _, v := range vals {
		elems = append(elems, splitList(v)...)
	}
	return formatValue(KindStrings, elems)
}

// winningFileRaw picks the value from the highest-precedence file that
// provided one. For list parameters, repeated entries from that one file
// merge into a single raw list.
func winningFileRaw(sp *Spec, files []Candidate) string {
	last := files[len(files)-1]
	if sp.Kind != KindStrings {
		return last.Raw
	}

	// Entries from the same file are contiguous; collect the final group.
	start := len(files) - 1
	for start > 0 && files[start-1].Detail == last.Detail {
		start--
	}

	var elems []string
	for _, c := range files[start:] {
		elems = append(elems, splitList(c.Raw)...)
	}
	return formatValue(KindStrings, elems)
}

// convertCandidate applies the declared kind to the winning raw value.
func convertCandidate(sp *Spec, raw string, origin Origin, detail string) (*resolvedParam, *ParamError) {
	v, err := convertValue(sp.Kind, raw)
	if err != nil {
		return nil, &ParamError{
			Param:   sp.Name,
			Origin:  origin,
			Raw:     raw,
			Code:    CodeConversion,
			Message: err.Error(),
		}
	}
	return &resolvedParam{spec: sp, value: v, origin: origin, detail: detail, raw: raw}, nil
}

// fillHandles copies resolved values into the typed pointers returned by the
// declaration helpers.
func (r *Resolver) fillHandles(set *ResolvedSet) {
	for name, h := range r.handles {
		v, ok := set.Value(name)
		if !ok {
			continue
		}
		switch p := h.(type) {
		case *string:
			p2, _ := v.(string)
			*p = p2
		case *int:
			p2, _ := v.(int)
			*p = p2
		case *float64:
			p2, _ := v.(float64)
			*p = p2
		case *bool:
			p2, _ := v.(bool)
			*p = p2
		case *time.Duration:
			p2, _ := v.(time.Duration)
			*p = p2
		case *time.Time:
			p2, _ := v.(time.Time)
			*p = p2
		case *[]string:
			p2, _ := v.([]string)
			*p = p2
		}
	}
}

// writeConfigFile serializes the effective configuration to path.
func writeConfigFile(set *ResolvedSet, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write config file %s: %w", path, err)
	}

	if err := set.WriteConfig(f); err != nil {
		f.Close()
		return fmt.Errorf("write config file %s: %w", path, err)
	}
	return f.Close()
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
