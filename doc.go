// Package halyard augments standard command-line flag parsing with defaults
// read from config files and environment variables, resolved with
// deterministic precedence: command-line > environment > config file >
// default.
//
// Quick Start:
//
//	r := halyard.New("myapp",
//	    halyard.EnvPrefix("MYAPP_"),
//	    halyard.ConfigFlag("config", "config file path"),
//	)
//	port := r.Int("port", 8080, "HTTP port")
//	host := r.String("host", "", "bind host", halyard.Required())
//
//	set, err := r.Resolve(context.Background(), os.Args[1:])
//	if errors.Is(err, halyard.ErrHelp) {
//	    fmt.Print(r.Usage())
//	    os.Exit(0)
//	}
//
// All missing-required and conversion errors for one invocation are
// accumulated and reported together in a *ResolveError. The resolved set
// records per-parameter provenance; FormatValues prints every effective
// value grouped by the source that supplied it.
//
// See example_test.go and README.md for detailed usage.
package halyard
