package keyname

import "strings"

// ToEnvVar derives an environment variable name from a parameter name.
// Dashes and dots become underscores and the result is uppercased, with the
// prefix prepended as-is.
// Examples:
//   - ToEnvVar("APP_", "my-arg") → "APP_MY_ARG"
//   - ToEnvVar("", "port") → "PORT"
//   - ToEnvVar("SVC_", "db.host") → "SVC_DB_HOST"
func ToEnvVar(prefix, name string) string {
	v := strings.NewReplacer("-", "_", ".", "_").Replace(name)
	return prefix + strings.ToUpper(v)
}

// Fold normalizes a flag or config-file key for comparison.
// Keys are lowercased and dashes become underscores, so "my-arg", "MY_ARG"
// and "My-Arg" all fold to "my_arg".
func Fold(key string) string {
	return strings.ToLower(strings.ReplaceAll(key, "-", "_"))
}

// Valid reports whether name is usable as a parameter name. Names must start
// with a letter or digit and may contain letters, digits, dashes, underscores
// and dots.
func Valid(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case i > 0 && (r == '-' || r == '_' || r == '.'):
		default:
			return false
		}
	}
	return true
}
