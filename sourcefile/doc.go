// Package sourcefile reads config files into flat key/value candidates for
// the resolver.
//
// The default "simple" format is INI-flavored key=value text: "key = value",
// "key: value", "key value" and a bare "key" (meaning true) are all accepted;
// '#' and ';' start comments, and "[section]" headers and "---" lines are
// tolerated and skipped. YAML, TOML and JSON files are recognized by
// extension; nested tables flatten to dot-separated keys and scalar arrays
// become repeated values for the same key.
package sourcefile
