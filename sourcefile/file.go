package sourcefile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Entry is one key/value pair discovered in a config file. Keys repeat when
// the file holds a list value for them.
type Entry struct {
	Key   string
	Value string
}

// Options configures file parsing behavior.
type Options struct {
	// Format: "simple", "yaml", "toml" or "json". Inferred from the file
	// extension if empty; unknown extensions fall back to "simple".
	Format string

	// Required: if true, a missing file is an error. Default: false
	// (returns no entries).
	Required bool
}

// Parse reads and parses the file at path into flat key/value entries.
func Parse(path string, opts Options) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			if opts.Required {
				return nil, fmt.Errorf("config file not found: %s", path)
			}
			return nil, nil
		}
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}

	format := opts.Format
	if format == "" {
		format = inferFormat(path)
	}

	switch format {
	case "simple":
		return parseSimple(bytes.NewReader(data), path)
	case "yaml", "yml":
		var raw map[string]any
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse YAML file %s: %w", path, err)
		}
		return flatten(raw), nil
	case "toml":
		var raw map[string]any
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse TOML file %s: %w", path, err)
		}
		return flatten(raw), nil
	case "json":
		var raw map[string]any
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse JSON file %s: %w", path, err)
		}
		return flatten(raw), nil
	default:
		return nil, fmt.Errorf("unsupported config file format: %s (supported: simple, yaml, toml, json)", format)
	}
}

// flatten converts a nested map to flat entries with dot-separated keys.
// Scalar arrays become repeated entries for the same key. Keys within one
// level are emitted in sorted order so output is deterministic.
func flatten(raw map[string]any) []Entry {
	var entries []Entry
	flattenInto("", raw, &entries)
	return entries
}

func flattenInto(prefix string, value any, entries *[]Entry) {
	switch v := value.(type) {
	case map[string]any:
		keys := make([]string, 0, len(v))
		for key := range v {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			flattenInto(joinKey(prefix, key), v[key], entries)
		}
	case []any:
		for _, elem := range v {
			flattenInto(prefix, elem, entries)
		}
	default:
		if prefix != "" {
			*entries = append(*entries, Entry{Key: prefix, Value: scalarString(value)})
		}
	}
}

func joinKey(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

func scalarString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

func inferFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	case ".toml":
		return "toml"
	case ".json":
		return "json"
	default:
		return "simple"
	}
}
