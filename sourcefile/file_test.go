package sourcefile

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestParse_Simple(t *testing.T) {
	path := writeTemp(t, "app.conf", `
# full-line comment
; another comment
[section]
---
host = db.example.com
port: 5432
timeout 30s
debug
greeting = hello world
tags = [a, b, c]
password = pass#word  # trailing comment
`)

	entries, err := Parse(path, Options{})
	require.NoError(t, err)

	expected := []Entry{
		{Key: "host", Value: "db.example.com"},
		{Key: "port", Value: "5432"},
		{Key: "timeout", Value: "30s"},
		{Key: "debug", Value: "true"},
		{Key: "greeting", Value: "hello world"},
		{Key: "tags", Value: "[a, b, c]"},
		{Key: "password", Value: "pass#word"},
	}
	assert.Equal(t, expected, entries)
}

func TestParse_Simple_BadLine(t *testing.T) {
	path := writeTemp(t, "app.conf", "host = ok\nkey with extra words\n")

	_, err := Parse(path, Options{})
	require.Error(t, err)

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 2, perr.Line)
	assert.Equal(t, path, perr.Path)
}

func TestParse_YAML(t *testing.T) {
	path := writeTemp(t, "config.yaml", `
server:
  host: 0.0.0.0
  port: 8080
debug: true
tags:
  - alpha
  - beta
`)

	entries, err := Parse(path, Options{})
	require.NoError(t, err)

	expected := []Entry{
		{Key: "debug", Value: "true"},
		{Key: "server.host", Value: "0.0.0.0"},
		{Key: "server.port", Value: "8080"},
		{Key: "tags", Value: "alpha"},
		{Key: "tags", Value: "beta"},
	}
	assert.Equal(t, expected, entries)
}

func TestParse_TOML(t *testing.T) {
	path := writeTemp(t, "config.toml", `
debug = false

[database]
host = "db.example.com"
port = 3306
`)

	entries, err := Parse(path, Options{})
	require.NoError(t, err)

	assert.Contains(t, entries, Entry{Key: "database.host", Value: "db.example.com"})
	assert.Contains(t, entries, Entry{Key: "database.port", Value: "3306"})
	assert.Contains(t, entries, Entry{Key: "debug", Value: "false"})
}

func TestParse_JSON(t *testing.T) {
	path := writeTemp(t, "config.json", `{"api": {"key": "secret", "retries": 3}}`)

	entries, err := Parse(path, Options{})
	require.NoError(t, err)

	expected := []Entry{
		{Key: "api.key", Value: "secret"},
		{Key: "api.retries", Value: "3"},
	}
	assert.Equal(t, expected, entries)
}

func TestParse_InvalidYAML(t *testing.T) {
	path := writeTemp(t, "config.yaml", "::\n\t- broken")

	_, err := Parse(path, Options{})
	assert.Error(t, err)
}

func TestParse_MissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.conf")

	entries, err := Parse(missing, Options{})
	require.NoError(t, err)
	assert.Empty(t, entries)

	_, err = Parse(missing, Options{Required: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestParse_FormatOverride(t *testing.T) {
	// A .txt file parsed as YAML via the format override.
	path := writeTemp(t, "config.txt", "host: example.org\n")

	entries, err := Parse(path, Options{Format: "yaml"})
	require.NoError(t, err)
	assert.Equal(t, []Entry{{Key: "host", Value: "example.org"}}, entries)
}

func TestParse_UnsupportedFormat(t *testing.T) {
	path := writeTemp(t, "config.conf", "a = b\n")

	_, err := Parse(path, Options{Format: "xml"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported config file format")
}

func TestSerialize_RoundTrip(t *testing.T) {
	entries := []Entry{
		{Key: "host", Value: "example.org"},
		{Key: "port", Value: "8080"},
		{Key: "tags", Value: "[a, b]"},
	}

	var buf bytes.Buffer
	require.NoError(t, Serialize(&buf, entries))
	assert.Equal(t, "host = example.org\nport = 8080\ntags = [a, b]\n", buf.String())

	path := writeTemp(t, "out.conf", buf.String())
	parsed, err := Parse(path, Options{})
	require.NoError(t, err)
	assert.Equal(t, entries, parsed)
}
