package sourcefile

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// ParseError reports a config file line that could not be parsed.
type ParseError struct {
	Path string
	Line int
	Text string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse config file %s: unexpected line %d: %s", e.Path, e.Line, e.Text)
}

// parseSimple reads INI-flavored key=value text. path is used only for error
// reporting.
func parseSimple(r io.Reader, path string) ([]Entry, error) {
	var entries []Entry

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || line[0] == '#' || line[0] == ';' || line[0] == '[' || strings.HasPrefix(line, "---") {
			continue
		}

		key, value, ok := splitSimpleLine(line)
		if !ok {
			return nil, &ParseError{Path: path, Line: lineNo, Text: line}
		}

		entries = append(entries, Entry{Key: key, Value: value})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}

	return entries, nil
}

// splitSimpleLine splits one non-blank, non-comment line into a key and
// value. A bare key means "true". The separator is '=', ':' or whitespace;
// a ' #' or ' ;' sequence starts a trailing comment.
func splitSimpleLine(line string) (key, value string, ok bool) {
	line = stripTrailingComment(line)

	sep := strings.IndexAny(line, "=: \t")
	if sep < 0 {
		key = strings.TrimSpace(line)
		if key == "" {
			return "", "", false
		}
		return key, "true", true
	}

	key = strings.TrimSpace(line[:sep])

	// Consume the separator run. '=' or ':' anywhere in it makes a strong
	// separator whose value may contain spaces; a bare whitespace separator
	// only carries a single-token value.
	rest := line[sep:]
	strong := false
	j := 0
	for j < len(rest) && strings.ContainsRune("=: \t", rune(rest[j])) {
		if rest[j] == '=' || rest[j] == ':' {
			strong = true
		}
		j++
	}
	value = strings.TrimSpace(rest[j:])

	if key == "" || value == "" {
		return "", "", false
	}
	if !strong && strings.ContainsAny(value, " \t") {
		return "", "", false
	}
	return key, value, true
}

// stripTrailingComment removes a trailing comment. Comment markers only count
// when preceded by whitespace, so values like "pass#word" survive.
func stripTrailingComment(line string) string {
	for i := 1; i < len(line); i++ {
		if (line[i] == '#' || line[i] == ';') && (line[i-1] == ' ' || line[i-1] == '\t') {
			return strings.TrimSpace(line[:i])
		}
	}
	return line
}

// Serialize writes entries as simple-format "key = value" lines, the inverse
// of parseSimple. Resolving against the written file reproduces the same
// values.
func Serialize(w io.Writer, entries []Entry) error {
	for _, e := range entries {
		if _, err := fmt.Fprintf(w, "%s = %s\n", e.Key, e.Value); err != nil {
			return err
		}
	}
	return nil
}
