package halyard

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func resolveDumpSet(t *testing.T) *ResolvedSet {
	t.Helper()

	path := writeConfig(t, "app.conf", "host = files.example.org\n")
	r := New("app", EnvPrefix("APP_"), DefaultConfigFiles(path),
		LookupEnv(lookupMap(map[string]string{"APP_API_KEY": "s3cret"})))
	r.Int("port", 8080, "HTTP port")
	r.String("host", "localhost", "bind host")
	r.String("api-key", "", "API key", Secret())
	r.Duration("timeout", 0, "request timeout")

	set, err := r.Resolve(context.Background(), []string{"--port", "9000"})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	return set
}

func TestFormatValues_GroupsBySource(t *testing.T) {
	set := resolveDumpSet(t)
	out := set.FormatValues()

	for _, want := range []string{
		"Command Line Args:",
		"Environment Variables:",
		"Config File (",
		"Defaults:",
		"port:",
		"9000",
		"files.example.org",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	// Sections appear in precedence order because parameters were declared
	// that way; the command-line section must come before the defaults.
	if strings.Index(out, "Command Line Args:") > strings.Index(out, "Defaults:") {
		t.Errorf("unexpected section order:\n%s", out)
	}
}

func TestFormatValues_RedactsSecrets(t *testing.T) {
	set := resolveDumpSet(t)

	out := set.FormatValues()
	if strings.Contains(out, "s3cret") {
		t.Errorf("secret leaked:\n%s", out)
	}
	if !strings.Contains(out, "***redacted***") {
		t.Errorf("expected redaction marker:\n%s", out)
	}

	out = set.FormatValues(ShowSecrets())
	if !strings.Contains(out, "s3cret") {
		t.Errorf("ShowSecrets should disable redaction:\n%s", out)
	}
}

func TestFormatValues_JSON(t *testing.T) {
	set := resolveDumpSet(t)
	out := set.FormatValues(AsJSON())

	var decoded map[string]struct {
		Value  any    `json:"value"`
		Source string `json:"source"`
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, out)
	}

	if p := decoded["port"]; p.Source != "command-line" || p.Value != float64(9000) {
		t.Errorf("unexpected port entry: %+v", p)
	}
	if k := decoded["api-key"]; k.Value != "***redacted***" || k.Source != "environment" {
		t.Errorf("unexpected api-key entry: %+v", k)
	}
	if k := decoded["api-key"]; k.Detail != "APP_API_KEY" {
		t.Errorf("expected env var detail, got %+v", k)
	}
}

func TestWriteConfig_SecretsVerbatim(t *testing.T) {
	set := resolveDumpSet(t)

	var b strings.Builder
	if err := set.WriteConfig(&b); err != nil {
		t.Fatalf("WriteConfig failed: %v", err)
	}
	out := b.String()

	// The written file is a working config, so secrets are not redacted.
	if !strings.Contains(out, "api-key = s3cret") {
		t.Errorf("expected secret written verbatim:\n%s", out)
	}
	if !strings.Contains(out, "port = 9000") {
		t.Errorf("expected port entry:\n%s", out)
	}
}

func TestWriteConfig_SkipsInternalAndPositional(t *testing.T) {
	path := writeConfig(t, "app.conf", "port = 7070\n")
	r := New("app", ConfigFlag("config", ""), noEnv())
	r.Int("port", 8080, "HTTP port")
	r.Arg("command", "subcommand to run")

	set, err := r.Resolve(context.Background(), []string{"--config", path, "run"})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	var b strings.Builder
	if err := set.WriteConfig(&b); err != nil {
		t.Fatalf("WriteConfig failed: %v", err)
	}
	out := b.String()

	if strings.Contains(out, "config") || strings.Contains(out, "command") {
		t.Errorf("internal and positional parameters should not be written:\n%s", out)
	}
	if !strings.Contains(out, "port = 7070") {
		t.Errorf("expected port entry:\n%s", out)
	}
}
