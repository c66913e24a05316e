package sshconf

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/raphi011/vsx/internal/item"
	"github.com/raphi011/vsx/internal/log"
)

func testLogger() *log.Logger {
	return log.New(io.Discard, false, false)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestLoadParsesHosts(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config")
	writeFile(t, path, `
Host buildbox
    HostName build.internal.example.com
    User deploy

Host staging prod
    User admin

Host *
    ForwardAgent yes
`)

	p := NewMachineProvider(testLogger(), path, nil)
	items, err := p.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if len(items) != 3 {
		t.Fatalf("got %d items, want 3 (wildcard skipped): %+v", len(items), items)
	}

	byTitle := make(map[string]item.Item)
	for _, it := range items {
		byTitle[it.Title] = it
		if it.Kind != item.KindMachine {
			t.Errorf("%s kind = %q, want machine", it.Title, it.Kind)
		}
	}

	bb := byTitle["buildbox"]
	if bb.Host != "build.internal.example.com" || bb.User != "deploy" {
		t.Errorf("buildbox = %+v", bb)
	}
	// Multiple aliases in one Host block each become an item; HostName
	// defaults to the alias when not declared.
	if st := byTitle["staging"]; st.Host != "staging" || st.User != "admin" {
		t.Errorf("staging = %+v", st)
	}
	if pr := byTitle["prod"]; pr.Host != "prod" {
		t.Errorf("prod = %+v", pr)
	}
}

func TestLoadMissingConfigIsEmpty(t *testing.T) {
	t.Parallel()

	p := NewMachineProvider(testLogger(), filepath.Join(t.TempDir(), "absent"), nil)
	items, err := p.Load(context.Background())
	if err != nil {
		t.Fatalf("missing ssh config must not error, got %v", err)
	}
	if len(items) != 0 {
		t.Errorf("items = %+v, want none", items)
	}
}

func TestResolveConfigPathFromSettings(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	sshConfig := filepath.Join(dir, "work_config")
	writeFile(t, sshConfig, "Host workbox\n    User me\n")

	settings := filepath.Join(dir, "settings.json")
	writeFile(t, settings, `{"editor.fontSize": 14, "remote.SSH.configFile": "`+sshConfig+`"}`)

	p := NewMachineProvider(testLogger(), "", func() []string { return []string{settings} })
	items, err := p.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(items) != 1 || items[0].Title != "workbox" {
		t.Fatalf("items = %+v, want [workbox]", items)
	}
}

func TestSettingsFallbackOnBrokenJSON(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	settings := filepath.Join(dir, "settings.json")
	writeFile(t, settings, `{"remote.SSH.configFile": `) // truncated

	if got := configFileFromSettings(settings); got != "" {
		t.Errorf("broken settings.json yielded %q, want empty", got)
	}
	if got := configFileFromSettings(filepath.Join(dir, "absent.json")); got != "" {
		t.Errorf("missing settings.json yielded %q, want empty", got)
	}
}
