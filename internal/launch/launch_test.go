package launch

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/raphi011/vsx/internal/item"
	"github.com/raphi011/vsx/internal/log"
)

func testLogger() *log.Logger {
	return log.New(io.Discard, false, false)
}

func TestOpenRejectsStatusRows(t *testing.T) {
	t.Parallel()

	l := New(testLogger(), func(string) string { return "/usr/bin/code" })
	err := l.Open(context.Background(), item.Item{Title: "Loading…", Kind: item.KindStatus})
	if !errors.Is(err, ErrNotOpenable) {
		t.Errorf("opening a status row returned %v, want ErrNotOpenable", err)
	}
}

func TestOpenWorkspaceWithoutExecutable(t *testing.T) {
	t.Parallel()

	l := New(testLogger(), func(string) string { return "" })
	err := l.Open(context.Background(), item.Item{
		Title:    "proj-a",
		Target:   "/home/dev/proj-a",
		Kind:     item.KindFolder,
		Instance: "codium",
	})
	if !errors.Is(err, ErrNotOpenable) {
		t.Errorf("missing executable returned %v, want ErrNotOpenable", err)
	}
}

func TestOpenWorkspaceSpawnFailure(t *testing.T) {
	t.Parallel()

	l := New(testLogger(), func(string) string { return "/nonexistent/editor-binary" })
	err := l.Open(context.Background(), item.Item{
		Title:    "proj-a",
		Target:   "/home/dev/proj-a",
		Kind:     item.KindFolder,
		Instance: "code",
	})
	if err == nil {
		t.Error("spawning a nonexistent binary must fail")
	}
}
