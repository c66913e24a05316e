package output

import (
	"context"
	"strings"
	"testing"
)

func TestFromContext(t *testing.T) {
	t.Parallel()

	var buf strings.Builder
	ctx := WithPrinter(context.Background(), &buf)

	p := FromContext(ctx)
	p.Printf("hello %s\n", "world")

	if got := buf.String(); got != "hello world\n" {
		t.Errorf("output = %q", got)
	}
}

func TestFromContextFallback(t *testing.T) {
	t.Parallel()

	p := FromContext(context.Background())
	if p == nil {
		t.Fatal("expected fallback printer, got nil")
	}
	if p.Writer() == nil {
		t.Fatal("fallback printer has no writer")
	}
}

func TestJSON(t *testing.T) {
	t.Parallel()

	var buf strings.Builder
	p := New(&buf)

	if err := p.JSON(map[string]int{"score": 90}); err != nil {
		t.Fatalf("JSON() error: %v", err)
	}
	want := "{\n  \"score\": 90\n}\n"
	if got := buf.String(); got != want {
		t.Errorf("JSON output = %q, want %q", got, want)
	}
}
