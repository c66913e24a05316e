package engine

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/raphi011/vsx/internal/cache"
	"github.com/raphi011/vsx/internal/item"
	"github.com/raphi011/vsx/internal/log"
)

func testLogger() *log.Logger {
	return log.New(io.Discard, false, false)
}

func staticSource(name string, items ...item.Item) Source {
	return Source{
		Name: name,
		Cache: cache.New(name, func(ctx context.Context) ([]item.Item, error) {
			return items, nil
		}, testLogger(), cache.Config{}),
	}
}

func TestQueryBeforeBootstrapShowsLoadingRow(t *testing.T) {
	t.Parallel()

	e := New(testLogger(), Config{}, staticSource("workspaces", folder("proj-a")))

	got := e.Query(context.Background(), "proj")
	if len(got) == 0 {
		t.Fatal("bootstrapping query returned nothing")
	}
	if got[0].Item.Kind != item.KindStatus {
		t.Errorf("first row kind = %q, want the synthetic loading row", got[0].Item.Kind)
	}
	// Nothing cached yet, so the loading row is all there is.
	if len(got) != 1 {
		t.Errorf("bootstrapping query returned %d rows, want 1", len(got))
	}
}

func TestQueryBeforeBootstrapIncludesPartialResults(t *testing.T) {
	t.Parallel()

	src := staticSource("workspaces", folder("proj-a"), folder("other"))
	// Populate the cache out of band, as a settled warm-start would.
	src.Cache.Get(context.Background())
	src.Cache.Close(time.Second)

	e := New(testLogger(), Config{}, src)

	got := e.Query(context.Background(), "proj")
	if len(got) != 2 {
		t.Fatalf("got %d rows, want loading row + 1 partial result: %+v", len(got), got)
	}
	if got[0].Item.Kind != item.KindStatus {
		t.Errorf("first row kind = %q, want status", got[0].Item.Kind)
	}
	if got[1].Item.Title != "proj-a" {
		t.Errorf("partial result = %q, want proj-a", got[1].Item.Title)
	}
}

func TestBootstrapFlipsReadyOnce(t *testing.T) {
	t.Parallel()

	failing := Source{
		Name: "machines",
		Cache: cache.New("machines", func(ctx context.Context) ([]item.Item, error) {
			return nil, errors.New("ssh config unreadable")
		}, testLogger(), cache.Config{}),
	}
	e := New(testLogger(), Config{}, staticSource("workspaces", folder("proj-a")), failing)

	if e.Ready() {
		t.Fatal("engine ready before bootstrap")
	}

	// Completion drives the transition, not success: a failing source
	// still counts as bootstrapped.
	e.Bootstrap(context.Background())
	if !e.Ready() {
		t.Fatal("engine not ready after bootstrap")
	}

	got := e.Query(context.Background(), "proj")
	if len(got) != 1 || got[0].Item.Title != "proj-a" {
		t.Fatalf("ready query = %+v, want [proj-a]", got)
	}
	for _, s := range got {
		if s.Item.Kind == item.KindStatus {
			t.Error("ready query still contains synthetic rows")
		}
	}
}

func TestQueryMergesSources(t *testing.T) {
	t.Parallel()

	e := New(testLogger(), Config{},
		staticSource("workspaces", folder("dev-notes")),
		staticSource("machines", item.Item{Title: "devbox", Host: "devbox.example.com", Kind: item.KindMachine}),
	)
	e.Bootstrap(context.Background())

	got := e.Query(context.Background(), "dev")
	if len(got) != 2 {
		t.Fatalf("got %d results across sources, want 2: %+v", len(got), got)
	}
}

func TestQueryEmptyStringReturnsEverything(t *testing.T) {
	t.Parallel()

	e := New(testLogger(), Config{},
		staticSource("workspaces", folder("a"), folder("b")),
	)
	e.Bootstrap(context.Background())

	if got := e.Query(context.Background(), "   "); len(got) != 2 {
		t.Errorf("blank query returned %d results, want all 2", len(got))
	}
}

func TestStartPeriodicRefresh(t *testing.T) {
	t.Parallel()

	loads := make(chan struct{}, 16)
	src := Source{
		Name: "workspaces",
		Cache: cache.New("workspaces", func(ctx context.Context) ([]item.Item, error) {
			loads <- struct{}{}
			return []item.Item{folder("proj-a")}, nil
		}, testLogger(), cache.Config{FreshFor: time.Nanosecond}),
	}

	e := New(testLogger(), Config{RefreshInterval: 20 * time.Millisecond}, src)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	e.Start(ctx)

	// Initial load plus at least one timer-driven refresh.
	for i := 0; i < 2; i++ {
		select {
		case <-loads:
		case <-time.After(2 * time.Second):
			t.Fatalf("refresh %d never happened", i)
		}
	}
	deadline := time.Now().Add(2 * time.Second)
	for !e.Ready() {
		if time.Now().After(deadline) {
			t.Fatal("engine never became ready")
		}
		time.Sleep(time.Millisecond)
	}

	e.Stop(time.Second)
}

func TestListReturnsAllItems(t *testing.T) {
	t.Parallel()

	e := New(testLogger(), Config{},
		staticSource("workspaces", folder("proj-a"), folder("proj-b")),
		staticSource("machines", item.Item{Title: "devbox", Kind: item.KindMachine}),
	)
	e.Bootstrap(context.Background())

	if got := e.List(context.Background()); len(got) != 3 {
		t.Errorf("List returned %d items, want 3", len(got))
	}
}
