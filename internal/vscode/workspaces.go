package vscode

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"
	_ "modernc.org/sqlite"

	"github.com/raphi011/vsx/internal/item"
	"github.com/raphi011/vsx/internal/log"
)

// historyKey is where VS Code keeps the recently-opened list in state.vscdb.
const historyKey = "history.recentlyOpenedPathsList"

// ReadError is a provider read failure: an unreadable or malformed
// history store. It degrades the result set, it never crashes a query.
type ReadError struct {
	Instance string
	Path     string
	Err      error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read %s history at %s: %v", e.Instance, e.Path, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// WorkspaceProvider loads recently opened workspaces from every
// discovered VS Code instance.
type WorkspaceProvider struct {
	logger *log.Logger
	// instances supplies the current variant list on every load, so a
	// fake can be injected in tests and new installs show up without a
	// restart.
	instances func() []Instance
}

// NewWorkspaceProvider creates a provider over the given instance source.
func NewWorkspaceProvider(logger *log.Logger, instances func() []Instance) *WorkspaceProvider {
	return &WorkspaceProvider{logger: logger, instances: instances}
}

// Load reads the recently-opened history of every instance in parallel.
// Per-instance read failures are logged and skipped; Load only returns an
// error when every instance failed, so one broken install never hides the
// others' workspaces.
func (p *WorkspaceProvider) Load(ctx context.Context) ([]item.Item, error) {
	instances := p.instances()
	if len(instances) == 0 {
		return nil, nil
	}

	results := make([][]item.Item, len(instances))
	errs := make([]error, len(instances))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, inst := range instances {
		g.Go(func() error {
			items, err := p.loadInstance(ctx, inst)
			results[i], errs[i] = items, err
			return nil
		})
	}
	_ = g.Wait()

	var all []item.Item
	failed := 0
	for i := range instances {
		if errs[i] != nil {
			failed++
			p.logger.Warnf("%v", errs[i])
			continue
		}
		all = append(all, results[i]...)
	}
	if failed == len(instances) {
		return nil, fmt.Errorf("all %d instances failed, last: %w", failed, errs[len(errs)-1])
	}
	return all, nil
}

// loadInstance reads one instance's history, preferring the state.vscdb
// store and falling back to the legacy storage.json.
func (p *WorkspaceProvider) loadInstance(ctx context.Context, inst Instance) ([]item.Item, error) {
	dbPath := filepath.Join(inst.UserDataDir, "User", "globalStorage", "state.vscdb")
	if _, err := os.Stat(dbPath); err == nil {
		entries, err := readStateDB(ctx, dbPath)
		if err != nil {
			return nil, &ReadError{Instance: inst.Name, Path: dbPath, Err: err}
		}
		return entriesToItems(entries, inst), nil
	}

	legacyPath := filepath.Join(inst.UserDataDir, "storage.json")
	entries, err := readLegacyStorage(legacyPath)
	if err != nil {
		return nil, &ReadError{Instance: inst.Name, Path: legacyPath, Err: err}
	}
	return entriesToItems(entries, inst), nil
}

// historyEntry is one entry of the recently-opened list, as stored by
// VS Code. Exactly one of the three locators is set.
type historyEntry struct {
	FolderURI string `json:"folderUri,omitempty"`
	FileURI   string `json:"fileUri,omitempty"`
	Workspace *struct {
		ConfigPath string `json:"configPath"`
	} `json:"workspace,omitempty"`
	Label           string `json:"label,omitempty"`
	RemoteAuthority string `json:"remoteAuthority,omitempty"`
}

// readStateDB pulls the recently-opened list out of state.vscdb.
// The database is opened read-only and immutable: VS Code may hold it
// open with WAL journaling while we read.
func readStateDB(ctx context.Context, path string) ([]historyEntry, error) {
	dsn := fmt.Sprintf("file:%s?mode=ro&immutable=1", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	var value string
	row := db.QueryRowContext(ctx, "SELECT value FROM ItemTable WHERE key = ?", historyKey)
	if err := row.Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // no history yet
		}
		return nil, fmt.Errorf("query history: %w", err)
	}

	var payload struct {
		Entries []historyEntry `json:"entries"`
	}
	if err := json.Unmarshal([]byte(value), &payload); err != nil {
		return nil, fmt.Errorf("parse history payload: %w", err)
	}
	return payload.Entries, nil
}

// readLegacyStorage parses the storage.json history kept by old VS Code
// releases: openedPathsList.entries in later versions, workspaces3 (a
// list of URI strings) in earlier ones.
func readLegacyStorage(path string) ([]historyEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var payload struct {
		OpenedPathsList struct {
			Entries     []historyEntry `json:"entries"`
			Workspaces3 []string       `json:"workspaces3"`
		} `json:"openedPathsList"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("parse storage.json: %w", err)
	}

	entries := payload.OpenedPathsList.Entries
	for _, uri := range payload.OpenedPathsList.Workspaces3 {
		entries = append(entries, historyEntry{FolderURI: uri})
	}
	return entries, nil
}

func entriesToItems(entries []historyEntry, inst Instance) []item.Item {
	items := make([]item.Item, 0, len(entries))
	for _, e := range entries {
		if it, ok := entryToItem(e); ok {
			items = append(items, it.WithInstance(inst.Name))
		}
	}
	return items
}

// entryToItem resolves one history entry into an item. Unparseable
// entries are dropped individually instead of failing the whole store.
func entryToItem(e historyEntry) (item.Item, bool) {
	var uri string
	var kind item.Kind
	switch {
	case e.FolderURI != "":
		uri, kind = e.FolderURI, item.KindFolder
	case e.Workspace != nil && e.Workspace.ConfigPath != "":
		uri, kind = e.Workspace.ConfigPath, item.KindWorkspace
	case e.FileURI != "":
		uri, kind = e.FileURI, item.KindFile
	default:
		return item.Item{}, false
	}

	parsed, err := url.Parse(uri)
	if err != nil {
		return item.Item{}, false
	}

	switch parsed.Scheme {
	case "file":
		path := parsed.Path
		if path == "" {
			return item.Item{}, false
		}
		return item.Item{
			Title:  titleFor(e, path),
			Target: path,
			Kind:   kind,
		}, true
	case "vscode-remote":
		path := parsed.Path
		if path == "" {
			return item.Item{}, false
		}
		return item.Item{
			Title:  titleFor(e, path),
			Target: uri,
			Kind:   kind,
			Remote: remoteLabel(parsed.Host),
		}, true
	default:
		return item.Item{}, false
	}
}

func titleFor(e historyEntry, path string) string {
	if e.Label != "" {
		return e.Label
	}
	return filepath.Base(path)
}

// remoteLabel renders a vscode-remote authority as a short qualifier,
// e.g. "ssh-remote+buildbox" becomes "SSH: buildbox".
func remoteLabel(authority string) string {
	// A '+' separates the remote type from its argument. Authorities come
	// percent-encoded in some stores; decode best-effort.
	if decoded, err := url.PathUnescape(authority); err == nil {
		authority = decoded
	}

	remoteType, arg, found := strings.Cut(authority, "+")
	if !found {
		return authority
	}
	switch remoteType {
	case "ssh-remote":
		return "SSH: " + arg
	case "wsl":
		return "WSL: " + arg
	case "dev-container", "attached-container":
		return "Dev Container"
	case "codespaces":
		return "Codespaces"
	}
	return authority
}
