// Package item defines the discoverable entities vsx surfaces to search:
// VS Code workspaces (folders, files, .code-workspace files) and remote
// machines from the SSH client config.
package item

// Kind classifies what opening an item does.
type Kind string

const (
	KindFolder    Kind = "folder"
	KindFile      Kind = "file"
	KindWorkspace Kind = "workspace"
	KindMachine   Kind = "machine"
	// KindStatus marks synthetic rows (loading, error) that are shown
	// in result lists but cannot be opened.
	KindStatus Kind = "status"
)

// Label returns the human-readable kind label shown in results.
func (k Kind) Label() string {
	switch k {
	case KindFolder:
		return "Folder"
	case KindFile:
		return "File"
	case KindWorkspace:
		return "Workspace"
	case KindMachine:
		return "SSH Host"
	case KindStatus:
		return ""
	}
	return string(k)
}

// Item is an immutable discovered entity. Providers construct items once;
// any adjustment produces a new value via the With* methods.
type Item struct {
	// Title is the display title and the identity used for deduplication.
	Title string `json:"title"`
	// Target is what gets opened: a filesystem path or URI for workspaces,
	// a host spec for machines.
	Target string `json:"target"`
	Kind   Kind   `json:"kind"`
	// Remote qualifies workspaces that live behind a remote authority
	// (e.g. "SSH: buildbox", "WSL: ubuntu"). Empty for local items.
	Remote string `json:"remote,omitempty"`
	// Instance names the VS Code variant the item was discovered from.
	Instance string `json:"instance,omitempty"`

	// Machine-only fields.
	User string `json:"user,omitempty"`
	Host string `json:"host,omitempty"`
}

// Identity returns the string duplicates are collapsed on.
// Comparison is exact; "proj-a" and "PROJ-A" are distinct items.
func (i Item) Identity() string {
	return i.Title
}

// SearchFields returns the ordered candidate strings a query is scored
// against. The title always comes first; empty fields are omitted so the
// result is never padded with unmatchable candidates.
func (i Item) SearchFields() []string {
	fields := make([]string, 0, 4)
	if i.Title != "" {
		fields = append(fields, i.Title)
	}
	if i.Kind == KindMachine {
		if i.Host != "" && i.Host != i.Title {
			fields = append(fields, i.Host)
		}
		if i.User != "" {
			fields = append(fields, i.User)
		}
		return fields
	}
	if i.Target != "" && i.Target != i.Title {
		fields = append(fields, i.Target)
	}
	if i.Remote != "" {
		fields = append(fields, i.Remote)
	}
	return fields
}

// WithRemote returns a copy with the remote qualifier set.
func (i Item) WithRemote(remote string) Item {
	i.Remote = remote
	return i
}

// WithInstance returns a copy tagged with the discovering variant.
func (i Item) WithInstance(instance string) Item {
	i.Instance = instance
	return i
}

// Scored pairs an item with its query score. Created per query,
// discarded after assembly.
type Scored struct {
	Item  Item `json:"item"`
	Score int  `json:"score"`
}
