package item

import "testing"

func TestSearchFields(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		item Item
		want []string
	}{
		{
			name: "local folder",
			item: Item{Title: "proj-a", Target: "/home/dev/proj-a", Kind: KindFolder},
			want: []string{"proj-a", "/home/dev/proj-a"},
		},
		{
			name: "remote folder includes qualifier",
			item: Item{Title: "app", Target: "vscode-remote://ssh-remote+box/srv/app", Kind: KindFolder, Remote: "SSH: box"},
			want: []string{"app", "vscode-remote://ssh-remote+box/srv/app", "SSH: box"},
		},
		{
			name: "machine",
			item: Item{Title: "buildbox", Target: "buildbox", Kind: KindMachine, Host: "build.example.com", User: "deploy"},
			want: []string{"buildbox", "build.example.com", "deploy"},
		},
		{
			name: "machine with host equal to alias",
			item: Item{Title: "staging", Target: "staging", Kind: KindMachine, Host: "staging"},
			want: []string{"staging"},
		},
		{
			name: "target equal to title not duplicated",
			item: Item{Title: "/tmp", Target: "/tmp", Kind: KindFolder},
			want: []string{"/tmp"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := tt.item.SearchFields()
			if len(got) != len(tt.want) {
				t.Fatalf("SearchFields() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("SearchFields()[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestWithDerivationsDoNotMutate(t *testing.T) {
	t.Parallel()

	orig := Item{Title: "proj-a", Kind: KindFolder}
	derived := orig.WithRemote("WSL: ubuntu").WithInstance("codium")

	if orig.Remote != "" || orig.Instance != "" {
		t.Errorf("original mutated: %+v", orig)
	}
	if derived.Remote != "WSL: ubuntu" || derived.Instance != "codium" {
		t.Errorf("derived = %+v", derived)
	}
}

func TestKindLabel(t *testing.T) {
	t.Parallel()

	if got := KindWorkspace.Label(); got != "Workspace" {
		t.Errorf("KindWorkspace.Label() = %q", got)
	}
	if got := KindStatus.Label(); got != "" {
		t.Errorf("KindStatus.Label() = %q, want empty", got)
	}
	if got := Kind("custom").Label(); got != "custom" {
		t.Errorf("unknown kind label = %q, want passthrough", got)
	}
}
