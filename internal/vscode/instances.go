// Package vscode discovers installed VS Code variants and the workspaces
// they have recently opened. Each variant keeps its history in a per-user
// data directory, preferably in the state.vscdb SQLite store with a legacy
// storage.json fallback.
package vscode

import (
	"os"
	"os/exec"
	"path/filepath"
	"sort"
)

// Instance describes one installed VS Code variant.
type Instance struct {
	// Name is the variant identifier, e.g. "code" or "codium".
	Name string `json:"name"`
	// Executable is the resolved launcher binary. Empty when the variant's
	// data directory exists but no binary was found on PATH.
	Executable string `json:"executable,omitempty"`
	// UserDataDir is the variant's user-data directory holding the
	// history store and settings.
	UserDataDir string `json:"user_data_dir"`
}

// variant maps a user-data directory name to its executable candidates.
type variant struct {
	name    string
	dataDir string
	execs   []string
}

// Well-known variants, checked in this order.
var variants = []variant{
	{name: "code", dataDir: "Code", execs: []string{"code"}},
	{name: "code-insiders", dataDir: "Code - Insiders", execs: []string{"code-insiders"}},
	{name: "codium", dataDir: "VSCodium", execs: []string{"codium", "vscodium"}},
	{name: "code-oss", dataDir: "Code - OSS", execs: []string{"code-oss"}},
}

// DiscoverInstances probes the well-known variant directories under the
// user config dir, plus any explicitly configured extra data directories.
// Executable overrides win over PATH lookups. Variants whose data
// directory doesn't exist are skipped; a missing binary is not fatal
// (history can still be searched, only launching needs the binary).
func DiscoverInstances(extraDataDirs []string, overrides map[string]string) []Instance {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = ""
	}
	return discoverInstances(configDir, extraDataDirs, overrides)
}

func discoverInstances(configDir string, extraDataDirs []string, overrides map[string]string) []Instance {
	var found []Instance

	if configDir != "" {
		for _, v := range variants {
			dir := filepath.Join(configDir, v.dataDir)
			if !isDir(dir) {
				continue
			}
			found = append(found, Instance{
				Name:        v.name,
				Executable:  resolveExecutable(v, overrides),
				UserDataDir: dir,
			})
		}
	}

	for _, dir := range extraDataDirs {
		if !isDir(dir) {
			continue
		}
		name := filepath.Base(dir)
		found = append(found, Instance{
			Name:        name,
			Executable:  overrides[name],
			UserDataDir: dir,
		})
	}

	sort.SliceStable(found, func(i, j int) bool { return found[i].Name < found[j].Name })
	return found
}

func resolveExecutable(v variant, overrides map[string]string) string {
	if override := overrides[v.name]; override != "" {
		return override
	}
	for _, candidate := range v.execs {
		if path, err := exec.LookPath(candidate); err == nil {
			return path
		}
	}
	return ""
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
