// Package sshconf loads remote machines from the SSH client config.
// The config path comes from an explicit override, the editor's
// remote.SSH.configFile setting, or ~/.ssh/config, in that order.
package sshconf

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kevinburke/ssh_config"

	"github.com/raphi011/vsx/internal/item"
	"github.com/raphi011/vsx/internal/log"
)

// settingsKey is the VS Code setting naming the SSH config file.
const settingsKey = "remote.SSH.configFile"

// MachineProvider loads remote machine items from an SSH client config.
type MachineProvider struct {
	logger *log.Logger
	// override is the configured ssh_config path; empty means resolve.
	override string
	// settingsPaths lists the settings.json files to consult for
	// remote.SSH.configFile, usually one per discovered instance.
	settingsPaths func() []string
}

// NewMachineProvider creates a provider. settingsPaths may be nil when no
// editor instances are known.
func NewMachineProvider(logger *log.Logger, override string, settingsPaths func() []string) *MachineProvider {
	return &MachineProvider{logger: logger, override: override, settingsPaths: settingsPaths}
}

// Load parses the SSH config and returns one item per concrete host
// alias. A missing config file yields an empty list, not an error; a
// malformed one is a provider read failure.
func (p *MachineProvider) Load(ctx context.Context) ([]item.Item, error) {
	path, err := p.resolveConfigPath()
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			p.logger.Debugf("ssh config %s does not exist", path)
			return nil, nil
		}
		return nil, fmt.Errorf("open ssh config: %w", err)
	}
	defer f.Close()

	cfg, err := ssh_config.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("parse ssh config %s: %w", path, err)
	}

	return hostsToItems(cfg), nil
}

// resolveConfigPath picks the SSH config file to read.
func (p *MachineProvider) resolveConfigPath() (string, error) {
	if p.override != "" {
		return expandHome(p.override)
	}

	if p.settingsPaths != nil {
		for _, settingsPath := range p.settingsPaths() {
			if configured := configFileFromSettings(settingsPath); configured != "" {
				p.logger.Debugf("using ssh config from %s", settingsPath)
				return expandHome(configured)
			}
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve ssh config path: %w", err)
	}
	return filepath.Join(home, ".ssh", "config"), nil
}

// configFileFromSettings reads remote.SSH.configFile from a settings.json.
// Settings files are user-edited and frequently broken mid-keystroke, so
// any parse problem just means "not configured here".
func configFileFromSettings(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	var settings map[string]json.RawMessage
	if err := json.Unmarshal(data, &settings); err != nil {
		return ""
	}
	var configFile string
	if err := json.Unmarshal(settings[settingsKey], &configFile); err != nil {
		return ""
	}
	return configFile
}

// hostsToItems flattens the parsed config into machine items. Wildcard
// patterns and negations describe matching rules, not connectable hosts,
// so they are skipped.
func hostsToItems(cfg *ssh_config.Config) []item.Item {
	var items []item.Item
	for _, host := range cfg.Hosts {
		hostName, user := hostValues(host)
		for _, pattern := range host.Patterns {
			alias := pattern.String()
			if strings.ContainsAny(alias, "*?!") {
				continue
			}
			resolved := hostName
			if resolved == "" {
				resolved = alias
			}
			items = append(items, item.Item{
				Title:  alias,
				Target: alias,
				Kind:   item.KindMachine,
				Host:   resolved,
				User:   user,
			})
		}
	}
	return items
}

// hostValues extracts the HostName and User declarations of a Host block.
func hostValues(host *ssh_config.Host) (hostName, user string) {
	for _, node := range host.Nodes {
		kv, ok := node.(*ssh_config.KV)
		if !ok {
			continue
		}
		switch strings.ToLower(kv.Key) {
		case "hostname":
			hostName = kv.Value
		case "user":
			user = kv.Value
		}
	}
	return hostName, user
}

func expandHome(path string) (string, error) {
	if len(path) >= 2 && path[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expand ~: %w", err)
		}
		return filepath.Join(home, path[2:]), nil
	}
	return path, nil
}
