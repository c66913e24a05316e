package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/raphi011/vsx/internal/cache"
	"github.com/raphi011/vsx/internal/config"
	"github.com/raphi011/vsx/internal/engine"
	"github.com/raphi011/vsx/internal/item"
	"github.com/raphi011/vsx/internal/launch"
	"github.com/raphi011/vsx/internal/log"
	"github.com/raphi011/vsx/internal/sshconf"
	"github.com/raphi011/vsx/internal/vscode"
)

// app wires the providers, caches, engine and launcher together for the
// commands. Built once per command invocation.
type app struct {
	cfg       config.Config
	engine    *engine.Engine
	instances func() []vscode.Instance
	launcher  *launch.Launcher
}

func newApp(ctx context.Context, cfg config.Config) *app {
	logger := log.FromContext(ctx)

	extraDirs := make([]string, 0, len(cfg.ExtraDataDirs))
	for _, dir := range cfg.ExtraDataDirs {
		if expanded, err := config.ExpandPath(dir); err == nil {
			extraDirs = append(extraDirs, expanded)
		}
	}

	instances := func() []vscode.Instance {
		return vscode.DiscoverInstances(extraDirs, cfg.Editors)
	}

	settingsPaths := func() []string {
		var paths []string
		for _, inst := range instances() {
			paths = append(paths, filepath.Join(inst.UserDataDir, "User", "settings.json"))
		}
		return paths
	}

	workspaces := vscode.NewWorkspaceProvider(logger, instances)
	machines := sshconf.NewMachineProvider(logger, cfg.SSHConfig, settingsPaths)

	cacheCfg := func(name string) cache.Config {
		c := cache.Config{
			FreshFor: cfg.FreshnessWindow.Std(),
			WaitFor:  cfg.RefreshWait.Std(),
		}
		if dir, err := os.UserCacheDir(); err == nil {
			c.PersistPath = filepath.Join(dir, "vsx", name+".json")
		}
		return c
	}

	eng := engine.New(logger,
		engine.Config{
			MinScore:        cfg.MinScore,
			RefreshInterval: cfg.RefreshInterval.Std(),
		},
		engine.Source{
			Name:  "workspaces",
			Cache: cache.New("workspaces", workspaces.Load, logger, cacheCfg("workspaces")),
		},
		engine.Source{
			Name:  "machines",
			Cache: cache.New("machines", machines.Load, logger, cacheCfg("machines")),
		},
	)

	resolve := func(instanceName string) string {
		var fallback string
		for _, inst := range instances() {
			if inst.Executable == "" {
				continue
			}
			if inst.Name == instanceName {
				return inst.Executable
			}
			if fallback == "" {
				fallback = inst.Executable
			}
		}
		// Machines aren't tied to a variant; any installed editor works.
		if instanceName == "" {
			return fallback
		}
		return ""
	}

	return &app{
		cfg:       cfg,
		engine:    eng,
		instances: instances,
		launcher:  launch.New(logger, resolve),
	}
}

// bestMatch returns the top openable result for a query, or false when
// nothing matches.
func (a *app) bestMatch(ctx context.Context, query string) (item.Item, bool) {
	for _, res := range a.engine.Query(ctx, query) {
		if res.Item.Kind != item.KindStatus {
			return res.Item, true
		}
	}
	return item.Item{}, false
}
