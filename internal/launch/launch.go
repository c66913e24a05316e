// Package launch opens a selected item: workspaces through the owning
// editor instance, machines through the editor's SSH remoting or a plain
// ssh session.
package launch

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/raphi011/vsx/internal/item"
	"github.com/raphi011/vsx/internal/log"
)

// ErrNotOpenable is returned for synthetic rows and items whose
// instance has no resolved executable.
var ErrNotOpenable = fmt.Errorf("item cannot be opened")

// ExecutableResolver maps an instance name to its launcher binary.
// Returns "" when the instance is unknown or has no binary.
type ExecutableResolver func(instance string) string

// Launcher spawns the platform action for a selected item.
type Launcher struct {
	logger  *log.Logger
	resolve ExecutableResolver
}

// New creates a Launcher over the given executable resolver.
func New(logger *log.Logger, resolve ExecutableResolver) *Launcher {
	return &Launcher{logger: logger, resolve: resolve}
}

// Open performs the launch action for the item.
func (l *Launcher) Open(ctx context.Context, it item.Item) error {
	switch it.Kind {
	case item.KindMachine:
		return l.openMachine(ctx, it)
	case item.KindFolder, item.KindFile, item.KindWorkspace:
		return l.openWorkspace(ctx, it)
	default:
		return fmt.Errorf("%w: %q", ErrNotOpenable, it.Title)
	}
}

// openWorkspace starts the owning editor on the item's target. Remote
// targets are URIs and go through the matching URI flag; local ones are
// plain paths.
func (l *Launcher) openWorkspace(ctx context.Context, it item.Item) error {
	exe := l.resolve(it.Instance)
	if exe == "" {
		return fmt.Errorf("%w: no executable for instance %q", ErrNotOpenable, it.Instance)
	}

	var args []string
	switch {
	case strings.HasPrefix(it.Target, "vscode-remote://"):
		if it.Kind == item.KindFile {
			args = []string{"--file-uri", it.Target}
		} else {
			args = []string{"--folder-uri", it.Target}
		}
	case it.Kind == item.KindFile:
		args = []string{"--goto", it.Target}
	default:
		args = []string{it.Target}
	}

	l.logger.Debugf("launching %s %s", exe, strings.Join(args, " "))
	return start(exec.CommandContext(ctx, exe, args...))
}

// openMachine connects to a remote machine: through the editor's SSH
// remoting when any instance has a binary, otherwise an interactive ssh
// session in the current terminal.
func (l *Launcher) openMachine(ctx context.Context, it item.Item) error {
	if exe := l.resolve(it.Instance); exe != "" {
		authority := "ssh-remote+" + it.Target
		l.logger.Debugf("launching %s --remote %s", exe, authority)
		return start(exec.CommandContext(ctx, exe, "--remote", authority))
	}

	target := it.Target
	if it.User != "" {
		target = it.User + "@" + it.Host
	}
	l.logger.Debugf("launching ssh %s", target)
	cmd := exec.CommandContext(ctx, "ssh", target)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// start runs a detached command, folding captured stderr into the error
// when it fails to spawn or exits immediately with output.
func start(cmd *exec.Cmd) error {
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Start(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%s", msg)
		}
		return err
	}
	// Editors daemonize themselves; don't hold the launcher hostage.
	go func() { _ = cmd.Wait() }()
	return nil
}
