package browser

import (
	"fmt"
	"os/exec"

	"github.com/cumulus13/gsearch/internal/debuglog"
	"github.com/cumulus13/gsearch/internal/validation"
)

// Launcher opens result links in a detached browser process.
type Launcher struct {
	browser  string
	registry *Registry
}

// NewLauncher resolves which browser to use. An explicitly configured
// executable wins; otherwise the registry's candidates are probed in order,
// and the platform opener is the final fallback.
func NewLauncher(configuredPath string) *Launcher {
	registry, err := NewRegistry()
	if err != nil {
		// Continue with the platform opener if the registry can't be loaded
		registry = &Registry{}
	}

	l := &Launcher{registry: registry}

	if configuredPath != "" {
		l.browser = configuredPath
	} else {
		l.browser = findCommand(registry.Candidates()...)
	}
	if l.browser == "" {
		l.browser = registry.DefaultOpener()
	}

	return l
}

// Browser returns the executable this launcher resolved to.
func (l *Launcher) Browser() string {
	return l.browser
}

// Open spawns the browser on url and forgets about it. The child process
// inherits no stdio, so it cannot scribble over the terminal.
func (l *Launcher) Open(url string) error {
	if err := validation.ValidateLink(url); err != nil {
		return fmt.Errorf("refusing to open link: %w", err)
	}
	if l.browser == "" {
		return fmt.Errorf("no browser found to open URL")
	}

	cmd := l.registry.Command(l.browser, url)

	// Start GUI applications detached
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", l.browser, err)
	}
	debuglog.Infof("opened %s with %s (pid %d)", url, l.browser, cmd.Process.Pid)

	go func() {
		_ = cmd.Wait()
	}()

	return nil
}

func findCommand(commands ...string) string {
	for _, cmd := range commands {
		if _, err := exec.LookPath(cmd); err == nil {
			return cmd
		}
	}
	return ""
}
