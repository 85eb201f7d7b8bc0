// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package browser opens URLs in the user's web browser. Opening is a
// notification only: callers log failures and carry on.
package browser

import (
	"fmt"
	"os/exec"
	"runtime"
)

// Notifier is told about the query URL once the result page is fetched.
type Notifier interface {
	Open(url string) error
}

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	Start(name string, args ...string) error
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

// Start launches the command without waiting for the browser to exit.
func (o *osExecutor) Start(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	go cmd.Wait()
	return nil
}

// Launcher opens URLs with the platform's URL handler.
type Launcher struct {
	goos string
	exec executor
}

// NewLauncher returns a Launcher for the running platform.
func NewLauncher() *Launcher {
	return &Launcher{goos: runtime.GOOS, exec: &osExecutor{}}
}

// command returns the program and arguments that open url on goos.
func command(goos, url string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{url}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", url}
	default:
		return "xdg-open", []string{url}
	}
}

// Open launches the platform URL handler for url.
func (l *Launcher) Open(url string) error {
	name, args := command(l.goos, url)
	if _, err := l.exec.LookPath(name); err != nil {
		return fmt.Errorf("no URL handler on %s: %s not found on PATH", l.goos, name)
	}
	if err := l.exec.Start(name, args...); err != nil {
		return fmt.Errorf("starting %s: %w", name, err)
	}
	return nil
}

// Nop is a Notifier that does nothing.
type Nop struct{}

// Open does nothing.
func (Nop) Open(string) error { return nil }
