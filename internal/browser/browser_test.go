// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package browser

import (
	"errors"
	"strings"
	"testing"
)

// mockExecutor records started commands.
type mockExecutor struct {
	availableBins map[string]bool
	startErr      error
	started       []string
}

func (m *mockExecutor) LookPath(file string) (string, error) {
	if m.availableBins[file] {
		return "/usr/bin/" + file, nil
	}
	return "", errors.New("not found: " + file)
}

func (m *mockExecutor) Start(name string, args ...string) error {
	if m.startErr != nil {
		return m.startErr
	}
	m.started = append(m.started, name+" "+strings.Join(args, " "))
	return nil
}

const testURL = "https://pubmed.ncbi.nlm.nih.gov/?term=gene"

func TestLauncherOpen(t *testing.T) {
	tests := []struct {
		goos string
		bin  string
		want string
	}{
		{"linux", "xdg-open", "xdg-open " + testURL},
		{"freebsd", "xdg-open", "xdg-open " + testURL},
		{"darwin", "open", "open " + testURL},
		{"windows", "rundll32", "rundll32 url.dll,FileProtocolHandler " + testURL},
	}
	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			m := &mockExecutor{availableBins: map[string]bool{tt.bin: true}}
			l := &Launcher{goos: tt.goos, exec: m}

			if err := l.Open(testURL); err != nil {
				t.Fatalf("Open() error = %v", err)
			}
			if len(m.started) != 1 || m.started[0] != tt.want {
				t.Errorf("started = %v, want [%q]", m.started, tt.want)
			}
		})
	}
}

func TestLauncherOpenMissingHandler(t *testing.T) {
	m := &mockExecutor{availableBins: map[string]bool{}}
	l := &Launcher{goos: "linux", exec: m}

	err := l.Open(testURL)
	if err == nil {
		t.Fatal("expected error when xdg-open is missing")
	}
	if !strings.Contains(err.Error(), "xdg-open") {
		t.Errorf("error %q should name the missing handler", err)
	}
	if len(m.started) != 0 {
		t.Errorf("nothing should start, got %v", m.started)
	}
}

func TestLauncherOpenStartFailure(t *testing.T) {
	m := &mockExecutor{availableBins: map[string]bool{"open": true}, startErr: errors.New("exec format error")}
	l := &Launcher{goos: "darwin", exec: m}

	err := l.Open(testURL)
	if err == nil || !strings.Contains(err.Error(), "exec format error") {
		t.Errorf("Open() error = %v, want wrapped start error", err)
	}
}

func TestNop(t *testing.T) {
	var n Notifier = Nop{}
	if err := n.Open(testURL); err != nil {
		t.Errorf("Nop.Open() = %v", err)
	}
}
