//go:build !windows

package autostart

import (
	"os"
	"strings"
	"testing"
)

func TestEnableDisableRoundTrip(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	r, err := newRegistrar("/usr/local/bin/devboot")
	if err != nil {
		t.Fatalf("newRegistrar() error: %v", err)
	}

	if on, err := r.IsEnabled(); err != nil || on {
		t.Fatalf("IsEnabled() before enable = %v, %v", on, err)
	}

	if err := r.Enable(); err != nil {
		t.Fatalf("Enable() error: %v", err)
	}
	if on, err := r.IsEnabled(); err != nil || !on {
		t.Fatalf("IsEnabled() after enable = %v, %v", on, err)
	}

	if err := r.Disable(); err != nil {
		t.Fatalf("Disable() error: %v", err)
	}
	if on, err := r.IsEnabled(); err != nil || on {
		t.Fatalf("IsEnabled() after disable = %v, %v", on, err)
	}

	// Disabling again stays a no-op.
	if err := r.Disable(); err != nil {
		t.Errorf("second Disable() error: %v", err)
	}
}

func TestDesktopEntryContents(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	r, err := newRegistrar("/opt/devboot")
	if err != nil {
		t.Fatalf("newRegistrar() error: %v", err)
	}
	if err := r.Enable(); err != nil {
		t.Fatalf("Enable() error: %v", err)
	}

	path, err := r.(*unixRegistrar).entryPath()
	if err != nil {
		t.Fatalf("entryPath() error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}

	entry := string(data)
	if !strings.Contains(entry, "Exec=/opt/devboot run") {
		t.Errorf("desktop entry missing exec line:\n%s", entry)
	}
	if !strings.Contains(entry, "[Desktop Entry]") {
		t.Errorf("desktop entry missing header:\n%s", entry)
	}
}
