//go:build !windows

package autostart

import (
	"fmt"
	"os"
	"path/filepath"
)

// unixRegistrar writes an XDG autostart desktop entry under
// ~/.config/autostart (or $XDG_CONFIG_HOME/autostart).
type unixRegistrar struct {
	exe string
}

func newRegistrar(exe string) (Registrar, error) {
	return &unixRegistrar{exe: exe}, nil
}

func (r *unixRegistrar) entryPath() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "autostart", "devboot.desktop"), nil
}

func (r *unixRegistrar) Enable() error {
	path, err := r.entryPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create autostart directory: %w", err)
	}

	entry := fmt.Sprintf(`[Desktop Entry]
Type=Application
Name=%s
Exec=%s run
Comment=Start supervised development projects at login
X-GNOME-Autostart-enabled=true
`, AppName, r.exe)

	if err := os.WriteFile(path, []byte(entry), 0644); err != nil {
		return fmt.Errorf("failed to write desktop entry: %w", err)
	}
	return nil
}

func (r *unixRegistrar) Disable() error {
	path, err := r.entryPath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove desktop entry: %w", err)
	}
	return nil
}

func (r *unixRegistrar) IsEnabled() (bool, error) {
	path, err := r.entryPath()
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
