//go:build windows

package autostart

import (
	"fmt"

	"golang.org/x/sys/windows/registry"
)

const runKeyPath = `Software\Microsoft\Windows\CurrentVersion\Run`

// windowsRegistrar stores the launch command under the per-user Run key,
// which needs no elevation.
type windowsRegistrar struct {
	exe string
}

func newRegistrar(exe string) (Registrar, error) {
	return &windowsRegistrar{exe: exe}, nil
}

func (r *windowsRegistrar) Enable() error {
	key, err := registry.OpenKey(registry.CURRENT_USER, runKeyPath, registry.SET_VALUE)
	if err != nil {
		return fmt.Errorf("failed to open Run key: %w", err)
	}
	defer key.Close()

	cmd := fmt.Sprintf(`"%s" run`, r.exe)
	if err := key.SetStringValue(AppName, cmd); err != nil {
		return fmt.Errorf("failed to set Run value: %w", err)
	}
	return nil
}

func (r *windowsRegistrar) Disable() error {
	key, err := registry.OpenKey(registry.CURRENT_USER, runKeyPath, registry.SET_VALUE)
	if err != nil {
		return fmt.Errorf("failed to open Run key: %w", err)
	}
	defer key.Close()

	if err := key.DeleteValue(AppName); err != nil && err != registry.ErrNotExist {
		return fmt.Errorf("failed to delete Run value: %w", err)
	}
	return nil
}

func (r *windowsRegistrar) IsEnabled() (bool, error) {
	key, err := registry.OpenKey(registry.CURRENT_USER, runKeyPath, registry.QUERY_VALUE)
	if err != nil {
		return false, fmt.Errorf("failed to open Run key: %w", err)
	}
	defer key.Close()

	if _, _, err := key.GetStringValue(AppName); err != nil {
		if err == registry.ErrNotExist {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
