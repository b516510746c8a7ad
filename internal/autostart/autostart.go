// Package autostart registers the application to launch at user login,
// using the platform's native mechanism: the HKCU Run registry key on
// Windows, an XDG autostart desktop entry elsewhere.
package autostart

import "os"

// AppName is the identifier used for the login entry.
const AppName = "DevBoot"

// Registrar manages the login-launch registration for this executable.
type Registrar interface {
	// Enable registers the current executable to launch at login.
	Enable() error
	// Disable removes the registration. Disabling when not registered is
	// a no-op success.
	Disable() error
	// IsEnabled reports whether a registration exists.
	IsEnabled() (bool, error)
}

// New returns the Registrar for the current platform.
func New() (Registrar, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, err
	}
	return newRegistrar(exe)
}
