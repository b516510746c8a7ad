// Package project provides the persistent registry of user-defined
// projects. Projects are stored as a YAML document in the user's config
// directory and loaded into memory at startup; every mutation is written
// back atomically so a crash never leaves a torn store file.
package project

import (
	"strings"

	"github.com/tang-vu/devboot/internal/supervisor"
)

// Project is a user-defined unit of supervision: a working directory plus
// an ordered list of shell commands, with lifecycle policy flags.
type Project struct {
	// ID is the stable unique identifier, assigned at creation.
	ID string `yaml:"id"`
	// Name is the human-readable display name.
	Name string `yaml:"name"`
	// Path is the working directory the commands run in.
	Path string `yaml:"path"`
	// Commands are the shell command strings, run in order.
	Commands []string `yaml:"commands"`
	// AutoStart launches this project when the supervisor session begins.
	AutoStart bool `yaml:"auto_start"`
	// RestartOnCrash respawns the process after an abnormal exit, up to
	// the supervisor's attempt cap.
	RestartOnCrash bool `yaml:"restart_on_crash"`
	// Enabled gates the project. Disabled projects are kept in the store
	// but never auto-started.
	Enabled bool `yaml:"enabled"`
}

// CommandSpec converts the project definition into a launchable spec.
func (p Project) CommandSpec() supervisor.CommandSpec {
	return supervisor.CommandSpec{
		Dir:      p.Path,
		Commands: append([]string(nil), p.Commands...),
	}
}

// DisplayName returns the name, falling back to the path's last element
// for projects persisted without one.
func (p Project) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	trimmed := strings.TrimRight(strings.ReplaceAll(p.Path, `\`, "/"), "/")
	if i := strings.LastIndex(trimmed, "/"); i >= 0 {
		return trimmed[i+1:]
	}
	return trimmed
}
