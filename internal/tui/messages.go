package tui

import (
	"github.com/tang-vu/devboot/internal/event"
	"github.com/tang-vu/devboot/internal/project"
)

// busMsg wraps a supervision event delivered from the event bus into the
// Bubbletea update loop.
type busMsg struct {
	event event.Event
}

// projectsChangedMsg carries a fresh project list after the store file
// changed on disk.
type projectsChangedMsg struct {
	projects []project.Project
}

// noticeMsg shows a transient line in the footer.
type noticeMsg struct {
	text  string
	isErr bool
}
