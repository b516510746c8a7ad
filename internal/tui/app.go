package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tang-vu/devboot/internal/config"
	"github.com/tang-vu/devboot/internal/event"
	"github.com/tang-vu/devboot/internal/project"
	"github.com/tang-vu/devboot/internal/supervisor"
)

// App wraps the Bubbletea program and its bus subscription.
type App struct {
	program *tea.Program
	bus     *event.Bus
}

// New creates the TUI application over the supervisor and project list.
func New(sup *supervisor.Supervisor, projects []project.Project, cfg *config.Config, bus *event.Bus) *App {
	model := NewModel(sup, projects, cfg)
	return &App{
		program: tea.NewProgram(model, tea.WithAltScreen()),
		bus:     bus,
	}
}

// Run subscribes to supervision events and blocks until the user quits.
func (a *App) Run() error {
	subID := a.bus.SubscribeAll(func(e event.Event) {
		a.program.Send(busMsg{event: e})
	})
	defer a.bus.Unsubscribe(subID)

	_, err := a.program.Run()
	return err
}

// SetProjects pushes a fresh project list into the running UI. Safe to
// call from any goroutine; used by the store watcher.
func (a *App) SetProjects(projects []project.Project) {
	a.program.Send(projectsChangedMsg{projects: projects})
}
