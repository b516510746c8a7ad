// Package tui is the interactive terminal front end: a project sidebar
// with live status badges next to a scrollback viewport for the selected
// project. It consumes supervision events from the bus and issues
// lifecycle operations against the supervisor.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tang-vu/devboot/internal/config"
	"github.com/tang-vu/devboot/internal/event"
	"github.com/tang-vu/devboot/internal/project"
	"github.com/tang-vu/devboot/internal/supervisor"
)

// Model is the Bubbletea model for the supervisor UI.
type Model struct {
	sup      *supervisor.Supervisor
	projects []project.Project
	cfg      *config.Config

	selected int
	viewport viewport.Model
	spinner  spinner.Model

	inputMode bool
	input     textinput.Model

	width  int
	height int
	ready  bool

	follow  bool
	notice  string
	errored bool
}

// NewModel creates the initial model over the given project list.
func NewModel(sup *supervisor.Supervisor, projects []project.Project, cfg *config.Config) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(statusRestartingColor)

	in := textinput.New()
	in.Prompt = "> "
	in.Placeholder = "send to process stdin"

	return Model{
		sup:      sup,
		projects: projects,
		cfg:      cfg,
		spinner:  sp,
		input:    in,
		follow:   cfg.TUI.FollowLogs,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layoutViewport()
		m.refreshLogs()
		m.ready = true
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case busMsg:
		return m.handleEvent(msg.event)

	case projectsChangedMsg:
		m.projects = msg.projects
		if m.selected >= len(m.projects) {
			m.selected = max(0, len(m.projects)-1)
		}
		m.refreshLogs()
		return m, nil

	case noticeMsg:
		m.notice = msg.text
		m.errored = msg.isErr
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.inputMode {
		return m.handleInputMode(msg)
	}

	switch msg.String() {
	case "i":
		if _, ok := m.current(); ok {
			m.inputMode = true
			m.input.Reset()
			return m, m.input.Focus()
		}
		return m, nil

	case "q", "ctrl+c":
		return m, tea.Quit

	case "up", "k":
		if m.selected > 0 {
			m.selected--
			m.refreshLogs()
		}
		return m, nil

	case "down", "j":
		if m.selected < len(m.projects)-1 {
			m.selected++
			m.refreshLogs()
		}
		return m, nil

	case "s":
		if p, ok := m.current(); ok {
			return m, m.runOp(fmt.Sprintf("started %s", p.Name), func() error {
				return m.sup.Start(p.ID, p.CommandSpec(), p.RestartOnCrash)
			})
		}
		return m, nil

	case "x":
		if p, ok := m.current(); ok {
			return m, m.runOp(fmt.Sprintf("stopped %s", p.Name), func() error {
				return m.sup.Stop(p.ID)
			})
		}
		return m, nil

	case "r":
		if p, ok := m.current(); ok {
			return m, m.runOp(fmt.Sprintf("restarted %s", p.Name), func() error {
				return m.sup.Restart(p.ID)
			})
		}
		return m, nil

	case "c":
		if p, ok := m.current(); ok {
			m.sup.ClearLogs(p.ID)
			m.refreshLogs()
		}
		return m, nil

	case "f":
		m.follow = !m.follow
		if m.follow {
			m.viewport.GotoBottom()
		}
		return m, nil

	case "g":
		m.viewport.GotoTop()
		m.follow = false
		return m, nil

	case "G":
		m.viewport.GotoBottom()
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// handleInputMode processes keys while the stdin line editor is focused.
// Enter sends the line, Esc leaves input mode, Ctrl+C sends the interrupt
// byte to the process instead of quitting the UI.
func (m Model) handleInputMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	p, ok := m.current()
	if !ok {
		m.inputMode = false
		return m, nil
	}

	switch msg.Type {
	case tea.KeyEsc:
		m.inputMode = false
		m.input.Blur()
		return m, nil

	case tea.KeyCtrlC:
		return m, m.runOp("interrupt sent", func() error {
			return m.sup.SendInterrupt(p.ID)
		})

	case tea.KeyEnter:
		line := m.input.Value()
		m.input.Reset()
		return m, m.runOp("", func() error {
			return m.sup.SendInput(p.ID, line)
		})
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// runOp executes a supervisor operation off the update loop and reports
// the outcome as a footer notice.
func (m Model) runOp(okText string, op func() error) tea.Cmd {
	return func() tea.Msg {
		if err := op(); err != nil {
			return noticeMsg{text: err.Error(), isErr: true}
		}
		return noticeMsg{text: okText}
	}
}

func (m Model) handleEvent(e event.Event) (tea.Model, tea.Cmd) {
	p, ok := m.current()
	if !ok {
		return m, nil
	}

	switch e := e.(type) {
	case event.LogAppendedEvent:
		if e.ProjectID == p.ID {
			m.refreshLogs()
		}
	case event.CrashedEvent:
		if e.ProjectID == p.ID && !e.WillRestart {
			m.notice = fmt.Sprintf("%s crashed", p.Name)
			m.errored = true
		}
	}
	// Status changes redraw through View reading live statuses.
	return m, nil
}

func (m *Model) layoutViewport() {
	w := m.width - m.sidebarWidth() - 3
	h := m.height - 4 // header, footer, borders
	if w < 10 {
		w = 10
	}
	if h < 3 {
		h = 3
	}
	m.viewport.Width = w
	m.viewport.Height = h
}

func (m *Model) refreshLogs() {
	p, ok := m.current()
	if !ok {
		m.viewport.SetContent(mutedStyle.Render("no projects configured"))
		return
	}
	m.viewport.SetContent(strings.Join(m.sup.Logs(p.ID), "\n"))
	if m.follow {
		m.viewport.GotoBottom()
	}
}

func (m Model) current() (project.Project, bool) {
	if m.selected < 0 || m.selected >= len(m.projects) {
		return project.Project{}, false
	}
	return m.projects[m.selected], true
}

func (m Model) sidebarWidth() int {
	if m.cfg != nil && m.cfg.TUI.SidebarWidth > 0 {
		return m.cfg.TUI.SidebarWidth
	}
	return 32
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "loading..."
	}

	header := titleStyle.Render("devboot") + mutedStyle.Render("  process supervisor")
	body := lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(), m.viewport.View())
	footer := m.renderFooter()

	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func (m Model) renderSidebar() string {
	width := m.sidebarWidth()
	var b strings.Builder

	if len(m.projects) == 0 {
		b.WriteString(mutedStyle.Render("no projects"))
	}

	for i, p := range m.projects {
		status := m.sup.Status(p.ID)

		badge := lipgloss.NewStyle().Foreground(statusColor(status.String())).Render("●")
		if status == supervisor.StatusRestarting {
			badge = m.spinner.View()
		}

		name := p.DisplayName()
		if maxName := width - 4; len(name) > maxName && maxName > 1 {
			name = name[:maxName-1] + "…"
		}

		line := fmt.Sprintf("%s %s", badge, name)
		if i == m.selected {
			line = selectedStyle.Render(line)
		}
		b.WriteString(line)
		if i < len(m.projects)-1 {
			b.WriteString("\n")
		}
	}

	return sidebarStyle.
		Width(width).
		Height(m.viewport.Height).
		Render(b.String())
}

func (m Model) renderFooter() string {
	if m.inputMode {
		return m.input.View() + "  " + mutedStyle.Render("enter send · ctrl+c interrupt · esc back")
	}

	help := mutedStyle.Render("↑/↓ select · s start · x stop · r restart · i input · c clear · f follow · q quit")
	if m.notice == "" {
		return help
	}
	style := noticeStyle
	if m.errored {
		style = errorStyle
	}
	return help + "  " + style.Render(m.notice)
}
