package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/jamesainslie/foldersort/pkg/foldersort/config"
	"github.com/jamesainslie/foldersort/pkg/foldersort/logging"
	"github.com/jamesainslie/foldersort/pkg/foldersort/organizer"
	"github.com/jamesainslie/foldersort/pkg/foldersort/output"
	"github.com/jamesainslie/foldersort/pkg/foldersort/session"
)

// AppState represents the current screen.
type AppState int

const (
	StateInput AppState = iota
	StateRunning
	StateConfirm
	StateCleaning
	StateComplete
)

// maxListedFolders caps the empty folders shown in the confirm dialog.
const maxListedFolders = 8

// Options configures the shell.
type Options struct {
	// Target prefills the folder prompt.
	Target string

	// Session holds the organizer and cleanup settings for every run.
	Session session.Options
}

// Model is the Bubble Tea model of the shell. The session it drives keeps
// the selected folder and the last status message.
type Model struct {
	state   AppState
	session *session.Session
	input   textinput.Model
	spinner spinner.Model
	log     *logging.Logger

	outcome *session.Outcome
	err     error

	// 0 = keep, 1 = delete
	confirmFocused int

	width  int
	height int
}

// organizeDoneMsg carries the outcome of the move pass.
type organizeDoneMsg struct {
	outcome *session.Outcome
	err     error
}

// cleanupDoneMsg reports that the empty folders were settled.
type cleanupDoneMsg struct {
	err error
}

// NewModel creates the shell model.
func NewModel(opts Options) Model {
	ti := textinput.New()
	ti.Placeholder = "~/Downloads"
	ti.Prompt = "Folder: "
	ti.CharLimit = 4096
	ti.Width = 60
	ti.SetValue(opts.Target)
	ti.Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(primaryColor)

	return Model{
		state:   StateInput,
		session: session.New(opts.Target, opts.Session),
		input:   ti,
		spinner: s,
		log:     logging.Get("tui"),
		width:   80,
		height:  24,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if msg.Width > 20 {
			m.input.Width = msg.Width - 20
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if m.state != StateRunning && m.state != StateCleaning {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case organizeDoneMsg:
		return m.handleOrganizeDone(msg), nil

	case cleanupDoneMsg:
		m.err = msg.err
		m.state = StateComplete
		return m, nil
	}

	if m.state == StateInput {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.state {
	case StateInput:
		switch key {
		case "esc":
			return m, tea.Quit
		case "enter":
			return m.startRun()
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd

	case StateRunning, StateCleaning:
		// runs are not interruptible

	case StateConfirm:
		switch key {
		case "esc", "n":
			return m.keepFolders(), nil
		case "left", "h":
			m.confirmFocused = 0
		case "right", "l":
			m.confirmFocused = 1
		case "tab":
			m.confirmFocused = (m.confirmFocused + 1) % 2
		case "y":
			return m.startCleanup()
		case "enter":
			if m.confirmFocused == 1 {
				return m.startCleanup()
			}
			return m.keepFolders(), nil
		}

	case StateComplete:
		switch key {
		case "q", "esc":
			return m, tea.Quit
		case "enter", "r":
			m.state = StateInput
			m.outcome = nil
			m.err = nil
			m.input.Focus()
			return m, textinput.Blink
		}
	}

	return m, nil
}

// startRun selects the typed folder and starts the move pass.
func (m Model) startRun() (tea.Model, tea.Cmd) {
	target, err := config.ExpandPath(strings.TrimSpace(m.input.Value()))
	if err != nil {
		target = strings.TrimSpace(m.input.Value())
	}
	m.session.Target = target
	m.state = StateRunning
	m.outcome = nil
	m.err = nil
	m.input.Blur()
	m.log.Debug("run requested", "target", target)
	return m, tea.Batch(m.spinner.Tick, m.organizeCmd())
}

// organizeCmd runs the move pass off the UI loop.
func (m Model) organizeCmd() tea.Cmd {
	s := m.session
	return func() tea.Msg {
		out, err := s.Organize()
		return organizeDoneMsg{outcome: out, err: err}
	}
}

func (m Model) handleOrganizeDone(msg organizeDoneMsg) Model {
	m.outcome = msg.outcome
	m.err = msg.err

	if errors.Is(msg.err, organizer.ErrNoFolderSelected) {
		m.state = StateInput
		m.input.Focus()
		return m
	}
	if msg.err == nil && msg.outcome != nil && msg.outcome.Cleanup == session.CleanupPending {
		m.state = StateConfirm
		m.confirmFocused = 0
		return m
	}
	m.state = StateComplete
	return m
}

func (m Model) startCleanup() (tea.Model, tea.Cmd) {
	m.state = StateCleaning
	return m, tea.Batch(m.spinner.Tick, m.cleanupCmd(true))
}

// cleanupCmd settles the pending empty folders off the UI loop.
func (m Model) cleanupCmd(confirmed bool) tea.Cmd {
	s, out := m.session, m.outcome
	return func() tea.Msg {
		return cleanupDoneMsg{err: s.Cleanup(out, confirmed)}
	}
}

// keepFolders declines removal. Nothing touches the disk, so it runs inline.
func (m Model) keepFolders() Model {
	m.err = m.session.Cleanup(m.outcome, false)
	m.state = StateComplete
	return m
}

// Status returns the status line of the last run.
func (m Model) Status() string {
	return m.session.Status
}

// State returns the current screen.
func (m Model) State() AppState {
	return m.state
}

// View renders the current state.
func (m Model) View() string {
	switch m.state {
	case StateInput:
		return m.renderInput()
	case StateRunning:
		return m.renderBusy("Organizing " + m.session.Target + "...")
	case StateConfirm:
		return m.renderConfirm()
	case StateCleaning:
		return m.renderBusy("Removing empty folders...")
	case StateComplete:
		return m.renderComplete()
	}
	return ""
}

func (m Model) contentWidth() int {
	if m.width < 24 {
		return 20
	}
	return m.width - 4
}

func (m Model) renderInput() string {
	w := m.contentWidth()

	var b strings.Builder
	b.WriteString(titleStyle.Render("  Folder Organizer"))
	b.WriteString("\n")
	b.WriteString(renderDivider(w))
	b.WriteString("\n\n  ")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	if status := m.session.Status; status != "" {
		b.WriteString("  ")
		b.WriteString(m.statusStyle().Render(status))
		b.WriteString("\n\n")
	}

	b.WriteString("  " + keyHint("Enter", "Organize") + "  " + keyHint("Esc", "Quit"))
	b.WriteString("\n")
	return outerBoxStyle.Width(m.width - 2).Render(b.String())
}

func (m Model) renderBusy(text string) string {
	w := m.contentWidth()

	var b strings.Builder
	b.WriteString(titleStyle.Render("  Folder Organizer"))
	b.WriteString("\n")
	b.WriteString(renderDivider(w))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("  %s %s\n", m.spinner.View(), truncatePath(text, w-6)))
	return outerBoxStyle.Width(m.width - 2).Render(b.String())
}

func (m Model) renderConfirm() string {
	dirs := m.outcome.EmptyFolders

	var b strings.Builder
	b.WriteString(dialogTitleStyle.Render("Empty folders"))
	b.WriteString("\n\n")
	b.WriteString(session.ConfirmPrompt(len(dirs)))
	b.WriteString("\n\n")

	for i, d := range dirs {
		if i >= maxListedFolders {
			b.WriteString(mutedTextStyle.Render(fmt.Sprintf("  ... and %d more", len(dirs)-maxListedFolders)))
			b.WriteString("\n")
			break
		}
		b.WriteString(mutedTextStyle.Render("  " + truncatePath(output.RelPath(m.outcome.Target, d), 48)))
		b.WriteString("\n")
	}
	if m.session.Options().UseTrash {
		b.WriteString("\n")
		b.WriteString(warningTextStyle.Render("Folders go to the trash."))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	keep := inactiveButtonStyle.Render("Keep")
	del := inactiveButtonStyle.Render("Delete")
	if m.confirmFocused == 0 {
		keep = activeButtonStyle.Render("Keep")
	} else {
		del = activeButtonStyle.Background(dangerColor).Render("Delete")
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Center, keep, "  ", del))

	dialog := dialogBoxStyle.Render(b.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, dialog)
}

func (m Model) renderComplete() string {
	w := m.contentWidth()

	var b strings.Builder
	if m.err != nil {
		b.WriteString(errorTextStyle.Render("  Organizing failed"))
	} else {
		b.WriteString(successTextStyle.Render("  Done"))
	}
	b.WriteString("\n")
	b.WriteString(renderDivider(w))
	b.WriteString("\n\n")

	if m.outcome != nil && m.outcome.Result != nil {
		r := output.FromOutcome(m.outcome)
		b.WriteString(statLine("Folder", r.Target))
		b.WriteString(statLine("Moved", fmt.Sprintf("%d (%s)", r.Stats.Moved, humanize.Bytes(uint64(r.Stats.TotalSize)))))
		if r.Stats.Renamed > 0 {
			b.WriteString(statLine("Renamed", fmt.Sprintf("%d", r.Stats.Renamed)))
		}
		b.WriteString(statLine("Skipped", fmt.Sprintf("%d", r.Stats.Skipped)))
		b.WriteString(statLine("New folders", fmt.Sprintf("%d", r.Stats.FoldersCreated)))
		if r.Stats.EmptyFound > 0 {
			b.WriteString(statLine("Empty folders", fmt.Sprintf("%d found, %d removed", r.Stats.EmptyFound, r.Stats.EmptyRemoved)))
		}
		b.WriteString(statLine("Took", r.Stats.Duration.Round(time.Millisecond).String()))
		b.WriteString("\n")
	}

	b.WriteString("  ")
	b.WriteString(m.statusStyle().Render(m.session.Status))
	b.WriteString("\n\n")
	b.WriteString("  " + keyHint("Enter", "Organize another") + "  " + keyHint("q", "Quit"))
	b.WriteString("\n")
	return outerBoxStyle.Width(m.width - 2).Render(b.String())
}

func (m Model) statusStyle() lipgloss.Style {
	if m.err != nil {
		return errorTextStyle
	}
	return successTextStyle
}

func statLine(label, value string) string {
	return "  " + labelStyle.Render(fmt.Sprintf("%-14s", label)) + valueStyle.Render(value) + "\n"
}

// Run starts the interactive shell.
func Run(opts Options) error {
	p := tea.NewProgram(NewModel(opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
