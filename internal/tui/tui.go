package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/tatianab/tactics-game/internal/board"
	"github.com/tatianab/tactics-game/internal/engine"
	"github.com/tatianab/tactics-game/internal/logger"
	"github.com/tatianab/tactics-game/internal/models"
	"github.com/tatianab/tactics-game/internal/replay"
	"github.com/tatianab/tactics-game/internal/share"
)

type sessionState int

const (
	stateEditing sessionState = iota
	stateSimulating
	stateHint
	stateSuggesting
)

// speeds are the selectable tick intervals, fastest first.
var speeds = []time.Duration{
	50 * time.Millisecond,
	100 * time.Millisecond,
	200 * time.Millisecond,
	300 * time.Millisecond,
	500 * time.Millisecond,
	time.Second,
}

// Options configures a TUI session.
type Options struct {
	Engine   *engine.Engine
	Run      models.RunConfig
	Interval time.Duration
	ShareURL string

	// Program is loaded into the editor; empty means the default program.
	Program string
	Avatar  int

	// Status is shown until the first action.
	Status string

	// Extra sinks receive every dispatched action next to the board.
	Extra []replay.Sink
}

type model struct {
	state     sessionState
	engine    *engine.Engine
	opts      Options
	board     *board.Board
	ctrl      *replay.Controller
	editor    textarea.Model
	hintInput textinput.Model
	logView   viewport.Model
	status    string
	lastRun   *models.Recording
	width     int
	height    int
	log       *logrus.Entry
}

type simulatedMsg struct {
	program string
	actions models.ActionLog
}

type suggestedMsg struct {
	program string
	err     error
}

func newModel(opts Options, clock replay.Clock) model {
	if opts.Program == "" {
		opts.Program = engine.DefaultProgram
	}
	if opts.Interval <= 0 {
		opts.Interval = 300 * time.Millisecond
	}

	ed := textarea.New()
	ed.ShowLineNumbers = true
	ed.CharLimit = 0
	ed.MaxHeight = 0
	ed.SetWidth(60)
	ed.SetHeight(20)
	ed.SetValue(opts.Program)
	ed.Focus()

	ti := textinput.New()
	ti.Placeholder = "What should the tactic do?"
	ti.CharLimit = 156
	ti.Width = 40

	b := board.New(opts.Run)
	sinks := append([]replay.Sink{b}, opts.Extra...)

	return model{
		state:     stateEditing,
		engine:    opts.Engine,
		opts:      opts,
		board:     b,
		ctrl:      replay.NewController(replay.Tee(sinks...), clock, opts.Interval),
		editor:    ed,
		hintInput: ti,
		logView:   viewport.New(60, 16),
		status:    opts.Status,
		log:       logger.Log.WithField("component", "tui"),
	}
}

func (m model) Init() tea.Cmd {
	return textarea.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.state == stateHint {
			return m.updateHint(msg)
		}
		if next, cmd, handled := m.handleKey(msg); handled {
			return next, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case clockTickMsg:
		msg.fn()
		m.afterPlayback()
		return m, nil

	case simulatedMsg:
		m.state = stateEditing
		m.board.Reset(m.opts.Run)
		if _, err := m.ctrl.Restart(msg.actions); err != nil {
			m.status = "Cannot play this run: " + err.Error()
			m.log.WithError(err).Error("restart failed")
			return m, nil
		}
		m.lastRun = &models.Recording{
			Program: msg.program,
			Config:  m.opts.Run,
			Avatar:  m.opts.Avatar,
			Actions: msg.actions,
		}
		m.status = ""
		m.afterPlayback()
		return m, nil

	case suggestedMsg:
		m.state = stateEditing
		if msg.err != nil {
			m.status = "Suggestion failed: " + msg.err.Error()
			return m, nil
		}
		m.editor.SetValue(msg.program)
		m.status = "Suggested tactic loaded. ctrl+r to try it."
		return m, nil
	}

	if m.editor.Focused() {
		m.editor, cmd = m.editor.Update(msg)
		return m, cmd
	}
	m.logView, cmd = m.logView.Update(msg)
	return m, cmd
}

// handleKey applies global bindings. Keys it does not claim go to the
// focused widget.
func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd, bool) {
	key := msg.String()
	blurred := !m.editor.Focused()

	switch {
	case key == "ctrl+c" || key == "esc":
		m.ctrl.Stop()
		return m, tea.Quit, true

	case key == "ctrl+r":
		if m.state == stateSimulating {
			return m, nil, true
		}
		m.state = stateSimulating
		m.status = "Simulating..."
		return m, m.simulate(m.editor.Value()), true

	case key == "ctrl+p" || (blurred && key == " "):
		if s := m.ctrl.Current(); s != nil {
			s.TogglePause()
			m.status = "Playback " + s.State().String()
		}
		return m, nil, true

	case blurred && key == "n":
		s := m.ctrl.Current()
		if s == nil {
			return m, nil, true
		}
		if err := s.Step(); err != nil {
			m.status = "Cannot step: " + err.Error()
		}
		m.afterPlayback()
		return m, nil, true

	case key == "tab":
		if m.editor.Focused() {
			m.editor.Blur()
		} else {
			m.editor.Focus()
		}
		return m, nil, true

	case blurred && (key == "+" || key == "-"):
		m.changeSpeed(key == "+")
		return m, nil, true

	case key == "ctrl+f":
		pretty, err := share.Format(m.editor.Value())
		if err != nil {
			m.status = "Cannot format: " + err.Error()
		} else {
			m.editor.SetValue(pretty)
			m.status = "Formatted."
		}
		return m, nil, true

	case key == "ctrl+s":
		m.status = m.shareLink()
		return m, nil, true

	case key == "ctrl+g":
		if m.engine == nil || !m.engine.HasAssistant() {
			m.status = engine.ErrNoAssistant.Error()
			return m, nil, true
		}
		m.state = stateHint
		m.hintInput.Reset()
		m.hintInput.Focus()
		m.editor.Blur()
		return m, textinput.Blink, true

	case key == "ctrl+w":
		m.status = m.save()
		return m, nil, true
	}
	return m, nil, false
}

func (m model) updateHint(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc:
		m.state = stateEditing
		m.hintInput.Blur()
		m.editor.Focus()
		return m, nil
	case tea.KeyEnter:
		hint := m.hintInput.Value()
		m.hintInput.Blur()
		m.editor.Focus()
		m.state = stateSuggesting
		m.status = "Asking for a tactic..."
		return m, m.suggest(hint)
	}
	var cmd tea.Cmd
	m.hintInput, cmd = m.hintInput.Update(msg)
	return m, cmd
}

func (m *model) changeSpeed(faster bool) {
	cur := m.ctrl.Interval()
	i := 0
	for i < len(speeds)-1 && speeds[i] < cur {
		i++
	}
	if faster && i > 0 {
		i--
	} else if !faster && i < len(speeds)-1 {
		i++
	}
	m.ctrl.SetInterval(speeds[i])
	m.status = fmt.Sprintf("Speed: one turn per %s (from the next run)", speeds[i])
}

func (m model) shareLink() string {
	token, err := share.Encode(m.editor.Value())
	if errors.Is(err, share.ErrTooLarge) {
		return "This program is too large and cannot be shared."
	}
	if err != nil {
		return "Cannot share: " + err.Error()
	}
	link, err := share.Link(m.opts.ShareURL, token, m.opts.Avatar)
	if err != nil {
		return "Cannot share: " + err.Error()
	}
	m.log.WithField("length", len(token)).Info("share link created")
	return link
}

func (m model) save() string {
	if m.lastRun == nil {
		return "Nothing to save yet. ctrl+r runs the program."
	}
	name := "run-" + time.Now().Format("20060102-150405")
	if err := m.lastRun.Save(name); err != nil {
		m.log.WithError(err).Error("save failed")
		return "Save failed: " + err.Error()
	}
	return "Saved as " + name
}

// afterPlayback refreshes views after the board changed.
func (m *model) afterPlayback() {
	if s := m.ctrl.Current(); s != nil && s.Err() != nil {
		m.status = "Playback halted: " + s.Err().Error()
	}
	m.logView.SetContent(m.renderLog())
	m.logView.GotoBottom()
}

func (m *model) resize() {
	editorWidth := m.width / 2
	m.editor.SetWidth(max(editorWidth-2, 20))
	m.editor.SetHeight(max(m.height-6, 5))
	m.logView.Width = max(m.width-editorWidth-4, 20)
	m.logView.Height = max(m.height-6-statusLines, 3)
	m.logView.SetContent(m.renderLog())
}

func (m model) simulate(program string) tea.Cmd {
	cfg := m.opts.Run
	return func() tea.Msg {
		return simulatedMsg{program: program, actions: engine.RunSimulation(cfg, program)}
	}
}

func (m model) suggest(hint string) tea.Cmd {
	eng := m.engine
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		program, err := eng.SuggestTactic(ctx, hint)
		return suggestedMsg{program: program, err: err}
	}
}

func (m model) View() string {
	editor := editorStyle
	if m.editor.Focused() {
		editor = focusedEditorStyle
	}
	left := editor.Render(m.editor.View())
	right := lipgloss.JoinVertical(lipgloss.Left,
		m.renderState(),
		m.logView.View(),
	)
	main := lipgloss.JoinHorizontal(lipgloss.Top, left, right)

	bottom := helpStyle.Render("ctrl+r run · ctrl+p pause · tab focus · n step · +/- speed · ctrl+f fmt · ctrl+s share · ctrl+g suggest · ctrl+w save · esc quit")
	if m.state == stateHint {
		bottom = "Hint: " + m.hintInput.View()
	}

	parts := []string{main}
	if m.status != "" {
		parts = append(parts, statusStyle.Render(m.status))
	}
	parts = append(parts, bottom)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// Run starts the TUI and blocks until the user quits.
func Run(opts Options) error {
	clock := &programClock{}
	p := tea.NewProgram(newModel(opts, clock), tea.WithAltScreen())
	clock.bind(p.Send)
	_, err := p.Run()
	return err
}
