package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/pomo/internal/models"
	"github.com/desertthunder/pomo/internal/services"
	"github.com/desertthunder/pomo/internal/session"
	"github.com/desertthunder/pomo/internal/shared"
	"github.com/desertthunder/pomo/internal/tasks"
)

// Pane identifies which half of the screen receives pane-specific keys.
type Pane int

const (
	TimerPane Pane = iota
	TasksPane
)

const (
	paneWidth  = 36
	listHeight = 10
)

// Options configures a [Model].
type Options struct {
	Timer *session.Timer
	// Playback names the collaborator shown under the clock.
	Playback string
	// Devices, when set, is asked once for the device playback will target.
	Devices services.DeviceLister
}

// Model represents the TUI application state.
type Model struct {
	ctx      context.Context
	timer    *session.Timer
	events   <-chan session.Event
	snapshot session.Snapshot
	playback string
	devices  services.DeviceLister
	device   string

	tasks    *tasks.List
	taskList list.Model
	input    textinput.Model
	typing   bool
	focus    Pane
	focused  *bool

	alert  string
	status string

	width  int
	height int
	help   help.Model
	keys   keyMap
}

// NewModel creates a new TUI model subscribed to the timer's events.
func NewModel(ctx context.Context, opts Options) *Model {
	focused := false
	taskList := list.New(nil, taskDelegate{focused: &focused}, paneWidth, listHeight)
	taskList.Title = "Tasks"
	taskList.SetShowStatusBar(false)
	taskList.SetShowHelp(false)
	taskList.SetFilteringEnabled(false)
	taskList.SetShowFilter(false)
	taskList.DisableQuitKeybindings()
	taskList.Styles.Title = styles.title.Padding(0)
	taskList.Styles.TitleBar = lipgloss.NewStyle()

	input := textinput.New()
	input.Placeholder = "What needs doing?"
	input.Prompt = "+ "
	input.CharLimit = 120
	input.Width = paneWidth - 4

	playback := opts.Playback
	if playback == "" {
		playback = "none"
	}

	return &Model{
		ctx:      ctx,
		timer:    opts.Timer,
		events:   opts.Timer.Subscribe(32),
		snapshot: opts.Timer.Snapshot(),
		playback: playback,
		devices:  opts.Devices,
		tasks:    &tasks.List{},
		taskList: taskList,
		input:    input,
		focused:  &focused,
		help:     help.New(),
		keys:     newKeyMap(),
	}
}

// Init starts listening for timer events and resolves the playback device.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(waitForEvent(m.events), m.resolveDevice())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case Msg:
		return m.handleMsg(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.typing {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgTimerEvent:
		event := msg.data.(session.Event)
		m.snapshot = event.Snapshot
		if event.Type == session.EventPhaseChange {
			m.alert = event.Message
		}
		return m, waitForEvent(m.events)

	case MsgTimerClosed:
		return m, nil

	case MsgDeviceResolved:
		result := msg.data.(deviceResult)
		if result.err != nil {
			m.device = ""
			if errors.Is(result.err, shared.ErrNoActiveDevice) {
				m.status = "No Spotify device found. Open Spotify somewhere to control playback."
			} else {
				m.status = fmt.Sprintf("Spotify unavailable: %v", result.err)
			}
			return m, nil
		}
		m.device = result.device.Name
		return m, nil
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.alert != "" {
		if key.Matches(msg, m.keys.dismiss) {
			m.alert = ""
		}
		return m, nil
	}

	if m.typing {
		return m.handleInputKeys(msg)
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.focus):
		m.setFocus(1 - m.focus)
	case key.Matches(msg, m.keys.toggle):
		m.timer.Toggle()
		m.refresh()
	case key.Matches(msg, m.keys.reset):
		m.timer.Reset()
		m.refresh()
	case key.Matches(msg, m.keys.workUp):
		m.adjust(m.timer.SetWorkDuration, m.snapshot.Work, 1)
	case key.Matches(msg, m.keys.workDown):
		m.adjust(m.timer.SetWorkDuration, m.snapshot.Work, -1)
	case key.Matches(msg, m.keys.breakUp):
		m.adjust(m.timer.SetBreakDuration, m.snapshot.Break, 1)
	case key.Matches(msg, m.keys.breakDown):
		m.adjust(m.timer.SetBreakDuration, m.snapshot.Break, -1)
	case key.Matches(msg, m.keys.auth):
		m.status = "Run `pomo spotify auth` in another terminal, then restart the TUI."
	case m.focus == TasksPane:
		return m.handleTaskKeys(msg)
	}
	return m, nil
}

func (m *Model) handleTaskKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.insert):
		m.typing = true
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.check):
		m.tasks.Toggle(m.taskList.Index())
		m.syncTasks()
	case key.Matches(msg, m.keys.remove):
		m.tasks.Delete(m.taskList.Index())
		m.syncTasks()
	case key.Matches(msg, m.keys.up):
		m.taskList.CursorUp()
	case key.Matches(msg, m.keys.down):
		m.taskList.CursorDown()
	}
	return m, nil
}

func (m *Model) handleInputKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.add):
		if m.tasks.Add(m.input.Value()) {
			m.input.Reset()
			m.syncTasks()
			m.taskList.Select(m.tasks.Len() - 1)
		}
		return m, nil
	case key.Matches(msg, m.keys.back):
		m.typing = false
		m.input.Blur()
		m.input.Reset()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// adjust moves a duration by delta minutes. Invalid results are reported, not applied.
func (m *Model) adjust(set func(int) error, seconds, delta int) {
	if err := set(seconds/60 + delta); err != nil {
		if errors.Is(err, shared.ErrInvalidDuration) {
			m.status = "Durations must be at least 1 minute."
		} else {
			m.status = err.Error()
		}
	} else {
		m.status = ""
	}
	m.refresh()
}

func (m *Model) setFocus(p Pane) {
	m.focus = p
	*m.focused = p == TasksPane
}

func (m *Model) refresh() {
	m.snapshot = m.timer.Snapshot()
}

func (m *Model) syncTasks() {
	m.taskList.SetItems(taskItems(m.tasks.All()))
	if n := m.tasks.Len(); n > 0 && m.taskList.Index() >= n {
		m.taskList.Select(n - 1)
	}
}

// View renders both panes, the status line and help, or the alert when one is open.
func (m *Model) View() string {
	if m.alert != "" {
		return m.renderAlert()
	}

	timerStyle, tasksStyle := styles.focused, styles.pane
	if m.focus == TasksPane {
		timerStyle, tasksStyle = styles.pane, styles.focused
	}

	panes := lipgloss.JoinHorizontal(lipgloss.Top,
		timerStyle.Width(paneWidth).Render(m.renderTimer()),
		tasksStyle.Width(paneWidth).Render(m.renderTasks()),
	)

	var footer []string
	if m.status != "" {
		footer = append(footer, styles.warn.Render(m.status))
	}
	footer = append(footer, m.help.View(m.keys))

	return panes + "\n" + strings.Join(footer, "\n")
}

func (m *Model) renderTimer() string {
	snap := m.snapshot

	state := styles.help.Render("paused")
	if snap.Running {
		state = styles.ok.Render("running")
	}

	target := m.playback
	if m.device != "" {
		target += " → " + m.device
	}

	return strings.Join([]string{
		styles.title.Render(snap.Phase.Title()),
		styles.clock.Render(snap.Clock()),
		state,
		"",
		fmt.Sprintf("Work  %d min", snap.Work/60),
		fmt.Sprintf("Break %d min", snap.Break/60),
		"",
		styles.help.Render("♪ " + target),
	}, "\n")
}

func (m *Model) renderTasks() string {
	var b strings.Builder

	if m.tasks.Len() == 0 {
		b.WriteString(styles.title.Render("Tasks"))
		b.WriteString("\n")
		b.WriteString(styles.help.Render("No tasks yet. Press i to add one."))
	} else {
		b.WriteString(m.taskList.View())
	}
	b.WriteString("\n\n")

	if m.typing {
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}

	b.WriteString(styles.help.Render(fmt.Sprintf("%d of %d remaining", m.tasks.Remaining(), m.tasks.Len())))
	return b.String()
}

func (m *Model) renderAlert() string {
	box := styles.alert.Render(styles.title.Render(m.alert) + "\n" + styles.help.Render("press enter"))
	if m.width == 0 || m.height == 0 {
		return box
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

// waitForEvent blocks on the timer subscription and turns the next event into a message.
func waitForEvent(events <-chan session.Event) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return timerClosedMsg()
		}
		return timerEventMsg(event)
	}
}

func (m *Model) resolveDevice() tea.Cmd {
	if m.devices == nil {
		return nil
	}

	lister, ctx := m.devices, m.ctx
	return func() tea.Msg {
		devices, err := lister.ListDevices(ctx)
		if err != nil {
			return deviceResolvedMsg(models.Device{}, err)
		}
		device, err := services.PickDevice(devices)
		return deviceResolvedMsg(device, err)
	}
}

// Tasks exposes the task list, mainly for tests.
func (m *Model) Tasks() *tasks.List {
	return m.tasks
}
