package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"cbot/internal/sched"
)

// TaskRow is the state of one task after a tick.
type TaskRow struct {
	Name    string
	Status  sched.TaskStatus
	Ticks   int
	Energy  float32 // 0..1
	X, Y    float32
	Message string // last line the task printed
}

// Event is sent by the runner after every tick.
type Event struct {
	Tick    int
	ClockMs uint64
	Tasks   []TaskRow
}

// Collect builds the event for the executor's current state.
func Collect(tick int, ex *sched.Executor) Event {
	ev := Event{Tick: tick, ClockMs: ex.NowMs()}
	for _, t := range ex.Tasks() {
		row := TaskRow{Name: t.Name, Status: t.Status, Ticks: t.Ticks, Energy: t.Bot.Energy, X: t.Bot.Pos.X, Y: t.Bot.Pos.Y}
		if n := len(t.Bot.Log); n > 0 {
			row.Message = t.Bot.Log[n-1].Text
		}
		ev.Tasks = append(ev.Tasks, row)
	}
	return ev
}

type runModel struct {
	title    string
	maxTicks int
	events   <-chan Event
	spinner  spinner.Model
	prog     progress.Model
	last     Event
	width    int
	done     bool
}

type eventMsg Event
type doneMsg struct{}

// NewRunModel returns a Bubble Tea model that renders running tasks.
func NewRunModel(title string, maxTicks int, events <-chan Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 76

	return &runModel{
		title:    title,
		maxTicks: max(maxTicks, 1),
		events:   events,
		spinner:  sp,
		prog:     prog,
		width:    80,
	}
}

func (m *runModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *runModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		m.last = Event(msg)
		return m, tea.Batch(m.prog.SetPercent(m.percent()), m.listenForEvent())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			return m, tea.Quit
		}
		return m, nil
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.prog.Width = msg.Width - 4
		}
		return m, nil
	case progress.FrameMsg:
		progressModel, cmd := m.prog.Update(msg)
		m.prog = progressModel.(progress.Model)
		return m, cmd
	}
	return m, nil
}

// percent is the share of the tick limit spent, or 1 once nothing runs.
func (m *runModel) percent() float64 {
	running := 0
	for _, row := range m.last.Tasks {
		if row.Status == sched.TaskRunning {
			running++
		}
	}
	if running == 0 && len(m.last.Tasks) > 0 {
		return 1
	}
	return min(float64(m.last.Tick)/float64(m.maxTicks), 1)
}

func (m *runModel) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	header := fmt.Sprintf("%s (tick %d, %.2fs)", m.title, m.last.Tick, float64(m.last.ClockMs)/1000)
	if m.done {
		header = "done: " + header
	} else {
		header = m.spinner.View() + " " + header
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	// статус, имя, заряд, позиция, последнее сообщение
	const statusWidth, botWidth = 8, 24
	nameWidth := max((m.width-statusWidth-botWidth)/3, 12)
	msgWidth := max(m.width-statusWidth-botWidth-nameWidth-6, 10)
	for _, row := range m.last.Tasks {
		status := styleStatus(row.Status).Render(fmt.Sprintf("%8s", row.Status))
		name := runewidth.FillRight(truncate(row.Name, nameWidth), nameWidth)
		bot := fmt.Sprintf("%3.0f%% (%6.1f,%6.1f)", row.Energy*100, row.X, row.Y)
		fmt.Fprintf(&b, "  %s %s %-*s %s\n", status, name, botWidth, bot, truncate(row.Message, msgWidth))
	}

	b.WriteString("\n")
	if m.done {
		b.WriteString(m.prog.ViewAs(m.percent()))
	} else {
		b.WriteString(m.prog.View())
	}
	b.WriteString("\n")
	return b.String()
}

func (m *runModel) listenForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

var statusColors = map[sched.TaskStatus]lipgloss.Color{
	sched.TaskRunning: "6",
	sched.TaskDone:    "2",
	sched.TaskFailed:  "1",
	sched.TaskStopped: "3",
}

func styleStatus(status sched.TaskStatus) lipgloss.Style {
	c, ok := statusColors[status]
	if !ok {
		c = "7"
	}
	return lipgloss.NewStyle().Foreground(c)
}

// truncate cuts value to width display cells.
func truncate(value string, width int) string {
	switch {
	case width <= 0 || runewidth.StringWidth(value) <= width:
		return value
	case width <= 3:
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}
