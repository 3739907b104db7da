package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/EdwardHuber/process-triage-dashboard/internal/core/domain"
	"github.com/EdwardHuber/process-triage-dashboard/internal/core/triage"
)

// pluginState tracks a row's lifecycle in the live view.
type pluginState int

const (
	statePending pluginState = iota
	stateRunning
	stateDone
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	runningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	footerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// Messages sent into the Bubble Tea program by the triage observer.

type pluginStartedMsg struct {
	index      int
	outputPath string
}

type pluginFinishedMsg struct {
	index  int
	record triage.RunRecord
}

type runDoneMsg struct {
	err error
}

type liveTickMsg time.Time

// programObserver forwards triage progress into the Bubble Tea program.
type programObserver struct {
	program *tea.Program
}

func (o programObserver) PluginStarted(index, total int, plugin domain.Plugin, outputPath string) {
	o.program.Send(pluginStartedMsg{index: index, outputPath: outputPath})
}

func (o programObserver) PluginFinished(index, total int, record triage.RunRecord) {
	o.program.Send(pluginFinishedMsg{index: index, record: record})
}

// liveRow is one plugin line in the progress table.
type liveRow struct {
	plugin    domain.Plugin
	state     pluginState
	startedAt time.Time
	record    triage.RunRecord
}

// liveModel holds the state for the Bubble Tea progress view.
type liveModel struct {
	imagePath string
	caseDir   string
	rows      []liveRow
	startedAt time.Time
	done      bool
	runErr    error
	aborted   bool
	cancel    context.CancelFunc
}

// newLiveModel creates the model with every plugin pending.
func newLiveModel(req triage.Request, cancel context.CancelFunc) liveModel {
	rows := make([]liveRow, 0, len(req.Plugins))
	for _, p := range req.Plugins {
		rows = append(rows, liveRow{plugin: p, state: statePending})
	}
	return liveModel{
		imagePath: req.ImagePath,
		caseDir:   req.CaseDir.Root(),
		rows:      rows,
		startedAt: time.Now(),
		cancel:    cancel,
	}
}

// Init implements the Bubble Tea init method.
func (m liveModel) Init() tea.Cmd {
	return liveTickCmd()
}

// Update implements the Bubble Tea update method.
func (m liveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			// Cancel the run; the in-flight child process is killed and
			// the runDoneMsg arrives once the service unwinds.
			m.aborted = true
			m.cancel()
			return m, nil
		}

	case pluginStartedMsg:
		if msg.index < len(m.rows) {
			m.rows[msg.index].state = stateRunning
			m.rows[msg.index].startedAt = time.Now()
		}
		return m, nil

	case pluginFinishedMsg:
		if msg.index < len(m.rows) {
			m.rows[msg.index].state = stateDone
			m.rows[msg.index].record = msg.record
		}
		return m, nil

	case runDoneMsg:
		m.done = true
		m.runErr = msg.err
		return m, tea.Quit

	case liveTickMsg:
		if m.done {
			return m, nil
		}
		return m, liveTickCmd()
	}

	return m, nil
}

// View implements the Bubble Tea view method.
func (m liveModel) View() string {
	header := titleStyle.Render("Memory Triage") +
		dimStyle.Render(fmt.Sprintf("  image=%s  case=%s", m.imagePath, m.caseDir))

	rows := make([]string, 0, len(m.rows)+2)
	rows = append(rows, header)

	for _, row := range m.rows {
		rows = append(rows, m.renderRow(row))
	}

	footer := footerStyle.Render("Controls: [q] Abort")
	if m.aborted {
		footer = failStyle.Render("Aborting, waiting for current plugin to die...")
	}
	rows = append(rows, footer)

	return lipgloss.JoinVertical(lipgloss.Left, rows...) + "\n"
}

// renderRow renders one plugin line with its status glyph and timing.
func (m liveModel) renderRow(row liveRow) string {
	name := fmt.Sprintf("%-24s", row.plugin.Name())

	switch row.state {
	case stateRunning:
		elapsed := time.Since(row.startedAt).Round(time.Second)
		return runningStyle.Render("▶ "+name) + dimStyle.Render(fmt.Sprintf(" running %s", elapsed))
	case stateDone:
		status := okStyle.Render("✓ " + name)
		if row.record.ExitCode != 0 {
			status = failStyle.Render("✗ " + name)
		}
		return status + dimStyle.Render(fmt.Sprintf(" %s exit=%d %s",
			row.record.Duration.Round(time.Millisecond),
			row.record.ExitCode,
			row.record.OutputPath,
		))
	default:
		return dimStyle.Render("· " + name)
	}
}

// liveTickCmd refreshes the elapsed-time display twice a second.
func liveTickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return liveTickMsg(t)
	})
}

// runLive executes the triage behind a Bubble Tea progress view. The run
// itself happens on a goroutine; the observer feeds its progress into the
// program as messages.
func runLive(ctx context.Context, out io.Writer, locator triage.ToolLocator, runner triage.PluginRunner, writer triage.ReportWriter, req triage.Request) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	program := tea.NewProgram(newLiveModel(req, cancel))

	errCh := make(chan error, 1)
	go func() {
		svc := triage.NewService(locator, runner, writer, programObserver{program: program}, zap.NewNop())
		_, err := svc.Run(runCtx, req)
		errCh <- err
		program.Send(runDoneMsg{err: err})
	}()

	if _, err := program.Run(); err != nil {
		cancel()
		<-errCh
		return fmt.Errorf("live view failed: %w", err)
	}

	if err := <-errCh; err != nil {
		return err
	}

	fmt.Fprintf(out, "Case saved to: %s\n", req.CaseDir.Root())
	return nil
}
