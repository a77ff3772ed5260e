package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/matzehuels/gitmaster/pkg/analysis"
	"github.com/matzehuels/gitmaster/pkg/observability"
)

// =============================================================================
// Progress Model - live stage view for terminals
// =============================================================================

type stageStatus int

const (
	stagePending stageStatus = iota
	stageRunning
	stageDone
	stageFailed
)

type stageRow struct {
	stage   observability.Stage
	label   string
	status  stageStatus
	elapsed time.Duration
}

// stageEventMsg reports a stage transition from the analysis goroutine.
type stageEventMsg struct {
	stage   observability.Stage
	started bool
	err     error
	elapsed time.Duration
}

// analysisDoneMsg ends the program.
type analysisDoneMsg struct {
	err error
}

type progressModel struct {
	title   string
	spinner spinner.Model
	rows    []stageRow
	done    bool
	err     error
}

func newProgressModel(title string) progressModel {
	return progressModel{
		title: title,
		spinner: spinner.New(
			spinner.WithSpinner(spinner.MiniDot),
			spinner.WithStyle(styleIconSpinner),
		),
		rows: []stageRow{
			{stage: observability.StageFetch, label: "Fetch repository"},
			{stage: observability.StageCache, label: "Check cache"},
			{stage: observability.StageAnalyze, label: "Analyze"},
			{stage: observability.StageStore, label: "Save result"},
		},
	}
}

func (m progressModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case stageEventMsg:
		for i := range m.rows {
			if m.rows[i].stage != msg.stage {
				continue
			}
			switch {
			case msg.started:
				m.rows[i].status = stageRunning
			case msg.err != nil:
				m.rows[i].status = stageFailed
			default:
				m.rows[i].status = stageDone
			}
			m.rows[i].elapsed = msg.elapsed
		}
		return m, nil
	case analysisDoneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m progressModel) View() string {
	var b strings.Builder
	b.WriteString(StyleTitle.Render(m.title))
	b.WriteString("\n")
	for _, r := range m.rows {
		var icon string
		switch r.status {
		case stageRunning:
			icon = m.spinner.View()
		case stageDone:
			icon = styleIconSuccess.Render(iconSuccess)
		case stageFailed:
			icon = styleIconError.Render(iconError)
		default:
			icon = StyleDim.Render(iconMissing)
		}
		line := fmt.Sprintf("  %s %s", icon, r.label)
		if r.status == stageDone || r.status == stageFailed {
			line += " " + StyleDim.Render(r.elapsed.Round(time.Millisecond).String())
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

// progressHooks forwards stage events to a running program and to next.
type progressHooks struct {
	send func(tea.Msg)
	next observability.AnalysisHooks
}

func (h *progressHooks) OnStageStart(ctx context.Context, stage observability.Stage) {
	h.next.OnStageStart(ctx, stage)
	h.send(stageEventMsg{stage: stage, started: true})
}

func (h *progressHooks) OnStageComplete(ctx context.Context, stage observability.Stage, err error, d time.Duration) {
	h.next.OnStageComplete(ctx, stage, err, d)
	h.send(stageEventMsg{stage: stage, err: err, elapsed: d})
}

// =============================================================================
// Runner Integration
// =============================================================================

type analyzeFunc func(ctx context.Context) (*analysis.Result, error)

// runWithProgress runs fn behind a progress display. Terminals get the
// bubbletea stage view, other outputs a plain spinner. Debug and quiet
// modes show no display at all.
func (c *CLI) runWithProgress(ctx context.Context, title string, fn analyzeFunc) (*analysis.Result, error) {
	level := c.Logger.GetLevel()
	switch {
	case level <= LogDebug || level >= LogError:
		return fn(ctx)
	case isTerminal(os.Stderr):
		return c.runInteractive(ctx, title, fn)
	default:
		s := newSpinnerWithContext(ctx, os.Stderr, title)
		s.Start()
		defer s.Stop()
		return fn(ctx)
	}
}

func (c *CLI) runInteractive(ctx context.Context, title string, fn analyzeFunc) (*analysis.Result, error) {
	p := tea.NewProgram(newProgressModel(title),
		tea.WithOutput(os.Stderr),
		tea.WithInput(nil),
		tea.WithContext(ctx),
	)

	prev := observability.Analysis()
	observability.SetAnalysisHooks(&progressHooks{send: p.Send, next: prev})
	defer observability.SetAnalysisHooks(prev)

	type outcome struct {
		res *analysis.Result
		err error
	}
	ch := make(chan outcome, 1)
	go func() {
		res, err := fn(ctx)
		ch <- outcome{res, err}
		p.Send(analysisDoneMsg{err: err})
	}()

	if _, err := p.Run(); err != nil {
		c.Logger.Debug("progress view stopped", "error", err)
	}
	out := <-ch
	return out.res, out.err
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
