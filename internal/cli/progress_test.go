package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/gitmaster/pkg/analysis"
	"github.com/matzehuels/gitmaster/pkg/observability"
)

func TestProgressModel(t *testing.T) {
	var m tea.Model = newProgressModel("Analyzing octo/app")

	m, _ = m.Update(stageEventMsg{stage: observability.StageFetch, started: true})
	if got := m.(progressModel).rows[0].status; got != stageRunning {
		t.Fatalf("fetch status = %v, want running", got)
	}

	m, _ = m.Update(stageEventMsg{stage: observability.StageFetch, elapsed: 1500 * time.Millisecond})
	m, _ = m.Update(stageEventMsg{stage: observability.StageCache, err: errors.New("miss")})
	pm := m.(progressModel)
	if pm.rows[0].status != stageDone || pm.rows[1].status != stageFailed {
		t.Errorf("statuses = %v, %v, want done, failed", pm.rows[0].status, pm.rows[1].status)
	}

	view := m.View()
	for _, want := range []string{"Analyzing octo/app", "Fetch repository", "1.5s", "Save result"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q:\n%s", want, view)
		}
	}

	m, cmd := m.Update(analysisDoneMsg{})
	if !m.(progressModel).done || cmd == nil {
		t.Error("analysisDoneMsg should finish the model and quit")
	}
}

type recordingHooks struct {
	observability.NoopAnalysisHooks
	started []observability.Stage
}

func (r *recordingHooks) OnStageStart(_ context.Context, s observability.Stage) {
	r.started = append(r.started, s)
}

func TestProgressHooksForward(t *testing.T) {
	next := &recordingHooks{}
	var sent []tea.Msg
	h := &progressHooks{send: func(m tea.Msg) { sent = append(sent, m) }, next: next}

	ctx := context.Background()
	h.OnStageStart(ctx, observability.StageAnalyze)
	h.OnStageComplete(ctx, observability.StageAnalyze, nil, time.Millisecond)

	if len(next.started) != 1 || next.started[0] != observability.StageAnalyze {
		t.Errorf("next hooks got %v", next.started)
	}
	if len(sent) != 2 {
		t.Fatalf("sent %d messages, want 2", len(sent))
	}
	if ev := sent[0].(stageEventMsg); !ev.started || ev.stage != observability.StageAnalyze {
		t.Errorf("first message = %+v", ev)
	}
}

func TestRunWithProgress_Quiet(t *testing.T) {
	var logs bytes.Buffer
	c := New(&logs, LogError)

	want := &analysis.Result{Summary: "done"}
	got, err := c.runWithProgress(context.Background(), "quiet", func(context.Context) (*analysis.Result, error) {
		return want, nil
	})
	if err != nil || got != want {
		t.Errorf("runWithProgress() = %v, %v", got, err)
	}
}

func TestStageLogger(t *testing.T) {
	var logs bytes.Buffer
	l := newStageLogger(newLogger(&logs, LogDebug))
	ctx := context.Background()

	l.OnStageComplete(ctx, observability.StageFetch, nil, 12*time.Millisecond)
	l.OnFetchComplete(ctx, "octo/app", 42, nil)
	l.OnCacheHit(ctx, "analysis:0123456789abcdef0123456789abcdef")

	out := logs.String()
	for _, want := range []string{"stage done", "stage=fetch", "entries=42", "cache hit", "…"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}
