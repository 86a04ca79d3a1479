package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rapihcli/internal/analyze"
	"rapihcli/internal/cleanse"
	"rapihcli/pkg/contracts/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestManager(notifier Notifier) *Manager {
	return NewManager(testLogger(),
		analyze.New(testLogger(), analyze.DefaultConfig()),
		cleanse.New(testLogger()),
		notifier)
}

type staticSource struct {
	table *domain.Table
	err   error
}

func (s staticSource) Parse(ctx context.Context) (*domain.Table, error) {
	return s.table, s.err
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []ProgressEvent
}

func (n *recordingNotifier) NotifyProgress(event ProgressEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

type staticRenderer struct {
	path string
	err  error
}

func (r staticRenderer) Render(ctx context.Context, table *domain.Table, analysis *domain.AnalysisResult) (string, error) {
	return r.path, r.err
}

func sampleTable() *domain.Table {
	return domain.NewTable(
		[]string{"Nama", "Email"},
		[][]string{
			{"  Budi Santoso", "budi@example.com"},
			{"Ani Wijaya", "Ani@Example.com"},
		}, 2)
}

func TestRunSuccess(t *testing.T) {
	m := newTestManager(nil)
	result := m.Run(context.Background(), Request{
		Source: staticSource{table: sampleTable()},
		Mode:   domain.ModeAuto,
	})

	require.True(t, result.Success)
	assert.Empty(t, result.Stage)
	require.NotNil(t, result.Analysis)
	require.NotNil(t, result.Clean)
	assert.Equal(t, 2, result.Clean.Stats.CleanedRowCount)
	assert.Equal(t, "Budi Santoso", result.Clean.Table.Rows[0].Cells["Nama"])
	assert.Equal(t, "ani@example.com", result.Clean.Table.Rows[1].Cells["Email"])
}

func TestRunParseFailureAttributed(t *testing.T) {
	m := newTestManager(nil)
	result := m.Run(context.Background(), Request{
		Source: staticSource{err: errors.New("corrupt file")},
	})

	require.False(t, result.Success)
	assert.Equal(t, StageIDParse, result.Stage)
	assert.Contains(t, result.Error, "corrupt file")
	assert.Nil(t, result.Analysis)
	assert.Nil(t, result.Clean)
}

func TestRunEmptyTableFailsParse(t *testing.T) {
	m := newTestManager(nil)
	result := m.Run(context.Background(), Request{
		Source: staticSource{table: &domain.Table{}},
	})

	require.False(t, result.Success)
	assert.Equal(t, StageIDParse, result.Stage)
}

func TestRunRenderFailureAttributed(t *testing.T) {
	m := newTestManager(nil)
	result := m.Run(context.Background(), Request{
		Source:   staticSource{table: sampleTable()},
		Renderer: staticRenderer{err: errors.New("disk full")},
	})

	require.False(t, result.Success)
	assert.Equal(t, StageIDFormat, result.Stage)
	// Earlier stage artifacts survive the failure.
	assert.NotNil(t, result.Analysis)
	assert.NotNil(t, result.Clean)
}

func TestRunTimingsInStageOrder(t *testing.T) {
	m := newTestManager(nil)
	result := m.Run(context.Background(), Request{
		Source: staticSource{table: sampleTable()},
	})

	require.True(t, result.Success)
	var stages []string
	for _, timing := range result.Timings {
		stages = append(stages, timing.Stage)
	}
	assert.Equal(t, []string{StageIDParse, StageIDAnalyze, StageIDClean, StageIDFormat, StageIDReport}, stages)
}

func TestRunNotifiesProgress(t *testing.T) {
	notifier := &recordingNotifier{}
	m := newTestManager(notifier)
	result := m.Run(context.Background(), Request{
		Source: staticSource{table: sampleTable()},
	})

	require.True(t, result.Success)
	// Every stage emits a start event and a finish event.
	assert.Len(t, notifier.events, 10)
	assert.Equal(t, StageIDParse, notifier.events[0].StageID)
	assert.Equal(t, StepStatusActive, notifier.events[0].Status)
	assert.Equal(t, StageIDReport, notifier.events[9].StageID)
	assert.Equal(t, StepStatusCompleted, notifier.events[9].Status)
	for _, event := range notifier.events {
		assert.NotEmpty(t, event.RunID)
	}
	assert.Equal(t, domain.ModeAuto, result.Analysis.Mode)
}

func TestRunCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := newTestManager(nil)
	result := m.Run(ctx, Request{Source: staticSource{table: sampleTable()}})

	require.False(t, result.Success)
	assert.Equal(t, StageIDParse, result.Stage)
}
