package runner_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hperssn/guessgame/internal/domain"
	"github.com/hperssn/guessgame/internal/runner"
	"github.com/hperssn/guessgame/internal/storage"
)

type fakeSaver struct {
	mu      sync.Mutex
	records []*storage.ResultsRecord
	err     error
}

func (f *fakeSaver) SaveResults(_ context.Context, record *storage.ResultsRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.records = append(f.records, record)
	return nil
}

func (f *fakeSaver) saved() []*storage.ResultsRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*storage.ResultsRecord(nil), f.records...)
}

func testJobs() []domain.JobSeed {
	return []domain.JobSeed{
		{ID: 1, Title: "Baker", Descriptions: []domain.Description{
			{ID: "a", Text: "Makes bread", Contributor: "Alex", Votes: 5},
			{ID: "b", Text: "Up before dawn", Contributor: "Jamie", Votes: 10},
		}},
		{ID: 2, Title: "Pilot"},
	}
}

func newManager(t *testing.T, opts ...runner.Option) *runner.SessionManager {
	t.Helper()
	m := runner.NewSessionManager(runner.Config{
		Session: domain.SessionConfig{TimerSeconds: 60},
		Jobs:    testJobs,
	}, opts...)
	t.Cleanup(m.Close)
	return m
}

func TestSessionManager_CreateAndGet(t *testing.T) {
	m := newManager(t)

	snap, err := m.CreateSession("session-1", 0)
	require.NoError(t, err)
	assert.Equal(t, "session-1", snap.SessionID)
	assert.Equal(t, 60, snap.Timer.RemainingSeconds)

	got, ok := m.GetSession("session-1")
	require.True(t, ok)
	assert.Equal(t, 2, got.TotalJobs)
}

func TestSessionManager_CreateGeneratesID(t *testing.T) {
	m := newManager(t)

	snap, err := m.CreateSession("", 30)
	require.NoError(t, err)
	assert.NotEmpty(t, snap.SessionID)
	assert.Equal(t, 30, snap.Timer.RemainingSeconds)
}

func TestSessionManager_DuplicateStart(t *testing.T) {
	m := newManager(t)

	_, err := m.CreateSession("session-dup", 0)
	require.NoError(t, err)

	_, err = m.CreateSession("session-dup", 0)
	assert.ErrorIs(t, err, runner.ErrSessionExists)
}

func TestSessionManager_Stop(t *testing.T) {
	m := newManager(t)

	_, err := m.CreateSession("session-stop", 0)
	require.NoError(t, err)
	require.NoError(t, m.StopSession("session-stop"))

	_, ok := m.GetSession("session-stop")
	assert.False(t, ok)
	assert.ErrorIs(t, m.StopSession("session-stop"), runner.ErrSessionNotFound)
}

func TestSessionManager_UnknownSession(t *testing.T) {
	m := newManager(t)

	_, err := m.NextQuestion("missing")
	assert.ErrorIs(t, err, runner.ErrSessionNotFound)
	_, _, err = m.AddDescription("missing", 1, "t", "c")
	assert.ErrorIs(t, err, runner.ErrSessionNotFound)
	_, _, err = m.Subscribe("missing")
	assert.ErrorIs(t, err, runner.ErrSessionNotFound)
	_, err = m.Results("missing")
	assert.ErrorIs(t, err, runner.ErrSessionNotFound)
}

func TestSessionManager_PlayThrough(t *testing.T) {
	saver := &fakeSaver{}
	m := newManager(t, runner.WithResultsSaver(saver))

	_, err := m.CreateSession("s", 0)
	require.NoError(t, err)

	for range 3 {
		_, err = m.Vote("s", 1, "a", domain.Up)
		require.NoError(t, err)
	}
	snap, err := m.Vote("s", 1, "missing", domain.Down)
	require.NoError(t, err)
	require.Len(t, snap.Current.Descriptions, 2)
	assert.Equal(t, "b", snap.Current.Descriptions[0].ID)
	assert.Equal(t, 8, snap.Current.Descriptions[1].Votes)

	desc, added, err := m.AddDescription("s", 1, "Smells of flour", "Sam")
	require.NoError(t, err)
	require.True(t, added)

	_, added, err = m.AddDescription("s", 1, "  ", "Sam")
	assert.ErrorIs(t, err, domain.ErrInvalidDescription)
	assert.False(t, added)

	snap, err = m.DeleteDescription("s", 1, "b")
	require.NoError(t, err)
	assert.Len(t, snap.Current.Descriptions, 2)

	_, err = m.Results("s")
	assert.ErrorIs(t, err, domain.ErrNotComplete)

	_, err = m.NextQuestion("s")
	require.NoError(t, err)
	snap, err = m.NextQuestion("s")
	require.NoError(t, err)
	assert.True(t, snap.Complete)
	assert.Equal(t, 1, snap.CurrentIndex)

	results, err := m.Results("s")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "Baker", results[0].Title)
	assert.Equal(t, []string{"a", desc.ID}, []string{results[0].Descriptions[0].ID, results[0].Descriptions[1].ID})

	_, err = m.NextQuestion("s")
	require.NoError(t, err)
	require.Len(t, saver.saved(), 1, "completion archives exactly once")
	assert.Equal(t, "s", saver.saved()[0].SessionID)

	snap, err = m.Restart("s")
	require.NoError(t, err)
	assert.False(t, snap.Complete)
	assert.Equal(t, 0, snap.CurrentIndex)
	assert.Len(t, snap.Current.Descriptions, 2, "restart keeps description edits")

	m.NextQuestion("s")
	m.NextQuestion("s")
	assert.Len(t, saver.saved(), 2)
}

func TestSessionManager_ArchiveFailureDoesNotBlockCompletion(t *testing.T) {
	m := newManager(t, runner.WithResultsSaver(&fakeSaver{err: errors.New("disk full")}))

	_, err := m.CreateSession("s", 0)
	require.NoError(t, err)
	m.NextQuestion("s")
	snap, err := m.NextQuestion("s")
	require.NoError(t, err)
	assert.True(t, snap.Complete)
}

func TestSessionManager_Timer(t *testing.T) {
	m := newManager(t)

	_, err := m.CreateSession("s", 0)
	require.NoError(t, err)

	_, err = m.StartTimer("s")
	require.NoError(t, err)
	for range 5 {
		_, err = m.Tick("s")
		require.NoError(t, err)
	}
	snap, _ := m.GetSession("s")
	assert.Equal(t, domain.TimerState{RemainingSeconds: 55, Running: true}, snap.Timer)

	m.PauseTimer("s")
	for range 5 {
		m.Tick("s")
	}
	snap, _ = m.GetSession("s")
	assert.Equal(t, domain.TimerState{RemainingSeconds: 55, Running: false}, snap.Timer)

	snap, err = m.ResetTimer("s")
	require.NoError(t, err)
	assert.Equal(t, 60, snap.Timer.RemainingSeconds)
}

func TestSessionManager_TickLoop(t *testing.T) {
	m := runner.NewSessionManager(runner.Config{
		Session:      domain.SessionConfig{TimerSeconds: 60},
		Jobs:         testJobs,
		TickInterval: 5 * time.Millisecond,
	})
	t.Cleanup(m.Close)

	_, err := m.CreateSession("s", 0)
	require.NoError(t, err)

	time.Sleep(30 * time.Millisecond)
	snap, _ := m.GetSession("s")
	assert.Equal(t, 60, snap.Timer.RemainingSeconds, "stopped timer must not move")

	m.StartTimer("s")
	assert.Eventually(t, func() bool {
		snap, _ := m.GetSession("s")
		return snap.Timer.RemainingSeconds < 60
	}, time.Second, 5*time.Millisecond)
}

func TestSessionManager_PreviousQuestion(t *testing.T) {
	m := newManager(t)
	_, err := m.CreateSession("s", 0)
	require.NoError(t, err)

	snap, err := m.PreviousQuestion("s")
	require.NoError(t, err)
	assert.Equal(t, 0, snap.CurrentIndex)

	m.NextQuestion("s")
	snap, err = m.PreviousQuestion("s")
	require.NoError(t, err)
	assert.Equal(t, 0, snap.CurrentIndex)
}
