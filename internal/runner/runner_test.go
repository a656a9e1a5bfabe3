package runner_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hperssn/guessgame/internal/domain"
	"github.com/hperssn/guessgame/internal/runner"
)

func newSession(t *testing.T, cfg domain.SessionConfig) *domain.Session {
	t.Helper()
	s, err := domain.NewSession("runner-session", testJobs(), cfg)
	require.NoError(t, err)
	return s
}

func receive(t *testing.T, ch <-chan domain.Snapshot) domain.Snapshot {
	t.Helper()
	select {
	case snap, ok := <-ch:
		require.True(t, ok, "channel closed")
		return snap
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for snapshot")
		return domain.Snapshot{}
	}
}

func TestSessionRunner_SubscribePublishes(t *testing.T) {
	r := runner.NewSessionRunner(newSession(t, domain.SessionConfig{}))
	defer r.Stop()

	events, unsubscribe := r.Subscribe()
	defer unsubscribe()

	first := receive(t, events)
	assert.Equal(t, 0, first.CurrentIndex)

	r.Do((*domain.Session).NextQuestion)
	next := receive(t, events)
	assert.Equal(t, 1, next.CurrentIndex)
}

func TestSessionRunner_StopClosesSubscribers(t *testing.T) {
	r := runner.NewSessionRunner(newSession(t, domain.SessionConfig{}))

	events, unsubscribe := r.Subscribe()
	receive(t, events)

	r.Stop()
	_, ok := <-events
	assert.False(t, ok)

	// Unsubscribing after Stop must not panic on a closed channel.
	unsubscribe()

	late, _ := r.Subscribe()
	_, ok = <-late
	assert.False(t, ok)
}

func TestSessionRunner_TickReportsExpiry(t *testing.T) {
	r := runner.NewSessionRunner(newSession(t, domain.SessionConfig{TimerSeconds: 2, Expiry: domain.ExpiryStop}))
	defer r.Stop()

	r.Do((*domain.Session).StartTimer)

	_, expired := r.Tick()
	assert.False(t, expired)
	snap, expired := r.Tick()
	assert.True(t, expired)
	assert.Equal(t, domain.TimerState{RemainingSeconds: 0, Running: false}, snap.Timer)
}

func TestSessionRunner_StartTicksWhileRunning(t *testing.T) {
	r := runner.NewSessionRunner(newSession(t, domain.SessionConfig{TimerSeconds: 60}))
	defer r.Stop()

	r.Start(5 * time.Millisecond)
	r.Do((*domain.Session).StartTimer)

	assert.Eventually(t, func() bool {
		return r.Timer().RemainingSeconds <= 58
	}, time.Second, 5*time.Millisecond)

	r.Stop()
	time.Sleep(10 * time.Millisecond)
	stoppedAt := r.Timer().RemainingSeconds
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, stoppedAt, r.Timer().RemainingSeconds)
}
