package runner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hperssn/guessgame/internal/domain"
)

func TestCleanupOldSessions(t *testing.T) {
	m := NewSessionManager(Config{SessionTTL: time.Hour})
	defer m.Close()

	for _, id := range []string{"active", "done"} {
		_, err := m.CreateSession(id, 0)
		require.NoError(t, err)
	}
	for range domain.DefaultJobs() {
		m.NextQuestion("done")
	}

	assert.Equal(t, 0, m.cleanupOldSessions(time.Now()))

	removed := m.cleanupOldSessions(time.Now().Add(2 * time.Hour))
	assert.Equal(t, 1, removed)

	_, ok := m.GetSession("done")
	assert.False(t, ok)
	_, ok = m.GetSession("active")
	assert.True(t, ok)
}
