package runner

import (
	"context"
	"errors"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/hperssn/guessgame/internal/domain"
	"github.com/hperssn/guessgame/internal/metrics"
	"github.com/hperssn/guessgame/internal/storage"
)

var (
	ErrSessionExists   = errors.New("session already exists")
	ErrSessionNotFound = errors.New("session not found")
)

// ResultsSaver receives the results of every completed play-through.
type ResultsSaver interface {
	SaveResults(ctx context.Context, record *storage.ResultsRecord) error
}

type Config struct {
	Session domain.SessionConfig
	// Jobs builds the catalog for each new session. Defaults to domain.DefaultJobs.
	Jobs            func() []domain.JobSeed
	TickInterval    time.Duration
	SessionTTL      time.Duration
	CleanupInterval time.Duration
	ArchiveTimeout  time.Duration
}

type Option func(*SessionManager)

func WithResultsSaver(saver ResultsSaver) Option {
	return func(m *SessionManager) {
		m.saver = saver
	}
}

type SessionManager struct {
	mu       sync.Mutex
	sessions map[string]*sessionRunner

	cfg    Config
	saver  ResultsSaver
	cancel context.CancelFunc
}

func NewSessionManager(cfg Config, opts ...Option) *SessionManager {
	if cfg.Jobs == nil {
		cfg.Jobs = domain.DefaultJobs
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = time.Hour
	}
	if cfg.ArchiveTimeout <= 0 {
		cfg.ArchiveTimeout = 5 * time.Second
	}

	ctx, cancel := context.WithCancel(context.Background())
	m := &SessionManager{
		sessions: make(map[string]*sessionRunner),
		cfg:      cfg,
		cancel:   cancel,
	}
	for _, opt := range opts {
		opt(m)
	}

	if cfg.CleanupInterval > 0 {
		go m.cleanupLoop(ctx, cfg.CleanupInterval)
	}

	return m
}

func (m *SessionManager) cleanupLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.cleanupOldSessions(time.Now())
		case <-ctx.Done():
			return
		}
	}
}

func (m *SessionManager) cleanupOldSessions(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := now.Add(-m.cfg.SessionTTL)
	removed := 0

	for id, runner := range m.sessions {
		completed, at := runner.Completed()
		if completed && at.Before(cutoff) {
			runner.Stop()
			delete(m.sessions, id)
			metrics.SessionStopped()
			removed++
		}
	}
	if removed > 0 {
		log.WithField("removed", removed).Info("cleaned up completed sessions")
	}
	return removed
}

// CreateSession seeds a new session from the configured catalog. A zero
// timerSeconds uses the configured duration.
func (m *SessionManager) CreateSession(id string, timerSeconds int) (domain.Snapshot, error) {
	cfg := m.cfg.Session
	if timerSeconds > 0 {
		cfg.TimerSeconds = timerSeconds
	}

	s, err := domain.NewSession(id, m.cfg.Jobs(), cfg)
	if err != nil {
		return domain.Snapshot{}, err
	}
	snap := s.Snapshot()
	if err := m.StartSession(s); err != nil {
		return domain.Snapshot{}, err
	}
	return snap, nil
}

func (m *SessionManager) StartSession(s *domain.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sessions[s.ID]; exists {
		return ErrSessionExists
	}

	r := NewSessionRunner(s)
	r.onComplete = m.archive
	r.Start(m.cfg.TickInterval)
	m.sessions[s.ID] = r
	metrics.SessionStarted()

	log.WithFields(log.Fields{
		"session": s.ID,
		"timer":   s.Timer().RemainingSeconds,
		"expiry":  s.Expiry(),
	}).Info("session started")

	return nil
}

func (m *SessionManager) StopSession(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, exists := m.sessions[id]
	if !exists {
		return ErrSessionNotFound
	}

	r.Stop()
	delete(m.sessions, id)
	metrics.SessionStopped()
	log.WithField("session", id).Info("session stopped")
	return nil
}

func (m *SessionManager) GetSession(id string) (domain.Snapshot, bool) {
	r, err := m.runner(id)
	if err != nil {
		return domain.Snapshot{}, false
	}
	return r.Snapshot(), true
}

func (m *SessionManager) Subscribe(id string) (<-chan domain.Snapshot, func(), error) {
	r, err := m.runner(id)
	if err != nil {
		return nil, nil, err
	}
	ch, cancel := r.Subscribe()
	return ch, cancel, nil
}

func (m *SessionManager) NextQuestion(id string) (domain.Snapshot, error) {
	return m.do(id, (*domain.Session).NextQuestion)
}

func (m *SessionManager) PreviousQuestion(id string) (domain.Snapshot, error) {
	return m.do(id, (*domain.Session).PreviousQuestion)
}

func (m *SessionManager) Restart(id string) (domain.Snapshot, error) {
	return m.do(id, (*domain.Session).Restart)
}

func (m *SessionManager) StartTimer(id string) (domain.Snapshot, error) {
	return m.do(id, (*domain.Session).StartTimer)
}

func (m *SessionManager) PauseTimer(id string) (domain.Snapshot, error) {
	return m.do(id, (*domain.Session).PauseTimer)
}

func (m *SessionManager) ResetTimer(id string) (domain.Snapshot, error) {
	return m.do(id, (*domain.Session).ResetTimer)
}

func (m *SessionManager) Tick(id string) (domain.Snapshot, error) {
	r, err := m.runner(id)
	if err != nil {
		return domain.Snapshot{}, err
	}
	snap, _ := r.Tick()
	return snap, nil
}

func (m *SessionManager) Vote(id string, jobID int, descriptionID string, dir domain.Direction) (domain.Snapshot, error) {
	return m.do(id, func(s *domain.Session) {
		if s.Vote(jobID, descriptionID, dir) {
			metrics.RecordVote(string(dir))
		}
	})
}

func (m *SessionManager) AddDescription(id string, jobID int, text, contributor string) (domain.Description, bool, error) {
	r, err := m.runner(id)
	if err != nil {
		return domain.Description{}, false, err
	}

	var (
		desc   domain.Description
		added  bool
		addErr error
	)
	r.Do(func(s *domain.Session) {
		desc, added, addErr = s.AddDescription(jobID, text, contributor)
	})

	switch {
	case addErr != nil:
		metrics.RecordDescriptionRejected()
	case added:
		metrics.RecordDescriptionAdded()
		log.WithFields(log.Fields{
			"session":     id,
			"job":         jobID,
			"description": desc.ID,
		}).Debug("description added")
	}
	return desc, added, addErr
}

func (m *SessionManager) DeleteDescription(id string, jobID int, descriptionID string) (domain.Snapshot, error) {
	return m.do(id, func(s *domain.Session) {
		if s.DeleteDescription(jobID, descriptionID) {
			metrics.RecordDescriptionRemoved()
		}
	})
}

func (m *SessionManager) Results(id string) ([]domain.JobResult, error) {
	r, err := m.runner(id)
	if err != nil {
		return nil, err
	}

	return r.Results()
}

// Close stops the cleanup loop and every session.
func (m *SessionManager) Close() {
	m.cancel()

	m.mu.Lock()
	defer m.mu.Unlock()
	for id, r := range m.sessions {
		r.Stop()
		delete(m.sessions, id)
		metrics.SessionStopped()
	}
}

func (m *SessionManager) runner(id string) (*sessionRunner, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, exists := m.sessions[id]
	if !exists {
		return nil, ErrSessionNotFound
	}
	return r, nil
}

func (m *SessionManager) do(id string, fn func(*domain.Session)) (domain.Snapshot, error) {
	r, err := m.runner(id)
	if err != nil {
		return domain.Snapshot{}, err
	}
	return r.Do(fn), nil
}

func (m *SessionManager) archive(snap domain.Snapshot) {
	metrics.SessionCompleted()
	logger := log.WithField("session", snap.SessionID)
	logger.Info("session complete")

	if m.saver == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), m.cfg.ArchiveTimeout)
	defer cancel()

	record := storage.FromSnapshot(snap, time.Now())
	if err := m.saver.SaveResults(ctx, record); err != nil {
		metrics.RecordArchiveFailure()
		logger.WithError(err).Error("failed to archive results")
		return
	}
	logger.WithField("record", record.ID).Debug("results archived")
}
