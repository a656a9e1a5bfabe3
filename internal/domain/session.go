package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type SessionConfig struct {
	TimerSeconds int
	Expiry       ExpiryPolicy
}

// Session is one play-through over a catalog. It is not safe for concurrent
// use; the runner serialises access to it.
type Session struct {
	ID          string
	StartedAt   time.Time
	CompletedAt time.Time

	catalog    *Catalog
	currentIdx int
	completed  bool
	timer      *Countdown
	expiry     ExpiryPolicy
}

func NewSession(id string, seeds []JobSeed, cfg SessionConfig) (*Session, error) {
	if id == "" {
		id = uuid.New().String()
	}

	catalog, err := NewCatalog(seeds)
	if err != nil {
		return nil, err
	}

	expiry, err := ParseExpiryPolicy(string(cfg.Expiry))
	if err != nil {
		return nil, err
	}

	return &Session{
		ID:        id,
		StartedAt: time.Now(),
		catalog:   catalog,
		timer:     NewCountdown(cfg.TimerSeconds),
		expiry:    expiry,
	}, nil
}

func (s *Session) CurrentIndex() int {
	return s.currentIdx
}

func (s *Session) Completed() bool {
	return s.completed
}

func (s *Session) NextQuestion() {
	if s.completed {
		return
	}
	if s.currentIdx < s.catalog.Len()-1 {
		s.currentIdx++
		return
	}
	s.completed = true
	s.CompletedAt = time.Now()
}

// PreviousQuestion is ignored once the session is complete; only Restart
// leaves the results view.
func (s *Session) PreviousQuestion() {
	if s.completed || s.currentIdx == 0 {
		return
	}
	s.currentIdx--
}

// Vote, AddDescription and DeleteDescription ignore unknown job ids.

func (s *Session) Vote(jobID int, descriptionID string, dir Direction) bool {
	job, ok := s.catalog.Find(jobID)
	if !ok {
		return false
	}
	return job.Descriptions.Vote(descriptionID, dir)
}

// AddDescription rejects blank text or contributor with a *ValidationError.
// The reported bool is false when the job does not exist.
func (s *Session) AddDescription(jobID int, text, contributor string) (Description, bool, error) {
	if strings.TrimSpace(text) == "" {
		return Description{}, false, &ValidationError{Field: "text"}
	}
	if strings.TrimSpace(contributor) == "" {
		return Description{}, false, &ValidationError{Field: "contributor"}
	}

	job, ok := s.catalog.Find(jobID)
	if !ok {
		return Description{}, false, nil
	}

	d, err := job.Descriptions.Add(text, contributor)
	if err != nil {
		return Description{}, false, err
	}
	return d, true, nil
}

func (s *Session) DeleteDescription(jobID int, descriptionID string) bool {
	job, ok := s.catalog.Find(jobID)
	if !ok {
		return false
	}
	return job.Descriptions.Remove(descriptionID)
}

func (s *Session) StartTimer() {
	s.timer.Start()
}

func (s *Session) PauseTimer() {
	s.timer.Pause()
}

func (s *Session) ResetTimer() {
	s.timer.Reset()
}

// Tick advances the countdown by one second and applies the expiry policy
// when it reaches zero. It reports whether the countdown expired on this tick.
func (s *Session) Tick() bool {
	if !s.timer.Tick() {
		return false
	}

	switch s.expiry {
	case ExpiryStop:
		s.timer.Pause()
	case ExpiryAdvance:
		s.timer.Pause()
		s.timer.Reset()
		s.NextQuestion()
	}
	return true
}

// Restart returns to the first question with a stopped, full timer.
// Descriptions and votes from the previous play-through are kept.
func (s *Session) Restart() {
	s.currentIdx = 0
	s.completed = false
	s.CompletedAt = time.Time{}
	s.timer.Pause()
	s.timer.Reset()
}

func (s *Session) Timer() TimerState {
	return s.timer.State()
}

func (s *Session) Expiry() ExpiryPolicy {
	return s.expiry
}

func (s *Session) currentJob() *Job {
	job, err := s.catalog.At(s.currentIdx)
	if err != nil {
		panic(fmt.Sprintf("session %s: %v", s.ID, err))
	}
	return job
}

// Results lists every job with its title and ranked descriptions.
func (s *Session) Results() ([]JobResult, error) {
	if !s.completed {
		return nil, ErrNotComplete
	}
	return s.results(), nil
}

func (s *Session) results() []JobResult {
	results := make([]JobResult, 0, s.catalog.Len())
	for _, job := range s.catalog.jobs {
		results = append(results, JobResult{
			JobID:        job.ID,
			Title:        job.Title,
			Descriptions: rankedDescriptions(job),
		})
	}
	return results
}
