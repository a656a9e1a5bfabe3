package runner

import (
	"context"
	"sync"
	"time"

	"github.com/hperssn/guessgame/internal/domain"
	"github.com/hperssn/guessgame/internal/metrics"
)

type sessionRunner struct {
	mu sync.Mutex

	session *domain.Session
	ctx     context.Context
	cancel  context.CancelFunc
	stopped bool

	subs    map[int]chan domain.Snapshot
	nextSub int

	onComplete func(domain.Snapshot)
}

func NewSessionRunner(s *domain.Session) *sessionRunner {
	ctx, cancel := context.WithCancel(context.Background())
	return &sessionRunner{
		session: s,
		ctx:     ctx,
		cancel:  cancel,
		subs:    make(map[int]chan domain.Snapshot),
	}
}

// Start drives Tick once per interval until Stop. A non-positive interval
// leaves ticking to the caller.
func (r *sessionRunner) Start(interval time.Duration) {
	if interval <= 0 {
		return
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if r.Timer().Running {
					r.Tick()
				}
			case <-r.ctx.Done():
				return
			}
		}
	}()
}

// Do runs fn with exclusive access to the session and publishes the
// resulting snapshot to subscribers.
func (r *sessionRunner) Do(fn func(s *domain.Session)) domain.Snapshot {
	r.mu.Lock()
	wasComplete := r.session.Completed()
	fn(r.session)
	snap := r.session.Snapshot()
	justCompleted := !wasComplete && r.session.Completed()
	r.publish(snap)
	onComplete := r.onComplete
	r.mu.Unlock()

	if justCompleted && onComplete != nil {
		onComplete(snap)
	}
	return snap
}

// Tick advances the countdown by one second and reports whether it expired.
func (r *sessionRunner) Tick() (domain.Snapshot, bool) {
	var (
		expired bool
		policy  domain.ExpiryPolicy
	)
	snap := r.Do(func(s *domain.Session) {
		expired = s.Tick()
		policy = s.Expiry()
	})
	if expired {
		metrics.RecordTimerExpired(string(policy))
	}
	return snap, expired
}

func (r *sessionRunner) Results() ([]domain.JobResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.session.Results()
}

func (r *sessionRunner) Snapshot() domain.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.session.Snapshot()
}

func (r *sessionRunner) Timer() domain.TimerState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.session.Timer()
}

func (r *sessionRunner) Completed() (bool, time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.session.Completed(), r.session.CompletedAt
}

// Subscribe returns a channel of snapshots, primed with the current one.
// Slow subscribers miss frames rather than block the session.
func (r *sessionRunner) Subscribe() (<-chan domain.Snapshot, func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ch := make(chan domain.Snapshot, 8)
	if r.stopped {
		close(ch)
		return ch, func() {}
	}

	id := r.nextSub
	r.nextSub++
	r.subs[id] = ch
	ch <- r.session.Snapshot()

	return ch, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		if sub, ok := r.subs[id]; ok {
			delete(r.subs, id)
			close(sub)
		}
	}
}

func (r *sessionRunner) Stop() {
	r.cancel()

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopped {
		return
	}
	r.stopped = true
	for id, ch := range r.subs {
		delete(r.subs, id)
		close(ch)
	}
}

func (r *sessionRunner) publish(snap domain.Snapshot) {
	for _, ch := range r.subs {
		select {
		case ch <- snap:
		default:
		}
	}
}
