package domain

import "fmt"

const DefaultTimerSeconds = 60

// ExpiryPolicy decides what happens on the tick that brings the countdown to zero.
type ExpiryPolicy string

const (
	// ExpiryHold leaves the timer running at zero.
	ExpiryHold ExpiryPolicy = "hold"
	// ExpiryStop pauses the timer at zero.
	ExpiryStop ExpiryPolicy = "stop"
	// ExpiryAdvance pauses and resets the timer, then moves to the next question.
	ExpiryAdvance ExpiryPolicy = "advance"
)

func ParseExpiryPolicy(s string) (ExpiryPolicy, error) {
	switch p := ExpiryPolicy(s); p {
	case ExpiryHold, ExpiryStop, ExpiryAdvance:
		return p, nil
	case "":
		return ExpiryHold, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidExpiry, s)
	}
}

type TimerState struct {
	RemainingSeconds int  `json:"remainingSeconds"`
	Running          bool `json:"isRunning"`
}

// Countdown is a per-question timer advanced by an external clock.
type Countdown struct {
	duration  int
	remaining int
	running   bool
}

func NewCountdown(duration int) *Countdown {
	if duration <= 0 {
		duration = DefaultTimerSeconds
	}
	return &Countdown{
		duration:  duration,
		remaining: duration,
	}
}

func (c *Countdown) Start() {
	c.running = true
}

func (c *Countdown) Pause() {
	c.running = false
}

// Reset restores the full duration without touching the run state.
func (c *Countdown) Reset() {
	c.remaining = c.duration
}

// Tick advances one second of model time while running. It reports whether
// this tick is the one that reached zero.
func (c *Countdown) Tick() bool {
	if !c.running || c.remaining == 0 {
		return false
	}
	c.remaining--
	return c.remaining == 0
}

func (c *Countdown) Duration() int {
	return c.duration
}

func (c *Countdown) State() TimerState {
	return TimerState{
		RemainingSeconds: c.remaining,
		Running:          c.running,
	}
}
