package domain

import (
	"errors"
	"testing"
)

func TestCountdownStartTickPause(t *testing.T) {
	c := NewCountdown(60)
	if st := c.State(); st.RemainingSeconds != 60 || st.Running {
		t.Fatalf("initial state = %+v", st)
	}

	c.Start()
	for range 5 {
		c.Tick()
	}
	if st := c.State(); st.RemainingSeconds != 55 || !st.Running {
		t.Fatalf("after 5 ticks = %+v, want 55 running", st)
	}

	c.Pause()
	for range 5 {
		c.Tick()
	}
	if st := c.State(); st.RemainingSeconds != 55 || st.Running {
		t.Fatalf("after pause = %+v, want 55 stopped", st)
	}
}

func TestCountdownFloorsAtZero(t *testing.T) {
	c := NewCountdown(2)
	c.Start()

	if c.Tick() {
		t.Fatalf("first tick reported expiry")
	}
	if !c.Tick() {
		t.Fatalf("second tick should reach zero")
	}
	if c.Tick() {
		t.Fatalf("tick at zero reported expiry again")
	}
	if st := c.State(); st.RemainingSeconds != 0 || !st.Running {
		t.Fatalf("state = %+v, want 0 running", st)
	}
}

func TestCountdownResetKeepsRunState(t *testing.T) {
	c := NewCountdown(10)
	c.Start()
	c.Tick()
	c.Reset()
	if st := c.State(); st.RemainingSeconds != 10 || !st.Running {
		t.Fatalf("state = %+v, want 10 running", st)
	}

	c.Pause()
	c.Start()
	c.Start()
	if !c.State().Running {
		t.Fatalf("double start should stay running")
	}
}

func TestNewCountdownDefault(t *testing.T) {
	if got := NewCountdown(0).Duration(); got != DefaultTimerSeconds {
		t.Fatalf("duration = %d, want %d", got, DefaultTimerSeconds)
	}
}

func TestParseExpiryPolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    ExpiryPolicy
		wantErr bool
	}{
		{in: "", want: ExpiryHold},
		{in: "hold", want: ExpiryHold},
		{in: "stop", want: ExpiryStop},
		{in: "advance", want: ExpiryAdvance},
		{in: "explode", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseExpiryPolicy(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidExpiry) {
					t.Fatalf("expected ErrInvalidExpiry, got %v", err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Fatalf("ParseExpiryPolicy(%q) = %q, %v want %q", tt.in, got, err, tt.want)
			}
		})
	}
}
