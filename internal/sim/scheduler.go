package sim

import (
	"sync"
	"time"
)

// Scheduler hands out one frame per Request, like a display's frame callback.
// Cancel drops whatever is pending and is final: a cancelled channel never
// fires, and later requests return a nil channel.
type Scheduler interface {
	Request() <-chan time.Time
	Cancel()
}

// TimerScheduler paces frames at a fixed interval.
type TimerScheduler struct {
	mu       sync.Mutex
	interval time.Duration
	timer    *time.Timer
	stopped  bool
}

func NewTimerScheduler(fps int) *TimerScheduler {
	if fps <= 0 {
		fps = 60
	}
	return &TimerScheduler{interval: time.Second / time.Duration(fps)}
}

func (s *TimerScheduler) Request() <-chan time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return nil
	}
	if s.timer == nil {
		s.timer = time.NewTimer(s.interval)
	} else {
		s.timer.Reset(s.interval)
	}
	return s.timer.C
}

func (s *TimerScheduler) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	if s.timer != nil {
		s.timer.Stop()
	}
}
