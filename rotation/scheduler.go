package rotation

import (
	"errors"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// DefaultInterval is how long each section stays visible
const DefaultInterval = 8 * time.Second

// ErrOutOfRange is returned by Select for an index outside [0, N)
var ErrOutOfRange = errors.New("section index out of range")

// Scheduler cycles an index over N sections every interval. At most one
// timer is armed at a time; a generation counter invalidates callbacks
// that were already dispatched when the timer was replaced or stopped.
type Scheduler struct {
	clock    clockwork.Clock
	interval time.Duration
	n        int

	mu      sync.Mutex
	index   int
	running bool
	timer   clockwork.Timer
	gen     uint64

	onAdvance func(int)
}

// Option customizes a Scheduler
type Option func(*Scheduler)

// WithClock sets the time source (tests use a fake clock)
func WithClock(c clockwork.Clock) Option {
	return func(s *Scheduler) { s.clock = c }
}

// WithInterval sets the rotation interval; non-positive values are ignored
func WithInterval(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.interval = d
		}
	}
}

// OnAdvance registers a callback for timer-driven index changes. It runs
// on the timer goroutine after the scheduler lock is released.
func OnAdvance(fn func(index int)) Option {
	return func(s *Scheduler) { s.onAdvance = fn }
}

// New creates a stopped scheduler over n sections
func New(n int, opts ...Option) *Scheduler {
	s := &Scheduler{
		clock:    clockwork.NewRealClock(),
		interval: DefaultInterval,
		n:        max(0, n),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start arms the timer. It is a no-op while running or when there are no
// sections.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running || s.n == 0 {
		return
	}
	s.running = true
	s.armLocked()
}

// Stop disarms the timer. No tick is delivered after Stop returns.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

// Reset stops the scheduler and rewinds to the first section
func (s *Scheduler) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
	s.index = 0
}

// Select jumps to section k. When running, the next tick is one full
// interval after this call.
func (s *Scheduler) Select(k int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if k < 0 || k >= s.n {
		return ErrOutOfRange
	}
	s.index = k
	if s.running {
		s.disarmLocked()
		s.armLocked()
	}
	return nil
}

// Index returns the current section index
func (s *Scheduler) Index() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index
}

// Running reports whether the timer is armed
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Len returns the number of sections
func (s *Scheduler) Len() int { return s.n }

// Interval returns the rotation interval
func (s *Scheduler) Interval() time.Duration { return s.interval }

func (s *Scheduler) armLocked() {
	s.gen++
	gen := s.gen
	s.timer = s.clock.AfterFunc(s.interval, func() { s.fire(gen) })
}

func (s *Scheduler) disarmLocked() {
	s.gen++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *Scheduler) stopLocked() {
	s.running = false
	s.disarmLocked()
}

func (s *Scheduler) fire(gen uint64) {
	s.mu.Lock()
	if !s.running || gen != s.gen {
		s.mu.Unlock()
		return
	}
	s.index = (s.index + 1) % s.n
	index := s.index
	// re-arm before notifying so observers always see a pending timer
	s.armLocked()
	cb := s.onAdvance
	s.mu.Unlock()

	if cb != nil {
		cb(index)
	}
}
