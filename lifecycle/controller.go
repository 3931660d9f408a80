package lifecycle

import (
	"context"
	"errors"
	"sync"

	"devfeed/client"
	"devfeed/feeds"
	"devfeed/rotation"
	"devfeed/types"

	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -destination mock_fetcher_test.go -package lifecycle devfeed/lifecycle Fetcher

// Fetcher retrieves one raw aggregation payload
type Fetcher interface {
	FetchBundle(ctx context.Context) (types.RawBundle, error)
}

// ErrNotReady is returned by Select outside the Ready phase
var ErrNotReady = errors.New("no feed bundle loaded")

// Controller owns the fetch lifecycle and the section rotation. State
// changes are serialized by mu; the generation counter lets a fetch that
// outlives its mount detect that it has been superseded.
type Controller struct {
	fetcher Fetcher
	rot     *rotation.Scheduler
	logger  *log.Entry

	mu       sync.Mutex
	phase    Phase
	bundle   types.FeedBundle
	err      error
	gen      uint64
	seq      uint64
	cancel   context.CancelFunc
	onChange func(Snapshot)
}

// New builds an idle controller with a stopped scheduler over the static
// section table. opts configure the scheduler's clock and interval.
func New(fetcher Fetcher, opts ...rotation.Option) *Controller {
	c := &Controller{
		fetcher: fetcher,
		phase:   PhaseIdle,
		logger:  log.WithField("component", "lifecycle"),
	}
	opts = append(opts, rotation.OnAdvance(c.advanced))
	c.rot = rotation.New(len(feeds.Sections()), opts...)
	return c
}

// OnChange registers the observer called after every state or index
// change. It is invoked outside the controller lock.
func (c *Controller) OnChange(fn func(Snapshot)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onChange = fn
}

// Start moves Idle to Loading and launches exactly one fetch. It returns
// false if the controller was not idle.
func (c *Controller) Start(ctx context.Context) bool {
	c.mu.Lock()
	if c.phase != PhaseIdle {
		c.mu.Unlock()
		return false
	}

	c.gen++
	gen := c.gen
	fetchCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.setPhaseLocked(PhaseLoading)
	snap, notify := c.snapshotLocked()
	c.mu.Unlock()

	notify(snap)
	go c.run(fetchCtx, gen)
	return true
}

// Teardown returns to Idle from any phase. The in-flight fetch is
// cancelled and its result, should it still arrive, is discarded.
func (c *Controller) Teardown() {
	c.mu.Lock()
	c.gen++
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.rot.Reset()
	c.bundle = types.FeedBundle{}
	c.err = nil
	c.setPhaseLocked(PhaseIdle)
	snap, notify := c.snapshotLocked()
	c.mu.Unlock()

	notify(snap)
}

// Reload tears down and starts a fresh fetch
func (c *Controller) Reload(ctx context.Context) {
	c.Teardown()
	c.Start(ctx)
}

// Select shows section k immediately and restarts the rotation phase
func (c *Controller) Select(k int) error {
	c.mu.Lock()
	if c.phase != PhaseReady {
		c.mu.Unlock()
		return ErrNotReady
	}
	if err := c.rot.Select(k); err != nil {
		c.mu.Unlock()
		return err
	}
	c.seq++
	snap, notify := c.snapshotLocked()
	c.mu.Unlock()

	notify(snap)
	return nil
}

// Next and Prev step the visible section by one, wrapping around
func (c *Controller) Next() error { return c.step(1) }
func (c *Controller) Prev() error { return c.step(-1) }

func (c *Controller) step(delta int) error {
	n := c.rot.Len()
	if n == 0 {
		return ErrNotReady
	}
	return c.Select(((c.rot.Index()+delta)%n + n) % n)
}

// Snapshot returns the current state
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	snap, _ := c.snapshotLocked()
	return snap
}

// Phase returns the current phase
func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

func (c *Controller) run(ctx context.Context, gen uint64) {
	raw, err := c.fetcher.FetchBundle(ctx)

	c.mu.Lock()
	if gen != c.gen || c.phase != PhaseLoading {
		c.mu.Unlock()
		c.logger.WithFields(log.Fields{
			"generation": gen,
			"error":      err,
		}).Debug("Discarding stale fetch result")
		return
	}
	c.cancel = nil

	if err != nil {
		c.err = err
		c.rot.Stop()
		c.setPhaseLocked(PhaseFailed)
		c.logger.WithFields(log.Fields{
			"kind":  kindLabel(err),
			"error": err,
		}).Warn("Feed fetch failed")
	} else {
		c.bundle = feeds.Normalize(raw)
		c.setPhaseLocked(PhaseReady)
		c.rot.Start()
		c.logger.WithFields(log.Fields{
			"repos":     len(c.bundle.Repos),
			"questions": len(c.bundle.Questions),
			"stories":   len(c.bundle.Stories),
		}).Info("Feed bundle loaded")
	}
	snap, notify := c.snapshotLocked()
	c.mu.Unlock()

	notify(snap)
}

// advanced is the rotation tick hook
func (c *Controller) advanced(int) {
	c.mu.Lock()
	if c.phase != PhaseReady {
		c.mu.Unlock()
		return
	}
	c.seq++
	snap, notify := c.snapshotLocked()
	c.mu.Unlock()

	notify(snap)
}

func (c *Controller) setPhaseLocked(p Phase) {
	if c.phase != p {
		c.logger.WithFields(log.Fields{
			"from":       c.phase,
			"to":         p,
			"generation": c.gen,
		}).Debug("State transition")
	}
	c.phase = p
	c.seq++
}

func (c *Controller) snapshotLocked() (Snapshot, func(Snapshot)) {
	snap := Snapshot{
		Seq:    c.seq,
		Phase:  c.phase,
		Bundle: c.bundle,
		Err:    c.err,
	}
	if c.phase == PhaseReady {
		snap.Index = c.rot.Index()
	}
	fn := c.onChange
	return snap, func(s Snapshot) {
		if fn != nil {
			fn(s)
		}
	}
}

func kindLabel(err error) string {
	var fe *client.FetchError
	if errors.As(err, &fe) {
		return fe.Kind.String()
	}
	return "unknown"
}
