package aggregator

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// Refresher is the part of the Aggregator the Prewarmer drives
type Refresher interface {
	Refresh(ctx context.Context) ([]byte, error)
}

// Prewarmer refreshes the response cache on a cron schedule so requests
// rarely wait on the upstreams
type Prewarmer struct {
	refresher Refresher
	cron      *cron.Cron
	cronID    cron.EntryID
	mu        sync.Mutex
	started   bool
	logger    *log.Entry
}

func NewPrewarmer(r Refresher) *Prewarmer {
	return &Prewarmer{
		refresher: r,
		cron:      cron.New(),
		logger:    log.WithField("component", "prewarm"),
	}
}

// Start schedules the refresh job. An empty schedule disables prewarming.
func (p *Prewarmer) Start(schedule string) error {
	if schedule == "" {
		p.logger.Info("Prewarming disabled")
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return nil
	}

	id, err := p.cron.AddFunc(schedule, p.Run)
	if err != nil {
		return fmt.Errorf("failed to add cron job: %w", err)
	}

	p.cronID = id
	p.cron.Start()
	p.started = true
	p.logger.WithField("schedule", schedule).Info("Prewarm job started")
	return nil
}

// Run performs one refresh
func (p *Prewarmer) Run() {
	p.logger.Debug("Prewarm triggered")
	if _, err := p.refresher.Refresh(context.Background()); err != nil {
		p.logger.WithError(err).Warn("Prewarm failed")
	}
}

// Stop halts the schedule and waits for a running job to finish
func (p *Prewarmer) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.started {
		return
	}
	<-p.cron.Stop().Done()
	p.cron.Remove(p.cronID)
	p.started = false
}
