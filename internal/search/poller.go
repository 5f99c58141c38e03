package search

import (
	"context"
	"fmt"
	"time"

	"github.com/shubhamdhabu/trace-rescue/internal/recognizer"
)

// DetectionSource is the poll half of the backend, split out so the poller
// can be tested on its own.
type DetectionSource interface {
	PollDetection(ctx context.Context) (*recognizer.Detection, error)
}

// Poller repeatedly queries the backend for a detection on a fixed cadence
// until a match arrives or the context is cancelled.
//
// Ticks are serialized: the poll runs inside the tick loop, so a new poll is
// never issued while a previous response is outstanding, and any tick that
// elapsed during a slow response is dropped rather than queued.
type Poller struct {
	source      DetectionSource
	interval    time.Duration
	maxFailures int
}

// NewPoller creates a poller. maxFailures bounds consecutive transient poll
// failures; 0 means retry forever.
func NewPoller(source DetectionSource, interval time.Duration, maxFailures int) *Poller {
	return &Poller{
		source:      source,
		interval:    interval,
		maxFailures: maxFailures,
	}
}

// Run polls until a match is found or ctx is cancelled. There is no timeout
// of its own: a live search may run unbounded. A transient poll failure is
// retried on the next tick; only maxFailures consecutive failures end the
// session.
func (p *Poller) Run(ctx context.Context) (*recognizer.Detection, error) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	failures := 0
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}

		det, err := p.source.PollDetection(ctx)

		// Drop a tick that elapsed while the poll was in flight so ticks
		// never stack up behind a slow response.
		select {
		case <-ticker.C:
		default:
		}

		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			failures++
			if p.maxFailures > 0 && failures >= p.maxFailures {
				return nil, fmt.Errorf("detection poll failed %d consecutive times: %w", failures, err)
			}
			continue
		}
		failures = 0

		if det.Found {
			return det, nil
		}
	}
}
