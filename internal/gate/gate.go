// Package gate decides when enough misclassification feedback has
// accumulated to justify retraining the model.
package gate

import "sync"

// Gate counts misclassified feedback since the last successful promotion.
// It is an in-process singleton; the count is rebuilt at startup from the
// feedback table and the persisted watermark.
type Gate struct {
	mu          sync.Mutex
	count       int
	minRequired int
}

// Status is a snapshot of the gate for the retrain-status endpoint.
type Status struct {
	Count       int  `json:"feedback_count"`
	MinRequired int  `json:"min_required"`
	Ready       bool `json:"ready_to_retrain"`
}

func New(minRequired int) *Gate {
	return &Gate{minRequired: minRequired}
}

// Seed sets the counter from persisted state at startup.
func (g *Gate) Seed(count int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if count < 0 {
		count = 0
	}
	g.count = count
}

// OnFeedback records a newly submitted correction.
func (g *Gate) OnFeedback(misclassified bool) {
	if !misclassified {
		return
	}
	g.mu.Lock()
	g.count++
	g.mu.Unlock()
}

// OnFeedbackDeleted reverses an admin-purged correction. The counter never
// goes below zero.
func (g *Gate) OnFeedbackDeleted(misclassified bool) {
	if !misclassified {
		return
	}
	g.mu.Lock()
	if g.count > 0 {
		g.count--
	}
	g.mu.Unlock()
}

func (g *Gate) Status() Status {
	g.mu.Lock()
	defer g.mu.Unlock()
	return Status{
		Count:       g.count,
		MinRequired: g.minRequired,
		Ready:       g.count >= g.minRequired,
	}
}

// Consume atomically reads and resets the counter. Only the training
// pipeline calls this, immediately before a run starts; a failed run does
// not restore the count.
func (g *Gate) Consume() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := g.count
	g.count = 0
	return n
}
