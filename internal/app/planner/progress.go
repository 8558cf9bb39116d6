package planner

import (
	"sync"
	"time"
)

// Default loading-screen steps.
var defaultSteps = []string{
	"Analyzing your preferences",
	"Finding the best attractions",
	"Matching hotels to your budget",
	"Planning day-by-day schedule",
	"Polishing your itinerary",
}

// Progress simulates loading-screen progress. It is purely decorative and
// deliberately disjoint from the real generation request: the percentage
// advances on a fixed timer, caps below completion while the request is in
// flight, jumps to 100 on Finish and resets to 0 on Fail. Stop must be
// called when the view is discarded so no ticker leaks across navigations.
type Progress struct {
	mu      sync.Mutex
	percent int
	step    int
	steps   []string
	ticker  *time.Ticker
	done    chan struct{}
	running bool
}

func NewProgress(steps []string) *Progress {
	if len(steps) == 0 {
		steps = defaultSteps
	}
	return &Progress{steps: steps}
}

// Start begins advancing the simulated percentage. Calling Start on a
// running simulation is a no-op.
func (p *Progress) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		return
	}
	p.percent = 0
	p.step = 0
	p.running = true
	p.ticker = time.NewTicker(400 * time.Millisecond)
	p.done = make(chan struct{})

	go p.advance(p.ticker, p.done)
}

func (p *Progress) advance(ticker *time.Ticker, done chan struct{}) {
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			p.mu.Lock()
			if p.percent < 95 {
				p.percent += 3
				if p.percent > 95 {
					p.percent = 95
				}
			}
			// One step per even fifth of the bar.
			if next := p.percent * len(p.steps) / 100; next > p.step && next < len(p.steps) {
				p.step = next
			}
			p.mu.Unlock()
		}
	}
}

// Finish finalizes the bar at 100 with the last step and stops the timer.
func (p *Progress) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
	p.percent = 100
	p.step = len(p.steps) - 1
}

// Fail resets the bar to zero and stops the timer.
func (p *Progress) Fail() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
	p.percent = 0
	p.step = 0
}

// Stop tears the timer down without touching the displayed values. Safe to
// call repeatedly.
func (p *Progress) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
}

func (p *Progress) stopLocked() {
	if !p.running {
		return
	}
	p.running = false
	p.ticker.Stop()
	close(p.done)
}

// Snapshot returns the current percentage and step label.
func (p *Progress) Snapshot() (int, string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.percent, p.steps[p.step]
}

// Running reports whether the simulation timer is live.
func (p *Progress) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}
