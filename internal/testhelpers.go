package internal

import (
	"sync"
	"time"
)

// FakeClock is a settable Clock for tests
type FakeClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewFakeClock returns a clock frozen at the given unix milliseconds
func NewFakeClock(ms int64) *FakeClock {
	return &FakeClock{now: time.UnixMilli(ms)}
}

// Now returns the frozen time
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Set moves the clock to ms
func (c *FakeClock) Set(ms int64) {
	c.mu.Lock()
	c.now = time.UnixMilli(ms)
	c.mu.Unlock()
}

// Advance moves the clock forward by d
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// CreateTestWorkflow builds a small two-tab workflow for archive and export tests
func CreateTestWorkflow(id string) *Workflow {
	base := int64(1700000000000)
	return &Workflow{
		ID: id,
		Steps: []Step{
			{
				Index:     0,
				Type:      StepNavigate,
				Action:    "navigate",
				Timestamp: base,
				TabID:     1,
				TabURL:    "https://example.com/login",
				TabTitle:  "Login",
				URL:       "https://example.com/login",
				Title:     "Login",
			},
			{
				Index:          1,
				Type:           StepInput,
				Action:         "type",
				Timestamp:      base + 1500,
				TabID:          1,
				TabURL:         "https://example.com/login",
				TabTitle:       "Login",
				TargetText:     "INPUT",
				TargetSelector: "#user",
				ElementTag:     "INPUT",
				Value:          "alice",
			},
			{
				Index:          2,
				Type:           StepClick,
				Action:         "click",
				Timestamp:      base + 3000,
				TabID:          2,
				TabURL:         "https://example.com/home",
				TabTitle:       "Home",
				TargetText:     "Sign in",
				TargetSelector: "button.submit",
				Coordinates:    &Coordinates{X: 10, Y: 20},
				ElementTag:     "BUTTON",
				ElementText:    "Sign in",
			},
		},
		Metadata: WorkflowMetadata{
			StartTime:  base,
			EndTime:    base + 4000,
			Duration:   4000,
			EventCount: 3,
			StepCount:  3,
			TabCount:   2,
			RecordedAt: "2023-11-14T22:13:20Z",
		},
	}
}
