package internal

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// RecorderOptions configures a Recorder. Zero values select defaults.
type RecorderOptions struct {
	Clock              Clock
	Broadcaster        Broadcaster
	Screenshots        ScreenshotProvider
	Metrics            *Metrics
	MergeWindow        time.Duration
	InteractionHistory int
	SkipURLPrefixes    []string
}

// Recorder captures browser events per tab and turns them into workflows.
//
// All state lives behind one mutex so the recorder behaves as if events
// arrive on a single execution context. Collaborators (screenshots,
// broadcast) are called outside the lock.
type Recorder struct {
	mu         sync.Mutex
	enabled    bool
	startTime  int64
	endTime    int64
	workflowID string
	store      *SessionStore

	merger       *InputMerger
	normalizer   *Normalizer
	clock        Clock
	broadcaster  Broadcaster
	screenshots  ScreenshotProvider
	metrics      *Metrics
	skipPrefixes []string
}

// StartResult is returned by Start
type StartResult struct {
	Success    bool   `json:"success"`
	StartTime  int64  `json:"startTime"`
	WorkflowID string `json:"workflowId"`
}

// StopResult is returned by Stop. Workflow is nil when Success is false.
type StopResult struct {
	Success  bool      `json:"success"`
	Workflow *Workflow `json:"workflow,omitempty"`
}

// Status is a read-only snapshot of the recorder
type Status struct {
	IsRecording bool  `json:"isRecording"`
	StartTime   int64 `json:"startTime"`
	Duration    int64 `json:"duration"`
	EventCount  int   `json:"eventCount"`
	TabCount    int   `json:"tabCount"`
}

// NewRecorder creates an idle recorder
func NewRecorder(opts RecorderOptions) *Recorder {
	if opts.Clock == nil {
		opts.Clock = SystemClock{}
	}
	if opts.Broadcaster == nil {
		opts.Broadcaster = NopBroadcaster{}
	}
	if opts.SkipURLPrefixes == nil {
		opts.SkipURLPrefixes = DefaultSkipURLPrefixes
	}
	skip := make([]string, 0, len(opts.SkipURLPrefixes))
	for _, prefix := range opts.SkipURLPrefixes {
		skip = append(skip, strings.ToLower(prefix))
	}
	normalizer := NewNormalizer()
	normalizer.metrics = opts.Metrics

	return &Recorder{
		store:        NewSessionStore(opts.InteractionHistory),
		merger:       NewInputMerger(opts.MergeWindow),
		normalizer:   normalizer,
		clock:        opts.Clock,
		broadcaster:  opts.Broadcaster,
		screenshots:  opts.Screenshots,
		metrics:      opts.Metrics,
		skipPrefixes: skip,
	}
}

// Start begins a recording. With a tab id only that tab's log is cleared,
// otherwise every tab is dropped. Calling Start while recording resets the
// session rather than failing.
func (r *Recorder) Start(tab *TabID) StartResult {
	r.mu.Lock()
	if r.enabled {
		LogInfo("Recording already in progress, resetting session")
	}

	r.enabled = true
	r.startTime = nowMillis(r.clock)
	r.endTime = 0
	r.workflowID = uuid.Must(uuid.NewV7()).String()

	if tab != nil {
		r.store.ClearEvents(*tab)
		LogInfo("Recording started for tab %d (workflow %s)", *tab, r.workflowID)
	} else {
		r.store.Reset()
		LogInfo("Recording started (workflow %s)", r.workflowID)
	}
	r.store.ResetNavigationMarkers()

	result := StartResult{Success: true, StartTime: r.startTime, WorkflowID: r.workflowID}
	update := r.updateLocked("start", 0, "")
	r.mu.Unlock()

	r.metrics.SetRecording(true)
	r.broadcaster.Publish(update)
	return result
}

// Stop ends the recording and returns the normalized workflow. Stopping an
// idle recorder fails without touching any state.
func (r *Recorder) Stop() StopResult {
	r.mu.Lock()
	if !r.enabled {
		r.mu.Unlock()
		LogWarn("Stop requested while not recording")
		return StopResult{Success: false}
	}

	r.enabled = false
	r.endTime = nowMillis(r.clock)
	workflow := r.workflowLocked()
	update := r.updateLocked("stop", 0, "")
	r.mu.Unlock()

	LogInfo("Recording stopped: %d step(s) from %d event(s) across %d tab(s)",
		workflow.Metadata.StepCount, workflow.Metadata.EventCount, workflow.Metadata.TabCount)
	r.metrics.SetRecording(false)
	r.broadcaster.Publish(update)
	return StopResult{Success: true, Workflow: workflow}
}

// Status reports the recorder state
func (r *Recorder) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()

	status := Status{
		IsRecording: r.enabled,
		StartTime:   r.startTime,
		EventCount:  r.store.TotalEventCount(),
		TabCount:    r.store.TabCount(),
	}
	if r.enabled {
		status.Duration = nowMillis(r.clock) - r.startTime
	}
	return status
}

// IsRecording reports whether events are currently accepted
func (r *Recorder) IsRecording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.enabled
}

// Workflow returns the workflow for the current data, whether or not a
// recording is in progress
func (r *Recorder) Workflow() *Workflow {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.workflowLocked()
}

// TabEventCount returns the number of events logged for one tab
func (r *Recorder) TabEventCount(tab TabID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.store.EventCount(tab)
}

// RecentInteractions returns a copy of the tab's recent interaction times
func (r *Recorder) RecentInteractions(tab TabID) []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.store.Tab(tab)
	if !ok {
		return nil
	}
	return append([]int64(nil), t.RecentInteractions...)
}

func (r *Recorder) workflowLocked() *Workflow {
	steps := r.normalizer.Normalize(r.store)
	r.metrics.StepsNormalized(len(steps))

	meta := WorkflowMetadata{
		StartTime:  r.startTime,
		EndTime:    r.endTime,
		EventCount: r.store.TotalEventCount(),
		StepCount:  len(steps),
		TabCount:   r.store.TabCount(),
	}
	if r.startTime > 0 {
		meta.RecordedAt = formatTimestamp(r.startTime)
		if r.enabled {
			meta.Duration = nowMillis(r.clock) - r.startTime
		} else if r.endTime > 0 {
			meta.Duration = r.endTime - r.startTime
		}
	}

	return &Workflow{
		ID:       r.workflowID,
		Steps:    steps,
		Metadata: meta,
	}
}

func (r *Recorder) updateLocked(reason string, tab TabID, kind string) Update {
	return Update{
		Reason:     reason,
		TabID:      tab,
		Kind:       kind,
		EventCount: r.store.TotalEventCount(),
		TabCount:   r.store.TabCount(),
		Timestamp:  nowMillis(r.clock),
	}
}
