package internal

import "time"

// DefaultMergeWindow is how close two edits of the same field must be to
// collapse into one input event
const DefaultMergeWindow = 2000 * time.Millisecond

// InputMerger coalesces bursts of typing in one field into a single input event
type InputMerger struct {
	window int64
}

// NewInputMerger creates a merger with the given window. A non-positive
// window uses DefaultMergeWindow.
func NewInputMerger(window time.Duration) *InputMerger {
	if window <= 0 {
		window = DefaultMergeWindow
	}
	return &InputMerger{window: window.Milliseconds()}
}

// Window returns the merge window
func (m *InputMerger) Window() time.Duration {
	return time.Duration(m.window) * time.Millisecond
}

// CanMerge reports whether incoming may be folded into last. Only edits at
// or after the tail's timestamp qualify, so a merge never moves it backwards.
func (m *InputMerger) CanMerge(last *RawEvent, incoming RawEvent) bool {
	if last == nil || last.Kind != KindInput || incoming.Kind != KindInput {
		return false
	}
	if last.Input == nil || incoming.Input == nil {
		return false
	}
	if last.Input.Selector != incoming.Input.Selector {
		return false
	}
	delta := incoming.Timestamp - last.Timestamp
	return delta >= 0 && delta <= m.window
}

// Merge folds incoming into last in place. Only value, timestamp and
// screenshot change; an empty screenshot never replaces an existing one.
func (m *InputMerger) Merge(last *RawEvent, incoming RawEvent) {
	last.Input.Value = incoming.Input.Value
	last.Timestamp = incoming.Timestamp
	if incoming.Screenshot != "" {
		last.Screenshot = incoming.Screenshot
	}
}

// Apply merges incoming into the tab's tail event when possible and
// otherwise appends it. It reports whether a merge happened.
func (m *InputMerger) Apply(store *SessionStore, tab TabID, incoming RawEvent) bool {
	last := store.LastEvent(tab)
	if m.CanMerge(last, incoming) {
		m.Merge(last, incoming)
		return true
	}
	store.AppendEvent(tab, incoming)
	return false
}
