package internal

// Update describes a change to the recorded workflow
type Update struct {
	Reason     string `json:"reason"` // "event", "merge", "start", "stop", "tab_removed"
	TabID      TabID  `json:"tabId,omitempty"`
	Kind       string `json:"kind,omitempty"`
	EventCount int    `json:"eventCount"`
	TabCount   int    `json:"tabCount"`
	Timestamp  int64  `json:"timestamp"`
}

// Broadcaster is notified whenever the workflow data changes. Publish must
// not block; the recorder never waits on listeners.
type Broadcaster interface {
	Publish(update Update)
}

// NopBroadcaster discards updates
type NopBroadcaster struct{}

// Publish does nothing
func (NopBroadcaster) Publish(Update) {}

// BroadcastFunc adapts a function to the Broadcaster interface
type BroadcastFunc func(Update)

// Publish calls f(update)
func (f BroadcastFunc) Publish(update Update) {
	f(update)
}
