package internal

import "strings"

// TabStatusComplete is the tab status reported once a page finished loading
const TabStatusComplete = "complete"

// DefaultSkipURLPrefixes lists browser-internal and extension URL schemes
// that are never recorded
var DefaultSkipURLPrefixes = []string{
	"chrome://",
	"chrome-extension://",
	"chrome-search://",
	"edge://",
	"brave://",
	"opera://",
	"vivaldi://",
	"about:",
	"moz-extension://",
	"devtools://",
	"view-source:",
}

// TabInfo is what the browser reports about a tab in lifecycle signals
type TabInfo struct {
	ID     TabID  `json:"tabId"`
	URL    string `json:"url,omitempty"`
	Title  string `json:"title,omitempty"`
	Status string `json:"status,omitempty"`
}

// TabCreated handles a new tab. The tab gets a session while recording
// even when its url is never recorded.
func (r *Recorder) TabCreated(tab TabInfo) {
	r.mu.Lock()
	if r.enabled {
		r.store.EnsureTab(tab.ID)
	}
	r.mu.Unlock()
	r.observeTab(tab)
}

// TabUpdated handles a tab update; only completed loads are considered
func (r *Recorder) TabUpdated(tab TabInfo) {
	if tab.Status != TabStatusComplete {
		return
	}
	r.observeTab(tab)
}

// TabActivated makes sure a session exists for the focused tab
func (r *Recorder) TabActivated(id TabID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.enabled {
		return
	}
	r.store.EnsureTab(id)
}

// TabRemoved drops the tab's session. Its events are discarded, not flushed.
func (r *Recorder) TabRemoved(id TabID) {
	r.mu.Lock()
	if _, ok := r.store.Tab(id); !ok {
		r.mu.Unlock()
		return
	}
	dropped := r.store.EventCount(id)
	r.store.RemoveTab(id)
	update := r.updateLocked("tab_removed", id, "")
	r.mu.Unlock()

	LogDebug("Tab %d removed, dropped %d event(s)", id, dropped)
	r.metrics.TabRemoved()
	r.broadcaster.Publish(update)
}

// observeTab records tab metadata and synthesizes the tab's first navigation
func (r *Recorder) observeTab(tab TabInfo) {
	if r.ShouldSkipURL(tab.URL) {
		LogDebug("Ignoring tab %d with internal url %q", tab.ID, tab.URL)
		return
	}

	r.mu.Lock()
	if !r.enabled {
		r.mu.Unlock()
		return
	}
	r.store.UpdateTabMeta(tab.ID, tab.URL, tab.Title)
	if r.store.MarkNavigationSeen(tab.ID) {
		r.mu.Unlock()
		return
	}
	ev := NewNavigationEvent(tab.URL, tab.Title, nowMillis(r.clock))
	r.store.AppendEvent(tab.ID, ev)
	r.metrics.EventIngested(ev.Kind)
	update := r.updateLocked("event", tab.ID, string(ev.Kind))
	r.mu.Unlock()

	r.broadcaster.Publish(update)
}

// ShouldSkipURL reports whether url is empty or uses a skipped scheme
func (r *Recorder) ShouldSkipURL(url string) bool {
	if strings.TrimSpace(url) == "" {
		return true
	}
	lower := strings.ToLower(url)
	for _, prefix := range r.skipPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}
