package internal

import "sort"

// DefaultInteractionHistory is the number of recent interaction times kept per tab
const DefaultInteractionHistory = 10

// TabMeta is the last known url and title of a tab
type TabMeta struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

// TabSession is the event log and metadata for one tab
type TabSession struct {
	ID                    TabID
	Events                []RawEvent
	Meta                  TabMeta
	RecentInteractions    []int64
	InitialNavigationSeen bool
}

// SessionStore holds per-tab event logs. It has no locking of its own;
// the Recorder serializes access.
type SessionStore struct {
	tabs         map[TabID]*TabSession
	historyLimit int
}

// NewSessionStore creates an empty store. historyLimit bounds the recent
// interaction ring; values <= 0 use DefaultInteractionHistory.
func NewSessionStore(historyLimit int) *SessionStore {
	if historyLimit <= 0 {
		historyLimit = DefaultInteractionHistory
	}
	return &SessionStore{
		tabs:         make(map[TabID]*TabSession),
		historyLimit: historyLimit,
	}
}

// EnsureTab returns the tab's session, creating an empty one if needed
func (s *SessionStore) EnsureTab(id TabID) *TabSession {
	tab, ok := s.tabs[id]
	if !ok {
		tab = &TabSession{ID: id}
		s.tabs[id] = tab
	}
	return tab
}

// Tab returns the tab's session if it exists
func (s *SessionStore) Tab(id TabID) (*TabSession, bool) {
	tab, ok := s.tabs[id]
	return tab, ok
}

// AppendEvent pushes an event onto the tab's log
func (s *SessionStore) AppendEvent(id TabID, ev RawEvent) {
	tab := s.EnsureTab(id)
	tab.Events = append(tab.Events, ev)
}

// LastEvent returns a pointer to the most recently appended event of the
// tab, or nil when the tab has no events. Only the input merger writes
// through this pointer.
func (s *SessionStore) LastEvent(id TabID) *RawEvent {
	tab, ok := s.tabs[id]
	if !ok || len(tab.Events) == 0 {
		return nil
	}
	return &tab.Events[len(tab.Events)-1]
}

// UpdateTabMeta overwrites the tab's url and title
func (s *SessionStore) UpdateTabMeta(id TabID, url, title string) {
	tab := s.EnsureTab(id)
	tab.Meta = TabMeta{URL: url, Title: title}
}

// Meta returns the tab's metadata, zero if unknown
func (s *SessionStore) Meta(id TabID) TabMeta {
	if tab, ok := s.tabs[id]; ok {
		return tab.Meta
	}
	return TabMeta{}
}

// RecordInteraction appends ts to the tab's recent interaction ring,
// evicting the oldest entries beyond the history limit
func (s *SessionStore) RecordInteraction(id TabID, ts int64) {
	tab := s.EnsureTab(id)
	tab.RecentInteractions = append(tab.RecentInteractions, ts)
	if over := len(tab.RecentInteractions) - s.historyLimit; over > 0 {
		tab.RecentInteractions = append([]int64(nil), tab.RecentInteractions[over:]...)
	}
}

// MarkNavigationSeen sets the tab's initial navigation flag and reports
// whether it was already set
func (s *SessionStore) MarkNavigationSeen(id TabID) bool {
	tab := s.EnsureTab(id)
	seen := tab.InitialNavigationSeen
	tab.InitialNavigationSeen = true
	return seen
}

// NavigationSeen reports whether the tab has recorded its first navigation
func (s *SessionStore) NavigationSeen(id TabID) bool {
	tab, ok := s.tabs[id]
	return ok && tab.InitialNavigationSeen
}

// RemoveTab drops everything known about the tab
func (s *SessionStore) RemoveTab(id TabID) {
	delete(s.tabs, id)
}

// ClearEvents empties the tab's log but keeps its metadata
func (s *SessionStore) ClearEvents(id TabID) {
	if tab, ok := s.tabs[id]; ok {
		tab.Events = nil
		tab.RecentInteractions = nil
	}
}

// ResetNavigationMarkers clears the initial navigation flag on every tab
func (s *SessionStore) ResetNavigationMarkers() {
	for _, tab := range s.tabs {
		tab.InitialNavigationSeen = false
	}
}

// Reset drops all tabs
func (s *SessionStore) Reset() {
	s.tabs = make(map[TabID]*TabSession)
}

// EventCount returns the number of events logged for the tab
func (s *SessionStore) EventCount(id TabID) int {
	if tab, ok := s.tabs[id]; ok {
		return len(tab.Events)
	}
	return 0
}

// TotalEventCount sums event log lengths across all tabs
func (s *SessionStore) TotalEventCount() int {
	total := 0
	for _, tab := range s.tabs {
		total += len(tab.Events)
	}
	return total
}

// TabCount returns the number of tracked tabs
func (s *SessionStore) TabCount() int {
	return len(s.tabs)
}

// TabIDs returns the tracked tab ids in ascending order
func (s *SessionStore) TabIDs() []TabID {
	ids := make([]TabID, 0, len(s.tabs))
	for id := range s.tabs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
