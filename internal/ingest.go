package internal

import "context"

// Ingest records one instrumentation event for a tab. An unknown tag is
// the only error; events arriving while idle and duplicate initial
// navigations are dropped silently.
func (r *Recorder) Ingest(ctx context.Context, tag EventTag, tab TabID, data EventData) error {
	ev, err := NewRawEvent(tag, data)
	if err != nil {
		LogWarn("Rejected event with tag %q for tab %d", tag, tab)
		return err
	}

	if ev.Screenshot == "" && ev.Kind != KindPage && r.screenshots != nil && r.IsRecording() {
		ev.Screenshot = captureScreenshot(ctx, r.screenshots, tab)
	}

	r.mu.Lock()
	if data.Timestamp > 0 {
		ev.Timestamp = data.Timestamp
	} else {
		ev.Timestamp = nowMillis(r.clock)
	}
	update, changed := r.recordLocked(tab, ev)
	r.mu.Unlock()

	if changed {
		r.broadcaster.Publish(update)
	}
	return nil
}

// recordLocked applies the recording policy to one stamped event and
// reports whether the store changed
func (r *Recorder) recordLocked(tab TabID, ev RawEvent) (Update, bool) {
	if !r.enabled {
		LogDebug("Dropped %s event for tab %d: not recording", ev.Kind, tab)
		r.metrics.EventDropped("idle")
		return Update{}, false
	}

	reason := "event"
	switch {
	case ev.IsNavigation():
		if r.store.MarkNavigationSeen(tab) {
			LogDebug("Dropped duplicate navigation for tab %d", tab)
			r.metrics.EventDropped("duplicate_navigation")
			return Update{}, false
		}
		r.store.AppendEvent(tab, ev)
	case ev.Kind == KindInput:
		if r.merger.Apply(r.store, tab, ev) {
			reason = "merge"
			r.metrics.InputMerged()
		}
	default:
		r.store.AppendEvent(tab, ev)
	}

	if ev.IsInteraction() {
		r.store.RecordInteraction(tab, ev.Timestamp)
	}
	if reason == "event" {
		r.metrics.EventIngested(ev.Kind)
	}
	return r.updateLocked(reason, tab, string(ev.Kind)), true
}
