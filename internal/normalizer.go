package internal

import (
	"sort"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// Normalizer converts per-tab event logs into one ordered step list
type Normalizer struct {
	metrics *Metrics
}

// NewNormalizer creates a new Normalizer
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// sourcedEvent is an event tagged with where it came from
type sourcedEvent struct {
	tab   TabID
	meta  TabMeta
	event *RawEvent
}

// Normalize builds the step list for everything in the store. Events are
// ordered by timestamp; ties keep capture order within a tab and fall back
// to ascending tab id across tabs.
func (n *Normalizer) Normalize(store *SessionStore) []Step {
	var events []sourcedEvent
	for _, id := range store.TabIDs() {
		tab, _ := store.Tab(id)
		for i := range tab.Events {
			events = append(events, sourcedEvent{tab: id, meta: tab.Meta, event: &tab.Events[i]})
		}
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].event.Timestamp < events[j].event.Timestamp
	})

	steps := make([]Step, 0, len(events))
	for _, src := range events {
		step, ok := n.normalizeEvent(src)
		if !ok {
			continue
		}
		step.Index = len(steps)
		steps = append(steps, step)
	}
	return steps
}

// normalizeEvent projects one event onto a step
func (n *Normalizer) normalizeEvent(src sourcedEvent) (Step, bool) {
	ev := src.event
	step := Step{
		Timestamp:  ev.Timestamp,
		TabID:      src.tab,
		TabURL:     src.meta.URL,
		TabTitle:   src.meta.Title,
		Screenshot: ev.Screenshot,
	}

	switch {
	case ev.Kind == KindClick && ev.Click != nil:
		c := ev.Click
		step.Type = StepClick
		step.Action = "click"
		step.TargetText = firstLabel(c.TargetText, c.ElementText, c.ElementTag, UnknownElement)
		step.TargetSelector = c.Selector
		step.Coordinates = c.Coordinates
		step.ElementTag = c.ElementTag
		step.ElementText = firstLabel(c.ElementText, c.TargetText, c.ElementTag, UnknownElement)
		step.RadioButtonInfo = c.RadioButtonInfo
		step.URL = c.URL
		step.XPath = c.XPath
		step.CSSSelector = c.CSSSelector

	case ev.Kind == KindInput && ev.Input != nil:
		in := ev.Input
		step.Type = StepInput
		step.Action = "type"
		step.TargetText = firstLabel(in.TargetText, in.ElementTag)
		step.TargetSelector = in.Selector
		step.Value = in.Value
		step.ElementTag = in.ElementTag
		step.URL = in.URL
		step.XPath = in.XPath
		step.CSSSelector = in.CSSSelector

	case ev.Kind == KindKey && ev.Key != nil:
		k := ev.Key
		step.Type = StepKeypress
		step.Action = "press"
		step.Key = k.Key
		mods := k.Modifiers
		step.Modifiers = &mods
		step.ElementTag = k.ElementTag

	case ev.Kind == KindPage && ev.Page != nil:
		n.normalizePage(&step, ev.Page)

	case ev.Kind == KindExtraction && ev.Extraction != nil:
		x := ev.Extraction
		step.Type = StepExtraction
		step.Action = "extract"
		step.ExtractionType = x.ExtractionType
		step.Selector = x.Selector
		step.Value = x.Value

	default:
		LogWarn("Skipping event of unknown kind %q in tab %d", ev.Kind, src.tab)
		n.metrics.EventDropped("unknown_kind")
		return Step{}, false
	}

	return step, true
}

// normalizePage projects page signals; unmodeled subtypes keep their raw payload
func (n *Normalizer) normalizePage(step *Step, p *PagePayload) {
	switch p.Type {
	case PageNavigation:
		step.Type = StepNavigate
		step.Action = "navigate"
		step.URL = p.URL
		step.Title = p.Title
		step.Screenshot = ""
	case PageScroll:
		step.Type = StepScroll
		step.Action = "scroll"
		x, y := p.ScrollX, p.ScrollY
		step.ScrollX = &x
		step.ScrollY = &y
		step.Screenshot = ""
	default:
		step.Type = StepGeneric
		step.Action = p.Type
		if step.Action == "" {
			step.Action = "unknown"
		}
		step.Data = p.Data
		step.Screenshot = ""
	}
}

// firstLabel returns the first candidate that is non-empty after cleanup
func firstLabel(candidates ...string) string {
	for _, c := range candidates {
		if label := cleanLabel(c); label != "" {
			return label
		}
	}
	return ""
}

// cleanLabel collapses whitespace and NFC-normalizes a human readable label
func cleanLabel(s string) string {
	return norm.NFC.String(strings.Join(strings.Fields(s), " "))
}

// formatTimestamp formats a Unix timestamp (milliseconds) to ISO8601
func formatTimestamp(ts int64) string {
	t := time.Unix(0, ts*int64(time.Millisecond))
	return t.UTC().Format(time.RFC3339)
}
