package internal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInputMerger_CanMerge(t *testing.T) {
	m := NewInputMerger(0)
	assert.Equal(t, DefaultMergeWindow, m.Window())

	last := inputEvent(1000, "#q", "a")
	tests := []struct {
		name     string
		last     *RawEvent
		incoming RawEvent
		want     bool
	}{
		{name: "same field within window", last: &last, incoming: inputEvent(2500, "#q", "ab"), want: true},
		{name: "exactly at window", last: &last, incoming: inputEvent(3000, "#q", "ab"), want: true},
		{name: "past window", last: &last, incoming: inputEvent(3001, "#q", "ab"), want: false},
		{name: "different field", last: &last, incoming: inputEvent(1100, "#other", "x"), want: false},
		{name: "no previous event", last: nil, incoming: inputEvent(1100, "#q", "x"), want: false},
		{name: "previous is a click", last: func() *RawEvent { e := clickEvent(1000, "#q"); return &e }(), incoming: inputEvent(1100, "#q", "x"), want: false},
		{name: "incoming is a click", last: &last, incoming: clickEvent(1100, "#q"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, m.CanMerge(tt.last, tt.incoming))
		})
	}
}

func TestInputMerger_RapidEditsCollapse(t *testing.T) {
	const base = int64(1700000000000)
	s := NewSessionStore(0)
	m := NewInputMerger(2 * time.Second)

	merged := 0
	for i, v := range []string{"a", "ab", "abc", "abcd"} {
		if m.Apply(s, 1, inputEvent(base+int64(i)*500, "#q", v)) {
			merged++
		}
	}

	assert.Equal(t, 3, merged)
	assert.Equal(t, 1, s.EventCount(1))
	last := s.LastEvent(1)
	assert.Equal(t, "abcd", last.Input.Value)
	assert.Equal(t, base+1500, last.Timestamp)
}

func TestInputMerger_GapStartsNewEvent(t *testing.T) {
	const base = int64(1700000000000)
	s := NewSessionStore(0)
	m := NewInputMerger(DefaultMergeWindow)

	m.Apply(s, 1, inputEvent(base, "#q", "a"))
	m.Apply(s, 1, inputEvent(base+2100, "#q", "ab"))

	assert.Equal(t, 2, s.EventCount(1))
}

func TestInputMerger_InterleavedClickBreaksRun(t *testing.T) {
	s := NewSessionStore(0)
	m := NewInputMerger(DefaultMergeWindow)

	m.Apply(s, 1, inputEvent(100, "#q", "a"))
	s.AppendEvent(1, clickEvent(200, "#q"))
	m.Apply(s, 1, inputEvent(300, "#q", "ab"))

	assert.Equal(t, 3, s.EventCount(1))
}

func TestInputMerger_ScreenshotKept(t *testing.T) {
	m := NewInputMerger(DefaultMergeWindow)
	last := inputEvent(100, "#q", "a")
	last.Screenshot = "shot-1"

	m.Merge(&last, inputEvent(200, "#q", "ab"))
	assert.Equal(t, "shot-1", last.Screenshot, "empty screenshot does not replace")

	next := inputEvent(300, "#q", "abc")
	next.Screenshot = "shot-2"
	m.Merge(&last, next)
	assert.Equal(t, "shot-2", last.Screenshot)
	assert.Equal(t, "abc", last.Input.Value)
	assert.Equal(t, int64(300), last.Timestamp)
}

func TestInputMerger_OlderEditNeverMerges(t *testing.T) {
	const base = int64(1700000000000)
	m := NewInputMerger(DefaultMergeWindow)
	last := inputEvent(base+60000, "#q", "late")

	tests := []struct {
		name     string
		incoming RawEvent
	}{
		{name: "far older", incoming: inputEvent(base, "#q", "early")},
		{name: "just older", incoming: inputEvent(base+59999, "#q", "early")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, m.CanMerge(&last, tt.incoming))
		})
	}

	s := NewSessionStore(0)
	s.AppendEvent(1, last)
	assert.False(t, m.Apply(s, 1, inputEvent(base, "#q", "early")))
	assert.Equal(t, 2, s.EventCount(1))
	tab, _ := s.Tab(1)
	assert.Equal(t, "late", tab.Events[0].Input.Value)
	assert.Equal(t, base+60000, tab.Events[0].Timestamp)
}
