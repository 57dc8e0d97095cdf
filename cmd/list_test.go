package cmd

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/iksnae/workflow-recorder/internal"
)

func TestDisplayWorkflows(t *testing.T) {
	now := time.UnixMilli(1700000000000).Add(time.Hour)

	tests := []struct {
		name      string
		summaries []internal.WorkflowSummary
		want      []string
	}{
		{
			name:      "empty archive",
			summaries: []internal.WorkflowSummary{},
			want:      []string{"No workflows recorded"},
		},
		{
			name: "one workflow",
			summaries: []internal.WorkflowSummary{
				{
					ID:        "0190a1b2-c3d4-7e5f-8a9b-0123456789ab",
					StartURL:  "https://example.com/login",
					StartTime: 1700000000000,
					Duration:  4000,
					StepCount: 3,
					TabCount:  2,
				},
			},
			want: []string{"Found 1 workflow(s)", "0190a1b2-c3d4", "https://example.com/login", "4s"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			displayWorkflows(&buf, tt.summaries, now)
			for _, w := range tt.want {
				if !strings.Contains(buf.String(), w) {
					t.Errorf("output missing %q:\n%s", w, buf.String())
				}
			}
		})
	}
}

func TestRelativeDate(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		t    time.Time
		want string
	}{
		{name: "zero", t: time.Time{}, want: "—"},
		{name: "today", t: now.Add(-2 * time.Hour), want: "Today 10:00"},
		{name: "this week", t: now.Add(-3 * 24 * time.Hour), want: "Tue 12:00"},
		{name: "this year", t: now.Add(-30 * 24 * time.Hour), want: "Feb 14 12:00"},
		{name: "old", t: now.Add(-400 * 24 * time.Hour), want: "2023-02-09"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := relativeDate(tt.t, now); got != tt.want {
				t.Errorf("relativeDate() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestShortID(t *testing.T) {
	if got := shortID("abc"); got != "abc" {
		t.Errorf("shortID(short) = %q", got)
	}
	if got := shortID("0190a1b2-c3d4-7e5f"); got != "0190a1b2-c3d4" {
		t.Errorf("shortID(long) = %q", got)
	}
}
