package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_GlobalOrder(t *testing.T) {
	s := NewSessionStore(0)
	s.UpdateTabMeta(1, "https://a.example", "A")
	s.UpdateTabMeta(2, "https://b.example", "B")
	s.AppendEvent(1, clickEvent(300, "#one-late"))
	s.AppendEvent(2, clickEvent(100, "#two-early"))
	s.AppendEvent(1, clickEvent(200, "#one-mid"))
	s.AppendEvent(2, clickEvent(200, "#two-tie"))

	steps := NewNormalizer().Normalize(s)
	require.Len(t, steps, 4)

	var selectors []string
	for i, step := range steps {
		assert.Equal(t, i, step.Index)
		selectors = append(selectors, step.TargetSelector)
	}
	assert.Equal(t, []string{"#two-early", "#one-mid", "#two-tie", "#one-late"}, selectors,
		"ties across tabs resolve by ascending tab id")
	assert.Equal(t, TabID(2), steps[0].TabID)
	assert.Equal(t, "https://b.example", steps[0].TabURL)
	assert.Equal(t, "B", steps[0].TabTitle)
}

func TestNormalize_SameTabTieKeepsCaptureOrder(t *testing.T) {
	s := NewSessionStore(0)
	s.AppendEvent(1, clickEvent(100, "#first"))
	s.AppendEvent(1, clickEvent(100, "#second"))

	steps := NewNormalizer().Normalize(s)
	require.Len(t, steps, 2)
	assert.Equal(t, "#first", steps[0].TargetSelector)
	assert.Equal(t, "#second", steps[1].TargetSelector)
}

func TestNormalize_Empty(t *testing.T) {
	steps := NewNormalizer().Normalize(NewSessionStore(0))
	assert.NotNil(t, steps)
	assert.Empty(t, steps)
}

func TestNormalize_ClickLabels(t *testing.T) {
	tests := []struct {
		name        string
		payload     ClickPayload
		wantTarget  string
		wantElement string
	}{
		{
			name:        "target text wins",
			payload:     ClickPayload{TargetText: "  Sign\n in ", ElementText: "ignored", ElementTag: "BUTTON"},
			wantTarget:  "Sign in",
			wantElement: "ignored",
		},
		{
			name:        "falls back to element text",
			payload:     ClickPayload{ElementText: "Menu", ElementTag: "DIV"},
			wantTarget:  "Menu",
			wantElement: "Menu",
		},
		{
			name:        "falls back to tag",
			payload:     ClickPayload{ElementTag: "svg"},
			wantTarget:  "svg",
			wantElement: "svg",
		},
		{
			name:        "unknown element",
			payload:     ClickPayload{TargetText: "   "},
			wantTarget:  UnknownElement,
			wantElement: UnknownElement,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSessionStore(0)
			p := tt.payload
			s.AppendEvent(1, RawEvent{Kind: KindClick, Timestamp: 1, Click: &p})

			steps := NewNormalizer().Normalize(s)
			require.Len(t, steps, 1)
			assert.Equal(t, StepClick, steps[0].Type)
			assert.Equal(t, "click", steps[0].Action)
			assert.Equal(t, tt.wantTarget, steps[0].TargetText)
			assert.Equal(t, tt.wantElement, steps[0].ElementText)
		})
	}
}

func TestNormalize_Projections(t *testing.T) {
	s := NewSessionStore(0)
	s.AppendEvent(1, RawEvent{
		Kind: KindInput, Timestamp: 1, Screenshot: "shot-input",
		Input: &InputPayload{Selector: "#q", ElementTag: "INPUT", Value: "hello"},
	})
	s.AppendEvent(1, RawEvent{
		Kind: KindKey, Timestamp: 2,
		Key: &KeyPayload{Key: "Enter", Modifiers: Modifiers{Ctrl: true}},
	})
	s.AppendEvent(1, NewNavigationEvent("https://example.com", "Example", 3))
	s.AppendEvent(1, RawEvent{
		Kind: KindPage, Timestamp: 4, Screenshot: "dropped",
		Page: &PagePayload{Type: PageScroll},
	})
	s.AppendEvent(1, RawEvent{
		Kind: KindPage, Timestamp: 5,
		Page: &PagePayload{Type: "", Data: map[string]any{"source": 3}},
	})
	s.AppendEvent(1, RawEvent{
		Kind: KindPage, Timestamp: 6,
		Page: &PagePayload{Type: "visibility"},
	})
	s.AppendEvent(1, RawEvent{
		Kind: KindExtraction, Timestamp: 7,
		Extraction: &ExtractionPayload{ExtractionType: "text", Selector: "h1", Value: "Welcome"},
	})

	steps := NewNormalizer().Normalize(s)
	require.Len(t, steps, 7)

	input := steps[0]
	assert.Equal(t, StepInput, input.Type)
	assert.Equal(t, "type", input.Action)
	assert.Equal(t, "INPUT", input.TargetText)
	assert.Equal(t, "hello", input.Value)
	assert.Equal(t, "shot-input", input.Screenshot)

	key := steps[1]
	assert.Equal(t, StepKeypress, key.Type)
	assert.Equal(t, "Enter", key.Key)
	require.NotNil(t, key.Modifiers)
	assert.True(t, key.Modifiers.Ctrl)

	nav := steps[2]
	assert.Equal(t, StepNavigate, nav.Type)
	assert.Equal(t, "https://example.com", nav.URL)
	assert.Equal(t, "Example", nav.Title)

	scroll := steps[3]
	assert.Equal(t, StepScroll, scroll.Type)
	require.NotNil(t, scroll.ScrollX)
	require.NotNil(t, scroll.ScrollY)
	assert.Zero(t, *scroll.ScrollX, "zero scroll offsets are kept")
	assert.Empty(t, scroll.Screenshot)

	generic := steps[4]
	assert.Equal(t, StepGeneric, generic.Type)
	assert.Equal(t, "unknown", generic.Action)
	assert.Equal(t, map[string]any{"source": 3}, generic.Data)

	assert.Equal(t, "visibility", steps[5].Action)

	extraction := steps[6]
	assert.Equal(t, StepExtraction, extraction.Type)
	assert.Equal(t, "text", extraction.ExtractionType)
	assert.Equal(t, "h1", extraction.Selector)
	assert.Equal(t, "Welcome", extraction.Value)
}

func TestNormalize_SkipsMalformedEvent(t *testing.T) {
	s := NewSessionStore(0)
	s.AppendEvent(1, RawEvent{Kind: KindClick, Timestamp: 1})
	s.AppendEvent(1, clickEvent(2, "#ok"))

	steps := NewNormalizer().Normalize(s)
	require.Len(t, steps, 1)
	assert.Equal(t, 0, steps[0].Index, "indexes stay contiguous")
	assert.Equal(t, "#ok", steps[0].TargetSelector)
}

func TestNormalize_LabelNFC(t *testing.T) {
	s := NewSessionStore(0)
	s.AppendEvent(1, RawEvent{Kind: KindClick, Timestamp: 1, Click: &ClickPayload{TargetText: "Cafe\u0301"}})

	steps := NewNormalizer().Normalize(s)
	require.Len(t, steps, 1)
	assert.Equal(t, "Caf\u00e9", steps[0].TargetText)
}

func TestWorkflowStartURL(t *testing.T) {
	w := CreateTestWorkflow("wf")
	assert.Equal(t, "https://example.com/login", w.StartURL())

	noNav := &Workflow{Steps: []Step{{Type: StepClick, TabURL: "https://tab.example"}}}
	assert.Equal(t, "https://tab.example", noNav.StartURL())

	assert.Empty(t, (&Workflow{}).StartURL())
}
