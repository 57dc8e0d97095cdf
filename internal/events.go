package internal

// TabID identifies a browser tab within a recording session
type TabID int

// EventKind is the internal kind of a captured event
type EventKind string

const (
	KindClick      EventKind = "click"
	KindInput      EventKind = "input"
	KindKey        EventKind = "key"
	KindPage       EventKind = "page"
	KindExtraction EventKind = "extraction"
)

// EventTag is the event type tag used at the transport boundary
type EventTag string

const (
	TagClick      EventTag = "click"
	TagInput      EventTag = "input"
	TagKey        EventTag = "key"
	TagRRWeb      EventTag = "rrweb"
	TagExtraction EventTag = "extraction"
)

// Page signal subtypes. Any other subtype string is kept as-is and
// projected to a generic step.
const (
	PageNavigation = "navigation"
	PageScroll     = "scroll"
)

// Coordinates is a click position in page pixels
type Coordinates struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// RadioButtonInfo describes the radio group a clicked element belongs to
type RadioButtonInfo struct {
	Name    string   `json:"name,omitempty" yaml:"name,omitempty"`
	Value   string   `json:"value,omitempty" yaml:"value,omitempty"`
	Label   string   `json:"label,omitempty" yaml:"label,omitempty"`
	Options []string `json:"options,omitempty" yaml:"options,omitempty"`
}

// Modifiers is the modifier key set held during a key press
type Modifiers struct {
	Ctrl  bool `json:"ctrl" yaml:"ctrl"`
	Shift bool `json:"shift" yaml:"shift"`
	Alt   bool `json:"alt" yaml:"alt"`
	Meta  bool `json:"meta" yaml:"meta"`
}

// EventData is the caller-supplied payload of an ingest message. Which
// fields are meaningful depends on the event tag.
type EventData struct {
	Timestamp  int64  `json:"timestamp,omitempty"`
	Screenshot string `json:"screenshot,omitempty"`

	// element targeting (click, input, key, extraction)
	Selector        string           `json:"selector,omitempty"`
	XPath           string           `json:"xpath,omitempty"`
	CSSSelector     string           `json:"cssSelector,omitempty"`
	TargetText      string           `json:"targetText,omitempty"`
	ElementTag      string           `json:"tagName,omitempty"`
	ElementText     string           `json:"text,omitempty"`
	Coordinates     *Coordinates     `json:"coordinates,omitempty"`
	RadioButtonInfo *RadioButtonInfo `json:"radioButtonInfo,omitempty"`

	URL   string `json:"url,omitempty"`
	Title string `json:"title,omitempty"`
	Value string `json:"value,omitempty"`

	Key       string     `json:"key,omitempty"`
	Modifiers *Modifiers `json:"modifiers,omitempty"`

	// rrweb page signals
	Type    string         `json:"type,omitempty"`
	ScrollX float64        `json:"scrollX,omitempty"`
	ScrollY float64        `json:"scrollY,omitempty"`
	Data    map[string]any `json:"data,omitempty"`

	ExtractionType string `json:"extractionType,omitempty"`
}

// ClickPayload holds the attributes of a click event
type ClickPayload struct {
	Selector        string
	XPath           string
	CSSSelector     string
	TargetText      string
	ElementTag      string
	ElementText     string
	URL             string
	Coordinates     *Coordinates
	RadioButtonInfo *RadioButtonInfo
}

// InputPayload holds the attributes of an input event
type InputPayload struct {
	Selector    string
	XPath       string
	CSSSelector string
	TargetText  string
	ElementTag  string
	URL         string
	Value       string
}

// KeyPayload holds the attributes of a key press
type KeyPayload struct {
	Key        string
	Modifiers  Modifiers
	ElementTag string
}

// PagePayload holds the attributes of a page signal
type PagePayload struct {
	Type    string
	URL     string
	Title   string
	ScrollX float64
	ScrollY float64
	Data    map[string]any
}

// ExtractionPayload holds the attributes of a data extraction
type ExtractionPayload struct {
	ExtractionType string
	Selector       string
	Value          string
}

// RawEvent is one captured event in a tab's log. Exactly one payload
// pointer is set, matching Kind.
type RawEvent struct {
	Kind       EventKind
	Timestamp  int64
	Screenshot string

	Click      *ClickPayload
	Input      *InputPayload
	Key        *KeyPayload
	Page       *PagePayload
	Extraction *ExtractionPayload
}

// IsNavigation reports whether the event is a navigation page signal
func (e *RawEvent) IsNavigation() bool {
	return e.Kind == KindPage && e.Page != nil && e.Page.Type == PageNavigation
}

// IsInteraction reports whether the event counts as direct user interaction
func (e *RawEvent) IsInteraction() bool {
	switch e.Kind {
	case KindClick, KindInput, KindKey:
		return true
	}
	return false
}

// NewRawEvent translates a transport tag and its data into a RawEvent.
// The timestamp is left for the caller to stamp.
func NewRawEvent(tag EventTag, data EventData) (RawEvent, error) {
	ev := RawEvent{Screenshot: data.Screenshot}

	switch tag {
	case TagClick:
		ev.Kind = KindClick
		ev.Click = &ClickPayload{
			Selector:        data.Selector,
			XPath:           data.XPath,
			CSSSelector:     data.CSSSelector,
			TargetText:      data.TargetText,
			ElementTag:      data.ElementTag,
			ElementText:     data.ElementText,
			URL:             data.URL,
			Coordinates:     data.Coordinates,
			RadioButtonInfo: data.RadioButtonInfo,
		}
	case TagInput:
		ev.Kind = KindInput
		ev.Input = &InputPayload{
			Selector:    data.Selector,
			XPath:       data.XPath,
			CSSSelector: data.CSSSelector,
			TargetText:  data.TargetText,
			ElementTag:  data.ElementTag,
			URL:         data.URL,
			Value:       data.Value,
		}
	case TagKey:
		ev.Kind = KindKey
		ev.Key = &KeyPayload{Key: data.Key, ElementTag: data.ElementTag}
		if data.Modifiers != nil {
			ev.Key.Modifiers = *data.Modifiers
		}
	case TagRRWeb:
		ev.Kind = KindPage
		ev.Page = &PagePayload{
			Type:    data.Type,
			URL:     data.URL,
			Title:   data.Title,
			ScrollX: data.ScrollX,
			ScrollY: data.ScrollY,
			Data:    data.Data,
		}
	case TagExtraction:
		ev.Kind = KindExtraction
		ev.Extraction = &ExtractionPayload{
			ExtractionType: data.ExtractionType,
			Selector:       data.Selector,
			Value:          data.Value,
		}
	default:
		return RawEvent{}, ErrUnknownEventType
	}

	return ev, nil
}

// NewNavigationEvent builds a navigation page signal
func NewNavigationEvent(url, title string, ts int64) RawEvent {
	return RawEvent{
		Kind:      KindPage,
		Timestamp: ts,
		Page:      &PagePayload{Type: PageNavigation, URL: url, Title: title},
	}
}
