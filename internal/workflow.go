package internal

// StepType is the semantic kind of a workflow step
type StepType string

const (
	StepClick      StepType = "click"
	StepInput      StepType = "input"
	StepKeypress   StepType = "keypress"
	StepNavigate   StepType = "navigate"
	StepScroll     StepType = "scroll"
	StepExtraction StepType = "extraction"
	StepGeneric    StepType = "rrweb-generic"
)

// UnknownElement labels a click target nothing better describes
const UnknownElement = "Unknown Element"

// Step is one normalized, replayable unit of recorded behavior
type Step struct {
	Index     int      `json:"index" yaml:"index"`
	Type      StepType `json:"type" yaml:"type"`
	Action    string   `json:"action" yaml:"action"`
	Timestamp int64    `json:"timestamp" yaml:"timestamp"`
	TabID     TabID    `json:"tabId" yaml:"tabId"`
	TabURL    string   `json:"tabUrl,omitempty" yaml:"tabUrl,omitempty"`
	TabTitle  string   `json:"tabTitle,omitempty" yaml:"tabTitle,omitempty"`

	TargetText      string           `json:"target_text,omitempty" yaml:"target_text,omitempty"`
	TargetSelector  string           `json:"target_selector,omitempty" yaml:"target_selector,omitempty"`
	Coordinates     *Coordinates     `json:"coordinates,omitempty" yaml:"coordinates,omitempty"`
	ElementTag      string           `json:"elementTag,omitempty" yaml:"elementTag,omitempty"`
	ElementText     string           `json:"elementText,omitempty" yaml:"elementText,omitempty"`
	RadioButtonInfo *RadioButtonInfo `json:"radioButtonInfo,omitempty" yaml:"radioButtonInfo,omitempty"`
	URL             string           `json:"url,omitempty" yaml:"url,omitempty"`
	Title           string           `json:"title,omitempty" yaml:"title,omitempty"`
	XPath           string           `json:"xpath,omitempty" yaml:"xpath,omitempty"`
	CSSSelector     string           `json:"cssSelector,omitempty" yaml:"cssSelector,omitempty"`
	Value           string           `json:"value,omitempty" yaml:"value,omitempty"`
	Key             string           `json:"key,omitempty" yaml:"key,omitempty"`
	Modifiers       *Modifiers       `json:"modifiers,omitempty" yaml:"modifiers,omitempty"`
	ScrollX         *float64         `json:"scrollX,omitempty" yaml:"scrollX,omitempty"`
	ScrollY         *float64         `json:"scrollY,omitempty" yaml:"scrollY,omitempty"`
	ExtractionType  string           `json:"extractionType,omitempty" yaml:"extractionType,omitempty"`
	Selector        string           `json:"selector,omitempty" yaml:"selector,omitempty"`
	Data            map[string]any   `json:"data,omitempty" yaml:"data,omitempty"`
	Screenshot      string           `json:"screenshot,omitempty" yaml:"screenshot,omitempty"`
}

// WorkflowMetadata summarizes a recording
type WorkflowMetadata struct {
	StartTime  int64  `json:"startTime" yaml:"startTime"`
	EndTime    int64  `json:"endTime,omitempty" yaml:"endTime,omitempty"`
	Duration   int64  `json:"duration" yaml:"duration"`
	EventCount int    `json:"eventCount" yaml:"eventCount"`
	StepCount  int    `json:"stepCount" yaml:"stepCount"`
	TabCount   int    `json:"tabCount" yaml:"tabCount"`
	RecordedAt string `json:"recordedAt,omitempty" yaml:"recordedAt,omitempty"`
	Name       string `json:"name,omitempty" yaml:"name,omitempty"`
}

// Workflow is the normalized output of a recording
type Workflow struct {
	ID       string           `json:"id" yaml:"id"`
	Steps    []Step           `json:"steps" yaml:"steps"`
	Metadata WorkflowMetadata `json:"metadata" yaml:"metadata"`
}

// StartURL returns the url of the first navigation step, falling back to
// the first step's tab url
func (w *Workflow) StartURL() string {
	for _, step := range w.Steps {
		if step.Type == StepNavigate && step.URL != "" {
			return step.URL
		}
	}
	if len(w.Steps) > 0 {
		return w.Steps[0].TabURL
	}
	return ""
}
