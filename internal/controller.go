package internal

import (
	"context"
	"errors"
)

// Message types accepted by the controller
const (
	MsgStartRecording     = "START_RECORDING"
	MsgStopRecording      = "STOP_RECORDING"
	MsgGetRecordingData   = "GET_RECORDING_DATA"
	MsgGetRecordingStatus = "GET_RECORDING_STATUS"
	MsgRecordEvent        = "RECORD_EVENT"
)

// Error strings reported on the wire
const (
	wireUnknownEventType = "Unknown event type"
	wireUnknownMessage   = "Unknown message type"
	wireNotRecording     = "Not recording"
)

// Message is a control or ingest request from the extension
type Message struct {
	Type      string    `json:"type"`
	TabID     *TabID    `json:"tabId,omitempty"`
	EventType EventTag  `json:"eventType,omitempty"`
	Data      EventData `json:"data"`
}

// Response is the synchronous reply to a Message. Only the fields relevant
// to the message type are set.
type Response struct {
	Success     bool      `json:"success"`
	Error       string    `json:"error,omitempty"`
	StartTime   *int64    `json:"startTime,omitempty"`
	WorkflowID  string    `json:"workflowId,omitempty"`
	Workflow    *Workflow `json:"workflow,omitempty"`
	IsRecording *bool     `json:"isRecording,omitempty"`
	Duration    *int64    `json:"duration,omitempty"`
	EventCount  *int      `json:"eventCount,omitempty"`
	TabCount    *int      `json:"tabCount,omitempty"`
}

// WorkflowSaver persists stopped workflows
type WorkflowSaver interface {
	SaveWorkflow(ctx context.Context, w *Workflow) error
}

// Controller dispatches messages to a Recorder
type Controller struct {
	recorder *Recorder
	saver    WorkflowSaver
}

// NewController creates a controller. saver may be nil; when set, every
// successful stop is persisted.
func NewController(recorder *Recorder, saver WorkflowSaver) *Controller {
	return &Controller{recorder: recorder, saver: saver}
}

// Recorder returns the controlled recorder
func (c *Controller) Recorder() *Recorder {
	return c.recorder
}

// Handle processes one message
func (c *Controller) Handle(ctx context.Context, msg Message) Response {
	switch msg.Type {
	case MsgStartRecording:
		res := c.recorder.Start(msg.TabID)
		return Response{Success: res.Success, StartTime: &res.StartTime, WorkflowID: res.WorkflowID}

	case MsgStopRecording:
		res := c.recorder.Stop()
		if !res.Success {
			return Response{Success: false, Error: wireNotRecording}
		}
		if c.saver != nil {
			if err := c.saver.SaveWorkflow(ctx, res.Workflow); err != nil {
				LogError("Failed to archive workflow %s: %v", res.Workflow.ID, err)
			}
		}
		return Response{Success: true, Workflow: res.Workflow}

	case MsgGetRecordingData:
		return Response{Success: true, Workflow: c.recorder.Workflow()}

	case MsgGetRecordingStatus:
		st := c.recorder.Status()
		return Response{
			Success:     true,
			IsRecording: &st.IsRecording,
			StartTime:   &st.StartTime,
			Duration:    &st.Duration,
			EventCount:  &st.EventCount,
			TabCount:    &st.TabCount,
		}

	case MsgRecordEvent:
		var tab TabID
		if msg.TabID != nil {
			tab = *msg.TabID
		}
		if err := c.recorder.Ingest(ctx, msg.EventType, tab, msg.Data); err != nil {
			if errors.Is(err, ErrUnknownEventType) {
				return Response{Success: false, Error: wireUnknownEventType}
			}
			return Response{Success: false, Error: err.Error()}
		}
		return Response{Success: true}

	default:
		LogWarn("Unknown message type %q", msg.Type)
		return Response{Success: false, Error: wireUnknownMessage}
	}
}
