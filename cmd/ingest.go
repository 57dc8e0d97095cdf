package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/iksnae/workflow-recorder/internal"
	"github.com/spf13/cobra"
)

// MsgTabEvent marks a tab lifecycle line in a message log
const MsgTabEvent = "TAB_EVENT"

var (
	ingestName   string
	ingestDryRun bool
)

// logRecord is one line of a message log: a controller message, or a
// TAB_EVENT line carrying a tab signal
type logRecord struct {
	internal.Message
	Event  string `json:"event,omitempty"`
	URL    string `json:"url,omitempty"`
	Title  string `json:"title,omitempty"`
	Status string `json:"status,omitempty"`
	// Timestamp dates control and tab lines; events carry data.timestamp
	Timestamp int64 `json:"timestamp,omitempty"`

	line int
}

var ingestCmd = &cobra.Command{
	Use:   "ingest <messages.jsonl>",
	Short: "Replay a captured message log into the archive",
	Long: `Replay a JSONL log of extension messages through the recorder and archive
every workflow it produces.

Each line is a message as posted to /api/messages, or a tab signal:
  {"type":"START_RECORDING","timestamp":1700000000000}
  {"type":"TAB_EVENT","event":"updated","tabId":1,"status":"complete","url":"https://example.com"}
  {"type":"RECORD_EVENT","tabId":1,"eventType":"click","data":{"selector":"#go","timestamp":1700000000000}}
  {"type":"STOP_RECORDING"}

Recording starts automatically if the log records before starting, and a
recording still running at the end of the log is stopped. Use "-" to read
from stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var in io.Reader = cmd.InOrStdin()
		if args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open message log: %w", err)
			}
			defer f.Close()
			in = f
		}

		workflows, err := replayLog(cmd.Context(), settings.RecorderOptions(), in)
		if err != nil {
			return err
		}
		if len(workflows) == 0 {
			internal.PrintWarning("No workflows produced")
			return nil
		}

		if ingestDryRun {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(workflows)
		}

		archive, err := openArchive()
		if err != nil {
			return err
		}
		defer archive.Close()

		for i, wf := range workflows {
			if ingestName != "" {
				wf.Metadata.Name = ingestName
				if len(workflows) > 1 {
					wf.Metadata.Name = fmt.Sprintf("%s (%d)", ingestName, i+1)
				}
			}
			if err := archive.SaveWorkflow(cmd.Context(), wf); err != nil {
				return err
			}
			internal.PrintSuccess(fmt.Sprintf("Archived workflow %s (%d step(s))", wf.ID, len(wf.Steps)))
		}
		return nil
	},
}

// replayClock follows the timestamps found in a message log so that
// synthesized navigations and start/stop times line up with the events
type replayClock struct {
	ms int64
}

func (c *replayClock) Now() time.Time {
	if c.ms == 0 {
		return time.Now()
	}
	return time.UnixMilli(c.ms)
}

func (c *replayClock) observe(rec logRecord) {
	switch {
	case rec.Timestamp > 0:
		c.ms = rec.Timestamp
	case rec.Data.Timestamp > 0:
		c.ms = rec.Data.Timestamp
	}
}

// readLog decodes every non-blank, non-comment line of in
func readLog(in io.Reader) ([]logRecord, error) {
	var records []logRecord
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 16<<20)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		var rec logRecord
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			return nil, fmt.Errorf("line %d: invalid JSON: %w", lineNo, err)
		}
		rec.line = lineNo
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read message log: %w", err)
	}
	return records, nil
}

// replayLog feeds a message log through a fresh recorder and returns the
// workflows produced by each successful stop
func replayLog(ctx context.Context, opts internal.RecorderOptions, in io.Reader) ([]*internal.Workflow, error) {
	records, err := readLog(in)
	if err != nil {
		return nil, err
	}

	clock := &replayClock{}
	for _, rec := range records {
		clock.observe(rec)
		if clock.ms > 0 {
			break
		}
	}
	opts.Clock = clock
	ctrl := internal.NewController(internal.NewRecorder(opts), nil)
	recorder := ctrl.Recorder()

	var workflows []*internal.Workflow
	started := false
	for _, rec := range records {
		clock.observe(rec)

		if !started && (rec.Type == MsgTabEvent || rec.Type == internal.MsgRecordEvent) {
			internal.LogDebug("line %d: starting recording implicitly", rec.line)
			ctrl.Handle(ctx, internal.Message{Type: internal.MsgStartRecording})
		}
		if rec.Type == internal.MsgStartRecording || rec.Type == MsgTabEvent || rec.Type == internal.MsgRecordEvent {
			started = true
		}

		if rec.Type == MsgTabEvent {
			if err := applyTabEvent(recorder, rec); err != nil {
				return nil, fmt.Errorf("line %d: %w", rec.line, err)
			}
			continue
		}

		resp := ctrl.Handle(ctx, rec.Message)
		if !resp.Success {
			internal.LogWarn("line %d: %s rejected: %s", rec.line, rec.Type, resp.Error)
			continue
		}
		if rec.Type == internal.MsgStopRecording && resp.Workflow != nil {
			workflows = append(workflows, resp.Workflow)
		}
	}

	if recorder.IsRecording() {
		if resp := ctrl.Handle(ctx, internal.Message{Type: internal.MsgStopRecording}); resp.Success {
			workflows = append(workflows, resp.Workflow)
		}
	}
	return workflows, nil
}

func applyTabEvent(recorder *internal.Recorder, rec logRecord) error {
	var tab internal.TabID
	if rec.TabID != nil {
		tab = *rec.TabID
	}
	info := internal.TabInfo{ID: tab, URL: rec.URL, Title: rec.Title, Status: rec.Status}

	switch rec.Event {
	case "created":
		recorder.TabCreated(info)
	case "updated":
		recorder.TabUpdated(info)
	case "activated":
		recorder.TabActivated(tab)
	case "removed":
		recorder.TabRemoved(tab)
	default:
		return fmt.Errorf("unknown tab event %q", rec.Event)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(ingestCmd)
	ingestCmd.Flags().StringVar(&ingestName, "name", "", "Name to store with the archived workflow(s)")
	ingestCmd.Flags().BoolVar(&ingestDryRun, "dry-run", false, "Print the workflows instead of archiving them")
}
