package cmd

import (
	"fmt"
	"time"

	"github.com/iksnae/workflow-recorder/internal"
	"github.com/iksnae/workflow-recorder/internal/server"
	"github.com/spf13/cobra"
)

var (
	agentAddr string
	startTab  int
)

func agentClient() *server.Client {
	if agentAddr != "" {
		return server.NewClient(agentAddr)
	}
	return server.NewClient(settings.Addr)
}

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start recording on a running agent",
	RunE: func(cmd *cobra.Command, args []string) error {
		msg := internal.Message{Type: internal.MsgStartRecording}
		if cmd.Flags().Changed("tab") {
			tab := internal.TabID(startTab)
			msg.TabID = &tab
		}
		resp, err := agentClient().Send(cmd.Context(), msg)
		if err != nil {
			return err
		}
		if !resp.Success {
			internal.PrintError(resp.Error)
			return fmt.Errorf("start failed: %s", resp.Error)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s workflow %s\n", internal.RenderRecordingState(true), resp.WorkflowID)
		return nil
	},
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop recording on a running agent",
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := agentClient().Send(cmd.Context(), internal.Message{Type: internal.MsgStopRecording})
		if err != nil {
			return err
		}
		if !resp.Success {
			internal.PrintError(resp.Error)
			return fmt.Errorf("stop failed: %s", resp.Error)
		}
		wf := resp.Workflow
		fmt.Fprintf(cmd.OutOrStdout(), "%s workflow %s: %d step(s) across %d tab(s)\n",
			internal.RenderRecordingState(false), wf.ID, len(wf.Steps), wf.Metadata.TabCount)
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the recording state of a running agent",
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := agentClient().Send(cmd.Context(), internal.Message{Type: internal.MsgGetRecordingStatus})
		if err != nil {
			return err
		}
		if !resp.Success || resp.IsRecording == nil {
			return fmt.Errorf("status failed: %s", resp.Error)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, internal.RenderRecordingState(*resp.IsRecording))
		if *resp.IsRecording {
			fmt.Fprintf(out, "Duration: %s\n", (time.Duration(*resp.Duration) * time.Millisecond).Round(time.Second))
		}
		fmt.Fprintf(out, "Events: %d\nTabs: %d\n", *resp.EventCount, *resp.TabCount)
		if !*resp.IsRecording && *resp.StartTime == 0 {
			internal.PrintInfo("Nothing recorded yet, run `workflow-recorder start`")
		}
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{startCmd, stopCmd, statusCmd} {
		c.Flags().StringVar(&agentAddr, "agent", "", "Agent address (default: configured addr)")
		rootCmd.AddCommand(c)
	}
	startCmd.Flags().IntVar(&startTab, "tab", 0, "Only reset this tab's events")
}
