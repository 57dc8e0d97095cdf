package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/iksnae/workflow-recorder/internal"
	"github.com/iksnae/workflow-recorder/internal/export"
	"github.com/spf13/cobra"
)

var (
	format     string
	outputDir  string
	workflowID string
	exportAll  bool
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export workflows to file",
	Long: `Export archived workflows to various formats (json, jsonl, yaml, md).

Export one workflow with --id, or every archived workflow with --all.
Use 'workflow-recorder list' to see available workflow IDs.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if workflowID == "" && !exportAll {
			return fmt.Errorf("specify --id <workflow-id> or --all")
		}

		exporter, err := export.NewExporter(format)
		if err != nil {
			return err
		}

		archive, err := openArchive()
		if err != nil {
			return err
		}
		defer archive.Close()

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		var ids []string
		if workflowID != "" {
			id, err := archive.ResolveID(ctx, workflowID)
			if err != nil {
				return fmt.Errorf("%w (use 'workflow-recorder list' to see available workflows)", err)
			}
			ids = append(ids, id)
		} else {
			summaries, err := archive.ListWorkflows(ctx)
			if err != nil {
				return err
			}
			for _, s := range summaries {
				ids = append(ids, s.ID)
			}
		}

		dir := outputDir
		if dir == "" {
			dir = dataPaths.ExportDir
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return &internal.ExportError{Format: format, Path: dir, Err: err}
		}

		exported := 0
		err = internal.ShowProgress(ctx, fmt.Sprintf("Exporting %d workflow(s) to %s", len(ids), dir), func() error {
			for _, id := range ids {
				wf, err := archive.LoadWorkflow(ctx, id)
				if err != nil {
					internal.LogError("Failed to load workflow %s: %v", id, err)
					continue
				}
				path := filepath.Join(dir, fmt.Sprintf("workflow_%s.%s", wf.ID, exporter.Extension()))
				if err := writeExport(exporter, wf, path); err != nil {
					internal.LogError("%v", err)
					continue
				}
				exported++
			}
			return nil
		})
		if err != nil {
			return err
		}

		internal.PrintSuccess(fmt.Sprintf("Export complete: %d workflow(s) exported to %s", exported, dir))
		return nil
	},
}

// writeExport renders wf to path
func writeExport(exporter export.Exporter, wf *internal.Workflow, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return &internal.ExportError{Format: exporter.Extension(), Path: path, Err: err}
	}
	if err := exporter.Export(wf, file); err != nil {
		_ = file.Close()
		return &internal.ExportError{Format: exporter.Extension(), Path: path, Err: err}
	}
	if err := file.Close(); err != nil {
		return &internal.ExportError{Format: exporter.Extension(), Path: path, Err: err}
	}
	return nil
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&format, "format", "f", "json", "Export format (json, jsonl, yaml, md)")
	exportCmd.Flags().StringVarP(&outputDir, "out", "o", "", "Output directory (default <data-dir>/exports)")
	exportCmd.Flags().StringVar(&workflowID, "id", "", "Export a specific workflow by ID or unique prefix")
	exportCmd.Flags().BoolVar(&exportAll, "all", false, "Export every archived workflow")
}
