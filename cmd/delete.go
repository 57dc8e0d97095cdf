package cmd

import (
	"fmt"

	"github.com/iksnae/workflow-recorder/internal"
	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:     "delete <workflow-id>",
	Aliases: []string{"rm"},
	Short:   "Delete an archived workflow",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		archive, err := openArchive()
		if err != nil {
			return err
		}
		defer archive.Close()

		id, err := archive.ResolveID(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if err := archive.DeleteWorkflow(cmd.Context(), id); err != nil {
			return err
		}
		internal.PrintSuccess(fmt.Sprintf("Deleted workflow %s", id))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
