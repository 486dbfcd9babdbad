package commands

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

// NewStatusCommand creates the status command.
func NewStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show uncommitted changes and sync state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := openEnv(cmd)
			if err != nil {
				return err
			}
			defer e.close()

			status, err := e.sess.Repo().Status()
			if err != nil {
				return err
			}

			fmt.Printf("On branch %s\n", status.Branch)

			if status.HasUpstream {
				fmt.Printf("Ahead %d, behind %d of the tracked remote\n", status.Ahead, status.Behind)
			}

			if status.IsClean() {
				success("Working tree clean")

				return nil
			}

			writer := table.NewWriter()
			writer.SetOutputMirror(os.Stdout)
			writer.AppendHeader(table.Row{"Change", "File"})

			for _, file := range status.Files {
				writer.AppendRow(table.Row{file.Kind.String(), file.Path})
			}

			writer.Render()

			return nil
		},
	}
}
