package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewDiffCommand creates the diff command.
func NewDiffCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "diff [FROM] [TO]",
		Short: "Show what changed between two points in history",
		Long: `Show a stat-level diff. With no arguments, compares the working tree
against the last commit. With one ref, compares that ref against the
working tree. With two refs, compares between them.`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd)
			if err != nil {
				return err
			}
			defer e.close()

			var fromRef, toRef string

			if len(args) > 0 {
				fromRef = args[0]
			}

			if len(args) > 1 {
				toRef = args[1]
			}

			diff, err := e.reporter.Diff(fromRef, toRef)
			if err != nil {
				return err
			}

			fmt.Printf("%d files changed, %d insertions, %d deletions (net ~%+d words)\n",
				diff.FilesChanged, diff.Insertions, diff.Deletions, diff.NetWordChange)

			return nil
		},
	}
}
