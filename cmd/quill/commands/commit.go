package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/quillbase/quill/pkg/gitlib"
)

// CommitCommand holds the configuration for the commit command.
type CommitCommand struct {
	message string
}

// NewCommitCommand creates the chapter commit command.
func NewCommitCommand() *cobra.Command {
	cc := &CommitCommand{}

	cobraCmd := &cobra.Command{
		Use:   "commit FILE",
		Short: "Commit one chapter file with its word count",
		Long: `Commit a single file. The file's word count is appended to the commit
message, e.g. "First line (5 words)", so later history and progress views
can decode it.`,
		Args: cobra.ExactArgs(1),
		RunE: cc.run,
	}

	cobraCmd.Flags().StringVarP(&cc.message, "message", "m", "", "commit message")
	_ = cobraCmd.MarkFlagRequired("message")

	return cobraCmd
}

func (cc *CommitCommand) run(cmd *cobra.Command, args []string) error {
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.close()

	hash, err := e.engine.CommitChapter(args[0], cc.message)
	if err != nil {
		if errors.Is(err, gitlib.ErrNoChanges) {
			note("No changes in %s", args[0])

			return nil
		}

		return err
	}

	success("Committed %s (%s)", args[0], hash[:shortHashLen])

	return nil
}
