package commands

import (
	"github.com/spf13/cobra"

	"github.com/quillbase/quill/internal/session"
)

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init [path]",
		Short: "Initialize a manuscript project",
		Long: `Initialize a manuscript project at the given path (default: the
current directory). Safe to run on an existing project; nothing is
overwritten.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("project")
			if len(args) == 1 {
				path = args[0]
			}

			sess, err := session.Open(path, session.Options{})
			if err != nil {
				return err
			}
			defer sess.Close()

			success("Project ready at %s", sess.Path())

			return nil
		},
	}
}
