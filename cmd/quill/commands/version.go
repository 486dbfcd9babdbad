package commands

import (
	"github.com/spf13/cobra"

	"github.com/quillbase/quill/pkg/version"
)

// NewVersionCommand prints the binary's build metadata.
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the quill version",
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.Println("quill " + version.String())

			return nil
		},
	}
}
