package commands

import (
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/quillbase/quill/internal/history"
	"github.com/quillbase/quill/pkg/msgcodec"
)

// BackupCommand holds the configuration for the backup command.
type BackupCommand struct {
	message string
	tag     string
}

// NewBackupCommand creates the backup command.
func NewBackupCommand() *cobra.Command {
	bc := &BackupCommand{}

	cobraCmd := &cobra.Command{
		Use:   "backup",
		Short: "Commit everything and tag a dated snapshot",
		Long: `Commit all outstanding changes with the project's total word count
encoded in the message, then tag the result backup-<date>. A clean tree
still gets a tag. With --tag, an additional draft-<tag> name is created
for the same snapshot.`,
		Args: cobra.NoArgs,
		RunE: bc.run,
	}

	cobraCmd.Flags().StringVarP(&bc.message, "message", "m", "", "backup message")
	cobraCmd.Flags().StringVarP(&bc.tag, "tag", "t", "", "also tag the snapshot draft-<tag>")

	return cobraCmd
}

func (bc *BackupCommand) run(cmd *cobra.Command, _ []string) error {
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.close()

	tagName, err := e.engine.CreateBackup(bc.message)
	if err != nil {
		return err
	}

	success("Backed up as %s", tagName)

	if bc.tag != "" {
		draftName := "draft-" + bc.tag

		err = e.sess.Repo().CreateTag(draftName, bc.message)
		if err != nil {
			return fmt.Errorf("create draft tag: %w", err)
		}

		success("Tagged %s", draftName)
	}

	return nil
}

// RestoreCommand holds the configuration for the restore command.
type RestoreCommand struct {
	yes bool
}

// NewRestoreCommand creates the restore command.
func NewRestoreCommand() *cobra.Command {
	rc := &RestoreCommand{}

	cobraCmd := &cobra.Command{
		Use:   "restore TAG",
		Short: "Restore a snapshot onto a new branch",
		Long: `Check out the named snapshot's content onto a new restore-<tag> branch.
Uncommitted edits are saved to the branch you were on first, so nothing is
lost; merge the restore branch back if you want to keep the older version.`,
		Args: cobra.ExactArgs(1),
		RunE: rc.run,
	}

	cobraCmd.Flags().BoolVarP(&rc.yes, "yes", "y", false, "skip the confirmation prompt")

	return cobraCmd
}

func (rc *RestoreCommand) run(cmd *cobra.Command, args []string) error {
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.close()

	if !rc.yes {
		confirmed := false
		prompt := &survey.Confirm{
			Message: fmt.Sprintf("Restore snapshot %s onto a new branch?", args[0]),
			Default: true,
		}

		err = survey.AskOne(prompt, &confirmed)
		if err != nil || !confirmed {
			note("Restore cancelled")

			return nil
		}
	}

	branch, err := e.engine.RestoreSnapshot(args[0])
	if err != nil {
		return err
	}

	success("Restored %s onto branch %s", args[0], branch)
	note("Your previous branch keeps all your work, including unsaved edits; merge %s back when ready", branch)

	return nil
}

// CompareCommand holds the configuration for the compare command.
type CompareCommand struct {
	file string
}

// NewCompareCommand creates the compare command.
func NewCompareCommand() *cobra.Command {
	cc := &CompareCommand{}

	cobraCmd := &cobra.Command{
		Use:   "compare TAG_A TAG_B",
		Short: "Compare two snapshots",
		Long: `Compare two snapshots at stat level: files changed, lines inserted and
deleted, and the estimated net word change. With --file, additionally shows
a word-level prose diff of that file between the snapshots.`,
		Args: cobra.ExactArgs(2),
		RunE: cc.run,
	}

	cobraCmd.Flags().StringVar(&cc.file, "file", "", "show a prose diff of one file")

	return cobraCmd
}

func (cc *CompareCommand) run(cmd *cobra.Command, args []string) error {
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.close()

	cmp, err := e.engine.CompareVersions(args[0], args[1])
	if err != nil {
		return err
	}

	fmt.Printf("%d files changed, %d insertions, %d deletions (net ~%+d words)\n",
		cmp.Diff.FilesChanged, cmp.Diff.Insertions, cmp.Diff.Deletions, cmp.Diff.NetWordChange)

	for _, file := range cmp.Files {
		fmt.Printf("  %s\n", file)
	}

	if cc.file != "" {
		changes, diffErr := e.reporter.CompareFile(args[0], args[1], cc.file)
		if diffErr != nil {
			return diffErr
		}

		fmt.Println()
		fmt.Println(history.RenderProse(changes))
	}

	return nil
}

// NewSnapshotsCommand creates the snapshots listing command.
func NewSnapshotsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "snapshots",
		Short: "List snapshot tags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := openEnv(cmd)
			if err != nil {
				return err
			}
			defer e.close()

			tags, err := e.sess.Repo().ListTags()
			if err != nil {
				return err
			}

			if len(tags) == 0 {
				note("No snapshots yet; run 'quill backup' to create one")

				return nil
			}

			writer := table.NewWriter()
			writer.SetOutputMirror(os.Stdout)
			writer.AppendHeader(table.Row{"Snapshot", "Words", "Message"})

			for _, tag := range tags {
				words := "-"
				if count, ok := msgcodec.Decode(tag.Message); ok {
					words = fmt.Sprintf("%d", count)
				}

				writer.AppendRow(table.Row{tag.Name, words, firstLine(tag.Message)})
			}

			writer.Render()

			return nil
		},
	}
}
