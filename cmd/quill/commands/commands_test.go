package commands_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillbase/quill/cmd/quill/commands"
	"github.com/quillbase/quill/pkg/gitlib"
)

// newRoot mirrors the persistent flag setup in main.
func newRoot(subcommands ...*cobra.Command) *cobra.Command {
	root := &cobra.Command{Use: "quill", SilenceUsage: true, SilenceErrors: true}
	root.PersistentFlags().StringP("project", "p", ".", "")
	root.PersistentFlags().String("config", "", "")
	root.PersistentFlags().BoolP("verbose", "v", false, "")
	root.PersistentFlags().String("token", "", "")
	root.AddCommand(subcommands...)

	return root
}

func isolate(t *testing.T) string {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("GITHUB_TOKEN", "")
	t.Setenv("GH_TOKEN", "")

	return t.TempDir()
}

func TestHistoryCommandFlags(t *testing.T) {
	cmd := commands.NewHistoryCommand()

	assert.NotNil(t, cmd.Flags().Lookup("limit"))
	assert.NotNil(t, cmd.Flags().Lookup("file"))
	assert.Equal(t, "n", cmd.Flags().Lookup("limit").Shorthand)
}

func TestCommitCommandRequiresMessage(t *testing.T) {
	project := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(project, "ch.md"), []byte("five words of plain text"), 0o644))

	root := newRoot(commands.NewCommitCommand())
	root.SetArgs([]string{"commit", "ch.md", "-p", project})

	err := root.Execute()
	require.Error(t, err, "commit without -m must fail")
}

func TestInitThenBackupAndHistory(t *testing.T) {
	project := isolate(t)

	root := newRoot(commands.NewInitCommand())
	root.SetArgs([]string{"init", project})
	require.NoError(t, root.Execute())
	assert.True(t, gitlib.IsRepository(project))

	require.NoError(t, os.WriteFile(filepath.Join(project, "ch.md"), []byte("a few words here"), 0o644))

	root = newRoot(commands.NewBackupCommand())
	root.SetArgs([]string{"backup", "-p", project, "-m", "checkpoint"})
	require.NoError(t, root.Execute())

	repo, err := gitlib.Open(project)
	require.NoError(t, err)

	defer repo.Free()

	tags, err := repo.ListTags()
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Contains(t, tags[0].Name, "backup-")
	assert.Contains(t, tags[0].Message, "total words")

	root = newRoot(commands.NewHistoryCommand())
	root.SetArgs([]string{"history", "-p", project})
	require.NoError(t, root.Execute())
}

func TestRestoreMissingSnapshotFails(t *testing.T) {
	project := isolate(t)

	root := newRoot(commands.NewInitCommand())
	root.SetArgs([]string{"init", project})
	require.NoError(t, root.Execute())

	root = newRoot(commands.NewRestoreCommand())
	root.SetArgs([]string{"restore", "draft-ghost", "-p", project, "--yes"})

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "snapshot not found")
}

func TestProgressCommandEmptyHistory(t *testing.T) {
	project := isolate(t)

	root := newRoot(commands.NewInitCommand())
	root.SetArgs([]string{"init", project})
	require.NoError(t, root.Execute())

	root = newRoot(commands.NewProgressCommand())
	root.SetArgs([]string{"progress", "-p", project})
	require.NoError(t, root.Execute())
}
