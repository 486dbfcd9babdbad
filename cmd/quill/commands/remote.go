package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quillbase/quill/internal/githubapi"
	"github.com/quillbase/quill/internal/quillerr"
	"github.com/quillbase/quill/pkg/gitlib"
)

// RemoteCommand holds the configuration for the remote command.
type RemoteCommand struct {
	private     bool
	description string
}

// NewRemoteCommand creates the remote provisioning command.
func NewRemoteCommand() *cobra.Command {
	rc := &RemoteCommand{}

	cobraCmd := &cobra.Command{
		Use:   "remote NAME",
		Short: "Create a hosted repository and wire it as the remote",
		Long: `Create a repository on the hosting service with the given name and
configure it as this project's remote. Requires a token, discovered from
--token, GITHUB_TOKEN / GH_TOKEN, ~/.config/quill/token, or the project's
.env file, in that order.`,
		Args: cobra.ExactArgs(1),
		RunE: rc.run,
	}

	cobraCmd.Flags().BoolVar(&rc.private, "private", true, "create the hosted repository private")
	cobraCmd.Flags().StringVar(&rc.description, "description", "", "hosted repository description")

	return cobraCmd
}

func (rc *RemoteCommand) run(cmd *cobra.Command, args []string) error {
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.close()

	token := e.sess.Token()
	if token == "" {
		return &quillerr.RemoteAuthError{
			Remote: "github.com",
			Err:    errors.New("no token found"),
		}
	}

	client := githubapi.NewClient(token, "")

	repo, err := client.CreateRepository(args[0], rc.description, rc.private)
	if err != nil {
		return err
	}

	err = e.sess.Repo().EnsureRemote(e.cfg.Remote.Name, repo.CloneURL)
	if err != nil {
		return err
	}

	success("Created %s and set remote %q", repo.FullName, e.cfg.Remote.Name)

	return nil
}

// NewSyncCommand creates the sync command.
func NewSyncCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Pull then push the current branch",
		Long: `Fetch the remote, fast-forward the current branch when it is behind,
then push. Diverged branches are reported for manual merging rather than
merged automatically.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := openEnv(cmd)
			if err != nil {
				return err
			}
			defer e.close()

			repo := e.sess.Repo()
			remoteName := e.cfg.Remote.Name
			token := e.sess.Token()

			branch, err := repo.CurrentBranch()
			if err != nil {
				return err
			}

			err = repo.Fetch(remoteName, token)
			if err != nil {
				return wrapRemoteErr(remoteName, err)
			}

			err = repo.FastForward(remoteName)
			if err != nil && !gitlib.IsNotFound(err) {
				// A missing upstream ref just means nothing was pushed yet.
				return err
			}

			err = repo.Push(remoteName, branch, token)
			if err != nil {
				return wrapRemoteErr(remoteName, err)
			}

			success("Synced %s with %s", branch, remoteName)

			return nil
		},
	}
}

// wrapRemoteErr maps credential rejections onto actionable guidance.
func wrapRemoteErr(remote string, err error) error {
	if gitlib.IsAuthFailure(err) {
		return &quillerr.RemoteAuthError{Remote: remote, Err: err}
	}

	return fmt.Errorf("sync with %s: %w", remote, err)
}
