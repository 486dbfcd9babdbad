package gitlib

import (
	"fmt"

	git2go "github.com/libgit2/git2go/v34"
)

// tokenUser is the username libgit2 presents when authenticating with a
// personal access token over HTTPS.
const tokenUser = "x-access-token"

// EnsureRemote creates the named remote with url, or updates its URL when
// it already exists.
func (r *Repository) EnsureRemote(name, url string) error {
	remote, err := r.repo.Remotes.Lookup(name)
	if err == nil {
		remote.Free()

		err = r.repo.Remotes.SetUrl(name, url)
		if err != nil {
			return fmt.Errorf("set remote %s url: %w", name, err)
		}

		return nil
	}

	remote, err = r.repo.Remotes.Create(name, url)
	if err != nil {
		return fmt.Errorf("create remote %s: %w", name, err)
	}

	remote.Free()

	return nil
}

// Remotes returns the configured remote names.
func (r *Repository) Remotes() ([]string, error) {
	names, err := r.repo.Remotes.List()
	if err != nil {
		return nil, fmt.Errorf("list remotes: %w", err)
	}

	return names, nil
}

// callbacks builds remote callbacks that authenticate with token when one
// is available. An empty token leaves operations anonymous.
func callbacks(token string) git2go.RemoteCallbacks {
	if token == "" {
		return git2go.RemoteCallbacks{}
	}

	return git2go.RemoteCallbacks{
		CredentialsCallback: func(_ string, _ string, _ git2go.CredentialType) (*git2go.Credential, error) {
			return git2go.NewCredentialUserpassPlaintext(tokenUser, token)
		},
	}
}

// Push pushes the named branch to the remote, authenticating with token
// when non-empty. The token never touches repository state.
func (r *Repository) Push(remoteName, branch, token string) error {
	remote, err := r.repo.Remotes.Lookup(remoteName)
	if err != nil {
		return fmt.Errorf("lookup remote %s: %w", remoteName, err)
	}
	defer remote.Free()

	refspec := fmt.Sprintf("refs/heads/%s:refs/heads/%s", branch, branch)

	err = remote.Push([]string{refspec}, &git2go.PushOptions{
		RemoteCallbacks: callbacks(token),
	})
	if err != nil {
		return fmt.Errorf("push %s to %s: %w", branch, remoteName, err)
	}

	return nil
}

// Fetch updates the remote-tracking refs for the named remote.
func (r *Repository) Fetch(remoteName, token string) error {
	remote, err := r.repo.Remotes.Lookup(remoteName)
	if err != nil {
		return fmt.Errorf("lookup remote %s: %w", remoteName, err)
	}
	defer remote.Free()

	err = remote.Fetch(nil, &git2go.FetchOptions{
		RemoteCallbacks: callbacks(token),
	}, "")
	if err != nil {
		return fmt.Errorf("fetch %s: %w", remoteName, err)
	}

	return nil
}

// FastForward advances the current branch to its upstream after a fetch.
// Only fast-forward moves are performed; diverged branches are left for the
// user to merge.
func (r *Repository) FastForward(remoteName string) error {
	branchName, err := r.CurrentBranch()
	if err != nil {
		return err
	}

	upstreamRef, err := r.repo.References.Lookup(
		fmt.Sprintf("refs/remotes/%s/%s", remoteName, branchName))
	if err != nil {
		return fmt.Errorf("lookup upstream ref: %w", err)
	}
	defer upstreamRef.Free()

	headRef, err := r.repo.Head()
	if err != nil {
		return fmt.Errorf("get HEAD: %w", err)
	}
	defer headRef.Free()

	ahead, behind, err := r.repo.AheadBehind(headRef.Target(), upstreamRef.Target())
	if err != nil {
		return fmt.Errorf("compare with upstream: %w", err)
	}

	if behind == 0 {
		return nil
	}

	if ahead > 0 {
		return fmt.Errorf("branch %s and %s/%s have diverged; merge manually",
			branchName, remoteName, branchName)
	}

	commit, err := r.repo.LookupCommit(upstreamRef.Target())
	if err != nil {
		return fmt.Errorf("lookup upstream commit: %w", err)
	}
	defer commit.Free()

	tree, err := commit.Tree()
	if err != nil {
		return fmt.Errorf("get upstream tree: %w", err)
	}
	defer tree.Free()

	// Local edits would make the safe checkout fail; park them in the
	// stash and put them back on top of the advanced branch.
	stashed, err := r.StashSave("quill: before fast-forward")
	if err != nil {
		return fmt.Errorf("stash working tree: %w", err)
	}

	err = r.repo.CheckoutTree(tree, &git2go.CheckoutOptions{
		Strategy: git2go.CheckoutSafe | git2go.CheckoutRecreateMissing,
	})
	if err != nil {
		if stashed {
			_ = r.StashPop()
		}

		return fmt.Errorf("checkout upstream tree: %w", err)
	}

	newRef, err := headRef.SetTarget(upstreamRef.Target(), "fast-forward")
	if err != nil {
		return fmt.Errorf("advance branch: %w", err)
	}

	newRef.Free()

	if stashed {
		err = r.StashPop()
		if err != nil {
			return fmt.Errorf("restore local edits after fast-forward: %w", err)
		}
	}

	return nil
}
