package gitlib

import (
	"fmt"

	git2go "github.com/libgit2/git2go/v34"
)

// StashSave stashes the working tree and index under message, including
// untracked files. Returns false when there was nothing to stash.
func (r *Repository) StashSave(message string) (bool, error) {
	sig := r.signature()

	_, err := r.repo.Stashes.Save(sig, message, git2go.StashIncludeUntracked)
	if err != nil {
		if IsNotFound(err) {
			// Nothing to stash on a clean tree.
			return false, nil
		}

		return false, fmt.Errorf("stash save: %w", err)
	}

	return true, nil
}

// StashPop applies and drops the most recent stash entry.
func (r *Repository) StashPop() error {
	opts, err := git2go.DefaultStashApplyOptions()
	if err != nil {
		return fmt.Errorf("get stash apply options: %w", err)
	}

	err = r.repo.Stashes.Pop(0, opts)
	if err != nil {
		return fmt.Errorf("stash pop: %w", err)
	}

	return nil
}
