package gitlib

import (
	"fmt"

	git2go "github.com/libgit2/git2go/v34"
)

// BranchExists reports whether a local branch with the given name exists.
func (r *Repository) BranchExists(name string) bool {
	branch, err := r.repo.LookupBranch(name, git2go.BranchLocal)
	if err != nil {
		return false
	}

	branch.Free()

	return true
}

// CreateBranch creates a local branch at the given commit without
// checking it out.
func (r *Repository) CreateBranch(name string, target *Commit) error {
	branch, err := r.repo.CreateBranch(name, target.Native(), false)
	if err != nil {
		return fmt.Errorf("create branch %s: %w", name, err)
	}

	branch.Free()

	return nil
}

// DeleteBranch removes a local branch. The branch must not be checked out.
func (r *Repository) DeleteBranch(name string) error {
	branch, err := r.repo.LookupBranch(name, git2go.BranchLocal)
	if err != nil {
		return fmt.Errorf("lookup branch %s: %w", name, err)
	}
	defer branch.Free()

	err = branch.Delete()
	if err != nil {
		return fmt.Errorf("delete branch %s: %w", name, err)
	}

	return nil
}

// CheckoutBranch makes the named local branch current and updates the
// working tree to its content.
func (r *Repository) CheckoutBranch(name string) error {
	branch, err := r.repo.LookupBranch(name, git2go.BranchLocal)
	if err != nil {
		return fmt.Errorf("lookup branch %s: %w", name, err)
	}
	defer branch.Free()

	commit, err := r.repo.LookupCommit(branch.Target())
	if err != nil {
		return fmt.Errorf("lookup branch commit: %w", err)
	}
	defer commit.Free()

	tree, err := commit.Tree()
	if err != nil {
		return fmt.Errorf("get branch tree: %w", err)
	}
	defer tree.Free()

	err = r.repo.CheckoutTree(tree, &git2go.CheckoutOptions{
		Strategy: git2go.CheckoutSafe | git2go.CheckoutRecreateMissing,
	})
	if err != nil {
		return fmt.Errorf("checkout tree: %w", err)
	}

	err = r.repo.SetHead("refs/heads/" + name)
	if err != nil {
		return fmt.Errorf("set HEAD to %s: %w", name, err)
	}

	return nil
}
