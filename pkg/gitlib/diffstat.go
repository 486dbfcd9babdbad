package gitlib

import (
	"fmt"

	git2go "github.com/libgit2/git2go/v34"
)

// DiffStat is a stat-level summary of a diff: enough for progress
// reporting, without hunk or line detail.
type DiffStat struct {
	FilesChanged int
	Insertions   int
	Deletions    int
	Files        []string
}

// DiffCommits computes the stat diff between two commits' trees, with
// rename detection enabled.
func (r *Repository) DiffCommits(from, to *Commit) (*DiffStat, error) {
	fromTree, err := from.Native().Tree()
	if err != nil {
		return nil, fmt.Errorf("get from-tree: %w", err)
	}
	defer fromTree.Free()

	toTree, err := to.Native().Tree()
	if err != nil {
		return nil, fmt.Errorf("get to-tree: %w", err)
	}
	defer toTree.Free()

	opts, err := git2go.DefaultDiffOptions()
	if err != nil {
		return nil, fmt.Errorf("get diff options: %w", err)
	}

	diff, err := r.repo.DiffTreeToTree(fromTree, toTree, &opts)
	if err != nil {
		return nil, fmt.Errorf("diff trees: %w", err)
	}

	return r.summarize(diff)
}

// DiffCommitToWorkdir computes the stat diff between a commit's tree and
// the working tree (including the index). Read-only: neither the working
// tree nor the index is touched.
func (r *Repository) DiffCommitToWorkdir(from *Commit) (*DiffStat, error) {
	fromTree, err := from.Native().Tree()
	if err != nil {
		return nil, fmt.Errorf("get from-tree: %w", err)
	}
	defer fromTree.Free()

	opts, err := git2go.DefaultDiffOptions()
	if err != nil {
		return nil, fmt.Errorf("get diff options: %w", err)
	}

	opts.Flags |= git2go.DiffIncludeUntracked | git2go.DiffRecurseUntracked

	diff, err := r.repo.DiffTreeToWorkdirWithIndex(fromTree, &opts)
	if err != nil {
		return nil, fmt.Errorf("diff tree to workdir: %w", err)
	}

	return r.summarize(diff)
}

// FileContentAt returns the content of path in the given commit's tree.
func (r *Repository) FileContentAt(commit *Commit, path string) ([]byte, error) {
	tree, err := commit.Native().Tree()
	if err != nil {
		return nil, fmt.Errorf("get tree: %w", err)
	}
	defer tree.Free()

	entry, err := tree.EntryByPath(path)
	if err != nil {
		return nil, fmt.Errorf("lookup %s: %w", path, err)
	}

	blob, err := r.repo.LookupBlob(entry.Id)
	if err != nil {
		return nil, fmt.Errorf("lookup blob for %s: %w", path, err)
	}
	defer blob.Free()

	return blob.Contents(), nil
}

// summarize folds a libgit2 diff into a DiffStat and frees the diff.
func (r *Repository) summarize(diff *git2go.Diff) (*DiffStat, error) {
	defer func() { _ = diff.Free() }()

	findOpts, err := git2go.DefaultDiffFindOptions()
	if err == nil {
		findOpts.Flags = git2go.DiffFindRenames
		// Rename detection failures degrade to add+delete pairs.
		_ = diff.FindSimilar(&findOpts)
	}

	stats, err := diff.Stats()
	if err != nil {
		return nil, fmt.Errorf("get diff stats: %w", err)
	}

	result := &DiffStat{
		FilesChanged: stats.FilesChanged(),
		Insertions:   stats.Insertions(),
		Deletions:    stats.Deletions(),
	}

	_ = stats.Free()

	numDeltas, err := diff.NumDeltas()
	if err != nil {
		return nil, fmt.Errorf("get num deltas: %w", err)
	}

	result.Files = make([]string, 0, numDeltas)

	for i := range numDeltas {
		delta, deltaErr := diff.Delta(i)
		if deltaErr != nil {
			continue
		}

		path := delta.NewFile.Path
		if path == "" {
			path = delta.OldFile.Path
		}

		result.Files = append(result.Files, path)
	}

	return result, nil
}

// TouchedPath reports whether the commit changed path relative to its first
// parent, and returns the path's earlier name when the commit renamed it.
// Root commits count as touching every path present in their tree.
func (r *Repository) TouchedPath(commit *Commit, path string) (touched bool, previousName string, err error) {
	tree, err := commit.Native().Tree()
	if err != nil {
		return false, "", fmt.Errorf("get tree: %w", err)
	}
	defer tree.Free()

	if commit.NumParents() == 0 {
		_, lookupErr := tree.EntryByPath(path)

		return lookupErr == nil, path, nil
	}

	parent := commit.Parent(0)
	if parent == nil {
		return false, "", nil
	}
	defer parent.Free()

	parentTree, err := parent.Native().Tree()
	if err != nil {
		return false, "", fmt.Errorf("get parent tree: %w", err)
	}
	defer parentTree.Free()

	opts, err := git2go.DefaultDiffOptions()
	if err != nil {
		return false, "", fmt.Errorf("get diff options: %w", err)
	}

	diff, err := r.repo.DiffTreeToTree(parentTree, tree, &opts)
	if err != nil {
		return false, "", fmt.Errorf("diff trees: %w", err)
	}
	defer func() { _ = diff.Free() }()

	findOpts, err := git2go.DefaultDiffFindOptions()
	if err == nil {
		findOpts.Flags = git2go.DiffFindRenames
		_ = diff.FindSimilar(&findOpts)
	}

	numDeltas, err := diff.NumDeltas()
	if err != nil {
		return false, "", fmt.Errorf("get num deltas: %w", err)
	}

	for i := range numDeltas {
		delta, deltaErr := diff.Delta(i)
		if deltaErr != nil {
			continue
		}

		if delta.NewFile.Path == path {
			return true, delta.OldFile.Path, nil
		}
	}

	return false, "", nil
}
