package gitlib

import (
	"errors"
	"fmt"

	git2go "github.com/libgit2/git2go/v34"
)

// ErrNoChanges is returned by CommitAll when the staged tree is identical to
// HEAD's tree.
var ErrNoChanges = errors.New("no changes to commit")

// ChangeKind classifies a working-tree change.
type ChangeKind int

const (
	// ChangeModified is a tracked file with content changes.
	ChangeModified ChangeKind = iota
	// ChangeAdded is a newly staged file.
	ChangeAdded
	// ChangeDeleted is a removed tracked file.
	ChangeDeleted
	// ChangeUntracked is a file the repository does not know yet.
	ChangeUntracked
)

// String returns the porcelain-style label for the change kind.
func (k ChangeKind) String() string {
	switch k {
	case ChangeModified:
		return "modified"
	case ChangeAdded:
		return "added"
	case ChangeDeleted:
		return "deleted"
	case ChangeUntracked:
		return "untracked"
	}

	return "unknown"
}

// FileStatus is one (path, change-kind) pair in the working tree.
type FileStatus struct {
	Path string
	Kind ChangeKind
}

// Status is the current uncommitted state of the working tree. Computed
// fresh on every call, never cached.
type Status struct {
	Branch      string
	Files       []FileStatus
	Ahead       int
	Behind      int
	HasUpstream bool
}

// IsClean reports whether the working tree has no pending changes.
func (s *Status) IsClean() bool {
	return len(s.Files) == 0
}

// Status computes the working-tree status, including ahead/behind counts
// against the tracked upstream when one exists.
func (r *Repository) Status() (*Status, error) {
	opts := &git2go.StatusOptions{
		Show:  git2go.StatusShowIndexAndWorkdir,
		Flags: git2go.StatusOptIncludeUntracked | git2go.StatusOptRenamesHeadToIndex,
	}

	list, err := r.repo.StatusList(opts)
	if err != nil {
		return nil, fmt.Errorf("get status: %w", err)
	}
	defer list.Free()

	count, err := list.EntryCount()
	if err != nil {
		return nil, fmt.Errorf("count status entries: %w", err)
	}

	status := &Status{Files: make([]FileStatus, 0, count)}

	for i := range count {
		entry, entryErr := list.ByIndex(i)
		if entryErr != nil {
			continue
		}

		file, ok := classifyEntry(entry)
		if ok {
			status.Files = append(status.Files, file)
		}
	}

	branch, err := r.CurrentBranch()
	if err == nil {
		status.Branch = branch
	}

	r.fillAheadBehind(status)

	return status, nil
}

// classifyEntry maps a libgit2 status bitmask onto a FileStatus.
func classifyEntry(entry git2go.StatusEntry) (FileStatus, bool) {
	path := entry.IndexToWorkdir.NewFile.Path
	if path == "" {
		path = entry.HeadToIndex.NewFile.Path
	}

	if path == "" {
		path = entry.HeadToIndex.OldFile.Path
	}

	switch {
	case entry.Status&git2go.StatusWtNew != 0:
		return FileStatus{Path: path, Kind: ChangeUntracked}, true
	case entry.Status&(git2go.StatusWtDeleted|git2go.StatusIndexDeleted) != 0:
		return FileStatus{Path: path, Kind: ChangeDeleted}, true
	case entry.Status&git2go.StatusIndexNew != 0:
		return FileStatus{Path: path, Kind: ChangeAdded}, true
	case entry.Status&(git2go.StatusWtModified|git2go.StatusIndexModified|git2go.StatusWtRenamed|git2go.StatusIndexRenamed) != 0:
		return FileStatus{Path: path, Kind: ChangeModified}, true
	}

	return FileStatus{}, false
}

// fillAheadBehind computes the ahead/behind counts versus the upstream
// branch. Missing upstream is not an error; the counts stay at zero.
func (r *Repository) fillAheadBehind(status *Status) {
	branch, err := r.repo.LookupBranch(status.Branch, git2go.BranchLocal)
	if err != nil {
		return
	}
	defer branch.Free()

	upstream, err := branch.Upstream()
	if err != nil {
		return
	}
	defer upstream.Free()

	ahead, behind, err := r.repo.AheadBehind(branch.Target(), upstream.Target())
	if err != nil {
		return
	}

	status.Ahead = ahead
	status.Behind = behind
	status.HasUpstream = true
}

// IsIgnored reports whether the repository's ignore rules exclude path,
// given relative to the repository root. Directories use a trailing slash.
func (r *Repository) IsIgnored(path string) bool {
	ignored, err := r.repo.IsPathIgnored(path)

	return err == nil && ignored
}

// StageAll stages every change in the working tree, including new files.
func (r *Repository) StageAll() error {
	index, err := r.repo.Index()
	if err != nil {
		return fmt.Errorf("open index: %w", err)
	}
	defer index.Free()

	err = index.AddAll([]string{"*"}, git2go.IndexAddDefault, nil)
	if err != nil {
		return fmt.Errorf("stage changes: %w", err)
	}

	err = index.UpdateAll([]string{"*"}, nil)
	if err != nil {
		return fmt.Errorf("stage deletions: %w", err)
	}

	err = index.Write()
	if err != nil {
		return fmt.Errorf("write index: %w", err)
	}

	return nil
}

// StagePath stages a single file.
func (r *Repository) StagePath(path string) error {
	index, err := r.repo.Index()
	if err != nil {
		return fmt.Errorf("open index: %w", err)
	}
	defer index.Free()

	err = index.AddByPath(path)
	if err != nil {
		return fmt.Errorf("stage %s: %w", path, err)
	}

	err = index.Write()
	if err != nil {
		return fmt.Errorf("write index: %w", err)
	}

	return nil
}

// Commit records the staged index as a commit on HEAD and returns its hash.
// Returns ErrNoChanges when the staged tree matches the current HEAD tree.
func (r *Repository) Commit(message string) (string, error) {
	index, err := r.repo.Index()
	if err != nil {
		return "", fmt.Errorf("open index: %w", err)
	}
	defer index.Free()

	treeOid, err := index.WriteTree()
	if err != nil {
		return "", fmt.Errorf("write tree: %w", err)
	}

	tree, err := r.repo.LookupTree(treeOid)
	if err != nil {
		return "", fmt.Errorf("lookup tree: %w", err)
	}
	defer tree.Free()

	var parents []*git2go.Commit

	headRef, err := r.repo.Head()
	if err == nil {
		headCommit, lookupErr := r.repo.LookupCommit(headRef.Target())
		headRef.Free()

		if lookupErr != nil {
			return "", fmt.Errorf("lookup HEAD commit: %w", lookupErr)
		}

		if headCommit.TreeId().Equal(treeOid) {
			headCommit.Free()

			return "", ErrNoChanges
		}

		parents = append(parents, headCommit)
	}

	sig := r.signature()

	oid, err := r.repo.CreateCommit("HEAD", sig, sig, message, tree, parents...)

	for _, parent := range parents {
		parent.Free()
	}

	if err != nil {
		return "", fmt.Errorf("create commit: %w", err)
	}

	return oid.String(), nil
}

// CommitAll stages everything and commits it in one step.
func (r *Repository) CommitAll(message string) (string, error) {
	err := r.StageAll()
	if err != nil {
		return "", err
	}

	return r.Commit(message)
}
