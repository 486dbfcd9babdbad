package gitlib

import (
	"fmt"
	"time"

	git2go "github.com/libgit2/git2go/v34"
)

// nowFunc is swapped in tests that need deterministic signatures.
var nowFunc = time.Now

// Repository wraps a libgit2 repository rooted at a project directory.
type Repository struct {
	repo *git2go.Repository
	path string
}

// Open opens an existing repository at path.
func Open(path string) (*Repository, error) {
	repo, err := git2go.OpenRepository(path)
	if err != nil {
		return nil, fmt.Errorf("open repository: %w", err)
	}

	return &Repository{repo: repo, path: path}, nil
}

// Init creates a new non-bare repository at path.
func Init(path string) (*Repository, error) {
	repo, err := git2go.InitRepository(path, false)
	if err != nil {
		return nil, fmt.Errorf("init repository: %w", err)
	}

	return &Repository{repo: repo, path: path}, nil
}

// IsRepository reports whether path holds an openable repository.
func IsRepository(path string) bool {
	repo, err := git2go.OpenRepository(path)
	if err != nil {
		return false
	}

	repo.Free()

	return true
}

// Path returns the project directory the repository was opened at.
func (r *Repository) Path() string {
	return r.path
}

// Free releases the repository resources. Safe to call more than once.
func (r *Repository) Free() {
	if r.repo != nil {
		r.repo.Free()
		r.repo = nil
	}
}

// Native returns the underlying libgit2 repository for advanced operations.
func (r *Repository) Native() *git2go.Repository {
	return r.repo
}

// Head returns the commit HEAD points at.
func (r *Repository) Head() (*Commit, error) {
	ref, err := r.repo.Head()
	if err != nil {
		return nil, fmt.Errorf("get HEAD: %w", err)
	}
	defer ref.Free()

	commit, err := r.repo.LookupCommit(ref.Target())
	if err != nil {
		return nil, fmt.Errorf("lookup HEAD commit: %w", err)
	}

	return &Commit{commit: commit, repo: r}, nil
}

// HasCommits reports whether the repository has any commit (HEAD is born).
func (r *Repository) HasCommits() bool {
	ref, err := r.repo.Head()
	if err != nil {
		return false
	}

	ref.Free()

	return true
}

// CurrentBranch returns the short name of the checked-out branch.
func (r *Repository) CurrentBranch() (string, error) {
	ref, err := r.repo.Head()
	if err != nil {
		return "", fmt.Errorf("get HEAD: %w", err)
	}
	defer ref.Free()

	return ref.Shorthand(), nil
}

// ResolveCommit resolves any ref (branch, tag, hash prefix) to a commit.
func (r *Repository) ResolveCommit(ref string) (*Commit, error) {
	obj, err := r.repo.RevparseSingle(ref)
	if err != nil {
		return nil, fmt.Errorf("resolve %q: %w", ref, err)
	}
	defer obj.Free()

	peeled, err := obj.Peel(git2go.ObjectCommit)
	if err != nil {
		return nil, fmt.Errorf("peel %q to commit: %w", ref, err)
	}

	commit, err := peeled.AsCommit()
	if err != nil {
		peeled.Free()

		return nil, fmt.Errorf("%q is not a commit: %w", ref, err)
	}

	return &Commit{commit: commit, repo: r}, nil
}

// signature returns the configured committer identity, falling back to a
// fixed identity on machines with no git config.
func (r *Repository) signature() *git2go.Signature {
	sig, err := r.repo.DefaultSignature()
	if err == nil {
		return sig
	}

	return &git2go.Signature{
		Name:  fallbackSignature.Name,
		Email: fallbackSignature.Email,
		When:  nowFunc(),
	}
}
