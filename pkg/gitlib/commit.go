package gitlib

import (
	"errors"
	"fmt"
	"io"
	"time"

	git2go "github.com/libgit2/git2go/v34"
)

// Commit wraps a libgit2 commit.
type Commit struct {
	commit *git2go.Commit
	repo   *Repository
}

// Hash returns the full hex commit hash.
func (c *Commit) Hash() string {
	return c.commit.Id().String()
}

// Author returns the commit author.
func (c *Commit) Author() Signature {
	sig := c.commit.Author()

	return Signature{Name: sig.Name, Email: sig.Email, When: sig.When}
}

// When returns the commit creation time.
func (c *Commit) When() time.Time {
	return c.commit.Author().When
}

// Message returns the full commit message.
func (c *Commit) Message() string {
	return c.commit.Message()
}

// NumParents returns the number of parent commits.
func (c *Commit) NumParents() int {
	return int(c.commit.ParentCount())
}

// Parent returns the nth parent commit, or nil when absent.
func (c *Commit) Parent(n int) *Commit {
	parent := c.commit.Parent(uint(n))
	if parent == nil {
		return nil
	}

	return &Commit{commit: parent, repo: c.repo}
}

// Free releases the commit resources.
func (c *Commit) Free() {
	if c.commit != nil {
		c.commit.Free()
		c.commit = nil
	}
}

// Native returns the underlying libgit2 commit.
func (c *Commit) Native() *git2go.Commit {
	return c.commit
}

// LogOptions configures commit log iteration.
type LogOptions struct {
	Limit int        // Maximum number of commits to return; 0 means no limit.
	Since *time.Time // Only include commits at or after this time.
}

// Log returns a commit iterator from HEAD, newest first.
func (r *Repository) Log(opts *LogOptions) (*CommitIter, error) {
	walk, err := r.repo.Walk()
	if err != nil {
		return nil, fmt.Errorf("create revwalk: %w", err)
	}

	headRef, err := r.repo.Head()
	if err != nil {
		walk.Free()

		return nil, fmt.Errorf("get HEAD: %w", err)
	}
	defer headRef.Free()

	err = walk.Push(headRef.Target())
	if err != nil {
		walk.Free()

		return nil, fmt.Errorf("push HEAD to revwalk: %w", err)
	}

	// Time-plus-topological ordering keeps the reported history in
	// non-increasing timestamp order even across merged branches.
	walk.Sorting(git2go.SortTime | git2go.SortTopological)

	iter := &CommitIter{walk: walk, repo: r}
	if opts != nil {
		iter.limit = opts.Limit
		iter.since = opts.Since
	}

	return iter, nil
}

// CommitIter iterates over commits newest first.
type CommitIter struct {
	walk  *git2go.RevWalk
	repo  *Repository
	limit int
	since *time.Time
	seen  int
}

// Next returns the next commit, or io.EOF when exhausted.
func (ci *CommitIter) Next() (*Commit, error) {
	if ci.limit > 0 && ci.seen >= ci.limit {
		return nil, io.EOF
	}

	for {
		oid := new(git2go.Oid)

		err := ci.walk.Next(oid)
		if err != nil {
			return nil, io.EOF
		}

		commit, err := ci.repo.repo.LookupCommit(oid)
		if err != nil {
			continue
		}

		if ci.since != nil && commit.Author().When.Before(*ci.since) {
			commit.Free()

			return nil, io.EOF
		}

		ci.seen++

		return &Commit{commit: commit, repo: ci.repo}, nil
	}
}

// ForEach calls cb for each commit, freeing each after the callback.
func (ci *CommitIter) ForEach(cb func(*Commit) error) error {
	for {
		commit, err := ci.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}

		if err != nil {
			return err
		}

		cbErr := cb(commit)
		commit.Free()

		if cbErr != nil {
			return cbErr
		}
	}
}

// Close releases the iterator resources.
func (ci *CommitIter) Close() {
	if ci.walk != nil {
		ci.walk.Free()
		ci.walk = nil
	}
}
