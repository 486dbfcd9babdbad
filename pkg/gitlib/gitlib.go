// Package gitlib wraps libgit2 with the operations a manuscript project
// needs: open-or-init, stage-everything commits, snapshot tags, restore
// branches, and stat-level diffs. It deliberately exposes a small surface;
// history interpretation (word counts, progress) lives above it.
package gitlib

import (
	"time"

	git2go "github.com/libgit2/git2go/v34"
)

// Signature identifies an author or committer.
type Signature struct {
	Name  string
	Email string
	When  time.Time
}

// fallbackSignature is used when the repository has no user.name/user.email
// configured, so bootstrap commits never fail on a fresh machine.
var fallbackSignature = Signature{Name: "quill", Email: "quill@localhost"}

// IsNotFound reports whether err is libgit2's not-found condition
// (missing ref, tag, branch, or object).
func IsNotFound(err error) bool {
	return git2go.IsErrorCode(err, git2go.ErrorCodeNotFound)
}

// IsLocked reports whether err means another process holds the repository
// lock. Callers should surface this as retryable.
func IsLocked(err error) bool {
	return git2go.IsErrorCode(err, git2go.ErrorCodeLocked)
}

// IsAuthFailure reports whether err is a credential rejection from a remote.
func IsAuthFailure(err error) bool {
	return git2go.IsErrorCode(err, git2go.ErrorCodeAuth)
}
