// Package quillerr defines the error taxonomy shared by the manuscript
// engine. Callers branch on these with errors.Is / errors.As; everything else
// is wrapped context.
package quillerr

import (
	"errors"
	"fmt"
)

// Sentinel errors for the engine's failure modes.
var (
	// ErrNotARepository means the project directory is not a repository and
	// could not be auto-initialized.
	ErrNotARepository = errors.New("not a manuscript repository")

	// ErrSnapshotNotFound means a restore or compare referenced a tag or ref
	// that does not exist.
	ErrSnapshotNotFound = errors.New("snapshot not found")

	// ErrRepositoryLocked means another process holds the repository index
	// lock. The operation is retryable once the other process finishes.
	ErrRepositoryLocked = errors.New("repository is locked by another process")

	// ErrNothingToCommit means the working tree had no changes to record.
	// Backup treats this as success; other callers may not.
	ErrNothingToCommit = errors.New("nothing to commit")
)

// RemoteAuthError is returned when a push or pull fails for credential
// reasons. It carries actionable guidance instead of a raw engine trace.
type RemoteAuthError struct {
	Remote string
	Err    error
}

func (e *RemoteAuthError) Error() string {
	return fmt.Sprintf(
		"authentication failed for remote %q: %v\n"+
			"Set GITHUB_TOKEN (or GH_TOKEN), store a token in ~/.config/quill/token, "+
			"or add GITHUB_TOKEN=<token> to the project's .env file",
		e.Remote, e.Err)
}

func (e *RemoteAuthError) Unwrap() error {
	return e.Err
}
