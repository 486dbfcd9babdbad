// Package session owns the version-control handle for one project
// directory. Opening a session guarantees the directory is a valid
// repository, bootstrapping one (ignore file plus initial commit) when
// absent, and makes discovered remote credentials available to remote
// operations without ever persisting them.
package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/quillbase/quill/internal/credentials"
	"github.com/quillbase/quill/internal/quillerr"
	"github.com/quillbase/quill/pkg/gitlib"
)

// initialCommitMessage is the fixed bootstrap commit message.
const initialCommitMessage = "Initial commit: project setup"

// defaultIgnoreFile is written on first initialization. It keeps caches,
// export temp files, editor backups, OS metadata, dependency directories,
// logs, and credential files out of manuscript history.
const defaultIgnoreFile = `# quill defaults
.quill/
*.tmp
*.bak
*~
.DS_Store
Thumbs.db
node_modules/
*.log
.env
`

// ignoreFileName is the ignore file the underlying engine reads.
const ignoreFileName = ".gitignore"

// Session is an open handle on one manuscript project.
type Session struct {
	repo        *gitlib.Repository
	path        string
	credentials credentials.Result
}

// Options configures session opening.
type Options struct {
	// Token is an explicit credential that outranks discovery.
	Token string
}

// Open opens the project at path, initializing a repository when none
// exists. Opening an already-initialized project is a no-op bootstrap.
func Open(path string, opts Options) (*Session, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve project path: %w", err)
	}

	repo, err := ensureRepository(abs)
	if err != nil {
		return nil, err
	}

	return &Session{
		repo:        repo,
		path:        abs,
		credentials: credentials.Discover(opts.Token, abs),
	}, nil
}

// ensureRepository opens the repository at path, initializing it (ignore
// file, first commit) when the directory is not one yet.
func ensureRepository(path string) (*gitlib.Repository, error) {
	if gitlib.IsRepository(path) {
		repo, err := gitlib.Open(path)
		if err != nil {
			return nil, wrapOpenErr(path, err)
		}

		return repo, nil
	}

	repo, err := gitlib.Init(path)
	if err != nil {
		return nil, wrapOpenErr(path, err)
	}

	err = bootstrap(repo, path)
	if err != nil {
		repo.Free()

		return nil, err
	}

	return repo, nil
}

// bootstrap writes the default ignore file and records the first commit.
func bootstrap(repo *gitlib.Repository, path string) error {
	ignorePath := filepath.Join(path, ignoreFileName)

	if _, statErr := os.Stat(ignorePath); errors.Is(statErr, os.ErrNotExist) {
		writeErr := os.WriteFile(ignorePath, []byte(defaultIgnoreFile), 0o644)
		if writeErr != nil {
			return fmt.Errorf("write ignore file: %w", writeErr)
		}
	}

	_, err := repo.CommitAll(initialCommitMessage)
	if err != nil && !errors.Is(err, gitlib.ErrNoChanges) {
		return fmt.Errorf("create initial commit: %w", err)
	}

	return nil
}

// wrapOpenErr maps low-level open/init failures onto the session taxonomy.
func wrapOpenErr(path string, err error) error {
	if gitlib.IsLocked(err) {
		return fmt.Errorf("%w: %s", quillerr.ErrRepositoryLocked, path)
	}

	return fmt.Errorf("%w: %s: %v (run 'quill init %s' to set it up)",
		quillerr.ErrNotARepository, path, err, path)
}

// Repo returns the underlying repository handle.
func (s *Session) Repo() *gitlib.Repository {
	return s.repo
}

// Path returns the absolute project directory.
func (s *Session) Path() string {
	return s.path
}

// Token returns the discovered credential token, empty when none was found.
// Lookup failures are silent; local-only use needs no credentials.
func (s *Session) Token() string {
	return s.credentials.Token
}

// CredentialProbes returns the discovery attempts for diagnostics.
func (s *Session) CredentialProbes() []credentials.Probe {
	return s.credentials.Probes
}

// Close releases the session's repository handle.
func (s *Session) Close() {
	if s.repo != nil {
		s.repo.Free()
		s.repo = nil
	}
}
