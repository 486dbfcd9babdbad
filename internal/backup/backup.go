// Package backup creates dated snapshot tags over the manuscript and
// restores them onto fresh branches. A restore saves any uncommitted edits
// to the branch that was checked out before the call and otherwise leaves
// it alone; merging back is the writer's decision.
package backup

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/quillbase/quill/internal/history"
	"github.com/quillbase/quill/internal/quillerr"
	"github.com/quillbase/quill/pkg/gitlib"
	"github.com/quillbase/quill/pkg/levenshtein"
	"github.com/quillbase/quill/pkg/msgcodec"
	"github.com/quillbase/quill/pkg/wordcount"
)

// defaultBackupMessage is used when the caller supplies no message.
const defaultBackupMessage = "Manuscript backup"

// Engine performs snapshot and restore operations on one repository.
type Engine struct {
	repo       *gitlib.Repository
	reporter   *history.Reporter
	extensions []string
	record     RecordFunc
	now        func() time.Time
}

// RecordFunc observes every commit the engine creates, for out-of-band
// word-count records. A nil recorder is ignored; recorder failures never
// fail the backup.
type RecordFunc func(hash string, when time.Time, words int)

// Option configures an Engine.
type Option func(*Engine)

// WithRecorder registers a commit observer.
func WithRecorder(record RecordFunc) Option {
	return func(e *Engine) {
		e.record = record
	}
}

// WithClock overrides the engine's clock, for tests that need fixed tag
// dates.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// NewEngine creates a backup engine. extensions selects the writing files
// counted in project-wide totals; nil uses the defaults.
func NewEngine(repo *gitlib.Repository, reporter *history.Reporter, extensions []string, opts ...Option) *Engine {
	engine := &Engine{
		repo:       repo,
		reporter:   reporter,
		extensions: extensions,
		now:        time.Now,
	}

	for _, opt := range opts {
		opt(engine)
	}

	return engine
}

// commitAll counts the project's words across tracked writing files,
// encodes the total into message, and commits every outstanding change.
// Returns the encoded message alongside the commit error so callers can
// still use it when the tree was clean (gitlib.ErrNoChanges).
func (e *Engine) commitAll(message string) (string, error) {
	total, err := wordcount.CountTree(e.repo.Path(), e.extensions, e.repo.IsIgnored)
	if err != nil {
		return "", fmt.Errorf("count project words: %w", err)
	}

	encoded := msgcodec.Encode(message, total, msgcodec.ScopeProject)

	hash, err := e.repo.CommitAll(encoded)
	if err != nil {
		return encoded, err
	}

	if e.record != nil {
		e.record(hash, e.now(), total)
	}

	return encoded, nil
}

// CreateBackup commits all outstanding changes with the project word count
// encoded in the message, then tags the result backup-<date>. A clean tree
// still gets a tag pointing at HEAD. Returns the tag name.
func (e *Engine) CreateBackup(message string) (string, error) {
	if message == "" {
		message = defaultBackupMessage
	}

	encoded, err := e.commitAll(message)

	switch {
	case err == nil:
	case errors.Is(err, gitlib.ErrNoChanges):
		// Clean-tree backups are valid; tag HEAD as it stands.
	case gitlib.IsLocked(err):
		return "", fmt.Errorf("%w: %v", quillerr.ErrRepositoryLocked, err)
	default:
		return "", fmt.Errorf("commit backup: %w", err)
	}

	tagName := e.uniqueTagName("backup-" + e.now().Format(time.DateOnly))

	err = e.repo.CreateTag(tagName, encoded)
	if err != nil {
		return "", fmt.Errorf("tag backup: %w", err)
	}

	return tagName, nil
}

// uniqueTagName suffixes the candidate when a same-named tag already exists,
// so multiple backups on one day each get their own tag.
func (e *Engine) uniqueTagName(candidate string) string {
	if !e.repo.TagExists(candidate) {
		return candidate
	}

	for i := 2; ; i++ {
		name := fmt.Sprintf("%s.%d", candidate, i)
		if !e.repo.TagExists(name) {
			return name
		}
	}
}

// CommitChapter commits a single file with its word count encoded in the
// chapter scope, returning the commit hash.
func (e *Engine) CommitChapter(path, message string) (string, error) {
	words, err := wordcount.CountFile(filepath.Join(e.repo.Path(), path))
	if err != nil {
		return "", fmt.Errorf("count %s: %w", path, err)
	}

	err = e.repo.StagePath(path)
	if err != nil {
		if gitlib.IsLocked(err) {
			return "", fmt.Errorf("%w: %v", quillerr.ErrRepositoryLocked, err)
		}

		return "", err
	}

	encoded := msgcodec.Encode(message, words, msgcodec.ScopeChapter)

	hash, err := e.repo.Commit(encoded)
	if err != nil {
		return "", err
	}

	if e.record != nil {
		e.record(hash, e.now(), words)
	}

	return hash, nil
}

// RestoreSnapshot checks out the named snapshot's content onto a new branch
// named restore-<tag>. Uncommitted edits are first committed to the branch
// that was checked out, the same way a backup would, so switching branches
// can never hide them; beyond that the previous branch is not touched.
func (e *Engine) RestoreSnapshot(tagName string) (string, error) {
	commit, err := e.repo.LookupTagCommit(tagName)
	if err != nil {
		if gitlib.IsNotFound(err) {
			if suggestion := e.SuggestSnapshot(tagName); suggestion != "" {
				return "", fmt.Errorf("%w: %s (did you mean %q?)", quillerr.ErrSnapshotNotFound, tagName, suggestion)
			}

			return "", fmt.Errorf("%w: %s", quillerr.ErrSnapshotNotFound, tagName)
		}

		return "", err
	}
	defer commit.Free()

	_, err = e.commitAll("Auto-save before restoring " + tagName)
	if err != nil && !errors.Is(err, gitlib.ErrNoChanges) {
		if gitlib.IsLocked(err) {
			return "", fmt.Errorf("%w: %v", quillerr.ErrRepositoryLocked, err)
		}

		return "", fmt.Errorf("save outstanding changes: %w", err)
	}

	branchName := e.uniqueBranchName("restore-" + tagName)

	err = e.repo.CreateBranch(branchName, commit)
	if err != nil {
		return "", fmt.Errorf("create restore branch: %w", err)
	}

	err = e.repo.CheckoutBranch(branchName)
	if err != nil {
		// Leave no half-made branch behind for a retry to collide with.
		_ = e.repo.DeleteBranch(branchName)

		return "", fmt.Errorf("checkout restore branch: %w", err)
	}

	return branchName, nil
}

// uniqueBranchName suffixes the candidate when the branch already exists,
// so restoring the same snapshot twice never collides.
func (e *Engine) uniqueBranchName(candidate string) string {
	if !e.repo.BranchExists(candidate) {
		return candidate
	}

	for i := 2; ; i++ {
		name := fmt.Sprintf("%s-%d", candidate, i)
		if !e.repo.BranchExists(name) {
			return name
		}
	}
}

// maxSuggestionDistance bounds how far a tag name may be from the requested
// one before it stops being a plausible typo.
const maxSuggestionDistance = 5

// SuggestSnapshot returns the existing tag name closest to the requested one,
// or "" when nothing is plausibly close. Used to soften not-found errors for
// mistyped snapshot names.
func (e *Engine) SuggestSnapshot(requested string) string {
	tags, err := e.repo.ListTags()
	if err != nil {
		return ""
	}

	var ctx levenshtein.Context

	best := ""
	bestDistance := maxSuggestionDistance + 1

	for _, tag := range tags {
		if d := ctx.Distance(requested, tag.Name); d < bestDistance {
			best = tag.Name
			bestDistance = d
		}
	}

	return best
}

// CompareVersions diffs two snapshots.
func (e *Engine) CompareVersions(tagA, tagB string) (history.Comparison, error) {
	return e.reporter.CompareSnapshots(tagA, tagB)
}
