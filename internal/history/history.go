// Package history turns the raw commit graph into writer-relevant progress
// data: per-commit word counts decoded from messages, stat diffs between
// refs, and day-bucketed word-count timelines.
package history

import (
	"fmt"
	"math"
	"time"

	"github.com/quillbase/quill/internal/quillerr"
	"github.com/quillbase/quill/pkg/gitlib"
	"github.com/quillbase/quill/pkg/msgcodec"
)

// CommitRecord is one immutable snapshot in history, read-only from this
// system's perspective.
type CommitRecord struct {
	Hash      string
	Author    string
	Timestamp time.Time
	Message   string
	// WordCount is decoded from Message; nil when the message carries no
	// encoding. A human-authored message is an expected miss, not an error.
	WordCount *int
}

// ManuscriptDiff compares two points in history at stat level.
type ManuscriptDiff struct {
	FilesChanged int
	Insertions   int
	Deletions    int
	// NetWordChange estimates the word delta from line counts.
	NetWordChange int
}

// Comparison is the result of comparing two snapshots.
type Comparison struct {
	Diff  ManuscriptDiff
	Files []string
}

// WordCountHistoryEntry is one day-bucketed sample for visualization.
type WordCountHistoryEntry struct {
	Date      time.Time
	WordCount int
	// Change is the delta versus the prior entry in chronological order;
	// the first entry's change is its own absolute value.
	Change int
}

// Reporter reads history from one repository. The words-per-line estimate
// is injected at construction so tests can use alternatives; the historical
// default lives in the config package.
type Reporter struct {
	repo         *gitlib.Repository
	wordsPerLine int
}

// NewReporter creates a Reporter over repo.
func NewReporter(repo *gitlib.Repository, wordsPerLine int) *Reporter {
	return &Reporter{repo: repo, wordsPerLine: wordsPerLine}
}

// record converts a commit into a CommitRecord, decoding the word count
// best-effort.
func record(commit *gitlib.Commit) CommitRecord {
	rec := CommitRecord{
		Hash:      commit.Hash(),
		Author:    commit.Author().Name,
		Timestamp: commit.When(),
		Message:   commit.Message(),
	}

	if count, ok := msgcodec.Decode(rec.Message); ok {
		rec.WordCount = &count
	}

	return rec
}

// History returns the limit most recent commits, most recent first.
func (r *Reporter) History(limit int) ([]CommitRecord, error) {
	iter, err := r.repo.Log(&gitlib.LogOptions{Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("walk history: %w", err)
	}
	defer iter.Close()

	var records []CommitRecord

	err = iter.ForEach(func(commit *gitlib.Commit) error {
		records = append(records, record(commit))

		return nil
	})
	if err != nil {
		return nil, err
	}

	return records, nil
}

// FileHistory returns every commit that touched path, most recent first,
// following renames back through history.
func (r *Reporter) FileHistory(path string) ([]CommitRecord, error) {
	iter, err := r.repo.Log(nil)
	if err != nil {
		return nil, fmt.Errorf("walk history: %w", err)
	}
	defer iter.Close()

	var records []CommitRecord

	current := path

	err = iter.ForEach(func(commit *gitlib.Commit) error {
		touched, previous, touchErr := r.repo.TouchedPath(commit, current)
		if touchErr != nil {
			return touchErr
		}

		if touched {
			records = append(records, record(commit))
			// Follow the rename: older commits know the file by its
			// earlier name.
			current = previous
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return records, nil
}

// netWords converts a line delta into an estimated word delta.
func (r *Reporter) netWords(insertions, deletions int) int {
	return int(math.Round(float64(insertions-deletions) / float64(r.wordsPerLine)))
}

func (r *Reporter) manuscriptDiff(stat *gitlib.DiffStat) ManuscriptDiff {
	return ManuscriptDiff{
		FilesChanged:  stat.FilesChanged,
		Insertions:    stat.Insertions,
		Deletions:     stat.Deletions,
		NetWordChange: r.netWords(stat.Insertions, stat.Deletions),
	}
}

// Diff computes a stat diff. With both refs empty it diffs the working tree
// against the last commit; with only fromRef given it diffs that ref against
// the working tree; with both given it diffs between them. Never mutates the
// working tree or index.
func (r *Reporter) Diff(fromRef, toRef string) (ManuscriptDiff, error) {
	if fromRef == "" && toRef != "" {
		fromRef, toRef = toRef, ""
	}

	var (
		stat *gitlib.DiffStat
		err  error
	)

	switch {
	case fromRef == "" && toRef == "":
		var head *gitlib.Commit

		head, err = r.repo.Head()
		if err != nil {
			return ManuscriptDiff{}, fmt.Errorf("get HEAD: %w", err)
		}

		stat, err = r.repo.DiffCommitToWorkdir(head)
		head.Free()
	case toRef == "":
		var from *gitlib.Commit

		from, err = r.resolveRef(fromRef)
		if err != nil {
			return ManuscriptDiff{}, err
		}

		stat, err = r.repo.DiffCommitToWorkdir(from)
		from.Free()
	default:
		var from, to *gitlib.Commit

		from, err = r.resolveRef(fromRef)
		if err != nil {
			return ManuscriptDiff{}, err
		}

		to, err = r.resolveRef(toRef)
		if err != nil {
			from.Free()

			return ManuscriptDiff{}, err
		}

		stat, err = r.repo.DiffCommits(from, to)
		from.Free()
		to.Free()
	}

	if err != nil {
		return ManuscriptDiff{}, err
	}

	return r.manuscriptDiff(stat), nil
}

// CompareSnapshots diffs two snapshot tags (or any refs) and lists the
// changed file paths.
func (r *Reporter) CompareSnapshots(tagA, tagB string) (Comparison, error) {
	from, err := r.resolveRef(tagA)
	if err != nil {
		return Comparison{}, err
	}
	defer from.Free()

	to, err := r.resolveRef(tagB)
	if err != nil {
		return Comparison{}, err
	}
	defer to.Free()

	stat, err := r.repo.DiffCommits(from, to)
	if err != nil {
		return Comparison{}, err
	}

	return Comparison{Diff: r.manuscriptDiff(stat), Files: stat.Files}, nil
}

// resolveRef resolves a tag name or ref to a commit, mapping missing refs to
// the snapshot-not-found taxonomy error.
func (r *Reporter) resolveRef(ref string) (*gitlib.Commit, error) {
	commit, err := r.repo.ResolveCommit(ref)
	if err != nil {
		if gitlib.IsNotFound(err) {
			return nil, fmt.Errorf("%w: %s", quillerr.ErrSnapshotNotFound, ref)
		}

		return nil, err
	}

	return commit, nil
}

// WordCountHistory scans the trailing windowDays of commits and returns
// day-bucketed word counts, oldest first. Each day's count comes from its
// most recent commit; commits with no decodable count contribute 0 rather
// than being skipped, so interruptions by human-authored commits stay
// visible in the timeline.
func (r *Reporter) WordCountHistory(windowDays int) ([]WordCountHistoryEntry, error) {
	since := time.Now().AddDate(0, 0, -windowDays)

	iter, err := r.repo.Log(&gitlib.LogOptions{Since: &since})
	if err != nil {
		return nil, fmt.Errorf("walk history: %w", err)
	}
	defer iter.Close()

	// Newest commit per day wins; the walk is newest-first, so only the
	// first commit seen for each day is recorded.
	counts := map[string]int{}

	var days []time.Time

	err = iter.ForEach(func(commit *gitlib.Commit) error {
		// Bucket by the calendar day in the commit's own zone; truncating
		// on UTC boundaries would split or merge days for offset zones.
		when := commit.When()
		y, m, d := when.Date()
		day := time.Date(y, m, d, 0, 0, 0, 0, when.Location())
		key := day.Format(time.DateOnly)

		if _, seen := counts[key]; seen {
			return nil
		}

		count, _ := msgcodec.Decode(commit.Message())
		counts[key] = count
		days = append(days, day)

		return nil
	})
	if err != nil {
		return nil, err
	}

	// Reverse into chronological order before computing deltas.
	entries := make([]WordCountHistoryEntry, 0, len(days))

	for i := len(days) - 1; i >= 0; i-- {
		day := days[i]
		count := counts[day.Format(time.DateOnly)]

		entry := WordCountHistoryEntry{Date: day, WordCount: count, Change: count}
		if len(entries) > 0 {
			entry.Change = count - entries[len(entries)-1].WordCount
		}

		entries = append(entries, entry)
	}

	return entries, nil
}
