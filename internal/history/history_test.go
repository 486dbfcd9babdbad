package history_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	git2go "github.com/libgit2/git2go/v34"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillbase/quill/internal/config"
	"github.com/quillbase/quill/internal/history"
	"github.com/quillbase/quill/internal/quillerr"
	"github.com/quillbase/quill/pkg/gitlib"
)

// testRepo builds fixtures with controlled commit timestamps, which the
// public write API deliberately does not expose.
type testRepo struct {
	t      *testing.T
	path   string
	native *git2go.Repository
	repo   *gitlib.Repository
}

func newTestRepo(t *testing.T) *testRepo {
	t.Helper()

	dir := t.TempDir()

	native, err := git2go.InitRepository(dir, false)
	require.NoError(t, err)
	t.Cleanup(native.Free)

	repo, err := gitlib.Open(dir)
	require.NoError(t, err)
	t.Cleanup(repo.Free)

	return &testRepo{t: t, path: dir, native: native, repo: repo}
}

func (tr *testRepo) writeFile(name, content string) {
	tr.t.Helper()

	path := filepath.Join(tr.path, name)
	require.NoError(tr.t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(tr.t, os.WriteFile(path, []byte(content), 0o644))
}

func (tr *testRepo) rename(from, to string) {
	tr.t.Helper()
	require.NoError(tr.t, os.Rename(filepath.Join(tr.path, from), filepath.Join(tr.path, to)))
}

// commitAt stages everything and commits with the given author time.
func (tr *testRepo) commitAt(message string, when time.Time) string {
	tr.t.Helper()

	index, err := tr.native.Index()
	require.NoError(tr.t, err)

	defer index.Free()

	require.NoError(tr.t, index.AddAll([]string{"*"}, git2go.IndexAddDefault, nil))
	require.NoError(tr.t, index.UpdateAll([]string{"*"}, nil))
	require.NoError(tr.t, index.Write())

	treeID, err := index.WriteTree()
	require.NoError(tr.t, err)

	tree, err := tr.native.LookupTree(treeID)
	require.NoError(tr.t, err)

	defer tree.Free()

	sig := &git2go.Signature{Name: "Ann Author", Email: "ann@example.com", When: when}

	var parents []*git2go.Commit

	head, err := tr.native.Head()
	if err == nil {
		headCommit, lookupErr := tr.native.LookupCommit(head.Target())
		require.NoError(tr.t, lookupErr)

		parents = append(parents, headCommit)

		head.Free()
	}

	oid, err := tr.native.CreateCommit("HEAD", sig, sig, message, tree, parents...)
	require.NoError(tr.t, err)

	for _, parent := range parents {
		parent.Free()
	}

	return oid.String()
}

func reporter(tr *testRepo) *history.Reporter {
	return history.NewReporter(tr.repo, config.DefaultWordsPerLine)
}

func TestHistoryDecodesWordCounts(t *testing.T) {
	tr := newTestRepo(t)
	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

	tr.writeFile("chapters/01.md", "The quick brown fox jumps.")
	tr.commitAt("First line (5 words)", base)

	tr.writeFile("chapters/01.md", "The quick brown fox jumps. Again.")
	tr.commitAt("Fix typo", base.Add(time.Hour))

	records, err := reporter(tr).History(10)
	require.NoError(t, err)
	require.Len(t, records, 2)

	// Most recent first; the human-authored message has no count, which is
	// an absent value, not zero.
	assert.Contains(t, records[0].Message, "Fix typo")
	assert.Nil(t, records[0].WordCount)
	assert.Equal(t, "Ann Author", records[0].Author)

	require.NotNil(t, records[1].WordCount)
	assert.Equal(t, 5, *records[1].WordCount)
}

func TestHistoryLimitAndOrdering(t *testing.T) {
	tr := newTestRepo(t)
	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

	for i := range 5 {
		tr.writeFile("a.md", string(rune('a'+i)))
		tr.commitAt("draft", base.Add(time.Duration(i)*time.Hour))
	}

	records, err := reporter(tr).History(3)
	require.NoError(t, err)
	require.Len(t, records, 3)

	for i := 1; i < len(records); i++ {
		assert.False(t, records[i].Timestamp.After(records[i-1].Timestamp),
			"timestamps must be non-increasing")
	}

	// Limit above the commit count returns everything.
	records, err = reporter(tr).History(100)
	require.NoError(t, err)
	assert.Len(t, records, 5)
}

func TestFileHistoryFollowsRenames(t *testing.T) {
	tr := newTestRepo(t)
	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

	tr.writeFile("old-name.md", "chapter one begins here with several words of prose")
	tr.commitAt("start chapter (9 words)", base)

	tr.writeFile("other.md", "unrelated")
	tr.commitAt("unrelated file", base.Add(time.Hour))

	tr.rename("old-name.md", "new-name.md")
	tr.commitAt("rename chapter", base.Add(2*time.Hour))

	records, err := reporter(tr).FileHistory("new-name.md")
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Contains(t, records[0].Message, "rename chapter")
	assert.Contains(t, records[1].Message, "start chapter")
}

func TestDiffBetweenRefs(t *testing.T) {
	tr := newTestRepo(t)
	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

	tr.writeFile("a.md", "one\ntwo\n")
	first := tr.commitAt("v1", base)

	tr.writeFile("a.md", "one\ntwo\nthree\nfour\nfive\nsix\n")
	second := tr.commitAt("v2", base.Add(time.Hour))

	diff, err := reporter(tr).Diff(first, second)
	require.NoError(t, err)

	assert.Equal(t, 1, diff.FilesChanged)
	assert.Equal(t, 4, diff.Insertions)
	assert.Equal(t, 0, diff.Deletions)
	// round(4/5) == 1 with the default words-per-line estimate.
	assert.Equal(t, 1, diff.NetWordChange)
}

func TestDiffWorkingTreeAgainstHead(t *testing.T) {
	tr := newTestRepo(t)

	tr.writeFile("a.md", "one\n")
	tr.commitAt("v1", time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC))

	tr.writeFile("a.md", "one\ntwo\n")

	diff, err := reporter(tr).Diff("", "")
	require.NoError(t, err)

	assert.Equal(t, 1, diff.FilesChanged)
	assert.Equal(t, 1, diff.Insertions)

	// The query must not have touched the working tree.
	data, err := os.ReadFile(filepath.Join(tr.path, "a.md"))
	require.NoError(t, err)
	assert.Equal(t, "one\ntwo\n", string(data))
}

func TestWordsPerLineInjection(t *testing.T) {
	tr := newTestRepo(t)
	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

	tr.writeFile("a.md", "one\n")
	first := tr.commitAt("v1", base)

	tr.writeFile("a.md", "one\ntwo\nthree\nfour\nfive\n")
	second := tr.commitAt("v2", base.Add(time.Hour))

	rep := history.NewReporter(tr.repo, 2)

	diff, err := rep.Diff(first, second)
	require.NoError(t, err)
	assert.Equal(t, 2, diff.NetWordChange)
}

func TestCompareSnapshots(t *testing.T) {
	tr := newTestRepo(t)
	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

	tr.writeFile("a.md", "one\n")
	tr.commitAt("v1", base)
	require.NoError(t, tr.repo.CreateTag("draft-one", "first draft"))

	tr.writeFile("a.md", "one\nmore\n")
	tr.writeFile("b.md", "fresh\n")
	tr.commitAt("v2", base.Add(time.Hour))
	require.NoError(t, tr.repo.CreateTag("draft-two", "second draft"))

	cmp, err := reporter(tr).CompareSnapshots("draft-one", "draft-two")
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"a.md", "b.md"}, cmp.Files)
	// Diff additivity: files changed equals the listed path count.
	assert.Equal(t, len(cmp.Files), cmp.Diff.FilesChanged)
}

func TestCompareSnapshotsMissingTag(t *testing.T) {
	tr := newTestRepo(t)

	tr.writeFile("a.md", "one\n")
	tr.commitAt("v1", time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC))

	_, err := reporter(tr).CompareSnapshots("draft-one", "nope")
	require.ErrorIs(t, err, quillerr.ErrSnapshotNotFound)
}

func TestWordCountHistory(t *testing.T) {
	tr := newTestRepo(t)
	now := time.Now()

	day1 := now.AddDate(0, 0, -3)
	day2 := now.AddDate(0, 0, -2)
	day3 := now.AddDate(0, 0, -1)

	tr.writeFile("a.md", "v1")
	tr.commitAt("Backup (100 total words)", day1)

	tr.writeFile("a.md", "v2")
	tr.commitAt("Backup (150 total words)", day2)

	// A later commit the same day supersedes the earlier one.
	tr.writeFile("a.md", "v2b")
	tr.commitAt("Backup (180 total words)", day2.Add(time.Hour))

	// Undecodable commit: counts as zero, never skipped.
	tr.writeFile("a.md", "v3")
	tr.commitAt("Rework opening", day3)

	entries, err := reporter(tr).WordCountHistory(7)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	// Chronological, oldest first.
	assert.Equal(t, 100, entries[0].WordCount)
	assert.Equal(t, 100, entries[0].Change, "first entry's change is its absolute value")

	assert.Equal(t, 180, entries[1].WordCount)
	assert.Equal(t, 80, entries[1].Change)

	assert.Equal(t, 0, entries[2].WordCount)
	assert.Equal(t, -180, entries[2].Change)
}

// Commits straddling UTC midnight inside one local day must land in one
// bucket dated by the commit's own zone, not split on the UTC boundary.
func TestWordCountHistoryBucketsByLocalDay(t *testing.T) {
	tr := newTestRepo(t)

	loc := time.FixedZone("UTC+10", 10*60*60)
	y, m, d := time.Now().In(loc).AddDate(0, 0, -2).Date()

	// 05:00 local is still the previous day in UTC; 23:00 local is not.
	tr.writeFile("a.md", "v1")
	tr.commitAt("Backup (50 total words)", time.Date(y, m, d, 5, 0, 0, 0, loc))

	tr.writeFile("a.md", "v2")
	tr.commitAt("Backup (70 total words)", time.Date(y, m, d, 23, 0, 0, 0, loc))

	entries, err := reporter(tr).WordCountHistory(7)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	assert.Equal(t, 70, entries[0].WordCount)

	gotY, gotM, gotD := entries[0].Date.Date()
	assert.Equal(t, [3]int{y, int(m), d}, [3]int{gotY, int(gotM), gotD})
}

func TestWordCountHistoryWindow(t *testing.T) {
	tr := newTestRepo(t)
	now := time.Now()

	tr.writeFile("a.md", "old")
	tr.commitAt("Backup (10 total words)", now.AddDate(0, 0, -40))

	tr.writeFile("a.md", "new")
	tr.commitAt("Backup (20 total words)", now.AddDate(0, 0, -1))

	entries, err := reporter(tr).WordCountHistory(7)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 20, entries[0].WordCount)
}

func TestCompareFileProseDiff(t *testing.T) {
	tr := newTestRepo(t)
	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

	tr.writeFile("ch.md", "The ending was happy.")
	tr.commitAt("v1", base)
	require.NoError(t, tr.repo.CreateTag("draft-a", ""))

	tr.writeFile("ch.md", "The ending was tragic.")
	tr.commitAt("v2", base.Add(time.Hour))
	require.NoError(t, tr.repo.CreateTag("draft-b", ""))

	changes, err := reporter(tr).CompareFile("draft-a", "draft-b", "ch.md")
	require.NoError(t, err)

	rendered := history.RenderProse(changes)
	assert.Contains(t, rendered, "[-happy")
	assert.Contains(t, rendered, "{+tragic")
}
