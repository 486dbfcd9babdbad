package history

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/quillbase/quill/pkg/textutil"
)

// ProseChange is one run of changed text in a file comparison.
type ProseChange struct {
	Kind ProseChangeKind
	Text string
}

// ProseChangeKind classifies a prose diff run.
type ProseChangeKind int

const (
	// ProseEqual is unchanged text.
	ProseEqual ProseChangeKind = iota
	// ProseInserted is text present only in the newer version.
	ProseInserted
	// ProseDeleted is text present only in the older version.
	ProseDeleted
)

// CompareFile produces a semantic prose diff of one file between two
// snapshots. This is word-level comparison for writers, not the line-level
// stat diff used for progress estimates.
func (r *Reporter) CompareFile(tagA, tagB, path string) ([]ProseChange, error) {
	from, err := r.resolveRef(tagA)
	if err != nil {
		return nil, err
	}
	defer from.Free()

	to, err := r.resolveRef(tagB)
	if err != nil {
		return nil, err
	}
	defer to.Free()

	oldContent, err := r.repo.FileContentAt(from, path)
	if err != nil {
		oldContent = nil // File absent in the older snapshot: all insertions.
	}

	newContent, err := r.repo.FileContentAt(to, path)
	if err != nil {
		newContent = nil
	}

	if oldContent == nil && newContent == nil {
		return nil, fmt.Errorf("%s not present in either snapshot", path)
	}

	if textutil.IsBinary(oldContent) || textutil.IsBinary(newContent) {
		return nil, fmt.Errorf("%s is binary, no prose diff", path)
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(string(oldContent), string(newContent), false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	changes := make([]ProseChange, 0, len(diffs))

	for _, d := range diffs {
		change := ProseChange{Text: d.Text}

		switch d.Type {
		case diffmatchpatch.DiffInsert:
			change.Kind = ProseInserted
		case diffmatchpatch.DiffDelete:
			change.Kind = ProseDeleted
		case diffmatchpatch.DiffEqual:
			change.Kind = ProseEqual
		}

		changes = append(changes, change)
	}

	return changes, nil
}

// RenderProse renders a prose diff with inline change markers.
func RenderProse(changes []ProseChange) string {
	var b strings.Builder

	for _, change := range changes {
		switch change.Kind {
		case ProseInserted:
			b.WriteString("{+")
			b.WriteString(change.Text)
			b.WriteString("+}")
		case ProseDeleted:
			b.WriteString("[-")
			b.WriteString(change.Text)
			b.WriteString("-]")
		case ProseEqual:
			b.WriteString(change.Text)
		}
	}

	return b.String()
}
