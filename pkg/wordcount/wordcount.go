// Package wordcount provides manuscript word counting.
//
// Counts are whitespace-token counts with no locale awareness and no
// punctuation stripping. The exact heuristic is a compatibility contract:
// commit messages embed these values and later decode them, so historical
// counts must keep reproducing bit-for-bit.
package wordcount

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/quillbase/quill/pkg/textutil"
)

// ManuscriptExtensions are the file extensions treated as writing files when
// computing project-wide totals.
var ManuscriptExtensions = []string{".md", ".markdown", ".txt", ".fountain"}

// Count returns the number of whitespace-separated tokens in text.
// An empty or all-whitespace string counts as zero words.
func Count(text string) int {
	return len(strings.Fields(text))
}

// CountReader counts words from a stream without loading it whole.
func CountReader(r *bufio.Scanner) int {
	total := 0

	r.Split(bufio.ScanWords)
	for r.Scan() {
		total++
	}

	return total
}

// CountFile returns the word count of a single file. Binary content counts
// as zero words so a stray image with a manuscript extension cannot skew
// project totals.
func CountFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	if textutil.IsBinary(data) {
		return 0, nil
	}

	return Count(string(data)), nil
}

// IsManuscript reports whether path has a manuscript extension from exts.
// A nil exts falls back to ManuscriptExtensions.
func IsManuscript(path string, exts []string) bool {
	if exts == nil {
		exts = ManuscriptExtensions
	}

	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}

	return false
}

// IgnoreFunc reports whether a root-relative slash-separated path is
// excluded from counting. Directory paths carry a trailing slash.
type IgnoreFunc func(rel string) bool

// CountTree walks root and sums the word counts of every manuscript file,
// skipping the version-control metadata directory and anything ignored
// excludes, so untracked noise like dependency directories never inflates
// the total. A nil ignored counts everything. Unreadable files are skipped
// rather than failing the whole total.
func CountTree(root string, exts []string, ignored IgnoreFunc) (int, error) {
	total := 0

	err := filepath.WalkDir(root, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}

		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if d.Name() == ".git" || d.Name() == ".quill" {
				return filepath.SkipDir
			}

			if rel != "." && ignored != nil && ignored(rel+"/") {
				return filepath.SkipDir
			}

			return nil
		}

		if ignored != nil && ignored(rel) {
			return nil
		}

		if !IsManuscript(path, exts) {
			return nil
		}

		count, countErr := CountFile(path)
		if countErr != nil {
			return nil
		}

		total += count

		return nil
	})
	if err != nil {
		return 0, err
	}

	return total, nil
}
