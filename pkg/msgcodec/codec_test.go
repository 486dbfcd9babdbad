package msgcodec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillbase/quill/pkg/msgcodec"
)

func TestEncodeChapter(t *testing.T) {
	got := msgcodec.Encode("First line", 5, msgcodec.ScopeChapter)
	assert.Equal(t, "First line (5 words)", got)
}

func TestEncodeProject(t *testing.T) {
	got := msgcodec.Encode("Nightly backup", 48210, msgcodec.ScopeProject)
	assert.Equal(t, "Nightly backup (48210 total words)", got)
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name      string
		message   string
		wantCount int
		wantOK    bool
	}{
		{name: "chapter suffix", message: "First line (5 words)", wantCount: 5, wantOK: true},
		{name: "project suffix", message: "Backup (1200 total words)", wantCount: 1200, wantOK: true},
		{name: "singular word", message: "Stub chapter (1 word)", wantCount: 1, wantOK: true},
		{name: "zero words", message: "Blank page (0 words)", wantCount: 0, wantOK: true},
		{name: "human message no encoding", message: "Fix typo", wantOK: false},
		{name: "empty message", message: "", wantOK: false},
		{name: "parenthetical without count", message: "Rework ending (again)", wantOK: false},
		{name: "number without words token", message: "Chapter (7)", wantOK: false},
		{name: "suffix mid-message", message: "Backup (300 total words) before rewrite", wantCount: 300, wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			count, ok := msgcodec.Decode(tt.message)
			require.Equal(t, tt.wantOK, ok)

			if tt.wantOK {
				assert.Equal(t, tt.wantCount, count)
			}
		})
	}
}

// Round-trip: decode(encode(s, n)) == n for messages that do not already
// match the encoding pattern.
func TestRoundTrip(t *testing.T) {
	messages := []string{"", "Draft", "Rewrote the duel scene", "notes: pacing (slow?)"}
	counts := []int{0, 1, 5, 999, 250000}

	for _, msg := range messages {
		for _, n := range counts {
			for _, scope := range []msgcodec.Scope{msgcodec.ScopeChapter, msgcodec.ScopeProject} {
				decoded, ok := msgcodec.Decode(msgcodec.Encode(msg, n, scope))
				require.True(t, ok, "message %q count %d", msg, n)
				assert.Equal(t, n, decoded)
			}
		}
	}
}
