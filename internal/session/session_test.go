package session_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillbase/quill/internal/session"
	"github.com/quillbase/quill/pkg/gitlib"
)

func clearTokenEnv(t *testing.T) {
	t.Helper()
	t.Setenv("GITHUB_TOKEN", "")
	t.Setenv("GH_TOKEN", "")
	t.Setenv("HOME", t.TempDir())
}

func TestOpenInitializesFreshDirectory(t *testing.T) {
	clearTokenEnv(t)

	dir := t.TempDir()

	sess, err := session.Open(dir, session.Options{})
	require.NoError(t, err)

	defer sess.Close()

	assert.True(t, gitlib.IsRepository(dir))

	// Bootstrap wrote the ignore file and committed it.
	data, err := os.ReadFile(filepath.Join(dir, ".gitignore"))
	require.NoError(t, err)
	assert.Contains(t, string(data), ".env")
	assert.Contains(t, string(data), "*.bak")
	assert.Contains(t, string(data), ".DS_Store")
	assert.Contains(t, string(data), "node_modules/")
	assert.Contains(t, string(data), "*.log")
	assert.Contains(t, string(data), "*.tmp")

	head, err := sess.Repo().Head()
	require.NoError(t, err)

	defer head.Free()

	assert.Equal(t, "Initial commit: project setup", head.Message())
}

// Bootstrap is idempotent: reopening an initialized project changes nothing.
func TestOpenIdempotent(t *testing.T) {
	clearTokenEnv(t)

	dir := t.TempDir()

	first, err := session.Open(dir, session.Options{})
	require.NoError(t, err)

	firstHead, err := first.Repo().Head()
	require.NoError(t, err)

	firstHash := firstHead.Hash()

	firstHead.Free()
	first.Close()

	second, err := session.Open(dir, session.Options{})
	require.NoError(t, err)

	defer second.Close()

	head, err := second.Repo().Head()
	require.NoError(t, err)

	defer head.Free()

	assert.Equal(t, firstHash, head.Hash())
}

func TestOpenPreservesExistingIgnoreFile(t *testing.T) {
	clearTokenEnv(t)

	dir := t.TempDir()
	custom := "drafts-private/\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(custom), 0o644))

	sess, err := session.Open(dir, session.Options{})
	require.NoError(t, err)

	defer sess.Close()

	data, err := os.ReadFile(filepath.Join(dir, ".gitignore"))
	require.NoError(t, err)
	assert.Equal(t, custom, string(data))
}

func TestTokenDiscovery(t *testing.T) {
	clearTokenEnv(t)
	t.Setenv("GITHUB_TOKEN", "from-env")

	sess, err := session.Open(t.TempDir(), session.Options{})
	require.NoError(t, err)

	defer sess.Close()

	assert.Equal(t, "from-env", sess.Token())
	assert.NotEmpty(t, sess.CredentialProbes())
}

func TestExplicitTokenOutranksEnv(t *testing.T) {
	clearTokenEnv(t)
	t.Setenv("GITHUB_TOKEN", "from-env")

	sess, err := session.Open(t.TempDir(), session.Options{Token: "explicit"})
	require.NoError(t, err)

	defer sess.Close()

	assert.Equal(t, "explicit", sess.Token())
}

func TestNoTokenIsSilent(t *testing.T) {
	clearTokenEnv(t)

	sess, err := session.Open(t.TempDir(), session.Options{})
	require.NoError(t, err)

	defer sess.Close()

	assert.Empty(t, sess.Token())
}
