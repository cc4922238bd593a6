package git

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadHead_NotARepository(t *testing.T) {
	head, err := ReadHead(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, head)
}

func TestReadHead_EmptyRepository(t *testing.T) {
	dir := t.TempDir()
	_, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)

	head, err := ReadHead(dir)
	require.NoError(t, err)
	assert.Empty(t, head)
}

func TestReadHead_FromSubdirectory(t *testing.T) {
	dir := t.TempDir()
	repo, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)

	sub := filepath.Join(dir, "packages", "addon-kit")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(sub, "package.json"), []byte(`{"name":"addon-kit"}`), 0o644))

	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("packages/addon-kit/package.json")
	require.NoError(t, err)
	hash, err := wt.Commit("initial", &gogit.CommitOptions{
		Author: &object.Signature{Name: "Docs", Email: "docs@example.org", When: time.Now()},
	})
	require.NoError(t, err)

	head, err := ReadHead(sub)
	require.NoError(t, err)
	assert.Equal(t, hash.String(), head)
}
