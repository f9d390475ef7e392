// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package git

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tejzpr/mdx-mcp/internal/container"
	"github.com/tejzpr/mdx-mcp/internal/history"
)

func TestInit(t *testing.T) {
	repoPath := filepath.Join(t.TempDir(), "test-repo")

	repo, err := Init(repoPath, "")
	require.NoError(t, err)
	assert.Equal(t, repoPath, repo.Path)

	info, err := os.Stat(filepath.Join(repoPath, ".git"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestOpen_NotExist(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nonexistent"))
	assert.Error(t, err)
}

func TestOpenOrInit(t *testing.T) {
	repoPath := filepath.Join(t.TempDir(), "repo")

	repo, err := OpenOrInit(repoPath, "trunk")
	require.NoError(t, err)
	_, err = repo.WriteAndCommit("a.md", []byte("a"), nil)
	require.NoError(t, err)

	again, err := OpenOrInit(repoPath, "ignored")
	require.NoError(t, err)
	head, err := again.Head()
	require.NoError(t, err)
	assert.False(t, head.Hash().IsZero())
	assert.Equal(t, "refs/heads/trunk", head.Name().String())
}

func TestWriteAndCommit_NoChanges(t *testing.T) {
	repo, err := Init(t.TempDir(), "")
	require.NoError(t, err)

	_, err = repo.WriteAndCommit("doc.md", []byte("same"), nil)
	require.NoError(t, err)
	_, err = repo.WriteAndCommit("doc.md", []byte("same"), nil)
	assert.Error(t, err)

	clean, err := repo.IsClean()
	require.NoError(t, err)
	assert.True(t, clean)
}

func TestGetFileAtRevision(t *testing.T) {
	repo, err := Init(t.TempDir(), "")
	require.NoError(t, err)

	first, err := repo.WriteAndCommit("docs/doc.md", []byte("one"), &CommitOptions{Author: "A", Email: "a@x", Message: "one"})
	require.NoError(t, err)
	_, err = repo.WriteAndCommit("docs/doc.md", []byte("two"), &CommitOptions{Author: "A", Email: "a@x", Message: "two"})
	require.NoError(t, err)
	require.NoError(t, repo.Tag("first", first))

	tests := []struct {
		ref  string
		want string
	}{
		{"HEAD", "two"},
		{"HEAD~1", "one"},
		{"first", "one"},
		{first.String(), "one"},
		{first.String()[:8], "one"},
	}
	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			data, err := repo.GetFileAtRevision("docs/doc.md", tt.ref)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(data))
		})
	}

	_, err = repo.GetFileAtRevision("docs/doc.md", "HEAD~5")
	assert.Error(t, err)
	_, err = repo.GetFileAtRevision("docs/doc.md", "no-such-branch")
	assert.Error(t, err)
	_, err = repo.GetFileAtRevision("docs/missing.md", "HEAD")
	assert.Error(t, err)

	commits, err := repo.GetCommitHistory(0)
	require.NoError(t, err)
	require.Len(t, commits, 2)
	assert.Equal(t, "two", commits[0].Message)

	limited, err := repo.GetCommitHistory(1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestSnapshotResolver(t *testing.T) {
	dir := t.TempDir()
	repo, err := Init(dir, "")
	require.NoError(t, err)
	_, err = repo.WriteAndCommit("document.md", []byte("# From git\n"), nil)
	require.NoError(t, err)

	resolver, err := NewSnapshotResolver(dir)
	require.NoError(t, err)

	doc, err := container.Create("Doc", container.CreateOptions{}, container.WithReferenceResolver(resolver))
	require.NoError(t, err)
	_, err = doc.CreateReferenceVersion(container.VersionInput{Version: "1.0.0"}, "document.md", "HEAD")
	require.NoError(t, err)

	content, err := doc.VersionContent(context.Background(), "1.0.0")
	require.NoError(t, err)
	assert.Equal(t, "# From git\n", content)

	_, err = resolver.Resolve(context.Background(), history.Snapshot{Type: history.SnapshotReference, Path: "document.md"})
	assert.Error(t, err)
}

func TestExportHistory(t *testing.T) {
	ctx := context.Background()
	doc, err := container.Create("Doc", container.CreateOptions{Content: "v1\n"})
	require.NoError(t, err)
	_, err = doc.CreateVersion(container.VersionInput{Version: "1.0.0", Message: "first", Author: history.Author{Name: "Ada", Email: "ada@example.com"}})
	require.NoError(t, err)
	doc.SetContent("v2\n")
	_, err = doc.CreateDiffVersion(ctx, container.VersionInput{Version: "1.1.0", Message: "second"})
	require.NoError(t, err)
	_, err = doc.CreateReferenceVersion(container.VersionInput{Version: "2.0.0"}, "", "somewhere")
	require.NoError(t, err)

	repo, err := Init(t.TempDir(), "")
	require.NoError(t, err)

	result, err := ExportHistory(ctx, doc, repo, ExportOptions{Tag: true, Author: "Bot", Email: "bot@example.com"})
	require.NoError(t, err)
	require.Len(t, result.Exported, 2)
	assert.Equal(t, []string{"2.0.0"}, result.Skipped)
	assert.Len(t, result.Errors, 1)
	assert.Equal(t, "v1.0.0", result.Exported[0].Tag)

	data, err := repo.GetFileAtRevision("document.md", "v1.0.0")
	require.NoError(t, err)
	assert.Equal(t, "v1\n", string(data))
	data, err = repo.GetFileAtRevision("document.md", "v1.1.0")
	require.NoError(t, err)
	assert.Equal(t, "v2\n", string(data))

	commits, err := repo.GetCommitHistory(0)
	require.NoError(t, err)
	require.Len(t, commits, 2)
	assert.Equal(t, "version 1.1.0: second", commits[0].Message)
	assert.Equal(t, "Bot", commits[0].Author)
	assert.Equal(t, "Ada", commits[1].Author)
}
