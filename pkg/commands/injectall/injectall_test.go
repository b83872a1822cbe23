package injectall_test

import (
	"context"
	"testing"
	"time"

	"github.com/arthur-debert/opfill/pkg/commands/injectall"
	"github.com/arthur-debert/opfill/pkg/config"
	"github.com/arthur-debert/opfill/pkg/errors"
	"github.com/arthur-debert/opfill/pkg/renderer"
	"github.com/arthur-debert/opfill/pkg/secrets"
	"github.com/arthur-debert/opfill/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingSource counts external calls across a batch.
type countingSource struct {
	inner *secrets.StaticSource
	calls int
}

func (c *countingSource) Name() string { return "counting" }

func (c *countingSource) Resolve(ctx context.Context, ref string) (string, error) {
	c.calls++
	return c.inner.Resolve(ctx, ref)
}

func setup(t *testing.T) (*testutil.MemoryFS, *countingSource, *secrets.Resolver) {
	t.Helper()
	m := testutil.NewMemoryFS()
	require.NoError(t, m.MkdirAll("/dotfiles/git", 0755))
	require.NoError(t, m.MkdirAll("/dotfiles/shell", 0755))
	require.NoError(t, m.MkdirAll("/home", 0755))
	require.NoError(t, m.WriteFile("/dotfiles/git/gitconfig.tmpl",
		[]byte("token=${API_KEY}"), 0644))
	require.NoError(t, m.WriteFile("/dotfiles/shell/profile.tmpl",
		[]byte("export KEY=${API_KEY}\nexport URL=${SERVICE_URL}\n"), 0644))

	src := &countingSource{inner: secrets.NewStaticSource(map[string]string{
		"API_KEY":     "abc123",
		"SERVICE_URL": "https://example.test",
	})}
	return m, src, secrets.NewResolver(src, 5*time.Minute)
}

func manifest() *config.Manifest {
	return &config.Manifest{Templates: []config.TemplateEntry{
		{Source: "git/gitconfig.tmpl", Output: "/home/.gitconfig"},
		{Source: "shell/profile.tmpl", Output: "/home/.profile"},
	}}
}

func TestInjectAll(t *testing.T) {
	m, src, r := setup(t)

	result, err := injectall.InjectAll(context.Background(), injectall.Options{
		FS:           m,
		Resolver:     r,
		DotfilesRoot: "/dotfiles",
		Manifest:     manifest(),
	})
	require.NoError(t, err)
	assert.False(t, result.Failed())

	resolved, missing, _ := result.Counts()
	assert.Equal(t, 3, resolved)
	assert.Equal(t, 0, missing)

	content, err := m.ReadFile("/home/.gitconfig")
	require.NoError(t, err)
	assert.Equal(t, "token=abc123", string(content))

	content, err = m.ReadFile("/home/.profile")
	require.NoError(t, err)
	assert.Equal(t, "export KEY=abc123\nexport URL=https://example.test\n", string(content))

	// API_KEY is shared by both files but cost a single external
	// call thanks to the warm pass.
	assert.Equal(t, 2, src.calls)
}

func TestInjectAllDryRunTouchesNothing(t *testing.T) {
	m, _, r := setup(t)
	before := m.WriteCount()

	result, err := injectall.InjectAll(context.Background(), injectall.Options{
		FS:           m,
		Resolver:     r,
		DotfilesRoot: "/dotfiles",
		Manifest:     manifest(),
		DryRun:       true,
	})
	require.NoError(t, err)
	assert.True(t, result.DryRun)
	assert.False(t, result.Failed())
	assert.Equal(t, before, m.WriteCount())
}

func TestInjectAllContinuesPastFileFailures(t *testing.T) {
	m, _, r := setup(t)
	// First template becomes unreadable; the second still renders.
	m.InjectError("/dotfiles/git/gitconfig.tmpl", assert.AnError)

	result, err := injectall.InjectAll(context.Background(), injectall.Options{
		FS:           m,
		Resolver:     r,
		DotfilesRoot: "/dotfiles",
		Manifest:     manifest(),
	})
	require.NoError(t, err)
	assert.True(t, result.Failed())

	require.Len(t, result.Files, 2)
	assert.Error(t, result.Files[0].Err)
	assert.NoError(t, result.Files[1].Err)

	_, err = m.ReadFile("/home/.profile")
	assert.NoError(t, err)
}

func TestInjectAllMissingSecretsReported(t *testing.T) {
	m, _, _ := setup(t)
	r := secrets.NewResolver(secrets.NewStaticSource(map[string]string{
		"API_KEY": "abc123",
	}), 5*time.Minute)

	result, err := injectall.InjectAll(context.Background(), injectall.Options{
		FS:           m,
		Resolver:     r,
		DotfilesRoot: "/dotfiles",
		Manifest:     manifest(),
	})
	require.NoError(t, err)
	assert.True(t, result.Failed())

	_, missing, _ := result.Counts()
	assert.Equal(t, 1, missing)

	// The unresolved placeholder is literal in the written file.
	content, err := m.ReadFile("/home/.profile")
	require.NoError(t, err)
	assert.Contains(t, string(content), "${SERVICE_URL}")
}

func TestInjectAllConfirmFlow(t *testing.T) {
	m, _, r := setup(t)
	require.NoError(t, m.WriteFile("/home/.gitconfig", []byte("old"), 0644))

	var confirmed []*renderer.Result
	result, err := injectall.InjectAll(context.Background(), injectall.Options{
		FS:           m,
		Resolver:     r,
		DotfilesRoot: "/dotfiles",
		Manifest:     manifest(),
		Confirm: func(res *renderer.Result) (bool, error) {
			confirmed = append(confirmed, res)
			return true, nil
		},
	})
	require.NoError(t, err)

	// Only the existing, differing destination asked for consent.
	require.Len(t, confirmed, 1)
	assert.Equal(t, "old", string(confirmed[0].Existing))

	content, err := m.ReadFile("/home/.gitconfig")
	require.NoError(t, err)
	assert.Equal(t, "token=abc123", string(content))
	assert.False(t, result.Failed())
}

func TestInjectAllDeclinedOverwriteLeavesFile(t *testing.T) {
	m, _, r := setup(t)
	require.NoError(t, m.WriteFile("/home/.gitconfig", []byte("old"), 0644))

	result, err := injectall.InjectAll(context.Background(), injectall.Options{
		FS:           m,
		Resolver:     r,
		DotfilesRoot: "/dotfiles",
		Manifest:     manifest(),
		Confirm: func(res *renderer.Result) (bool, error) {
			return false, nil
		},
	})
	require.NoError(t, err)
	assert.True(t, result.Files[0].Declined)

	content, err := m.ReadFile("/home/.gitconfig")
	require.NoError(t, err)
	assert.Equal(t, "old", string(content))
}

func TestInjectAllForceSkipsConfirm(t *testing.T) {
	m, _, r := setup(t)
	require.NoError(t, m.WriteFile("/home/.gitconfig", []byte("old"), 0644))

	_, err := injectall.InjectAll(context.Background(), injectall.Options{
		FS:           m,
		Resolver:     r,
		DotfilesRoot: "/dotfiles",
		Manifest:     manifest(),
		Force:        true,
		Confirm: func(res *renderer.Result) (bool, error) {
			t.Fatal("confirm must not be called with force")
			return false, nil
		},
	})
	require.NoError(t, err)

	content, err := m.ReadFile("/home/.gitconfig")
	require.NoError(t, err)
	assert.Equal(t, "token=abc123", string(content))
}

func TestInjectAllEmptyManifest(t *testing.T) {
	m, _, r := setup(t)

	_, err := injectall.InjectAll(context.Background(), injectall.Options{
		FS:           m,
		Resolver:     r,
		DotfilesRoot: "/dotfiles",
		Manifest:     &config.Manifest{},
	})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrManifest))
}

func TestExpandHome(t *testing.T) {
	assert.Equal(t, "/abs/path", injectall.ExpandHome("/abs/path"))
	expanded := injectall.ExpandHome("~/.gitconfig")
	assert.NotContains(t, expanded, "~")
	assert.Contains(t, expanded, ".gitconfig")
}
