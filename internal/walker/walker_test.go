package walker

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/uimap/internal/config"
	uimaperrors "github.com/standardbeagle/uimap/internal/errors"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func relPaths(files []WalkedFile) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.RelPath
	}
	return out
}

func TestWalkConventionalRoots(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"app/page.tsx":              "",
		"app/blog/[slug]/page.tsx":  "",
		"components/Button.tsx":     "",
		"hooks/useCart.ts":          "",
		"lib/format.ts":             "",
		"node_modules/react/idx.js": "",
		"dist/bundle.js":            "",
		"scripts/build.mjs":         "",
		"README.md":                 "",
	})

	cfg := config.Default(root)
	files, warnings, err := New(cfg).Walk(context.Background())
	require.NoError(t, err)
	assert.Empty(t, warnings)

	got := relPaths(files)
	assert.ElementsMatch(t, []string{
		"app/page.tsx",
		"app/blog/[slug]/page.tsx",
		"components/Button.tsx",
		"hooks/useCart.ts",
		"lib/format.ts",
	}, got)

	// Walk order is assigned sequentially.
	for i, f := range files {
		assert.Equal(t, i, f.Order)
	}
}

func TestWalkIsDeterministic(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"src/a.tsx": "", "src/b.tsx": "", "src/c/d.tsx": "", "src/c/e.tsx": "",
	})
	cfg := config.Default(root)

	first, _, err := New(cfg).Walk(context.Background())
	require.NoError(t, err)
	second, _, err := New(cfg).Walk(context.Background())
	require.NoError(t, err)
	assert.Equal(t, relPaths(first), relPaths(second))
}

func TestWalkExcludesTestFiles(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"src/Button.tsx":            "",
		"src/Button.test.tsx":       "",
		"src/Button.stories.tsx":    "",
		"src/__tests__/helpers.tsx": "",
		"src/types.d.ts":            "",
	})

	files, _, err := New(config.Default(root)).Walk(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"src/Button.tsx"}, relPaths(files))
}

func TestWalkFallsBackToRoot(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"main.tsx": "", "helper.ts": ""})

	files, _, err := New(config.Default(root)).Walk(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"main.tsx", "helper.ts"}, relPaths(files))
}

func TestWalkMissingRoot(t *testing.T) {
	cfg := config.Default(filepath.Join(t.TempDir(), "gone"))
	_, _, err := New(cfg).Walk(context.Background())

	var notFound *uimaperrors.ProjectNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.ErrorIs(t, err, uimaperrors.ErrProjectNotFound)
}

func TestWalkSkipsOversizedFiles(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"src/small.tsx": "ok"})
	big := make([]byte, 64)
	require.NoError(t, os.WriteFile(filepath.Join(root, "src", "big.tsx"), big, 0o644))

	cfg := config.Default(root)
	cfg.Scan.MaxFileSize = 32
	files, _, err := New(cfg).Walk(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"src/small.tsx"}, relPaths(files))
}

func TestWalkCancelled(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"src/a.tsx": ""})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := New(config.Default(root)).Walk(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
