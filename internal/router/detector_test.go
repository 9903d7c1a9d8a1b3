package router

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/uimap/internal/types"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func TestDetectAppRouter(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"package.json":    `{"dependencies":{"next":"14.0.0","react":"18.0.0"}}`,
		"app/page.tsx":    "",
		"app/layout.tsx":  "",
		"pages/legacy.ts": "",
	})

	d := Detect(root)
	assert.Equal(t, types.RouterNextJSApp, d.RouterType)
	assert.Equal(t, types.FrameworkNextJS, d.Framework)
	assert.Equal(t, filepath.Join(root, "app"), d.RouterRoot)
}

func TestDetectAppRouterUnderSrc(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"package.json":            `{"dependencies":{"next":"14.0.0"}}`,
		"src/app/about/page.tsx":  "",
		"src/app/about/extra.css": "",
	})

	d := Detect(root)
	assert.Equal(t, types.RouterNextJSApp, d.RouterType)
	assert.Equal(t, filepath.Join(root, "src", "app"), d.RouterRoot)
}

func TestDetectPagesRouter(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"package.json":    `{"dependencies":{"next":"13.0.0"}}`,
		"pages/index.tsx": "",
		"pages/about.tsx": "",
	})

	d := Detect(root)
	assert.Equal(t, types.RouterNextJSPages, d.RouterType)
	assert.Equal(t, filepath.Join(root, "pages"), d.RouterRoot)
}

func TestAppDirWithoutRouteFilesIsNotAppRouter(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"package.json":  `{"dependencies":{"react":"18.0.0"}}`,
		"app/styles.ts": "",
	})

	d := Detect(root)
	assert.Equal(t, types.RouterUnknown, d.RouterType)
	assert.Equal(t, types.FrameworkReact, d.Framework)
}

func TestDetectReactRouterByDependency(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"package.json": `{"dependencies":{"react":"18.0.0","react-router-dom":"6.20.0","vite":"5.0.0"}}`,
		"src/App.tsx":  "",
	})

	d := Detect(root)
	assert.Equal(t, types.RouterReactRouter, d.RouterType)
	assert.Equal(t, types.FrameworkVite, d.Framework)
	assert.Empty(t, d.RouterRoot)
}

func TestDetectReactRouterByConfigRequire(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"package.json":      `{"dependencies":{"react":"18.0.0"}}`,
		"webpack.config.js": `const router = require("react-router-dom");` + "\nmodule.exports = {};\n",
	})

	d := Detect(root)
	assert.Equal(t, types.RouterReactRouter, d.RouterType)
}

func TestDetectFrameworkByViteConfig(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"vite.config.ts": "export default {}",
		"src/main.tsx":   "",
	})

	d := Detect(root)
	assert.Equal(t, types.FrameworkVite, d.Framework)
	assert.Equal(t, types.RouterUnknown, d.RouterType)
}

func TestDetectUnknown(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"index.js": ""})

	d := Detect(root)
	assert.Equal(t, types.RouterUnknown, d.RouterType)
	assert.Equal(t, types.FrameworkUnknown, d.Framework)
}

func TestConfigProbeTextFallbackForESM(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		// TypeScript-only syntax defeats the JS parser; the text fallback
		// still spots the react-router reference.
		"vite.config.js": "import { defineConfig } from \"vite\";\n// dev server rewrites for react-router\nexport default defineConfig({}) satisfies UserConfig;\n",
	})
	assert.True(t, configReferencesRouter(root))
}

func TestConfigProbeNoRouter(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"webpack.config.js": `const path = require("path");` + "\nmodule.exports = { entry: path.join(__dirname, \"src\") };\n",
	})
	assert.False(t, configReferencesRouter(root))
}
