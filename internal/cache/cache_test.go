package cache

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	uimaperrors "github.com/standardbeagle/uimap/internal/errors"
	"github.com/standardbeagle/uimap/internal/types"
)

func sampleResult(projectPath string) *types.ScanResult {
	return &types.ScanResult{
		ProjectPath: projectPath,
		ProjectName: "shop",
		Framework:   types.FrameworkNextJS,
		RouterType:  types.RouterNextJSApp,
		ScannedAt:   time.Now().UTC(),
		Pages: []types.PageInfo{
			{Route: "/", FileName: "page.tsx", FilePath: projectPath + "/app/page.tsx",
				Components: []string{"Hero"}, LinksTo: []string{}, DataDependencies: []types.DataDependency{}},
		},
		Components: []types.ComponentInfo{
			{Name: "Hero", FilePath: projectPath + "/components/Hero.tsx",
				Props: []types.PropInfo{}, UsedInPages: []string{"/"}, UsedInComponents: []string{},
				DataDependencies: []types.DataDependency{}},
		},
		Hooks:             []types.HookInfo{},
		Contexts:          []types.ContextInfo{},
		Utilities:         []types.UtilityInfo{},
		ServerActionFiles: []types.ServerActionFile{},
	}
}

func TestStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)
	original := sampleResult("/projects/shop")

	require.NoError(t, store.Save(original))

	loaded, err := store.Load("/projects/shop")
	require.NoError(t, err)
	require.NotNil(t, loaded)

	assert.Equal(t, original.ProjectPath, loaded.ProjectPath)
	assert.Equal(t, original.RouterType, loaded.RouterType)
	assert.Equal(t, original.Pages, loaded.Pages)
	assert.Equal(t, original.Components, loaded.Components)
}

func TestStoreMissingIsAbsent(t *testing.T) {
	store := NewStore(t.TempDir())
	loaded, err := store.Load("/projects/shop")
	assert.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestStoreProjectMismatch(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)
	require.NoError(t, store.Save(sampleResult("/projects/shop")))

	loaded, err := store.Load("/projects/other")
	assert.Nil(t, loaded)
	var cacheErr *uimaperrors.CacheError
	require.ErrorAs(t, err, &cacheErr)
	assert.Equal(t, uimaperrors.ErrorTypeCacheMismatch, cacheErr.Type)
}

func TestStoreCorruptDocument(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "scan.json"), []byte("{not json"), 0o644))

	loaded, err := store.Load("/projects/shop")
	assert.Nil(t, loaded)
	var cacheErr *uimaperrors.CacheError
	require.ErrorAs(t, err, &cacheErr)
	assert.Equal(t, uimaperrors.ErrorTypeCacheCorrupted, cacheErr.Type)
}

func TestStoreUnreadableIsNotAbsent(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)
	// A snapshot path that exists but cannot be read as a file must surface
	// an error rather than silently scanning as if no cache existed.
	require.NoError(t, os.Mkdir(filepath.Join(dir, "scan.json"), 0o755))

	loaded, err := store.Load("/projects/shop")
	assert.Nil(t, loaded)
	var cacheErr *uimaperrors.CacheError
	require.ErrorAs(t, err, &cacheErr)
	assert.Equal(t, uimaperrors.ErrorTypeCacheCorrupted, cacheErr.Type)
}

func TestStoreDigestGuardsTampering(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)
	require.NoError(t, store.Save(sampleResult("/projects/shop")))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	tampered := strings.Replace(string(data), `"Hero"`, `"Zero"`, 1)
	require.NoError(t, os.WriteFile(store.Path(), []byte(tampered), 0o644))

	loaded, err := store.Load("/projects/shop")
	assert.Nil(t, loaded)
	assert.Error(t, err)
}

func TestStoreInvalidate(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)
	require.NoError(t, store.Save(sampleResult("/projects/shop")))
	require.NoError(t, store.Invalidate())

	loaded, err := store.Load("/projects/shop")
	assert.NoError(t, err)
	assert.Nil(t, loaded)

	// Invalidating an empty store is fine too.
	assert.NoError(t, store.Invalidate())
}

func TestDigestIgnoresTimestamps(t *testing.T) {
	a := sampleResult("/projects/shop")
	b := sampleResult("/projects/shop")
	b.ScannedAt = a.ScannedAt.Add(time.Hour)
	b.Stats = types.ScanStats{TotalDuration: time.Second}

	assert.Equal(t, Digest(a), Digest(b))

	b.Pages[0].Route = "/changed"
	assert.NotEqual(t, Digest(a), Digest(b))
}
