package assemble

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/uimap/internal/types"
)

func TestAssembleCollisionLastWins(t *testing.T) {
	first := &types.ClassifiedFile{
		Kind: types.KindComponent, FilePath: "/p/a/Button.tsx", WalkOrder: 0,
		Component: &types.ComponentInfo{Name: "Button", FilePath: "/p/a/Button.tsx"},
	}
	second := &types.ClassifiedFile{
		Kind: types.KindComponent, FilePath: "/p/b/Button.tsx", WalkOrder: 1,
		Component: &types.ComponentInfo{Name: "Button", FilePath: "/p/b/Button.tsx"},
	}

	// Input order must not matter; walk order decides.
	result := Assemble(Input{
		ProjectPath: "/p",
		Files:       []*types.ClassifiedFile{second, first},
	})

	require.Len(t, result.Components, 1)
	assert.Equal(t, "/p/b/Button.tsx", result.Components[0].FilePath)

	require.Len(t, result.Warnings, 1)
	assert.Equal(t, types.WarnNameCollision, result.Warnings[0].Code)
	assert.Contains(t, result.Warnings[0].Detail, "/p/a/Button.tsx")
}

func TestAssembleLayoutSharesRouteWithPage(t *testing.T) {
	page := &types.ClassifiedFile{
		Kind: types.KindPage, FilePath: "/p/app/page.tsx", WalkOrder: 0,
		Page: &types.PageInfo{Route: "/", FilePath: "/p/app/page.tsx"},
	}
	layout := &types.ClassifiedFile{
		Kind: types.KindPage, FilePath: "/p/app/layout.tsx", WalkOrder: 1,
		Page: &types.PageInfo{Route: "/", FilePath: "/p/app/layout.tsx", IsLayout: true},
	}

	result := Assemble(Input{ProjectPath: "/p", Files: []*types.ClassifiedFile{page, layout}})

	assert.Len(t, result.Pages, 2)
	assert.Empty(t, result.Warnings)
}

func TestAssembleDeterministicOrdering(t *testing.T) {
	files := []*types.ClassifiedFile{
		{Kind: types.KindComponent, FilePath: "/p/Zeta.tsx", WalkOrder: 0,
			Component: &types.ComponentInfo{Name: "Zeta", FilePath: "/p/Zeta.tsx", UsedInPages: []string{"/b", "/a"}}},
		{Kind: types.KindComponent, FilePath: "/p/Alpha.tsx", WalkOrder: 1,
			Component: &types.ComponentInfo{Name: "Alpha", FilePath: "/p/Alpha.tsx"}},
		{Kind: types.KindPage, FilePath: "/p/app/b/page.tsx", WalkOrder: 2,
			Page: &types.PageInfo{Route: "/b", FilePath: "/p/app/b/page.tsx"}},
		{Kind: types.KindPage, FilePath: "/p/app/a/page.tsx", WalkOrder: 3,
			Page: &types.PageInfo{Route: "/a", FilePath: "/p/app/a/page.tsx"}},
	}

	result := Assemble(Input{ProjectPath: "/p", Files: files})

	assert.Equal(t, "/a", result.Pages[0].Route)
	assert.Equal(t, "/b", result.Pages[1].Route)
	assert.Equal(t, "Alpha", result.Components[0].Name)
	assert.Equal(t, "Zeta", result.Components[1].Name)
	assert.Equal(t, []string{"/a", "/b"}, result.Components[1].UsedInPages)
}

func TestAssembleCollectsPerFileWarnings(t *testing.T) {
	files := []*types.ClassifiedFile{
		{Kind: types.KindSkipped, FilePath: "/p/bad.tsx", WalkOrder: 0,
			Warnings: []types.Warning{{Code: types.WarnUnclassifiable, Path: "/p/bad.tsx", Detail: "x"}}},
	}
	result := Assemble(Input{
		ProjectPath: "/p",
		Files:       files,
		Warnings:    []types.Warning{{Code: types.WarnFileRead, Path: "/p/locked", Detail: "y"}},
		Stats:       types.ScanStats{FilesWalked: 1, FilesSkipped: 1},
	})

	require.Len(t, result.Warnings, 2)
	assert.Equal(t, 1, result.Stats.FilesWalked)
	assert.Equal(t, 0, result.EntityCount())
	assert.NotNil(t, result.Pages)
	assert.NotNil(t, result.ServerActionFiles)
}

func TestAssembleExtraPagesMerged(t *testing.T) {
	files := []*types.ClassifiedFile{
		{Kind: types.KindComponent, FilePath: "/p/src/App.tsx", WalkOrder: 0,
			Component: &types.ComponentInfo{Name: "App", FilePath: "/p/src/App.tsx"},
			ExtraPages: []*types.PageInfo{
				{Route: "/dashboard", FilePath: "/p/src/App.tsx", Components: []string{"Dashboard"}},
			}},
	}
	result := Assemble(Input{ProjectPath: "/p", Files: files})

	require.Len(t, result.Pages, 1)
	assert.Equal(t, "/dashboard", result.Pages[0].Route)
	assert.Len(t, result.Components, 1)
}
