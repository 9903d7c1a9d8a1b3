package resolve

import (
	"path/filepath"
	"strings"

	"github.com/hbollon/go-edlib"

	"github.com/standardbeagle/uimap/internal/types"
)

// fuzzyThreshold is the Jaro-Winkler similarity above which an unresolved tag
// is reported with its closest candidate instead of silently dropped.
const fuzzyThreshold = 0.9

// universe indexes every entity by name for edge resolution. Duplicate names
// are resolved last-wins by walk order, matching assembly semantics.
type universe struct {
	components     map[string]*types.ComponentInfo
	componentsFold map[string]string
	hooks          map[string]*types.HookInfo
	contextsByName map[string]*types.ContextInfo
	// contextNames also indexes providers, so importing either the context or
	// its provider counts as usage.
	contextNames    map[string]*types.ContextInfo
	utilities       map[string]*types.UtilityInfo
	utilityByExport map[string]*types.UtilityInfo
	filesByKey      map[string]*types.ClassifiedFile
}

func buildUniverse(files []*types.ClassifiedFile) *universe {
	u := &universe{
		components:      make(map[string]*types.ComponentInfo),
		componentsFold:  make(map[string]string),
		hooks:           make(map[string]*types.HookInfo),
		contextsByName:  make(map[string]*types.ContextInfo),
		contextNames:    make(map[string]*types.ContextInfo),
		utilities:       make(map[string]*types.UtilityInfo),
		utilityByExport: make(map[string]*types.UtilityInfo),
		filesByKey:      make(map[string]*types.ClassifiedFile),
	}
	for _, file := range files {
		u.filesByKey[normalizeImportKey(file.FilePath)] = file
		if dir := filepath.Dir(file.FilePath); strings.TrimSuffix(filepath.Base(file.FilePath), filepath.Ext(file.FilePath)) == "index" {
			u.filesByKey[normalizeImportKey(dir)] = file
		}

		switch file.Kind {
		case types.KindComponent:
			u.components[file.Component.Name] = file.Component
			u.componentsFold[strings.ToLower(file.Component.Name)] = file.Component.Name
		case types.KindHook:
			u.hooks[file.Hook.Name] = file.Hook
		case types.KindContext:
			u.contextsByName[file.Context.Name] = file.Context
			u.contextNames[file.Context.Name] = file.Context
			if file.Context.ProviderName != "" {
				u.contextNames[file.Context.ProviderName] = file.Context
			}
		case types.KindUtility:
			u.utilities[file.Utility.Name] = file.Utility
			for _, export := range file.Utility.Exports {
				u.utilityByExport[export] = file.Utility
			}
		}
	}
	return u
}

// resolveComponent matches a JSX tag against known components. Exact match
// first; a case-insensitive match resolves with a warning; otherwise the
// closest fuzzy candidate is reported and the tag stays unresolved.
func (u *universe) resolveComponent(tag, fromPath string) (string, *types.Warning, bool) {
	if _, ok := u.components[tag]; ok {
		return tag, nil, true
	}
	if canonical, ok := u.componentsFold[strings.ToLower(tag)]; ok {
		return canonical, &types.Warning{
			Code:   types.WarnCaseMismatch,
			Path:   fromPath,
			Detail: "tag " + tag + " resolved to component " + canonical + " by case-insensitive match",
		}, true
	}

	best, score := "", float32(0)
	for name := range u.components {
		similarity, err := edlib.StringsSimilarity(tag, name, edlib.JaroWinkler)
		if err == nil && similarity > score {
			best, score = name, similarity
		}
	}
	if best != "" && score >= fuzzyThreshold {
		return "", &types.Warning{
			Code:   types.WarnAmbiguousName,
			Path:   fromPath,
			Detail: "tag " + tag + " is unresolved; closest component is " + best,
		}, false
	}
	return "", nil, false
}

// fileForImport resolves a relative import specifier to a classified file.
// Bare specifiers (npm packages) resolve to nothing.
func (u *universe) fileForImport(fromPath, source string) *types.ClassifiedFile {
	if !strings.HasPrefix(source, ".") {
		return nil
	}
	key := normalizeImportKey(filepath.Join(filepath.Dir(fromPath), filepath.FromSlash(source)))
	if file, ok := u.filesByKey[key]; ok {
		return file
	}
	if file, ok := u.filesByKey[key+"/index"]; ok {
		return file
	}
	return nil
}
