// Package scanner orchestrates the scan pipeline: walk, parallel
// classification, reference resolution, assembly and cache write-through.
package scanner

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/standardbeagle/uimap/internal/assemble"
	"github.com/standardbeagle/uimap/internal/cache"
	"github.com/standardbeagle/uimap/internal/classify"
	"github.com/standardbeagle/uimap/internal/config"
	"github.com/standardbeagle/uimap/internal/debug"
	"github.com/standardbeagle/uimap/internal/resolve"
	"github.com/standardbeagle/uimap/internal/router"
	"github.com/standardbeagle/uimap/internal/types"
	"github.com/standardbeagle/uimap/internal/walker"
)

// Options alters a single scan request.
type Options struct {
	// Force bypasses the cache read; the result is still written back.
	Force bool
}

// Session coalesces concurrent scans of the same project: callers arriving
// while a scan for that path is in flight share its result instead of
// spawning a second pipeline.
type Session struct {
	group singleflight.Group

	// pipelineStart observes each real pipeline execution when set. Tests use
	// it to pin down how many executions a burst of callers produced.
	pipelineStart func()
}

// NewSession creates a scan session. One session is meant to live for the
// process; the zero value is also usable.
func NewSession() *Session {
	return &Session{}
}

// scanExec records whether the shared execution bypassed the cache, so a
// forced caller never settles for a coalesced cache hit.
type scanExec struct {
	result *types.ScanResult
	forced bool
}

// Scan produces the snapshot for the configured project. Only an invalid or
// vanished project root is fatal; every other degradation is absorbed into
// the snapshot's warnings. At most one pipeline runs per project path at any
// time; a forced caller that coalesced onto an unforced run waits it out and
// then runs its own.
func (s *Session) Scan(ctx context.Context, cfg *config.Config, opts Options) (*types.ScanResult, error) {
	key := cfg.Project.Root
	for {
		v, err, shared := s.group.Do(key, func() (interface{}, error) {
			result, err := s.scan(ctx, cfg, opts)
			if err != nil {
				return nil, err
			}
			return &scanExec{result: result, forced: opts.Force}, nil
		})
		if err != nil {
			return nil, err
		}
		exec := v.(*scanExec)
		if shared {
			debug.Log("SCANNER", "coalesced scan of %s", key)
			if opts.Force && !exec.forced {
				// The shared run may have served the cache. It has finished
				// by now, so the retry starts a fresh pipeline.
				continue
			}
		}
		return exec.result, nil
	}
}

func (s *Session) scan(ctx context.Context, cfg *config.Config, opts Options) (*types.ScanResult, error) {
	if s.pipelineStart != nil {
		s.pipelineStart()
	}
	started := time.Now()
	root := cfg.Project.Root

	var store *cache.Store
	var warnings []types.Warning
	if cfg.Cache.Enabled {
		store = cache.NewStore(cfg.CacheDir())
		if !opts.Force {
			cached, err := store.Load(root)
			if cached != nil {
				return cached, nil
			}
			if err != nil {
				// Unusable cache degrades to a fresh scan.
				warnings = append(warnings, types.Warning{
					Code:   types.WarnCacheRead,
					Path:   store.Path(),
					Detail: err.Error(),
				})
			}
		}
	}

	walkStart := time.Now()
	files, walkWarnings, err := walker.New(cfg).Walk(ctx)
	if err != nil {
		return nil, err
	}
	warnings = append(warnings, walkWarnings...)
	walkDuration := time.Since(walkStart)

	detection := router.Detect(root)

	classifyStart := time.Now()
	classified, err := s.classifyAll(ctx, cfg, detection, files)
	if err != nil {
		return nil, err
	}
	classifyDuration := time.Since(classifyStart)

	resolveStart := time.Now()
	resolveWarnings, err := resolve.New(cfg.Performance.MaxWorkers).Resolve(ctx, classified)
	if err != nil {
		return nil, err
	}
	warnings = append(warnings, resolveWarnings...)
	resolveDuration := time.Since(resolveStart)

	skipped := 0
	for _, file := range classified {
		if file.Kind == types.KindSkipped {
			skipped++
		}
	}

	result := assemble.Assemble(assemble.Input{
		ProjectPath: root,
		ProjectName: projectName(cfg),
		Framework:   detection.Framework,
		RouterType:  detection.RouterType,
		Files:       classified,
		Warnings:    warnings,
		Stats: types.ScanStats{
			FilesWalked:      len(files),
			FilesClassified:  len(files) - skipped,
			FilesSkipped:     skipped,
			WalkDuration:     walkDuration,
			ClassifyDuration: classifyDuration,
			ResolveDuration:  resolveDuration,
			TotalDuration:    time.Since(started),
		},
	})

	if store != nil {
		if err := store.Save(result); err != nil {
			result.Warnings = append(result.Warnings, types.Warning{
				Code:   types.WarnCacheWrite,
				Path:   store.Path(),
				Detail: err.Error(),
			})
		}
	}
	return result, nil
}

// classifyAll fans walked files out over a bounded worker pool. Each worker
// owns its own classifier because tree-sitter parsers are not shareable.
// Results land at their walk index, so output order is deterministic.
func (s *Session) classifyAll(ctx context.Context, cfg *config.Config, detection router.Detection, files []walker.WalkedFile) ([]*types.ClassifiedFile, error) {
	results := make([]*types.ClassifiedFile, len(files))
	if len(files) == 0 {
		return results, nil
	}

	workers := cfg.Performance.MaxWorkers
	if workers > len(files) {
		workers = len(files)
	}

	jobs := make(chan walker.WalkedFile)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			classifier := classify.NewClassifier(cfg.Project.Root, detection)
			defer classifier.Close()
			for file := range jobs {
				cf := classifier.ClassifyFile(file.Path, file.RelPath, file.Order)
				results[file.Order] = &cf
			}
		}()
	}

	var sendErr error
feed:
	for _, file := range files {
		select {
		case <-ctx.Done():
			sendErr = ctx.Err()
			break feed
		case jobs <- file:
		}
	}
	close(jobs)
	wg.Wait()

	if sendErr != nil {
		return nil, sendErr
	}
	return results, nil
}

// projectName prefers the configured name, then the package.json name, then
// the root directory's basename.
func projectName(cfg *config.Config) string {
	if cfg.Project.Name != "" {
		return cfg.Project.Name
	}
	if data, err := os.ReadFile(filepath.Join(cfg.Project.Root, "package.json")); err == nil {
		var pkg struct {
			Name string `json:"name"`
		}
		if json.Unmarshal(data, &pkg) == nil && pkg.Name != "" {
			return pkg.Name
		}
	}
	return filepath.Base(cfg.Project.Root)
}
