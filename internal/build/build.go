// Package build orchestrates a whole-project run: walk the source tree,
// push every component file through the per-file pipeline in parallel,
// then emit the registry artifacts.
package build

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/statewire/statewire/internal/cache"
	"github.com/statewire/statewire/internal/config"
	"github.com/statewire/statewire/internal/diagnostics"
	"github.com/statewire/statewire/internal/emitter"
	"github.com/statewire/statewire/internal/naming"
	"github.com/statewire/statewire/internal/parser"
	"github.com/statewire/statewire/internal/pipeline"
	"github.com/statewire/statewire/internal/prettyprinter"
	"github.com/statewire/statewire/internal/registry"
	"github.com/statewire/statewire/internal/transform"
	"github.com/statewire/statewire/internal/utils"
)

// Stats summarizes one run.
type Stats struct {
	Files           int
	CacheHits       int
	FilesWithErrors int
}

type Runner struct {
	cfg      *config.Config
	store    *registry.Store
	reporter *diagnostics.Reporter
	cache    *cache.Cache // nil when caching is off

	// DryRun transforms and reports but writes nothing.
	DryRun bool

	mu    sync.Mutex
	stats Stats
}

func NewRunner(cfg *config.Config, reporter *diagnostics.Reporter) *Runner {
	return &Runner{
		cfg:      cfg,
		store:    registry.NewStore(),
		reporter: reporter,
	}
}

// Run transforms every source file under the configured source directory
// and emits the shared-context artifacts.
func (r *Runner) Run(ctx context.Context) (Stats, error) {
	session := uuid.NewString()
	r.reporter.Debugf("build %s: source=%s out=%s", session, r.cfg.SourceDir, r.cfg.OutDir)

	if r.cfg.Cache != "" && !r.DryRun {
		store, err := cache.Open(filepath.Join(r.cfg.Root, r.cfg.Cache))
		if err != nil {
			r.reporter.Debugf("build %s: cache unavailable, cold build: %v", session, err)
		} else {
			r.cache = store
			defer r.cache.Close()
		}
	}

	files, err := r.collectFiles()
	if err != nil {
		return r.stats, err
	}
	r.reporter.Debugf("build %s: %d files", session, len(files))

	// First pass populates the registry from every file, so cross-file
	// references resolve no matter which worker rewrites a file first.
	if err := r.forEachFile(ctx, files, r.discoverFile); err != nil {
		return r.stats, err
	}
	if err := r.forEachFile(ctx, files, r.processFile); err != nil {
		return r.stats, err
	}

	if !r.DryRun {
		if err := emitter.New(r.cfg).Emit(r.store.Snapshot()); err != nil {
			return r.stats, err
		}
	}
	r.reporter.Debugf("build %s: done, %d cache hits, %d files with errors",
		session, r.stats.CacheHits, r.stats.FilesWithErrors)
	return r.stats, nil
}

// collectFiles walks the source tree and returns the eligible files in a
// stable order.
func (r *Runner) collectFiles() ([]string, error) {
	root := filepath.Join(r.cfg.Root, r.cfg.SourceDir)
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if r.cfg.ShouldProcess(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}
	sort.Strings(files)
	return files, nil
}

func (r *Runner) forEachFile(ctx context.Context, files []string, fn func(string) error) error {
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(runtime.NumCPU())
	for _, file := range files {
		file := file
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			return fn(file)
		})
	}
	return group.Wait()
}

// discoverFile registers a file's managed declarations without keeping its
// output. Diagnostics are suppressed here; the rewrite pass reports them.
func (r *Runner) discoverFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	if r.cache != nil {
		if entry, ok := r.cache.Get(path, cache.Digest(content)); ok {
			if err := r.replay(entry.Registrations); err == nil {
				return nil
			}
		}
	}

	pctx := &pipeline.PipelineContext{
		FilePath:        path,
		FileHash:        naming.FileHash(path),
		SourceCode:      string(content),
		ModuleSpecifier: r.moduleSpecifier(path),
	}
	pipeline.New(
		&parser.ParserProcessor{},
		&transform.TransformProcessor{Config: r.cfg, Store: r.store},
	).Run(pctx)
	return nil
}

func (r *Runner) processFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	digest := cache.Digest(content)
	fileHash := naming.FileHash(path)

	if r.cache != nil {
		if entry, ok := r.cache.Get(path, digest); ok {
			// Registrations were already replayed by the discovery pass.
			r.reporter.Debugf("cache hit: %s", path)
			r.bump(func(s *Stats) { s.CacheHits++; s.Files++ })
			return r.writeOutput(path, entry.Output)
		}
	}

	pctx := &pipeline.PipelineContext{
		FilePath:        path,
		FileHash:        fileHash,
		SourceCode:      string(content),
		ModuleSpecifier: r.moduleSpecifier(path),
	}
	pipe := pipeline.New(
		&parser.ParserProcessor{},
		&transform.TransformProcessor{Config: r.cfg, Store: r.store, SkipReset: true},
		&prettyprinter.PrinterProcessor{},
	)
	pctx = pipe.Run(pctx)

	r.reporter.Report(path, pctx.Errors)
	hadErrors := diagnostics.HasErrors(pctx.Errors)
	r.bump(func(s *Stats) {
		s.Files++
		if hadErrors {
			s.FilesWithErrors++
		}
	})

	if r.cache != nil && !hadErrors {
		if err := r.cache.Put(path, digest, cache.Entry{
			Output:        pctx.Output,
			Registrations: pctx.Registrations,
		}); err != nil {
			r.reporter.Debugf("cache store failed for %s: %v", path, err)
		}
	}
	return r.writeOutput(path, pctx.Output)
}

// replay repopulates the registry from cached registration records.
func (r *Runner) replay(regs []pipeline.Registration) error {
	for _, reg := range regs {
		var def registry.Default
		if len(reg.Default) > 0 {
			if err := json.Unmarshal(reg.Default, &def); err != nil {
				return err
			}
		}
		r.store.Register(reg.ScopeKey, reg.Variable, def)
	}
	return nil
}

// writeOutput mirrors the source layout under the output directory.
func (r *Runner) writeOutput(path, output string) error {
	if r.DryRun {
		return nil
	}
	out := utils.MirrorPath(
		filepath.Join(r.cfg.Root, r.cfg.SourceDir),
		filepath.Join(r.cfg.Root, r.cfg.OutDir),
		path)
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	if err := os.WriteFile(out, []byte(output), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	return nil
}

// moduleSpecifier is the import path from a source file to the generated
// shared-context module, relative to the file's directory.
func (r *Runner) moduleSpecifier(path string) string {
	return utils.RelativeSpecifier(path, filepath.Join(r.cfg.Root, r.cfg.ContextModule))
}

func (r *Runner) bump(f func(*Stats)) {
	r.mu.Lock()
	f(&r.stats)
	r.mu.Unlock()
}
