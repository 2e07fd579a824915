package pipeline

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/trbgen/pkg/cache"
	"github.com/matzehuels/trbgen/pkg/errors"
	"github.com/matzehuels/trbgen/pkg/io"
	"github.com/matzehuels/trbgen/pkg/observability"
	"github.com/matzehuels/trbgen/pkg/trb"
)

// Runner compiles documents with caching.
//
// The Runner holds no per-conversion state, so one Runner may be shared by
// several goroutines.
type Runner struct {
	Cache    cache.Cache
	Keyer    cache.Keyer
	Logger   *log.Logger
	Envelope trb.Envelope

	// TTL is the cache lifetime of compiled artifacts. Zero never expires.
	TTL time.Duration
}

// NewRunner creates a runner with the default envelope.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:    c,
		Keyer:    keyer,
		Logger:   logger,
		Envelope: trb.DefaultEnvelope(),
		TTL:      DefaultTTL,
	}
}

// Compile decodes data in the given format and encodes it to a .trb file,
// consulting the cache first.
func (r *Runner) Compile(ctx context.Context, data []byte, format string) (*Result, error) {
	return r.compile(ctx, "-", data, format)
}

func (r *Runner) compile(ctx context.Context, name string, data []byte, format string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := &Result{InputHash: cache.Hash(data)}
	key := r.Keyer.ArtifactKey(res.InputHash, cache.ArtifactKeyOpts{
		Format:      format,
		FileSize:    r.Envelope.FileSize,
		HeaderWords: r.Envelope.HeaderWords,
	})

	if a, ok := r.lookup(ctx, key); ok {
		res.Data = a.Data
		res.Entities = a.Entities
		res.Cached = true
		r.Logger.Debug("cache hit", "input", name, "bytes", len(a.Data))
		return res, nil
	}

	hooks := observability.Pipeline()

	hooks.OnDecodeStart(ctx, name, format)
	start := time.Now()
	doc, err := io.ParseDocument(data, format)
	res.Stats.DecodeTime = time.Since(start)
	hooks.OnDecodeComplete(ctx, name, entityCount(doc), res.Stats.DecodeTime, err)
	if err != nil {
		return nil, err
	}
	res.Entities = entityCount(doc)

	hooks.OnEncodeStart(ctx, name, res.Entities)
	start = time.Now()
	out, err := trb.NewEncoder(r.Envelope).Encode(doc)
	res.Stats.EncodeTime = time.Since(start)
	hooks.OnEncodeComplete(ctx, name, len(out), res.Stats.EncodeTime, err)
	if err != nil {
		return nil, err
	}
	res.Data = out

	r.Logger.Debug("compiled",
		"input", name,
		"entities", res.Entities,
		"bytes", len(out),
		"duration", res.Stats.DecodeTime+res.Stats.EncodeTime)

	r.store(ctx, key, artifact{Entities: res.Entities, Data: out})
	return res, nil
}

// lookup reads an artifact from the cache. Cache failures are misses.
func (r *Runner) lookup(ctx context.Context, key string) (artifact, bool) {
	var a artifact
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Debug("cache read failed", "err", err)
	}
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, key)
		return a, false
	}
	if err := json.Unmarshal(data, &a); err != nil {
		r.Logger.Debug("discarding corrupt cache entry", "err", err)
		_ = r.Cache.Delete(ctx, key)
		observability.Cache().OnCacheMiss(ctx, key)
		return a, false
	}
	observability.Cache().OnCacheHit(ctx, key)
	return a, true
}

func (r *Runner) store(ctx context.Context, key string, a artifact) {
	data, err := json.Marshal(a)
	if err != nil {
		return
	}
	if err := r.Cache.Set(ctx, key, data, r.TTL); err != nil {
		r.Logger.Debug("cache write failed", "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, key, len(data))
}

// ConvertFile compiles the document at in and writes the result to out.
// Nothing is written when compilation fails.
func (r *Runner) ConvertFile(ctx context.Context, in, out string) (*Result, error) {
	data, format, err := io.ReadFile(in)
	if err != nil {
		return nil, err
	}
	res, err := r.compile(ctx, in, data, format)
	if err != nil {
		return nil, err
	}

	hooks := observability.Pipeline()
	hooks.OnWriteStart(ctx, out)
	err = io.ExportBinary(out, res.Data)
	hooks.OnWriteComplete(ctx, out, len(res.Data), err)
	if err != nil {
		return nil, err
	}
	return res, nil
}

// ConvertDir converts every document directly inside inDir, in file name
// order, writing each to outDir with its extension replaced by ext. An
// empty outDir writes next to the inputs.
//
// Up to workers files are converted concurrently. A failing file is
// reported in its FileResult and does not stop the others. Inputs that
// differ only in extension map to the same output; the first in name order
// is converted and the rest fail without writing. The returned
// error is non-nil only when inDir cannot be listed or ctx is canceled.
func (r *Runner) ConvertDir(ctx context.Context, inDir, outDir, ext string, workers int) ([]FileResult, error) {
	if workers < 1 {
		workers = DefaultWorkers
	}
	if ext == "" {
		ext = DefaultExtension
	}

	inputs, err := listDocuments(inDir)
	if err != nil {
		return nil, err
	}

	results := make([]FileResult, len(inputs))
	owner := make(map[string]string, len(inputs))
	for i, in := range inputs {
		out := io.OutputPath(in, outDir, ext)
		results[i] = FileResult{Input: in, Output: out}
		if first, ok := owner[out]; ok {
			results[i].Err = errors.New(errors.ErrCodeInvalidInput, "output %s collides with %s", out, first)
			continue
		}
		owner[out] = in
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range results {
		fr := &results[i]
		if fr.Err != nil {
			r.Logger.Warn("skipping input", "input", fr.Input, "err", errors.UserMessage(fr.Err))
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				fr.Err = err
				return err
			}
			fr.Result, fr.Err = r.ConvertFile(gctx, fr.Input, fr.Output)
			if fr.Err != nil {
				r.Logger.Warn("conversion failed", "input", fr.Input, "err", errors.UserMessage(fr.Err))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, ctx.Err()
}

// listDocuments returns the regular files in dir with a document extension,
// sorted by name.
func listDocuments(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", dir)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "read %s", dir)
	}

	var paths []string
	for _, e := range entries {
		if !e.Type().IsRegular() || !io.IsDocument(e.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	return paths, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
