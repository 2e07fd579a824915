package pipeline

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/trbgen/pkg/cache"
	"github.com/matzehuels/trbgen/pkg/errors"
	"github.com/matzehuels/trbgen/pkg/observability"
	"github.com/matzehuels/trbgen/pkg/trb"
)

const crateDoc = `{"type": "EntityList", "value": [
  {"Type": "Crate", "Position": [1, 2, 3, 1], "Orientation": [0, 0, 0, 1], "ExtraInfo": []},
  {"Type": "Lamp", "Position": [0, 4, 0, 1], "Orientation": [0, 0.7071068, 0, 0.7071068],
   "ExtraInfo": [{"key": "On", "type": "Bool", "value": true}]}
]}`

const listRootDoc = `{"type": "List", "value": []}`

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

func newTestRunner(t *testing.T) *Runner {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return NewRunner(c, nil, quietLogger())
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestNewRunnerDefaults(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	if _, ok := r.Cache.(cache.NullCache); !ok {
		t.Errorf("Cache = %T, want cache.NullCache", r.Cache)
	}
	if r.Keyer == nil || r.Logger == nil {
		t.Error("Keyer and Logger should default to non-nil")
	}
	if r.Envelope != trb.DefaultEnvelope() {
		t.Errorf("Envelope = %+v, want default", r.Envelope)
	}
}

func TestCompileMatchesEncoder(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger())

	res, err := r.Compile(context.Background(), []byte(crateDoc), "json")
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}

	doc, err := trb.ParseJSON([]byte(crateDoc))
	if err != nil {
		t.Fatal(err)
	}
	want, err := trb.Encode(doc)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(res.Data, want) {
		t.Error("Compile() output differs from trb.Encode")
	}
	if res.Entities != 2 {
		t.Errorf("Entities = %d, want 2", res.Entities)
	}
	if res.Cached {
		t.Error("first compile should not be cached")
	}
	if res.InputHash != cache.Hash([]byte(crateDoc)) {
		t.Error("InputHash should be the hash of the input bytes")
	}
}

func TestCompileUsesCache(t *testing.T) {
	ctx := context.Background()
	r := newTestRunner(t)

	first, err := r.Compile(ctx, []byte(crateDoc), "json")
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}
	second, err := r.Compile(ctx, []byte(crateDoc), "json")
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}

	if !second.Cached {
		t.Error("second compile should hit the cache")
	}
	if !bytes.Equal(first.Data, second.Data) || first.Entities != second.Entities {
		t.Error("cached result should match the compiled one")
	}
	if second.Stats.DecodeTime != 0 || second.Stats.EncodeTime != 0 {
		t.Error("cache hits should skip decode and encode")
	}

	r.Envelope.FileSize = 0x6b6f0
	third, err := r.Compile(ctx, []byte(crateDoc), "json")
	if err != nil {
		t.Fatal(err)
	}
	if third.Cached {
		t.Error("changing the envelope should miss the cache")
	}
}

func TestCompileRejectsNonEntityRoot(t *testing.T) {
	r := newTestRunner(t)
	_, err := r.Compile(context.Background(), []byte(listRootDoc), "json")
	if !errors.Is(err, errors.ErrCodeInvalidRoot) {
		t.Errorf("Compile() error = %v, want %s", err, errors.ErrCodeInvalidRoot)
	}
}

func TestCompileCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRunner(nil, nil, quietLogger()).Compile(ctx, []byte(crateDoc), "json")
	if err != context.Canceled {
		t.Errorf("Compile() error = %v, want context.Canceled", err)
	}
}

func TestCompileIgnoresCorruptCacheEntry(t *testing.T) {
	ctx := context.Background()
	r := newTestRunner(t)

	key := r.Keyer.ArtifactKey(cache.Hash([]byte(crateDoc)), cache.ArtifactKeyOpts{
		Format:      "json",
		HeaderWords: r.Envelope.HeaderWords,
	})
	if err := r.Cache.Set(ctx, key, []byte("not an artifact"), 0); err != nil {
		t.Fatal(err)
	}

	res, err := r.Compile(ctx, []byte(crateDoc), "json")
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}
	if res.Cached {
		t.Error("corrupt entry should be treated as a miss")
	}
}

func TestConvertFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "jsonmaps", "level1.json")
	out := filepath.Join(dir, "trb_gen", "level1.trb")
	writeFile(t, in, crateDoc)

	res, err := newTestRunner(t).ConvertFile(context.Background(), in, out)
	if err != nil {
		t.Fatalf("ConvertFile() error: %v", err)
	}

	written, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("output not written: %v", err)
	}
	if !bytes.Equal(written, res.Data) {
		t.Error("written file should match Result.Data")
	}
}

func TestConvertFileWritesNothingOnError(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "bad.json")
	out := filepath.Join(dir, "bad.trb")
	writeFile(t, in, listRootDoc)

	if _, err := newTestRunner(t).ConvertFile(context.Background(), in, out); err == nil {
		t.Fatal("ConvertFile() should fail for a non-entity root")
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Error("no output should be written on error")
	}
}

func TestConvertDir(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "jsonmaps")
	writeFile(t, filepath.Join(in, "c.json"), crateDoc)
	writeFile(t, filepath.Join(in, "a.yaml"), "type: EntityList\nvalue: []\n")
	writeFile(t, filepath.Join(in, "b.json"), listRootDoc)
	writeFile(t, filepath.Join(in, "notes.txt"), "ignored")
	writeFile(t, filepath.Join(in, "nested", "d.json"), crateDoc)

	out := filepath.Join(dir, "trb_gen")
	results, err := newTestRunner(t).ConvertDir(context.Background(), in, out, ".trb", 2)
	if err != nil {
		t.Fatalf("ConvertDir() error: %v", err)
	}

	wantInputs := []string{"a.yaml", "b.json", "c.json"}
	if len(results) != len(wantInputs) {
		t.Fatalf("got %d results, want %d", len(results), len(wantInputs))
	}
	for i, name := range wantInputs {
		if got := filepath.Base(results[i].Input); got != name {
			t.Errorf("results[%d].Input = %s, want %s", i, got, name)
		}
	}

	if results[0].Err != nil || results[2].Err != nil {
		t.Errorf("valid files should convert: %v, %v", results[0].Err, results[2].Err)
	}
	if !errors.Is(results[1].Err, errors.ErrCodeInvalidRoot) {
		t.Errorf("b.json error = %v, want %s", results[1].Err, errors.ErrCodeInvalidRoot)
	}

	for _, name := range []string{"a.trb", "c.trb"} {
		if _, err := os.Stat(filepath.Join(out, name)); err != nil {
			t.Errorf("%s should be written: %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(out, "b.trb")); !os.IsNotExist(err) {
		t.Error("b.trb should not be written")
	}
	if results[2].Entities != 2 {
		t.Errorf("c.json entities = %d, want 2", results[2].Entities)
	}
}

func TestConvertDirNextToInputs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "level.json"), crateDoc)

	results, err := newTestRunner(t).ConvertDir(context.Background(), dir, "", "", 0)
	if err != nil {
		t.Fatalf("ConvertDir() error: %v", err)
	}
	if len(results) != 1 || results[0].Output != filepath.Join(dir, "level.trb") {
		t.Errorf("results = %+v", results)
	}
}

func TestConvertDirOutputCollision(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "level.json"), crateDoc)
	writeFile(t, filepath.Join(dir, "level.yaml"), "type: EntityList\nvalue: []\n")

	results, err := newTestRunner(t).ConvertDir(context.Background(), dir, "", ".trb", 4)
	if err != nil {
		t.Fatalf("ConvertDir() error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].Err != nil {
		t.Fatalf("level.json error: %v", results[0].Err)
	}

	if !errors.Is(results[1].Err, errors.ErrCodeInvalidInput) {
		t.Errorf("level.yaml error = %v, want %s", results[1].Err, errors.ErrCodeInvalidInput)
	}
	if results[1].Err != nil && !strings.Contains(results[1].Err.Error(), "level.json") {
		t.Errorf("collision error should name level.json: %v", results[1].Err)
	}
	if results[1].Result != nil {
		t.Error("colliding input should have no result")
	}

	got, err := os.ReadFile(filepath.Join(dir, "level.trb"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, results[0].Data) {
		t.Error("level.trb should hold the level.json conversion")
	}
}

func TestConvertDirMissing(t *testing.T) {
	_, err := newTestRunner(t).ConvertDir(context.Background(), filepath.Join(t.TempDir(), "nope"), "", ".trb", 1)
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("ConvertDir() error = %v, want %s", err, errors.ErrCodeFileNotFound)
	}
}

func TestConvertDirCanceled(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.json"), crateDoc)
	writeFile(t, filepath.Join(dir, "b.json"), crateDoc)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := newTestRunner(t).ConvertDir(ctx, dir, filepath.Join(dir, "out"), ".trb", 1)
	if err != context.Canceled {
		t.Errorf("ConvertDir() error = %v, want context.Canceled", err)
	}
	for _, r := range results {
		if r.Err == nil {
			t.Errorf("%s should not be converted after cancel", r.Input)
		}
	}
}

type recordingHooks struct {
	observability.NoopPipelineHooks
	observability.NoopCacheHooks

	mu     sync.Mutex
	events []string
}

func (h *recordingHooks) record(e string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, e)
}

func (h *recordingHooks) OnDecodeStart(context.Context, string, string) { h.record("decode") }
func (h *recordingHooks) OnEncodeStart(context.Context, string, int)    { h.record("encode") }
func (h *recordingHooks) OnWriteStart(context.Context, string)          { h.record("write") }
func (h *recordingHooks) OnCacheHit(context.Context, string)            { h.record("hit") }
func (h *recordingHooks) OnCacheMiss(context.Context, string)           { h.record("miss") }
func (h *recordingHooks) OnCacheSet(context.Context, string, int)       { h.record("set") }

func TestConvertFileEmitsHooks(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetPipelineHooks(hooks)
	observability.SetCacheHooks(hooks)
	defer observability.Reset()

	dir := t.TempDir()
	in := filepath.Join(dir, "level.json")
	writeFile(t, in, crateDoc)
	r := newTestRunner(t)
	r.TTL = time.Hour

	for i := 0; i < 2; i++ {
		if _, err := r.ConvertFile(context.Background(), in, filepath.Join(dir, "level.trb")); err != nil {
			t.Fatal(err)
		}
	}

	want := []string{"miss", "decode", "encode", "set", "write", "hit", "write"}
	if len(hooks.events) != len(want) {
		t.Fatalf("events = %v, want %v", hooks.events, want)
	}
	for i := range want {
		if hooks.events[i] != want[i] {
			t.Errorf("events = %v, want %v", hooks.events, want)
			break
		}
	}
}
