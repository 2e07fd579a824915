// Package pipeline compiles entity documents into .trb files.
//
// A conversion has three stages:
//
//  1. Decode: parse the JSON or YAML document into a [trb.Value] tree
//  2. Encode: lay the tree out and wrap it in the container envelope
//  3. Write: store the bytes next to the input or in an output directory
//
// Decode and encode are skipped when the cache already holds the artifact
// for the same input bytes and envelope settings.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	res, err := runner.ConvertFile(ctx, "jsonmaps/level1.json", "trb_gen/level1.trb")
//
// Convert a whole directory, four files at a time:
//
//	results, err := runner.ConvertDir(ctx, "jsonmaps", "trb_gen", ".trb", 4)
//	for _, r := range results {
//	    if r.Err != nil {
//	        log.Error("failed", "input", r.Input, "err", r.Err)
//	    }
//	}
package pipeline

import (
	"time"

	"github.com/matzehuels/trbgen/pkg/trb"
)

const (
	// DefaultTTL is how long compiled artifacts stay cached.
	DefaultTTL = 7 * 24 * time.Hour

	// DefaultWorkers bounds concurrent conversions in ConvertDir.
	DefaultWorkers = 4

	// DefaultExtension is appended to output files.
	DefaultExtension = ".trb"
)

// Result is one compiled document.
type Result struct {
	// Data is the complete .trb file.
	Data []byte

	// Entities is the number of top-level entities.
	Entities int

	// Cached reports whether Data came from the cache.
	Cached bool

	// InputHash is the SHA-256 of the input document bytes.
	InputHash string

	// Stats contains timing information.
	Stats Stats
}

// Stats contains per-stage timings. Stages skipped on a cache hit are zero.
type Stats struct {
	DecodeTime time.Duration
	EncodeTime time.Duration
}

// FileResult is the outcome of converting one file in a directory.
type FileResult struct {
	Input  string
	Output string

	// Result is nil when Err is set.
	*Result

	// Err is the conversion error for this file. Other files are still
	// converted.
	Err error
}

// artifact is the cached form of a Result.
type artifact struct {
	Entities int    `json:"entities"`
	Data     []byte `json:"data"`
}

func entityCount(v trb.Value) int {
	if l, ok := v.(trb.EntityList); ok {
		return len(l)
	}
	return 0
}
