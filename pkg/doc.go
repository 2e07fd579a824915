// Package pkg provides the core libraries for trbgen, a compiler from
// human-editable level documents (JSON or YAML) to the big-endian .trb
// binary format read by the game engine.
//
// # Architecture
//
// The data flow through trbgen:
//
//	level1.json / level1.yaml
//	         ↓
//	    [io] package (read and parse the tagged document)
//	         ↓
//	    [trb] package (entity records → object tree)
//	         ↓
//	    [alloc] package (breadth-first placement, pointer patching)
//	         ↓
//	    level1.trb
//
// # Quick Start
//
//	doc, err := io.ImportDocument("jsonmaps/level1.json")
//	if err != nil {
//	    return err
//	}
//	data, err := trb.Encode(doc)
//	if err != nil {
//	    return err
//	}
//	return io.ExportBinary("trb_gen/level1.trb", data)
//
// # Main Packages
//
// [alloc] - The object model (words, floats, strings, structs, references)
// and the allocator that lays a tree out in generations and patches every
// reference with the absolute offset of its target.
//
// [trb] - Tagged value model, JSON decoding and the entity encoder that
// builds the file envelope and section body.
//
// [io] - Document import (JSON, YAML) and binary export.
//
// [pipeline] - Cached compilation of single files and whole directories,
// used by the CLI.
//
// [cache] - Artifact cache backends: null, file and Redis.
//
// [inspect] - Layout summaries, Graphviz rendering and binary diffs for
// checking generated files against reference files.
//
// [config] - TOML configuration.
//
// [observability] - Pipeline and cache hooks.
//
// [alloc]: https://pkg.go.dev/github.com/matzehuels/trbgen/pkg/alloc
// [trb]: https://pkg.go.dev/github.com/matzehuels/trbgen/pkg/trb
// [io]: https://pkg.go.dev/github.com/matzehuels/trbgen/pkg/io
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/trbgen/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/trbgen/pkg/cache
// [inspect]: https://pkg.go.dev/github.com/matzehuels/trbgen/pkg/inspect
// [config]: https://pkg.go.dev/github.com/matzehuels/trbgen/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/trbgen/pkg/observability
package pkg
