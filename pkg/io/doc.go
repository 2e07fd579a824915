// Package io reads entity documents from disk and writes .trb files back.
//
// # Input Formats
//
// Documents use the tagged format understood by [trb.ParseJSON]: every value
// is an object with a "type" tag and a "value". Two encodings are accepted:
//
//   - JSON (.json), the format produced by the ini2json converter
//   - YAML (.yaml, .yml), converted to JSON with goccy/go-yaml before
//     decoding, which is convenient for hand-written test maps
//
// # Import
//
// Use [ImportDocument] to read a document from a file path, choosing the
// format from its extension, or [ReadDocument] to decode from any io.Reader:
//
//	doc, err := io.ImportDocument("jsonmaps/level1.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Export
//
// Use [ExportBinary] to write a compiled file. Parent directories are created
// as needed. [OutputPath] derives the output location for an input file by
// swapping its extension, which is how directory conversion names its
// outputs:
//
//	out := io.OutputPath("jsonmaps/level1.json", "trb_gen/out", ".trb")
//	// trb_gen/out/level1.trb
//
// [trb.ParseJSON]: github.com/matzehuels/trbgen/pkg/trb.ParseJSON
package io
