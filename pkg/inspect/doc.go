// Package inspect explains the layout of compiled .trb files.
//
// The allocator writes a tree one generation at a time, so finding why a
// byte ended up at a given offset means following pointers across
// generations. This package presents an [alloc.Allocation] in forms that
// make that easier:
//
//   - [Summarize]: item count and byte range of every generation
//   - [ToDOT] and [RenderSVG]: a Graphviz drawing with one rank per
//     generation and an edge from each pointer to its target
//   - [HexDump]: a classic offset/hex/ASCII dump
//   - [Diff]: where two files first differ, plus a line diff of their dumps,
//     for checking output against reference files
//
// [alloc.Allocation]: github.com/matzehuels/trbgen/pkg/alloc.Allocation
package inspect
