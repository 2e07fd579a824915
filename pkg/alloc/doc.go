// Package alloc implements the layered, pointer-resolving allocator used to
// produce .trb container bodies.
//
// # Layout Objects
//
// A Layout Object describes how a value occupies serialized space before it
// is given a final offset. There are exactly three kinds:
//
//   - [Reference]: a 4-byte big-endian pointer to a child that is placed in a
//     later generation.
//   - [Struct]: an ordered group of (position, object) fields with a declared
//     alignment. Bytes are stored in ascending position order.
//   - [Bytes]: a literal byte sequence with a declared alignment.
//
// Every object reports its [Object.Size] and [Object.Alignment] without knowing
// where it will be placed, which is what lets the allocator compute pointer
// targets before the targets are written.
//
// # Generations
//
// [Dump] walks the tree breadth-first. The root is generation 0 and occupies
// [0, root.Size()). While a generation is written, every Reference reserves
// space for its child at the allocation head and the child is queued for the
// next generation. Generations are appended back to back until the queue is
// empty:
//
//	buf := alloc.Dump(alloc.List(4,
//	    alloc.Ptr(alloc.CString("Player")),
//	    alloc.Word(1),
//	))
//	// buf[0:4] == 00 00 00 08, buf[8:] == "Player\x00"
//
// [Allocate] runs the same walk and also records where every generation item
// landed, for tooling that needs to explain a layout.
//
// # Ownership
//
// A tree handed to Dump or Allocate must not be reused or mutated afterwards.
// Trees must be acyclic; the allocator does not detect cycles.
package alloc
