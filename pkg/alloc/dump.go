package alloc

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Placement records where a generation item was written.
type Placement struct {
	// Generation is the breadth-first level, 0 for the root.
	Generation int
	// Offset is the byte offset of the item's first byte.
	Offset int
	// Object is the item itself.
	Object Object
	// Parent indexes the placement whose pointer referenced this item,
	// or -1 for the root.
	Parent int
}

// Allocation is the result of laying out one tree.
type Allocation struct {
	Bytes      []byte
	Placements []Placement
}

// Generations returns the number of generations written.
func (a *Allocation) Generations() int {
	if len(a.Placements) == 0 {
		return 0
	}
	return a.Placements[len(a.Placements)-1].Generation + 1
}

// LayoutError reports a tree whose declared sizes or field positions
// disagree with what the allocator writes. It is raised with panic: it
// indicates a defect in the code that built the tree, not bad input.
type LayoutError struct {
	Generation int
	Offset     int
	Detail     string
}

func (e *LayoutError) Error() string {
	return fmt.Sprintf("layout defect in generation %d at offset %#x: %s", e.Generation, e.Offset, e.Detail)
}

// Dump lays out root and returns the serialized bytes.
func Dump(root Object) []byte {
	return Allocate(root).Bytes
}

// pending is a generation item together with the offset its pointer promised.
type pending struct {
	obj    Object
	offset int
	parent int
}

type allocator struct {
	buf        []byte
	head       int
	gen        int
	placements []Placement
}

// Allocate lays out root breadth-first and records every generation item.
//
// Generation 0 is root itself. Writing a generation bumps the allocation head
// once per Reference and queues the referenced object; the queue becomes the
// next generation. The loop ends when a generation contains no references.
func Allocate(root Object) *Allocation {
	a := &allocator{head: root.Size()}
	layer := []pending{{obj: root, parent: -1}}

	for ; len(layer) > 0; a.gen++ {
		var next []pending
		for _, p := range layer {
			start := alignUp(len(a.buf), p.obj.Alignment())
			if start != p.offset {
				panic(&LayoutError{
					Generation: a.gen,
					Offset:     start,
					Detail:     fmt.Sprintf("pointer promised offset %#x", p.offset),
				})
			}
			owner := len(a.placements)
			a.placements = append(a.placements, Placement{
				Generation: a.gen,
				Offset:     start,
				Object:     p.obj,
				Parent:     p.parent,
			})
			a.buf = append(a.buf, a.emit(p.obj, len(a.buf), owner, &next)...)
		}
		layer = next
	}

	return &Allocation{Bytes: a.buf, Placements: a.placements}
}

// emit writes the top layer of o as if it started at offset at, including
// its leading alignment padding. References are resolved against the head
// and their targets are appended to next in walk order.
func (a *allocator) emit(o Object, at, owner int, next *[]pending) []byte {
	out := make([]byte, padding(at, o.Alignment()))

	switch o := o.(type) {
	case *Reference:
		a.head = alignUp(a.head, o.Target.Alignment())
		if a.head > math.MaxUint32 {
			panic(&LayoutError{Generation: a.gen, Offset: at, Detail: "pointer target beyond 32-bit range"})
		}
		out = binary.BigEndian.AppendUint32(out, uint32(a.head))
		*next = append(*next, pending{obj: o.Target, offset: a.head, parent: owner})
		a.head += o.Target.Size()

	case *Struct:
		// Fields are walked in supply order so that head bumps and the next
		// generation follow it; the chunks are then stored by position.
		chunks := make([][]byte, len(o.Fields))
		filled := make([]bool, len(o.Fields))
		pos := at + len(out)
		for _, f := range o.Fields {
			if f.Pos < 0 || f.Pos >= len(chunks) || filled[f.Pos] {
				panic(&LayoutError{
					Generation: a.gen,
					Offset:     pos,
					Detail:     fmt.Sprintf("invalid field position %d in struct of %d fields", f.Pos, len(o.Fields)),
				})
			}
			chunk := a.emit(f.Object, pos, owner, next)
			chunks[f.Pos] = chunk
			filled[f.Pos] = true
			pos += len(chunk)
		}
		for _, c := range chunks {
			out = append(out, c...)
		}

	case *Bytes:
		out = append(out, o.Data...)
	}

	return out
}

// padding returns the number of zero bytes needed to align n.
func padding(n, align int) int {
	if align <= 1 {
		return 0
	}
	if rem := n % align; rem != 0 {
		return align - rem
	}
	return 0
}

// alignUp rounds n up to a multiple of align.
func alignUp(n, align int) int {
	return n + padding(n, align)
}
