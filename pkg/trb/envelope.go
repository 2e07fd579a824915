package trb

import "github.com/matzehuels/trbgen/pkg/alloc"

// Container markers.
const (
	MagicFile    = "TSFB"
	MagicHeader  = "FBRTXRDH"
	MagicSection = "TCES"
)

// DefaultHeaderWords are the four header words found in every reference
// file. Their meaning is unknown; they are reproduced verbatim.
var DefaultHeaderWords = [4]uint32{0x18, 0x0001_0001, 0x1, 0x0}

// Envelope holds the fixed fields wrapped around a section body.
type Envelope struct {
	// FileSize, when non-zero, is written verbatim in the size field.
	// When zero the field points at end-of-file, which the allocator
	// resolves to the exact file size.
	FileSize uint32

	HeaderWords [4]uint32
}

// DefaultEnvelope returns the envelope matching the reference files.
func DefaultEnvelope() Envelope {
	return Envelope{HeaderWords: DefaultHeaderWords}
}

// HeaderSize is the number of bytes the envelope adds before the body.
const HeaderSize = 4 + 4 + 8 + 4*4 + 4 + 4 + 4 + 4 + 4

// Wrap builds the file layout around a serialized body.
func (e Envelope) Wrap(body []byte) alloc.Object {
	var size alloc.Object = alloc.Ptr(alloc.Empty())
	if e.FileSize != 0 {
		size = alloc.Word(e.FileSize)
	}
	n := uint32(len(body))

	return alloc.List(1,
		alloc.String(MagicFile),
		size,
		alloc.String(MagicHeader),
		alloc.Word(e.HeaderWords[0]),
		alloc.Word(e.HeaderWords[1]),
		alloc.Word(e.HeaderWords[2]),
		alloc.Word(e.HeaderWords[3]),
		alloc.Word(n),
		alloc.Word(0),
		alloc.Word(0),
		alloc.String(MagicSection),
		alloc.Word(n),
		alloc.Raw(1, body),
	)
}
