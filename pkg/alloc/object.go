package alloc

import (
	"encoding/binary"
	"math"
)

// WordSize is the width of pointers and scalar words in bytes.
const WordSize = 4

// Object is a node of a layout tree. The set of implementations is closed:
// [*Reference], [*Struct] and [*Bytes].
type Object interface {
	// Size returns the number of bytes the object occupies in its own
	// generation. Referenced children are not included.
	Size() int
	// Alignment returns the byte alignment the object must start on.
	Alignment() int

	sealed()
}

// Reference is a pointer whose target is allocated in the next generation.
type Reference struct {
	Target Object
}

// Size always returns WordSize.
func (r *Reference) Size() int { return WordSize }

// Alignment always returns WordSize.
func (r *Reference) Alignment() int { return WordSize }

func (*Reference) sealed() {}

// Field is one member of a Struct. Pos is the storage position, which may
// differ from the order fields were supplied in.
type Field struct {
	Pos    int
	Object Object
}

// Struct is an aligned group of fields stored in ascending Pos order.
type Struct struct {
	Align  int
	Fields []Field
}

// Size returns the sum of the field sizes. No padding is inserted between
// fields.
func (s *Struct) Size() int {
	n := 0
	for _, f := range s.Fields {
		n += f.Object.Size()
	}
	return n
}

// Alignment returns the declared alignment.
func (s *Struct) Alignment() int { return s.Align }

func (*Struct) sealed() {}

// Bytes is a literal byte sequence.
type Bytes struct {
	Align int
	Data  []byte
}

// Size returns len(b.Data).
func (b *Bytes) Size() int { return len(b.Data) }

// Alignment returns the declared alignment.
func (b *Bytes) Alignment() int { return b.Align }

func (*Bytes) sealed() {}

// Ptr wraps o in a Reference.
func Ptr(o Object) *Reference {
	return &Reference{Target: o}
}

// NewStruct builds a Struct from explicitly positioned fields. Fields are
// walked in the order given; bytes are stored by Pos.
func NewStruct(align int, fields ...Field) *Struct {
	return &Struct{Align: align, Fields: fields}
}

// List builds a Struct whose positions follow the argument order.
func List(align int, objs ...Object) *Struct {
	fields := make([]Field, len(objs))
	for i, o := range objs {
		fields[i] = Field{Pos: i, Object: o}
	}
	return &Struct{Align: align, Fields: fields}
}

// Word builds a big-endian 32-bit word.
func Word(v uint32) *Bytes {
	return &Bytes{Align: WordSize, Data: binary.BigEndian.AppendUint32(nil, v)}
}

// Float builds a big-endian IEEE-754 single-precision word.
func Float(f float32) *Bytes {
	return Word(math.Float32bits(f))
}

// CString builds a null-terminated string with byte alignment.
func CString(s string) *Bytes {
	data := make([]byte, len(s)+1)
	copy(data, s)
	return &Bytes{Align: 1, Data: data}
}

// String builds an unterminated string with byte alignment, for markers.
func String(s string) *Bytes {
	return &Bytes{Align: 1, Data: []byte(s)}
}

// Raw wraps b with the given alignment. b is not copied.
func Raw(align int, b []byte) *Bytes {
	return &Bytes{Align: align, Data: b}
}

// Empty returns a zero-length object. A pointer to it resolves to the
// allocation head at the time the pointer is written.
func Empty() *Bytes {
	return &Bytes{Align: 1}
}
