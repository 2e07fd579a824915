package trb

import (
	"github.com/matzehuels/trbgen/pkg/alloc"
	"github.com/matzehuels/trbgen/pkg/errors"
)

// Alignments used by the engine's loader.
const (
	alignRecord = 0x4
	alignList   = 0x20
	alignVector = 0x10
)

// boolTrue is how the format stores true: the flag lives in the high-order
// byte of the word.
const boolTrue = 0x0100_0000

// ExtraInfo type ids. Ids 1-3 and 9+ never appear in shipped files.
const (
	TypeIDInteger    uint32 = 0
	TypeIDFloating   uint32 = 4
	TypeIDBool       uint32 = 5
	TypeIDString     uint32 = 6
	TypeIDList       uint32 = 7
	TypeIDEntityList uint32 = 8
)

// Encoder maps documents to .trb files.
type Encoder struct {
	Envelope Envelope
}

// NewEncoder returns an Encoder that wraps bodies in env.
func NewEncoder(env Envelope) *Encoder {
	return &Encoder{Envelope: env}
}

// Encode maps a document to a complete .trb file with the default envelope.
func Encode(v Value) ([]byte, error) {
	return NewEncoder(DefaultEnvelope()).Encode(v)
}

// Encode maps v to a complete .trb file. The root of v must be an
// EntityList; any other root fails with INVALID_ROOT and produces nothing.
func (e *Encoder) Encode(v Value) ([]byte, error) {
	tree, err := e.Tree(v)
	if err != nil {
		return nil, err
	}
	return alloc.Dump(tree), nil
}

// Tree returns the layout tree of the complete file: the envelope with the
// already serialized body of v inside.
func (e *Encoder) Tree(v Value) (alloc.Object, error) {
	body, err := e.Body(v)
	if err != nil {
		return nil, err
	}
	return e.Envelope.Wrap(body), nil
}

// Body serializes the section body of v without the envelope. Pointers in
// the body are relative to its first byte.
func (e *Encoder) Body(v Value) ([]byte, error) {
	tree, err := BodyTree(v)
	if err != nil {
		return nil, err
	}
	return alloc.Dump(tree), nil
}

// BodyTree builds the layout tree of the section body of v:
// the entity records, a zero word and the entity count.
func BodyTree(v Value) (alloc.Object, error) {
	list, ok := v.(EntityList)
	if !ok {
		kind := Kind("nil")
		if v != nil {
			kind = v.Kind()
		}
		return nil, errors.New(errors.ErrCodeInvalidRoot, "document root must be %s, got %s", KindEntityList, kind)
	}
	return alloc.List(alignRecord,
		object(list),
		alloc.Word(0),
		alloc.Word(uint32(len(list))),
	), nil
}

// object returns the direct representation of v, the bytes any pointer or
// metadata referring to v points at.
func object(v Value) alloc.Object {
	switch v := v.(type) {
	case Integer:
		return alloc.Word(uint32(v))
	case Floating:
		return alloc.Float(float32(v))
	case Bool:
		if v {
			return alloc.Word(boolTrue)
		}
		return alloc.Word(0)
	case String:
		return alloc.CString(string(v))
	case List:
		items := make([]alloc.Object, len(v))
		for i, item := range v {
			items[i] = object(item)
		}
		return alloc.List(alignList, items...)
	case EntityList:
		records := make([]alloc.Object, len(v))
		for i := range v {
			records[i] = entityRecord(&v[i])
		}
		return alloc.List(alignRecord, records...)
	}
	panic("trb: unknown value type")
}

// entityRecord builds the 5-word entity header. Fields are supplied in the
// order the engine allocates them, which is not their storage order.
func entityRecord(e *Entity) alloc.Object {
	infos := make([]alloc.Object, len(e.ExtraInfo))
	for i := range e.ExtraInfo {
		infos[i] = extraInfoRecord(&e.ExtraInfo[i])
	}

	matrix := RotationMatrix(e.Orientation)
	rot := make([]alloc.Object, len(matrix))
	for i, f := range matrix {
		rot[i] = alloc.Float(f)
	}

	pos := make([]alloc.Object, len(e.Position))
	for i, f := range e.Position {
		pos[i] = alloc.Float(f)
	}

	return alloc.NewStruct(alignRecord,
		alloc.Field{Pos: 1, Object: alloc.Word(uint32(len(e.ExtraInfo)))},
		alloc.Field{Pos: 2, Object: alloc.Ptr(alloc.List(alignRecord, infos...))},
		alloc.Field{Pos: 0, Object: alloc.Ptr(alloc.CString(e.Type))},
		alloc.Field{Pos: 3, Object: alloc.Ptr(alloc.List(alignVector, rot...))},
		alloc.Field{Pos: 4, Object: alloc.Ptr(alloc.List(alignVector, pos...))},
	)
}

// extraInfoRecord builds the 5-word ExtraInfo header:
// key pointer, key length, type id, list length and value slot.
func extraInfoRecord(info *ExtraInfo) alloc.Object {
	return alloc.List(alignRecord,
		alloc.Ptr(alloc.CString(info.Key)),
		alloc.Word(uint32(len(info.Key))),
		alloc.Word(TypeID(info.Value)),
		alloc.Word(listLen(info.Value)),
		valueSlot(info.Value),
	)
}

// TypeID returns the ExtraInfo type id of v.
func TypeID(v Value) uint32 {
	switch v.(type) {
	case Integer:
		return TypeIDInteger
	case Floating:
		return TypeIDFloating
	case Bool:
		return TypeIDBool
	case String:
		return TypeIDString
	case List:
		return TypeIDList
	case EntityList:
		return TypeIDEntityList
	}
	panic("trb: unknown value type")
}

func listLen(v Value) uint32 {
	if l, ok := v.(List); ok {
		return uint32(len(l))
	}
	return 0
}

// valueSlot returns the one-word value field of an ExtraInfo record or
// list element: scalars inline, everything else behind a pointer.
func valueSlot(v Value) alloc.Object {
	switch v := v.(type) {
	case List:
		slots := make([]alloc.Object, len(v))
		for i, item := range v {
			slots[i] = valueSlot(item)
		}
		return alloc.Ptr(alloc.List(alignList, slots...))
	case EntityList:
		// The count of an entity list sits next to its pointer, not in
		// the ExtraInfo header.
		return alloc.Ptr(alloc.List(alignRecord,
			alloc.Ptr(object(v)),
			alloc.Word(uint32(len(v))),
		))
	case String:
		return alloc.Ptr(object(v))
	}
	return object(v)
}
