// Package trb maps entity documents to .trb container files.
//
// # Documents
//
// A document is a tree of typed [Value]s whose root is an [EntityList]. Each
// [Entity] has a type name, a position, an orientation quaternion and an
// ordered list of [ExtraInfo] properties. Documents are usually decoded from
// the tagged JSON format with [ParseJSON].
//
// # Mapping
//
// [Encoder.Encode] turns a document into a layout tree (see package alloc)
// and serializes it:
//
//   - Integer, Floating and Bool become big-endian words. true is stored as
//     0x01000000.
//   - Strings become null-terminated bytes behind a pointer.
//   - Lists are 0x20-aligned groups; entity lists are 4-aligned groups of
//     5-word entity records.
//   - Orientation quaternions are expanded to 4x4 rotation matrices with
//     [RotationMatrix].
//
// The serialized body is then wrapped in an [Envelope]: the TSFB/FBRTXRDH
// header, four fixed words, and a TCES section holding the body.
//
//	doc, err := trb.ParseJSON(data)
//	if err != nil {
//	    return err
//	}
//	out, err := trb.Encode(doc)
//
// Encoding is deterministic: the same document always yields the same bytes.
package trb
