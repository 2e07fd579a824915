package trb

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/matzehuels/trbgen/pkg/errors"
)

// The JSON document format tags every value with its kind:
//
//	{"type": "EntityList", "value": [
//	  {
//	    "Type": "Player",
//	    "Position": [0, 1.5, 0, 1],
//	    "Orientation": [0, 0, 0, 1],
//	    "ExtraInfo": [
//	      {"key": "Health", "type": "Integer", "value": 100}
//	    ]
//	  }
//	]}
//
// ExtraInfo entries carry their tag inline next to the key.

type taggedValue struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
}

// Type and ExtraInfo are required; pointers tell a missing key apart
// from an empty value.
type rawEntity struct {
	Type        *string         `json:"Type"`
	Position    []float32       `json:"Position"`
	Orientation []float64       `json:"Orientation"`
	ExtraInfo   *[]rawExtraInfo `json:"ExtraInfo"`
}

type rawExtraInfo struct {
	Key   string          `json:"key"`
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
}

// ParseJSON decodes a tagged JSON document.
//
// ParseJSON only checks that the document is well formed; it does not
// require the root to be an EntityList. That check belongs to [Encoder.Encode].
// Errors have code INVALID_DOCUMENT and name the offending path.
func ParseJSON(data []byte) (Value, error) {
	var root taggedValue
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "decode document")
	}
	return decodeTagged(root.Type, root.Value, "$")
}

// DecodeJSON reads r to EOF and decodes it with [ParseJSON].
func DecodeJSON(r io.Reader) (Value, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read document")
	}
	return ParseJSON(data)
}

func decodeTagged(tag string, raw json.RawMessage, path string) (Value, error) {
	if tag == "" {
		return nil, invalid(path, "missing type tag")
	}
	if len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, invalid(path, "missing value for %s", tag)
	}

	switch Kind(tag) {
	case KindBool:
		var b bool
		if err := json.Unmarshal(raw, &b); err != nil {
			return nil, invalidCause(path, err, "expected boolean")
		}
		return Bool(b), nil

	case KindInteger:
		var i int32
		if err := json.Unmarshal(raw, &i); err != nil {
			return nil, invalidCause(path, err, "expected 32-bit integer")
		}
		return Integer(i), nil

	case KindFloating:
		var f float32
		if err := json.Unmarshal(raw, &f); err != nil {
			return nil, invalidCause(path, err, "expected number")
		}
		return Floating(f), nil

	case KindString:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, invalidCause(path, err, "expected string")
		}
		return String(s), nil

	case KindList:
		var items []taggedValue
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, invalidCause(path, err, "expected list")
		}
		list := make(List, len(items))
		for i, item := range items {
			v, err := decodeTagged(item.Type, item.Value, fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return nil, err
			}
			list[i] = v
		}
		return list, nil

	case KindEntityList:
		var raws []rawEntity
		if err := json.Unmarshal(raw, &raws); err != nil {
			return nil, invalidCause(path, err, "expected entity list")
		}
		entities := make(EntityList, len(raws))
		for i, re := range raws {
			e, err := decodeEntity(re, fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return nil, err
			}
			entities[i] = e
		}
		return entities, nil
	}

	return nil, invalid(path, "unknown type tag %q", tag)
}

func decodeEntity(re rawEntity, path string) (Entity, error) {
	var e Entity
	if re.Type == nil {
		return e, invalid(path+".Type", "missing")
	}
	e.Type = *re.Type

	if len(re.Position) != 4 {
		return e, invalid(path+".Position", "expected 4 components, got %d", len(re.Position))
	}
	copy(e.Position[:], re.Position)

	if len(re.Orientation) != 4 {
		return e, invalid(path+".Orientation", "expected 4 components, got %d", len(re.Orientation))
	}
	copy(e.Orientation[:], re.Orientation)

	if re.ExtraInfo == nil {
		return e, invalid(path+".ExtraInfo", "missing")
	}
	infos := *re.ExtraInfo
	e.ExtraInfo = make([]ExtraInfo, len(infos))
	for i, info := range infos {
		v, err := decodeTagged(info.Type, info.Value, fmt.Sprintf("%s.ExtraInfo[%d]", path, i))
		if err != nil {
			return e, err
		}
		e.ExtraInfo[i] = ExtraInfo{Key: info.Key, Value: v}
	}
	return e, nil
}

func invalid(path, format string, args ...any) error {
	return errors.New(errors.ErrCodeInvalidDocument, "%s: %s", path, fmt.Sprintf(format, args...))
}

func invalidCause(path string, cause error, format string, args ...any) error {
	return errors.Wrap(errors.ErrCodeInvalidDocument, cause, "%s: %s", path, fmt.Sprintf(format, args...))
}
