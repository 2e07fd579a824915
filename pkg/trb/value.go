package trb

// Kind identifies a document value variant. The names double as the type
// tags of the JSON document format.
type Kind string

const (
	KindBool       Kind = "Bool"
	KindInteger    Kind = "Integer"
	KindFloating   Kind = "Floating"
	KindString     Kind = "String"
	KindList       Kind = "List"
	KindEntityList Kind = "EntityList"
)

// Value is a typed document value. The set of implementations is closed:
// Bool, Integer, Floating, String, List and EntityList.
type Value interface {
	Kind() Kind
	sealed()
}

// Bool is a boolean value.
type Bool bool

// Integer is a signed 32-bit value.
type Integer int32

// Floating is a single-precision value.
type Floating float32

// String is a text value.
type String string

// List is an ordered list of values.
type List []Value

// EntityList is an ordered list of entities. It is the only legal document
// root.
type EntityList []Entity

func (Bool) Kind() Kind       { return KindBool }
func (Integer) Kind() Kind    { return KindInteger }
func (Floating) Kind() Kind   { return KindFloating }
func (String) Kind() Kind     { return KindString }
func (List) Kind() Kind       { return KindList }
func (EntityList) Kind() Kind { return KindEntityList }

func (Bool) sealed()       {}
func (Integer) sealed()    {}
func (Floating) sealed()   {}
func (String) sealed()     {}
func (List) sealed()       {}
func (EntityList) sealed() {}

// Entity is a placed game object.
type Entity struct {
	Type        string
	Position    [4]float32
	Orientation [4]float64 // quaternion (x, y, z, w)
	ExtraInfo   []ExtraInfo
}

// ExtraInfo is one typed key/value property of an entity. Entries keep
// their document order.
type ExtraInfo struct {
	Key   string
	Value Value
}
