// Package snapshot serializes interned type terms with msgpack.
//
// A snapshot is self-contained: every term is stored as a node whose
// children are indices of earlier nodes, so loading it into any interner
// rebuilds the same terms. Names registered for the definitions the terms
// mention travel with them.
package snapshot

// SchemaVersion is bumped whenever the wire layout changes.
const SchemaVersion uint16 = 1

// Snapshot is the wire form of a term forest.
type Snapshot struct {
	Schema uint16 `msgpack:"schema"`
	Names  []Name `msgpack:"names,omitempty"`
	Nodes  []Node `msgpack:"nodes"`
	Roots  []Root `msgpack:"roots"`
}

// Root is a named entry point into the node list.
type Root struct {
	Name string `msgpack:"name"`
	Node uint32 `msgpack:"node"`
}

// Name is a definition name registered in the exporting interner.
type Name struct {
	Def  Def    `msgpack:"def"`
	Name string `msgpack:"name"`
}

// Def is a types.DefID.
type Def struct {
	Krate uint32 `msgpack:"k,omitempty"`
	Node  uint32 `msgpack:"n"`
}

// Node mirrors types.Type with child TypeIDs replaced by node indices.
type Node struct {
	Kind   uint8    `msgpack:"k"`
	Width  uint8    `msgpack:"w,omitempty"`
	Elem   uint32   `msgpack:"e,omitempty"`
	Len    uint32   `msgpack:"n,omitempty"`
	Mutbl  uint8    `msgpack:"m,omitempty"`
	Region *Region  `msgpack:"r,omitempty"`
	Def    *Def     `msgpack:"d,omitempty"`
	Substs *Substs  `msgpack:"s,omitempty"`
	Elems  []uint32 `msgpack:"el,omitempty"`
	Fn     *Fn      `msgpack:"f,omitempty"`
	Bounds *Bounds  `msgpack:"b,omitempty"`
	Param  *Param   `msgpack:"p,omitempty"`
	Infer  *Infer   `msgpack:"i,omitempty"`
}

// Region mirrors types.Region.
type Region struct {
	Kind  uint8        `msgpack:"k"`
	Node  uint32       `msgpack:"n,omitempty"`
	Space uint8        `msgpack:"s,omitempty"`
	Index uint32       `msgpack:"i,omitempty"`
	Name  string       `msgpack:"name,omitempty"`
	Bound *BoundRegion `msgpack:"br,omitempty"`
}

// BoundRegion mirrors types.BoundRegion.
type BoundRegion struct {
	Kind  uint8  `msgpack:"k"`
	Index uint32 `msgpack:"i,omitempty"`
	Def   Def    `msgpack:"d"`
	Name  string `msgpack:"name,omitempty"`
}

// Substs holds one slice per parameter space, in type, self, fn order.
type Substs struct {
	Types   [][]uint32 `msgpack:"t"`
	Erased  bool       `msgpack:"erased,omitempty"`
	Regions [][]Region `msgpack:"r,omitempty"`
}

// Fn is the payload of bare fn and closure nodes.
type Fn struct {
	Style    uint8    `msgpack:"style,omitempty"`
	ABI      uint8    `msgpack:"abi,omitempty"`
	Once     bool     `msgpack:"once,omitempty"`
	Binder   uint32   `msgpack:"binder,omitempty"`
	Inputs   []uint32 `msgpack:"in,omitempty"`
	Output   uint32   `msgpack:"out"`
	Variadic bool     `msgpack:"variadic,omitempty"`
	Store    *Store   `msgpack:"store,omitempty"`
}

// Store is a closure's trait store; nil means an owned box.
type Store struct {
	Region Region `msgpack:"r"`
	Mutbl  uint8  `msgpack:"m,omitempty"`
}

// Bounds mirrors types.ExistentialBounds.
type Bounds struct {
	Region  Region `msgpack:"r"`
	Builtin uint8  `msgpack:"bb,omitempty"`
}

// Param mirrors types.ParamTy without its DefID, which lives in Node.Def.
type Param struct {
	Space uint8  `msgpack:"s,omitempty"`
	Idx   uint32 `msgpack:"i,omitempty"`
}

// Infer mirrors types.InferTy.
type Infer struct {
	Kind uint8  `msgpack:"k,omitempty"`
	Vid  uint32 `msgpack:"v"`
}
