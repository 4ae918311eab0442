package types

import "fmt"

// RegionKind enumerates the lifetime flavours.
type RegionKind uint8

const (
	// ReStatic is the unbounded lifetime.
	ReStatic RegionKind = iota
	// ReEarlyBound is a lifetime parameter of a generic declaration, substituted
	// like a type parameter.
	ReEarlyBound
	// ReLateBound is bound by the innermost fn or closure type with a matching
	// binder id.
	ReLateBound
	// ReFree is a late-bound region seen from inside its binder's body.
	ReFree
	// ReScope is a lexical scope inside a fn body.
	ReScope
	// ReInfer is a region variable awaiting resolution.
	ReInfer
	// ReEmpty is the empty lifetime.
	ReEmpty
)

func (k RegionKind) String() string {
	switch k {
	case ReStatic:
		return "static"
	case ReEarlyBound:
		return "early_bound"
	case ReLateBound:
		return "late_bound"
	case ReFree:
		return "free"
	case ReScope:
		return "scope"
	case ReInfer:
		return "infer"
	case ReEmpty:
		return "empty"
	default:
		return fmt.Sprintf("RegionKind(%d)", k)
	}
}

// BoundRegionKind distinguishes the ways a binder names its regions.
type BoundRegionKind uint8

const (
	BrAnon BoundRegionKind = iota
	BrNamed
	BrFresh
)

// BoundRegion names a region inside its binder.
type BoundRegion struct {
	Kind  BoundRegionKind
	Index uint32 // BrAnon, BrFresh
	Def   DefID  // BrNamed
	Name  string // BrNamed
}

// Region describes a lifetime. Region is comparable: two regions are the same
// lifetime iff they are ==.
type Region struct {
	Kind  RegionKind
	Node  NodeID      // ReEarlyBound: declaring node; ReLateBound: binder; ReFree, ReScope: scope
	Space ParamSpace  // ReEarlyBound
	Index uint32      // ReEarlyBound: parameter index; ReInfer: variable id
	Name  string      // ReEarlyBound
	Bound BoundRegion // ReLateBound, ReFree
}

// Static is the canonical 'static region.
var Static = Region{Kind: ReStatic}

// EarlyBound builds a lifetime parameter reference.
func EarlyBound(node NodeID, space ParamSpace, index uint32, name string) Region {
	return Region{Kind: ReEarlyBound, Node: node, Space: space, Index: index, Name: name}
}

// LateBound builds a region bound by the fn/closure type with the given binder.
func LateBound(binder NodeID, br BoundRegion) Region {
	return Region{Kind: ReLateBound, Node: binder, Bound: br}
}

// FreeRegion builds a free region scoped to scope.
func FreeRegion(scope NodeID, br BoundRegion) Region {
	return Region{Kind: ReFree, Node: scope, Bound: br}
}

// ScopeRegion builds the region of a lexical scope.
func ScopeRegion(node NodeID) Region {
	return Region{Kind: ReScope, Node: node}
}

// InferRegion builds a region variable.
func InferRegion(vid uint32) Region {
	return Region{Kind: ReInfer, Index: vid}
}

// IsBound reports whether the region is bound (late- or early-bound). Every
// other region is free for folding purposes.
func (r Region) IsBound() bool {
	return r.Kind == ReLateBound || r.Kind == ReEarlyBound
}

// IsErasable reports whether region erasure rewrites r to 'static.
func (r Region) IsErasable() bool {
	return !r.IsBound()
}

func (r Region) String() string {
	switch r.Kind {
	case ReStatic:
		return "'static"
	case ReEarlyBound:
		if r.Name != "" {
			return "'" + r.Name
		}
		return fmt.Sprintf("'early(%s.%d)", r.Space, r.Index)
	case ReLateBound:
		return fmt.Sprintf("'late(%d,%s)", r.Node, r.Bound)
	case ReFree:
		return fmt.Sprintf("'free(%d,%s)", r.Node, r.Bound)
	case ReScope:
		return fmt.Sprintf("'scope(%d)", r.Node)
	case ReInfer:
		return fmt.Sprintf("'_#%dr", r.Index)
	case ReEmpty:
		return "'empty"
	default:
		return fmt.Sprintf("'<%s>", r.Kind)
	}
}

func (br BoundRegion) String() string {
	switch br.Kind {
	case BrNamed:
		return "'" + br.Name
	case BrFresh:
		return fmt.Sprintf("fresh%d", br.Index)
	default:
		return fmt.Sprintf("anon%d", br.Index)
	}
}
