package snapshot

import (
	"fmt"
	"io"
	"sort"

	"fortio.org/safecast"
	"github.com/vmihailenco/msgpack/v5"

	"tyfold/internal/types"
)

// Entry is a named term.
type Entry struct {
	Name string
	Ty   types.TypeID
}

// Build collects the terms reachable from entries into a snapshot. Shared
// subterms are stored once.
func Build(tcx *types.Interner, entries []Entry) (snap *Snapshot, err error) {
	e := &encoder{
		tcx:   tcx,
		index: make(map[types.TypeID]uint32),
		defs:  make(map[types.DefID]struct{}),
	}
	defer func() {
		if rec := recover(); rec != nil {
			snap, err = nil, fmt.Errorf("failed to build snapshot: %v", rec)
		}
	}()
	snap = &Snapshot{Schema: SchemaVersion, Roots: make([]Root, 0, len(entries))}
	for _, en := range entries {
		snap.Roots = append(snap.Roots, Root{Name: en.Name, Node: e.ty(en.Ty)})
	}
	snap.Nodes = e.nodes
	snap.Names = e.names()
	return snap, nil
}

// Encode writes the snapshot of entries to w.
func Encode(w io.Writer, tcx *types.Interner, entries []Entry) error {
	snap, err := Build(tcx, entries)
	if err != nil {
		return err
	}
	return msgpack.NewEncoder(w).Encode(snap)
}

type encoder struct {
	tcx   *types.Interner
	index map[types.TypeID]uint32
	nodes []Node
	defs  map[types.DefID]struct{}
}

func (e *encoder) ty(id types.TypeID) uint32 {
	if n, ok := e.index[id]; ok {
		return n
	}
	t := e.tcx.MustLookup(id)
	node := Node{Kind: uint8(t.Kind)}
	switch t.Kind {
	case types.KindInt, types.KindUint, types.KindFloat:
		node.Width = uint8(t.Width)
	case types.KindUniq, types.KindOpen:
		node.Elem = e.ty(t.Elem)
	case types.KindVec:
		node.Elem = e.ty(t.Elem)
		node.Len = t.Len
	case types.KindPtr:
		node.Elem = e.ty(t.MT.Ty)
		node.Mutbl = uint8(t.MT.Mutbl)
	case types.KindRptr:
		node.Region = e.region(t.Region)
		node.Elem = e.ty(t.MT.Ty)
		node.Mutbl = uint8(t.MT.Mutbl)
	case types.KindStruct, types.KindEnum:
		node.Def = e.def(t.Def)
		node.Substs = e.substs(t.Substs)
	case types.KindTuple:
		node.Elems = e.tys(t.Elems)
	case types.KindBareFn:
		node.Fn = e.sig(t.BareFn.Sig)
		node.Fn.Style = uint8(t.BareFn.Style)
		node.Fn.ABI = uint8(t.BareFn.ABI)
	case types.KindClosure:
		c := t.Closure
		node.Fn = e.sig(c.Sig)
		node.Fn.Style = uint8(c.Style)
		node.Fn.ABI = uint8(c.ABI)
		node.Fn.Once = c.Onceness == types.Once
		if c.Store.Kind == types.RegionTraitStore {
			node.Fn.Store = &Store{Region: *e.region(c.Store.Region), Mutbl: uint8(c.Store.Mutbl)}
		}
		node.Bounds = e.bounds(c.Bounds)
	case types.KindUnboxedClosure:
		node.Def = e.def(t.Def)
		node.Region = e.region(t.Region)
	case types.KindTrait:
		node.Def = e.def(t.Trait.Def)
		node.Substs = e.substs(t.Trait.Substs)
		node.Bounds = e.bounds(t.Trait.Bounds)
	case types.KindParam:
		node.Def = e.def(t.Param.Def)
		node.Param = &Param{Space: uint8(t.Param.Space), Idx: t.Param.Idx}
	case types.KindInfer:
		node.Infer = &Infer{Kind: uint8(t.Infer.Kind), Vid: t.Infer.Vid}
	}
	n, err := safecast.Conv[uint32](len(e.nodes))
	if err != nil {
		panic(fmt.Errorf("too many nodes: %w", err))
	}
	e.nodes = append(e.nodes, node)
	e.index[id] = n
	return n
}

func (e *encoder) tys(ids []types.TypeID) []uint32 {
	if len(ids) == 0 {
		return nil
	}
	out := make([]uint32, len(ids))
	for i, id := range ids {
		out[i] = e.ty(id)
	}
	return out
}

func (e *encoder) def(d types.DefID) *Def {
	e.defs[d] = struct{}{}
	return &Def{Krate: d.Krate, Node: uint32(d.Node)}
}

func (e *encoder) region(r types.Region) *Region {
	out := &Region{
		Kind:  uint8(r.Kind),
		Node:  uint32(r.Node),
		Space: uint8(r.Space),
		Index: r.Index,
		Name:  r.Name,
	}
	if r.Kind == types.ReLateBound || r.Kind == types.ReFree {
		br := r.Bound
		out.Bound = &BoundRegion{Kind: uint8(br.Kind), Index: br.Index, Name: br.Name}
		if br.Kind == types.BrNamed {
			out.Bound.Def = *e.def(br.Def)
		}
	}
	return out
}

func (e *encoder) bounds(b types.ExistentialBounds) *Bounds {
	return &Bounds{Region: *e.region(b.RegionBound), Builtin: uint8(b.BuiltinBounds)}
}

func (e *encoder) sig(sig types.FnSig) *Fn {
	return &Fn{
		Binder:   uint32(sig.BinderID),
		Inputs:   e.tys(sig.Inputs),
		Output:   e.ty(sig.Output),
		Variadic: sig.Variadic,
	}
}

func (e *encoder) substs(s *types.Substs) *Substs {
	out := &Substs{
		Types:  make([][]uint32, len(types.AllSpaces)),
		Erased: s.Regions.Erased,
	}
	for i, space := range types.AllSpaces {
		out.Types[i] = e.tys(s.Types.GetSlice(space))
	}
	if s.Regions.Erased || s.Regions.Regions.IsEmpty() {
		return out
	}
	out.Regions = make([][]Region, len(types.AllSpaces))
	for i, space := range types.AllSpaces {
		for _, r := range s.Regions.Regions.GetSlice(space) {
			out.Regions[i] = append(out.Regions[i], *e.region(r))
		}
	}
	return out
}

func (e *encoder) names() []Name {
	var out []Name
	for d := range e.defs {
		if name, ok := e.tcx.Name(d); ok {
			out = append(out, Name{Def: Def{Krate: d.Krate, Node: uint32(d.Node)}, Name: name})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Def.Krate != out[j].Def.Krate {
			return out[i].Def.Krate < out[j].Def.Krate
		}
		return out[i].Def.Node < out[j].Def.Node
	})
	return out
}
