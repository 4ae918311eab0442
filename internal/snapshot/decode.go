package snapshot

import (
	"errors"
	"fmt"
	"io"

	"fortio.org/safecast"
	"github.com/vmihailenco/msgpack/v5"

	"tyfold/internal/diag"
	"tyfold/internal/types"
)

var (
	// ErrVersion is returned for snapshots written with another schema.
	ErrVersion = errors.New("snapshot schema version mismatch")
	// ErrCorrupt is returned for snapshots that decode but describe no
	// valid term.
	ErrCorrupt = errors.New("corrupt snapshot")
)

// Code maps a Decode or Load error to its diagnostic code.
func Code(err error) diag.Code {
	if errors.Is(err, ErrVersion) {
		return diag.SnapVersion
	}
	return diag.SnapDecode
}

// Decode reads a snapshot from r and interns its terms into tcx.
func Decode(r io.Reader, tcx *types.Interner) ([]Entry, error) {
	var snap Snapshot
	if err := msgpack.NewDecoder(r).Decode(&snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return snap.Load(tcx)
}

// Load interns the terms of s into tcx and returns its roots in order.
func (s *Snapshot) Load(tcx *types.Interner) (entries []Entry, err error) {
	if s.Schema != SchemaVersion {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrVersion, s.Schema, SchemaVersion)
	}
	d := &decoder{tcx: tcx, ids: make([]types.TypeID, 0, len(s.Nodes))}
	defer func() {
		rec := recover()
		if rec == nil {
			return
		}
		entries = nil
		var de *decodeError
		if e, ok := rec.(*decodeError); ok {
			de = e
		} else {
			de = &decodeError{msg: diag.AsICE(rec).Msg}
		}
		err = fmt.Errorf("%w: node %d: %s", ErrCorrupt, len(d.ids), de.msg)
	}()

	for _, n := range s.Names {
		tcx.RegisterName(d.def(n.Def), n.Name)
	}
	for i := range s.Nodes {
		d.ids = append(d.ids, tcx.Intern(d.node(&s.Nodes[i])))
	}
	entries = make([]Entry, 0, len(s.Roots))
	for _, root := range s.Roots {
		entries = append(entries, Entry{Name: root.Name, Ty: d.ref(root.Node)})
	}
	return entries, nil
}

type decodeError struct{ msg string }

type decoder struct {
	tcx *types.Interner
	ids []types.TypeID
}

func (d *decoder) fail(format string, args ...any) {
	panic(&decodeError{msg: fmt.Sprintf(format, args...)})
}

// ref resolves a node index. Only nodes already decoded may be referenced,
// which also rules out cycles.
func (d *decoder) ref(n uint32) types.TypeID {
	i, err := safecast.Conv[int](n)
	if err != nil || i >= len(d.ids) {
		d.fail("reference to node %d out of order", n)
	}
	return d.ids[i]
}

func (d *decoder) refs(ns []uint32) []types.TypeID {
	if len(ns) == 0 {
		return nil
	}
	out := make([]types.TypeID, len(ns))
	for i, n := range ns {
		out[i] = d.ref(n)
	}
	return out
}

func (d *decoder) node(n *Node) types.Type {
	kind := types.Kind(n.Kind)
	if kind == types.KindInvalid || kind > types.KindErr {
		d.fail("unknown kind %d", n.Kind)
	}
	switch kind {
	case types.KindInt:
		return types.MakeInt(types.Width(n.Width))
	case types.KindUint:
		return types.MakeUint(types.Width(n.Width))
	case types.KindFloat:
		return types.MakeFloat(types.Width(n.Width))
	case types.KindUniq:
		return types.MakeUniq(d.ref(n.Elem))
	case types.KindOpen:
		return types.MakeOpen(d.ref(n.Elem))
	case types.KindVec:
		return types.MakeVec(d.ref(n.Elem), n.Len)
	case types.KindPtr:
		return types.MakePtr(types.MT{Ty: d.ref(n.Elem), Mutbl: d.mutbl(n.Mutbl)})
	case types.KindRptr:
		return types.MakeRptr(d.region(d.need(n.Region, "region")), types.MT{Ty: d.ref(n.Elem), Mutbl: d.mutbl(n.Mutbl)})
	case types.KindStruct:
		return types.MakeStruct(d.def(*d.needDef(n.Def)), d.substs(n.Substs))
	case types.KindEnum:
		return types.MakeEnum(d.def(*d.needDef(n.Def)), d.substs(n.Substs))
	case types.KindTuple:
		return types.MakeTuple(d.refs(n.Elems))
	case types.KindBareFn:
		fn := d.needFn(n.Fn)
		return types.MakeBareFn(&types.BareFnTy{
			Style: types.FnStyle(fn.Style),
			ABI:   types.ABI(fn.ABI),
			Sig:   d.sig(fn),
		})
	case types.KindClosure:
		fn := d.needFn(n.Fn)
		cty := &types.ClosureTy{
			Style:  types.FnStyle(fn.Style),
			Store:  types.TraitStore{Kind: types.UniqTraitStore},
			Bounds: d.bounds(n.Bounds),
			Sig:    d.sig(fn),
			ABI:    types.ABI(fn.ABI),
		}
		if fn.Once {
			cty.Onceness = types.Once
		}
		if fn.Store != nil {
			cty.Store = types.TraitStore{
				Kind:   types.RegionTraitStore,
				Region: d.region(&fn.Store.Region),
				Mutbl:  d.mutbl(fn.Store.Mutbl),
			}
		}
		return types.MakeClosure(cty)
	case types.KindUnboxedClosure:
		return types.MakeUnboxedClosure(d.def(*d.needDef(n.Def)), d.region(d.need(n.Region, "region")))
	case types.KindTrait:
		return types.MakeTrait(&types.TyTrait{
			Def:    d.def(*d.needDef(n.Def)),
			Substs: d.substs(n.Substs),
			Bounds: d.bounds(n.Bounds),
		})
	case types.KindParam:
		if n.Param == nil {
			d.fail("param node without payload")
		}
		return types.MakeParam(d.space(n.Param.Space), n.Param.Idx, d.def(*d.needDef(n.Def)))
	case types.KindInfer:
		if n.Infer == nil {
			d.fail("infer node without payload")
		}
		if types.InferKind(n.Infer.Kind) > types.FloatVar {
			d.fail("unknown inference kind %d", n.Infer.Kind)
		}
		return types.MakeInfer(types.InferTy{Kind: types.InferKind(n.Infer.Kind), Vid: n.Infer.Vid})
	default:
		return types.Type{Kind: kind}
	}
}

func (d *decoder) need(r *Region, what string) *Region {
	if r == nil {
		d.fail("missing %s", what)
	}
	return r
}

func (d *decoder) needDef(def *Def) *Def {
	if def == nil {
		d.fail("missing definition")
	}
	return def
}

func (d *decoder) needFn(fn *Fn) *Fn {
	if fn == nil {
		d.fail("function node without signature")
	}
	return fn
}

func (d *decoder) def(def Def) types.DefID {
	return types.DefID{Krate: def.Krate, Node: types.NodeID(def.Node)}
}

func (d *decoder) mutbl(m uint8) types.Mutability {
	if m > uint8(types.Mutable) {
		d.fail("unknown mutability %d", m)
	}
	return types.Mutability(m)
}

func (d *decoder) space(s uint8) types.ParamSpace {
	if s > uint8(types.FnSpace) {
		d.fail("unknown parameter space %d", s)
	}
	return types.ParamSpace(s)
}

func (d *decoder) region(r *Region) types.Region {
	kind := types.RegionKind(r.Kind)
	if kind > types.ReEmpty {
		d.fail("unknown region kind %d", r.Kind)
	}
	out := types.Region{
		Kind:  kind,
		Node:  types.NodeID(r.Node),
		Space: d.space(r.Space),
		Index: r.Index,
		Name:  r.Name,
	}
	if kind == types.ReLateBound || kind == types.ReFree {
		if r.Bound == nil {
			d.fail("%s region without bound region", kind)
		}
		br := types.BoundRegionKind(r.Bound.Kind)
		if br > types.BrFresh {
			d.fail("unknown bound region kind %d", r.Bound.Kind)
		}
		out.Bound = types.BoundRegion{Kind: br, Index: r.Bound.Index, Name: r.Bound.Name}
		if br == types.BrNamed {
			out.Bound.Def = d.def(r.Bound.Def)
		}
	}
	return out
}

func (d *decoder) bounds(b *Bounds) types.ExistentialBounds {
	if b == nil {
		d.fail("missing existential bounds")
	}
	return types.ExistentialBounds{
		RegionBound:   d.region(&b.Region),
		BuiltinBounds: types.BuiltinBounds(b.Builtin),
	}
}

func (d *decoder) sig(fn *Fn) types.FnSig {
	return types.FnSig{
		BinderID: types.NodeID(fn.Binder),
		Inputs:   d.refs(fn.Inputs),
		Output:   d.ref(fn.Output),
		Variadic: fn.Variadic,
	}
}

func (d *decoder) substs(s *Substs) *types.Substs {
	if s == nil {
		return types.EmptySubsts()
	}
	if len(s.Types) > len(types.AllSpaces) || len(s.Regions) > len(types.AllSpaces) {
		d.fail("substitution with more than %d spaces", len(types.AllSpaces))
	}
	var tys [len(types.AllSpaces)][]types.TypeID
	for i := range s.Types {
		tys[i] = d.refs(s.Types[i])
	}
	perSpace := types.NewVecPerParamSpace(tys[0], tys[1], tys[2])
	if s.Erased {
		if len(s.Regions) > 0 {
			d.fail("erased substitution with regions")
		}
		return types.NewErasedSubsts(perSpace)
	}
	var regions [len(types.AllSpaces)][]types.Region
	for i := range s.Regions {
		for j := range s.Regions[i] {
			regions[i] = append(regions[i], d.region(&s.Regions[i][j]))
		}
	}
	return types.NewSubsts(perSpace, types.NewVecPerParamSpace(regions[0], regions[1], regions[2]))
}
