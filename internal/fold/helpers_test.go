package fold_test

import (
	"testing"

	"tyfold/internal/diag"
	"tyfold/internal/types"
)

// world is a small set of declarations shared by the tests:
//
//	struct Pair<T, U>
//	struct Ref<'a, T>
type world struct {
	tcx  *types.Interner
	b    types.Builtins
	pair types.DefID
	ref  types.DefID
	T, U types.TypeID
	A    types.Region
}

func newWorld() *world {
	tcx := types.NewInterner()
	w := &world{
		tcx:  tcx,
		b:    tcx.Builtins(),
		pair: types.LocalDef(1),
		ref:  types.LocalDef(2),
	}
	tcx.RegisterName(w.pair, "Pair")
	tcx.RegisterName(w.ref, "Ref")
	tcx.RegisterName(types.LocalDef(11), "T")
	tcx.RegisterName(types.LocalDef(12), "U")
	w.T = tcx.MkParam(types.TypeSpace, 0, types.LocalDef(11))
	w.U = tcx.MkParam(types.TypeSpace, 1, types.LocalDef(12))
	w.A = types.EarlyBound(2, types.TypeSpace, 0, "a")
	return w
}

func (w *world) Pair(a, b types.TypeID) types.TypeID {
	return w.tcx.MkStruct(w.pair, types.TypeSubsts(a, b))
}

func (w *world) Ref(r types.Region, t types.TypeID) types.TypeID {
	return w.tcx.MkStruct(w.ref, types.NewSubsts(
		types.SingleSpace(types.TypeSpace, []types.TypeID{t}),
		types.SingleSpace(types.TypeSpace, []types.Region{r}),
	))
}

// fnOf builds fn(inputs) -> output bound at binder.
func (w *world) fnOf(binder types.NodeID, output types.TypeID, inputs ...types.TypeID) types.TypeID {
	return w.tcx.MkCtorFn(binder, inputs, output)
}

func (w *world) repr(t types.TypeID) string {
	return w.tcx.Repr(t)
}

// sample returns one term of every composite kind, each mentioning
// parameters and several region flavours.
func (w *world) sample() []types.TypeID {
	tcx := w.tcx
	late := types.LateBound(40, types.BoundRegion{Kind: types.BrAnon})
	free := types.FreeRegion(41, types.BoundRegion{Kind: types.BrNamed, Name: "b", Def: types.LocalDef(41)})
	trait := types.LocalDef(50)
	tcx.RegisterName(trait, "Show")

	closure := tcx.MkClosure(types.ClosureTy{
		Style:    types.NormalFn,
		Onceness: types.Once,
		Store:    types.TraitStore{Kind: types.RegionTraitStore, Region: free, Mutbl: types.Mutable},
		Bounds:   types.ExistentialBounds{RegionBound: types.ScopeRegion(7), BuiltinBounds: types.EmptyBuiltinBounds.Add(types.BoundSend)},
		Sig: types.FnSig{
			BinderID: 42,
			Inputs:   []types.TypeID{tcx.MkImmRptr(types.LateBound(42, types.BoundRegion{Kind: types.BrAnon}), w.T)},
			Output:   w.U,
		},
	})

	return []types.TypeID{
		w.b.Bool,
		w.T,
		tcx.MkUniq(w.T),
		tcx.MkImmPtr(w.U),
		tcx.MkMutRptr(w.A, w.T),
		tcx.MkImmRptr(types.InferRegion(3), w.b.Str),
		tcx.MkSlice(w.Pair(w.T, w.b.I32)),
		tcx.MkVec(w.U, 3),
		tcx.MkOpen(tcx.MkSlice(w.b.U8)),
		tcx.MkEnum(types.LocalDef(60), types.TypeSubsts(w.U)),
		tcx.MkTup(w.T, w.U, w.b.Char),
		w.fnOf(40, w.T, tcx.MkImmRptr(late, w.U), tcx.MkImmRptr(free, w.T)),
		closure,
		tcx.MkUnboxedClosure(types.LocalDef(70), types.ScopeRegion(9)),
		tcx.MkTrait(trait, types.TypeSubsts(w.T), types.ExistentialBounds{RegionBound: free}),
		w.Ref(w.A, w.Pair(w.T, w.U)),
		tcx.MkInfer(types.InferTy{Kind: types.IntVar, Vid: 1}),
		w.b.Err,
	}
}

// expectICE runs fn and returns the internal compiler error it raised.
func expectICE(t *testing.T, code diag.Code, fn func()) *diag.ICE {
	t.Helper()
	ice := diag.Recover(nil, fn)
	if ice == nil {
		t.Fatalf("expected internal compiler error %s", code.ID())
	}
	if ice.Code != code {
		t.Fatalf("expected %s, got %s: %s", code.ID(), ice.Code.ID(), ice.Msg)
	}
	return ice
}
