package fold_test

import (
	"testing"

	"tyfold/internal/fold"
	"tyfold/internal/types"
)

func TestBottomUpVisitsChildrenFirst(t *testing.T) {
	w := newWorld()
	var order []string
	f := fold.NewBottomUpFolder(w.tcx, func(t types.TypeID) types.TypeID {
		order = append(order, w.repr(t))
		return t
	})
	w.tcx.MkUniq(w.tcx.MkTup(w.b.Bool, w.b.Char)).FoldWith(f)

	want := []string{"bool", "char", "(bool, char)", "Box<(bool, char)>"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestBottomUpSeesRebuiltNode(t *testing.T) {
	w := newWorld()
	// Boxes whose content became i64 are unboxed.
	f := fold.NewBottomUpFolder(w.tcx, func(t types.TypeID) types.TypeID {
		if t == w.b.I32 {
			return w.b.I64
		}
		if tt := w.tcx.MustLookup(t); tt.Kind == types.KindUniq && tt.Elem == w.b.I64 {
			return w.b.I64
		}
		return t
	})
	got := w.tcx.MkSlice(w.tcx.MkUniq(w.b.I32)).FoldWith(f)
	if want := w.tcx.MkSlice(w.b.I64); got != want {
		t.Fatalf("got %s, want %s", w.repr(got), w.repr(want))
	}
}

func TestContainerLifting(t *testing.T) {
	w := newWorld()
	x := w.b.Char
	a := w.Pair(x, w.b.Bool)
	c := w.tcx.MkUniq(w.b.Str)

	r := fold.Replace(w.tcx, x, w.b.U32)
	got := types.FoldSlice([]types.TypeID{a, x, c}, r)
	want := []types.TypeID{w.Pair(w.b.U32, w.b.Bool), w.b.U32, c}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("position %d: got %s, want %s", i, w.repr(got[i]), w.repr(want[i]))
		}
	}

	if out := types.FoldSlice[types.TypeID](nil, r); out != nil {
		t.Fatalf("nil slice must fold to nil")
	}
	if types.FoldOptional[types.TypeID](nil, r) != nil {
		t.Fatalf("nil optional must fold to nil")
	}
	opt := x
	if p := types.FoldOptional(&opt, r); *p != w.b.U32 || opt != x {
		t.Fatalf("optional fold wrong or mutated input")
	}

	per := types.NewVecPerParamSpace([]types.TypeID{x}, []types.TypeID{a}, []types.TypeID{c, x})
	fp := types.FoldPerSpace(per, r)
	if fp.Len(types.FnSpace) != 2 || fp.Get(types.FnSpace, 1) != w.b.U32 || fp.Get(types.SelfSpace, 0) != want[0] {
		t.Fatalf("per-space fold wrong: %v", fp.All())
	}
}

type countRegions struct {
	fold.Base
	n int
}

func (c *countRegions) FoldRegion(r types.Region) types.Region {
	c.n++
	return r
}

func TestOverrideSeenAtEveryDepth(t *testing.T) {
	w := newWorld()
	c := &countRegions{}
	c.Init(c, w.tcx)

	scope := types.ScopeRegion(1)
	ty := w.tcx.MkTup(
		w.tcx.MkImmRptr(scope, w.b.I32),
		w.Ref(scope, w.tcx.MkSlice(w.tcx.MkImmRptr(scope, w.b.U8))),
		w.tcx.MkTrait(types.LocalDef(50), nil, types.ExistentialBounds{RegionBound: scope}),
	)
	ty.FoldWith(c)
	if c.n != 4 {
		t.Fatalf("region hook called %d times, want 4", c.n)
	}
}
