package fold_test

import (
	"testing"

	"tyfold/internal/fold"
	"tyfold/internal/testkit"
	"tyfold/internal/traits"
	"tyfold/internal/types"
	"tyfold/internal/typeck"
)

func TestIdentityLawTypes(t *testing.T) {
	w := newWorld()
	id := fold.NewIdentity(w.tcx)
	for _, ty := range w.sample() {
		if got := ty.FoldWith(id); got != ty {
			t.Fatalf("identity fold changed %s into %s", w.repr(ty), w.repr(got))
		}
		if err := testkit.CheckIdentity(w.tcx, ty); err != nil {
			t.Fatal(err)
		}
	}
	if id.Depth() != 0 {
		t.Fatalf("depth not restored: %d", id.Depth())
	}
}

func TestIdentityLawNonTypes(t *testing.T) {
	w := newWorld()
	id := fold.NewIdentity(w.tcx)
	tr := &types.TraitRef{Def: types.LocalDef(50), Substs: types.TypeSubsts(w.T).WithSelfTy(w.U)}

	substs := types.NewSubsts(
		types.NewVecPerParamSpace([]types.TypeID{w.T}, []types.TypeID{w.U}, []types.TypeID{w.b.Bool}),
		types.SingleSpace(types.FnSpace, []types.Region{w.A}),
	)
	if got := substs.FoldWith(id); w.tcx.SubstsRepr(got) != w.tcx.SubstsRepr(substs) {
		t.Fatalf("substs changed: %s", w.tcx.SubstsRepr(got))
	}

	if got := tr.FoldWith(id); w.tcx.TraitRefRepr(got) != w.tcx.TraitRefRepr(tr) {
		t.Fatalf("trait ref changed: %s", w.tcx.TraitRefRepr(got))
	}
	var nilRef *types.TraitRef
	if nilRef.FoldWith(id) != nil {
		t.Fatalf("nil trait ref must fold to nil")
	}

	ar := types.AutoRef{Kind: types.AutoPtr, Region: w.A, Mutbl: types.Mutable,
		Inner: &types.AutoRef{Kind: types.AutoPtr, Region: types.ScopeRegion(4)}}
	got := ar.FoldWith(id)
	if got.Region != ar.Region || got.Inner == nil || got.Inner.Region != ar.Inner.Region || got.Inner == ar.Inner {
		t.Fatalf("autoref not rebuilt faithfully: %+v", got)
	}

	ob := traits.NewObligation(traits.ObligationCause{Code: traits.ItemObligation}, tr)
	ob.RecursionDepth = 3
	if fo := ob.FoldWith(id); fo.RecursionDepth != 3 || fo.Cause != ob.Cause || fo.TraitRef == tr {
		t.Fatalf("obligation not rebuilt: %+v", fo)
	}

	origin := typeck.TypeParamOrigin(tr, 2)
	if fo := origin.FoldWith(id); fo.Kind != typeck.MethodTypeParam || fo.Param.MethodNum != 2 {
		t.Fatalf("method origin changed: %+v", fo)
	}
}

func TestSubstReplacesParams(t *testing.T) {
	w := newWorld()
	s := types.TypeSubsts(w.b.I32, w.b.Bool)

	cases := []struct {
		in, want types.TypeID
	}{
		{w.T, w.b.I32},
		{w.U, w.b.Bool},
		{w.tcx.MkUniq(w.T), w.tcx.MkUniq(w.b.I32)},
		{w.Pair(w.U, w.T), w.Pair(w.b.Bool, w.b.I32)},
		{w.fnOf(5, w.U, w.T), w.fnOf(5, w.b.Bool, w.b.I32)},
		{w.b.Str, w.b.Str},
	}
	for _, tc := range cases {
		if got := fold.Subst(w.tcx, tc.in, s); got != tc.want {
			t.Fatalf("subst %s = %s, want %s", w.repr(tc.in), w.repr(got), w.repr(tc.want))
		}
	}
}

func TestSubstLeavesOtherSpacesAlone(t *testing.T) {
	w := newWorld()
	fnParam := w.tcx.MkParam(types.FnSpace, 0, types.LocalDef(13))
	s := types.NewSubsts(
		types.NewVecPerParamSpace([]types.TypeID{w.b.I32}, nil, []types.TypeID{w.b.Char}),
		types.VecPerParamSpace[types.Region]{},
	)
	got := fold.Subst(w.tcx, w.tcx.MkTup(w.T, fnParam), s)
	if want := w.tcx.MkTup(w.b.I32, w.b.Char); got != want {
		t.Fatalf("got %s, want %s", w.repr(got), w.repr(want))
	}
}

func TestSubstPairTwoPasses(t *testing.T) {
	w := newWorld()
	s := types.TypeSubsts(w.b.I32, w.Pair(w.T, w.b.Bool))

	once := fold.Subst(w.tcx, w.Pair(w.T, w.U), s)
	if got := w.repr(once); got != "Pair<i32, Pair<T, bool>>" {
		t.Fatalf("first pass = %s", got)
	}
	twice := fold.Subst(w.tcx, once, s)
	want := w.Pair(w.b.I32, w.Pair(w.b.I32, w.b.Bool))
	if twice != want {
		t.Fatalf("second pass = %s, want %s", w.repr(twice), w.repr(want))
	}
	if got := w.repr(twice); got != "Pair<i32, Pair<i32, bool>>" {
		t.Fatalf("repr = %s", got)
	}
	if err := testkit.CheckConcrete(w.tcx, twice); err != nil {
		t.Fatal(err)
	}
}

func TestSubstEarlyBoundRegions(t *testing.T) {
	w := newWorld()
	ty := w.tcx.MkImmRptr(w.A, w.T)
	scope := types.ScopeRegion(77)

	withRegions := types.NewSubsts(
		types.SingleSpace(types.TypeSpace, []types.TypeID{w.b.U8}),
		types.SingleSpace(types.TypeSpace, []types.Region{scope}),
	)
	if got, want := fold.Subst(w.tcx, ty, withRegions), w.tcx.MkImmRptr(scope, w.b.U8); got != want {
		t.Fatalf("got %s, want %s", w.repr(got), w.repr(want))
	}

	erased := types.NewErasedSubsts(types.SingleSpace(types.TypeSpace, []types.TypeID{w.b.U8}))
	if got, want := fold.Subst(w.tcx, ty, erased), w.tcx.MkImmRptr(types.Static, w.b.U8); got != want {
		t.Fatalf("got %s, want %s", w.repr(got), w.repr(want))
	}
}

func TestSubstOnNonTypeFoldables(t *testing.T) {
	w := newWorld()
	s := types.TypeSubsts(w.b.I64, w.b.Char)
	tr := &types.TraitRef{Def: types.LocalDef(50), Substs: types.TypeSubsts(w.U)}

	vt := traits.NewImplVtable(types.LocalDef(80), types.TypeSubsts(w.T),
		types.SingleSpace(types.TypeSpace, []traits.Obligation{traits.NewObligation(traits.ObligationCause{}, tr)}))
	got := fold.Subst(w.tcx, vt, s)
	if got.Impl.Substs.Types.Get(types.TypeSpace, 0) != w.b.I64 {
		t.Fatalf("vtable substs not substituted: %s", w.tcx.SubstsRepr(got.Impl.Substs))
	}
	nested := got.NestedObligations()
	if len(nested) != 1 || nested[0].TraitRef.Substs.Types.Get(types.TypeSpace, 0) != w.b.Char {
		t.Fatalf("nested obligation not substituted")
	}

	origin := typeck.StaticVtable(types.LocalDef(81), types.TypeSubsts(w.T),
		types.SingleSpace(types.FnSpace, []typeck.VtableParamRes{{typeck.StaticVtable(types.LocalDef(82), types.TypeSubsts(w.U), typeck.VtableRes{})}}))
	fo := fold.Subst(w.tcx, origin, s)
	inner := fo.Nested.Get(types.FnSpace, 0)[0]
	if fo.Substs.Types.Get(types.TypeSpace, 0) != w.b.I64 || inner.Substs.Types.Get(types.TypeSpace, 0) != w.b.Char {
		t.Fatalf("vtable origin not substituted")
	}

	g := types.Generics{Types: types.SingleSpace(types.TypeSpace, []types.TypeParameterDef{{
		Name:    "X",
		Def:     types.LocalDef(90),
		Default: &w.T,
		Bounds:  types.ParamBounds{TraitBounds: []*types.TraitRef{tr}},
	}})}
	fg := fold.Subst(w.tcx, g, s).Types.Get(types.TypeSpace, 0)
	if *fg.Default != w.b.I64 || fg.Bounds.TraitBounds[0].Substs.Types.Get(types.TypeSpace, 0) != w.b.Char {
		t.Fatalf("generics not substituted")
	}
	if *g.Types.Get(types.TypeSpace, 0).Default != w.T {
		t.Fatalf("input generics mutated")
	}
}

func TestSubstThroughAdjustments(t *testing.T) {
	w := newWorld()
	s := types.TypeSubsts(w.b.I32, w.b.Bool)
	show := types.LocalDef(50)

	vtable := &types.UnsizeKind{
		Tag:    types.UnsizeVtable,
		Trait:  types.TyTrait{Def: show, Substs: types.TypeSubsts(w.U), Bounds: types.ExistentialBounds{RegionBound: types.ScopeRegion(5)}},
		SelfTy: w.T,
	}
	ar := types.AutoRef{
		Kind:   types.AutoUnsizeUniq,
		Unsize: &types.UnsizeKind{Tag: types.UnsizeStruct, Field: 2, Inner: vtable},
	}
	got := fold.Subst(w.tcx, ar, s)
	if got.Kind != types.AutoUnsizeUniq || got.Unsize == nil || got.Unsize == ar.Unsize {
		t.Fatalf("unsize link not rebuilt: %+v", got)
	}
	if got.Unsize.Tag != types.UnsizeStruct || got.Unsize.Field != 2 {
		t.Fatalf("struct unsize changed: %+v", got.Unsize)
	}
	inner := got.Unsize.Inner
	if inner == nil || inner == vtable || inner.Tag != types.UnsizeVtable {
		t.Fatalf("inner unsize not rebuilt: %+v", inner)
	}
	if inner.SelfTy != w.b.I32 || inner.Trait.Def != show {
		t.Fatalf("vtable unsize self = %s", w.repr(inner.SelfTy))
	}
	if inner.Trait.Substs.Types.Get(types.TypeSpace, 0) != w.b.Bool {
		t.Fatalf("object trait args = %s", w.tcx.SubstsRepr(inner.Trait.Substs))
	}
	if inner.Trait.Bounds.RegionBound != types.ScopeRegion(5) {
		t.Fatalf("object region bound = %s", inner.Trait.Bounds.RegionBound)
	}
	if vtable.SelfTy != w.T || vtable.Trait.Substs.Types.Get(types.TypeSpace, 0) != w.U {
		t.Fatalf("input adjustment mutated")
	}

	length := types.AutoRef{Kind: types.AutoUnsize, Unsize: &types.UnsizeKind{Tag: types.UnsizeLength, Length: 4}}
	if fl := fold.Subst(w.tcx, length, s); fl.Kind != types.AutoUnsize || fl.Unsize.Length != 4 || fl.Unsize.Tag != types.UnsizeLength {
		t.Fatalf("length unsize changed: %+v", fl.Unsize)
	}

	is := types.ItemSubsts{Substs: types.TypeSubsts(w.T, w.Pair(w.U, w.T))}
	if is.IsNoop() {
		t.Fatalf("item substs with arguments reported as no-op")
	}
	fis := fold.Subst(w.tcx, is, s)
	if got := w.tcx.SubstsRepr(fis.Substs); got != "[i32, Pair<bool, i32>; ;  | ]" {
		t.Fatalf("item substs = %s", got)
	}
	if is.Substs.Types.Get(types.TypeSpace, 0) != w.T {
		t.Fatalf("input item substs mutated")
	}
	var empty types.ItemSubsts
	if !empty.IsNoop() || fold.Subst(w.tcx, empty, s).Substs != nil {
		t.Fatalf("empty item substs must stay empty")
	}
}

func TestSubstNilIsIdentity(t *testing.T) {
	w := newWorld()
	if got := fold.Subst(w.tcx, w.T, nil); got != w.T {
		t.Fatalf("nil substs changed %s", w.repr(got))
	}
}
