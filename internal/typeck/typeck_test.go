package typeck_test

import (
	"testing"

	"tyfold/internal/fold"
	"tyfold/internal/typeck"
	"tyfold/internal/types"
)

func setup() (*types.Interner, types.Builtins, types.TypeID, types.TypeID, *types.Substs) {
	tcx := types.NewInterner()
	b := tcx.Builtins()
	T := tcx.MkParam(types.TypeSpace, 0, types.LocalDef(1))
	U := tcx.MkParam(types.TypeSpace, 1, types.LocalDef(2))
	return tcx, b, T, U, types.TypeSubsts(b.I32, b.Bool)
}

func TestTraitObjectOriginSubst(t *testing.T) {
	tcx, b, T, U, s := setup()
	tr := &types.TraitRef{Def: types.LocalDef(10), Substs: types.TypeSubsts(U).WithSelfTy(T)}
	origin := typeck.TraitObjectOrigin(typeck.MethodObject{
		TraitRef:    tr,
		ObjectTrait: types.LocalDef(11),
		MethodNum:   3,
		RealIndex:   5,
	})

	got := fold.Subst(tcx, origin, s)
	if got.Kind != typeck.MethodTraitObject {
		t.Fatalf("kind = %s", got.Kind)
	}
	obj := got.Object
	if obj.ObjectTrait != types.LocalDef(11) || obj.MethodNum != 3 || obj.RealIndex != 5 {
		t.Fatalf("object metadata not kept: %+v", obj)
	}
	if self, _ := obj.TraitRef.SelfTy(); self != b.I32 {
		t.Fatalf("self not substituted: %s", tcx.TraitRefRepr(obj.TraitRef))
	}
	if obj.TraitRef.Substs.Types.Get(types.TypeSpace, 0) != b.Bool {
		t.Fatalf("trait args not substituted: %s", tcx.TraitRefRepr(obj.TraitRef))
	}
	if self, _ := tr.SelfTy(); self != T || origin.Object.TraitRef != tr {
		t.Fatalf("input origin mutated")
	}
}

func TestTypeParamOriginKeepsMethodNum(t *testing.T) {
	tcx, b, T, _, s := setup()
	tr := &types.TraitRef{Def: types.LocalDef(10), Substs: types.EmptySubsts().WithSelfTy(T)}
	got := fold.Subst(tcx, typeck.TypeParamOrigin(tr, 7), s)
	if got.Param.MethodNum != 7 {
		t.Fatalf("method num = %d, want 7", got.Param.MethodNum)
	}
	if self, _ := got.Param.TraitRef.SelfTy(); self != b.I32 {
		t.Fatalf("self not substituted: %s", tcx.TraitRefRepr(got.Param.TraitRef))
	}
}

func TestStaticOriginsCarryNoTypes(t *testing.T) {
	tcx, _, _, _, s := setup()
	for _, o := range []typeck.MethodOrigin{
		typeck.StaticOrigin(types.LocalDef(20)),
		typeck.UnboxedClosureOrigin(types.LocalDef(21)),
	} {
		if got := fold.Subst(tcx, o, s); got != o {
			t.Fatalf("%s origin changed: %+v", o.Kind, got)
		}
	}
}

func TestVtableOriginSubst(t *testing.T) {
	tcx, b, T, U, s := setup()
	param := typeck.ParamVtable(typeck.ParamIndex{Space: types.FnSpace, Index: 1, Bound: 2})
	closure := typeck.UnboxedClosureVtable(types.LocalDef(30))
	nested := types.NewVecPerParamSpace(
		[]typeck.VtableParamRes{{param, closure}},
		nil,
		[]typeck.VtableParamRes{{typeck.ErrorVtable()}},
	)
	origin := typeck.StaticVtable(types.LocalDef(40), types.TypeSubsts(U, T), nested)

	got := fold.Subst(tcx, origin, s)
	if got.Def != types.LocalDef(40) {
		t.Fatalf("impl changed: %s", got.Def)
	}
	if tcx.SubstsRepr(got.Substs) != tcx.SubstsRepr(types.TypeSubsts(b.Bool, b.I32)) {
		t.Fatalf("impl substs = %s", tcx.SubstsRepr(got.Substs))
	}
	res := got.Nested.Get(types.TypeSpace, 0)
	if len(res) != 2 || res[0].Kind != typeck.VtableParam || res[0].Param != param.Param || res[1].Kind != typeck.VtableUnboxedClosure || res[1].Def != types.LocalDef(30) {
		t.Fatalf("nested origins changed: %+v", res)
	}
	if got.Nested.Get(types.FnSpace, 0)[0].Kind != typeck.VtableError {
		t.Fatalf("error origin changed")
	}
	if origin.Substs.Types.Get(types.TypeSpace, 0) != U {
		t.Fatalf("input origin mutated")
	}
}

func TestOriginKindStrings(t *testing.T) {
	if got := typeck.MethodTraitObject.String(); got != "trait_object" {
		t.Fatalf("MethodTraitObject = %q", got)
	}
	if got := typeck.VtableUnboxedClosure.String(); got != "unboxed_closure" {
		t.Fatalf("VtableUnboxedClosure = %q", got)
	}
	if got := typeck.VtableOriginKind(9).String(); got != "VtableOriginKind(9)" {
		t.Fatalf("unknown kind = %q", got)
	}
}
