package traits

import (
	"fmt"

	"tyfold/internal/types"
)

// VtableKind selects the payload of a Vtable.
type VtableKind uint8

const (
	// VtableImpl resolves to a user impl.
	VtableImpl VtableKind = iota
	// VtableUnboxedClosure resolves to the closure's own call method.
	VtableUnboxedClosure
	// VtableParam is satisfied by a where-clause of the enclosing item.
	VtableParam
	// VtableBuiltin is satisfied by the compiler (Copy, Sized, ...).
	VtableBuiltin
)

func (k VtableKind) String() string {
	switch k {
	case VtableImpl:
		return "impl"
	case VtableUnboxedClosure:
		return "unboxed_closure"
	case VtableParam:
		return "param"
	case VtableBuiltin:
		return "builtin"
	default:
		return fmt.Sprintf("VtableKind(%d)", k)
	}
}

// VtableImplData names the selected impl, the substitution that instantiates
// it and the nested results for its own where-clauses.
type VtableImplData[N types.Foldable[N]] struct {
	ImplDef types.DefID
	Substs  *types.Substs
	Nested  types.VecPerParamSpace[N]
}

// VtableParamData carries the where-clause bound that matched.
type VtableParamData struct {
	Bound *types.TraitRef
}

// VtableBuiltinData carries nested results of a builtin impl.
type VtableBuiltinData[N types.Foldable[N]] struct {
	Nested types.VecPerParamSpace[N]
}

// Vtable is the result of selecting an impl for an obligation. N is the type
// of nested results: obligations before confirmation, other vtables after.
type Vtable[N types.Foldable[N]] struct {
	Kind    VtableKind
	Impl    VtableImplData[N]
	Closure types.DefID
	Param   VtableParamData
	Builtin VtableBuiltinData[N]
}

// NewImplVtable builds a VtableImpl.
func NewImplVtable[N types.Foldable[N]](def types.DefID, substs *types.Substs, nested types.VecPerParamSpace[N]) Vtable[N] {
	return Vtable[N]{Kind: VtableImpl, Impl: VtableImplData[N]{ImplDef: def, Substs: substs, Nested: nested}}
}

// NewUnboxedClosureVtable builds a VtableUnboxedClosure.
func NewUnboxedClosureVtable[N types.Foldable[N]](closure types.DefID) Vtable[N] {
	return Vtable[N]{Kind: VtableUnboxedClosure, Closure: closure}
}

// NewParamVtable builds a VtableParam.
func NewParamVtable[N types.Foldable[N]](bound *types.TraitRef) Vtable[N] {
	return Vtable[N]{Kind: VtableParam, Param: VtableParamData{Bound: bound}}
}

// NewBuiltinVtable builds a VtableBuiltin.
func NewBuiltinVtable[N types.Foldable[N]](nested types.VecPerParamSpace[N]) Vtable[N] {
	return Vtable[N]{Kind: VtableBuiltin, Builtin: VtableBuiltinData[N]{Nested: nested}}
}

// NestedObligations returns the nested results of impl and builtin vtables.
func (v Vtable[N]) NestedObligations() []N {
	switch v.Kind {
	case VtableImpl:
		return v.Impl.Nested.All()
	case VtableBuiltin:
		return v.Builtin.Nested.All()
	default:
		return nil
	}
}

func (d VtableImplData[N]) FoldWith(f types.Folder) VtableImplData[N] {
	return VtableImplData[N]{
		ImplDef: d.ImplDef,
		Substs:  d.Substs.FoldWith(f),
		Nested:  types.FoldPerSpace(d.Nested, f),
	}
}

func (d VtableParamData) FoldWith(f types.Folder) VtableParamData {
	return VtableParamData{Bound: d.Bound.FoldWith(f)}
}

func (d VtableBuiltinData[N]) FoldWith(f types.Folder) VtableBuiltinData[N] {
	return VtableBuiltinData[N]{Nested: types.FoldPerSpace(d.Nested, f)}
}

// FoldWith folds the payload selected by Kind.
func (v Vtable[N]) FoldWith(f types.Folder) Vtable[N] {
	switch v.Kind {
	case VtableImpl:
		return Vtable[N]{Kind: VtableImpl, Impl: v.Impl.FoldWith(f)}
	case VtableUnboxedClosure:
		return Vtable[N]{Kind: VtableUnboxedClosure, Closure: v.Closure}
	case VtableParam:
		return Vtable[N]{Kind: VtableParam, Param: v.Param.FoldWith(f)}
	case VtableBuiltin:
		return Vtable[N]{Kind: VtableBuiltin, Builtin: v.Builtin.FoldWith(f)}
	default:
		return v
	}
}
