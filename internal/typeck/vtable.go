package typeck

import (
	"fmt"

	"tyfold/internal/types"
)

// VtableOriginKind selects the payload of a VtableOrigin.
type VtableOriginKind uint8

const (
	// VtableStatic is an impl known at compile time.
	VtableStatic VtableOriginKind = iota
	// VtableParam is the vtable of a bound on a type parameter.
	VtableParam
	// VtableUnboxedClosure is the vtable of an unboxed closure.
	VtableUnboxedClosure
	// VtableError marks a resolution that failed and was already reported.
	VtableError
)

func (k VtableOriginKind) String() string {
	switch k {
	case VtableStatic:
		return "static"
	case VtableParam:
		return "param"
	case VtableUnboxedClosure:
		return "unboxed_closure"
	case VtableError:
		return "error"
	default:
		return fmt.Sprintf("VtableOriginKind(%d)", k)
	}
}

// ParamIndex names the n-th bound of a type parameter.
type ParamIndex struct {
	Space types.ParamSpace
	Index uint32
	Bound uint32
}

// VtableOrigin records how one trait bound at a call site is satisfied.
type VtableOrigin struct {
	Kind VtableOriginKind
	// Def is the impl for VtableStatic and the closure for
	// VtableUnboxedClosure.
	Def    types.DefID
	Substs *types.Substs
	// Nested resolves the impl's own bounds.
	Nested VtableRes
	Param  ParamIndex
}

// VtableParamRes resolves the bounds of one type parameter, in order.
type VtableParamRes []VtableOrigin

// VtableRes resolves every type parameter of an item, per space.
type VtableRes = types.VecPerParamSpace[VtableParamRes]

// StaticVtable builds a VtableStatic origin.
func StaticVtable(impl types.DefID, substs *types.Substs, nested VtableRes) VtableOrigin {
	return VtableOrigin{Kind: VtableStatic, Def: impl, Substs: substs, Nested: nested}
}

// ParamVtable builds a VtableParam origin.
func ParamVtable(p ParamIndex) VtableOrigin {
	return VtableOrigin{Kind: VtableParam, Param: p}
}

// UnboxedClosureVtable builds a VtableUnboxedClosure origin.
func UnboxedClosureVtable(closure types.DefID) VtableOrigin {
	return VtableOrigin{Kind: VtableUnboxedClosure, Def: closure}
}

// ErrorVtable builds a VtableError origin.
func ErrorVtable() VtableOrigin {
	return VtableOrigin{Kind: VtableError}
}

// FoldWith folds the substitution and nested resolutions of static origins.
func (v VtableOrigin) FoldWith(f types.Folder) VtableOrigin {
	if v.Kind != VtableStatic {
		return v
	}
	return VtableOrigin{
		Kind:   VtableStatic,
		Def:    v.Def,
		Substs: v.Substs.FoldWith(f),
		Nested: types.FoldPerSpace(v.Nested, f),
	}
}

func (r VtableParamRes) FoldWith(f types.Folder) VtableParamRes {
	return types.FoldSlice(r, f)
}
