// Package typeck holds the records method resolution leaves behind for later
// phases: where each method call resolved to and which vtables back it. They
// are folded when a generic body is instantiated.
package typeck

import (
	"fmt"

	"tyfold/internal/types"
)

// MethodOriginKind selects the payload of a MethodOrigin.
type MethodOriginKind uint8

const (
	// MethodStatic is a fully statically known method.
	MethodStatic MethodOriginKind = iota
	// MethodStaticUnboxedClosure is the call method of an unboxed closure.
	MethodStaticUnboxedClosure
	// MethodTypeParam is invoked through a bound on a type parameter.
	MethodTypeParam
	// MethodTraitObject is invoked through a trait object.
	MethodTraitObject
)

func (k MethodOriginKind) String() string {
	switch k {
	case MethodStatic:
		return "static"
	case MethodStaticUnboxedClosure:
		return "static_unboxed_closure"
	case MethodTypeParam:
		return "type_param"
	case MethodTraitObject:
		return "trait_object"
	default:
		return fmt.Sprintf("MethodOriginKind(%d)", k)
	}
}

// MethodParam is the origin of a method called on a type parameter.
type MethodParam struct {
	// TraitRef is the trait providing the method, with Self bound to the
	// type parameter.
	TraitRef *types.TraitRef
	// MethodNum is the index of the method in the trait.
	MethodNum uint32
}

// MethodObject is the origin of a method called on a trait object.
type MethodObject struct {
	TraitRef *types.TraitRef
	// ObjectTrait is the trait of the object type, which may be a subtrait
	// of TraitRef's trait.
	ObjectTrait types.DefID
	MethodNum   uint32
	// RealIndex is the position of the method in the object's vtable.
	RealIndex uint32
}

// MethodOrigin records where a method call resolved to.
type MethodOrigin struct {
	Kind   MethodOriginKind
	Def    types.DefID // MethodStatic, MethodStaticUnboxedClosure
	Param  MethodParam
	Object MethodObject
}

// StaticOrigin builds a MethodStatic origin.
func StaticOrigin(def types.DefID) MethodOrigin {
	return MethodOrigin{Kind: MethodStatic, Def: def}
}

// UnboxedClosureOrigin builds a MethodStaticUnboxedClosure origin.
func UnboxedClosureOrigin(def types.DefID) MethodOrigin {
	return MethodOrigin{Kind: MethodStaticUnboxedClosure, Def: def}
}

// TypeParamOrigin builds a MethodTypeParam origin.
func TypeParamOrigin(tr *types.TraitRef, methodNum uint32) MethodOrigin {
	return MethodOrigin{Kind: MethodTypeParam, Param: MethodParam{TraitRef: tr, MethodNum: methodNum}}
}

// TraitObjectOrigin builds a MethodTraitObject origin.
func TraitObjectOrigin(obj MethodObject) MethodOrigin {
	return MethodOrigin{Kind: MethodTraitObject, Object: obj}
}

// FoldWith folds the trait reference of param and object origins; static
// origins carry no types.
func (m MethodOrigin) FoldWith(f types.Folder) MethodOrigin {
	switch m.Kind {
	case MethodTypeParam:
		return MethodOrigin{
			Kind: MethodTypeParam,
			Param: MethodParam{
				TraitRef:  m.Param.TraitRef.FoldWith(f),
				MethodNum: m.Param.MethodNum,
			},
		}
	case MethodTraitObject:
		obj := m.Object
		obj.TraitRef = m.Object.TraitRef.FoldWith(f)
		return MethodOrigin{Kind: MethodTraitObject, Object: obj}
	default:
		return m
	}
}
