package types

import "fmt"

// TypeID uniquely identifies a type inside the interner.
type TypeID uint32

// NoTypeID marks the absence of a type.
const NoTypeID TypeID = 0

// Kind enumerates all supported kinds of types.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindNil
	KindBot
	KindBool
	KindChar
	KindInt
	KindUint
	KindFloat
	KindStr
	KindEnum
	KindUniq
	KindPtr
	KindRptr
	KindVec
	KindOpen
	KindBareFn
	KindClosure
	KindTrait
	KindStruct
	KindUnboxedClosure
	KindTuple
	KindParam
	KindInfer
	KindErr
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindNil:
		return "nil"
	case KindBot:
		return "bot"
	case KindBool:
		return "bool"
	case KindChar:
		return "char"
	case KindInt:
		return "int"
	case KindUint:
		return "uint"
	case KindFloat:
		return "float"
	case KindStr:
		return "str"
	case KindEnum:
		return "enum"
	case KindUniq:
		return "uniq"
	case KindPtr:
		return "ptr"
	case KindRptr:
		return "rptr"
	case KindVec:
		return "vec"
	case KindOpen:
		return "open"
	case KindBareFn:
		return "bare_fn"
	case KindClosure:
		return "closure"
	case KindTrait:
		return "trait"
	case KindStruct:
		return "struct"
	case KindUnboxedClosure:
		return "unboxed_closure"
	case KindTuple:
		return "tuple"
	case KindParam:
		return "param"
	case KindInfer:
		return "infer"
	case KindErr:
		return "err"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// IsLeaf reports whether types of this kind carry no nested types, substitutions
// or regions.
func (k Kind) IsLeaf() bool {
	switch k {
	case KindNil, KindBot, KindBool, KindChar, KindInt, KindUint, KindFloat,
		KindStr, KindErr, KindInfer, KindParam:
		return true
	}
	return false
}

// Width captures the precision of integers/floats.
type Width uint8

const (
	WidthAny Width = 0 // pointer-sized "int"/"uint"; f64 for floats
	Width8   Width = 8
	Width16  Width = 16
	Width32  Width = 32
	Width64  Width = 64
)

// ArrayDynamicLength marks vectors with unknown compile-time length (slices).
const ArrayDynamicLength = ^uint32(0)

// Mutability of a pointer, reference or trait store.
type Mutability uint8

const (
	Immutable Mutability = iota
	Mutable
)

// DefID names an item definition (struct, enum, trait, impl, closure, param).
type DefID struct {
	Krate uint32
	Node  NodeID
}

// NodeID identifies a syntax node. Binders (fn and closure types) use it.
type NodeID uint32

// NoBinder marks a signature that introduces no late-bound regions.
const NoBinder NodeID = 0

// LocalCrate is the crate number of the crate being compiled.
const LocalCrate uint32 = 0

// LocalDef builds a DefID inside the local crate.
func LocalDef(node NodeID) DefID {
	return DefID{Krate: LocalCrate, Node: node}
}

func (d DefID) String() string {
	return fmt.Sprintf("%d:%d", d.Krate, d.Node)
}

// MT is a type paired with the mutability it is accessed with.
type MT struct {
	Ty    TypeID
	Mutbl Mutability
}

// ParamTy refers to a generic type parameter by (space, index).
type ParamTy struct {
	Space ParamSpace
	Idx   uint32
	Def   DefID
}

// InferKind enumerates the inference variable flavours.
type InferKind uint8

const (
	TyVar InferKind = iota
	IntVar
	FloatVar
)

// InferTy is an unresolved inference placeholder.
type InferTy struct {
	Kind InferKind
	Vid  uint32
}

// Type is a descriptor for any supported type. Kind selects which of the other
// fields are meaningful; unused fields stay at their zero value so that two
// descriptors of the same term always produce the same interning key.
type Type struct {
	Kind    Kind
	Width   Width      // KindInt, KindUint, KindFloat
	Elem    TypeID     // KindUniq, KindVec, KindOpen
	Len     uint32     // KindVec (ArrayDynamicLength for slices)
	MT      MT         // KindPtr, KindRptr
	Region  Region     // KindRptr, KindUnboxedClosure
	Def     DefID      // KindEnum, KindStruct, KindUnboxedClosure
	Substs  *Substs    // KindEnum, KindStruct
	Elems   []TypeID   // KindTuple
	BareFn  *BareFnTy  // KindBareFn
	Closure *ClosureTy // KindClosure
	Trait   *TyTrait   // KindTrait
	Param   ParamTy    // KindParam
	Infer   InferTy    // KindInfer
}

// Descriptor helpers ---------------------------------------------------------

// MakeInt describes a signed integer of the given width (WidthAny for "int").
func MakeInt(width Width) Type {
	return Type{Kind: KindInt, Width: width}
}

// MakeUint describes an unsigned integer type.
func MakeUint(width Width) Type {
	return Type{Kind: KindUint, Width: width}
}

// MakeFloat describes a floating-point type.
func MakeFloat(width Width) Type {
	return Type{Kind: KindFloat, Width: width}
}

// MakeUniq describes an owned box.
func MakeUniq(elem TypeID) Type {
	return Type{Kind: KindUniq, Elem: elem}
}

// MakePtr describes a raw pointer.
func MakePtr(mt MT) Type {
	return Type{Kind: KindPtr, MT: mt}
}

// MakeRptr describes a borrowed reference &'r T or &'r mut T.
func MakeRptr(r Region, mt MT) Type {
	return Type{Kind: KindRptr, Region: r, MT: mt}
}

// MakeVec describes a fixed-size array, or a slice when count is
// ArrayDynamicLength.
func MakeVec(elem TypeID, count uint32) Type {
	return Type{Kind: KindVec, Elem: elem, Len: count}
}

// MakeOpen describes the unsized view of elem.
func MakeOpen(elem TypeID) Type {
	return Type{Kind: KindOpen, Elem: elem}
}

// MakeStruct describes a nominal struct instantiated with substs.
func MakeStruct(def DefID, substs *Substs) Type {
	return Type{Kind: KindStruct, Def: def, Substs: substs}
}

// MakeEnum describes a nominal enum instantiated with substs.
func MakeEnum(def DefID, substs *Substs) Type {
	return Type{Kind: KindEnum, Def: def, Substs: substs}
}

// MakeTuple describes a tuple. The zero-length tuple is KindNil.
func MakeTuple(elems []TypeID) Type {
	if len(elems) == 0 {
		return Type{Kind: KindNil}
	}
	return Type{Kind: KindTuple, Elems: elems}
}

// MakeBareFn describes a bare function pointer type.
func MakeBareFn(fty *BareFnTy) Type {
	return Type{Kind: KindBareFn, BareFn: fty}
}

// MakeClosure describes a boxed closure type.
func MakeClosure(cty *ClosureTy) Type {
	return Type{Kind: KindClosure, Closure: cty}
}

// MakeUnboxedClosure describes an unboxed closure bound to region r.
func MakeUnboxedClosure(def DefID, r Region) Type {
	return Type{Kind: KindUnboxedClosure, Def: def, Region: r}
}

// MakeTrait describes a trait object type.
func MakeTrait(tt *TyTrait) Type {
	return Type{Kind: KindTrait, Trait: tt}
}

// MakeParam describes a generic type parameter placeholder.
func MakeParam(space ParamSpace, idx uint32, def DefID) Type {
	return Type{Kind: KindParam, Param: ParamTy{Space: space, Idx: idx, Def: def}}
}

// MakeInfer describes an inference placeholder.
func MakeInfer(it InferTy) Type {
	return Type{Kind: KindInfer, Infer: it}
}
