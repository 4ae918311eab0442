package types

import "strings"

// FnStyle distinguishes safe from unsafe functions.
type FnStyle uint8

const (
	NormalFn FnStyle = iota
	UnsafeFn
)

// ABI names the calling convention of a function type.
type ABI uint8

const (
	ABIRust ABI = iota
	ABIC
	ABIRustIntrinsic
)

// Onceness distinguishes closures callable once from those callable many times.
type Onceness uint8

const (
	Many Onceness = iota
	Once
)

// FnSig is a function signature. BinderID is the node whose late-bound
// regions appear in Inputs and Output (NoBinder when it binds none).
type FnSig struct {
	BinderID NodeID
	Inputs   []TypeID
	Output   TypeID
	Variadic bool
}

// BareFnTy is the payload of a bare function pointer type.
type BareFnTy struct {
	Style FnStyle
	ABI   ABI
	Sig   FnSig
}

// TraitStoreKind selects how a closure environment or trait object is held.
type TraitStoreKind uint8

const (
	UniqTraitStore TraitStoreKind = iota
	RegionTraitStore
)

// TraitStore is either an owned box or a borrowed reference with a region.
type TraitStore struct {
	Kind   TraitStoreKind
	Region Region     // RegionTraitStore
	Mutbl  Mutability // RegionTraitStore
}

// ClosureTy is the payload of a boxed closure type.
type ClosureTy struct {
	Style    FnStyle
	Onceness Onceness
	Store    TraitStore
	Bounds   ExistentialBounds
	Sig      FnSig
	ABI      ABI
}

// BuiltinBound is a compiler-known trait bound.
type BuiltinBound uint8

const (
	BoundSend BuiltinBound = iota
	BoundSized
	BoundCopy
	BoundSync
)

func (b BuiltinBound) String() string {
	switch b {
	case BoundSend:
		return "Send"
	case BoundSized:
		return "Sized"
	case BoundCopy:
		return "Copy"
	case BoundSync:
		return "Sync"
	default:
		return "?"
	}
}

// BuiltinBounds is a set of builtin bounds.
type BuiltinBounds uint8

// EmptyBuiltinBounds is the empty set.
const EmptyBuiltinBounds BuiltinBounds = 0

// Add returns bs with b included.
func (bs BuiltinBounds) Add(b BuiltinBound) BuiltinBounds {
	return bs | 1<<b
}

// Contains reports whether b is in the set.
func (bs BuiltinBounds) Contains(b BuiltinBound) bool {
	return bs&(1<<b) != 0
}

func (bs BuiltinBounds) String() string {
	var parts []string
	for b := BoundSend; b <= BoundSync; b++ {
		if bs.Contains(b) {
			parts = append(parts, b.String())
		}
	}
	return strings.Join(parts, "+")
}

// ExistentialBounds are the bounds an existential (trait object, closure
// environment) carries.
type ExistentialBounds struct {
	RegionBound   Region
	BuiltinBounds BuiltinBounds
}

// TraitRef is a reference to a trait applied to substitutions, Self included.
type TraitRef struct {
	Def    DefID
	Substs *Substs
}

// SelfTy returns the Self argument, if any.
func (tr *TraitRef) SelfTy() (TypeID, bool) {
	if tr == nil {
		return NoTypeID, false
	}
	return tr.Substs.Types.OptGet(SelfSpace, 0)
}

// TyTrait is the payload of a trait object type.
type TyTrait struct {
	Def    DefID
	Substs *Substs
	Bounds ExistentialBounds
}
