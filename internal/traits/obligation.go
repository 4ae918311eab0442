// Package traits holds the obligation and vtable shapes produced by trait
// selection. Selection itself lives elsewhere; these values are only carried
// through folding so that substitution and erasure reach the types inside
// them.
package traits

import (
	"tyfold/internal/source"
	"tyfold/internal/types"
)

// CauseCode tells why an obligation was registered.
type CauseCode uint8

const (
	MiscObligation CauseCode = iota
	ItemObligation
	ObjectCastObligation
	RepeatVec
	VariableType
	ReturnType
	AssignmentLhsSized
	StructInitializerSized
	ClosureCapture
)

func (c CauseCode) String() string {
	switch c {
	case ItemObligation:
		return "item"
	case ObjectCastObligation:
		return "object_cast"
	case RepeatVec:
		return "repeat_vec"
	case VariableType:
		return "variable_type"
	case ReturnType:
		return "return_type"
	case AssignmentLhsSized:
		return "assignment_lhs_sized"
	case StructInitializerSized:
		return "struct_initializer_sized"
	case ClosureCapture:
		return "closure_capture"
	default:
		return "misc"
	}
}

// ObligationCause records where an obligation came from. It carries no type
// terms and is copied unchanged by folding.
type ObligationCause struct {
	Span source.Span
	Code CauseCode
	// Def is the item for ItemObligation or the closure for ClosureCapture.
	Def types.DefID
	// Ty is the object type for ObjectCastObligation.
	Ty types.TypeID
}

// Obligation asks that TraitRef hold.
type Obligation struct {
	Cause          ObligationCause
	RecursionDepth uint32
	TraitRef       *types.TraitRef
}

// NewObligation creates a depth-zero obligation.
func NewObligation(cause ObligationCause, tr *types.TraitRef) Obligation {
	return Obligation{Cause: cause, TraitRef: tr}
}

// SelfTy returns the self type of the obligated trait reference.
func (o Obligation) SelfTy() (types.TypeID, bool) {
	return o.TraitRef.SelfTy()
}

// Folder is implemented by folders that want to see obligations. The hook is
// kept out of types.Folder so that the types package does not depend on this
// one; fold.Base satisfies it.
type Folder interface {
	types.Folder
	FoldObligation(o Obligation) Obligation
}

// FoldWith routes through f's obligation hook when f has one and falls back
// to the structural default otherwise.
func (o Obligation) FoldWith(f types.Folder) Obligation {
	if of, ok := f.(Folder); ok {
		return of.FoldObligation(o)
	}
	return SuperFoldObligation(f, o)
}

// SuperFoldObligation folds the trait reference and keeps the cause and depth.
func SuperFoldObligation(f types.Folder, o Obligation) Obligation {
	return Obligation{
		Cause:          o.Cause,
		RecursionDepth: o.RecursionDepth,
		TraitRef:       o.TraitRef.FoldWith(f),
	}
}
