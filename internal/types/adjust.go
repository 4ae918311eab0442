package types

// AutoRefKind selects the AutoRef variant.
type AutoRefKind uint8

const (
	// AutoPtr converts from T to &'r T (or &'r mut T), then applies Inner.
	AutoPtr AutoRefKind = iota
	// AutoUnsize converts [T, ..n] to [T] and similar unsizing coercions.
	AutoUnsize
	// AutoUnsizeUniq is AutoUnsize behind a box.
	AutoUnsizeUniq
	// AutoUnsafe converts from T to *T, then applies Inner.
	AutoUnsafe
)

// AutoRef is one link of an auto-reference adjustment chain.
type AutoRef struct {
	Kind   AutoRefKind
	Region Region      // AutoPtr
	Mutbl  Mutability  // AutoPtr, AutoUnsafe
	Inner  *AutoRef    // AutoPtr, AutoUnsafe; nil ends the chain
	Unsize *UnsizeKind // AutoUnsize, AutoUnsizeUniq
}

// UnsizeTag selects the UnsizeKind variant.
type UnsizeTag uint8

const (
	UnsizeLength UnsizeTag = iota
	UnsizeStruct
	UnsizeVtable
)

// UnsizeKind describes how a value is unsized.
type UnsizeKind struct {
	Tag    UnsizeTag
	Length uint32      // UnsizeLength
	Inner  *UnsizeKind // UnsizeStruct
	Field  uint32      // UnsizeStruct: index of the unsized field
	Trait  TyTrait     // UnsizeVtable
	SelfTy TypeID      // UnsizeVtable
}

// ItemSubsts records the substitutions an expression's item was
// instantiated with.
type ItemSubsts struct {
	Substs *Substs
}

// IsNoop reports whether the record carries no substitution.
func (is ItemSubsts) IsNoop() bool {
	return is.Substs.IsNoop()
}
