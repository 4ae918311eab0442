package types

import (
	"fmt"
	"sync"

	"fortio.org/safecast"

	"tyfold/internal/diag"
	"tyfold/internal/source"
)

// Builtins stores TypeIDs for common primitive types.
type Builtins struct {
	Nil   TypeID
	Bot   TypeID
	Bool  TypeID
	Char  TypeID
	Str   TypeID
	Err   TypeID
	Int   TypeID
	I8    TypeID
	I16   TypeID
	I32   TypeID
	I64   TypeID
	Uint  TypeID
	U8    TypeID
	U16   TypeID
	U32   TypeID
	U64   TypeID
	F32   TypeID
	F64   TypeID
}

type entry struct {
	ty    Type
	flags Flags
}

// Interner provides stable TypeIDs by hashing structural descriptors. Equal
// descriptors always map to the same TypeID, so TypeID equality is structural
// equality. It is safe for concurrent use; interned descriptors are never
// modified.
type Interner struct {
	mu       sync.RWMutex
	types    []entry
	index    map[string]TypeID
	names    map[DefID]string
	builtins Builtins
}

// NewInterner constructs an interner seeded with built-in primitives.
func NewInterner() *Interner {
	in := &Interner{
		types: make([]entry, 1, 64), // reserve 0 as NoTypeID
		index: make(map[string]TypeID, 64),
		names: make(map[DefID]string, 16),
	}
	in.builtins.Nil = in.Intern(Type{Kind: KindNil})
	in.builtins.Bot = in.Intern(Type{Kind: KindBot})
	in.builtins.Bool = in.Intern(Type{Kind: KindBool})
	in.builtins.Char = in.Intern(Type{Kind: KindChar})
	in.builtins.Str = in.Intern(Type{Kind: KindStr})
	in.builtins.Err = in.Intern(Type{Kind: KindErr})
	in.builtins.Int = in.Intern(MakeInt(WidthAny))
	in.builtins.I8 = in.Intern(MakeInt(Width8))
	in.builtins.I16 = in.Intern(MakeInt(Width16))
	in.builtins.I32 = in.Intern(MakeInt(Width32))
	in.builtins.I64 = in.Intern(MakeInt(Width64))
	in.builtins.Uint = in.Intern(MakeUint(WidthAny))
	in.builtins.U8 = in.Intern(MakeUint(Width8))
	in.builtins.U16 = in.Intern(MakeUint(Width16))
	in.builtins.U32 = in.Intern(MakeUint(Width32))
	in.builtins.U64 = in.Intern(MakeUint(Width64))
	in.builtins.F32 = in.Intern(MakeFloat(Width32))
	in.builtins.F64 = in.Intern(MakeFloat(Width64))
	return in
}

// Builtins returns TypeIDs for primitive types.
func (in *Interner) Builtins() Builtins {
	return in.builtins
}

// Intern ensures the provided descriptor has a stable TypeID.
func (in *Interner) Intern(t Type) TypeID {
	t = normalize(t)
	key := typeKey(t)

	in.mu.RLock()
	id, ok := in.index[key]
	in.mu.RUnlock()
	if ok {
		return id
	}

	in.mu.Lock()
	defer in.mu.Unlock()
	// another goroutine may have interned it between the two locks
	if id, ok := in.index[key]; ok {
		return id
	}
	return in.internRaw(t, key)
}

// internRaw adds the descriptor to the storage. Callers hold in.mu.
func (in *Interner) internRaw(t Type, key string) TypeID {
	lenTypes, err := safecast.Conv[uint32](len(in.types))
	if err != nil {
		panic(fmt.Errorf("len(types) overflow: %w", err))
	}
	id := TypeID(lenTypes)
	in.types = append(in.types, entry{ty: t, flags: in.computeFlags(t)})
	in.index[key] = id
	return id
}

// Lookup returns the descriptor for a TypeID. The returned descriptor shares
// its payloads with the interner and must not be modified.
func (in *Interner) Lookup(id TypeID) (Type, bool) {
	in.mu.RLock()
	defer in.mu.RUnlock()
	if id == NoTypeID || int(id) >= len(in.types) {
		return Type{}, false
	}
	return in.types[id].ty, true
}

// MustLookup reports an internal compiler error when id is invalid.
func (in *Interner) MustLookup(id TypeID) Type {
	tt, ok := in.Lookup(id)
	if !ok {
		diag.Bug(diag.ICEInvalidType, source.Span{}, "invalid TypeID %d", id)
	}
	return tt
}

// Flags returns the summary flags computed when id was interned.
func (in *Interner) Flags(id TypeID) Flags {
	in.mu.RLock()
	defer in.mu.RUnlock()
	if id == NoTypeID || int(id) >= len(in.types) {
		return 0
	}
	return in.types[id].flags
}

// Len returns the number of interned types, the reserved slot excluded.
func (in *Interner) Len() int {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return len(in.types) - 1
}

// RegisterName records a display name for an item or parameter definition.
func (in *Interner) RegisterName(def DefID, name string) {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.names[def] = name
}

// Name returns the display name registered for def.
func (in *Interner) Name(def DefID) (string, bool) {
	in.mu.RLock()
	defer in.mu.RUnlock()
	name, ok := in.names[def]
	return name, ok
}

// normalize fills the optional payloads so that equal terms share one key,
// and rejects descriptors missing a required payload.
func normalize(t Type) Type {
	switch t.Kind {
	case KindStruct, KindEnum:
		if t.Substs == nil {
			t.Substs = EmptySubsts()
		}
	case KindTuple:
		if len(t.Elems) == 0 {
			return Type{Kind: KindNil}
		}
	case KindBareFn:
		if t.BareFn == nil {
			diag.Bug(diag.ICEMalformedType, source.Span{}, "bare fn type without payload")
		}
	case KindClosure:
		if t.Closure == nil {
			diag.Bug(diag.ICEMalformedType, source.Span{}, "closure type without payload")
		}
	case KindTrait:
		if t.Trait == nil {
			diag.Bug(diag.ICEMalformedType, source.Span{}, "trait object type without payload")
		}
		if t.Trait.Substs == nil {
			tt := *t.Trait
			tt.Substs = EmptySubsts()
			t.Trait = &tt
		}
	case KindInvalid:
		diag.Bug(diag.ICEMalformedType, source.Span{}, "interning invalid type descriptor")
	}
	return t
}

// Constructors --------------------------------------------------------------

// MkUniq interns Box<elem>.
func (in *Interner) MkUniq(elem TypeID) TypeID {
	return in.Intern(MakeUniq(elem))
}

// MkPtr interns *const T or *mut T.
func (in *Interner) MkPtr(mt MT) TypeID {
	return in.Intern(MakePtr(mt))
}

// MkImmPtr interns *const elem.
func (in *Interner) MkImmPtr(elem TypeID) TypeID {
	return in.MkPtr(MT{Ty: elem, Mutbl: Immutable})
}

// MkRptr interns &'r T or &'r mut T.
func (in *Interner) MkRptr(r Region, mt MT) TypeID {
	return in.Intern(MakeRptr(r, mt))
}

// MkImmRptr interns &'r elem.
func (in *Interner) MkImmRptr(r Region, elem TypeID) TypeID {
	return in.MkRptr(r, MT{Ty: elem, Mutbl: Immutable})
}

// MkMutRptr interns &'r mut elem.
func (in *Interner) MkMutRptr(r Region, elem TypeID) TypeID {
	return in.MkRptr(r, MT{Ty: elem, Mutbl: Mutable})
}

// MkVec interns [elem, ..count]; pass ArrayDynamicLength for [elem].
func (in *Interner) MkVec(elem TypeID, count uint32) TypeID {
	return in.Intern(MakeVec(elem, count))
}

// MkSlice interns [elem].
func (in *Interner) MkSlice(elem TypeID) TypeID {
	return in.MkVec(elem, ArrayDynamicLength)
}

// MkOpen interns the unsized view of elem.
func (in *Interner) MkOpen(elem TypeID) TypeID {
	return in.Intern(MakeOpen(elem))
}

// MkTup interns a tuple (the empty tuple is nil).
func (in *Interner) MkTup(elems ...TypeID) TypeID {
	return in.Intern(MakeTuple(cloneTypeIDs(elems)))
}

// MkStruct interns a struct type.
func (in *Interner) MkStruct(def DefID, substs *Substs) TypeID {
	return in.Intern(MakeStruct(def, substs))
}

// MkEnum interns an enum type.
func (in *Interner) MkEnum(def DefID, substs *Substs) TypeID {
	return in.Intern(MakeEnum(def, substs))
}

// MkBareFn interns a bare fn type.
func (in *Interner) MkBareFn(fty BareFnTy) TypeID {
	fty.Sig.Inputs = cloneTypeIDs(fty.Sig.Inputs)
	return in.Intern(MakeBareFn(&fty))
}

// MkCtorFn interns a plain Rust-ABI fn type from inputs to output.
func (in *Interner) MkCtorFn(binder NodeID, inputs []TypeID, output TypeID) TypeID {
	return in.MkBareFn(BareFnTy{
		Style: NormalFn,
		ABI:   ABIRust,
		Sig:   FnSig{BinderID: binder, Inputs: inputs, Output: output},
	})
}

// MkClosure interns a boxed closure type.
func (in *Interner) MkClosure(cty ClosureTy) TypeID {
	cty.Sig.Inputs = cloneTypeIDs(cty.Sig.Inputs)
	return in.Intern(MakeClosure(&cty))
}

// MkUnboxedClosure interns an unboxed closure type.
func (in *Interner) MkUnboxedClosure(def DefID, r Region) TypeID {
	return in.Intern(MakeUnboxedClosure(def, r))
}

// MkTrait interns a trait object type.
func (in *Interner) MkTrait(def DefID, substs *Substs, bounds ExistentialBounds) TypeID {
	return in.Intern(MakeTrait(&TyTrait{Def: def, Substs: substs, Bounds: bounds}))
}

// MkParam interns a generic type parameter placeholder.
func (in *Interner) MkParam(space ParamSpace, idx uint32, def DefID) TypeID {
	return in.Intern(MakeParam(space, idx, def))
}

// MkSelf interns the Self parameter of the trait def.
func (in *Interner) MkSelf(def DefID) TypeID {
	return in.MkParam(SelfSpace, 0, def)
}

// MkInfer interns an inference placeholder.
func (in *Interner) MkInfer(it InferTy) TypeID {
	return in.Intern(MakeInfer(it))
}

// MkInt interns a signed integer type.
func (in *Interner) MkInt(width Width) TypeID {
	return in.Intern(MakeInt(width))
}

// MkUint interns an unsigned integer type.
func (in *Interner) MkUint(width Width) TypeID {
	return in.Intern(MakeUint(width))
}

// MkFloat interns a floating-point type.
func (in *Interner) MkFloat(width Width) TypeID {
	return in.Intern(MakeFloat(width))
}

func cloneTypeIDs(ids []TypeID) []TypeID {
	if len(ids) == 0 {
		return nil
	}
	out := make([]TypeID, len(ids))
	copy(out, ids)
	return out
}
