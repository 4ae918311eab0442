package types

// Folding works in three layers. Let x be a foldable value and f a folder:
//
//	x.FoldWith(f) --calls--> f.FoldX(x) --defaults to--> SuperFoldX(f, x)
//
// A folder overrides FoldX to customize how X is rebuilt and may call
// SuperFoldX to recurse structurally. SuperFoldX only ever calls FoldWith on
// the children of x, never its own hooks, so overrides are seen at every level.

// Folder defines one hook per foldable node kind. Implementations usually
// embed fold.Base, which provides the structural defaults, and override the
// hooks they care about.
type Folder interface {
	// Types returns the interner used to rebuild type terms.
	Types() *Interner

	FoldTy(t TypeID) TypeID
	FoldType(t Type) Type
	FoldMT(mt MT) MT
	FoldTraitRef(tr *TraitRef) *TraitRef
	FoldSubsts(s *Substs) *Substs
	FoldSig(sig FnSig) FnSig
	FoldBareFnTy(fty BareFnTy) BareFnTy
	FoldClosureTy(cty ClosureTy) ClosureTy
	// FoldRegion is the identity unless overridden.
	FoldRegion(r Region) Region
	FoldTraitStore(s TraitStore) TraitStore
	FoldExistentialBounds(b ExistentialBounds) ExistentialBounds
	FoldAutoRef(ar AutoRef) AutoRef
	FoldItemSubsts(is ItemSubsts) ItemSubsts
}

// Foldable is implemented by every value that can be folded into a T
// (normally itself).
type Foldable[T any] interface {
	FoldWith(f Folder) T
}

func (t TypeID) FoldWith(f Folder) TypeID {
	return f.FoldTy(t)
}

func (t Type) FoldWith(f Folder) Type {
	return f.FoldType(t)
}

func (mt MT) FoldWith(f Folder) MT {
	return f.FoldMT(mt)
}

func (tr *TraitRef) FoldWith(f Folder) *TraitRef {
	if tr == nil {
		return nil
	}
	return f.FoldTraitRef(tr)
}

func (s *Substs) FoldWith(f Folder) *Substs {
	if s == nil {
		return nil
	}
	return f.FoldSubsts(s)
}

func (sig FnSig) FoldWith(f Folder) FnSig {
	return f.FoldSig(sig)
}

func (fty BareFnTy) FoldWith(f Folder) BareFnTy {
	return f.FoldBareFnTy(fty)
}

func (cty ClosureTy) FoldWith(f Folder) ClosureTy {
	return f.FoldClosureTy(cty)
}

func (r Region) FoldWith(f Folder) Region {
	return f.FoldRegion(r)
}

func (s TraitStore) FoldWith(f Folder) TraitStore {
	return f.FoldTraitStore(s)
}

func (b ExistentialBounds) FoldWith(f Folder) ExistentialBounds {
	return f.FoldExistentialBounds(b)
}

func (ar AutoRef) FoldWith(f Folder) AutoRef {
	return f.FoldAutoRef(ar)
}

func (is ItemSubsts) FoldWith(f Folder) ItemSubsts {
	return f.FoldItemSubsts(is)
}

// The remaining kinds have no hook of their own and traverse directly.

func (bs BuiltinBounds) FoldWith(Folder) BuiltinBounds {
	return bs
}

func (tt TyTrait) FoldWith(f Folder) TyTrait {
	return TyTrait{
		Def:    tt.Def,
		Substs: tt.Substs.FoldWith(f),
		Bounds: tt.Bounds.FoldWith(f),
	}
}

func (uk UnsizeKind) FoldWith(f Folder) UnsizeKind {
	switch uk.Tag {
	case UnsizeStruct:
		out := uk
		out.Inner = FoldOptional(uk.Inner, f)
		return out
	case UnsizeVtable:
		out := uk
		out.Trait = uk.Trait.FoldWith(f)
		out.SelfTy = uk.SelfTy.FoldWith(f)
		return out
	default:
		return uk
	}
}

func (pb ParamBounds) FoldWith(f Folder) ParamBounds {
	return ParamBounds{
		RegionBounds:  FoldSlice(pb.RegionBounds, f),
		BuiltinBounds: pb.BuiltinBounds.FoldWith(f),
		TraitBounds:   FoldSlice(pb.TraitBounds, f),
	}
}

func (d TypeParameterDef) FoldWith(f Folder) TypeParameterDef {
	return TypeParameterDef{
		Name:           d.Name,
		Def:            d.Def,
		Space:          d.Space,
		Index:          d.Index,
		AssociatedWith: d.AssociatedWith,
		Bounds:         d.Bounds.FoldWith(f),
		Default:        FoldOptional(d.Default, f),
	}
}

func (d RegionParameterDef) FoldWith(f Folder) RegionParameterDef {
	return RegionParameterDef{
		Name:   d.Name,
		Def:    d.Def,
		Space:  d.Space,
		Index:  d.Index,
		Bounds: FoldSlice(d.Bounds, f),
	}
}

func (g Generics) FoldWith(f Folder) Generics {
	return Generics{
		Types:   FoldPerSpace(g.Types, f),
		Regions: FoldPerSpace(g.Regions, f),
	}
}
