package types

import (
	"tyfold/internal/diag"
	"tyfold/internal/source"
)

// Structural defaults for the Folder hooks. Each one folds the children of
// its node through f and rebuilds the node; none of them calls a hook for its
// own node kind.

// SuperFoldTy folds the descriptor of t and re-interns the result. Leaf
// descriptors fold to themselves, so interning yields t again.
func SuperFoldTy(f Folder, t TypeID) TypeID {
	tcx := f.Types()
	folded := tcx.MustLookup(t).FoldWith(f)
	return tcx.Intern(folded)
}

// SuperFoldType rebuilds a descriptor with identical kind and folded fields.
func SuperFoldType(f Folder, t Type) Type {
	if t.Kind.IsLeaf() {
		return t
	}
	switch t.Kind {
	case KindUniq:
		return MakeUniq(t.Elem.FoldWith(f))
	case KindPtr:
		return MakePtr(t.MT.FoldWith(f))
	case KindVec:
		return MakeVec(t.Elem.FoldWith(f), t.Len)
	case KindOpen:
		return MakeOpen(t.Elem.FoldWith(f))
	case KindEnum:
		return MakeEnum(t.Def, t.Substs.FoldWith(f))
	case KindStruct:
		return MakeStruct(t.Def, t.Substs.FoldWith(f))
	case KindTrait:
		return MakeTrait(&TyTrait{
			Def:    t.Trait.Def,
			Substs: t.Trait.Substs.FoldWith(f),
			Bounds: f.FoldExistentialBounds(t.Trait.Bounds),
		})
	case KindTuple:
		return MakeTuple(FoldSlice(t.Elems, f))
	case KindBareFn:
		fty := t.BareFn.FoldWith(f)
		return MakeBareFn(&fty)
	case KindClosure:
		cty := t.Closure.FoldWith(f)
		return MakeClosure(&cty)
	case KindRptr:
		r := t.Region.FoldWith(f)
		return MakeRptr(r, t.MT.FoldWith(f))
	case KindUnboxedClosure:
		return MakeUnboxedClosure(t.Def, t.Region.FoldWith(f))
	default:
		diag.Bug(diag.ICEMalformedType, source.Span{}, "cannot fold type of kind %s", t.Kind)
		return t
	}
}

// SuperFoldSubsts folds the type arguments and, unless erased, the region
// arguments.
func SuperFoldSubsts(f Folder, s *Substs) *Substs {
	regions := ErasedRegions()
	if !s.Regions.Erased {
		regions = NonerasedRegions(FoldPerSpace(s.Regions.Regions, f))
	}
	return &Substs{
		Types:   FoldPerSpace(s.Types, f),
		Regions: regions,
	}
}

// SuperFoldSig folds the inputs and output, keeping the binder.
func SuperFoldSig(f Folder, sig FnSig) FnSig {
	return FnSig{
		BinderID: sig.BinderID,
		Inputs:   FoldSlice(sig.Inputs, f),
		Output:   sig.Output.FoldWith(f),
		Variadic: sig.Variadic,
	}
}

func SuperFoldBareFnTy(f Folder, fty BareFnTy) BareFnTy {
	return BareFnTy{
		Style: fty.Style,
		ABI:   fty.ABI,
		Sig:   fty.Sig.FoldWith(f),
	}
}

func SuperFoldClosureTy(f Folder, cty ClosureTy) ClosureTy {
	return ClosureTy{
		Style:    cty.Style,
		Onceness: cty.Onceness,
		Store:    cty.Store.FoldWith(f),
		Bounds:   cty.Bounds.FoldWith(f),
		Sig:      cty.Sig.FoldWith(f),
		ABI:      cty.ABI,
	}
}

func SuperFoldTraitRef(f Folder, tr *TraitRef) *TraitRef {
	return &TraitRef{
		Def:    tr.Def,
		Substs: tr.Substs.FoldWith(f),
	}
}

func SuperFoldMT(f Folder, mt MT) MT {
	return MT{Ty: mt.Ty.FoldWith(f), Mutbl: mt.Mutbl}
}

func SuperFoldTraitStore(f Folder, s TraitStore) TraitStore {
	if s.Kind == UniqTraitStore {
		return s
	}
	return TraitStore{Kind: RegionTraitStore, Region: s.Region.FoldWith(f), Mutbl: s.Mutbl}
}

func SuperFoldExistentialBounds(f Folder, b ExistentialBounds) ExistentialBounds {
	return ExistentialBounds{
		RegionBound:   b.RegionBound.FoldWith(f),
		BuiltinBounds: b.BuiltinBounds,
	}
}

// SuperFoldAutoRef folds one adjustment link. Nested links are folded with
// SuperFoldAutoRef itself rather than the hook, so an override sees only the
// outermost link.
func SuperFoldAutoRef(f Folder, ar AutoRef) AutoRef {
	switch ar.Kind {
	case AutoPtr:
		out := AutoRef{Kind: AutoPtr, Region: f.FoldRegion(ar.Region), Mutbl: ar.Mutbl}
		if ar.Inner != nil {
			inner := SuperFoldAutoRef(f, *ar.Inner)
			out.Inner = &inner
		}
		return out
	case AutoUnsafe:
		out := AutoRef{Kind: AutoUnsafe, Mutbl: ar.Mutbl}
		if ar.Inner != nil {
			inner := SuperFoldAutoRef(f, *ar.Inner)
			out.Inner = &inner
		}
		return out
	case AutoUnsize, AutoUnsizeUniq:
		return AutoRef{Kind: ar.Kind, Unsize: FoldOptional(ar.Unsize, f)}
	default:
		diag.Bug(diag.ICEMalformedType, source.Span{}, "cannot fold autoref of kind %d", ar.Kind)
		return ar
	}
}

func SuperFoldItemSubsts(f Folder, is ItemSubsts) ItemSubsts {
	return ItemSubsts{Substs: is.Substs.FoldWith(f)}
}
