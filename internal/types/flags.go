package types

import "strings"

// Flags summarize what a type contains. They are computed once, when the
// type is interned, from the flags of its already-interned children.
type Flags uint16

const (
	FlagHasParams Flags = 1 << iota
	FlagHasSelf
	FlagHasRegions
	FlagHasEarlyBound
	FlagHasLateBound
	FlagHasLexicalRegions // ReFree or ReScope
	FlagHasRegionInfer
	FlagHasTyInfer
	FlagHasTyErr
	FlagHasFnSig
)

// NeedsSubst is the set of flags a substitution can act on.
const NeedsSubst = FlagHasParams | FlagHasSelf | FlagHasEarlyBound

// Has reports whether any of the bits in mask are set.
func (f Flags) Has(mask Flags) bool {
	return f&mask != 0
}

func (f Flags) String() string {
	names := [...]string{
		"params", "self", "regions", "early_bound", "late_bound",
		"lexical_regions", "region_infer", "ty_infer", "ty_err", "fn_sig",
	}
	var parts []string
	for i, name := range names {
		if f&(1<<i) != 0 {
			parts = append(parts, name)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// NeedsSubst reports whether substitution can change id.
func (in *Interner) NeedsSubst(id TypeID) bool {
	return in.Flags(id).Has(NeedsSubst)
}

// HasRegions reports whether id mentions any region at all.
func (in *Interner) HasRegions(id TypeID) bool {
	return in.Flags(id).Has(FlagHasRegions)
}

// RegionFlags returns the flags contributed by a single region.
func RegionFlags(r Region) Flags {
	f := FlagHasRegions
	switch r.Kind {
	case ReEarlyBound:
		f |= FlagHasEarlyBound
	case ReLateBound:
		f |= FlagHasLateBound
	case ReFree, ReScope:
		f |= FlagHasLexicalRegions
	case ReInfer:
		f |= FlagHasRegionInfer
	}
	return f
}

// flagsOf reads the flags of an interned child. Callers hold in.mu.
func (in *Interner) flagsOf(id TypeID) Flags {
	if id == NoTypeID || int(id) >= len(in.types) {
		return 0
	}
	return in.types[id].flags
}

func (in *Interner) substsFlags(s *Substs) Flags {
	if s == nil {
		return 0
	}
	var f Flags
	for _, ty := range s.Types.All() {
		f |= in.flagsOf(ty)
	}
	if !s.Regions.Erased {
		for _, r := range s.Regions.Regions.All() {
			f |= RegionFlags(r)
		}
	}
	return f
}

func (in *Interner) sigFlags(sig FnSig) Flags {
	f := FlagHasFnSig
	for _, ty := range sig.Inputs {
		f |= in.flagsOf(ty)
	}
	return f | in.flagsOf(sig.Output)
}

func boundsFlags(b ExistentialBounds) Flags {
	return RegionFlags(b.RegionBound)
}

func storeFlags(s TraitStore) Flags {
	if s.Kind == RegionTraitStore {
		return RegionFlags(s.Region)
	}
	return 0
}

// computeFlags derives the flags for a descriptor. Callers hold in.mu.
func (in *Interner) computeFlags(t Type) Flags {
	switch t.Kind {
	case KindParam:
		if t.Param.Space == SelfSpace {
			return FlagHasSelf
		}
		return FlagHasParams
	case KindInfer:
		return FlagHasTyInfer
	case KindErr:
		return FlagHasTyErr
	case KindUniq, KindVec, KindOpen:
		return in.flagsOf(t.Elem)
	case KindPtr:
		return in.flagsOf(t.MT.Ty)
	case KindRptr:
		return RegionFlags(t.Region) | in.flagsOf(t.MT.Ty)
	case KindStruct, KindEnum:
		return in.substsFlags(t.Substs)
	case KindTuple:
		var f Flags
		for _, el := range t.Elems {
			f |= in.flagsOf(el)
		}
		return f
	case KindBareFn:
		return in.sigFlags(t.BareFn.Sig)
	case KindClosure:
		return in.sigFlags(t.Closure.Sig) | storeFlags(t.Closure.Store) | boundsFlags(t.Closure.Bounds)
	case KindUnboxedClosure:
		return RegionFlags(t.Region)
	case KindTrait:
		return in.substsFlags(t.Trait.Substs) | boundsFlags(t.Trait.Bounds)
	default:
		return 0
	}
}
