package types

// RegionSubsts is the region component of a substitution: either erased, or
// one region per early-bound lifetime parameter.
type RegionSubsts struct {
	Erased  bool
	Regions VecPerParamSpace[Region]
}

// ErasedRegions is the region component of a substitution built without
// lifetime information.
func ErasedRegions() RegionSubsts {
	return RegionSubsts{Erased: true}
}

// NonerasedRegions wraps a per-space region vector.
func NonerasedRegions(regions VecPerParamSpace[Region]) RegionSubsts {
	return RegionSubsts{Regions: regions}
}

// Substs maps parameter slots to concrete type and region arguments.
type Substs struct {
	Types   VecPerParamSpace[TypeID]
	Regions RegionSubsts
}

// NewSubsts builds a substitution with explicit regions.
func NewSubsts(tys VecPerParamSpace[TypeID], regions VecPerParamSpace[Region]) *Substs {
	return &Substs{Types: tys, Regions: NonerasedRegions(regions)}
}

// NewErasedSubsts builds a substitution whose regions are erased.
func NewErasedSubsts(tys VecPerParamSpace[TypeID]) *Substs {
	return &Substs{Types: tys, Regions: ErasedRegions()}
}

// EmptySubsts returns a substitution with no types and no regions.
func EmptySubsts() *Substs {
	return &Substs{}
}

// TypeSubsts builds a substitution for the type space only, with empty
// (non-erased) regions.
func TypeSubsts(tys ...TypeID) *Substs {
	return &Substs{Types: SingleSpace(TypeSpace, tys)}
}

// IsNoop reports whether s carries no arguments. Erased regions are not a
// no-op: they still map early-bound regions to 'static.
func (s *Substs) IsNoop() bool {
	if s == nil {
		return true
	}
	regionsNoop := !s.Regions.Erased && s.Regions.Regions.IsEmpty()
	return regionsNoop && s.Types.IsEmpty()
}

// TypeFor returns the argument for the parameter, if covered.
func (s *Substs) TypeFor(p ParamTy) (TypeID, bool) {
	if s == nil {
		return NoTypeID, false
	}
	return s.Types.OptGet(p.Space, p.Idx)
}

// WithSelfTy returns a copy of s whose self space holds exactly self.
func (s *Substs) WithSelfTy(self TypeID) *Substs {
	out := s.clone()
	out.Types = out.Types.Replace(SelfSpace, []TypeID{self})
	return out
}

// EraseRegions returns a copy of s with the region component erased.
func (s *Substs) EraseRegions() *Substs {
	out := s.clone()
	out.Regions = ErasedRegions()
	return out
}

func (s *Substs) clone() *Substs {
	if s == nil {
		return EmptySubsts()
	}
	cp := *s
	return &cp
}
