package types

// ParamBounds collects the bounds declared on a type parameter.
type ParamBounds struct {
	RegionBounds  []Region
	BuiltinBounds BuiltinBounds
	TraitBounds   []*TraitRef
}

// TypeParameterDef describes a declared generic type parameter.
type TypeParameterDef struct {
	Name           string
	Def            DefID
	Space          ParamSpace
	Index          uint32
	AssociatedWith *DefID
	Bounds         ParamBounds
	Default        *TypeID
}

// RegionParameterDef describes a declared lifetime parameter.
type RegionParameterDef struct {
	Name   string
	Def    DefID
	Space  ParamSpace
	Index  uint32
	Bounds []Region
}

// ToRegion returns the early-bound region that refers to this parameter.
func (d RegionParameterDef) ToRegion() Region {
	return EarlyBound(d.Def.Node, d.Space, d.Index, d.Name)
}

// Generics is the generic-parameter layout of a declaration.
type Generics struct {
	Types   VecPerParamSpace[TypeParameterDef]
	Regions VecPerParamSpace[RegionParameterDef]
}

// HasTypeParams reports whether space declares any type parameter.
func (g Generics) HasTypeParams(space ParamSpace) bool {
	return g.Types.Len(space) > 0
}

// IdentitySubsts builds the substitution that maps every declared parameter
// to itself, interning the parameter types through in.
func (g Generics) IdentitySubsts(in *Interner) *Substs {
	tys := MapPerSpace(g.Types, func(d TypeParameterDef) TypeID {
		return in.MkParam(d.Space, d.Index, d.Def)
	})
	regions := MapPerSpace(g.Regions, RegionParameterDef.ToRegion)
	return &Substs{Types: tys, Regions: NonerasedRegions(regions)}
}
