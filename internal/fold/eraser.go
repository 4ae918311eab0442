package fold

import "tyfold/internal/types"

// RegionEraser replaces every region that is not bound with 'static. Bound
// regions are structure, not lifetime information, and are kept.
type RegionEraser struct {
	Base
}

// NewRegionEraser returns a region-erasing folder.
func NewRegionEraser(tcx *types.Interner) *RegionEraser {
	f := &RegionEraser{}
	f.Init(f, tcx)
	return f
}

func (f *RegionEraser) FoldTy(t types.TypeID) types.TypeID {
	if !f.tcx.HasRegions(t) {
		return t
	}
	return f.SuperFoldTy(t)
}

func (f *RegionEraser) FoldRegion(r types.Region) types.Region {
	if r.IsErasable() {
		return types.Static
	}
	return r
}

// EraseRegions erases the regions of v.
func EraseRegions[T types.Foldable[T]](tcx *types.Interner, v T) T {
	return v.FoldWith(NewRegionEraser(tcx))
}
