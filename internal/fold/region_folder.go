package fold

import (
	"strconv"

	"tyfold/internal/diag"
	"tyfold/internal/types"
)

// RegionFolder visits the component types of a term and every region that
// occurs free in it. Regions bound by a fn or closure type enclosing the
// current position are left alone: their meaning is relative to that binder.
type RegionFolder struct {
	Base
	fldR    func(types.Region) types.Region
	fldT    func(types.TypeID) types.TypeID
	binders []types.NodeID
}

// NewRegionFolder returns a folder that rewrites free regions with fldR.
func NewRegionFolder(tcx *types.Interner, fldR func(types.Region) types.Region) *RegionFolder {
	return NewGeneralRegionFolder(tcx, fldR, nil)
}

// NewGeneralRegionFolder is NewRegionFolder that also applies fldT to every
// type after its children were folded. A nil fldT is the identity.
func NewGeneralRegionFolder(tcx *types.Interner, fldR func(types.Region) types.Region, fldT func(types.TypeID) types.TypeID) *RegionFolder {
	f := &RegionFolder{fldR: fldR, fldT: fldT}
	f.Init(f, tcx)
	return f
}

// binderOf returns the binder id of a fn or closure type.
func binderOf(tt types.Type) (types.NodeID, bool) {
	var id types.NodeID
	switch tt.Kind {
	case types.KindBareFn:
		id = tt.BareFn.Sig.BinderID
	case types.KindClosure:
		id = tt.Closure.Sig.BinderID
	default:
		return types.NoBinder, false
	}
	return id, id != types.NoBinder
}

func (f *RegionFolder) FoldTy(t types.TypeID) types.TypeID {
	if binder, ok := binderOf(f.tcx.MustLookup(t)); ok {
		f.EnterBinder(binder)
		defer f.ExitBinder()
	}
	out := f.SuperFoldTy(t)
	if f.fldT != nil {
		out = f.fldT(out)
	}
	return out
}

func (f *RegionFolder) FoldRegion(r types.Region) types.Region {
	if r.Kind == types.ReLateBound && f.InBinder(r.Node) {
		f.debugf("region-folder/skip-bound", r.String)
		return r
	}
	f.debugf("region-folder/fold-free", r.String)
	return f.fldR(r)
}

// EnterBinder pushes binder onto the stack of enclosing binders. Every call
// must be paired with ExitBinder on all exit paths, normally via defer.
func (f *RegionFolder) EnterBinder(binder types.NodeID) {
	f.binders = append(f.binders, binder)
	f.debugf("region-folder/enter-binder", func() string {
		return strconv.FormatUint(uint64(binder), 10)
	})
}

// ExitBinder pops the innermost binder.
func (f *RegionFolder) ExitBinder() {
	if len(f.binders) == 0 {
		diag.Bug(diag.ICEBinderStack, f.span, "binder stack underflow")
	}
	f.binders = f.binders[:len(f.binders)-1]
}

// InBinder reports whether binder encloses the current position.
func (f *RegionFolder) InBinder(binder types.NodeID) bool {
	for i := len(f.binders) - 1; i >= 0; i-- {
		if f.binders[i] == binder {
			return true
		}
	}
	return false
}

// BinderDepth returns the number of binders enclosing the current position.
func (f *RegionFolder) BinderDepth() int {
	return len(f.binders)
}
