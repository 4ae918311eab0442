package fold

import "tyfold/internal/types"

// BottomUpFolder folds the children of every type first and then hands the
// rebuilt type to fn.
type BottomUpFolder struct {
	Base
	fn func(types.TypeID) types.TypeID
}

// NewBottomUpFolder returns a folder applying fn to every type after its
// children were folded.
func NewBottomUpFolder(tcx *types.Interner, fn func(types.TypeID) types.TypeID) *BottomUpFolder {
	f := &BottomUpFolder{fn: fn}
	f.Init(f, tcx)
	return f
}

func (f *BottomUpFolder) FoldTy(t types.TypeID) types.TypeID {
	return f.fn(f.SuperFoldTy(t))
}

// Replace returns a bottom-up folder that substitutes to for every
// occurrence of from.
func Replace(tcx *types.Interner, from, to types.TypeID) *BottomUpFolder {
	return NewBottomUpFolder(tcx, func(t types.TypeID) types.TypeID {
		if t == from {
			return to
		}
		return t
	})
}
