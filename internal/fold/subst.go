package fold

import (
	"tyfold/internal/source"
	"tyfold/internal/types"
)

// Subst instantiates v with substs.
func Subst[T types.Foldable[T]](tcx *types.Interner, v T, substs *types.Substs) T {
	return SubstSpanned(tcx, v, substs, source.Span{})
}

// SubstSpanned is Subst with a position for internal compiler errors. A nil
// substitution leaves v unchanged.
func SubstSpanned[T types.Foldable[T]](tcx *types.Interner, v T, substs *types.Substs, span source.Span) T {
	if substs == nil {
		return v
	}
	return v.FoldWith(NewSubstFolder(tcx, substs, span))
}
