package types

// FoldSlice folds every element of xs, preserving order. A nil or empty
// slice folds to itself.
func FoldSlice[T Foldable[T]](xs []T, f Folder) []T {
	if len(xs) == 0 {
		return xs
	}
	out := make([]T, len(xs))
	for i := range xs {
		out[i] = xs[i].FoldWith(f)
	}
	return out
}

// FoldOptional folds the value behind p into a fresh pointer. A nil pointer
// is its own fixed point.
func FoldOptional[T Foldable[T]](p *T, f Folder) *T {
	if p == nil {
		return nil
	}
	v := (*p).FoldWith(f)
	return &v
}

// FoldPerSpace folds every value of v, preserving the per-space layout.
func FoldPerSpace[T Foldable[T]](v VecPerParamSpace[T], f Folder) VecPerParamSpace[T] {
	return MapPerSpace(v, func(x T) T { return x.FoldWith(f) })
}
