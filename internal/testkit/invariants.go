// Package testkit checks structural invariants of folded terms. Tests use it,
// and the driver runs it on results when checking is enabled.
package testkit

import (
	"fmt"

	"tyfold/internal/fold"
	"tyfold/internal/types"
)

// collector walks a term without changing it and records what it meets.
type collector struct {
	fold.Base
	regions []types.Region
	params  []types.TypeID
}

func newCollector(tcx *types.Interner) *collector {
	c := &collector{}
	c.Init(c, tcx)
	return c
}

func (c *collector) FoldTy(t types.TypeID) types.TypeID {
	if c.Types().MustLookup(t).Kind == types.KindParam {
		c.params = append(c.params, t)
	}
	return c.SuperFoldTy(t)
}

func (c *collector) FoldRegion(r types.Region) types.Region {
	c.regions = append(c.regions, r)
	return r
}

// Regions returns every region occurring in v, bound or free, in traversal
// order.
func Regions[T types.Foldable[T]](tcx *types.Interner, v T) []types.Region {
	c := newCollector(tcx)
	v.FoldWith(c)
	return c.regions
}

// Params returns every type parameter occurring in v, in traversal order.
func Params[T types.Foldable[T]](tcx *types.Interner, v T) []types.TypeID {
	c := newCollector(tcx)
	v.FoldWith(c)
	return c.params
}

// CheckErased reports the first region in t that erasure should have
// rewritten: anything other than 'static or a bound region.
func CheckErased(tcx *types.Interner, t types.TypeID) error {
	for _, r := range Regions(tcx, t) {
		if !r.IsErasable() || r.Kind == types.ReStatic {
			continue
		}
		return fmt.Errorf("%s: region %s survived erasure", tcx.Repr(t), r)
	}
	return nil
}

// CheckConcrete reports a type parameter left in t.
func CheckConcrete(tcx *types.Interner, t types.TypeID) error {
	if params := Params(tcx, t); len(params) > 0 {
		return fmt.Errorf("%s: type parameter %s not substituted", tcx.Repr(t), tcx.Repr(params[0]))
	}
	return nil
}

// CheckIdentity reports whether folding t with all defaults changes it.
func CheckIdentity(tcx *types.Interner, t types.TypeID) error {
	if got := t.FoldWith(fold.NewIdentity(tcx)); got != t {
		return fmt.Errorf("identity fold changed %s into %s", tcx.Repr(t), tcx.Repr(got))
	}
	return nil
}
