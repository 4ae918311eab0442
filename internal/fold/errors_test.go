package fold_test

import (
	"strings"
	"testing"

	"tyfold/internal/diag"
	"tyfold/internal/fold"
	"tyfold/internal/source"
	"tyfold/internal/types"
)

func TestSubstMissingSlotIsICE(t *testing.T) {
	w := newWorld()
	span := source.Span{File: 1, Start: 4, End: 9}
	ice := expectICE(t, diag.ICEMissingTypeSubst, func() {
		fold.SubstSpanned(w.tcx, w.tcx.MkUniq(w.U), types.TypeSubsts(w.b.I32), span)
	})
	if ice.Span != span {
		t.Fatalf("ICE span = %v, want %v", ice.Span, span)
	}
	if !strings.Contains(ice.Msg, "`U`") {
		t.Fatalf("message should name the parameter: %s", ice.Msg)
	}
	var root bool
	for _, n := range ice.Notes {
		if strings.Contains(n.Msg, "root type: Box<U>") {
			root = true
		}
	}
	if !root {
		t.Fatalf("expected root type note, got %+v", ice.Notes)
	}
}

func TestSubstMissingRegionIsICE(t *testing.T) {
	w := newWorld()
	expectICE(t, diag.ICEMissingRegion, func() {
		fold.Subst(w.tcx, w.tcx.MkImmRptr(w.A, w.b.I32), types.TypeSubsts(w.b.I32))
	})
}

func TestSubstWithReporterYieldsErrorType(t *testing.T) {
	w := newWorld()
	bag := diag.NewBag(8)
	f := fold.NewSubstFolder(w.tcx, types.TypeSubsts(w.b.I32), source.Span{}).WithReporter(diag.BagReporter{Bag: bag})

	got := w.Pair(w.T, w.U).FoldWith(f)
	if want := w.Pair(w.b.I32, w.b.Err); got != want {
		t.Fatalf("got %s, want %s", w.repr(got), w.repr(want))
	}
	if bag.Len() != 1 || bag.Items()[0].Code != diag.ICEMissingTypeSubst {
		t.Fatalf("expected one ICE diagnostic, got %d", bag.Len())
	}
}

func TestDepthCeiling(t *testing.T) {
	w := newWorld()
	ty := w.b.I32
	for i := 0; i < 4; i++ {
		ty = w.tcx.MkUniq(ty)
	}

	id := fold.NewIdentity(w.tcx)
	id.SetMaxDepth(3)
	expectICE(t, diag.ICEFoldTooDeep, func() { ty.FoldWith(id) })
	if id.Depth() != 0 {
		t.Fatalf("depth leaked after ICE: %d", id.Depth())
	}

	id.SetMaxDepth(0)
	if got := ty.FoldWith(id); got != ty {
		t.Fatalf("default ceiling should allow %s", w.repr(ty))
	}
}

func TestFolderWithoutInit(t *testing.T) {
	var f fold.Identity
	expectICE(t, diag.ICEUnexpected, func() { f.FoldType(types.Type{Kind: types.KindBool}) })
}
