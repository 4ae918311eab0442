package fold_test

import (
	"strings"
	"testing"

	"tyfold/internal/diag"
	"tyfold/internal/fold"
	"tyfold/internal/testkit"
	"tyfold/internal/trace"
	"tyfold/internal/types"
)

var marker = types.ScopeRegion(999)

func toMarker(types.Region) types.Region { return marker }

func TestRegionFolderSeparatesBoundAndFree(t *testing.T) {
	w := newWorld()
	tcx := w.tcx
	bound := types.LateBound(10, types.BoundRegion{Kind: types.BrNamed, Name: "r", Def: types.LocalDef(10)})
	free := types.FreeRegion(3, types.BoundRegion{Kind: types.BrNamed, Name: "s", Def: types.LocalDef(3)})

	// (&'s i32, fn(&'r i32, &'s bool) -> &'r i32)
	fn := w.fnOf(10, tcx.MkImmRptr(bound, w.b.I32), tcx.MkImmRptr(bound, w.b.I32), tcx.MkImmRptr(free, w.b.Bool))
	ty := tcx.MkTup(tcx.MkImmRptr(free, w.b.I32), fn)

	rf := fold.NewRegionFolder(tcx, toMarker)
	got := ty.FoldWith(rf)

	var nBound, nFree, nMarker int
	for _, r := range testkit.Regions(tcx, got) {
		switch r {
		case bound:
			nBound++
		case free:
			nFree++
		case marker:
			nMarker++
		}
	}
	if nBound != 2 || nFree != 0 || nMarker != 2 {
		t.Fatalf("bound=%d free=%d marker=%d in %s", nBound, nFree, nMarker, w.repr(got))
	}
	if rf.BinderDepth() != 0 {
		t.Fatalf("binder stack not empty: %d", rf.BinderDepth())
	}
}

func TestRegionFolderLateBoundOutsideBinderIsFree(t *testing.T) {
	w := newWorld()
	// A late-bound region whose binder does not enclose it, e.g. after the
	// signature was taken apart.
	stray := w.tcx.MkImmRptr(types.LateBound(10, types.BoundRegion{}), w.b.I32)
	inOther := w.fnOf(11, stray)

	got := inOther.FoldWith(fold.NewRegionFolder(w.tcx, toMarker))
	if want := w.fnOf(11, w.tcx.MkImmRptr(marker, w.b.I32)); got != want {
		t.Fatalf("got %s, want %s", w.repr(got), w.repr(want))
	}
}

func TestRegionFolderNoBinderDoesNotPush(t *testing.T) {
	w := newWorld()
	late := types.LateBound(types.NoBinder, types.BoundRegion{})
	fn := w.fnOf(types.NoBinder, w.tcx.MkImmRptr(late, w.b.I32))
	got := fn.FoldWith(fold.NewRegionFolder(w.tcx, toMarker))
	if want := w.fnOf(types.NoBinder, w.tcx.MkImmRptr(marker, w.b.I32)); got != want {
		t.Fatalf("got %s, want %s", w.repr(got), w.repr(want))
	}
}

func TestGeneralRegionFolderAppliesTypeFn(t *testing.T) {
	w := newWorld()
	var seen []types.TypeID
	rf := fold.NewGeneralRegionFolder(w.tcx, toMarker, func(t types.TypeID) types.TypeID {
		seen = append(seen, t)
		if t == w.b.I32 {
			return w.b.I64
		}
		return t
	})
	got := w.tcx.MkImmRptr(w.A, w.b.I32).FoldWith(rf)
	if want := w.tcx.MkImmRptr(marker, w.b.I64); got != want {
		t.Fatalf("got %s, want %s", w.repr(got), w.repr(want))
	}
	if len(seen) != 2 || seen[0] != w.b.I32 {
		t.Fatalf("type fn must run bottom-up, saw %v", seen)
	}
}

func TestBinderPoppedOnPanic(t *testing.T) {
	w := newWorld()
	rf := fold.NewRegionFolder(w.tcx, func(r types.Region) types.Region {
		panic("region callback failed")
	})
	inner := w.fnOf(21, w.tcx.MkImmRptr(types.ScopeRegion(1), w.b.I32))
	outer := w.fnOf(20, inner)

	ice := diag.Recover(nil, func() { outer.FoldWith(rf) })
	if ice == nil || ice.Code != diag.ICEUnexpected {
		t.Fatalf("expected recovered panic, got %v", ice)
	}
	if rf.BinderDepth() != 0 {
		t.Fatalf("binder stack leaked %d entries", rf.BinderDepth())
	}
	if rf.Depth() != 0 {
		t.Fatalf("fold depth leaked: %d", rf.Depth())
	}
}

func TestExitBinderUnderflow(t *testing.T) {
	w := newWorld()
	rf := fold.NewRegionFolder(w.tcx, toMarker)
	expectICE(t, diag.ICEBinderStack, rf.ExitBinder)
}

func TestRegionFolderTracesSkippedRegions(t *testing.T) {
	w := newWorld()
	ring := trace.NewRingTracer(64, trace.LevelDebug)
	rf := fold.NewRegionFolder(w.tcx, toMarker)
	rf.SetTracer(ring)

	bound := types.LateBound(30, types.BoundRegion{})
	w.fnOf(30, w.tcx.MkImmRptr(bound, w.b.I32)).FoldWith(rf)

	var names []string
	for _, ev := range ring.Snapshot() {
		names = append(names, ev.Name)
	}
	joined := strings.Join(names, ",")
	if !strings.Contains(joined, "region-folder/enter-binder") || !strings.Contains(joined, "region-folder/skip-bound") {
		t.Fatalf("missing trace events: %s", joined)
	}
}

func TestEraseRegions(t *testing.T) {
	w := newWorld()
	for _, ty := range w.sample() {
		once := fold.EraseRegions(w.tcx, ty)
		if err := testkit.CheckErased(w.tcx, once); err != nil {
			t.Fatal(err)
		}
		if twice := fold.EraseRegions(w.tcx, once); twice != once {
			t.Fatalf("erasure not idempotent: %s then %s", w.repr(once), w.repr(twice))
		}
	}
}

func TestEraseKeepsBoundRegions(t *testing.T) {
	w := newWorld()
	late := types.LateBound(40, types.BoundRegion{Kind: types.BrAnon})
	ty := w.tcx.MkTup(
		w.tcx.MkImmRptr(w.A, w.b.I32),
		w.tcx.MkImmRptr(types.InferRegion(2), w.b.I32),
		w.fnOf(40, w.b.Nil, w.tcx.MkImmRptr(late, w.b.I32)),
	)
	got := fold.EraseRegions(w.tcx, ty)
	want := w.tcx.MkTup(
		w.tcx.MkImmRptr(w.A, w.b.I32),
		w.tcx.MkImmRptr(types.Static, w.b.I32),
		w.fnOf(40, w.b.Nil, w.tcx.MkImmRptr(late, w.b.I32)),
	)
	if got != want {
		t.Fatalf("got %s, want %s", w.repr(got), w.repr(want))
	}
}

func TestEraseSkipsRegionFreeTypes(t *testing.T) {
	w := newWorld()
	ty := w.Pair(w.T, w.tcx.MkSlice(w.b.U8))
	if got := fold.EraseRegions(w.tcx, ty); got != ty {
		t.Fatalf("region-free type changed: %s", w.repr(got))
	}
}
