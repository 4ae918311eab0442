package diag

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"tyfold/internal/source"
)

func span(start, end uint32) source.Span {
	return source.Span{File: 1, Start: start, End: end}
}

func TestCodeIDs(t *testing.T) {
	cases := map[Code]string{
		FixSyntax:      "FIX1001",
		SnapVersion:    "SNAP4002",
		ObsTimings:     "OBS8001",
		ICEFoldTooDeep: "ICE9005",
		UnknownCode:    "E0000",
	}
	for code, want := range cases {
		if got := code.ID(); got != want {
			t.Fatalf("%d.ID() = %q, want %q", code, got, want)
		}
	}
	if !ICEMissingRegion.IsICE() || FixMismatch.IsICE() {
		t.Fatalf("IsICE misclassifies codes")
	}
	if Code(4321).Title() != codeDescription[UnknownCode] {
		t.Fatalf("unknown code should fall back to the generic title")
	}
}

func TestBagLimitAndMerge(t *testing.T) {
	b := NewBag(2)
	for i := 0; i < 3; i++ {
		ok := b.Add(NewError(FixArity, span(uint32(i), uint32(i+1)), "x")) //nolint:gosec // small
		if ok != (i < 2) {
			t.Fatalf("Add #%d returned %v", i, ok)
		}
	}
	other := NewBag(4)
	other.Add(New(SevWarning, FixDuplicate, span(0, 1), "w"))
	other.Add(New(SevInfo, ObsTimings, span(9, 9), "i"))
	b.Merge(other)
	if b.Len() != 4 || b.Cap() < 4 {
		t.Fatalf("merge: len=%d cap=%d", b.Len(), b.Cap())
	}
	if !b.HasErrors() || !b.HasWarnings() {
		t.Fatalf("expected errors and warnings")
	}

	b.Sort()
	items := b.Items()
	// same span: error sorts before warning
	if items[0].Severity != SevError || items[1].Severity != SevWarning {
		t.Fatalf("sort order: %v", items)
	}
	if items[3].Code != ObsTimings {
		t.Fatalf("last item = %v", items[3])
	}
}

func TestBagDedup(t *testing.T) {
	b := NewBag(8)
	b.Add(NewError(FixArity, span(1, 2), "first"))
	b.Add(NewError(FixArity, span(1, 2), "second"))
	b.Add(NewError(FixArity, span(3, 4), "third"))
	b.Dedup()
	if b.Len() != 2 || b.Items()[0].Message != "first" {
		t.Fatalf("dedup kept %v", b.Items())
	}
}

func TestDedupReporter(t *testing.T) {
	b := NewBag(8)
	r := NewDedupReporter(BagReporter{Bag: b})
	r.Report(ICEMissingTypeSubst, SevError, span(0, 4), "missing T", nil)
	r.Report(ICEMissingTypeSubst, SevError, span(0, 4), "missing T", nil)
	r.Report(ICEMissingTypeSubst, SevError, span(0, 4), "missing U", nil)
	if b.Len() != 2 {
		t.Fatalf("expected 2 diagnostics, got %d", b.Len())
	}
}

func TestSyncReporterConcurrent(t *testing.T) {
	b := NewBag(1000)
	r := NewSyncReporter(BagReporter{Bag: b})
	var wg sync.WaitGroup
	for n := 0; n < 8; n++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for k := 0; k < 50; k++ {
				r.Report(FixInfo, SevInfo, span(0, 0), "tick", nil)
			}
		}()
	}
	wg.Wait()
	if b.Len() != 400 {
		t.Fatalf("expected 400 diagnostics, got %d", b.Len())
	}
}

func TestReportBuilderEmitsOnce(t *testing.T) {
	b := NewBag(4)
	rb := ReportError(BagReporter{Bag: b}, FixMismatch, span(2, 3), "differs").WithNote(span(2, 3), "expected `u8`")
	rb.Emit()
	rb.Emit()
	if b.Len() != 1 {
		t.Fatalf("expected one diagnostic, got %d", b.Len())
	}
	if notes := b.Items()[0].Notes; len(notes) != 1 || notes[0].Msg != "expected `u8`" {
		t.Fatalf("notes = %v", notes)
	}
	// nil reporters are ignored
	ReportWarning(nil, FixInfo, span(0, 0), "dropped").Emit()
}

func TestRecoverICE(t *testing.T) {
	b := NewBag(4)
	ice := Recover(BagReporter{Bag: b}, func() {
		BugWithNote(ICEMissingRegion, span(5, 9), "root type: Ref<'a>", "region %s out of range", "'a")
	})
	if ice == nil || ice.Code != ICEMissingRegion {
		t.Fatalf("ice = %v", ice)
	}
	if b.Len() != 1 {
		t.Fatalf("expected the ICE to be reported")
	}
	d := b.Items()[0]
	if d.Severity != SevError || d.Primary != span(5, 9) || d.Message != "region 'a out of range" {
		t.Fatalf("diagnostic = %v", d)
	}
	if len(d.Notes) != 1 || d.Notes[0].Msg != "root type: Ref<'a>" {
		t.Fatalf("notes = %v", d.Notes)
	}
	if got := ice.Diagnostic(); got.Code != ICEMissingRegion || len(got.Notes) != 1 {
		t.Fatalf("Diagnostic() = %v", got)
	}
}

func TestRecoverForeignPanic(t *testing.T) {
	b := NewBag(4)
	ice := Recover(BagReporter{Bag: b}, func() { panic(errors.New("boom")) })
	if ice == nil || ice.Code != ICEUnexpected || ice.Msg != "boom" {
		t.Fatalf("ice = %v", ice)
	}
	if !strings.Contains(ice.Stack, "goroutine") {
		t.Fatalf("expected the stack on the ICE, got %q", ice.Stack)
	}
	if len(ice.Notes) != 0 {
		t.Fatalf("stack must not become a note: %v", ice.Notes)
	}
	if items := b.Items(); len(items) != 1 || len(items[0].Notes) != 0 {
		t.Fatalf("reported %v", items)
	}
	if ice := Recover(nil, func() { panic(42) }); ice.Msg != "42" || ice.Stack == "" {
		t.Fatalf("non-error panic = %+v", ice)
	}
	if !strings.Contains(ice.Error(), "ICE9099") {
		t.Fatalf("Error() = %q", ice.Error())
	}
	if Recover(nil, func() {}) != nil {
		t.Fatalf("no panic should yield nil")
	}
}
