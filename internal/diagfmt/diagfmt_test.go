package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"tyfold/internal/diag"
	"tyfold/internal/source"
)

func sampleBag(t *testing.T) (*diag.Bag, *source.FileSet) {
	t.Helper()
	fs := source.NewFileSet()
	content := []byte("[[case]]\nname = \"wide\"\ntype = \"Päir<i32>\"\n")
	id := fs.AddVirtual("cases/demo.toml", content)
	start := uint32(bytes.Index(content, []byte("Päir")))
	bag := diag.NewBag(8)
	bag.Add(diag.NewError(diag.FixUnknownItem, source.Span{File: id, Start: start, End: start + uint32(len("Päir"))}, "unknown type \"Päir\"").
		WithNote(source.Span{File: id}, "in `Päir<i32>`"))
	bag.Add(diag.New(diag.SevInfo, diag.ObsTimings, source.Span{}, "timings (subst): total 1.00 ms").
		WithNote(source.Span{}, `{"kind":"subst"}`))
	return bag, fs
}

func TestPrettyPlain(t *testing.T) {
	bag, fs := sampleBag(t)
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{ShowNotes: true})
	out := buf.String()

	for _, want := range []string{
		"cases/demo.toml:3:9: ERROR FIX1002: unknown type \"Päir\"",
		"   | type = \"Päir<i32>\"",
		"   |         ^~~~",
		"   = note: in `Päir<i32>`",
		"INFO OBS8001: timings (subst): total 1.00 ms",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("unexpected escape codes:\n%q", out)
	}
}

func TestPrettyColorAndMax(t *testing.T) {
	bag, fs := sampleBag(t)
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Color: true, Max: 1, PathMode: PathModeBasename})
	out := buf.String()
	if !strings.Contains(out, "\x1b[") {
		t.Fatalf("expected escape codes:\n%q", out)
	}
	if !strings.HasPrefix(out, "demo.toml:3:9: ") {
		t.Fatalf("expected basename path, got:\n%s", out)
	}
	if strings.Contains(out, "note:") || !strings.Contains(out, "... 1 more diagnostic(s)") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestJSON(t *testing.T) {
	bag, fs := sampleBag(t)
	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{IncludePositions: true}); err != nil {
		t.Fatal(err)
	}
	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Count != 2 {
		t.Fatalf("expected 2 diagnostics, got %d", out.Count)
	}
	first := out.Diagnostics[0]
	if first.Code != "FIX1002" || first.Location.StartLine != 3 || first.Location.StartCol != 9 {
		t.Fatalf("unexpected first diagnostic %+v", first)
	}
	if len(first.Notes) != 0 {
		t.Fatalf("notes must be opt-in, got %+v", first.Notes)
	}
	if len(out.Diagnostics[1].Notes) != 1 {
		t.Fatal("timing payload must always carry its note")
	}
}
