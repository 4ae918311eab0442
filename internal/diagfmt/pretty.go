package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"tyfold/internal/diag"
	"tyfold/internal/source"
)

// Pretty writes the diagnostics of bag in human-readable form, in bag order
// (callers sort the bag first):
//
//	<path>:<line>:<col>: <SEV> <CODE>: <message>
//	   | <source line>
//	   | ^~~~
//	   = note: <note>
//
// Diagnostics without a file print the header line only.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	p := printer{w: w, fs: fs, opts: opts}
	p.palette(opts.Color)

	items := bag.Items()
	if opts.Max > 0 && opts.Max < len(items) {
		items = items[:opts.Max]
	}
	for i := range items {
		p.diagnostic(&items[i])
	}
	if len(items) < bag.Len() {
		fmt.Fprintf(w, "... %d more diagnostic(s)\n", bag.Len()-len(items))
	}
}

type printer struct {
	w    io.Writer
	fs   *source.FileSet
	opts PrettyOpts

	sev   map[diag.Severity]*color.Color
	code  *color.Color
	caret *color.Color
	note  *color.Color
	gut   *color.Color
}

func (p *printer) palette(enabled bool) {
	mk := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}
	p.sev = map[diag.Severity]*color.Color{
		diag.SevError:   mk(color.FgRed, color.Bold),
		diag.SevWarning: mk(color.FgYellow, color.Bold),
		diag.SevInfo:    mk(color.FgCyan, color.Bold),
	}
	p.code = mk(color.Bold)
	p.caret = mk(color.FgRed)
	p.note = mk(color.FgBlue)
	p.gut = mk(color.FgHiBlack)
}

func (p *printer) diagnostic(d *diag.Diagnostic) {
	if path := formatPath(p.fs, d.Primary.File, p.opts.PathMode); path != "" {
		start, _ := p.fs.Resolve(d.Primary)
		fmt.Fprintf(p.w, "%s:%d:%d: ", path, start.Line, start.Col)
	}
	fmt.Fprintf(p.w, "%s %s: %s\n", p.sev[d.Severity].Sprint(d.Severity), p.code.Sprint(d.Code.ID()), d.Message)
	p.snippet(d.Primary)
	if !p.opts.ShowNotes {
		return
	}
	for _, n := range d.Notes {
		fmt.Fprintf(p.w, "   %s %s\n", p.note.Sprint("= note:"), n.Msg)
	}
}

// snippet prints the first source line of span with a caret underline. The
// underline is measured in display columns so wide runes line up.
func (p *printer) snippet(span source.Span) {
	f := p.fs.Get(span.File)
	if f == nil {
		return
	}
	start, end := p.fs.Resolve(span)
	// LineIdx holds the offsets of the newlines
	lineStart := 0
	if start.Line > 1 {
		lineStart = int(f.LineIdx[start.Line-2]) + 1
	}
	lineEnd := len(f.Content)
	if int(start.Line) <= len(f.LineIdx) {
		lineEnd = int(f.LineIdx[start.Line-1])
	}
	if lineEnd < lineStart {
		return
	}
	line := string(f.Content[lineStart:lineEnd])

	from := min(int(span.Start)-lineStart, len(line))
	to := len(line)
	if end.Line == start.Line {
		to = max(min(int(span.End)-lineStart, len(line)), from)
	}
	pad := runewidth.StringWidth(line[:from])
	width := max(runewidth.StringWidth(line[from:to]), 1)

	gutter := p.gut.Sprint("   |")
	fmt.Fprintf(p.w, "%s %s\n", gutter, line)
	fmt.Fprintf(p.w, "%s %s%s\n", gutter, strings.Repeat(" ", pad), p.caret.Sprint("^"+strings.Repeat("~", width-1)))
}
