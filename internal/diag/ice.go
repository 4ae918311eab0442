package diag

import (
	"fmt"
	"runtime/debug"

	"tyfold/internal/source"
)

// ICE is the panic payload of an internal compiler error: a broken contract
// between phases, never a problem with user input. It is raised with Bug and
// turned back into a Diagnostic with Recover at a compilation-unit boundary.
type ICE struct {
	Code  Code
	Span  source.Span
	Msg   string
	Notes []Note
	// Stack is the goroutine stack of a foreign panic. It is kept out of the
	// notes so that rendered diagnostics stay short.
	Stack string
}

func (e *ICE) Error() string {
	if e.Span.Empty() && e.Span.File == 0 {
		return fmt.Sprintf("internal compiler error %s: %s", e.Code.ID(), e.Msg)
	}
	return fmt.Sprintf("internal compiler error %s at %s: %s", e.Code.ID(), e.Span, e.Msg)
}

// Diagnostic converts the ICE into an error diagnostic.
func (e *ICE) Diagnostic() Diagnostic {
	d := NewError(e.Code, e.Span, e.Msg)
	d.Notes = append(d.Notes, e.Notes...)
	return d
}

// Bug raises an internal compiler error. It never returns.
func Bug(code Code, span source.Span, format string, args ...any) {
	panic(&ICE{Code: code, Span: span, Msg: fmt.Sprintf(format, args...)})
}

// BugWithNote raises an internal compiler error carrying one extra note.
func BugWithNote(code Code, span source.Span, note string, format string, args ...any) {
	panic(&ICE{
		Code:  code,
		Span:  span,
		Msg:   fmt.Sprintf(format, args...),
		Notes: []Note{{Span: span, Msg: note}},
	})
}

// AsICE converts a recovered panic value into an ICE. Foreign panics become
// ICEUnexpected carrying the current stack.
func AsICE(rec any) *ICE {
	switch v := rec.(type) {
	case *ICE:
		return v
	case error:
		return &ICE{Code: ICEUnexpected, Msg: v.Error(), Stack: string(debug.Stack())}
	default:
		return &ICE{Code: ICEUnexpected, Msg: fmt.Sprint(v), Stack: string(debug.Stack())}
	}
}

// Recover runs fn and reports an internal compiler error raised inside it to
// r instead of crashing. It returns the ICE, or nil when fn completed.
func Recover(r Reporter, fn func()) (ice *ICE) {
	defer func() {
		rec := recover()
		if rec == nil {
			return
		}
		ice = AsICE(rec)
		if r != nil {
			r.Report(ice.Code, SevError, ice.Span, ice.Msg, ice.Notes)
		}
	}()
	fn()
	return nil
}
