package fold

import (
	"fmt"

	"tyfold/internal/diag"
	"tyfold/internal/source"
	"tyfold/internal/types"
)

// SubstFolder replaces type parameters and early-bound regions with the
// arguments of a substitution.
type SubstFolder struct {
	Base
	substs   *types.Substs
	reporter diag.Reporter
	rootTy   types.TypeID
}

// NewSubstFolder returns a folder applying substs. span is reported with
// internal compiler errors and may be empty.
func NewSubstFolder(tcx *types.Interner, substs *types.Substs, span source.Span) *SubstFolder {
	if substs == nil {
		substs = types.EmptySubsts()
	}
	f := &SubstFolder{substs: substs}
	f.Init(f, tcx)
	f.SetSpan(span)
	return f
}

// WithReporter makes missing substitution slots report to r and fold to the
// error type (or 'static for regions) instead of panicking. The caller owns
// aborting the unit afterwards.
func (f *SubstFolder) WithReporter(r diag.Reporter) *SubstFolder {
	f.reporter = r
	return f
}

// Substs returns the substitution being applied.
func (f *SubstFolder) Substs() *types.Substs {
	return f.substs
}

func (f *SubstFolder) FoldTy(t types.TypeID) types.TypeID {
	if !f.tcx.NeedsSubst(t) {
		return t
	}
	if f.depth == 0 {
		f.rootTy = t
		defer func() { f.rootTy = types.NoTypeID }()
	}

	tt := f.tcx.MustLookup(t)
	if tt.Kind != types.KindParam {
		return f.SuperFoldTy(t)
	}
	if arg, ok := f.substs.TypeFor(tt.Param); ok {
		f.debugf("subst/param", func() string {
			return f.tcx.Repr(t) + " => " + f.tcx.Repr(arg)
		})
		return arg
	}
	f.missing(diag.ICEMissingTypeSubst, fmt.Sprintf(
		"type parameter `%s` (%s/%d) out of range when substituting",
		f.tcx.Repr(t), tt.Param.Space, tt.Param.Idx))
	return f.tcx.Builtins().Err
}

func (f *SubstFolder) FoldRegion(r types.Region) types.Region {
	if r.Kind != types.ReEarlyBound {
		return r
	}
	if f.substs.Regions.Erased {
		return types.Static
	}
	if out, ok := f.substs.Regions.Regions.OptGet(r.Space, r.Index); ok {
		return out
	}
	f.missing(diag.ICEMissingRegion, fmt.Sprintf(
		"region parameter %s (%s/%d) out of range when substituting",
		r, r.Space, r.Index))
	return types.Static
}

// missing reports a substitution that does not cover a slot. Without a
// reporter it raises an internal compiler error.
func (f *SubstFolder) missing(code diag.Code, msg string) {
	notes := []diag.Note{{Span: f.span, Msg: "substitution: " + f.tcx.SubstsRepr(f.substs)}}
	if f.rootTy != types.NoTypeID {
		notes = append(notes, diag.Note{Span: f.span, Msg: "root type: " + f.tcx.Repr(f.rootTy)})
	}
	if f.reporter == nil {
		panic(&diag.ICE{Code: code, Span: f.span, Msg: msg, Notes: notes})
	}
	f.reporter.Report(code, diag.SevError, f.span, msg, notes)
}
