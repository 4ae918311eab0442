package fold

import (
	"tyfold/internal/diag"
	"tyfold/internal/source"
	"tyfold/internal/trace"
	"tyfold/internal/traits"
	"tyfold/internal/types"
)

// MaxDepth is the default bound on how many types may be folded inside one
// another before the fold is treated as runaway recursion.
const MaxDepth = 512

// Base implements every folder hook with its structural default. Embed it
// and call Init before use.
type Base struct {
	self     types.Folder
	tcx      *types.Interner
	tracer   trace.Tracer
	span     source.Span
	depth    int
	maxDepth int
}

// Init binds b to the outermost folder and the interner it rebuilds terms
// with.
func (b *Base) Init(self types.Folder, tcx *types.Interner) {
	b.self = self
	b.tcx = tcx
	if b.tracer == nil {
		b.tracer = trace.Nop
	}
	if b.maxDepth == 0 {
		b.maxDepth = MaxDepth
	}
}

// SetTracer attaches a tracer for node-level debug events.
func (b *Base) SetTracer(t trace.Tracer) {
	if t == nil {
		t = trace.Nop
	}
	b.tracer = t
}

// SetMaxDepth overrides MaxDepth for this folder. Values <= 0 restore the
// default.
func (b *Base) SetMaxDepth(n int) {
	if n <= 0 {
		n = MaxDepth
	}
	b.maxDepth = n
}

// SetSpan sets the position reported with internal compiler errors.
func (b *Base) SetSpan(sp source.Span) {
	b.span = sp
}

// Span returns the position reported with internal compiler errors.
func (b *Base) Span() source.Span {
	return b.span
}

// Depth returns how many types are currently being folded inside one another.
func (b *Base) Depth() int {
	return b.depth
}

func (b *Base) Types() *types.Interner {
	return b.tcx
}

func (b *Base) folder() types.Folder {
	if b.self == nil {
		diag.Bug(diag.ICEUnexpected, b.span, "folder used before Init")
	}
	return b.self
}

// SuperFoldTy runs the structural default for t under the depth bound.
// Folders that override FoldTy call this instead of types.SuperFoldTy.
func (b *Base) SuperFoldTy(t types.TypeID) types.TypeID {
	f := b.folder()
	if b.depth >= b.maxDepth {
		diag.BugWithNote(diag.ICEFoldTooDeep, b.span,
			"type being folded: "+b.tcx.Repr(t),
			"type nesting exceeds %d levels", b.maxDepth)
	}
	b.depth++
	defer func() { b.depth-- }()
	return types.SuperFoldTy(f, t)
}

// debugf emits a node-scope event. The detail is only built when someone is
// listening.
func (b *Base) debugf(name string, detail func() string) {
	if b.tracer == nil || !b.tracer.Level().ShouldEmit(trace.ScopeNode) {
		return
	}
	trace.Point(b.tracer, trace.ScopeNode, name, detail())
}

func (b *Base) FoldTy(t types.TypeID) types.TypeID {
	return b.SuperFoldTy(t)
}

func (b *Base) FoldType(t types.Type) types.Type {
	return types.SuperFoldType(b.folder(), t)
}

func (b *Base) FoldMT(mt types.MT) types.MT {
	return types.SuperFoldMT(b.folder(), mt)
}

func (b *Base) FoldTraitRef(tr *types.TraitRef) *types.TraitRef {
	return types.SuperFoldTraitRef(b.folder(), tr)
}

func (b *Base) FoldSubsts(s *types.Substs) *types.Substs {
	return types.SuperFoldSubsts(b.folder(), s)
}

func (b *Base) FoldSig(sig types.FnSig) types.FnSig {
	return types.SuperFoldSig(b.folder(), sig)
}

func (b *Base) FoldBareFnTy(fty types.BareFnTy) types.BareFnTy {
	return types.SuperFoldBareFnTy(b.folder(), fty)
}

func (b *Base) FoldClosureTy(cty types.ClosureTy) types.ClosureTy {
	return types.SuperFoldClosureTy(b.folder(), cty)
}

// FoldRegion is the identity.
func (b *Base) FoldRegion(r types.Region) types.Region {
	return r
}

func (b *Base) FoldTraitStore(s types.TraitStore) types.TraitStore {
	return types.SuperFoldTraitStore(b.folder(), s)
}

func (b *Base) FoldExistentialBounds(eb types.ExistentialBounds) types.ExistentialBounds {
	return types.SuperFoldExistentialBounds(b.folder(), eb)
}

func (b *Base) FoldAutoRef(ar types.AutoRef) types.AutoRef {
	return types.SuperFoldAutoRef(b.folder(), ar)
}

func (b *Base) FoldItemSubsts(is types.ItemSubsts) types.ItemSubsts {
	return types.SuperFoldItemSubsts(b.folder(), is)
}

func (b *Base) FoldObligation(o traits.Obligation) traits.Obligation {
	return traits.SuperFoldObligation(b.folder(), o)
}

// Identity folds with every hook at its default. The result is always
// structurally equal to the input.
type Identity struct {
	Base
}

// NewIdentity returns a folder that rebuilds terms unchanged.
func NewIdentity(tcx *types.Interner) *Identity {
	f := &Identity{}
	f.Init(f, tcx)
	return f
}
