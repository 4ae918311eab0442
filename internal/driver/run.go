package driver

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"tyfold/internal/diag"
	"tyfold/internal/fixture"
	"tyfold/internal/fold"
	"tyfold/internal/observ"
	"tyfold/internal/source"
	"tyfold/internal/testkit"
	"tyfold/internal/trace"
	"tyfold/internal/types"
)

// Options configures a driver run.
type Options struct {
	Op Op
	// Jobs bounds the number of cases folded at once; <= 0 uses GOMAXPROCS.
	Jobs int
	// MaxDepth overrides fold.MaxDepth when > 0.
	MaxDepth int
	// MaxDiagnostics bounds the diagnostics kept per case.
	MaxDiagnostics int
	// RegionTo is what OpRegions replaces free regions with.
	RegionTo types.Region
	// Lenient makes substitution report missing slots and continue with the
	// error type instead of aborting the case.
	Lenient bool
	// Check verifies the invariants of each result.
	Check bool
	// Timings appends a timing report to the result bag.
	Timings bool
	// Live, when set, also receives every diagnostic as it is reported.
	// It is called from several goroutines through a SyncReporter.
	Live     diag.Reporter
	Observer PhaseObserver
	Progress ProgressSink
}

// CaseResult is the outcome of one case.
type CaseResult struct {
	Case   *fixture.Case
	Output types.TypeID
	Repr   string
	// Skipped is set for subst cases without a substitution.
	Skipped bool
	// Aborted is set when folding raised an internal compiler error.
	Aborted bool
	// Mismatch is set when the case's expectation for the op differs.
	Mismatch bool
	Bag      *diag.Bag
}

// Failed reports whether the case produced errors.
func (r *CaseResult) Failed() bool {
	return r.Aborted || r.Mismatch || (r.Bag != nil && r.Bag.HasErrors())
}

// Result collects the case results of a run, in fixture order.
type Result struct {
	Op      Op
	Fixture *fixture.Fixture
	Cases   []CaseResult
	// Bag holds every diagnostic of the run, sorted.
	Bag    *diag.Bag
	Timing observ.Report
}

// Failed counts the failed cases.
func (r *Result) Failed() int {
	n := 0
	for i := range r.Cases {
		if r.Cases[i].Failed() {
			n++
		}
	}
	return n
}

// RunFile loads the fixture at path and runs opts.Op over its cases. Fixture
// diagnostics are part of the result bag.
func RunFile(ctx context.Context, fs *source.FileSet, tcx *types.Interner, path string, opts Options) (*Result, error) {
	timer := observ.NewTimer()
	bag := diag.NewBag(max(opts.MaxDiagnostics, 1))
	var rep diag.Reporter = diag.BagReporter{Bag: bag}
	if opts.Live != nil {
		rep = tee{rep, opts.Live}
	}

	idx := timer.Begin("load")
	opts.notify("load", PhaseStart, 0)
	_, load := trace.Start(ctx, trace.ScopePass, "load")
	fx, err := fixture.Load(fs, tcx, path, rep)
	load.End(path)
	timer.End(idx, path)
	opts.notify("load", PhaseEnd, timer.Elapsed(idx))
	if err != nil {
		return &Result{Op: opts.Op, Bag: bag}, err
	}

	res, err := run(ctx, tcx, fx, opts, timer)
	if res != nil {
		bag.Merge(res.Bag)
		bag.Sort()
		res.Bag = bag
	}
	return res, err
}

// Run folds every case of fx with opts.Op.
func Run(ctx context.Context, tcx *types.Interner, fx *fixture.Fixture, opts Options) (*Result, error) {
	return run(ctx, tcx, fx, opts, observ.NewTimer())
}

func run(ctx context.Context, tcx *types.Interner, fx *fixture.Fixture, opts Options, timer *observ.Timer) (*Result, error) {
	tracer := trace.FromContext(ctx)
	ctx, pass := trace.Start(ctx, trace.ScopePass, "fold/"+opts.Op.String())
	pass.WithExtra("cases", strconv.Itoa(len(fx.Cases)))

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	var live diag.Reporter
	if opts.Live != nil {
		live = diag.NewSyncReporter(opts.Live)
	}

	res := &Result{
		Op:      opts.Op,
		Fixture: fx,
		Cases:   make([]CaseResult, len(fx.Cases)),
	}

	idx := timer.Begin("fold")
	opts.notify("fold", PhaseStart, 0)
	for i, c := range fx.Cases {
		opts.progress(i, c.Name, CaseQueued)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(min(jobs, len(fx.Cases)), 1))
	for i, c := range fx.Cases {
		i, c := i, c
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			opts.progress(i, c.Name, CaseFolding)
			// each goroutine owns res.Cases[i]
			res.Cases[i] = runCase(tcx, c, opts, tracer, pass.ID(), live)
			opts.progress(i, c.Name, caseStatus(&res.Cases[i]))
			return nil
		})
	}
	err := g.Wait()
	timer.End(idx, fmt.Sprintf("%d cases, %d jobs", len(fx.Cases), jobs))
	opts.notify("fold", PhaseEnd, timer.Elapsed(idx))

	res.Bag = diag.NewBag(max(opts.MaxDiagnostics, 1))
	for i := range res.Cases {
		res.Bag.Merge(res.Cases[i].Bag)
	}
	res.Bag.Sort()

	res.Timing = timer.Report()
	if opts.Timings {
		appendTimingDiagnostic(res.Bag, timingPayload{
			Kind:    opts.Op.String(),
			Path:    fx.Path,
			TotalMS: res.Timing.TotalMS,
			Phases:  res.Timing.Phases,
		})
	}
	pass.WithExtra("failed", strconv.Itoa(res.Failed()))
	pass.End("")
	return res, err
}

func (o Options) progress(idx int, name string, status CaseStatus) {
	if o.Progress != nil {
		o.Progress.OnCase(CaseEvent{Index: idx, Name: name, Status: status})
	}
}

func caseStatus(r *CaseResult) CaseStatus {
	switch {
	case r.Failed():
		return CaseFailed
	case r.Skipped:
		return CaseSkipped
	default:
		return CaseDone
	}
}

func (o Options) notify(name string, status PhaseStatus, elapsed time.Duration) {
	if o.Observer != nil {
		o.Observer(PhaseEvent{Name: name, Status: status, Elapsed: elapsed})
	}
}

// tee forwards every report to both reporters.
type tee struct{ a, b diag.Reporter }

func (t tee) Report(code diag.Code, sev diag.Severity, primary source.Span, msg string, notes []diag.Note) {
	t.a.Report(code, sev, primary, msg, notes)
	t.b.Report(code, sev, primary, msg, notes)
}

// tunable is implemented by every folder embedding fold.Base.
type tunable interface {
	types.Folder
	SetTracer(trace.Tracer)
	SetMaxDepth(int)
	SetSpan(source.Span)
}

func runCase(tcx *types.Interner, c *fixture.Case, opts Options, tracer trace.Tracer, parent uint64, live diag.Reporter) CaseResult {
	span := trace.Begin(tracer, trace.ScopeUnit, "case/"+c.Name, parent)
	out := CaseResult{Case: c, Output: c.Ty, Bag: diag.NewBag(max(opts.MaxDiagnostics, 1))}
	var rep diag.Reporter = diag.BagReporter{Bag: out.Bag}
	if live != nil {
		rep = tee{rep, live}
	}
	// a parameter used twice reports its missing slot twice
	rep = diag.NewDedupReporter(rep)

	setup := func(f tunable) tunable {
		f.SetTracer(tracer)
		f.SetMaxDepth(opts.MaxDepth)
		f.SetSpan(c.Span)
		return f
	}

	ice := diag.Recover(rep, func() {
		switch opts.Op {
		case OpSubst:
			if c.Substs == nil {
				out.Skipped = true
				return
			}
			for n := 0; n < c.Passes; n++ {
				sf := fold.NewSubstFolder(tcx, c.Substs, c.Span)
				if opts.Lenient {
					sf.WithReporter(rep)
				}
				out.Output = out.Output.FoldWith(setup(sf))
			}
		case OpErase:
			out.Output = c.Ty.FoldWith(setup(fold.NewRegionEraser(tcx)))
		case OpRegions:
			to := opts.RegionTo
			out.Output = c.Ty.FoldWith(setup(fold.NewRegionFolder(tcx, func(types.Region) types.Region { return to })))
		case OpIdentity:
			out.Output = c.Ty.FoldWith(setup(fold.NewIdentity(tcx)))
		default:
			diag.ReportError(rep, diag.FixUnknownOperation, c.Span, "unknown operation "+opts.Op.String()).Emit()
		}
	})
	if ice != nil {
		if ice.Stack != "" {
			trace.Point(tracer, trace.ScopeUnit, "panic/"+c.Name, ice.Stack)
		}
		out.Aborted = true
		out.Output = types.NoTypeID
		span.WithExtra("ice", ice.Code.ID())
		span.End("aborted")
		return out
	}

	out.Repr = tcx.Repr(out.Output)
	if want, ok := c.Expect[opts.Op.String()]; ok && !out.Skipped && want != out.Repr {
		out.Mismatch = true
		diag.ReportError(rep, diag.FixMismatch, c.Span,
			fmt.Sprintf("case %s: %s produced `%s`", c.Name, opts.Op, out.Repr)).
			WithNote(c.Span, "expected `"+want+"`").
			Emit()
	}
	if opts.Check && !out.Skipped {
		if err := check(tcx, c, opts, out.Output); err != nil {
			diag.ReportError(rep, diag.FixNotFolded, c.Span,
				fmt.Sprintf("case %s: %v", c.Name, err)).Emit()
		}
	}
	span.End(out.Repr)
	return out
}

// check verifies the invariant each operation promises for its result.
func check(tcx *types.Interner, c *fixture.Case, opts Options, result types.TypeID) error {
	switch opts.Op {
	case OpSubst:
		// only a substitution free of parameters must leave none behind
		for _, arg := range c.Substs.Types.All() {
			if tcx.NeedsSubst(arg) {
				return nil
			}
		}
		return testkit.CheckConcrete(tcx, result)
	case OpErase:
		return testkit.CheckErased(tcx, result)
	case OpRegions:
		for _, r := range testkit.Regions(tcx, result) {
			if !r.IsBound() && r != opts.RegionTo {
				return fmt.Errorf("%s: free region %s was not replaced", tcx.Repr(result), r)
			}
		}
		return nil
	case OpIdentity:
		if result != c.Ty {
			return fmt.Errorf("identity fold changed %s into %s", tcx.Repr(c.Ty), tcx.Repr(result))
		}
		return testkit.CheckIdentity(tcx, c.Ty)
	}
	return nil
}
