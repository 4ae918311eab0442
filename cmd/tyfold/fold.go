package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"tyfold/internal/diagfmt"
	"tyfold/internal/driver"
	"tyfold/internal/fixture"
	"tyfold/internal/source"
	"tyfold/internal/types"
)

var foldShort = map[driver.Op]string{
	driver.OpSubst:    "Apply each case's substitution to its type",
	driver.OpErase:    "Erase the free regions of each case's type",
	driver.OpRegions:  "Replace the free regions of each case's type",
	driver.OpIdentity: "Rebuild each case's type with the structural fold",
}

type foldOptions struct {
	format    string
	check     bool
	lenient   bool
	to        string
	withNotes bool
	ui        string
}

// globalOptions are the persistent flags after tyfold.toml was applied.
type globalOptions struct {
	useColor       bool
	timings        bool
	jobs           int
	maxDepth       int
	maxDiagnostics int
}

func newFoldCmd(op driver.Op) *cobra.Command {
	var opts foldOptions
	cmd := &cobra.Command{
		Use:   op.String() + " <fixture.toml>",
		Short: foldShort[op],
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFold(cmd, op, args[0], opts)
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&opts.format, "format", "pretty", "output format (pretty|json)")
	flags.BoolVar(&opts.check, "check", false, "verify the invariants of every result")
	flags.BoolVar(&opts.withNotes, "with-notes", false, "include diagnostic notes")
	flags.StringVar(&opts.ui, "ui", "auto", "live progress view (auto|on|off)")
	switch op {
	case driver.OpSubst:
		flags.BoolVar(&opts.lenient, "lenient", false, "report missing substitution slots and continue with the error type")
	case driver.OpRegions:
		flags.StringVar(&opts.to, "to", "'static", "region that replaces every free region")
	}
	return cmd
}

func readGlobalOptions(cmd *cobra.Command) (globalOptions, error) {
	flags := cmd.Root().PersistentFlags()
	var opts globalOptions
	colorFlag, err := flags.GetString("color")
	if err != nil {
		return opts, err
	}
	switch colorFlag {
	case "auto", "on", "off":
	default:
		return opts, fmt.Errorf("invalid --color value %q (must be auto, on or off)", colorFlag)
	}
	opts.useColor = colorFlag == "on" || (colorFlag == "auto" && isTerminal(os.Stdout))
	if opts.timings, err = flags.GetBool("timings"); err != nil {
		return opts, err
	}
	if opts.jobs, err = flags.GetInt("jobs"); err != nil {
		return opts, err
	}
	if opts.maxDepth, err = flags.GetInt("max-depth"); err != nil {
		return opts, err
	}
	if opts.maxDiagnostics, err = flags.GetInt("max-diagnostics"); err != nil {
		return opts, err
	}
	return opts, nil
}

func runFold(cmd *cobra.Command, op driver.Op, path string, opts foldOptions) error {
	format := strings.ToLower(opts.format)
	switch format {
	case "pretty", "json":
	default:
		return fmt.Errorf("unsupported format %q (must be pretty or json)", opts.format)
	}
	global, err := readGlobalOptions(cmd)
	if err != nil {
		return err
	}

	tcx := types.NewInterner()
	runOpts := driver.Options{
		Op:             op,
		Jobs:           global.jobs,
		MaxDepth:       global.maxDepth,
		MaxDiagnostics: global.maxDiagnostics,
		RegionTo:       types.Static,
		Lenient:        opts.lenient,
		Check:          opts.check,
		Timings:        global.timings && format == "json",
	}
	if op == driver.OpRegions {
		r, err := fixture.ParseRegion(tcx, opts.to)
		if err != nil {
			return fmt.Errorf("invalid --to region %q: %w", opts.to, err)
		}
		runOpts.RegionTo = r
	}

	cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer cleanup()
	stopProfiling, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	defer stopProfiling()

	var useUI bool
	switch opts.ui {
	case "on":
		useUI = true
	case "auto":
		useUI = format == "pretty" && isTerminal(os.Stdout) && isTerminal(os.Stderr)
	case "off":
	default:
		return fmt.Errorf("invalid --ui value %q (must be auto, on or off)", opts.ui)
	}

	fs := source.NewFileSet()
	var res *driver.Result
	var runErr error
	if useUI {
		res, runErr = runFoldWithUI(cmd.Context(), cmd.ErrOrStderr(), op.String()+" "+path, fs, tcx, path, runOpts)
	} else {
		res, runErr = driver.RunFile(cmd.Context(), fs, tcx, path, runOpts)
	}
	if res == nil {
		return runErr
	}

	out := cmd.OutOrStdout()
	if format == "json" {
		if err := renderFoldJSON(out, fs, tcx, res, opts, global); err != nil {
			return err
		}
	} else {
		if res.Fixture != nil {
			printResults(out, tcx, res, global.useColor)
		}
		diagfmt.Pretty(cmd.ErrOrStderr(), res.Bag, fs, diagfmt.PrettyOpts{
			Color:     global.useColor,
			ShowNotes: opts.withNotes,
			Max:       global.maxDiagnostics,
		})
		if global.timings {
			printTimings(cmd.ErrOrStderr(), res.Timing)
		}
	}

	if runErr != nil {
		return runErr
	}
	if failed := res.Failed(); failed > 0 {
		return fmt.Errorf("%d of %d cases failed", failed, len(res.Cases))
	}
	if res.Bag.HasErrors() {
		return fmt.Errorf("%s has errors", path)
	}
	return nil
}

type foldOutput struct {
	Op          string                    `json:"op"`
	Fixture     string                    `json:"fixture,omitempty"`
	Cases       []caseOutput              `json:"cases"`
	Failed      int                       `json:"failed"`
	Diagnostics diagfmt.DiagnosticsOutput `json:"diagnostics"`
}

type caseOutput struct {
	Name   string `json:"name"`
	Input  string `json:"input"`
	Output string `json:"output,omitempty"`
	Status string `json:"status"`
}

func renderFoldJSON(w io.Writer, fs *source.FileSet, tcx *types.Interner, res *driver.Result, opts foldOptions, global globalOptions) error {
	payload := foldOutput{
		Op:     res.Op.String(),
		Cases:  make([]caseOutput, 0, len(res.Cases)),
		Failed: res.Failed(),
		Diagnostics: diagfmt.BuildDiagnosticsOutput(res.Bag, fs, diagfmt.JSONOpts{
			IncludePositions: true,
			Max:              global.maxDiagnostics,
			IncludeNotes:     opts.withNotes,
		}),
	}
	if res.Fixture != nil {
		payload.Fixture = res.Fixture.Path
	}
	for i := range res.Cases {
		r := &res.Cases[i]
		if r.Case == nil {
			continue
		}
		payload.Cases = append(payload.Cases, caseOutput{
			Name:   r.Case.Name,
			Input:  tcx.Repr(r.Case.Ty),
			Output: r.Repr,
			Status: caseStatus(r),
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}

// caseStatus names the outcome of r for reports.
func caseStatus(r *driver.CaseResult) string {
	switch {
	case r.Aborted:
		return "aborted"
	case r.Mismatch:
		return "mismatch"
	case r.Skipped:
		return "skipped"
	case r.Bag != nil && r.Bag.HasErrors():
		return "error"
	case r.Bag != nil && r.Bag.HasWarnings():
		return "warning"
	default:
		return "ok"
	}
}

