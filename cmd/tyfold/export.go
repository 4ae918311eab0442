package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tyfold/internal/diag"
	"tyfold/internal/diagfmt"
	"tyfold/internal/driver"
	"tyfold/internal/fixture"
	"tyfold/internal/snapshot"
	"tyfold/internal/source"
	"tyfold/internal/types"
)

type exportOptions struct {
	output string
	op     string
	to     string
}

func newExportCmd() *cobra.Command {
	var opts exportOptions
	cmd := &cobra.Command{
		Use:   "export <fixture.toml>",
		Short: "Write the case types of a fixture to a snapshot",
		Long: `Export interns every case of a fixture and writes the terms to a msgpack
snapshot that dump and other tools can load without the fixture. With --op the
fold results are written instead of the inputs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, args[0], opts)
		},
	}
	flags := cmd.Flags()
	flags.StringVarP(&opts.output, "output", "o", "", "snapshot path (required)")
	flags.StringVar(&opts.op, "op", "", "fold every case first (subst|erase|regions|identity)")
	flags.StringVar(&opts.to, "to", "'static", "replacement region for --op regions")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

func runExport(cmd *cobra.Command, path string, opts exportOptions) error {
	global, err := readGlobalOptions(cmd)
	if err != nil {
		return err
	}
	tcx := types.NewInterner()
	fs := source.NewFileSet()

	var entries []snapshot.Entry
	if opts.op == "" {
		bag := diag.NewBag(max(global.maxDiagnostics, 1))
		fx, err := fixture.Load(fs, tcx, path, diag.BagReporter{Bag: bag})
		printBag(cmd, bag, fs, global)
		if err != nil {
			return err
		}
		for _, c := range fx.Cases {
			entries = append(entries, snapshot.Entry{Name: c.Name, Ty: c.Ty})
		}
	} else {
		op, err := driver.ParseOp(opts.op)
		if err != nil {
			return err
		}
		runOpts := driver.Options{
			Op:             op,
			Jobs:           global.jobs,
			MaxDepth:       global.maxDepth,
			MaxDiagnostics: global.maxDiagnostics,
			RegionTo:       types.Static,
		}
		if op == driver.OpRegions {
			if runOpts.RegionTo, err = fixture.ParseRegion(tcx, opts.to); err != nil {
				return fmt.Errorf("invalid --to region %q: %w", opts.to, err)
			}
		}
		cleanup, err := setupTracing(cmd)
		if err != nil {
			return err
		}
		defer cleanup()
		res, err := driver.RunFile(cmd.Context(), fs, tcx, path, runOpts)
		if res != nil {
			printBag(cmd, res.Bag, fs, global)
		}
		if err != nil {
			return err
		}
		for i := range res.Cases {
			r := &res.Cases[i]
			if r.Case == nil || r.Skipped || r.Aborted {
				continue
			}
			entries = append(entries, snapshot.Entry{Name: r.Case.Name, Ty: r.Output})
		}
	}

	if err := snapshot.WriteFile(opts.output, tcx, entries); err != nil {
		return fmt.Errorf("%s: %w", snapshot.Code(err).ID(), err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %d types to %s\n", len(entries), opts.output)
	return nil
}

func printBag(cmd *cobra.Command, bag *diag.Bag, fs *source.FileSet, global globalOptions) {
	if bag.Len() == 0 {
		return
	}
	bag.Sort()
	diagfmt.Pretty(cmd.ErrOrStderr(), bag, fs, diagfmt.PrettyOpts{Color: global.useColor, Max: global.maxDiagnostics})
}
