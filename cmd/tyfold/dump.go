package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"tyfold/internal/diag"
	"tyfold/internal/fixture"
	"tyfold/internal/snapshot"
	"tyfold/internal/source"
	"tyfold/internal/types"
)

type dumpEntry struct {
	Name   string `json:"name"`
	Type   string `json:"type"`
	Flags  string `json:"flags"`
	Substs string `json:"substs,omitempty"`
}

func newDumpCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "dump <fixture.toml|snapshot>",
		Short: "Print the type terms of a fixture or snapshot",
		Long: `Dump prints every case of a fixture, or every root of a snapshot written by
export, with its flags. Files ending in .toml are read as fixtures.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch format {
			case "pretty", "json":
			default:
				return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
			}
			global, err := readGlobalOptions(cmd)
			if err != nil {
				return err
			}
			tcx := types.NewInterner()
			var entries []dumpEntry
			if strings.EqualFold(filepath.Ext(args[0]), ".toml") {
				entries, err = dumpFixture(cmd, tcx, args[0], global)
			} else {
				entries, err = dumpSnapshot(tcx, args[0])
			}
			if err != nil {
				return err
			}
			if format == "json" {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(entries)
			}
			printDump(cmd.OutOrStdout(), entries, global.useColor)
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "pretty", "output format (pretty|json)")
	return cmd
}

func dumpFixture(cmd *cobra.Command, tcx *types.Interner, path string, global globalOptions) ([]dumpEntry, error) {
	files := source.NewFileSet()
	bag := diag.NewBag(max(global.maxDiagnostics, 1))
	fx, err := fixture.Load(files, tcx, path, diag.BagReporter{Bag: bag})
	printBag(cmd, bag, files, global)
	if err != nil {
		return nil, err
	}
	entries := make([]dumpEntry, 0, len(fx.Cases))
	for _, c := range fx.Cases {
		e := dumpEntry{
			Name:  c.Name,
			Type:  tcx.Repr(c.Ty),
			Flags: tcx.Flags(c.Ty).String(),
		}
		if c.Substs != nil {
			e.Substs = tcx.SubstsRepr(c.Substs)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func dumpSnapshot(tcx *types.Interner, path string) ([]dumpEntry, error) {
	roots, err := snapshot.ReadFile(path, tcx)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", snapshot.Code(err).ID(), path, err)
	}
	entries := make([]dumpEntry, 0, len(roots))
	for _, r := range roots {
		entries = append(entries, dumpEntry{
			Name:  r.Name,
			Type:  tcx.Repr(r.Ty),
			Flags: tcx.Flags(r.Ty).String(),
		})
	}
	return entries, nil
}

func printDump(w io.Writer, entries []dumpEntry, useColor bool) {
	t := newTable(w, useColor)
	nameWidth := 0
	for _, e := range entries {
		nameWidth = max(nameWidth, runewidth.StringWidth(e.Name))
	}
	for _, e := range entries {
		fmt.Fprintf(w, "%s  %s\n", t.header.Render(pad(e.Name, nameWidth, false)), e.Type)
		fmt.Fprintf(w, "%s  %s\n", pad("", nameWidth, false), t.dim.Render("flags: "+e.Flags))
		if e.Substs != "" {
			fmt.Fprintf(w, "%s  %s\n", pad("", nameWidth, false), t.dim.Render("substs: "+e.Substs))
		}
	}
}
