package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"tyfold/internal/driver"
	"tyfold/internal/version"
)

// newRootCmd assembles the CLI. Commands are built per call so tests can run
// several invocations without sharing flag state.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "tyfold",
		Short: "Fold, substitute and erase type terms",
		Long: `tyfold runs type folds (substitution, region erasure, region replacement)
over the cases of a TOML fixture and reports the results.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return prepare(cmd)
		},
	}

	root.AddCommand(newFoldCmd(driver.OpSubst))
	root.AddCommand(newFoldCmd(driver.OpErase))
	root.AddCommand(newFoldCmd(driver.OpRegions))
	root.AddCommand(newFoldCmd(driver.OpIdentity))
	root.AddCommand(newDumpCmd())
	root.AddCommand(newExportCmd())
	root.AddCommand(newVersionCmd())

	flags := root.PersistentFlags()
	flags.String("config", "", "path to tyfold.toml (default: search upwards from the working directory)")
	flags.String("color", "auto", "colorize output (auto|on|off)")
	flags.Bool("timings", false, "show timing information")
	flags.Int("jobs", 0, "max cases folded in parallel (0=auto)")
	flags.Int("max-depth", 0, "max type nesting folded before aborting (0=default)")
	flags.Int("max-diagnostics", 100, "maximum number of diagnostics to show")
	flags.String("trace", "", "trace output file (- for stderr)")
	flags.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	flags.String("trace-mode", "stream", "trace storage (stream|ring|both)")
	flags.Int("trace-ring-size", 4096, "events kept in ring mode")
	flags.String("cpu-profile", "", "write a CPU profile to file")
	flags.String("mem-profile", "", "write a heap profile to file on exit")
	flags.String("runtime-trace", "", "write a Go runtime trace to file")
	return root
}

// main executes the root command. Errors are printed once here and the
// process exits with status code 1.
func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "tyfold:", err)
		os.Exit(1)
	}
}

// isTerminal reports whether f is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
