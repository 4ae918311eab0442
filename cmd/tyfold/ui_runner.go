package main

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"tyfold/internal/driver"
	"tyfold/internal/source"
	"tyfold/internal/types"
	"tyfold/internal/ui"
)

type foldOutcome struct {
	result *driver.Result
	err    error
}

// runFoldWithUI runs the fold in the background and shows its progress on
// out until every case is done.
func runFoldWithUI(ctx context.Context, out io.Writer, title string, fs *source.FileSet, tcx *types.Interner, path string, opts driver.Options) (*driver.Result, error) {
	events := make(chan driver.CaseEvent, 256)
	outcomeCh := make(chan foldOutcome, 1)

	go func() {
		opts.Progress = driver.ChannelSink{Ch: events}
		res, err := driver.RunFile(ctx, fs, tcx, path, opts)
		outcomeCh <- foldOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, nil, events)
	program := tea.NewProgram(model, tea.WithOutput(out), tea.WithInput(nil))
	_, uiErr := program.Run()
	if uiErr != nil {
		// keep the worker from blocking on a full channel
		go func() {
			for range events {
			}
		}()
	}
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
