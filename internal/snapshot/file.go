package snapshot

import (
	"fmt"
	"os"
	"path/filepath"

	"tyfold/internal/types"
)

// WriteFile writes the snapshot of entries to path. The file is replaced
// atomically, so readers never see a partial snapshot.
func WriteFile(path string, tcx *types.Interner, entries []Entry) (err error) {
	dir := filepath.Dir(path)
	if err = os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, ".tyfold-snap-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()
	if err = Encode(f, tcx, entries); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err = f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), path)
}

// ReadFile loads the snapshot at path into tcx.
func ReadFile(path string, tcx *types.Interner) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	entries, err := Decode(f, tcx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return entries, nil
}
