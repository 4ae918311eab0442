package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pairs = "../../internal/fixture/testdata/pairs.toml"

// execute runs a fresh root command with args and captures its output.
func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--color", "off"}, args...))
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func decodeFold(t *testing.T, stdout string) foldOutput {
	t.Helper()
	var out foldOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &out), stdout)
	return out
}

func caseByName(t *testing.T, out foldOutput, name string) caseOutput {
	t.Helper()
	for _, c := range out.Cases {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("case %q not in output", name)
	return caseOutput{}
}

func TestSubstTable(t *testing.T) {
	stdout, stderr, err := execute(t, "--jobs", "2", "subst", pairs)
	require.NoError(t, err, stderr)

	assert.Contains(t, stdout, "CASE")
	assert.Contains(t, stdout, "SUBST")
	assert.Contains(t, stdout, "Pair<i32, Pair<i32, bool>>")
	assert.Contains(t, stdout, "Ref<'scope(4), Option<u8>>")
	assert.Contains(t, stdout, "skipped")
	assert.Contains(t, stdout, "4 cases: 3 ok, 0 failed, 1 skipped")
	assert.NotContains(t, stdout, "\x1b[")
}

func TestEraseJSON(t *testing.T) {
	stdout, _, err := execute(t, "erase", "--format", "json", pairs)
	require.NoError(t, err)

	out := decodeFold(t, stdout)
	assert.Equal(t, "erase", out.Op)
	assert.Zero(t, out.Failed)
	require.Len(t, out.Cases, 4)
	obj := caseByName(t, out, "trait-object")
	assert.Equal(t, "ok", obj.Status)
	assert.Equal(t, "Box<dyn Show<T> + 'free(0,'b) + Send>", obj.Input)
	assert.Equal(t, "Box<dyn Show<T> + Send>", obj.Output)
	assert.Zero(t, out.Diagnostics.Count)
}

func TestRegionsTo(t *testing.T) {
	stdout, _, err := execute(t, "regions", "--check", "--to", "'#7", "--format", "json", pairs)
	require.NoError(t, err)
	fn := caseByName(t, decodeFold(t, stdout), "fn-bound")
	assert.Contains(t, fn.Output, "&'scope(7) i32")

	_, _, err = execute(t, "regions", "--to", "static", pairs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid --to region")
}

func TestMismatchFails(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bad.toml", `
[[case]]
name = "wrong"
type = "Box<i32>"
[case.expect]
identity = "Box<u32>"
`)
	stdout, stderr, err := execute(t, "identity", "--with-notes", path)
	require.Error(t, err)
	assert.Equal(t, "1 of 1 cases failed", err.Error())
	assert.Contains(t, stdout, "mismatch")
	assert.Contains(t, stderr, "FIX1007")
	assert.Contains(t, stderr, "= note: expected `Box<u32>`")
}

func TestFixtureSyntaxError(t *testing.T) {
	path := writeFile(t, t.TempDir(), "broken.toml", "[[case]\nname = 1\n")
	_, stderr, err := execute(t, "erase", path)
	require.Error(t, err)
	assert.Contains(t, stderr, "FIX1001")
}

func TestUnsupportedFormat(t *testing.T) {
	_, _, err := execute(t, "erase", "--format", "xml", pairs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported format")

	_, _, err = execute(t, "erase", "--ui", "fancy", pairs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid --ui")

	_, _, err = execute(t, "--color", "sometimes", "erase", pairs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid --color")
}

func TestConfigMaxDepth(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "deep.toml", `
[[case]]
name = "deep"
type = "Box<Box<Box<Box<i32>>>>"
`)
	cfg := writeFile(t, dir, "tyfold.toml", "[fold]\nmax_depth = 2\n")

	stdout, stderr, err := execute(t, "--config", cfg, "identity", path)
	require.Error(t, err)
	assert.Contains(t, stdout, "aborted")
	assert.Contains(t, stderr, "ICE9005")

	// the flag wins over the file
	_, _, err = execute(t, "--config", cfg, "--max-depth", "64", "identity", path)
	require.NoError(t, err)
}

func TestConfigUnknownKey(t *testing.T) {
	cfg := writeFile(t, t.TempDir(), "tyfold.toml", "[driver]\njobs = 2\nthreads = 4\n")
	_, _, err := execute(t, "--config", cfg, "erase", pairs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown keys: driver.threads")
}

func TestFindConfig(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	want := writeFile(t, root, configFile, "")

	got, ok, err := findConfig(nested)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want, got)
}

func TestTraceFromConfig(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "trace.log")
	cfg := writeFile(t, dir, "tyfold.toml", "[trace]\nlevel = \"detail\"\nmode = \"ring\"\noutput = "+
		`"`+filepath.ToSlash(out)+`"`+"\n")

	_, _, err := execute(t, "--config", cfg, "erase", pairs)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "fold/erase")
	assert.Contains(t, string(data), "case/pair-nested")
}

func TestTraceSpanHierarchy(t *testing.T) {
	out := filepath.Join(t.TempDir(), "trace.ndjson")
	_, _, err := execute(t, "--trace", out, "--trace-level", "detail", "erase", pairs)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	type event struct {
		Kind     string `json:"kind"`
		Scope    string `json:"scope"`
		SpanID   uint64 `json:"span_id"`
		ParentID uint64 `json:"parent_id"`
		Name     string `json:"name"`
	}
	begins := map[string]event{}
	for _, line := range bytes.Split(bytes.TrimSpace(data), []byte("\n")) {
		var ev event
		require.NoError(t, json.Unmarshal(line, &ev), string(line))
		if ev.Kind == "begin" {
			begins[ev.Name] = ev
		}
	}

	root, ok := begins["tyfold erase"]
	require.True(t, ok, "no driver span in %s", data)
	assert.Equal(t, "driver", root.Scope)
	assert.Zero(t, root.ParentID)

	load := begins["load"]
	assert.Equal(t, root.SpanID, load.ParentID)
	pass := begins["fold/erase"]
	assert.Equal(t, root.SpanID, pass.ParentID)
	nested := begins["case/pair-nested"]
	assert.Equal(t, pass.SpanID, nested.ParentID)
}

func TestTimings(t *testing.T) {
	_, stderr, err := execute(t, "--timings", "erase", pairs)
	require.NoError(t, err)
	assert.Contains(t, stderr, "load ")
	assert.Contains(t, stderr, "fold ")
	assert.Contains(t, stderr, "total ")

	stdout, _, err := execute(t, "--timings", "erase", "--format", "json", pairs)
	require.NoError(t, err)
	out := decodeFold(t, stdout)
	require.Equal(t, 1, out.Diagnostics.Count)
	assert.Equal(t, "OBS8001", out.Diagnostics.Diagnostics[0].Code)
	assert.NotEmpty(t, out.Diagnostics.Diagnostics[0].Notes)
}

func TestDumpFixture(t *testing.T) {
	stdout, _, err := execute(t, "dump", pairs)
	require.NoError(t, err)
	assert.Contains(t, stdout, "pair-nested")
	assert.Contains(t, stdout, "Pair<T, U>")
	assert.Contains(t, stdout, "flags: params")
	assert.Contains(t, stdout, "substs: [i32, Pair<T, bool>; ;  | ]")
}

func TestExportAndDumpSnapshot(t *testing.T) {
	dir := t.TempDir()
	snap := filepath.Join(dir, "pairs.snap")

	stdout, _, err := execute(t, "export", pairs, "-o", snap)
	require.NoError(t, err)
	assert.Contains(t, stdout, "wrote 4 types")

	fixtureOut, _, err := execute(t, "dump", "--format", "json", pairs)
	require.NoError(t, err)
	snapOut, _, err := execute(t, "dump", "--format", "json", snap)
	require.NoError(t, err)

	var fromFixture, fromSnap []dumpEntry
	require.NoError(t, json.Unmarshal([]byte(fixtureOut), &fromFixture))
	require.NoError(t, json.Unmarshal([]byte(snapOut), &fromSnap))
	require.Len(t, fromSnap, len(fromFixture))
	for i := range fromFixture {
		assert.Equal(t, fromFixture[i].Name, fromSnap[i].Name)
		assert.Equal(t, fromFixture[i].Type, fromSnap[i].Type)
		assert.Equal(t, fromFixture[i].Flags, fromSnap[i].Flags)
	}
}

func TestExportFoldResults(t *testing.T) {
	snap := filepath.Join(t.TempDir(), "erased.snap")
	_, _, err := execute(t, "export", "--op", "erase", pairs, "-o", snap)
	require.NoError(t, err)

	stdout, _, err := execute(t, "dump", snap)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Box<dyn Show<T> + Send>")
	assert.NotContains(t, stdout, "'free(0,'b)")

	_, _, err = execute(t, "export", "--op", "fold", pairs, "-o", snap)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown operation")
}

func TestDumpCorruptSnapshot(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bad.snap", "\xc1\xc1")
	_, _, err := execute(t, "dump", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SNAP4001")
}

func TestVersion(t *testing.T) {
	stdout, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "tyfold ")

	stdout, _, err = execute(t, "version", "--full", "--format", "json")
	require.NoError(t, err)
	var payload versionPayload
	require.NoError(t, json.Unmarshal([]byte(stdout), &payload))
	assert.Equal(t, "tyfold", payload.Tool)
	assert.NotEmpty(t, payload.Version)
	assert.NotEmpty(t, payload.GitCommit)

	_, _, err = execute(t, "version", "--format", "yaml")
	require.Error(t, err)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "ab", truncate("abcdef", 2))
	assert.Equal(t, "", truncate("abc", 0))
}

func TestProfilingFlags(t *testing.T) {
	dir := t.TempDir()
	cpu := filepath.Join(dir, "cpu.pprof")
	mem := filepath.Join(dir, "mem.pprof")
	_, _, err := execute(t, "--cpu-profile", cpu, "--mem-profile", mem, "erase", pairs)
	require.NoError(t, err)
	assert.FileExists(t, cpu)
	assert.FileExists(t, mem)
}
