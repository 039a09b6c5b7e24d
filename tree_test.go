package main

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCall struct {
	args    []string
	capture bool
}

// fakeRunner records every invocation and returns scripted output keyed
// by the command name.
type fakeRunner struct {
	calls  []fakeCall
	outs   map[string]string
	failOn string
}

func (f *fakeRunner) run(args []string, capture bool) (string, error) {
	f.calls = append(f.calls, fakeCall{args: args, capture: capture})
	if f.failOn != "" && args[0] == f.failOn {
		return "", &cmdError{args: args, code: 2, stderr: "boom"}
	}
	return f.outs[args[0]], nil
}

func testGlobal(t *testing.T) map[string]string {
	t.Helper()
	dir := t.TempDir()
	global := map[string]string{
		"tree":       "cached-tree",
		"scanner":    "fsscan",
		"trees_path": filepath.Join(dir, "trees"),
		"csvs_path":  filepath.Join(dir, "csvs"),
		"state_path": filepath.Join(dir, "state"),
	}
	for _, key := range []string{"trees_path", "csvs_path", "state_path"} {
		require.NoError(t, os.MkdirAll(global[key], 0o755))
	}
	return global
}

func TestGenerateTreeUsed(t *testing.T) {
	global := testGlobal(t)
	disk := t.TempDir()
	scan := ScanDef{Mode: "used", Disk: disk, Desc: "d", Header: "H"}
	r := &fakeRunner{outs: map[string]string{"cached-tree": "TREE\n", "du": "DU\n"}}

	require.NoError(t, generateTree(r, "d", scan, global, false))

	require.Len(t, r.calls, 2)
	assert.Equal(t, []string{
		"cached-tree", "-s", stateFileName(global, "d"), "-I", "@eaDir", "-N", disk,
	}, r.calls[0].args)
	assert.True(t, r.calls[0].capture)
	assert.Equal(t, []string{"du", "-sm", disk}, r.calls[1].args)

	content, err := os.ReadFile(treeFileName(global, "d"))
	require.NoError(t, err)
	assert.Equal(t, "H\n\nTREE\n\nDU\n", string(content))
}

func TestGenerateTreeDF(t *testing.T) {
	global := testGlobal(t)
	disk := t.TempDir()
	scan := ScanDef{Mode: "df", Disk: disk, Desc: "d", Header: "H"}
	r := &fakeRunner{outs: map[string]string{"cached-tree": "TREE\n", "df": "DF\n"}}

	require.NoError(t, generateTree(r, "d", scan, global, false))

	require.Len(t, r.calls, 2)
	assert.Equal(t, []string{"df", "-PH", disk}, r.calls[1].args)
}

func TestGenerateTreeSubsWithSubdirs(t *testing.T) {
	global := testGlobal(t)
	disk := t.TempDir()
	for _, name := range []string{"b", "a", "@eaDir"} {
		require.NoError(t, os.Mkdir(filepath.Join(disk, name), 0o755))
	}
	// A plain file must not count as a subdirectory.
	require.NoError(t, os.WriteFile(filepath.Join(disk, "f.txt"), nil, 0o644))

	scan := ScanDef{Mode: "subs", Disk: disk, Desc: "d", Header: "H"}
	r := &fakeRunner{outs: map[string]string{"cached-tree": "TREE\n", "df": "DF\n", "du": "DU\n"}}

	require.NoError(t, generateTree(r, "d", scan, global, false))

	require.Len(t, r.calls, 3)
	assert.Equal(t, []string{
		"du", "-sm", filepath.Join(disk, "a"), filepath.Join(disk, "b"),
	}, r.calls[2].args)

	content, err := os.ReadFile(treeFileName(global, "d"))
	require.NoError(t, err)
	assert.Equal(t, "H\n\nTREE\n\nDF\n\nDU\n", string(content))
}

func TestGenerateTreeSubsWithoutSubdirs(t *testing.T) {
	global := testGlobal(t)
	disk := t.TempDir()
	scan := ScanDef{Mode: "subs", Disk: disk, Desc: "d", Header: "H"}
	r := &fakeRunner{outs: map[string]string{"cached-tree": "TREE\n", "df": "DF\n"}}

	require.NoError(t, generateTree(r, "d", scan, global, false))
	assert.Len(t, r.calls, 2)
}

func TestGenerateTreeUnknownMode(t *testing.T) {
	global := testGlobal(t)
	scan := ScanDef{Mode: "bogus", Disk: t.TempDir(), Desc: "d", Header: "H"}
	r := &fakeRunner{outs: map[string]string{"cached-tree": "TREE\n"}}

	err := generateTree(r, "d", scan, global, false)
	var modeErr *unknownModeError
	require.True(t, errors.As(err, &modeErr))
	assert.Equal(t, "bogus", modeErr.mode)
	// The snapshot command runs before the defensive mode check.
	assert.Len(t, r.calls, 1)
}

func TestGenerateTreeVerboseFlag(t *testing.T) {
	global := testGlobal(t)
	disk := t.TempDir()
	scan := ScanDef{Mode: "used", Disk: disk, Desc: "d", Header: "H"}
	r := &fakeRunner{outs: map[string]string{}}

	require.NoError(t, generateTree(r, "d", scan, global, true))
	assert.Equal(t, "-v", r.calls[0].args[len(r.calls[0].args)-1])
}

func TestGenerateTreeCompressedArtifact(t *testing.T) {
	global := testGlobal(t)
	disk := t.TempDir()
	scan := ScanDef{Mode: "used", Disk: disk, Desc: "d", Header: "H", Compress: "gzip"}
	r := &fakeRunner{outs: map[string]string{"cached-tree": "TREE\n", "du": "DU\n"}}

	require.NoError(t, generateTree(r, "d", scan, global, false))

	f, err := os.Open(treeFileName(global, "d") + ".gz")
	require.NoError(t, err)
	defer f.Close()

	zr, err := gzip.NewReader(f)
	require.NoError(t, err)
	content, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.Equal(t, "H\n\nTREE\n\nDU\n", string(content))
}

func TestWriteArtifactUnsupportedAlgorithm(t *testing.T) {
	err := writeArtifact(filepath.Join(t.TempDir(), "x.tree"), "lzma", []byte("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported compression algorithm")
}

func TestWriteArtifactOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.tree")
	require.NoError(t, writeArtifact(path, "", []byte("old content, long")))
	require.NoError(t, writeArtifact(path, "", []byte("new")))
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new", string(content))
}
