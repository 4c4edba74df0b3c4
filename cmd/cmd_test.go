package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"memorylane/internal"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	internal.InitMetadata()
	os.Exit(m.Run())
}

func testEnv(t *testing.T) *env {
	t.Helper()
	e, err := newEnv(internal.DefaultConfig())
	require.NoError(t, err)
	e.log.SetOutput(&bytes.Buffer{})
	t.Cleanup(e.Close)
	return e
}

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	mtime := time.Date(2023, 10, 1, 10, 0, 0, 0, time.Local)
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
		require.NoError(t, os.Chtimes(path, mtime, mtime))
	}
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}

// runCLI executes the root command with fresh flag state.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	authorFlag, dryRunFlag, watchFlag, progressFlag = "", false, false, false
	formatFlag = "table"

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(append(args, "--log-file", filepath.Join(t.TempDir(), "run.log")))
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestFindDuplicates_Output(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"a.jpg":     "same",
		"b.jpg":     "same",
		"c.mov":     "different",
		"notes.txt": "same",
	})

	var out bytes.Buffer
	require.NoError(t, findDuplicates(context.Background(), testEnv(t), dir, "table", &out))

	text := out.String()
	assert.True(t, strings.HasPrefix(text, "Found duplicate files:\n"), text)
	assert.Contains(t, text, "    - a.jpg\n    - b.jpg\n")
	assert.NotContains(t, text, "notes.txt")
	assert.NotContains(t, text, "c.mov")
}

func TestFindDuplicates_NoneFound(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"a.jpg": "one", "b.jpg": "two"})

	var out bytes.Buffer
	require.NoError(t, findDuplicates(context.Background(), testEnv(t), dir, "table", &out))
	assert.Equal(t, "No duplicate files found.\n", out.String())
}

func TestRenameFolder_Output(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"a.jpg": "one", "b.MOV": "two", "notes.txt": "x"})

	var out bytes.Buffer
	opts := internal.RenameOptions{Out: &out}
	require.NoError(t, renameFolder(context.Background(), testEnv(t), dir, opts, false))

	text := out.String()
	assert.True(t, strings.HasPrefix(text, "Renaming files in '"+dir+"'...\n"), text)
	assert.True(t, strings.HasSuffix(text, "Finished. Renamed 2 file(s).\n"), text)

	names := listDir(t, dir)
	require.Len(t, names, 3)
	assert.Contains(t, names, "notes.txt")
	for _, name := range names {
		if name != "notes.txt" {
			assert.True(t, strings.HasPrefix(name, "2023-10-01-1000-00-"), name)
		}
	}

	out.Reset()
	require.NoError(t, renameFolder(context.Background(), testEnv(t), dir, opts, false))
	assert.True(t, strings.HasSuffix(out.String(), "Finished. Renamed 0 file(s).\n"))
}

func TestWatchPass_QuietWhenNothingToDo(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"a.jpg": "one"})
	e := testEnv(t)

	var out bytes.Buffer
	opts := internal.RenameOptions{Out: &out}
	watchPass(context.Background(), e, dir, opts)
	assert.Contains(t, out.String(), "Finished. Renamed 1 file(s).")

	// The follow-up pass triggered by the rename itself prints nothing.
	out.Reset()
	watchPass(context.Background(), e, dir, opts)
	assert.Empty(t, out.String())
}

func TestCLI_FindDuplicatesJSON(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"a.jpg": "same", "b.jpg": "same"})

	out, err := runCLI(t, "find-duplicates", "--format", "json", dir)
	require.NoError(t, err)
	assert.Contains(t, out, `"files": [`)
	assert.Contains(t, out, `"a.jpg"`)
}

func TestCLI_RenameWithAuthor(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"a.jpg": "one"})

	out, err := runCLI(t, "rename", "--author", "Alice", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Finished. Renamed 1 file(s).")

	want := "2023-10-01-1000-00-" + internal.Fingerprint("Alice")[:5] + ".jpg"
	assert.Equal(t, []string{want}, listDir(t, dir))
}

func TestCLI_RenameDryRun(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"a.jpg": "one"})

	out, err := runCLI(t, "rename", "--dry-run", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "[dry-run] would rename a.jpg to ")
	assert.Equal(t, []string{"a.jpg"}, listDir(t, dir))
}

func TestCLI_InvalidFolder(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing")

	_, err := runCLI(t, "rename", missing)
	assert.True(t, internal.IsInvalidFolder(err))

	_, err = runCLI(t, "find-duplicates", missing)
	assert.True(t, internal.IsInvalidFolder(err))
}

func TestCLI_RequiresFolder(t *testing.T) {
	_, err := runCLI(t, "rename")
	assert.Error(t, err)
}
