package farmindex

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/datahen/farmindex/internal/indexfile"
)

func writeInput(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestIndexer_BuildOverThreeRowCSV(t *testing.T) {
	dir := t.TempDir()
	inputPath := writeInput(t, dir, "input.csv", "name,age\nalice,30\nbob,25\ncarol,40\n")
	indexPath := filepath.Join(dir, "input.idx")

	ix := New(Config{InputPath: inputPath, IndexPath: indexPath, InputKind: indexfile.InputKindCSV})
	defer ix.Close()

	status, err := ix.Build()
	require.NoError(t, err)
	require.Equal(t, StatusIndexed, status)

	count, err := ix.IndexedCount()
	require.NoError(t, err)
	require.Equal(t, uint64(3), count)

	wantRanges := [][2]uint64{{9, 18}, {18, 25}, {25, 34}}
	for i, want := range wantRanges {
		node, err := ix.Value(uint64(i + 1))
		require.NoError(t, err)
		require.NotNil(t, node)
		require.Equal(t, want[0], node.InputStart)
		require.Equal(t, want[1], node.InputEnd)
		require.Equal(t, indexfile.StatusPending, node.Status)
		require.Equal(t, uint64(0), node.Parent)
		require.Equal(t, uint64(0), node.Left)
		require.Equal(t, uint64(0), node.Right)
		require.Equal(t, int64(0), node.Height)
	}

	info, err := os.Stat(indexPath)
	require.NoError(t, err)
	require.Equal(t, int64(indexfile.HeaderBytes)+3*int64(indexfile.NodeBytes), info.Size())
}

func TestIndexer_BuildIsIdempotentWhenAlreadyIndexed(t *testing.T) {
	dir := t.TempDir()
	inputPath := writeInput(t, dir, "input.csv", "name\nalice\nbob\n")
	indexPath := filepath.Join(dir, "input.idx")

	ix := New(Config{InputPath: inputPath, IndexPath: indexPath, InputKind: indexfile.InputKindCSV})
	status, err := ix.Build()
	require.NoError(t, err)
	require.Equal(t, StatusIndexed, status)
	require.NoError(t, ix.Close())

	ix2 := New(Config{InputPath: inputPath, IndexPath: indexPath, InputKind: indexfile.InputKindCSV})
	defer ix2.Close()
	status2, err := ix2.Build()
	require.NoError(t, err)
	require.Equal(t, StatusIndexed, status2)
}

func TestIndexer_FingerprintMismatchRejectsRebuild(t *testing.T) {
	dir := t.TempDir()
	inputPath := writeInput(t, dir, "input.csv", "name\nalice\nbob\n")
	indexPath := filepath.Join(dir, "input.idx")

	ix := New(Config{InputPath: inputPath, IndexPath: indexPath, InputKind: indexfile.InputKindCSV})
	_, err := ix.Build()
	require.NoError(t, err)
	require.NoError(t, ix.Close())

	before, err := os.ReadFile(indexPath)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(inputPath, []byte("name\nalicia\nbob\n"), 0o644))

	ix2 := New(Config{InputPath: inputPath, IndexPath: indexPath, InputKind: indexfile.InputKindCSV})
	defer ix2.Close()
	status, err := ix2.Build()
	require.Error(t, err)
	require.Equal(t, StatusWrongInputFile, status)

	after, err := os.ReadFile(indexPath)
	require.NoError(t, err)
	require.Equal(t, before, after)
}

func TestIndexer_ValueOutOfRangeReturnsNilNotError(t *testing.T) {
	dir := t.TempDir()
	inputPath := writeInput(t, dir, "input.csv", "name\nalice\nbob\n")
	indexPath := filepath.Join(dir, "input.idx")

	ix := New(Config{InputPath: inputPath, IndexPath: indexPath, InputKind: indexfile.InputKindCSV})
	defer ix.Close()
	_, err := ix.Build()
	require.NoError(t, err)

	node, err := ix.Value(0)
	require.NoError(t, err)
	require.Nil(t, node)

	node, err = ix.Value(99)
	require.NoError(t, err)
	require.Nil(t, node)
}

func TestIndexer_SaveValuePersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	rows := ""
	for i := 0; i < 10; i++ {
		rows += "row\n"
	}
	inputPath := writeInput(t, dir, "input.csv", "col\n"+rows)
	indexPath := filepath.Join(dir, "input.idx")

	ix := New(Config{InputPath: inputPath, IndexPath: indexPath, InputKind: indexfile.InputKindCSV})
	_, err := ix.Build()
	require.NoError(t, err)

	node, err := ix.Value(7)
	require.NoError(t, err)
	require.NotNil(t, node)
	node.Status = indexfile.StatusFailed
	node.SpentTime = 16
	require.NoError(t, ix.SaveValue(7, *node))
	require.NoError(t, ix.Close())

	ix2 := New(Config{InputPath: inputPath, IndexPath: indexPath, InputKind: indexfile.InputKindCSV})
	defer ix2.Close()
	reopened, err := ix2.Value(7)
	require.NoError(t, err)
	require.NotNil(t, reopened)
	require.Equal(t, indexfile.StatusFailed, reopened.Status)
	require.Equal(t, int64(16), reopened.SpentTime)
}

func TestIndexer_HealthcheckStates(t *testing.T) {
	dir := t.TempDir()

	t.Run("new when absent", func(t *testing.T) {
		ix := New(Config{InputPath: filepath.Join(dir, "missing.csv"), IndexPath: filepath.Join(dir, "missing.idx"), InputKind: indexfile.InputKindCSV})
		status, err := ix.Healthcheck()
		require.NoError(t, err)
		require.Equal(t, StatusNew, status)
	})

	t.Run("indexed after clean build", func(t *testing.T) {
		inputPath := writeInput(t, dir, "ok.csv", "name\nalice\n")
		indexPath := filepath.Join(dir, "ok.idx")
		ix := New(Config{InputPath: inputPath, IndexPath: indexPath, InputKind: indexfile.InputKindCSV})
		_, err := ix.Build()
		require.NoError(t, err)
		require.NoError(t, ix.Close())

		ix2 := New(Config{InputPath: inputPath, IndexPath: indexPath, InputKind: indexfile.InputKindCSV})
		defer ix2.Close()
		status, err := ix2.Healthcheck()
		require.NoError(t, err)
		require.Equal(t, StatusIndexed, status)
	})

	t.Run("corrupted on bad magic", func(t *testing.T) {
		indexPath := filepath.Join(dir, "bad.idx")
		require.NoError(t, os.WriteFile(indexPath, []byte("not an index file at all, too short"), 0o644))
		ix := New(Config{InputPath: filepath.Join(dir, "unused.csv"), IndexPath: indexPath, InputKind: indexfile.InputKindCSV})
		status, err := ix.Healthcheck()
		require.NoError(t, err)
		require.Equal(t, StatusCorrupted, status)
	})
}

func TestIndexer_ParseInputCSVRow(t *testing.T) {
	dir := t.TempDir()
	inputPath := writeInput(t, dir, "input.csv", "name,age\nalice,30\nbob,25\n")
	indexPath := filepath.Join(dir, "input.idx")

	ix := New(Config{InputPath: inputPath, IndexPath: indexPath, InputKind: indexfile.InputKindCSV})
	defer ix.Close()
	_, err := ix.Build()
	require.NoError(t, err)

	node, err := ix.Value(1)
	require.NoError(t, err)
	row, err := ix.ParseInput(*node)
	require.NoError(t, err)
	m, ok := row.(map[string]string)
	require.True(t, ok)
	require.Equal(t, "alice", m["name"])
	require.Equal(t, "30", m["age"])
}

func TestIndexer_ParseInputJSONRow(t *testing.T) {
	dir := t.TempDir()
	inputPath := writeInput(t, dir, "input.json", `[{"name":"alice","age":30},{"name":"bob","age":25}]`)
	indexPath := filepath.Join(dir, "input.idx")

	ix := New(Config{InputPath: inputPath, IndexPath: indexPath, InputKind: indexfile.InputKindJSON})
	defer ix.Close()
	_, err := ix.Build()
	require.NoError(t, err)

	node, err := ix.Value(2)
	require.NoError(t, err)
	row, err := ix.ParseInput(*node)
	require.NoError(t, err)
	m, ok := row.(map[string]interface{})
	require.True(t, ok)
	require.Equal(t, "bob", m["name"])
	require.Equal(t, float64(25), m["age"])
}
