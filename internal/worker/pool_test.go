package worker

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jef808/pyextract/internal/parser"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestNewPool_ClampsSize(t *testing.T) {
	assert.Equal(t, 1, NewPool(0).size)
	assert.Equal(t, 1, NewPool(-3).size)
	assert.Equal(t, 4, NewPool(4).size)
}

func TestPool_Run_PreservesInputOrder(t *testing.T) {
	dir := t.TempDir()
	var files []string
	names := []string{"aaa", "bbb", "ccc", "ddd", "eee"}
	for _, name := range names {
		files = append(files, writeFile(t, dir, name+".py", "def "+name+"():\n    pass\n"))
	}

	results := NewPool(3).Run(context.Background(), files)
	require.Len(t, results, len(files))

	for i, res := range results {
		assert.Equal(t, files[i], res.Path)
		require.False(t, res.Failed())
		require.Len(t, res.Module.Functions, 1)
		assert.Equal(t, names[i], res.Module.Functions[0].Name)
	}
}

func TestPool_Run_FailuresDoNotAbortBatch(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.py", "x = 1\n")
	bad := writeFile(t, dir, "bad.py", "def broken(:\n    pass\n")
	missing := filepath.Join(dir, "missing.py")

	results := NewPool(2).Run(context.Background(), []string{good, bad, missing})
	require.Len(t, results, 3)

	assert.False(t, results[0].Failed())
	assert.NotNil(t, results[0].Module)

	require.True(t, results[1].Failed())
	var syntaxErr *parser.SyntaxError
	assert.ErrorAs(t, results[1].Err, &syntaxErr)
	assert.Nil(t, results[1].Module)

	require.True(t, results[2].Failed())
	assert.ErrorIs(t, results[2].Err, os.ErrNotExist)
}

func TestPool_Run_EmptyInput(t *testing.T) {
	results := NewPool(2).Run(context.Background(), nil)
	assert.Empty(t, results)
}

func TestPool_Run_CancelledContext(t *testing.T) {
	dir := t.TempDir()
	var files []string
	for i := 0; i < 10; i++ {
		files = append(files, writeFile(t, dir, string(rune('a'+i))+".py", "x = 1\n"))
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// a context cancelled before Run dispatches nothing
	results := NewPool(2).Run(ctx, files)
	require.Len(t, results, len(files))
	for i, res := range results {
		assert.Equal(t, files[i], res.Path)
		require.True(t, res.Failed())
		assert.ErrorIs(t, res.Err, context.Canceled)
		assert.Nil(t, res.Module)
	}
}
