package renderscript

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourcesAddFileReadsLazily(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "board.gtl")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o644))

	pool := NewSources()
	pool.AddFile(path)

	matches, err := pool.Find(`board\.gtl$`)
	require.NoError(t, err)
	require.Len(t, matches, 1)

	data, err := matches[0].Bytes()
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestSourcesFindNoMatch(t *testing.T) {
	pool := NewSources()
	pool.AddFile("/nonexistent/board.gtl")
	matches, err := pool.Find(`\.drl$`)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestSourcesFindRejectsInvalidRegex(t *testing.T) {
	pool := NewSources()
	_, err := pool.Find(`(unterminated`)
	assert.Error(t, err)
}
