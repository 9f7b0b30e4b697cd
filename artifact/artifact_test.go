package artifact

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pivolan/sales_analyzer/apperrors"
)

func TestEnsureDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	require.NoError(t, EnsureDir(dir))
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.NoError(t, EnsureDir(dir))

	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))
	assert.Equal(t, apperrors.CodeIO, apperrors.CodeOf(EnsureDir(file)))
	assert.Equal(t, apperrors.CodeIO, apperrors.CodeOf(EnsureDir(filepath.Join(file, "sub"))))
}

func TestWriteAtomicReplaces(t *testing.T) {
	dir := t.TempDir()
	path, err := WriteAtomic(dir, "report.txt", []byte("first"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "report.txt"), path)

	_, err = WriteAtomic(dir, "report.txt", []byte("second"))
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0644), info.Mode().Perm())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestWriteAtomicFailures(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, dir string) string
	}{
		{"missing directory", func(t *testing.T, dir string) string {
			return filepath.Join(dir, "absent")
		}},
		{"target is a directory", func(t *testing.T, dir string) string {
			require.NoError(t, os.Mkdir(filepath.Join(dir, "out.bin"), 0755))
			return dir
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			dir := tt.setup(t, root)

			_, err := WriteAtomic(dir, "out.bin", []byte("data"))
			require.Error(t, err)
			assert.Equal(t, apperrors.CodeIO, apperrors.CodeOf(err))

			entries, err := os.ReadDir(root)
			require.NoError(t, err)
			for _, e := range entries {
				assert.NotContains(t, e.Name(), ".tmp")
			}
		})
	}
}
