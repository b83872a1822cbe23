package testutil

import (
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryFSWriteAndRead(t *testing.T) {
	m := NewMemoryFS()

	require.NoError(t, m.MkdirAll("/home/user", 0755))
	require.NoError(t, m.WriteFile("/home/user/.gitconfig", []byte("data"), 0600))

	content, err := m.ReadFile("/home/user/.gitconfig")
	require.NoError(t, err)
	assert.Equal(t, []byte("data"), content)

	info, err := m.Stat("/home/user/.gitconfig")
	require.NoError(t, err)
	assert.Equal(t, fs.FileMode(0600), info.Mode())
	assert.Equal(t, int64(4), info.Size())
	assert.Equal(t, 1, m.WriteCount())
}

func TestMemoryFSMissingFile(t *testing.T) {
	m := NewMemoryFS()

	_, err := m.ReadFile("/nope")
	assert.ErrorIs(t, err, fs.ErrNotExist)

	_, err = m.Stat("/nope")
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestMemoryFSWriteRequiresParent(t *testing.T) {
	m := NewMemoryFS()

	err := m.WriteFile("/deep/nested/file", []byte("x"), 0644)
	assert.ErrorIs(t, err, fs.ErrNotExist)

	require.NoError(t, m.MkdirAll("/deep/nested", 0755))
	assert.NoError(t, m.WriteFile("/deep/nested/file", []byte("x"), 0644))
}

func TestMemoryFSErrorInjection(t *testing.T) {
	m := NewMemoryFS()
	require.NoError(t, m.MkdirAll("/out", 0755))

	boom := fmt.Errorf("disk full")
	m.InjectError("/out/file", boom)

	err := m.WriteFile("/out/file", []byte("x"), 0644)
	assert.ErrorIs(t, err, boom)
}
