package files

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"olttstats/internal/errors"
)

func TestLocalStore_ListAndRead(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "101"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "b.csv"), []byte("bee"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.csv"), []byte("ay"), 0o644))

	store := NewLocalStore()
	ctx := context.Background()

	folder, err := store.Folder(ctx, root)
	require.NoError(t, err)
	assert.Equal(t, filepath.Base(root), folder.Name)
	assert.True(t, folder.IsFolder())

	items, err := store.ListChildren(ctx, folder.ID)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "101", items[0].Name)
	assert.True(t, items[0].IsFolder())
	assert.Equal(t, "a.csv", items[1].Name)
	assert.Equal(t, KindFile, items[2].Kind)

	rc, err := store.ReadFile(ctx, items[1].ID)
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "ay", string(data))
}

func TestLocalStore_CreateAndUpdate(t *testing.T) {
	root := t.TempDir()
	store := NewLocalStore()
	ctx := context.Background()

	item, err := store.CreateFile(ctx, root, "out.xlsx", strings.NewReader("v1"))
	require.NoError(t, err)
	assert.Equal(t, "out.xlsx", item.Name)

	// creating over an existing file fails
	_, err = store.CreateFile(ctx, root, "out.xlsx", strings.NewReader("v1"))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeStorage))

	_, err = store.UpdateFile(ctx, item.ID, strings.NewReader("v2"))
	require.NoError(t, err)

	data, err := os.ReadFile(item.ID)
	require.NoError(t, err)
	assert.Equal(t, "v2", string(data))

	// no temp files are left behind
	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestLocalStore_Errors(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "f.csv")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	store := NewLocalStore()
	ctx := context.Background()

	_, err := store.Folder(ctx, filepath.Join(root, "missing"))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeNotFound))
	assert.Equal(t, errors.ErrTypeStorage, errors.TypeOf(err))

	_, err = store.Folder(ctx, file)
	assert.True(t, errors.IsType(err, errors.ErrTypeInvalidArgument))

	_, err = store.ReadFile(ctx, filepath.Join(root, "nope.csv"))
	assert.True(t, errors.IsType(err, errors.ErrTypeNotFound))

	_, err = store.UpdateFile(ctx, filepath.Join(root, "nope.xlsx"), strings.NewReader("x"))
	assert.True(t, errors.IsType(err, errors.ErrTypeNotFound))

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = store.ListChildren(cancelled, root)
	assert.ErrorIs(t, err, context.Canceled)
}
