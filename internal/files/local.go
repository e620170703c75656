package files

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"olttstats/internal/errors"
)

// LocalStore serves a directory tree on disk. Item IDs are absolute paths.
type LocalStore struct{}

// NewLocalStore creates a store over the local file system.
func NewLocalStore() *LocalStore {
	return &LocalStore{}
}

// Folder stats a directory.
func (s *LocalStore) Folder(ctx context.Context, id string) (Item, error) {
	if err := ctx.Err(); err != nil {
		return Item{}, err
	}
	path, err := filepath.Abs(id)
	if err != nil {
		return Item{}, errors.NewInvalidArgumentError(fmt.Sprintf("bad folder path %q", id))
	}
	info, err := os.Stat(path)
	if err != nil {
		return Item{}, localError("stat folder", path, err)
	}
	if !info.IsDir() {
		return Item{}, errors.NewInvalidArgumentError(fmt.Sprintf("%s is not a folder", path))
	}
	return Item{ID: path, Name: info.Name(), Kind: KindFolder}, nil
}

// ListChildren lists a directory in name order.
func (s *LocalStore) ListChildren(ctx context.Context, folderID string) ([]Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(folderID)
	if err != nil {
		return nil, localError("list folder", folderID, err)
	}

	items := make([]Item, 0, len(entries))
	for _, e := range entries {
		kind := KindFile
		if e.IsDir() {
			kind = KindFolder
		} else if !e.Type().IsRegular() {
			continue
		}
		items = append(items, Item{ID: filepath.Join(folderID, e.Name()), Name: e.Name(), Kind: kind})
	}
	return items, nil
}

// ReadFile opens a file for reading.
func (s *LocalStore) ReadFile(ctx context.Context, fileID string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(fileID)
	if err != nil {
		return nil, localError("open file", fileID, err)
	}
	return f, nil
}

// CreateFile writes a new file; an existing file of the same name is an error.
func (s *LocalStore) CreateFile(ctx context.Context, folderID, name string, r io.Reader) (Item, error) {
	if err := ctx.Err(); err != nil {
		return Item{}, err
	}
	path := filepath.Join(folderID, name)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return Item{}, localError("create file", path, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return Item{}, localError("write file", path, err)
	}
	if err := f.Close(); err != nil {
		return Item{}, localError("close file", path, err)
	}
	return Item{ID: path, Name: name, Kind: KindFile}, nil
}

// UpdateFile replaces a file's content through a temporary file and rename.
func (s *LocalStore) UpdateFile(ctx context.Context, fileID string, r io.Reader) (Item, error) {
	if err := ctx.Err(); err != nil {
		return Item{}, err
	}
	if _, err := os.Stat(fileID); err != nil {
		return Item{}, localError("stat file", fileID, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(fileID), ".oltt-*")
	if err != nil {
		return Item{}, localError("create temp file", fileID, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return Item{}, localError("write file", fileID, err)
	}
	if err := tmp.Close(); err != nil {
		return Item{}, localError("close file", fileID, err)
	}
	if err := os.Rename(tmp.Name(), fileID); err != nil {
		return Item{}, localError("replace file", fileID, err)
	}
	return Item{ID: fileID, Name: filepath.Base(fileID), Kind: KindFile}, nil
}

func localError(op, path string, err error) error {
	switch {
	case stderrors.Is(err, fs.ErrNotExist):
		return notFoundError(op, path, err)
	case stderrors.Is(err, fs.ErrPermission):
		return errors.NewAuthError(fmt.Sprintf("%s %s", op, path), err)
	default:
		return errors.NewStorageError(fmt.Sprintf("%s %s", op, path), err)
	}
}
