package files

import (
	"context"
	"fmt"
	"io"

	"olttstats/internal/errors"
)

// Kind tells folders from files.
type Kind int

const (
	KindFile Kind = iota
	KindFolder
)

func (k Kind) String() string {
	if k == KindFolder {
		return "folder"
	}
	return "file"
}

// Item is one entry of a folder listing. IDs are opaque to callers and only
// meaningful to the store that returned them.
type Item struct {
	ID   string
	Name string
	Kind Kind
}

// IsFolder reports whether the item can be listed.
func (i Item) IsFolder() bool {
	return i.Kind == KindFolder
}

// Store is a hierarchical file store the walker traverses and writes
// workbooks back into.
type Store interface {
	// Folder resolves a folder ID to its item.
	Folder(ctx context.Context, id string) (Item, error)
	// ListChildren lists the direct children of a folder in the store's
	// listing order.
	ListChildren(ctx context.Context, folderID string) ([]Item, error)
	// ReadFile opens a file's content. Callers close the reader.
	ReadFile(ctx context.Context, fileID string) (io.ReadCloser, error)
	// CreateFile writes a new file into a folder and returns it.
	CreateFile(ctx context.Context, folderID, name string, r io.Reader) (Item, error)
	// UpdateFile replaces the content of an existing file.
	UpdateFile(ctx context.Context, fileID string, r io.Reader) (Item, error)
}

// AccountReporter is implemented by stores that can name the identity they
// are authenticated as.
type AccountReporter interface {
	Account(ctx context.Context) (string, error)
}

// notFoundError is a storage error whose cause is marked not found, so both
// errors.IsType checks hold.
func notFoundError(op, resource string, cause error) error {
	return errors.NewStorageError(fmt.Sprintf("%s %s", op, resource),
		errors.NewAppError(errors.ErrTypeNotFound, resource+" not found", cause))
}
