package stores

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

type DirStoreOptions struct {
	fileMode fs.FileMode
	dirMode  fs.FileMode
}

type DirStoreOption func(*DirStoreOptions)

func WithFileMode(mode fs.FileMode) DirStoreOption {
	return func(opts *DirStoreOptions) {
		opts.fileMode = mode
	}
}

func WithDirMode(mode fs.FileMode) DirStoreOption {
	return func(opts *DirStoreOptions) {
		opts.dirMode = mode
	}
}

// DirStore keeps each object in a file under a root directory, one file
// per object name. The layout matches what a blob store would hold, so a
// directory populated here is a valid local replica of a remote store.
type DirStore struct {
	root string
	opts DirStoreOptions
}

func NewDirStore(root string, opts ...DirStoreOption) *DirStore {
	s := &DirStore{
		root: root,
		opts: DirStoreOptions{fileMode: 0o644, dirMode: 0o755},
	}
	for _, o := range opts {
		o(&s.opts)
	}
	return s
}

func (s *DirStore) ReadObject(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(s.root, filepath.FromSlash(name)))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrObjectNotFound, name)
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// WriteObject writes to a sibling temp file and renames it over the
// destination, so readers never observe a torn write.
func (s *DirStore) WriteObject(ctx context.Context, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path := filepath.Join(s.root, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), s.opts.dirMode); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err = tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err = os.Chmod(tmpName, s.opts.fileMode); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err = os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
