// Package file is the default store.Backend: one flat file per kind under a
// data directory.
//
// Writes go to a temporary file in the same directory which is then renamed
// over the target, so readers never see a partial file. Writers are
// serialised with an advisory lock on "<file>.lock", which also covers other
// processes sharing the directory.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/renameio/v2"

	"saba/internal/store"
)

const (
	filePerm   = 0o644
	retryDelay = 25 * time.Millisecond
)

type Backend struct {
	paths       store.Paths
	lockTimeout time.Duration
}

// New creates the data directory if needed. lockTimeout bounds how long
// Lock waits for another writer; zero waits until ctx ends.
func New(paths store.Paths, lockTimeout time.Duration) (*Backend, error) {
	if paths.Dir != "" {
		if err := os.MkdirAll(paths.Dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}
	return &Backend{paths: paths, lockTimeout: lockTimeout}, nil
}

// Path returns the file backing kind.
func (b *Backend) Path(kind store.Kind) string {
	return b.paths.For(kind)
}

func (b *Backend) Read(_ context.Context, kind store.Kind) ([]byte, error) {
	data, err := os.ReadFile(b.Path(kind))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, store.ErrNotExist
	}
	return data, err
}

func (b *Backend) Write(_ context.Context, kind store.Kind, data []byte) error {
	path := b.Path(kind)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return renameio.WriteFile(path, data, filePerm)
}

func (b *Backend) Lock(ctx context.Context, kind store.Kind) (func(), error) {
	if b.lockTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.lockTimeout)
		defer cancel()
	}
	lockPath := b.Path(kind) + ".lock"
	if err := os.MkdirAll(filepath.Dir(lockPath), 0o755); err != nil {
		return nil, err
	}
	fl := flock.New(lockPath)
	ok, err := fl.TryLockContext(ctx, retryDelay)
	if err != nil {
		return nil, fmt.Errorf("acquire %s: %w", lockPath, err)
	}
	if !ok {
		return nil, fmt.Errorf("acquire %s: lock busy", lockPath)
	}
	return func() { _ = fl.Unlock() }, nil
}

func (b *Backend) Close() error { return nil }
