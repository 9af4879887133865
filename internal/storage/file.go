package storage

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
)

const (
	dirMode  = 0o755
	fileMode = 0o644
)

// FileKV stores each key in its own file under dir. Writes go through a
// temp file and rename while holding an exclusive lock on dir/.lock.
type FileKV struct {
	dir         string
	lockTimeout time.Duration
	logger      *slog.Logger
}

func NewFileKV(dir string, logger *slog.Logger) (*FileKV, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(dir, dirMode); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &FileKV{
		dir:         dir,
		lockTimeout: 5 * time.Second,
		logger:      logger,
	}, nil
}

// path maps a key such as "wysiwyg:elements" to dir/wysiwyg_elements.
func (f *FileKV) path(key string) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '.':
			return r
		}
		return '_'
	}, key)
	return filepath.Join(f.dir, name)
}

func (f *FileKV) Get(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	err := f.withLock(ctx, func() error {
		var err error
		data, err = os.ReadFile(f.path(key))
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return err
	})
	return data, err
}

func (f *FileKV) Set(ctx context.Context, key string, value []byte) error {
	return f.withLock(ctx, func() error {
		return f.atomicWrite(f.path(key), value)
	})
}

func (f *FileKV) Delete(ctx context.Context, keys ...string) error {
	return f.withLock(ctx, func() error {
		for _, k := range keys {
			if err := os.Remove(f.path(k)); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("remove %s: %w", k, err)
			}
		}
		return nil
	})
}

func (f *FileKV) Close() error { return nil }

func (f *FileKV) withLock(ctx context.Context, fn func() error) error {
	lock := flock.New(filepath.Join(f.dir, ".lock"))

	ctx, cancel := context.WithTimeout(ctx, f.lockTimeout)
	defer cancel()

	locked, err := lock.TryLockContext(ctx, 20*time.Millisecond)
	if err != nil {
		return fmt.Errorf("acquire storage lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("storage lock not acquired within %v", f.lockTimeout)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			f.logger.Warn("release storage lock", "error", err)
		}
	}()

	return fn()
}

func (f *FileKV) atomicWrite(path string, data []byte) error {
	tmp, err := os.CreateTemp(f.dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, fileMode); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename into place: %w", err)
	}
	return nil
}
