// Package storage mirrors designs into durable key-value storage.
//
// Backends implement KV. The Bridge maps a design snapshot onto the three
// storage keys and tolerates missing or corrupt values by falling back to
// defaults.
package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
)

var ErrNotFound = errors.New("key not found")

const (
	KeyElements   = "wysiwyg:elements"
	KeyCanvasBg   = "wysiwyg:canvasBg"
	KeyCanvasSize = "wysiwyg:canvasSize"
)

// Keys lists every key the bridge owns.
var Keys = []string{KeyElements, KeyCanvasBg, KeyCanvasSize}

type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
	Close() error
}

const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Open returns the backend named by kind rooted at dir.
func Open(kind, dir string, logger *slog.Logger) (KV, error) {
	switch kind {
	case BackendFile, "":
		return NewFileKV(dir, logger)
	case BackendSQLite:
		return OpenSQLite(filepath.Join(dir, "cbuild.db"))
	case BackendMemory:
		return NewMemoryKV(), nil
	}
	return nil, fmt.Errorf("unknown storage backend %q", kind)
}
