package storage

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"cbuild/internal/design"
	"cbuild/internal/element"
	"cbuild/internal/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func backends(t *testing.T) map[string]KV {
	t.Helper()
	file, err := NewFileKV(t.TempDir(), quietLogger())
	require.NoError(t, err)
	sqlite, err := OpenSQLite(filepath.Join(t.TempDir(), "kv.db"))
	require.NoError(t, err)
	return map[string]KV{
		BackendFile:   file,
		BackendSQLite: sqlite,
		BackendMemory: NewMemoryKV(),
	}
}

func TestKVBackends(t *testing.T) {
	ctx := context.Background()
	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			defer kv.Close()

			_, err := kv.Get(ctx, KeyElements)
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, kv.Set(ctx, KeyElements, []byte(`[]`)))
			require.NoError(t, kv.Set(ctx, KeyCanvasBg, []byte("#000")))
			require.NoError(t, kv.Set(ctx, KeyCanvasBg, []byte("#fff")))

			got, err := kv.Get(ctx, KeyCanvasBg)
			require.NoError(t, err)
			assert.Equal(t, "#fff", string(got))

			require.NoError(t, kv.Delete(ctx, KeyElements, KeyCanvasBg, "never-set"))
			_, err = kv.Get(ctx, KeyCanvasBg)
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestOpenUnknownBackend(t *testing.T) {
	_, err := Open("redis", t.TempDir(), quietLogger())
	assert.Error(t, err)
}

func sample(t *testing.T) design.Snapshot {
	t.Helper()
	content := "Hi"
	e, err := element.New("id-1", element.TypeText, element.Overrides{Content: &content})
	require.NoError(t, err)
	return design.Snapshot{
		Elements:   []element.Element{e},
		Background: "#eeeeee",
		Size:       geometry.Size{Width: 800, Height: 600},
	}
}

func TestBridgeLoadDefaultsWhenEmpty(t *testing.T) {
	b := NewBridge(NewMemoryKV(), WithLogger(quietLogger()))
	defer b.Close()

	assert.Equal(t, design.Default(), b.Load(context.Background()))
}

func TestBridgeSaveLoad(t *testing.T) {
	ctx := context.Background()
	kv, err := NewFileKV(t.TempDir(), quietLogger())
	require.NoError(t, err)
	b := NewBridge(kv, WithLogger(quietLogger()))
	defer b.Close()

	s := sample(t)
	require.NoError(t, b.Save(ctx, s))
	assert.Equal(t, s, b.Load(ctx))

	raw, err := kv.Get(ctx, KeyCanvasBg)
	require.NoError(t, err)
	assert.Equal(t, "#eeeeee", string(raw), "background is stored as a raw string")
}

func TestBridgeToleratesCorruptValues(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	require.NoError(t, kv.Set(ctx, KeyElements, []byte(`[{"id":`)))
	require.NoError(t, kv.Set(ctx, KeyCanvasSize, []byte(`"big"`)))

	b := NewBridge(kv, WithLogger(quietLogger()), WithDefaultCanvas(geometry.Size{Width: 300, Height: 200}))
	defer b.Close()

	got := b.Load(ctx)
	assert.Empty(t, got.Elements)
	assert.Equal(t, design.DefaultBackground, got.Background)
	assert.Equal(t, geometry.Size{Width: 300, Height: 200}, got.Size)
}

func TestBridgeRejectsInvalidStoredElements(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	require.NoError(t, kv.Set(ctx, KeyElements, []byte(`[{"id":"a","type":"text","x":0,"y":0},{"id":"a","type":"text","x":0,"y":0}]`)))

	b := NewBridge(kv, WithLogger(quietLogger()))
	defer b.Close()
	assert.Empty(t, b.LoadElements(ctx))
}

func TestBridgeClear(t *testing.T) {
	ctx := context.Background()
	b := NewBridge(NewMemoryKV(), WithLogger(quietLogger()))
	defer b.Close()

	require.NoError(t, b.Save(ctx, sample(t)))
	require.NoError(t, b.Clear(ctx))
	assert.Equal(t, design.Default(), b.Load(ctx))
}

func TestMirrorWritesInBackground(t *testing.T) {
	saved := make(chan error, 10)
	kv := NewMemoryKV()
	b := NewBridge(kv, WithLogger(quietLogger()), WithSaveHook(func(err error) { saved <- err }))
	defer b.Close()

	b.Mirror(sample(t))

	select {
	case err := <-saved:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("mirror never saved")
	}
	assert.Equal(t, sample(t), b.Load(context.Background()))
}

func TestCloseFlushesPendingSnapshot(t *testing.T) {
	kv := NewMemoryKV()
	b := NewBridge(kv, WithLogger(quietLogger()))

	s := sample(t)
	for i := 0; i < 50; i++ {
		s.Elements[0].X = i
		b.Mirror(s.Clone())
	}
	require.NoError(t, b.Close())

	reader := NewBridge(kv, WithLogger(quietLogger()))
	defer reader.Close()
	got := reader.LoadElements(context.Background())
	require.Len(t, got, 1)
	assert.Equal(t, 49, got[0].X, "latest snapshot wins")
}

// blockingKV stalls every Set until released.
type blockingKV struct {
	*MemoryKV
	release chan struct{}
	once    sync.Once
}

func (k *blockingKV) Set(ctx context.Context, key string, value []byte) error {
	<-k.release
	return k.MemoryKV.Set(ctx, key, value)
}

func (k *blockingKV) unblock() { k.once.Do(func() { close(k.release) }) }

func TestMirrorNeverBlocksOnSlowStorage(t *testing.T) {
	kv := &blockingKV{MemoryKV: NewMemoryKV(), release: make(chan struct{})}
	b := NewBridge(kv, WithLogger(quietLogger()))
	s := sample(t)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			b.Mirror(s.Clone())
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Mirror blocked behind a slow write")
	}
	kv.unblock()
	require.NoError(t, b.Close())
}

// failingKV rejects every write.
type failingKV struct{ *MemoryKV }

func (failingKV) Set(context.Context, string, []byte) error { return assert.AnError }

func TestMirrorSwallowsWriteErrors(t *testing.T) {
	saved := make(chan error, 1)
	b := NewBridge(failingKV{NewMemoryKV()}, WithLogger(quietLogger()), WithSaveHook(func(err error) { saved <- err }))
	defer b.Close()

	b.Mirror(sample(t))
	select {
	case err := <-saved:
		assert.ErrorIs(t, err, assert.AnError)
	case <-time.After(2 * time.Second):
		t.Fatal("mirror never attempted the write")
	}
}
