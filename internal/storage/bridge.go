package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"cbuild/internal/design"
	"cbuild/internal/element"
	"cbuild/internal/geometry"
)

// Bridge loads and saves design snapshots through a KV backend.
//
// Mirror hands a snapshot to a background writer and returns at once; only
// the latest pending snapshot is written. Write failures are logged and
// dropped so they never reach in-memory state.
type Bridge struct {
	kv           KV
	logger       *slog.Logger
	writeTimeout time.Duration
	canvas       geometry.Size

	mu      sync.Mutex
	pending *design.Snapshot
	wake    chan struct{}
	done    chan struct{}
	stopped chan struct{}
	closed  bool
	onSaved func(error)
}

type BridgeOption func(*Bridge)

func WithLogger(l *slog.Logger) BridgeOption {
	return func(b *Bridge) { b.logger = l }
}

// WithDefaultCanvas sets the canvas size used when none is stored.
func WithDefaultCanvas(s geometry.Size) BridgeOption {
	return func(b *Bridge) {
		if s.Valid() {
			b.canvas = s
		}
	}
}

// WithSaveHook is called by the writer after each mirrored save.
func WithSaveHook(fn func(error)) BridgeOption {
	return func(b *Bridge) { b.onSaved = fn }
}

func NewBridge(kv KV, opts ...BridgeOption) *Bridge {
	b := &Bridge{
		kv:           kv,
		logger:       slog.Default(),
		writeTimeout: 10 * time.Second,
		canvas:       geometry.DefaultCanvas,
		wake:         make(chan struct{}, 1),
		done:         make(chan struct{}),
		stopped:      make(chan struct{}),
	}
	for _, o := range opts {
		o(b)
	}
	go b.run()
	return b
}

// Load reads the stored design. Absent or unparsable values fall back to
// their defaults.
func (b *Bridge) Load(ctx context.Context) design.Snapshot {
	return design.Snapshot{
		Elements:   b.LoadElements(ctx),
		Background: b.LoadBackground(ctx),
		Size:       b.LoadCanvasSize(ctx),
	}
}

func (b *Bridge) LoadElements(ctx context.Context) []element.Element {
	raw, ok := b.get(ctx, KeyElements)
	if !ok {
		return []element.Element{}
	}
	var elements []element.Element
	if err := json.Unmarshal(raw, &elements); err != nil {
		b.logger.Warn("stored elements unreadable, starting empty", "error", err)
		return []element.Element{}
	}
	for i := range elements {
		elements[i].Normalize()
	}
	if err := design.ValidateElements(elements); err != nil {
		b.logger.Warn("stored elements invalid, starting empty", "error", err)
		return []element.Element{}
	}
	return elements
}

func (b *Bridge) LoadBackground(ctx context.Context) string {
	raw, ok := b.get(ctx, KeyCanvasBg)
	if !ok || len(raw) == 0 {
		return design.DefaultBackground
	}
	return string(raw)
}

func (b *Bridge) LoadCanvasSize(ctx context.Context) geometry.Size {
	raw, ok := b.get(ctx, KeyCanvasSize)
	if !ok {
		return b.canvas
	}
	var s geometry.Size
	if err := json.Unmarshal(raw, &s); err != nil || !s.Valid() {
		b.logger.Warn("stored canvas size unreadable, using default", "error", err)
		return b.canvas
	}
	return s
}

func (b *Bridge) get(ctx context.Context, key string) ([]byte, bool) {
	raw, err := b.kv.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			b.logger.Warn("storage read failed", "key", key, "error", err)
		}
		return nil, false
	}
	return raw, true
}

// Save writes s synchronously, overwriting every key.
func (b *Bridge) Save(ctx context.Context, s design.Snapshot) error {
	elements := s.Elements
	if elements == nil {
		elements = []element.Element{}
	}
	data, err := json.Marshal(elements)
	if err != nil {
		return fmt.Errorf("encode elements: %w", err)
	}
	size, err := json.Marshal(s.Size)
	if err != nil {
		return fmt.Errorf("encode canvas size: %w", err)
	}
	if err := b.kv.Set(ctx, KeyElements, data); err != nil {
		return err
	}
	if err := b.kv.Set(ctx, KeyCanvasBg, []byte(s.Background)); err != nil {
		return err
	}
	return b.kv.Set(ctx, KeyCanvasSize, size)
}

// Clear removes every key the bridge owns.
func (b *Bridge) Clear(ctx context.Context) error {
	return b.kv.Delete(ctx, Keys...)
}

// Mirror schedules s to be saved in the background. It never blocks.
func (b *Bridge) Mirror(s design.Snapshot) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.pending = &s
	b.mu.Unlock()

	select {
	case b.wake <- struct{}{}:
	default:
	}
}

func (b *Bridge) run() {
	defer close(b.stopped)
	for {
		select {
		case <-b.wake:
			b.flush()
		case <-b.done:
			b.flush()
			return
		}
	}
}

func (b *Bridge) flush() {
	b.mu.Lock()
	s := b.pending
	b.pending = nil
	b.mu.Unlock()
	if s == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), b.writeTimeout)
	defer cancel()

	err := b.Save(ctx, *s)
	if err != nil {
		b.logger.Error("mirror design to storage", "error", err)
	} else {
		b.logger.Debug("design mirrored", "elements", len(s.Elements))
	}
	if b.onSaved != nil {
		b.onSaved(err)
	}
}

// Close stops the writer after flushing any pending snapshot, then closes
// the backend.
func (b *Bridge) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	b.mu.Unlock()

	close(b.done)
	<-b.stopped
	return b.kv.Close()
}
