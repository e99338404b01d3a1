package transport

import (
	"context"
	"errors"
	"fmt"
)

// MemoryTransport keeps objects in process for the lifetime of the value.
type MemoryTransport struct {
	name    string
	session session
}

var _ Transport = (*MemoryTransport)(nil)

func NewMemoryTransport(name string) *MemoryTransport {
	if name == "" {
		name = "Memory"
	}
	return &MemoryTransport{name: name}
}

func (t *MemoryTransport) Name() string {
	return t.name
}

func (t *MemoryTransport) SaveObject(_ context.Context, id string, payload []byte) error {
	if id == "" {
		return &Error{Transport: t.name, Op: "save", Err: errEmptyID}
	}
	t.session.record(id, payload)
	return nil
}

func (t *MemoryTransport) SaveObjectFromTransport(ctx context.Context, id string, source Source) error {
	if source == nil {
		return &Error{Transport: t.name, Op: "save from transport", ID: id, Err: errors.New("source transport is required")}
	}
	payload, err := source.GetObject(ctx, id)
	if err != nil {
		return fmt.Errorf("read %s from source: %w", id, err)
	}
	return t.SaveObject(ctx, id, payload)
}

func (t *MemoryTransport) GetObject(_ context.Context, id string) ([]byte, error) {
	payload, ok := t.session.lookup(id)
	if !ok {
		return nil, notFound(t.name, id)
	}
	return payload, nil
}

func (t *MemoryTransport) HasObjects(ctx context.Context, ids []string) map[string]bool {
	return collapseLenient(probeObjects(ctx, ids, 1, t.GetObject))
}

func (t *MemoryTransport) BeginWrite() {
	t.session.begin()
}

func (t *MemoryTransport) EndWrite() {
	t.session.end()
}

func (t *MemoryTransport) CopyObjectAndChildren(_ context.Context, _ string, _ Transport) (string, error) {
	return "", notImplemented(t.name, "copy object and children")
}

func (t *MemoryTransport) SentObjectCount() int {
	return t.session.sent()
}

func (t *MemoryTransport) Stats() Stats {
	return Stats{
		Name:            t.name,
		Writing:         t.session.isWriting(),
		SentObjectCount: t.session.sent(),
		CachedObjects:   t.session.cached(),
	}
}
