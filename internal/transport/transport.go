// Package transport saves and retrieves opaque serialized objects by id.
//
// A Transport abstracts over the storage backend so callers can move objects
// between backends without knowing how each one stores them. ObjectTransport
// writes to a bucket through a storage.Connection; MemoryTransport keeps
// everything in process.
package transport

import (
	"context"
)

// Source is the read capability a transport needs from another transport in
// order to copy objects out of it.
type Source interface {
	GetObject(ctx context.Context, id string) ([]byte, error)
}

type Transport interface {
	Source

	Name() string

	// SaveObject stores payload under id, replacing any existing object.
	SaveObject(ctx context.Context, id string, payload []byte) error

	// SaveObjectFromTransport reads id from source and saves it here. Child
	// objects are not followed.
	SaveObjectFromTransport(ctx context.Context, id string, source Source) error

	// HasObjects reports, for each distinct id, whether a non-empty object is
	// stored under it. Lookup failures are reported as false.
	HasObjects(ctx context.Context, ids []string) map[string]bool

	BeginWrite()
	EndWrite()

	// CopyObjectAndChildren always fails with ErrNotImplemented.
	CopyObjectAndChildren(ctx context.Context, id string, target Transport) (string, error)
}

// Stats is a point-in-time view of a transport session.
type Stats struct {
	Name            string
	Bucket          string
	Writing         bool
	SentObjectCount int
	CachedObjects   int
}
