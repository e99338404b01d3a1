package transport

import (
	"context"
	"errors"
	"fmt"

	"s3transport/internal/storage"

	"github.com/sirupsen/logrus"
)

const defaultName = "S3"

type Options struct {
	Name string
	// ProbeConcurrency bounds concurrent lookups in HasObjects; 0 selects the default.
	ProbeConcurrency int
	Logger           *logrus.Logger
}

// ObjectTransport stores objects in the active bucket of a storage.Connection.
type ObjectTransport struct {
	name             string
	conn             *storage.Connection
	probeConcurrency int
	log              *logrus.Entry

	session session
}

var _ Transport = (*ObjectTransport)(nil)

func New(conn *storage.Connection, opts Options) (*ObjectTransport, error) {
	if conn == nil {
		return nil, errors.New("storage connection is required")
	}
	if opts.ProbeConcurrency < 0 {
		return nil, errors.New("probe concurrency must be >= 0")
	}
	name := opts.Name
	if name == "" {
		name = defaultName
	}
	concurrency := opts.ProbeConcurrency
	if concurrency == 0 {
		concurrency = defaultProbeConcurrency
	}
	logger := opts.Logger
	if logger == nil {
		logger = logrus.New()
	}

	return &ObjectTransport{
		name:             name,
		conn:             conn,
		probeConcurrency: concurrency,
		log:              logger.WithField("transport", name),
	}, nil
}

func (t *ObjectTransport) Name() string {
	return t.name
}

func (t *ObjectTransport) Bucket() string {
	return t.conn.Bucket()
}

// Connection exposes bucket listing and selection for the underlying store.
func (t *ObjectTransport) Connection() *storage.Connection {
	return t.conn
}

func (t *ObjectTransport) SaveObject(ctx context.Context, id string, payload []byte) error {
	if id == "" {
		return &Error{Transport: t.name, Op: "save", Err: errEmptyID}
	}
	if err := t.conn.PutObject(ctx, id, payload); err != nil {
		return &Error{Transport: t.name, Op: "save", ID: id, Err: err}
	}
	t.session.record(id, payload)
	t.log.WithFields(logrus.Fields{"id": id, "bytes": len(payload), "bucket": t.conn.Bucket()}).Debug("saved object")
	return nil
}

func (t *ObjectTransport) SaveObjectFromTransport(ctx context.Context, id string, source Source) error {
	if source == nil {
		return &Error{Transport: t.name, Op: "save from transport", ID: id, Err: errors.New("source transport is required")}
	}
	payload, err := source.GetObject(ctx, id)
	if err != nil {
		return fmt.Errorf("read %s from source: %w", id, err)
	}
	return t.SaveObject(ctx, id, payload)
}

// GetObject reads from the bucket, never from the local cache.
func (t *ObjectTransport) GetObject(ctx context.Context, id string) ([]byte, error) {
	if id == "" {
		return nil, &Error{Transport: t.name, Op: "get", Err: errEmptyID}
	}
	payload, err := t.conn.GetObject(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, notFound(t.name, id)
		}
		return nil, &Error{Transport: t.name, Op: "get", ID: id, Err: err}
	}
	return payload, nil
}

// HasObjects treats lookup failures as absence. The failures are logged;
// use CheckObjects to receive them.
func (t *ObjectTransport) HasObjects(ctx context.Context, ids []string) map[string]bool {
	probes := t.ProbeObjects(ctx, ids)
	for id, p := range probes {
		if p.Presence == Unknown {
			t.log.WithError(p.Err).WithField("id", id).Warn("object lookup failed; reporting as absent")
		}
	}
	return collapseLenient(probes)
}

func (t *ObjectTransport) CheckObjects(ctx context.Context, ids []string) (map[string]bool, error) {
	return collapseStrict(ids, t.ProbeObjects(ctx, ids))
}

func (t *ObjectTransport) ProbeObjects(ctx context.Context, ids []string) map[string]Probe {
	return probeObjects(ctx, ids, t.probeConcurrency, t.GetObject)
}

func (t *ObjectTransport) BeginWrite() {
	t.session.begin()
	t.log.Debug("begin write")
}

func (t *ObjectTransport) EndWrite() {
	sent := t.session.end()
	t.log.WithField("sent", sent).Debug("end write")
}

func (t *ObjectTransport) CopyObjectAndChildren(_ context.Context, _ string, _ Transport) (string, error) {
	return "", notImplemented(t.name, "copy object and children")
}

func (t *ObjectTransport) SentObjectCount() int {
	return t.session.sent()
}

func (t *ObjectTransport) CachedObjectCount() int {
	return t.session.cached()
}

// CachedObject returns the payload recorded by the last successful save of id
// in this session.
func (t *ObjectTransport) CachedObject(id string) ([]byte, bool) {
	return t.session.lookup(id)
}

func (t *ObjectTransport) Writing() bool {
	return t.session.isWriting()
}

func (t *ObjectTransport) Stats() Stats {
	return Stats{
		Name:            t.name,
		Bucket:          t.conn.Bucket(),
		Writing:         t.session.isWriting(),
		SentObjectCount: t.session.sent(),
		CachedObjects:   t.session.cached(),
	}
}

func (t *ObjectTransport) String() string {
	return fmt.Sprintf("ObjectTransport(name: %s, bucket: %s, objects: %d)", t.name, t.conn.Bucket(), t.session.cached())
}
