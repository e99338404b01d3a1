package daemon

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"s3transport/internal/config"
	"s3transport/internal/logging"
	"s3transport/internal/transport"

	"github.com/sirupsen/logrus"
)

func newTestTransport(t *testing.T, createBucket bool) *transport.ObjectTransport {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Backend = config.BackendLocal
	cfg.S3.Bucket = "objects"
	cfg.S3.CreateBucket = createBucket

	tr, err := transport.Open(context.Background(), cfg, t.TempDir(), logging.Discard())
	if err != nil {
		t.Fatalf("open transport: %v", err)
	}
	return tr
}

func newTestDaemon(t *testing.T) *Daemon {
	t.Helper()
	return New(newTestTransport(t, true), logging.Discard())
}

// newUnreachableDaemon serves a transport whose bucket was never created, so
// every lookup fails with a backend error rather than not-found.
func newUnreachableDaemon(t *testing.T, logger *logrus.Logger) *Daemon {
	t.Helper()
	if logger == nil {
		logger = logging.Discard()
	}
	return New(newTestTransport(t, false), logger)
}

func serve(d *Daemon, method, target string, body []byte, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	d.Handler().ServeHTTP(rr, req)
	return rr
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	return data
}

func decodeErrorResponse(t *testing.T, rr *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var resp errorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error response: %v body=%s", err, rr.Body.String())
	}
	return resp
}

func decodeStatus(t *testing.T, rr *httptest.ResponseRecorder) statusResponse {
	t.Helper()
	if rr.Code != http.StatusOK {
		t.Fatalf("status code: got %d want %d body=%s", rr.Code, http.StatusOK, rr.Body.String())
	}
	var resp statusResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode status response: %v", err)
	}
	return resp
}
