package daemon

import (
	"net/http"
	"testing"
)

func newTokenDaemonWithObject(t *testing.T) *Daemon {
	t.Helper()
	d := newTestDaemon(t)
	d.SetIPCAuthToken("secret-token")

	rr := serve(d, http.MethodPut, "/v1/objects/abc", []byte("private"), map[string]string{ipcTokenHeader: "secret-token"})
	if rr.Code != http.StatusNoContent {
		t.Fatalf("seed put: got %d want %d body=%s", rr.Code, http.StatusNoContent, rr.Body.String())
	}
	return d
}

var readEndpointCases = []struct {
	name   string
	method string
	path   string
	body   []byte
}{
	{name: "status", method: http.MethodGet, path: "/v1/status"},
	{name: "get object", method: http.MethodGet, path: "/v1/objects/abc"},
	{name: "has objects", method: http.MethodPost, path: "/v1/objects/has", body: []byte(`{"ids":["abc"]}`)},
	{name: "strict has objects", method: http.MethodPost, path: "/v1/objects/has", body: []byte(`{"ids":["abc"],"strict":true}`)},
}

func TestReadEndpointsRejectMissingTokenWhenConfigured(t *testing.T) {
	d := newTokenDaemonWithObject(t)

	for _, tc := range readEndpointCases {
		t.Run(tc.name, func(t *testing.T) {
			for _, token := range []string{"", "wrong-token"} {
				headers := map[string]string{}
				if token != "" {
					headers[ipcTokenHeader] = token
				}
				rr := serve(d, tc.method, tc.path, tc.body, headers)
				if rr.Code != http.StatusUnauthorized {
					t.Fatalf("token=%q status code: got %d want %d body=%s", token, rr.Code, http.StatusUnauthorized, rr.Body.String())
				}
				if code := decodeErrorResponse(t, rr).Code; code != "unauthorized" {
					t.Fatalf("unexpected error code: got %q", code)
				}
				if rr.Body.String() == "private" {
					t.Fatal("payload leaked without a valid token")
				}
			}
		})
	}
}

func TestReadEndpointsAcceptValidTokenWhenConfigured(t *testing.T) {
	d := newTokenDaemonWithObject(t)

	for _, tc := range readEndpointCases {
		t.Run(tc.name, func(t *testing.T) {
			rr := serve(d, tc.method, tc.path, tc.body, map[string]string{ipcTokenHeader: "secret-token"})
			if rr.Code != http.StatusOK {
				t.Fatalf("status code: got %d want %d body=%s", rr.Code, http.StatusOK, rr.Body.String())
			}
		})
	}

	rr := serve(d, http.MethodGet, "/v1/objects/abc", nil, map[string]string{ipcTokenHeader: "secret-token"})
	if got := rr.Body.String(); got != "private" {
		t.Fatalf("payload mismatch: got %q want private", got)
	}
}
