package daemon

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestParseIPCAuthTokens(t *testing.T) {
	tokens := parseIPCAuthTokens(" current , next-token ,,  ")
	if len(tokens) != 2 {
		t.Fatalf("expected 2 tokens, got %d", len(tokens))
	}
	if tokens[0] != "current" || tokens[1] != "next-token" {
		t.Fatalf("unexpected tokens: %#v", tokens)
	}
}

func TestAuthorizeIPCRequestWithRotatingTokens(t *testing.T) {
	d := newTestDaemon(t)
	d.SetIPCAuthToken("current-token, next-token")

	cases := []struct {
		name       string
		token      string
		authorized bool
	}{
		{name: "current token", token: "current-token", authorized: true},
		{name: "next token", token: "next-token", authorized: true},
		{name: "unknown token", token: "wrong-token", authorized: false},
		{name: "missing token", token: "", authorized: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/v1/status", nil)
			if tc.token != "" {
				req.Header.Set(ipcTokenHeader, tc.token)
			}
			if got := d.authorizeIPCRequest(req); got != tc.authorized {
				t.Fatalf("authorizeIPCRequest() = %v, want %v", got, tc.authorized)
			}
		})
	}
}

func TestAuthorizeIPCRequestNoConfiguredTokenAllowsRequest(t *testing.T) {
	d := newTestDaemon(t)
	req := httptest.NewRequest("GET", "/v1/status", nil)
	if !d.authorizeIPCRequest(req) {
		t.Fatal("expected request to be authorized when no IPC token is configured")
	}
}

func TestWriteEndpointsRequireToken(t *testing.T) {
	d := newTestDaemon(t)
	d.SetIPCAuthToken("secret")

	cases := []struct {
		method string
		target string
	}{
		{method: http.MethodPut, target: "/v1/objects/abc"},
		{method: http.MethodPost, target: "/v1/write/begin"},
		{method: http.MethodPost, target: "/v1/write/end"},
		{method: http.MethodPost, target: "/v1/objects/abc/copy-children"},
	}
	for _, tc := range cases {
		t.Run(tc.method+" "+tc.target, func(t *testing.T) {
			rr := serve(d, tc.method, tc.target, []byte("x"), nil)
			if rr.Code != http.StatusUnauthorized {
				t.Fatalf("status code: got %d want %d", rr.Code, http.StatusUnauthorized)
			}
			if code := decodeErrorResponse(t, rr).Code; code != "unauthorized" {
				t.Fatalf("unexpected error code: got %q", code)
			}
		})
	}

	rr := serve(d, http.MethodPut, "/v1/objects/abc", []byte("x"), map[string]string{ipcTokenHeader: "secret"})
	if rr.Code != http.StatusNoContent {
		t.Fatalf("authorized put: got %d want %d body=%s", rr.Code, http.StatusNoContent, rr.Body.String())
	}
}
