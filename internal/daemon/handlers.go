package daemon

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"s3transport/internal/objectid"
	"s3transport/internal/transport"
)

const (
	maxJSONRequestBodyBytes = 1 << 20
	maxObjectBodyBytes      = 64 << 20
)

func (d *Daemon) newHandler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/status", d.requireIPCAuth(d.handleStatus))
	mux.HandleFunc("/v1/objects/has", d.requireIPCAuth(d.handleHasObjects))
	mux.HandleFunc("/v1/objects/{id}", d.requireIPCAuth(d.handleObject))
	mux.HandleFunc("/v1/objects/{id}/copy-children", d.requireIPCAuth(d.handleCopyChildren))
	mux.HandleFunc("/v1/write/begin", d.requireIPCAuth(d.handleBeginWrite))
	mux.HandleFunc("/v1/write/end", d.requireIPCAuth(d.handleEndWrite))
	return mux
}

func (d *Daemon) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		d.writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	d.writeJSON(w, http.StatusOK, d.snapshot())
}

func (d *Daemon) handleObject(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		d.handleGetObject(w, r)
	case http.MethodPut:
		d.handlePutObject(w, r)
	default:
		d.writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	}
}

func (d *Daemon) handleGetObject(w http.ResponseWriter, r *http.Request) {
	id, ok := d.objectID(w, r)
	if !ok {
		return
	}

	payload, err := d.transport.GetObject(r.Context(), id)
	if err != nil {
		d.writeTransportError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
}

func (d *Daemon) handlePutObject(w http.ResponseWriter, r *http.Request) {
	id, ok := d.objectID(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxObjectBodyBytes)
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			d.writeError(w, http.StatusRequestEntityTooLarge, "payload_too_large", err.Error())
			return
		}
		d.writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	if err := d.transport.SaveObject(r.Context(), id, payload); err != nil {
		d.writeTransportError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (d *Daemon) handleHasObjects(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		d.writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}

	var req hasObjectsRequest
	if err := decodeJSONRequest(w, r, &req); err != nil {
		d.writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if len(req.IDs) == 0 {
		d.writeError(w, http.StatusBadRequest, "invalid_request", "ids is required")
		return
	}

	if !req.Strict {
		d.writeJSON(w, http.StatusOK, hasObjectsResponse{Objects: d.transport.HasObjects(r.Context(), req.IDs)})
		return
	}
	objects, err := d.transport.CheckObjects(r.Context(), req.IDs)
	if err != nil {
		d.writeError(w, http.StatusBadGateway, "transport_error", err.Error())
		return
	}
	d.writeJSON(w, http.StatusOK, hasObjectsResponse{Objects: objects})
}

func (d *Daemon) handleBeginWrite(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		d.writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	d.transport.BeginWrite()
	d.writeJSON(w, http.StatusOK, d.snapshot())
}

func (d *Daemon) handleEndWrite(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		d.writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	d.transport.EndWrite()
	d.writeJSON(w, http.StatusOK, d.snapshot())
}

func (d *Daemon) handleCopyChildren(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		d.writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	id, ok := d.objectID(w, r)
	if !ok {
		return
	}
	if _, err := d.transport.CopyObjectAndChildren(r.Context(), id, nil); err != nil {
		d.writeTransportError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (d *Daemon) objectID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := strings.TrimSpace(r.PathValue("id"))
	if err := objectid.Validate(id); err != nil {
		d.writeError(w, http.StatusBadRequest, "invalid_id", err.Error())
		return "", false
	}
	return id, true
}

func (d *Daemon) writeTransportError(w http.ResponseWriter, err error) {
	switch {
	case transport.IsNotFound(err):
		d.writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, transport.ErrNotImplemented):
		d.writeError(w, http.StatusNotImplemented, "not_implemented", err.Error())
	default:
		d.writeError(w, http.StatusBadGateway, "transport_error", err.Error())
	}
}

func decodeJSONRequest(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONRequestBodyBytes)
	return json.NewDecoder(r.Body).Decode(dst)
}

func (d *Daemon) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (d *Daemon) writeError(w http.ResponseWriter, status int, code string, message string) {
	d.writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}
