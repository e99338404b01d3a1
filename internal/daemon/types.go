package daemon

const DefaultIPCAddress = "127.0.0.1:41830"

// IPCTokenEnv holds the comma-separated IPC tokens; required for remote listeners.
const IPCTokenEnv = "S3TRANSPORT_IPC_TOKEN"

const (
	stateIdle    = "idle"
	stateWriting = "writing"
)

type statusResponse struct {
	Name            string `json:"name"`
	Bucket          string `json:"bucket,omitempty"`
	State           string `json:"state"`
	SentObjectCount int    `json:"sent_object_count"`
	CachedObjects   int    `json:"cached_objects"`
}

type hasObjectsRequest struct {
	IDs    []string `json:"ids"`
	Strict bool     `json:"strict,omitempty"`
}

type hasObjectsResponse struct {
	Objects map[string]bool `json:"objects"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
