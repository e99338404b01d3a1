package transport

import (
	"bytes"
	"sync"
)

// session holds the per-instance bookkeeping shared by every transport: the
// objects saved so far and the count sent since the last BeginWrite.
type session struct {
	mu              sync.Mutex
	objects         map[string][]byte
	sentObjectCount int
	writing         bool
}

func (s *session) record(id string, payload []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.objects == nil {
		s.objects = make(map[string][]byte)
	}
	s.objects[id] = bytes.Clone(payload)
	s.sentObjectCount++
}

func (s *session) lookup(id string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	payload, ok := s.objects[id]
	if !ok {
		return nil, false
	}
	return bytes.Clone(payload), true
}

func (s *session) begin() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sentObjectCount = 0
	s.writing = true
}

// end returns the count sent during the batch before resetting it.
func (s *session) end() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	sent := s.sentObjectCount
	s.sentObjectCount = 0
	s.writing = false
	return sent
}

func (s *session) sent() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sentObjectCount
}

func (s *session) cached() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}

func (s *session) isWriting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writing
}
