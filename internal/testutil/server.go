// Package testutil provides testing utilities for modresolve.
package testutil

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// ModuleServer is a static file server for module resolution tests.
// It serves a fixed set of files, answers 404 for anything else, and
// records every requested path in order.
type ModuleServer struct {
	*httptest.Server

	mu       sync.Mutex
	files    map[string]string
	statuses map[string]int
	requests []string
}

// NewModuleServer starts a ModuleServer serving files keyed by URL path.
// The server is closed when the test finishes.
func NewModuleServer(t *testing.T, files map[string]string) *ModuleServer {
	t.Helper()

	s := &ModuleServer{
		files:    make(map[string]string, len(files)),
		statuses: make(map[string]int),
	}
	for path, body := range files {
		s.files[path] = body
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Close)
	return s
}

func (s *ModuleServer) serve(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.requests = append(s.requests, r.URL.Path)
	status, hasStatus := s.statuses[r.URL.Path]
	body, ok := s.files[r.URL.Path]
	s.mu.Unlock()

	switch {
	case hasStatus:
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	case ok:
		_, _ = w.Write([]byte(body))
	default:
		http.NotFound(w, r)
	}
}

// SetStatus makes the server answer path with status, serving the file body if any.
func (s *ModuleServer) SetStatus(path string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statuses[path] = status
}

// Requests returns the paths requested so far.
func (s *ModuleServer) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}

// Reset forgets recorded requests.
func (s *ModuleServer) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = nil
}

// URLFor returns the absolute URL of path on this server.
func (s *ModuleServer) URLFor(path string) string {
	return s.URL + path
}

// AssertRequests fails the test when the recorded request paths differ from want.
func (s *ModuleServer) AssertRequests(t *testing.T, want ...string) {
	t.Helper()
	got := s.Requests()
	if len(want) == 0 && len(got) == 0 {
		return
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("requests mismatch (-want +got):\n%s", diff)
	}
}
