package rackspace

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/Appdynamics/rackspace-monitoring-extension/internal/logger"
)

const identityPath = "/identity/v2.0"

// testLogger creates a logger for testing (error level to suppress test output)
func testLogger() *logger.Logger {
	return logger.New("error")
}

func loadFixture(t *testing.T, filename string) []byte {
	t.Helper()

	path := filepath.Join("testdata", filename)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read test fixture %s: %v", filename, err)
	}
	return data
}

// fakeAPI serves the identity endpoint and every resource endpoint the
// identity fixture's catalog points at, all from one httptest server.
type fakeAPI struct {
	*httptest.Server
	t *testing.T

	mu       sync.Mutex
	routes   map[string]string // request path -> fixture file
	failures map[string]int    // request path -> status code to answer with
	hooks    map[string]func() // request path -> called before answering
	requests map[string]int
	tokens   map[string]string // request path -> X-Auth-Token seen
	queries  map[string]string // request path -> raw query seen
}

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()

	api := &fakeAPI{
		t: t,
		routes: map[string]string{
			identityPath + "/tokens":                "identity.json",
			"/firstgen/v1.0/123456/servers/detail":  "firstgen_servers.json",
			"/firstgen/v1.0/123456/flavors/detail":  "firstgen_flavors.json",
			"/nextgen/dfw/v2/123456/servers/detail": "nextgen_servers.json",
			"/nextgen/dfw/v2/123456/flavors/detail": "nextgen_flavors.json",
			"/nextgen/dfw/v2/123456/limits":         "limits.json",
			"/nextgen/ord/v2/123456/servers/detail": "nextgen_servers.json",
			"/nextgen/ord/v2/123456/flavors/detail": "nextgen_flavors.json",
			"/files/dfw/v1/MossoCloudFS_abc":        "containers.json",
			"/databases/dfw/v1.0/123456/instances":  "instances.json",
			"/lbaas/dfw/v1.0/123456/loadbalancers":  "loadbalancers.json",
		},
		failures: make(map[string]int),
		hooks:    make(map[string]func()),
		requests: make(map[string]int),
		tokens:   make(map[string]string),
		queries:  make(map[string]string),
	}
	api.Server = httptest.NewServer(http.HandlerFunc(api.serve))
	t.Cleanup(api.Close)
	return api
}

func (a *fakeAPI) serve(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	a.requests[r.URL.Path]++
	a.tokens[r.URL.Path] = r.Header.Get("X-Auth-Token")
	a.queries[r.URL.Path] = r.URL.RawQuery
	fixture, ok := a.routes[r.URL.Path]
	status, failing := a.failures[r.URL.Path]
	hook := a.hooks[r.URL.Path]
	a.mu.Unlock()

	if hook != nil {
		hook()
	}

	w.Header().Set("Content-Type", "application/json")
	switch {
	case failing:
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"serviceUnavailable":{"message":"The service is currently unavailable","code":503}}`))
	case !ok:
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"itemNotFound":{"message":"Resource not found","code":404}}`))
	default:
		body := strings.ReplaceAll(string(loadFixture(a.t, fixture)), "{{BASE}}", a.URL)
		_, _ = w.Write([]byte(body))
	}
}

func (a *fakeAPI) identityURL() string {
	return a.URL + identityPath
}

func (a *fakeAPI) fail(path string, status int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.failures[path] = status
}

func (a *fakeAPI) route(path, fixture string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.routes[path] = fixture
}

func (a *fakeAPI) onRequest(path string, hook func()) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.hooks[path] = hook
}

func (a *fakeAPI) requestCount(path string) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.requests[path]
}

func (a *fakeAPI) tokenFor(path string) string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.tokens[path]
}

func (a *fakeAPI) queryFor(path string) string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.queries[path]
}

// serveJSON answers every request with body and returns the server URL
func serveJSON(t *testing.T, body string) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}

func newTestClient() *Client {
	return NewClient(ClientOptions{UserAgent: "rackspace-exporter/test"})
}
