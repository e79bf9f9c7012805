//go:build integration

package integration

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
)

// TestConfig holds configuration for integration tests.
type TestConfig struct {
	BaseURL   string
	AuthValue string
	Verbose   bool
}

// LoadTestConfig loads configuration from environment variables. An empty
// BaseURL means the tests run against a FakeBackend.
func LoadTestConfig() *TestConfig {
	return &TestConfig{
		BaseURL:   os.Getenv("XMREST_INTEGRATION_URL"),
		AuthValue: os.Getenv("XMREST_INTEGRATION_AUTH"),
		Verbose:   os.Getenv("XMREST_VERBOSE") == "true",
	}
}

// UsesFakeBackend reports whether no external backend is configured.
func (config *TestConfig) UsesFakeBackend() bool {
	return config.BaseURL == ""
}

// RecordedRequest is one request seen by FakeBackend.
type RecordedRequest struct {
	Method string
	Path   string
	Query  string
	Auth   string
}

// FakeBackend serves any resource under /api/v1/{resource}/ from memory.
// Collections are returned sorted by id. A "page" query selects pages of
// PageSize items, starting at 1.
type FakeBackend struct {
	Server   *httptest.Server
	PageSize int

	mu        sync.Mutex
	resources map[string]map[string]map[string]interface{}
	requests  []RecordedRequest
	failures  []int
	delay     time.Duration
	authValue string
}

// NewFakeBackend starts a backend that is closed when the test ends.
func NewFakeBackend(t *testing.T) *FakeBackend {
	t.Helper()

	backend := &FakeBackend{
		PageSize:  2,
		resources: map[string]map[string]map[string]interface{}{},
	}
	backend.Server = httptest.NewServer(http.HandlerFunc(backend.handle))
	t.Cleanup(backend.Server.Close)

	return backend
}

// URL returns the base URL of the backend.
func (b *FakeBackend) URL() string {
	return b.Server.URL + "/"
}

// FailNext answers the next len(statuses) requests with the given statuses.
func (b *FakeBackend) FailNext(statuses ...int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.failures = append(b.failures, statuses...)
}

// SetDelay delays every response.
func (b *FakeBackend) SetDelay(delay time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.delay = delay
}

// RequireAuth rejects requests whose Authorization header is not value.
func (b *FakeBackend) RequireAuth(value string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.authValue = value
}

// Seed stores items, which must carry an "id", under resource.
func (b *FakeBackend) Seed(resource string, items ...map[string]interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()

	store := b.store(resource)
	for _, item := range items {
		store[item["id"].(string)] = item
	}
}

// Len returns the number of items of resource.
func (b *FakeBackend) Len(resource string) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return len(b.resources[resource])
}

// Requests returns a copy of the requests seen so far.
func (b *FakeBackend) Requests() []RecordedRequest {
	b.mu.Lock()
	defer b.mu.Unlock()

	return append([]RecordedRequest(nil), b.requests...)
}

// Methods returns the method of every request seen so far.
func (b *FakeBackend) Methods() []string {
	requests := b.Requests()

	methods := make([]string, len(requests))
	for i, request := range requests {
		methods[i] = request.Method
	}

	return methods
}

func (b *FakeBackend) store(resource string) map[string]map[string]interface{} {
	store, ok := b.resources[resource]
	if !ok {
		store = map[string]map[string]interface{}{}
		b.resources[resource] = store
	}

	return store
}

func (b *FakeBackend) handle(writer http.ResponseWriter, request *http.Request) {
	b.mu.Lock()

	b.requests = append(b.requests, RecordedRequest{
		Method: request.Method,
		Path:   request.URL.Path,
		Query:  request.URL.RawQuery,
		Auth:   request.Header.Get("Authorization"),
	})

	delay := b.delay
	authValue := b.authValue

	var failure int
	if len(b.failures) > 0 {
		failure, b.failures = b.failures[0], b.failures[1:]
	}

	b.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}

	if failure != 0 {
		writer.WriteHeader(failure)

		return
	}

	if authValue != "" && request.Header.Get("Authorization") != authValue {
		writer.WriteHeader(http.StatusUnauthorized)

		return
	}

	resource, id, ok := splitPath(request.URL.Path)
	if !ok {
		writer.WriteHeader(http.StatusNotFound)

		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	store := b.store(resource)

	switch request.Method {
	case http.MethodGet:
		if id == "" {
			b.writeCollection(writer, store, request.URL.Query().Get("page"))

			return
		}

		item, found := store[id]
		if !found {
			writer.WriteHeader(http.StatusNotFound)

			return
		}

		writeJSON(writer, item)
	case http.MethodPost, http.MethodPut:
		item := map[string]interface{}{}
		if err := json.NewDecoder(request.Body).Decode(&item); err != nil {
			writer.WriteHeader(http.StatusBadRequest)

			return
		}

		itemID, _ := item["id"].(string)
		if itemID == "" {
			itemID = uuid.NewString()
			item["id"] = itemID
		}

		store[itemID] = item
		writeJSON(writer, item)
	case http.MethodDelete:
		if _, found := store[id]; !found {
			writer.WriteHeader(http.StatusNotFound)

			return
		}

		delete(store, id)
		writer.WriteHeader(http.StatusNoContent)
	default:
		writer.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (b *FakeBackend) writeCollection(writer http.ResponseWriter, store map[string]map[string]interface{}, page string) {
	ids := make([]string, 0, len(store))
	for id := range store {
		ids = append(ids, id)
	}

	sort.Strings(ids)

	if page != "" {
		number, err := strconv.Atoi(page)
		if err != nil || number < 1 {
			writer.WriteHeader(http.StatusBadRequest)

			return
		}

		start := min((number-1)*b.PageSize, len(ids))
		end := min(start+b.PageSize, len(ids))
		ids = ids[start:end]
	}

	items := make([]map[string]interface{}, 0, len(ids))
	for _, id := range ids {
		items = append(items, store[id])
	}

	writeJSON(writer, items)
}

// splitPath parses /api/v1/{resource}/{id}.
func splitPath(path string) (resource, id string, ok bool) {
	rest, found := strings.CutPrefix(path, "/api/v1/")
	if !found {
		return "", "", false
	}

	resource, id, _ = strings.Cut(rest, "/")
	if resource == "" {
		return "", "", false
	}

	return resource, id, true
}

func writeJSON(writer http.ResponseWriter, value interface{}) {
	writer.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(writer).Encode(value)
}

// GenerateTestName creates a unique test resource name.
func GenerateTestName(prefix string) string {
	return prefix + "-" + uuid.NewString()[:8]
}

// WaitForCondition waits for a condition to be met with timeout.
func WaitForCondition(t *testing.T, condition func() bool, timeout time.Duration, message string) {
	t.Helper()

	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()

	timeoutChan := time.After(timeout)

	for {
		select {
		case <-ticker.C:
			if condition() {
				return
			}
		case <-timeoutChan:
			t.Fatalf("Timeout waiting for condition: %s", message)
		}
	}
}
