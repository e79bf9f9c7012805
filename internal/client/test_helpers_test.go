package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/xmrest/pkg/xmrest"
)

// widget is the record type used throughout the service tests.
type widget struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (w *widget) GetID() string   { return w.ID }
func (w *widget) SetID(id string) { w.ID = id }

// part has an integer identifier.
type part struct {
	ID    int    `json:"id"`
	Label string `json:"label"`
}

func (p *part) GetID() int   { return p.ID }
func (p *part) SetID(id int) { p.ID = id }

// recordedRequest is one request seen by a recorder.
type recordedRequest struct {
	Method   string
	Path     string
	RawQuery string
	Body     string
	Header   http.Header
}

// recorder is an httptest server that records every request before handing it
// to handler.
type recorder struct {
	mu       sync.Mutex
	requests []recordedRequest
	server   *httptest.Server
}

func newRecorder(t *testing.T, handler http.HandlerFunc) *recorder {
	t.Helper()

	rec := &recorder{}
	rec.server = httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		body, _ := io.ReadAll(request.Body)

		rec.mu.Lock()
		rec.requests = append(rec.requests, recordedRequest{
			Method:   request.Method,
			Path:     request.URL.Path,
			RawQuery: request.URL.RawQuery,
			Body:     string(body),
			Header:   request.Header.Clone(),
		})
		rec.mu.Unlock()

		if handler != nil {
			handler(writer, request)
		}
	}))
	t.Cleanup(rec.server.Close)

	return rec
}

func (r *recorder) URL() string {
	return r.server.URL + "/"
}

func (r *recorder) Requests() []recordedRequest {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]recordedRequest(nil), r.requests...)
}

func (r *recorder) Count(method string) int {
	count := 0

	for _, req := range r.Requests() {
		if req.Method == method {
			count++
		}
	}

	return count
}

// respond returns a handler writing status and body.
func respond(status int, body string) http.HandlerFunc {
	return func(writer http.ResponseWriter, _ *http.Request) {
		writer.Header().Set("Content-Type", "application/json")
		writer.WriteHeader(status)
		_, _ = writer.Write([]byte(body))
	}
}

// widgetStore is an in-memory widgets backend speaking the URL convention:
// GET/POST/PUT on /api/v1/widgets/ and GET/DELETE on /api/v1/widgets/{id}.
type widgetStore struct {
	mu     sync.Mutex
	items  map[string]widget
	order  []string
	nextID int
}

func newWidgetStore(items ...widget) *widgetStore {
	store := &widgetStore{items: make(map[string]widget)}
	for _, item := range items {
		store.items[item.ID] = item
		store.order = append(store.order, item.ID)
	}

	return store
}

func (s *widgetStore) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	const prefix = "/api/v1/widgets/"

	if !strings.HasPrefix(request.URL.Path, prefix) {
		writer.WriteHeader(http.StatusNotFound)

		return
	}

	id := strings.TrimPrefix(request.URL.Path, prefix)

	switch {
	case request.Method == http.MethodGet && id == "":
		list := make([]widget, 0, len(s.order))
		for _, key := range s.order {
			list = append(list, s.items[key])
		}

		_ = json.NewEncoder(writer).Encode(list)
	case request.Method == http.MethodGet:
		item, ok := s.items[id]
		if !ok {
			writer.WriteHeader(http.StatusNotFound)

			return
		}

		_ = json.NewEncoder(writer).Encode(item)
	case request.Method == http.MethodPost && id == "":
		var item widget

		_ = json.NewDecoder(request.Body).Decode(&item)

		if item.ID == "" {
			s.nextID++
			item.ID = "w-" + strconv.Itoa(s.nextID)
		}

		s.items[item.ID] = item
		s.order = append(s.order, item.ID)

		writer.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(writer).Encode(item)
	case request.Method == http.MethodPut && id == "":
		var item widget

		_ = json.NewDecoder(request.Body).Decode(&item)

		if _, ok := s.items[item.ID]; !ok {
			writer.WriteHeader(http.StatusNotFound)

			return
		}

		s.items[item.ID] = item
		_ = json.NewEncoder(writer).Encode(item)
	case request.Method == http.MethodDelete && id != "":
		if _, ok := s.items[id]; !ok {
			writer.WriteHeader(http.StatusNotFound)

			return
		}

		delete(s.items, id)

		for i, key := range s.order {
			if key == id {
				s.order = append(s.order[:i], s.order[i+1:]...)

				break
			}
		}

		writer.WriteHeader(http.StatusNoContent)
	default:
		writer.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *widgetStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.items)
}

func (s *widgetStore) Get(id string) (widget, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[id]

	return item, ok
}

// testSettings returns versioned settings pointing at baseURL.
func testSettings(baseURL string) *xmrest.Settings {
	settings := xmrest.DefaultSettings()
	settings.BaseURL = baseURL

	return settings
}

// newWidgetService creates a widgets service against baseURL.
func newWidgetService(t *testing.T, baseURL string, configure ...func(*xmrest.Config)) *Service[*widget, string] {
	t.Helper()

	config := &xmrest.Config{Settings: testSettings(baseURL)}
	for _, fn := range configure {
		fn(config)
	}

	service, err := New[*widget, string]("widgets", config)
	require.NoError(t, err)

	return service
}

// unreachableURL returns the base URL of a server that has been shut down.
func unreachableURL(t *testing.T) string {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	baseURL := server.URL + "/"
	server.Close()

	return baseURL
}

// TestGetOperation represents a single-record read test case.
type TestGetOperation struct {
	Name         string
	ID           string
	ExpectedPath string
	StatusCode   int
	Response     string
	Want         *widget
	WantKind     xmrest.ErrorKind
	WantRequests int
}

// RunGetTests runs a series of Find test cases, each against its own server.
func RunGetTests(t *testing.T, tests []TestGetOperation) {
	t.Helper()

	for _, testCase := range tests {
		t.Run(testCase.Name, func(t *testing.T) {
			t.Parallel()

			rec := newRecorder(t, func(writer http.ResponseWriter, request *http.Request) {
				assert.Equal(t, testCase.ExpectedPath, request.URL.Path)
				assert.Equal(t, http.MethodGet, request.Method)
				respond(testCase.StatusCode, testCase.Response)(writer, request)
			})

			service := newWidgetService(t, rec.URL())

			item, err := service.Find(context.Background(), testCase.ID)

			if testCase.WantKind != 0 {
				require.Error(t, err)
				assert.Equal(t, testCase.WantKind, xmrest.KindOf(err))
				assert.Nil(t, item)
			} else {
				require.NoError(t, err)
				assert.Equal(t, testCase.Want, item)
			}

			assert.Len(t, rec.Requests(), testCase.WantRequests)
		})
	}
}
