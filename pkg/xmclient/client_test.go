package xmclient_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/xmrest/pkg/xmclient"
	"github.com/fivetwenty-io/xmrest/pkg/xmrest"
)

type widget struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (w *widget) GetID() string   { return w.ID }
func (w *widget) SetID(id string) { w.ID = id }

func TestNew(t *testing.T) {
	t.Parallel()
	t.Run("creates client with config", func(t *testing.T) {
		t.Parallel()

		settings := xmrest.DefaultSettings()
		settings.BaseURL = "https://api.example.com/"

		client, err := xmclient.New(&xmrest.Config{Settings: settings})
		require.NoError(t, err)
		assert.NotNil(t, client)
		assert.Same(t, settings, client.Settings())
	})

	t.Run("requires config", func(t *testing.T) {
		t.Parallel()

		_, err := xmclient.New(nil)
		require.ErrorIs(t, err, xmrest.ErrConfigRequired)
	})

	t.Run("rejects invalid base URL", func(t *testing.T) {
		t.Parallel()

		settings := xmrest.DefaultSettings()
		settings.BaseURL = "ftp://files.example.com/"

		_, err := xmclient.New(&xmrest.Config{Settings: settings})
		require.ErrorIs(t, err, xmrest.ErrInvalidSettings)
	})

	t.Run("nil settings use the global settings", func(t *testing.T) {
		t.Parallel()

		client, err := xmclient.New(&xmrest.Config{})
		require.NoError(t, err)
		assert.Same(t, xmrest.GlobalSettings, client.Settings())
	})
}

func TestNewWithBaseURL(t *testing.T) {
	t.Parallel()

	client, err := xmclient.NewWithBaseURL("https://api.example.com")
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com", client.Settings().BaseURL)
	assert.Empty(t, client.Settings().AuthHeaderValue)
}

func TestNewWithToken(t *testing.T) {
	t.Parallel()

	client, err := xmclient.NewWithToken("https://api.example.com", "test-token")
	require.NoError(t, err)
	assert.Equal(t, "Authorization", client.Settings().AuthHeaderName)
	assert.Equal(t, "Bearer test-token", client.Settings().AuthHeaderValue)
}

func TestNewWithAuthHeader(t *testing.T) {
	t.Parallel()

	client, err := xmclient.NewWithAuthHeader("https://api.example.com", "X-Api-Key", "k")
	require.NoError(t, err)
	assert.Equal(t, "X-Api-Key", client.Settings().AuthHeaderName)
	assert.Equal(t, "k", client.Settings().AuthHeaderValue)
}

func TestResource(t *testing.T) {
	t.Parallel()

	client, err := xmclient.NewWithBaseURL("http://host/")
	require.NoError(t, err)

	widgets, err := xmclient.Resource[*widget, string](client, "widgets")
	require.NoError(t, err)
	assert.Equal(t, "widgets", widgets.Resource())
	assert.Equal(t, "http://host/api/v1/widgets/abc", widgets.URL("abc"))

	_, err = xmclient.Resource[*widget, string](client, "")
	require.ErrorIs(t, err, xmrest.ErrResourceRequired)

	assert.Panics(t, func() {
		_ = xmclient.MustResource[*widget, string](client, "")
	})
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestClient_EndToEnd(t *testing.T) {
	t.Parallel()

	var (
		mu    sync.Mutex
		items = map[string]widget{}
	)

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "Bearer secret", request.Header.Get("Authorization"))
		assert.NotEmpty(t, request.Header.Get(xmrest.RequestIDHeader))

		mu.Lock()
		defer mu.Unlock()

		switch {
		case request.Method == http.MethodGet && request.URL.Path == "/api/v1/widgets/":
			list := make([]widget, 0, len(items))
			for _, item := range items {
				list = append(list, item)
			}

			_ = json.NewEncoder(writer).Encode(list)
		case request.Method == http.MethodGet:
			item, ok := items[request.URL.Path[len("/api/v1/widgets/"):]]
			if !ok {
				writer.WriteHeader(http.StatusNotFound)

				return
			}

			_ = json.NewEncoder(writer).Encode(item)
		case request.Method == http.MethodPost, request.Method == http.MethodPut:
			var item widget

			_ = json.NewDecoder(request.Body).Decode(&item)
			items[item.ID] = item
		default:
			writer.WriteHeader(http.StatusMethodNotAllowed)
		}
	}))
	defer server.Close()

	settings := xmrest.DefaultSettings()
	settings.BaseURL = server.URL
	settings.AuthHeaderValue = "Bearer secret"

	chain := xmrest.NewInterceptorChain()
	chain.AddRequestInterceptor(xmrest.RequestIDInterceptor())

	client, err := xmclient.New(&xmrest.Config{Settings: settings, Interceptors: chain})
	require.NoError(t, err)

	widgets := xmclient.MustResource[*widget, string](client, "widgets")
	ctx := context.Background()

	require.True(t, widgets.SaveItem(ctx, &widget{ID: "a", Name: "first"}))
	require.True(t, widgets.SaveItem(ctx, &widget{ID: "a", Name: "second"}))

	got := widgets.GetItem(ctx, "a")
	require.NotNil(t, got)
	assert.Equal(t, "second", got.Name)

	count, ok := widgets.Count(ctx)
	assert.True(t, ok)
	assert.Equal(t, 1, count)

	assert.False(t, widgets.DeleteItemByID(ctx, "a"))
}
