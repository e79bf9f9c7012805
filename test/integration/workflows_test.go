//go:build integration

package integration

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/fivetwenty-io/xmrest/pkg/xmclient"
	"github.com/fivetwenty-io/xmrest/pkg/xmrest"
)

type material struct {
	ID             string `json:"id,omitempty"`
	Name           string `json:"name"`
	MaterialNumber string `json:"materialNumber"`
}

func (m *material) GetID() string   { return m.ID }
func (m *material) SetID(id string) { m.ID = id }

// WorkflowSuite drives the data services end to end.
type WorkflowSuite struct {
	suite.Suite

	config   *TestConfig
	backend  *FakeBackend
	settings *xmrest.Settings
	resource string
}

func (s *WorkflowSuite) SetupTest() {
	s.config = LoadTestConfig()
	s.resource = GenerateTestName("materials")
	s.settings = xmrest.DefaultSettings()

	if s.config.UsesFakeBackend() {
		s.backend = NewFakeBackend(s.T())
		s.settings.BaseURL = s.backend.URL()
	} else {
		s.backend = nil
		s.settings.BaseURL = s.config.BaseURL
		s.settings.AuthHeaderValue = s.config.AuthValue
	}
}

func (s *WorkflowSuite) fakeOnly() {
	if s.backend == nil {
		s.T().Skip("requires the fake backend")
	}
}

func (s *WorkflowSuite) service(configure ...func(*xmrest.Config)) xmrest.DataService[*material, string] {
	config := &xmrest.Config{Settings: s.settings}
	for _, fn := range configure {
		fn(config)
	}

	client, err := xmclient.New(config)
	s.Require().NoError(err)

	svc, err := xmclient.Resource[*material, string](client, s.resource)
	s.Require().NoError(err)

	return svc
}

func (s *WorkflowSuite) TestMaterialLifecycle() {
	ctx := context.Background()
	materials := s.service()

	steel := &material{Name: "S235JR", MaterialNumber: "1.0038"}
	_, err := materials.Upsert(ctx, steel)
	s.Require().NoError(err)

	created, err := materials.FindFirst(ctx, func(m *material) bool {
		return m.MaterialNumber == "1.0038"
	}, xmrest.NoPage)
	s.Require().NoError(err)
	s.Require().NotEmpty(created.ID)

	created.Name = "S235JR+AR"
	s.True(materials.SaveItem(ctx, created))

	fetched := materials.GetItem(ctx, created.ID)
	s.Require().NotNil(fetched)
	s.Empty(cmp.Diff(created, fetched))

	count, ok := materials.Count(ctx)
	s.True(ok)
	s.Equal(1, count)

	s.True(materials.DeleteItemByID(ctx, created.ID))
	s.Nil(materials.GetItem(ctx, created.ID))

	_, err = materials.Find(ctx, created.ID)
	s.True(xmrest.IsNotFound(err))

	if s.backend != nil {
		s.Equal([]string{
			http.MethodPost,
			http.MethodGet,
			http.MethodGet, http.MethodPut,
			http.MethodGet,
			http.MethodGet,
			http.MethodDelete,
			http.MethodGet,
			http.MethodGet,
		}, s.backend.Methods())
	}
}

func (s *WorkflowSuite) TestPaging() {
	s.fakeOnly()

	s.backend.Seed(s.resource,
		map[string]interface{}{"id": "a", "name": "A"},
		map[string]interface{}{"id": "b", "name": "B"},
		map[string]interface{}{"id": "c", "name": "C"},
		map[string]interface{}{"id": "d", "name": "D"},
		map[string]interface{}{"id": "e", "name": "E"},
	)

	ctx := context.Background()
	materials := s.service()

	s.Len(materials.GetAllItems(ctx, 1), 2)
	s.Len(materials.GetAllItems(ctx, 3), 1)
	s.Empty(materials.GetAllItems(ctx, 4))
	s.Len(materials.GetAllItems(ctx, xmrest.NoPage), 5)

	first := materials.GetItemWhere(ctx, func(m *material) bool { return m.Name >= "B" }, 2)
	s.Require().NotNil(first)
	s.Equal("c", first.ID)

	requests := s.backend.Requests()
	s.Equal("page=1", requests[0].Query)
	s.Empty(requests[3].Query)
}

func (s *WorkflowSuite) TestRetries() {
	s.fakeOnly()

	ctx := context.Background()

	s.backend.FailNext(http.StatusServiceUnavailable)
	_, err := s.service().FindAll(ctx, xmrest.NoPage)
	s.True(xmrest.IsServer(err))
	s.Equal(http.StatusServiceUnavailable, xmrest.StatusCode(err))

	s.backend.FailNext(http.StatusServiceUnavailable, http.StatusBadGateway)
	retrying := s.service(func(config *xmrest.Config) {
		config.RetryMax = 2
		config.RetryWaitMin = time.Millisecond
		config.RetryWaitMax = 5 * time.Millisecond
	})

	items, err := retrying.FindAll(ctx, xmrest.NoPage)
	s.Require().NoError(err)
	s.Empty(items)
	s.Len(s.backend.Requests(), 4)
}

func (s *WorkflowSuite) TestAuthFollowsLiveSettings() {
	s.fakeOnly()

	s.backend.RequireAuth("Bearer rotated")

	ctx := context.Background()
	materials := s.service()

	_, err := materials.FindAll(ctx, xmrest.NoPage)
	s.True(xmrest.IsServer(err))
	s.Equal(http.StatusUnauthorized, xmrest.StatusCode(err))

	s.settings.AuthHeaderValue = "Bearer rotated"

	_, err = materials.FindAll(ctx, xmrest.NoPage)
	s.Require().NoError(err)

	requests := s.backend.Requests()
	s.Empty(requests[0].Auth)
	s.Equal("Bearer rotated", requests[1].Auth)
}

func (s *WorkflowSuite) TestBatch() {
	ctx := context.Background()
	materials := s.service()

	items := make([]*material, 0, 6)
	for i := range 6 {
		items = append(items, &material{ID: GenerateTestName("m"), Name: "batch", MaterialNumber: string(rune('0' + i))})
	}

	saved := materials.SaveAll(ctx, items)
	s.Require().Len(saved, 6)

	ids := make([]string, 0, len(saved)+1)
	for i, result := range saved {
		s.True(result.Success, "item %d: %v", i, result.Error)
		s.Equal(i, result.Index)
		s.Equal(items[i].ID, result.ID)
		ids = append(ids, result.ID)
	}

	count, ok := materials.CountWhere(ctx, func(m *material) bool { return m.Name == "batch" })
	s.True(ok)
	s.Equal(6, count)

	ids = append(ids, "missing")
	deleted := materials.DeleteAll(ctx, ids)
	s.Require().Len(deleted, 7)

	for _, result := range deleted[:6] {
		s.True(result.Success)
	}

	s.False(deleted[6].Success)
	s.True(xmrest.IsNotFound(deleted[6].Error))

	if s.backend != nil {
		s.Zero(s.backend.Len(s.resource))
	}
}

func (s *WorkflowSuite) TestAsyncOperations() {
	s.fakeOnly()

	s.backend.Seed(s.resource, map[string]interface{}{"id": "a", "name": "A"})
	s.backend.SetDelay(30 * time.Millisecond)

	ctx := context.Background()
	materials := s.service(func(config *xmrest.Config) {
		config.Concurrency = 2
	})

	tasks := make([]*xmrest.Task[[]*material], 0, 4)
	for range 4 {
		tasks = append(tasks, materials.GetAllItemsAsync(ctx, xmrest.NoPage))
	}

	for _, task := range tasks {
		items, err := task.Result()
		s.Require().NoError(err)
		s.Len(items, 1)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()

	_, err := materials.GetItemAsync(ctx, "a").Await(cancelled)
	s.ErrorIs(err, context.Canceled)
}

func (s *WorkflowSuite) TestTimeout() {
	s.fakeOnly()

	s.backend.SetDelay(300 * time.Millisecond)

	materials := s.service(func(config *xmrest.Config) {
		config.Timeout = 30 * time.Millisecond
	})

	start := time.Now()
	_, err := materials.FindAll(context.Background(), xmrest.NoPage)
	s.True(xmrest.IsTransport(err))
	s.Less(time.Since(start), 250*time.Millisecond)
}

func (s *WorkflowSuite) TestUnreachableBackend() {
	s.settings.BaseURL = "http://127.0.0.1:1/"

	ctx := context.Background()
	materials := s.service()

	s.Nil(materials.GetItem(ctx, "a"))
	s.Nil(materials.GetAllItems(ctx, xmrest.NoPage))
	s.False(materials.SaveItem(ctx, &material{Name: "x"}))
	s.False(materials.DeleteItemByID(ctx, "a"))

	_, ok := materials.Count(ctx)
	s.False(ok)

	result := materials.Ping(ctx)
	s.False(result.Succeeded())
	s.NotEmpty(result.Message())
}

func TestWorkflowSuite(t *testing.T) {
	suite.Run(t, new(WorkflowSuite))
}

func TestFakeBackendPaths(t *testing.T) {
	tests := []struct {
		path     string
		resource string
		id       string
		ok       bool
	}{
		{path: "/api/v1/widgets/", resource: "widgets", ok: true},
		{path: "/api/v1/widgets/abc", resource: "widgets", id: "abc", ok: true},
		{path: "/api/v1/", ok: false},
		{path: "/other/widgets/", ok: false},
	}

	for _, testCase := range tests {
		resource, id, ok := splitPath(testCase.path)
		assert.Equal(t, testCase.ok, ok, testCase.path)
		assert.Equal(t, testCase.resource, resource, testCase.path)
		assert.Equal(t, testCase.id, id, testCase.path)
	}

	require.NotEmpty(t, GenerateTestName("x"))
}
