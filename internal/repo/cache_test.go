package repo

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindmate/triage-client/internal/cache"
	"github.com/mindmate/triage-client/internal/models"
)

type stubCache struct {
	mu    sync.Mutex
	store map[string][]byte
}

func newStubCache() *stubCache {
	return &stubCache{store: make(map[string][]byte)}
}

func (s *stubCache) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	value, ok := s.store[key]
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	return append([]byte(nil), value...), nil
}

func (s *stubCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store[key] = append([]byte(nil), value...)
	return nil
}

func (s *stubCache) Del(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.store, key)
	return nil
}

func (s *stubCache) Close() error { return nil }

func TestListCasesCachesResults(t *testing.T) {
	hits := 0
	client := NewAnalyzerClient("https://analyzer.test", "/analyze", "/logs", time.Second, newStubCache(), time.Minute)
	client.httpClient = newTestClient(func(req *http.Request) (*http.Response, error) {
		hits++
		return jsonResponse(http.StatusOK, `[{"timestamp":"t","name":"A","age":"30","severity":"Low","symptoms":"cough"}]`), nil
	})

	ctx := context.Background()
	first, err := client.ListCases(ctx)
	require.NoError(t, err)
	cached, err := client.ListCases(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, hits, "second load should be served from cache")
	assert.Equal(t, first, cached)
}

func TestSubmitCaseInvalidatesCachedCases(t *testing.T) {
	listHits := 0
	client := NewAnalyzerClient("https://analyzer.test", "/analyze", "/logs", time.Second, newStubCache(), time.Minute)
	client.httpClient = newTestClient(func(req *http.Request) (*http.Response, error) {
		if req.URL.Path == "/logs" {
			listHits++
			return jsonResponse(http.StatusOK, `[]`), nil
		}
		return jsonResponse(http.StatusOK, `{"status":"success","severity":"Low","message":"ok"}`), nil
	})

	ctx := context.Background()
	_, err := client.ListCases(ctx)
	require.NoError(t, err)

	_, err = client.SubmitCase(ctx, models.SubmissionInput{Name: "A", Age: 30, Symptoms: "cough"})
	require.NoError(t, err)

	_, err = client.ListCases(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, listHits)
}

func TestListCasesIgnoresCorruptCacheEntry(t *testing.T) {
	stub := newStubCache()
	require.NoError(t, stub.Set(context.Background(), casesCacheKey, []byte("{not json"), 0))

	client := NewAnalyzerClient("https://analyzer.test", "/analyze", "/logs", time.Second, stub, time.Minute)
	client.httpClient = newTestClient(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `[{"name":"B","age":5,"severity":"High","symptoms":"x"}]`), nil
	})

	records, err := client.ListCases(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "B", records[0].Name)
}
