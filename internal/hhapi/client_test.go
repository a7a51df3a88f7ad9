package hhapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func searchHandler(t *testing.T, pages int, perPage int, requests *atomic.Int32) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		page := 0
		fmt.Sscanf(r.URL.Query().Get("page"), "%d", &page)

		items := make([]map[string]any, 0, perPage)
		for i := 0; i < perPage; i++ {
			id := fmt.Sprintf("%d", page*perPage+i)
			items = append(items, map[string]any{
				"id":            id,
				"name":          "Go разработчик",
				"alternate_url": "https://hh.ru/vacancy/" + id,
			})
		}
		resp := SearchPage{
			Items:   items,
			Found:   pages * perPage,
			Pages:   pages,
			Page:    page,
			PerPage: perPage,
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}
}

func TestSearchAll_Paginates(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(searchHandler(t, 3, 2, &requests))
	defer server.Close()

	client := NewClient(
		WithBaseURL(server.URL),
		WithPagination(2, 10),
		WithPageDelay(time.Millisecond),
	)

	vacancies, err := client.SearchAll(context.Background(), SearchParams{Text: "golang"})
	require.NoError(t, err)

	assert.Len(t, vacancies, 6)
	assert.Equal(t, int32(3), requests.Load())
	assert.Equal(t, "0", vacancies[0].ID)
	assert.Equal(t, "https://hh.ru/vacancy/0", vacancies[0].URL)
	assert.Equal(t, "Go разработчик", vacancies[0].RawData["name"])
	assert.False(t, vacancies[0].FetchedAt.IsZero())
}

func TestSearchAll_RespectsMaxPages(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(searchHandler(t, 50, 1, &requests))
	defer server.Close()

	client := NewClient(
		WithBaseURL(server.URL),
		WithPagination(1, 3),
		WithPageDelay(time.Millisecond),
	)

	vacancies, err := client.SearchAll(context.Background(), SearchParams{Text: "golang"})
	require.NoError(t, err)
	assert.Len(t, vacancies, 3)
	assert.Equal(t, int32(3), requests.Load())
}

func TestSearch_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL))

	_, err := client.Search(context.Background(), SearchParams{Text: "golang"}, 0)
	require.ErrorIs(t, err, ErrRateLimited)
}

func TestSearch_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL))

	_, err := client.Search(context.Background(), SearchParams{Text: "golang"}, 0)
	require.Error(t, err)
	assert.True(t, IsServerError(err))
}

func TestSearch_ConnectionError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse connections

	client := NewClient(WithBaseURL(server.URL))

	_, err := client.Search(context.Background(), SearchParams{Text: "golang"}, 0)
	require.ErrorIs(t, err, ErrConnection)
}

func TestSearch_CachesFirstPageOnly(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(searchHandler(t, 5, 1, &requests))
	defer server.Close()

	client := NewClient(
		WithBaseURL(server.URL),
		WithCache(NewMemoryCache(), time.Minute),
	)
	params := SearchParams{Text: "golang", Area: "Москва"}

	first, err := client.Search(context.Background(), params, 0)
	require.NoError(t, err)
	second, err := client.Search(context.Background(), params, 0)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), requests.Load(), "second first-page search should hit the cache")

	_, err = client.Search(context.Background(), params, 1)
	require.NoError(t, err)
	_, err = client.Search(context.Background(), params, 1)
	require.NoError(t, err)
	assert.Equal(t, int32(3), requests.Load(), "later pages are never cached")
}

func TestSearch_DifferentParamsMissCache(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(searchHandler(t, 1, 1, &requests))
	defer server.Close()

	client := NewClient(
		WithBaseURL(server.URL),
		WithCache(NewMemoryCache(), time.Minute),
	)

	_, err := client.Search(context.Background(), SearchParams{Text: "golang"}, 0)
	require.NoError(t, err)
	_, err = client.Search(context.Background(), SearchParams{Text: "python"}, 0)
	require.NoError(t, err)
	assert.Equal(t, int32(2), requests.Load())
}

func TestAreaID(t *testing.T) {
	assert.Equal(t, "1", AreaID("Москва"))
	assert.Equal(t, "2", AreaID("санкт-петербург"))
	assert.Equal(t, "88", AreaID("Казань"))
	assert.Equal(t, "113", AreaID("Remote"))
	assert.Equal(t, "42", AreaID("42"), "numeric IDs pass through")
	assert.Equal(t, "1", AreaID("Неизвестск"), "unknown cities default to Moscow")
	assert.Equal(t, "", AreaID(""))
}

func TestMemoryCache_Expiry(t *testing.T) {
	cache := NewMemoryCache()
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "k", []byte("v"), time.Millisecond))
	time.Sleep(5 * time.Millisecond)

	_, ok, err := cache.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}
