package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unispace/unispace/internal/ai"
	"github.com/unispace/unispace/internal/api"
	"github.com/unispace/unispace/internal/models"
)

// fakeRecommender returns a canned result and records the rooms it was given
type fakeRecommender struct {
	result    *models.AISearchResult
	lastQuery string
	roomCount int
}

func (f *fakeRecommender) FindBestRooms(ctx context.Context, query string, rooms []*models.Room) *models.AISearchResult {
	f.lastQuery = query
	f.roomCount = len(rooms)
	return f.result
}

func postSearch(t *testing.T, handler http.Handler, query string) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(api.SearchRequest{Query: query})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/search", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestSearch(t *testing.T) {
	rec := &fakeRecommender{
		result: &models.AISearchResult{
			RecommendedRoomIDs: []string{"deoksong"},
			Reasoning:          "Quiet and well equipped for studying.",
		},
	}
	handler := api.NewSearchHandler(newTestService(t), rec)

	resp := postSearch(t, handler, "조용한 자습 공간")
	assert.Equal(t, http.StatusOK, resp.Code)

	var result models.AISearchResult
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &result))
	assert.Equal(t, []string{"deoksong"}, result.RecommendedRoomIDs)

	assert.Equal(t, "조용한 자습 공간", rec.lastQuery)
	assert.Equal(t, 4, rec.roomCount, "the full catalog is offered to the recommender")
}

func TestSearchWithoutRecommender(t *testing.T) {
	handler := api.NewSearchHandler(newTestService(t), nil)

	resp := postSearch(t, handler, "anything")
	assert.Equal(t, http.StatusOK, resp.Code)

	var result models.AISearchResult
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &result))
	assert.Empty(t, result.RecommendedRoomIDs)
	assert.Equal(t, ai.FallbackReasoning, result.Reasoning)
}

func TestSearchValidation(t *testing.T) {
	handler := api.NewSearchHandler(newTestService(t), &fakeRecommender{})

	t.Run("EmptyQuery", func(t *testing.T) {
		resp := postSearch(t, handler, "   ")
		assert.Equal(t, http.StatusBadRequest, resp.Code)
	})

	t.Run("InvalidBody", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/search", bytes.NewReader([]byte("nope")))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("GetNotAllowed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/search", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
