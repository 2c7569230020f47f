package api

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/unispace/unispace/internal/ai"
	"github.com/unispace/unispace/internal/models"
	"github.com/unispace/unispace/internal/service"
	"github.com/unispace/unispace/internal/utils"
)

// Recommender finds rooms matching a natural-language query. It never
// fails: unavailable backends yield the empty fallback result.
type Recommender interface {
	FindBestRooms(ctx context.Context, query string, rooms []*models.Room) *models.AISearchResult
}

// SearchRequest is the payload for the AI room search
type SearchRequest struct {
	Query string `json:"query"`
}

// SearchHandler handles natural-language room search requests
type SearchHandler struct {
	service     *service.BookingService
	recommender Recommender
}

// NewSearchHandler creates a new search handler. A nil recommender is
// allowed; searches then always return the fallback result.
func NewSearchHandler(bookingService *service.BookingService, recommender Recommender) *SearchHandler {
	return &SearchHandler{
		service:     bookingService,
		recommender: recommender,
	}
}

// ServeHTTP handles POST /api/search
func (h *SearchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("Error decoding search request: %v", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if strings.TrimSpace(req.Query) == "" {
		http.Error(w, "Query is required", http.StatusBadRequest)
		return
	}

	rooms, err := h.service.ListRooms(r.Context())
	if err != nil {
		log.Printf("Error listing rooms for search: %v", err)
		http.Error(w, "Error retrieving rooms", http.StatusInternalServerError)
		return
	}

	var result *models.AISearchResult
	if h.recommender != nil {
		result = h.recommender.FindBestRooms(r.Context(), req.Query, rooms)
	} else {
		log.Printf("AI search disabled, returning fallback for query %q", utils.SanitizeLogString(req.Query))
		result = &models.AISearchResult{
			RecommendedRoomIDs: []string{},
			Reasoning:          ai.FallbackReasoning,
		}
	}

	json.NewEncoder(w).Encode(result)
}
