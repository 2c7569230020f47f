package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/unispace/unispace/internal/models"
	"github.com/unispace/unispace/internal/service"
	"github.com/unispace/unispace/internal/utils"
)

// RoomHandler handles HTTP requests for the room catalog
type RoomHandler struct {
	service *service.BookingService
}

// NewRoomHandler creates a new room handler with the given service
func NewRoomHandler(bookingService *service.BookingService) *RoomHandler {
	return &RoomHandler{
		service: bookingService,
	}
}

// ServeHTTP handles HTTP requests for the room catalog
func (h *RoomHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	// Path format: /api/rooms/{roomID}
	pathParts := strings.Split(r.URL.Path, "/")
	var roomID string
	if len(pathParts) >= 4 && pathParts[3] != "" {
		roomID = pathParts[3]
	}

	switch {
	case r.Method == http.MethodGet && roomID == "":
		h.listRooms(w, r)
	case r.Method == http.MethodGet:
		h.getRoom(w, r, roomID)
	default:
		http.NotFound(w, r)
	}
}

// listRooms handles GET /api/rooms, optionally filtered with ?purpose=
func (h *RoomHandler) listRooms(w http.ResponseWriter, r *http.Request) {
	var rooms []*models.Room
	var err error

	if purpose := r.URL.Query().Get("purpose"); purpose != "" {
		rooms, err = h.service.FilterRoomsByPurpose(r.Context(), models.Purpose(purpose))
	} else {
		rooms, err = h.service.ListRooms(r.Context())
	}

	if err != nil {
		log.Printf("Error listing rooms: %v", err)
		http.Error(w, "Error retrieving rooms", http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(rooms)
}

// getRoom handles GET /api/rooms/{roomID}
func (h *RoomHandler) getRoom(w http.ResponseWriter, r *http.Request, roomID string) {
	room, err := h.service.GetRoom(r.Context(), roomID)
	if errors.Is(err, service.ErrNotFound) {
		http.Error(w, "Room not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Printf("Error getting room %s: %v", utils.SanitizeLogString(roomID), err)
		http.Error(w, "Error retrieving room", http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(room)
}
