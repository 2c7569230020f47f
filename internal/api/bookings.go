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

// BookingRequest is the payload for creating a booking
type BookingRequest struct {
	RoomID    string `json:"roomId"`
	SlotID    string `json:"slotId"`
	Purpose   string `json:"purpose"`
	PartySize int    `json:"partySize"`
}

// BookingHandler handles HTTP requests for bookings
type BookingHandler struct {
	service *service.BookingService
}

// NewBookingHandler creates a new booking handler with the given service
func NewBookingHandler(bookingService *service.BookingService) *BookingHandler {
	return &BookingHandler{
		service: bookingService,
	}
}

// ServeHTTP handles HTTP requests for bookings
func (h *BookingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	// Path format: /api/bookings/{bookingID}
	pathParts := strings.Split(r.URL.Path, "/")
	var bookingID string
	if len(pathParts) >= 4 && pathParts[3] != "" {
		bookingID = pathParts[3]
	}

	switch {
	case r.Method == http.MethodGet && bookingID == "":
		h.listBookings(w, r)
	case r.Method == http.MethodPost && bookingID == "":
		h.createBooking(w, r)
	case r.Method == http.MethodDelete && bookingID != "":
		h.cancelBooking(w, r, bookingID)
	default:
		http.NotFound(w, r)
	}
}

// listBookings handles GET /api/bookings, newest first
func (h *BookingHandler) listBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.service.ListBookings(r.Context())
	if err != nil {
		log.Printf("Error listing bookings: %v", err)
		http.Error(w, "Error retrieving bookings", http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(bookings)
}

// createBooking handles POST /api/bookings
func (h *BookingHandler) createBooking(w http.ResponseWriter, r *http.Request) {
	var req BookingRequest

	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		log.Printf("Error decoding booking request: %v", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if req.RoomID == "" || req.SlotID == "" {
		http.Error(w, "Room ID and slot ID are required", http.StatusBadRequest)
		return
	}

	booking, err := h.service.BookSlot(r.Context(), req.RoomID, req.SlotID, models.Purpose(req.Purpose), req.PartySize)
	switch {
	case errors.Is(err, service.ErrNotFound):
		http.Error(w, "Room or slot not found", http.StatusNotFound)
		return
	case errors.Is(err, service.ErrSlotConflict):
		http.Error(w, "Slot is already booked", http.StatusConflict)
		return
	case errors.Is(err, service.ErrPartySize):
		http.Error(w, "Party size out of range", http.StatusUnprocessableEntity)
		return
	case err != nil:
		log.Printf("Error creating booking: %v", err)
		http.Error(w, "Error creating booking", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(booking)
}

// cancelBooking handles DELETE /api/bookings/{bookingID}. Cancelling an
// unknown booking succeeds without any state change.
func (h *BookingHandler) cancelBooking(w http.ResponseWriter, r *http.Request, bookingID string) {
	if err := h.service.CancelBooking(r.Context(), bookingID); err != nil {
		log.Printf("Error cancelling booking %s: %v", utils.SanitizeLogString(bookingID), err)
		http.Error(w, "Error cancelling booking", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
