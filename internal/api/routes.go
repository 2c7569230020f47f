// Package api provides the HTTP handlers for the unispace JSON API
package api

import (
	"net/http"

	"github.com/unispace/unispace/internal/service"
)

// SetupRoutes configures the HTTP routes for the API
func SetupRoutes(bookingService *service.BookingService, recommender Recommender) *http.ServeMux {
	mux := http.NewServeMux()

	// Health check endpoints for Kubernetes
	mux.HandleFunc("/health/live", HealthLiveHandler)
	mux.HandleFunc("/health/ready", HealthReadyHandler)

	// Room catalog endpoints
	roomHandler := NewRoomHandler(bookingService)
	mux.Handle("/api/rooms", roomHandler)
	mux.Handle("/api/rooms/", roomHandler)

	// Booking endpoints
	bookingHandler := NewBookingHandler(bookingService)
	mux.Handle("/api/bookings", bookingHandler)
	mux.Handle("/api/bookings/", bookingHandler)

	// AI room search
	mux.Handle("/api/search", NewSearchHandler(bookingService, recommender))

	return mux
}
