// Package web provides the server-rendered booking UI
package web

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/unispace/unispace/internal/ai"
	"github.com/unispace/unispace/internal/models"
	"github.com/unispace/unispace/internal/service"
	"github.com/unispace/unispace/internal/utils"
)

const sessionCookieName = "unispace_session"

// Recommender finds rooms matching a natural-language query. It never
// fails: unavailable backends yield the empty fallback result.
type Recommender interface {
	FindBestRooms(ctx context.Context, query string, rooms []*models.Room) *models.AISearchResult
}

// Handler manages web UI requests
type Handler struct {
	bookingService *service.BookingService
	recommender    Recommender
	templates      *template.Template
	sseManager     *SSEManager
	dialogs        *dialogStore
	staticDir      string
}

// NewHandler creates a new web UI handler. A nil recommender is allowed;
// searches then always return the fallback result.
func NewHandler(bookingService *service.BookingService, recommender Recommender, templatesDir, staticDir string) (*Handler, error) {
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"formatTimestamp": formatTimestamp,
	}).ParseGlob(filepath.Join(templatesDir, "*.html"))

	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	return &Handler{
		bookingService: bookingService,
		recommender:    recommender,
		templates:      tmpl,
		sseManager:     NewSSEManager(),
		dialogs:        newDialogStore(),
		staticDir:      staticDir,
	}, nil
}

// formatTimestamp is a template helper function to format booking timestamps
func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02 15:04")
}

// SetupRoutes registers web UI routes on the given mux
func (h *Handler) SetupRoutes(mux *http.ServeMux) {
	fileServer := http.FileServer(http.Dir(h.staticDir))
	mux.Handle("/static/", http.StripPrefix("/static/", fileServer))

	mux.Handle("/events", h.sseManager)

	mux.HandleFunc("/", h.handleIndex)

	// htmx partial endpoints
	mux.HandleFunc("/partial/rooms", h.HandlePartialRooms)
	mux.HandleFunc("/partial/bookings", h.HandlePartialBookings)
	mux.HandleFunc("/partial/dialog", h.HandlePartialDialog)

	// AI room search
	mux.HandleFunc("/search", h.handleSearch)

	// Booking dialog actions
	mux.HandleFunc("/booking/open", h.handleDialogOpen)
	mux.HandleFunc("/booking/slot", h.handleDialogSlot)
	mux.HandleFunc("/booking/back", h.handleDialogBack)
	mux.HandleFunc("/booking/confirm", h.handleDialogConfirm)
	mux.HandleFunc("/booking/close", h.handleDialogClose)
}

// NotifyBookingUpdate sends an update notification to all SSE clients.
// This should be called whenever a booking is created or cancelled.
func (h *Handler) NotifyBookingUpdate(booking *models.Booking) {
	h.sseManager.NotifyBookingUpdate(booking)
}

// Shutdown gracefully shuts down the web handler and its SSE manager
func (h *Handler) Shutdown() {
	h.sseManager.Shutdown()
}

// sessionID returns the browser session ID, setting the cookie on first use
func (h *Handler) sessionID(w http.ResponseWriter, r *http.Request) string {
	if cookie, err := r.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
	})
	return id
}

// indexViewModel is the data for the main page
type indexViewModel struct {
	Purposes        []models.Purpose
	SelectedPurpose models.Purpose
	Rooms           []service.RoomStatusData
	Bookings        []*models.Booking
	LastUpdated     string
	CurrentYear     int
}

// handleIndex renders the main page
func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	purpose := models.Purpose(r.URL.Query().Get("purpose"))

	var rooms []service.RoomStatusData
	var err error
	if purpose.IsValid() {
		rooms, err = h.bookingService.GetRoomStatusData(r.Context(), purpose)
	}
	if err != nil {
		log.Printf("Error getting room data: %v", err)
		http.Error(w, "Failed to get room data", http.StatusInternalServerError)
		return
	}

	bookings, err := h.bookingService.ListBookings(r.Context())
	if err != nil {
		log.Printf("Error getting booking data: %v", err)
		http.Error(w, "Failed to get booking data", http.StatusInternalServerError)
		return
	}

	viewModel := indexViewModel{
		Purposes:        models.Purposes,
		SelectedPurpose: purpose,
		Rooms:           rooms,
		Bookings:        bookings,
		LastUpdated:     time.Now().Format("2006-01-02 15:04:05"),
		CurrentYear:     time.Now().Year(),
	}

	if err := h.templates.ExecuteTemplate(w, "layout.html", viewModel); err != nil {
		log.Printf("Error rendering template: %v", err)
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
	}
}

// HandlePartialRooms renders the room card list for htmx updates
func (h *Handler) HandlePartialRooms(w http.ResponseWriter, r *http.Request) {
	purpose := models.Purpose(r.URL.Query().Get("purpose"))

	var rooms []service.RoomStatusData
	var err error
	if purpose.IsValid() {
		rooms, err = h.bookingService.GetRoomStatusData(r.Context(), purpose)
	}
	if err != nil {
		log.Printf("Error getting room data: %v", err)
		http.Error(w, "Failed to get room data", http.StatusInternalServerError)
		return
	}

	viewModel := struct {
		SelectedPurpose models.Purpose
		Rooms           []service.RoomStatusData
	}{purpose, rooms}

	if err := h.templates.ExecuteTemplate(w, "room_list", viewModel); err != nil {
		log.Printf("Error rendering template: %v", err)
		http.Error(w, "Failed to render room list", http.StatusInternalServerError)
	}
}

// HandlePartialBookings renders the booking list for htmx updates
func (h *Handler) HandlePartialBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.bookingService.ListBookings(r.Context())
	if err != nil {
		log.Printf("Error getting booking data: %v", err)
		http.Error(w, "Failed to get booking data", http.StatusInternalServerError)
		return
	}

	viewModel := struct {
		Bookings []*models.Booking
	}{bookings}

	if err := h.templates.ExecuteTemplate(w, "booking_list", viewModel); err != nil {
		log.Printf("Error rendering template: %v", err)
		http.Error(w, "Failed to render booking list", http.StatusInternalServerError)
	}
}

// dialogViewModel is the data for the booking dialog partial
type dialogViewModel struct {
	Dialog *Dialog
	Room   *models.Room
	Error  string
}

// renderDialog renders the dialog partial for the session's open dialog
func (h *Handler) renderDialog(w http.ResponseWriter, r *http.Request, dialog *Dialog, errMsg string) {
	var room *models.Room
	if dialog != nil {
		var err error
		room, err = h.bookingService.GetRoom(r.Context(), dialog.RoomID)
		if err != nil {
			log.Printf("Error getting room for dialog: %v", err)
			http.Error(w, "Failed to get room data", http.StatusInternalServerError)
			return
		}
	}

	viewModel := dialogViewModel{Dialog: dialog, Room: room, Error: errMsg}
	if err := h.templates.ExecuteTemplate(w, "dialog", viewModel); err != nil {
		log.Printf("Error rendering dialog: %v", err)
		http.Error(w, "Failed to render dialog", http.StatusInternalServerError)
	}
}

// HandlePartialDialog renders the current dialog state
func (h *Handler) HandlePartialDialog(w http.ResponseWriter, r *http.Request) {
	h.renderDialog(w, r, h.dialogs.get(h.sessionID(w, r)), "")
}

// handleDialogOpen opens a booking dialog for a room. Opening always resets
// to slot selection with a party size of one.
func (h *Handler) handleDialogOpen(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	roomID := r.FormValue("room")
	purpose := models.Purpose(r.FormValue("purpose"))

	if _, err := h.bookingService.GetRoom(r.Context(), roomID); err != nil {
		log.Printf("Cannot open dialog for room %s: %v", utils.SanitizeLogString(roomID), err)
		http.Error(w, "Room not found", http.StatusNotFound)
		return
	}

	dialog := NewDialog(roomID, purpose)
	h.dialogs.open(h.sessionID(w, r), dialog)
	h.renderDialog(w, r, dialog, "")
}

// handleDialogSlot selects a slot and advances to detail entry
func (h *Handler) handleDialogSlot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	sessionID := h.sessionID(w, r)
	dialog := h.dialogs.get(sessionID)
	if dialog == nil {
		http.Error(w, "No open dialog", http.StatusConflict)
		return
	}

	room, err := h.bookingService.GetRoom(r.Context(), dialog.RoomID)
	if err != nil {
		log.Printf("Error getting room for dialog: %v", err)
		http.Error(w, "Failed to get room data", http.StatusInternalServerError)
		return
	}

	slot := room.FindSlot(r.FormValue("slot"))
	if slot == nil {
		h.renderDialog(w, r, dialog, "선택한 시간이 존재하지 않습니다.")
		return
	}

	if err := dialog.SelectSlot(slot); err != nil {
		h.renderDialog(w, r, dialog, "이미 예약된 시간입니다.")
		return
	}

	h.renderDialog(w, r, dialog, "")
}

// handleDialogBack returns from detail entry to slot selection
func (h *Handler) handleDialogBack(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	dialog := h.dialogs.get(h.sessionID(w, r))
	if dialog == nil {
		http.Error(w, "No open dialog", http.StatusConflict)
		return
	}

	if err := dialog.Back(); err != nil {
		log.Printf("Ignoring invalid back action: %v", err)
	}
	h.renderDialog(w, r, dialog, "")
}

// handleDialogConfirm books the selected slot and closes the dialog
func (h *Handler) handleDialogConfirm(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	sessionID := h.sessionID(w, r)
	dialog := h.dialogs.get(sessionID)
	if dialog == nil {
		http.Error(w, "No open dialog", http.StatusConflict)
		return
	}
	if dialog.Step != StepDetailEntry {
		h.renderDialog(w, r, dialog, "먼저 시간을 선택해주세요.")
		return
	}

	partySize, err := strconv.Atoi(r.FormValue("partySize"))
	if err != nil {
		h.renderDialog(w, r, dialog, "인원 수가 올바르지 않습니다.")
		return
	}
	if err := dialog.SetPartySize(partySize); err != nil {
		log.Printf("Ignoring party size update: %v", err)
	}

	_, err = h.bookingService.BookSlot(r.Context(), dialog.RoomID, dialog.SlotID, dialog.Purpose, dialog.PartySize)
	switch {
	case errors.Is(err, service.ErrSlotConflict):
		// Someone else took the slot; send the user back to pick again
		dialog.Back()
		h.renderDialog(w, r, dialog, "이미 예약된 시간입니다. 다른 시간을 선택해주세요.")
		return
	case errors.Is(err, service.ErrPartySize):
		h.renderDialog(w, r, dialog, "인원 수가 허용 범위를 벗어났습니다.")
		return
	case err != nil:
		log.Printf("Error confirming booking: %v", err)
		http.Error(w, "Failed to create booking", http.StatusInternalServerError)
		return
	}

	h.dialogs.close(sessionID)
	h.renderDialog(w, r, nil, "")
}

// searchViewModel is the data for the AI search results partial
type searchViewModel struct {
	Query     string
	Reasoning string
	Rooms     []service.RoomStatusData
	Error     string
}

// handleSearch runs the natural-language room search and renders the
// results partial. An empty recommendation list shows the whole catalog, so
// the fallback result degrades to "all rooms" exactly like the REST search.
func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	query := strings.TrimSpace(r.FormValue("query"))
	if query == "" {
		h.renderSearch(w, searchViewModel{Error: "검색어를 입력해주세요."})
		return
	}

	rooms, err := h.bookingService.ListRooms(r.Context())
	if err != nil {
		log.Printf("Error listing rooms for search: %v", err)
		http.Error(w, "Failed to get room data", http.StatusInternalServerError)
		return
	}

	var result *models.AISearchResult
	if h.recommender != nil {
		result = h.recommender.FindBestRooms(r.Context(), query, rooms)
	} else {
		log.Printf("AI search disabled, returning fallback for query %q", utils.SanitizeLogString(query))
		result = &models.AISearchResult{
			RecommendedRoomIDs: []string{},
			Reasoning:          ai.FallbackReasoning,
		}
	}

	recommended := rooms
	if len(result.RecommendedRoomIDs) > 0 {
		byID := make(map[string]*models.Room, len(rooms))
		for _, room := range rooms {
			byID[room.ID] = room
		}

		recommended = make([]*models.Room, 0, len(result.RecommendedRoomIDs))
		for _, id := range result.RecommendedRoomIDs {
			if room, ok := byID[id]; ok {
				recommended = append(recommended, room)
			}
		}
	}

	statuses := make([]service.RoomStatusData, 0, len(recommended))
	for _, room := range recommended {
		statuses = append(statuses, service.RoomStatusData{
			Room:      room,
			FreeSlots: len(room.Slots) - room.BookedSlotCount(),
		})
	}

	h.renderSearch(w, searchViewModel{
		Query:     query,
		Reasoning: result.Reasoning,
		Rooms:     statuses,
	})
}

// renderSearch renders the search results partial
func (h *Handler) renderSearch(w http.ResponseWriter, viewModel searchViewModel) {
	if err := h.templates.ExecuteTemplate(w, "search_results", viewModel); err != nil {
		log.Printf("Error rendering search results: %v", err)
		http.Error(w, "Failed to render search results", http.StatusInternalServerError)
	}
}

// handleDialogClose abandons the dialog with no booking-store effect
func (h *Handler) handleDialogClose(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	h.dialogs.close(h.sessionID(w, r))
	h.renderDialog(w, r, nil, "")
}
