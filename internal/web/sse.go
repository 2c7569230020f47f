package web

import (
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-contrib/sse"
	"github.com/unispace/unispace/internal/models"
)

// SSEClient represents a connected client receiving server-sent events.
// writeMu serializes writes to the response: heartbeats run on the
// connection goroutine while broadcasts come from callers' goroutines.
type SSEClient struct {
	id             string
	responseWriter http.ResponseWriter
	writeMu        sync.Mutex
	disconnected   chan struct{}
	lastActive     time.Time
}

// send writes one encoded event to the client under its write lock
func (c *SSEClient) send(event sse.Event) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if err := sse.Encode(c.responseWriter, event); err != nil {
		return err
	}
	if f, ok := c.responseWriter.(http.Flusher); ok {
		f.Flush()
	}
	return nil
}

// SSEManager handles server-sent events to clients. Booking changes are
// broadcast as lightweight "update" events; clients re-fetch the partials
// they care about.
type SSEManager struct {
	clients      map[string]*SSEClient
	clientsMutex sync.RWMutex
	done         chan struct{}
	closeOnce    sync.Once
}

// NewSSEManager creates a new server-sent events manager
func NewSSEManager() *SSEManager {
	manager := &SSEManager{
		clients: make(map[string]*SSEClient),
		done:    make(chan struct{}),
	}

	go manager.cleanupStaleClients()

	return manager
}

// Shutdown disconnects all clients and stops the cleanup goroutine
func (sm *SSEManager) Shutdown() {
	sm.closeOnce.Do(func() {
		close(sm.done)

		sm.clientsMutex.Lock()
		defer sm.clientsMutex.Unlock()
		for id, client := range sm.clients {
			close(client.disconnected)
			delete(sm.clients, id)
		}
	})
}

// cleanupStaleClients periodically removes clients that haven't been active
func (sm *SSEManager) cleanupStaleClients() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-sm.done:
			return
		case <-ticker.C:
		}

		threshold := time.Now().Add(-2 * time.Minute)

		sm.clientsMutex.Lock()
		for id, client := range sm.clients {
			select {
			case <-client.disconnected:
				delete(sm.clients, id)
			default:
				if client.lastActive.Before(threshold) {
					close(client.disconnected)
					delete(sm.clients, id)
					log.Printf("Removed stale SSE client: %s", id)
				}
			}
		}
		sm.clientsMutex.Unlock()
	}
}

// ServeHTTP implements the http.Handler interface for SSE connections
func (sm *SSEManager) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache, no-transform")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	if !acceptsEventStream(r) {
		http.Error(w, "This endpoint requires EventStream support", http.StatusNotAcceptable)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	clientID := fmt.Sprintf("%d", time.Now().UnixNano())
	log.Printf("SSE client connected: %s from %s", clientID, r.RemoteAddr)

	client := &SSEClient{
		id:             clientID,
		responseWriter: w,
		disconnected:   make(chan struct{}),
		lastActive:     time.Now(),
	}

	sm.clientsMutex.Lock()
	sm.clients[clientID] = client
	sm.clientsMutex.Unlock()

	defer func() {
		sm.clientsMutex.Lock()
		delete(sm.clients, clientID)
		sm.clientsMutex.Unlock()
		log.Printf("SSE client disconnected: %s", clientID)
	}()

	// Retry directive and connected event prime the stream
	client.writeMu.Lock()
	fmt.Fprintf(w, "retry: 5000\n")
	sse.Encode(w, sse.Event{
		Event: "connected",
		Data:  map[string]string{"id": clientID},
	})
	flusher.Flush()
	client.writeMu.Unlock()

	heartbeat := time.NewTicker(15 * time.Second)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-client.disconnected:
			return
		case <-heartbeat.C:
			client.writeMu.Lock()
			_, err := fmt.Fprintf(w, ": heartbeat %s\n\n", time.Now().Format(time.RFC3339))
			if err == nil {
				flusher.Flush()
			}
			client.writeMu.Unlock()
			if err != nil {
				return
			}

			sm.clientsMutex.Lock()
			client.lastActive = time.Now()
			sm.clientsMutex.Unlock()
		}
	}
}

// NotifyBookingUpdate broadcasts a booking change to all connected clients
func (sm *SSEManager) NotifyBookingUpdate(booking *models.Booking) {
	eventID := fmt.Sprintf("%d", time.Now().UnixNano())

	sm.clientsMutex.RLock()
	clients := make([]*SSEClient, 0, len(sm.clients))
	for _, client := range sm.clients {
		clients = append(clients, client)
	}
	sm.clientsMutex.RUnlock()

	log.Printf("Notifying %d SSE clients about booking %s", len(clients), booking.ID)

	var failed []string
	for _, client := range clients {
		select {
		case <-client.disconnected:
			continue
		default:
		}

		err := client.send(sse.Event{
			Id:    eventID,
			Event: "update",
			Data:  "Update available",
		})
		if err != nil {
			failed = append(failed, client.id)
		}
	}

	if len(failed) > 0 {
		sm.clientsMutex.Lock()
		for _, id := range failed {
			if client, exists := sm.clients[id]; exists {
				close(client.disconnected)
				delete(sm.clients, id)
			}
		}
		sm.clientsMutex.Unlock()
	}
}

// clientCount returns the number of registered clients
func (sm *SSEManager) clientCount() int {
	sm.clientsMutex.RLock()
	defer sm.clientsMutex.RUnlock()
	return len(sm.clients)
}

// acceptsEventStream checks if the client accepts server-sent events
func acceptsEventStream(r *http.Request) bool {
	accepts := r.Header.Get("Accept")
	return accepts == "" || accepts == "*/*" || strings.Contains(accepts, "text/event-stream")
}
