package web

import (
	"errors"
	"sync"

	"github.com/unispace/unispace/internal/models"
)

// Dialog errors
var (
	// ErrSlotUnavailable is returned when selecting a booked slot
	ErrSlotUnavailable = errors.New("slot is not available")
	// ErrWrongStep is returned when an action does not apply to the
	// dialog's current step
	ErrWrongStep = errors.New("action not valid in current dialog step")
)

// DialogStep is the current step of the booking dialog
type DialogStep int

const (
	// StepSlotSelection is the initial step: the user picks a free slot
	StepSlotSelection DialogStep = iota
	// StepDetailEntry follows slot selection: the user picks a party size
	// and confirms
	StepDetailEntry
)

// String returns the string representation of a dialog step
func (s DialogStep) String() string {
	return [...]string{"slot_selection", "detail_entry"}[s]
}

// Dialog is the explicit state of one booking attempt. It only tracks the
// in-progress selection; nothing touches the booking store until the
// confirm action.
type Dialog struct {
	RoomID    string
	Purpose   models.Purpose
	Step      DialogStep
	SlotID    string
	SlotTime  string
	PartySize int
}

// NewDialog opens a booking dialog for the given room. Dialogs always start
// at slot selection with a party size of one.
func NewDialog(roomID string, purpose models.Purpose) *Dialog {
	return &Dialog{
		RoomID:    roomID,
		Purpose:   purpose,
		Step:      StepSlotSelection,
		PartySize: 1,
	}
}

// SelectSlot moves the dialog to detail entry. Booked slots cannot be
// selected.
func (d *Dialog) SelectSlot(slot *models.TimeSlot) error {
	if d.Step != StepSlotSelection {
		return ErrWrongStep
	}
	if slot.Booked {
		return ErrSlotUnavailable
	}

	d.SlotID = slot.ID
	d.SlotTime = slot.Time
	d.Step = StepDetailEntry
	return nil
}

// Back returns from detail entry to slot selection, discarding the slot
// choice
func (d *Dialog) Back() error {
	if d.Step != StepDetailEntry {
		return ErrWrongStep
	}

	d.SlotID = ""
	d.SlotTime = ""
	d.Step = StepSlotSelection
	return nil
}

// SetPartySize records the party size choice during detail entry. Range
// validation is the booking store's concern.
func (d *Dialog) SetPartySize(size int) error {
	if d.Step != StepDetailEntry {
		return ErrWrongStep
	}

	d.PartySize = size
	return nil
}

// dialogStore keeps the open dialog of each browser session
type dialogStore struct {
	dialogs map[string]*Dialog
	mu      sync.Mutex
}

func newDialogStore() *dialogStore {
	return &dialogStore{
		dialogs: make(map[string]*Dialog),
	}
}

// open replaces any existing dialog for the session; reopening always
// resets to slot selection
func (s *dialogStore) open(sessionID string, dialog *Dialog) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dialogs[sessionID] = dialog
}

// get returns the session's open dialog, or nil
func (s *dialogStore) get(sessionID string) *Dialog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dialogs[sessionID]
}

// close abandons the session's dialog with no booking-store effect
func (s *dialogStore) close(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.dialogs, sessionID)
}
