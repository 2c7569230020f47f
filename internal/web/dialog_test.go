package web

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unispace/unispace/internal/models"
)

func TestDialogStartsAtSlotSelection(t *testing.T) {
	d := NewDialog("siulim", models.PurposeRest)
	assert.Equal(t, StepSlotSelection, d.Step)
	assert.Equal(t, 1, d.PartySize)
	assert.Empty(t, d.SlotID)
}

func TestDialogSelectSlot(t *testing.T) {
	d := NewDialog("siulim", models.PurposeRest)
	slot := &models.TimeSlot{ID: "s1", Time: "18:30 - 19:50"}

	require.NoError(t, d.SelectSlot(slot))
	assert.Equal(t, StepDetailEntry, d.Step)
	assert.Equal(t, "s1", d.SlotID)
	assert.Equal(t, "18:30 - 19:50", d.SlotTime)
}

func TestDialogRejectsBookedSlot(t *testing.T) {
	d := NewDialog("siulim", models.PurposeRest)
	slot := &models.TimeSlot{ID: "s1", Booked: true}

	assert.ErrorIs(t, d.SelectSlot(slot), ErrSlotUnavailable)
	assert.Equal(t, StepSlotSelection, d.Step)
}

func TestDialogBack(t *testing.T) {
	d := NewDialog("siulim", models.PurposeRest)
	require.NoError(t, d.SelectSlot(&models.TimeSlot{ID: "s1"}))

	require.NoError(t, d.Back())
	assert.Equal(t, StepSlotSelection, d.Step)
	assert.Empty(t, d.SlotID, "back discards the slot choice")
}

func TestDialogStepGuards(t *testing.T) {
	d := NewDialog("siulim", models.PurposeRest)

	// Detail-entry actions are invalid during slot selection
	assert.ErrorIs(t, d.Back(), ErrWrongStep)
	assert.ErrorIs(t, d.SetPartySize(3), ErrWrongStep)

	require.NoError(t, d.SelectSlot(&models.TimeSlot{ID: "s1"}))

	// Slot selection is invalid during detail entry
	assert.ErrorIs(t, d.SelectSlot(&models.TimeSlot{ID: "s2"}), ErrWrongStep)

	require.NoError(t, d.SetPartySize(3))
	assert.Equal(t, 3, d.PartySize)
}

func TestDialogStoreReopenResets(t *testing.T) {
	store := newDialogStore()

	first := NewDialog("siulim", models.PurposeRest)
	require.NoError(t, first.SelectSlot(&models.TimeSlot{ID: "s1"}))
	require.NoError(t, first.SetPartySize(4))
	store.open("session1", first)

	// Reopening replaces the in-progress dialog entirely
	store.open("session1", NewDialog("siulim", models.PurposeRest))

	d := store.get("session1")
	require.NotNil(t, d)
	assert.Equal(t, StepSlotSelection, d.Step)
	assert.Equal(t, 1, d.PartySize)
}

func TestDialogStoreClose(t *testing.T) {
	store := newDialogStore()
	store.open("session1", NewDialog("club", models.PurposeMeeting))

	store.close("session1")
	assert.Nil(t, store.get("session1"))

	// Closing an absent dialog is harmless
	store.close("session1")
}

func TestDialogStoreSessionsAreIndependent(t *testing.T) {
	store := newDialogStore()
	store.open("a", NewDialog("siulim", models.PurposeRest))
	store.open("b", NewDialog("club", models.PurposeMeeting))

	require.NoError(t, store.get("a").SelectSlot(&models.TimeSlot{ID: "s1"}))

	assert.Equal(t, StepDetailEntry, store.get("a").Step)
	assert.Equal(t, StepSlotSelection, store.get("b").Step)
}
