package booking

import (
	"errors"
	"fmt"
)

var (
	ErrRoomNotFound      = errors.New("room not found")
	ErrProfessorNotFound = errors.New("professor not found")
	ErrInvalidSlot       = errors.New("time slot is not in the catalog")
	ErrRoomExists        = errors.New("room already registered")
	ErrProfessorExists   = errors.New("professor already registered")
)

// RoomBusyError reports a booking attempt against an occupied room. It
// carries the conflicting record for diagnostic display.
type RoomBusyError struct {
	Room     RoomID
	Date     DateKey
	Slot     SlotKey
	Existing BookingRecord
}

func (e *RoomBusyError) Error() string {
	return fmt.Sprintf("room %s already booked on %s at %s by %s for %s",
		e.Room, e.Date, e.Slot, e.Existing.Professor, e.Existing.CourseName)
}

// ProfessorBusyError reports that a professor is already assigned to a room
// at the requested date and slot.
type ProfessorBusyError struct {
	Professor ProfessorID
	Date      DateKey
	Slot      SlotKey
	Room      RoomID
}

func (e *ProfessorBusyError) Error() string {
	return fmt.Sprintf("professor %s already scheduled on %s at %s in room %s",
		e.Professor, e.Date, e.Slot, e.Room)
}
