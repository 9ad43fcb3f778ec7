package booking

import "time"

// BookingRecord is the immutable value attached to exactly one
// (room, date, slot) triple once a booking commits.
type BookingRecord struct {
	ID         string      `json:"id"`
	Professor  ProfessorID `json:"professor_id"`
	CourseName string      `json:"course_name"`
	Purpose    string      `json:"purpose"`
	CreatedAt  time.Time   `json:"created_at"`
}

// RoomSummary is the read-only projection of a room returned by listings.
type RoomSummary struct {
	ID       RoomID `json:"room_id"`
	Branch   string `json:"branch"`
	Capacity int    `json:"capacity"`
}

// ProfessorSummary is the read-only projection of a professor.
type ProfessorSummary struct {
	ID     ProfessorID `json:"professor_id"`
	Name   string      `json:"name"`
	Branch string      `json:"branch"`
}

// Commit describes one successful booking, as seen by commit observers.
type Commit struct {
	Room   RoomID        `json:"room_id"`
	Date   DateKey       `json:"date"`
	Slot   SlotKey       `json:"slot"`
	Record BookingRecord `json:"record"`
}
