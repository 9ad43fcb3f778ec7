// Package report renders full-day agendas from the booking directory's
// state. It is strictly read-only: every answer is assembled from directory
// snapshots.
package report

import (
	"fmt"
	"strings"

	"github.com/campusops/roombooking/internal/booking"
)

// SlotStatus describes one catalog slot of an agenda. Booked distinguishes
// an occupied slot from an available one; the remaining fields are only
// meaningful when Booked is true.
type SlotStatus struct {
	Slot          booking.SlotKey     `json:"slot"`
	Booked        bool                `json:"booked"`
	Room          booking.RoomID      `json:"room_id,omitempty"`
	ProfessorID   booking.ProfessorID `json:"professor_id,omitempty"`
	ProfessorName string              `json:"professor_name,omitempty"`
	CourseName    string              `json:"course_name,omitempty"`
	Purpose       string              `json:"purpose,omitempty"`
}

// Reporter formats room and professor schedules.
type Reporter struct {
	dir *booking.Directory
}

func NewReporter(dir *booking.Directory) *Reporter {
	return &Reporter{dir: dir}
}

// RoomSchedule returns one status per catalog slot, in catalog order, for a
// room on a date. Professor ids that cannot be resolved show as "Unknown".
func (r *Reporter) RoomSchedule(roomID booking.RoomID, date booking.DateKey) ([]SlotStatus, error) {
	day, err := r.dir.RoomDay(roomID, date)
	if err != nil {
		return nil, err
	}

	statuses := make([]SlotStatus, 0, len(booking.Catalog))
	for _, slot := range booking.Catalog {
		rec, taken := day[slot]
		if !taken {
			statuses = append(statuses, SlotStatus{Slot: slot})
			continue
		}
		statuses = append(statuses, SlotStatus{
			Slot:          slot,
			Booked:        true,
			Room:          roomID,
			ProfessorID:   rec.Professor,
			ProfessorName: r.dir.ProfessorName(rec.Professor),
			CourseName:    rec.CourseName,
			Purpose:       rec.Purpose,
		})
	}
	return statuses, nil
}

// ProfessorSchedule returns one status per catalog slot, in catalog order,
// for a professor on a date, resolving each assignment back to its room's
// booking record for the course name.
func (r *Reporter) ProfessorSchedule(professorID booking.ProfessorID, date booking.DateKey) ([]SlotStatus, error) {
	day, err := r.dir.ProfessorDay(professorID, date)
	if err != nil {
		return nil, err
	}

	statuses := make([]SlotStatus, 0, len(booking.Catalog))
	for _, slot := range booking.Catalog {
		roomID, taken := day[slot]
		if !taken {
			statuses = append(statuses, SlotStatus{Slot: slot})
			continue
		}
		status := SlotStatus{
			Slot:        slot,
			Booked:      true,
			Room:        roomID,
			ProfessorID: professorID,
		}
		if rec, ok, err := r.dir.RoomBooking(roomID, date, slot); err == nil && ok {
			status.CourseName = rec.CourseName
			status.Purpose = rec.Purpose
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}

// FormatRoomSchedule renders a room's day as display text.
func (r *Reporter) FormatRoomSchedule(roomID booking.RoomID, date booking.DateKey) (string, error) {
	statuses, err := r.RoomSchedule(roomID, date)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Schedule for %s on %s:\n", roomID, date)
	for _, st := range statuses {
		if !st.Booked {
			fmt.Fprintf(&b, "  %s: Available\n", st.Slot)
			continue
		}
		fmt.Fprintf(&b, "  %s: Course - %s, Professor - %s (Purpose: %s)\n",
			st.Slot, st.CourseName, st.ProfessorName, st.Purpose)
	}
	return b.String(), nil
}

// FormatProfessorSchedule renders a professor's day as display text.
func (r *Reporter) FormatProfessorSchedule(professorID booking.ProfessorID, date booking.DateKey) (string, error) {
	prof, err := r.dir.Professor(professorID)
	if err != nil {
		return "", err
	}
	statuses, err := r.ProfessorSchedule(professorID, date)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Schedule for Professor %s (%s) on %s:\n", prof.Name, prof.ID, date)
	for _, st := range statuses {
		if !st.Booked {
			fmt.Fprintf(&b, "  %s: Available\n", st.Slot)
			continue
		}
		fmt.Fprintf(&b, "  %s: Booked in %s for %s\n", st.Slot, st.Room, st.CourseName)
	}
	return b.String(), nil
}
