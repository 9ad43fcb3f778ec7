package booking

import (
	"fmt"
	"time"
)

// RoomID identifies a physical room. Case-sensitive.
type RoomID string

// ProfessorID identifies an instructor.
type ProfessorID string

// DateKey is a calendar date in canonical YYYY-MM-DD form. No timezone
// semantics are attached; two DateKeys are equal iff their strings are.
type DateKey string

const dateLayout = "2006-01-02"

// ParseDate validates s as a YYYY-MM-DD date and returns it in canonical
// form.
func ParseDate(s string) (DateKey, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return "", fmt.Errorf("parse date %q: %w", s, err)
	}
	return DateKey(t.Format(dateLayout)), nil
}

// dateSlot is the composite key used by every per-entity schedule map.
// A single flat map keyed by (date, slot) keeps "is this slot taken" to one
// lookup.
type dateSlot struct {
	date DateKey
	slot SlotKey
}
