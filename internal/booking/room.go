package booking

// room is one physical room together with its committed bookings. It is
// created and mutated only through the Directory, which is why the type and
// its mutators stay package-private.
type room struct {
	id       RoomID
	branch   string
	capacity int
	bookings map[dateSlot]BookingRecord
}

func newRoom(id RoomID, branch string, capacity int) *room {
	return &room{
		id:       id,
		branch:   branch,
		capacity: capacity,
		bookings: make(map[dateSlot]BookingRecord),
	}
}

func (r *room) summary() RoomSummary {
	return RoomSummary{ID: r.id, Branch: r.branch, Capacity: r.capacity}
}

// isAvailable reports whether no booking exists at (date, slot).
func (r *room) isAvailable(date DateKey, slot SlotKey) bool {
	_, taken := r.bookings[dateSlot{date, slot}]
	return !taken
}

// bookingAt returns the record at (date, slot), if any.
func (r *room) bookingAt(date DateKey, slot SlotKey) (BookingRecord, bool) {
	rec, ok := r.bookings[dateSlot{date, slot}]
	return rec, ok
}

// book inserts rec at (date, slot). Rebooking an occupied slot always fails,
// even with an identical record.
func (r *room) book(date DateKey, slot SlotKey, rec BookingRecord) error {
	if existing, taken := r.bookings[dateSlot{date, slot}]; taken {
		return &RoomBusyError{Room: r.id, Date: date, Slot: slot, Existing: existing}
	}
	r.bookings[dateSlot{date, slot}] = rec
	return nil
}

// dayBookings returns a copy of the room's records for one date, keyed by
// slot.
func (r *room) dayBookings(date DateKey) map[SlotKey]BookingRecord {
	out := make(map[SlotKey]BookingRecord)
	for key, rec := range r.bookings {
		if key.date == date {
			out[key.slot] = rec
		}
	}
	return out
}
