package booking

// professor is a passive ledger of where an instructor is scheduled. It
// performs no availability checks of its own: addToSchedule is reachable
// only from the Directory, which must have verified availability first.
type professor struct {
	id       ProfessorID
	name     string
	branch   string
	schedule map[dateSlot]RoomID
}

func newProfessor(id ProfessorID, name, branch string) *professor {
	return &professor{
		id:       id,
		name:     name,
		branch:   branch,
		schedule: make(map[dateSlot]RoomID),
	}
}

func (p *professor) summary() ProfessorSummary {
	return ProfessorSummary{ID: p.id, Name: p.name, Branch: p.branch}
}

// isAvailable reports whether no room is recorded at (date, slot).
func (p *professor) isAvailable(date DateKey, slot SlotKey) bool {
	_, taken := p.schedule[dateSlot{date, slot}]
	return !taken
}

// roomAt returns the room the professor occupies at (date, slot), if any.
func (p *professor) roomAt(date DateKey, slot SlotKey) (RoomID, bool) {
	roomID, ok := p.schedule[dateSlot{date, slot}]
	return roomID, ok
}

// addToSchedule records an assignment unconditionally. Caller must have
// verified availability.
func (p *professor) addToSchedule(date DateKey, slot SlotKey, roomID RoomID) {
	p.schedule[dateSlot{date, slot}] = roomID
}

// daySchedule returns a copy of the professor's assignments for one date,
// keyed by slot.
func (p *professor) daySchedule(date DateKey) map[SlotKey]RoomID {
	out := make(map[SlotKey]RoomID)
	for key, roomID := range p.schedule {
		if key.date == date {
			out[key.slot] = roomID
		}
	}
	return out
}
