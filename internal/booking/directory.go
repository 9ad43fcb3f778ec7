package booking

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// CommitObserver receives successful directory mutations after they are
// applied. Observers are best-effort side channels (durable mirror,
// notifications): an observer error is logged and never fails or rolls back
// the in-memory commit.
type CommitObserver interface {
	RoomRegistered(ctx context.Context, room RoomSummary) error
	ProfessorRegistered(ctx context.Context, prof ProfessorSummary) error
	BookingCommitted(ctx context.Context, commit Commit) error
}

// Directory owns the room and professor collections and is the only
// component that touches both sides of a booking. All check-then-act
// sequences run under one mutex, so the no-double-booking invariant holds
// behind concurrent callers.
type Directory struct {
	mu         sync.RWMutex
	rooms      map[RoomID]*room
	professors map[ProfessorID]*professor
	observers  []CommitObserver
	logger     *zap.Logger
}

func NewDirectory(logger *zap.Logger) *Directory {
	return &Directory{
		rooms:      make(map[RoomID]*room),
		professors: make(map[ProfessorID]*professor),
		logger:     logger,
	}
}

// AddObserver attaches a commit observer. Not safe to call concurrently
// with bookings; wire observers during startup.
func (d *Directory) AddObserver(obs CommitObserver) {
	d.observers = append(d.observers, obs)
}

// RegisterRoom creates a new room with empty bookings. Fails with
// ErrRoomExists if the id is already registered.
func (d *Directory) RegisterRoom(ctx context.Context, id RoomID, branch string, capacity int) error {
	if capacity <= 0 {
		return fmt.Errorf("room %s: capacity must be positive", id)
	}

	d.mu.Lock()
	if _, ok := d.rooms[id]; ok {
		d.mu.Unlock()
		return fmt.Errorf("register room %s: %w", id, ErrRoomExists)
	}
	rm := newRoom(id, branch, capacity)
	d.rooms[id] = rm
	summary := rm.summary()
	d.mu.Unlock()

	d.logger.Info("Room registered",
		zap.String("room_id", string(id)),
		zap.String("branch", branch),
		zap.Int("capacity", capacity),
	)

	for _, obs := range d.observers {
		if err := obs.RoomRegistered(ctx, summary); err != nil {
			d.logger.Error("Room registration observer failed",
				zap.String("room_id", string(id)),
				zap.Error(err),
			)
		}
	}

	return nil
}

// RegisterProfessor creates a new professor with an empty schedule. Fails
// with ErrProfessorExists if the id is already registered.
func (d *Directory) RegisterProfessor(ctx context.Context, id ProfessorID, name, branch string) error {
	d.mu.Lock()
	if _, ok := d.professors[id]; ok {
		d.mu.Unlock()
		return fmt.Errorf("register professor %s: %w", id, ErrProfessorExists)
	}
	prof := newProfessor(id, name, branch)
	d.professors[id] = prof
	summary := prof.summary()
	d.mu.Unlock()

	d.logger.Info("Professor registered",
		zap.String("professor_id", string(id)),
		zap.String("name", name),
		zap.String("branch", branch),
	)

	for _, obs := range d.observers {
		if err := obs.ProfessorRegistered(ctx, summary); err != nil {
			d.logger.Error("Professor registration observer failed",
				zap.String("professor_id", string(id)),
				zap.Error(err),
			)
		}
	}

	return nil
}

// ListAvailableRoomsForProfessor returns every room free at (date, slot)
// for a professor who is themselves free then, sorted by room id. A busy
// professor is a distinct failure from an empty room list so the caller can
// explain why no booking can proceed.
func (d *Directory) ListAvailableRoomsForProfessor(professorID ProfessorID, date DateKey, slot SlotKey) ([]RoomSummary, error) {
	if !ValidSlot(slot) {
		return nil, fmt.Errorf("slot %q: %w", slot, ErrInvalidSlot)
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	prof, ok := d.professors[professorID]
	if !ok {
		return nil, fmt.Errorf("professor %s: %w", professorID, ErrProfessorNotFound)
	}
	if roomID, taken := prof.roomAt(date, slot); taken {
		return nil, &ProfessorBusyError{Professor: professorID, Date: date, Slot: slot, Room: roomID}
	}

	return d.freeRoomsLocked(date, slot), nil
}

// FindEmptyRoomsForSelfStudy returns every room free at (date, slot)
// regardless of any professor, sorted by room id. Nothing is recorded: a
// self-study lookup is advisory only, so two students can be pointed at the
// same room and a later formal booking can still claim it.
func (d *Directory) FindEmptyRoomsForSelfStudy(date DateKey, slot SlotKey) ([]RoomSummary, error) {
	if !ValidSlot(slot) {
		return nil, fmt.Errorf("slot %q: %w", slot, ErrInvalidSlot)
	}

	d.mu.RLock()
	free := d.freeRoomsLocked(date, slot)
	d.mu.RUnlock()

	d.logger.Info("Self-study lookup",
		zap.String("date", string(date)),
		zap.String("slot", string(slot)),
		zap.Int("free_rooms", len(free)),
	)

	return free, nil
}

// freeRoomsLocked lists rooms free at (date, slot) sorted by id. Caller
// holds at least the read lock.
func (d *Directory) freeRoomsLocked(date DateKey, slot SlotKey) []RoomSummary {
	free := lo.Filter(lo.Values(d.rooms), func(rm *room, _ int) bool {
		return rm.isAvailable(date, slot)
	})
	summaries := lo.Map(free, func(rm *room, _ int) RoomSummary {
		return rm.summary()
	})
	slices.SortFunc(summaries, func(a, b RoomSummary) int {
		if a.ID < b.ID {
			return -1
		} else if a.ID > b.ID {
			return 1
		}
		return 0
	})
	return summaries
}

// BookRoomForProfessor is the single commit path. Checks strictly precede
// mutation, so a failed call leaves all state exactly as it was. First
// successful commit for a (room, date, slot) or (professor, date, slot)
// wins; there is no preemption or waitlisting.
func (d *Directory) BookRoomForProfessor(ctx context.Context, professorID ProfessorID, roomID RoomID, date DateKey, slot SlotKey, courseName, purpose string) (Commit, error) {
	d.mu.Lock()

	prof, ok := d.professors[professorID]
	if !ok {
		d.mu.Unlock()
		return Commit{}, fmt.Errorf("professor %s: %w", professorID, ErrProfessorNotFound)
	}
	rm, ok := d.rooms[roomID]
	if !ok {
		d.mu.Unlock()
		return Commit{}, fmt.Errorf("room %s: %w", roomID, ErrRoomNotFound)
	}
	if !ValidSlot(slot) {
		d.mu.Unlock()
		return Commit{}, fmt.Errorf("slot %q: %w", slot, ErrInvalidSlot)
	}

	if occupied, taken := prof.roomAt(date, slot); taken {
		d.mu.Unlock()
		return Commit{}, &ProfessorBusyError{Professor: professorID, Date: date, Slot: slot, Room: occupied}
	}
	if existing, taken := rm.bookingAt(date, slot); taken {
		d.mu.Unlock()
		return Commit{}, &RoomBusyError{Room: roomID, Date: date, Slot: slot, Existing: existing}
	}

	rec := BookingRecord{
		ID:         uuid.NewString(),
		Professor:  professorID,
		CourseName: courseName,
		Purpose:    purpose,
		CreatedAt:  time.Now().UTC(),
	}

	// Both sides are updated under the same lock, so no observer of the
	// directory can see the room booked without the professor's ledger
	// entry.
	if err := rm.book(date, slot, rec); err != nil {
		d.mu.Unlock()
		return Commit{}, fmt.Errorf("internal: room %s availability changed mid-commit: %w", roomID, err)
	}
	prof.addToSchedule(date, slot, roomID)

	commit := Commit{Room: roomID, Date: date, Slot: slot, Record: rec}
	d.mu.Unlock()

	d.logger.Info("Room booked",
		zap.String("booking_id", rec.ID),
		zap.String("room_id", string(roomID)),
		zap.String("professor_id", string(professorID)),
		zap.String("date", string(date)),
		zap.String("slot", string(slot)),
		zap.String("course", courseName),
	)

	for _, obs := range d.observers {
		if err := obs.BookingCommitted(ctx, commit); err != nil {
			d.logger.Error("Booking observer failed",
				zap.String("booking_id", rec.ID),
				zap.Error(err),
			)
		}
	}

	return commit, nil
}

// Rooms returns every registered room sorted by id.
func (d *Directory) Rooms() []RoomSummary {
	d.mu.RLock()
	defer d.mu.RUnlock()

	summaries := lo.Map(lo.Values(d.rooms), func(rm *room, _ int) RoomSummary {
		return rm.summary()
	})
	slices.SortFunc(summaries, func(a, b RoomSummary) int {
		if a.ID < b.ID {
			return -1
		} else if a.ID > b.ID {
			return 1
		}
		return 0
	})
	return summaries
}

// Professor returns the professor's summary.
func (d *Directory) Professor(id ProfessorID) (ProfessorSummary, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	prof, ok := d.professors[id]
	if !ok {
		return ProfessorSummary{}, fmt.Errorf("professor %s: %w", id, ErrProfessorNotFound)
	}
	return prof.summary(), nil
}

// ProfessorName resolves a professor id to a display name, substituting the
// "Unknown" sentinel for ids that cannot be resolved.
func (d *Directory) ProfessorName(id ProfessorID) string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	prof, ok := d.professors[id]
	if !ok {
		return "Unknown"
	}
	return prof.name
}

// RoomBooking returns the record at (date, slot) for one room.
func (d *Directory) RoomBooking(roomID RoomID, date DateKey, slot SlotKey) (BookingRecord, bool, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	rm, ok := d.rooms[roomID]
	if !ok {
		return BookingRecord{}, false, fmt.Errorf("room %s: %w", roomID, ErrRoomNotFound)
	}
	rec, taken := rm.bookingAt(date, slot)
	return rec, taken, nil
}

// RoomDay returns a copy of one room's bookings for a date, keyed by slot.
func (d *Directory) RoomDay(roomID RoomID, date DateKey) (map[SlotKey]BookingRecord, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	rm, ok := d.rooms[roomID]
	if !ok {
		return nil, fmt.Errorf("room %s: %w", roomID, ErrRoomNotFound)
	}
	return rm.dayBookings(date), nil
}

// ProfessorDay returns a copy of one professor's assignments for a date,
// keyed by slot.
func (d *Directory) ProfessorDay(professorID ProfessorID, date DateKey) (map[SlotKey]RoomID, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	prof, ok := d.professors[professorID]
	if !ok {
		return nil, fmt.Errorf("professor %s: %w", professorID, ErrProfessorNotFound)
	}
	return prof.daySchedule(date), nil
}
