// Package suggest picks a recommended room out of an availability listing.
// Suggestions are advisory: the booking path never waits on a suggester and
// an absent or failing one must not block a booking decision.
package suggest

import (
	"context"

	"github.com/campusops/roombooking/internal/booking"
)

// Suggester recommends one room from a non-empty free-room listing for a
// requester from the given branch. ok is false when it has no opinion.
type Suggester interface {
	Suggest(ctx context.Context, branch string, rooms []booking.RoomSummary) (suggestion booking.RoomSummary, ok bool)
}

// Heuristic is the built-in Suggester: prefer rooms of the requester's own
// branch, then the smallest capacity, so large halls stay free for large
// classes. Deterministic, no external calls.
type Heuristic struct{}

func NewHeuristic() Heuristic {
	return Heuristic{}
}

func (Heuristic) Suggest(_ context.Context, branch string, rooms []booking.RoomSummary) (booking.RoomSummary, bool) {
	if len(rooms) == 0 {
		return booking.RoomSummary{}, false
	}

	best := rooms[0]
	for _, room := range rooms[1:] {
		if better(room, best, branch) {
			best = room
		}
	}
	return best, true
}

func better(a, b booking.RoomSummary, branch string) bool {
	aMatch := a.Branch == branch
	bMatch := b.Branch == branch
	if aMatch != bMatch {
		return aMatch
	}
	if a.Capacity != b.Capacity {
		return a.Capacity < b.Capacity
	}
	return a.ID < b.ID
}
