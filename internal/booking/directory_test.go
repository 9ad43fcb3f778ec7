package booking

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	testDate = DateKey("2025-01-01")
	testSlot = SlotKey("09:00-10:00")
)

func newTestDirectory(t *testing.T) *Directory {
	t.Helper()
	return NewDirectory(zap.NewNop())
}

func registerFixtures(t *testing.T, dir *Directory) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, dir.RegisterRoom(ctx, "R1", "CS", 30))
	require.NoError(t, dir.RegisterRoom(ctx, "R2", "CS", 60))
	require.NoError(t, dir.RegisterProfessor(ctx, "P1", "Dr. A. Sharma", "CSE"))
	require.NoError(t, dir.RegisterProfessor(ctx, "P2", "Prof. R. Singh", "ECE"))
}

func TestRegisterRoomDuplicate(t *testing.T) {
	// Arrange
	dir := newTestDirectory(t)
	ctx := context.Background()
	require.NoError(t, dir.RegisterRoom(ctx, "R1", "CS", 30))

	// Act
	err := dir.RegisterRoom(ctx, "R1", "EE", 50)

	// Assert
	assert.ErrorIs(t, err, ErrRoomExists)
	rooms := dir.Rooms()
	require.Len(t, rooms, 1)
	assert.Equal(t, "CS", rooms[0].Branch, "duplicate registration must not overwrite")
}

func TestRegisterProfessorDuplicate(t *testing.T) {
	dir := newTestDirectory(t)
	ctx := context.Background()
	require.NoError(t, dir.RegisterProfessor(ctx, "P1", "Dr. A", "CS"))

	err := dir.RegisterProfessor(ctx, "P1", "Dr. B", "EE")

	assert.ErrorIs(t, err, ErrProfessorExists)
}

func TestRegisterRoomRejectsNonPositiveCapacity(t *testing.T) {
	dir := newTestDirectory(t)

	err := dir.RegisterRoom(context.Background(), "R1", "CS", 0)

	require.Error(t, err)
	assert.Empty(t, dir.Rooms())
}

func TestBookRoomForProfessor(t *testing.T) {
	// Arrange
	dir := newTestDirectory(t)
	registerFixtures(t, dir)
	ctx := context.Background()

	// Act
	commit, err := dir.BookRoomForProfessor(ctx, "P1", "R1", testDate, testSlot, "CS101", "class")

	// Assert
	require.NoError(t, err)
	assert.NotEmpty(t, commit.Record.ID)
	assert.Equal(t, RoomID("R1"), commit.Room)
	assert.Equal(t, ProfessorID("P1"), commit.Record.Professor)

	rec, taken, err := dir.RoomBooking("R1", testDate, testSlot)
	require.NoError(t, err)
	require.True(t, taken)
	assert.Equal(t, "CS101", rec.CourseName)

	day, err := dir.ProfessorDay("P1", testDate)
	require.NoError(t, err)
	assert.Equal(t, RoomID("R1"), day[testSlot])
}

// Scenario: repeating an identical booking call must fail, not silently
// succeed.
func TestRebookingIdenticalCallFails(t *testing.T) {
	dir := newTestDirectory(t)
	registerFixtures(t, dir)
	ctx := context.Background()

	_, err := dir.BookRoomForProfessor(ctx, "P1", "R1", testDate, testSlot, "CS101", "class")
	require.NoError(t, err)

	_, err = dir.BookRoomForProfessor(ctx, "P1", "R1", testDate, testSlot, "CS101", "class")

	require.Error(t, err)
	var profBusy *ProfessorBusyError
	var roomBusy *RoomBusyError
	assert.True(t, errors.As(err, &profBusy) || errors.As(err, &roomBusy),
		"rebooking must fail with a busy error, got %v", err)
}

// Scenario: a professor booked into R1 cannot be booked into R2 at the same
// date and slot, and R2 must stay unbooked.
func TestProfessorCannotBeInTwoRooms(t *testing.T) {
	dir := newTestDirectory(t)
	registerFixtures(t, dir)
	ctx := context.Background()

	_, err := dir.BookRoomForProfessor(ctx, "P1", "R1", testDate, testSlot, "CS101", "class")
	require.NoError(t, err)

	_, err = dir.BookRoomForProfessor(ctx, "P1", "R2", testDate, testSlot, "CS102", "class")

	var profBusy *ProfessorBusyError
	require.ErrorAs(t, err, &profBusy)
	assert.Equal(t, RoomID("R1"), profBusy.Room)

	_, taken, err := dir.RoomBooking("R2", testDate, testSlot)
	require.NoError(t, err)
	assert.False(t, taken, "R2 must remain unbooked after the failed attempt")
}

func TestRoomBusyCarriesExistingRecord(t *testing.T) {
	dir := newTestDirectory(t)
	registerFixtures(t, dir)
	ctx := context.Background()

	_, err := dir.BookRoomForProfessor(ctx, "P1", "R1", testDate, testSlot, "CS101", "class")
	require.NoError(t, err)

	_, err = dir.BookRoomForProfessor(ctx, "P2", "R1", testDate, testSlot, "EC201", "class")

	var roomBusy *RoomBusyError
	require.ErrorAs(t, err, &roomBusy)
	assert.Equal(t, ProfessorID("P1"), roomBusy.Existing.Professor)
	assert.Equal(t, "CS101", roomBusy.Existing.CourseName)
}

func TestBookingValidationOrder(t *testing.T) {
	dir := newTestDirectory(t)
	registerFixtures(t, dir)
	ctx := context.Background()

	tests := []struct {
		name      string
		professor ProfessorID
		room      RoomID
		slot      SlotKey
		wantErr   error
	}{
		{"unknown professor", "ghost", "R1", testSlot, ErrProfessorNotFound},
		{"unknown room", "P1", "ghost", testSlot, ErrRoomNotFound},
		{"invalid slot", "P1", "R1", "25:00-26:00", ErrInvalidSlot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := dir.BookRoomForProfessor(ctx, tt.professor, tt.room, testDate, tt.slot, "CS101", "class")
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

// A failed call must leave all state exactly as it was before the call.
func TestFailedBookingMutatesNothing(t *testing.T) {
	dir := newTestDirectory(t)
	registerFixtures(t, dir)
	ctx := context.Background()

	_, err := dir.BookRoomForProfessor(ctx, "P1", "R1", testDate, "25:00-26:00", "CS101", "class")
	require.Error(t, err)

	roomDay, err := dir.RoomDay("R1", testDate)
	require.NoError(t, err)
	assert.Empty(t, roomDay)

	profDay, err := dir.ProfessorDay("P1", testDate)
	require.NoError(t, err)
	assert.Empty(t, profDay)
}

// After any successful commit the room's record and the professor's ledger
// must agree on both sides.
func TestBidirectionalConsistency(t *testing.T) {
	dir := newTestDirectory(t)
	registerFixtures(t, dir)
	ctx := context.Background()

	bookings := []struct {
		professor ProfessorID
		room      RoomID
		slot      SlotKey
	}{
		{"P1", "R1", "09:00-10:00"},
		{"P1", "R2", "10:00-11:00"},
		{"P2", "R1", "10:00-11:00"},
	}
	for _, b := range bookings {
		_, err := dir.BookRoomForProfessor(ctx, b.professor, b.room, testDate, b.slot, "C", "class")
		require.NoError(t, err)
	}

	for _, b := range bookings {
		rec, taken, err := dir.RoomBooking(b.room, testDate, b.slot)
		require.NoError(t, err)
		require.True(t, taken)
		assert.Equal(t, b.professor, rec.Professor)

		day, err := dir.ProfessorDay(b.professor, testDate)
		require.NoError(t, err)
		assert.Equal(t, b.room, day[b.slot])
	}
}

func TestListAvailableRoomsForProfessor(t *testing.T) {
	dir := newTestDirectory(t)
	registerFixtures(t, dir)
	ctx := context.Background()

	_, err := dir.BookRoomForProfessor(ctx, "P2", "R1", testDate, testSlot, "EC201", "class")
	require.NoError(t, err)

	rooms, err := dir.ListAvailableRoomsForProfessor("P1", testDate, testSlot)

	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, RoomID("R2"), rooms[0].ID)
}

func TestListAvailableRoomsUnknownProfessor(t *testing.T) {
	dir := newTestDirectory(t)
	registerFixtures(t, dir)

	rooms, err := dir.ListAvailableRoomsForProfessor("ghost", testDate, testSlot)

	assert.ErrorIs(t, err, ErrProfessorNotFound)
	assert.Nil(t, rooms)
}

func TestListAvailableRoomsBusyProfessor(t *testing.T) {
	dir := newTestDirectory(t)
	registerFixtures(t, dir)
	ctx := context.Background()

	_, err := dir.BookRoomForProfessor(ctx, "P1", "R1", testDate, testSlot, "CS101", "class")
	require.NoError(t, err)

	rooms, err := dir.ListAvailableRoomsForProfessor("P1", testDate, testSlot)

	var profBusy *ProfessorBusyError
	require.ErrorAs(t, err, &profBusy)
	assert.Equal(t, RoomID("R1"), profBusy.Room)
	assert.Nil(t, rooms, "a busy professor gets a distinct failure, not a room list")
}

// Self-study listings ignore professor state entirely.
func TestFindEmptyRoomsForSelfStudy(t *testing.T) {
	dir := newTestDirectory(t)
	registerFixtures(t, dir)
	ctx := context.Background()

	rooms, err := dir.FindEmptyRoomsForSelfStudy(testDate, testSlot)
	require.NoError(t, err)
	assert.Equal(t, []RoomSummary{
		{ID: "R1", Branch: "CS", Capacity: 30},
		{ID: "R2", Branch: "CS", Capacity: 60},
	}, rooms, "with zero bookings every registered room is returned, sorted by id")

	_, err = dir.BookRoomForProfessor(ctx, "P1", "R1", testDate, testSlot, "CS101", "class")
	require.NoError(t, err)

	rooms, err = dir.FindEmptyRoomsForSelfStudy(testDate, testSlot)
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, RoomID("R2"), rooms[0].ID)
}

func TestFindEmptyRoomsInvalidSlot(t *testing.T) {
	dir := newTestDirectory(t)
	registerFixtures(t, dir)

	_, err := dir.FindEmptyRoomsForSelfStudy(testDate, "bogus")

	assert.ErrorIs(t, err, ErrInvalidSlot)
}

// Bookings are monotonic: once booked, a slot never frees up again.
func TestAvailabilityMonotonicity(t *testing.T) {
	dir := newTestDirectory(t)
	registerFixtures(t, dir)
	ctx := context.Background()

	_, err := dir.BookRoomForProfessor(ctx, "P1", "R1", testDate, testSlot, "CS101", "class")
	require.NoError(t, err)

	for range 3 {
		_, err := dir.BookRoomForProfessor(ctx, "P2", "R1", testDate, testSlot, "EC201", "class")
		require.Error(t, err)

		_, taken, lookupErr := dir.RoomBooking("R1", testDate, testSlot)
		require.NoError(t, lookupErr)
		assert.True(t, taken)
	}
}

func TestProfessorNameFallsBackToUnknown(t *testing.T) {
	dir := newTestDirectory(t)
	registerFixtures(t, dir)

	assert.Equal(t, "Dr. A. Sharma", dir.ProfessorName("P1"))
	assert.Equal(t, "Unknown", dir.ProfessorName("ghost"))
}

type recordingObserver struct {
	rooms      []RoomSummary
	professors []ProfessorSummary
	commits    []Commit
	err        error
}

func (o *recordingObserver) RoomRegistered(_ context.Context, room RoomSummary) error {
	o.rooms = append(o.rooms, room)
	return o.err
}

func (o *recordingObserver) ProfessorRegistered(_ context.Context, prof ProfessorSummary) error {
	o.professors = append(o.professors, prof)
	return o.err
}

func (o *recordingObserver) BookingCommitted(_ context.Context, commit Commit) error {
	o.commits = append(o.commits, commit)
	return o.err
}

func TestObserversSeeOnlySuccessfulCommits(t *testing.T) {
	dir := newTestDirectory(t)
	obs := &recordingObserver{}
	dir.AddObserver(obs)
	registerFixtures(t, dir)
	ctx := context.Background()

	_, err := dir.BookRoomForProfessor(ctx, "P1", "R1", testDate, testSlot, "CS101", "class")
	require.NoError(t, err)
	_, err = dir.BookRoomForProfessor(ctx, "P2", "R1", testDate, testSlot, "EC201", "class")
	require.Error(t, err)

	assert.Len(t, obs.rooms, 2)
	assert.Len(t, obs.professors, 2)
	require.Len(t, obs.commits, 1, "failed attempts must not reach observers")
	assert.Equal(t, RoomID("R1"), obs.commits[0].Room)
}

func TestObserverFailureDoesNotFailBooking(t *testing.T) {
	dir := newTestDirectory(t)
	obs := &recordingObserver{err: errors.New("mirror down")}
	dir.AddObserver(obs)
	registerFixtures(t, dir)

	_, err := dir.BookRoomForProfessor(context.Background(), "P1", "R1", testDate, testSlot, "CS101", "class")

	require.NoError(t, err, "observer errors are advisory")
	_, taken, lookupErr := dir.RoomBooking("R1", testDate, testSlot)
	require.NoError(t, lookupErr)
	assert.True(t, taken)
}
