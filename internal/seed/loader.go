// Package seed bulk-loads rooms, professors and pre-existing timetable
// bookings into the directory at startup. Seeding is idempotent: duplicate
// registrations and already-taken slots are counted and skipped, never
// fatal.
package seed

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"
	"github.com/gocarina/gocsv"
	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/campusops/roombooking/internal/booking"
)

// RoomRow is one line of rooms.csv.
type RoomRow struct {
	RoomID   string `csv:"room_id"`
	Branch   string `csv:"branch"`
	Capacity int    `csv:"capacity"`
}

// ProfessorRow is one line of professors.csv.
type ProfessorRow struct {
	ProfessorID string `csv:"professor_id"`
	Name        string `csv:"name"`
	Branch      string `csv:"branch"`
}

// TimetableEntry is one pre-existing booking from timetable.json.
type TimetableEntry struct {
	Room      string
	Professor string
	Date      string
	Slot      string
	Course    string
	Purpose   string
}

// Timetable is the decoded shape of timetable.json.
type Timetable struct {
	Entries []TimetableEntry
}

// Report counts what a seeding run did.
type Report struct {
	RoomsAdded      int
	RoomsSkipped    int
	ProfsAdded      int
	ProfsSkipped    int
	BookingsApplied int
	BookingsSkipped int
}

// Loader reads seed files from one directory and applies them.
type Loader struct {
	dir    *booking.Directory
	logger *zap.Logger
}

func NewLoader(dir *booking.Directory, logger *zap.Logger) *Loader {
	return &Loader{dir: dir, logger: logger}
}

// LoadDir applies rooms.csv, professors.csv and timetable.json from path.
// Missing files are skipped silently; malformed files fail the run.
func (l *Loader) LoadDir(ctx context.Context, path string) (Report, error) {
	var report Report

	rooms, err := readRooms(filepath.Join(path, "rooms.csv"))
	if err != nil {
		return report, err
	}
	professors, err := readProfessors(filepath.Join(path, "professors.csv"))
	if err != nil {
		return report, err
	}
	timetable, err := readTimetable(filepath.Join(path, "timetable.json"))
	if err != nil {
		return report, err
	}

	l.applyRooms(ctx, rooms, &report)
	l.applyProfessors(ctx, professors, &report)
	if err := l.applyTimetable(ctx, timetable, &report); err != nil {
		return report, err
	}

	l.logger.Info("Seed data loaded",
		zap.String("path", path),
		zap.Int("rooms_added", report.RoomsAdded),
		zap.Int("professors_added", report.ProfsAdded),
		zap.Int("bookings_applied", report.BookingsApplied),
		zap.Int("bookings_skipped", report.BookingsSkipped),
	)

	return report, nil
}

func readRooms(path string) ([]*RoomRow, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var rows []*RoomRow
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return rows, nil
}

func readProfessors(path string) ([]*ProfessorRow, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var rows []*ProfessorRow
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return rows, nil
}

// readTimetable decodes the loosely-typed JSON timetable through
// mapstructure so that hand-edited files with extra keys still load.
func readTimetable(path string) (Timetable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Timetable{}, nil
		}
		return Timetable{}, fmt.Errorf("read %s: %w", path, err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return Timetable{}, fmt.Errorf("parse %s: %w", path, err)
	}

	var tt Timetable
	if err := mapstructure.Decode(raw, &tt); err != nil {
		return Timetable{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return tt, nil
}

func (l *Loader) applyRooms(ctx context.Context, rows []*RoomRow, report *Report) {
	for _, row := range rows {
		err := l.dir.RegisterRoom(ctx, booking.RoomID(row.RoomID), row.Branch, row.Capacity)
		if err != nil {
			report.RoomsSkipped++
			if !errors.Is(err, booking.ErrRoomExists) {
				l.logger.Warn("Skipping room seed row", zap.String("room_id", row.RoomID), zap.Error(err))
			}
			continue
		}
		report.RoomsAdded++
	}
}

func (l *Loader) applyProfessors(ctx context.Context, rows []*ProfessorRow, report *Report) {
	for _, row := range rows {
		err := l.dir.RegisterProfessor(ctx, booking.ProfessorID(row.ProfessorID), row.Name, row.Branch)
		if err != nil {
			report.ProfsSkipped++
			if !errors.Is(err, booking.ErrProfessorExists) {
				l.logger.Warn("Skipping professor seed row", zap.String("professor_id", row.ProfessorID), zap.Error(err))
			}
			continue
		}
		report.ProfsAdded++
	}
}

func (l *Loader) applyTimetable(ctx context.Context, tt Timetable, report *Report) error {
	for _, entry := range tt.Entries {
		date, err := booking.ParseDate(entry.Date)
		if err != nil {
			return fmt.Errorf("timetable entry for room %s: %w", entry.Room, err)
		}

		purpose := entry.Purpose
		if purpose == "" {
			purpose = "class"
		}

		_, err = l.dir.BookRoomForProfessor(ctx,
			booking.ProfessorID(entry.Professor),
			booking.RoomID(entry.Room),
			date,
			booking.SlotKey(entry.Slot),
			entry.Course,
			purpose,
		)
		if err != nil {
			// Conflicting or dangling seed rows lose to whatever
			// committed first, same as live bookings.
			report.BookingsSkipped++
			l.logger.Warn("Skipping timetable seed entry",
				zap.String("room_id", entry.Room),
				zap.String("professor_id", entry.Professor),
				zap.String("date", entry.Date),
				zap.String("slot", entry.Slot),
				zap.Error(err),
			)
			continue
		}
		report.BookingsApplied++
	}
	return nil
}
