// Command roombooking is the interactive terminal front end: book a room
// for a class, find an empty room for self-study, or print a room's or
// professor's day schedule. All state lives in the in-process directory.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/campusops/roombooking/internal/app"
	"github.com/campusops/roombooking/internal/booking"
	"github.com/campusops/roombooking/internal/config"
	"github.com/campusops/roombooking/internal/report"
	"github.com/campusops/roombooking/internal/seed"
	"github.com/campusops/roombooking/internal/suggest"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	ctx := context.Background()

	dir := booking.NewDirectory(logger)
	reporter := report.NewReporter(dir)
	loader := seed.NewLoader(dir, logger)
	if _, err := loader.LoadDir(ctx, cfg.SeedDir); err != nil {
		log.Fatalf("Failed to load seed data: %v", err)
	}

	cli := &cli{
		dir:       dir,
		reporter:  reporter,
		suggester: suggest.NewHeuristic(),
		in:        bufio.NewReader(os.Stdin),
	}
	cli.run(ctx)
}

type cli struct {
	dir       *booking.Directory
	reporter  *report.Reporter
	suggester suggest.Suggester
	in        *bufio.Reader
}

func (c *cli) run(ctx context.Context) {
	fmt.Println("Room Booking System ready.")

	for {
		fmt.Println("\n--- Room Booking Menu ---")
		fmt.Println("1. Book a room for a class")
		fmt.Println("2. Find an empty room for self-study")
		fmt.Println("3. Show a room schedule")
		fmt.Println("4. Show a professor schedule")
		fmt.Println("5. Exit")

		switch c.prompt("Enter your choice: ") {
		case "1":
			c.bookRoom(ctx)
		case "2":
			c.selfStudy()
		case "3":
			c.roomSchedule()
		case "4":
			c.professorSchedule()
		case "5":
			fmt.Println("Goodbye.")
			return
		default:
			fmt.Println("Invalid choice. Please try again.")
		}
	}
}

func (c *cli) bookRoom(ctx context.Context) {
	professorID := booking.ProfessorID(c.prompt("Professor ID: "))
	date := c.promptDate()
	slot := c.promptSlot()

	rooms, err := c.dir.ListAvailableRoomsForProfessor(professorID, date, slot)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	if len(rooms) == 0 {
		fmt.Println("No rooms available at that time.")
		return
	}

	fmt.Printf("Available rooms on %s at %s:\n", date, slot)
	for _, room := range rooms {
		fmt.Printf("  %s (%s, capacity %d)\n", room.ID, room.Branch, room.Capacity)
	}
	if prof, err := c.dir.Professor(professorID); err == nil {
		if suggestion, ok := c.suggester.Suggest(ctx, prof.Branch, rooms); ok {
			fmt.Printf("Suggested: %s\n", suggestion.ID)
		}
	}

	roomID := booking.RoomID(c.prompt("Room ID to book: "))
	course := c.prompt("Course name: ")

	_, err = c.dir.BookRoomForProfessor(ctx, professorID, roomID, date, slot, course, "class")
	if err != nil {
		fmt.Println("Booking failed:", err)
		return
	}
	fmt.Printf("Room %s booked for %s.\n", roomID, course)

	if text, err := c.reporter.FormatRoomSchedule(roomID, date); err == nil {
		fmt.Print(text)
	}
}

func (c *cli) selfStudy() {
	date := c.promptDate()
	slot := c.promptSlot()

	rooms, err := c.dir.FindEmptyRoomsForSelfStudy(date, slot)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	if len(rooms) == 0 {
		fmt.Println("No empty rooms at that time.")
		return
	}

	fmt.Printf("Empty rooms on %s at %s:\n", date, slot)
	for _, room := range rooms {
		fmt.Printf("  %s (%s, capacity %d)\n", room.ID, room.Branch, room.Capacity)
	}
	fmt.Println("Note: self-study rooms are first-come, first-served and are not formally booked.")
}

func (c *cli) roomSchedule() {
	roomID := booking.RoomID(c.prompt("Room ID: "))
	date := c.promptDate()

	text, err := c.reporter.FormatRoomSchedule(roomID, date)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Print(text)
}

func (c *cli) professorSchedule() {
	professorID := booking.ProfessorID(c.prompt("Professor ID: "))
	date := c.promptDate()

	text, err := c.reporter.FormatProfessorSchedule(professorID, date)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Print(text)
}

func (c *cli) prompt(label string) string {
	fmt.Print(label)
	line, err := c.in.ReadString('\n')
	if err != nil {
		return ""
	}
	return strings.TrimSpace(line)
}

func (c *cli) promptDate() booking.DateKey {
	for {
		date, err := booking.ParseDate(c.prompt("Date (YYYY-MM-DD): "))
		if err == nil {
			return date
		}
		fmt.Println("Invalid date format. Please use YYYY-MM-DD.")
	}
}

func (c *cli) promptSlot() booking.SlotKey {
	slots := make([]string, len(booking.Catalog))
	for i, slot := range booking.Catalog {
		slots[i] = string(slot)
	}
	fmt.Println("Time slots:", strings.Join(slots, ", "))

	for {
		slot := booking.SlotKey(c.prompt("Time slot: "))
		if booking.ValidSlot(slot) {
			return slot
		}
		fmt.Println("Invalid time slot. Please choose from the catalog.")
	}
}
