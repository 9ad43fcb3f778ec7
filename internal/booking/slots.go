package booking

// SlotKey identifies one fixed hourly teaching slot of a day.
type SlotKey string

// Catalog is the ordered set of valid teaching slots. Order matters only for
// display; membership is the authoritative check everywhere else.
var Catalog = []SlotKey{
	"08:00-09:00",
	"09:00-10:00",
	"10:00-11:00",
	"11:00-12:00",
	"12:00-13:00",
	"13:00-14:00",
	"14:00-15:00",
	"15:00-16:00",
	"16:00-17:00",
}

// ValidSlot reports whether slot is a member of the catalog.
func ValidSlot(slot SlotKey) bool {
	for _, s := range Catalog {
		if s == slot {
			return true
		}
	}
	return false
}

// SlotIndex returns the catalog position of slot, or -1 if it is not a
// catalog member.
func SlotIndex(slot SlotKey) int {
	for i, s := range Catalog {
		if s == slot {
			return i
		}
	}
	return -1
}
