// Package render draws day schedules as PNG images.
package render

import (
	"bytes"
	"fmt"
	"image/color"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"

	"github.com/campusops/roombooking/internal/booking"
	"github.com/campusops/roombooking/internal/report"
)

const (
	imageWidth   = 640
	headerHeight = 48
	rowHeight    = 40
	labelWidth   = 130
	rowPadding   = 4
	cornerRadius = 5.0
)

var (
	bgColor        = color.RGBA{245, 246, 248, 255}
	headerColor    = color.RGBA{80, 85, 90, 255}
	slotLabelColor = color.RGBA{110, 115, 120, 255}
	freeColor      = color.RGBA{133, 193, 85, 220}
	bookedColor    = color.RGBA{255, 182, 193, 255}
	freeTextColor  = color.RGBA{20, 24, 28, 230}
	busyTextColor  = color.RGBA{120, 40, 50, 255}
)

// DaySchedule draws one row per catalog slot: green for free, pink for
// booked with the course and professor printed inside the cell. Returns the
// encoded PNG.
func DaySchedule(title string, date booking.DateKey, statuses []report.SlotStatus) ([]byte, error) {
	height := headerHeight + rowHeight*len(statuses) + rowPadding
	dc := gg.NewContext(imageWidth, height)
	dc.SetFontFace(basicfont.Face7x13)

	dc.SetColor(bgColor)
	dc.Clear()

	dc.SetColor(headerColor)
	dc.DrawStringAnchored(fmt.Sprintf("%s — %s", title, date), imageWidth/2, headerHeight/2, 0.5, 0.5)

	for i, st := range statuses {
		top := float64(headerHeight + i*rowHeight)
		centerY := top + rowHeight/2

		dc.SetColor(slotLabelColor)
		dc.DrawStringAnchored(string(st.Slot), labelWidth/2, centerY, 0.5, 0.5)

		cellX := float64(labelWidth)
		cellW := float64(imageWidth - labelWidth - rowPadding)
		dc.DrawRoundedRectangle(cellX, top+rowPadding, cellW, rowHeight-2*rowPadding, cornerRadius)
		if st.Booked {
			dc.SetColor(bookedColor)
		} else {
			dc.SetColor(freeColor)
		}
		dc.Fill()

		label := "Available"
		dc.SetColor(freeTextColor)
		if st.Booked {
			label = fmt.Sprintf("%s — %s", st.CourseName, st.ProfessorName)
			if st.ProfessorName == "" {
				label = fmt.Sprintf("%s — %s", st.CourseName, st.ProfessorID)
			}
			dc.SetColor(busyTextColor)
		}
		dc.DrawStringAnchored(label, cellX+cellW/2, centerY, 0.5, 0.5)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode schedule png: %w", err)
	}
	return buf.Bytes(), nil
}
