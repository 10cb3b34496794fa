package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/Eursukkul/room-booking/internal/models"
	"github.com/go-pdf/fpdf"
)

const (
	marginLeft   = 15.0
	marginTop    = 15.0
	bottomLimit  = 282.0
	lineHeight   = 4.5
	minRowHeight = 7.0
	reasonWidth  = 50.0
)

type column struct {
	title string
	x     float64
	width float64
}

var columns = []column{
	{"TIME", marginLeft, 26},
	{"SPACE", 42, 38},
	{"USER", 82, 36},
	{"STATUS", 120, 24},
	{"REASON / REJECTION", 145, reasonWidth},
}

// RenderDailyPDF writes the agenda as an A4 PDF document.
func RenderDailyPDF(w io.Writer, agenda DailyAgenda) error {
	return buildDailyPDF(agenda).Output(w)
}

func buildDailyPDF(agenda DailyAgenda) *fpdf.Fpdf {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Daily agenda "+agenda.Day.Format("2006-01-02"), true)
	pdf.SetAutoPageBreak(false, 0)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pageWidth, _ := pdf.GetPageSize()

	pdf.AddPage()
	y := marginTop + 5

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Text(marginLeft, y, tr("Agenda – Daily Report"))
	y += 12

	pdf.SetFont("Helvetica", "", 11)
	for _, line := range agenda.Filters {
		pdf.Text(marginLeft, y, tr(line))
		y += 6
	}
	y += 5

	if agenda.Empty() {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Text(marginLeft, y, "No results for the selected filters.")
		return pdf
	}

	header := func(sector string) {
		pdf.SetFont("Helvetica", "B", 14)
		pdf.Text(marginLeft, y, tr("SECTOR: "+sector))
		y += 9
		pdf.SetFont("Helvetica", "B", 10)
		for _, c := range columns {
			pdf.Text(c.x, y, c.title)
		}
		y += 2
		pdf.Line(marginLeft, y, pageWidth-marginLeft, y)
		y += 5
		pdf.SetFont("Helvetica", "", 9)
	}

	for _, group := range agenda.Groups {
		if len(group.Reservations) == 0 {
			continue
		}
		if y > bottomLimit-30 {
			pdf.AddPage()
			y = marginTop + 5
		}
		header(group.Sector)

		for _, r := range group.Reservations {
			lines := reasonLines(pdf, tr, r)
			height := lineHeight * float64(len(lines))
			if height < minRowHeight {
				height = minRowHeight
			}

			pdf.Text(columns[0].x, y, tr(r.StartAt.Format("15:04")+"–"+r.EndAt.Format("15:04")))
			pdf.Text(columns[1].x, y, tr(truncate(spaceName(r), 20)))
			pdf.Text(columns[2].x, y, tr(truncate(userName(r), 20)))
			pdf.Text(columns[3].x, y, string(r.Status))
			for i, line := range lines {
				pdf.Text(columns[4].x, y+float64(i)*lineHeight, line)
			}
			y += height

			if y > bottomLimit {
				pdf.AddPage()
				y = marginTop + 5
				header(group.Sector + " (continued)")
			}
		}
		y += 8
	}
	return pdf
}

// reasonLines wraps the reason, followed by the rejection note, to the
// reason column width. Lines are returned translated for the core fonts.
func reasonLines(pdf *fpdf.Fpdf, tr func(string) string, r models.Reservation) []string {
	text := r.Reason
	if r.RejectionNote != nil && *r.RejectionNote != "" {
		text += "\nRejected: " + *r.RejectionNote
	}

	var out []string
	for _, paragraph := range strings.Split(text, "\n") {
		if paragraph == "" {
			continue
		}
		// SplitText indexes the core font width table by rune
		for _, line := range pdf.SplitText(latin1(paragraph), reasonWidth) {
			out = append(out, tr(line))
		}
	}
	if len(out) == 0 {
		out = []string{""}
	}
	return out
}

func spaceName(r models.Reservation) string {
	if r.Space == nil {
		return fmt.Sprintf("#%d", r.SpaceID)
	}
	return r.Space.Name
}

func userName(r models.Reservation) string {
	if r.User == nil {
		return fmt.Sprintf("#%d", r.UserID)
	}
	return r.User.Name
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func latin1(s string) string {
	return strings.Map(func(r rune) rune {
		if r > 0xFF {
			return '?'
		}
		return r
	}, s)
}
