package service

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/tourops/daily-list-service/internal/repository"
	"github.com/xuri/excelize/v2"
)

// RosterSection is the input for one (tour, time slot) table.
type RosterSection struct {
	TourTitle  string
	Date       string // YYYY-MM-DD
	Time       string
	GuideName  string
	Categories []string
	Bookings   []Booking
}

// ExportService builds styled roster workbooks from grouped data.
type ExportService struct {
	bookingRepo repository.BookingRepository
	policy      CategoryPolicy
}

func NewExportService(bookingRepo repository.BookingRepository, policy CategoryPolicy) *ExportService {
	return &ExportService{bookingRepo: bookingRepo, policy: policy}
}

// HistoricalCategories collects every participant category the
// activity has ever sold (policy applied), so categories absent from
// today's bookings still appear as zero columns.
func (e *ExportService) HistoricalCategories(ctx context.Context, activityID int64) ([]string, error) {
	rows, err := e.bookingRepo.FindHistoricalByActivity(ctx, activityID)
	if err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	var categories []string
	for _, row := range rows {
		for _, pcb := range row.PricingCategoryBookings {
			if !e.policy.Includes(row.ActivityID, pcb.PricingCategoryID, pcb.BookedTitle) {
				continue
			}
			if !seen[pcb.BookedTitle] {
				seen[pcb.BookedTitle] = true
				categories = append(categories, pcb.BookedTitle)
			}
		}
	}
	return SortCategories(categories), nil
}

// MergeCategories unions historical categories with the ones present
// today and re-sorts.
func MergeCategories(historical []string, bookings []Booking) []string {
	seen := map[string]bool{}
	var all []string
	for _, c := range historical {
		if !seen[c] {
			seen[c] = true
			all = append(all, c)
		}
	}
	for _, b := range bookings {
		for _, p := range b.Passengers {
			if !seen[p.BookedTitle] {
				seen[p.BookedTitle] = true
				all = append(all, p.BookedTitle)
			}
		}
	}
	return SortCategories(all)
}

var embeddedIntRe = regexp.MustCompile(`\d+`)

// SortCategories orders participant categories for the roster columns:
// anything containing "adult" (case-insensitive) first, the rest by
// largest embedded integer descending (oldest age first), ties broken
// alphabetically.
func SortCategories(categories []string) []string {
	out := append([]string(nil), categories...)

	maxInt := func(s string) int {
		max := -1
		for _, m := range embeddedIntRe.FindAllString(s, -1) {
			if n, err := strconv.Atoi(m); err == nil && n > max {
				max = n
			}
		}
		return max
	}

	sort.SliceStable(out, func(i, j int) bool {
		ai := strings.Contains(strings.ToLower(out[i]), "adult")
		aj := strings.Contains(strings.ToLower(out[j]), "adult")
		if ai != aj {
			return ai
		}
		if ai && aj {
			return out[i] < out[j]
		}
		ni, nj := maxInt(out[i]), maxInt(out[j])
		if ni != nj {
			return ni > nj
		}
		return out[i] < out[j]
	})
	return out
}

// RosterHeader is the fixed header row around the category columns.
func RosterHeader(categories []string) []string {
	header := []string{"Data", "Ora"}
	header = append(header, categories...)
	return append(header, "Nome e Cognome", "Telefono")
}

// RosterFileName builds "{tour} + {dd/MM/yyyy} + {HH.MM}.xlsx" with
// filesystem-unsafe characters replaced by "-" and time colons by ".".
func RosterFileName(tourTitle, date, slotTime string) string {
	name := fmt.Sprintf("%s + %s + %s.xlsx",
		tourTitle, FormatDate(date), strings.ReplaceAll(ShortTime(slotTime), ":", "."))
	return sanitizeFileName(name)
}

// ConsolidatedFileName builds "Services_{name}_{yyyy-MM-dd}.xlsx".
func ConsolidatedFileName(recipientName, date string) string {
	return sanitizeFileName(fmt.Sprintf("Services_%s_%s.xlsx",
		strings.ReplaceAll(recipientName, " ", "_"), date))
}

var unsafeFileChars = strings.NewReplacer(
	"/", "-", "\\", "-", ":", "-", "*", "-", "?", "-",
	"\"", "-", "<", "-", ">", "-", "|", "-",
)

func sanitizeFileName(name string) string {
	return unsafeFileChars.Replace(name)
}

type rosterStyles struct {
	title  int
	header int
	data   int
	total  int
}

func newRosterStyles(f *excelize.File) (rosterStyles, error) {
	var s rosterStyles
	var err error

	// Title band: bold white on blue, 18pt, merged
	s.title, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 18, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return s, err
	}

	// Header and totals sub-row: bold on gray
	s.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 13},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"D9D9D9"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return s, err
	}

	s.data, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Size: 13},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return s, err
	}

	// TOTAL PAX band: bold white on blue
	s.total, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 13, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	return s, err
}

// BuildRoster builds the per-slot workbook and returns the encoded
// buffer plus its filename.
func BuildRoster(section RosterSection) (*bytes.Buffer, string, error) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	styles, err := newRosterStyles(f)
	if err != nil {
		return nil, "", err
	}

	if _, err := writeRosterSection(f, sheet, styles, section, 1, rosterColumns(section.Categories)); err != nil {
		return nil, "", err
	}
	if err := setRosterColWidths(f, sheet, len(section.Categories)); err != nil {
		return nil, "", err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}
	return buf, RosterFileName(section.TourTitle, section.Date, section.Time), nil
}

// BuildConsolidatedRoster concatenates one table per service under a
// shared title band. Styling is applied per section at its absolute
// row offset; the column count is the maximum across sections.
func BuildConsolidatedRoster(recipientName, date string, sections []RosterSection) (*bytes.Buffer, string, error) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	styles, err := newRosterStyles(f)
	if err != nil {
		return nil, "", err
	}

	maxCategories := 0
	for _, section := range sections {
		if len(section.Categories) > maxCategories {
			maxCategories = len(section.Categories)
		}
	}
	cols := rosterColumns(nil) + maxCategories

	// Shared title band
	title := fmt.Sprintf("Services %s - %s", recipientName, FormatDate(date))
	if err := writeBandRow(f, sheet, styles.title, 1, cols, title); err != nil {
		return nil, "", err
	}

	row := 3
	for _, section := range sections {
		row, err = writeRosterSection(f, sheet, styles, section, row, cols)
		if err != nil {
			return nil, "", err
		}
		row++ // blank spacer between sections
	}

	if err := setRosterColWidths(f, sheet, maxCategories); err != nil {
		return nil, "", err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}
	return buf, ConsolidatedFileName(recipientName, date), nil
}

// rosterColumns is the total column count for a category set: Data,
// Ora, categories, Nome e Cognome, Telefono.
func rosterColumns(categories []string) int {
	return 4 + len(categories)
}

func writeBandRow(f *excelize.File, sheet string, styleID, row, cols int, value string) error {
	first, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(cols, row)
	if err != nil {
		return err
	}
	if err := f.SetCellValue(sheet, first, value); err != nil {
		return err
	}
	if err := f.MergeCell(sheet, first, last); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, first, last, styleID); err != nil {
		return err
	}
	return f.SetRowHeight(sheet, row, 28)
}

// writeRosterSection writes one table starting at startRow and returns
// the next free row.
func writeRosterSection(f *excelize.File, sheet string, styles rosterStyles, section RosterSection, startRow, totalCols int) (int, error) {
	title := fmt.Sprintf("%s - %s - %s", section.TourTitle, FormatDate(section.Date), ShortTime(section.Time))
	if err := writeBandRow(f, sheet, styles.title, startRow, totalCols, title); err != nil {
		return 0, err
	}

	header := RosterHeader(section.Categories)
	headerRow := startRow + 1
	if err := writeRow(f, sheet, headerRow, toAny(header)); err != nil {
		return 0, err
	}
	if err := styleRow(f, sheet, styles.header, headerRow, totalCols); err != nil {
		return 0, err
	}

	categoryTotals := make([]int, len(section.Categories))
	grandTotal := 0

	row := headerRow + 1
	for _, b := range section.Bookings {
		cells := []any{FormatDate(b.BookingDate), ShortTime(b.StartTime)}
		for i, cat := range section.Categories {
			count := 0
			for _, p := range b.Passengers {
				if p.BookedTitle == cat {
					count += p.Quantity
				}
			}
			categoryTotals[i] += count
			grandTotal += count
			cells = append(cells, count)
		}
		cells = append(cells, b.Customer.FullName(), customerPhone(b.Customer))
		if err := writeRow(f, sheet, row, cells); err != nil {
			return 0, err
		}
		if err := styleRow(f, sheet, styles.data, row, totalCols); err != nil {
			return 0, err
		}
		row++
	}

	// Participants sub-row: per-category sums on gray
	cells := []any{"Participants", ""}
	for _, total := range categoryTotals {
		cells = append(cells, total)
	}
	if err := writeRow(f, sheet, row, cells); err != nil {
		return 0, err
	}
	if err := styleRow(f, sheet, styles.header, row, totalCols); err != nil {
		return 0, err
	}
	row++

	// TOTAL PAX band with the guide label pair
	cells = []any{"TOTAL PAX", grandTotal, "guide", section.GuideName}
	if err := writeRow(f, sheet, row, cells); err != nil {
		return 0, err
	}
	if err := styleRow(f, sheet, styles.total, row, totalCols); err != nil {
		return 0, err
	}

	return row + 1, nil
}

func writeRow(f *excelize.File, sheet string, row int, cells []any) error {
	for i, v := range cells {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return err
		}
	}
	return nil
}

func styleRow(f *excelize.File, sheet string, styleID, row, cols int) error {
	first, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(cols, row)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, first, last, styleID)
}

func setRosterColWidths(f *excelize.File, sheet string, categories int) error {
	if err := f.SetColWidth(sheet, "A", "A", 14); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "B", "B", 10); err != nil {
		return err
	}
	if categories > 0 {
		firstCat, err := excelize.ColumnNumberToName(3)
		if err != nil {
			return err
		}
		lastCat, err := excelize.ColumnNumberToName(2 + categories)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, firstCat, lastCat, 16); err != nil {
			return err
		}
	}
	nameCol, err := excelize.ColumnNumberToName(3 + categories)
	if err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, nameCol, nameCol, 28); err != nil {
		return err
	}
	phoneCol, err := excelize.ColumnNumberToName(4 + categories)
	if err != nil {
		return err
	}
	return f.SetColWidth(sheet, phoneCol, phoneCol, 18)
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

func customerPhone(c *CustomerInfo) string {
	if c == nil {
		return ""
	}
	return c.Phone
}
