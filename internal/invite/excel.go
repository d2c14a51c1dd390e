package invite

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/ahamdan1990/vms-frontend-sub004/internal/model"
)

// ErrBadWorkbook marks uploads that cannot be parsed at all, as opposed to
// workbooks with individually bad rows.
var ErrBadWorkbook = errors.New("bad workbook")

// Column headers recognized by the importer, matched case-insensitively
// against the first row of the first worksheet.
const (
	headerVisitor = "visitor name"
	headerEmail   = "email"
	headerSlot    = "slot name"
	headerDate    = "visit date"
)

// Row is one spreadsheet line with cells trimmed. Num is the 1-based row
// number in the worksheet, kept for error reporting.
type Row struct {
	Num      int
	Visitor  string
	Email    string
	SlotName string
	Date     string
}

// RowError records why one line was skipped during import.
type RowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// Result summarizes an import run.
type Result struct {
	Imported int        `json:"imported"`
	Skipped  int        `json:"skipped"`
	Errors   []RowError `json:"errors,omitempty"`
}

// ParseWorkbook reads the first worksheet and extracts invitation rows.
// Structural problems (no sheet, no rows, missing required columns) are
// errors; per-row problems are left for the importer to judge.
func ParseWorkbook(r io.Reader) ([]Row, error) {
	file, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadWorkbook, err)
	}
	defer func() { _ = file.Close() }()

	sheetName := file.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("%w: no worksheet found", ErrBadWorkbook)
	}

	rows, err := file.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read worksheet %q: %v", ErrBadWorkbook, sheetName, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: worksheet is empty", ErrBadWorkbook)
	}

	headerIndex := map[string]int{}
	for i, header := range rows[0] {
		headerIndex[normalizeHeader(header)] = i
	}
	for _, required := range []string{headerVisitor, headerEmail, headerSlot, headerDate} {
		if _, ok := headerIndex[required]; !ok {
			return nil, fmt.Errorf("%w: missing required column: %s", ErrBadWorkbook, required)
		}
	}

	var out []Row
	for i, row := range rows[1:] {
		parsed := Row{
			Num:      i + 2, // worksheet rows are 1-based and the header is row 1
			Visitor:  cellValue(row, headerIndex[headerVisitor]),
			Email:    cellValue(row, headerIndex[headerEmail]),
			SlotName: cellValue(row, headerIndex[headerSlot]),
			Date:     cellValue(row, headerIndex[headerDate]),
		}
		if parsed.Visitor == "" && parsed.Email == "" && parsed.SlotName == "" && parsed.Date == "" {
			continue // blank line
		}
		out = append(out, parsed)
	}
	return out, nil
}

func normalizeHeader(header string) string {
	return strings.ToLower(strings.TrimSpace(header))
}

// cellValue tolerates short rows; excelize drops trailing empty cells.
func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// NormalizeVisitDate converts the supported date spellings to ISO 8601.
// Excel numeric serials are common when the column was typed as a date.
func NormalizeVisitDate(value string) (string, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}

	if serial, err := strconv.ParseFloat(value, 64); err == nil {
		// Guard the serial range so stray integers do not turn into
		// nineteenth-century dates.
		if serial >= 20000 && serial <= 80000 {
			if parsed, convErr := excelize.ExcelDateToTime(serial, false); convErr == nil {
				return parsed.Format("2006-01-02"), true
			}
		}
		return "", false
	}

	for _, layout := range []string{"2006-01-02", "2006/01/02", "01/02/2006", "1/2/2006"} {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed.Format("2006-01-02"), true
		}
	}
	return "", false
}

// BuildWorkbook renders invitations into a workbook with one sheet per visit
// date, dates in ascending order. Slots must be preloaded so the sheet can
// show the slot name rather than its id.
func BuildWorkbook(invitations []model.Invitation) (*excelize.File, error) {
	byDate := make(map[string][]model.Invitation)
	for _, inv := range invitations {
		byDate[inv.VisitDate] = append(byDate[inv.VisitDate], inv)
	}

	dates := make([]string, 0, len(byDate))
	for date := range byDate {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	file := excelize.NewFile()
	if len(dates) == 0 {
		return file, nil
	}

	if err := file.SetSheetName(file.GetSheetName(0), dates[0]); err != nil {
		return nil, fmt.Errorf("failed to name sheet %q: %w", dates[0], err)
	}
	for _, date := range dates[1:] {
		if _, err := file.NewSheet(date); err != nil {
			return nil, fmt.Errorf("failed to add sheet %q: %w", date, err)
		}
	}

	columns := []string{"Visitor Name", "Email", "Slot Name", "Visit Date", "Status", "Code"}
	for _, date := range dates {
		for col, title := range columns {
			if err := setCell(file, date, col+1, 1, title); err != nil {
				return nil, err
			}
		}
		for i, inv := range byDate[date] {
			values := []interface{}{inv.VisitorName, inv.VisitorEmail, inv.Slot.Name, inv.VisitDate, inv.Status, inv.Code}
			for col, v := range values {
				if err := setCell(file, date, col+1, i+2, v); err != nil {
					return nil, err
				}
			}
		}
	}
	return file, nil
}

func setCell(file *excelize.File, sheet string, col, row int, value interface{}) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Errorf("bad cell coordinates (%d, %d): %w", col, row, err)
	}
	if err := file.SetCellValue(sheet, cell, value); err != nil {
		return fmt.Errorf("failed to set cell %s!%s: %w", sheet, cell, err)
	}
	return nil
}
