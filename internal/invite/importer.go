package invite

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ahamdan1990/vms-frontend-sub004/internal/model"
	"github.com/ahamdan1990/vms-frontend-sub004/internal/schedule"
	"github.com/ahamdan1990/vms-frontend-sub004/internal/store"
)

// Importer turns uploaded visitor spreadsheets into invitation rows. Lines
// that fail validation are reported and skipped; the remainder is written in
// one transaction. Imported invitations are created confirmed, so they count
// against slot capacity immediately.
type Importer struct {
	store  store.Store
	counts *store.BookingCountCache
}

// NewImporter creates an importer over the given store. The count cache may
// be nil when no cache should be invalidated (tests mostly).
func NewImporter(s store.Store, counts *store.BookingCountCache) *Importer {
	return &Importer{store: s, counts: counts}
}

// Import parses the workbook and persists every valid row.
func (im *Importer) Import(ctx context.Context, r io.Reader) (*Result, error) {
	rows, err := ParseWorkbook(r)
	if err != nil {
		return nil, err
	}

	index, err := im.store.SlotIndex(ctx)
	if err != nil {
		return nil, err
	}

	result := &Result{}
	var batch []model.Invitation
	touchedDates := map[string]struct{}{}

	for _, row := range rows {
		inv, reason := buildInvitation(row, index)
		if reason != "" {
			result.Skipped++
			result.Errors = append(result.Errors, RowError{Row: row.Num, Reason: reason})
			continue
		}
		batch = append(batch, inv)
		touchedDates[inv.VisitDate] = struct{}{}
	}

	if err := im.store.ImportInvitations(ctx, batch); err != nil {
		return nil, err
	}
	result.Imported = len(batch)

	if im.counts != nil {
		for date := range touchedDates {
			im.counts.Invalidate(date)
		}
	}
	return result, nil
}

// buildInvitation validates one row against the slot index and returns the
// invitation to insert, or a human-readable reason for skipping the row.
func buildInvitation(row Row, index map[string]model.TimeSlot) (model.Invitation, string) {
	if row.Visitor == "" {
		return model.Invitation{}, "visitor name is empty"
	}
	if !strings.Contains(row.Email, "@") {
		return model.Invitation{}, fmt.Sprintf("invalid email %q", row.Email)
	}

	slot, ok := index[strings.ToLower(row.SlotName)]
	if !ok {
		return model.Invitation{}, fmt.Sprintf("unknown slot %q", row.SlotName)
	}

	date, ok := NormalizeVisitDate(row.Date)
	if !ok {
		return model.Invitation{}, fmt.Sprintf("unparseable visit date %q", row.Date)
	}
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return model.Invitation{}, fmt.Sprintf("unparseable visit date %q", row.Date)
	}
	if !schedule.Applicable(slot.IsActive, slot.ActiveDays, day) {
		return model.Invitation{}, fmt.Sprintf("slot %q does not run on %s", slot.Name, date)
	}

	return model.Invitation{
		Code:         uuid.NewString(),
		VisitorName:  row.Visitor,
		VisitorEmail: row.Email,
		SlotID:       slot.ID,
		VisitDate:    date,
		Status:       model.InviteStatusConfirmed,
	}, ""
}
