package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/ahamdan1990/vms-frontend-sub004/internal/model"
	"github.com/ahamdan1990/vms-frontend-sub004/internal/schedule"
)

// Store defines the database operations shared by the API layer, the Excel
// importer, and the escalation sweep. Simple per-row CRUD goes through DB()
// directly; the interface carries the multi-step operations worth mocking.
type Store interface {
	// ApplicableSlots returns the active slots whose day mask covers the
	// given calendar date.
	ApplicableSlots(ctx context.Context, date time.Time) ([]model.TimeSlot, error)

	// SlotIndex returns active slots keyed by lowercased name, for resolving
	// the slot column of imported spreadsheets.
	SlotIndex(ctx context.Context) (map[string]model.TimeSlot, error)

	// BookingCounts returns confirmed-invitation counts for one ISO date,
	// keyed "{slotID}_{date}". Slots without bookings are absent from the map.
	BookingCounts(ctx context.Context, date string) (map[string]int, error)

	// ImportInvitations persists a batch of invitations in one transaction.
	ImportInvitations(ctx context.Context, invitations []model.Invitation) error

	// CheckedInInvitations returns confirmed invitations for the date that
	// have checked in but not out, with their slot preloaded.
	CheckedInInvitations(ctx context.Context, date string) ([]model.Invitation, error)

	// EnabledRules returns every enabled escalation rule.
	EnabledRules(ctx context.Context) ([]model.EscalationRule, error)

	// RaiseAlert inserts the alert unless an unacknowledged alert with the
	// same subject key is already open. It reports whether a row was written.
	RaiseAlert(ctx context.Context, alert *model.EscalationAlert) (bool, error)

	// DB exposes the underlying handle for plain CRUD in handlers.
	DB() *gorm.DB
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) DB() *gorm.DB {
	return s.db
}

// ApplicableSlots fetches active slots and keeps those whose day mask covers
// the date's weekday. The mask is interpreted here rather than in SQL so the
// schedule package stays the single place that reads it.
func (s *gormStore) ApplicableSlots(ctx context.Context, date time.Time) ([]model.TimeSlot, error) {
	var slots []model.TimeSlot
	if err := s.db.WithContext(ctx).Where("is_active = ?", true).Find(&slots).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch active slots: %w", err)
	}

	applicable := make([]model.TimeSlot, 0, len(slots))
	for _, slot := range slots {
		if schedule.Applicable(slot.IsActive, slot.ActiveDays, date) {
			applicable = append(applicable, slot)
		}
	}
	return applicable, nil
}

func (s *gormStore) SlotIndex(ctx context.Context) (map[string]model.TimeSlot, error) {
	var slots []model.TimeSlot
	if err := s.db.WithContext(ctx).Where("is_active = ?", true).Find(&slots).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch slots for index: %w", err)
	}

	index := make(map[string]model.TimeSlot, len(slots))
	for _, slot := range slots {
		index[strings.ToLower(strings.TrimSpace(slot.Name))] = slot
	}
	return index, nil
}

// BookingCounts aggregates confirmed invitations per slot for one date.
func (s *gormStore) BookingCounts(ctx context.Context, date string) (map[string]int, error) {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, fmt.Errorf("%w: bad visit date %q", schedule.ErrInvalidFormat, date)
	}

	type countRow struct {
		SlotID int64
		Total  int
	}
	var rows []countRow
	if err := s.db.WithContext(ctx).
		Model(&model.Invitation{}).
		Select("slot_id, COUNT(*) AS total").
		Where("visit_date = ? AND status = ?", date, model.InviteStatusConfirmed).
		Group("slot_id").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate booking counts for %s: %w", date, err)
	}

	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[schedule.BookingKey(row.SlotID, day)] = row.Total
	}
	return counts, nil
}

func (s *gormStore) ImportInvitations(ctx context.Context, invitations []model.Invitation) error {
	if len(invitations) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&invitations).Error; err != nil {
			return fmt.Errorf("failed to import %d invitations: %w", len(invitations), err)
		}
		return nil
	})
}

func (s *gormStore) CheckedInInvitations(ctx context.Context, date string) ([]model.Invitation, error) {
	var invitations []model.Invitation
	err := s.db.WithContext(ctx).
		Preload("Slot").
		Where("visit_date = ? AND status = ? AND checked_in_at IS NOT NULL AND checked_out_at IS NULL",
			date, model.InviteStatusConfirmed).
		Find(&invitations).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch checked-in invitations for %s: %w", date, err)
	}
	return invitations, nil
}

func (s *gormStore) EnabledRules(ctx context.Context) ([]model.EscalationRule, error) {
	var rules []model.EscalationRule
	if err := s.db.WithContext(ctx).Where("enabled = ?", true).Find(&rules).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch enabled rules: %w", err)
	}
	return rules, nil
}

// RaiseAlert suppresses duplicates: while an alert for the same subject is
// open (not yet acknowledged), firing the rule again is a no-op.
func (s *gormStore) RaiseAlert(ctx context.Context, alert *model.EscalationAlert) (bool, error) {
	raised := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var open int64
		if err := tx.Model(&model.EscalationAlert{}).
			Where("subject_key = ? AND acknowledged = ?", alert.SubjectKey, false).
			Count(&open).Error; err != nil {
			return fmt.Errorf("failed to check open alerts for %q: %w", alert.SubjectKey, err)
		}
		if open > 0 {
			return nil
		}
		if err := tx.Create(alert).Error; err != nil {
			return fmt.Errorf("failed to create alert for %q: %w", alert.SubjectKey, err)
		}
		raised = true
		return nil
	})
	return raised, err
}
