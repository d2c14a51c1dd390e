package escalate

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/robfig/cron/v3"

	"github.com/ahamdan1990/vms-frontend-sub004/config"
	"github.com/ahamdan1990/vms-frontend-sub004/internal/model"
	"github.com/ahamdan1990/vms-frontend-sub004/internal/notification"
	"github.com/ahamdan1990/vms-frontend-sub004/internal/schedule"
	"github.com/ahamdan1990/vms-frontend-sub004/internal/store"
)

// Service runs the escalation sweep: on every tick it evaluates the enabled
// rules against current bookings and checked-in visitors, raises alerts and
// hands them to the notification pool.
type Service struct {
	cfg        *config.Config
	store      store.Store
	counts     *store.BookingCountCache
	workerPool *notification.WorkerPool
	location   *time.Location
}

// NewService creates and initializes the escalation service.
func NewService(cfg *config.Config, st store.Store, counts *store.BookingCountCache) *Service {
	location, err := time.LoadLocation(cfg.Escalation.Timezone)
	if err != nil {
		log.Printf("Warning: invalid timezone %q: %v. Falling back to UTC.", cfg.Escalation.Timezone, err)
		location = time.UTC
	}

	webpushOptions := webpush.Options{
		VAPIDPublicKey:  cfg.Push.PublicKey,
		VAPIDPrivateKey: cfg.Push.PrivateKey,
		Subscriber:      cfg.Push.Subject,
		TTL:             cfg.Push.TTL,
	}

	workerPool := notification.NewWorkerPool(cfg.WorkerPool.Size, st.DB(), &webpushOptions)

	return &Service{
		cfg:        cfg,
		store:      st,
		counts:     counts,
		workerPool: workerPool,
		location:   location,
	}
}

// WorkerPool exposes the notification pool for testing.
func (s *Service) WorkerPool() *notification.WorkerPool {
	return s.workerPool
}

// Run starts the sweep on its cron schedule and blocks until ctx is done.
func (s *Service) Run(ctx context.Context) {
	if !s.cfg.Escalation.Enabled {
		log.Println("Escalation sweep is disabled. Not starting.")
		return
	}
	log.Println("Starting escalation service...")

	// Start the worker pool
	s.workerPool.Start(ctx)

	s.SweepOnce(ctx, time.Now().In(s.location))

	c := cron.New(cron.WithLocation(s.location))
	sweep := func() { s.SweepOnce(ctx, time.Now().In(s.location)) }
	if _, err := c.AddFunc(s.cfg.Escalation.Schedule, sweep); err != nil {
		log.Printf("Invalid escalation schedule %q: %v. Falling back to every minute.", s.cfg.Escalation.Schedule, err)
		if _, err := c.AddFunc("@every 1m", sweep); err != nil {
			log.Printf("Failed to schedule escalation sweep: %v", err)
			return
		}
	}
	c.Start()

	<-ctx.Done()
	log.Println("Escalation service shutting down.")
	<-c.Stop().Done()
}

// SweepOnce evaluates every enabled rule once for the given wall-clock time.
func (s *Service) SweepOnce(ctx context.Context, now time.Time) {
	log.Println("Executing escalation sweep...")

	rules, err := s.store.EnabledRules(ctx)
	if err != nil {
		log.Printf("Error fetching escalation rules: %v", err)
		return
	}

	var capacity, overstay []model.EscalationRule
	for _, rule := range rules {
		if !ruleActive(rule, now) {
			continue
		}
		switch rule.TriggerType {
		case model.TriggerCapacity:
			capacity = append(capacity, rule)
		case model.TriggerOverstay:
			overstay = append(overstay, rule)
		default:
			log.Printf("Skipping rule %d: unknown trigger type %q", rule.ID, rule.TriggerType)
		}
	}

	raised := s.sweepCapacity(ctx, capacity, now) + s.sweepOverstay(ctx, overstay, now)
	log.Printf("Escalation sweep finished: %d alerts raised.", raised)
}

// ruleActive applies the rule's own day mask and time window. A rule with no
// window is always live.
func ruleActive(rule model.EscalationRule, now time.Time) bool {
	if rule.ActiveDays != "" && !schedule.Applicable(true, rule.ActiveDays, now) {
		return false
	}
	if rule.StartTime == "" && rule.EndTime == "" {
		return true
	}
	window, err := schedule.ParseRange(rule.StartTime, rule.EndTime)
	if err != nil {
		log.Printf("Skipping rule %d: bad time window: %v", rule.ID, err)
		return false
	}
	return window.Contains(schedule.TimeOfDay{Hour: now.Hour(), Minute: now.Minute()})
}

// sweepCapacity raises an alert for every applicable slot whose utilization
// meets a rule's threshold.
func (s *Service) sweepCapacity(ctx context.Context, rules []model.EscalationRule, now time.Time) int {
	if len(rules) == 0 {
		return 0
	}
	date := now.Format("2006-01-02")

	slots, err := s.store.ApplicableSlots(ctx, now)
	if err != nil {
		log.Printf("Error fetching applicable slots: %v", err)
		return 0
	}
	counts, err := s.counts.Counts(ctx, date)
	if err != nil {
		log.Printf("Error fetching booking counts: %v", err)
		return 0
	}

	raisedTotal := 0
	for _, rule := range rules {
		for _, slot := range slots {
			if rule.LocationID != nil && (slot.LocationID == nil || *slot.LocationID != *rule.LocationID) {
				continue
			}

			booked := counts[schedule.BookingKey(slot.ID, now)]
			snapshot := schedule.Availability(slot.MaxVisitors, booked)
			if snapshot.UtilizationRatio < rule.ThresholdRatio {
				continue
			}

			slotID := slot.ID
			alert := &model.EscalationAlert{
				RuleID:   rule.ID,
				Severity: rule.Severity,
				Message: fmt.Sprintf("%s is at %.0f%% of capacity (%d of %d booked)",
					slot.Name, snapshot.UtilizationRatio*100, booked, slot.MaxVisitors),
				SlotID:      &slotID,
				LocationID:  slot.LocationID,
				SubjectKey:  fmt.Sprintf("%d_%d_%s", rule.ID, slot.ID, date),
				TriggeredAt: now,
			}
			if s.raise(ctx, rule, alert) {
				raisedTotal++
			}
		}
	}
	return raisedTotal
}

// sweepOverstay raises an alert for every checked-in visitor who is past the
// slot end plus buffer by at least the rule's threshold.
func (s *Service) sweepOverstay(ctx context.Context, rules []model.EscalationRule, now time.Time) int {
	if len(rules) == 0 {
		return 0
	}
	date := now.Format("2006-01-02")

	visits, err := s.store.CheckedInInvitations(ctx, date)
	if err != nil {
		log.Printf("Error fetching checked-in invitations: %v", err)
		return 0
	}

	raisedTotal := 0
	for _, rule := range rules {
		for _, visit := range visits {
			if rule.LocationID != nil && (visit.Slot.LocationID == nil || *visit.Slot.LocationID != *rule.LocationID) {
				continue
			}

			end, err := schedule.ParseTimeOfDay(visit.Slot.EndTime)
			if err != nil {
				log.Printf("Skipping visit %d: slot %d has a bad end time: %v", visit.ID, visit.SlotID, err)
				continue
			}
			visitEnd := time.Date(now.Year(), now.Month(), now.Day(), end.Hour, end.Minute, 0, 0, now.Location()).
				Add(time.Duration(visit.Slot.BufferMinutes) * time.Minute)

			over := now.Sub(visitEnd)
			if over < time.Duration(rule.ThresholdMinutes)*time.Minute {
				continue
			}

			slotID := visit.SlotID
			alert := &model.EscalationAlert{
				RuleID:   rule.ID,
				Severity: rule.Severity,
				Message: fmt.Sprintf("%s has overstayed %s by %d minutes",
					visit.VisitorName, visit.Slot.Name, int(over.Minutes())),
				SlotID:      &slotID,
				LocationID:  visit.Slot.LocationID,
				SubjectKey:  fmt.Sprintf("%d_%d_%s", rule.ID, visit.ID, date),
				TriggeredAt: now,
			}
			if s.raise(ctx, rule, alert) {
				raisedTotal++
			}
		}
	}
	return raisedTotal
}

// raise writes the alert through the store and dispatches push delivery when
// the rule asks for it. Deduplicated alerts are not redelivered.
func (s *Service) raise(ctx context.Context, rule model.EscalationRule, alert *model.EscalationAlert) bool {
	raised, err := s.store.RaiseAlert(ctx, alert)
	if err != nil {
		log.Printf("Error raising alert for rule %d: %v", rule.ID, err)
		return false
	}
	if !raised {
		return false
	}
	if rule.NotifyByPush {
		s.workerPool.Dispatch(alert.ID)
	}
	return true
}
