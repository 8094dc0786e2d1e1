package handlers

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"novasphere.in/promat/config"
	"novasphere.in/promat/models"
	"novasphere.in/promat/repository"
)

// delayRiskSource finds requirements at risk of delay.
type delayRiskSource interface {
	FindAtRisk(thresholdDays int, today time.Time) ([]models.AtRiskRequirement, error)
}

// alertLogStore persists the per-day dedup marks.
type alertLogStore interface {
	WasSentToday(requirementID, userID uuid.UUID, day time.Time) (bool, error)
	Create(log *models.AlertLog) error
}

// alertNotifier delivers one alert to one user.
type alertNotifier interface {
	NotifyUser(userID uuid.UUID, title, message string, typ models.NotificationType, module models.ModuleKind) error
}

type schedulerState int

const (
	schedulerStopped schedulerState = iota
	schedulerRunning
)

// AlertScheduler periodically scans for requirements whose promised
// arrival is near while they are still undelivered, and alerts the
// creator at most once per requirement per day. One instance is owned
// by the bootstrap; Start and Stop are idempotent.
type AlertScheduler struct {
	mu    sync.Mutex
	state schedulerState
	stop  chan struct{}

	interval      time.Duration
	thresholdDays int

	requirements delayRiskSource
	alerts       alertLogStore
	notifier     alertNotifier
	now          func() time.Time
}

// NewAlertScheduler wires the scheduler against the live database with
// cadence and threshold from configuration.
func NewAlertScheduler() *AlertScheduler {
	return &AlertScheduler{
		interval:      config.AlertInterval(),
		thresholdDays: config.AlertThresholdDays(),
		requirements:  repository.NewRequirementRepo(config.DB),
		alerts:        repository.NewAlertLogRepo(config.DB),
		notifier:      NewNotificationService(),
		now:           time.Now,
	}
}

// Start launches the recurring alert run. Calling Start on a running
// scheduler is a no-op.
func (s *AlertScheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == schedulerRunning {
		log.Println("Alert scheduler is already running")
		return
	}
	s.stop = make(chan struct{})
	s.state = schedulerRunning
	go s.run(s.stop)
	log.Printf("📅 Alert scheduler started: every %s, threshold %d days", s.interval, s.thresholdDays)
}

// Stop cancels the timer. No new run starts after Stop returns; a run
// already in flight is allowed to finish. Stopping a stopped scheduler
// is a no-op.
func (s *AlertScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != schedulerRunning {
		return
	}
	close(s.stop)
	s.state = schedulerStopped
	log.Println("Alert scheduler stopped")
}

func (s *AlertScheduler) run(stop chan struct{}) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			s.tick()
		}
	}
}

// tick re-checks the state under the lock before doing any work: the
// ticker case can win the select against a just-closed stop channel,
// and Stop guarantees no new run begins once it has returned.
func (s *AlertScheduler) tick() {
	s.mu.Lock()
	running := s.state == schedulerRunning
	s.mu.Unlock()
	if !running {
		return
	}
	s.runTick()
}

type alertOutcome int

const (
	alertSent alertOutcome = iota
	alertSkipped
	alertFailed
)

// runTick executes one alert run. Failures on one requirement are
// logged and counted; they never abort the run or the scheduler.
func (s *AlertScheduler) runTick() (sent, skipped, failed int) {
	start := s.now()
	today := start

	atRisk, err := s.requirements.FindAtRisk(s.thresholdDays, today)
	if err != nil {
		log.Printf("❌ Delay risk query failed: %v", err)
		return 0, 0, 0
	}
	log.Printf("🔍 Found %d requirements arriving within %d days", len(atRisk), s.thresholdDays)

	for _, item := range atRisk {
		outcome, err := s.alertOne(item, today)
		switch outcome {
		case alertSent:
			sent++
		case alertSkipped:
			skipped++
		case alertFailed:
			failed++
			log.Printf("❌ Failed to send alert for requirement %s: %v", item.RequirementID, err)
		}
	}

	log.Printf("Alert run completed in %s: %d sent, %d skipped, %d failed",
		time.Since(start).Round(time.Millisecond), sent, skipped, failed)
	return sent, skipped, failed
}

// alertOne processes a single at-risk requirement: dedup check, tiered
// notification to the creator, then the dedup mark. The mark is only
// written after the notification succeeded, so a failed attempt is
// retried naturally on the next run. A duplicate-key failure on the
// mark means a concurrent writer already alerted today and counts as a
// skip.
func (s *AlertScheduler) alertOne(item models.AtRiskRequirement, today time.Time) (alertOutcome, error) {
	already, err := s.alerts.WasSentToday(item.RequirementID, item.CreatorID, today)
	if err != nil {
		return alertFailed, err
	}
	if already {
		return alertSkipped, nil
	}

	days := daysUntilArrival(today, item.ArrivedDate)
	title := fmt.Sprintf("⚠️ DELAY RISK: %s - Not Yet Delivered", item.MaterialName)
	message := formatAlertMessage(item, days)

	if err := s.notifier.NotifyUser(item.CreatorID, title, message, alertTier(days), models.ModuleRequirement); err != nil {
		return alertFailed, err
	}

	mark := &models.AlertLog{
		RequirementID: item.RequirementID,
		UserID:        item.CreatorID,
		AlertType:     models.AlertTypePreDelayWarning,
		AlertDate:     datatypes.Date(today),
	}
	if err := s.alerts.Create(mark); err != nil {
		if errors.Is(err, repository.ErrDuplicateAlert) {
			return alertSkipped, nil
		}
		return alertFailed, err
	}
	return alertSent, nil
}

// daysUntilArrival is the calendar-day distance from today to the
// promised arrival, ignoring the time-of-day component of both.
func daysUntilArrival(today, arrival time.Time) int {
	t := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	a := time.Date(arrival.Year(), arrival.Month(), arrival.Day(), 0, 0, 0, 0, time.UTC)
	return int(a.Sub(t) / (24 * time.Hour))
}

// alertTier grades an alert by how close the promised arrival is: due
// today is critical, due tomorrow is urgent, anything further out in
// the window is a warning.
func alertTier(daysUntil int) models.NotificationType {
	switch {
	case daysUntil <= 0:
		return models.NotificationTypeCritical
	case daysUntil == 1:
		return models.NotificationTypeUrgent
	default:
		return models.NotificationTypeWarning
	}
}

func formatAlertMessage(item models.AtRiskRequirement, daysUntil int) string {
	arrival := item.ArrivedDate.Format(dateLayout)

	var urgency string
	switch {
	case daysUntil <= 0:
		urgency = fmt.Sprintf("🚨 CRITICAL: The material was supposed to arrive today (%s) but is still NOT DELIVERED!", arrival)
	case daysUntil == 1:
		urgency = fmt.Sprintf("⚠️ URGENT: The material is scheduled to arrive tomorrow (%s) but is still NOT DELIVERED!", arrival)
	default:
		urgency = fmt.Sprintf("⚠️ WARNING: The material is scheduled to arrive in %d days (%s) but is still NOT DELIVERED!", daysUntil, arrival)
	}

	unit := item.Unit
	if unit == "" {
		unit = "units"
	}
	return fmt.Sprintf("%s Material: %q | Project: %q | Current Status: %s | Supplier: %s | Quantity: %d %s. "+
		"Please contact the supplier immediately to confirm the delivery status and prevent project delays.",
		urgency, item.MaterialName, item.ProjectName, item.Status, item.SupplierName, item.Quantity, unit)
}
