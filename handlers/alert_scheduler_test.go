package handlers

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"novasphere.in/promat/models"
)

func newTestScheduler(source *memAtRiskSource, alerts *memAlertLogStore, notifier *memAlertNotifier, now time.Time) *AlertScheduler {
	return &AlertScheduler{
		interval:      time.Hour,
		thresholdDays: 3,
		requirements:  source,
		alerts:        alerts,
		notifier:      notifier,
		now:           func() time.Time { return now },
	}
}

func atRiskItem(creatorID uuid.UUID, arrival time.Time) models.AtRiskRequirement {
	return models.AtRiskRequirement{
		RequirementID: uuid.New(),
		MaterialName:  "Cement OPC 53",
		ProjectName:   "Tower A",
		SupplierName:  "Acme Traders",
		Status:        models.StatusOrdered,
		Quantity:      100,
		Unit:          "bags",
		ArrivedDate:   arrival,
		CreatorID:     creatorID,
	}
}

func TestAlertTierBoundaries(t *testing.T) {
	tests := []struct {
		daysUntil int
		want      models.NotificationType
	}{
		{-2, models.NotificationTypeCritical},
		{0, models.NotificationTypeCritical},
		{1, models.NotificationTypeUrgent},
		{2, models.NotificationTypeWarning},
		{3, models.NotificationTypeWarning},
	}
	for _, tt := range tests {
		if got := alertTier(tt.daysUntil); got != tt.want {
			t.Errorf("alertTier(%d) = %q, want %q", tt.daysUntil, got, tt.want)
		}
	}
}

func TestDaysUntilArrivalIgnoresTimeOfDay(t *testing.T) {
	today := time.Date(2026, 9, 10, 23, 45, 0, 0, time.UTC)
	arrival := time.Date(2026, 9, 11, 0, 30, 0, 0, time.UTC)
	if got := daysUntilArrival(today, arrival); got != 1 {
		t.Errorf("daysUntilArrival = %d, want 1", got)
	}
	if got := daysUntilArrival(today, today); got != 0 {
		t.Errorf("same day = %d, want 0", got)
	}
}

func TestFormatAlertMessageWording(t *testing.T) {
	item := atRiskItem(uuid.New(), time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC))

	tests := []struct {
		daysUntil int
		marker    string
	}{
		{0, "CRITICAL: The material was supposed to arrive today"},
		{1, "URGENT: The material is scheduled to arrive tomorrow"},
		{3, "WARNING: The material is scheduled to arrive in 3 days"},
	}
	for _, tt := range tests {
		msg := formatAlertMessage(item, tt.daysUntil)
		if !strings.Contains(msg, tt.marker) {
			t.Errorf("daysUntil=%d: message %q missing %q", tt.daysUntil, msg, tt.marker)
		}
		if !strings.Contains(msg, `Material: "Cement OPC 53"`) || !strings.Contains(msg, "100 bags") {
			t.Errorf("daysUntil=%d: message %q missing requirement details", tt.daysUntil, msg)
		}
	}

	// Empty unit falls back to a generic word.
	item.Unit = ""
	if msg := formatAlertMessage(item, 2); !strings.Contains(msg, "100 units") {
		t.Errorf("message %q missing unit fallback", msg)
	}
}

func TestRunTickSendsOncePerDay(t *testing.T) {
	now := time.Date(2026, 9, 10, 9, 0, 0, 0, time.UTC)
	creator := uuid.New()
	source := &memAtRiskSource{items: []models.AtRiskRequirement{
		atRiskItem(creator, now),                  // due today
		atRiskItem(creator, now.AddDate(0, 0, 2)), // due in two days
	}}
	alerts := newMemAlertLogStore()
	notifier := newMemAlertNotifier()
	s := newTestScheduler(source, alerts, notifier, now)

	sent, skipped, failed := s.runTick()
	if sent != 2 || skipped != 0 || failed != 0 {
		t.Fatalf("first run = (%d, %d, %d), want (2, 0, 0)", sent, skipped, failed)
	}

	got := notifier.sentAlerts()
	if len(got) != 2 {
		t.Fatalf("alerts sent = %d, want 2", len(got))
	}
	if got[0].typ != models.NotificationTypeCritical {
		t.Errorf("due-today alert type = %q, want critical", got[0].typ)
	}
	if got[1].typ != models.NotificationTypeWarning {
		t.Errorf("due-in-2-days alert type = %q, want warning", got[1].typ)
	}

	// Same day, later run: everything deduplicates.
	sent, skipped, failed = s.runTick()
	if sent != 0 || skipped != 2 || failed != 0 {
		t.Errorf("second run = (%d, %d, %d), want (0, 2, 0)", sent, skipped, failed)
	}
	if len(notifier.sentAlerts()) != 2 {
		t.Errorf("alerts sent after rerun = %d, want still 2", len(notifier.sentAlerts()))
	}
}

func TestRunTickNextDaySendsAgain(t *testing.T) {
	now := time.Date(2026, 9, 10, 9, 0, 0, 0, time.UTC)
	creator := uuid.New()
	source := &memAtRiskSource{items: []models.AtRiskRequirement{
		atRiskItem(creator, now.AddDate(0, 0, 1)),
	}}
	alerts := newMemAlertLogStore()
	notifier := newMemAlertNotifier()

	s := newTestScheduler(source, alerts, notifier, now)
	if sent, _, _ := s.runTick(); sent != 1 {
		t.Fatalf("day one sent = %d, want 1", sent)
	}

	// The calendar day rolls over; the same requirement alerts again,
	// now due today.
	s.now = func() time.Time { return now.AddDate(0, 0, 1) }
	sent, skipped, _ := s.runTick()
	if sent != 1 || skipped != 0 {
		t.Fatalf("day two = (%d sent, %d skipped), want (1, 0)", sent, skipped)
	}
	got := notifier.sentAlerts()
	if got[1].typ != models.NotificationTypeCritical {
		t.Errorf("day-two alert type = %q, want critical", got[1].typ)
	}
}

func TestRunTickIsolatesFailures(t *testing.T) {
	now := time.Date(2026, 9, 10, 9, 0, 0, 0, time.UTC)
	okCreator := uuid.New()
	badCreator := uuid.New()
	source := &memAtRiskSource{items: []models.AtRiskRequirement{
		atRiskItem(badCreator, now),
		atRiskItem(okCreator, now),
	}}
	alerts := newMemAlertLogStore()
	notifier := newMemAlertNotifier()
	notifier.failFor[badCreator] = errStoreDown

	s := newTestScheduler(source, alerts, notifier, now)
	sent, skipped, failed := s.runTick()
	if sent != 1 || skipped != 0 || failed != 1 {
		t.Fatalf("run = (%d, %d, %d), want (1, 0, 1)", sent, skipped, failed)
	}

	// The failed alert left no dedup mark, so the next run retries it.
	delete(notifier.failFor, badCreator)
	sent, skipped, failed = s.runTick()
	if sent != 1 || skipped != 1 || failed != 0 {
		t.Errorf("retry run = (%d, %d, %d), want (1, 1, 0)", sent, skipped, failed)
	}
}

func TestAlertOneSkipsOnExistingMark(t *testing.T) {
	now := time.Date(2026, 9, 10, 9, 0, 0, 0, time.UTC)
	creator := uuid.New()
	item := atRiskItem(creator, now)
	alerts := newMemAlertLogStore()
	notifier := newMemAlertNotifier()
	s := newTestScheduler(&memAtRiskSource{}, alerts, notifier, now)

	// The pre-check sees today's mark and bails out before notifying.
	alerts.sent[alertKey{item.RequirementID, creator, dayKey(now)}] = true
	outcome, err := s.alertOne(item, now)
	if outcome != alertSkipped || err != nil {
		t.Errorf("existing mark: outcome = %v, err = %v, want skip", outcome, err)
	}
	if len(notifier.sentAlerts()) != 0 {
		t.Errorf("notified despite existing mark")
	}
}

func TestRunTickTreatsDuplicateInsertAsSkip(t *testing.T) {
	now := time.Date(2026, 9, 10, 9, 0, 0, 0, time.UTC)
	creator := uuid.New()
	item := atRiskItem(creator, now)
	source := &memAtRiskSource{items: []models.AtRiskRequirement{item}}
	alerts := newMemAlertLogStore()
	notifier := newMemAlertNotifier()
	s := newTestScheduler(source, alerts, notifier, now)

	// A concurrent writer lands between the pre-check and the insert:
	// the check reports nothing sent, the insert hits the uniqueness
	// constraint. The run must count a skip, not a failure.
	alerts.dupOnCreate = true
	sent, skipped, failed := s.runTick()
	if sent != 0 || skipped != 1 || failed != 0 {
		t.Fatalf("run = (%d, %d, %d), want (0, 1, 0)", sent, skipped, failed)
	}
	if n := len(notifier.sentAlerts()); n != 1 {
		t.Errorf("notifications = %d, want the single attempt before the constraint fired", n)
	}
}

func TestRunTickAbortsWhenQueryFails(t *testing.T) {
	source := &memAtRiskSource{err: errStoreDown}
	s := newTestScheduler(source, newMemAlertLogStore(), newMemAlertNotifier(), time.Now())

	sent, skipped, failed := s.runTick()
	if sent != 0 || skipped != 0 || failed != 0 {
		t.Errorf("run = (%d, %d, %d), want all zero when the query fails", sent, skipped, failed)
	}
}

func TestStartStopIdempotent(t *testing.T) {
	source := &memAtRiskSource{}
	s := newTestScheduler(source, newMemAlertLogStore(), newMemAlertNotifier(), time.Now())

	s.Start()
	s.Start() // second Start is a no-op
	s.Stop()
	s.Stop() // second Stop is a no-op
	s.Start()
	s.Stop()
}

func TestTickAfterStopDoesNothing(t *testing.T) {
	source := &memAtRiskSource{}
	s := newTestScheduler(source, newMemAlertLogStore(), newMemAlertNotifier(), time.Now())

	s.Start()
	s.Stop()

	// A ticker fire racing Stop re-checks state and bails out.
	s.tick()
	if n := source.callCount(); n != 0 {
		t.Errorf("delay risk query ran %d times after Stop, want 0", n)
	}
}
