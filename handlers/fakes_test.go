package handlers

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"novasphere.in/promat/models"
	"novasphere.in/promat/repository"
)

// In-memory stand-ins for the repository layer so the lifecycle,
// fan-out and scheduler logic can be exercised without a database.

type memRequirementStore struct {
	mu   sync.Mutex
	byID map[uuid.UUID]models.Requirement
}

func newMemRequirementStore() *memRequirementStore {
	return &memRequirementStore{byID: make(map[uuid.UUID]models.Requirement)}
}

func (s *memRequirementStore) GetByID(id uuid.UUID) (*models.Requirement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	req, ok := s.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := req
	return &out, nil
}

func (s *memRequirementStore) Create(req *models.Requirement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	s.byID[req.ID] = *req
	return nil
}

func (s *memRequirementStore) Update(req *models.Requirement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[req.ID]; !ok {
		return repository.ErrNotFound
	}
	s.byID[req.ID] = *req
	return nil
}

func (s *memRequirementStore) SoftDelete(id, actorID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.byID, id)
	return nil
}

type memRatingStore struct {
	mu      sync.Mutex
	ratings map[uuid.UUID]models.SupplierRating // keyed by rating ID
}

func newMemRatingStore() *memRatingStore {
	return &memRatingStore{ratings: make(map[uuid.UUID]models.SupplierRating)}
}

func (s *memRatingStore) GetByRequirementID(requirementID uuid.UUID) (*models.SupplierRating, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.ratings {
		if r.RequirementID == requirementID {
			out := r
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *memRatingStore) Create(rating *models.SupplierRating) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rating.ID == uuid.Nil {
		rating.ID = uuid.New()
	}
	s.ratings[rating.ID] = *rating
	return nil
}

func (s *memRatingStore) Update(id, supplierID uuid.UUID, score float64, actorID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.ratings[id]
	if !ok {
		return repository.ErrNotFound
	}
	r.SupplierID = supplierID
	r.Score = score
	r.UpdatedBy = actorID
	s.ratings[id] = r
	return nil
}

func (s *memRatingStore) SoftDeleteByRequirementID(requirementID, actorID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, r := range s.ratings {
		if r.RequirementID == requirementID {
			delete(s.ratings, id)
		}
	}
	return nil
}

func (s *memRatingStore) AverageForSupplier(supplierID uuid.UUID) (*float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var sum float64
	var n int
	for _, r := range s.ratings {
		if r.SupplierID == supplierID {
			sum += r.Score
			n++
		}
	}
	if n == 0 {
		return nil, nil
	}
	avg := sum / float64(n)
	return &avg, nil
}

func (s *memRatingStore) countForRequirement(requirementID uuid.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, r := range s.ratings {
		if r.RequirementID == requirementID {
			n++
		}
	}
	return n
}

type memSupplierStore struct {
	mu      sync.Mutex
	ratings map[uuid.UUID]*float64
}

func newMemSupplierStore() *memSupplierStore {
	return &memSupplierStore{ratings: make(map[uuid.UUID]*float64)}
}

func (s *memSupplierStore) SetRating(supplierID uuid.UUID, rating *float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ratings[supplierID] = rating
	return nil
}

func (s *memSupplierStore) current(supplierID uuid.UUID) *float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ratings[supplierID]
}

type recordedAction struct {
	action   string
	module   models.ModuleKind
	itemName string
	actorID  uuid.UUID
}

type recordingNotifier struct {
	mu      sync.Mutex
	actions []recordedAction
}

func (n *recordingNotifier) NotifyModuleAction(action string, module models.ModuleKind, itemName string, actorID uuid.UUID, actorName string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.actions = append(n.actions, recordedAction{action, module, itemName, actorID})
}

func (n *recordingNotifier) recorded() []recordedAction {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]recordedAction, len(n.actions))
	copy(out, n.actions)
	return out
}

// newTestRequirementService wires a service over the in-memory stores.
func newTestRequirementService() (*RequirementService, *memRequirementStore, *memRatingStore, *memSupplierStore, *recordingNotifier) {
	reqs := newMemRequirementStore()
	ratings := newMemRatingStore()
	suppliers := newMemSupplierStore()
	notifier := &recordingNotifier{}
	svc := &RequirementService{
		requirements: reqs,
		ratings:      ratings,
		suppliers:    suppliers,
		notifier:     notifier,
	}
	return svc, reqs, ratings, suppliers, notifier
}

// Fakes for the fan-out service.

type memNotificationStore struct {
	mu      sync.Mutex
	created []models.Notification
	failFor map[uuid.UUID]error
}

func newMemNotificationStore() *memNotificationStore {
	return &memNotificationStore{failFor: make(map[uuid.UUID]error)}
}

func (s *memNotificationStore) Create(n *models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err, ok := s.failFor[n.UserID]; ok {
		return err
	}
	s.created = append(s.created, *n)
	return nil
}

func (s *memNotificationStore) forUser(userID uuid.UUID) []models.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Notification
	for _, n := range s.created {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}

type memUserDirectory struct {
	mu    sync.Mutex
	users map[uuid.UUID]models.User
}

func newMemUserDirectory(users ...models.User) *memUserDirectory {
	d := &memUserDirectory{users: make(map[uuid.UUID]models.User)}
	for _, u := range users {
		d.users[u.ID] = u
	}
	return d
}

func (d *memUserDirectory) GetByID(id uuid.UUID) (*models.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	u, ok := d.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := u
	return &out, nil
}

func (d *memUserDirectory) ListActiveByRole(role string) ([]models.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []models.User
	for _, u := range d.users {
		if u.Role == role && u.IsActive {
			out = append(out, u)
		}
	}
	return out, nil
}

func testUser(role string) models.User {
	return models.User{
		ID:       uuid.New(),
		Name:     "user-" + role,
		Role:     role,
		IsActive: true,
	}
}

// Fakes for the scheduler.

type memAtRiskSource struct {
	mu    sync.Mutex
	items []models.AtRiskRequirement
	err   error
	calls int
}

func (s *memAtRiskSource) FindAtRisk(thresholdDays int, today time.Time) ([]models.AtRiskRequirement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	out := make([]models.AtRiskRequirement, len(s.items))
	copy(out, s.items)
	return out, nil
}

func (s *memAtRiskSource) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type alertKey struct {
	requirementID uuid.UUID
	userID        uuid.UUID
	day           string
}

type memAlertLogStore struct {
	mu   sync.Mutex
	sent map[alertKey]bool
	// dupOnCreate simulates a concurrent writer landing between the
	// pre-check and the insert: WasSentToday still reports false, but
	// every insert hits the uniqueness constraint.
	dupOnCreate bool
}

func newMemAlertLogStore() *memAlertLogStore {
	return &memAlertLogStore{sent: make(map[alertKey]bool)}
}

func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

func (s *memAlertLogStore) WasSentToday(requirementID, userID uuid.UUID, day time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dupOnCreate {
		return false, nil
	}
	return s.sent[alertKey{requirementID, userID, dayKey(day)}], nil
}

func (s *memAlertLogStore) Create(log *models.AlertLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := alertKey{log.RequirementID, log.UserID, dayKey(time.Time(log.AlertDate))}
	if s.dupOnCreate || s.sent[key] {
		return repository.ErrDuplicateAlert
	}
	s.sent[key] = true
	return nil
}

type sentAlert struct {
	userID uuid.UUID
	title  string
	typ    models.NotificationType
}

type memAlertNotifier struct {
	mu      sync.Mutex
	sent    []sentAlert
	failFor map[uuid.UUID]error
}

func newMemAlertNotifier() *memAlertNotifier {
	return &memAlertNotifier{failFor: make(map[uuid.UUID]error)}
}

func (n *memAlertNotifier) NotifyUser(userID uuid.UUID, title, message string, typ models.NotificationType, module models.ModuleKind) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err, ok := n.failFor[userID]; ok {
		return err
	}
	n.sent = append(n.sent, sentAlert{userID, title, typ})
	return nil
}

func (n *memAlertNotifier) sentAlerts() []sentAlert {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]sentAlert, len(n.sent))
	copy(out, n.sent)
	return out
}

var errStoreDown = errors.New("store unavailable")
