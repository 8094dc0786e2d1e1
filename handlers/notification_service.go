package handlers

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"novasphere.in/promat/config"
	"novasphere.in/promat/models"
	"novasphere.in/promat/repository"
)

// NotificationStore persists notification rows.
type NotificationStore interface {
	Create(n *models.Notification) error
}

// UserDirectory resolves notification recipients.
type UserDirectory interface {
	GetByID(id uuid.UUID) (*models.User, error)
	ListActiveByRole(role string) ([]models.User, error)
}

// NotificationService writes notifications and fans lifecycle events
// out to role-based audiences. Failures here are logged and never
// allowed to fail the business operation that triggered them.
type NotificationService struct {
	notifications NotificationStore
	users         UserDirectory
}

// NewNotificationService wires the service against the live database.
func NewNotificationService() *NotificationService {
	return &NotificationService{
		notifications: repository.NewNotificationRepo(config.DB),
		users:         repository.NewUserRepo(config.DB),
	}
}

var actionToType = map[string]models.NotificationType{
	"created": models.NotificationTypeInfo,
	"updated": models.NotificationTypeSuccess,
	"deleted": models.NotificationTypeWarning,
}

// NotifyUser writes one notification for one user. The returned error
// is informational for callers that need a success signal (the alert
// scheduler); business operations ignore it.
func (ns *NotificationService) NotifyUser(userID uuid.UUID, title, message string, typ models.NotificationType, module models.ModuleKind) error {
	if _, err := ns.users.GetByID(userID); err != nil {
		log.Printf("⚠️  Notification recipient %s not found: %v", userID, err)
		return fmt.Errorf("look up recipient %s: %w", userID, err)
	}

	moduleID := module.ID()
	n := &models.Notification{
		UserID:   userID,
		Title:    title,
		Message:  message,
		Type:     typ,
		ModuleID: &moduleID,
		IsActive: true,
	}
	if err := ns.notifications.Create(n); err != nil {
		log.Printf("❌ Failed to create notification for user %s: %v", userID, err)
		return err
	}
	return nil
}

// NotifyRoles notifies every active user holding any of the given
// roles, excluding the acting user, and returns how many notifications
// were created. Per-recipient failures are logged and skipped.
func (ns *NotificationService) NotifyRoles(roleNames []string, title, message string, typ models.NotificationType, module models.ModuleKind, excludeUserID uuid.UUID) int {
	created := 0
	seen := make(map[uuid.UUID]bool)

	for _, role := range roleNames {
		users, err := ns.users.ListActiveByRole(role)
		if err != nil {
			log.Printf("⚠️  Failed to list users with role %q: %v", role, err)
			continue
		}
		for _, u := range users {
			if u.ID == excludeUserID || seen[u.ID] {
				continue
			}
			seen[u.ID] = true
			if err := ns.NotifyUser(u.ID, title, message, typ, module); err == nil {
				created++
			}
		}
	}
	return created
}

// NotifyModuleAction fans a CRUD lifecycle event out to the roles
// interested in the module. Fire and forget: errors never propagate.
func (ns *NotificationService) NotifyModuleAction(action string, module models.ModuleKind, itemName string, actorID uuid.UUID, actorName string) {
	roles, ok := models.ModuleRoleInterest[module]
	if !ok || len(roles) == 0 {
		log.Printf("No notification rules for module: %s", module)
		return
	}

	typ, ok := actionToType[action]
	if !ok {
		typ = models.NotificationTypeInfo
	}

	title := fmt.Sprintf("%s %s by %s", module, capitalize(action), actorName)
	message := fmt.Sprintf("%s %q has been %s by %s at %s",
		module, itemName, action, actorName, time.Now().Format("2006-01-02 15:04:05"))

	created := ns.NotifyRoles(roles, title, message, typ, module, actorID)
	log.Printf("Created %d notification(s) for %s %s", created, module, action)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
