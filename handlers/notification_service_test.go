package handlers

import (
	"strings"
	"testing"

	"github.com/google/uuid"

	"novasphere.in/promat/models"
)

func newTestNotificationService(users ...models.User) (*NotificationService, *memNotificationStore, *memUserDirectory) {
	store := newMemNotificationStore()
	dir := newMemUserDirectory(users...)
	ns := &NotificationService{notifications: store, users: dir}
	return ns, store, dir
}

func TestNotifyUserUnknownRecipient(t *testing.T) {
	ns, store, _ := newTestNotificationService()

	err := ns.NotifyUser(uuid.New(), "title", "message", models.NotificationTypeInfo, models.ModuleRequirement)
	if err == nil {
		t.Fatal("want error for unknown recipient")
	}
	if len(store.created) != 0 {
		t.Errorf("created %d notifications for unknown user, want 0", len(store.created))
	}
}

func TestNotifyUserStampsModuleID(t *testing.T) {
	u := testUser(models.RolePM)
	ns, store, _ := newTestNotificationService(u)

	if err := ns.NotifyUser(u.ID, "title", "message", models.NotificationTypeWarning, models.ModuleRequirement); err != nil {
		t.Fatalf("NotifyUser: %v", err)
	}

	got := store.forUser(u.ID)
	if len(got) != 1 {
		t.Fatalf("notifications = %d, want 1", len(got))
	}
	if got[0].ModuleID == nil || *got[0].ModuleID != models.ModuleRequirement.ID() {
		t.Errorf("module id = %v, want %d", got[0].ModuleID, models.ModuleRequirement.ID())
	}
	if got[0].Type != models.NotificationTypeWarning {
		t.Errorf("type = %q, want warning", got[0].Type)
	}
}

func TestNotifyRolesExcludesActorAndInactive(t *testing.T) {
	actor := testUser(models.RolePM)
	otherPM := testUser(models.RolePM)
	supervisor := testUser(models.RoleSupervisor)
	inactive := testUser(models.RoleSupervisor)
	inactive.IsActive = false

	ns, store, _ := newTestNotificationService(actor, otherPM, supervisor, inactive)

	created := ns.NotifyRoles([]string{models.RolePM, models.RoleSupervisor},
		"title", "message", models.NotificationTypeInfo, models.ModuleRequirement, actor.ID)

	if created != 2 {
		t.Errorf("created = %d, want 2", created)
	}
	if len(store.forUser(actor.ID)) != 0 {
		t.Error("actor received their own notification")
	}
	if len(store.forUser(inactive.ID)) != 0 {
		t.Error("inactive user received a notification")
	}
	if len(store.forUser(otherPM.ID)) != 1 || len(store.forUser(supervisor.ID)) != 1 {
		t.Error("expected recipients did not each get exactly one notification")
	}
}

func TestNotifyRolesDeduplicatesAcrossRoles(t *testing.T) {
	u := testUser(models.RolePM)
	ns, store, _ := newTestNotificationService(u)

	// The same role listed twice must not double-notify.
	created := ns.NotifyRoles([]string{models.RolePM, models.RolePM},
		"title", "message", models.NotificationTypeInfo, models.ModuleRequirement, uuid.New())

	if created != 1 {
		t.Errorf("created = %d, want 1", created)
	}
	if len(store.forUser(u.ID)) != 1 {
		t.Errorf("user got %d notifications, want 1", len(store.forUser(u.ID)))
	}
}

func TestNotifyRolesSkipsFailedRecipients(t *testing.T) {
	ok := testUser(models.RolePM)
	failing := testUser(models.RolePM)
	ns, store, _ := newTestNotificationService(ok, failing)
	store.failFor[failing.ID] = errStoreDown

	created := ns.NotifyRoles([]string{models.RolePM},
		"title", "message", models.NotificationTypeInfo, models.ModuleRequirement, uuid.New())

	if created != 1 {
		t.Errorf("created = %d, want 1 when one recipient fails", created)
	}
}

func TestNotifyModuleActionTyping(t *testing.T) {
	pm := testUser(models.RolePM)
	supervisor := testUser(models.RoleSupervisor)
	admin := testUser(models.RoleAdmin)
	actor := uuid.New()

	tests := []struct {
		action   string
		wantType models.NotificationType
	}{
		{"created", models.NotificationTypeInfo},
		{"updated", models.NotificationTypeSuccess},
		{"deleted", models.NotificationTypeWarning},
		{"archived", models.NotificationTypeInfo}, // unmapped actions default to info
	}
	for _, tt := range tests {
		ns, store, _ := newTestNotificationService(pm, supervisor, admin)

		ns.NotifyModuleAction(tt.action, models.ModuleRequirement, "Cement OPC 53", actor, "PM One")

		// Requirement events go to project managers and supervisors,
		// never plain admins.
		if len(store.forUser(admin.ID)) != 0 {
			t.Errorf("%s: admin notified about a requirement event", tt.action)
		}
		got := store.forUser(pm.ID)
		if len(got) != 1 {
			t.Fatalf("%s: pm notifications = %d, want 1", tt.action, len(got))
		}
		if got[0].Type != tt.wantType {
			t.Errorf("%s: type = %q, want %q", tt.action, got[0].Type, tt.wantType)
		}
		if !strings.Contains(got[0].Message, `"Cement OPC 53"`) {
			t.Errorf("%s: message %q missing item name", tt.action, got[0].Message)
		}
	}
}

func TestNotifyModuleActionMasterDataGoesToAdmins(t *testing.T) {
	pm := testUser(models.RolePM)
	admin := testUser(models.RoleAdmin)
	ns, store, _ := newTestNotificationService(pm, admin)

	ns.NotifyModuleAction("created", models.ModuleSupplier, "Acme Traders", uuid.New(), "Root")

	if len(store.forUser(admin.ID)) != 1 {
		t.Error("admin not notified about supplier master change")
	}
	if len(store.forUser(pm.ID)) != 0 {
		t.Error("pm notified about supplier master change")
	}
}
