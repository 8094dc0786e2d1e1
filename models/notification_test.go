package models

import (
	"testing"
	"time"
)

func TestMarkAsRead(t *testing.T) {
	n := Notification{Title: "t", Message: "m", Type: NotificationTypeInfo}
	if n.IsRead || n.ReadAt != nil {
		t.Fatal("new notification must start unread")
	}

	before := time.Now()
	n.MarkAsRead()

	if !n.IsRead {
		t.Error("IsRead not set")
	}
	if n.ReadAt == nil {
		t.Fatal("ReadAt not stamped")
	}
	if n.ReadAt.Before(before) || n.ReadAt.After(time.Now()) {
		t.Errorf("ReadAt = %v, outside call window", n.ReadAt)
	}
}
