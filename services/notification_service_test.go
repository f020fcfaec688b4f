package services

import (
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"railporter-server/models"
)

func TestMarkReadIsIdempotent(t *testing.T) {
	mock, closeDB := newMockDB(t)
	defer closeDB()
	svc := NewNotificationService()

	// Unknown or already-read notification matches zero rows; still no error
	mock.ExpectExec(`UPDATE "notifications"`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := svc.MarkRead(999); err != nil {
		t.Fatalf("MarkRead on missing notification: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestListReturnsFeedWithUnreadCount(t *testing.T) {
	mock, closeDB := newMockDB(t)
	defer closeDB()
	svc := NewNotificationService()

	rows := sqlmock.NewRows([]string{"id", "actor_id", "actor_type", "type", "title", "is_read"}).
		AddRow(2, "9876543210", "passenger", models.NotificationBookingAccepted, "Porter Assigned", false).
		AddRow(1, "9876543210", "passenger", models.NotificationBookingCreated, "New Booking Request", true)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "notifications"`)).
		WillReturnRows(rows)
	mock.ExpectQuery(`SELECT count\(\*\) FROM "notifications"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	notifications, unread, err := svc.List("9876543210", models.ActorPassenger)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(notifications) != 2 {
		t.Fatalf("len = %d, want 2", len(notifications))
	}
	if notifications[0].ID != 2 {
		t.Fatalf("feed not newest-first: first id = %d", notifications[0].ID)
	}
	if unread != 1 {
		t.Fatalf("unread = %d, want 1", unread)
	}
}
