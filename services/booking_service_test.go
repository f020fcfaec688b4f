package services

import (
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"railporter-server/apperrors"
	"railporter-server/database"
	"railporter-server/models"
)

// newMockDB swaps the global DB for a sqlmock-backed GORM handle.
// The returned cleanup restores nothing (each test installs its own).
func newMockDB(t *testing.T) (sqlmock.Sqlmock, func()) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}

	gdb, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 db,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("gorm.Open: %v", err)
	}

	database.DB = gdb
	return mock, func() { db.Close() }
}

func newTestBookingService() *BookingService {
	return NewBookingService(NewPorterMatcher(), NewNotificationService(), nil)
}

func bookingRow(id int, status string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "passenger_name", "phone", "station", "status"}).
		AddRow(id, "Asha Verma", "9876543210", "NDLS", status)
}

func assignedBookingRow(id int, status string, porterID int) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "passenger_name", "phone", "station", "status", "porter_id"}).
		AddRow(id, "Asha Verma", "9876543210", "NDLS", status, porterID)
}

func TestTransitionAllowed(t *testing.T) {
	cases := []struct {
		from, to    models.BookingStatus
		actor       ActorRole
		legal, auth bool
	}{
		{models.BookingStatusPending, models.BookingStatusAccepted, ActorRolePorter, true, true},
		{models.BookingStatusPending, models.BookingStatusDeclined, ActorRolePorter, true, true},
		{models.BookingStatusPending, models.BookingStatusAccepted, ActorRolePassenger, true, false},
		{models.BookingStatusPending, models.BookingStatusDeclined, ActorRolePassenger, true, false},
		{models.BookingStatusPending, models.BookingStatusAccepted, ActorRoleAdmin, true, true},
		{models.BookingStatusAccepted, models.BookingStatusCompleted, ActorRolePassenger, true, true},
		{models.BookingStatusAccepted, models.BookingStatusCompleted, ActorRolePorter, true, true},
		{models.BookingStatusPending, models.BookingStatusCompleted, ActorRolePorter, false, false},
		{models.BookingStatusDeclined, models.BookingStatusAccepted, ActorRolePorter, false, false},
		{models.BookingStatusCompleted, models.BookingStatusAccepted, ActorRolePorter, false, false},
		{models.BookingStatusAccepted, models.BookingStatusDeclined, ActorRolePorter, false, false},
	}

	for _, c := range cases {
		legal, auth := transitionAllowed(c.from, c.to, c.actor)
		if legal != c.legal || auth != c.auth {
			t.Fatalf("transitionAllowed(%s, %s, %s) = (%v, %v), want (%v, %v)",
				c.from, c.to, c.actor, legal, auth, c.legal, c.auth)
		}
	}
}

func TestTransitionStatusAccept(t *testing.T) {
	mock, closeDB := newMockDB(t)
	defer closeDB()
	svc := newTestBookingService()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "bookings"`)).
		WillReturnRows(assignedBookingRow(7, "pending", 3))
	mock.ExpectExec(`UPDATE "bookings" SET .+ WHERE id = \$\d+ AND status = \$\d+`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	// passenger notification
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "notifications"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	booking, err := svc.TransitionStatus(7, models.BookingStatusAccepted, ActorRolePorter, 3)
	if err != nil {
		t.Fatalf("TransitionStatus: %v", err)
	}
	if booking.Status != models.BookingStatusAccepted {
		t.Fatalf("status = %s, want accepted", booking.Status)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTransitionStatusCompleteStampsTimestamp(t *testing.T) {
	mock, closeDB := newMockDB(t)
	defer closeDB()
	svc := newTestBookingService()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "bookings"`)).
		WillReturnRows(bookingRow(7, "accepted"))
	mock.ExpectExec(`UPDATE "bookings"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	// completion notification plus review request
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "notifications"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "notifications"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))

	booking, err := svc.TransitionStatus(7, models.BookingStatusCompleted, ActorRolePassenger, 0)
	if err != nil {
		t.Fatalf("TransitionStatus: %v", err)
	}
	if booking.CompletedAt == nil {
		t.Fatal("CompletedAt not stamped on completion")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTransitionStatusIdempotentRepeat(t *testing.T) {
	mock, closeDB := newMockDB(t)
	defer closeDB()
	svc := newTestBookingService()

	// Already accepted: no UPDATE, no notification
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "bookings"`)).
		WillReturnRows(bookingRow(7, "accepted"))

	booking, err := svc.TransitionStatus(7, models.BookingStatusAccepted, ActorRolePorter, 3)
	if err != nil {
		t.Fatalf("TransitionStatus: %v", err)
	}
	if booking.Status != models.BookingStatusAccepted {
		t.Fatalf("status = %s, want accepted", booking.Status)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTransitionStatusLostRaceSameTarget(t *testing.T) {
	mock, closeDB := newMockDB(t)
	defer closeDB()
	svc := newTestBookingService()

	// The porter's other device accepted between our read and write. The
	// conditional UPDATE matches nothing and the re-read shows our target
	// already applied, so the call succeeds without renotifying.
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "bookings"`)).
		WillReturnRows(assignedBookingRow(7, "pending", 3))
	mock.ExpectExec(`UPDATE "bookings"`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "bookings"`)).
		WillReturnRows(assignedBookingRow(7, "accepted", 3))

	booking, err := svc.TransitionStatus(7, models.BookingStatusAccepted, ActorRolePorter, 3)
	if err != nil {
		t.Fatalf("TransitionStatus: %v", err)
	}
	if booking.Status != models.BookingStatusAccepted {
		t.Fatalf("status = %s, want accepted", booking.Status)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTransitionStatusLostRaceConflict(t *testing.T) {
	mock, closeDB := newMockDB(t)
	defer closeDB()
	svc := newTestBookingService()

	// The race winner declined while we tried to accept
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "bookings"`)).
		WillReturnRows(assignedBookingRow(7, "pending", 3))
	mock.ExpectExec(`UPDATE "bookings"`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "bookings"`)).
		WillReturnRows(assignedBookingRow(7, "declined", 3))

	_, err := svc.TransitionStatus(7, models.BookingStatusAccepted, ActorRolePorter, 3)
	if !apperrors.IsInvalidTransition(err) {
		t.Fatalf("err = %v, want InvalidTransitionError", err)
	}
}

func TestTransitionStatusTerminalRejected(t *testing.T) {
	mock, closeDB := newMockDB(t)
	defer closeDB()
	svc := newTestBookingService()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "bookings"`)).
		WillReturnRows(assignedBookingRow(7, "declined", 3))

	_, err := svc.TransitionStatus(7, models.BookingStatusAccepted, ActorRolePorter, 3)
	if !apperrors.IsInvalidTransition(err) {
		t.Fatalf("err = %v, want InvalidTransitionError", err)
	}
}

func TestTransitionStatusPassengerCannotAccept(t *testing.T) {
	mock, closeDB := newMockDB(t)
	defer closeDB()
	svc := newTestBookingService()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "bookings"`)).
		WillReturnRows(bookingRow(7, "pending"))

	_, err := svc.TransitionStatus(7, models.BookingStatusAccepted, ActorRolePassenger, 0)
	if err == nil {
		t.Fatal("expected auth error, got nil")
	}
	if apperrors.HTTPStatus(err) != 401 {
		t.Fatalf("HTTPStatus = %d, want 401", apperrors.HTTPStatus(err))
	}
}

func TestTransitionStatusOtherPorterRejected(t *testing.T) {
	mock, closeDB := newMockDB(t)
	defer closeDB()
	svc := newTestBookingService()

	// Booking is assigned to porter 5; porter 9 may not decide on it
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "bookings"`)).
		WillReturnRows(assignedBookingRow(7, "pending", 5))

	_, err := svc.TransitionStatus(7, models.BookingStatusAccepted, ActorRolePorter, 9)
	if err == nil {
		t.Fatal("expected auth error, got nil")
	}
	if apperrors.HTTPStatus(err) != 401 {
		t.Fatalf("HTTPStatus = %d, want 401", apperrors.HTTPStatus(err))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTransitionStatusAcceptClaimsUnassigned(t *testing.T) {
	mock, closeDB := newMockDB(t)
	defer closeDB()
	svc := newTestBookingService()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "bookings"`)).
		WillReturnRows(bookingRow(7, "pending"))
	mock.ExpectExec(`UPDATE "bookings"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "notifications"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	booking, err := svc.TransitionStatus(7, models.BookingStatusAccepted, ActorRolePorter, 9)
	if err != nil {
		t.Fatalf("TransitionStatus: %v", err)
	}
	if booking.PorterID == nil || *booking.PorterID != 9 {
		t.Fatalf("PorterID = %v, want 9", booking.PorterID)
	}
}

func TestTransitionStatusDeclineUnassignedRejected(t *testing.T) {
	mock, closeDB := newMockDB(t)
	defer closeDB()
	svc := newTestBookingService()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "bookings"`)).
		WillReturnRows(bookingRow(7, "pending"))

	_, err := svc.TransitionStatus(7, models.BookingStatusDeclined, ActorRolePorter, 9)
	if apperrors.HTTPStatus(err) != 401 {
		t.Fatalf("HTTPStatus = %d, want 401", apperrors.HTTPStatus(err))
	}
}

func TestTransitionStatusClaimLostToOtherPorter(t *testing.T) {
	mock, closeDB := newMockDB(t)
	defer closeDB()
	svc := newTestBookingService()

	// Two porters raced for an unassigned booking; porter 5 won the claim
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "bookings"`)).
		WillReturnRows(bookingRow(7, "pending"))
	mock.ExpectExec(`UPDATE "bookings"`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "bookings"`)).
		WillReturnRows(assignedBookingRow(7, "accepted", 5))

	_, err := svc.TransitionStatus(7, models.BookingStatusAccepted, ActorRolePorter, 9)
	if !apperrors.IsConflict(err) {
		t.Fatalf("err = %v, want ConflictError", err)
	}
}

func TestTransitionStatusUnknownBooking(t *testing.T) {
	mock, closeDB := newMockDB(t)
	defer closeDB()
	svc := newTestBookingService()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "bookings"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "status"}))

	_, err := svc.TransitionStatus(999, models.BookingStatusAccepted, ActorRolePorter, 3)
	if !apperrors.IsNotFound(err) {
		t.Fatalf("err = %v, want NotFoundError", err)
	}
}

func TestValidateBookingCreate(t *testing.T) {
	valid := models.BookingCreate{
		PassengerName: "Asha Verma",
		Phone:         "9876543210",
		PNR:           "8524167935",
		Station:       "NDLS",
		Bags:          2,
		WeightKg:      18,
	}
	if err := validateBookingCreate(&valid); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}

	bad := valid
	bad.Phone = "98765"
	if err := validateBookingCreate(&bad); err == nil {
		t.Fatal("short phone accepted")
	}

	bad = valid
	bad.Bags = 0
	if err := validateBookingCreate(&bad); err == nil {
		t.Fatal("zero bags accepted")
	}

	bad = valid
	bad.PassengerName = "   "
	if err := validateBookingCreate(&bad); err == nil {
		t.Fatal("blank name accepted")
	}
}

func TestNewReferenceCode(t *testing.T) {
	a := newReferenceCode()
	b := newReferenceCode()
	if len(a) != 10 || a[:2] != "RP" {
		t.Fatalf("reference code %q has wrong shape", a)
	}
	if a == b {
		t.Fatalf("reference codes collide: %s", a)
	}
}
