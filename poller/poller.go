// Package poller implements the client-side waiting loops the mobile and
// web frontends rely on: a passenger watcher that waits for the porter's
// decision on a fresh booking, and a porter poller that keeps a porter's
// work queues current. Both are also exercised server-side by the
// websocket bridge, which runs a watcher per subscriber.
package poller

import (
	"context"
	"log"
	"time"

	"railporter-server/models"
)

// BookingFetcher loads the current state of one booking
type BookingFetcher interface {
	GetBooking(id uint) (*models.Booking, error)
}

// PorterBookingsFetcher loads a porter's bookings filtered by status
type PorterBookingsFetcher interface {
	ListBookingsForPorter(porterID uint, status models.BookingStatus) ([]models.Booking, error)
}

// WatchOutcome is the terminal result of watching a pending booking
type WatchOutcome string

const (
	OutcomeAccepted WatchOutcome = "accepted"
	OutcomeDeclined WatchOutcome = "declined"
	OutcomeTimeout  WatchOutcome = "timeout"
)

// BookingStatusWatcher waits for a booking to leave the pending state
type BookingStatusWatcher interface {
	Watch(ctx context.Context, bookingID uint) (WatchOutcome, *models.Booking, error)
}

// PollingWatcher polls a booking until the porter decides or the wait
// times out. Timing out never touches the booking; it stays pending.
type PollingWatcher struct {
	Fetcher  BookingFetcher
	Interval time.Duration
	Timeout  time.Duration
}

// NewPollingWatcher builds a watcher with the production cadence:
// check every 2 seconds, give up after 5 minutes.
func NewPollingWatcher(fetcher BookingFetcher) *PollingWatcher {
	return &PollingWatcher{
		Fetcher:  fetcher,
		Interval: 2 * time.Second,
		Timeout:  5 * time.Minute,
	}
}

// Watch polls until the booking is accepted or declined, the timeout
// elapses, or ctx is cancelled. Transient fetch errors are tolerated
// and the next tick retries.
func (w *PollingWatcher) Watch(ctx context.Context, bookingID uint) (WatchOutcome, *models.Booking, error) {
	deadline := time.NewTimer(w.Timeout)
	defer deadline.Stop()
	ticker := time.NewTicker(w.Interval)
	defer ticker.Stop()

	// Check once up front so an already-decided booking returns without
	// waiting a full interval.
	if outcome, booking, done := w.check(bookingID); done {
		return outcome, booking, nil
	}

	for {
		select {
		case <-ctx.Done():
			return "", nil, ctx.Err()
		case <-deadline.C:
			return OutcomeTimeout, nil, nil
		case <-ticker.C:
			if outcome, booking, done := w.check(bookingID); done {
				return outcome, booking, nil
			}
		}
	}
}

func (w *PollingWatcher) check(bookingID uint) (WatchOutcome, *models.Booking, bool) {
	booking, err := w.Fetcher.GetBooking(bookingID)
	if err != nil {
		log.Printf("⚠️ Booking watch poll failed for %d: %v", bookingID, err)
		return "", nil, false
	}
	switch booking.Status {
	case models.BookingStatusAccepted, models.BookingStatusCompleted:
		return OutcomeAccepted, booking, true
	case models.BookingStatusDeclined:
		return OutcomeDeclined, booking, true
	default:
		return "", nil, false
	}
}

// QueueSnapshot is one refresh of a porter's work queues
type QueueSnapshot struct {
	Pending   []models.Booking `json:"pending"`
	Accepted  []models.Booking `json:"accepted"`
	Completed []models.Booking `json:"completed"`
}

// PorterPoller periodically refreshes a porter's booking queues and
// delivers snapshots to a callback. A failed refresh is logged and the
// previous snapshot stands until the next tick.
type PorterPoller struct {
	Fetcher  PorterBookingsFetcher
	Interval time.Duration
}

// NewPorterPoller builds a poller with the production 5 second cadence
func NewPorterPoller(fetcher PorterBookingsFetcher) *PorterPoller {
	return &PorterPoller{
		Fetcher:  fetcher,
		Interval: 5 * time.Second,
	}
}

// Snapshot fetches the porter's queues once
func (p *PorterPoller) Snapshot(porterID uint) (*QueueSnapshot, error) {
	pending, err := p.Fetcher.ListBookingsForPorter(porterID, models.BookingStatusPending)
	if err != nil {
		return nil, err
	}
	accepted, err := p.Fetcher.ListBookingsForPorter(porterID, models.BookingStatusAccepted)
	if err != nil {
		return nil, err
	}
	completed, err := p.Fetcher.ListBookingsForPorter(porterID, models.BookingStatusCompleted)
	if err != nil {
		return nil, err
	}
	return &QueueSnapshot{Pending: pending, Accepted: accepted, Completed: completed}, nil
}

// Run polls until ctx is cancelled, pushing each snapshot to deliver
func (p *PorterPoller) Run(ctx context.Context, porterID uint, deliver func(*QueueSnapshot)) {
	ticker := time.NewTicker(p.Interval)
	defer ticker.Stop()

	for {
		snapshot, err := p.Snapshot(porterID)
		if err != nil {
			log.Printf("⚠️ Porter %d queue refresh failed: %v", porterID, err)
		} else {
			deliver(snapshot)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
