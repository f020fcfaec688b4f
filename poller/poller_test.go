package poller

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"railporter-server/models"
)

// fakeFetcher serves a scripted sequence of booking states
type fakeFetcher struct {
	mu     sync.Mutex
	states []models.BookingStatus
	errs   []error
	calls  int
}

func (f *fakeFetcher) GetBooking(id uint) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.calls
	f.calls++
	if i < len(f.errs) && f.errs[i] != nil {
		return nil, f.errs[i]
	}
	status := f.states[len(f.states)-1]
	if i < len(f.states) {
		status = f.states[i]
	}
	return &models.Booking{ID: id, Status: status}, nil
}

func fastWatcher(f *fakeFetcher, timeout time.Duration) *PollingWatcher {
	return &PollingWatcher{
		Fetcher:  f,
		Interval: time.Millisecond,
		Timeout:  timeout,
	}
}

func TestWatchResolvesOnAccept(t *testing.T) {
	f := &fakeFetcher{states: []models.BookingStatus{
		models.BookingStatusPending,
		models.BookingStatusPending,
		models.BookingStatusAccepted,
	}}
	w := fastWatcher(f, time.Second)

	outcome, booking, err := w.Watch(context.Background(), 42)
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	if outcome != OutcomeAccepted {
		t.Fatalf("outcome = %s, want accepted", outcome)
	}
	if booking == nil || booking.Status != models.BookingStatusAccepted {
		t.Fatalf("booking = %+v, want accepted", booking)
	}
}

func TestWatchResolvesOnDecline(t *testing.T) {
	f := &fakeFetcher{states: []models.BookingStatus{
		models.BookingStatusPending,
		models.BookingStatusDeclined,
	}}
	w := fastWatcher(f, time.Second)

	outcome, _, err := w.Watch(context.Background(), 42)
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	if outcome != OutcomeDeclined {
		t.Fatalf("outcome = %s, want declined", outcome)
	}
}

func TestWatchTimesOutWithoutTouchingBooking(t *testing.T) {
	f := &fakeFetcher{states: []models.BookingStatus{models.BookingStatusPending}}
	w := fastWatcher(f, 20*time.Millisecond)

	outcome, booking, err := w.Watch(context.Background(), 42)
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	if outcome != OutcomeTimeout {
		t.Fatalf("outcome = %s, want timeout", outcome)
	}
	if booking != nil {
		t.Fatalf("timeout returned a booking: %+v", booking)
	}
}

func TestWatchStopsOnContextCancel(t *testing.T) {
	f := &fakeFetcher{states: []models.BookingStatus{models.BookingStatusPending}}
	w := fastWatcher(f, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, _, err := w.Watch(ctx, 42)
		done <- err
	}()

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("err = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Watch did not stop after cancel")
	}
}

func TestWatchToleratesTransientErrors(t *testing.T) {
	f := &fakeFetcher{
		states: []models.BookingStatus{
			models.BookingStatusPending,
			models.BookingStatusPending,
			models.BookingStatusAccepted,
		},
		errs: []error{nil, errors.New("connection reset"), nil},
	}
	w := fastWatcher(f, time.Second)

	outcome, _, err := w.Watch(context.Background(), 42)
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	if outcome != OutcomeAccepted {
		t.Fatalf("outcome = %s, want accepted after transient error", outcome)
	}
}

// fakeQueueFetcher serves fixed queues per status
type fakeQueueFetcher struct {
	byStatus map[models.BookingStatus][]models.Booking
	err      error
}

func (f *fakeQueueFetcher) ListBookingsForPorter(porterID uint, status models.BookingStatus) ([]models.Booking, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byStatus[status], nil
}

func TestPorterPollerSnapshot(t *testing.T) {
	f := &fakeQueueFetcher{byStatus: map[models.BookingStatus][]models.Booking{
		models.BookingStatusPending:  {{ID: 1}, {ID: 2}},
		models.BookingStatusAccepted: {{ID: 3}},
	}}
	p := NewPorterPoller(f)

	snap, err := p.Snapshot(9)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if len(snap.Pending) != 2 || len(snap.Accepted) != 1 || len(snap.Completed) != 0 {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
}

func TestPorterPollerRunDeliversAndStops(t *testing.T) {
	f := &fakeQueueFetcher{byStatus: map[models.BookingStatus][]models.Booking{
		models.BookingStatusPending: {{ID: 1}},
	}}
	p := &PorterPoller{Fetcher: f, Interval: time.Millisecond}

	ctx, cancel := context.WithCancel(context.Background())
	delivered := make(chan *QueueSnapshot, 1)
	done := make(chan struct{})
	go func() {
		p.Run(ctx, 9, func(s *QueueSnapshot) {
			select {
			case delivered <- s:
			default:
			}
		})
		close(done)
	}()

	select {
	case snap := <-delivered:
		if len(snap.Pending) != 1 {
			t.Fatalf("unexpected snapshot: %+v", snap)
		}
	case <-time.After(time.Second):
		t.Fatal("no snapshot delivered")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}
