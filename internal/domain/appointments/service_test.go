package appointments

import (
	"context"
	"errors"
	"testing"
	"time"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

var errRepoNotFound = errors.New("repo: not found")

type testRepo struct {
	byID map[string]Appointment
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Appointment{}}
}

func (r *testRepo) Create(ctx context.Context, a Appointment) error {
	if a.ID == "" {
		return errors.New("repo: id required")
	}
	if _, ok := r.byID[a.ID]; ok {
		return errors.New("repo: already exists")
	}
	r.byID[a.ID] = a
	return nil
}

func (r *testRepo) Update(ctx context.Context, a Appointment) error {
	if _, ok := r.byID[a.ID]; !ok {
		return errRepoNotFound
	}
	r.byID[a.ID] = a
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Appointment, error) {
	a, ok := r.byID[id]
	if !ok {
		return Appointment{}, errRepoNotFound
	}
	return a, nil
}

func (r *testRepo) List(ctx context.Context, f ListFilter) ([]Appointment, int, error) {
	out := make([]Appointment, 0)
	for _, a := range r.byID {
		if f.Status != "" && a.Status != f.Status {
			continue
		}
		if f.CustomerID != "" && a.CustomerID != f.CustomerID {
			continue
		}
		out = append(out, a)
	}
	return out, len(out), nil
}

// -------------------------
// Tests
// -------------------------

func TestService_Create_StartsPending(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	a, err := svc.Create(context.Background(), CreateInput{
		CustomerID:  "cust-1",
		PetID:       "pet-1",
		ScheduledAt: now.Add(24 * time.Hour),
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if a.Status != StatusPending {
		t.Fatalf("expected pending, got %s", a.Status)
	}
	if a.CreatedAt != now || a.UpdatedAt != now {
		t.Fatalf("expected CreatedAt/UpdatedAt to be now")
	}
}

func TestService_Create_RejectsPastDate(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	_, err := svc.Create(context.Background(), CreateInput{
		CustomerID:  "cust-1",
		PetID:       "pet-1",
		ScheduledAt: now.Add(-time.Hour),
	})
	if !errors.Is(err, ErrPastDate) {
		t.Fatalf("expected ErrPastDate for past date, got %v", err)
	}

	// fecha exactamente igual a ahora también es inválida (estrictamente futura)
	_, err = svc.Create(context.Background(), CreateInput{
		CustomerID:  "cust-1",
		PetID:       "pet-1",
		ScheduledAt: now,
	})
	if !errors.Is(err, ErrPastDate) {
		t.Fatalf("expected ErrPastDate for now, got %v", err)
	}
}

func TestService_Accept_OnlyFromPending(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	a, err := svc.Create(context.Background(), CreateInput{
		CustomerID:  "cust-1",
		PetID:       "pet-1",
		ScheduledAt: now.Add(24 * time.Hour),
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	accepted, err := svc.Accept(context.Background(), a.ID, "staff-1")
	if err != nil {
		t.Fatalf("Accept error: %v", err)
	}
	if accepted.Status != StatusAccepted {
		t.Fatalf("expected accepted, got %s", accepted.Status)
	}
	if accepted.ReceiverUserID != "staff-1" {
		t.Fatalf("expected receiver staff-1, got %q", accepted.ReceiverUserID)
	}

	// segundo accept sobre la misma reserva: ya no está pending
	if _, err := svc.Accept(context.Background(), a.ID, "staff-2"); !errors.Is(err, ErrNotPending) {
		t.Fatalf("expected ErrNotPending on double accept, got %v", err)
	}
	// reject tampoco
	if _, err := svc.Reject(context.Background(), a.ID, "staff-2"); !errors.Is(err, ErrNotPending) {
		t.Fatalf("expected ErrNotPending on reject after accept, got %v", err)
	}
}

func TestService_Cancel_FromAnyNonTerminalState(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	mk := func() Appointment {
		a, err := svc.Create(context.Background(), CreateInput{
			CustomerID:  "cust-1",
			PetID:       "pet-1",
			ScheduledAt: now.Add(24 * time.Hour),
		})
		if err != nil {
			t.Fatalf("Create error: %v", err)
		}
		return a
	}

	// pending -> cancelled
	a1 := mk()
	if _, err := svc.Cancel(context.Background(), a1.ID); err != nil {
		t.Fatalf("cancel from pending: %v", err)
	}

	// accepted -> cancelled
	a2 := mk()
	if _, err := svc.Accept(context.Background(), a2.ID, "staff-1"); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if _, err := svc.Cancel(context.Background(), a2.ID); err != nil {
		t.Fatalf("cancel from accepted: %v", err)
	}

	// checked_in -> cancelled
	a3 := mk()
	if _, err := svc.Accept(context.Background(), a3.ID, "staff-1"); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if _, err := svc.CheckIn(context.Background(), a3.ID); err != nil {
		t.Fatalf("checkin: %v", err)
	}
	if _, err := svc.Cancel(context.Background(), a3.ID); err != nil {
		t.Fatalf("cancel from checked_in: %v", err)
	}

	// cancelled es terminal
	if _, err := svc.Cancel(context.Background(), a1.ID); !errors.Is(err, ErrBadState) {
		t.Fatalf("expected ErrBadState cancelling twice, got %v", err)
	}
}

func TestService_CheckInCheckOut_Flow(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	a, err := svc.Create(context.Background(), CreateInput{
		CustomerID:  "cust-1",
		PetID:       "pet-1",
		ScheduledAt: now.Add(24 * time.Hour),
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	// checkin directo desde pending no vale
	if _, err := svc.CheckIn(context.Background(), a.ID); !errors.Is(err, ErrBadState) {
		t.Fatalf("expected ErrBadState on checkin from pending, got %v", err)
	}

	if _, err := svc.Accept(context.Background(), a.ID, "staff-1"); err != nil {
		t.Fatalf("accept: %v", err)
	}

	in, err := svc.CheckIn(context.Background(), a.ID)
	if err != nil {
		t.Fatalf("checkin: %v", err)
	}
	if in.CheckInAt == nil || !in.CheckInAt.Equal(now) {
		t.Fatalf("expected CheckInAt stamped, got %v", in.CheckInAt)
	}

	out, err := svc.CheckOut(context.Background(), a.ID)
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if out.Status != StatusCheckedOut {
		t.Fatalf("expected checked_out, got %s", out.Status)
	}
	if out.CheckOutAt == nil {
		t.Fatalf("expected CheckOutAt stamped")
	}

	// checked_out es terminal
	if _, err := svc.Cancel(context.Background(), a.ID); !errors.Is(err, ErrBadState) {
		t.Fatalf("expected ErrBadState cancelling checked_out, got %v", err)
	}
}

func TestCanTransition_Table(t *testing.T) {
	cases := []struct {
		from, to Status
		ok       bool
	}{
		{StatusPending, StatusAccepted, true},
		{StatusPending, StatusRejected, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusCheckedIn, false},
		{StatusAccepted, StatusCheckedIn, true},
		{StatusAccepted, StatusCancelled, true},
		{StatusAccepted, StatusRejected, false},
		{StatusCheckedIn, StatusCheckedOut, true},
		{StatusCheckedIn, StatusCancelled, true},
		{StatusRejected, StatusCancelled, false},
		{StatusCancelled, StatusAccepted, false},
		{StatusCheckedOut, StatusCancelled, false},
	}
	for _, c := range cases {
		if got := CanTransition(c.from, c.to); got != c.ok {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", c.from, c.to, got, c.ok)
		}
	}
}
