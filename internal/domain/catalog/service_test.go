package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

type testRepo struct {
	services  map[string]ServiceOffering
	roomTypes map[string]RoomType
	rooms     map[string]Room
}

func newTestRepo() *testRepo {
	return &testRepo{
		services:  map[string]ServiceOffering{},
		roomTypes: map[string]RoomType{},
		rooms:     map[string]Room{},
	}
}

func (r *testRepo) CreateService(ctx context.Context, s ServiceOffering) error {
	r.services[s.ID] = s
	return nil
}

func (r *testRepo) UpdateService(ctx context.Context, s ServiceOffering) error {
	if _, ok := r.services[s.ID]; !ok {
		return ErrNotFound
	}
	r.services[s.ID] = s
	return nil
}

func (r *testRepo) GetService(ctx context.Context, id string) (ServiceOffering, error) {
	s, ok := r.services[id]
	if !ok {
		return ServiceOffering{}, ErrNotFound
	}
	return s, nil
}

func (r *testRepo) ListServices(ctx context.Context, f ListFilter) ([]ServiceOffering, int, error) {
	out := make([]ServiceOffering, 0)
	for _, s := range r.services {
		out = append(out, s)
	}
	return out, len(out), nil
}

func (r *testRepo) DeleteService(ctx context.Context, id string) error {
	if _, ok := r.services[id]; !ok {
		return ErrNotFound
	}
	delete(r.services, id)
	return nil
}

func (r *testRepo) CreateRoomType(ctx context.Context, rt RoomType) error {
	r.roomTypes[rt.ID] = rt
	return nil
}

func (r *testRepo) UpdateRoomType(ctx context.Context, rt RoomType) error {
	if _, ok := r.roomTypes[rt.ID]; !ok {
		return ErrNotFound
	}
	r.roomTypes[rt.ID] = rt
	return nil
}

func (r *testRepo) GetRoomType(ctx context.Context, id string) (RoomType, error) {
	rt, ok := r.roomTypes[id]
	if !ok {
		return RoomType{}, ErrNotFound
	}
	return rt, nil
}

func (r *testRepo) ListRoomTypes(ctx context.Context) ([]RoomType, error) {
	out := make([]RoomType, 0)
	for _, rt := range r.roomTypes {
		out = append(out, rt)
	}
	return out, nil
}

func (r *testRepo) DeleteRoomType(ctx context.Context, id string) error {
	if _, ok := r.roomTypes[id]; !ok {
		return ErrNotFound
	}
	delete(r.roomTypes, id)
	return nil
}

func (r *testRepo) CreateRoom(ctx context.Context, room Room) error {
	r.rooms[room.ID] = room
	return nil
}

func (r *testRepo) UpdateRoom(ctx context.Context, room Room) error {
	if _, ok := r.rooms[room.ID]; !ok {
		return ErrNotFound
	}
	r.rooms[room.ID] = room
	return nil
}

func (r *testRepo) GetRoom(ctx context.Context, id string) (Room, error) {
	room, ok := r.rooms[id]
	if !ok {
		return Room{}, ErrNotFound
	}
	return room, nil
}

func (r *testRepo) ListRooms(ctx context.Context) ([]Room, error) {
	out := make([]Room, 0)
	for _, room := range r.rooms {
		out = append(out, room)
	}
	return out, nil
}

func (r *testRepo) DeleteRoom(ctx context.Context, id string) error {
	if _, ok := r.rooms[id]; !ok {
		return ErrNotFound
	}
	delete(r.rooms, id)
	return nil
}

// -------------------------
// Tests
// -------------------------

func TestService_UpdateRoomType(t *testing.T) {
	svc := NewService(newTestRepo())

	rt, err := svc.CreateRoomType(context.Background(), RoomTypeInput{
		Name:      "Suite",
		DailyRate: decimal.NewFromInt(500),
	})
	if err != nil {
		t.Fatalf("CreateRoomType error: %v", err)
	}

	updated, err := svc.UpdateRoomType(context.Background(), rt.ID, RoomTypeInput{
		Name:        "Suite Deluxe",
		Description: "con patio",
		DailyRate:   decimal.NewFromInt(750),
	})
	if err != nil {
		t.Fatalf("UpdateRoomType error: %v", err)
	}
	if updated.Name != "Suite Deluxe" || !updated.DailyRate.Equal(decimal.NewFromInt(750)) {
		t.Fatalf("unexpected room type after update: %+v", updated)
	}

	got, err := svc.GetRoomType(context.Background(), rt.ID)
	if err != nil {
		t.Fatalf("GetRoomType error: %v", err)
	}
	if got.Description != "con patio" {
		t.Fatalf("expected update persisted, got %+v", got)
	}

	// tarifa negativa es inválida
	if _, err := svc.UpdateRoomType(context.Background(), rt.ID, RoomTypeInput{
		Name:      "Suite",
		DailyRate: decimal.NewFromInt(-1),
	}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for negative rate, got %v", err)
	}
}

func TestService_GetRoomType_NotFound(t *testing.T) {
	svc := NewService(newTestRepo())

	if _, err := svc.GetRoomType(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := svc.UpdateRoomType(context.Background(), "nope", RoomTypeInput{
		Name:      "x",
		DailyRate: decimal.NewFromInt(1),
	}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound updating missing room type, got %v", err)
	}
}
