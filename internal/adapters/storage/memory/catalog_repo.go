package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"pet-hotel-api/internal/domain/catalog"
)

type CatalogRepo struct {
	mu        sync.RWMutex
	services  map[string]catalog.ServiceOffering
	roomTypes map[string]catalog.RoomType
	rooms     map[string]catalog.Room
}

func NewCatalogRepo() *CatalogRepo {
	return &CatalogRepo{
		services:  make(map[string]catalog.ServiceOffering),
		roomTypes: make(map[string]catalog.RoomType),
		rooms:     make(map[string]catalog.Room),
	}
}

func (r *CatalogRepo) CreateService(ctx context.Context, s catalog.ServiceOffering) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(s.ID) == "" {
		return errors.New("service id required")
	}
	if _, exists := r.services[s.ID]; exists {
		return errors.New("service already exists")
	}
	r.services[s.ID] = s
	return nil
}

func (r *CatalogRepo) UpdateService(ctx context.Context, s catalog.ServiceOffering) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.services[s.ID]; !exists {
		return catalog.ErrNotFound
	}
	r.services[s.ID] = s
	return nil
}

func (r *CatalogRepo) GetService(ctx context.Context, id string) (catalog.ServiceOffering, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.services[id]
	if !ok {
		return catalog.ServiceOffering{}, catalog.ErrNotFound
	}
	return s, nil
}

func (r *CatalogRepo) ListServices(ctx context.Context, f catalog.ListFilter) ([]catalog.ServiceOffering, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	search := strings.ToLower(strings.TrimSpace(f.Search))
	all := make([]catalog.ServiceOffering, 0)
	for _, s := range r.services {
		if search != "" && !strings.Contains(strings.ToLower(s.Name), search) {
			continue
		}
		all = append(all, s)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	return paginate(all, f.Page, f.PageSize), len(all), nil
}

func (r *CatalogRepo) DeleteService(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.services[id]; !exists {
		return catalog.ErrNotFound
	}
	delete(r.services, id)
	return nil
}

func (r *CatalogRepo) CreateRoomType(ctx context.Context, rt catalog.RoomType) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(rt.ID) == "" {
		return errors.New("room type id required")
	}
	if _, exists := r.roomTypes[rt.ID]; exists {
		return errors.New("room type already exists")
	}
	r.roomTypes[rt.ID] = rt
	return nil
}

func (r *CatalogRepo) UpdateRoomType(ctx context.Context, rt catalog.RoomType) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.roomTypes[rt.ID]; !exists {
		return catalog.ErrNotFound
	}
	r.roomTypes[rt.ID] = rt
	return nil
}

func (r *CatalogRepo) GetRoomType(ctx context.Context, id string) (catalog.RoomType, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rt, ok := r.roomTypes[id]
	if !ok {
		return catalog.RoomType{}, catalog.ErrNotFound
	}
	return rt, nil
}

func (r *CatalogRepo) ListRoomTypes(ctx context.Context) ([]catalog.RoomType, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]catalog.RoomType, 0, len(r.roomTypes))
	for _, rt := range r.roomTypes {
		out = append(out, rt)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (r *CatalogRepo) DeleteRoomType(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.roomTypes[id]; !exists {
		return catalog.ErrNotFound
	}
	delete(r.roomTypes, id)
	return nil
}

func (r *CatalogRepo) CreateRoom(ctx context.Context, room catalog.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(room.ID) == "" {
		return errors.New("room id required")
	}
	if _, exists := r.rooms[room.ID]; exists {
		return errors.New("room already exists")
	}
	r.rooms[room.ID] = room
	return nil
}

func (r *CatalogRepo) UpdateRoom(ctx context.Context, room catalog.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.rooms[room.ID]; !exists {
		return catalog.ErrNotFound
	}
	r.rooms[room.ID] = room
	return nil
}

func (r *CatalogRepo) GetRoom(ctx context.Context, id string) (catalog.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	room, ok := r.rooms[id]
	if !ok {
		return catalog.Room{}, catalog.ErrNotFound
	}
	return room, nil
}

func (r *CatalogRepo) ListRooms(ctx context.Context) ([]catalog.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]catalog.Room, 0, len(r.rooms))
	for _, room := range r.rooms {
		out = append(out, room)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Number < out[j].Number
	})
	return out, nil
}

func (r *CatalogRepo) DeleteRoom(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.rooms[id]; !exists {
		return catalog.ErrNotFound
	}
	delete(r.rooms, id)
	return nil
}
