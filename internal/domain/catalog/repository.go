package catalog

import "context"

type ListFilter struct {
	Search   string
	Page     int
	PageSize int
}

type Repository interface {
	CreateService(ctx context.Context, s ServiceOffering) error
	UpdateService(ctx context.Context, s ServiceOffering) error
	GetService(ctx context.Context, id string) (ServiceOffering, error)
	ListServices(ctx context.Context, f ListFilter) ([]ServiceOffering, int, error)
	DeleteService(ctx context.Context, id string) error

	CreateRoomType(ctx context.Context, rt RoomType) error
	UpdateRoomType(ctx context.Context, rt RoomType) error
	GetRoomType(ctx context.Context, id string) (RoomType, error)
	ListRoomTypes(ctx context.Context) ([]RoomType, error)
	DeleteRoomType(ctx context.Context, id string) error

	CreateRoom(ctx context.Context, r Room) error
	UpdateRoom(ctx context.Context, r Room) error
	GetRoom(ctx context.Context, id string) (Room, error)
	ListRooms(ctx context.Context) ([]Room, error)
	DeleteRoom(ctx context.Context, id string) error
}
