package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

// ServiceOffering es un servicio facturable de la clínica/hotel
// (consulta, baño, peluquería, etc).
type ServiceOffering struct {
	ID          string
	Name        string
	Description string
	Price       decimal.Decimal
	DurationMin int
	Active      bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

type RoomType struct {
	ID          string
	Name        string
	Description string
	DailyRate   decimal.Decimal

	CreatedAt time.Time
	UpdatedAt time.Time
}

// RoomStatus define el estado operativo de una habitación.
// @Enum available, occupied, maintenance
type RoomStatus string

const (
	RoomAvailable   RoomStatus = "available"
	RoomOccupied    RoomStatus = "occupied"
	RoomMaintenance RoomStatus = "maintenance"
)

type Room struct {
	ID         string
	RoomTypeID string
	Number     string
	Status     RoomStatus

	CreatedAt time.Time
	UpdatedAt time.Time
}
