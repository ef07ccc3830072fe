package appointments

import "time"

// Appointment es la reserva de una mascota para un servicio y/o estadía.
// CustomerName/PetName/ServiceName se denormalizan al crear para soportar
// la búsqueda libre del listado sin joins contra otros módulos.
type Appointment struct {
	ID string

	CustomerID string
	PetID      string
	ServiceID  string // opcional
	RoomID     string // opcional

	CustomerName string
	PetName      string
	ServiceName  string

	// ReceiverUserID es el staff que tomó (aceptó/rechazó) la reserva.
	ReceiverUserID string

	ScheduledAt time.Time
	CheckInAt   *time.Time
	CheckOutAt  *time.Time

	Notes  string
	Status Status

	CreatedAt time.Time
	UpdatedAt time.Time
}
