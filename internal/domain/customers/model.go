package customers

import "time"

// Species define las especies soportadas.
// @Enum dog, cat
type Species string

const (
	SpeciesDog Species = "dog"
	SpeciesCat Species = "cat"
)

// Sex define el sexo de la mascota.
// @Enum male, female, unknown
type Sex string

const (
	SexMale    Sex = "male"
	SexFemale  Sex = "female"
	SexUnknown Sex = "unknown"
)

// Customer es la ficha del cliente de la clínica/hotel.
// Para callers con rol customer, su user ID (claims) es su customer ID.
type Customer struct {
	ID string

	Name    string
	Email   string
	Phone   string
	Address string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Pet representa el perfil básico de una mascota registrada en el sistema.
type Pet struct {
	ID              string
	OwnerCustomerID string

	Name    string
	Species Species // dog, cat
	Breed   string
	Sex     Sex // male, female, unknown

	BirthDate *time.Time
	Microchip string

	Notes string

	CreatedAt time.Time
	UpdatedAt time.Time
}
