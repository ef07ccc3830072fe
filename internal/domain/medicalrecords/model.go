package medicalrecords

import "time"

// MedicalRecord es una entrada de la historia clínica de una mascota.
// Inmutable una vez creada: correcciones entran como una nueva entrada.
type MedicalRecord struct {
	ID    string
	PetID string

	// PetName se denormaliza al crear para listar sin joins.
	PetName string

	// VetUserID es el veterinario que atendió (claims del request).
	VetUserID string

	// AppointmentID vincula la consulta a una reserva, si la hubo.
	AppointmentID string

	// ExaminationDate es la fecha de la consulta (puede ser anterior al
	// registro, las entradas se cargan a veces con demora).
	ExaminationDate time.Time

	Symptoms  string
	Diagnosis string
	Treatment string
	Notes     string

	// WeightKg y TemperatureC son opcionales (no siempre se miden).
	WeightKg     *float64
	TemperatureC *float64

	CreatedAt time.Time
}

// Prescription es un medicamento recetado en la consulta. Cada receta
// descuenta stock del producto vía el ledger de inventario.
type Prescription struct {
	ID       string
	RecordID string

	ProductID   string
	ProductName string

	Quantity     int
	Dosage       string
	Instructions string
}
