package postgres

import (
	"context"
	"database/sql"

	"pet-hotel-api/internal/domain/inventory"
	"pet-hotel-api/internal/domain/medicalrecords"
)

type MedicalRecordsRepo struct {
	db *sql.DB
}

func NewMedicalRecordsRepo(db *sql.DB) *MedicalRecordsRepo {
	return &MedicalRecordsRepo{db: db}
}

// Create persiste entrada + recetas + descuentos de stock en una sola
// transacción: si un decremento no alcanza, rollback completo.
func (r *MedicalRecordsRepo) Create(ctx context.Context, rec medicalrecords.MedicalRecord, prescriptions []medicalrecords.Prescription, movs []inventory.Transaction) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO medical_records (
			id, pet_id, pet_name, vet_user_id, appointment_id,
			examination_date, symptoms, diagnosis, treatment, notes,
			weight_kg, temperature_c,
			created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
	`,
		rec.ID,
		rec.PetID,
		rec.PetName,
		rec.VetUserID,
		nullStr(rec.AppointmentID),
		rec.ExaminationDate,
		rec.Symptoms,
		rec.Diagnosis,
		rec.Treatment,
		rec.Notes,
		rec.WeightKg,
		rec.TemperatureC,
		rec.CreatedAt,
	); err != nil {
		_ = tx.Rollback()
		return err
	}

	for _, p := range prescriptions {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO prescriptions (
				id, record_id, product_id, product_name,
				quantity, dosage, instructions
			) VALUES ($1,$2,$3,$4,$5,$6,$7)
		`,
			p.ID,
			p.RecordID,
			p.ProductID,
			p.ProductName,
			p.Quantity,
			p.Dosage,
			p.Instructions,
		); err != nil {
			_ = tx.Rollback()
			return err
		}
	}

	if err := applyMovementsTx(ctx, tx, movs); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

func (r *MedicalRecordsRepo) Get(ctx context.Context, id string) (medicalrecords.MedicalRecord, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, pet_id, pet_name, vet_user_id, appointment_id,
			examination_date, symptoms, diagnosis, treatment, notes,
			weight_kg, temperature_c,
			created_at
		FROM medical_records
		WHERE id = $1
	`, id)

	rec, err := scanRecord(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return medicalrecords.MedicalRecord{}, medicalrecords.ErrNotFound
		}
		return medicalrecords.MedicalRecord{}, err
	}
	return rec, nil
}

func (r *MedicalRecordsRepo) GetPrescriptions(ctx context.Context, recordID string) ([]medicalrecords.Prescription, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, record_id, product_id, product_name,
			quantity, dosage, instructions
		FROM prescriptions
		WHERE record_id = $1
	`, recordID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]medicalrecords.Prescription, 0)
	for rows.Next() {
		var p medicalrecords.Prescription
		if err := rows.Scan(
			&p.ID,
			&p.RecordID,
			&p.ProductID,
			&p.ProductName,
			&p.Quantity,
			&p.Dosage,
			&p.Instructions,
		); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *MedicalRecordsRepo) ListByPet(ctx context.Context, f medicalrecords.ListFilter) ([]medicalrecords.MedicalRecord, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM medical_records WHERE pet_id = $1
	`, f.PetID).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (f.Page - 1) * f.PageSize
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, pet_id, pet_name, vet_user_id, appointment_id,
			examination_date, symptoms, diagnosis, treatment, notes,
			weight_kg, temperature_c,
			created_at
		FROM medical_records
		WHERE pet_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, f.PetID, f.PageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]medicalrecords.MedicalRecord, 0)
	for rows.Next() {
		rec, err := scanRecord(rows.Scan)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, rec)
	}
	return out, total, rows.Err()
}

func scanRecord(scan func(dest ...any) error) (medicalrecords.MedicalRecord, error) {
	var rec medicalrecords.MedicalRecord
	var appointmentID sql.NullString
	var weight, temp sql.NullFloat64
	if err := scan(
		&rec.ID,
		&rec.PetID,
		&rec.PetName,
		&rec.VetUserID,
		&appointmentID,
		&rec.ExaminationDate,
		&rec.Symptoms,
		&rec.Diagnosis,
		&rec.Treatment,
		&rec.Notes,
		&weight,
		&temp,
		&rec.CreatedAt,
	); err != nil {
		return medicalrecords.MedicalRecord{}, err
	}

	rec.AppointmentID = appointmentID.String
	if weight.Valid {
		v := weight.Float64
		rec.WeightKg = &v
	}
	if temp.Valid {
		v := temp.Float64
		rec.TemperatureC = &v
	}
	return rec, nil
}
