package postgres

import (
	"context"
	"database/sql"
	"strings"

	"pet-hotel-api/internal/domain/appointments"
)

type AppointmentsRepo struct {
	db *sql.DB
}

func NewAppointmentsRepo(db *sql.DB) *AppointmentsRepo {
	return &AppointmentsRepo{db: db}
}

func (r *AppointmentsRepo) Create(ctx context.Context, a appointments.Appointment) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO appointments (
			id, customer_id, pet_id, service_id, room_id,
			customer_name, pet_name, service_name,
			receiver_user_id,
			scheduled_at, check_in_at, check_out_at,
			notes, status,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
	`,
		a.ID,
		a.CustomerID,
		a.PetID,
		nullStr(a.ServiceID),
		nullStr(a.RoomID),
		a.CustomerName,
		a.PetName,
		a.ServiceName,
		nullStr(a.ReceiverUserID),
		a.ScheduledAt,
		toNullDate(a.CheckInAt),
		toNullDate(a.CheckOutAt),
		a.Notes,
		a.Status,
		a.CreatedAt,
		a.UpdatedAt,
	)
	return err
}

func (r *AppointmentsRepo) Update(ctx context.Context, a appointments.Appointment) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE appointments
		SET
			receiver_user_id = $2,
			check_in_at = $3,
			check_out_at = $4,
			notes = $5,
			status = $6,
			updated_at = $7
		WHERE id = $1
	`,
		a.ID,
		nullStr(a.ReceiverUserID),
		toNullDate(a.CheckInAt),
		toNullDate(a.CheckOutAt),
		a.Notes,
		a.Status,
		a.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return appointments.ErrNotFound
	}
	return nil
}

func (r *AppointmentsRepo) GetByID(ctx context.Context, id string) (appointments.Appointment, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, customer_id, pet_id, service_id, room_id,
			customer_name, pet_name, service_name,
			receiver_user_id,
			scheduled_at, check_in_at, check_out_at,
			notes, status,
			created_at, updated_at
		FROM appointments
		WHERE id = $1
	`, id)

	a, err := scanAppointment(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return appointments.Appointment{}, appointments.ErrNotFound
		}
		return appointments.Appointment{}, err
	}
	return a, nil
}

func (r *AppointmentsRepo) List(ctx context.Context, f appointments.ListFilter) ([]appointments.Appointment, int, error) {
	// búsqueda libre sobre los nombres denormalizados; los filtros exactos
	// con valor vacío se desactivan en el WHERE
	search := "%" + strings.TrimSpace(f.Search) + "%"
	where := `
		WHERE (customer_name ILIKE $1 OR pet_name ILIKE $1 OR service_name ILIKE $1)
		  AND ($2 = '' OR status = $2)
		  AND ($3 = '' OR customer_id = $3)
	`
	args := []any{search, string(f.Status), f.CustomerID}

	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM appointments `+where, args...,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (f.Page - 1) * f.PageSize
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, customer_id, pet_id, service_id, room_id,
			customer_name, pet_name, service_name,
			receiver_user_id,
			scheduled_at, check_in_at, check_out_at,
			notes, status,
			created_at, updated_at
		FROM appointments
		`+where+`
		ORDER BY scheduled_at DESC
		LIMIT $4 OFFSET $5
	`, append(args, f.PageSize, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]appointments.Appointment, 0)
	for rows.Next() {
		a, err := scanAppointment(rows.Scan)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, a)
	}
	return out, total, rows.Err()
}

func scanAppointment(scan func(dest ...any) error) (appointments.Appointment, error) {
	var a appointments.Appointment
	var serviceID, roomID, receiverUserID sql.NullString
	var checkIn, checkOut sql.NullTime
	if err := scan(
		&a.ID,
		&a.CustomerID,
		&a.PetID,
		&serviceID,
		&roomID,
		&a.CustomerName,
		&a.PetName,
		&a.ServiceName,
		&receiverUserID,
		&a.ScheduledAt,
		&checkIn,
		&checkOut,
		&a.Notes,
		&a.Status,
		&a.CreatedAt,
		&a.UpdatedAt,
	); err != nil {
		return appointments.Appointment{}, err
	}

	a.ServiceID = serviceID.String
	a.RoomID = roomID.String
	a.ReceiverUserID = receiverUserID.String
	if checkIn.Valid {
		t := checkIn.Time
		a.CheckInAt = &t
	}
	if checkOut.Valid {
		t := checkOut.Time
		a.CheckOutAt = &t
	}
	return a, nil
}

func nullStr(s string) sql.NullString {
	if strings.TrimSpace(s) == "" {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: s, Valid: true}
}
