package postgres

import (
	"context"
	"database/sql"
	"strings"

	"pet-hotel-api/internal/domain/catalog"
)

type CatalogRepo struct {
	db *sql.DB
}

func NewCatalogRepo(db *sql.DB) *CatalogRepo {
	return &CatalogRepo{db: db}
}

func (r *CatalogRepo) CreateService(ctx context.Context, s catalog.ServiceOffering) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO services (
			id, name, description, price, duration_min, active,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`,
		s.ID,
		s.Name,
		s.Description,
		s.Price,
		s.DurationMin,
		s.Active,
		s.CreatedAt,
		s.UpdatedAt,
	)
	return err
}

func (r *CatalogRepo) UpdateService(ctx context.Context, s catalog.ServiceOffering) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE services
		SET
			name = $2,
			description = $3,
			price = $4,
			duration_min = $5,
			active = $6,
			updated_at = $7
		WHERE id = $1
	`,
		s.ID,
		s.Name,
		s.Description,
		s.Price,
		s.DurationMin,
		s.Active,
		s.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return catalog.ErrNotFound
	}
	return nil
}

func (r *CatalogRepo) GetService(ctx context.Context, id string) (catalog.ServiceOffering, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, description, price, duration_min, active, created_at, updated_at
		FROM services
		WHERE id = $1
	`, id)

	var s catalog.ServiceOffering
	if err := row.Scan(
		&s.ID,
		&s.Name,
		&s.Description,
		&s.Price,
		&s.DurationMin,
		&s.Active,
		&s.CreatedAt,
		&s.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return catalog.ServiceOffering{}, catalog.ErrNotFound
		}
		return catalog.ServiceOffering{}, err
	}
	return s, nil
}

func (r *CatalogRepo) ListServices(ctx context.Context, f catalog.ListFilter) ([]catalog.ServiceOffering, int, error) {
	search := "%" + strings.TrimSpace(f.Search) + "%"
	offset := (f.Page - 1) * f.PageSize

	var total int
	if err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM services WHERE name ILIKE $1
	`, search).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, description, price, duration_min, active, created_at, updated_at
		FROM services
		WHERE name ILIKE $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, search, f.PageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]catalog.ServiceOffering, 0)
	for rows.Next() {
		var s catalog.ServiceOffering
		if err := rows.Scan(
			&s.ID,
			&s.Name,
			&s.Description,
			&s.Price,
			&s.DurationMin,
			&s.Active,
			&s.CreatedAt,
			&s.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		out = append(out, s)
	}
	return out, total, rows.Err()
}

func (r *CatalogRepo) DeleteService(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM services WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return catalog.ErrNotFound
	}
	return nil
}

func (r *CatalogRepo) CreateRoomType(ctx context.Context, rt catalog.RoomType) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO room_types (
			id, name, description, daily_rate, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6)
	`,
		rt.ID,
		rt.Name,
		rt.Description,
		rt.DailyRate,
		rt.CreatedAt,
		rt.UpdatedAt,
	)
	return err
}

func (r *CatalogRepo) UpdateRoomType(ctx context.Context, rt catalog.RoomType) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE room_types
		SET
			name = $2,
			description = $3,
			daily_rate = $4,
			updated_at = $5
		WHERE id = $1
	`,
		rt.ID,
		rt.Name,
		rt.Description,
		rt.DailyRate,
		rt.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return catalog.ErrNotFound
	}
	return nil
}

func (r *CatalogRepo) GetRoomType(ctx context.Context, id string) (catalog.RoomType, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, description, daily_rate, created_at, updated_at
		FROM room_types
		WHERE id = $1
	`, id)

	var rt catalog.RoomType
	if err := row.Scan(
		&rt.ID,
		&rt.Name,
		&rt.Description,
		&rt.DailyRate,
		&rt.CreatedAt,
		&rt.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return catalog.RoomType{}, catalog.ErrNotFound
		}
		return catalog.RoomType{}, err
	}
	return rt, nil
}

func (r *CatalogRepo) ListRoomTypes(ctx context.Context) ([]catalog.RoomType, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, description, daily_rate, created_at, updated_at
		FROM room_types
		ORDER BY name ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]catalog.RoomType, 0)
	for rows.Next() {
		var rt catalog.RoomType
		if err := rows.Scan(
			&rt.ID,
			&rt.Name,
			&rt.Description,
			&rt.DailyRate,
			&rt.CreatedAt,
			&rt.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, rt)
	}
	return out, rows.Err()
}

func (r *CatalogRepo) DeleteRoomType(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM room_types WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return catalog.ErrNotFound
	}
	return nil
}

func (r *CatalogRepo) CreateRoom(ctx context.Context, room catalog.Room) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO rooms (
			id, room_type_id, number, status, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6)
	`,
		room.ID,
		room.RoomTypeID,
		room.Number,
		room.Status,
		room.CreatedAt,
		room.UpdatedAt,
	)
	return err
}

func (r *CatalogRepo) UpdateRoom(ctx context.Context, room catalog.Room) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE rooms
		SET
			room_type_id = $2,
			number = $3,
			status = $4,
			updated_at = $5
		WHERE id = $1
	`,
		room.ID,
		room.RoomTypeID,
		room.Number,
		room.Status,
		room.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return catalog.ErrNotFound
	}
	return nil
}

func (r *CatalogRepo) GetRoom(ctx context.Context, id string) (catalog.Room, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, room_type_id, number, status, created_at, updated_at
		FROM rooms
		WHERE id = $1
	`, id)

	var room catalog.Room
	if err := row.Scan(
		&room.ID,
		&room.RoomTypeID,
		&room.Number,
		&room.Status,
		&room.CreatedAt,
		&room.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return catalog.Room{}, catalog.ErrNotFound
		}
		return catalog.Room{}, err
	}
	return room, nil
}

func (r *CatalogRepo) ListRooms(ctx context.Context) ([]catalog.Room, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, room_type_id, number, status, created_at, updated_at
		FROM rooms
		ORDER BY number ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]catalog.Room, 0)
	for rows.Next() {
		var room catalog.Room
		if err := rows.Scan(
			&room.ID,
			&room.RoomTypeID,
			&room.Number,
			&room.Status,
			&room.CreatedAt,
			&room.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, room)
	}
	return out, rows.Err()
}

func (r *CatalogRepo) DeleteRoom(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM rooms WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return catalog.ErrNotFound
	}
	return nil
}
