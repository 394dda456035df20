package postgres

import (
	"context"
	"database/sql"
	"errors"

	"sarasavi-library-backend/internal/domain"
	"sarasavi-library-backend/internal/repository"
)

type reservationRepository struct {
	db DBTX
}

func NewReservationRepository(db DBTX) repository.ReservationRepository {
	return &reservationRepository{db: db}
}

func (r *reservationRepository) Create(ctx context.Context, res *domain.Reservation) error {
	query := `INSERT INTO reservations (title_id, member_id, reserved_date)
	          VALUES ($1, $2, $3) RETURNING id`
	return r.db.QueryRowContext(ctx, query, res.TitleID, res.MemberID, domain.Day(res.ReservedDate)).Scan(&res.ID)
}

func (r *reservationRepository) Oldest(ctx context.Context, titleID string) (*domain.Reservation, error) {
	// FOR UPDATE keeps two concurrent returns of the same title from both
	// fulfilling this reservation.
	query := `SELECT id, title_id, member_id, reserved_date FROM reservations
	          WHERE title_id = $1 ORDER BY reserved_date ASC, id ASC LIMIT 1 FOR UPDATE`
	res := &domain.Reservation{}
	err := r.db.QueryRowContext(ctx, query, titleID).
		Scan(&res.ID, &res.TitleID, &res.MemberID, &res.ReservedDate)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (r *reservationRepository) ListByTitle(ctx context.Context, titleID string) ([]domain.Reservation, error) {
	query := `SELECT id, title_id, member_id, reserved_date FROM reservations
	          WHERE title_id = $1 ORDER BY reserved_date ASC, id ASC`
	rows, err := r.db.QueryContext(ctx, query, titleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reservations []domain.Reservation
	for rows.Next() {
		var res domain.Reservation
		if err := rows.Scan(&res.ID, &res.TitleID, &res.MemberID, &res.ReservedDate); err != nil {
			return nil, err
		}
		reservations = append(reservations, res)
	}
	return reservations, rows.Err()
}

func (r *reservationRepository) CountByTitle(ctx context.Context, titleID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM reservations WHERE title_id = $1`
	err := r.db.QueryRowContext(ctx, query, titleID).Scan(&count)
	return count, err
}

func (r *reservationRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reservations WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
