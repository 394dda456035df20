package postgres

import (
	"context"
	"database/sql"
	"errors"

	"sarasavi-library-backend/internal/domain"
	"sarasavi-library-backend/internal/repository"
)

type memberRepository struct {
	db DBTX
}

func NewMemberRepository(db DBTX) repository.MemberRepository {
	return &memberRepository{db: db}
}

func (r *memberRepository) Create(ctx context.Context, m *domain.Member) error {
	query := `INSERT INTO members (id, name, sex, nic, address, email, member_type)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.ExecContext(ctx, query, m.ID, m.Name, m.Sex, m.NIC, m.Address, m.Email, m.Type)
	return mapDuplicate(err)
}

func (r *memberRepository) GetByID(ctx context.Context, id string) (*domain.Member, error) {
	query := `SELECT id, name, sex, nic, address, email, member_type FROM members WHERE id = $1`
	return r.scanMember(r.db.QueryRowContext(ctx, query, id))
}

func (r *memberRepository) GetByIDForUpdate(ctx context.Context, id string) (*domain.Member, error) {
	query := `SELECT id, name, sex, nic, address, email, member_type FROM members WHERE id = $1 FOR UPDATE`
	return r.scanMember(r.db.QueryRowContext(ctx, query, id))
}

func (r *memberRepository) scanMember(row *sql.Row) (*domain.Member, error) {
	m := &domain.Member{}
	err := row.Scan(&m.ID, &m.Name, &m.Sex, &m.NIC, &m.Address, &m.Email, &m.Type)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *memberRepository) MaxID(ctx context.Context) (string, error) {
	query := `SELECT id FROM members ORDER BY id DESC LIMIT 1 FOR UPDATE`
	var id string
	err := r.db.QueryRowContext(ctx, query).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return id, nil
}

func (r *memberRepository) List(ctx context.Context) ([]domain.Member, error) {
	query := `SELECT id, name, sex, nic, address, email, member_type FROM members ORDER BY id`
	return r.queryMembers(ctx, query)
}

func (r *memberRepository) Search(ctx context.Context, term string) ([]domain.Member, error) {
	query := `SELECT id, name, sex, nic, address, email, member_type FROM members
	          WHERE name ILIKE $1 OR id ILIKE $1 ORDER BY id`
	return r.queryMembers(ctx, query, "%"+term+"%")
}

func (r *memberRepository) queryMembers(ctx context.Context, query string, args ...any) ([]domain.Member, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []domain.Member
	for rows.Next() {
		var m domain.Member
		if err := rows.Scan(&m.ID, &m.Name, &m.Sex, &m.NIC, &m.Address, &m.Email, &m.Type); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}
