package sqlite

import (
	"context"
	"time"

	domainErrors "github.com/polkiloo/autoshop/internal/domain/errors"
	"github.com/polkiloo/autoshop/internal/domain/model"
)

const userColumns = `id, full_name, email, phone, password_hash, role, created_at`

type userRow struct {
	ID           int64     `db:"id"`
	FullName     string    `db:"full_name"`
	Email        string    `db:"email"`
	Phone        string    `db:"phone"`
	PasswordHash string    `db:"password_hash"`
	Role         string    `db:"role"`
	CreatedAt    time.Time `db:"created_at"`
}

func (r userRow) model() model.User {
	return model.User{
		ID:           r.ID,
		FullName:     r.FullName,
		Email:        r.Email,
		Phone:        r.Phone,
		PasswordHash: r.PasswordHash,
		Role:         model.Role(r.Role),
		CreatedAt:    r.CreatedAt,
	}
}

type userRepository struct {
	q   queryer
	now func() time.Time
}

func (r *userRepository) Create(ctx context.Context, user model.User) (*model.User, error) {
	user.CreatedAt = r.now()
	res, err := r.q.ExecContext(ctx,
		`INSERT INTO users (full_name, email, phone, password_hash, role, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		user.FullName, user.Email, user.Phone, user.PasswordHash, string(user.Role), user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	if user.ID, err = res.LastInsertId(); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) get(ctx context.Context, query string, arg any) (*model.User, error) {
	var row userRow
	if err := r.q.GetContext(ctx, &row, query, arg); err != nil {
		return nil, notFound(err)
	}
	u := row.model()
	return &u, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.get(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email)=lower(?)`, email)
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return r.get(ctx, `SELECT `+userColumns+` FROM users WHERE id=?`, id)
}

func (r *userRepository) ListByRole(ctx context.Context, role model.Role) ([]model.User, error) {
	var rows []userRow
	if err := r.q.SelectContext(ctx, &rows, `SELECT `+userColumns+` FROM users WHERE role=? ORDER BY id`, string(role)); err != nil {
		return nil, err
	}
	result := make([]model.User, 0, len(rows))
	for _, row := range rows {
		result = append(result, row.model())
	}
	return result, nil
}
