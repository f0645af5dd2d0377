package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gearshare-backend/internal/domain"
	"gearshare-backend/internal/repository"
)

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, email, COALESCE(phone_number, ''), password_hash, name, COALESCE(avatar_url, ''), created_on, updated_on`

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	query := `INSERT INTO users (email, phone_number, password_hash, name, avatar_url, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $6) RETURNING id`
	now := time.Now()
	err := r.db.QueryRowContext(ctx, query,
		user.Email, user.PhoneNumber, user.PasswordHash, user.Name, user.AvatarURL, now,
	).Scan(&user.ID)
	if err != nil {
		return domain.Collaboratorf("insert user: %v", err)
	}
	user.CreatedOn = now
	user.UpdatedOn = now
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *userRepository) getOne(ctx context.Context, query string, arg interface{}) (*domain.User, error) {
	user := &domain.User{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID, &user.Email, &user.PhoneNumber, &user.PasswordHash,
		&user.Name, &user.AvatarURL, &user.CreatedOn, &user.UpdatedOn,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, domain.Collaboratorf("get user: %v", err)
	}
	return user, nil
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	query := `UPDATE users SET email=$1, phone_number=$2, name=$3, avatar_url=$4, updated_on=$5 WHERE id=$6`
	_, err := r.db.ExecContext(ctx, query,
		user.Email, user.PhoneNumber, user.Name, user.AvatarURL, time.Now(), user.ID,
	)
	if err != nil {
		return domain.Collaboratorf("update user %d: %v", user.ID, err)
	}
	return nil
}
