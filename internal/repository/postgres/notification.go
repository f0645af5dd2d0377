package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"gearshare-backend/internal/domain"
	"gearshare-backend/internal/repository"
)

type notificationRepository struct {
	db *sql.DB
}

func NewNotificationRepository(db *sql.DB) repository.NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, note *domain.Notification) error {
	attrs, err := json.Marshal(note.Attributes)
	if err != nil {
		return domain.Validationf("encode notification attributes: %v", err)
	}

	query := `INSERT INTO notifications (user_id, title, message, is_read, attributes, created_on)
	          VALUES ($1, $2, $3, false, $4, $5) RETURNING id`
	now := time.Now()
	if err := r.db.QueryRowContext(ctx, query, note.UserID, note.Title, note.Message, attrs, now).Scan(&note.ID); err != nil {
		return domain.Collaboratorf("insert notification: %v", err)
	}
	note.CreatedOn = now
	return nil
}

func (r *notificationRepository) List(ctx context.Context, userID int32, limit, offset int32) ([]domain.Notification, int32, error) {
	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM notifications WHERE user_id = $1`, userID).Scan(&count); err != nil {
		return nil, 0, domain.Collaboratorf("count notifications: %v", err)
	}

	query := `SELECT id, user_id, title, message, is_read, attributes, created_on
	          FROM notifications WHERE user_id = $1 ORDER BY created_on DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, domain.Collaboratorf("list notifications: %v", err)
	}
	defer rows.Close()

	var notes []domain.Notification
	for rows.Next() {
		var note domain.Notification
		var attrs []byte
		if err := rows.Scan(&note.ID, &note.UserID, &note.Title, &note.Message, &note.IsRead, &attrs, &note.CreatedOn); err != nil {
			return nil, 0, domain.Collaboratorf("scan notification: %v", err)
		}
		if len(attrs) > 0 {
			if err := json.Unmarshal(attrs, &note.Attributes); err != nil {
				return nil, 0, domain.Collaboratorf("decode notification attributes: %v", err)
			}
		}
		notes = append(notes, note)
	}
	return notes, count, rows.Err()
}

func (r *notificationRepository) MarkAsRead(ctx context.Context, id, userID int32) error {
	res, err := r.db.ExecContext(ctx, `UPDATE notifications SET is_read = true WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return domain.Collaboratorf("mark notification %d read: %v", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return domain.Collaboratorf("mark notification %d read: %v", id, err)
	}
	if affected == 0 {
		return fmt.Errorf("notification %d for user %d: %w", id, userID, domain.ErrNotFound)
	}
	return nil
}
