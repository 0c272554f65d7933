package repository

import (
	"context"

	"github.com/classbridge/classbridge-backend/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NotificationRepository handles notification data access.
type NotificationRepository struct {
	pool *pgxpool.Pool
}

// NewNotificationRepository creates a new NotificationRepository.
func NewNotificationRepository(pool *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{pool: pool}
}

// CreateBatch inserts notifications in bulk via COPY.
func (r *NotificationRepository) CreateBatch(ctx context.Context, notifications []model.Notification) error {
	_, err := r.pool.CopyFrom(
		ctx,
		pgx.Identifier{"notifications"},
		[]string{"sender_id", "receiver_id", "title", "message"},
		pgx.CopyFromSlice(len(notifications), func(i int) ([]interface{}, error) {
			n := notifications[i]
			return []interface{}{n.SenderID, n.ReceiverID, n.Title, n.Message}, nil
		}),
	)
	return err
}

// ListByReceiver retrieves a user's notifications, newest first.
func (r *NotificationRepository) ListByReceiver(ctx context.Context, receiverID, limit int) ([]model.Notification, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, sender_id, receiver_id, title, message, is_read, created_at
		 FROM notifications
		 WHERE receiver_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`, receiverID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []model.Notification
	for rows.Next() {
		var n model.Notification
		if err := rows.Scan(&n.ID, &n.SenderID, &n.ReceiverID, &n.Title, &n.Message, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

// MarkRead flags a notification as read. Only the receiver may do so.
func (r *NotificationRepository) MarkRead(ctx context.Context, id, receiverID int) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE notifications SET is_read = TRUE WHERE id = $1 AND receiver_id = $2`,
		id, receiverID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
