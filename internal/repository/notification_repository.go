package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/doug-martin/goqu/v9"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/yourorg/library-service/internal/model"
)

// NotificationRepository handles database operations for notifications
type NotificationRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *sqlx.DB, logger *zap.Logger) *NotificationRepository {
	return &NotificationRepository{
		db:     db,
		logger: logger,
	}
}

// Create stores a new notification. RecipientID is taken as-is; it is not
// checked against the customers table.
func (r *NotificationRepository) Create(ctx context.Context, notification *model.NotificationCreate) (*model.Notification, error) {
	query := `
		INSERT INTO notifications (type, content, status, priority, recipient_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING *`

	status := notification.Status
	if status == "" {
		status = model.NotificationNew
	}

	var created model.Notification
	err := r.db.GetContext(
		ctx,
		&created,
		query,
		notification.Type,
		notification.Content,
		status,
		notification.Priority,
		notification.RecipientID,
	)

	if err != nil {
		r.logger.Error("failed to create notification", zap.Error(err))
		return nil, err
	}

	return &created, nil
}

// Get retrieves a notification by ID
func (r *NotificationRepository) Get(ctx context.Context, id int) (*model.Notification, error) {
	query := `SELECT * FROM notifications WHERE id = $1`

	var notification model.Notification
	if err := r.db.GetContext(ctx, &notification, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("failed to get notification", zap.Error(err), zap.Int("id", id))
		return nil, err
	}

	return &notification, nil
}

// List retrieves all notifications
func (r *NotificationRepository) List(ctx context.Context) ([]model.Notification, error) {
	query := `SELECT * FROM notifications ORDER BY id`

	notifications := []model.Notification{}
	if err := r.db.SelectContext(ctx, &notifications, query); err != nil {
		r.logger.Error("failed to list notifications", zap.Error(err))
		return nil, err
	}

	return notifications, nil
}

// Update merges the provided fields over an existing notification. Returns
// nil when it does not exist.
func (r *NotificationRepository) Update(ctx context.Context, id int, update *model.NotificationUpdate) (*model.Notification, error) {
	record := goqu.Record{}
	if update.Type != nil {
		record["type"] = *update.Type
	}
	if update.Content != nil {
		record["content"] = *update.Content
	}
	if update.Status != nil {
		record["status"] = *update.Status
	}
	if update.Priority != nil {
		record["priority"] = *update.Priority
	}
	if update.RecipientID != nil {
		record["recipient_id"] = *update.RecipientID
	}

	if len(record) == 0 {
		return r.Get(ctx, id)
	}

	query, args, err := builder.Update("notifications").
		Set(record).
		Where(goqu.C("id").Eq(id)).
		Returning(goqu.Star()).
		Prepared(true).
		ToSQL()
	if err != nil {
		r.logger.Error("failed to build notification update", zap.Error(err))
		return nil, err
	}

	var notification model.Notification
	if err := r.db.GetContext(ctx, &notification, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("failed to update notification", zap.Error(err), zap.Int("id", id))
		return nil, err
	}

	return &notification, nil
}

// MarkRead forces a notification's status to read. Returns false when it
// does not exist.
func (r *NotificationRepository) MarkRead(ctx context.Context, id int) (bool, error) {
	query := `UPDATE notifications SET status = $1 WHERE id = $2`

	result, err := r.db.ExecContext(ctx, query, model.NotificationRead, id)
	if err != nil {
		r.logger.Error("failed to mark notification read", zap.Error(err), zap.Int("id", id))
		return false, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rows > 0, nil
}

// Delete hard-deletes a notification. Returns false when it does not exist.
func (r *NotificationRepository) Delete(ctx context.Context, id int) (bool, error) {
	query := `DELETE FROM notifications WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		r.logger.Error("failed to delete notification", zap.Error(err), zap.Int("id", id))
		return false, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rows > 0, nil
}
