package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/yourorg/library-service/internal/apperr"
	"github.com/yourorg/library-service/internal/model"
	"github.com/yourorg/library-service/internal/repository"
)

// NotificationService handles notification operations. Recipients are opaque
// identifiers; the service never checks them against the customer registry.
type NotificationService struct {
	notificationRepo *repository.NotificationRepository
	logger           *zap.Logger
}

// NewNotificationService creates a new notification service
func NewNotificationService(notificationRepo *repository.NotificationRepository, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		logger:           logger,
	}
}

// Create stores a new notification
func (s *NotificationService) Create(ctx context.Context, notification *model.NotificationCreate) (*model.Notification, error) {
	created, err := s.notificationRepo.Create(ctx, notification)
	if err != nil {
		return nil, apperr.Wrap("failed to create notification", err)
	}
	return created, nil
}

// Get returns a notification by ID
func (s *NotificationService) Get(ctx context.Context, id int) (*model.Notification, error) {
	notification, err := s.notificationRepo.Get(ctx, id)
	if err != nil {
		return nil, apperr.Wrap("failed to get notification", err)
	}
	if notification == nil {
		return nil, apperr.NotFound("Notification not found")
	}
	return notification, nil
}

// List returns all notifications
func (s *NotificationService) List(ctx context.Context) ([]model.Notification, error) {
	notifications, err := s.notificationRepo.List(ctx)
	if err != nil {
		return nil, apperr.Wrap("failed to list notifications", err)
	}
	return notifications, nil
}

// Update merges the provided fields over an existing notification
func (s *NotificationService) Update(ctx context.Context, id int, update *model.NotificationUpdate) (*model.Notification, error) {
	notification, err := s.notificationRepo.Update(ctx, id, update)
	if err != nil {
		return nil, apperr.Wrap("failed to update notification", err)
	}
	if notification == nil {
		return nil, apperr.NotFound("Notification not found")
	}
	return notification, nil
}

// MarkRead forces the one-way new -> read transition
func (s *NotificationService) MarkRead(ctx context.Context, id int) error {
	found, err := s.notificationRepo.MarkRead(ctx, id)
	if err != nil {
		return apperr.Wrap("failed to mark notification read", err)
	}
	if !found {
		return apperr.NotFound("Notification not found")
	}
	return nil
}

// Delete removes a notification
func (s *NotificationService) Delete(ctx context.Context, id int) error {
	found, err := s.notificationRepo.Delete(ctx, id)
	if err != nil {
		return apperr.Wrap("failed to delete notification", err)
	}
	if !found {
		return apperr.NotFound("Notification not found")
	}
	return nil
}
