package notification

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"taskflow/internal/httpx"
)

// Store is the notification persistence surface; *Repository satisfies it.
type Store interface {
	Create(ctx context.Context, n *Notification) error
	ListByRecipient(ctx context.Context, recipient primitive.ObjectID) ([]*Notification, error)
	MarkAllRead(ctx context.Context, recipient primitive.ObjectID) error
	Delete(ctx context.Context, id, recipient primitive.ObjectID) error
	DeleteAll(ctx context.Context, recipient primitive.ObjectID) error
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Record persists one activity record for the recipient admin. This is the
// side-effect half of a task status transition; the caller decides what to do
// with a failure.
func (s *Service) Record(ctx context.Context, recipient primitive.ObjectID, senderName, message string, taskID primitive.ObjectID) error {
	n := &Notification{
		ID:         primitive.NewObjectID(),
		Recipient:  recipient,
		SenderName: senderName,
		Message:    message,
		Task:       taskID,
		Read:       false,
		CreatedAt:  time.Now(),
	}
	return s.store.Create(ctx, n)
}

func (s *Service) List(ctx context.Context, recipientID string) ([]*Notification, error) {
	id, err := primitive.ObjectIDFromHex(recipientID)
	if err != nil {
		return nil, httpx.Authentication("Unauthorized: Please log in.")
	}
	notifications, err := s.store.ListByRecipient(ctx, id)
	if err != nil {
		return nil, httpx.Internal(err)
	}
	return notifications, nil
}

func (s *Service) MarkAllRead(ctx context.Context, recipientID string) error {
	id, err := primitive.ObjectIDFromHex(recipientID)
	if err != nil {
		return httpx.Authentication("Unauthorized: Please log in.")
	}
	if err := s.store.MarkAllRead(ctx, id); err != nil {
		return httpx.Internal(err)
	}
	return nil
}

func (s *Service) Delete(ctx context.Context, recipientID, notificationID string) error {
	recipient, err := primitive.ObjectIDFromHex(recipientID)
	if err != nil {
		return httpx.Authentication("Unauthorized: Please log in.")
	}
	id, err := primitive.ObjectIDFromHex(notificationID)
	if err != nil {
		return httpx.NotFound("Notification not found.")
	}
	if err := s.store.Delete(ctx, id, recipient); err != nil {
		if httpx.IsKind(err, httpx.KindNotFound) {
			return err
		}
		return httpx.Internal(err)
	}
	return nil
}

func (s *Service) DeleteAll(ctx context.Context, recipientID string) error {
	id, err := primitive.ObjectIDFromHex(recipientID)
	if err != nil {
		return httpx.Authentication("Unauthorized: Please log in.")
	}
	if err := s.store.DeleteAll(ctx, id); err != nil {
		return httpx.Internal(err)
	}
	return nil
}
