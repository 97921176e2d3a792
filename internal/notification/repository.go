package notification

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"taskflow/internal/httpx"
)

type Repository struct {
	collection *mongo.Collection
}

func NewRepository(db *mongo.Database) *Repository {
	return &Repository{collection: db.Collection("notifications")}
}

func (r *Repository) Create(ctx context.Context, n *Notification) error {
	_, err := r.collection.InsertOne(ctx, n)
	return err
}

// ListByRecipient returns the admin's notifications, newest first.
func (r *Repository) ListByRecipient(ctx context.Context, recipient primitive.ObjectID) ([]*Notification, error) {
	opts := options.Find().SetSort(bson.M{"created_at": -1})
	cursor, err := r.collection.Find(ctx, bson.M{"recipient": recipient}, opts)
	if err != nil {
		return nil, err
	}
	var notifications []*Notification
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

func (r *Repository) MarkAllRead(ctx context.Context, recipient primitive.ObjectID) error {
	_, err := r.collection.UpdateMany(ctx,
		bson.M{"recipient": recipient, "read": false},
		bson.M{"$set": bson.M{"read": true}})
	return err
}

// Delete removes one notification, scoped to its recipient so an admin cannot
// delete another admin's records.
func (r *Repository) Delete(ctx context.Context, id, recipient primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "recipient": recipient})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return httpx.NotFound("Notification not found.")
	}
	return nil
}

func (r *Repository) DeleteAll(ctx context.Context, recipient primitive.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"recipient": recipient})
	return err
}
