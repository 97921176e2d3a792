package task

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
	return &Repository{collection: db.Collection("tasks")}
}

func (r *Repository) Create(ctx context.Context, t *Task) error {
	_, err := r.collection.InsertOne(ctx, t)
	return err
}

// FindAll returns every task, newest first, for the admin dashboard.
func (r *Repository) FindAll(ctx context.Context) ([]*Task, error) {
	opts := options.Find().SetSort(bson.M{"created_at": -1})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	var tasks []*Task
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// FindByAssignee returns an employee's tasks ordered by nearest deadline.
func (r *Repository) FindByAssignee(ctx context.Context, userID primitive.ObjectID) ([]*Task, error) {
	opts := options.Find().SetSort(bson.M{"deadline": 1})
	cursor, err := r.collection.Find(ctx, bson.M{"assigned_to": userID}, opts)
	if err != nil {
		return nil, err
	}
	var tasks []*Task
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// FindOwned loads a task only if it is assigned to userID. A task that exists
// but belongs to someone else is reported as missing.
func (r *Repository) FindOwned(ctx context.Context, taskID, userID primitive.ObjectID) (*Task, error) {
	var t Task
	err := r.collection.FindOne(ctx, bson.M{"_id": taskID, "assigned_to": userID}).Decode(&t)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, httpx.NotFound("Task not found or not assigned to you.")
		}
		return nil, err
	}
	return &t, nil
}

// UpdateStatusOwned writes the new status keyed on both id and assignee, and
// returns the updated task.
func (r *Repository) UpdateStatusOwned(ctx context.Context, taskID, userID primitive.ObjectID, status Status) (*Task, error) {
	update := bson.M{"$set": bson.M{"status": status}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var t Task
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": taskID, "assigned_to": userID}, update, opts).Decode(&t)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, httpx.NotFound("Task not found or not assigned to you.")
		}
		return nil, err
	}
	return &t, nil
}

func (r *Repository) Delete(ctx context.Context, taskID primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": taskID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return httpx.NotFound("Task not found.")
	}
	return nil
}

// DeleteByAssignee is the cascade step of employee deletion.
func (r *Repository) DeleteByAssignee(ctx context.Context, userID primitive.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"assigned_to": userID})
	return err
}

// FindUnread returns the employee's not-yet-seen tasks for the badge.
func (r *Repository) FindUnread(ctx context.Context, userID primitive.ObjectID) ([]*Task, error) {
	opts := options.Find().SetSort(bson.M{"created_at": -1})
	cursor, err := r.collection.Find(ctx, bson.M{"assigned_to": userID, "read": false}, opts)
	if err != nil {
		return nil, err
	}
	var tasks []*Task
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// MarkRead flags all of the employee's tasks as seen.
func (r *Repository) MarkRead(ctx context.Context, userID primitive.ObjectID) error {
	_, err := r.collection.UpdateMany(ctx,
		bson.M{"assigned_to": userID, "read": false},
		bson.M{"$set": bson.M{"read": true}})
	return err
}
