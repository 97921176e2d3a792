package auth

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"taskflow/internal/httpx"
)

type UserRepository struct {
	collection *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{collection: db.Collection("users")}
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*User, error) {
	var user User
	err := r.collection.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

// FindByResetToken matches only tokens that have not expired yet.
func (r *UserRepository) FindByResetToken(ctx context.Context, token string) (*User, error) {
	return r.findOne(ctx, bson.M{
		"reset_password_token":   token,
		"reset_password_expires": bson.M{"$gt": time.Now()},
	})
}

func (r *UserRepository) Create(ctx context.Context, user *User) error {
	_, err := r.collection.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return httpx.Conflict("Username or Email already exists.")
		}
		return err
	}
	return nil
}

func (r *UserRepository) Update(ctx context.Context, user *User) error {
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": user.ID}, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return httpx.Conflict("Email or Username already in use.")
		}
		return err
	}
	if res.MatchedCount == 0 {
		return httpx.NotFound("User not found.")
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return httpx.NotFound("User not found.")
	}
	return nil
}

// Approve promotes a pending user to an approved employee and returns the
// updated record.
func (r *UserRepository) Approve(ctx context.Context, id primitive.ObjectID) (*User, error) {
	update := bson.M{"$set": bson.M{"role": RoleEmployee, "is_approved": true}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var user User
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, httpx.NotFound("User not found.")
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) findAll(ctx context.Context, filter bson.M) ([]*User, error) {
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	var users []*User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *UserRepository) FindPending(ctx context.Context) ([]*User, error) {
	return r.findAll(ctx, bson.M{"is_approved": false})
}

func (r *UserRepository) FindApproved(ctx context.Context) ([]*User, error) {
	return r.findAll(ctx, bson.M{"is_approved": true})
}

func (r *UserRepository) FindApprovedEmployees(ctx context.Context) ([]*User, error) {
	return r.findAll(ctx, bson.M{"role": RoleEmployee, "is_approved": true})
}
