package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	twofactorerrors "calnotify/internal/twofactor/errors"
	"calnotify/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	CollectionName = "users"
)

type UserRepository interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
	SetTwoFactorSecret(ctx context.Context, id string, encryptedSecret string) error
	Ping(ctx context.Context) error
}

type mongoUserRepository struct {
	db         *mongo.Database
	collection *mongo.Collection
	timeout    time.Duration
}

func NewMongoUserRepository(db *mongo.Database, timeout time.Duration) UserRepository {
	return &mongoUserRepository{
		db:         db,
		collection: db.Collection(CollectionName),
		timeout:    timeout,
	}
}

// withTimeout uses the shorter of the caller's remaining deadline and the
// repository timeout.
func (r *mongoUserRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	deadline, hasDeadline := ctx.Deadline()
	if hasDeadline && time.Until(deadline) < r.timeout {
		return context.WithDeadline(ctx, deadline)
	}
	return context.WithTimeout(ctx, r.timeout)
}

// idFilter matches both ObjectID and plain string primary keys.
func idFilter(id string) bson.M {
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return bson.M{"_id": bson.M{"$in": bson.A{oid, id}}}
	}
	return bson.M{"_id": id}
}

func (r *mongoUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var user model.User
	err := r.collection.FindOne(ctx, idFilter(id)).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", twofactorerrors.ErrUserNotFound, id)
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

// SetTwoFactorSecret stores a new secret and leaves two-factor disabled
// until the user confirms a code.
func (r *mongoUserRepository) SetTwoFactorSecret(ctx context.Context, id string, encryptedSecret string) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	update := bson.M{
		"$set": bson.M{
			"two_factor_secret":  encryptedSecret,
			"two_factor_enabled": false,
			"updated_at":         time.Now().UTC().Truncate(time.Millisecond),
		},
	}

	result, err := r.collection.UpdateOne(ctx, idFilter(id), update)
	if err != nil {
		return fmt.Errorf("failed to store two-factor secret: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: %s", twofactorerrors.ErrUserNotFound, id)
	}
	return nil
}

func (r *mongoUserRepository) Ping(ctx context.Context) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	return r.db.Client().Ping(ctx, nil)
}
