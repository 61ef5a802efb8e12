package docstore

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"zenith/internal/domain/errors"
	"zenith/internal/domain/models"
	"zenith/internal/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const queryTimeout = 15 * time.Second

const (
	usersCollection    = "users"
	todosCollection    = "todos"
	notesCollection    = "notes"
	sessionsCollection = "focussessions"
)

type Storage struct {
	client   *mongo.Client
	users    *mongo.Collection
	todos    *mongo.Collection
	notes    *mongo.Collection
	sessions *mongo.Collection
}

func NewStorage(uri, database string) (*Storage, error) {
	if uri == "" || database == "" {
		return nil, fmt.Errorf("%w: mongo uri and database are required", errors.ErrDatabaseConnection)
	}

	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetServerSelectionTimeout(5*time.Second))
	if err != nil {
		logger.Error("failed to create mongo client", "err", err)
		return nil, fmt.Errorf("%w: %v", errors.ErrDatabaseConnection, err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		logger.Error("failed to connect to mongo", "err", err)
		return nil, fmt.Errorf("%w: %v", errors.ErrDatabaseConnection, err)
	}

	db := client.Database(database)
	s := &Storage{
		client:   client,
		users:    db.Collection(usersCollection),
		todos:    db.Collection(todosCollection),
		notes:    db.Collection(notesCollection),
		sessions: db.Collection(sessionsCollection),
	}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	logger.Info("mongo connection established", "database", database)
	return s, nil
}

func (s *Storage) ensureIndexes(ctx context.Context) error {
	indexes := map[*mongo.Collection][]mongo.IndexModel{
		s.users: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		s.todos: {
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "isCompleted", Value: 1}}},
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "dueDate", Value: 1}}},
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "category", Value: 1}}},
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "priority", Value: 1}}},
		},
		s.notes: {
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "updatedAt", Value: -1}}},
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "category", Value: 1}}},
		},
		s.sessions: {
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "startTime", Value: -1}}},
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "mode", Value: 1}}},
		},
	}
	for coll, idx := range indexes {
		if _, err := coll.Indexes().CreateMany(ctx, idx); err != nil {
			logger.Error("failed to create indexes", "collection", coll.Name(), "err", err)
			return fmt.Errorf("create indexes on %s: %w", coll.Name(), err)
		}
	}
	return nil
}

func (s *Storage) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Storage) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()
	if err := s.client.Disconnect(ctx); err != nil {
		logger.Error("failed to disconnect from mongo", "err", err)
	}
}

func (s *Storage) CreateUser(ctx context.Context, user *models.User) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	user.Email = models.NormalizeEmail(user.Email)
	if _, err := s.users.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return errors.ErrDuplicateEmail
		}
		logger.Error("failed to create user", "err", err)
		return err
	}
	logger.Debug("user created", "id", user.ID)
	return nil
}

func (s *Storage) findUser(ctx context.Context, filter bson.M) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var user models.User
	if err := s.users.FindOne(ctx, filter).Decode(&user); err != nil {
		if stderrors.Is(err, mongo.ErrNoDocuments) {
			return nil, errors.ErrUserNotFound
		}
		logger.Error("failed to get user", "err", err)
		return nil, err
	}
	return &user, nil
}

func (s *Storage) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.findUser(ctx, bson.M{"_id": id})
}

func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findUser(ctx, bson.M{"email": models.NormalizeEmail(email)})
}

func (s *Storage) UpdateUser(ctx context.Context, user *models.User) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	user.Email = models.NormalizeEmail(user.Email)
	res, err := s.users.ReplaceOne(ctx, bson.M{"_id": user.ID}, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return errors.ErrDuplicateEmail
		}
		logger.Error("failed to update user", "id", user.ID, "err", err)
		return err
	}
	if res.MatchedCount == 0 {
		return errors.ErrUserNotFound
	}
	logger.Debug("user updated", "id", user.ID)
	return nil
}

func (s *Storage) TouchLastActive(ctx context.Context, id string, at time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := s.users.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"lastActive": at}})
	if err != nil {
		logger.Error("failed to touch last active", "id", id, "err", err)
		return err
	}
	if res.MatchedCount == 0 {
		return errors.ErrUserNotFound
	}
	return nil
}

// replaceOwned replaces the document only when it belongs to userID.
func replaceOwned(ctx context.Context, coll *mongo.Collection, id, userID string, doc any) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := coll.ReplaceOne(ctx, bson.M{"_id": id, "userId": userID}, doc)
	if err != nil {
		logger.Error("failed to replace document", "collection", coll.Name(), "id", id, "err", err)
		return err
	}
	if res.MatchedCount == 0 {
		return errors.ErrNotFound
	}
	logger.Debug("document updated", "collection", coll.Name(), "id", id)
	return nil
}

func findOwned[T any](ctx context.Context, coll *mongo.Collection, userID, id string) (*T, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var doc T
	if err := coll.FindOne(ctx, bson.M{"_id": id, "userId": userID}).Decode(&doc); err != nil {
		if stderrors.Is(err, mongo.ErrNoDocuments) {
			return nil, errors.ErrNotFound
		}
		logger.Error("failed to get document", "collection", coll.Name(), "id", id, "err", err)
		return nil, err
	}
	return &doc, nil
}

func deleteOwned(ctx context.Context, coll *mongo.Collection, userID, id string) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := coll.DeleteOne(ctx, bson.M{"_id": id, "userId": userID})
	if err != nil {
		logger.Error("failed to delete document", "collection", coll.Name(), "id", id, "err", err)
		return err
	}
	if res.DeletedCount == 0 {
		return errors.ErrNotFound
	}
	logger.Debug("document deleted", "collection", coll.Name(), "id", id)
	return nil
}

func aggregate[T any](ctx context.Context, coll *mongo.Collection, pipeline mongo.Pipeline) ([]T, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	cur, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		logger.Error("aggregation failed", "collection", coll.Name(), "err", err)
		return nil, err
	}
	out := []T{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func count(ctx context.Context, coll *mongo.Collection, filter bson.M) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	n, err := coll.CountDocuments(ctx, filter)
	if err != nil {
		logger.Error("count failed", "collection", coll.Name(), "err", err)
		return 0, err
	}
	return n, nil
}
