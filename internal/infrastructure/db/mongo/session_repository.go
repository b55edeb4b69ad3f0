package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/medicare/portal/internal/core/domain"
	"github.com/medicare/portal/internal/core/ports"
)

const sessionCollection = "portal_sessions"

// MongoSessionRepository keeps one document per session. A TTL index on
// expires_at lets MongoDB reap abandoned sessions.
type MongoSessionRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

var _ ports.SessionRepository = (*MongoSessionRepository)(nil)

func NewSessionRepository(db *mongo.Database) *MongoSessionRepository {
	return &MongoSessionRepository{coll: db.Collection(sessionCollection), now: time.Now}
}

// EnsureIndexes creates the TTL index. Safe to call on every start.
func (r *MongoSessionRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0).SetName("expires_at_ttl"),
	})
	if err != nil {
		return fmt.Errorf("create session ttl index: %w", err)
	}
	return nil
}

func (r *MongoSessionRepository) Save(ctx context.Context, s *domain.Session) error {
	_, err := r.coll.ReplaceOne(ctx, bson.M{"_id": s.ID}, s, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Load filters on expires_at as well, since the TTL monitor only runs
// about once a minute.
func (r *MongoSessionRepository) Load(ctx context.Context, id string) (*domain.Session, error) {
	var s domain.Session
	filter := bson.M{"_id": id, "expires_at": bson.M{"$gt": r.now().UTC()}}
	if err := r.coll.FindOne(ctx, filter).Decode(&s); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("load session: %w", err)
	}
	return &s, nil
}

func (r *MongoSessionRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, fmt.Errorf("delete session: %w", err)
	}
	return res.DeletedCount > 0, nil
}

func (r *MongoSessionRepository) Ping(ctx context.Context) error {
	return r.coll.Database().Client().Ping(ctx, nil)
}
