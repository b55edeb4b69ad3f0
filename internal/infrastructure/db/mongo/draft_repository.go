package mongo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/medicare/portal/internal/core/ports"
)

const (
	draftCollection = "portal_drafts"
	defaultDraftTTL = 30 * time.Minute
)

// DraftRepository implements ports.DraftRepository using MongoDB. One
// document per session and flow; the draft itself is kept as JSON so it
// round-trips exactly like the Redis implementation.
type DraftRepository struct {
	coll *mongo.Collection
	ttl  time.Duration
	now  func() time.Time
}

var _ ports.DraftRepository = (*DraftRepository)(nil)

// NewDraftRepository creates a new DraftRepository.
func NewDraftRepository(db *mongo.Database, ttl time.Duration) *DraftRepository {
	if ttl <= 0 {
		ttl = defaultDraftTTL
	}
	return &DraftRepository{coll: db.Collection(draftCollection), ttl: ttl, now: time.Now}
}

// EnsureIndexes creates the session lookup index and the TTL index.
func (r *DraftRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "session_id", Value: 1}}, Options: options.Index().SetName("session_id")},
		{Keys: bson.D{{Key: "expires_at", Value: 1}}, Options: options.Index().SetExpireAfterSeconds(0).SetName("expires_at_ttl")},
	})
	if err != nil {
		return fmt.Errorf("create draft indexes: %w", err)
	}
	return nil
}

func draftID(sessionID, flow string) string {
	return sessionID + "/" + flow
}

// Save upserts the draft and pushes its expiry forward.
func (r *DraftRepository) Save(ctx context.Context, sessionID, flow string, draft any) error {
	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("encode draft: %w", err)
	}

	filter := bson.M{"_id": draftID(sessionID, flow)}
	update := bson.M{
		"$set": bson.M{
			"session_id": sessionID,
			"flow":       flow,
			"data":       string(data),
			"expires_at": r.now().UTC().Add(r.ttl),
		},
	}
	if _, err := r.coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true)); err != nil {
		return fmt.Errorf("save draft: %w", err)
	}
	return nil
}

func (r *DraftRepository) Load(ctx context.Context, sessionID, flow string, dst any) (bool, error) {
	var doc struct {
		Data string `bson:"data"`
	}
	filter := bson.M{"_id": draftID(sessionID, flow), "expires_at": bson.M{"$gt": r.now().UTC()}}
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, nil
		}
		return false, fmt.Errorf("load draft: %w", err)
	}
	if err := json.Unmarshal([]byte(doc.Data), dst); err != nil {
		return false, fmt.Errorf("decode draft: %w", err)
	}
	return true, nil
}

func (r *DraftRepository) Delete(ctx context.Context, sessionID, flow string) error {
	if _, err := r.coll.DeleteOne(ctx, bson.M{"_id": draftID(sessionID, flow)}); err != nil {
		return fmt.Errorf("delete draft: %w", err)
	}
	return nil
}

func (r *DraftRepository) DeleteAll(ctx context.Context, sessionID string) error {
	if _, err := r.coll.DeleteMany(ctx, bson.M{"session_id": sessionID}); err != nil {
		return fmt.Errorf("delete drafts: %w", err)
	}
	return nil
}
