package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/medicare/portal/internal/core/ports"
)

const defaultDraftTTL = 30 * time.Minute

// DraftRepository keeps the wizard drafts of a session in one hash, one
// field per flow. The whole hash expires draftTTL after the last write.
// Key format: drafts:<session_id>
type DraftRepository struct {
	client *redis.Client
	ttl    time.Duration
}

var _ ports.DraftRepository = (*DraftRepository)(nil)

// NewDraftRepository creates a DraftRepository wrapping the given Redis client.
func NewDraftRepository(client *redis.Client, ttl time.Duration) *DraftRepository {
	if ttl <= 0 {
		ttl = defaultDraftTTL
	}
	return &DraftRepository{client: client, ttl: ttl}
}

func (r *DraftRepository) Save(ctx context.Context, sessionID, flow string, draft any) error {
	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("encode draft: %w", err)
	}
	key := r.key(sessionID)
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, flow, data)
		pipe.Expire(ctx, key, r.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("save draft: %w", err)
	}
	return nil
}

func (r *DraftRepository) Load(ctx context.Context, sessionID, flow string, dst any) (bool, error) {
	data, err := r.client.HGet(ctx, r.key(sessionID), flow).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("load draft: %w", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("decode draft: %w", err)
	}
	return true, nil
}

func (r *DraftRepository) Delete(ctx context.Context, sessionID, flow string) error {
	if err := r.client.HDel(ctx, r.key(sessionID), flow).Err(); err != nil {
		return fmt.Errorf("delete draft: %w", err)
	}
	return nil
}

func (r *DraftRepository) DeleteAll(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, r.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("delete drafts: %w", err)
	}
	return nil
}

func (r *DraftRepository) key(sessionID string) string {
	return "drafts:" + sessionID
}
