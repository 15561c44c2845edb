package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"navigator/internal/logger"
	"navigator/internal/model"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const SessionRedisKey = "session"

// SessionRepository snapshots sessions into Redis as JSON under session:<id>
type SessionRepository struct {
	client *redis.Client
}

func NewSessionRepository(client *redis.Client) *SessionRepository {
	return &SessionRepository{client: client}
}

func sessionKey(id string) string {
	return fmt.Sprintf("%s:%s", SessionRedisKey, id)
}

// SaveSessions writes all sessions in one pipeline
func (r *SessionRepository) SaveSessions(ctx context.Context, sessions []*model.Session) error {
	if len(sessions) == 0 {
		return nil
	}

	pipe := r.client.Pipeline()
	for _, session := range sessions {
		data, err := json.Marshal(session)
		if err != nil {
			return err
		}
		pipe.Set(ctx, sessionKey(session.ID), data, 0)
	}

	_, err := pipe.Exec(ctx)
	return err
}

// DeleteSession removes a session snapshot
func (r *SessionRepository) DeleteSession(ctx context.Context, id string) error {
	return r.client.Del(ctx, sessionKey(id)).Err()
}

// LoadSessions reads every session snapshot
func (r *SessionRepository) LoadSessions(ctx context.Context) ([]*model.Session, error) {
	var cursor uint64
	var keys []string
	pattern := fmt.Sprintf("%s:*", SessionRedisKey)

	// Collect all session keys
	for {
		batch, nextCursor, err := r.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return nil, err
		}
		keys = append(keys, batch...)
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}

	if len(keys) == 0 {
		return nil, nil
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	sessions := make([]*model.Session, 0, len(values))
	for i, value := range values {
		data, ok := value.(string)
		if !ok || data == "" {
			continue
		}

		session := &model.Session{}
		if err := json.Unmarshal([]byte(data), session); err != nil {
			logger.L().Warn("Skipping unreadable session snapshot", zap.String("key", keys[i]), zap.Error(err))
			continue
		}
		sessions = append(sessions, session)
	}
	return sessions, nil
}
