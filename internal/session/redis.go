package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	tokenKeyPrefix      = "vote:sess:"
	respondentKeyPrefix = "vote:sess:resp:"
)

// RedisStore keeps session records in Redis so multiple instances share
// one token space. GETDEL gives TakeAndDelete its atomicity; record
// keys carry the TTL so expired tokens vanish on their own.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore wraps an existing client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func tokenKey(token string) string {
	return tokenKeyPrefix + token
}

func respondentKey(respondentID string) string {
	return respondentKeyPrefix + respondentID
}

// Put saves the record and retires any prior live token for the respondent.
func (s *RedisStore) Put(ctx context.Context, record Record, ttl time.Duration) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return err
	}

	prior, err := s.client.GetDel(ctx, respondentKey(record.RespondentID)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	if prior != "" {
		if err := s.client.Del(ctx, tokenKey(prior)).Err(); err != nil {
			return err
		}
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, tokenKey(record.Token), payload, ttl)
	pipe.Set(ctx, respondentKey(record.RespondentID), record.Token, ttl)
	_, err = pipe.Exec(ctx)
	return err
}

// Get returns the record without consuming it.
func (s *RedisStore) Get(ctx context.Context, token string) (*Record, error) {
	payload, err := s.client.Get(ctx, tokenKey(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return decode(payload)
}

// TakeAndDelete consumes the record. GETDEL is a single Redis command,
// so concurrent callers with the same token observe exactly one hit.
func (s *RedisStore) TakeAndDelete(ctx context.Context, token string) (*Record, error) {
	payload, err := s.client.GetDel(ctx, tokenKey(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	record, err := decode(payload)
	if err != nil {
		return nil, err
	}
	_ = s.client.Del(ctx, respondentKey(record.RespondentID)).Err()
	return record, nil
}

// Delete removes the record if present.
func (s *RedisStore) Delete(ctx context.Context, token string) error {
	record, err := s.Get(ctx, token)
	if err != nil || record == nil {
		return err
	}
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, tokenKey(token))
	pipe.Del(ctx, respondentKey(record.RespondentID))
	_, err = pipe.Exec(ctx)
	return err
}

func decode(payload []byte) (*Record, error) {
	var record Record
	if err := json.Unmarshal(payload, &record); err != nil {
		return nil, err
	}
	return &record, nil
}
