package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pawlingo/pawlingo-server/internal/models"
)

// RedisSessionStore keeps the user record under a single redis key
type RedisSessionStore struct {
	client *redis.Client
}

// NewRedisStore connects to redis and verifies the connection
func NewRedisStore(addr string, db int) (*RedisSessionStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisSessionStore{client: client}, nil
}

// NewRedisStoreWithClient wraps an existing client, used in tests
func NewRedisStoreWithClient(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{client: client}
}

func (s *RedisSessionStore) Save(ctx context.Context, user *models.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, sessionKey, data, 0).Err()
}

func (s *RedisSessionStore) Load(ctx context.Context) (*models.User, error) {
	data, err := s.client.Get(ctx, sessionKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := json.Unmarshal(data, &user); err != nil {
		s.client.Del(ctx, sessionKey)
		return nil, ErrCorruptSession
	}
	return &user, nil
}

func (s *RedisSessionStore) Clear(ctx context.Context) error {
	return s.client.Del(ctx, sessionKey).Err()
}

func (s *RedisSessionStore) Close() error {
	return s.client.Close()
}
