package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"club-site/internal/logger"
)

const sessionKeyPrefix = "session:"

// SessionStore tracks live admin sessions in Redis so that logout
// revokes a token before its JWT expiry.
type SessionStore interface {
	Put(ctx context.Context, token string, userID string, ttl time.Duration) error
	Lookup(ctx context.Context, token string) (string, error)
	Revoke(ctx context.Context, token string) error
}

type RedisSessionStore struct {
	Client *redis.Client
}

func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{Client: client}
}

func (s *RedisSessionStore) Put(ctx context.Context, token string, userID string, ttl time.Duration) error {
	return s.Client.Set(ctx, sessionKeyPrefix+token, userID, ttl).Err()
}

// Lookup returns the user ID for a live session token.
func (s *RedisSessionStore) Lookup(ctx context.Context, token string) (string, error) {
	userID, err := s.Client.Get(ctx, sessionKeyPrefix+token).Result()
	if err == redis.Nil {
		return "", fmt.Errorf("session not found or expired")
	}
	if err != nil {
		return "", err
	}
	return userID, nil
}

func (s *RedisSessionStore) Revoke(ctx context.Context, token string) error {
	return s.Client.Del(ctx, sessionKeyPrefix+token).Err()
}

// InitializeSessionCache sets up Redis for session storage and tests the connection
func InitializeSessionCache(redisAddr string, customLogger *logger.Logger) (*redis.Client, error) {
	redisClient := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: "", // no password
		DB:       0,  // use default DB
		PoolSize: 10, // connection pool size
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := redisClient.Ping(ctx).Result(); err != nil {
		if customLogger != nil {
			customLogger.Error("AUTH", fmt.Sprintf("Failed to connect to Redis at %s: %v", redisAddr, err))
		}
		return nil, err
	}

	if customLogger != nil {
		customLogger.Info("AUTH", fmt.Sprintf("Successfully connected to Redis at %s for session storage", redisAddr))
	}
	return redisClient, nil
}
