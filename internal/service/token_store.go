package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Token kinds stored in Redis
const (
	accessTokenKeyPrefix  = "access_token"
	refreshTokenKeyPrefix = "refresh_token"
)

// TokenStore keeps the set of issued, unrevoked tokens in Redis
type TokenStore interface {
	StoreAccess(ctx context.Context, userID uuid.UUID, tokenID string, ttl time.Duration) error
	StoreRefresh(ctx context.Context, userID uuid.UUID, tokenID string, ttl time.Duration) error
	IsAccessValid(ctx context.Context, userID uuid.UUID, tokenID string) (bool, error)
	IsRefreshValid(ctx context.Context, userID uuid.UUID, tokenID string) (bool, error)
	RevokeAccess(ctx context.Context, userID uuid.UUID, tokenID string) error
	RevokeRefresh(ctx context.Context, userID uuid.UUID, tokenID string) error
	RevokeAll(ctx context.Context, userID uuid.UUID) error
}

type redisTokenStore struct {
	redisClient *redis.Client
	log         *logrus.Logger
}

func NewTokenStore(redisClient *redis.Client, log *logrus.Logger) TokenStore {
	return &redisTokenStore{redisClient: redisClient, log: log}
}

func tokenKey(prefix string, userID uuid.UUID, tokenID string) string {
	return fmt.Sprintf("%s:%s:%s", prefix, userID.String(), tokenID)
}

func (s *redisTokenStore) StoreAccess(ctx context.Context, userID uuid.UUID, tokenID string, ttl time.Duration) error {
	return s.redisClient.Set(ctx, tokenKey(accessTokenKeyPrefix, userID, tokenID), "valid", ttl).Err()
}

func (s *redisTokenStore) StoreRefresh(ctx context.Context, userID uuid.UUID, tokenID string, ttl time.Duration) error {
	return s.redisClient.Set(ctx, tokenKey(refreshTokenKeyPrefix, userID, tokenID), "valid", ttl).Err()
}

func (s *redisTokenStore) IsAccessValid(ctx context.Context, userID uuid.UUID, tokenID string) (bool, error) {
	return s.exists(ctx, tokenKey(accessTokenKeyPrefix, userID, tokenID))
}

func (s *redisTokenStore) IsRefreshValid(ctx context.Context, userID uuid.UUID, tokenID string) (bool, error) {
	return s.exists(ctx, tokenKey(refreshTokenKeyPrefix, userID, tokenID))
}

func (s *redisTokenStore) RevokeAccess(ctx context.Context, userID uuid.UUID, tokenID string) error {
	return s.redisClient.Del(ctx, tokenKey(accessTokenKeyPrefix, userID, tokenID)).Err()
}

func (s *redisTokenStore) RevokeRefresh(ctx context.Context, userID uuid.UUID, tokenID string) error {
	return s.redisClient.Del(ctx, tokenKey(refreshTokenKeyPrefix, userID, tokenID)).Err()
}

// RevokeAll removes every token of the user, used when an account is demoted or disabled
func (s *redisTokenStore) RevokeAll(ctx context.Context, userID uuid.UUID) error {
	for _, prefix := range []string{accessTokenKeyPrefix, refreshTokenKeyPrefix} {
		pattern := fmt.Sprintf("%s:%s:*", prefix, userID.String())
		iter := s.redisClient.Scan(ctx, 0, pattern, 100).Iterator()
		var keys []string
		for iter.Next(ctx) {
			keys = append(keys, iter.Val())
		}
		if err := iter.Err(); err != nil {
			s.log.Warnf("Failed to scan %s keys: %+v", prefix, err)
			return err
		}
		if len(keys) > 0 {
			if err := s.redisClient.Del(ctx, keys...).Err(); err != nil {
				s.log.Warnf("Failed to delete %s keys: %+v", prefix, err)
				return err
			}
		}
	}
	return nil
}

func (s *redisTokenStore) exists(ctx context.Context, key string) (bool, error) {
	n, err := s.redisClient.Exists(ctx, key).Result()
	if err != nil {
		s.log.Warnf("Failed to check token validity: %+v", err)
		return false, err
	}
	return n > 0, nil
}
