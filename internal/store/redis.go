package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/studyhub/journey/internal/config"
	"github.com/studyhub/journey/internal/models"
)

// ErrNotFound is returned when no journey exists for a date key.
var ErrNotFound = errors.New("journey not found")

// ErrAlreadyExists is returned when an insert hits an existing journey
// for the same date key.
var ErrAlreadyExists = errors.New("journey already exists for date")

// Store is the persistence surface the pipeline and API depend on.
type Store interface {
	JourneyExists(ctx context.Context, dateKey string) (bool, error)
	SaveJourney(ctx context.Context, journey *models.Journey) error
	GetJourney(ctx context.Context, dateKey string) (*models.Journey, error)
	IsArticleUsed(ctx context.Context, url string) (bool, error)
	MarkArticleUsed(ctx context.Context, url string, ttl time.Duration) error
	Close() error
}

// RedisStore persists journeys as JSON values keyed by date, plus
// short-lived marks for article URLs already consumed by a run.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(cfg *config.Config) (*RedisStore, error) {
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisStore{
		client: client,
		prefix: cfg.RedisPrefix,
	}, nil
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}

func (r *RedisStore) journeyKey(dateKey string) string {
	return r.prefix + "journey:" + dateKey
}

func (r *RedisStore) articleKey(url string) string {
	return r.prefix + "article:" + hashURL(url)
}

// JourneyExists reports whether a journey was already written for the
// given date key. This is the pipeline's idempotency guard.
func (r *RedisStore) JourneyExists(ctx context.Context, dateKey string) (bool, error) {
	exists, err := r.client.Exists(ctx, r.journeyKey(dateKey)).Result()
	if err != nil {
		return false, fmt.Errorf("redis exists error: %w", err)
	}
	return exists > 0, nil
}

// SaveJourney inserts the journey. SetNX keeps the insert atomic: a
// concurrent run that slipped past the exists check still cannot
// overwrite the day's record.
func (r *RedisStore) SaveJourney(ctx context.Context, journey *models.Journey) error {
	data, err := json.Marshal(journey)
	if err != nil {
		return fmt.Errorf("failed to marshal journey: %w", err)
	}

	set, err := r.client.SetNX(ctx, r.journeyKey(journey.JourneyDate), data, 0).Result()
	if err != nil {
		return fmt.Errorf("redis setnx error: %w", err)
	}
	if !set {
		return fmt.Errorf("%w: %s", ErrAlreadyExists, journey.JourneyDate)
	}

	return nil
}

// GetJourney loads the journey for a date key.
func (r *RedisStore) GetJourney(ctx context.Context, dateKey string) (*models.Journey, error) {
	data, err := r.client.Get(ctx, r.journeyKey(dateKey)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get error: %w", err)
	}

	var journey models.Journey
	if err := json.Unmarshal(data, &journey); err != nil {
		return nil, fmt.Errorf("failed to unmarshal journey: %w", err)
	}

	return &journey, nil
}

// IsArticleUsed reports whether a prior run already consumed this URL.
func (r *RedisStore) IsArticleUsed(ctx context.Context, url string) (bool, error) {
	exists, err := r.client.Exists(ctx, r.articleKey(url)).Result()
	if err != nil {
		return false, fmt.Errorf("redis exists error: %w", err)
	}
	return exists > 0, nil
}

// MarkArticleUsed records that a run consumed this URL, expiring after
// ttl so the mark does not outlive its usefulness.
func (r *RedisStore) MarkArticleUsed(ctx context.Context, url string, ttl time.Duration) error {
	return r.client.Set(ctx, r.articleKey(url), "1", ttl).Err()
}

// hashURL keeps article keys short and uniform.
func hashURL(url string) string {
	sum := sha256.Sum256([]byte(url))
	return hex.EncodeToString(sum[:])
}
