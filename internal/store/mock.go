package store

import (
	"context"
	"sync"
	"time"

	"github.com/studyhub/journey/internal/models"
)

// MockStore provides an in-memory Store implementation for tests and
// for running without Redis.
type MockStore struct {
	mu       sync.Mutex
	journeys map[string]*models.Journey
	articles map[string]bool
}

func NewMockStore() *MockStore {
	return &MockStore{
		journeys: make(map[string]*models.Journey),
		articles: make(map[string]bool),
	}
}

func (m *MockStore) Close() error {
	return nil
}

func (m *MockStore) JourneyExists(ctx context.Context, dateKey string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, exists := m.journeys[dateKey]
	return exists, nil
}

func (m *MockStore) SaveJourney(ctx context.Context, journey *models.Journey) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.journeys[journey.JourneyDate]; exists {
		return ErrAlreadyExists
	}
	m.journeys[journey.JourneyDate] = journey
	return nil
}

func (m *MockStore) GetJourney(ctx context.Context, dateKey string) (*models.Journey, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	journey, exists := m.journeys[dateKey]
	if !exists {
		return nil, ErrNotFound
	}
	return journey, nil
}

func (m *MockStore) IsArticleUsed(ctx context.Context, url string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.articles[hashURL(url)], nil
}

func (m *MockStore) MarkArticleUsed(ctx context.Context, url string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.articles[hashURL(url)] = true
	return nil
}
