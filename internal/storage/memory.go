package storage

import (
	"context"
	"sync"
	"time"

	"github.com/xaenox/health-coach/internal/models"
)

type metricRecord struct {
	obs     models.MetricObservation
	created time.Time
}

// MemoryStorage is the in-memory backend, used for development and tests.
type MemoryStorage struct {
	mu       sync.RWMutex
	records  map[string][]*models.ChatRecord
	profiles map[string]*models.UserProfile
	metrics  map[string][]metricRecord
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		records:  make(map[string][]*models.ChatRecord),
		profiles: make(map[string]*models.UserProfile),
		metrics:  make(map[string][]metricRecord),
	}
}

func (s *MemoryStorage) SaveChatRecord(_ context.Context, record *models.ChatRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	saved := *record
	if saved.CreatedAt.IsZero() {
		saved.CreatedAt = time.Now()
	}
	s.records[saved.SessionID] = append(s.records[saved.SessionID], &saved)
	return nil
}

func (s *MemoryStorage) GetSessionHistory(_ context.Context, sessionID string, limit int) ([]*models.ChatRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := s.records[sessionID]
	if limit > 0 && len(records) > limit {
		records = records[len(records)-limit:]
	}

	out := make([]*models.ChatRecord, len(records))
	for i, r := range records {
		copied := *r
		out[i] = &copied
	}
	return out, nil
}

func (s *MemoryStorage) GetProfile(_ context.Context, sessionID string) (*models.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if profile, exists := s.profiles[sessionID]; exists {
		copied := *profile
		return &copied, nil
	}
	return &models.UserProfile{HealthGoals: []string{}}, nil
}

func (s *MemoryStorage) SaveProfile(_ context.Context, sessionID string, profile *models.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *profile
	s.profiles[sessionID] = &copied
	return nil
}

func (s *MemoryStorage) SaveMetric(_ context.Context, sessionID string, obs models.MetricObservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.metrics[sessionID] = append(s.metrics[sessionID], metricRecord{obs: obs, created: time.Now()})
	return nil
}

// MetricCount reports stored observations for a session. Test helper.
func (s *MemoryStorage) MetricCount(sessionID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.metrics[sessionID])
}

func (s *MemoryStorage) Close() error {
	// Nothing to close for in-memory storage
	return nil
}
