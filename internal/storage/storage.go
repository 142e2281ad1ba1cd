package storage

import (
	"context"

	"github.com/xaenox/health-coach/internal/models"
)

// Storage persists backend-side state: chat turns, user profiles, and
// metric observations, all keyed by session token.
type Storage interface {
	SaveChatRecord(ctx context.Context, record *models.ChatRecord) error
	GetSessionHistory(ctx context.Context, sessionID string, limit int) ([]*models.ChatRecord, error)

	GetProfile(ctx context.Context, sessionID string) (*models.UserProfile, error)
	SaveProfile(ctx context.Context, sessionID string, profile *models.UserProfile) error

	SaveMetric(ctx context.Context, sessionID string, obs models.MetricObservation) error

	Close() error
}
