package engine

import (
	"context"

	"go.uber.org/zap"

	"github.com/xaenox/health-coach/internal/models"
	"github.com/xaenox/health-coach/internal/session"
)

// MetricPoster reports one metric observation. *api.Client satisfies it.
type MetricPoster interface {
	LogMetric(ctx context.Context, token, metricType, value, unit string) error
}

// MetricLogger is the fire-and-forget metric side channel. Failures are
// logged for diagnostics and otherwise swallowed; they never touch the
// transcript or the in-flight flag.
type MetricLogger struct {
	client   MetricPoster
	sessions *session.Store
	logger   *zap.Logger
}

// NewMetricLogger creates the metric side channel.
func NewMetricLogger(client MetricPoster, sessions *session.Store, logger *zap.Logger) *MetricLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MetricLogger{client: client, sessions: sessions, logger: logger}
}

// Log reports one observation under the current session token.
func (l *MetricLogger) Log(ctx context.Context, obs models.MetricObservation) {
	token := l.sessions.GetOrCreate()
	if err := l.client.LogMetric(ctx, token, obs.Type, obs.Value, obs.Unit); err != nil {
		l.logger.Warn("failed to log metric",
			zap.Error(err),
			zap.String("type", obs.Type))
	}
}

// ProfileFetcher fetches the user profile. *api.Client satisfies it.
type ProfileFetcher interface {
	Profile(ctx context.Context, token string) (*models.UserProfile, error)
}

// ProfileLoader is the one-shot profile fetch keyed by the current session.
type ProfileLoader struct {
	client   ProfileFetcher
	sessions *session.Store
	logger   *zap.Logger
}

// NewProfileLoader creates the profile loader.
func NewProfileLoader(client ProfileFetcher, sessions *session.Store, logger *zap.Logger) *ProfileLoader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfileLoader{client: client, sessions: sessions, logger: logger}
}

// Load returns the profile, or nil on any transport or decode failure.
// Callers decide whether to retry or show a default state.
func (l *ProfileLoader) Load(ctx context.Context) *models.UserProfile {
	token := l.sessions.GetOrCreate()
	profile, err := l.client.Profile(ctx, token)
	if err != nil {
		l.logger.Warn("failed to load profile", zap.Error(err))
		return nil
	}
	return profile
}
