package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xaenox/health-coach/internal/models"
	"github.com/xaenox/health-coach/internal/session"
)

type fakeMetricPoster struct {
	err    error
	calls  int
	tokens []string
	types  []string
}

func (f *fakeMetricPoster) LogMetric(_ context.Context, token, metricType, _, _ string) error {
	f.calls++
	f.tokens = append(f.tokens, token)
	f.types = append(f.types, metricType)
	return f.err
}

type fakeProfileFetcher struct {
	profile *models.UserProfile
	err     error
}

func (f *fakeProfileFetcher) Profile(context.Context, string) (*models.UserProfile, error) {
	return f.profile, f.err
}

func TestMetricLoggerCarriesSessionToken(t *testing.T) {
	store := session.NewStore(nil, zap.NewNop())
	poster := &fakeMetricPoster{}
	logger := NewMetricLogger(poster, store, zap.NewNop())

	logger.Log(context.Background(), models.MetricObservation{Type: "steps", Value: "8234", Unit: "count"})

	require.Equal(t, 1, poster.calls)
	assert.Equal(t, store.GetOrCreate(), poster.tokens[0])
	assert.Equal(t, "steps", poster.types[0])
}

func TestMetricLoggerSwallowsFailures(t *testing.T) {
	store := session.NewStore(nil, zap.NewNop())
	poster := &fakeMetricPoster{err: errors.New("backend down")}
	logger := NewMetricLogger(poster, store, zap.NewNop())

	// Must not panic or surface the error anywhere.
	logger.Log(context.Background(), models.MetricObservation{Type: "sleep", Value: "7.5", Unit: "h"})
	assert.Equal(t, 1, poster.calls)
}

func TestProfileLoaderReturnsProfile(t *testing.T) {
	store := session.NewStore(nil, zap.NewNop())
	fetcher := &fakeProfileFetcher{profile: &models.UserProfile{Name: "Sam", HealthGoals: []string{"sleep"}}}
	loader := NewProfileLoader(fetcher, store, zap.NewNop())

	profile := loader.Load(context.Background())
	require.NotNil(t, profile)
	assert.Equal(t, "Sam", profile.Name)
}

func TestProfileLoaderAbsentOnFailure(t *testing.T) {
	store := session.NewStore(nil, zap.NewNop())
	fetcher := &fakeProfileFetcher{err: errors.New("unreachable")}
	loader := NewProfileLoader(fetcher, store, zap.NewNop())

	assert.Nil(t, loader.Load(context.Background()))
}
