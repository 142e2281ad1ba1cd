package storage

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xaenox/health-coach/internal/models"
)

func TestMemoryStorageHistoryOrderAndLimit(t *testing.T) {
	store := NewMemoryStorage()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		err := store.SaveChatRecord(ctx, &models.ChatRecord{
			ID:        fmt.Sprintf("m%d", i),
			SessionID: "s1",
			Origin:    models.OriginUser,
			Text:      fmt.Sprintf("turn %d", i),
		})
		require.NoError(t, err)
	}

	history, err := store.GetSessionHistory(ctx, "s1", 3)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, "turn 2", history[0].Text)
	assert.Equal(t, "turn 4", history[2].Text)

	all, err := store.GetSessionHistory(ctx, "s1", 0)
	require.NoError(t, err)
	assert.Len(t, all, 5)

	other, err := store.GetSessionHistory(ctx, "other", 0)
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestMemoryStorageProfileDefaultsWhenAbsent(t *testing.T) {
	store := NewMemoryStorage()
	ctx := context.Background()

	profile, err := store.GetProfile(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, profile.Name)
	assert.NotNil(t, profile.HealthGoals)

	err = store.SaveProfile(ctx, "s1", &models.UserProfile{Name: "Sam", FitnessLevel: "beginner", HealthGoals: []string{"sleep"}})
	require.NoError(t, err)

	profile, err = store.GetProfile(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "Sam", profile.Name)
	assert.Equal(t, []string{"sleep"}, profile.HealthGoals)
}

func TestMemoryStorageMetrics(t *testing.T) {
	store := NewMemoryStorage()
	ctx := context.Background()

	require.NoError(t, store.SaveMetric(ctx, "s1", models.MetricObservation{Type: "steps", Value: "8234", Unit: "count"}))
	require.NoError(t, store.SaveMetric(ctx, "s1", models.MetricObservation{Type: "sleep", Value: "7.5", Unit: "h"}))

	assert.Equal(t, 2, store.MetricCount("s1"))
	assert.Zero(t, store.MetricCount("s2"))
}
