package server

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xaenox/health-coach/internal/api"
	"github.com/xaenox/health-coach/internal/engine"
	"github.com/xaenox/health-coach/internal/models"
	"github.com/xaenox/health-coach/internal/session"
)

// Drives the real client engine against the real backend handler.
func TestEngineAgainstBackend(t *testing.T) {
	srv, store := newTestServer(t)

	client := api.NewClient(&api.ClientConfig{BaseURL: srv.URL})
	sessions := session.NewStore(nil, zap.NewNop())
	eng := engine.New(engine.Config{}, client, sessions, zap.NewNop())

	// The client starts with a locally synthesized token; the backend keeps it.
	localToken := sessions.GetOrCreate()
	eng.SubmitQuickAction(context.Background(), "Design my 30-min workout", models.CategoryFitness)

	msgs := eng.Transcript().Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, models.OriginAssistant, msgs[2].Origin)
	assert.Contains(t, msgs[2].Text, "30-minute")
	assert.Equal(t, string(models.CategoryFitness), msgs[2].Category)
	assert.Equal(t, localToken, sessions.GetOrCreate())

	history, err := store.GetSessionHistory(context.Background(), localToken, 0)
	require.NoError(t, err)
	assert.Len(t, history, 2)

	// Metric logging and profile loading ride the same session.
	engine.NewMetricLogger(client, sessions, zap.NewNop()).
		Log(context.Background(), models.MetricObservation{Type: "water", Value: "6/8", Unit: "glasses"})
	assert.Equal(t, 1, store.MetricCount(localToken))

	profile := engine.NewProfileLoader(client, sessions, zap.NewNop()).Load(context.Background())
	require.NotNil(t, profile)
	assert.Empty(t, profile.Name)
}
