package session

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type failingCell struct{}

func (failingCell) Read() (string, error) { return "", errors.New("storage offline") }
func (failingCell) Write(string) error    { return errors.New("storage offline") }

func TestGetOrCreateIsIdempotent(t *testing.T) {
	cell := NewFileCell(filepath.Join(t.TempDir(), DefaultCellName))
	store := NewStore(cell, zap.NewNop())

	first := store.GetOrCreate()
	second := store.GetOrCreate()

	require.NotEmpty(t, first)
	assert.Equal(t, first, second)
	assert.True(t, strings.HasPrefix(first, "session_"))
}

func TestGetOrCreatePersistsAcrossStores(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultCellName)

	first := NewStore(NewFileCell(path), zap.NewNop()).GetOrCreate()
	second := NewStore(NewFileCell(path), zap.NewNop()).GetOrCreate()

	assert.Equal(t, first, second)
}

func TestReplaceOverwritesTokenAndMirror(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultCellName)
	store := NewStore(NewFileCell(path), zap.NewNop())

	_ = store.GetOrCreate()
	store.Replace("tok2")

	assert.Equal(t, "tok2", store.GetOrCreate())

	reloaded := NewStore(NewFileCell(path), zap.NewNop())
	assert.Equal(t, "tok2", reloaded.GetOrCreate())
}

func TestReplaceIgnoresEmptyToken(t *testing.T) {
	store := NewStore(nil, zap.NewNop())
	token := store.GetOrCreate()
	store.Replace("")
	assert.Equal(t, token, store.GetOrCreate())
}

func TestStorageUnavailableDegradesToMemory(t *testing.T) {
	store := NewStore(failingCell{}, zap.NewNop())

	token := store.GetOrCreate()
	require.NotEmpty(t, token)
	assert.Equal(t, token, store.GetOrCreate())

	store.Replace("tok2")
	assert.Equal(t, "tok2", store.GetOrCreate())
}

func TestTokensAreUnique(t *testing.T) {
	a := NewStore(nil, zap.NewNop()).GetOrCreate()
	b := NewStore(nil, zap.NewNop()).GetOrCreate()
	assert.NotEqual(t, a, b)
}
