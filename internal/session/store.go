// Package session owns the process-wide session token and its persisted
// mirror.
package session

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultCellName is the file stem used for the persisted token.
const DefaultCellName = "health_coach_session"

// Cell is a single persisted key-value slot for the session token. A read
// with no stored token returns ("", nil).
type Cell interface {
	Read() (string, error)
	Write(token string) error
}

// FileCell persists the token as the contents of one file.
type FileCell struct {
	path string
}

// NewFileCell creates a cell backed by the given file path.
func NewFileCell(path string) *FileCell {
	return &FileCell{path: path}
}

func (c *FileCell) Read() (string, error) {
	data, err := os.ReadFile(c.path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read session cell: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

func (c *FileCell) Write(token string) error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	if err := os.WriteFile(c.path, []byte(token+"\n"), 0o600); err != nil {
		return fmt.Errorf("write session cell: %w", err)
	}
	return nil
}

// Store hands out the live session token. All reads and writes of the token
// go through GetOrCreate and Replace; nothing else touches the cell.
type Store struct {
	mu     sync.Mutex
	cell   Cell
	token  string
	logger *zap.Logger
}

// NewStore creates a store over the given cell. A nil cell keeps the token
// in memory only.
func NewStore(cell Cell, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{cell: cell, logger: logger}
}

// GetOrCreate returns the current token, loading the persisted one or
// synthesizing and persisting a new one on first use. Repeated calls return
// the same token. Storage failures degrade to an in-memory token and never
// surface to the caller.
func (s *Store) GetOrCreate() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token != "" {
		return s.token
	}

	if s.cell != nil {
		stored, err := s.cell.Read()
		if err != nil {
			s.logger.Warn("session storage unavailable, using in-memory token",
				zap.Error(err))
		} else if stored != "" {
			s.token = stored
			return s.token
		}
	}

	s.token = newToken()
	s.persistLocked(s.token)
	return s.token
}

// Replace overwrites the in-memory token and its persisted mirror. Used only
// when the backend issues a replacement token.
func (s *Store) Replace(token string) {
	if token == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.persistLocked(token)
}

func (s *Store) persistLocked(token string) {
	if s.cell == nil {
		return
	}
	if err := s.cell.Write(token); err != nil {
		s.logger.Warn("failed to persist session token, continuing in memory",
			zap.Error(err))
	}
}

// newToken synthesizes a token unique with high probability.
func newToken() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return fmt.Sprintf("session_%d_%s", time.Now().UnixMilli(), suffix)
}
