package storage

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/xaenox/health-coach/internal/models"
)

//go:embed migrations.sql
var migrations embed.FS

type DatabaseConfig struct {
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	UseInMemory bool
}

// PostgresStorage persists backend state in PostgreSQL.
type PostgresStorage struct {
	db *sql.DB
}

func NewPostgresStorage(config DatabaseConfig) (*PostgresStorage, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		config.Host, config.Port, config.User, config.Password, config.DBName, config.SSLMode)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("error connecting to the database: %w", err)
	}

	storage := &PostgresStorage{db: db}

	if err := storage.initializeSchema(); err != nil {
		return nil, fmt.Errorf("error initializing database schema: %w", err)
	}

	return storage, nil
}

func (s *PostgresStorage) initializeSchema() error {
	migrationSQL, err := migrations.ReadFile("migrations.sql")
	if err != nil {
		return fmt.Errorf("error reading migrations file: %w", err)
	}

	if _, err := s.db.Exec(string(migrationSQL)); err != nil {
		return fmt.Errorf("error executing migrations: %w", err)
	}

	return nil
}

func (s *PostgresStorage) SaveChatRecord(ctx context.Context, record *models.ChatRecord) error {
	query := `
		INSERT INTO chat_records (id, session_id, origin, content, category)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`

	err := s.db.QueryRowContext(ctx, query,
		record.ID,
		record.SessionID,
		string(record.Origin),
		record.Text,
		record.Category,
	).Scan(&record.CreatedAt)

	if err != nil {
		return fmt.Errorf("error saving chat record: %w", err)
	}

	return nil
}

func (s *PostgresStorage) GetSessionHistory(ctx context.Context, sessionID string, limit int) ([]*models.ChatRecord, error) {
	query := `
		SELECT id, session_id, origin, content, category, created_at
		FROM chat_records
		WHERE session_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, query, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("error querying chat records: %w", err)
	}
	defer rows.Close()

	var records []*models.ChatRecord
	for rows.Next() {
		record := &models.ChatRecord{}
		var origin string
		err := rows.Scan(
			&record.ID,
			&record.SessionID,
			&origin,
			&record.Text,
			&record.Category,
			&record.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning chat record: %w", err)
		}
		record.Origin = models.Origin(origin)
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating chat records: %w", err)
	}

	// Rows came back newest first; hand them out in conversation order.
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}

	return records, nil
}

func (s *PostgresStorage) GetProfile(ctx context.Context, sessionID string) (*models.UserProfile, error) {
	query := `
		SELECT name, fitness_level, health_goals
		FROM profiles
		WHERE session_id = $1`

	profile := &models.UserProfile{}
	err := s.db.QueryRowContext(ctx, query, sessionID).Scan(
		&profile.Name,
		&profile.FitnessLevel,
		pq.Array(&profile.HealthGoals),
	)
	if errors.Is(err, sql.ErrNoRows) {
		return &models.UserProfile{HealthGoals: []string{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error querying profile: %w", err)
	}
	if profile.HealthGoals == nil {
		profile.HealthGoals = []string{}
	}

	return profile, nil
}

func (s *PostgresStorage) SaveProfile(ctx context.Context, sessionID string, profile *models.UserProfile) error {
	query := `
		INSERT INTO profiles (session_id, name, fitness_level, health_goals, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (session_id) DO UPDATE
		SET name = $2, fitness_level = $3, health_goals = $4, updated_at = NOW()`

	_, err := s.db.ExecContext(ctx, query,
		sessionID,
		profile.Name,
		profile.FitnessLevel,
		pq.Array(profile.HealthGoals),
	)
	if err != nil {
		return fmt.Errorf("error saving profile: %w", err)
	}

	return nil
}

func (s *PostgresStorage) SaveMetric(ctx context.Context, sessionID string, obs models.MetricObservation) error {
	query := `
		INSERT INTO metric_observations (session_id, metric_type, value, unit)
		VALUES ($1, $2, $3, $4)`

	_, err := s.db.ExecContext(ctx, query, sessionID, obs.Type, obs.Value, obs.Unit)
	if err != nil {
		return fmt.Errorf("error saving metric: %w", err)
	}

	return nil
}

func (s *PostgresStorage) Close() error {
	return s.db.Close()
}
