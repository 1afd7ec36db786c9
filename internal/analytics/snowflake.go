package analytics

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mindmesh/mindmesh-api/internal/config"
	"github.com/mindmesh/mindmesh-api/internal/domain"
	"github.com/rs/zerolog"
	sf "github.com/snowflakedb/gosnowflake"
)

// Service mirrors projects and recordings into a Snowflake warehouse and
// records usage events. Every method is a no-op when the warehouse is not
// configured; the application never depends on analytics availability.
type Service struct {
	db     *sql.DB
	cfg    config.SnowflakeConfig
	logger zerolog.Logger
}

// NewService opens a warehouse connection when credentials are present.
// A missing or unreachable warehouse yields a disabled service, not an error.
func NewService(cfg config.SnowflakeConfig, logger zerolog.Logger) *Service {
	svc := &Service{cfg: cfg, logger: logger.With().Str("component", "analytics").Logger()}

	if !cfg.Configured() {
		svc.logger.Debug().Msg("snowflake credentials not configured, analytics sync disabled")
		return svc
	}

	dsn, err := sf.DSN(&sf.Config{
		Account:   cfg.Account,
		User:      cfg.User,
		Password:  cfg.Password,
		Warehouse: cfg.Warehouse,
		Database:  cfg.Database,
		Schema:    cfg.Schema,
		Role:      cfg.Role,
	})
	if err != nil {
		svc.logger.Warn().Err(err).Msg("invalid snowflake configuration, analytics sync disabled")
		return svc
	}

	db, err := sql.Open("snowflake", dsn)
	if err != nil {
		svc.logger.Warn().Err(err).Msg("failed to open snowflake connection, analytics sync disabled")
		return svc
	}

	db.SetMaxOpenConns(4)
	db.SetConnMaxIdleTime(5 * time.Minute)
	svc.db = db
	return svc
}

// Enabled reports whether warehouse sync is active.
func (s *Service) Enabled() bool {
	return s.db != nil
}

// Close releases the warehouse connection.
func (s *Service) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// EnsureTables creates the warehouse tables when absent.
func (s *Service) EnsureTables(ctx context.Context) error {
	if !s.Enabled() {
		return nil
	}

	ddl := []string{
		`CREATE TABLE IF NOT EXISTS recordings (
			id VARCHAR(255) PRIMARY KEY,
			project_id VARCHAR(255),
			user_id VARCHAR(255),
			user_email VARCHAR(255),
			title VARCHAR(500),
			transcript TEXT,
			recording_time NUMBER,
			status VARCHAR(50),
			insights VARIANT,
			notes VARIANT,
			brainstorm VARIANT,
			mindmap TEXT,
			created_at TIMESTAMP_NTZ,
			updated_at TIMESTAMP_NTZ
		)`,
		`CREATE TABLE IF NOT EXISTS projects (
			id VARCHAR(255) PRIMARY KEY,
			title VARCHAR(500),
			description TEXT,
			owner_id VARCHAR(255),
			owner_email VARCHAR(255),
			tags VARIANT,
			status VARCHAR(50),
			created_at TIMESTAMP_NTZ,
			updated_at TIMESTAMP_NTZ
		)`,
		`CREATE TABLE IF NOT EXISTS analytics (
			id VARCHAR(255) PRIMARY KEY,
			event_type VARCHAR(100),
			user_id VARCHAR(255),
			project_id VARCHAR(255),
			recording_id VARCHAR(255),
			metadata VARIANT,
			created_at TIMESTAMP_NTZ
		)`,
	}

	for _, stmt := range ddl {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create analytics table: %w", err)
		}
	}

	s.logger.Info().Msg("snowflake tables verified")
	return nil
}

// SyncProject upserts a project row in the warehouse. Sync failures are
// logged, not returned; the source of truth stays in the document store.
func (s *Service) SyncProject(ctx context.Context, p *domain.Project) {
	if !s.Enabled() {
		return
	}

	tags, _ := json.Marshal(p.Tags)

	const stmt = `
		MERGE INTO projects AS target
		USING (SELECT ? AS id) AS source
		ON target.id = source.id
		WHEN MATCHED THEN
			UPDATE SET title = ?, description = ?, tags = PARSE_JSON(?), status = ?, updated_at = ?
		WHEN NOT MATCHED THEN
			INSERT (id, title, description, owner_id, owner_email, tags, status, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, PARSE_JSON(?), ?, ?, ?)`

	id := p.ID.Hex()
	_, err := s.db.ExecContext(ctx, stmt,
		id,
		p.Title, p.Description, string(tags), p.Status, p.UpdatedAt,
		id, p.Title, p.Description, p.OwnerID, p.OwnerEmail, string(tags), p.Status, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		s.logger.Warn().Err(err).Str("project_id", id).Msg("failed to sync project to snowflake")
		return
	}
	s.logger.Debug().Str("project_id", id).Msg("project synced to snowflake")
}

// SyncRecording upserts a recording row, including its AI artifacts.
func (s *Service) SyncRecording(ctx context.Context, rec *domain.Recording) {
	if !s.Enabled() {
		return
	}

	insights := marshalOrNull(rec.Insights)
	notes := marshalOrNull(rec.Notes)
	brainstorm := marshalOrNull(rec.Brainstorm)

	const stmt = `
		MERGE INTO recordings AS target
		USING (SELECT ? AS id) AS source
		ON target.id = source.id
		WHEN MATCHED THEN
			UPDATE SET title = ?, transcript = ?, recording_time = ?, status = ?,
				insights = PARSE_JSON(?), notes = PARSE_JSON(?), brainstorm = PARSE_JSON(?),
				mindmap = ?, updated_at = ?
		WHEN NOT MATCHED THEN
			INSERT (id, project_id, user_id, user_email, title, transcript, recording_time, status,
				insights, notes, brainstorm, mindmap, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, PARSE_JSON(?), PARSE_JSON(?), PARSE_JSON(?), ?, ?, ?)`

	id := rec.ID.Hex()
	_, err := s.db.ExecContext(ctx, stmt,
		id,
		rec.Title, rec.Transcript, rec.RecordingTime, rec.Status, insights, notes, brainstorm, rec.Mindmap, rec.UpdatedAt,
		id, rec.ProjectID.Hex(), rec.UserID, rec.UserEmail, rec.Title, rec.Transcript, rec.RecordingTime, rec.Status,
		insights, notes, brainstorm, rec.Mindmap, rec.CreatedAt, rec.UpdatedAt,
	)
	if err != nil {
		s.logger.Warn().Err(err).Str("recording_id", id).Msg("failed to sync recording to snowflake")
		return
	}
	s.logger.Debug().Str("recording_id", id).Msg("recording synced to snowflake")
}

// LogEvent records a usage event.
func (s *Service) LogEvent(ctx context.Context, eventType, userID, projectID, recordingID string, metadata map[string]any) {
	if !s.Enabled() {
		return
	}

	meta, _ := json.Marshal(metadata)

	const stmt = `
		INSERT INTO analytics (id, event_type, user_id, project_id, recording_id, metadata, created_at)
		SELECT ?, ?, ?, ?, ?, PARSE_JSON(?), ?`

	_, err := s.db.ExecContext(ctx, stmt,
		uuid.NewString(), eventType, userID, nullable(projectID), nullable(recordingID), string(meta), time.Now().UTC(),
	)
	if err != nil {
		s.logger.Warn().Err(err).Str("event_type", eventType).Msg("failed to log analytics event")
	}
}

// Allowed analytics query types.
const (
	QueryRecordingsCount      = "recordings_count"
	QueryRecordingsByUser     = "recordings_by_user"
	QueryRecordingsByProject  = "recordings_by_project"
	QueryTranscriptLengthStat = "transcript_length_stats"
)

var analyticsQueries = map[string]string{
	QueryRecordingsCount: `
		SELECT COUNT(*) AS count
		FROM recordings
		WHERE created_at >= DATEADD(day, -30, CURRENT_TIMESTAMP())`,
	QueryRecordingsByUser: `
		SELECT user_email, COUNT(*) AS count
		FROM recordings
		GROUP BY user_email
		ORDER BY count DESC`,
	QueryRecordingsByProject: `
		SELECT p.title AS project_title, COUNT(r.id) AS recording_count
		FROM projects p
		LEFT JOIN recordings r ON p.id = r.project_id
		GROUP BY p.title
		ORDER BY recording_count DESC`,
	QueryTranscriptLengthStat: `
		SELECT
			AVG(LENGTH(transcript)) AS avg_length,
			MIN(LENGTH(transcript)) AS min_length,
			MAX(LENGTH(transcript)) AS max_length,
			COUNT(*) AS total_recordings
		FROM recordings
		WHERE transcript IS NOT NULL AND transcript != ''`,
}

// GetAnalytics runs one of the fixed reporting queries. Only the allow-listed
// query types are accepted; arbitrary SQL never reaches the warehouse.
func (s *Service) GetAnalytics(ctx context.Context, queryType string) ([]map[string]any, error) {
	if !s.Enabled() {
		return nil, domain.Upstreamf("analytics warehouse is not configured")
	}

	query, ok := analyticsQueries[queryType]
	if !ok {
		return nil, domain.Validationf("unknown query type: %s", queryType)
	}

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, domain.Upstreamf("analytics query failed: %v", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}

	var results []map[string]any
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		row := make(map[string]any, len(columns))
		for i, col := range columns {
			row[col] = values[i]
		}
		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}

	return results, nil
}

func marshalOrNull[T any](v *T) any {
	if v == nil {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return string(data)
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
