package repository

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"contract-workspace/internal/domain/entity"
	"contract-workspace/internal/infrastructure/database"
)

// APILogRepository stores and lists outbound API logs. Listing is always
// scoped to the email the calls were made for.
type APILogRepository interface {
	Save(ctx context.Context, log *entity.APILog) error
	List(ctx context.Context, email string, limit int) ([]entity.APILog, error)
	SearchByEndpoint(ctx context.Context, email, fragment string, limit int) ([]entity.APILog, error)
}

type apiLogRepository struct {
	db     *database.Database
	logger *zap.Logger
}

// NewAPILogRepository creates a new API log repository. With persistence
// disabled every call is a no-op.
func NewAPILogRepository(db *database.Database, logger *zap.Logger) APILogRepository {
	return &apiLogRepository{
		db:     db,
		logger: logger,
	}
}

func (r *apiLogRepository) Save(ctx context.Context, log *entity.APILog) error {
	if r.db == nil {
		return nil
	}

	query := `
		INSERT INTO api_logs (endpoint, method, request_body, response_body, status_code, duration_ms, email, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.DB.ExecContext(ctx, query,
		log.Endpoint,
		log.Method,
		log.RequestBody,
		log.ResponseBody,
		log.StatusCode,
		log.Duration,
		log.Email,
		log.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to save API log",
			zap.String("endpoint", log.Endpoint),
			zap.Error(err),
		)
		return fmt.Errorf("failed to save API log: %w", err)
	}

	return nil
}

func (r *apiLogRepository) List(ctx context.Context, email string, limit int) ([]entity.APILog, error) {
	if r.db == nil {
		return []entity.APILog{}, nil
	}

	query := `
		SELECT id, endpoint, method, request_body, response_body, status_code, duration_ms, email, created_at
		FROM api_logs
		WHERE email = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	return r.query(ctx, query, email, limit)
}

func (r *apiLogRepository) SearchByEndpoint(ctx context.Context, email, fragment string, limit int) ([]entity.APILog, error) {
	if r.db == nil {
		return []entity.APILog{}, nil
	}

	query := `
		SELECT id, endpoint, method, request_body, response_body, status_code, duration_ms, email, created_at
		FROM api_logs
		WHERE email = $1 AND endpoint ILIKE '%' || $2 || '%'
		ORDER BY created_at DESC
		LIMIT $3
	`
	return r.query(ctx, query, email, fragment, limit)
}

func (r *apiLogRepository) query(ctx context.Context, query string, args ...interface{}) ([]entity.APILog, error) {
	rows, err := r.db.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query API logs: %w", err)
	}
	defer rows.Close()

	logs := []entity.APILog{}
	for rows.Next() {
		var l entity.APILog
		if err := rows.Scan(
			&l.ID,
			&l.Endpoint,
			&l.Method,
			&l.RequestBody,
			&l.ResponseBody,
			&l.StatusCode,
			&l.Duration,
			&l.Email,
			&l.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan API log: %w", err)
		}
		logs = append(logs, l)
	}

	return logs, rows.Err()
}
