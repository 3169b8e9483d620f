package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/vfg2006/ad-performance-sync/infrastructure/database/postgres"
	"github.com/vfg2006/ad-performance-sync/internal/domain"
)

const (
	syncResultsTable = "sync_results"

	syncResultIDLength = 10
)

// SyncResultRepository persiste a trilha de auditoria das sincronizações
type SyncResultRepository interface {
	Save(result *domain.SyncResult) error
	ListRecent(limit uint64) ([]*domain.SyncResult, error)
}

type syncResultRepository struct {
	conn postgres.Conn
}

func NewSyncResultRepository(conn postgres.Conn) SyncResultRepository {
	return &syncResultRepository{
		conn: conn,
	}
}

func (r *syncResultRepository) Save(result *domain.SyncResult) error {
	if result.ID == "" {
		id, err := gonanoid.Generate(ruleIDCharacters, syncResultIDLength)
		if err != nil {
			return fmt.Errorf("erro ao gerar id do resultado de sincronização: %w", err)
		}
		result.ID = id
	}

	query, args, err := squirrel.StatementBuilder.
		Insert(syncResultsTable).
		Columns(
			"id", "platform", "window_start", "window_end",
			"deleted", "inserted", "duration_ms", "success", "error", "triggered_by",
		).
		Values(
			result.ID,
			string(result.Platform),
			result.WindowStart.Format(time.DateOnly),
			result.WindowEnd.Format(time.DateOnly),
			result.Deleted,
			result.Inserted,
			result.DurationMS,
			result.Success,
			result.Error,
			result.TriggeredBy,
		).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	_, err = r.conn.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("erro ao executar a query: %w", err)
	}

	return nil
}

func (r *syncResultRepository) ListRecent(limit uint64) ([]*domain.SyncResult, error) {
	if limit == 0 {
		limit = 50
	}

	query, args, err := squirrel.
		Select("sr.id, sr.platform, sr.window_start, sr.window_end, sr.deleted, sr.inserted, sr.duration_ms, sr.success, sr.error, sr.triggered_by, sr.created_at").
		From(syncResultsTable + " sr").
		OrderBy("sr.created_at DESC").
		Limit(limit).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	results := make([]*domain.SyncResult, 0)
	for rows.Next() {
		result, err := scanSyncResult(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear resultado de sincronização: %w", err)
		}
		results = append(results, result)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return results, nil
}

func scanSyncResult(rows *sql.Rows) (*domain.SyncResult, error) {
	result := &domain.SyncResult{}
	var errMsg sql.NullString

	err := rows.Scan(
		&result.ID,
		&result.Platform,
		&result.WindowStart,
		&result.WindowEnd,
		&result.Deleted,
		&result.Inserted,
		&result.DurationMS,
		&result.Success,
		&errMsg,
		&result.TriggeredBy,
		&result.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if errMsg.Valid {
		result.Error = errMsg.String
	}

	return result, nil
}
