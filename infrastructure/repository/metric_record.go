package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/vfg2006/ad-performance-sync/infrastructure/database/postgres"
	"github.com/vfg2006/ad-performance-sync/internal/domain"
)

const (
	metricRecordsTable   = "metric_records"
	metricRecordsColumns = "mr.id, mr.platform, mr.entity_id, mr.entity_name, mr.parent_id, " +
		"mr.reporting_starts, mr.reporting_ends, mr.category, mr.spend, mr.revenue, " +
		"mr.purchases, mr.impressions, mr.clicks, mr.status, mr.status_source, " +
		"mr.created_at, mr.updated_at"
)

// MetricRecordRepository é o acesso à tabela canônica de métricas.
// DeleteByWindow e InsertRecord recebem a transação aberta pelo orquestrador:
// a limpeza escopada e a reinserção de uma janela são sempre atômicas.
type MetricRecordRepository interface {
	DeleteByWindow(tx *sql.Tx, platform domain.Platform, window domain.SyncWindow) (int64, error)
	InsertRecord(tx *sql.Tx, record *domain.MetricRecord) error
	GetByFilters(filters *domain.RecordFilters) ([]*domain.MetricRecord, error)
	GetByKey(platform domain.Platform, entityID string, starts, ends time.Time) (*domain.MetricRecord, error)
	ListEntities(platform domain.Platform) ([]string, error)
	GetEntityStatus(platform domain.Platform, entityID string) (*domain.EntityStatus, *domain.StatusSource, error)
	UpdateEntityStatus(platform domain.Platform, entityID string, status *domain.EntityStatus, source *domain.StatusSource) error
}

type metricRecordRepository struct {
	conn postgres.Conn
}

func NewMetricRecordRepository(conn postgres.Conn) MetricRecordRepository {
	return &metricRecordRepository{
		conn: conn,
	}
}

// DeleteByWindow remove somente os registros da plataforma cujo período de
// apuração cai inteiramente dentro da janela. É a única política de limpeza
// existente: não há caminho de código para limpar a tabela inteira.
func (r *metricRecordRepository) DeleteByWindow(tx *sql.Tx, platform domain.Platform, window domain.SyncWindow) (int64, error) {
	query, args, err := squirrel.
		Delete(metricRecordsTable).
		Where(squirrel.Eq{"platform": string(platform)}).
		Where(squirrel.GtOrEq{"reporting_starts": window.Start.Format(time.DateOnly)}).
		Where(squirrel.LtOrEq{"reporting_ends": window.End.Format(time.DateOnly)}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("erro ao construir a query: %w", err)
	}

	result, err := tx.Exec(query, args...)
	if err != nil {
		return 0, fmt.Errorf("erro ao executar a query: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("erro ao obter número de linhas afetadas: %w", err)
	}

	return rowsAffected, nil
}

// InsertRecord insere um registro dentro da transação de sincronização.
// Em caso de conflito na chave única o registro é substituído (upsert),
// preservando status e status_source, que nunca são escritos pelo sync.
func (r *metricRecordRepository) InsertRecord(tx *sql.Tx, record *domain.MetricRecord) error {
	query := squirrel.StatementBuilder.
		Insert(metricRecordsTable).
		Columns(
			"platform", "entity_id", "entity_name", "parent_id",
			"reporting_starts", "reporting_ends", "category",
			"spend", "revenue", "purchases", "impressions", "clicks",
		).
		Values(
			string(record.Platform),
			record.EntityID,
			record.EntityName,
			record.ParentID,
			record.ReportingStarts.Format(time.DateOnly),
			record.ReportingEnds.Format(time.DateOnly),
			record.Category,
			record.Spend,
			record.Revenue,
			record.Purchases,
			record.Impressions,
			record.Clicks,
		).
		Suffix(`
			ON CONFLICT (platform, entity_id, reporting_starts, reporting_ends) DO UPDATE SET
				entity_name = EXCLUDED.entity_name,
				parent_id = EXCLUDED.parent_id,
				category = EXCLUDED.category,
				spend = EXCLUDED.spend,
				revenue = EXCLUDED.revenue,
				purchases = EXCLUDED.purchases,
				impressions = EXCLUDED.impressions,
				clicks = EXCLUDED.clicks,
				updated_at = NOW()
		`).
		PlaceholderFormat(squirrel.Dollar)

	sqlQuery, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	_, err = tx.Exec(sqlQuery, args...)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return fmt.Errorf("erro no banco de dados: %w (código: %s)", pqErr, pqErr.Code)
		}
		return fmt.Errorf("erro ao executar a query: %w", err)
	}

	return nil
}

func (r *metricRecordRepository) GetByFilters(filters *domain.RecordFilters) ([]*domain.MetricRecord, error) {
	builder := squirrel.
		Select(metricRecordsColumns).
		From(metricRecordsTable + " mr").
		OrderBy("mr.reporting_starts ASC, mr.platform ASC, mr.entity_id ASC").
		PlaceholderFormat(squirrel.Dollar)

	if filters != nil {
		if filters.Platform != nil {
			builder = builder.Where(squirrel.Eq{"mr.platform": string(*filters.Platform)})
		}
		if len(filters.Categories) > 0 {
			builder = builder.Where(squirrel.Eq{"mr.category": filters.Categories})
		}
		if filters.Status != nil {
			builder = builder.Where(squirrel.Eq{"mr.status": string(*filters.Status)})
		}
		if filters.StartDate != nil {
			builder = builder.Where(squirrel.GtOrEq{"mr.reporting_starts": filters.StartDate.Format(time.DateOnly)})
		}
		if filters.EndDate != nil {
			builder = builder.Where(squirrel.LtOrEq{"mr.reporting_ends": filters.EndDate.Format(time.DateOnly)})
		}
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	records := make([]*domain.MetricRecord, 0)
	for rows.Next() {
		record, err := scanMetricRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear registro de métricas: %w", err)
		}
		records = append(records, record)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return records, nil
}

func (r *metricRecordRepository) GetByKey(platform domain.Platform, entityID string, starts, ends time.Time) (*domain.MetricRecord, error) {
	query, args, err := squirrel.
		Select(metricRecordsColumns).
		From(metricRecordsTable + " mr").
		Where(squirrel.Eq{
			"mr.platform":         string(platform),
			"mr.entity_id":        entityID,
			"mr.reporting_starts": starts.Format(time.DateOnly),
			"mr.reporting_ends":   ends.Format(time.DateOnly),
		}).
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

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, nil
	}

	return scanMetricRecord(rows)
}

// ListEntities retorna os entity_ids distintos de uma plataforma
func (r *metricRecordRepository) ListEntities(platform domain.Platform) ([]string, error) {
	query, args, err := squirrel.
		Select("DISTINCT mr.entity_id").
		From(metricRecordsTable + " mr").
		Where(squirrel.Eq{"mr.platform": string(platform)}).
		OrderBy("mr.entity_id ASC").
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

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("erro ao escanear entity_id: %w", err)
		}
		ids = append(ids, id)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return ids, nil
}

func (r *metricRecordRepository) GetEntityStatus(platform domain.Platform, entityID string) (*domain.EntityStatus, *domain.StatusSource, error) {
	query, args, err := squirrel.
		Select("mr.status, mr.status_source").
		From(metricRecordsTable + " mr").
		Where(squirrel.Eq{"mr.platform": string(platform), "mr.entity_id": entityID}).
		OrderBy("mr.reporting_ends DESC").
		Limit(1).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	var statusStr, sourceStr sql.NullString
	row := r.conn.QueryRow(query, args...)
	if err := row.Scan(&statusStr, &sourceStr); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("erro ao escanear status: %w", err)
	}

	var status *domain.EntityStatus
	var source *domain.StatusSource
	if statusStr.Valid {
		s := domain.EntityStatus(statusStr.String)
		status = &s
	}
	if sourceStr.Valid {
		s := domain.StatusSource(sourceStr.String)
		source = &s
	}

	return status, source, nil
}

// UpdateEntityStatus aplica o status a todos os registros da entidade.
// É o único caminho de escrita de status: o sync nunca passa por aqui.
func (r *metricRecordRepository) UpdateEntityStatus(
	platform domain.Platform,
	entityID string,
	status *domain.EntityStatus,
	source *domain.StatusSource,
) error {
	var statusValue, sourceValue interface{}
	if status != nil {
		statusValue = string(*status)
	}
	if source != nil {
		sourceValue = string(*source)
	}

	query, args, err := squirrel.
		Update(metricRecordsTable).
		Set("status", statusValue).
		Set("status_source", sourceValue).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"platform": string(platform), "entity_id": entityID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	result, err := r.conn.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("erro ao executar a query: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("erro ao obter número de linhas afetadas: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("entidade não encontrada: %s/%s", platform, entityID)
	}

	return nil
}

func scanMetricRecord(rows *sql.Rows) (*domain.MetricRecord, error) {
	record := &domain.MetricRecord{}
	var parentID, statusStr, sourceStr sql.NullString

	err := rows.Scan(
		&record.ID,
		&record.Platform,
		&record.EntityID,
		&record.EntityName,
		&parentID,
		&record.ReportingStarts,
		&record.ReportingEnds,
		&record.Category,
		&record.Spend,
		&record.Revenue,
		&record.Purchases,
		&record.Impressions,
		&record.Clicks,
		&statusStr,
		&sourceStr,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if parentID.Valid {
		record.ParentID = &parentID.String
	}
	if statusStr.Valid {
		s := domain.EntityStatus(statusStr.String)
		record.Status = &s
	}
	if sourceStr.Valid {
		s := domain.StatusSource(sourceStr.String)
		record.StatusSource = &s
	}

	return record, nil
}
