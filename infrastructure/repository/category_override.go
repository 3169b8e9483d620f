package repository

import (
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/vfg2006/ad-performance-sync/infrastructure/database/postgres"
	"github.com/vfg2006/ad-performance-sync/internal/domain"
)

const categoryOverridesTable = "category_overrides"

type CategoryOverrideRepository interface {
	ListAll() ([]*domain.CategoryOverride, error)
	Upsert(override *domain.CategoryOverride) error
	Delete(platform domain.Platform, entityID string) error
}

type categoryOverrideRepository struct {
	conn postgres.Conn
}

func NewCategoryOverrideRepository(conn postgres.Conn) CategoryOverrideRepository {
	return &categoryOverrideRepository{
		conn: conn,
	}
}

func (r *categoryOverrideRepository) ListAll() ([]*domain.CategoryOverride, error) {
	query, args, err := squirrel.
		Select("co.platform, co.entity_id, co.category, co.created_at, co.updated_at").
		From(categoryOverridesTable + " co").
		OrderBy("co.platform ASC, co.entity_id ASC").
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

	overrides := make([]*domain.CategoryOverride, 0)
	for rows.Next() {
		override := &domain.CategoryOverride{}
		err := rows.Scan(
			&override.Platform,
			&override.EntityID,
			&override.Category,
			&override.CreatedAt,
			&override.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear override de categoria: %w", err)
		}
		overrides = append(overrides, override)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return overrides, nil
}

// Upsert cria ou substitui o override da entidade
func (r *categoryOverrideRepository) Upsert(override *domain.CategoryOverride) error {
	query, args, err := squirrel.StatementBuilder.
		Insert(categoryOverridesTable).
		Columns("platform", "entity_id", "category").
		Values(string(override.Platform), override.EntityID, override.Category).
		Suffix(`
			ON CONFLICT (platform, entity_id) DO UPDATE SET
				category = EXCLUDED.category,
				updated_at = NOW()
		`).
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

func (r *categoryOverrideRepository) Delete(platform domain.Platform, entityID string) error {
	query, args, err := squirrel.
		Delete(categoryOverridesTable).
		Where(squirrel.Eq{"platform": string(platform), "entity_id": entityID}).
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
