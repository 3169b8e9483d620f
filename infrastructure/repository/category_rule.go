package repository

import (
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/vfg2006/ad-performance-sync/infrastructure/database/postgres"
	"github.com/vfg2006/ad-performance-sync/internal/domain"
)

const (
	categoryRulesTable   = "category_rules"
	categoryRulesColumns = "cr.id, cr.pattern, cr.category, cr.priority, cr.active, cr.position, cr.created_at, cr.updated_at"

	ruleIDLength     = 6
	ruleIDCharacters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

type CategoryRuleRepository interface {
	ListActiveOrdered() ([]*domain.CategoryRule, error)
	ListAll() ([]*domain.CategoryRule, error)
	Create(rule *domain.CategoryRule) error
	Update(rule *domain.CategoryRule) error
	Delete(id string) error
}

type categoryRuleRepository struct {
	conn postgres.Conn
}

func NewCategoryRuleRepository(conn postgres.Conn) CategoryRuleRepository {
	return &categoryRuleRepository{
		conn: conn,
	}
}

// ListActiveOrdered retorna as regras ativas na ordem de avaliação:
// prioridade decrescente, com a ordem de inserção como desempate.
func (r *categoryRuleRepository) ListActiveOrdered() ([]*domain.CategoryRule, error) {
	query, args, err := squirrel.
		Select(categoryRulesColumns).
		From(categoryRulesTable + " cr").
		Where(squirrel.Eq{"cr.active": true}).
		OrderBy("cr.priority DESC", "cr.position ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	return r.queryRules(query, args...)
}

func (r *categoryRuleRepository) ListAll() ([]*domain.CategoryRule, error) {
	query, args, err := squirrel.
		Select(categoryRulesColumns).
		From(categoryRulesTable + " cr").
		OrderBy("cr.priority DESC", "cr.position ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	return r.queryRules(query, args...)
}

func (r *categoryRuleRepository) Create(rule *domain.CategoryRule) error {
	if rule.ID == "" {
		id, err := gonanoid.Generate(ruleIDCharacters, ruleIDLength)
		if err != nil {
			return fmt.Errorf("erro ao gerar id da regra: %w", err)
		}
		rule.ID = id
	}

	query, args, err := squirrel.StatementBuilder.
		Insert(categoryRulesTable).
		Columns("id", "pattern", "category", "priority", "active").
		Values(rule.ID, rule.Pattern, rule.Category, rule.Priority, rule.Active).
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

func (r *categoryRuleRepository) Update(rule *domain.CategoryRule) error {
	query, args, err := squirrel.
		Update(categoryRulesTable).
		Set("pattern", rule.Pattern).
		Set("category", rule.Category).
		Set("priority", rule.Priority).
		Set("active", rule.Active).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": rule.ID}).
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
		return fmt.Errorf("regra não encontrada: %s", rule.ID)
	}

	return nil
}

func (r *categoryRuleRepository) Delete(id string) error {
	query, args, err := squirrel.
		Delete(categoryRulesTable).
		Where(squirrel.Eq{"id": id}).
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

func (r *categoryRuleRepository) queryRules(query string, args ...interface{}) ([]*domain.CategoryRule, error) {
	rows, err := r.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	rules := make([]*domain.CategoryRule, 0)
	for rows.Next() {
		rule, err := scanCategoryRule(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear regra de categoria: %w", err)
		}
		rules = append(rules, rule)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return rules, nil
}

func scanCategoryRule(rows *sql.Rows) (*domain.CategoryRule, error) {
	rule := &domain.CategoryRule{}

	err := rows.Scan(
		&rule.ID,
		&rule.Pattern,
		&rule.Category,
		&rule.Priority,
		&rule.Active,
		&rule.Position,
		&rule.CreatedAt,
		&rule.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return rule, nil
}
