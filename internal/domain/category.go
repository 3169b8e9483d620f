package domain

import "time"

// CategoryRule é uma regra de classificação por padrão de nome.
// Regras são dados de configuração: mutadas fora do fluxo de sincronização
// e somente lidas pelo motor de categorização durante a avaliação.
type CategoryRule struct {
	ID        string    `json:"id"`
	Pattern   string    `json:"pattern"`
	Category  string    `json:"category"`
	Priority  int       `json:"priority"`
	Active    bool      `json:"active"`
	Position  int64     `json:"position"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CategoryOverride fixa a categoria de uma entidade específica,
// com precedência absoluta sobre qualquer regra.
type CategoryOverride struct {
	Platform  Platform  `json:"platform"`
	EntityID  string    `json:"entity_id"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OverrideKey é a chave do mapa de overrides: (plataforma, entidade) → categoria
type OverrideKey struct {
	Platform Platform
	EntityID string
}
