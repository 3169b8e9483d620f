package domain

import (
	"fmt"
	"time"
)

// Platform identifica a origem dos dados de anúncios
type Platform string

const (
	PlatformMeta   Platform = "meta"
	PlatformGoogle Platform = "google"
	PlatformTikTok Platform = "tiktok"
)

// AllPlatforms lista as plataformas suportadas, na ordem de sincronização
var AllPlatforms = []Platform{PlatformMeta, PlatformGoogle, PlatformTikTok}

// ParsePlatform valida e converte uma string em Platform
func ParsePlatform(s string) (Platform, error) {
	switch Platform(s) {
	case PlatformMeta, PlatformGoogle, PlatformTikTok:
		return Platform(s), nil
	}
	return "", fmt.Errorf("plataforma inválida: %q", s)
}

// EntityStatus representa o status manual/automático de uma entidade
type EntityStatus string

const (
	StatusWinner      EntityStatus = "winner"
	StatusConsidering EntityStatus = "considering"
	StatusPaused      EntityStatus = "paused"
	StatusActive      EntityStatus = "active"
)

// StatusSource distingue transições manuais do detector automático
type StatusSource string

const (
	StatusSourceManual    StatusSource = "manual"
	StatusSourceAutomated StatusSource = "automated"
)

// CategoryUncategorized é a categoria padrão quando nenhuma regra corresponde
const CategoryUncategorized = "Uncategorized"

// MetricRecord representa uma observação de métricas de uma entidade em um
// período de apuração. A chave (platform, entity_id, reporting_starts,
// reporting_ends) é única no banco.
type MetricRecord struct {
	ID              int64         `json:"id"`
	Platform        Platform      `json:"platform"`
	EntityID        string        `json:"entity_id"`
	EntityName      string        `json:"entity_name"`
	ParentID        *string       `json:"parent_id,omitempty"`
	ReportingStarts time.Time     `json:"reporting_starts"`
	ReportingEnds   time.Time     `json:"reporting_ends"`
	Category        string        `json:"category"`
	Spend           float64       `json:"spend"`
	Revenue         float64       `json:"revenue"`
	Purchases       int64         `json:"purchases"`
	Impressions     int64         `json:"impressions"`
	Clicks          int64         `json:"clicks"`
	Status          *EntityStatus `json:"status,omitempty"`
	StatusSource    *StatusSource `json:"status_source,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// Validate garante os invariantes básicos de um registro antes da escrita
func (r *MetricRecord) Validate() error {
	if _, err := ParsePlatform(string(r.Platform)); err != nil {
		return err
	}
	if r.EntityID == "" {
		return fmt.Errorf("entity_id é obrigatório")
	}
	if r.ReportingEnds.Before(r.ReportingStarts) {
		return fmt.Errorf(
			"período de apuração inválido: %s > %s",
			r.ReportingStarts.Format(time.DateOnly),
			r.ReportingEnds.Format(time.DateOnly),
		)
	}
	if r.Spend < 0 || r.Revenue < 0 {
		return fmt.Errorf("valores monetários não podem ser negativos")
	}
	if r.Purchases < 0 || r.Impressions < 0 || r.Clicks < 0 {
		return fmt.Errorf("contadores não podem ser negativos")
	}
	return nil
}

// RecordFilters são os filtros aplicados ao conjunto bruto de registros.
// Filtragem acontece sempre antes da agregação, nunca depois.
type RecordFilters struct {
	Platform   *Platform
	Categories []string
	Status     *EntityStatus
	StartDate  *time.Time
	EndDate    *time.Time
}
