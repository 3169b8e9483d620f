package aggregating

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/ad-performance-sync/internal/domain"
)

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func record(platform domain.Platform, entityID, category string, starts time.Time, spend, revenue float64, purchases, impressions, clicks int64) *domain.MetricRecord {
	return &domain.MetricRecord{
		Platform:        platform,
		EntityID:        entityID,
		EntityName:      entityID,
		ReportingStarts: starts,
		ReportingEnds:   starts,
		Category:        category,
		Spend:           spend,
		Revenue:         revenue,
		Purchases:       purchases,
		Impressions:     impressions,
		Clicks:          clicks,
	}
}

func TestAggregate_SemanasAncoradasNoRegistroMaisAntigo(t *testing.T) {
	records := []*domain.MetricRecord{
		record(domain.PlatformMeta, "AD-1", "Remarketing", day(2024, 1, 1), 100, 200, 2, 5000, 50),
		record(domain.PlatformMeta, "AD-2", "Remarketing", day(2024, 1, 3), 100, 200, 2, 5000, 50),
		record(domain.PlatformMeta, "AD-1", "Remarketing", day(2024, 1, 8), 300, 3000, 10, 10000, 100),
	}

	rows := Aggregate(records, domain.GroupByCategory, domain.PeriodWeek)

	assert.Len(t, rows, 2)

	// Primeira semana: blocos fixos de 7 dias a partir do registro mais antigo
	assert.Equal(t, "2024-01-01", rows[0].PeriodLabel)
	assert.Equal(t, day(2024, 1, 1), rows[0].PeriodStart)
	assert.Equal(t, day(2024, 1, 7), rows[0].PeriodEnd)
	assert.Equal(t, "Remarketing", rows[0].GroupKey)
	assert.Equal(t, 2, rows[0].Records)
	assert.Equal(t, 200.0, rows[0].Spend)
	assert.Equal(t, 400.0, rows[0].Revenue)

	// Indicadores derivados dos somatórios: ROAS 400/200, CPA 200/4, CPC 200/100, CPM 200/10000*1000
	assert.Equal(t, 2.0, rows[0].ROAS)
	assert.Equal(t, 50.0, rows[0].CPA)
	assert.Equal(t, 2.0, rows[0].CPC)
	assert.Equal(t, 20.0, rows[0].CPM)

	// Segunda semana começa exatamente 7 dias após a âncora
	assert.Equal(t, "2024-01-08", rows[1].PeriodLabel)
	assert.Equal(t, day(2024, 1, 8), rows[1].PeriodStart)
	assert.Equal(t, day(2024, 1, 14), rows[1].PeriodEnd)
	assert.Equal(t, 10.0, rows[1].ROAS)
}

func TestAggregate_MesesSeguemOCalendario(t *testing.T) {
	records := []*domain.MetricRecord{
		record(domain.PlatformMeta, "AD-1", "Remarketing", day(2024, 1, 15), 100, 300, 1, 1000, 10),
		record(domain.PlatformMeta, "AD-2", "Remarketing", day(2024, 1, 31), 100, 100, 1, 1000, 10),
		record(domain.PlatformGoogle, "AD-3", "Prospecting", day(2024, 2, 1), 50, 500, 1, 1000, 10),
	}

	rows := Aggregate(records, domain.GroupByPlatform, domain.PeriodMonth)

	assert.Len(t, rows, 2)

	assert.Equal(t, "01-2024", rows[0].PeriodLabel)
	assert.Equal(t, day(2024, 1, 1), rows[0].PeriodStart)
	assert.Equal(t, day(2024, 1, 31), rows[0].PeriodEnd)
	assert.Equal(t, "meta", rows[0].GroupKey)
	assert.Equal(t, 200.0, rows[0].Spend)
	assert.Equal(t, 2.0, rows[0].ROAS)

	assert.Equal(t, "02-2024", rows[1].PeriodLabel)
	assert.Equal(t, "google", rows[1].GroupKey)
	assert.Equal(t, 10.0, rows[1].ROAS)
}

func TestAggregate_DenominadorZeroResultaEmMetricaZero(t *testing.T) {
	records := []*domain.MetricRecord{
		record(domain.PlatformMeta, "AD-1", "Remarketing", day(2024, 3, 4), 150, 0, 0, 0, 0),
	}

	rows := Aggregate(records, domain.GroupByCategory, domain.PeriodWeek)

	assert.Len(t, rows, 1)
	assert.Equal(t, 0.0, rows[0].ROAS)
	assert.Equal(t, 0.0, rows[0].CPA)
	assert.Equal(t, 0.0, rows[0].CPC)
	assert.Equal(t, 0.0, rows[0].CPM)
}

func TestAggregate_SemRegistros(t *testing.T) {
	rows := Aggregate([]*domain.MetricRecord{}, domain.GroupByCategory, domain.PeriodWeek)
	assert.Empty(t, rows)
	assert.Nil(t, WeightedTotal(rows))
}

func TestWeightedTotal_MediaPonderadaPeloInvestimento(t *testing.T) {
	rows := []*domain.RollupRow{
		{
			PeriodLabel: "2024-01-01",
			PeriodStart: day(2024, 1, 1),
			PeriodEnd:   day(2024, 1, 7),
			GroupKey:    "Remarketing",
			Records:     2,
			Spend:       100,
			Revenue:     200,
			ROAS:        2.0,
			CPA:         50.0,
		},
		{
			PeriodLabel: "2024-01-08",
			PeriodStart: day(2024, 1, 8),
			PeriodEnd:   day(2024, 1, 14),
			GroupKey:    "Remarketing",
			Records:     1,
			Spend:       300,
			Revenue:     3000,
			ROAS:        10.0,
			CPA:         30.0,
		},
	}

	total := WeightedTotal(rows)

	assert.Equal(t, "total", total.GroupKey)
	assert.Equal(t, 3, total.Records)
	assert.Equal(t, 400.0, total.Spend)
	assert.Equal(t, 3200.0, total.Revenue)
	assert.Equal(t, "2024-01-01..2024-01-14", total.PeriodLabel)

	// (2.0×100 + 10.0×300) / 400 = 8.0 — nunca a média simples (6.0)
	assert.Equal(t, 8.0, total.ROAS)

	// (50×100 + 30×300) / 400 = 35.0
	assert.Equal(t, 35.0, total.CPA)
}

func TestFilterRecords(t *testing.T) {
	paused := domain.StatusPaused
	meta := domain.PlatformMeta

	base := []*domain.MetricRecord{
		record(domain.PlatformMeta, "AD-1", "Remarketing", day(2024, 1, 1), 10, 10, 1, 100, 1),
		record(domain.PlatformGoogle, "AD-2", "Prospecting", day(2024, 1, 2), 10, 10, 1, 100, 1),
		record(domain.PlatformMeta, "AD-3", "Prospecting", day(2024, 1, 10), 10, 10, 1, 100, 1),
	}
	base[2].Status = &paused

	tests := []struct {
		name     string
		filters  *domain.RecordFilters
		expected []string
	}{
		{
			name:     "Sem filtros retorna tudo",
			filters:  nil,
			expected: []string{"AD-1", "AD-2", "AD-3"},
		},
		{
			name:     "Filtro por plataforma",
			filters:  &domain.RecordFilters{Platform: &meta},
			expected: []string{"AD-1", "AD-3"},
		},
		{
			name:     "Filtro por categorias",
			filters:  &domain.RecordFilters{Categories: []string{"Prospecting"}},
			expected: []string{"AD-2", "AD-3"},
		},
		{
			name:     "Filtro por status ignora registros sem status",
			filters:  &domain.RecordFilters{Status: &paused},
			expected: []string{"AD-3"},
		},
		{
			name: "Filtro por intervalo de datas",
			filters: &domain.RecordFilters{
				StartDate: timePtr(day(2024, 1, 2)),
				EndDate:   timePtr(day(2024, 1, 5)),
			},
			expected: []string{"AD-2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filtered := FilterRecords(base, tt.filters)

			ids := make([]string, 0, len(filtered))
			for _, r := range filtered {
				ids = append(ids, r.EntityID)
			}
			assert.Equal(t, tt.expected, ids)
		})
	}
}

func timePtr(t time.Time) *time.Time {
	return &t
}
