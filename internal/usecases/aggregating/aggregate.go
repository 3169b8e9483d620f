package aggregating

import (
	"fmt"
	"sort"
	"time"

	"github.com/vfg2006/ad-performance-sync/internal/domain"
	"github.com/vfg2006/ad-performance-sync/pkg/utils"
)

// Aggregate produz rollups semanais ou mensais dos registros, agrupados pela
// dimensão pedida. Os filtros devem ter sido aplicados ao conjunto bruto antes
// da chamada: rollups nunca são filtrados depois de agregados.
func Aggregate(records []*domain.MetricRecord, groupBy domain.GroupBy, period domain.Period) []*domain.RollupRow {
	if len(records) == 0 {
		return []*domain.RollupRow{}
	}

	type bucketKey struct {
		periodStart time.Time
		groupKey    string
	}

	anchor := oldestStart(records)
	buckets := make(map[bucketKey]*domain.RollupRow)

	for _, record := range records {
		periodStart, periodEnd, label := resolvePeriod(record.ReportingStarts, anchor, period)
		key := bucketKey{periodStart: periodStart, groupKey: groupKeyFor(record, groupBy)}

		row, ok := buckets[key]
		if !ok {
			row = &domain.RollupRow{
				PeriodLabel: label,
				PeriodStart: periodStart,
				PeriodEnd:   periodEnd,
				GroupKey:    key.groupKey,
			}
			buckets[key] = row
		}

		row.Records++
		row.Spend += record.Spend
		row.Revenue += record.Revenue
		row.Purchases += record.Purchases
		row.Impressions += record.Impressions
		row.Clicks += record.Clicks
	}

	rows := make([]*domain.RollupRow, 0, len(buckets))
	for _, row := range buckets {
		fillDerivedMetrics(row)
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].PeriodStart.Equal(rows[j].PeriodStart) {
			return rows[i].PeriodStart.Before(rows[j].PeriodStart)
		}
		return rows[i].GroupKey < rows[j].GroupKey
	})

	return rows
}

// WeightedTotal combina linhas de rollup em um total geral. As razões são
// combinadas por média ponderada pelo investimento (Σ razão×spend / Σ spend),
// nunca por média aritmética simples, que enviesaria para períodos de baixo gasto.
func WeightedTotal(rows []*domain.RollupRow) *domain.RollupRow {
	if len(rows) == 0 {
		return nil
	}

	total := &domain.RollupRow{GroupKey: "total"}
	var weightedROAS, weightedCPA, weightedCPC, weightedCPM float64

	total.PeriodStart = rows[0].PeriodStart
	total.PeriodEnd = rows[0].PeriodEnd

	for _, row := range rows {
		total.Records += row.Records
		total.Spend += row.Spend
		total.Revenue += row.Revenue
		total.Purchases += row.Purchases
		total.Impressions += row.Impressions
		total.Clicks += row.Clicks

		weightedROAS += row.ROAS * row.Spend
		weightedCPA += row.CPA * row.Spend
		weightedCPC += row.CPC * row.Spend
		weightedCPM += row.CPM * row.Spend

		if row.PeriodStart.Before(total.PeriodStart) {
			total.PeriodStart = row.PeriodStart
		}
		if row.PeriodEnd.After(total.PeriodEnd) {
			total.PeriodEnd = row.PeriodEnd
		}
	}

	total.PeriodLabel = fmt.Sprintf(
		"%s..%s",
		total.PeriodStart.Format(time.DateOnly),
		total.PeriodEnd.Format(time.DateOnly),
	)

	total.ROAS = utils.RoundWithTwoDecimalPlace(utils.SafeRatio(weightedROAS, total.Spend))
	total.CPA = utils.RoundWithTwoDecimalPlace(utils.SafeRatio(weightedCPA, total.Spend))
	total.CPC = utils.RoundWithTwoDecimalPlace(utils.SafeRatio(weightedCPC, total.Spend))
	total.CPM = utils.RoundWithTwoDecimalPlace(utils.SafeRatio(weightedCPM, total.Spend))

	return total
}

// FilterRecords aplica os filtros ao conjunto bruto, antes de qualquer agregação
func FilterRecords(records []*domain.MetricRecord, filters *domain.RecordFilters) []*domain.MetricRecord {
	if filters == nil {
		return records
	}

	filtered := make([]*domain.MetricRecord, 0, len(records))
	for _, record := range records {
		if filters.Platform != nil && record.Platform != *filters.Platform {
			continue
		}
		if len(filters.Categories) > 0 && !containsString(filters.Categories, record.Category) {
			continue
		}
		if filters.Status != nil && (record.Status == nil || *record.Status != *filters.Status) {
			continue
		}
		if filters.StartDate != nil && record.ReportingStarts.Before(*filters.StartDate) {
			continue
		}
		if filters.EndDate != nil && record.ReportingEnds.After(*filters.EndDate) {
			continue
		}
		filtered = append(filtered, record)
	}

	return filtered
}

// fillDerivedMetrics calcula as razões a partir dos somatórios acumulados.
// Denominador zero resulta em métrica zero, nunca em divisão inválida.
func fillDerivedMetrics(row *domain.RollupRow) {
	row.ROAS = utils.RoundWithTwoDecimalPlace(utils.SafeRatio(row.Revenue, row.Spend))
	row.CPA = utils.RoundWithTwoDecimalPlace(utils.SafeRatio(row.Spend, float64(row.Purchases)))
	row.CPC = utils.RoundWithTwoDecimalPlace(utils.SafeRatio(row.Spend, float64(row.Clicks)))
	row.CPM = utils.RoundWithTwoDecimalPlace(utils.SafeRatio(row.Spend, float64(row.Impressions)) * 1000)
}

// resolvePeriod encontra o balde do registro: semanas são blocos fixos de
// 7 dias ancorados no registro mais antigo; meses seguem o calendário de
// reporting_starts.
func resolvePeriod(date, anchor time.Time, period domain.Period) (time.Time, time.Time, string) {
	if period == domain.PeriodMonth {
		start := time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, date.Location())
		end := start.AddDate(0, 1, -1)
		return start, end, start.Format("01-2006")
	}

	daysFromAnchor := int(date.Sub(anchor).Hours() / 24)
	bucketIndex := daysFromAnchor / 7
	start := anchor.AddDate(0, 0, bucketIndex*7)
	end := start.AddDate(0, 0, 6)
	return start, end, start.Format(time.DateOnly)
}

func groupKeyFor(record *domain.MetricRecord, groupBy domain.GroupBy) string {
	switch groupBy {
	case domain.GroupByPlatform:
		return string(record.Platform)
	case domain.GroupByEntity:
		return fmt.Sprintf("%s/%s", record.Platform, record.EntityID)
	default:
		return record.Category
	}
}

func oldestStart(records []*domain.MetricRecord) time.Time {
	oldest := records[0].ReportingStarts
	for _, record := range records[1:] {
		if record.ReportingStarts.Before(oldest) {
			oldest = record.ReportingStarts
		}
	}
	return oldest
}

func containsString(values []string, target string) bool {
	for _, value := range values {
		if value == target {
			return true
		}
	}
	return false
}
