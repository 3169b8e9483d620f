package domain

import "time"

// Period define a granularidade temporal de um rollup
type Period string

const (
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

// GroupBy define a dimensão de agrupamento de um rollup
type GroupBy string

const (
	GroupByCategory GroupBy = "category"
	GroupByPlatform GroupBy = "platform"
	GroupByEntity   GroupBy = "entity"
)

// RollupRow é uma linha agregada de métricas com os indicadores derivados.
// Os indicadores são sempre calculados a partir dos somatórios dos numeradores
// e denominadores, nunca pela média de razões pré-calculadas.
type RollupRow struct {
	PeriodLabel string    `json:"period"`
	PeriodStart time.Time `json:"period_start"`
	PeriodEnd   time.Time `json:"period_end"`
	GroupKey    string    `json:"group_key"`
	Records     int       `json:"records"`
	Spend       float64   `json:"spend"`
	Revenue     float64   `json:"revenue"`
	Purchases   int64     `json:"purchases"`
	Impressions int64     `json:"impressions"`
	Clicks      int64     `json:"clicks"`
	ROAS        float64   `json:"roas"`
	CPA         float64   `json:"cpa"`
	CPC         float64   `json:"cpc"`
	CPM         float64   `json:"cpm"`
}
