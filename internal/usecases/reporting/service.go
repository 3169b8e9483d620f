package reporting

import (
	"github.com/vfg2006/ad-performance-sync/infrastructure/repository"
	"github.com/vfg2006/ad-performance-sync/internal/domain"
	"github.com/vfg2006/ad-performance-sync/internal/usecases/aggregating"
)

// RollupResponse agrupa as linhas de rollup e o total geral ponderado
type RollupResponse struct {
	GroupBy domain.GroupBy      `json:"group_by"`
	Period  domain.Period       `json:"period"`
	Rows    []*domain.RollupRow `json:"rows"`
	Total   *domain.RollupRow   `json:"total,omitempty"`
}

// Reporter é a superfície de leitura consumida pelo dashboard. Sem efeitos
// colaterais: lê o estado comitado do banco, filtra o conjunto bruto e agrega.
type Reporter interface {
	GetRollups(filters *domain.RecordFilters, groupBy domain.GroupBy, period domain.Period) (*RollupResponse, error)
	GetRecords(filters *domain.RecordFilters) ([]*domain.MetricRecord, error)
}

type Service struct {
	recordRepo repository.MetricRecordRepository
}

func NewService(recordRepo repository.MetricRecordRepository) *Service {
	return &Service{
		recordRepo: recordRepo,
	}
}

// GetRollups lê os registros já filtrados e produz os rollups do período.
// O filtro é aplicado ao conjunto bruto antes da agregação.
func (s *Service) GetRollups(
	filters *domain.RecordFilters,
	groupBy domain.GroupBy,
	period domain.Period,
) (*RollupResponse, error) {
	records, err := s.recordRepo.GetByFilters(filters)
	if err != nil {
		return nil, err
	}

	rows := aggregating.Aggregate(records, groupBy, period)

	return &RollupResponse{
		GroupBy: groupBy,
		Period:  period,
		Rows:    rows,
		Total:   aggregating.WeightedTotal(rows),
	}, nil
}

func (s *Service) GetRecords(filters *domain.RecordFilters) ([]*domain.MetricRecord, error) {
	return s.recordRepo.GetByFilters(filters)
}
