package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ad-performance-sync/internal/domain"
	"github.com/vfg2006/ad-performance-sync/internal/usecases/reporting"
	"github.com/vfg2006/ad-performance-sync/pkg/apiErrors"
	"github.com/vfg2006/ad-performance-sync/pkg/utils"
)

// GetRollups retorna os rollups semanais ou mensais com o total geral ponderado
func GetRollups(service reporting.Reporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - GetRollups")

		groupBy, err := parseGroupBy(r.URL.Query().Get("group_by"))
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, err.Error(), nil)
			return
		}

		period, err := parsePeriod(r.URL.Query().Get("period"))
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, err.Error(), nil)
			return
		}

		filters, err := parseRecordFilters(r)
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, err.Error(), nil)
			return
		}

		response, err := service.GetRollups(filters, groupBy, period)
		if err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao gerar rollups", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(response)
	}
}

// GetRecords retorna os registros brutos que atendem aos filtros
func GetRecords(service reporting.Reporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - GetRecords")

		filters, err := parseRecordFilters(r)
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, err.Error(), nil)
			return
		}

		records, err := service.GetRecords(filters)
		if err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao listar registros", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(records)
	}
}

// parseRecordFilters monta os filtros do conjunto bruto a partir da query string
func parseRecordFilters(r *http.Request) (*domain.RecordFilters, error) {
	filters := &domain.RecordFilters{}
	query := r.URL.Query()

	if platformStr := query.Get("platform"); platformStr != "" {
		platform, err := domain.ParsePlatform(platformStr)
		if err != nil {
			return nil, err
		}
		filters.Platform = &platform
	}

	if categoriesStr := query.Get("categories"); categoriesStr != "" {
		for _, category := range strings.Split(categoriesStr, ",") {
			category = strings.TrimSpace(category)
			if category != "" {
				filters.Categories = append(filters.Categories, category)
			}
		}
	}

	if statusStr := query.Get("status"); statusStr != "" {
		status := domain.EntityStatus(statusStr)
		filters.Status = &status
	}

	startDate, err := utils.ParseDate(query.Get("start_date"))
	if err != nil {
		return nil, errors.New("start_date inválido, use o formato YYYY-MM-DD")
	}
	filters.StartDate = startDate

	endDate, err := utils.ParseDate(query.Get("end_date"))
	if err != nil {
		return nil, errors.New("end_date inválido, use o formato YYYY-MM-DD")
	}
	filters.EndDate = endDate

	return filters, nil
}

func parseGroupBy(s string) (domain.GroupBy, error) {
	switch domain.GroupBy(s) {
	case domain.GroupByCategory, domain.GroupByPlatform, domain.GroupByEntity:
		return domain.GroupBy(s), nil
	case "":
		return domain.GroupByCategory, nil
	}
	return "", errors.Errorf("group_by inválido: %q. Valores aceitos: category, platform, entity", s)
}

func parsePeriod(s string) (domain.Period, error) {
	switch domain.Period(s) {
	case domain.PeriodWeek, domain.PeriodMonth:
		return domain.Period(s), nil
	case "":
		return domain.PeriodWeek, nil
	}
	return "", errors.Errorf("period inválido: %q. Valores aceitos: week, month", s)
}
