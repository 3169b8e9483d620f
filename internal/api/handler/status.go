package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ad-performance-sync/internal/domain"
	"github.com/vfg2006/ad-performance-sync/internal/usecases/tracking"
	"github.com/vfg2006/ad-performance-sync/pkg/apiErrors"
)

type EntityStatusResponse struct {
	Platform domain.Platform      `json:"platform"`
	EntityID string               `json:"entity_id"`
	Status   *domain.EntityStatus `json:"status"`
}

// CycleEntityStatus avança o ciclo manual de status da entidade
func CycleEntityStatus(tracker tracking.Tracker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - CycleEntityStatus")

		platform, entityID, ok := entityParams(w, r)
		if !ok {
			return
		}

		status, err := tracker.CycleStatus(platform, entityID)
		if err != nil {
			handleStatusError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(EntityStatusResponse{
			Platform: platform,
			EntityID: entityID,
			Status:   status,
		})
	}
}

// ConfirmEntityStatus reconhece o status automático e devolve a entidade ao ciclo manual
func ConfirmEntityStatus(tracker tracking.Tracker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - ConfirmEntityStatus")

		platform, entityID, ok := entityParams(w, r)
		if !ok {
			return
		}

		status, err := tracker.ConfirmAutomated(platform, entityID)
		if err != nil {
			handleStatusError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(EntityStatusResponse{
			Platform: platform,
			EntityID: entityID,
			Status:   status,
		})
	}
}

func entityParams(w http.ResponseWriter, r *http.Request) (domain.Platform, string, bool) {
	params := httprouter.ParamsFromContext(r.Context())

	platform, err := domain.ParsePlatform(params.ByName("platform"))
	if err != nil {
		apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Plataforma inválida. Valores aceitos: meta, google, tiktok", nil)
		return "", "", false
	}

	entityID := params.ByName("entityID")
	if entityID == "" {
		apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "ID da entidade não fornecido", nil)
		return "", "", false
	}

	return platform, entityID, true
}

func handleStatusError(w http.ResponseWriter, err error) {
	var automatedErr *tracking.AutomatedStatusError
	if errors.As(err, &automatedErr) {
		apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, err.Error(), map[string]any{
			"platform":  automatedErr.Platform,
			"entity_id": automatedErr.EntityID,
			"status":    automatedErr.Status,
		})
		return
	}

	logrus.Error(err)
	apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao atualizar status da entidade", nil)
}
