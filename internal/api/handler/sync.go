package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ad-performance-sync/infrastructure/repository"
	"github.com/vfg2006/ad-performance-sync/internal/domain"
	"github.com/vfg2006/ad-performance-sync/internal/scheduler"
	"github.com/vfg2006/ad-performance-sync/internal/usecases/syncing"
	"github.com/vfg2006/ad-performance-sync/pkg/apiErrors"
	"github.com/vfg2006/ad-performance-sync/pkg/middleware"
	"github.com/vfg2006/ad-performance-sync/pkg/utils"
)

// SchedulerServices contém os agendadores expostos pelos endpoints de status e execução manual
type SchedulerServices struct {
	PlatformSyncService  *scheduler.PlatformSyncService
	PauseDetectorService *scheduler.PauseDetectorService
}

type RunSyncRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Force     bool   `json:"force"`
}

// RunSync dispara a sincronização escopada de uma plataforma. Sem corpo, a
// janela rolante padrão é usada; com start_date/end_date, a janela explícita.
func RunSync(syncer syncing.Syncer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - RunSync")

		platformStr := httprouter.ParamsFromContext(r.Context()).ByName("platform")
		platform, err := domain.ParsePlatform(platformStr)
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Plataforma inválida. Valores aceitos: meta, google, tiktok", nil)
			return
		}

		var req RunSyncRequest
		if r.Body != nil && r.ContentLength != 0 {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				logrus.Error(err)
				apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Erro ao decodificar requisição", nil)
				return
			}
		}

		opts := syncing.Options{
			Force:       req.Force,
			TriggeredBy: triggeredBy(r),
		}

		window, err := parseWindow(req.StartDate, req.EndDate)
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, err.Error(), nil)
			return
		}
		opts.Window = window

		result, err := syncer.Sync(r.Context(), platform, opts)
		if err != nil {
			handleSyncError(w, err, result)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(result)
	}
}

// GetSyncStatus retorna o status dos agendadores
func GetSyncStatus(services SchedulerServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - GetSyncStatus")

		status := map[string]any{
			"platform_sync":  services.PlatformSyncService.GetStatus(),
			"pause_detector": services.PauseDetectorService.GetStatus(),
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(status)
	}
}

// TriggerScheduledSync dispara manualmente a rodada agendada de todas as plataformas habilitadas
func TriggerScheduledSync(services SchedulerServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - TriggerScheduledSync")

		services.PlatformSyncService.TriggerManualSync()

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"message": "Sincronização agendada iniciada com sucesso",
		})
	}
}

// ListSyncResults retorna a trilha de auditoria das sincronizações mais recentes
func ListSyncResults(resultRepo repository.SyncResultRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - ListSyncResults")

		var limit uint64
		if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
			parsed, err := strconv.ParseUint(limitStr, 10, 64)
			if err != nil {
				apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Parâmetro limit inválido", nil)
				return
			}
			limit = parsed
		}

		results, err := resultRepo.ListRecent(limit)
		if err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao listar resultados de sincronização", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(results)
	}
}

// parseWindow monta a janela explícita a partir das datas informadas; ambas
// vazias significa usar a janela rolante padrão
func parseWindow(startStr, endStr string) (*domain.SyncWindow, error) {
	if startStr == "" && endStr == "" {
		return nil, nil
	}

	start, err := utils.ParseDate(startStr)
	if err != nil {
		return nil, errors.New("start_date inválido, use o formato YYYY-MM-DD")
	}

	end, err := utils.ParseDate(endStr)
	if err != nil {
		return nil, errors.New("end_date inválido, use o formato YYYY-MM-DD")
	}

	if start == nil || end == nil {
		return nil, errors.New("start_date e end_date devem ser informados juntos")
	}

	window, err := domain.NewWindow(*start, *end)
	if err != nil {
		return nil, err
	}

	return &window, nil
}

func triggeredBy(r *http.Request) string {
	if userClaims, ok := r.Context().Value(middleware.ContextKeyUser).(*domain.Claims); ok {
		return userClaims.UserEmail
	}
	return "api"
}

// handleSyncError mapeia os erros de sincronização para os códigos da API
func handleSyncError(w http.ResponseWriter, err error, result *domain.SyncResult) {
	var inProgress *syncing.SyncInProgressError
	if errors.As(err, &inProgress) {
		apiErrors.WriteError(w, apiErrors.ErrSyncInProgress, err.Error(), map[string]any{
			"platform": inProgress.Platform,
			"window":   inProgress.Window.String(),
		})
		return
	}

	var tooOld *syncing.WindowTooOldError
	if errors.As(err, &tooOld) {
		apiErrors.WriteError(w, apiErrors.ErrWindowTooOld, err.Error(), map[string]any{
			"window":   tooOld.Window.String(),
			"max_days": tooOld.MaxDays,
		})
		return
	}

	var fetchErr *syncing.FetchError
	if errors.As(err, &fetchErr) {
		apiErrors.WriteError(w, apiErrors.ErrSyncFetch, err.Error(), result)
		return
	}

	logrus.Error(err)
	apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro interno durante a sincronização", result)
}
