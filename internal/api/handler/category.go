package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ad-performance-sync/infrastructure/repository"
	"github.com/vfg2006/ad-performance-sync/internal/domain"
	"github.com/vfg2006/ad-performance-sync/internal/usecases/categorizing"
	"github.com/vfg2006/ad-performance-sync/pkg/apiErrors"
)

type CategoryRuleRequest struct {
	Pattern  string `json:"pattern"`
	Category string `json:"category"`
	Priority int    `json:"priority"`
	Active   *bool  `json:"active"`
}

type CategoryOverrideRequest struct {
	Category string `json:"category"`
}

// ListCategoryRules retorna todas as regras na ordem de avaliação
func ListCategoryRules(ruleRepo repository.CategoryRuleRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - ListCategoryRules")

		rules, err := ruleRepo.ListAll()
		if err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao listar regras de categoria", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(rules)
	}
}

// CreateCategoryRule cria uma regra e recarrega o snapshot de categorização
func CreateCategoryRule(ruleRepo repository.CategoryRuleRepository, categorizer categorizing.Categorizer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - CreateCategoryRule")

		var req CategoryRuleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Erro ao decodificar requisição", nil)
			return
		}

		if req.Pattern == "" || req.Category == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "pattern e category são obrigatórios", nil)
			return
		}

		active := true
		if req.Active != nil {
			active = *req.Active
		}

		rule := &domain.CategoryRule{
			Pattern:  req.Pattern,
			Category: req.Category,
			Priority: req.Priority,
			Active:   active,
		}

		if err := ruleRepo.Create(rule); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao criar regra de categoria", nil)
			return
		}

		reloadCategorizer(categorizer)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(rule)
	}
}

// UpdateCategoryRule atualiza uma regra e recarrega o snapshot de categorização
func UpdateCategoryRule(ruleRepo repository.CategoryRuleRepository, categorizer categorizing.Categorizer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - UpdateCategoryRule")

		ruleID := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if ruleID == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "ID da regra não fornecido", nil)
			return
		}

		var req CategoryRuleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Erro ao decodificar requisição", nil)
			return
		}

		if req.Pattern == "" || req.Category == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "pattern e category são obrigatórios", nil)
			return
		}

		active := true
		if req.Active != nil {
			active = *req.Active
		}

		rule := &domain.CategoryRule{
			ID:       ruleID,
			Pattern:  req.Pattern,
			Category: req.Category,
			Priority: req.Priority,
			Active:   active,
		}

		if err := ruleRepo.Update(rule); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrNotFound, "Regra de categoria não encontrada", nil)
			return
		}

		reloadCategorizer(categorizer)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(rule)
	}
}

// DeleteCategoryRule remove uma regra e recarrega o snapshot de categorização
func DeleteCategoryRule(ruleRepo repository.CategoryRuleRepository, categorizer categorizing.Categorizer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - DeleteCategoryRule")

		ruleID := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if ruleID == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "ID da regra não fornecido", nil)
			return
		}

		if err := ruleRepo.Delete(ruleID); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao remover regra de categoria", nil)
			return
		}

		reloadCategorizer(categorizer)

		w.WriteHeader(http.StatusNoContent)
	}
}

// ListCategoryOverrides retorna todos os overrides de categoria
func ListCategoryOverrides(overrideRepo repository.CategoryOverrideRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - ListCategoryOverrides")

		overrides, err := overrideRepo.ListAll()
		if err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao listar overrides de categoria", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(overrides)
	}
}

// UpsertCategoryOverride fixa a categoria de uma entidade, com precedência sobre as regras
func UpsertCategoryOverride(overrideRepo repository.CategoryOverrideRepository, categorizer categorizing.Categorizer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - UpsertCategoryOverride")

		params := httprouter.ParamsFromContext(r.Context())
		platform, err := domain.ParsePlatform(params.ByName("platform"))
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Plataforma inválida. Valores aceitos: meta, google, tiktok", nil)
			return
		}

		entityID := params.ByName("entityID")
		if entityID == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "ID da entidade não fornecido", nil)
			return
		}

		var req CategoryOverrideRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Erro ao decodificar requisição", nil)
			return
		}

		if req.Category == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "category é obrigatório", nil)
			return
		}

		override := &domain.CategoryOverride{
			Platform: platform,
			EntityID: entityID,
			Category: req.Category,
		}

		if err := overrideRepo.Upsert(override); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao salvar override de categoria", nil)
			return
		}

		reloadCategorizer(categorizer)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(override)
	}
}

// DeleteCategoryOverride remove o override da entidade, voltando à avaliação por regras
func DeleteCategoryOverride(overrideRepo repository.CategoryOverrideRepository, categorizer categorizing.Categorizer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - DeleteCategoryOverride")

		params := httprouter.ParamsFromContext(r.Context())
		platform, err := domain.ParsePlatform(params.ByName("platform"))
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Plataforma inválida. Valores aceitos: meta, google, tiktok", nil)
			return
		}

		entityID := params.ByName("entityID")
		if entityID == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "ID da entidade não fornecido", nil)
			return
		}

		if err := overrideRepo.Delete(platform, entityID); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao remover override de categoria", nil)
			return
		}

		reloadCategorizer(categorizer)

		w.WriteHeader(http.StatusNoContent)
	}
}

// reloadCategorizer recarrega o snapshot após mutações de regras e overrides.
// Falha no reload mantém o snapshot anterior em uso.
func reloadCategorizer(categorizer categorizing.Categorizer) {
	if err := categorizer.Reload(); err != nil {
		logrus.WithError(err).Warn("Erro ao recarregar snapshot de categorização após mutação")
	}
}
