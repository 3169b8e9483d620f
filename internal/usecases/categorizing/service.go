package categorizing

import (
	"path"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ad-performance-sync/infrastructure/repository"
	"github.com/vfg2006/ad-performance-sync/internal/domain"
)

// Categorizer atribui uma categoria a cada entidade. A avaliação é
// determinística: para o mesmo snapshot de regras/overrides e as mesmas
// entradas, o resultado é sempre o mesmo — requisito para o re-sync idempotente.
type Categorizer interface {
	Categorize(platform domain.Platform, entityID, entityName string) string
	Reload() error
}

// Service avalia overrides e regras sobre um snapshot imutável carregado
// explicitamente via Reload. Não há cache global mutável: mudanças em regras
// só têm efeito após a recarga.
type Service struct {
	ruleRepo     repository.CategoryRuleRepository
	overrideRepo repository.CategoryOverrideRepository

	mu        sync.RWMutex
	rules     []*domain.CategoryRule
	overrides map[domain.OverrideKey]string
}

func NewService(
	ruleRepo repository.CategoryRuleRepository,
	overrideRepo repository.CategoryOverrideRepository,
) *Service {
	return &Service{
		ruleRepo:     ruleRepo,
		overrideRepo: overrideRepo,
		rules:        []*domain.CategoryRule{},
		overrides:    map[domain.OverrideKey]string{},
	}
}

// Reload substitui o snapshot de regras ativas e overrides pelo estado atual do banco
func (s *Service) Reload() error {
	rules, err := s.ruleRepo.ListActiveOrdered()
	if err != nil {
		return err
	}

	overrideRows, err := s.overrideRepo.ListAll()
	if err != nil {
		return err
	}

	overrides := make(map[domain.OverrideKey]string, len(overrideRows))
	for _, override := range overrideRows {
		key := domain.OverrideKey{Platform: override.Platform, EntityID: override.EntityID}
		overrides[key] = override.Category
	}

	s.mu.Lock()
	s.rules = rules
	s.overrides = overrides
	s.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"rules":     len(rules),
		"overrides": len(overrides),
	}).Info("Snapshot de categorização recarregado")

	return nil
}

// Categorize resolve a categoria da entidade: override absoluto primeiro,
// depois a primeira regra ativa que corresponder (prioridade decrescente,
// ordem de inserção como desempate), e por fim o fallback "Uncategorized".
func (s *Service) Categorize(platform domain.Platform, entityID, entityName string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	key := domain.OverrideKey{Platform: platform, EntityID: entityID}
	if category, ok := s.overrides[key]; ok {
		return category
	}

	for _, rule := range s.rules {
		if PatternMatches(rule.Pattern, entityName) {
			return rule.Category
		}
	}

	// Fallback não é erro: o registro segue com a categoria padrão
	logrus.WithFields(logrus.Fields{
		"platform":    platform,
		"entity_id":   entityID,
		"entity_name": entityName,
	}).Debug("Nenhuma regra de categoria correspondeu, usando fallback")

	return domain.CategoryUncategorized
}

// PatternMatches compara o padrão com o nome da entidade sem diferenciar
// maiúsculas. Padrões com metacaracteres (* ? [) são avaliados como glob
// sobre o nome inteiro; os demais, como substring.
func PatternMatches(pattern, entityName string) bool {
	loweredPattern := strings.ToLower(pattern)
	loweredName := strings.ToLower(entityName)

	if strings.ContainsAny(loweredPattern, "*?[") {
		matched, err := path.Match(loweredPattern, loweredName)
		if err != nil {
			// Padrão glob malformado nunca corresponde
			return false
		}
		return matched
	}

	return strings.Contains(loweredName, loweredPattern)
}
