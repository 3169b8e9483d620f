package tracking

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ad-performance-sync/infrastructure/repository"
	"github.com/vfg2006/ad-performance-sync/internal/domain"
)

// AutomatedStatusError indica que a entidade está sob status automático e a
// transição manual exige confirmação explícita antes de voltar ao ciclo manual.
type AutomatedStatusError struct {
	Platform domain.Platform
	EntityID string
	Status   domain.EntityStatus
}

func (e *AutomatedStatusError) Error() string {
	return fmt.Sprintf(
		"entidade %s/%s está com status automático %q; confirme antes de alterar manualmente",
		e.Platform, e.EntityID, e.Status,
	)
}

// Tracker mantém o status manual/automático das entidades. Mutações de status
// acontecem fora da sincronização e nunca são sobrescritas por ela.
type Tracker interface {
	CycleStatus(platform domain.Platform, entityID string) (*domain.EntityStatus, error)
	ConfirmAutomated(platform domain.Platform, entityID string) (*domain.EntityStatus, error)
	ApplyAutomatedStates(platform domain.Platform, pausedByEntity map[string]bool) (int, error)
}

type Service struct {
	recordRepo repository.MetricRecordRepository
}

func NewService(recordRepo repository.MetricRecordRepository) *Service {
	return &Service{
		recordRepo: recordRepo,
	}
}

// NextManualStatus avança o ciclo manual: null → winner → considering → paused → null
func NextManualStatus(current *domain.EntityStatus) *domain.EntityStatus {
	if current == nil {
		winner := domain.StatusWinner
		return &winner
	}

	switch *current {
	case domain.StatusWinner:
		considering := domain.StatusConsidering
		return &considering
	case domain.StatusConsidering:
		paused := domain.StatusPaused
		return &paused
	default:
		return nil
	}
}

// CycleStatus aplica uma transição manual do ciclo. Entidades sob status
// automático são rejeitadas até a confirmação explícita.
func (s *Service) CycleStatus(platform domain.Platform, entityID string) (*domain.EntityStatus, error) {
	current, source, err := s.recordRepo.GetEntityStatus(platform, entityID)
	if err != nil {
		return nil, err
	}

	if source != nil && *source == domain.StatusSourceAutomated {
		return nil, &AutomatedStatusError{Platform: platform, EntityID: entityID, Status: *current}
	}

	next := NextManualStatus(current)

	var nextSource *domain.StatusSource
	if next != nil {
		manual := domain.StatusSourceManual
		nextSource = &manual
	}

	if err := s.recordRepo.UpdateEntityStatus(platform, entityID, next, nextSource); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"platform":  platform,
		"entity_id": entityID,
		"status":    statusLabel(next),
	}).Info("Status manual da entidade atualizado")

	return next, nil
}

// ConfirmAutomated reconhece o status automático e devolve a entidade ao ciclo
// manual: paused automático vira paused manual; active automático é limpo.
func (s *Service) ConfirmAutomated(platform domain.Platform, entityID string) (*domain.EntityStatus, error) {
	current, source, err := s.recordRepo.GetEntityStatus(platform, entityID)
	if err != nil {
		return nil, err
	}

	if source == nil || *source != domain.StatusSourceAutomated {
		return nil, fmt.Errorf("entidade %s/%s não está sob status automático", platform, entityID)
	}

	var next *domain.EntityStatus
	var nextSource *domain.StatusSource
	if current != nil && *current == domain.StatusPaused {
		paused := domain.StatusPaused
		manual := domain.StatusSourceManual
		next = &paused
		nextSource = &manual
	}

	if err := s.recordRepo.UpdateEntityStatus(platform, entityID, next, nextSource); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"platform":  platform,
		"entity_id": entityID,
		"status":    statusLabel(next),
	}).Info("Status automático confirmado, entidade de volta ao ciclo manual")

	return next, nil
}

// ApplyAutomatedStates aplica o sinal do detector automático. Status manual
// existente nunca é sobrescrito pelo detector.
func (s *Service) ApplyAutomatedStates(platform domain.Platform, pausedByEntity map[string]bool) (int, error) {
	applied := 0

	for entityID, paused := range pausedByEntity {
		current, source, err := s.recordRepo.GetEntityStatus(platform, entityID)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"platform":  platform,
				"entity_id": entityID,
				"error":     err.Error(),
			}).Warn("Erro ao consultar status da entidade no detector automático")
			continue
		}

		if source != nil && *source == domain.StatusSourceManual {
			continue
		}

		next := domain.StatusActive
		if paused {
			next = domain.StatusPaused
		}

		if current != nil && *current == next {
			continue
		}

		automated := domain.StatusSourceAutomated
		if err := s.recordRepo.UpdateEntityStatus(platform, entityID, &next, &automated); err != nil {
			logrus.WithFields(logrus.Fields{
				"platform":  platform,
				"entity_id": entityID,
				"error":     err.Error(),
			}).Warn("Erro ao aplicar status automático")
			continue
		}
		applied++
	}

	return applied, nil
}

func statusLabel(status *domain.EntityStatus) string {
	if status == nil {
		return "null"
	}
	return string(*status)
}
