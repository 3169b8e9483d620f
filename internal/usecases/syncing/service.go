package syncing

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ad-performance-sync/infrastructure/connector"
	"github.com/vfg2006/ad-performance-sync/infrastructure/repository"
	"github.com/vfg2006/ad-performance-sync/internal/domain"
	"github.com/vfg2006/ad-performance-sync/internal/usecases/categorizing"
)

// TransactionRunner executa uma função dentro de uma transação do banco.
// Implementado por postgres.Connection.
type TransactionRunner interface {
	RunInTransaction(ctx context.Context, fn func(*sql.Tx) error) error
}

// Options ajusta uma execução de sincronização
type Options struct {
	// Window é a janela explícita do operador; nil usa a janela rolante
	Window *domain.SyncWindow
	// Force confirma o re-sync de janelas mais antigas que o limite de sanidade
	Force bool
	// TriggeredBy identifica a origem da execução na trilha de auditoria
	TriggeredBy string
}

// Syncer é o contrato do orquestrador de sincronização
type Syncer interface {
	Sync(ctx context.Context, platform domain.Platform, opts Options) (*domain.SyncResult, error)
}

// Service é o único caminho de sincronização do sistema. A limpeza é sempre
// escopada à janela: não existe modo de limpeza total, por construção.
type Service struct {
	registry     connector.Registry
	txRunner     TransactionRunner
	recordRepo   repository.MetricRecordRepository
	resultRepo   repository.SyncResultRepository
	categorizer  categorizing.Categorizer
	fetchTimeout time.Duration

	mu       sync.Mutex
	inFlight map[string]struct{}

	now func() time.Time
}

func NewService(
	registry connector.Registry,
	txRunner TransactionRunner,
	recordRepo repository.MetricRecordRepository,
	resultRepo repository.SyncResultRepository,
	categorizer categorizing.Categorizer,
	fetchTimeout time.Duration,
) *Service {
	if fetchTimeout <= 0 {
		fetchTimeout = 2 * time.Minute
	}

	return &Service{
		registry:     registry,
		txRunner:     txRunner,
		recordRepo:   recordRepo,
		resultRepo:   resultRepo,
		categorizer:  categorizer,
		fetchTimeout: fetchTimeout,
		inFlight:     make(map[string]struct{}),
		now:          time.Now,
	}
}

// Sync executa a sincronização escopada de uma plataforma para uma janela:
// busca os dados, e só então, numa única transação, remove os registros da
// janela e insere os novos. Falha de fetch aborta antes de qualquer mutação.
func (s *Service) Sync(ctx context.Context, platform domain.Platform, opts Options) (*domain.SyncResult, error) {
	window, err := s.resolveWindow(opts)
	if err != nil {
		return nil, err
	}

	if !s.acquire(platform, window) {
		logrus.WithFields(logrus.Fields{
			"platform": platform,
			"window":   window.String(),
		}).Warn("Sincronização rejeitada: janela já em andamento")
		return nil, &SyncInProgressError{Platform: platform, Window: window}
	}
	defer s.release(platform, window)

	startTime := s.now()
	result := &domain.SyncResult{
		Platform:    platform,
		WindowStart: window.Start,
		WindowEnd:   window.End,
		TriggeredBy: opts.TriggeredBy,
	}

	logrus.WithFields(logrus.Fields{
		"platform":     platform,
		"window":       window.String(),
		"days":         window.Days(),
		"triggered_by": opts.TriggeredBy,
	}).Info("Iniciando sincronização escopada")

	records, err := s.fetch(ctx, platform, window)
	if err != nil {
		result.Success = false
		result.Error = err.Error()
		result.DurationMS = time.Since(startTime).Milliseconds()
		s.saveResult(result)
		return result, err
	}

	// O snapshot de regras é recarregado a cada sincronização: a avaliação
	// usa o mesmo estado para todos os registros da janela
	if err := s.categorizer.Reload(); err != nil {
		logrus.WithError(err).Warn("Erro ao recarregar snapshot de categorização, usando o snapshot anterior")
	}

	records = s.prepareRecords(platform, window, records)

	var deleted int64
	err = s.txRunner.RunInTransaction(ctx, func(tx *sql.Tx) error {
		d, err := s.recordRepo.DeleteByWindow(tx, platform, window)
		if err != nil {
			return err
		}
		deleted = d

		for _, record := range records {
			if err := s.recordRepo.InsertRecord(tx, record); err != nil {
				return err
			}
		}

		return nil
	})

	result.Deleted = deleted
	result.Inserted = int64(len(records))
	result.DurationMS = time.Since(startTime).Milliseconds()

	if err != nil {
		result.Success = false
		result.Deleted = 0
		result.Inserted = 0
		result.Error = err.Error()
		s.saveResult(result)

		logrus.WithFields(logrus.Fields{
			"platform": platform,
			"window":   window.String(),
			"error":    err.Error(),
		}).Error("Sincronização revertida: transação de delete+insert falhou")

		return result, err
	}

	result.Success = true
	s.saveResult(result)

	logrus.WithFields(logrus.Fields{
		"platform":    platform,
		"window":      window.String(),
		"deleted":     result.Deleted,
		"inserted":    result.Inserted,
		"duration_ms": result.DurationMS,
	}).Info("Sincronização concluída com sucesso")

	return result, nil
}

// resolveWindow calcula a janela rolante ou valida a janela explícita do operador
func (s *Service) resolveWindow(opts Options) (domain.SyncWindow, error) {
	now := s.now()

	if opts.Window == nil {
		return domain.RollingWindow(now), nil
	}

	window := *opts.Window

	yesterday := domain.RollingWindow(now).End
	if window.End.After(yesterday) {
		// Dados do dia corrente ainda estão em apuração nas plataformas
		window.End = yesterday
		if window.End.Before(window.Start) {
			window.Start = window.End
		}
	}

	if window.OlderThan(now, domain.MaxWindowAgeDays) {
		if !opts.Force {
			return domain.SyncWindow{}, &WindowTooOldError{Window: window, MaxDays: domain.MaxWindowAgeDays}
		}
		logrus.WithFields(logrus.Fields{
			"window":   window.String(),
			"max_days": domain.MaxWindowAgeDays,
		}).Warn("Re-sync histórico forçado para janela fora do limite de sanidade")
	}

	return window, nil
}

// fetch busca os registros no conector com timeout. Qualquer erro aqui
// significa que o banco ainda não foi tocado.
func (s *Service) fetch(ctx context.Context, platform domain.Platform, window domain.SyncWindow) ([]*domain.MetricRecord, error) {
	conn, err := s.registry.Get(platform)
	if err != nil {
		return nil, &FetchError{Platform: platform, Window: window, Cause: err}
	}

	fetchCtx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	records, err := conn.Fetch(fetchCtx, window)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"platform":  platform,
			"window":    window.String(),
			"retryable": connector.IsRetryable(err),
			"error":     err.Error(),
		}).Error("Falha ao buscar dados da plataforma, sincronização abortada sem mutação")
		return nil, &FetchError{Platform: platform, Window: window, Cause: err}
	}

	return records, nil
}

// prepareRecords valida, restringe à janela e categoriza os registros buscados
func (s *Service) prepareRecords(
	platform domain.Platform,
	window domain.SyncWindow,
	records []*domain.MetricRecord,
) []*domain.MetricRecord {
	prepared := make([]*domain.MetricRecord, 0, len(records))

	for _, record := range records {
		if err := record.Validate(); err != nil {
			logrus.WithFields(logrus.Fields{
				"platform":  platform,
				"entity_id": record.EntityID,
				"error":     err.Error(),
			}).Warn("Registro descartado na validação")
			continue
		}

		// Registros fora da janela ficariam órfãos da limpeza escopada
		if record.ReportingStarts.Before(window.Start) || record.ReportingEnds.After(window.End) {
			logrus.WithFields(logrus.Fields{
				"platform":  platform,
				"entity_id": record.EntityID,
				"starts":    record.ReportingStarts.Format(time.DateOnly),
				"ends":      record.ReportingEnds.Format(time.DateOnly),
				"window":    window.String(),
			}).Warn("Registro descartado: período fora da janela sincronizada")
			continue
		}

		record.Category = s.categorizer.Categorize(platform, record.EntityID, record.EntityName)
		prepared = append(prepared, record)
	}

	return prepared
}

// saveResult persiste a trilha de auditoria; falha aqui não derruba a sincronização
func (s *Service) saveResult(result *domain.SyncResult) {
	if err := s.resultRepo.Save(result); err != nil {
		logrus.WithError(err).Error("Erro ao salvar resultado de sincronização na auditoria")
	}
}

func (s *Service) acquire(platform domain.Platform, window domain.SyncWindow) bool {
	key := window.Key(platform)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.inFlight[key]; exists {
		return false
	}
	s.inFlight[key] = struct{}{}
	return true
}

func (s *Service) release(platform domain.Platform, window domain.SyncWindow) {
	key := window.Key(platform)

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, key)
}
