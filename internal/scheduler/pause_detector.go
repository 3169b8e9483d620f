package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ad-performance-sync/infrastructure/connector"
	"github.com/vfg2006/ad-performance-sync/internal/config"
	"github.com/vfg2006/ad-performance-sync/internal/usecases/tracking"
)

// PauseDetectorConfig representa a configuração do detector automático de pausa
type PauseDetectorConfig struct {
	CronSchedule string
	Enabled      bool
}

// PauseDetectorService consulta o estado das entidades nas plataformas e aplica
// os status automáticos active/paused. Status marcado como manual nunca é tocado.
type PauseDetectorService struct {
	scheduler          *gocron.Scheduler
	config             PauseDetectorConfig
	registry           connector.Registry
	tracker            tracking.Tracker
	detectRunning      bool
	detectMutex        sync.Mutex
	lastRunStartedAt   time.Time
	lastRunCompletedAt time.Time
}

// NewPauseDetectorService cria uma nova instância do detector automático de pausa
func NewPauseDetectorService(
	registry connector.Registry,
	tracker tracking.Tracker,
	appConfig *config.Config,
) *PauseDetectorService {
	detectorConfig := PauseDetectorConfig{
		CronSchedule: appConfig.PauseDetector.CronSchedule,
		Enabled:      appConfig.PauseDetector.Enabled,
	}

	scheduler := gocron.NewScheduler(time.Local)

	logrus.WithFields(logrus.Fields{
		"cron_schedule": detectorConfig.CronSchedule,
		"enabled":       detectorConfig.Enabled,
	}).Info("Configuração do detector automático de pausa carregada")

	return &PauseDetectorService{
		scheduler: scheduler,
		config:    detectorConfig,
		registry:  registry,
		tracker:   tracker,
	}
}

// Start inicia o agendador
func (s *PauseDetectorService) Start(ctx context.Context) error {
	if !s.config.Enabled {
		logrus.Info("Detector automático de pausa desabilitado por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando detector automático de pausa")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		s.detectAllPlatforms(context.Background())
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar detector automático de pausa: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando detector automático de pausa")
		s.scheduler.Stop()
	}()

	return nil
}

// detectAllPlatforms consulta o estado das entidades em cada plataforma registrada
func (s *PauseDetectorService) detectAllPlatforms(ctx context.Context) {
	s.detectMutex.Lock()
	if s.detectRunning {
		s.detectMutex.Unlock()
		logrus.Info("Detecção automática de pausa já em andamento, ignorando")
		return
	}
	startTime := time.Now()
	s.detectRunning = true
	s.lastRunStartedAt = startTime
	s.detectMutex.Unlock()

	defer func() {
		s.detectMutex.Lock()
		s.detectRunning = false
		s.detectMutex.Unlock()
	}()

	for _, platform := range s.registry.Platforms() {
		conn, err := s.registry.Get(platform)
		if err != nil {
			logrus.WithError(err).WithField("platform", platform).Error("Erro ao resolver conector no detector de pausa")
			continue
		}

		pausedByEntity, err := conn.EntityStates(ctx)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"platform": platform,
				"error":    err.Error(),
			}).Error("Erro ao consultar estado das entidades na plataforma")
			continue
		}

		applied, err := s.tracker.ApplyAutomatedStates(platform, pausedByEntity)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"platform": platform,
				"error":    err.Error(),
			}).Error("Erro ao aplicar status automáticos")
			continue
		}

		logrus.WithFields(logrus.Fields{
			"platform": platform,
			"entities": len(pausedByEntity),
			"applied":  applied,
		}).Info("Detecção automática de pausa concluída para a plataforma")
	}

	duration := time.Since(startTime)
	logrus.WithField("duration", duration.String()).Info("Detecção automática de pausa concluída")

	s.detectMutex.Lock()
	s.lastRunCompletedAt = time.Now()
	s.detectMutex.Unlock()
}

// TriggerManualRun inicia manualmente uma rodada de detecção
func (s *PauseDetectorService) TriggerManualRun() {
	s.detectMutex.Lock()
	if s.detectRunning {
		s.detectMutex.Unlock()
		logrus.Info("Detecção automática de pausa já em andamento, ignorando solicitação manual")
		return
	}
	s.detectMutex.Unlock()

	logrus.Info("Iniciando rodada manual do detector automático de pausa")
	go s.detectAllPlatforms(context.Background())
}

// GetStatus retorna o status atual do detector. Os carimbos de tempo são
// lidos sob o mesmo mutex que protege a escrita na goroutine do cron.
func (s *PauseDetectorService) GetStatus() map[string]any {
	s.detectMutex.Lock()
	running := s.detectRunning
	startedAt := s.lastRunStartedAt
	completedAt := s.lastRunCompletedAt
	s.detectMutex.Unlock()

	return map[string]any{
		"detector_enabled":      s.config.Enabled,
		"detector_cron":         s.config.CronSchedule,
		"detector_running":      running,
		"last_run_started_at":   startedAt,
		"last_run_completed_at": completedAt,
	}
}
