package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ad-performance-sync/internal/config"
	"github.com/vfg2006/ad-performance-sync/internal/domain"
	"github.com/vfg2006/ad-performance-sync/internal/usecases/syncing"
)

// PlatformSyncConfig representa a configuração do agendador de sincronização de plataformas
type PlatformSyncConfig struct {
	CronSchedule        string
	RequestDelaySeconds int
	SyncEnabled         bool
	Platforms           []domain.Platform
}

// PlatformSyncService gerencia o agendamento da sincronização diária das plataformas.
// Cada execução usa a janela rolante de 14 dias calculada no momento do disparo.
type PlatformSyncService struct {
	scheduler           *gocron.Scheduler
	config              PlatformSyncConfig
	syncer              syncing.Syncer
	syncRunning         bool
	syncMutex           sync.Mutex
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
}

// NewPlatformSyncService cria uma nova instância do serviço de sincronização de plataformas
func NewPlatformSyncService(
	syncer syncing.Syncer,
	appConfig *config.Config,
) *PlatformSyncService {
	// Criar a configuração com base na config global
	syncConfig := PlatformSyncConfig{
		CronSchedule:        appConfig.PlatformSync.CronSchedule,
		RequestDelaySeconds: appConfig.PlatformSync.RequestDelaySeconds,
		SyncEnabled:         appConfig.PlatformSync.Enabled,
		Platforms:           enabledPlatforms(appConfig),
	}

	scheduler := gocron.NewScheduler(time.Local)

	logrus.WithFields(logrus.Fields{
		"cron_schedule":         syncConfig.CronSchedule,
		"request_delay_seconds": syncConfig.RequestDelaySeconds,
		"sync_enabled":          syncConfig.SyncEnabled,
		"platforms":             syncConfig.Platforms,
	}).Info("Configuração do agendador de sincronização de plataformas carregada")

	return &PlatformSyncService{
		scheduler:   scheduler,
		config:      syncConfig,
		syncer:      syncer,
		syncRunning: false,
	}
}

func enabledPlatforms(appConfig *config.Config) []domain.Platform {
	platforms := make([]domain.Platform, 0, 3)
	if appConfig.PlatformSync.MetaEnabled {
		platforms = append(platforms, domain.PlatformMeta)
	}
	if appConfig.PlatformSync.GoogleEnabled {
		platforms = append(platforms, domain.PlatformGoogle)
	}
	if appConfig.PlatformSync.TikTokEnabled {
		platforms = append(platforms, domain.PlatformTikTok)
	}
	return platforms
}

// Start inicia o agendador
func (s *PlatformSyncService) Start(ctx context.Context) error {
	if !s.config.SyncEnabled {
		logrus.Info("Sincronização agendada de plataformas desabilitada por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando agendador de sincronização de plataformas")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		s.syncAllPlatforms(context.Background())
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar sincronização de plataformas: %w", err)
	}

	s.scheduler.StartAsync()

	// Configurar o cancelamento do agendador quando o contexto for cancelado
	go func() {
		<-ctx.Done()
		logrus.Info("Parando agendador de sincronização de plataformas")
		s.scheduler.Stop()
	}()

	return nil
}

// syncAllPlatforms sincroniza a janela rolante de todas as plataformas habilitadas
func (s *PlatformSyncService) syncAllPlatforms(ctx context.Context) {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Sincronização de plataformas já em andamento, ignorando")
		return
	}
	startTime := time.Now()
	s.syncRunning = true
	s.lastSyncStartedAt = startTime
	s.syncMutex.Unlock()

	defer func() {
		s.syncMutex.Lock()
		s.syncRunning = false
		s.syncMutex.Unlock()
	}()

	if len(s.config.Platforms) == 0 {
		logrus.Info("Nenhuma plataforma habilitada para sincronização agendada")
		return
	}

	logrus.WithField("platforms", s.config.Platforms).Info("Iniciando sincronização agendada das plataformas habilitadas")

	for i, platform := range s.config.Platforms {
		if i > 0 {
			// Aguardar antes da próxima plataforma para evitar sobrecarga nas APIs
			time.Sleep(time.Duration(s.config.RequestDelaySeconds) * time.Second)
		}

		// Janela nil usa a janela rolante calculada no momento do disparo
		result, err := s.syncer.Sync(ctx, platform, syncing.Options{
			TriggeredBy: "scheduler",
		})
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"platform": platform,
				"error":    err.Error(),
			}).Error("Erro na sincronização agendada da plataforma")
			continue
		}

		logrus.WithFields(logrus.Fields{
			"platform": platform,
			"deleted":  result.Deleted,
			"inserted": result.Inserted,
		}).Info("Sincronização agendada da plataforma concluída")
	}

	duration := time.Since(startTime)
	logrus.WithFields(logrus.Fields{
		"duration":  duration.String(),
		"platforms": len(s.config.Platforms),
	}).Info("Sincronização agendada de plataformas concluída")

	s.syncMutex.Lock()
	s.lastSyncCompletedAt = time.Now()
	s.syncMutex.Unlock()
}

// TriggerManualSync inicia manualmente a sincronização de todas as plataformas habilitadas
func (s *PlatformSyncService) TriggerManualSync() {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Sincronização de plataformas já em andamento, ignorando solicitação manual")
		return
	}
	s.syncMutex.Unlock()

	logrus.Info("Iniciando sincronização manual de todas as plataformas habilitadas")
	go s.syncAllPlatforms(context.Background())
}

// GetStatus retorna o status atual do agendador. Os carimbos de tempo são
// lidos sob o mesmo mutex que protege a escrita na goroutine do cron.
func (s *PlatformSyncService) GetStatus() map[string]any {
	s.syncMutex.Lock()
	running := s.syncRunning
	startedAt := s.lastSyncStartedAt
	completedAt := s.lastSyncCompletedAt
	s.syncMutex.Unlock()

	return map[string]any{
		"sync_running":           running,
		"sync_enabled":           s.config.SyncEnabled,
		"sync_cron":              s.config.CronSchedule,
		"sync_request_delay_s":   s.config.RequestDelaySeconds,
		"sync_platforms":         s.config.Platforms,
		"sync_window_days":       domain.RollingWindowDays,
		"last_sync_started_at":   startedAt,
		"last_sync_completed_at": completedAt,
	}
}
