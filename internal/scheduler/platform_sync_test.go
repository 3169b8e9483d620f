package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	connectormocks "github.com/vfg2006/ad-performance-sync/infrastructure/connector/mocks"
	"github.com/vfg2006/ad-performance-sync/internal/config"
	"github.com/vfg2006/ad-performance-sync/internal/domain"
	"github.com/vfg2006/ad-performance-sync/internal/usecases/syncing"
	"go.uber.org/mock/gomock"
)

type stubSyncer struct {
	calls int32
}

func (s *stubSyncer) Sync(_ context.Context, platform domain.Platform, _ syncing.Options) (*domain.SyncResult, error) {
	atomic.AddInt32(&s.calls, 1)
	return &domain.SyncResult{Platform: platform, Success: true}, nil
}

func schedulerTestConfig() *config.Config {
	return &config.Config{
		PlatformSync: config.PlatformSync{
			CronSchedule:        "0 3 * * *",
			Enabled:             true,
			RequestDelaySeconds: 0,
			MetaEnabled:         true,
		},
		PauseDetector: config.PauseDetector{
			CronSchedule: "0 * * * *",
			Enabled:      true,
		},
	}
}

// GetStatus é chamado por handlers HTTP enquanto o cron escreve os carimbos
// de tempo em outra goroutine: leituras e escritas dividem o mesmo mutex.
func TestPlatformSyncService_GetStatusDuranteSincronizacao(t *testing.T) {
	syncer := &stubSyncer{}
	service := NewPlatformSyncService(syncer, schedulerTestConfig())

	stop := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
					_ = service.GetStatus()
				}
			}
		}()
	}

	service.TriggerManualSync()

	assert.Eventually(t, func() bool {
		status := service.GetStatus()
		completedAt, ok := status["last_sync_completed_at"].(time.Time)
		return ok && !completedAt.IsZero() && status["sync_running"] == false
	}, 2*time.Second, 10*time.Millisecond)

	close(stop)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&syncer.calls))

	status := service.GetStatus()
	assert.Equal(t, false, status["sync_running"])
	assert.Equal(t, domain.RollingWindowDays, status["sync_window_days"])

	startedAt, ok := status["last_sync_started_at"].(time.Time)
	assert.True(t, ok)
	assert.False(t, startedAt.IsZero())
}

func TestPauseDetectorService_GetStatusDuranteDeteccao(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	registry := connectormocks.NewMockRegistry(ctrl)
	registry.EXPECT().Platforms().Return([]domain.Platform{}).AnyTimes()

	service := NewPauseDetectorService(registry, nil, schedulerTestConfig())

	stop := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
					_ = service.GetStatus()
				}
			}
		}()
	}

	service.TriggerManualRun()

	assert.Eventually(t, func() bool {
		status := service.GetStatus()
		completedAt, ok := status["last_run_completed_at"].(time.Time)
		return ok && !completedAt.IsZero() && status["detector_running"] == false
	}, 2*time.Second, 10*time.Millisecond)

	close(stop)
	wg.Wait()

	status := service.GetStatus()
	assert.Equal(t, false, status["detector_running"])
	assert.Equal(t, true, status["detector_enabled"])
}
