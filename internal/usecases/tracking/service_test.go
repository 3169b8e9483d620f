package tracking

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/ad-performance-sync/infrastructure/repository/mocks"
	"github.com/vfg2006/ad-performance-sync/internal/domain"
	"go.uber.org/mock/gomock"
)

func statusPtr(s domain.EntityStatus) *domain.EntityStatus {
	return &s
}

func sourcePtr(s domain.StatusSource) *domain.StatusSource {
	return &s
}

func TestNextManualStatus(t *testing.T) {
	// Ciclo completo: null → winner → considering → paused → null
	next := NextManualStatus(nil)
	assert.Equal(t, domain.StatusWinner, *next)

	next = NextManualStatus(next)
	assert.Equal(t, domain.StatusConsidering, *next)

	next = NextManualStatus(next)
	assert.Equal(t, domain.StatusPaused, *next)

	next = NextManualStatus(next)
	assert.Nil(t, next)
}

func TestService_CycleStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tests := []struct {
		name           string
		current        *domain.EntityStatus
		source         *domain.StatusSource
		expectedNext   *domain.EntityStatus
		expectedSource *domain.StatusSource
	}{
		{
			name:           "Sem status inicia o ciclo em winner",
			current:        nil,
			source:         nil,
			expectedNext:   statusPtr(domain.StatusWinner),
			expectedSource: sourcePtr(domain.StatusSourceManual),
		},
		{
			name:           "Winner avança para considering",
			current:        statusPtr(domain.StatusWinner),
			source:         sourcePtr(domain.StatusSourceManual),
			expectedNext:   statusPtr(domain.StatusConsidering),
			expectedSource: sourcePtr(domain.StatusSourceManual),
		},
		{
			name:           "Considering avança para paused",
			current:        statusPtr(domain.StatusConsidering),
			source:         sourcePtr(domain.StatusSourceManual),
			expectedNext:   statusPtr(domain.StatusPaused),
			expectedSource: sourcePtr(domain.StatusSourceManual),
		},
		{
			name:           "Paused fecha o ciclo limpando status e origem",
			current:        statusPtr(domain.StatusPaused),
			source:         sourcePtr(domain.StatusSourceManual),
			expectedNext:   nil,
			expectedSource: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := mocks.NewMockMetricRecordRepository(ctrl)
			mockRepo.EXPECT().GetEntityStatus(domain.PlatformMeta, "AD-1").Return(tt.current, tt.source, nil)
			mockRepo.EXPECT().UpdateEntityStatus(domain.PlatformMeta, "AD-1", tt.expectedNext, tt.expectedSource).Return(nil)

			service := NewService(mockRepo)

			next, err := service.CycleStatus(domain.PlatformMeta, "AD-1")

			assert.NoError(t, err)
			assert.Equal(t, tt.expectedNext, next)
		})
	}
}

func TestService_CycleStatus_RejeitaStatusAutomatico(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockMetricRecordRepository(ctrl)
	mockRepo.EXPECT().
		GetEntityStatus(domain.PlatformMeta, "AD-1").
		Return(statusPtr(domain.StatusPaused), sourcePtr(domain.StatusSourceAutomated), nil)

	service := NewService(mockRepo)

	next, err := service.CycleStatus(domain.PlatformMeta, "AD-1")

	var autoErr *AutomatedStatusError
	assert.ErrorAs(t, err, &autoErr)
	assert.Nil(t, next)
	assert.Equal(t, domain.StatusPaused, autoErr.Status)
}

func TestService_ConfirmAutomated(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	t.Run("Paused automático vira paused manual", func(t *testing.T) {
		mockRepo := mocks.NewMockMetricRecordRepository(ctrl)
		mockRepo.EXPECT().
			GetEntityStatus(domain.PlatformMeta, "AD-1").
			Return(statusPtr(domain.StatusPaused), sourcePtr(domain.StatusSourceAutomated), nil)
		mockRepo.EXPECT().
			UpdateEntityStatus(domain.PlatformMeta, "AD-1", statusPtr(domain.StatusPaused), sourcePtr(domain.StatusSourceManual)).
			Return(nil)

		service := NewService(mockRepo)

		next, err := service.ConfirmAutomated(domain.PlatformMeta, "AD-1")

		assert.NoError(t, err)
		assert.Equal(t, domain.StatusPaused, *next)
	})

	t.Run("Active automático é limpo na confirmação", func(t *testing.T) {
		mockRepo := mocks.NewMockMetricRecordRepository(ctrl)
		mockRepo.EXPECT().
			GetEntityStatus(domain.PlatformMeta, "AD-1").
			Return(statusPtr(domain.StatusActive), sourcePtr(domain.StatusSourceAutomated), nil)
		mockRepo.EXPECT().
			UpdateEntityStatus(domain.PlatformMeta, "AD-1", nil, nil).
			Return(nil)

		service := NewService(mockRepo)

		next, err := service.ConfirmAutomated(domain.PlatformMeta, "AD-1")

		assert.NoError(t, err)
		assert.Nil(t, next)
	})

	t.Run("Entidade sob status manual não tem o que confirmar", func(t *testing.T) {
		mockRepo := mocks.NewMockMetricRecordRepository(ctrl)
		mockRepo.EXPECT().
			GetEntityStatus(domain.PlatformMeta, "AD-1").
			Return(statusPtr(domain.StatusWinner), sourcePtr(domain.StatusSourceManual), nil)

		service := NewService(mockRepo)

		next, err := service.ConfirmAutomated(domain.PlatformMeta, "AD-1")

		assert.Error(t, err)
		assert.Nil(t, next)
	})
}

func TestService_ApplyAutomatedStates(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockMetricRecordRepository(ctrl)

	// AD-1: sem status, pausado na plataforma → paused automático
	mockRepo.EXPECT().
		GetEntityStatus(domain.PlatformMeta, "AD-1").
		Return(nil, nil, nil)
	mockRepo.EXPECT().
		UpdateEntityStatus(domain.PlatformMeta, "AD-1", statusPtr(domain.StatusPaused), sourcePtr(domain.StatusSourceAutomated)).
		Return(nil)

	// AD-2: status manual nunca é sobrescrito pelo detector
	mockRepo.EXPECT().
		GetEntityStatus(domain.PlatformMeta, "AD-2").
		Return(statusPtr(domain.StatusWinner), sourcePtr(domain.StatusSourceManual), nil)

	// AD-3: já está paused automático, sinal repetido não gera escrita
	mockRepo.EXPECT().
		GetEntityStatus(domain.PlatformMeta, "AD-3").
		Return(statusPtr(domain.StatusPaused), sourcePtr(domain.StatusSourceAutomated), nil)

	// AD-4: paused automático reativado na plataforma → active automático
	mockRepo.EXPECT().
		GetEntityStatus(domain.PlatformMeta, "AD-4").
		Return(statusPtr(domain.StatusPaused), sourcePtr(domain.StatusSourceAutomated), nil)
	mockRepo.EXPECT().
		UpdateEntityStatus(domain.PlatformMeta, "AD-4", statusPtr(domain.StatusActive), sourcePtr(domain.StatusSourceAutomated)).
		Return(nil)

	// AD-5: erro de consulta não interrompe o lote
	mockRepo.EXPECT().
		GetEntityStatus(domain.PlatformMeta, "AD-5").
		Return(nil, nil, errors.New("connection reset"))

	service := NewService(mockRepo)

	applied, err := service.ApplyAutomatedStates(domain.PlatformMeta, map[string]bool{
		"AD-1": true,
		"AD-2": true,
		"AD-3": true,
		"AD-4": false,
		"AD-5": true,
	})

	assert.NoError(t, err)
	assert.Equal(t, 2, applied)
}
