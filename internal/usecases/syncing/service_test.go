package syncing

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	connectormocks "github.com/vfg2006/ad-performance-sync/infrastructure/connector/mocks"
	"github.com/vfg2006/ad-performance-sync/infrastructure/repository/mocks"
	"github.com/vfg2006/ad-performance-sync/internal/domain"
	"github.com/vfg2006/ad-performance-sync/internal/usecases/aggregating"
	categorizingmocks "github.com/vfg2006/ad-performance-sync/internal/usecases/categorizing/mocks"
	"go.uber.org/mock/gomock"
)

// fakeTxRunner executa a função diretamente, sem banco. Erros retornados pela
// função simulam a transação revertida.
type fakeTxRunner struct {
	calls int
}

func (f *fakeTxRunner) RunInTransaction(_ context.Context, fn func(*sql.Tx) error) error {
	f.calls++
	return fn(nil)
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func fixedNow() time.Time {
	return day(2025, 9, 11)
}

func newTestService(
	registry *connectormocks.MockRegistry,
	txRunner TransactionRunner,
	recordRepo *mocks.MockMetricRecordRepository,
	resultRepo *mocks.MockSyncResultRepository,
	categorizer *categorizingmocks.MockCategorizer,
) *Service {
	service := NewService(registry, txRunner, recordRepo, resultRepo, categorizer, time.Minute)
	service.now = fixedNow
	return service
}

func TestService_Sync_JanelaRolantePadrao(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	registry := connectormocks.NewMockRegistry(ctrl)
	conn := connectormocks.NewMockConnector(ctrl)
	recordRepo := mocks.NewMockMetricRecordRepository(ctrl)
	resultRepo := mocks.NewMockSyncResultRepository(ctrl)
	categorizer := categorizingmocks.NewMockCategorizer(ctrl)
	txRunner := &fakeTxRunner{}

	// Janela rolante para 2025-09-11: end = ontem, start = end - 13
	expectedWindow := domain.SyncWindow{Start: day(2025, 8, 28), End: day(2025, 9, 10)}

	fetched := []*domain.MetricRecord{
		{
			Platform:        domain.PlatformMeta,
			EntityID:        "AD-1",
			EntityName:      "remarketing verão",
			ReportingStarts: day(2025, 9, 1),
			ReportingEnds:   day(2025, 9, 1),
			Spend:           100,
		},
		{
			Platform:        domain.PlatformMeta,
			EntityID:        "AD-2",
			EntityName:      "institucional",
			ReportingStarts: day(2025, 9, 2),
			ReportingEnds:   day(2025, 9, 2),
			Spend:           50,
		},
	}

	registry.EXPECT().Get(domain.PlatformMeta).Return(conn, nil)
	conn.EXPECT().Fetch(gomock.Any(), expectedWindow).Return(fetched, nil)

	categorizer.EXPECT().Reload().Return(nil)
	categorizer.EXPECT().Categorize(domain.PlatformMeta, "AD-1", "remarketing verão").Return("Remarketing")
	categorizer.EXPECT().Categorize(domain.PlatformMeta, "AD-2", "institucional").Return(domain.CategoryUncategorized)

	recordRepo.EXPECT().DeleteByWindow(gomock.Any(), domain.PlatformMeta, expectedWindow).Return(int64(3), nil)
	recordRepo.EXPECT().InsertRecord(gomock.Any(), fetched[0]).Return(nil)
	recordRepo.EXPECT().InsertRecord(gomock.Any(), fetched[1]).Return(nil)

	resultRepo.EXPECT().Save(gomock.Any()).DoAndReturn(func(result *domain.SyncResult) error {
		assert.True(t, result.Success)
		assert.Equal(t, int64(3), result.Deleted)
		assert.Equal(t, int64(2), result.Inserted)
		assert.Equal(t, "operador@example.com", result.TriggeredBy)
		return nil
	})

	service := newTestService(registry, txRunner, recordRepo, resultRepo, categorizer)

	result, err := service.Sync(context.Background(), domain.PlatformMeta, Options{TriggeredBy: "operador@example.com"})

	assert.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, expectedWindow.Start, result.WindowStart)
	assert.Equal(t, expectedWindow.End, result.WindowEnd)
	assert.Equal(t, "Remarketing", fetched[0].Category)
	assert.Equal(t, domain.CategoryUncategorized, fetched[1].Category)
	assert.Equal(t, 1, txRunner.calls)
}

func TestService_Sync_JanelaJaEmAndamentoERejeitada(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	registry := connectormocks.NewMockRegistry(ctrl)
	recordRepo := mocks.NewMockMetricRecordRepository(ctrl)
	resultRepo := mocks.NewMockSyncResultRepository(ctrl)
	categorizer := categorizingmocks.NewMockCategorizer(ctrl)

	service := newTestService(registry, &fakeTxRunner{}, recordRepo, resultRepo, categorizer)

	// Simula uma sincronização em andamento para a mesma (plataforma, janela)
	window := domain.RollingWindow(fixedNow())
	assert.True(t, service.acquire(domain.PlatformMeta, window))

	result, err := service.Sync(context.Background(), domain.PlatformMeta, Options{})

	var inProgress *SyncInProgressError
	assert.ErrorAs(t, err, &inProgress)
	assert.Nil(t, result)
	assert.Equal(t, domain.PlatformMeta, inProgress.Platform)

	// Outra plataforma na mesma janela não é afetada pelo lock
	assert.True(t, service.acquire(domain.PlatformGoogle, window))

	// Liberado o lock, a mesma janela volta a ser aceita
	service.release(domain.PlatformMeta, window)
	assert.True(t, service.acquire(domain.PlatformMeta, window))
}

func TestService_Sync_FalhaDeFetchNaoTocaOBanco(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	registry := connectormocks.NewMockRegistry(ctrl)
	conn := connectormocks.NewMockConnector(ctrl)
	recordRepo := mocks.NewMockMetricRecordRepository(ctrl)
	resultRepo := mocks.NewMockSyncResultRepository(ctrl)
	categorizer := categorizingmocks.NewMockCategorizer(ctrl)
	txRunner := &fakeTxRunner{}

	registry.EXPECT().Get(domain.PlatformMeta).Return(conn, nil)
	conn.EXPECT().Fetch(gomock.Any(), gomock.Any()).Return(nil, errors.New("rate limited"))

	// A falha ainda gera registro na trilha de auditoria
	resultRepo.EXPECT().Save(gomock.Any()).DoAndReturn(func(result *domain.SyncResult) error {
		assert.False(t, result.Success)
		assert.NotEmpty(t, result.Error)
		assert.Zero(t, result.Deleted)
		assert.Zero(t, result.Inserted)
		return nil
	})

	service := newTestService(registry, txRunner, recordRepo, resultRepo, categorizer)

	result, err := service.Sync(context.Background(), domain.PlatformMeta, Options{})

	var fetchErr *FetchError
	assert.ErrorAs(t, err, &fetchErr)
	assert.False(t, result.Success)

	// Nenhuma transação foi aberta: o dado existente permanece intacto
	assert.Zero(t, txRunner.calls)
}

func TestService_Sync_TransacaoRevertidaZeraContadores(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	registry := connectormocks.NewMockRegistry(ctrl)
	conn := connectormocks.NewMockConnector(ctrl)
	recordRepo := mocks.NewMockMetricRecordRepository(ctrl)
	resultRepo := mocks.NewMockSyncResultRepository(ctrl)
	categorizer := categorizingmocks.NewMockCategorizer(ctrl)
	txRunner := &fakeTxRunner{}

	fetched := []*domain.MetricRecord{
		{
			Platform:        domain.PlatformMeta,
			EntityID:        "AD-1",
			EntityName:      "remarketing",
			ReportingStarts: day(2025, 9, 1),
			ReportingEnds:   day(2025, 9, 1),
		},
	}

	registry.EXPECT().Get(domain.PlatformMeta).Return(conn, nil)
	conn.EXPECT().Fetch(gomock.Any(), gomock.Any()).Return(fetched, nil)
	categorizer.EXPECT().Reload().Return(nil)
	categorizer.EXPECT().Categorize(gomock.Any(), gomock.Any(), gomock.Any()).Return("Remarketing")

	recordRepo.EXPECT().DeleteByWindow(gomock.Any(), domain.PlatformMeta, gomock.Any()).Return(int64(5), nil)
	recordRepo.EXPECT().InsertRecord(gomock.Any(), fetched[0]).Return(errors.New("unique violation"))

	resultRepo.EXPECT().Save(gomock.Any()).DoAndReturn(func(result *domain.SyncResult) error {
		assert.False(t, result.Success)
		assert.Zero(t, result.Deleted)
		assert.Zero(t, result.Inserted)
		return nil
	})

	service := newTestService(registry, txRunner, recordRepo, resultRepo, categorizer)

	result, err := service.Sync(context.Background(), domain.PlatformMeta, Options{})

	assert.Error(t, err)
	assert.False(t, result.Success)
	assert.Zero(t, result.Deleted)
	assert.Zero(t, result.Inserted)
}

func TestService_Sync_JanelaExplicita(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	t.Run("Janela antiga sem force é rejeitada antes de qualquer fetch", func(t *testing.T) {
		registry := connectormocks.NewMockRegistry(ctrl)
		recordRepo := mocks.NewMockMetricRecordRepository(ctrl)
		resultRepo := mocks.NewMockSyncResultRepository(ctrl)
		categorizer := categorizingmocks.NewMockCategorizer(ctrl)

		service := newTestService(registry, &fakeTxRunner{}, recordRepo, resultRepo, categorizer)

		window := domain.SyncWindow{Start: day(2025, 6, 1), End: day(2025, 6, 14)}
		result, err := service.Sync(context.Background(), domain.PlatformMeta, Options{Window: &window})

		var tooOld *WindowTooOldError
		assert.ErrorAs(t, err, &tooOld)
		assert.Nil(t, result)
		assert.Equal(t, domain.MaxWindowAgeDays, tooOld.MaxDays)
	})

	t.Run("Janela antiga com force executa normalmente", func(t *testing.T) {
		registry := connectormocks.NewMockRegistry(ctrl)
		conn := connectormocks.NewMockConnector(ctrl)
		recordRepo := mocks.NewMockMetricRecordRepository(ctrl)
		resultRepo := mocks.NewMockSyncResultRepository(ctrl)
		categorizer := categorizingmocks.NewMockCategorizer(ctrl)

		window := domain.SyncWindow{Start: day(2025, 6, 1), End: day(2025, 6, 14)}

		registry.EXPECT().Get(domain.PlatformMeta).Return(conn, nil)
		conn.EXPECT().Fetch(gomock.Any(), window).Return([]*domain.MetricRecord{}, nil)
		categorizer.EXPECT().Reload().Return(nil)
		recordRepo.EXPECT().DeleteByWindow(gomock.Any(), domain.PlatformMeta, window).Return(int64(10), nil)
		resultRepo.EXPECT().Save(gomock.Any()).Return(nil)

		service := newTestService(registry, &fakeTxRunner{}, recordRepo, resultRepo, categorizer)

		result, err := service.Sync(context.Background(), domain.PlatformMeta, Options{Window: &window, Force: true})

		assert.NoError(t, err)
		assert.True(t, result.Success)
		assert.Equal(t, int64(10), result.Deleted)
		assert.Zero(t, result.Inserted)
	})

	t.Run("End no futuro é ajustado para ontem", func(t *testing.T) {
		registry := connectormocks.NewMockRegistry(ctrl)
		conn := connectormocks.NewMockConnector(ctrl)
		recordRepo := mocks.NewMockMetricRecordRepository(ctrl)
		resultRepo := mocks.NewMockSyncResultRepository(ctrl)
		categorizer := categorizingmocks.NewMockCategorizer(ctrl)

		requested := domain.SyncWindow{Start: day(2025, 9, 1), End: day(2025, 9, 25)}
		clamped := domain.SyncWindow{Start: day(2025, 9, 1), End: day(2025, 9, 10)}

		registry.EXPECT().Get(domain.PlatformMeta).Return(conn, nil)
		conn.EXPECT().Fetch(gomock.Any(), clamped).Return([]*domain.MetricRecord{}, nil)
		categorizer.EXPECT().Reload().Return(nil)
		recordRepo.EXPECT().DeleteByWindow(gomock.Any(), domain.PlatformMeta, clamped).Return(int64(0), nil)
		resultRepo.EXPECT().Save(gomock.Any()).Return(nil)

		service := newTestService(registry, &fakeTxRunner{}, recordRepo, resultRepo, categorizer)

		result, err := service.Sync(context.Background(), domain.PlatformMeta, Options{Window: &requested})

		assert.NoError(t, err)
		assert.Equal(t, clamped.End, result.WindowEnd)
	})
}

func TestService_prepareRecords(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	categorizer := categorizingmocks.NewMockCategorizer(ctrl)
	service := newTestService(
		connectormocks.NewMockRegistry(ctrl),
		&fakeTxRunner{},
		mocks.NewMockMetricRecordRepository(ctrl),
		mocks.NewMockSyncResultRepository(ctrl),
		categorizer,
	)

	window := domain.SyncWindow{Start: day(2025, 9, 1), End: day(2025, 9, 7)}

	valid := &domain.MetricRecord{
		Platform:        domain.PlatformMeta,
		EntityID:        "AD-1",
		EntityName:      "remarketing",
		ReportingStarts: day(2025, 9, 3),
		ReportingEnds:   day(2025, 9, 3),
	}
	outsideWindow := &domain.MetricRecord{
		Platform:        domain.PlatformMeta,
		EntityID:        "AD-2",
		EntityName:      "antigo",
		ReportingStarts: day(2025, 8, 20),
		ReportingEnds:   day(2025, 8, 20),
	}
	invalid := &domain.MetricRecord{
		Platform:        domain.PlatformMeta,
		EntityID:        "",
		ReportingStarts: day(2025, 9, 3),
		ReportingEnds:   day(2025, 9, 3),
	}

	categorizer.EXPECT().Categorize(domain.PlatformMeta, "AD-1", "remarketing").Return("Remarketing")

	prepared := service.prepareRecords(domain.PlatformMeta, window, []*domain.MetricRecord{valid, outsideWindow, invalid})

	assert.Len(t, prepared, 1)
	assert.Equal(t, "AD-1", prepared[0].EntityID)
	assert.Equal(t, "Remarketing", prepared[0].Category)
}

// fakeRecordStore aplica o delete+insert escopado numa tabela em memória,
// preservando a chave única de observação da tabela canônica.
type fakeRecordStore struct {
	records map[string]*domain.MetricRecord
}

func newFakeRecordStore() *fakeRecordStore {
	return &fakeRecordStore{records: make(map[string]*domain.MetricRecord)}
}

func storeKey(record *domain.MetricRecord) string {
	return fmt.Sprintf(
		"%s|%s|%s|%s",
		record.Platform,
		record.EntityID,
		record.ReportingStarts.Format(time.DateOnly),
		record.ReportingEnds.Format(time.DateOnly),
	)
}

func (f *fakeRecordStore) put(record *domain.MetricRecord) {
	clone := *record
	f.records[storeKey(&clone)] = &clone
}

func (f *fakeRecordStore) DeleteByWindow(_ *sql.Tx, platform domain.Platform, window domain.SyncWindow) (int64, error) {
	var deleted int64
	for key, record := range f.records {
		if record.Platform != platform {
			continue
		}
		if record.ReportingStarts.Before(window.Start) || record.ReportingEnds.After(window.End) {
			continue
		}
		delete(f.records, key)
		deleted++
	}
	return deleted, nil
}

func (f *fakeRecordStore) InsertRecord(_ *sql.Tx, record *domain.MetricRecord) error {
	f.put(record)
	return nil
}

func (f *fakeRecordStore) snapshot() []*domain.MetricRecord {
	records := make([]*domain.MetricRecord, 0, len(f.records))
	for _, record := range f.records {
		records = append(records, record)
	}
	sort.Slice(records, func(i, j int) bool {
		return strings.Compare(storeKey(records[i]), storeKey(records[j])) < 0
	})
	return records
}

func (f *fakeRecordStore) GetByFilters(_ *domain.RecordFilters) ([]*domain.MetricRecord, error) {
	return f.snapshot(), nil
}

func (f *fakeRecordStore) GetByKey(_ domain.Platform, _ string, _, _ time.Time) (*domain.MetricRecord, error) {
	return nil, nil
}

func (f *fakeRecordStore) ListEntities(_ domain.Platform) ([]string, error) {
	return nil, nil
}

func (f *fakeRecordStore) GetEntityStatus(_ domain.Platform, _ string) (*domain.EntityStatus, *domain.StatusSource, error) {
	return nil, nil, nil
}

func (f *fakeRecordStore) UpdateEntityStatus(_ domain.Platform, _ string, _ *domain.EntityStatus, _ *domain.StatusSource) error {
	return nil
}

// Rodar a mesma sincronização duas vezes com o mesmo fetch produz exatamente o
// mesmo conjunto de registros e os mesmos rollups; registros de outras
// plataformas e de fora da janela atravessam as duas execuções intactos.
func TestService_Sync_ExecucaoRepetidaEIdempotente(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	registry := connectormocks.NewMockRegistry(ctrl)
	conn := connectormocks.NewMockConnector(ctrl)
	resultRepo := mocks.NewMockSyncResultRepository(ctrl)
	categorizer := categorizingmocks.NewMockCategorizer(ctrl)
	store := newFakeRecordStore()

	window := domain.RollingWindow(fixedNow())

	// Registros pré-existentes que a limpeza escopada não pode alcançar:
	// outra plataforma dentro da janela e a mesma plataforma fora da janela
	googleRecord := &domain.MetricRecord{
		Platform:        domain.PlatformGoogle,
		EntityID:        "G-1",
		EntityName:      "brand google",
		ReportingStarts: day(2025, 9, 2),
		ReportingEnds:   day(2025, 9, 2),
		Category:        domain.CategoryUncategorized,
		Spend:           77,
	}
	oldMetaRecord := &domain.MetricRecord{
		Platform:        domain.PlatformMeta,
		EntityID:        "AD-OLD",
		EntityName:      "histórico",
		ReportingStarts: day(2025, 8, 1),
		ReportingEnds:   day(2025, 8, 1),
		Category:        domain.CategoryUncategorized,
		Spend:           12,
	}
	store.put(googleRecord)
	store.put(oldMetaRecord)

	fetchPayload := func() []*domain.MetricRecord {
		return []*domain.MetricRecord{
			{
				Platform:        domain.PlatformMeta,
				EntityID:        "AD-1",
				EntityName:      "remarketing verão",
				ReportingStarts: day(2025, 9, 1),
				ReportingEnds:   day(2025, 9, 1),
				Spend:           100,
				Revenue:         200,
				Purchases:       2,
				Impressions:     5000,
				Clicks:          50,
			},
			{
				Platform:        domain.PlatformMeta,
				EntityID:        "AD-2",
				EntityName:      "institucional",
				ReportingStarts: day(2025, 9, 4),
				ReportingEnds:   day(2025, 9, 4),
				Spend:           50,
				Revenue:         500,
				Purchases:       1,
				Impressions:     2000,
				Clicks:          20,
			},
		}
	}

	registry.EXPECT().Get(domain.PlatformMeta).Return(conn, nil).Times(2)
	conn.EXPECT().Fetch(gomock.Any(), window).DoAndReturn(
		func(_ context.Context, _ domain.SyncWindow) ([]*domain.MetricRecord, error) {
			return fetchPayload(), nil
		},
	).Times(2)
	categorizer.EXPECT().Reload().Return(nil).Times(2)
	categorizer.EXPECT().Categorize(domain.PlatformMeta, "AD-1", "remarketing verão").Return("Remarketing").Times(2)
	categorizer.EXPECT().Categorize(domain.PlatformMeta, "AD-2", "institucional").Return(domain.CategoryUncategorized).Times(2)
	resultRepo.EXPECT().Save(gomock.Any()).Return(nil).Times(2)

	service := NewService(registry, &fakeTxRunner{}, store, resultRepo, categorizer, time.Minute)
	service.now = fixedNow

	first, err := service.Sync(context.Background(), domain.PlatformMeta, Options{})
	assert.NoError(t, err)
	assert.True(t, first.Success)
	assert.Zero(t, first.Deleted)
	assert.Equal(t, int64(2), first.Inserted)

	firstSnapshot := store.snapshot()
	firstRollups := aggregating.Aggregate(firstSnapshot, domain.GroupByCategory, domain.PeriodWeek)

	second, err := service.Sync(context.Background(), domain.PlatformMeta, Options{})
	assert.NoError(t, err)
	assert.True(t, second.Success)

	// A segunda execução remove exatamente o que a primeira inseriu
	assert.Equal(t, int64(2), second.Deleted)
	assert.Equal(t, int64(2), second.Inserted)

	secondSnapshot := store.snapshot()
	secondRollups := aggregating.Aggregate(secondSnapshot, domain.GroupByCategory, domain.PeriodWeek)

	assert.Equal(t, firstSnapshot, secondSnapshot)
	assert.Equal(t, firstRollups, secondRollups)

	// O raio de alcance da limpeza é só (plataforma, janela)
	assert.Contains(t, store.records, storeKey(googleRecord))
	assert.Contains(t, store.records, storeKey(oldMetaRecord))
}

func TestRollingWindow(t *testing.T) {
	window := domain.RollingWindow(fixedNow())

	assert.Equal(t, day(2025, 8, 28), window.Start)
	assert.Equal(t, day(2025, 9, 10), window.End)
	assert.Equal(t, domain.RollingWindowDays, window.Days())
}
