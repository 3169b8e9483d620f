package main

import (
	"context"
	"os"
	"path"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ad-performance-sync/infrastructure/connector"
	"github.com/vfg2006/ad-performance-sync/infrastructure/connector/google"
	"github.com/vfg2006/ad-performance-sync/infrastructure/connector/meta"
	"github.com/vfg2006/ad-performance-sync/infrastructure/connector/tiktok"
	"github.com/vfg2006/ad-performance-sync/infrastructure/database/postgres"
	"github.com/vfg2006/ad-performance-sync/infrastructure/repository"
	"github.com/vfg2006/ad-performance-sync/internal/api"
	"github.com/vfg2006/ad-performance-sync/internal/config"
	"github.com/vfg2006/ad-performance-sync/internal/scheduler"
	"github.com/vfg2006/ad-performance-sync/internal/usecases/authenticating"
	"github.com/vfg2006/ad-performance-sync/internal/usecases/categorizing"
	"github.com/vfg2006/ad-performance-sync/internal/usecases/reporting"
	"github.com/vfg2006/ad-performance-sync/internal/usecases/syncing"
	"github.com/vfg2006/ad-performance-sync/internal/usecases/tracking"
)

func main() {
	// Inicializa configuração de logs
	configureLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	// Define o nível de log com base na configuração
	logLevel, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		logrus.Warnf("Nível de log inválido: %s, usando 'info'", cfg.App.LogLevel)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
	logrus.Infof("Nível de log configurado para: %s", logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pgConn := pgconn(ctx, cfg.Database)
	defer pgConn.Close()

	recordRepo := repository.NewMetricRecordRepository(pgConn)
	ruleRepo := repository.NewCategoryRuleRepository(pgConn)
	overrideRepo := repository.NewCategoryOverrideRepository(pgConn)
	resultRepo := repository.NewSyncResultRepository(pgConn)
	userRepo := repository.NewUserRepository(pgConn)

	authenticator := authenticating.NewService(userRepo, cfg)

	registry := connector.NewRegistry(
		meta.New(cfg),
		google.New(cfg),
		tiktok.New(cfg),
	)

	categorizer := categorizing.NewService(ruleRepo, overrideRepo)
	if err := categorizer.Reload(); err != nil {
		logrus.WithError(err).Warn("Erro ao carregar snapshot inicial de categorização")
	}

	syncer := syncing.NewService(
		registry,
		pgConn,
		recordRepo,
		resultRepo,
		categorizer,
		cfg.PlatformSync.FetchTimeout,
	)

	tracker := tracking.NewService(recordRepo)
	reporter := reporting.NewService(recordRepo)

	// Inicializa os agendadores de sincronização e detecção de pausa
	platformSyncService := scheduler.NewPlatformSyncService(syncer, cfg)
	pauseDetectorService := scheduler.NewPauseDetectorService(registry, tracker, cfg)

	if err := platformSyncService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de sincronização de plataformas")
	} else {
		logrus.Info("Agendador de sincronização de plataformas iniciado com sucesso")
	}

	if err := pauseDetectorService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o detector automático de pausa")
	} else {
		logrus.Info("Detector automático de pausa iniciado com sucesso")
	}

	server, err := api.New(
		cfg,
		syncer,
		reporter,
		tracker,
		categorizer,
		authenticator,
		ruleRepo,
		overrideRepo,
		resultRepo,
		platformSyncService,
		pauseDetectorService,
	)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// configureLogger configura o formato e comportamento dos logs
func configureLogger() {
	_, file, _, _ := runtime.Caller(0)
	dir := path.Dir(file)
	os.Chdir(dir)

	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}

// pgconn cria uma conexão com o banco de dados
func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}

	err = conn.Ping(ctx)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao testar conexão com PostgreSQL")
	}

	logrus.Info("Conexão com PostgreSQL estabelecida com sucesso")
	return conn
}
