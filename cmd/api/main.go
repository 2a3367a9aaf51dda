package main

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-manager-api/infrastructure/cache"
	"github.com/vfg2006/sales-manager-api/infrastructure/database/postgres"
	"github.com/vfg2006/sales-manager-api/infrastructure/repository"
	"github.com/vfg2006/sales-manager-api/internal/api"
	"github.com/vfg2006/sales-manager-api/internal/config"
	"github.com/vfg2006/sales-manager-api/internal/scheduler"
	"github.com/vfg2006/sales-manager-api/internal/usecases/authenticating"
	"github.com/vfg2006/sales-manager-api/internal/usecases/catalog"
	"github.com/vfg2006/sales-manager-api/internal/usecases/recording"
	"github.com/vfg2006/sales-manager-api/internal/usecases/reporting"
)

func main() {
	configureLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	logLevel, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		logrus.Warnf("Nível de log inválido: %s, usando 'info'", cfg.App.LogLevel)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pgConn := pgconn(ctx, cfg.Database)
	defer pgConn.Close()

	userRepo := repository.NewUserRepository(pgConn)
	productRepo := repository.NewProductRepository(pgConn)
	saleRepo := repository.NewSaleRepository(pgConn)
	purchaseRepo := repository.NewPurchaseRepository(pgConn)
	snapshotRepo := repository.NewReportSnapshotRepository(pgConn)

	authenticator := authenticating.NewService(userRepo, cfg)
	productService := catalog.NewService(productRepo)
	saleService := recording.NewSaleService(saleRepo)
	purchaseService := recording.NewPurchaseService(purchaseRepo)

	// Relatórios com cache opcional em Redis
	reportService := reporting.NewService(saleRepo, purchaseRepo)
	if cfg.Redis.Enabled {
		redisCache := cache.NewRedisReportCache(cfg.Redis)
		if err := redisCache.Ping(ctx); err != nil {
			logrus.WithError(err).Warn("Redis indisponível, relatórios seguirão sem cache")
		} else {
			defer redisCache.Close()
			ttl := time.Duration(cfg.Redis.ReportTTLSecond) * time.Second
			reportService = reportService.(*reporting.Service).WithCache(redisCache, ttl)
			logrus.WithField("ttl", ttl).Info("Cache de relatórios em Redis habilitado")
		}
	}

	snapshotSyncService := scheduler.NewReportSnapshotSyncService(
		saleRepo,
		purchaseRepo,
		snapshotRepo,
		cfg,
	)

	if err := snapshotSyncService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de snapshots de relatório")
	}

	server, err := api.New(
		cfg,
		authenticator,
		productService,
		saleService,
		purchaseService,
		reportService,
		snapshotSyncService,
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

	if err := conn.Ping(ctx); err != nil {
		logrus.WithError(err).Fatal("Erro ao testar conexão com PostgreSQL")
	}

	logrus.Info("Conexão com PostgreSQL estabelecida com sucesso")
	return conn
}
