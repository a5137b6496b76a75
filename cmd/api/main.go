package main

import (
	"context"
	"os"
	"path"
	"runtime"

	"github.com/vfg2006/retail-dashboard-api/infrastructure/database/postgres"
	"github.com/vfg2006/retail-dashboard-api/infrastructure/integrator/meta"
	"github.com/vfg2006/retail-dashboard-api/infrastructure/integrator/meta/metaclient"
	"github.com/vfg2006/retail-dashboard-api/infrastructure/repository"
	"github.com/vfg2006/retail-dashboard-api/internal/api"
	"github.com/vfg2006/retail-dashboard-api/internal/api/handler"
	"github.com/vfg2006/retail-dashboard-api/internal/config"
	"github.com/vfg2006/retail-dashboard-api/internal/metrics"
	"github.com/vfg2006/retail-dashboard-api/internal/scheduler"
	"github.com/vfg2006/retail-dashboard-api/internal/usecases/authenticating"
	"github.com/vfg2006/retail-dashboard-api/internal/usecases/reporting"
	"github.com/vfg2006/retail-dashboard-api/pkg/log"
)

func main() {
	chdirToSource()

	cfg, err := config.NewConfig()
	if err != nil {
		log.L.Fatal(err)
	}

	logLevel := log.Configure(cfg.App.LogLevel)
	log.L.Infof("Nível de log configurado para: %s", logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pgConn := pgconn(ctx, cfg.Database)
	defer pgConn.Close()

	userRepo := repository.NewUserRepository(pgConn)
	orderRepo := repository.NewOrderRepository(pgConn)
	appointmentRepo := repository.NewAppointmentRepository(pgConn)
	adSpendRepo := repository.NewAdSpendRepository(pgConn)
	analyticsRepo := repository.NewAnalyticsRepository(pgConn)

	appMetrics := metrics.NewMetrics(metrics.Namespace)

	authenticator := authenticating.NewService(userRepo, cfg)
	reportService := reporting.NewService(cfg, orderRepo, appointmentRepo, adSpendRepo, analyticsRepo, appMetrics)

	metaClient := metaclient.NewClient(cfg)
	metaIntegrator := meta.New(cfg, metaClient)

	adSpendSyncService := scheduler.NewAdSpendSyncService(adSpendRepo, metaIntegrator, appMetrics, cfg)
	if err := adSpendSyncService.Start(ctx); err != nil {
		log.L.WithError(err).Error("Erro ao iniciar o agendador de sincronização de gasto em anúncios")
	} else {
		log.L.Info("Agendador de sincronização de gasto em anúncios iniciado")
	}

	server, err := api.New(
		cfg,
		authenticator,
		reportService,
		handler.CronJobServices{AdSpendSync: adSpendSyncService},
		appMetrics,
	)
	if err != nil {
		log.L.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		log.L.Error(err)
	}
}

// chdirToSource permite encontrar o .env quando rodado com go run de outro diretório
func chdirToSource() {
	_, file, _, _ := runtime.Caller(0)
	dir := path.Dir(file)
	os.Chdir(dir)
}

// pgconn cria uma conexão com o banco de dados
func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		log.L.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}

	err = conn.Ping(ctx)
	if err != nil {
		log.L.WithError(err).Fatal("Erro ao testar conexão com PostgreSQL")
	}

	log.L.Info("Conexão com PostgreSQL estabelecida com sucesso")
	return conn
}
