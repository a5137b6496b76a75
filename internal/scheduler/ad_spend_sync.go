package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/vfg2006/retail-dashboard-api/infrastructure/integrator/meta"
	"github.com/vfg2006/retail-dashboard-api/infrastructure/repository"
	"github.com/vfg2006/retail-dashboard-api/internal/config"
	"github.com/vfg2006/retail-dashboard-api/internal/domain"
	"github.com/vfg2006/retail-dashboard-api/internal/metrics"
	"github.com/vfg2006/retail-dashboard-api/pkg/log"
	"github.com/vfg2006/retail-dashboard-api/pkg/utils"
)

const (
	SyncStatusSuccess = "success"
	SyncStatusError   = "error"
)

var ErrSyncRunning = errors.New("sincronização já em andamento")

// AdSpendSyncConfig representa a configuração do agendador de gasto em anúncios
type AdSpendSyncConfig struct {
	CronSchedule string
	LookbackDays int
	SyncEnabled  bool
}

// AdSpendSyncService busca o gasto diário por campanha no Meta e grava em ad_spend.
// É o único escritor da tabela; duas execuções nunca se sobrepõem.
type AdSpendSyncService struct {
	scheduler   *gocron.Scheduler
	config      AdSpendSyncConfig
	adSpendRepo repository.AdSpendRepository
	integrator  meta.Integrator
	metrics     *metrics.Metrics
	location    *time.Location
	now         func() time.Time
	baseCtx     context.Context

	syncRunning         bool
	syncMutex           sync.Mutex
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
	lastRunID           string
	lastRecords         int
	lastError           string
}

func NewAdSpendSyncService(
	adSpendRepo repository.AdSpendRepository,
	integrator meta.Integrator,
	m *metrics.Metrics,
	appConfig *config.Config,
) *AdSpendSyncService {
	syncConfig := AdSpendSyncConfig{
		CronSchedule: appConfig.AdSpendSync.CronSchedule,
		LookbackDays: appConfig.AdSpendSync.LookbackDays,
		SyncEnabled:  appConfig.AdSpendSync.Enabled,
	}
	if syncConfig.LookbackDays < 1 {
		syncConfig.LookbackDays = 1
	}

	location := appConfig.Report.Location
	if location == nil {
		location = time.UTC
	}

	log.L.WithFields(log.Fields{
		"cron_schedule": syncConfig.CronSchedule,
		"lookback_days": syncConfig.LookbackDays,
		"sync_enabled":  syncConfig.SyncEnabled,
	}).Info("Configuração do agendador de gasto em anúncios carregada")

	return &AdSpendSyncService{
		scheduler:   gocron.NewScheduler(location),
		config:      syncConfig,
		adSpendRepo: adSpendRepo,
		integrator:  integrator,
		metrics:     m,
		location:    location,
		now:         time.Now,
		baseCtx:     context.Background(),
	}
}

// Start agenda a sincronização. O contexto também é usado pelas execuções manuais.
func (s *AdSpendSyncService) Start(ctx context.Context) error {
	s.syncMutex.Lock()
	s.baseCtx = ctx
	s.syncMutex.Unlock()

	if !s.config.SyncEnabled {
		log.L.Info("Sincronização de gasto em anúncios desabilitada por configuração")
		return nil
	}

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		if err := s.SyncAdSpend(ctx); err != nil && !errors.Is(err, ErrSyncRunning) {
			log.L.WithError(err).Error("Erro na sincronização agendada de gasto em anúncios")
		}
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar sincronização de gasto em anúncios: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		log.L.Info("Parando agendador de sincronização de gasto em anúncios")
		s.scheduler.Stop()
	}()

	return nil
}

func (s *AdSpendSyncService) tryStart() bool {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	if s.syncRunning {
		return false
	}
	s.syncRunning = true
	s.lastSyncStartedAt = s.now()
	return true
}

// SyncAdSpend executa uma sincronização de forma síncrona
func (s *AdSpendSyncService) SyncAdSpend(ctx context.Context) error {
	if !s.tryStart() {
		log.L.Info("Sincronização de gasto em anúncios já em andamento, ignorando")
		return ErrSyncRunning
	}
	return s.run(ctx)
}

// TriggerManualSync dispara a sincronização em background. Devolve false quando já há uma em andamento.
func (s *AdSpendSyncService) TriggerManualSync() bool {
	if !s.tryStart() {
		log.L.Info("Sincronização de gasto em anúncios já em andamento, ignorando solicitação manual")
		return false
	}

	s.syncMutex.Lock()
	ctx := s.baseCtx
	s.syncMutex.Unlock()

	log.L.Info("Iniciando sincronização manual de gasto em anúncios")
	go func() {
		_ = s.run(ctx)
	}()
	return true
}

// Window devolve os dias sincronizados: de ontem até LookbackDays para trás
func (s *AdSpendSyncService) Window() (time.Time, time.Time) {
	today := domain.TruncateDay(s.now().In(s.location))
	return today.AddDate(0, 0, -s.config.LookbackDays), today.AddDate(0, 0, -1)
}

func (s *AdSpendSyncService) run(ctx context.Context) error {
	runID, err := utils.GenerateID()
	if err != nil {
		runID = "unknown"
	}

	startTime := s.now()
	since, until := s.Window()
	logger := log.ForContext(ctx).WithFields(log.Fields{
		"run_id":     runID,
		"start_date": since.Format(time.DateOnly),
		"end_date":   until.Format(time.DateOnly),
	})

	logger.Info("Iniciando sincronização de gasto em anúncios")

	records, upserted, err := s.sync(ctx, since, until)

	s.syncMutex.Lock()
	s.syncRunning = false
	s.lastRunID = runID
	s.lastSyncCompletedAt = s.now()
	s.lastRecords = upserted
	s.lastError = ""
	if err != nil {
		s.lastError = err.Error()
	}
	s.syncMutex.Unlock()

	if err != nil {
		s.metrics.RecordAdSpendSync(SyncStatusError, 0)
		logger.WithError(err).Error("Sincronização de gasto em anúncios falhou")
		return err
	}

	s.metrics.RecordAdSpendSync(SyncStatusSuccess, upserted)
	logger.WithFields(log.Fields{
		"records":  records,
		"upserted": upserted,
		"duration": s.now().Sub(startTime).String(),
	}).Info("Sincronização de gasto em anúncios concluída")

	return nil
}

func (s *AdSpendSyncService) sync(ctx context.Context, since, until time.Time) (int, int, error) {
	records, err := s.integrator.GetDailyAdSpend(ctx, since, until)
	if err != nil {
		return 0, 0, fmt.Errorf("erro ao buscar gasto no Meta: %w", err)
	}

	if len(records) == 0 {
		return 0, 0, nil
	}

	upserted, err := s.adSpendRepo.UpsertDaily(ctx, records)
	if err != nil {
		return len(records), 0, fmt.Errorf("erro ao gravar gasto em anúncios: %w", err)
	}

	return len(records), upserted, nil
}

// GetStatus retorna o status atual do agendador
func (s *AdSpendSyncService) GetStatus() map[string]any {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	return map[string]any{
		"sync_enabled":           s.config.SyncEnabled,
		"sync_cron":              s.config.CronSchedule,
		"sync_lookback_days":     s.config.LookbackDays,
		"sync_running":           s.syncRunning,
		"last_run_id":            s.lastRunID,
		"last_records_upserted":  s.lastRecords,
		"last_error":             s.lastError,
		"last_sync_started_at":   s.lastSyncStartedAt,
		"last_sync_completed_at": s.lastSyncCompletedAt,
	}
}
