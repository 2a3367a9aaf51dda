package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-manager-api/infrastructure/repository"
	"github.com/vfg2006/sales-manager-api/internal/config"
	"github.com/vfg2006/sales-manager-api/internal/domain"
	"github.com/vfg2006/sales-manager-api/internal/usecases/reporting"
)

// ReportSnapshotSyncConfig representa a configuração do agendador de snapshots
type ReportSnapshotSyncConfig struct {
	CronSchedule string
	LookbackDays int
	SyncEnabled  bool
}

// ReportSnapshotSyncService pré-calcula os totais diários de vendas e
// compras e os grava em report_snapshots, um registro por (tipo, dia)
type ReportSnapshotSyncService struct {
	scheduler           *gocron.Scheduler
	config              ReportSnapshotSyncConfig
	saleRepo            repository.RecordRepository
	purchaseRepo        repository.RecordRepository
	snapshotRepo        repository.ReportSnapshotRepository
	syncRunning         bool
	syncMutex           sync.Mutex
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
}

// SyncStatus é o retrato do agendador exposto pelo endpoint de cron
type SyncStatus struct {
	Enabled             bool       `json:"enabled"`
	CronSchedule        string     `json:"cron_schedule"`
	Running             bool       `json:"running"`
	LastSyncStartedAt   *time.Time `json:"last_sync_started_at,omitempty"`
	LastSyncCompletedAt *time.Time `json:"last_sync_completed_at,omitempty"`
}

func NewReportSnapshotSyncService(
	saleRepo repository.RecordRepository,
	purchaseRepo repository.RecordRepository,
	snapshotRepo repository.ReportSnapshotRepository,
	appConfig *config.Config,
) *ReportSnapshotSyncService {
	syncConfig := ReportSnapshotSyncConfig{
		CronSchedule: appConfig.ReportSnapshotSync.CronSchedule,
		LookbackDays: appConfig.ReportSnapshotSync.LookbackDays,
		SyncEnabled:  appConfig.ReportSnapshotSync.Enabled,
	}

	scheduler := gocron.NewScheduler(time.UTC)

	logrus.WithFields(logrus.Fields{
		"cron_schedule": syncConfig.CronSchedule,
		"lookback_days": syncConfig.LookbackDays,
		"sync_enabled":  syncConfig.SyncEnabled,
	}).Info("Configuração do agendador de snapshots de relatório carregada")

	return &ReportSnapshotSyncService{
		scheduler:    scheduler,
		config:       syncConfig,
		saleRepo:     saleRepo,
		purchaseRepo: purchaseRepo,
		snapshotRepo: snapshotRepo,
	}
}

// Start inicia o agendador
func (s *ReportSnapshotSyncService) Start(ctx context.Context) error {
	if !s.config.SyncEnabled {
		logrus.Info("Sincronização de snapshots de relatório desabilitada por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando agendador de snapshots de relatório")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		s.syncAllSnapshots()
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar sincronização de snapshots: %w", err)
	}

	s.scheduler.StartAsync()

	// Para o agendador quando o contexto da aplicação for cancelado
	go func() {
		<-ctx.Done()
		logrus.Info("Parando agendador de snapshots de relatório")
		s.scheduler.Stop()
	}()

	return nil
}

// RunNow dispara uma sincronização imediata, fora do cron
func (s *ReportSnapshotSyncService) RunNow() {
	go s.syncAllSnapshots()
}

// Status retorna o estado atual do agendador
func (s *ReportSnapshotSyncService) Status() SyncStatus {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	status := SyncStatus{
		Enabled:      s.config.SyncEnabled,
		CronSchedule: s.config.CronSchedule,
		Running:      s.syncRunning,
	}

	if !s.lastSyncStartedAt.IsZero() {
		startedAt := s.lastSyncStartedAt
		status.LastSyncStartedAt = &startedAt
	}
	if !s.lastSyncCompletedAt.IsZero() {
		completedAt := s.lastSyncCompletedAt
		status.LastSyncCompletedAt = &completedAt
	}

	return status
}

func (s *ReportSnapshotSyncService) syncAllSnapshots() {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Sincronização de snapshots já em andamento, ignorando")
		return
	}
	s.syncRunning = true
	s.lastSyncStartedAt = time.Now()
	s.syncMutex.Unlock()

	defer func() {
		s.syncMutex.Lock()
		s.syncRunning = false
		s.lastSyncCompletedAt = time.Now()
		s.syncMutex.Unlock()
	}()

	logrus.WithField("lookback_days", s.config.LookbackDays).Info("Iniciando sincronização de snapshots de relatório")

	kinds := map[string]repository.RecordRepository{
		domain.RecordKindSale:     s.saleRepo,
		domain.RecordKindPurchase: s.purchaseRepo,
	}

	for kind, repo := range kinds {
		if err := s.syncKind(kind, repo); err != nil {
			logrus.WithError(err).WithField("kind", kind).Error("Erro ao sincronizar snapshots")
		}
	}

	logrus.Info("Sincronização de snapshots de relatório concluída")
}

// syncKind agrega os registros do tipo por dia e grava os totais do
// período de lookback
func (s *ReportSnapshotSyncService) syncKind(kind string, repo repository.RecordRepository) error {
	records, err := repo.List(domain.RecordScope{All: true})
	if err != nil {
		return fmt.Errorf("erro ao listar registros: %w", err)
	}

	filters := domain.ReportFilters{
		Bucket:  domain.BucketDay,
		Seller:  domain.FilterAll,
		Product: domain.FilterAll,
	}
	result := reporting.Aggregate(records, filters)

	cutoff := time.Now().UTC().AddDate(0, 0, -s.config.LookbackDays)
	saved := 0

	for i, label := range result.Labels {
		day, err := time.Parse(time.DateOnly, label)
		if err != nil {
			// Com bucket diário o rótulo é sempre uma data ISO
			continue
		}

		if day.Before(cutoff) {
			continue
		}

		snapshot := &domain.ReportSnapshot{
			Kind:  kind,
			Date:  day,
			Label: label,
			Total: result.Sums[i],
		}

		if err := s.snapshotRepo.SaveOrUpdate(snapshot); err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"kind": kind,
				"date": label,
			}).Error("Erro ao salvar snapshot diário")
			continue
		}
		saved++
	}

	logrus.WithFields(logrus.Fields{
		"kind":  kind,
		"saved": saved,
	}).Info("Snapshots diários sincronizados")

	return nil
}
