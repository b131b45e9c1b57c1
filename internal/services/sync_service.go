package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/grupolocar/locar-api/internal/logging"
	"github.com/grupolocar/locar-api/internal/models"
	"github.com/grupolocar/locar-api/internal/observability"
	"github.com/grupolocar/locar-api/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// TimestampField is the freshness signal compared between the two stores
const TimestampField = "data_envio_local"

// EmployeeSyncService copies newer intake records into the operational collection,
// correlating them by CPF and comparing data_envio_local
type EmployeeSyncService struct {
	settings  SyncSettings
	connector SyncConnector
	logger    *logging.SafeLogger
	now       func() time.Time
}

// NewEmployeeSyncService creates the CPF synchronizer
func NewEmployeeSyncService(settings SyncSettings, connector SyncConnector, logger *logging.SafeLogger) *EmployeeSyncService {
	return &EmployeeSyncService{
		settings:  settings,
		connector: connector,
		logger:    logger.Named("employee_sync"),
		now:       time.Now,
	}
}

// Run performs one synchronization. Writes are not transactional: when an upsert fails,
// the documents written before it stay committed, the rest are not attempted, and the
// report returned with the error tells how far the run got.
func (s *EmployeeSyncService) Run(ctx context.Context) (report *models.SyncReport, err error) {
	report = &models.SyncReport{Mode: models.SyncModeCPF, StartedAt: s.now()}
	ctx, _, finishSpan := utils.TraceSyncRun(ctx, models.SyncModeCPF)
	defer func() {
		report.FinishedAt = s.now()
		recordSyncOutcome(report, err)
		finishSpan(err)
	}()

	if strings.TrimSpace(s.settings.RemoteURI) == "" {
		return report, models.ErrMissingRemoteURI
	}
	if strings.TrimSpace(s.settings.LocalURI) == "" {
		return report, models.ErrMissingLocalURI
	}

	if s.settings.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.settings.Timeout)
		defer cancel()
	}

	s.logger.Info("starting employee synchronization")

	remote, err := s.connector.OpenRemote(ctx, s.settings.RemoteURI)
	if err != nil {
		s.logger.Error("failed to open remote store", zap.Error(err))
		return report, err
	}
	defer closeStore(s.logger, "remote", remote.Close)

	local, err := s.connector.OpenLocal(ctx, s.settings.LocalURI)
	if err != nil {
		s.logger.Error("failed to open local store", zap.Error(err))
		return report, err
	}
	defer closeStore(s.logger, "local", local.Close)

	stamps, err := local.Stamps(ctx)
	if err != nil {
		s.logger.Error("failed to read local timestamps", zap.Error(err))
		return report, err
	}
	report.LocalCount = len(stamps)
	localIndex := indexStamps(stamps)

	remoteDocs, err := remote.All(ctx)
	if err != nil {
		s.logger.Error("failed to read remote employees", zap.Error(err))
		return report, err
	}
	report.RemoteCount = len(remoteDocs)

	pending := selectPending(remoteDocs, localIndex)
	report.Pending = len(pending)
	s.logger.Info("computed pending employees",
		zap.Int("remote", report.RemoteCount),
		zap.Int("local", report.LocalCount),
		zap.Int("pending", report.Pending))

	if len(pending) == 0 {
		report.AlreadySynchronized = true
		s.logger.Info("employees already synchronized")
		return report, nil
	}

	if s.settings.ExportDir != "" {
		file, exportErr := exportPending(s.settings.ExportDir, pending, report.StartedAt)
		if exportErr != nil {
			s.logger.Warn("failed to export pending employees", zap.Error(exportErr))
		} else {
			report.ExportFile = file
		}
	}

	for _, doc := range pending {
		inserted, err := local.UpsertByCPF(ctx, doc)
		if err != nil {
			s.logger.Error("failed to upsert employee, aborting remaining batch",
				zap.String("cpf", observability.MaskCPF(cpfKey(doc["cpf"]))),
				zap.Int("written", report.Written),
				zap.Int("not_attempted", report.Pending-report.Written),
				zap.Error(err))
			return report, fmt.Errorf("failed to upsert employee %d of %d: %w", report.Written+1, report.Pending, err)
		}
		report.Written++
		if inserted {
			report.Inserted++
		} else {
			report.Updated++
		}
	}

	s.logger.Info("employee synchronization finished",
		zap.Int("written", report.Written),
		zap.Int("inserted", report.Inserted),
		zap.Int("updated", report.Updated))
	return report, nil
}

// indexStamps maps cpf to local timestamp; for duplicate CPFs the last one read wins
func indexStamps(stamps []LocalStamp) map[string]interface{} {
	index := make(map[string]interface{}, len(stamps))
	for _, stamp := range stamps {
		index[cpfKey(stamp.CPF)] = stamp.Timestamp
	}
	return index
}

// selectPending keeps remote documents that are absent locally, whose local timestamp is
// missing, or whose remote timestamp is strictly newer. An unparseable remote timestamp
// is never newer than a present local one.
func selectPending(remoteDocs []bson.M, localIndex map[string]interface{}) []bson.M {
	var pending []bson.M
	for _, doc := range remoteDocs {
		localStamp, found := localIndex[cpfKey(doc["cpf"])]
		if !found {
			pending = append(pending, doc)
			continue
		}
		localTime, localOK := utils.ParseFlexibleTime(localStamp)
		if !localOK {
			pending = append(pending, doc)
			continue
		}
		remoteTime, remoteOK := utils.ParseFlexibleTime(doc[TimestampField])
		if remoteOK && remoteTime.After(localTime) {
			pending = append(pending, doc)
		}
	}
	return pending
}

// cpfKey renders a CPF value as stored, without normalizing masks
func cpfKey(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// exportPending writes the pending documents as relaxed Extended JSON for auditing
func exportPending(dir string, pending []bson.M, at time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	items := make([]json.RawMessage, 0, len(pending))
	for _, doc := range pending {
		data, err := bson.MarshalExtJSON(doc, false, false)
		if err != nil {
			return "", fmt.Errorf("failed to encode pending employee: %w", err)
		}
		items = append(items, data)
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode export: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("sync_diffs_%s.json", at.Format("2006-01-02_15-04-05")))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}
	return path, nil
}

func closeStore(logger *logging.SafeLogger, side string, closeFn func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := closeFn(ctx); err != nil {
		logger.Warn("failed to close store", zap.String("side", side), zap.Error(err))
	}
}

func recordSyncOutcome(report *models.SyncReport, err error) {
	outcome := "success"
	switch {
	case err != nil:
		outcome = "error"
	case report.AlreadySynchronized:
		outcome = "noop"
	}
	observability.SyncRuns.WithLabelValues(report.Mode, outcome).Inc()
	observability.SyncRecords.WithLabelValues(report.Mode, "inserted").Add(float64(report.Inserted))
	observability.SyncRecords.WithLabelValues(report.Mode, "updated").Add(float64(report.Updated))
	observability.SyncDuration.WithLabelValues(report.Mode).Observe(report.Duration().Seconds())
}
