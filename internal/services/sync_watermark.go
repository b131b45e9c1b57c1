package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/grupolocar/locar-api/internal/logging"
	"github.com/grupolocar/locar-api/internal/models"
	"github.com/grupolocar/locar-api/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// DefaultSyncBatchSize bounds each bulk write of the watermark synchronizer
const DefaultSyncBatchSize = 100

var (
	intakeDateFields       = []string{"dataAdmissao", "dataNascimento", "dataValidadeCNH", "createdAt", "updatedAt"}
	intakeCapitalizeFields = []string{"situacao", "contrato", "banco", "estadoCivil", "categoria"}
)

// WatermarkSyncService streams intake records updated after the stored watermark,
// reshapes them to the camelCase layout and upserts them by _id in bounded batches
type WatermarkSyncService struct {
	settings  SyncSettings
	connector SyncConnector
	logger    *logging.SafeLogger
	now       func() time.Time
}

// NewWatermarkSyncService creates the watermark synchronizer
func NewWatermarkSyncService(settings SyncSettings, connector SyncConnector, logger *logging.SafeLogger) *WatermarkSyncService {
	if settings.BatchSize <= 0 {
		settings.BatchSize = DefaultSyncBatchSize
	}
	return &WatermarkSyncService{
		settings:  settings,
		connector: connector,
		logger:    logger.Named("watermark_sync"),
		now:       time.Now,
	}
}

// Run performs one incremental synchronization. The new watermark is the run start
// time and is stored only after every batch has been written.
func (s *WatermarkSyncService) Run(ctx context.Context) (report *models.SyncReport, err error) {
	startedAt := s.now()
	report = &models.SyncReport{Mode: models.SyncModeWatermark, StartedAt: startedAt}
	ctx, _, finishSpan := utils.TraceSyncRun(ctx, models.SyncModeWatermark)
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

	since, err := local.Watermark(ctx, models.SyncStateKeyEmployees)
	if err != nil {
		return report, err
	}
	report.Watermark = since
	s.logger.Info("starting incremental employee synchronization", zap.Time("since", since))

	cursor, err := remote.UpdatedSince(ctx, since)
	if err != nil {
		return report, err
	}
	defer cursor.Close(ctx)

	batch := make([]bson.M, 0, s.settings.BatchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		inserted, updated, err := local.UpsertByID(ctx, batch)
		report.Inserted += inserted
		report.Updated += updated
		report.Written += inserted + updated
		batch = batch[:0]
		if err != nil {
			return fmt.Errorf("failed to write employee batch: %w", err)
		}
		return nil
	}

	for cursor.Next(ctx) {
		var doc bson.M
		if err := cursor.Decode(&doc); err != nil {
			return report, fmt.Errorf("failed to decode remote employee: %w", err)
		}
		report.RemoteCount++
		report.Pending++
		batch = append(batch, TransformIntakeEmployee(doc))
		if len(batch) >= s.settings.BatchSize {
			if err := flush(); err != nil {
				s.logger.Error("batch write failed, watermark left unchanged", zap.Error(err))
				return report, err
			}
		}
	}
	if err := cursor.Err(); err != nil {
		return report, fmt.Errorf("failed to stream remote employees: %w", err)
	}
	if err := flush(); err != nil {
		s.logger.Error("batch write failed, watermark left unchanged", zap.Error(err))
		return report, err
	}

	if report.Pending == 0 {
		report.AlreadySynchronized = true
	}

	if err := local.SaveWatermark(ctx, models.SyncStateKeyEmployees, startedAt); err != nil {
		return report, err
	}
	report.Watermark = startedAt

	s.logger.Info("incremental employee synchronization finished",
		zap.Int("read", report.RemoteCount),
		zap.Int("inserted", report.Inserted),
		zap.Int("updated", report.Updated))
	return report, nil
}

// TransformIntakeEmployee reshapes an intake document: camelCase keys, the licence
// expiry renamed to dataValidadeCNH, dates parsed (null when absent or unparseable)
// and enumerated fields capitalized
func TransformIntakeEmployee(doc bson.M) bson.M {
	out := utils.CamelizeKeys(doc)

	if v, ok := out["validadeCnh"]; ok {
		if existing, has := out["dataValidadeCNH"]; !has || existing == nil || existing == "" {
			out["dataValidadeCNH"] = v
		}
		delete(out, "validadeCnh")
	}

	for _, field := range intakeDateFields {
		if parsed, ok := utils.ParseFlexibleTime(out[field]); ok {
			out[field] = parsed
		} else {
			out[field] = nil
		}
	}

	for _, field := range intakeCapitalizeFields {
		if s, ok := out[field].(string); ok && s != "" {
			out[field] = utils.CapitalizeFirst(s)
		}
	}
	return out
}
