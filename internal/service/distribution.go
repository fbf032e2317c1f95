package service

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"time"

	"amc_simulator/internal/export"
	"amc_simulator/internal/logger"
	"amc_simulator/internal/models"
	"amc_simulator/internal/repository"
)

// Archiver stores export files; implemented by storage.Archive.
type Archiver interface {
	EnsureBucket(ctx context.Context) error
	Put(ctx context.Context, key, contentType string, data []byte) error
	PresignedURL(ctx context.Context, key string) (string, time.Time, error)
	Bucket() string
}

// RecordPublisher streams records to a broker; implemented by mqtt.Publisher.
type RecordPublisher interface {
	PublishRun(ctx context.Context, runID string, recs []models.SensorRecord) (int, error)
	Topic(runID string) string
}

type DistributionService struct {
	runRepo   repository.RunRepo
	eventRepo repository.EventRepo
	archive   Archiver
	publisher RecordPublisher
	log       *logger.Logger
}

// NewDistributionService accepts nil archive or publisher; the matching
// operations then fail with ErrFeatureDisabled.
func NewDistributionService(
	runRepo repository.RunRepo,
	eventRepo repository.EventRepo,
	archive Archiver,
	publisher RecordPublisher,
	log *logger.Logger,
) *DistributionService {
	return &DistributionService{
		runRepo:   runRepo,
		eventRepo: eventRepo,
		archive:   archive,
		publisher: publisher,
		log:       log,
	}
}

func (s *DistributionService) load(ctx context.Context, runID string) (models.Run, []models.SensorRecord, error) {
	run, err := s.runRepo.Get(ctx, runID)
	if err != nil {
		return models.Run{}, nil, err
	}
	recs, err := s.runRepo.Records(ctx, runID, 0, 0)
	if err != nil {
		return models.Run{}, nil, err
	}
	return run, recs, nil
}

func (s *DistributionService) render(ctx context.Context, runID string, f export.Format) (models.Run, ExportFile, error) {
	run, recs, err := s.load(ctx, runID)
	if err != nil {
		return models.Run{}, ExportFile{}, err
	}
	var buf bytes.Buffer
	if err := export.Write(&buf, f, run, recs); err != nil {
		return models.Run{}, ExportFile{}, fmt.Errorf("render %s: %w", f, err)
	}
	return run, ExportFile{
		Name:        export.FileName(f, run.CreatedAt),
		ContentType: f.ContentType(),
		Data:        buf.Bytes(),
	}, nil
}

// Export renders a run in format f.
func (s *DistributionService) Export(ctx context.Context, runID string, f export.Format) (ExportFile, error) {
	run, file, err := s.render(ctx, runID, f)
	if err != nil {
		return ExportFile{}, err
	}
	s.appendEvent(ctx, models.RunEvent{
		Type:        models.EventExport,
		RunID:       run.ID,
		Description: "exported " + file.Name,
		Metadata:    map[string]any{"format": f, "bytes": len(file.Data)},
	})
	return file, nil
}

// ObjectKey is where an export of runID is archived.
func ObjectKey(runID string, file ExportFile) string {
	return path.Join("runs", runID, file.Name)
}

// Archive uploads an export to object storage and returns a download link.
func (s *DistributionService) Archive(ctx context.Context, runID string, f export.Format) (ArchiveResult, error) {
	if s.archive == nil {
		return ArchiveResult{}, fmt.Errorf("archive: %w", ErrFeatureDisabled)
	}
	run, file, err := s.render(ctx, runID, f)
	if err != nil {
		return ArchiveResult{}, err
	}

	key := ObjectKey(run.ID, file)
	if err := s.archive.EnsureBucket(ctx); err != nil {
		return ArchiveResult{}, s.fail(ctx, run.ID, "archive", err)
	}
	if err := s.archive.Put(ctx, key, file.ContentType, file.Data); err != nil {
		return ArchiveResult{}, s.fail(ctx, run.ID, "archive", err)
	}
	url, expires, err := s.archive.PresignedURL(ctx, key)
	if err != nil {
		return ArchiveResult{}, s.fail(ctx, run.ID, "archive", err)
	}

	s.appendEvent(ctx, models.RunEvent{
		Type:        models.EventArchive,
		RunID:       run.ID,
		Description: "archived " + key,
		Metadata:    map[string]any{"bucket": s.archive.Bucket(), "key": key, "bytes": len(file.Data)},
	})
	return ArchiveResult{RunID: run.ID, Bucket: s.archive.Bucket(), Key: key, URL: url, ExpiresAt: expires}, nil
}

// Publish sends every record of a run to the broker, one message each.
func (s *DistributionService) Publish(ctx context.Context, runID string) (PublishResult, error) {
	if s.publisher == nil {
		return PublishResult{}, fmt.Errorf("publish: %w", ErrFeatureDisabled)
	}
	run, recs, err := s.load(ctx, runID)
	if err != nil {
		return PublishResult{}, err
	}

	n, err := s.publisher.PublishRun(ctx, run.ID, recs)
	res := PublishResult{RunID: run.ID, Topic: s.publisher.Topic(run.ID), Published: n}
	if err != nil {
		return res, s.fail(ctx, run.ID, "publish", fmt.Errorf("after %d of %d records: %w", n, len(recs), err))
	}

	s.appendEvent(ctx, models.RunEvent{
		Type:        models.EventPublish,
		RunID:       run.ID,
		Description: fmt.Sprintf("published %d records", n),
		Metadata:    map[string]any{"topic": res.Topic},
	})
	return res, nil
}

// fail records an ERROR event for op and returns err wrapped.
func (s *DistributionService) fail(ctx context.Context, runID, op string, err error) error {
	s.appendEvent(ctx, models.RunEvent{
		Type:        models.EventError,
		RunID:       runID,
		Description: op + " failed",
		Metadata:    map[string]any{"err": err.Error()},
	})
	return fmt.Errorf("%s run %s: %w", op, runID, err)
}

func (s *DistributionService) appendEvent(ctx context.Context, e models.RunEvent) {
	if err := s.eventRepo.Append(ctx, e); err != nil {
		s.log.Errorw("event_append_failed", "type", e.Type, "run_id", e.RunID, "err", err)
	}
}
