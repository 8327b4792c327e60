package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"timetable-export/internal/domain"
	"timetable-export/internal/export"
	"timetable-export/internal/logger"
	"timetable-export/internal/metrics"
	"timetable-export/internal/schedule"
	"timetable-export/internal/store"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrBusy         = errors.New("generation already in progress")
)

// AssignmentSource produces the finalized record set for one export.
// The pipeline treats the result as immutable and never re-queries
// the source mid-run.
type AssignmentSource interface {
	Generate(ctx context.Context) ([]domain.Assignment, error)
}

// ExportService runs the full export pipeline: fetch records, sort
// canonically, build the partitioned archive, publish the artifact.
type ExportService struct {
	source       AssignmentSource
	artifacts    store.ArtifactStore
	emitter      *export.Emitter
	masterLayout string
	timeout      time.Duration

	log   logger.Logger
	sink  metrics.Recorder
	clock func() time.Time

	// One generation at a time; a second concurrent run is rejected
	// rather than interleaved.
	running atomic.Bool
}

func NewExportService(
	source AssignmentSource,
	artifacts store.ArtifactStore,
	layout export.LayoutConfig,
	timeout time.Duration,
	log logger.Logger,
	sink metrics.Recorder,
) *ExportService {
	if log == nil {
		log = logger.NopLogger{}
	}
	if sink == nil {
		sink = metrics.NopSink{}
	}
	return &ExportService{
		source:       source,
		artifacts:    artifacts,
		emitter:      export.NewEmitter(layout),
		masterLayout: layout.MasterLayout,
		timeout:      timeout,
		log:          log,
		sink:         sink,
		clock:        time.Now,
	}
}

// Generate runs one full pipeline pass and stores the resulting
// archive. It fails closed: a stalled source is cut off by the
// configured timeout instead of hanging the request.
func (s *ExportService) Generate(ctx context.Context) (store.Artifact, error) {
	if !s.running.CompareAndSwap(false, true) {
		return store.Artifact{}, ErrBusy
	}
	defer s.running.Store(false)

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := s.clock()
	records, err := s.source.Generate(ctx)
	if err != nil {
		s.sink.RecordGeneration(false, s.clock().Sub(start), 0, 0)
		return store.Artifact{}, fmt.Errorf("generate assignments: %w", err)
	}

	sorted := schedule.SortCanonical(records)
	s.logBadSections(sorted)

	data, files, err := export.BuildArchive(sorted, s.emitter, s.masterLayout)
	if err != nil {
		s.sink.RecordGeneration(false, s.clock().Sub(start), len(sorted), 0)
		return store.Artifact{}, fmt.Errorf("build archive: %w", err)
	}

	elapsed := s.clock().Sub(start)
	artifact := store.Artifact{
		ID:               uuid.New(),
		CreatedAt:        s.clock(),
		TotalAssignments: len(sorted),
		TotalFiles:       files,
		GenerationTime:   elapsed,
		Data:             data,
	}
	if err := s.artifacts.Put(ctx, artifact); err != nil {
		s.sink.RecordGeneration(false, elapsed, len(sorted), files)
		return store.Artifact{}, fmt.Errorf("store artifact: %w", err)
	}

	s.sink.RecordGeneration(true, elapsed, len(sorted), files)
	s.log.Infof("generation %s complete: %d assignments, %d files, %.2fs",
		artifact.ID, len(sorted), files, elapsed.Seconds())
	return artifact, nil
}

// logBadSections surfaces malformed section ids server-side without
// changing the output: the pipeline still coerces them to the zero
// key for robustness.
func (s *ExportService) logBadSections(records []domain.Assignment) {
	bad := 0
	for _, rec := range records {
		if _, err := schedule.ParseSectionStrict(rec.SectionID); err != nil {
			bad++
		}
	}
	if bad > 0 {
		s.log.Warnf("%d of %d assignments have unparseable section ids", bad, len(records))
	}
}

// Latest returns the most recently generated archive.
func (s *ExportService) Latest(ctx context.Context) (store.Artifact, error) {
	artifact, err := s.artifacts.Latest(ctx)
	if errors.Is(err, store.ErrNoArtifact) {
		return store.Artifact{}, ErrNotFound
	}
	return artifact, err
}

// Get returns one archive from the content-addressed store.
func (s *ExportService) Get(ctx context.Context, id string) (store.Artifact, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return store.Artifact{}, ErrInvalidInput
	}
	artifact, err := s.artifacts.Get(ctx, parsed)
	if errors.Is(err, store.ErrNoArtifact) {
		return store.Artifact{}, ErrNotFound
	}
	return artifact, err
}
