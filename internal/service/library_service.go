package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/courseshelf/courseshelf/internal/models"
	"github.com/courseshelf/courseshelf/internal/scanner"
	appErrors "github.com/courseshelf/courseshelf/pkg/errors"
	"github.com/courseshelf/courseshelf/pkg/jobs"
)

const coursesCacheKey = "library:courses"

type courseRegistry interface {
	Load(ctx context.Context) []models.StoredCourse
	Add(ctx context.Context, candidates []models.StoredCourse) (added, duplicates int, err error)
	Find(ctx context.Context, id string) (*models.StoredCourse, error)
	Remove(ctx context.Context, id string) error
}

type courseAnalyzer interface {
	AnalyzeSingleCourse(path string) *models.StoredCourse
	AnalyzeMultipleCourses(path string) models.DetectionResult
}

type courseScanner interface {
	ScanAll(stored []models.StoredCourse) ([]models.Course, scanner.ScanReport)
}

type scanCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Invalidate(ctx context.Context, key string)
}

// GrantReleaser gives back a platform-level persistent folder-access
// grant. On platforms without such grants the no-op implementation is
// wired in.
type GrantReleaser interface {
	Release(ctx context.Context, folderPath string) error
}

// NopGrantReleaser is the GrantReleaser for platforms without persistent
// access grants.
type NopGrantReleaser struct{}

// Release does nothing.
func (NopGrantReleaser) Release(ctx context.Context, folderPath string) error { return nil }

// ImportRequest carries the user-picked folder for an import action. The
// picker itself lives in the client; the service only consumes the path.
type ImportRequest struct {
	Path string `json:"path" validate:"required"`
}

// RescanJob identifies a queued background library refresh.
type RescanJob struct {
	JobID string `json:"job_id"`
}

// LibraryService orchestrates the course library: imports, scans,
// removal, and the background rescan queue.
type LibraryService struct {
	registry  courseRegistry
	analyzer  courseAnalyzer
	scanner   courseScanner
	cache     scanCache
	grants    GrantReleaser
	validator *validator.Validate
	logger    *zap.Logger
	metrics   *MetricsService

	cacheTTL time.Duration
	queue    *jobs.Queue
}

// LibraryServiceConfig tunes caching and the rescan queue.
type LibraryServiceConfig struct {
	CacheTTL        time.Duration
	RescanQueueSize int
	RescanRetry     time.Duration
}

// NewLibraryService wires the library service. A nil cache, grants,
// validator, logger or metrics falls back to a safe default.
func NewLibraryService(
	registry courseRegistry,
	analyzer courseAnalyzer,
	scan courseScanner,
	cache scanCache,
	grants GrantReleaser,
	validate *validator.Validate,
	logger *zap.Logger,
	metrics *MetricsService,
	cfg LibraryServiceConfig,
) *LibraryService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if grants == nil {
		grants = NopGrantReleaser{}
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}

	s := &LibraryService{
		registry:  registry,
		analyzer:  analyzer,
		scanner:   scan,
		cache:     cache,
		grants:    grants,
		validator: validate,
		logger:    logger,
		metrics:   metrics,
		cacheTTL:  cfg.CacheTTL,
	}
	s.queue = jobs.NewQueue("rescan", s.handleRescan, jobs.QueueConfig{
		BufferSize: cfg.RescanQueueSize,
		RetryDelay: cfg.RescanRetry,
		Logger:     logger,
	})
	return s
}

// Start launches the background rescan worker.
func (s *LibraryService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the rescan worker.
func (s *LibraryService) Stop() {
	s.queue.Stop()
}

// ImportCourse registers the picked folder as exactly one course,
// whatever its internal shape.
func (s *LibraryService) ImportCourse(ctx context.Context, req ImportRequest) (models.ImportResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.ImportResult{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid import payload")
	}

	course := s.analyzer.AnalyzeSingleCourse(req.Path)
	if course == nil {
		return models.ImportResult{NoCoursesFound: true}, nil
	}
	return s.register(ctx, []models.StoredCourse{*course})
}

// ImportFolder auto-detects whether the picked folder holds one course or
// several and registers whatever was found.
func (s *LibraryService) ImportFolder(ctx context.Context, req ImportRequest) (models.ImportResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.ImportResult{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid import payload")
	}

	detection := s.analyzer.AnalyzeMultipleCourses(req.Path)
	if len(detection.Courses) == 0 {
		return models.ImportResult{NoCoursesFound: true}, nil
	}

	s.logger.Info("folder analyzed",
		zap.String("path", req.Path),
		zap.String("type", string(detection.Type)),
		zap.Int("courses", len(detection.Courses)))

	return s.register(ctx, detection.Courses)
}

// Courses returns the scanned course graph, from cache when fresh.
func (s *LibraryService) Courses(ctx context.Context) ([]models.Course, error) {
	if s.cache != nil {
		var cached []models.Course
		if err := s.cache.Get(ctx, coursesCacheKey, &cached); err == nil {
			return cached, nil
		}
	}
	return s.refresh(ctx)
}

// StoredCourses returns the persisted registry records.
func (s *LibraryService) StoredCourses(ctx context.Context) []models.StoredCourse {
	return s.registry.Load(ctx)
}

// RemoveCourse releases the folder's access grant and deletes the
// registry entry. The scanned graph cache is invalidated.
func (s *LibraryService) RemoveCourse(ctx context.Context, id string) error {
	course, err := s.registry.Find(ctx, id)
	if err != nil {
		return err
	}

	if err := s.grants.Release(ctx, course.FolderPath); err != nil {
		// A failed release must not leave the entry stuck in the library.
		s.logger.Warn("failed to release folder access grant",
			zap.String("course_id", id),
			zap.String("path", course.FolderPath),
			zap.Error(err))
	}

	if err := s.registry.Remove(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// Rescan queues a background library refresh and returns its job id.
func (s *LibraryService) Rescan(ctx context.Context) (RescanJob, error) {
	job := jobs.Job{ID: uuid.NewString(), Type: "library_rescan"}
	if err := s.queue.Enqueue(job); err != nil {
		return RescanJob{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to queue rescan")
	}
	return RescanJob{JobID: job.ID}, nil
}

func (s *LibraryService) handleRescan(ctx context.Context, job jobs.Job) error {
	s.logger.Info("rescan started", zap.String("job_id", job.ID))
	_, err := s.refresh(ctx)
	return err
}

// refresh rebuilds the scanned course graph and repopulates the cache.
func (s *LibraryService) refresh(ctx context.Context) ([]models.Course, error) {
	stored := s.registry.Load(ctx)

	start := time.Now()
	courses, report := s.scanner.ScanAll(stored)
	elapsed := time.Since(start)

	if s.metrics != nil {
		s.metrics.ObserveScan(elapsed, report)
	}
	s.logger.Info("library scanned",
		zap.Int("stored", len(stored)),
		zap.Int("scanned", report.Scanned),
		zap.Int("not_found", report.NotFound),
		zap.Int("unreadable", report.Unreadable),
		zap.Int("empty", report.Empty),
		zap.Duration("elapsed", elapsed))

	if s.cache != nil {
		if err := s.cache.Set(ctx, coursesCacheKey, courses, s.cacheTTL); err != nil {
			s.logger.Warn("failed to cache scanned courses", zap.Error(err))
		}
	}
	return courses, nil
}

func (s *LibraryService) register(ctx context.Context, candidates []models.StoredCourse) (models.ImportResult, error) {
	added, duplicates, err := s.registry.Add(ctx, candidates)
	if err != nil {
		return models.ImportResult{}, err
	}
	if s.metrics != nil {
		s.metrics.ObserveImport(added, duplicates)
	}
	if added > 0 {
		s.invalidate(ctx)
	}
	return models.ImportResult{Added: added, Duplicates: duplicates}, nil
}

func (s *LibraryService) invalidate(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, coursesCacheKey)
	}
}
