package repository

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/courseshelf/courseshelf/internal/models"
	"github.com/courseshelf/courseshelf/internal/scanner"
	appErrors "github.com/courseshelf/courseshelf/pkg/errors"
)

const (
	registryKey   = "registry"
	legacyRootKey = "legacy_root"
)

// CourseDetector converts a legacy single-path record into stored courses
// during migration. The folder analyzer satisfies it.
type CourseDetector interface {
	AnalyzeMultipleCourses(path string) models.DetectionResult
}

// CourseRepository is the stored-course registry: the single source of
// truth for which courses exist. It owns the persisted registry document
// and mutates it strictly read-modify-write, whole document at a time.
type CourseRepository struct {
	docs     DocumentStore
	detector CourseDetector
	logger   *zap.Logger

	migrated bool
}

// NewCourseRepository constructs the registry over a document store.
func NewCourseRepository(docs DocumentStore, detector CourseDetector, logger *zap.Logger) *CourseRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseRepository{docs: docs, detector: detector, logger: logger}
}

// Load returns all stored courses. Persistence failures degrade to an
// empty in-memory registry rather than failing the caller; the condition
// is logged and the next successful write heals the document. Loading also
// runs the two one-time upgrade steps: legacy single-path migration and
// icon backfill.
func (r *CourseRepository) Load(ctx context.Context) []models.StoredCourse {
	var doc models.RegistryDocument
	if err := r.docs.Read(ctx, registryKey, &doc); err != nil && !isNotFound(err) {
		r.logger.Error("registry read failed, continuing with empty registry", zap.Error(err))
		return []models.StoredCourse{}
	}

	if len(doc.Courses) == 0 {
		if migratedCourses := r.migrateLegacyRoot(ctx); len(migratedCourses) > 0 {
			doc.Courses = migratedCourses
		}
	}

	if r.backfillIcons(doc.Courses) {
		if err := r.Save(ctx, doc.Courses); err != nil {
			r.logger.Warn("icon backfill rewrite failed", zap.Error(err))
		}
	}

	if doc.Courses == nil {
		doc.Courses = []models.StoredCourse{}
	}
	return doc.Courses
}

// Save replaces the whole registry document.
func (r *CourseRepository) Save(ctx context.Context, courses []models.StoredCourse) error {
	if courses == nil {
		courses = []models.StoredCourse{}
	}
	if err := r.docs.Write(ctx, registryKey, models.RegistryDocument{Courses: courses}); err != nil {
		return appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to save registry")
	}
	return nil
}

// Add inserts candidates whose ids are not yet registered. Candidates that
// collide with an existing id count as duplicates and are skipped; the
// caller uses both counts for user feedback.
func (r *CourseRepository) Add(ctx context.Context, candidates []models.StoredCourse) (added, duplicates int, err error) {
	courses := r.Load(ctx)

	known := make(map[string]struct{}, len(courses))
	for _, c := range courses {
		known[c.ID] = struct{}{}
	}

	for _, candidate := range candidates {
		if _, dup := known[candidate.ID]; dup {
			duplicates++
			continue
		}
		known[candidate.ID] = struct{}{}
		courses = append(courses, candidate)
		added++
	}

	if added > 0 {
		if err := r.Save(ctx, courses); err != nil {
			return 0, 0, err
		}
	}
	return added, duplicates, nil
}

// Find returns the stored course with the given id.
func (r *CourseRepository) Find(ctx context.Context, id string) (*models.StoredCourse, error) {
	for _, c := range r.Load(ctx) {
		if c.ID == id {
			course := c
			return &course, nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
}

// Remove deletes the stored course with the given id.
func (r *CourseRepository) Remove(ctx context.Context, id string) error {
	courses := r.Load(ctx)
	kept := make([]models.StoredCourse, 0, len(courses))
	found := false
	for _, c := range courses {
		if c.ID == id {
			found = true
			continue
		}
		kept = append(kept, c)
	}
	if !found {
		return appErrors.Clone(appErrors.ErrNotFound, "course not found")
	}
	return r.Save(ctx, kept)
}

// migrateLegacyRoot converts the pre-registry single-path record into
// stored courses. It runs at most once: the legacy document is deleted
// after a successful conversion.
func (r *CourseRepository) migrateLegacyRoot(ctx context.Context) []models.StoredCourse {
	if r.migrated || r.detector == nil {
		return nil
	}
	r.migrated = true

	var legacyPath string
	if err := r.docs.Read(ctx, legacyRootKey, &legacyPath); err != nil {
		if !isNotFound(err) {
			r.logger.Warn("legacy root read failed", zap.Error(err))
		}
		return nil
	}
	if legacyPath == "" {
		return nil
	}

	result := r.detector.AnalyzeMultipleCourses(legacyPath)
	r.logger.Info("migrated legacy course root",
		zap.String("path", legacyPath),
		zap.Int("courses", len(result.Courses)))

	if err := r.Save(ctx, result.Courses); err != nil {
		r.logger.Error("failed to persist migrated registry", zap.Error(err))
		return result.Courses
	}
	if err := r.docs.Delete(ctx, legacyRootKey); err != nil {
		r.logger.Warn("failed to delete legacy root record", zap.Error(err))
	}
	return result.Courses
}

// backfillIcons assigns icons to records written before icons existed.
// Idempotent: records with icons are never touched.
func (r *CourseRepository) backfillIcons(courses []models.StoredCourse) bool {
	changed := false
	for i := range courses {
		if courses[i].Icon == "" {
			courses[i].Icon = scanner.RandomIcon()
			changed = true
		}
	}
	return changed
}

func isNotFound(err error) bool {
	var appErr *appErrors.Error
	return errors.As(err, &appErr) && appErr.Code == appErrors.ErrNotFound.Code
}
