package scanner

import (
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/courseshelf/courseshelf/internal/models"
	"github.com/courseshelf/courseshelf/pkg/storage"
)

// Analyzer decides course boundaries inside arbitrary directory trees
// using only their shape, without user-provided metadata.
type Analyzer struct {
	store  storage.Store
	logger *zap.Logger
}

// NewAnalyzer constructs an analyzer over the given file store.
func NewAnalyzer(store storage.Store, logger *zap.Logger) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{store: store, logger: logger}
}

// HasVideosInFolder reports whether any direct child of dir is a video
// file. A listing failure counts as no videos; it never propagates.
func (a *Analyzer) HasVideosInFolder(dir string) bool {
	entries, err := a.store.List(dir)
	if err != nil {
		return false
	}
	for _, entry := range entries {
		if !entry.IsDir() && IsVideoFile(entry.Name) {
			return true
		}
	}
	return false
}

// HasCourseContent reports whether dir has videos directly or in any
// direct subdirectory. The check goes exactly one level deep: a course is
// at most root → section → video, so deeper nesting is invisible here.
func (a *Analyzer) HasCourseContent(dir string) bool {
	if a.HasVideosInFolder(dir) {
		return true
	}
	entries, err := a.store.List(dir)
	if err != nil {
		return false
	}
	for _, entry := range entries {
		if entry.IsDir() && a.HasVideosInFolder(a.store.Resolve(dir, entry.Name)) {
			return true
		}
	}
	return false
}

// IsSectionFolder reports whether dir is a flat video container: videos
// directly inside and no video-bearing subdirectory. A folder with both
// direct and nested videos is ambiguous and treated as a course instead.
func (a *Analyzer) IsSectionFolder(dir string) bool {
	if !a.HasVideosInFolder(dir) {
		return false
	}
	entries, err := a.store.List(dir)
	if err != nil {
		return false
	}
	for _, entry := range entries {
		if entry.IsDir() && a.HasVideosInFolder(a.store.Resolve(dir, entry.Name)) {
			return false
		}
	}
	return true
}

// AnalyzeSingleCourse treats the picked folder as exactly one course,
// whatever its internal shape. It returns nil only when the folder is
// missing or holds no course content at all.
func (a *Analyzer) AnalyzeSingleCourse(path string) *models.StoredCourse {
	if !a.store.Exists(path) {
		a.logger.Warn("course folder does not exist", zap.String("path", path))
		return nil
	}
	if !a.HasCourseContent(path) {
		return nil
	}
	course := newStoredCourse(path)
	return &course
}

// AnalyzeMultipleCourses auto-detects whether the picked folder is one
// course or a container of many. The decision cascade, in priority order:
//
//  1. Videos directly in the root: the root is one flat course.
//  2. Every content-bearing subfolder is a section: the root is one
//     course split into topic folders.
//  3. Otherwise each content-bearing subfolder is its own course.
//  4. No content anywhere: single with an empty course list, which the
//     caller reports as "no courses found".
func (a *Analyzer) AnalyzeMultipleCourses(path string) models.DetectionResult {
	if a.HasVideosInFolder(path) {
		return models.DetectionResult{
			Type:    models.DetectionSingle,
			Courses: []models.StoredCourse{newStoredCourse(path)},
		}
	}

	entries, err := a.store.List(path)
	if err != nil {
		a.logger.Warn("cannot list picked folder", zap.String("path", path), zap.Error(err))
		return models.DetectionResult{Type: models.DetectionSingle, Courses: []models.StoredCourse{}}
	}

	var contentDirs []string
	allSections := true
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		sub := a.store.Resolve(path, entry.Name)
		if !a.HasCourseContent(sub) {
			continue
		}
		contentDirs = append(contentDirs, sub)
		if !a.IsSectionFolder(sub) {
			allSections = false
		}
	}

	if len(contentDirs) == 0 {
		return models.DetectionResult{Type: models.DetectionSingle, Courses: []models.StoredCourse{}}
	}

	if allSections {
		return models.DetectionResult{
			Type:    models.DetectionSingle,
			Courses: []models.StoredCourse{newStoredCourse(path)},
		}
	}

	courses := make([]models.StoredCourse, 0, len(contentDirs))
	for _, dir := range contentDirs {
		courses = append(courses, newStoredCourse(dir))
	}
	return models.DetectionResult{Type: models.DetectionMultiple, Courses: courses}
}

func newStoredCourse(path string) models.StoredCourse {
	return models.StoredCourse{
		ID:         PathID(path),
		Name:       CleanName(filepath.Base(path)),
		FolderPath: path,
		AddedAt:    time.Now().UTC(),
		Icon:       RandomIcon(),
	}
}
