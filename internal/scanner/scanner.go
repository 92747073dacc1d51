package scanner

import (
	"sort"

	"go.uber.org/zap"

	"github.com/courseshelf/courseshelf/internal/models"
	"github.com/courseshelf/courseshelf/pkg/storage"
)

// DropReason says why a course contributed nothing to a scan. Callers see
// binary presence; the reasons exist so higher layers can log and count.
type DropReason string

const (
	DropNone       DropReason = ""
	DropNotFound   DropReason = "not_found"
	DropUnreadable DropReason = "unreadable"
	DropEmpty      DropReason = "empty"
)

// ScanReport aggregates the outcome of one scan pass.
type ScanReport struct {
	Scanned    int `json:"scanned"`
	NotFound   int `json:"not_found"`
	Unreadable int `json:"unreadable"`
	Empty      int `json:"empty"`
}

// Dropped is the number of stored courses excluded from the result.
func (r ScanReport) Dropped() int {
	return r.NotFound + r.Unreadable + r.Empty
}

// Scanner rebuilds the course → section → video graph from the file
// store. The graph is a transient projection: every scan derives it fresh,
// and only identity, name and icon come from the stored record.
type Scanner struct {
	store  storage.Store
	logger *zap.Logger
}

// NewScanner constructs a scanner over the given file store.
func NewScanner(store storage.Store, logger *zap.Logger) *Scanner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scanner{store: store, logger: logger}
}

// ScanCourse walks one stored course's folder. The returned reason is
// DropNone only when the course has at least one video; in every other
// case the course must not be shown, and the reason says why. No failure
// below the course root escapes as an error.
func (s *Scanner) ScanCourse(stored models.StoredCourse) (*models.Course, DropReason) {
	if !s.store.Exists(stored.FolderPath) {
		s.logger.Warn("stored course folder is gone",
			zap.String("course_id", stored.ID),
			zap.String("path", stored.FolderPath))
		return nil, DropNotFound
	}

	course := &models.Course{
		ID:         stored.ID,
		Name:       stored.Name,
		FolderPath: stored.FolderPath,
		Icon:       stored.Icon,
		Sections:   []models.Section{},
	}

	entries, err := s.store.List(stored.FolderPath)
	if err != nil {
		// Listing the root fails when access was revoked. The shell with
		// zero videos lets the caller filter it like any empty course.
		s.logger.Warn("cannot list course folder",
			zap.String("course_id", stored.ID),
			zap.String("path", stored.FolderPath),
			zap.Error(err))
		return course, DropUnreadable
	}

	sort.Slice(entries, func(i, j int) bool { return Less(entries[i].Name, entries[j].Name) })

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		folder := s.store.Resolve(stored.FolderPath, entry.Name)
		section, reason := s.scanSection(course.ID, folder, entry.Name, len(course.Sections))
		if reason != DropNone {
			// One bad subfolder never aborts the course.
			continue
		}
		course.Sections = append(course.Sections, *section)
	}

	if len(course.Sections) == 0 {
		// Flat course: the root itself acts as a single synthetic section.
		if section := s.rootSection(course.ID, stored.FolderPath, entries); section != nil {
			course.Sections = append(course.Sections, *section)
		}
	}

	for _, section := range course.Sections {
		course.TotalVideos += len(section.Videos)
	}
	if course.TotalVideos == 0 {
		return course, DropEmpty
	}
	return course, DropNone
}

// ScanAll scans every stored course sequentially. Courses are isolated
// from each other: one missing or unreadable folder never affects the
// rest of the result.
func (s *Scanner) ScanAll(stored []models.StoredCourse) ([]models.Course, ScanReport) {
	courses := make([]models.Course, 0, len(stored))
	var report ScanReport

	for _, sc := range stored {
		course, reason := s.ScanCourse(sc)
		switch reason {
		case DropNone:
			courses = append(courses, *course)
			report.Scanned++
		case DropNotFound:
			report.NotFound++
		case DropUnreadable:
			report.Unreadable++
		case DropEmpty:
			report.Empty++
		}
	}

	return courses, report
}

// scanSection enumerates the videos directly inside folder. Sections with
// no videos, or that cannot be listed, are dropped.
func (s *Scanner) scanSection(courseID, folder, rawName string, order int) (*models.Section, DropReason) {
	entries, err := s.store.List(folder)
	if err != nil {
		s.logger.Warn("cannot list section folder", zap.String("path", folder), zap.Error(err))
		return nil, DropUnreadable
	}

	section := &models.Section{
		ID:         PathID(folder),
		Name:       CleanName(rawName),
		FolderPath: folder,
		Order:      order,
		CourseID:   courseID,
	}
	section.Videos = s.collectVideos(courseID, section.ID, folder, entries)

	if len(section.Videos) == 0 {
		return nil, DropEmpty
	}
	return section, DropNone
}

// rootSection builds the synthetic "Videos" section for section-less
// courses from the already-listed root entries.
func (s *Scanner) rootSection(courseID, root string, entries []storage.Entry) *models.Section {
	section := &models.Section{
		ID:         PathID(s.store.Resolve(root, "Videos")),
		Name:       "Videos",
		FolderPath: root,
		Order:      0,
		CourseID:   courseID,
	}
	section.Videos = s.collectVideos(courseID, section.ID, root, entries)
	if len(section.Videos) == 0 {
		return nil
	}
	return section
}

func (s *Scanner) collectVideos(courseID, sectionID, folder string, entries []storage.Entry) []models.Video {
	names := make([]string, 0, len(entries))
	sizes := make(map[string]int64, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !IsVideoFile(entry.Name) {
			continue
		}
		names = append(names, entry.Name)
		sizes[entry.Name] = entry.Size
	}
	sort.Slice(names, func(i, j int) bool { return Less(names[i], names[j]) })

	videos := make([]models.Video, 0, len(names))
	for i, name := range names {
		path := s.store.Resolve(folder, name)
		videos = append(videos, models.Video{
			ID:        PathID(path),
			Name:      CleanVideoName(name),
			FileName:  name,
			FilePath:  path,
			Format:    FormatOf(name),
			Size:      sizes[name],
			Order:     i,
			SectionID: sectionID,
			CourseID:  courseID,
		})
	}
	return videos
}
