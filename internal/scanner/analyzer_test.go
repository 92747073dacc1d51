package scanner

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courseshelf/courseshelf/internal/models"
	"github.com/courseshelf/courseshelf/pkg/storage"
)

func newTestStore(t *testing.T, files ...string) *storage.FileStore {
	t.Helper()
	fs := afero.NewMemMapFs()
	for _, path := range files {
		require.NoError(t, afero.WriteFile(fs, path, []byte("x"), 0o644))
	}
	return storage.New(fs)
}

func mkdir(t *testing.T, store *storage.FileStore, path string) {
	t.Helper()
	require.NoError(t, store.Fs().MkdirAll(path, 0o755))
}

func TestHasVideosInFolder(t *testing.T) {
	store := newTestStore(t,
		"/library/go/01 - intro.mp4",
		"/library/go/notes.pdf",
		"/library/empty/readme.txt",
	)
	analyzer := NewAnalyzer(store, nil)

	mkdir(t, store, "/library/blank")

	assert.True(t, analyzer.HasVideosInFolder("/library/go"))
	assert.False(t, analyzer.HasVideosInFolder("/library/empty"))
	assert.False(t, analyzer.HasVideosInFolder("/library/blank"))
	assert.False(t, analyzer.HasVideosInFolder("/library/missing"))
}

func TestHasCourseContentOneLevelBound(t *testing.T) {
	store := newTestStore(t,
		"/direct/a.mp4",
		"/nested/section/a.mp4",
		"/deep/topic/section/a.mp4",
	)
	analyzer := NewAnalyzer(store, nil)

	assert.True(t, analyzer.HasCourseContent("/direct"))
	assert.True(t, analyzer.HasCourseContent("/nested"))
	// Videos three levels down are invisible: the check recurses once.
	assert.False(t, analyzer.HasCourseContent("/deep"))
}

func TestIsSectionFolder(t *testing.T) {
	store := newTestStore(t,
		"/flat/01.mp4",
		"/mixed/01.mp4",
		"/mixed/extra/02.mp4",
		"/container/section/01.mp4",
	)
	analyzer := NewAnalyzer(store, nil)

	assert.True(t, analyzer.IsSectionFolder("/flat"))
	// Direct videos plus a video-bearing subfolder is not a section.
	assert.False(t, analyzer.IsSectionFolder("/mixed"))
	assert.False(t, analyzer.IsSectionFolder("/container"))
}

func TestAnalyzeSingleCourse(t *testing.T) {
	store := newTestStore(t, "/courses/03_Go-Basics/01 - intro.mp4")
	analyzer := NewAnalyzer(store, nil)

	course := analyzer.AnalyzeSingleCourse("/courses/03_Go-Basics")
	require.NotNil(t, course)
	assert.Equal(t, "Go Basics", course.Name)
	assert.Equal(t, PathID("/courses/03_Go-Basics"), course.ID)
	assert.Equal(t, "/courses/03_Go-Basics", course.FolderPath)
	assert.NotEmpty(t, course.Icon)
	assert.False(t, course.AddedAt.IsZero())
}

func TestAnalyzeSingleCourseMissingOrEmpty(t *testing.T) {
	store := newTestStore(t, "/courses/docs/readme.md")
	analyzer := NewAnalyzer(store, nil)

	assert.Nil(t, analyzer.AnalyzeSingleCourse("/courses/none"))
	assert.Nil(t, analyzer.AnalyzeSingleCourse("/courses/docs"))
}

func TestAnalyzeMultipleCoursesRootVideos(t *testing.T) {
	store := newTestStore(t, "/root/01.mp4", "/root/sub/02.mp4")
	analyzer := NewAnalyzer(store, nil)

	result := analyzer.AnalyzeMultipleCourses("/root")
	assert.Equal(t, models.DetectionSingle, result.Type)
	require.Len(t, result.Courses, 1)
	assert.Equal(t, "/root", result.Courses[0].FolderPath)
}

func TestAnalyzeMultipleCoursesUniformSections(t *testing.T) {
	store := newTestStore(t,
		"/course/01 - Basics/a.mp4",
		"/course/02 - Advanced/b.mp4",
		"/course/assets/logo.png",
	)
	analyzer := NewAnalyzer(store, nil)

	result := analyzer.AnalyzeMultipleCourses("/course")
	assert.Equal(t, models.DetectionSingle, result.Type)
	require.Len(t, result.Courses, 1)
	assert.Equal(t, "/course", result.Courses[0].FolderPath)
}

func TestAnalyzeMultipleCoursesMixedDepthSplits(t *testing.T) {
	// A has direct videos, B only nested ones: B is not a section, so the
	// root is a container of two independent courses.
	store := newTestStore(t,
		"/root/A/01.mp4",
		"/root/B/C/01.mp4",
	)
	analyzer := NewAnalyzer(store, nil)

	result := analyzer.AnalyzeMultipleCourses("/root")
	assert.Equal(t, models.DetectionMultiple, result.Type)
	require.Len(t, result.Courses, 2)

	paths := []string{result.Courses[0].FolderPath, result.Courses[1].FolderPath}
	assert.Contains(t, paths, filepath.Join("/root", "A"))
	assert.Contains(t, paths, filepath.Join("/root", "B"))
}

func TestAnalyzeMultipleCoursesNoContent(t *testing.T) {
	store := newTestStore(t, "/root/docs/readme.md")
	analyzer := NewAnalyzer(store, nil)

	result := analyzer.AnalyzeMultipleCourses("/root")
	assert.Equal(t, models.DetectionSingle, result.Type)
	assert.Empty(t, result.Courses)
}
