package repository

import (
	"context"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/courseshelf/courseshelf/internal/models"
	"github.com/courseshelf/courseshelf/internal/scanner"
)

type detectorMock struct {
	result models.DetectionResult
	calls  []string
}

func (d *detectorMock) AnalyzeMultipleCourses(path string) models.DetectionResult {
	d.calls = append(d.calls, path)
	return d.result
}

func newFileRepo(t *testing.T, detector CourseDetector) *CourseRepository {
	t.Helper()
	docs, err := NewFileDocumentStore(afero.NewMemMapFs(), "/data")
	require.NoError(t, err)
	return NewCourseRepository(docs, detector, zap.NewNop())
}

func stored(path string) models.StoredCourse {
	return models.StoredCourse{
		ID:         scanner.PathID(path),
		Name:       "Course " + path,
		FolderPath: path,
		AddedAt:    time.Now().UTC(),
		Icon:       "📚",
	}
}

func TestCourseRepositoryLoadEmpty(t *testing.T) {
	repo := newFileRepo(t, nil)
	assert.Empty(t, repo.Load(context.Background()))
}

func TestCourseRepositoryAddAndLoad(t *testing.T) {
	repo := newFileRepo(t, nil)
	ctx := context.Background()

	added, duplicates, err := repo.Add(ctx, []models.StoredCourse{stored("/a"), stored("/b")})
	require.NoError(t, err)
	assert.Equal(t, 2, added)
	assert.Zero(t, duplicates)

	courses := repo.Load(ctx)
	require.Len(t, courses, 2)
}

func TestCourseRepositoryAddDuplicate(t *testing.T) {
	repo := newFileRepo(t, nil)
	ctx := context.Background()

	_, _, err := repo.Add(ctx, []models.StoredCourse{stored("/a")})
	require.NoError(t, err)

	added, duplicates, err := repo.Add(ctx, []models.StoredCourse{stored("/a")})
	require.NoError(t, err)
	assert.Zero(t, added)
	assert.Equal(t, 1, duplicates)
	assert.Len(t, repo.Load(ctx), 1)
}

func TestCourseRepositoryRemove(t *testing.T) {
	repo := newFileRepo(t, nil)
	ctx := context.Background()
	course := stored("/a")

	_, _, err := repo.Add(ctx, []models.StoredCourse{course})
	require.NoError(t, err)

	require.NoError(t, repo.Remove(ctx, course.ID))
	assert.Empty(t, repo.Load(ctx))

	err = repo.Remove(ctx, course.ID)
	require.Error(t, err)
}

func TestCourseRepositoryFind(t *testing.T) {
	repo := newFileRepo(t, nil)
	ctx := context.Background()
	course := stored("/a")

	_, _, err := repo.Add(ctx, []models.StoredCourse{course})
	require.NoError(t, err)

	found, err := repo.Find(ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, course.FolderPath, found.FolderPath)

	_, err = repo.Find(ctx, "missing")
	require.Error(t, err)
}

func TestCourseRepositoryLegacyMigration(t *testing.T) {
	fs := afero.NewMemMapFs()
	docs, err := NewFileDocumentStore(fs, "/data")
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, docs.Write(ctx, legacyRootKey, "/old/library"))

	detector := &detectorMock{result: models.DetectionResult{
		Type:    models.DetectionMultiple,
		Courses: []models.StoredCourse{stored("/old/library/a"), stored("/old/library/b")},
	}}
	repo := NewCourseRepository(docs, detector, zap.NewNop())

	courses := repo.Load(ctx)
	require.Len(t, courses, 2)
	assert.Equal(t, []string{"/old/library"}, detector.calls)

	// The legacy record is consumed: a second load neither re-runs the
	// detector nor loses the migrated entries.
	courses = repo.Load(ctx)
	require.Len(t, courses, 2)
	assert.Len(t, detector.calls, 1)

	var legacy string
	err = docs.Read(ctx, legacyRootKey, &legacy)
	require.Error(t, err)
}

func TestCourseRepositoryIconBackfill(t *testing.T) {
	docs, err := NewFileDocumentStore(afero.NewMemMapFs(), "/data")
	require.NoError(t, err)
	ctx := context.Background()

	bare := stored("/a")
	bare.Icon = ""
	require.NoError(t, docs.Write(ctx, registryKey, models.RegistryDocument{
		Courses: []models.StoredCourse{bare},
	}))

	repo := NewCourseRepository(docs, nil, zap.NewNop())
	courses := repo.Load(ctx)
	require.Len(t, courses, 1)
	assert.NotEmpty(t, courses[0].Icon)

	// The rewrite is persisted, so the backfill happens once.
	var doc models.RegistryDocument
	require.NoError(t, docs.Read(ctx, registryKey, &doc))
	require.Len(t, doc.Courses, 1)
	assert.NotEmpty(t, doc.Courses[0].Icon)
}

func TestFileDocumentStoreRoundTrip(t *testing.T) {
	docs, err := NewFileDocumentStore(afero.NewMemMapFs(), "/data")
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, docs.Write(ctx, "sample", map[string]int{"n": 3}))

	var out map[string]int
	require.NoError(t, docs.Read(ctx, "sample", &out))
	assert.Equal(t, 3, out["n"])

	require.NoError(t, docs.Delete(ctx, "sample"))
	require.Error(t, docs.Read(ctx, "sample", &out))
	require.NoError(t, docs.Delete(ctx, "sample"))
}
