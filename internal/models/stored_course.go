package models

import "time"

// StoredCourse is the durable reference record a course is rescanned from.
// Its ID is derived deterministically from FolderPath, which is what makes
// duplicate detection work when overlapping folders are imported.
type StoredCourse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	FolderPath string    `json:"folder_path"`
	AddedAt    time.Time `json:"added_at"`
	Icon       string    `json:"icon"`
}

// RegistryDocument is the whole-document persistence layout of the
// stored-course registry. Reads and writes always cover the full list.
type RegistryDocument struct {
	Courses []StoredCourse `json:"courses"`
}

// DetectionType says whether an analyzed folder holds one course or many.
type DetectionType string

const (
	DetectionSingle   DetectionType = "single"
	DetectionMultiple DetectionType = "multiple"
)

// DetectionResult is the outcome of auto-detecting course boundaries
// inside a user-picked folder. An empty Courses slice with DetectionSingle
// means nothing qualifying was found.
type DetectionResult struct {
	Type    DetectionType  `json:"type"`
	Courses []StoredCourse `json:"courses"`
}

// ImportResult reports a user-initiated import back to the caller as plain
// counts rather than errors.
type ImportResult struct {
	Added          int  `json:"added"`
	Duplicates     int  `json:"duplicates"`
	NoCoursesFound bool `json:"no_courses_found"`
}
