package models

// VideoFormat identifies the container format of a video file.
type VideoFormat string

const (
	VideoFormatMP4   VideoFormat = "mp4"
	VideoFormatMOV   VideoFormat = "mov"
	VideoFormatM4V   VideoFormat = "m4v"
	VideoFormatOther VideoFormat = "other"
)

// Video is a single playable file inside a section. Videos are derived
// fresh on every scan and never persisted directly.
type Video struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	FileName  string      `json:"file_name"`
	FilePath  string      `json:"file_path"`
	Format    VideoFormat `json:"format"`
	Size      int64       `json:"size"`
	Order     int         `json:"order"`
	SectionID string      `json:"section_id"`
	CourseID  string      `json:"course_id"`
}

// Section groups the videos of one folder within a course. A section in a
// returned course always contains at least one video.
type Section struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	FolderPath string  `json:"folder_path"`
	Order      int     `json:"order"`
	CourseID   string  `json:"course_id"`
	Videos     []Video `json:"videos"`
}

// Course is the scanned, in-memory projection of a stored course. It is
// rebuilt from the filesystem on every scan; only identity, display name
// and icon carry over from the stored record.
type Course struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	FolderPath  string    `json:"folder_path"`
	Sections    []Section `json:"sections"`
	TotalVideos int       `json:"total_videos"`
	Icon        string    `json:"icon"`
}
