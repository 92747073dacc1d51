package scanner

import (
	"path/filepath"
	"strings"

	"github.com/courseshelf/courseshelf/internal/models"
)

var videoFormats = map[string]models.VideoFormat{
	".mp4": models.VideoFormatMP4,
	".mov": models.VideoFormatMOV,
	".m4v": models.VideoFormatM4V,
}

// IsVideoFile reports whether the file name carries a supported video
// extension. Everything else (subtitles, thumbnails, extensionless files)
// is invisible to scanning.
func IsVideoFile(fileName string) bool {
	_, ok := videoFormats[strings.ToLower(filepath.Ext(fileName))]
	return ok
}

// FormatOf maps a file name to its video format tag.
func FormatOf(fileName string) models.VideoFormat {
	if format, ok := videoFormats[strings.ToLower(filepath.Ext(fileName))]; ok {
		return format
	}
	return models.VideoFormatOther
}
