package chat

import (
	"net/url"
	"path"
	"path/filepath"
	"strings"
	"time"

	"chatrelay/internal/pkg/errs"
)

const (
	MediaImage = "image"
	MediaVideo = "video"

	// PresignedURLDuration is the fixed duration for which presigned media URLs are valid (5 minutes).
	PresignedURLDuration = 5 * time.Minute
)

// AllowedMIMETypes maps the permitted upload MIME types to their media kind.
var AllowedMIMETypes = map[string]string{
	"image/jpeg":      MediaImage,
	"image/png":       MediaImage,
	"image/webp":      MediaImage,
	"image/gif":       MediaImage,
	"video/mp4":       MediaVideo,
	"video/webm":      MediaVideo,
	"video/quicktime": MediaVideo,
}

// ExtToMIME maps file extensions to their corresponding MIME types.
var ExtToMIME = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
	".gif":  "image/gif",
	".mp4":  "video/mp4",
	".webm": "video/webm",
	".mov":  "video/quicktime",
}

// IsMediaType reports whether kind is a media type messages may carry.
func IsMediaType(kind string) bool {
	return kind == MediaImage || kind == MediaVideo
}

// InferMediaType classifies a media URL or file name by extension.
// jpg, jpeg and png are images; anything else is treated as video.
func InferMediaType(ref string) string {
	p := ref
	if u, err := url.Parse(ref); err == nil && u.Path != "" {
		p = u.Path
	}

	switch strings.ToLower(path.Ext(p)) {
	case ".jpg", ".jpeg", ".png":
		return MediaImage
	default:
		return MediaVideo
	}
}

// ValidateFileSize checks if the provided file size is within (0, maxSize].
func ValidateFileSize(fileSize, maxSize int64) *errs.CustomError {
	if fileSize <= 0 {
		return errs.NewError(errs.ErrInvalidParams)
	}

	if fileSize > maxSize {
		return errs.NewError(errs.ErrFileSizeTooLarge)
	}

	return nil
}

// ValidateFileType checks that the file name and MIME type are allowed and agree with each other.
// It returns the media kind of the file.
func ValidateFileType(fileName string, mimeType string) (string, *errs.CustomError) {
	lowerMimeType := strings.ToLower(mimeType)

	kind, ok := AllowedMIMETypes[lowerMimeType]
	if !ok {
		return "", errs.NewError(errs.ErrFileTypeNotAllowed)
	}

	ext := strings.ToLower(filepath.Ext(fileName))
	if len(ext) < 2 {
		return "", errs.NewError(errs.ErrFileTypeNotAllowed)
	}

	expectedMIME, ok := ExtToMIME[ext]
	if !ok || expectedMIME != lowerMimeType {
		return "", errs.NewError(errs.ErrFileTypeNotAllowed)
	}

	return kind, nil
}
