package media

import (
	"path/filepath"
	"strings"
)

var supportedImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".bmp":  true,
}

func IsSupportedImage(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return supportedImageExtensions[ext]
}

func GetContentType(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".bmp":
		return "image/bmp"
	default:
		return "application/octet-stream"
	}
}

type ImageKind int

const (
	ImageNone ImageKind = iota
	ImageRemote
	ImageLocal
)

// ClassifyImage tells remote poster URLs apart from local asset references
// (relative paths or file:// URIs picked from the device).
func ClassifyImage(ref string) ImageKind {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ImageNone
	}

	lower := strings.ToLower(ref)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return ImageRemote
	}
	return ImageLocal
}
