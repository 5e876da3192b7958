package walker

import (
	"path/filepath"
	"strings"
)

// Media kinds reported in FileInfo.Kind.
const (
	KindImage    = "image"
	KindVideo    = "video"
	KindStyle    = "style"
	KindScript   = "script"
	KindFont     = "font"
	KindPage     = "page"
	KindMarkdown = "markdown"
	KindData     = "data"
	KindOther    = "other"
)

// extensionToKind maps file extensions to media kinds.
var extensionToKind = map[string]string{
	// Images
	".png":  KindImage,
	".jpg":  KindImage,
	".jpeg": KindImage,
	".gif":  KindImage,
	".webp": KindImage,
	".avif": KindImage,
	".svg":  KindImage,
	".ico":  KindImage,
	// Video
	".mp4":  KindVideo,
	".webm": KindVideo,
	".mov":  KindVideo,
	// Styles and scripts
	".css":  KindStyle,
	".js":   KindScript,
	".mjs":  KindScript,
	".wasm": KindScript,
	// Fonts
	".woff":  KindFont,
	".woff2": KindFont,
	".ttf":   KindFont,
	".otf":   KindFont,
	// Pages
	".html": KindPage,
	".htm":  KindPage,
	// Markdown
	".md":       KindMarkdown,
	".markdown": KindMarkdown,
	// Data
	".json": KindData,
	".yaml": KindData,
	".yml":  KindData,
	".xml":  KindData,
	".txt":  KindData,
}

// DetectKind returns the media kind of filename based on its extension.
// Returns KindOther for unrecognized files.
func DetectKind(filename string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(filename)))
	if kind, ok := extensionToKind[ext]; ok {
		return kind
	}
	return KindOther
}
