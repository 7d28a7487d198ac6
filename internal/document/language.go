package document

import (
	"path/filepath"
	"strings"
)

// fenceLanguageByExtension maps file extensions to the language tag used on
// Markdown code fences.
var fenceLanguageByExtension = map[string]string{
	".py":   "python",
	".go":   "go",
	".json": "json",
	".env":  "bash",
	".sh":   "bash",
	".js":   "javascript",
	".ts":   "typescript",
	".html": "html",
	".css":  "css",
	".csv":  "csv",
	".md":   "markdown",
	".yaml": "yaml",
	".yml":  "yaml",
	".toml": "toml",
	".xml":  "xml",
	".txt":  "",
}

// binaryExtensions lists extensions that are never embedded as text.
var binaryExtensions = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".gif":  {},
	".svg":  {},
	".ico":  {},
	".db":   {},
	".exe":  {},
	".bin":  {},
	".pdf":  {},
	".zip":  {},
}

// fenceLanguageForPath returns the fence language tag for the file at path.
// Unknown extensions produce a plain fence.
func fenceLanguageForPath(path string) string {
	extension := strings.ToLower(filepath.Ext(path))
	return fenceLanguageByExtension[extension]
}

// hasBinaryExtension reports whether the file extension marks known binary content.
func hasBinaryExtension(path string) bool {
	extension := strings.ToLower(filepath.Ext(path))
	_, isBinary := binaryExtensions[extension]
	return isBinary
}
