package filemod

import (
	"path"
	"strings"
)

var fileTypes = map[string]string{
	".go":   "go",
	".ts":   "typescript",
	".tsx":  "typescript",
	".js":   "javascript",
	".jsx":  "javascript",
	".py":   "python",
	".rs":   "rust",
	".java": "java",
	".rb":   "ruby",
	".c":    "c",
	".h":    "c",
	".cpp":  "cpp",
	".cs":   "csharp",
	".php":  "php",
	".sql":  "sql",
	".sh":   "shell",
	".html": "html",
	".css":  "css",
	".yaml": "yaml",
	".yml":  "yaml",
	".json": "json",
	".md":   "markdown",
	".txt":  "text",
}

// DetectFileType infers the language of a file from its extension.
func DetectFileType(filename string) string {
	if t, ok := fileTypes[strings.ToLower(path.Ext(filename))]; ok {
		return t
	}
	return "unknown"
}
