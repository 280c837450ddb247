package usecase

import (
	"path/filepath"
	"strings"
)

var contentTypes = map[string]string{
	"pdf":  "application/pdf",
	"txt":  "text/plain",
	"docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

// DefaultAllowedExtensions lists the upload types the extractors understand.
var DefaultAllowedExtensions = []string{"pdf", "txt", "docx", "xlsx"}

// FileExtension returns the lower-cased extension of name without the dot.
func FileExtension(name string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
}

// ContentTypeFor maps a filename to the content type served on download.
func ContentTypeFor(name string) string {
	if ct, ok := contentTypes[FileExtension(name)]; ok {
		return ct
	}
	return "application/octet-stream"
}
