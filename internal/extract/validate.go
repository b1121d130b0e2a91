package extract

import (
	"fmt"
	"path/filepath"
	"strings"
)

var allowedExtensions = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
	".txt":  true,
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
}

var allowedContentTypes = map[string]bool{
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"text/plain": true,
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
}

// ValidateFile checks the upload metadata against the extension and media
// type allow-lists. It performs no I/O and must run before any decoding or
// extraction work.
func ValidateFile(filename, contentType string) error {
	if strings.TrimSpace(filename) == "" {
		return fmt.Errorf("%w: filename is required", ErrInvalidInput)
	}
	if strings.TrimSpace(contentType) == "" {
		return fmt.Errorf("%w: content type is required", ErrInvalidInput)
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExtensions[ext] {
		return fmt.Errorf("%w: unsupported file extension %q", ErrInvalidInput, ext)
	}
	if !allowedContentTypes[contentType] {
		return fmt.Errorf("%w: unsupported content type %q", ErrInvalidInput, contentType)
	}
	return nil
}
