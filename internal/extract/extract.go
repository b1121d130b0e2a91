// Package extract validates upload requests and turns raw document payloads
// into plain text. Each supported format is handled by a TextExtractor
// strategy; a strategy whose underlying capability is not built into the
// binary (OCR without the ocr build tag) surfaces ErrCapabilityUnavailable
// instead of failing the whole process.
package extract

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// MaxDecodedSize is the upper bound on decoded payload size (15 MiB).
const MaxDecodedSize = 15 * 1024 * 1024

// Typed conditions reported by validation and extraction. Callers match with
// errors.Is and map them onto their own error taxonomy.
var (
	ErrInvalidInput          = errors.New("extract: invalid input")
	ErrDecode                = errors.New("extract: invalid payload encoding")
	ErrPayloadTooLarge       = errors.New("extract: payload too large")
	ErrEmptyDocument         = errors.New("extract: no text content found in document")
	ErrCapabilityUnavailable = errors.New("extract: required capability unavailable")
)

// TextExtractor converts raw file bytes into plain text.
type TextExtractor interface {
	Extract(data []byte) (string, error)
}

// Capabilities reports which extraction strategies this binary provides.
type Capabilities struct {
	PDF  bool
	Docx bool
	OCR  bool
}

// Registry holds one extractor per supported format. A nil entry means the
// capability is missing in this deployment.
type Registry struct {
	pdf   TextExtractor
	word  TextExtractor
	image TextExtractor
	plain TextExtractor
}

// NewRegistry wires the extractors compiled into this binary.
func NewRegistry() *Registry {
	return &Registry{
		pdf:   pdfExtractor{},
		word:  docxExtractor{},
		image: newImageExtractor(),
		plain: plainTextExtractor{},
	}
}

// Capabilities reports the strategies available at runtime.
func (r *Registry) Capabilities() Capabilities {
	return Capabilities{
		PDF:  r.pdf != nil,
		Docx: r.word != nil,
		OCR:  r.image != nil,
	}
}

// ExtractText validates the request, decodes the base64 payload, enforces the
// size ceiling and dispatches to the extractor for contentType. The result is
// trimmed of surrounding whitespace; a document that trims to nothing is
// reported as ErrEmptyDocument.
func (r *Registry) ExtractText(content, filename, contentType string) (string, error) {
	if err := ValidateFile(filename, contentType); err != nil {
		return "", err
	}

	data, err := base64.StdEncoding.DecodeString(content)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty file content", ErrDecode)
	}
	if len(data) > MaxDecodedSize {
		return "", fmt.Errorf("%w: maximum size is %d MB", ErrPayloadTooLarge, MaxDecodedSize/(1024*1024))
	}

	extractor, name := r.extractorFor(contentType)
	if extractor == nil {
		return "", fmt.Errorf("%w: %s support is not built into this deployment", ErrCapabilityUnavailable, name)
	}

	text, err := extractor.Extract(data)
	if err != nil {
		return "", err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyDocument
	}
	return text, nil
}

func (r *Registry) extractorFor(contentType string) (TextExtractor, string) {
	switch {
	case contentType == "application/pdf":
		return r.pdf, "PDF"
	case contentType == "application/msword",
		contentType == "application/vnd.openxmlformats-officedocument.wordprocessingml.document":
		return r.word, "word-processor"
	case strings.HasPrefix(contentType, "image/"):
		return r.image, "OCR"
	default:
		// text/plain, already validated against the allow-list.
		return r.plain, "plain text"
	}
}
