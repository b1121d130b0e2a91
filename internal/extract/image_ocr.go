//go:build ocr

package extract

import (
	"fmt"

	"github.com/otiai10/gosseract/v2"
)

// imageExtractor runs Tesseract OCR over a raster image. Built only with the
// ocr tag since it links against the system tesseract libraries.
type imageExtractor struct{}

func newImageExtractor() TextExtractor { return imageExtractor{} }

func (imageExtractor) Extract(data []byte) (string, error) {
	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetImageFromBytes(data); err != nil {
		return "", fmt.Errorf("extract: error processing image: %w", err)
	}
	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("extract: error processing image: %w", err)
	}
	return text, nil
}
