//go:build !ocr

package extract

// Without the ocr build tag there is no image extractor; the registry reports
// the missing capability instead of crashing image uploads.
func newImageExtractor() TextExtractor { return nil }
