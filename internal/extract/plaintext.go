package extract

import "strings"

// plainTextExtractor decodes bytes as UTF-8 text, replacing undecodable
// sequences rather than failing.
type plainTextExtractor struct{}

func (plainTextExtractor) Extract(data []byte) (string, error) {
	return strings.ToValidUTF8(string(data), "�"), nil
}
