package domain

// Document is the extracted-text representation of an uploaded file. The text
// is immutable after creation; documents are removed only by explicit delete.
type Document struct {
	ID          string         `json:"document_id"`
	Filename    string         `json:"filename"`
	ContentType string         `json:"content_type"`
	TextContent string         `json:"text_content"`
	UploadedAt  string         `json:"uploaded_at"`
	WordCount   int            `json:"word_count"`
	CharCount   int            `json:"char_count"`
	Analysis    map[string]any `json:"analysis,omitempty"`
}

// Clone returns a copy with an independent analysis map. The analysis values
// themselves are never mutated after creation, so a top-level copy is enough.
func (d Document) Clone() Document {
	out := d
	if d.Analysis != nil {
		out.Analysis = make(map[string]any, len(d.Analysis))
		for k, v := range d.Analysis {
			out.Analysis[k] = v
		}
	}
	return out
}
