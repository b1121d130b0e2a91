package usecase

import (
	"context"
	"errors"
	"hash/fnv"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"nyai-server/internal/domain"
	"nyai-server/internal/store"
)

const (
	maxQuestionLen     = 500
	analysisExcerptLen = 3000
	docIDModulus       = 100000
)

// Extractor converts a validated upload payload into plain text.
type Extractor interface {
	ExtractText(content, filename, contentType string) (string, error)
}

// DocumentService owns document ingestion, question answering and one-shot
// analysis.
type DocumentService struct {
	documents *store.DocumentStore
	extractor Extractor
	llm       ModelClient
	logger    *slog.Logger

	now func() time.Time
}

// NewDocumentService creates a DocumentService.
func NewDocumentService(documents *store.DocumentStore, extractor Extractor, llm ModelClient, logger *slog.Logger) (*DocumentService, error) {
	if documents == nil {
		return nil, errors.New("usecase: document store must not be nil")
	}
	if extractor == nil {
		return nil, errors.New("usecase: extractor must not be nil")
	}
	if llm == nil {
		return nil, errors.New("usecase: model client must not be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &DocumentService{
		documents: documents,
		extractor: extractor,
		llm:       llm,
		logger:    logger,
		now:       time.Now,
	}, nil
}

type UploadInput struct {
	Content     string
	Filename    string
	ContentType string
}

type UploadOutput struct {
	DocumentID string
	Filename   string
	WordCount  int
	CharCount  int
	Analysis   map[string]any
}

// Upload extracts text from the payload, runs the initial structured
// analysis and stores the document. Analysis failures degrade to fallback
// objects; only validation, extraction and configuration errors fail the
// upload.
func (s *DocumentService) Upload(ctx context.Context, in UploadInput) (UploadOutput, error) {
	if !s.llm.Configured() {
		return UploadOutput{}, newError(ErrorModelUnconfigured, "AI model not configured. Set GOOGLE_API_KEY.", nil)
	}

	text, err := s.extractor.ExtractText(in.Content, in.Filename, in.ContentType)
	if err != nil {
		return UploadOutput{}, extractionError(err)
	}

	uploadedAt := s.now().UTC().Format(time.RFC3339)
	doc := domain.Document{
		ID:          newDocumentID(in.Filename, uploadedAt),
		Filename:    in.Filename,
		ContentType: in.ContentType,
		TextContent: text,
		UploadedAt:  uploadedAt,
		WordCount:   len(strings.Fields(text)),
		CharCount:   utf8.RuneCountInString(text),
		Analysis:    s.analyzeUpload(ctx, text),
	}
	s.documents.Put(doc)

	return UploadOutput{
		DocumentID: doc.ID,
		Filename:   doc.Filename,
		WordCount:  doc.WordCount,
		CharCount:  doc.CharCount,
		Analysis:   doc.Analysis,
	}, nil
}

// analyzeUpload runs the initial document analysis. A malformed structured
// response and a failed invocation each map to their own fixed fallback
// object so the analysis field always has the documented shape.
func (s *DocumentService) analyzeUpload(ctx context.Context, text string) map[string]any {
	analysis, err := s.llm.GenerateJSON(ctx, buildUploadAnalysisPrompt(text))
	switch {
	case err == nil:
		return analysis
	case isMalformedOutput(err):
		s.logger.Warn("AI response was not valid JSON, using fallback", "error", err)
		return fallbackAnalysis("Document uploaded successfully. You can now ask questions about it.")
	default:
		s.logger.Error("AI analysis failed", "error", err)
		return fallbackAnalysis("Document uploaded but analysis failed. You can still ask questions about it.")
	}
}

func fallbackAnalysis(summary string) map[string]any {
	return map[string]any{
		"document_type":       "unknown",
		"summary":             summary,
		"key_topics":          []any{},
		"entities":            []any{},
		"language_complexity": "moderate",
	}
}

type QuestionInput struct {
	DocumentID string
	Question   string
}

type QuestionOutput struct {
	Question     string
	DocumentID   string
	DocumentName string
	Result       map[string]any
}

// Question answers a question about a stored document. A malformed
// structured response degrades to the fixed low-confidence fallback; an
// invocation failure is a hard error because the endpoint has no other
// purpose.
func (s *DocumentService) Question(ctx context.Context, in QuestionInput) (QuestionOutput, error) {
	if !s.llm.Configured() {
		return QuestionOutput{}, newError(ErrorModelUnconfigured, "AI model not configured.", nil)
	}

	doc, ok := s.documents.Get(in.DocumentID)
	if !ok {
		return QuestionOutput{}, newError(ErrorNotFound, "Document not found", nil)
	}

	question := strings.TrimSpace(in.Question)
	if question == "" {
		return QuestionOutput{}, newError(ErrorInvalidInput, "Question is required", nil)
	}
	if utf8.RuneCountInString(question) > maxQuestionLen {
		return QuestionOutput{}, newError(ErrorInvalidInput, "Question too long (max 500 characters)", nil)
	}

	out := QuestionOutput{
		Question:     question,
		DocumentID:   in.DocumentID,
		DocumentName: doc.Filename,
	}

	result, err := s.llm.GenerateJSON(ctx, buildQuestionPrompt(doc.Filename, question, doc.TextContent))
	switch {
	case err == nil:
		out.Result = result
	case isMalformedOutput(err):
		s.logger.Warn("AI response was not valid JSON, using fallback", "error", err)
		out.Result = map[string]any{
			"answer":              "I processed your question but had difficulty formatting the response. Please try rephrasing your question.",
			"confidence":          "low",
			"relevant_sections":   []any{},
			"follow_up_questions": []any{},
		}
	default:
		s.logger.Error("question processing failed", "error", err)
		return QuestionOutput{}, newError(ErrorUpstream, "Error processing question", err)
	}
	return out, nil
}

type AnalyzeInput struct {
	Content      string
	Filename     string
	ContentType  string
	AnalysisType string
}

type AnalyzeOutput struct {
	Filename     string
	AnalysisType string
	WordCount    int
	Result       map[string]any
}

// Analyze performs a one-shot analysis of a submitted document without
// storing it. Unlike Upload there is no fallback object — a structured
// response that does not parse fails the request.
func (s *DocumentService) Analyze(ctx context.Context, in AnalyzeInput) (AnalyzeOutput, error) {
	if !s.llm.Configured() {
		return AnalyzeOutput{}, newError(ErrorModelUnconfigured, "AI model not configured.", nil)
	}

	analysisType := strings.ToLower(strings.TrimSpace(in.AnalysisType))
	prompt := ""
	ok := false

	text, err := s.extractor.ExtractText(in.Content, in.Filename, in.ContentType)
	if err != nil {
		return AnalyzeOutput{}, extractionError(err)
	}

	if prompt, ok = buildAnalyzePrompt(analysisType, text); !ok {
		return AnalyzeOutput{}, newError(ErrorInvalidInput, "Invalid analysis type. Use: summary, key_points, or legal_issues", nil)
	}

	result, err := s.llm.GenerateJSON(ctx, prompt)
	if err != nil {
		if isMalformedOutput(err) {
			s.logger.Warn("AI response was not valid JSON", "error", err)
			return AnalyzeOutput{}, newError(ErrorUpstream, "AI analysis returned invalid format", err)
		}
		s.logger.Error("analysis failed", "error", err)
		return AnalyzeOutput{}, newError(ErrorUpstream, "Analysis error", err)
	}

	return AnalyzeOutput{
		Filename:     in.Filename,
		AnalysisType: analysisType,
		WordCount:    len(strings.Fields(text)),
		Result:       result,
	}, nil
}

// DocumentSummary is one entry of the stored-document listing.
type DocumentSummary struct {
	DocumentID   string `json:"document_id"`
	Filename     string `json:"filename"`
	UploadedAt   string `json:"uploaded_at"`
	WordCount    int    `json:"word_count"`
	DocumentType string `json:"document_type"`
}

// ListDocuments returns all stored documents, newest upload first.
func (s *DocumentService) ListDocuments() []DocumentSummary {
	docs := s.documents.List()

	summaries := make([]DocumentSummary, 0, len(docs))
	for id, doc := range docs {
		summaries = append(summaries, DocumentSummary{
			DocumentID:   id,
			Filename:     doc.Filename,
			UploadedAt:   doc.UploadedAt,
			WordCount:    doc.WordCount,
			DocumentType: documentType(doc.Analysis),
		})
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].UploadedAt > summaries[j].UploadedAt
	})
	return summaries
}

// DeleteDocument removes a stored document and returns its filename.
func (s *DocumentService) DeleteDocument(documentID string) (string, error) {
	doc, ok := s.documents.Delete(documentID)
	if !ok {
		return "", newError(ErrorNotFound, "Document not found", nil)
	}
	s.logger.Info("document deleted", "filename", doc.Filename)
	return doc.Filename, nil
}

func documentType(analysis map[string]any) string {
	if t, ok := analysis["document_type"].(string); ok && t != "" {
		return t
	}
	return "unknown"
}

// newDocumentID builds the id doc_{hash(filename+timestamp) mod 100000}.
// The modulo keeps ids short; colliding ids overwrite.
func newDocumentID(filename, timestamp string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(filename + timestamp))
	return "doc_" + strconv.FormatUint(uint64(h.Sum32()%docIDModulus), 10)
}
