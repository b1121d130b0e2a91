package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"nyai-server/internal/usecase"
)

// DocumentUploadRequest is the body of POST /upload. Content is the base64
// encoded document payload.
type DocumentUploadRequest struct {
	Content     string `json:"content" binding:"required"`
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
}

// QuestionRequest is the body of POST /question.
type QuestionRequest struct {
	Question   string `json:"question" binding:"required"`
	DocumentID string `json:"document_id" binding:"required"`
	Context    string `json:"context"`
}

// DocumentAnalysisRequest is the body of POST /analyze.
type DocumentAnalysisRequest struct {
	Content      string `json:"content" binding:"required"`
	Filename     string `json:"filename" binding:"required"`
	ContentType  string `json:"content_type" binding:"required"`
	AnalysisType string `json:"analysis_type"`
}

// Upload ingests a document for Q&A and returns the initial analysis.
func (h *Handler) Upload(c *gin.Context) {
	var req DocumentUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	h.logger.Info("processing document upload", "filename", req.Filename, "request_id", c.GetString("request_id"))

	out, err := h.documents.Upload(c.Request.Context(), usecase.UploadInput{
		Content:     req.Content,
		Filename:    req.Filename,
		ContentType: req.ContentType,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"document_id": out.DocumentID,
		"filename":    out.Filename,
		"word_count":  out.WordCount,
		"char_count":  out.CharCount,
		"analysis":    out.Analysis,
	})
}

// Question answers a question about a stored document.
func (h *Handler) Question(c *gin.Context) {
	var req QuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	out, err := h.documents.Question(c.Request.Context(), usecase.QuestionInput{
		DocumentID: req.DocumentID,
		Question:   req.Question,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	body := gin.H{
		"success":       true,
		"question":      out.Question,
		"document_id":   out.DocumentID,
		"document_name": out.DocumentName,
	}
	for k, v := range out.Result {
		body[k] = v
	}
	c.JSON(http.StatusOK, body)
}

// Analyze performs a one-shot analysis of a submitted document.
func (h *Handler) Analyze(c *gin.Context) {
	var req DocumentAnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if req.AnalysisType == "" {
		req.AnalysisType = "summary"
	}

	out, err := h.documents.Analyze(c.Request.Context(), usecase.AnalyzeInput{
		Content:      req.Content,
		Filename:     req.Filename,
		ContentType:  req.ContentType,
		AnalysisType: req.AnalysisType,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	body := gin.H{
		"success":       true,
		"filename":      out.Filename,
		"analysis_type": out.AnalysisType,
		"word_count":    out.WordCount,
	}
	for k, v := range out.Result {
		body[k] = v
	}
	c.JSON(http.StatusOK, body)
}

// ListDocuments lists all stored documents, newest first.
func (h *Handler) ListDocuments(c *gin.Context) {
	docs := h.documents.ListDocuments()
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"documents": docs,
		"total":     len(docs),
	})
}

// DeleteDocument removes a document from storage.
func (h *Handler) DeleteDocument(c *gin.Context) {
	filename, err := h.documents.DeleteDocument(c.Param("document_id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": fmt.Sprintf("Document '%s' deleted successfully", filename),
	})
}
