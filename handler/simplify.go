package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SimplifyRequest is the body of POST /simplify.
type SimplifyRequest struct {
	Text string `json:"text" binding:"required"`
}

// TranslateRequest is the body of POST /translate.
type TranslateRequest struct {
	Result         map[string]any `json:"result" binding:"required"`
	TargetLanguage string         `json:"target_language"`
}

// Simplify rewrites a legal clause for a general audience.
func (h *Handler) Simplify(c *gin.Context) {
	var req SimplifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.simplify.Simplify(c.Request.Context(), req.Text)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Translate translates the string values of a result object into the target
// language, returning the object unchanged when no translation applies.
func (h *Handler) Translate(c *gin.Context) {
	var req TranslateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.simplify.Translate(c.Request.Context(), req.Result, req.TargetLanguage)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
