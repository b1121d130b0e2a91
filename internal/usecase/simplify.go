package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
)

// legalKeywords gates the simplify endpoint: input without any of these is
// rejected as not being a legal statement.
var legalKeywords = []string{
	"agreement", "party", "parties", "clause", "section", "article", "court",
	"shall", "hereto", "indemnify", "liability", "contract", "witness", "behalf",
	"provision", "judgement", "decree", "plaintiff", "defendant", "covenant", "warrant",
	"hereby",
}

const minSimplifyTokens = 8

// ContextFinder supplies optional web context for the simplify prompt. An
// empty result means no context; implementations must never fail the
// request.
type ContextFinder interface {
	FindContext(ctx context.Context, query string) string
}

// SimplifyService simplifies legal clauses and translates result objects.
type SimplifyService struct {
	llm    ModelClient
	finder ContextFinder
	logger *slog.Logger
}

// NewSimplifyService creates a SimplifyService. finder may be nil, in which
// case prompts carry no web context.
func NewSimplifyService(llm ModelClient, finder ContextFinder, logger *slog.Logger) (*SimplifyService, error) {
	if llm == nil {
		return nil, errors.New("usecase: model client must not be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SimplifyService{llm: llm, finder: finder, logger: logger}, nil
}

// Simplify rewrites an Indian legal clause for a general audience, returning
// the structured {simplified_explanation, real_life_example} object.
func (s *SimplifyService) Simplify(ctx context.Context, text string) (map[string]any, error) {
	if !s.llm.Configured() {
		return nil, newError(ErrorModelUnconfigured, "Gemini model not configured. Set GOOGLE_API_KEY.", nil)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, newError(ErrorInvalidInput, "Text is required", nil)
	}
	if !looksLikeLegalStatement(text) {
		return nil, newError(ErrorInvalidInput, "This does not appear to be a valid legal statement.", nil)
	}

	webContext := ""
	if s.finder != nil {
		webContext = s.finder.FindContext(ctx, text)
	}

	result, err := s.llm.GenerateJSON(ctx, buildSimplifyPrompt(text, webContext))
	if err != nil {
		s.logger.Error("simplify model invocation failed", "error", err)
		return nil, newError(ErrorUpstream, "Model error", err)
	}
	return result, nil
}

// Translate translates the string values of a result object into the target
// language. An unset or English target skips the model entirely and any
// failure returns the original object untranslated.
func (s *SimplifyService) Translate(ctx context.Context, result map[string]any, targetLanguage string) (map[string]any, error) {
	if !s.llm.Configured() {
		return nil, newError(ErrorModelUnconfigured, "Gemini model not configured. Set GOOGLE_API_KEY.", nil)
	}

	target := strings.TrimSpace(targetLanguage)
	if target == "" || strings.EqualFold(target, "english") {
		return result, nil
	}

	resultJSON, err := json.Marshal(result)
	if err != nil {
		s.logger.Error("translate marshal failed, returning original", "error", err)
		return result, nil
	}

	translated, err := s.llm.GenerateJSON(ctx, buildTranslatePrompt(target, string(resultJSON)))
	if err != nil {
		s.logger.Warn("translation failed, returning original", "error", err)
		return result, nil
	}
	return translated, nil
}

func looksLikeLegalStatement(text string) bool {
	if len(strings.Fields(text)) < minSimplifyTokens {
		return false
	}
	lower := strings.ToLower(text)
	for _, kw := range legalKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
