package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"nyai-server/internal/extract"
	"nyai-server/internal/usecase"
)

type stubChatService struct {
	chatOut usecase.ChatOutput
	chatErr error

	listOut usecase.ConversationListOutput
	getOut  usecase.ConversationOutput
	getErr  error
	newOut  usecase.NewConversationOutput

	deleteErr    error
	setActiveErr error

	lastUserID         string
	lastConversationID string
}

func (s *stubChatService) Chat(_ context.Context, in usecase.ChatInput) (usecase.ChatOutput, error) {
	s.lastUserID = in.UserID
	s.lastConversationID = in.ConversationID
	return s.chatOut, s.chatErr
}

func (s *stubChatService) ListConversations(userID string) usecase.ConversationListOutput {
	s.lastUserID = userID
	return s.listOut
}

func (s *stubChatService) GetConversation(userID, conversationID string) (usecase.ConversationOutput, error) {
	s.lastUserID = userID
	s.lastConversationID = conversationID
	return s.getOut, s.getErr
}

func (s *stubChatService) NewConversation(userID string) usecase.NewConversationOutput {
	s.lastUserID = userID
	return s.newOut
}

func (s *stubChatService) DeleteConversation(userID, conversationID string) error {
	s.lastUserID = userID
	s.lastConversationID = conversationID
	return s.deleteErr
}

func (s *stubChatService) SetActiveConversation(userID, conversationID string) error {
	s.lastUserID = userID
	s.lastConversationID = conversationID
	return s.setActiveErr
}

type stubDocumentService struct {
	uploadOut   usecase.UploadOutput
	uploadErr   error
	questionOut usecase.QuestionOutput
	questionErr error
	analyzeOut  usecase.AnalyzeOutput
	analyzeErr  error
	listOut     []usecase.DocumentSummary
	deleteName  string
	deleteErr   error

	lastDocumentID string
}

func (s *stubDocumentService) Upload(_ context.Context, _ usecase.UploadInput) (usecase.UploadOutput, error) {
	return s.uploadOut, s.uploadErr
}

func (s *stubDocumentService) Question(_ context.Context, in usecase.QuestionInput) (usecase.QuestionOutput, error) {
	s.lastDocumentID = in.DocumentID
	return s.questionOut, s.questionErr
}

func (s *stubDocumentService) Analyze(_ context.Context, in usecase.AnalyzeInput) (usecase.AnalyzeOutput, error) {
	if s.analyzeErr == nil {
		s.analyzeOut.AnalysisType = in.AnalysisType
	}
	return s.analyzeOut, s.analyzeErr
}

func (s *stubDocumentService) ListDocuments() []usecase.DocumentSummary { return s.listOut }

func (s *stubDocumentService) DeleteDocument(documentID string) (string, error) {
	s.lastDocumentID = documentID
	return s.deleteName, s.deleteErr
}

type stubSimplifyService struct {
	simplifyOut  map[string]any
	simplifyErr  error
	translateOut map[string]any
	translateErr error

	lastText   string
	lastTarget string
}

func (s *stubSimplifyService) Simplify(_ context.Context, text string) (map[string]any, error) {
	s.lastText = text
	return s.simplifyOut, s.simplifyErr
}

func (s *stubSimplifyService) Translate(_ context.Context, _ map[string]any, targetLanguage string) (map[string]any, error) {
	s.lastTarget = targetLanguage
	return s.translateOut, s.translateErr
}

type fixture struct {
	chat      *stubChatService
	documents *stubDocumentService
	simplify  *stubSimplifyService
	router    *gin.Engine
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := &fixture{
		chat:      &stubChatService{},
		documents: &stubDocumentService{},
		simplify:  &stubSimplifyService{},
	}
	h, err := New(f.chat, f.documents, f.simplify, extract.Capabilities{PDF: true, Docx: true}, true, nil)
	require.NoError(t, err)

	f.router = gin.New()
	f.router.Use(RequestID())
	h.Register(f.router)
	return f
}

func (f *fixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestNew_Validation(t *testing.T) {
	_, err := New(nil, &stubDocumentService{}, &stubSimplifyService{}, extract.Capabilities{}, false, nil)
	require.Error(t, err)
	_, err = New(&stubChatService{}, nil, &stubSimplifyService{}, extract.Capabilities{}, false, nil)
	require.Error(t, err)
	_, err = New(&stubChatService{}, &stubDocumentService{}, nil, extract.Capabilities{}, false, nil)
	require.Error(t, err)
}

func TestHealth(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	require.Equal(t, "healthy", body["status"])
	require.Equal(t, true, body["gemini"])
	require.Equal(t, true, body["pdf_support"])
	require.Equal(t, true, body["docx_support"])
	require.Equal(t, false, body["ocr_support"])
	require.NotZero(t, body["timestamp"])
}

func TestChat(t *testing.T) {
	f := newFixture(t)
	f.chat.chatOut = usecase.ChatOutput{
		Response:          "an answer",
		ConversationID:    "alice_1",
		ConversationTitle: "A Title",
	}

	w := f.do(t, http.MethodPost, "/chat", `{"message":"hi","user_id":"alice"}`)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	require.Equal(t, "an answer", body["response"])
	require.Equal(t, "alice_1", body["conversation_id"])
	require.Equal(t, "A Title", body["conversation_title"])
	require.Equal(t, "alice", f.chat.lastUserID)
}

func TestChat_MissingMessage(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodPost, "/chat", `{"user_id":"alice"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, decodeBody(t, w), "detail")
}

func TestChat_NotFoundConversation(t *testing.T) {
	f := newFixture(t)
	f.chat.chatErr = &usecase.Error{Code: usecase.ErrorNotFound, Detail: "Conversation not found"}

	w := f.do(t, http.MethodPost, "/chat", `{"message":"hi","conversation_id":"missing"}`)
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, "Conversation not found", decodeBody(t, w)["detail"])
}

func TestListConversations(t *testing.T) {
	f := newFixture(t)
	f.chat.listOut = usecase.ConversationListOutput{
		Conversations: []usecase.ConversationSummary{
			{ID: "alice_2", Title: "newest", UpdatedAt: 20},
			{ID: "alice_1", Title: "older", UpdatedAt: 10},
		},
		ActiveConversation: "alice_2",
	}

	w := f.do(t, http.MethodGet, "/conversations/alice", "")
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	require.Equal(t, "alice_2", body["active_conversation"])
	require.Len(t, body["conversations"], 2)
	require.Equal(t, "alice", f.chat.lastUserID)
}

func TestListConversations_NoActiveIsNull(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodGet, "/conversations/alice", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"active_conversation":null`)
}

func TestGetConversation_NotFound(t *testing.T) {
	f := newFixture(t)
	f.chat.getErr = &usecase.Error{Code: usecase.ErrorNotFound, Detail: "Conversation not found"}

	w := f.do(t, http.MethodGet, "/conversations/alice/missing", "")
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestNewConversation(t *testing.T) {
	f := newFixture(t)
	f.chat.newOut = usecase.NewConversationOutput{ConversationID: "alice_9", Title: "New Conversation"}

	w := f.do(t, http.MethodPost, "/conversations/alice/new", "")
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	require.Equal(t, "alice_9", body["conversation_id"])
	require.Equal(t, "New Conversation", body["title"])
}

func TestDeleteConversation(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodDelete, "/conversations/alice/alice_1", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "Conversation deleted successfully", decodeBody(t, w)["message"])
	require.Equal(t, "alice_1", f.chat.lastConversationID)
}

func TestSetActiveConversation(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodPut, "/conversations/alice/active?conversation_id=alice_1", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "Active conversation updated", decodeBody(t, w)["message"])
	require.Equal(t, "alice_1", f.chat.lastConversationID)
}

func TestSetActiveConversation_MissingQueryParam(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodPut, "/conversations/alice/active", "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "conversation_id is required", decodeBody(t, w)["detail"])
}

func TestUpload(t *testing.T) {
	f := newFixture(t)
	f.documents.uploadOut = usecase.UploadOutput{
		DocumentID: "doc_42",
		Filename:   "lease.pdf",
		WordCount:  100,
		CharCount:  640,
		Analysis:   map[string]any{"document_type": "contract"},
	}

	w := f.do(t, http.MethodPost, "/upload", `{"content":"ZGF0YQ==","filename":"lease.pdf","content_type":"application/pdf"}`)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	require.Equal(t, true, body["success"])
	require.Equal(t, "doc_42", body["document_id"])
	require.Equal(t, float64(100), body["word_count"])
}

func TestUpload_ErrorStatusMapping(t *testing.T) {
	cases := []struct {
		code   usecase.ErrorCode
		status int
	}{
		{usecase.ErrorInvalidInput, http.StatusBadRequest},
		{usecase.ErrorDecode, http.StatusBadRequest},
		{usecase.ErrorPayloadTooLarge, http.StatusBadRequest},
		{usecase.ErrorEmptyDocument, http.StatusBadRequest},
		{usecase.ErrorCapabilityUnavailable, http.StatusInternalServerError},
		{usecase.ErrorModelUnconfigured, http.StatusInternalServerError},
		{usecase.ErrorUpstream, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(string(tc.code), func(t *testing.T) {
			f := newFixture(t)
			f.documents.uploadErr = &usecase.Error{Code: tc.code, Detail: "boom"}

			w := f.do(t, http.MethodPost, "/upload", `{"content":"x","filename":"a.txt","content_type":"text/plain"}`)
			require.Equal(t, tc.status, w.Code)
			require.Equal(t, "boom", decodeBody(t, w)["detail"])
		})
	}
}

func TestUpload_MissingFields(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodPost, "/upload", `{"filename":"a.txt"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestQuestion(t *testing.T) {
	f := newFixture(t)
	f.documents.questionOut = usecase.QuestionOutput{
		Question:     "why?",
		DocumentID:   "doc_42",
		DocumentName: "lease.pdf",
		Result:       map[string]any{"answer": "because", "confidence": "high"},
	}

	w := f.do(t, http.MethodPost, "/question", `{"question":"why?","document_id":"doc_42"}`)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	require.Equal(t, true, body["success"])
	require.Equal(t, "because", body["answer"])
	require.Equal(t, "high", body["confidence"])
	require.Equal(t, "lease.pdf", body["document_name"])
	require.Equal(t, "doc_42", f.documents.lastDocumentID)
}

func TestQuestion_UntypedErrorIsGeneric500(t *testing.T) {
	f := newFixture(t)
	f.documents.questionErr = context.DeadlineExceeded

	w := f.do(t, http.MethodPost, "/question", `{"question":"why?","document_id":"doc_42"}`)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.Equal(t, "internal server error", decodeBody(t, w)["detail"])
}

func TestAnalyze_DefaultsToSummary(t *testing.T) {
	f := newFixture(t)
	f.documents.analyzeOut = usecase.AnalyzeOutput{
		Filename:  "a.txt",
		WordCount: 3,
		Result:    map[string]any{"executive_summary": "short"},
	}

	w := f.do(t, http.MethodPost, "/analyze", `{"content":"x","filename":"a.txt","content_type":"text/plain"}`)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	require.Equal(t, "summary", body["analysis_type"])
	require.Equal(t, "short", body["executive_summary"])
}

func TestListDocuments(t *testing.T) {
	f := newFixture(t)
	f.documents.listOut = []usecase.DocumentSummary{
		{DocumentID: "doc_2", Filename: "new.txt"},
		{DocumentID: "doc_1", Filename: "old.txt"},
	}

	w := f.do(t, http.MethodGet, "/documents", "")
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	require.Equal(t, true, body["success"])
	require.Equal(t, float64(2), body["total"])
	require.Len(t, body["documents"], 2)
}

func TestDeleteDocument(t *testing.T) {
	f := newFixture(t)
	f.documents.deleteName = "lease.pdf"

	w := f.do(t, http.MethodDelete, "/documents/doc_42", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "Document 'lease.pdf' deleted successfully", decodeBody(t, w)["message"])
	require.Equal(t, "doc_42", f.documents.lastDocumentID)
}

func TestDeleteDocument_NotFound(t *testing.T) {
	f := newFixture(t)
	f.documents.deleteErr = &usecase.Error{Code: usecase.ErrorNotFound, Detail: "Document not found"}

	w := f.do(t, http.MethodDelete, "/documents/doc_42", "")
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestSimplify(t *testing.T) {
	f := newFixture(t)
	f.simplify.simplifyOut = map[string]any{
		"simplified_explanation": "plain words",
		"real_life_example":      "an example",
	}

	w := f.do(t, http.MethodPost, "/simplify", `{"text":"the parties hereby agree"}`)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	require.Equal(t, "plain words", body["simplified_explanation"])
	require.Equal(t, "the parties hereby agree", f.simplify.lastText)
}

func TestSimplify_InvalidStatement(t *testing.T) {
	f := newFixture(t)
	f.simplify.simplifyErr = &usecase.Error{Code: usecase.ErrorInvalidInput, Detail: "This does not appear to be a valid legal statement."}

	w := f.do(t, http.MethodPost, "/simplify", `{"text":"hello"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "This does not appear to be a valid legal statement.", decodeBody(t, w)["detail"])
}

func TestTranslate(t *testing.T) {
	f := newFixture(t)
	f.simplify.translateOut = map[string]any{"simplified_explanation": "translated"}

	w := f.do(t, http.MethodPost, "/translate", `{"result":{"simplified_explanation":"original"},"target_language":"Hindi"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "translated", decodeBody(t, w)["simplified_explanation"])
	require.Equal(t, "Hindi", f.simplify.lastTarget)
}

func TestTranslate_MissingResult(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodPost, "/translate", `{"target_language":"Hindi"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRequestIDHeader(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodGet, "/health", "")
	require.NotEmpty(t, w.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "fixed-id")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	require.Equal(t, "fixed-id", rec.Header().Get("X-Request-ID"))
}
