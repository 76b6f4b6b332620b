package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/SAP-F-2025/question-service/internal/answerconfig"
	"github.com/SAP-F-2025/question-service/internal/models"
	"github.com/SAP-F-2025/question-service/internal/repositories"
	"github.com/SAP-F-2025/question-service/internal/services"
	"github.com/SAP-F-2025/question-service/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockQuestionService struct {
	mock.Mock
}

func (m *MockQuestionService) Create(ctx context.Context, req *services.CreateQuestionRequest, creatorID string) (*services.QuestionResponse, error) {
	args := m.Called(ctx, req, creatorID)
	resp, _ := args.Get(0).(*services.QuestionResponse)
	return resp, args.Error(1)
}

func (m *MockQuestionService) GetByID(ctx context.Context, id uint) (*services.QuestionResponse, error) {
	args := m.Called(ctx, id)
	resp, _ := args.Get(0).(*services.QuestionResponse)
	return resp, args.Error(1)
}

func (m *MockQuestionService) Update(ctx context.Context, id uint, req *services.UpdateQuestionRequest, actorID string) (*services.QuestionResponse, error) {
	args := m.Called(ctx, id, req, actorID)
	resp, _ := args.Get(0).(*services.QuestionResponse)
	return resp, args.Error(1)
}

func (m *MockQuestionService) Delete(ctx context.Context, id uint, actorID string) error {
	return m.Called(ctx, id, actorID).Error(0)
}

func (m *MockQuestionService) List(ctx context.Context, filters repositories.QuestionFilters) (*services.QuestionListResponse, error) {
	args := m.Called(ctx, filters)
	resp, _ := args.Get(0).(*services.QuestionListResponse)
	return resp, args.Error(1)
}

func (m *MockQuestionService) GetAnswerConfig(ctx context.Context, id uint) (*services.AnswerConfigResponse, error) {
	args := m.Called(ctx, id)
	resp, _ := args.Get(0).(*services.AnswerConfigResponse)
	return resp, args.Error(1)
}

func (m *MockQuestionService) UpdateAnswerConfig(ctx context.Context, id uint, raw json.RawMessage, actorID string) (*services.AnswerConfigResponse, error) {
	args := m.Called(ctx, id, raw, actorID)
	resp, _ := args.Get(0).(*services.AnswerConfigResponse)
	return resp, args.Error(1)
}

func (m *MockQuestionService) PreviewAnswerConfig(ctx context.Context, req *services.NormalizeAnswerConfigRequest) (*services.AnswerConfigResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*services.AnswerConfigResponse)
	return resp, args.Error(1)
}

func (m *MockQuestionService) CheckAnswer(ctx context.Context, id uint, req *services.CheckAnswerRequest) (*services.CheckAnswerResponse, error) {
	args := m.Called(ctx, id, req)
	resp, _ := args.Get(0).(*services.CheckAnswerResponse)
	return resp, args.Error(1)
}

func (m *MockQuestionService) MigrateLegacy(ctx context.Context, opts services.MigrateLegacyOptions) (*models.MigrationReport, error) {
	args := m.Called(ctx, opts)
	resp, _ := args.Get(0).(*models.MigrationReport)
	return resp, args.Error(1)
}

type MockImportExportService struct {
	mock.Mock
}

func (m *MockImportExportService) ImportQuestions(ctx context.Context, reader io.Reader, filename string, creatorID string) (*models.ImportSummary, error) {
	args := m.Called(ctx, reader, filename, creatorID)
	resp, _ := args.Get(0).(*models.ImportSummary)
	return resp, args.Error(1)
}

func (m *MockImportExportService) ExportQuestionsToExcel(ctx context.Context, questionIDs []uint) ([]byte, error) {
	args := m.Called(ctx, questionIDs)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}

func withUser(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID != "" {
			c.Set("user_id", userID)
		}
		c.Next()
	}
}

func setupRouter(qs *MockQuestionService, ies *MockImportExportService, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewHandlerManager(qs, ies, utils.NopLogger()).SetupRoutes(router, withUser(userID))
	return router
}

func doRequest(router *gin.Engine, method, path string, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestHealthCheck(t *testing.T) {
	router := setupRouter(new(MockQuestionService), new(MockImportExportService), "")

	w := doRequest(router, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "question-service")
}

func TestQuestionHandler_CreateQuestion(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		qs := new(MockQuestionService)
		qs.On("Create", mock.Anything, mock.MatchedBy(func(req *services.CreateQuestionRequest) bool {
			return req.Type == models.MultipleChoice && string(req.AnswerConfig) != ""
		}), "instructor-1").Return(&services.QuestionResponse{
			ID:                 9,
			Type:               models.MultipleChoice,
			AnswerConfig:       answerconfig.MultipleChoiceConfig{Options: []string{"a", "b"}, CorrectIndex: 0},
			AnswerConfigSource: services.SourceStored,
		}, nil)

		router := setupRouter(qs, new(MockImportExportService), "instructor-1")
		w := doRequest(router, http.MethodPost, "/api/v1/questions",
			`{"type":"multiple_choice","text":"Pick","answer_config":{"type":"multiple_choice","options":["a","b"],"correct_index":0}}`)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"answer_config":{"type":"multiple_choice","options":["a","b"],"correct_index":0}`)
		qs.AssertExpectations(t)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		qs := new(MockQuestionService)
		router := setupRouter(qs, new(MockImportExportService), "")

		w := doRequest(router, http.MethodPost, "/api/v1/questions", `{"type":"essay","text":"Why?"}`)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		qs.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("malformed body", func(t *testing.T) {
		router := setupRouter(new(MockQuestionService), new(MockImportExportService), "instructor-1")

		w := doRequest(router, http.MethodPost, "/api/v1/questions", `{"type":`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestQuestionHandler_ServiceErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "not found",
			err:        fmt.Errorf("%w: record not found", services.ErrQuestionNotFound),
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "validation errors",
			err:        services.ValidationErrors{{Field: "text", Message: "is required", Rule: "required"}},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "malformed config",
			err:        &answerconfig.Error{Kind: answerconfig.ErrInvalidFormat, Field: "answer_config"},
			wantStatus: http.StatusBadRequest,
			wantCode:   "invalid_format",
		},
		{
			name:       "config rejected",
			err:        &answerconfig.Error{Kind: answerconfig.ErrIndexOutOfBounds, Field: "correct_index", Value: 5},
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "index_out_of_bounds",
		},
		{
			name:       "manual grading",
			err:        fmt.Errorf("question 1: %w: %w", services.ErrQuestionNotGradable, answerconfig.ErrManualGrading),
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "manual_grading",
		},
		{
			name:       "no answer config",
			err:        fmt.Errorf("question 1: %w", services.ErrQuestionHasNoAnswers),
			wantStatus: http.StatusConflict,
			wantCode:   "no_answer_config",
		},
		{
			name:       "unexpected",
			err:        fmt.Errorf("failed to get question: %w", io.ErrUnexpectedEOF),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qs := new(MockQuestionService)
			qs.On("GetAnswerConfig", mock.Anything, uint(1)).Return(nil, tt.err)

			router := setupRouter(qs, new(MockImportExportService), "instructor-1")
			w := doRequest(router, http.MethodGet, "/api/v1/questions/1/answer-config", "")

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantCode, decodeError(t, w).Code)
		})
	}
}

func TestQuestionHandler_InvalidID(t *testing.T) {
	qs := new(MockQuestionService)
	router := setupRouter(qs, new(MockImportExportService), "instructor-1")

	for _, path := range []string{"/api/v1/questions/abc", "/api/v1/questions/0"} {
		w := doRequest(router, http.MethodGet, path, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
	}
	qs.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestQuestionHandler_UpdateAnswerConfig(t *testing.T) {
	body := `{"type":"fill_blank","accepted_answers":["Paris"," paris"]}`

	qs := new(MockQuestionService)
	qs.On("UpdateAnswerConfig", mock.Anything, uint(4), json.RawMessage(body), "instructor-1").Return(&services.AnswerConfigResponse{
		QuestionID:   4,
		Type:         models.FillInBlank,
		Source:       services.SourceStored,
		AnswerConfig: answerconfig.FillBlankConfig{AcceptedAnswers: []string{"Paris"}},
	}, nil)

	router := setupRouter(qs, new(MockImportExportService), "instructor-1")
	w := doRequest(router, http.MethodPut, "/api/v1/questions/4/answer-config", body)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t,
		`{"question_id":4,"type":"fill_blank","source":"stored","answer_config":{"type":"fill_blank","accepted_answers":["Paris"]}}`,
		w.Body.String())
	qs.AssertExpectations(t)
}

func TestQuestionHandler_ListQuestions(t *testing.T) {
	t.Run("parses filters", func(t *testing.T) {
		qs := new(MockQuestionService)
		qs.On("List", mock.Anything, mock.MatchedBy(func(f repositories.QuestionFilters) bool {
			return f.Type != nil && *f.Type == models.Essay &&
				f.HasAnswerConfig != nil && !*f.HasAnswerConfig &&
				f.Limit == 5 && f.Offset == 10 && f.Search == "rome"
		})).Return(&services.QuestionListResponse{Questions: []*services.QuestionResponse{}, Total: 0}, nil)

		router := setupRouter(qs, new(MockImportExportService), "instructor-1")
		w := doRequest(router, http.MethodGet, "/api/v1/questions?type=essay&has_answer_config=false&page=3&size=5&search=rome", "")

		assert.Equal(t, http.StatusOK, w.Code)
		qs.AssertExpectations(t)
	})

	t.Run("rejects unknown type", func(t *testing.T) {
		qs := new(MockQuestionService)
		router := setupRouter(qs, new(MockImportExportService), "instructor-1")

		w := doRequest(router, http.MethodGet, "/api/v1/questions?type=true_false", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		qs.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
	})
}

func TestQuestionHandler_CheckAnswer(t *testing.T) {
	qs := new(MockQuestionService)
	qs.On("CheckAnswer", mock.Anything, uint(2), mock.MatchedBy(func(req *services.CheckAnswerRequest) bool {
		return req.Response == " PARIS "
	})).Return(&services.CheckAnswerResponse{QuestionID: 2, Correct: true, Matched: "Paris", PointsEarned: 5, MaxPoints: 5}, nil)

	router := setupRouter(qs, new(MockImportExportService), "student-1")
	w := doRequest(router, http.MethodPost, "/api/v1/questions/2/check", `{"response":" PARIS "}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"correct":true`)
}

func TestQuestionHandler_NormalizeAnswerConfig(t *testing.T) {
	qs := new(MockQuestionService)
	qs.On("PreviewAnswerConfig", mock.Anything, mock.MatchedBy(func(req *services.NormalizeAnswerConfigRequest) bool {
		return req.Type == models.MultipleChoice && req.CorrectAnswer == "b"
	})).Return(&services.AnswerConfigResponse{
		Type:         models.MultipleChoice,
		Source:       services.SourceLegacy,
		AnswerConfig: answerconfig.MultipleChoiceConfig{Options: []string{"a", "b"}, CorrectIndex: 1},
	}, nil)

	router := setupRouter(qs, new(MockImportExportService), "instructor-1")
	w := doRequest(router, http.MethodPost, "/api/v1/answer-configs/normalize",
		`{"type":"multiple_choice","options":["a","b"],"correct_answer":"b"}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"correct_index":1`)
}

func TestQuestionHandler_MigrateLegacy(t *testing.T) {
	report := &models.MigrationReport{Scanned: 3, Migrated: 2, Failures: []models.MigrationFailure{{QuestionID: 7, Code: "index_out_of_bounds"}}}

	t.Run("empty body uses defaults", func(t *testing.T) {
		qs := new(MockQuestionService)
		qs.On("MigrateLegacy", mock.Anything, services.MigrateLegacyOptions{}).Return(report, nil)

		router := setupRouter(qs, new(MockImportExportService), "admin")
		w := doRequest(router, http.MethodPost, "/api/v1/questions/migrate-legacy", "")

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"code":"index_out_of_bounds"`)
	})

	t.Run("dry run", func(t *testing.T) {
		qs := new(MockQuestionService)
		qs.On("MigrateLegacy", mock.Anything, services.MigrateLegacyOptions{BatchSize: 50, DryRun: true}).Return(report, nil)

		router := setupRouter(qs, new(MockImportExportService), "admin")
		w := doRequest(router, http.MethodPost, "/api/v1/questions/migrate-legacy", `{"batch_size":50,"dry_run":true}`)

		assert.Equal(t, http.StatusOK, w.Code)
		qs.AssertExpectations(t)
	})
}

func TestImportExportHandler_ImportQuestions(t *testing.T) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "questions.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte("question_type,question_text\nessay,Why?\n"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	ies := new(MockImportExportService)
	ies.On("ImportQuestions", mock.Anything, mock.Anything, "questions.csv", "instructor-1").
		Return(&models.ImportSummary{JobID: "job-1", Status: models.ImportCompleted, SuccessCount: 1}, nil)

	router := setupRouter(new(MockQuestionService), ies, "instructor-1")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/questions/import", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"job_id":"job-1"`)
	ies.AssertExpectations(t)
}

func TestImportExportHandler_ImportQuestions_MissingFile(t *testing.T) {
	router := setupRouter(new(MockQuestionService), new(MockImportExportService), "instructor-1")

	w := doRequest(router, http.MethodPost, "/api/v1/questions/import", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestImportExportHandler_ExportQuestions(t *testing.T) {
	ies := new(MockImportExportService)
	ies.On("ExportQuestionsToExcel", mock.Anything, []uint{1, 2}).Return([]byte("xlsx-bytes"), nil)

	router := setupRouter(new(MockQuestionService), ies, "instructor-1")

	w := doRequest(router, http.MethodGet, "/api/v1/questions/export?ids=1,%202", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
	assert.Equal(t, "xlsx-bytes", w.Body.String())

	w = doRequest(router, http.MethodGet, "/api/v1/questions/export?ids=1,x", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
