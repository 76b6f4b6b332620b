package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/SAP-F-2025/question-service/internal/models"
	"github.com/SAP-F-2025/question-service/internal/repositories"
	"github.com/SAP-F-2025/question-service/internal/services"
	"github.com/SAP-F-2025/question-service/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"
)

const defaultPageSize = 20

type QuestionHandler struct {
	BaseHandler
	questionService services.QuestionService
}

func NewQuestionHandler(questionService services.QuestionService, logger utils.Logger) *QuestionHandler {
	return &QuestionHandler{
		BaseHandler:     NewBaseHandler(logger),
		questionService: questionService,
	}
}

// CreateQuestion creates a new question
// @Summary Create question
// @Tags questions
// @Accept json
// @Produce json
// @Param question body services.CreateQuestionRequest true "Question data"
// @Success 201 {object} services.QuestionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /questions [post]
func (h *QuestionHandler) CreateQuestion(c *gin.Context) {
	h.LogRequest(c, "Creating question")

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req services.CreateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", err, err.Error())
		return
	}

	question, err := h.questionService.Create(c.Request.Context(), &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, question)
}

// GetQuestion retrieves a question by ID
// @Summary Get question
// @Tags questions
// @Produce json
// @Param id path uint true "Question ID"
// @Success 200 {object} services.QuestionResponse
// @Failure 404 {object} ErrorResponse
// @Router /questions/{id} [get]
func (h *QuestionHandler) GetQuestion(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
		return
	}

	question, err := h.questionService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, question)
}

// UpdateQuestion updates an existing question
// @Summary Update question
// @Tags questions
// @Accept json
// @Produce json
// @Param id path uint true "Question ID"
// @Param question body services.UpdateQuestionRequest true "Question update data"
// @Success 200 {object} services.QuestionResponse
// @Router /questions/{id} [put]
func (h *QuestionHandler) UpdateQuestion(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Updating question", "question_id", id)

	var req services.UpdateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", err, err.Error())
		return
	}

	question, err := h.questionService.Update(c.Request.Context(), id, &req, getUserID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, question)
}

// DeleteQuestion deletes a question
// @Summary Delete question
// @Tags questions
// @Param id path uint true "Question ID"
// @Success 204
// @Router /questions/{id} [delete]
func (h *QuestionHandler) DeleteQuestion(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Deleting question", "question_id", id)

	if err := h.questionService.Delete(c.Request.Context(), id, getUserID(c)); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListQuestions lists questions with filtering and pagination
// @Summary List questions
// @Tags questions
// @Produce json
// @Param type query string false "Question type"
// @Param creator_id query string false "Creator"
// @Param has_answer_config query bool false "Only questions with (or without) a stored answer config"
// @Param search query string false "Text search"
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(20)
// @Success 200 {object} services.QuestionListResponse
// @Router /questions [get]
func (h *QuestionHandler) ListQuestions(c *gin.Context) {
	filters, err := parseQuestionFilters(c)
	if err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid query parameters", err, err.Error())
		return
	}

	questions, err := h.questionService.List(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, questions)
}

// ===== ANSWER CONFIG ENDPOINTS =====

// GetAnswerConfig returns the question's answer config, synthesized from the
// legacy columns when none is stored.
// @Summary Get answer config
// @Tags answer-config
// @Produce json
// @Param id path uint true "Question ID"
// @Success 200 {object} services.AnswerConfigResponse
// @Failure 422 {object} ErrorResponse
// @Router /questions/{id}/answer-config [get]
func (h *QuestionHandler) GetAnswerConfig(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
		return
	}

	cfg, err := h.questionService.GetAnswerConfig(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, cfg)
}

// UpdateAnswerConfig stores a new answer config. The request body is the
// config object itself; a JSON null clears it.
// @Summary Replace answer config
// @Tags answer-config
// @Accept json
// @Produce json
// @Param id path uint true "Question ID"
// @Success 200 {object} services.AnswerConfigResponse
// @Failure 400 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /questions/{id}/answer-config [put]
func (h *QuestionHandler) UpdateAnswerConfig(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Updating answer config", "question_id", id)

	body, err := c.GetRawData()
	if err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", err, err.Error())
		return
	}

	cfg, err := h.questionService.UpdateAnswerConfig(c.Request.Context(), id, body, getUserID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, cfg)
}

// NormalizeAnswerConfig previews the normalized config without storing it.
// @Summary Normalize answer config
// @Tags answer-config
// @Accept json
// @Produce json
// @Param request body services.NormalizeAnswerConfigRequest true "Config and legacy fields"
// @Success 200 {object} services.AnswerConfigResponse
// @Router /answer-configs/normalize [post]
func (h *QuestionHandler) NormalizeAnswerConfig(c *gin.Context) {
	var req services.NormalizeAnswerConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", err, err.Error())
		return
	}

	cfg, err := h.questionService.PreviewAnswerConfig(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, cfg)
}

// CheckAnswer grades a single response against the question's answer config.
// @Summary Check answer
// @Tags answer-config
// @Accept json
// @Produce json
// @Param id path uint true "Question ID"
// @Param request body services.CheckAnswerRequest true "Response"
// @Success 200 {object} services.CheckAnswerResponse
// @Router /questions/{id}/check [post]
func (h *QuestionHandler) CheckAnswer(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.CheckAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", err, err.Error())
		return
	}

	result, err := h.questionService.CheckAnswer(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// MigrateLegacy stores normalized configs for questions that only have the
// legacy answer columns.
// @Summary Migrate legacy answer columns
// @Tags answer-config
// @Accept json
// @Produce json
// @Param request body services.MigrateLegacyOptions false "Batch size and dry run flag"
// @Success 200 {object} models.MigrationReport
// @Router /questions/migrate-legacy [post]
func (h *QuestionHandler) MigrateLegacy(c *gin.Context) {
	h.LogRequest(c, "Migrating legacy answer configs")

	var opts services.MigrateLegacyOptions
	if err := c.ShouldBindJSON(&opts); err != nil && !errors.Is(err, io.EOF) {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", err, err.Error())
		return
	}

	report, err := h.questionService.MigrateLegacy(c.Request.Context(), opts)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

func parseQuestionFilters(c *gin.Context) (repositories.QuestionFilters, error) {
	page := parseIntQuery(c, "page", 1)
	if page < 1 {
		page = 1
	}
	size := parseIntQuery(c, "size", defaultPageSize)

	filters := repositories.QuestionFilters{
		Limit:     size,
		Offset:    (page - 1) * size,
		Search:    strings.TrimSpace(c.Query("search")),
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}

	if questionType := c.Query("type"); questionType != "" {
		qType := models.QuestionType(questionType)
		if !qType.Valid() {
			return filters, fmt.Errorf("invalid question type %q", questionType)
		}
		filters.Type = &qType
	}

	if creatorID := c.Query("creator_id"); creatorID != "" {
		filters.CreatedBy = &creatorID
	}

	if raw := c.Query("has_answer_config"); raw != "" {
		hasConfig, err := cast.ToBoolE(raw)
		if err != nil {
			return filters, fmt.Errorf("invalid has_answer_config %q", raw)
		}
		filters.HasAnswerConfig = &hasConfig
	}

	return filters, nil
}
