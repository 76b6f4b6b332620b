package handlers

import (
	"errors"
	"net/http"

	"github.com/SAP-F-2025/question-service/internal/answerconfig"
	apperrors "github.com/SAP-F-2025/question-service/internal/errors"
	"github.com/SAP-F-2025/question-service/internal/services"
	"github.com/gin-gonic/gin"
)

// handleServiceError maps service and answer config errors onto HTTP
// responses.
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	var validationErrors services.ValidationErrors
	if errors.As(err, &validationErrors) {
		h.RespondWithError(c, http.StatusBadRequest, "Validation failed", err, validationErrors)
		return
	}

	var validationError *services.ValidationError
	if errors.As(err, &validationError) {
		h.RespondWithError(c, http.StatusBadRequest, "Validation failed", err, services.ValidationErrors{*validationError})
		return
	}

	// Checked before answer config errors: a non-gradable question also
	// carries answerconfig.ErrManualGrading.
	switch {
	case errors.Is(err, services.ErrQuestionNotFound), errors.Is(err, services.ErrNotFound):
		h.RespondWithError(c, http.StatusNotFound, "Question not found", err)
		return
	case errors.Is(err, services.ErrQuestionNotGradable):
		h.respondWithCode(c, http.StatusUnprocessableEntity, "Question requires manual grading", "manual_grading", err)
		return
	case errors.Is(err, services.ErrQuestionHasNoAnswers):
		h.respondWithCode(c, http.StatusConflict, "Question has no answer config", "no_answer_config", err)
		return
	}

	var cfgErr *answerconfig.Error
	if errors.As(err, &cfgErr) {
		status := http.StatusUnprocessableEntity
		if errors.Is(err, answerconfig.ErrInvalidFormat) || errors.Is(err, answerconfig.ErrInvalidResponse) {
			status = http.StatusBadRequest
		}
		h.LogWarn(c, "Answer config rejected", "code", cfgErr.Code(), "error", err)
		c.JSON(status, ErrorResponse{
			Message: "Invalid answer config",
			Code:    cfgErr.Code(),
			Details: apperrors.FromAnswerConfigError(err),
		})
		return
	}

	switch {
	case errors.Is(err, services.ErrImportUnsupportedFormat),
		errors.Is(err, services.ErrImportEmptyFile),
		errors.Is(err, services.ErrImportMissingColumn):
		h.RespondWithError(c, http.StatusBadRequest, "Invalid import file", err, err.Error())
	case errors.Is(err, services.ErrValidationFailed), errors.Is(err, services.ErrQuestionInvalidType):
		h.RespondWithError(c, http.StatusBadRequest, "Validation failed", err, err.Error())
	case errors.Is(err, services.ErrBadRequest):
		h.RespondWithError(c, http.StatusBadRequest, "Bad request", err)
	case errors.Is(err, services.ErrUnauthorized):
		h.RespondWithError(c, http.StatusUnauthorized, "Unauthorized access", err)
	default:
		h.RespondWithError(c, http.StatusInternalServerError, "Internal server error", err)
	}
}

func (h *BaseHandler) respondWithCode(c *gin.Context, status int, message, code string, err error) {
	h.LogWarn(c, message, "status_code", status, "error", err)
	c.JSON(status, ErrorResponse{Message: message, Code: code})
}
