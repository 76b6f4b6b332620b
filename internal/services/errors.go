package services

import (
	"errors"

	"github.com/SAP-F-2025/question-service/internal/answerconfig"
	apperrors "github.com/SAP-F-2025/question-service/internal/errors"
	"github.com/SAP-F-2025/question-service/internal/repositories"
)

// ===== COMMON SERVICE ERRORS =====

var (
	ErrNotFound         = errors.New("resource not found")
	ErrUnauthorized     = errors.New("unauthorized access")
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")

	// Question specific errors
	ErrQuestionNotFound     = errors.New("question not found")
	ErrQuestionInvalidType  = errors.New("invalid question type")
	ErrQuestionNotGradable  = errors.New("question cannot be graded automatically")
	ErrQuestionHasNoAnswers = errors.New("question has no answer config")

	// Import specific errors
	ErrImportUnsupportedFormat = errors.New("unsupported import file format")
	ErrImportEmptyFile         = errors.New("import file has no data rows")
	ErrImportMissingColumn     = errors.New("import file is missing a required column")
)

// ===== CUSTOM ERROR TYPES =====

// Use shared validation errors from errors package
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

// ===== ERROR HELPERS =====

func NewValidationError(field, message string, value interface{}) *ValidationError {
	return apperrors.NewValidationError(field, message, value)
}

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrQuestionNotFound) ||
		errors.Is(err, repositories.ErrNotFound)
}

func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// IsValidation checks if error represents a validation failure
func IsValidation(err error) bool {
	if errors.Is(err, ErrValidationFailed) || errors.Is(err, ErrQuestionInvalidType) {
		return true
	}
	var ve apperrors.ValidationErrors
	if errors.As(err, &ve) {
		return true
	}
	var single *apperrors.ValidationError
	return errors.As(err, &single)
}

// IsAnswerConfig checks if error is an answer config rejection
func IsAnswerConfig(err error) bool {
	return answerconfig.IsConfigError(err)
}
