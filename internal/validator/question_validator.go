package validator

import (
	"fmt"

	apperrors "github.com/SAP-F-2025/question-service/internal/errors"
	"github.com/SAP-F-2025/question-service/internal/models"
)

// QuestionValidator checks whole questions, including their answer config.
type QuestionValidator struct{}

func NewQuestionValidator() *QuestionValidator {
	return &QuestionValidator{}
}

// ValidateQuestion collects every problem with q. The answer config is
// resolved the same way it is displayed, so a legacy-only question passes
// when its legacy columns synthesize a valid config.
func (v *QuestionValidator) ValidateQuestion(q *models.Question) error {
	var errs apperrors.ValidationErrors

	if q.Text == "" {
		errs = append(errs, *apperrors.NewValidationErrorWithRule("text", "is required", "required", q.Text))
	}
	if !q.Type.Valid() {
		errs = append(errs, *apperrors.NewValidationErrorWithRule("type",
			"must be a valid question type (multiple_choice, fill_blank, essay)", "question_type", q.Type))
	}
	if q.Points < MinPoints || q.Points > MaxPoints {
		errs = append(errs, *apperrors.NewValidationErrorWithRule("points",
			fmt.Sprintf("must be between %d and %d", MinPoints, MaxPoints), "points_range", q.Points))
	}

	if q.Type.Valid() {
		if _, err := q.LoadAnswerConfig(); err != nil {
			if cfgErr := apperrors.FromAnswerConfigError(err); cfgErr != nil {
				errs = append(errs, *cfgErr)
			} else {
				return err
			}
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ValidateBatch validates multiple questions
func (v *QuestionValidator) ValidateBatch(questions []*models.Question) error {
	if len(questions) == 0 {
		return fmt.Errorf("question batch cannot be empty")
	}

	for i, question := range questions {
		if err := v.ValidateQuestion(question); err != nil {
			return fmt.Errorf("validation failed for question %d: %w", i+1, err)
		}
	}

	return nil
}
