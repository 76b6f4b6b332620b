package validator

import (
	"reflect"
	"strings"

	"github.com/SAP-F-2025/question-service/internal/answerconfig"
	"github.com/go-playground/validator/v10"
)

const (
	MinPoints = 1
	MaxPoints = 100
)

// Validator combines struct tag validation with the question rules.
type Validator struct {
	structValidator   *validator.Validate
	questionValidator *QuestionValidator
}

func New() *Validator {
	structValidator := validator.New()
	registerCustomValidators(structValidator)

	return &Validator{
		structValidator:   structValidator,
		questionValidator: NewQuestionValidator(),
	}
}

// ValidateStruct validates struct tags only
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.structValidator.Struct(s)
}

// Validate runs the struct tags and returns the failures as ValidationErrors.
func (v *Validator) Validate(s interface{}) error {
	if err := v.ValidateStruct(s); err != nil {
		if errs := ToValidationErrors(err); len(errs) > 0 {
			return errs
		}
		return err
	}
	return nil
}

func (v *Validator) Question() *QuestionValidator {
	return v.questionValidator
}

func registerCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("question_type", validateQuestionType)
	validate.RegisterValidation("points_range", validatePointsRange)

	// Report json field names instead of Go field names
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

func validateQuestionType(fl validator.FieldLevel) bool {
	return answerconfig.QuestionType(fl.Field().String()).Valid()
}

func validatePointsRange(fl validator.FieldLevel) bool {
	points := fl.Field().Int()
	return points >= MinPoints && points <= MaxPoints
}
