package answerconfig

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidFormat    = errors.New("answer config must be a JSON object")
	ErrMissingType      = errors.New("answer config type is required")
	ErrTypeMismatch     = errors.New("answer config type does not match question type")
	ErrUnsupportedType  = errors.New("unsupported answer config type")
	ErrInvalidOptions   = errors.New("multiple choice options must be an array")
	ErrIndexOutOfBounds = errors.New("correct index does not reference an option")
	ErrInvalidAnswers   = errors.New("accepted answers must be an array")
	ErrEmptyAnswers     = errors.New("at least one accepted answer is required")

	// ErrManualGrading is returned by Check for question types that cannot be
	// graded automatically.
	ErrManualGrading   = errors.New("question requires manual grading")
	ErrInvalidResponse = errors.New("response does not fit the question type")
)

var errorCodes = map[error]string{
	ErrInvalidFormat:    "invalid_format",
	ErrMissingType:      "missing_type",
	ErrTypeMismatch:     "type_mismatch",
	ErrUnsupportedType:  "unsupported_type",
	ErrInvalidOptions:   "invalid_options",
	ErrIndexOutOfBounds: "index_out_of_bounds",
	ErrInvalidAnswers:   "invalid_answers",
	ErrEmptyAnswers:     "empty_answers",
	ErrManualGrading:    "manual_grading",
	ErrInvalidResponse:  "invalid_response",
}

// Error describes why an answer config was rejected. It unwraps to one of the
// package's sentinel errors, so callers can match with errors.Is.
type Error struct {
	Kind   error
	Field  string
	Value  any
	Detail string
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.Kind.Error(), e.Detail)
}

func (e *Error) Unwrap() error { return e.Kind }

// Code returns a stable machine readable identifier for the failure.
func (e *Error) Code() string {
	if code, ok := errorCodes[e.Kind]; ok {
		return code
	}
	return "invalid_answer_config"
}

func newError(kind error, field string, value any, format string, args ...any) *Error {
	return &Error{
		Kind:   kind,
		Field:  field,
		Value:  value,
		Detail: fmt.Sprintf(format, args...),
	}
}

// IsConfigError reports whether err is a rejection produced by this package.
func IsConfigError(err error) bool {
	var cfgErr *Error
	return errors.As(err, &cfgErr)
}
