package models

import (
	"bytes"
	"time"

	"github.com/SAP-F-2025/question-service/internal/answerconfig"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type QuestionType = answerconfig.QuestionType

const (
	MultipleChoice = answerconfig.MultipleChoice
	FillInBlank    = answerconfig.FillBlank
	Essay          = answerconfig.Essay
)

type Question struct {
	ID     uint         `json:"id" gorm:"primaryKey"`
	Type   QuestionType `json:"type" gorm:"not null;index;size:32"`
	Text   string       `json:"text" gorm:"type:text;not null"`
	Points int          `json:"points" gorm:"default:10"`

	// Legacy answer columns, read only to synthesize an answer config for
	// questions saved before AnswerConfig existed.
	Options       datatypes.JSON `json:"options,omitempty" gorm:"type:jsonb"`
	CorrectAnswer *string        `json:"correct_answer,omitempty" gorm:"type:text"`

	// Normalized answer key; NULL until one is saved.
	AnswerConfig datatypes.JSON `json:"answer_config" gorm:"type:jsonb"`

	Explanation *string        `json:"explanation" gorm:"type:text"`
	CreatedBy   string         `json:"created_by" gorm:"not null;index;size:255"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Question) TableName() string {
	return "questions"
}

// RawAttributes exposes the row's type and legacy answer columns.
func (q *Question) RawAttributes() answerconfig.RawAttributes {
	raw := answerconfig.RawAttributes{Type: string(q.Type)}
	if len(q.Options) > 0 {
		raw.Options = []byte(q.Options)
	}
	if q.CorrectAnswer != nil {
		raw.CorrectAnswer = *q.CorrectAnswer
	}
	return raw
}

// LoadAnswerConfig returns the question's answer config, falling back to the
// legacy columns when none is stored. Both results are nil when the question
// has neither.
func (q *Question) LoadAnswerConfig() (answerconfig.Config, error) {
	var stored any
	if len(q.AnswerConfig) > 0 {
		stored = []byte(q.AnswerConfig)
	}
	return answerconfig.LoadForDisplay(stored, q.RawAttributes())
}

// SetAnswerConfig validates value and stores its normalized form. A nil value
// clears the config.
func (q *Question) SetAnswerConfig(value any) error {
	prepared, err := answerconfig.PrepareForStorage(value, q.RawAttributes())
	if err != nil {
		return err
	}
	q.AnswerConfig = datatypes.JSON(prepared)
	return nil
}

// BeforeSave normalizes the answer config column before every write so the
// table only ever holds validated configs. An invalid config aborts the save.
func (q *Question) BeforeSave(tx *gorm.DB) error {
	if len(bytes.TrimSpace(q.AnswerConfig)) == 0 || bytes.Equal(bytes.TrimSpace(q.AnswerConfig), []byte("null")) {
		q.AnswerConfig = nil
		return nil
	}
	return q.SetAnswerConfig([]byte(q.AnswerConfig))
}
