package services

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/SAP-F-2025/question-service/internal/answerconfig"
	"github.com/SAP-F-2025/question-service/internal/models"
	"github.com/SAP-F-2025/question-service/internal/repositories"
)

// QuestionService manages questions and their answer configs
type QuestionService interface {
	// Core CRUD operations
	Create(ctx context.Context, req *CreateQuestionRequest, creatorID string) (*QuestionResponse, error)
	GetByID(ctx context.Context, id uint) (*QuestionResponse, error)
	Update(ctx context.Context, id uint, req *UpdateQuestionRequest, actorID string) (*QuestionResponse, error)
	Delete(ctx context.Context, id uint, actorID string) error
	List(ctx context.Context, filters repositories.QuestionFilters) (*QuestionListResponse, error)

	// Answer config operations
	GetAnswerConfig(ctx context.Context, id uint) (*AnswerConfigResponse, error)
	UpdateAnswerConfig(ctx context.Context, id uint, raw json.RawMessage, actorID string) (*AnswerConfigResponse, error)
	PreviewAnswerConfig(ctx context.Context, req *NormalizeAnswerConfigRequest) (*AnswerConfigResponse, error)
	CheckAnswer(ctx context.Context, id uint, req *CheckAnswerRequest) (*CheckAnswerResponse, error)

	// MigrateLegacy stores a normalized config for every question that only
	// has legacy answer columns.
	MigrateLegacy(ctx context.Context, opts MigrateLegacyOptions) (*models.MigrationReport, error)
}

// ImportExportService moves questions in and out of spreadsheets
type ImportExportService interface {
	ImportQuestions(ctx context.Context, reader io.Reader, filename string, creatorID string) (*models.ImportSummary, error)
	ExportQuestionsToExcel(ctx context.Context, questionIDs []uint) ([]byte, error)
}

// ===== REQUEST TYPES =====

type CreateQuestionRequest struct {
	Type        models.QuestionType `json:"type" validate:"required,question_type"`
	Text        string              `json:"text" validate:"required,max=10000"`
	Points      int                 `json:"points" validate:"omitempty,points_range"`
	Explanation *string             `json:"explanation,omitempty" validate:"omitempty,max=5000"`

	// Legacy answer fields. Used only when AnswerConfig is absent.
	Options       []string `json:"options,omitempty" validate:"omitempty,max=50"`
	CorrectAnswer *string  `json:"correct_answer,omitempty"`

	AnswerConfig json.RawMessage `json:"answer_config,omitempty"`
}

type UpdateQuestionRequest struct {
	Text        *string `json:"text,omitempty" validate:"omitempty,min=1,max=10000"`
	Points      *int    `json:"points,omitempty" validate:"omitempty,points_range"`
	Explanation *string `json:"explanation,omitempty" validate:"omitempty,max=5000"`

	// AnswerConfig replaces the stored config when present. A JSON null
	// clears it.
	AnswerConfig json.RawMessage `json:"answer_config,omitempty"`
}

// NormalizeAnswerConfigRequest previews what would be stored for a question
// with the given type, answer config and legacy columns.
type NormalizeAnswerConfigRequest struct {
	Type          models.QuestionType `json:"type" validate:"omitempty,question_type"`
	AnswerConfig  json.RawMessage     `json:"answer_config,omitempty"`
	Options       json.RawMessage     `json:"options,omitempty"`
	CorrectAnswer string              `json:"correct_answer,omitempty"`
}

type CheckAnswerRequest struct {
	Response any `json:"response"`
}

type MigrateLegacyOptions struct {
	BatchSize int  `json:"batch_size"`
	DryRun    bool `json:"dry_run"`
}

// ===== RESPONSE TYPES =====

// AnswerConfigSource tells where a displayed answer config came from.
type AnswerConfigSource string

const (
	SourceStored AnswerConfigSource = "stored"
	SourceLegacy AnswerConfigSource = "legacy"
	SourceNone   AnswerConfigSource = "none"
)

type QuestionResponse struct {
	ID          uint                `json:"id"`
	Type        models.QuestionType `json:"type"`
	Text        string              `json:"text"`
	Points      int                 `json:"points"`
	Explanation *string             `json:"explanation,omitempty"`
	CreatedBy   string              `json:"created_by"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`

	AnswerConfig       answerconfig.Config `json:"answer_config"`
	AnswerConfigSource AnswerConfigSource  `json:"answer_config_source"`
	// AnswerConfigError is set instead of AnswerConfig when the question's
	// config cannot be loaded.
	AnswerConfigError *ValidationError `json:"answer_config_error,omitempty"`
}

type QuestionListResponse struct {
	Questions []*QuestionResponse `json:"questions"`
	Total     int64               `json:"total"`
	Limit     int                 `json:"limit"`
	Offset    int                 `json:"offset"`
}

type AnswerConfigResponse struct {
	QuestionID   uint                `json:"question_id,omitempty"`
	Type         models.QuestionType `json:"type"`
	Source       AnswerConfigSource  `json:"source"`
	AnswerConfig answerconfig.Config `json:"answer_config"`
}

type CheckAnswerResponse struct {
	QuestionID   uint   `json:"question_id"`
	Correct      bool   `json:"correct"`
	Matched      string `json:"matched,omitempty"`
	PointsEarned int    `json:"points_earned"`
	MaxPoints    int    `json:"max_points"`
}
