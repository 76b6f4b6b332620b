package repositories

import (
	"context"
	"errors"

	"github.com/SAP-F-2025/question-service/internal/models"
)

// ErrNotFound is wrapped by repository lookups that match no row.
var ErrNotFound = errors.New("record not found")

// QuestionRepository interface for question persistence. Writes go through
// the model's BeforeSave hook, so an invalid answer config fails the write.
type QuestionRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, question *models.Question) error
	GetByID(ctx context.Context, id uint) (*models.Question, error)
	Update(ctx context.Context, question *models.Question) error
	Delete(ctx context.Context, id uint) error

	// Bulk operations
	CreateBatch(ctx context.Context, questions []*models.Question) error
	GetByIDs(ctx context.Context, ids []uint) ([]*models.Question, error)

	// Query operations
	List(ctx context.Context, filters QuestionFilters) ([]*models.Question, int64, error)

	// ListWithoutAnswerConfig pages through questions whose answer_config
	// column is NULL, ordered by id, starting after afterID.
	ListWithoutAnswerConfig(ctx context.Context, afterID uint, limit int) ([]*models.Question, error)
}
