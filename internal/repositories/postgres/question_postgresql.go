package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/SAP-F-2025/question-service/internal/models"
	"github.com/SAP-F-2025/question-service/internal/repositories"
	"gorm.io/gorm"
)

const createBatchSize = 100

type QuestionPostgreSQL struct {
	db *gorm.DB
}

func NewQuestionPostgreSQL(db *gorm.DB) repositories.QuestionRepository {
	return &QuestionPostgreSQL{db: db}
}

// ===== BASIC OPERATIONS =====

func (q *QuestionPostgreSQL) Create(ctx context.Context, question *models.Question) error {
	if err := q.db.WithContext(ctx).Create(question).Error; err != nil {
		return fmt.Errorf("failed to create question: %w", err)
	}
	return nil
}

func (q *QuestionPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Question, error) {
	var question models.Question
	if err := q.db.WithContext(ctx).First(&question, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("question %d: %w", id, repositories.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get question: %w", err)
	}
	return &question, nil
}

// Update saves every column. Save runs the BeforeSave hook, which
// re-normalizes the answer config.
func (q *QuestionPostgreSQL) Update(ctx context.Context, question *models.Question) error {
	if err := q.db.WithContext(ctx).Save(question).Error; err != nil {
		return fmt.Errorf("failed to update question: %w", err)
	}
	return nil
}

func (q *QuestionPostgreSQL) Delete(ctx context.Context, id uint) error {
	result := q.db.WithContext(ctx).Delete(&models.Question{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete question: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("question %d: %w", id, repositories.ErrNotFound)
	}
	return nil
}

// ===== BULK OPERATIONS =====

// CreateBatch inserts all questions in one transaction; one invalid answer
// config rolls back the whole batch.
func (q *QuestionPostgreSQL) CreateBatch(ctx context.Context, questions []*models.Question) error {
	if len(questions) == 0 {
		return nil
	}
	err := q.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(questions, createBatchSize).Error
	})
	if err != nil {
		return fmt.Errorf("failed to create questions: %w", err)
	}
	return nil
}

func (q *QuestionPostgreSQL) GetByIDs(ctx context.Context, ids []uint) ([]*models.Question, error) {
	var questions []*models.Question
	if len(ids) == 0 {
		return questions, nil
	}
	if err := q.db.WithContext(ctx).Where("id IN ?", ids).Order("id ASC").Find(&questions).Error; err != nil {
		return nil, fmt.Errorf("failed to get questions: %w", err)
	}
	return questions, nil
}

// ===== QUERY OPERATIONS =====

func (q *QuestionPostgreSQL) List(ctx context.Context, filters repositories.QuestionFilters) ([]*models.Question, int64, error) {
	filters = filters.Normalize()
	query := q.applyFilters(q.db.WithContext(ctx).Model(&models.Question{}), filters)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count questions: %w", err)
	}

	var questions []*models.Question
	err := query.
		Order(fmt.Sprintf("%s %s", filters.SortBy, filters.SortOrder)).
		Limit(filters.Limit).
		Offset(filters.Offset).
		Find(&questions).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list questions: %w", err)
	}
	return questions, total, nil
}

func (q *QuestionPostgreSQL) ListWithoutAnswerConfig(ctx context.Context, afterID uint, limit int) ([]*models.Question, error) {
	if limit <= 0 {
		limit = repositories.DefaultPageSize
	}

	var questions []*models.Question
	err := q.db.WithContext(ctx).
		Where("answer_config IS NULL AND id > ?", afterID).
		Order("id ASC").
		Limit(limit).
		Find(&questions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list questions without answer config: %w", err)
	}
	return questions, nil
}

func (q *QuestionPostgreSQL) applyFilters(query *gorm.DB, filters repositories.QuestionFilters) *gorm.DB {
	if filters.Type != nil {
		query = query.Where("type = ?", *filters.Type)
	}
	if filters.CreatedBy != nil {
		query = query.Where("created_by = ?", *filters.CreatedBy)
	}
	if filters.HasAnswerConfig != nil {
		if *filters.HasAnswerConfig {
			query = query.Where("answer_config IS NOT NULL")
		} else {
			query = query.Where("answer_config IS NULL")
		}
	}
	if filters.Search != "" {
		query = query.Where("text ILIKE ?", "%"+filters.Search+"%")
	}
	return query
}
