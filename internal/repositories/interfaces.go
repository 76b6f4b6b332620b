package repositories

import (
	"github.com/SAP-F-2025/question-service/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

type QuestionFilters struct {
	Type            *models.QuestionType `json:"type"`
	CreatedBy       *string              `json:"created_by"`
	HasAnswerConfig *bool                `json:"has_answer_config"`
	Search          string               `json:"search"`
	Limit           int                  `json:"limit"`
	Offset          int                  `json:"offset"`
	SortBy          string               `json:"sort_by"`    // "created_at", "updated_at", "points", "id"
	SortOrder       string               `json:"sort_order"` // "asc", "desc"
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Normalize clamps paging and sorting to supported values.
func (f QuestionFilters) Normalize() QuestionFilters {
	if f.Limit <= 0 {
		f.Limit = DefaultPageSize
	}
	if f.Limit > MaxPageSize {
		f.Limit = MaxPageSize
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	switch f.SortBy {
	case "created_at", "updated_at", "points", "id":
	default:
		f.SortBy = "created_at"
	}
	if f.SortOrder != "asc" {
		f.SortOrder = "desc"
	}
	return f
}
