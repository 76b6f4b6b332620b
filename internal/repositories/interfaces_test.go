package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuestionFilters_Normalize(t *testing.T) {
	tests := []struct {
		name string
		in   QuestionFilters
		want QuestionFilters
	}{
		{
			name: "defaults",
			in:   QuestionFilters{},
			want: QuestionFilters{Limit: DefaultPageSize, SortBy: "created_at", SortOrder: "desc"},
		},
		{
			name: "clamps limit and offset",
			in:   QuestionFilters{Limit: 1000, Offset: -5, SortBy: "points", SortOrder: "asc"},
			want: QuestionFilters{Limit: MaxPageSize, SortBy: "points", SortOrder: "asc"},
		},
		{
			name: "rejects unknown sort column",
			in:   QuestionFilters{Limit: 10, SortBy: "text; DROP TABLE questions", SortOrder: "sideways"},
			want: QuestionFilters{Limit: 10, SortBy: "created_at", SortOrder: "desc"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.Normalize())
		})
	}
}
