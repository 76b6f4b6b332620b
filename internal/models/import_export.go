package models

import "time"

type ImportJobStatus string

const (
	ImportProcessing       ImportJobStatus = "processing"
	ImportCompleted        ImportJobStatus = "completed"
	ImportFailed           ImportJobStatus = "failed"
	ImportValidationFailed ImportJobStatus = "validation_failed"
)

// ImportValidationError points at the spreadsheet cell that made a row fail.
type ImportValidationError struct {
	Row     int    `json:"row"`
	Column  string `json:"column"`
	Message string `json:"message"`
	Value   string `json:"value"`
	Code    string `json:"code"`
}

type ImportSummary struct {
	JobID            string                  `json:"job_id"`
	Status           ImportJobStatus         `json:"status"`
	TotalRows        int                     `json:"total_rows"`
	ProcessedRows    int                     `json:"processed_rows"`
	SuccessCount     int                     `json:"success_count"`
	ErrorCount       int                     `json:"error_count"`
	CreatedQuestions []uint                  `json:"created_questions"`
	Errors           []ImportValidationError `json:"errors"`
	ProcessingTime   time.Duration           `json:"processing_time"`
}

// MigrationFailure records a legacy question whose columns could not be
// turned into a valid answer config.
type MigrationFailure struct {
	QuestionID uint   `json:"question_id"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}

type MigrationReport struct {
	Scanned  int                `json:"scanned"`
	Migrated int                `json:"migrated"`
	Skipped  int                `json:"skipped"`
	Failures []MigrationFailure `json:"failures"`
}
