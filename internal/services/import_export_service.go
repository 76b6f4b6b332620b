package services

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/SAP-F-2025/question-service/internal/answerconfig"
	apperrors "github.com/SAP-F-2025/question-service/internal/errors"
	"github.com/SAP-F-2025/question-service/internal/events"
	"github.com/SAP-F-2025/question-service/internal/models"
	"github.com/SAP-F-2025/question-service/internal/repositories"
	"github.com/SAP-F-2025/question-service/internal/validator"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"gorm.io/datatypes"
)

const exportSheetName = "Questions"

// Import columns. Headers are matched case-insensitively.
const (
	colType          = "question_type"
	colText          = "question_text"
	colOptions       = "options"
	colCorrectAnswer = "correct_answer"
	colPoints        = "points"
	colExplanation   = "explanation"
	colAnswerConfig  = "answer_config"
)

var requiredImportColumns = []string{colType, colText}

var exportHeaders = []string{
	"ID", "Question Type", "Question Text", "Points", "Correct Answer", "Answer Config", "Explanation", "Error",
}

type importExportService struct {
	repo      repositories.QuestionRepository
	publisher events.EventPublisher
	validator *validator.Validator
	logger    *slog.Logger
}

func NewImportExportService(
	repo repositories.QuestionRepository,
	publisher events.EventPublisher,
	validator *validator.Validator,
	logger *slog.Logger,
) ImportExportService {
	return &importExportService{
		repo:      repo,
		publisher: publisher,
		validator: validator,
		logger:    logger,
	}
}

// ===== IMPORT OPERATIONS =====

// ImportQuestions reads legacy question rows from a CSV or xlsx file. Each
// row's answer config is synthesized from its legacy columns (or taken from
// an answer_config column) and normalized before it is stored. Rows that fail
// are reported and skipped; the rest are created in one batch.
func (s *importExportService) ImportQuestions(ctx context.Context, reader io.Reader, filename string, creatorID string) (*models.ImportSummary, error) {
	start := time.Now()
	s.logger.InfoContext(ctx, "Starting question import", "filename", filename, "creator_id", creatorID)

	var (
		rows [][]string
		err  error
	)
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".csv":
		rows, err = readCSVRows(reader)
	case ".xlsx":
		rows, err = readExcelRows(reader)
	default:
		return nil, fmt.Errorf("%w: %q", ErrImportUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, ErrImportEmptyFile
	}

	headerMap := make(map[string]int, len(rows[0]))
	for i, header := range rows[0] {
		headerMap[strings.ToLower(strings.TrimSpace(header))] = i
	}
	for _, col := range requiredImportColumns {
		if _, ok := headerMap[col]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrImportMissingColumn, col)
		}
	}

	summary := &models.ImportSummary{
		JobID:            uuid.NewString(),
		Status:           models.ImportProcessing,
		CreatedQuestions: []uint{},
		Errors:           []models.ImportValidationError{},
	}

	var questions []*models.Question
	for i, record := range rows[1:] {
		if isBlankRow(record) {
			continue
		}
		summary.TotalRows++
		summary.ProcessedRows++

		rowNum := i + 2
		question, rowErrors := s.parseRow(record, headerMap, rowNum, creatorID)
		if len(rowErrors) > 0 {
			summary.Errors = append(summary.Errors, rowErrors...)
			summary.ErrorCount++
			continue
		}
		questions = append(questions, question)
	}

	if len(questions) > 0 {
		if err := s.repo.CreateBatch(ctx, questions); err != nil {
			summary.Status = models.ImportFailed
			return summary, fmt.Errorf("failed to save imported questions: %w", err)
		}
		for _, q := range questions {
			summary.CreatedQuestions = append(summary.CreatedQuestions, q.ID)
		}
		summary.SuccessCount = len(questions)
	}

	summary.Status = models.ImportCompleted
	if summary.SuccessCount == 0 && summary.ErrorCount > 0 {
		summary.Status = models.ImportValidationFailed
	}
	summary.ProcessingTime = time.Since(start)

	s.logger.InfoContext(ctx, "Question import completed",
		"job_id", summary.JobID,
		"total_rows", summary.TotalRows,
		"success_count", summary.SuccessCount,
		"error_count", summary.ErrorCount)

	if s.publisher != nil && summary.SuccessCount > 0 {
		event := events.NewQuestionsImportedEvent(summary.JobID, summary.CreatedQuestions, summary.ErrorCount, creatorID)
		if err := s.publisher.PublishQuestionEvent(ctx, event); err != nil {
			s.logger.ErrorContext(ctx, "Failed to publish import event", "job_id", summary.JobID, "error", err)
		}
	}

	return summary, nil
}

func (s *importExportService) parseRow(record []string, headerMap map[string]int, rowNum int, creatorID string) (*models.Question, []models.ImportValidationError) {
	getColumn := func(name string) string {
		if index, ok := headerMap[name]; ok && index < len(record) {
			return strings.TrimSpace(record[index])
		}
		return ""
	}

	var rowErrors []models.ImportValidationError
	addError := func(column, message, value, code string) {
		rowErrors = append(rowErrors, models.ImportValidationError{
			Row:     rowNum,
			Column:  column,
			Message: message,
			Value:   value,
			Code:    code,
		})
	}

	question := &models.Question{
		Type:      models.QuestionType(strings.ToLower(getColumn(colType))),
		Text:      getColumn(colText),
		Points:    defaultPoints,
		CreatedBy: creatorID,
	}

	if raw := getColumn(colPoints); raw != "" {
		points, err := strconv.Atoi(raw)
		if err != nil {
			addError(colPoints, "must be a whole number", raw, "numeric")
		} else {
			question.Points = points
		}
	}
	if explanation := getColumn(colExplanation); explanation != "" {
		question.Explanation = &explanation
	}
	if answer := getColumn(colCorrectAnswer); answer != "" {
		question.CorrectAnswer = &answer
	}
	if raw := getColumn(colOptions); raw != "" {
		options, _ := json.Marshal(parseOptionsCell(raw))
		question.Options = datatypes.JSON(options)
	}
	if raw := getColumn(colAnswerConfig); raw != "" {
		if err := question.SetAnswerConfig(raw); err != nil {
			addError(colAnswerConfig, err.Error(), raw, configErrorCode(err))
			return nil, rowErrors
		}
	}

	if err := s.validator.Question().ValidateQuestion(question); err != nil {
		var errs apperrors.ValidationErrors
		if !errors.As(err, &errs) {
			addError("", err.Error(), "", "invalid")
			return nil, rowErrors
		}
		for _, ve := range errs {
			addError(importColumnFor(ve.Field), ve.Message, cellValue(ve.Value), ve.Rule)
		}
	}
	if len(rowErrors) > 0 {
		return nil, rowErrors
	}

	// Store the synthesized config so imported rows never depend on the
	// legacy columns at read time.
	if len(question.AnswerConfig) == 0 {
		cfg, err := question.LoadAnswerConfig()
		if err == nil && cfg != nil {
			stored, err := answerconfig.Marshal(cfg)
			if err == nil {
				question.AnswerConfig = datatypes.JSON(stored)
			}
		}
	}
	return question, nil
}

// parseOptionsCell accepts either a JSON array or a "|" separated list.
func parseOptionsCell(raw string) []string {
	if strings.HasPrefix(raw, "[") {
		return answerconfig.DecodeOptions(raw)
	}
	var options []string
	for _, part := range strings.Split(raw, "|") {
		if part = strings.TrimSpace(part); part != "" {
			options = append(options, part)
		}
	}
	return options
}

func importColumnFor(field string) string {
	switch {
	case field == "type":
		return colType
	case field == "text":
		return colText
	case strings.HasPrefix(field, "answer_config."):
		return colCorrectAnswer
	default:
		return field
	}
}

func cellValue(v interface{}) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

func configErrorCode(err error) string {
	var cfgErr *answerconfig.Error
	if errors.As(err, &cfgErr) {
		return cfgErr.Code()
	}
	return "invalid"
}

func isBlankRow(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func readCSVRows(reader io.Reader) ([][]string, error) {
	csvReader := csv.NewReader(reader)
	csvReader.TrimLeadingSpace = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	return records, nil
}

func readExcelRows(reader io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrImportEmptyFile
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read Excel rows: %w", err)
	}
	return rows, nil
}

// ===== EXPORT OPERATIONS =====

// ExportQuestionsToExcel writes the questions with their normalized answer
// configs. Questions whose config cannot be loaded are exported with the
// failure in the Error column.
func (s *importExportService) ExportQuestionsToExcel(ctx context.Context, questionIDs []uint) ([]byte, error) {
	if len(questionIDs) == 0 {
		return nil, NewValidationError("ids", "at least one question id is required", nil)
	}

	questions, err := s.repo.GetByIDs(ctx, questionIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load questions for export: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), exportSheetName); err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	if err := f.SetSheetRow(exportSheetName, "A1", &exportHeaders); err != nil {
		return nil, fmt.Errorf("failed to write Excel header: %w", err)
	}

	for i, question := range questions {
		row := exportRow(question)
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(exportSheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write Excel row: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}

	s.logger.InfoContext(ctx, "Exported questions", "requested", len(questionIDs), "exported", len(questions))
	return buf.Bytes(), nil
}

func exportRow(question *models.Question) []interface{} {
	explanation := ""
	if question.Explanation != nil {
		explanation = *question.Explanation
	}

	row := []interface{}{
		question.ID,
		string(question.Type),
		question.Text,
		question.Points,
		"",
		"",
		explanation,
		"",
	}

	cfg, err := question.LoadAnswerConfig()
	if err != nil {
		row[7] = err.Error()
		return row
	}
	if cfg == nil {
		return row
	}

	row[4] = correctAnswerText(cfg)
	if stored, err := answerconfig.Marshal(cfg); err == nil {
		row[5] = string(stored)
	}
	return row
}

func correctAnswerText(cfg answerconfig.Config) string {
	switch c := cfg.(type) {
	case answerconfig.MultipleChoiceConfig:
		option, _ := c.CorrectOption()
		return option
	case answerconfig.FillBlankConfig:
		return strings.Join(c.AcceptedAnswers, " | ")
	}
	return ""
}
