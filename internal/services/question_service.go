package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/question-service/internal/answerconfig"
	"github.com/SAP-F-2025/question-service/internal/cache"
	apperrors "github.com/SAP-F-2025/question-service/internal/errors"
	"github.com/SAP-F-2025/question-service/internal/events"
	"github.com/SAP-F-2025/question-service/internal/models"
	"github.com/SAP-F-2025/question-service/internal/repositories"
	"github.com/SAP-F-2025/question-service/internal/validator"
	"gorm.io/datatypes"
)

const (
	defaultPoints             = 10
	defaultMigrationBatchSize = 200
)

type questionService struct {
	repo      repositories.QuestionRepository
	cache     cache.CacheService
	publisher events.EventPublisher
	validator *validator.Validator
	logger    *slog.Logger
	opLogger  *ServiceLogger
	cacheTTL  time.Duration
}

func NewQuestionService(
	repo repositories.QuestionRepository,
	cacheService cache.CacheService,
	publisher events.EventPublisher,
	validator *validator.Validator,
	logger *slog.Logger,
	cacheTTL time.Duration,
) QuestionService {
	if cacheService == nil {
		cacheService = cache.NewNoopCache()
	}
	return &questionService{
		repo:      repo,
		cache:     cacheService,
		publisher: publisher,
		validator: validator,
		logger:    logger,
		opLogger:  NewServiceLogger(logger, "question"),
		cacheTTL:  cacheTTL,
	}
}

// ===== CORE CRUD OPERATIONS =====

func (s *questionService) Create(ctx context.Context, req *CreateQuestionRequest, creatorID string) (resp *QuestionResponse, err error) {
	op := s.opLogger.WithOperation(ctx, "create_question")
	defer func() { op.LogResult(questionID(resp), err) }()

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	question := &models.Question{
		Type:          req.Type,
		Text:          req.Text,
		Points:        req.Points,
		Explanation:   req.Explanation,
		CorrectAnswer: req.CorrectAnswer,
		CreatedBy:     creatorID,
	}
	if question.Points == 0 {
		question.Points = defaultPoints
	}
	if req.Options != nil {
		options, err := json.Marshal(req.Options)
		if err != nil {
			return nil, fmt.Errorf("failed to encode options: %w", err)
		}
		question.Options = datatypes.JSON(options)
	}
	if !isNullJSON(req.AnswerConfig) {
		if err := question.SetAnswerConfig([]byte(req.AnswerConfig)); err != nil {
			return nil, err
		}
	}

	if err := s.validator.Question().ValidateQuestion(question); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, question); err != nil {
		return nil, fmt.Errorf("failed to create question: %w", err)
	}

	s.publish(ctx, events.NewQuestionChangedEvent(events.EventQuestionCreated, question.ID, question.Type, creatorID))
	return s.buildResponse(question), nil
}

func (s *questionService) GetByID(ctx context.Context, id uint) (*QuestionResponse, error) {
	question, err := s.getQuestion(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.buildResponse(question), nil
}

func (s *questionService) Update(ctx context.Context, id uint, req *UpdateQuestionRequest, actorID string) (resp *QuestionResponse, err error) {
	op := s.opLogger.WithOperation(ctx, "update_question")
	defer func() { op.LogResult(id, err) }()

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	question, err := s.loadForWrite(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Text != nil {
		question.Text = *req.Text
	}
	if req.Points != nil {
		question.Points = *req.Points
	}
	if req.Explanation != nil {
		question.Explanation = req.Explanation
	}
	configChanged := req.AnswerConfig != nil
	if configChanged {
		if err := question.SetAnswerConfig(answerConfigValue(req.AnswerConfig)); err != nil {
			return nil, err
		}
	}

	if err := s.validator.Question().ValidateQuestion(question); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, question); err != nil {
		return nil, fmt.Errorf("failed to update question: %w", err)
	}

	s.invalidate(ctx, id)
	s.publish(ctx, events.NewQuestionChangedEvent(events.EventQuestionUpdated, id, question.Type, actorID))
	if configChanged {
		s.publish(ctx, events.NewAnswerConfigUpdatedEvent(id, question.Type, json.RawMessage(question.AnswerConfig), actorID))
	}
	return s.buildResponse(question), nil
}

func (s *questionService) Delete(ctx context.Context, id uint, actorID string) (err error) {
	op := s.opLogger.WithOperation(ctx, "delete_question")
	defer func() { op.LogResult(id, err) }()

	question, err := s.loadForWrite(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.mapRepoError(err, "failed to delete question")
	}

	s.invalidate(ctx, id)
	s.publish(ctx, events.NewQuestionChangedEvent(events.EventQuestionDeleted, id, question.Type, actorID))
	return nil
}

func (s *questionService) List(ctx context.Context, filters repositories.QuestionFilters) (*QuestionListResponse, error) {
	filters = filters.Normalize()

	questions, total, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}

	resp := &QuestionListResponse{
		Questions: make([]*QuestionResponse, 0, len(questions)),
		Total:     total,
		Limit:     filters.Limit,
		Offset:    filters.Offset,
	}
	for _, question := range questions {
		resp.Questions = append(resp.Questions, s.buildResponse(question))
	}
	return resp, nil
}

// ===== ANSWER CONFIG OPERATIONS =====

func (s *questionService) GetAnswerConfig(ctx context.Context, id uint) (*AnswerConfigResponse, error) {
	question, err := s.getQuestion(ctx, id)
	if err != nil {
		return nil, err
	}

	cfg, err := question.LoadAnswerConfig()
	if err != nil {
		s.logger.WarnContext(ctx, "Stored answer config failed to load", "question_id", id, "error", err)
		return nil, err
	}
	return &AnswerConfigResponse{
		QuestionID:   id,
		Type:         question.Type,
		Source:       configSource(question, cfg),
		AnswerConfig: cfg,
	}, nil
}

func (s *questionService) UpdateAnswerConfig(ctx context.Context, id uint, raw json.RawMessage, actorID string) (resp *AnswerConfigResponse, err error) {
	op := s.opLogger.WithOperation(ctx, "update_answer_config")
	defer func() { op.LogResult(id, err) }()

	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, NewValidationError("answer_config", "is required; send null to clear it", nil)
	}

	question, err := s.loadForWrite(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := question.SetAnswerConfig(answerConfigValue(raw)); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, question); err != nil {
		return nil, fmt.Errorf("failed to store answer config: %w", err)
	}

	s.invalidate(ctx, id)
	s.publish(ctx, events.NewAnswerConfigUpdatedEvent(id, question.Type, json.RawMessage(question.AnswerConfig), actorID))

	cfg, err := question.LoadAnswerConfig()
	if err != nil {
		return nil, err
	}
	return &AnswerConfigResponse{
		QuestionID:   id,
		Type:         question.Type,
		Source:       configSource(question, cfg),
		AnswerConfig: cfg,
	}, nil
}

// PreviewAnswerConfig runs the display pipeline on a submitted config
// without touching storage. With no answer_config the legacy fields are used.
func (s *questionService) PreviewAnswerConfig(ctx context.Context, req *NormalizeAnswerConfigRequest) (*AnswerConfigResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	raw := answerconfig.RawAttributes{
		Type:          string(req.Type),
		CorrectAnswer: req.CorrectAnswer,
	}
	if len(req.Options) > 0 {
		raw.Options = []byte(req.Options)
	}

	var stored any
	if !isNullJSON(req.AnswerConfig) {
		stored = []byte(req.AnswerConfig)
	}

	cfg, err := answerconfig.LoadForDisplay(stored, raw)
	if err != nil {
		return nil, err
	}

	resp := &AnswerConfigResponse{Type: req.Type, AnswerConfig: cfg, Source: SourceNone}
	switch {
	case stored != nil:
		resp.Source = SourceStored
	case cfg != nil:
		resp.Source = SourceLegacy
	}
	if resp.Type == "" && cfg != nil {
		resp.Type = cfg.Type()
	}
	return resp, nil
}

func (s *questionService) CheckAnswer(ctx context.Context, id uint, req *CheckAnswerRequest) (*CheckAnswerResponse, error) {
	question, err := s.getQuestion(ctx, id)
	if err != nil {
		return nil, err
	}

	cfg, err := question.LoadAnswerConfig()
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, fmt.Errorf("question %d: %w", id, ErrQuestionHasNoAnswers)
	}

	result, err := answerconfig.Check(cfg, req.Response)
	if errors.Is(err, answerconfig.ErrManualGrading) {
		return nil, fmt.Errorf("question %d: %w: %w", id, ErrQuestionNotGradable, err)
	}
	if err != nil {
		return nil, err
	}

	resp := &CheckAnswerResponse{
		QuestionID: id,
		Correct:    result.Correct,
		Matched:    result.Matched,
		MaxPoints:  question.Points,
	}
	if result.Correct {
		resp.PointsEarned = question.Points
	}
	return resp, nil
}

// ===== LEGACY MIGRATION =====

func (s *questionService) MigrateLegacy(ctx context.Context, opts MigrateLegacyOptions) (report *models.MigrationReport, err error) {
	op := s.opLogger.WithOperation(ctx, "migrate_legacy")
	defer func() { op.LogResult(0, err) }()

	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = defaultMigrationBatchSize
	}

	report = &models.MigrationReport{Failures: []models.MigrationFailure{}}
	var afterID uint
	for {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		batch, err := s.repo.ListWithoutAnswerConfig(ctx, afterID, batchSize)
		if err != nil {
			return report, fmt.Errorf("failed to load legacy questions: %w", err)
		}

		for _, question := range batch {
			afterID = question.ID
			report.Scanned++
			s.migrateQuestion(ctx, question, opts.DryRun, report)
		}

		if len(batch) < batchSize {
			break
		}
	}

	s.logger.InfoContext(ctx, "Legacy answer config migration finished",
		"scanned", report.Scanned,
		"migrated", report.Migrated,
		"skipped", report.Skipped,
		"failed", len(report.Failures),
		"dry_run", opts.DryRun)

	if !opts.DryRun {
		s.publish(ctx, events.NewLegacyMigrationCompletedEvent(report.Scanned, report.Migrated, len(report.Failures)))
	}
	return report, nil
}

func (s *questionService) migrateQuestion(ctx context.Context, question *models.Question, dryRun bool, report *models.MigrationReport) {
	cfg, err := question.LoadAnswerConfig()
	if err == nil && cfg == nil {
		report.Skipped++
		return
	}
	if err == nil {
		var stored json.RawMessage
		if stored, err = answerconfig.Marshal(cfg); err == nil {
			question.AnswerConfig = datatypes.JSON(stored)
			if !dryRun {
				err = s.repo.Update(ctx, question)
			}
		}
	}

	if err != nil {
		failure := models.MigrationFailure{QuestionID: question.ID, Code: "storage_error", Message: err.Error()}
		if cfgErr := apperrors.FromAnswerConfigError(err); cfgErr != nil {
			failure.Code = cfgErr.Rule
		}
		report.Failures = append(report.Failures, failure)
		return
	}

	report.Migrated++
	if !dryRun {
		s.invalidate(ctx, question.ID)
	}
}

// ===== HELPERS =====

// getQuestion reads through the cache. The cached form is the row itself so
// the answer config is re-validated on every read.
func (s *questionService) getQuestion(ctx context.Context, id uint) (*models.Question, error) {
	var cached models.Question
	err := s.cache.Get(ctx, cache.QuestionKey(id), &cached)
	if err == nil {
		return &cached, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.WarnContext(ctx, "Question cache read failed", "question_id", id, "error", err)
	}

	question, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError(err, "failed to get question")
	}

	if err := s.cache.Set(ctx, cache.QuestionKey(id), question, s.cacheTTL); err != nil {
		s.logger.WarnContext(ctx, "Question cache write failed", "question_id", id, "error", err)
	}
	return question, nil
}

// loadForWrite skips the cache so updates start from the stored row.
func (s *questionService) loadForWrite(ctx context.Context, id uint) (*models.Question, error) {
	question, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError(err, "failed to get question")
	}
	return question, nil
}

func (s *questionService) mapRepoError(err error, msg string) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("%w: %w", ErrQuestionNotFound, err)
	}
	return fmt.Errorf("%s: %w", msg, err)
}

func (s *questionService) invalidate(ctx context.Context, id uint) {
	if err := s.cache.DeletePattern(ctx, cache.QuestionPattern(id)); err != nil {
		s.logger.WarnContext(ctx, "Question cache invalidation failed", "question_id", id, "error", err)
	}
}

func (s *questionService) publish(ctx context.Context, event *events.QuestionEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishQuestionEvent(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish question event",
			"event_type", event.Type,
			"error", err)
	}
}

func (s *questionService) buildResponse(question *models.Question) *QuestionResponse {
	resp := &QuestionResponse{
		ID:          question.ID,
		Type:        question.Type,
		Text:        question.Text,
		Points:      question.Points,
		Explanation: question.Explanation,
		CreatedBy:   question.CreatedBy,
		CreatedAt:   question.CreatedAt,
		UpdatedAt:   question.UpdatedAt,
	}

	cfg, err := question.LoadAnswerConfig()
	if err != nil {
		s.logger.Warn("Question has an unloadable answer config", "question_id", question.ID, "error", err)
		resp.AnswerConfigSource = configSource(question, nil)
		if cfgErr := apperrors.FromAnswerConfigError(err); cfgErr != nil {
			resp.AnswerConfigError = cfgErr
		} else {
			resp.AnswerConfigError = NewValidationError("answer_config", err.Error(), nil)
		}
		return resp
	}

	resp.AnswerConfig = cfg
	resp.AnswerConfigSource = configSource(question, cfg)
	return resp
}

func configSource(question *models.Question, cfg answerconfig.Config) AnswerConfigSource {
	switch {
	case !isNullJSON(json.RawMessage(question.AnswerConfig)):
		return SourceStored
	case cfg != nil:
		return SourceLegacy
	default:
		return SourceNone
	}
}

// answerConfigValue maps a JSON null to the untyped nil that clears a config.
func answerConfigValue(raw json.RawMessage) any {
	if isNullJSON(raw) {
		return nil
	}
	return []byte(raw)
}

func isNullJSON(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func questionID(resp *QuestionResponse) uint {
	if resp == nil {
		return 0
	}
	return resp.ID
}
