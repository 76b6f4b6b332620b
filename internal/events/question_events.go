package events

import (
	"encoding/json"
	"time"

	"github.com/SAP-F-2025/question-service/internal/answerconfig"
	"github.com/google/uuid"
)

// EventType represents the kinds of question events
type EventType string

const (
	EventQuestionCreated            EventType = "question.created"
	EventQuestionUpdated            EventType = "question.updated"
	EventQuestionDeleted            EventType = "question.deleted"
	EventQuestionAnswerConfigUpdate EventType = "question.answer_config_updated"
	EventQuestionsImported          EventType = "question.imported"
	EventLegacyMigrationCompleted   EventType = "question.legacy_migration_completed"
)

const (
	eventSource  = "question-service"
	eventVersion = "1.0"
)

// QuestionEvent is the envelope published for every question change
type QuestionEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

type QuestionChangedEvent struct {
	QuestionID uint                      `json:"question_id"`
	Type       answerconfig.QuestionType `json:"question_type"`
	ActorID    string                    `json:"actor_id,omitempty"`
}

// AnswerConfigUpdatedEvent carries the normalized config that was stored.
// AnswerConfig is null when the config was cleared.
type AnswerConfigUpdatedEvent struct {
	QuestionID   uint                      `json:"question_id"`
	Type         answerconfig.QuestionType `json:"question_type"`
	AnswerConfig json.RawMessage           `json:"answer_config"`
	ActorID      string                    `json:"actor_id,omitempty"`
}

type QuestionsImportedEvent struct {
	JobID       string `json:"job_id"`
	QuestionIDs []uint `json:"question_ids"`
	FailedRows  int    `json:"failed_rows"`
	ActorID     string `json:"actor_id,omitempty"`
}

type LegacyMigrationCompletedEvent struct {
	Scanned  int `json:"scanned"`
	Migrated int `json:"migrated"`
	Failed   int `json:"failed"`
}

func newEvent(eventType EventType, data interface{}) *QuestionEvent {
	return &QuestionEvent{
		ID:        GenerateEventID(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Source:    eventSource,
		Version:   eventVersion,
		Data:      data,
	}
}

func NewQuestionChangedEvent(eventType EventType, questionID uint, questionType answerconfig.QuestionType, actorID string) *QuestionEvent {
	return newEvent(eventType, QuestionChangedEvent{
		QuestionID: questionID,
		Type:       questionType,
		ActorID:    actorID,
	})
}

func NewAnswerConfigUpdatedEvent(questionID uint, questionType answerconfig.QuestionType, config json.RawMessage, actorID string) *QuestionEvent {
	if len(config) == 0 {
		config = json.RawMessage("null")
	}
	return newEvent(EventQuestionAnswerConfigUpdate, AnswerConfigUpdatedEvent{
		QuestionID:   questionID,
		Type:         questionType,
		AnswerConfig: config,
		ActorID:      actorID,
	})
}

func NewQuestionsImportedEvent(jobID string, questionIDs []uint, failedRows int, actorID string) *QuestionEvent {
	return newEvent(EventQuestionsImported, QuestionsImportedEvent{
		JobID:       jobID,
		QuestionIDs: questionIDs,
		FailedRows:  failedRows,
		ActorID:     actorID,
	})
}

func NewLegacyMigrationCompletedEvent(scanned, migrated, failed int) *QuestionEvent {
	return newEvent(EventLegacyMigrationCompleted, LegacyMigrationCompletedEvent{
		Scanned:  scanned,
		Migrated: migrated,
		Failed:   failed,
	})
}

func GenerateEventID() string {
	return uuid.NewString()
}
