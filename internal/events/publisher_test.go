package events

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/SAP-F-2025/question-service/internal/answerconfig"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestKafkaEventPublisher_PublishQuestionEvent(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	messages, err := pubSub.Subscribe(ctx, "question-events")
	require.NoError(t, err)

	publisher := newKafkaEventPublisher(pubSub, "question-events", testLogger())
	event := NewAnswerConfigUpdatedEvent(7, answerconfig.FillBlank,
		json.RawMessage(`{"type":"fill_blank","accepted_answers":["Paris"]}`), "instructor-1")

	require.NoError(t, publisher.PublishQuestionEvent(ctx, event))

	select {
	case msg := <-messages:
		msg.Ack()
		assert.Equal(t, event.ID, msg.UUID)
		assert.Equal(t, string(EventQuestionAnswerConfigUpdate), msg.Metadata.Get("event_type"))
		assert.Equal(t, "question-service", msg.Metadata.Get("source"))

		var decoded struct {
			Type EventType `json:"type"`
			Data struct {
				QuestionID   uint            `json:"question_id"`
				AnswerConfig json.RawMessage `json:"answer_config"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(msg.Payload, &decoded))
		assert.Equal(t, EventQuestionAnswerConfigUpdate, decoded.Type)
		assert.Equal(t, uint(7), decoded.Data.QuestionID)
		assert.JSONEq(t, `{"type":"fill_blank","accepted_answers":["Paris"]}`, string(decoded.Data.AnswerConfig))
	case <-ctx.Done():
		t.Fatal("message was not delivered")
	}
}

func TestNewKafkaEventPublisher_RequiresBrokers(t *testing.T) {
	_, err := NewKafkaEventPublisher(PublisherConfig{TopicName: "question-events", Logger: testLogger()})
	assert.Error(t, err)
}

func TestNewAnswerConfigUpdatedEvent_ClearedConfig(t *testing.T) {
	event := NewAnswerConfigUpdatedEvent(3, answerconfig.Essay, nil, "")

	payload, err := json.Marshal(event)
	require.NoError(t, err)
	assert.Contains(t, string(payload), `"answer_config":null`)
	assert.NotEmpty(t, event.ID)
	assert.NotEqual(t, event.ID, GenerateEventID())
}

func TestMockEventPublisher(t *testing.T) {
	mock := NewMockEventPublisher(testLogger())

	require.NoError(t, mock.PublishQuestionEvent(context.Background(),
		NewQuestionChangedEvent(EventQuestionCreated, 1, answerconfig.Essay, "u1")))
	require.NoError(t, mock.PublishQuestionEvent(context.Background(),
		NewLegacyMigrationCompletedEvent(3, 2, 1)))

	published := mock.GetPublishedEvents()
	require.Len(t, published, 2)
	assert.Equal(t, EventQuestionCreated, published[0].Type)
	assert.Equal(t, EventLegacyMigrationCompleted, published[1].Type)

	mock.ClearEvents()
	assert.Empty(t, mock.GetPublishedEvents())
	assert.NoError(t, mock.Close())
}
