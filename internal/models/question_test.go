package models

import (
	"testing"

	"github.com/SAP-F-2025/question-service/internal/answerconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func strPtr(s string) *string { return &s }

func TestQuestion_LoadAnswerConfig_Stored(t *testing.T) {
	q := &Question{
		Type:         MultipleChoice,
		AnswerConfig: datatypes.JSON(`{"type":"multiple_choice","options":["2","3","4"],"correct_index":1}`),
	}

	cfg, err := q.LoadAnswerConfig()
	require.NoError(t, err)
	assert.Equal(t, answerconfig.MultipleChoiceConfig{Options: []string{"2", "3", "4"}, CorrectIndex: 1}, cfg)
}

func TestQuestion_LoadAnswerConfig_Legacy(t *testing.T) {
	q := &Question{
		Type:          FillInBlank,
		Options:       datatypes.JSON(`["paris","Lyon"]`),
		CorrectAnswer: strPtr("Paris"),
	}

	cfg, err := q.LoadAnswerConfig()
	require.NoError(t, err)
	assert.Equal(t, answerconfig.FillBlankConfig{AcceptedAnswers: []string{"Paris", "Lyon"}}, cfg)
}

func TestQuestion_LoadAnswerConfig_None(t *testing.T) {
	q := &Question{Type: "matching"}

	cfg, err := q.LoadAnswerConfig()
	require.NoError(t, err)
	assert.Nil(t, cfg)
}

func TestQuestion_SetAnswerConfig(t *testing.T) {
	q := &Question{Type: FillInBlank}

	require.NoError(t, q.SetAnswerConfig(map[string]any{
		"type":             "fill_blank",
		"accepted_answers": []any{"Paris", "PARIS"},
	}))
	assert.JSONEq(t, `{"type":"fill_blank","accepted_answers":["Paris"]}`, string(q.AnswerConfig))

	err := q.SetAnswerConfig(`{"type":"essay"}`)
	assert.ErrorIs(t, err, answerconfig.ErrTypeMismatch)
	assert.JSONEq(t, `{"type":"fill_blank","accepted_answers":["Paris"]}`, string(q.AnswerConfig))

	require.NoError(t, q.SetAnswerConfig(nil))
	assert.Nil(t, q.AnswerConfig)
}

func TestQuestion_BeforeSave(t *testing.T) {
	q := &Question{
		Type:         MultipleChoice,
		AnswerConfig: datatypes.JSON(`{"type":"multiple_choice","options":[1,2],"correct_index":"0","extra":true}`),
	}
	require.NoError(t, q.BeforeSave(nil))
	assert.JSONEq(t, `{"type":"multiple_choice","options":["1","2"],"correct_index":0}`, string(q.AnswerConfig))

	q.AnswerConfig = datatypes.JSON(`{"type":"multiple_choice","options":["A"],"correct_index":3}`)
	assert.ErrorIs(t, q.BeforeSave(nil), answerconfig.ErrIndexOutOfBounds)

	q.AnswerConfig = datatypes.JSON(`null`)
	require.NoError(t, q.BeforeSave(nil))
	assert.Nil(t, q.AnswerConfig)
}
