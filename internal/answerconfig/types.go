package answerconfig

import "encoding/json"

type QuestionType string

const (
	MultipleChoice QuestionType = "multiple_choice"
	FillBlank      QuestionType = "fill_blank"
	Essay          QuestionType = "essay"
)

// Valid reports whether t is one of the supported question types.
func (t QuestionType) Valid() bool {
	switch t {
	case MultipleChoice, FillBlank, Essay:
		return true
	}
	return false
}

func (t QuestionType) String() string { return string(t) }

// Config is the normalized answer key of one question. The concrete type is
// one of MultipleChoiceConfig, FillBlankConfig or EssayConfig.
type Config interface {
	Type() QuestionType
	json.Marshaler
	isConfig()
}

// MultipleChoiceConfig identifies the correct option by position.
type MultipleChoiceConfig struct {
	Options      []string
	CorrectIndex int
}

func (MultipleChoiceConfig) Type() QuestionType { return MultipleChoice }
func (MultipleChoiceConfig) isConfig()          {}

func (c MultipleChoiceConfig) MarshalJSON() ([]byte, error) {
	options := c.Options
	if options == nil {
		options = []string{}
	}
	return json.Marshal(struct {
		Type         QuestionType `json:"type"`
		Options      []string     `json:"options"`
		CorrectIndex int          `json:"correct_index"`
	}{MultipleChoice, options, c.CorrectIndex})
}

// CorrectOption returns the text of the correct option, or false when the
// index does not point at an option.
func (c MultipleChoiceConfig) CorrectOption() (string, bool) {
	if c.CorrectIndex < 0 || c.CorrectIndex >= len(c.Options) {
		return "", false
	}
	return c.Options[c.CorrectIndex], true
}

// FillBlankConfig lists the accepted answers in first-seen order.
type FillBlankConfig struct {
	AcceptedAnswers []string
}

func (FillBlankConfig) Type() QuestionType { return FillBlank }
func (FillBlankConfig) isConfig()          {}

func (c FillBlankConfig) MarshalJSON() ([]byte, error) {
	answers := c.AcceptedAnswers
	if answers == nil {
		answers = []string{}
	}
	return json.Marshal(struct {
		Type            QuestionType `json:"type"`
		AcceptedAnswers []string     `json:"accepted_answers"`
	}{FillBlank, answers})
}

type EssayConfig struct{}

func (EssayConfig) Type() QuestionType { return Essay }
func (EssayConfig) isConfig()          {}

func (EssayConfig) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type QuestionType `json:"type"`
	}{Essay})
}

// RawAttributes carries the legacy columns of a question row. They are only
// consulted to synthesize a config when none has been stored yet, and Type is
// also used to cross-check a stored config.
type RawAttributes struct {
	// Type is the question's declared type; empty when unknown.
	Type string
	// Options is the legacy options column: a slice, a JSON array encoded as
	// string or bytes, or nil.
	Options any
	// CorrectAnswer is the legacy correct answer column; empty means unset.
	CorrectAnswer string
}
