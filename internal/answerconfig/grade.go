package answerconfig

// Result is the outcome of checking a response against an answer config.
type Result struct {
	Correct bool `json:"correct"`
	// Matched is the option or accepted answer the response resolved to.
	Matched string `json:"matched,omitempty"`
}

// Check grades a response. Multiple choice responses are option indexes;
// fill blank responses are compared with AnswerKey against every accepted
// answer. Essays return ErrManualGrading.
func Check(cfg Config, response any) (Result, error) {
	switch c := cfg.(type) {
	case MultipleChoiceConfig:
		index, ok := parseIndex(response)
		if !ok {
			return Result{}, newError(ErrInvalidResponse, "response", response, "expected an option index")
		}
		result := Result{Correct: index == c.CorrectIndex}
		if index >= 0 && index < len(c.Options) {
			result.Matched = c.Options[index]
		}
		return result, nil

	case FillBlankConfig:
		if response == nil {
			return Result{}, newError(ErrInvalidResponse, "response", nil, "expected a text answer")
		}
		if _, isSeq := asSequence(response); isSeq {
			return Result{}, newError(ErrInvalidResponse, "response", response, "expected a text answer")
		}
		key := AnswerKey(stringify(response))
		if key == "" {
			return Result{}, nil
		}
		for _, accepted := range c.AcceptedAnswers {
			if AnswerKey(accepted) == key {
				return Result{Correct: true, Matched: accepted}, nil
			}
		}
		return Result{}, nil

	case EssayConfig:
		return Result{}, newError(ErrManualGrading, "type", string(Essay), "essays are graded by a tutor")
	}
	return Result{}, newError(ErrMissingType, "type", nil, "question has no answer config")
}
