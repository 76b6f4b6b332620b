package answerconfig

// Normalize validates a decoded answer config and returns its typed form.
// When declared is non-empty the config's type must equal it.
func Normalize(config map[string]any, declared QuestionType) (Config, error) {
	typ, _ := config["type"].(string)
	if typ == "" {
		return nil, newError(ErrMissingType, "type", config["type"], "type must be a non-empty string")
	}
	if declared != "" && QuestionType(typ) != declared {
		return nil, newError(ErrTypeMismatch, "type", typ, "config is %q but question is %q", typ, declared)
	}

	switch QuestionType(typ) {
	case MultipleChoice:
		return normalizeMultipleChoice(config)
	case FillBlank:
		return normalizeFillBlank(config)
	case Essay:
		return EssayConfig{}, nil
	default:
		return nil, newError(ErrUnsupportedType, "type", typ, "%q", typ)
	}
}

func normalizeMultipleChoice(config map[string]any) (Config, error) {
	raw, ok := asSequence(config["options"])
	if !ok {
		return nil, newError(ErrInvalidOptions, "options", config["options"], "got %T", config["options"])
	}
	options := stringifyAll(raw)

	index, ok := parseIndex(config["correct_index"])
	if !ok || index < 0 || index >= len(options) {
		return nil, newError(ErrIndexOutOfBounds, "correct_index", config["correct_index"],
			"must be an integer in [0, %d)", len(options))
	}

	return MultipleChoiceConfig{Options: options, CorrectIndex: index}, nil
}

func normalizeFillBlank(config map[string]any) (Config, error) {
	raw, ok := asSequence(config["accepted_answers"])
	if !ok {
		return nil, newError(ErrInvalidAnswers, "accepted_answers", config["accepted_answers"],
			"got %T", config["accepted_answers"])
	}

	answers := DedupeAnswers(raw)
	if len(answers) == 0 {
		return nil, newError(ErrEmptyAnswers, "accepted_answers", nil, "no non-blank answers left after deduplication")
	}
	return FillBlankConfig{AcceptedAnswers: answers}, nil
}
