package answerconfig

// unsetIndex marks a legacy multiple choice question whose correct answer
// could not be resolved. Normalize rejects it, so such a question cannot be
// saved until someone picks the correct option.
const unsetIndex = -1

// FromLegacyAttributes builds an unvalidated config mapping from the legacy
// options and correct_answer columns. It returns nil when the question type
// is missing or unknown.
func FromLegacyAttributes(raw RawAttributes) map[string]any {
	switch QuestionType(raw.Type) {
	case MultipleChoice:
		options := DecodeOptions(raw.Options)
		return map[string]any{
			"type":          string(MultipleChoice),
			"options":       options,
			"correct_index": resolveCorrectIndex(raw.CorrectAnswer, options),
		}
	case FillBlank:
		candidates := make([]string, 0)
		if raw.CorrectAnswer != "" {
			candidates = append(candidates, raw.CorrectAnswer)
		}
		for _, option := range DecodeOptions(raw.Options) {
			if option != "" {
				candidates = append(candidates, option)
			}
		}
		return map[string]any{
			"type":             string(FillBlank),
			"accepted_answers": DedupeAnswers(candidates),
		}
	case Essay:
		return map[string]any{"type": string(Essay)}
	}
	return nil
}

// resolveCorrectIndex maps a legacy correct answer onto an option position.
// Numeric answers are positions already; other answers are looked up by
// exact text.
func resolveCorrectIndex(answer string, options []string) int {
	if answer == "" {
		return unsetIndex
	}
	if isNumeric(answer) {
		if index, ok := parseIndex(answer); ok {
			return index
		}
		return unsetIndex
	}
	for i, option := range options {
		if option == answer {
			return i
		}
	}
	return unsetIndex
}
