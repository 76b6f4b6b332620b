package answerconfig

import "strings"

// AnswerKey is the form used to compare answers: trimmed and lowercased.
// It is only used for comparison; stored answers keep their original text.
func AnswerKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// DedupeAnswers drops blank and repeated candidates. Two candidates are the
// same answer when their AnswerKey matches; the first one wins and is emitted
// with its original text.
func DedupeAnswers[T any](candidates []T) []string {
	seen := make(map[string]struct{}, len(candidates))
	out := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		text := stringify(any(candidate))
		key := AnswerKey(text)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, text)
	}
	return out
}
