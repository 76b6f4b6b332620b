package answerconfig

import "encoding/json"

// LoadForDisplay materializes the answer config of a question. A missing
// stored value falls back to the legacy attributes; a nil Config with a nil
// error means the question has no config at all.
func LoadForDisplay(stored any, raw RawAttributes) (Config, error) {
	declared := QuestionType(raw.Type)

	if isAbsent(stored) {
		fallback := FromLegacyAttributes(raw)
		if fallback == nil {
			return nil, nil
		}
		return Normalize(fallback, declared)
	}

	config, err := FromStoredBlob(stored)
	if err != nil {
		return nil, err
	}
	return Normalize(config, declared)
}

// PrepareForStorage validates value and returns the JSON to persist. A nil
// value clears the stored config and yields nil.
func PrepareForStorage(value any, raw RawAttributes) (json.RawMessage, error) {
	if value == nil {
		return nil, nil
	}

	config, err := FromStoredBlob(value)
	if err != nil {
		return nil, err
	}
	normalized, err := Normalize(config, QuestionType(raw.Type))
	if err != nil {
		return nil, err
	}
	return Marshal(normalized)
}

// Marshal serializes a normalized config.
func Marshal(cfg Config) (json.RawMessage, error) {
	if cfg == nil {
		return nil, nil
	}
	return json.Marshal(cfg)
}
