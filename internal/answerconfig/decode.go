package answerconfig

import (
	"bytes"
	"encoding/json"
)

// FromStoredBlob decodes a stored or submitted answer config into a mapping.
// Strings and byte slices are parsed as JSON; mappings are used as given;
// any other value is accepted only if it encodes to a JSON object.
func FromStoredBlob(stored any) (map[string]any, error) {
	switch val := stored.(type) {
	case map[string]any:
		return val, nil
	case string:
		return decodeObject([]byte(val))
	case []byte:
		return decodeObject(val)
	case json.RawMessage:
		return decodeObject(val)
	case nil:
		return nil, newError(ErrInvalidFormat, "answer_config", nil, "value is null")
	}

	encoded, err := json.Marshal(stored)
	if err != nil {
		return nil, newError(ErrInvalidFormat, "answer_config", nil, "cannot encode %T: %v", stored, err)
	}
	return decodeObject(encoded)
}

func decodeObject(data []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var decoded any
	if err := dec.Decode(&decoded); err != nil {
		return nil, newError(ErrInvalidFormat, "answer_config", string(data), "%v", err)
	}
	if dec.More() {
		return nil, newError(ErrInvalidFormat, "answer_config", string(data), "trailing data after JSON value")
	}

	obj, ok := decoded.(map[string]any)
	if !ok {
		return nil, newError(ErrInvalidFormat, "answer_config", string(data), "decoded value is not an object")
	}
	return obj, nil
}

// DecodeOptions turns a legacy options column into a list of option texts.
// It never fails: unparseable or wrongly shaped input yields an empty list.
func DecodeOptions(v any) []string {
	if seq, ok := asSequence(v); ok {
		return stringifyAll(seq)
	}

	var data []byte
	switch val := v.(type) {
	case string:
		data = []byte(val)
	case []byte:
		data = val
	case json.RawMessage:
		data = val
	default:
		return []string{}
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return []string{}
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var decoded any
	if err := dec.Decode(&decoded); err != nil {
		return []string{}
	}
	seq, ok := asSequence(decoded)
	if !ok {
		return []string{}
	}
	return stringifyAll(seq)
}

// isAbsent reports whether a stored value means "no config saved yet":
// nil, an empty string or byte slice, or a JSON null.
func isAbsent(stored any) bool {
	var data []byte
	switch val := stored.(type) {
	case nil:
		return true
	case string:
		data = []byte(val)
	case []byte:
		data = val
	case json.RawMessage:
		data = val
	default:
		return false
	}
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
