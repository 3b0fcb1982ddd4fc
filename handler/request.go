package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"unicode/utf8"
)

var (
	errNoFilePath      = errors.New(msgNoFilePath)
	errFilePathNotText = errors.New(msgFilePathNotText)
	errInvalidJSON     = errors.New(msgInvalidJSON)
)

// parseFilePath extracts filePath from a JSON object body. A missing key and
// any falsy value (null, "", false, 0, [] or {}) all count as not provided.
func parseFilePath(body []byte) (string, error) {
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil || payload == nil {
		return "", errInvalidJSON
	}

	raw, ok := payload["filePath"]
	if !ok {
		return "", errNoFilePath
	}
	// encoding/json would swap invalid bytes for U+FFFD and forward another path.
	if !utf8.Valid(raw) {
		return "", errInvalidJSON
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var value any
	if err := dec.Decode(&value); err != nil {
		return "", errInvalidJSON
	}
	if isFalsy(value) {
		return "", errNoFilePath
	}
	path, ok := value.(string)
	if !ok {
		return "", errFilePathNotText
	}
	return path, nil
}

func isFalsy(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case bool:
		return !t
	case string:
		return t == ""
	case json.Number:
		// Out of range numbers such as 1e400 fail to parse and are truthy.
		f, err := strconv.ParseFloat(t.String(), 64)
		return err == nil && f == 0
	case []any:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	}
	return false
}
