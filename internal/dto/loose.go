package dto

import (
	"bytes"
	"encoding/json"
	"strings"
)

// LooseString accepts a JSON string, number, boolean or null and keeps its
// textual form. Interpretation is left to the consumer.
type LooseString string

// UnmarshalJSON never fails so a single odd field cannot reject a request.
func (s *LooseString) UnmarshalJSON(data []byte) error {
	*s = LooseString(looseText(data))
	return nil
}

// String returns the raw text.
func (s LooseString) String() string {
	return string(s)
}

// LooseStringList accepts an array, a single string or a comma separated
// string. Non-string array elements keep their JSON text.
type LooseStringList []string

// UnmarshalJSON never fails.
func (l *LooseStringList) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err == nil {
			out := make([]string, 0, len(items))
			for _, item := range items {
				if text := looseText(item); text != "" {
					out = append(out, text)
				}
			}
			*l = out
			return nil
		}
	}

	text := looseText(trimmed)
	if text == "" {
		*l = nil
		return nil
	}
	var out []string
	for _, part := range strings.Split(text, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	*l = out
	return nil
}

func looseText(data []byte) string {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return ""
	}
	if trimmed[0] == '"' {
		var str string
		if err := json.Unmarshal(trimmed, &str); err == nil {
			return strings.TrimSpace(str)
		}
	}
	return string(trimmed)
}
