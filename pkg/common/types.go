package common

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Text is a string field that tolerates the shapes Baserow exports for it:
// a string, a number, a bool, null, a {value} object or an array of those.
// Arrays are joined with ", ".
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	s, err := textFromJSON(data)
	if err != nil {
		return err
	}
	*t = Text(s)
	return nil
}

func (t Text) String() string { return string(t) }

// Trimmed returns the text without surrounding whitespace.
func (t Text) Trimmed() string { return strings.TrimSpace(string(t)) }

func textFromJSON(data []byte) (string, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return "", nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return "", err
		}
		return s, nil
	case '{':
		var obj struct {
			Value json.RawMessage `json:"value"`
			Name  json.RawMessage `json:"name"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return "", err
		}
		if len(obj.Value) > 0 {
			return textFromJSON(obj.Value)
		}
		return textFromJSON(obj.Name)
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(data, &items); err != nil {
			return "", err
		}
		parts := make([]string, 0, len(items))
		for _, item := range items {
			s, err := textFromJSON(item)
			if err != nil {
				return "", err
			}
			if s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", "), nil
	default:
		// numbers and booleans keep their literal form
		return string(data), nil
	}
}

// Year is a year that may arrive as a number, a numeric string, an empty
// string or null. Zero means unknown.
type Year int

func (y *Year) UnmarshalJSON(data []byte) error {
	s, err := textFromJSON(data)
	if err != nil {
		return err
	}
	s = strings.TrimSpace(s)
	if s == "" {
		*y = 0
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid year %q: %w", s, err)
	}
	*y = Year(int(f))
	return nil
}

// Or returns y, or def when y is unknown.
func (y Year) Or(def int) int {
	if y == 0 {
		return def
	}
	return int(y)
}

// FirstText returns the text of the first element of a link array, or the
// whole value when it is not an array. Undecodable input yields "".
func FirstText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil || len(items) == 0 {
			return ""
		}
		raw = items[0]
	}
	s, err := textFromJSON(raw)
	if err != nil {
		return ""
	}
	return s
}
