package enrich

import (
	"bytes"
	"encoding/json"
)

// stripOrder removes the Baserow "order" key from every object of a link
// array. Anything that is not an array of objects is returned unchanged.
func stripOrder(raw json.RawMessage) json.RawMessage {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return raw
	}
	var items []map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return raw
	}
	for _, item := range items {
		delete(item, "order")
	}
	out, err := json.Marshal(items)
	if err != nil {
		return raw
	}
	return out
}

// emptyArray returns raw, or [] when raw is absent or null.
func emptyArray(raw json.RawMessage) json.RawMessage {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return json.RawMessage("[]")
	}
	return raw
}

// linkValues returns the value of each link in a raw link array.
func linkValues(raw json.RawMessage) []string {
	var refs []struct {
		Value json.RawMessage `json:"value"`
	}
	out := []string{}
	if err := json.Unmarshal(raw, &refs); err != nil {
		return out
	}
	for _, r := range refs {
		var s string
		if err := json.Unmarshal(r.Value, &s); err == nil {
			out = append(out, s)
		}
	}
	return out
}
