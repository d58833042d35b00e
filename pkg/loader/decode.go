package loader

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/jerusalem-70-ad/jad-builder/pkg/logger"
	"github.com/kaptinlin/jsonrepair"
)

// Decode parses a dataset table into records. The table may be a JSON array
// or an object keyed by row id (the dump format). Object rows come out with
// integer keys in ascending order followed by any other keys in document
// order. Null rows are skipped. Malformed JSON is repaired once before
// giving up.
func Decode[T any](data []byte) ([]T, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("empty dataset")
	}
	if !json.Valid(data) {
		repaired, err := jsonrepair.JSONRepair(string(data))
		if err != nil {
			return nil, fmt.Errorf("json repair failed: %w", err)
		}
		logger.Warn("[Loader] Repaired malformed JSON", "bytes", len(data))
		data = bytes.TrimSpace([]byte(repaired))
	}

	rows, err := rowsOf(data)
	if err != nil {
		return nil, err
	}

	out := make([]T, 0, len(rows))
	for i, row := range rows {
		if bytes.Equal(bytes.TrimSpace(row), []byte("null")) {
			continue
		}
		var v T
		if err := json.Unmarshal(row, &v); err != nil {
			return nil, fmt.Errorf("failed to decode row %d: %w", i, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func rowsOf(data []byte) ([]json.RawMessage, error) {
	switch data[0] {
	case '[':
		var rows []json.RawMessage
		if err := json.Unmarshal(data, &rows); err != nil {
			return nil, fmt.Errorf("failed to decode array: %w", err)
		}
		return rows, nil
	case '{':
		return objectValues(data)
	default:
		return nil, fmt.Errorf("dataset must be a JSON array or object, got %q", data[0])
	}
}

type keyedRow struct {
	key   string
	index int64
	isInt bool
	row   json.RawMessage
}

func objectValues(data []byte) ([]json.RawMessage, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("failed to read object: %w", err)
	}

	var entries []keyedRow
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("failed to read key: %w", err)
		}
		key, _ := tok.(string)
		var row json.RawMessage
		if err := dec.Decode(&row); err != nil {
			return nil, fmt.Errorf("failed to decode row %q: %w", key, err)
		}
		entry := keyedRow{key: key, row: row}
		if n, err := strconv.ParseInt(key, 10, 64); err == nil && n >= 0 && strconv.FormatInt(n, 10) == key {
			entry.index = n
			entry.isInt = true
		}
		entries = append(entries, entry)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.isInt != b.isInt {
			return a.isInt
		}
		if a.isInt {
			return a.index < b.index
		}
		return false
	})

	rows := make([]json.RawMessage, len(entries))
	for i, e := range entries {
		rows[i] = e.row
	}
	return rows, nil
}
