package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// flexString decodes a JSON string, number, boolean or null into text.
// An array of scalars is joined with ", ".
type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	switch data[0] {
	case '"':
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = flexString(v)
	case '[':
		var items []flexString
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		parts := make([]string, 0, len(items))
		for _, item := range items {
			if item != "" {
				parts = append(parts, string(item))
			}
		}
		*s = flexString(strings.Join(parts, ", "))
	case '{':
		return fmt.Errorf("expected a scalar value, got an object")
	default:
		// numbers and booleans keep their literal form
		*s = flexString(data)
	}
	return nil
}

// flexList decodes either a JSON array or a single value into a list.
type flexList[T any] []T

func (l *flexList[T]) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*l = nil
		return nil
	}
	if data[0] == '[' {
		var items []T
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		*l = items
		return nil
	}
	var item T
	if err := json.Unmarshal(data, &item); err != nil {
		return err
	}
	*l = flexList[T]{item}
	return nil
}

func toStrings(list flexList[flexString]) []string {
	if list == nil {
		return nil
	}
	out := make([]string, len(list))
	for i, s := range list {
		out[i] = string(s)
	}
	return out
}
