package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// marshalTagged encodes v as a JSON object and prepends a "type" member.
func marshalTagged(tag string, v any) ([]byte, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if len(body) < 2 || body[0] != '{' {
		return nil, fmt.Errorf("tagged value %q must encode as an object", tag)
	}

	typ, err := json.Marshal(tag)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteString(`{"type":`)
	buf.Write(typ)
	if !bytes.Equal(body, []byte("{}")) {
		buf.WriteByte(',')
		buf.Write(body[1:])
	} else {
		buf.WriteByte('}')
	}
	return buf.Bytes(), nil
}

// readTag extracts the "type" discriminant of a tagged JSON object.
func readTag(data []byte) (string, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return "", fmt.Errorf("failed to read type tag: %w", err)
	}
	if head.Type == "" {
		return "", fmt.Errorf("missing type tag")
	}
	return head.Type, nil
}
