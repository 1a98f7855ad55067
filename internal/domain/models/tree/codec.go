package tree

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"treeview/internal/domain"
)

// ParseJSON decodes a raw JSON payload.
// Numbers are kept as json.Number so ids are never rounded through float64.
// Any decode failure is a malformed payload.
func ParseJSON(data []byte) (*Payload, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var payload Payload
	if err := dec.Decode(&payload); err != nil {
		return nil, domain.NewMalformedPayload("", fmt.Sprintf("invalid JSON: %v", err))
	}
	return &payload, nil
}

// ParseYAML decodes a YAML payload with the same shape as the JSON one
func ParseYAML(data []byte) (*Payload, error) {
	var payload Payload
	if err := yaml.Unmarshal(data, &payload); err != nil {
		return nil, domain.NewMalformedPayload("", fmt.Sprintf("invalid YAML: %v", err))
	}
	return &payload, nil
}
