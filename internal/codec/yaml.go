package codec

import (
	"fmt"
	"io"

	"studymate/internal/domain"

	"gopkg.in/yaml.v3"
)

// YAMLCodec handles YAML documents. Field names match the JSON form.
type YAMLCodec struct{}

// NewYAMLCodec creates a new YAML codec
func NewYAMLCodec() *YAMLCodec {
	return &YAMLCodec{}
}

// Format returns the codec format identifier
func (c *YAMLCodec) Format() string {
	return "yaml"
}

// Decode reads a snapshot from YAML. Missing sequences decode as empty.
func (c *YAMLCodec) Decode(r io.Reader) (*domain.Snapshot, error) {
	var snap domain.Snapshot
	decoder := yaml.NewDecoder(r)
	if err := decoder.Decode(&snap); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	return snap.Normalize(), nil
}

// Encode writes a snapshot as YAML
func (c *YAMLCodec) Encode(snap *domain.Snapshot, w io.Writer) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer encoder.Close()

	if err := encoder.Encode(snap.Clone()); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}

	return nil
}
