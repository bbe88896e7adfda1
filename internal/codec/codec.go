package codec

import (
	"fmt"
	"io"
	"strings"

	"studymate/internal/domain"
)

// Codec turns a snapshot into a structured document and back
type Codec interface {
	Encode(snap *domain.Snapshot, w io.Writer) error
	Decode(r io.Reader) (*domain.Snapshot, error)
	Format() string
}

// ForFormat returns the codec registered for format ("json" or "yaml")
func ForFormat(format string) (Codec, error) {
	switch strings.ToLower(format) {
	case "", "json":
		return NewJSONCodec(), nil
	case "yaml", "yml":
		return NewYAMLCodec(), nil
	}
	return nil, fmt.Errorf("%w: document format %q", domain.ErrUnsupportedFormat, format)
}
