package normalizer

import (
	"github.com/oklog/ulid/v2"
)

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// ULIDGenerator generates ULID-based IDs: a millisecond timestamp followed by random bits.
type ULIDGenerator struct{}

// NewULIDGenerator creates a new ULIDGenerator.
func NewULIDGenerator() *ULIDGenerator {
	return &ULIDGenerator{}
}

// Generate generates a new ULID. Safe for concurrent use.
func (g *ULIDGenerator) Generate() string {
	return ulid.Make().String()
}
