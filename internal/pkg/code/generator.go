package code

import (
	"strings"

	"github.com/google/uuid"
)

// Generator produces opaque claim codes.
type Generator interface {
	Generate() string
}

// UUIDGenerator issues dash-stripped UUIDv4 strings. 122 bits of randomness
// makes collisions negligible over any realistic redemption volume; the
// storage unique constraint backstops the rest.
type UUIDGenerator struct{}

// Generate returns a new opaque claim code.
func (UUIDGenerator) Generate() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
