package session

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	// idRandomLength is the size of the random part in bytes.
	idRandomLength = 32
	// idPrefix marks IDs minted by this server.
	idPrefix = "mcp"
)

// Generator mints and validates session IDs of the form
// mcp.<unix-timestamp>.<base64url-random>.
type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// Generate returns a new cryptographically random session ID.
func (g *Generator) Generate() (string, error) {
	random := make([]byte, idRandomLength)
	if _, err := rand.Read(random); err != nil {
		return "", NewGenerationError(err)
	}

	return fmt.Sprintf("%s.%d.%s",
		idPrefix,
		time.Now().Unix(),
		base64.RawURLEncoding.EncodeToString(random),
	), nil
}

// Validate checks the structural form of a session ID before any store
// lookup. It does not prove the ID was ever issued.
func (g *Generator) Validate(id string) error {
	if id == "" {
		return NewInvalidError("empty session ID")
	}

	parts := strings.Split(id, ".")
	if len(parts) != 3 {
		return NewInvalidError("invalid session ID format")
	}
	if parts[0] != idPrefix {
		return NewInvalidError("invalid session ID prefix")
	}
	if _, err := strconv.ParseInt(parts[1], 10, 64); err != nil {
		return NewInvalidError("invalid timestamp in session ID")
	}

	random := parts[2]
	if len(random) < base64.RawURLEncoding.EncodedLen(idRandomLength) {
		return NewInvalidError("session ID random part too short")
	}
	if _, err := base64.RawURLEncoding.DecodeString(random); err != nil {
		return NewInvalidError("invalid characters in session ID")
	}

	return nil
}

// IssuedAt extracts the mint timestamp from a session ID.
func (g *Generator) IssuedAt(id string) (time.Time, error) {
	if err := g.Validate(id); err != nil {
		return time.Time{}, err
	}
	ts, err := strconv.ParseInt(strings.Split(id, ".")[1], 10, 64)
	if err != nil {
		return time.Time{}, NewInvalidError("failed to parse timestamp")
	}
	return time.Unix(ts, 0), nil
}
