package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// codeBytes random bytes hex-encode to an 8 character short code.
// With 2^32 possible codes a collision on generation is rare; the
// repository's unique index remains the correctness backstop.
const codeBytes = 4

// CodeChecker is the subset of the link repository the generator
// needs for its collision check.
type CodeChecker interface {
	CodeExists(ctx context.Context, code string) (bool, error)
}

// ShortCodeGenerator produces URL-safe short codes that are not yet
// present in the store. This is a generate-then-verify loop, not a
// reservation: the final insert can still conflict and callers must
// treat ErrCodeConflict from the repository as a retry signal.
type ShortCodeGenerator struct {
	repo       CodeChecker
	maxRetries int
}

// NewShortCodeGenerator creates a new short code generator
func NewShortCodeGenerator(repo CodeChecker, maxRetries int) *ShortCodeGenerator {
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &ShortCodeGenerator{repo: repo, maxRetries: maxRetries}
}

// Generate returns a short code that did not exist in the store at
// check time, regenerating on collision.
func (g *ShortCodeGenerator) Generate(ctx context.Context) (string, error) {
	for attempt := 0; attempt < g.maxRetries; attempt++ {
		code, err := randomCode()
		if err != nil {
			return "", err
		}
		exists, err := g.repo.CodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", ErrShortCodeGeneration
}

func randomCode() (string, error) {
	buf := make([]byte, codeBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("reading random bytes: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
