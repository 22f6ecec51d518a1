package service

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	// ShortCodeAlphabet holds letters and digits only, so every code has the
	// same length and shape and never contains '-' or '_'.
	ShortCodeAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

	DefaultShortCodeLength = 6
	DefaultMaxRetries      = 10
)

// ShortCodeGenerator draws fixed-length codes from crypto/rand. It keeps no
// state between calls.
type ShortCodeGenerator struct {
	alphabet string
	length   int
}

func NewShortCodeGenerator(length int) *ShortCodeGenerator {
	return &ShortCodeGenerator{
		alphabet: ShortCodeAlphabet,
		length:   length,
	}
}

func (g *ShortCodeGenerator) Generate() (string, error) {
	const op = "service.ShortCodeGenerator.Generate"

	code, err := gonanoid.Generate(g.alphabet, g.length)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return code, nil
}
