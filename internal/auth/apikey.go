package auth

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"
)

const keyBytes = 32

var keyStripper = strings.NewReplacer("+", "", "/", "", "=", "")

// GenerateKey returns a fresh opaque API key: 32 random bytes, base64 encoded
// with the characters + / = removed so the key is header and URL safe.
func GenerateKey() (string, error) {
	buf := make([]byte, keyBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate api key: %w", err)
	}
	return keyStripper.Replace(base64.StdEncoding.EncodeToString(buf)), nil
}
