package token

import (
	"crypto/rand"
	"encoding/base64"
)

// Generate returns a crypto-secure random string of length n
// The random string is contains the following characters:
// ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_
func Generate(n int) (string, error) {
	// every 3 bytes encode to 4 characters
	b := make([]byte, (n*3)/4+3)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	return base64.RawURLEncoding.EncodeToString(b)[0:n], nil
}

// RequestID returns an identifier to correlate the log lines of a single request
func RequestID() string {
	id, err := Generate(12)
	if err != nil {
		return "unknown"
	}

	return id
}
