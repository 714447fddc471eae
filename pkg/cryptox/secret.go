package cryptox

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrNoSecret reports that neither an inline value nor a secret file was
// provided for a required secret.
var ErrNoSecret = errors.New("cryptox: secret not configured")

// LoadSecret resolves a shared secret from an inline value or a mounted
// secret file. The inline value wins when both are set. Trailing whitespace
// is stripped from file contents so a trailing newline in the mount does not
// break byte-for-byte comparison between services.
func LoadSecret(value, file string) (string, error) {
	if value != "" {
		return value, nil
	}
	if file == "" {
		return "", ErrNoSecret
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return "", fmt.Errorf("cryptox: read secret file: %w", err)
	}

	secret := strings.TrimRight(string(data), "\r\n")
	if secret == "" {
		return "", ErrNoSecret
	}
	return secret, nil
}
