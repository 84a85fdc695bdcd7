package opclient

import (
	"crypto/ed25519"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"strings"
)

// ReadPrivateKey loads an ed25519 private key from an inline PEM block or,
// when the value does not look like PEM, from the file it names. Keys are
// expected in PKCS#8 form, the format wallet providers hand out.
func ReadPrivateKey(value string) (ed25519.PrivateKey, error) {
	if value == "" {
		return nil, errors.New("private key is not configured")
	}

	data := []byte(value)
	if !strings.Contains(value, "-----BEGIN") {
		var err error
		data, err = os.ReadFile(value)
		if err != nil {
			return nil, fmt.Errorf("reading key file: %w", err)
		}
	}

	block, _ := pem.Decode(data)
	if block == nil {
		return nil, errors.New("no PEM block found in private key")
	}

	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parsing PKCS#8 key: %w", err)
	}
	key, ok := parsed.(ed25519.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("unsupported key type %T, want ed25519", parsed)
	}
	return key, nil
}
