package loginsvc

import (
	"bytes"
	"crypto/rand"
	"encoding/pem"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// KeyType is the PEM block type of signing key files.
const KeyType = "HMAC SIGNING KEY"

// DefaultKeySize is the size in bytes of generated signing keys.
const DefaultKeySize = 32

// MinSigningKeySize is the shortest key accepted for HS256 signing.
const MinSigningKeySize = 32

var (
	// ErrNoSigningKey is returned when no signing key is configured.
	ErrNoSigningKey = errors.New("no signing key")
	// ErrWeakSigningKey is returned when the signing key is shorter than MinSigningKeySize.
	ErrWeakSigningKey = errors.New("signing key too short")
	// ErrInvalidKeyFile is returned when a key file does not hold a PEM signing key.
	ErrInvalidKeyFile = errors.New("invalid key file")
)

// CheckSigningKey reports whether key can be used to sign tokens.
func CheckSigningKey(key []byte) error {
	switch {
	case len(key) == 0:
		return ErrNoSigningKey
	case len(key) < MinSigningKeySize:
		return fmt.Errorf("%w: %d bytes, want at least %d", ErrWeakSigningKey, len(key), MinSigningKeySize)
	default:
		return nil
	}
}

// DecodeSigningKey reads a PEM-encoded signing key.
func DecodeSigningKey(r io.Reader) ([]byte, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read key: %w", err)
	}

	block, _ := pem.Decode(buf)
	if block == nil || block.Type != KeyType {
		return nil, ErrInvalidKeyFile
	}

	return block.Bytes, nil
}

// GenerateSigningKey returns size random bytes.
func GenerateSigningKey(size int) ([]byte, error) {
	key := make([]byte, size)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}

	return key, nil
}

// EncodeSigningKey encodes key as a PEM block.
func EncodeSigningKey(key []byte) ([]byte, error) {
	var buf bytes.Buffer

	//nolint:exhaustruct
	if err := pem.Encode(&buf, &pem.Block{Type: KeyType, Bytes: key}); err != nil {
		return nil, fmt.Errorf("encode key: %w", err)
	}

	return buf.Bytes(), nil
}

// WriteSigningKeyFile writes key to path, readable by the owner only.
// An existing file is never overwritten.
func WriteSigningKeyFile(path string, key []byte) error {
	keyBytes, err := EncodeSigningKey(key)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create key dir: %w", err)
	}

	keyFile, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return fmt.Errorf("create key file: %w", err)
	}
	defer keyFile.Close()

	if _, err := keyFile.Write(keyBytes); err != nil {
		return fmt.Errorf("write key file: %w", err)
	}

	return nil
}

// GetSigningKey resolves the process-wide signing key:
// an explicitly configured key wins, otherwise the key file is loaded,
// and if it does not exist a new key is generated and saved there.
func GetSigningKey(cfg AuthConfig) ([]byte, error) {
	if cfg.SigningKey != "" {
		key := []byte(cfg.SigningKey)
		if err := CheckSigningKey(key); err != nil {
			return nil, err
		}

		return key, nil
	}

	if cfg.SigningKeyFile == "" {
		return nil, ErrNoSigningKey
	}

	keyFile, err := os.Open(cfg.SigningKeyFile)
	if err == nil {
		defer keyFile.Close()

		key, err := DecodeSigningKey(keyFile)
		if err != nil {
			return nil, fmt.Errorf("decode signing key: %w", err)
		}

		if err := CheckSigningKey(key); err != nil {
			return nil, err
		}

		return key, nil
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("open key file: %w", err)
	}

	key, err := GenerateSigningKey(DefaultKeySize)
	if err != nil {
		return nil, fmt.Errorf("generate signing key: %w", err)
	}

	if err := WriteSigningKeyFile(cfg.SigningKeyFile, key); err != nil {
		return nil, err
	}

	return key, nil
}
