package adaptive

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"runtime"

	"golang.org/x/crypto/chacha20poly1305"
)

// CipherType identifies the AEAD algorithm.
type CipherType string

const (
	CipherAESGCM   CipherType = "aes-gcm"
	CipherChaCha20 CipherType = "chacha20-poly1305"
)

// ErrCiphertextTooShort is returned when sealed input cannot hold a nonce.
var ErrCiphertextTooShort = errors.New("adaptive: ciphertext too short")

// Cipher provides authenticated encryption.
type Cipher interface {
	Type() CipherType
	Encrypt(plaintext, additionalData []byte) ([]byte, error)
	Decrypt(ciphertext, additionalData []byte) ([]byte, error)
	Overhead() int
}

// New returns the preferred cipher for this architecture.
func New(key []byte) (Cipher, error) {
	if hasAESAcceleration() {
		return NewWithType(key, CipherAESGCM)
	}
	return NewWithType(key, CipherChaCha20)
}

// NewWithType returns a cipher of the given type.
//
// AES-GCM accepts 16, 24 or 32 byte keys; ChaCha20-Poly1305 needs 32.
func NewWithType(key []byte, t CipherType) (Cipher, error) {
	var (
		aead cipher.AEAD
		err  error
	)

	switch t {
	case CipherAESGCM:
		switch len(key) {
		case 16, 24, 32:
		default:
			return nil, fmt.Errorf("adaptive: invalid key size %d for %s", len(key), t)
		}
		block, berr := aes.NewCipher(key)
		if berr != nil {
			return nil, berr
		}
		aead, err = cipher.NewGCM(block)
	case CipherChaCha20:
		if len(key) != chacha20poly1305.KeySize {
			return nil, fmt.Errorf("adaptive: invalid key size %d for %s", len(key), t)
		}
		aead, err = chacha20poly1305.New(key)
	default:
		return nil, fmt.Errorf("adaptive: unknown cipher type %q", t)
	}
	if err != nil {
		return nil, err
	}

	return &aeadCipher{kind: t, aead: aead}, nil
}

func hasAESAcceleration() bool {
	switch runtime.GOARCH {
	case "amd64", "arm64":
		return true
	default:
		return false
	}
}

type aeadCipher struct {
	kind CipherType
	aead cipher.AEAD
}

func (c *aeadCipher) Type() CipherType { return c.kind }

// Overhead is the number of bytes Encrypt adds to the plaintext.
func (c *aeadCipher) Overhead() int {
	return c.aead.NonceSize() + c.aead.Overhead()
}

func (c *aeadCipher) Encrypt(plaintext, additionalData []byte) ([]byte, error) {
	nonce := make([]byte, c.aead.NonceSize(), c.aead.NonceSize()+len(plaintext)+c.aead.Overhead())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return c.aead.Seal(nonce, nonce, plaintext, additionalData), nil
}

func (c *aeadCipher) Decrypt(ciphertext, additionalData []byte) ([]byte, error) {
	n := c.aead.NonceSize()
	if len(ciphertext) < n {
		return nil, ErrCiphertextTooShort
	}
	return c.aead.Open(nil, ciphertext[:n], ciphertext[n:], additionalData)
}
