package adaptive

import (
	"bytes"
	"errors"
	"testing"
)

func testKey(n int) []byte {
	k := make([]byte, n)
	for i := range k {
		k[i] = byte(i)
	}
	return k
}

func TestNew(t *testing.T) {
	c, err := New(testKey(32))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if c.Type() != CipherAESGCM && c.Type() != CipherChaCha20 {
		t.Errorf("New() returned unknown cipher type: %s", c.Type())
	}
}

func TestNewWithType_KeySizes(t *testing.T) {
	tests := []struct {
		name    string
		kind    CipherType
		keyLen  int
		wantErr bool
	}{
		{"aes-128", CipherAESGCM, 16, false},
		{"aes-192", CipherAESGCM, 24, false},
		{"aes-256", CipherAESGCM, 32, false},
		{"aes-bad", CipherAESGCM, 20, true},
		{"chacha", CipherChaCha20, 32, false},
		{"chacha-short", CipherChaCha20, 16, true},
		{"unknown", "rot13", 32, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewWithType(testKey(tt.keyLen), tt.kind)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewWithType() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && c.Type() != tt.kind {
				t.Errorf("Type() = %s, want %s", c.Type(), tt.kind)
			}
		})
	}
}

func TestEncryptDecrypt(t *testing.T) {
	for _, kind := range []CipherType{CipherAESGCM, CipherChaCha20} {
		t.Run(string(kind), func(t *testing.T) {
			c, err := NewWithType(testKey(32), kind)
			if err != nil {
				t.Fatal(err)
			}

			plaintext := []byte(`{"theme":"dark"}`)
			aad := []byte("app-preferences")

			sealed, err := c.Encrypt(plaintext, aad)
			if err != nil {
				t.Fatalf("Encrypt() error = %v", err)
			}
			if len(sealed) != len(plaintext)+c.Overhead() {
				t.Errorf("sealed length = %d, want %d", len(sealed), len(plaintext)+c.Overhead())
			}

			opened, err := c.Decrypt(sealed, aad)
			if err != nil {
				t.Fatalf("Decrypt() error = %v", err)
			}
			if !bytes.Equal(opened, plaintext) {
				t.Errorf("Decrypt() = %q, want %q", opened, plaintext)
			}

			if _, err := c.Decrypt(sealed, []byte("other-key")); err == nil {
				t.Error("Decrypt() with different additional data should fail")
			}

			sealed[len(sealed)-1] ^= 0xff
			if _, err := c.Decrypt(sealed, aad); err == nil {
				t.Error("Decrypt() of tampered ciphertext should fail")
			}
		})
	}
}

func TestEncrypt_UniqueNonces(t *testing.T) {
	c, err := New(testKey(32))
	if err != nil {
		t.Fatal(err)
	}

	a, _ := c.Encrypt([]byte("same"), nil)
	b, _ := c.Encrypt([]byte("same"), nil)
	if bytes.Equal(a, b) {
		t.Error("two encryptions of the same plaintext should differ")
	}
}

func TestDecrypt_TooShort(t *testing.T) {
	c, err := New(testKey(32))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := c.Decrypt([]byte{1, 2}, nil); !errors.Is(err, ErrCiphertextTooShort) {
		t.Errorf("Decrypt() error = %v, want ErrCiphertextTooShort", err)
	}
}
