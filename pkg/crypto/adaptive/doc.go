// Package adaptive seals small values with an AEAD picked for the host CPU.
//
// AES-GCM is used on architectures where Go's crypto/aes is hardware
// accelerated (amd64, arm64); ChaCha20-Poly1305 everywhere else. Sealed
// output is nonce || ciphertext || tag, so a value sealed on one machine
// opens on any other holding the same key and cipher type.
//
// Usage:
//
//	c, err := adaptive.New(key)
//	sealed, err := c.Encrypt(plaintext, []byte("storage-key"))
//	plaintext, err := c.Decrypt(sealed, []byte("storage-key"))
package adaptive
