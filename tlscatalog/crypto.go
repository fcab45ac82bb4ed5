package tlscatalog

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"
)

// Encryption/transcript errors, following a sentinel-var style scoped to
// this catalog's record-layer crypto.
var (
	ErrInvalidKeySize   = errors.New("tlscatalog: invalid key size")
	ErrCiphertextShort  = errors.New("tlscatalog: ciphertext too short")
	ErrDecryptionFailed = errors.New("tlscatalog: decryption failed")
)

// deterministicNonce derives a 12-byte AES-GCM nonce from a counter rather
// than crypto/rand: a trace executed twice against fresh agents must yield
// identical wire bytes, and fn_encrypt12 is one of the "random" function
// symbols that must therefore use a fixed, replayable source.
func deterministicNonce(counter uint64) []byte {
	nonce := make([]byte, 12)
	binary.BigEndian.PutUint64(nonce[4:], counter)
	return nonce
}

func gcmFor(key []byte) (cipher.AEAD, error) {
	if len(key) != 16 && len(key) != 24 && len(key) != 32 {
		return nil, fmt.Errorf("%w: must be 16, 24, or 32 bytes, got %d", ErrInvalidKeySize, len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// aesGCMEncrypt encrypts plaintext under key using a nonce derived
// deterministically rather than drawn from crypto/rand.
func aesGCMEncrypt(key, plaintext []byte) ([]byte, error) {
	gcm, err := gcmFor(key)
	if err != nil {
		return nil, err
	}
	nonce := deterministicNonce(uint64(len(plaintext)))
	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

// aesGCMDecrypt reverses aesGCMEncrypt.
func aesGCMDecrypt(key, ciphertext []byte) ([]byte, error) {
	gcm, err := gcmFor(key)
	if err != nil {
		return nil, err
	}
	nonceSize := gcm.NonceSize()
	if len(ciphertext) < nonceSize {
		return nil, ErrCiphertextShort
	}
	nonce, ct := ciphertext[:nonceSize], ciphertext[nonceSize:]
	plaintext, err := gcm.Open(nil, nonce, ct, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecryptionFailed, err)
	}
	return plaintext, nil
}

// transcriptHash computes a SHA-256 digest over a handshake transcript.
func transcriptHash(data []byte) []byte {
	sum := sha256.Sum256(data)
	return sum[:]
}

// deriveHandshakeSecret stretches two randoms into session key material via
// Argon2id. A production PUT derives this via the real TLS 1.2 PRF; this
// catalog only needs a deterministic, reproducible stand-in.
func deriveHandshakeSecret(clientRandom, serverRandom Random) []byte {
	salt := append(append([]byte{}, clientRandom[:]...), serverRandom[:]...)
	return argon2.IDKey(salt, salt, 1, 64*1024, 4, 32)
}
