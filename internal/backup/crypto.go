package backup

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
)

var (
	// ErrInvalidPassword is returned when the provided password is incorrect.
	ErrInvalidPassword = errors.New("invalid password")
	// ErrInvalidArchive is returned when the archive format is invalid.
	ErrInvalidArchive = errors.New("invalid archive format")
)

const (
	// PasswordMinLength is the minimum required password length.
	PasswordMinLength = 8
	// saltLength is the length of the random salt for key derivation.
	saltLength = 32
	// nonceLength is the GCM standard nonce size.
	nonceLength = 12

	archiveMagic = "CSYNARC"
)

// Encrypt seals archive data with AES-256-GCM under a password-derived key.
// The password itself is never stored; the same password must be supplied
// again to open the archive.
func Encrypt(data []byte, password string) ([]byte, error) {
	if len(password) < PasswordMinLength {
		return nil, fmt.Errorf("password must be at least %d characters", PasswordMinLength)
	}

	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	nonce := make([]byte, nonceLength)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	gcm, err := newGCM(deriveKey(password, salt))
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteString(archiveMagic)
	buf.WriteByte(1) // format version
	buf.Write(salt)
	buf.Write(nonce)
	buf.Write(gcm.Seal(nil, nonce, data, nil))
	return buf.Bytes(), nil
}

// Decrypt opens data produced by Encrypt. A wrong password surfaces as
// ErrInvalidPassword since GCM authentication fails.
func Decrypt(data []byte, password string) ([]byte, error) {
	headerLen := len(archiveMagic) + 1 + saltLength + nonceLength
	if len(data) < headerLen || string(data[:len(archiveMagic)]) != archiveMagic {
		return nil, ErrInvalidArchive
	}
	if version := data[len(archiveMagic)]; version != 1 {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrInvalidArchive, version)
	}

	salt := data[len(archiveMagic)+1 : len(archiveMagic)+1+saltLength]
	nonce := data[len(archiveMagic)+1+saltLength : headerLen]
	ciphertext := data[headerLen:]

	gcm, err := newGCM(deriveKey(password, salt))
	if err != nil {
		return nil, err
	}

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPassword, err)
	}
	return plaintext, nil
}

// IsEncrypted reports whether data carries the encrypted archive header.
func IsEncrypted(data []byte) bool {
	return len(data) >= len(archiveMagic) && string(data[:len(archiveMagic)]) == archiveMagic
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return gcm, nil
}

// deriveKey derives a 32-byte key from password and salt with an iterated
// SHA-256 chain (100,000 rounds).
func deriveKey(password string, salt []byte) []byte {
	hash := sha256.Sum256([]byte(password))
	for i := 0; i < 100000; i++ {
		hash = sha256.Sum256(append(hash[:], salt...))
	}
	return hash[:]
}
