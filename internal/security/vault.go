// Copyright (c) 2025 Luke Chia / LexiMind Labs
// SPDX-License-Identifier: MIT

package security

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/pbkdf2"

	"github.com/luke-chia/leximind-knowledge-hub/internal/util"
)

const (
	// encryptedPrefix marks a vault payload: ENC:base64(salt|nonce|ciphertext).
	encryptedPrefix = "ENC:"

	nonceSize = 12
	keySize   = 32
	saltSize  = 32

	// OWASP 2023 recommendation for PBKDF2-SHA-256.
	pbkdf2Iterations = 600000
)

var (
	// ErrVaultNotFound indicates no vault file exists yet.
	ErrVaultNotFound = errors.New("security: vault not found")
	// ErrInvalidCiphertext indicates the vault file is not a vault payload.
	ErrInvalidCiphertext = errors.New("security: invalid ciphertext format")
	// ErrDecryptionFailed indicates a wrong passphrase or tampered data.
	ErrDecryptionFailed = errors.New("security: decryption failed")
)

// ZeroBytes zeros sensitive byte slices after use.
func ZeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// Vault encrypts small secrets to a file on disk.
type Vault struct {
	path string
}

// NewVault returns a vault stored at <dataDir>/session.vault.
func NewVault(dataDir string) *Vault {
	return &Vault{path: filepath.Join(dataDir, "session.vault")}
}

// Path returns the vault file location.
func (v *Vault) Path() string { return v.path }

// Exists reports whether a vault file is present.
func (v *Vault) Exists() bool {
	_, err := os.Stat(v.path)
	return err == nil
}

// Seal encrypts plaintext under the passphrase and writes the vault file
// with owner-only permissions.
func (v *Vault) Seal(passphrase, plaintext []byte) error {
	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return fmt.Errorf("generate salt: %w", err)
	}

	key := pbkdf2.Key(passphrase, salt, pbkdf2Iterations, keySize, sha256.New)
	defer ZeroBytes(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return fmt.Errorf("create cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return fmt.Errorf("create gcm: %w", err)
	}

	nonce := make([]byte, nonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return fmt.Errorf("generate nonce: %w", err)
	}

	sealed := aead.Seal(nil, nonce, plaintext, nil)

	payload := make([]byte, 0, saltSize+nonceSize+len(sealed))
	payload = append(payload, salt...)
	payload = append(payload, nonce...)
	payload = append(payload, sealed...)

	encoded := encryptedPrefix + base64.StdEncoding.EncodeToString(payload)
	return util.AtomicWriteFile(v.path, []byte(encoded), 0o600)
}

// Open decrypts the vault file with the passphrase.
func (v *Vault) Open(passphrase []byte) ([]byte, error) {
	raw, err := os.ReadFile(v.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrVaultNotFound
		}
		return nil, fmt.Errorf("read vault: %w", err)
	}

	encoded := strings.TrimSpace(string(raw))
	if !strings.HasPrefix(encoded, encryptedPrefix) {
		return nil, ErrInvalidCiphertext
	}
	payload, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(encoded, encryptedPrefix))
	if err != nil {
		return nil, ErrInvalidCiphertext
	}
	if len(payload) < saltSize+nonceSize+1 {
		return nil, ErrInvalidCiphertext
	}

	salt := payload[:saltSize]
	nonce := payload[saltSize : saltSize+nonceSize]
	sealed := payload[saltSize+nonceSize:]

	key := pbkdf2.Key(passphrase, salt, pbkdf2Iterations, keySize, sha256.New)
	defer ZeroBytes(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create gcm: %w", err)
	}

	plaintext, err := aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	return plaintext, nil
}

// Destroy removes the vault file.
func (v *Vault) Destroy() error {
	err := os.Remove(v.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// SealJSON marshals value and seals it.
func (v *Vault) SealJSON(passphrase []byte, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode vault payload: %w", err)
	}
	defer ZeroBytes(data)
	return v.Seal(passphrase, data)
}

// OpenJSON opens the vault and unmarshals into out.
func (v *Vault) OpenJSON(passphrase []byte, out any) error {
	data, err := v.Open(passphrase)
	if err != nil {
		return err
	}
	defer ZeroBytes(data)
	return json.Unmarshal(data, out)
}
