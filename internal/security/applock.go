// Copyright (c) 2025 Luke Chia / LexiMind Labs
// SPDX-License-Identifier: MIT

package security

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pquerna/otp/totp"

	"github.com/luke-chia/leximind-knowledge-hub/internal/util"
)

var (
	// ErrLockNotEnrolled indicates Verify was called before Enroll.
	ErrLockNotEnrolled = errors.New("security: app lock not enrolled")
	// ErrInvalidCode indicates a rejected TOTP code.
	ErrInvalidCode = errors.New("security: invalid code")
)

// AppLock is an optional TOTP gate in front of the session vault. The
// secret lives next to the vault; enrolling shows the otpauth URL once so
// the user can add it to an authenticator app.
type AppLock struct {
	secretPath string
}

// NewAppLock returns the lock for a data directory.
func NewAppLock(dataDir string) *AppLock {
	return &AppLock{secretPath: filepath.Join(dataDir, "applock.secret")}
}

// Enrolled reports whether a secret exists.
func (l *AppLock) Enrolled() bool {
	_, err := os.Stat(l.secretPath)
	return err == nil
}

// Enroll generates a new TOTP secret for the account and returns the
// otpauth URL to show the user.
func (l *AppLock) Enroll(account string) (string, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      "LexiMind",
		AccountName: account,
	})
	if err != nil {
		return "", fmt.Errorf("generate totp secret: %w", err)
	}
	if err := util.AtomicWriteFile(l.secretPath, []byte(key.Secret()), 0o600); err != nil {
		return "", fmt.Errorf("store totp secret: %w", err)
	}
	return key.URL(), nil
}

// Secret returns the enrolled TOTP secret.
func (l *AppLock) Secret() (string, error) {
	secret, err := os.ReadFile(l.secretPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrLockNotEnrolled
		}
		return "", fmt.Errorf("read totp secret: %w", err)
	}
	return strings.TrimSpace(string(secret)), nil
}

// Verify checks a 6-digit code against the enrolled secret.
func (l *AppLock) Verify(code string) error {
	secret, err := os.ReadFile(l.secretPath)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrLockNotEnrolled
		}
		return fmt.Errorf("read totp secret: %w", err)
	}
	if !totp.Validate(strings.TrimSpace(code), strings.TrimSpace(string(secret))) {
		return ErrInvalidCode
	}
	return nil
}

// Disable removes the enrolled secret.
func (l *AppLock) Disable() error {
	err := os.Remove(l.secretPath)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
