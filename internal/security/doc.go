// Copyright (c) 2025 Luke Chia / LexiMind Labs
// SPDX-License-Identifier: MIT

// Package security protects locally persisted credentials: an AES-256-GCM
// vault for the platform session tokens, keyed via PBKDF2, plus an
// optional TOTP app lock gating vault access.
package security
