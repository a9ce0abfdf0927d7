// Copyright (c) 2025 Luke Chia / LexiMind Labs
// SPDX-License-Identifier: MIT

// Package util provides small shared helpers: atomic file writes and
// width-aware string handling for terminal rendering.
package util
