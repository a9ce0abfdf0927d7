// Copyright (c) 2025 Luke Chia / LexiMind Labs
// SPDX-License-Identifier: MIT

// Package model holds the core domain types of the knowledge hub client:
// filter facets, chat turns, and the transcript state machine that drives
// the word-by-word typing animation.
package model
