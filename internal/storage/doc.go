// Copyright (c) 2025 Luke Chia / LexiMind Labs
// SPDX-License-Identifier: MIT

// Package storage provides local persistence: saved chat transcripts as
// JSON files and a sqlite cache of the document library for offline
// browsing and fast pagination.
package storage
