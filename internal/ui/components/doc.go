// Copyright (c) 2025 Luke Chia / LexiMind Labs
// SPDX-License-Identifier: MIT

// Package components provides shared UI widgets: the toast stack, the SQL
// code block, the status bar and the upload progress rail.
package components
