// Copyright (c) 2025 Luke Chia / LexiMind Labs
// SPDX-License-Identifier: MIT

// Package chat is the client for the knowledge assistant backend: one POST
// per user turn against /chats/process-message/, validated requests, typed
// responses, no retries.
package chat
