// Copyright (c) 2025 Luke Chia / LexiMind Labs
// SPDX-License-Identifier: MIT

// Package backend is the client for the hosted platform: password-grant
// authentication, PostgREST-style table access for documents, profiles,
// users and the four filter vocabularies, and object storage for PDF and
// avatar uploads.
package backend
