// Copyright (c) 2025 Luke Chia / LexiMind Labs
// SPDX-License-Identifier: MIT

// Package api provides the shared HTTP plumbing for the knowledge hub
// backends: a pooled client, JSON request/response handling with bounded
// body reads, and the transport error taxonomy every service client maps
// its failures through.
package api
