// Copyright (c) 2025 Luke Chia / LexiMind Labs
// SPDX-License-Identifier: MIT

// Package upload implements the document ingestion pipeline: PDF
// validation, storage upload, signed URL, metadata row with facet links,
// and the handoff to the memory backend. A filesystem watcher can feed
// the queue from a drop directory.
package upload
