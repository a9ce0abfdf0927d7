// Copyright (c) 2025 Luke Chia / LexiMind Labs
// SPDX-License-Identifier: MIT

// Package config loads and validates the client configuration from
// ~/.leximind/config.toml, with LEXIMIND_* environment overrides applied
// after the file is read. Configuration is read once at startup.
package config
