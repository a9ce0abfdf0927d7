// Copyright (c) 2025 Luke Chia / LexiMind Labs
// SPDX-License-Identifier: MIT

// Package nlsql is the client for the Cliente 360 natural-language-to-SQL
// service: question in, generated SQL plus result rows out.
package nlsql
