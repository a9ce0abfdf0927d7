// Copyright (c) 2025 Luke Chia / LexiMind Labs
// SPDX-License-Identifier: MIT

package util

import "strconv"

// FormatMillis renders a millisecond duration for status lines, e.g. "352 ms"
// or "2.41 s" once it crosses a second.
func FormatMillis(ms float64) string {
	if ms >= 1000 {
		return strconv.FormatFloat(ms/1000, 'f', 2, 64) + " s"
	}
	return strconv.FormatInt(int64(ms), 10) + " ms"
}

// FormatCount renders an integer count with no frills.
func FormatCount(n int) string {
	return strconv.Itoa(n)
}

// FormatBytes renders a byte size with a binary unit, e.g. "1.5 MB".
func FormatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return strconv.FormatInt(n, 10) + " B"
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	value := float64(n) / float64(div)
	return strconv.FormatFloat(value, 'f', 1, 64) + " " + [...]string{"KB", "MB", "GB", "TB"}[exp]
}

// FormatPercent renders a 0-100 progress value as "42%".
func FormatPercent(p int) string {
	if p < 0 {
		p = 0
	}
	if p > 100 {
		p = 100
	}
	return strconv.Itoa(p) + "%"
}
