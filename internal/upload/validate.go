// Copyright (c) 2025 Luke Chia / LexiMind Labs
// SPDX-License-Identifier: MIT

package upload

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrNotPDF indicates a file that is not a PDF by extension or content.
	ErrNotPDF = errors.New("upload: only PDF files are allowed")
	// ErrTooLarge indicates a file over the configured size limit.
	ErrTooLarge = errors.New("upload: file exceeds the size limit")
	// ErrEmptyFile indicates a zero-byte file.
	ErrEmptyFile = errors.New("upload: file is empty")
)

// pdfMagic is the header every PDF starts with.
var pdfMagic = []byte("%PDF-")

// ValidateFile checks extension, magic bytes and size before any network
// work happens. maxSizeBytes <= 0 means no size limit.
func ValidateFile(path string, maxSizeBytes int64) error {
	if !strings.EqualFold(filepath.Ext(path), ".pdf") {
		return ErrNotPDF
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat file: %w", err)
	}
	if info.Size() == 0 {
		return ErrEmptyFile
	}
	if maxSizeBytes > 0 && info.Size() > maxSizeBytes {
		return ErrTooLarge
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	header := make([]byte, len(pdfMagic))
	if _, err := f.Read(header); err != nil {
		return fmt.Errorf("read header: %w", err)
	}
	if !bytes.Equal(header, pdfMagic) {
		return ErrNotPDF
	}
	return nil
}
