// Copyright (c) 2025 Luke Chia / LexiMind Labs
// SPDX-License-Identifier: MIT

package storage

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/luke-chia/leximind-knowledge-hub/internal/model"
	"github.com/luke-chia/leximind-knowledge-hub/internal/util"
)

// ErrConversationNotFound indicates the requested ID has no file.
var ErrConversationNotFound = errors.New("storage: conversation not found")

// StoredConversation is one persisted chat session.
type StoredConversation struct {
	ID        string             `json:"id"`
	Title     string             `json:"title"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
	Turns     []model.ChatTurn   `json:"turns"`
	Filters   *model.FilterState `json:"filters,omitempty"`
}

// ConversationMeta is the listing view of a stored conversation.
type ConversationMeta struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	UpdatedAt time.Time `json:"updated_at"`
	TurnCount int       `json:"turn_count"`
}

// ConversationStore persists conversations as one JSON file each under
// <dataDir>/conversations/. Writes are atomic.
type ConversationStore struct {
	BaseDir          string
	MaxConversations int
}

// NewConversationStore creates a store rooted at dataDir.
func NewConversationStore(dataDir string, maxConversations int) (*ConversationStore, error) {
	baseDir := filepath.Join(dataDir, "conversations")
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create conversations dir: %w", err)
	}
	return &ConversationStore{BaseDir: baseDir, MaxConversations: maxConversations}, nil
}

// SnapshotTranscript builds a storable conversation from live state.
// The title comes from the first user turn.
func SnapshotTranscript(t *model.Transcript, filters *model.FilterState) *StoredConversation {
	turns := t.Turns()
	stored := &StoredConversation{
		ID:        generateConversationID(),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	for _, turn := range turns {
		stored.Turns = append(stored.Turns, *turn)
		if stored.Title == "" && turn.Role == model.RoleUser {
			stored.Title = util.TruncateRunes(util.FirstLine(turn.Content), 50)
		}
	}
	if stored.Title == "" {
		stored.Title = "Conversación sin preguntas"
	}
	if filters != nil {
		stored.Filters = filters.Clone()
	}
	return stored
}

// Save writes the conversation and returns its ID.
func (s *ConversationStore) Save(conv *StoredConversation) (string, error) {
	if conv.ID == "" {
		conv.ID = generateConversationID()
	}
	conv.UpdatedAt = time.Now()
	if conv.CreatedAt.IsZero() {
		conv.CreatedAt = conv.UpdatedAt
	}

	data, err := json.MarshalIndent(conv, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode conversation: %w", err)
	}
	if err := util.AtomicWriteFile(s.filePath(conv.ID), data, 0o600); err != nil {
		return "", fmt.Errorf("write conversation: %w", err)
	}

	s.enforceLimit()
	return conv.ID, nil
}

// Load reads one conversation by ID.
func (s *ConversationStore) Load(id string) (*StoredConversation, error) {
	data, err := os.ReadFile(s.filePath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConversationNotFound
		}
		return nil, fmt.Errorf("read conversation: %w", err)
	}
	var conv StoredConversation
	if err := json.Unmarshal(data, &conv); err != nil {
		return nil, fmt.Errorf("decode conversation %s: %w", id, err)
	}
	return &conv, nil
}

// List returns metadata for every stored conversation, most recent first.
func (s *ConversationStore) List() ([]ConversationMeta, error) {
	entries, err := os.ReadDir(s.BaseDir)
	if err != nil {
		return nil, fmt.Errorf("read conversations dir: %w", err)
	}

	var metas []ConversationMeta
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		id := strings.TrimSuffix(entry.Name(), ".json")
		conv, err := s.Load(id)
		if err != nil {
			// Skip corrupt files rather than failing the whole listing.
			continue
		}
		metas = append(metas, ConversationMeta{
			ID:        conv.ID,
			Title:     conv.Title,
			UpdatedAt: conv.UpdatedAt,
			TurnCount: len(conv.Turns),
		})
	}

	sort.Slice(metas, func(i, j int) bool {
		return metas[i].UpdatedAt.After(metas[j].UpdatedAt)
	})
	return metas, nil
}

// Search returns conversations whose title or any turn matches the query,
// case-insensitively.
func (s *ConversationStore) Search(query string) ([]ConversationMeta, error) {
	metas, err := s.List()
	if err != nil {
		return nil, err
	}
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return metas, nil
	}

	var out []ConversationMeta
	for _, meta := range metas {
		if strings.Contains(strings.ToLower(meta.Title), query) {
			out = append(out, meta)
			continue
		}
		conv, err := s.Load(meta.ID)
		if err != nil {
			continue
		}
		for _, turn := range conv.Turns {
			if strings.Contains(strings.ToLower(turn.Content), query) {
				out = append(out, meta)
				break
			}
		}
	}
	return out, nil
}

// Delete removes one conversation.
func (s *ConversationStore) Delete(id string) error {
	err := os.Remove(s.filePath(id))
	if os.IsNotExist(err) {
		return ErrConversationNotFound
	}
	return err
}

// enforceLimit prunes the oldest conversations over MaxConversations.
func (s *ConversationStore) enforceLimit() {
	if s.MaxConversations <= 0 {
		return
	}
	metas, err := s.List()
	if err != nil || len(metas) <= s.MaxConversations {
		return
	}
	for _, meta := range metas[s.MaxConversations:] {
		os.Remove(s.filePath(meta.ID))
	}
}

// ExportMarkdown renders the conversation for sharing.
func (c *StoredConversation) ExportMarkdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", c.Title)
	fmt.Fprintf(&b, "_%s_\n\n", c.CreatedAt.Format("02/01/2006 15:04"))

	for _, turn := range c.Turns {
		switch turn.Role {
		case model.RoleUser:
			fmt.Fprintf(&b, "**Tú:** %s\n\n", turn.Content)
		case model.RoleAssistant:
			if turn.Err != nil {
				fmt.Fprintf(&b, "**Asistente (error):** %s\n\n", turn.Err.Message)
				continue
			}
			fmt.Fprintf(&b, "**Asistente:** %s\n\n", turn.Content)
			for _, src := range turn.Sources {
				fmt.Fprintf(&b, "- Fuente: %s, pág. %s — %q\n", src.Source, src.Page, src.MatchingText)
			}
			if len(turn.Sources) > 0 {
				b.WriteString("\n")
			}
		}
	}
	return b.String()
}

func (s *ConversationStore) filePath(id string) string {
	return filepath.Join(s.BaseDir, id+".json")
}

func generateConversationID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("conv_%d", time.Now().UnixNano())
	}
	return "conv_" + hex.EncodeToString(b)
}
