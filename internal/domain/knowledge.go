package domain

import (
	"fmt"
	"strings"
	"time"
)

// KnowledgeItem is one ingested document in the knowledge base.
type KnowledgeItem struct {
	ID        string
	Title     string
	Content   string
	Source    string
	Tags      []string
	CreatedAt time.Time
}

// NewKnowledgeItem creates a new KnowledgeItem. A nil tag list is stored as empty.
func NewKnowledgeItem(id, title, content, source string, tags []string, createdAt time.Time) *KnowledgeItem {
	if tags == nil {
		tags = []string{}
	}
	return &KnowledgeItem{
		ID:        id,
		Title:     title,
		Content:   content,
		Source:    source,
		Tags:      tags,
		CreatedAt: createdAt,
	}
}

// ValidateKnowledgeItem checks the fields the knowledge_base row cannot do without.
func ValidateKnowledgeItem(k *KnowledgeItem) error {
	if k == nil {
		return fmt.Errorf("%w: knowledge item", ErrMissingRequiredField)
	}
	if k.ID == "" {
		return fmt.Errorf("%w: id", ErrMissingRequiredField)
	}
	if strings.TrimSpace(k.Content) == "" {
		return fmt.Errorf("%w: content", ErrMissingRequiredField)
	}
	return nil
}

// Excerpt returns at most n runes of the content, suffixed with "..." when cut.
func (k *KnowledgeItem) Excerpt(n int) string {
	runes := []rune(k.Content)
	if len(runes) <= n {
		return k.Content
	}
	return string(runes[:n]) + "..."
}
