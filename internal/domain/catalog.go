package domain

import "fmt"

// CatalogEntry is the immutable description of one question in a catalog.
type CatalogEntry struct {
	Prompt     string     `json:"prompt"`
	Answer     string     `json:"answer"`
	Options    []string   `json:"options"`
	Difficulty Difficulty `json:"difficulty"`
	Category   string     `json:"category"`
}

// Catalog is a named, fixed question bank.
type Catalog struct {
	ID      string         `json:"id"`
	Title   string         `json:"title"`
	Entries []CatalogEntry `json:"entries"`
}

// NewDeck builds a deck of fresh questions so concurrent games never share mutable state.
func (c Catalog) NewDeck() (*Deck, error) {
	if len(c.Entries) == 0 {
		return nil, fmt.Errorf("catalog %s: %w", c.ID, ErrEmptyDeck)
	}
	questions := make([]*Question, 0, len(c.Entries))
	for i, entry := range c.Entries {
		q, err := NewQuestion(entry.Prompt, entry.Answer, entry.Options, entry.Difficulty, entry.Category)
		if err != nil {
			return nil, fmt.Errorf("catalog %s entry %d: %w", c.ID, i, err)
		}
		questions = append(questions, q)
	}
	return NewDeck(questions...)
}
