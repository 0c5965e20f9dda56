package kb

import (
	"encoding/json"
	"fmt"
	"os"
)

// Corpus is the fixed collection of articles available for retrieval.
// It preserves load order, which downstream search uses for tie-breaking.
type Corpus struct {
	articles []Article
	byID     map[string]*Article
}

// LoadFile loads and validates the knowledge base from a JSON file.
// Any schema violation (missing required field, invalid category, duplicate
// ID, empty corpus) is a load error: no partial corpus is ever returned.
func LoadFile(path string) (*Corpus, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read knowledge base: %w", err)
	}

	var articles []Article
	if err := json.Unmarshal(raw, &articles); err != nil {
		return nil, fmt.Errorf("failed to parse knowledge base: %w", err)
	}

	return New(articles)
}

// New validates a slice of articles and wraps it in a Corpus.
func New(articles []Article) (*Corpus, error) {
	if len(articles) == 0 {
		return nil, fmt.Errorf("knowledge base is empty")
	}

	byID := make(map[string]*Article, len(articles))
	for i := range articles {
		a := &articles[i]
		if a.ID == "" {
			return nil, fmt.Errorf("article %d: missing id", i)
		}
		if a.Title == "" {
			return nil, fmt.Errorf("article %q: missing title", a.ID)
		}
		if a.Content == "" {
			return nil, fmt.Errorf("article %q: missing content", a.ID)
		}
		if !a.Category.Valid() {
			return nil, fmt.Errorf("article %q: invalid category %q", a.ID, a.Category)
		}
		if _, exists := byID[a.ID]; exists {
			return nil, fmt.Errorf("article %q: duplicate id", a.ID)
		}
		byID[a.ID] = a
	}

	return &Corpus{articles: articles, byID: byID}, nil
}

// Articles returns all articles in load order. The slice must not be mutated.
func (c *Corpus) Articles() []Article {
	return c.articles
}

// Get returns the article with the given ID, if present.
func (c *Corpus) Get(id string) (Article, bool) {
	a, ok := c.byID[id]
	if !ok {
		return Article{}, false
	}
	return *a, true
}

// Len returns the number of articles in the corpus.
func (c *Corpus) Len() int {
	return len(c.articles)
}
