package kb

// Stats summarizes the loaded corpus for external display.
type Stats struct {
	TotalArticles int              `json:"total_articles"`
	ByCategory    map[Category]int `json:"by_category"`
}

// Stats returns the total article count and per-category counts.
func (c *Corpus) Stats() Stats {
	byCategory := make(map[Category]int, len(Categories))
	for _, a := range c.articles {
		byCategory[a.Category]++
	}
	return Stats{
		TotalArticles: len(c.articles),
		ByCategory:    byCategory,
	}
}
