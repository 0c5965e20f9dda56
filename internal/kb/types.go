package kb

// Category classifies a knowledge-base article by platform topic.
type Category string

const (
	CategoryCourse        Category = "course"
	CategoryAssessment    Category = "assessment"
	CategoryCertification Category = "certification"
	CategoryProgress      Category = "progress"
)

// Categories lists all valid article categories in a fixed order.
var Categories = []Category{
	CategoryCourse,
	CategoryAssessment,
	CategoryCertification,
	CategoryProgress,
}

// Valid reports whether c is one of the fixed article categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryCourse, CategoryAssessment, CategoryCertification, CategoryProgress:
		return true
	}
	return false
}

// Article is a single immutable knowledge-base entry. Articles are loaded
// once at startup and never mutated afterwards.
type Article struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Category Category `json:"category"`
	Content  string   `json:"content"`
	Tags     []string `json:"tags,omitempty"`
}

// EmbeddingText returns the text that is embedded for the article:
// title, tags, and content concatenated, so tag and title terms
// contribute to retrieval relevance.
func (a Article) EmbeddingText() string {
	tags := ""
	for i, tag := range a.Tags {
		if i > 0 {
			tags += ", "
		}
		tags += tag
	}
	return a.Title + ". Tags: " + tags + ". " + a.Content
}
