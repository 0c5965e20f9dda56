package handlers

import (
	"bytes"
	"html/template"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	ghhtml "github.com/yuin/goldmark/renderer/html"

	"github.com/Chatresh7/edtech-bot/internal/contextutil"
	"github.com/Chatresh7/edtech-bot/internal/kb"
)

// ArticleHandler serves knowledge-base articles as rendered HTML pages.
type ArticleHandler struct {
	corpus   *kb.Corpus
	parser   goldmark.Markdown
	template *template.Template
}

// articlePageData holds template data for rendered article pages.
type articlePageData struct {
	Title    string
	Category string
	Tags     string
	Content  template.HTML
}

// NewArticleHandler creates a new handler for serving knowledge-base articles.
func NewArticleHandler(corpus *kb.Corpus) *ArticleHandler {
	tmpl := template.Must(template.New("article").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{.Title}}</title>
  <style>
    body {
      font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', sans-serif;
      margin: 0 auto;
      padding: 2rem;
      max-width: 820px;
      line-height: 1.7;
      color: #1f2937;
    }
    header {
      margin-bottom: 2rem;
      border-bottom: 1px solid #e5e7eb;
      padding-bottom: 1.5rem;
    }
    h1 {
      margin-top: 0;
      font-size: 2rem;
    }
    .meta {
      color: #6b7280;
      font-size: 0.9rem;
    }
    article h2, article h3 {
      margin-top: 1.5rem;
    }
    pre {
      background: #f3f4f6;
      padding: 1rem;
      overflow-x: auto;
      border-radius: 8px;
    }
  </style>
</head>
<body>
  <header>
    <h1>{{.Title}}</h1>
    <p class="meta">Category: {{.Category}}{{if .Tags}} &middot; Tags: {{.Tags}}{{end}}</p>
  </header>
  <article>{{.Content}}</article>
</body>
</html>`))

	return &ArticleHandler{
		corpus:   corpus,
		template: tmpl,
		parser: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				extension.Table,
				extension.Linkify,
				extension.Typographer,
			),
			goldmark.WithRendererOptions(
				ghhtml.WithHardWraps(),
			),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
		),
	}
}

// ServeHTTP renders the requested article as HTML.
func (h *ArticleHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		http.Error(w, "article id is required", http.StatusBadRequest)
		return
	}

	article, ok := h.corpus.Get(id)
	if !ok {
		logger.WarnContext(ctx, "unknown article requested", "id", id)
		http.Error(w, "article not found", http.StatusNotFound)
		return
	}

	var buf bytes.Buffer
	if err := h.parser.Convert([]byte(article.Content), &buf); err != nil {
		logger.ErrorContext(ctx, "failed to render article", "id", id, "error", err)
		http.Error(w, "failed to render article", http.StatusInternalServerError)
		return
	}

	data := articlePageData{
		Title:    article.Title,
		Category: string(article.Category),
		Tags:     strings.Join(article.Tags, ", "),
		Content:  template.HTML(buf.String()),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.template.Execute(w, data); err != nil {
		logger.ErrorContext(ctx, "failed to execute article template", "id", id, "error", err)
	}
}
