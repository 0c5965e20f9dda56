package main

import (
	"context"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"

	"github.com/Chatresh7/edtech-bot/internal/auditlog"
	"github.com/Chatresh7/edtech-bot/internal/config"
	"github.com/Chatresh7/edtech-bot/internal/embedding"
	"github.com/Chatresh7/edtech-bot/internal/http"
	"github.com/Chatresh7/edtech-bot/internal/kb"
	"github.com/Chatresh7/edtech-bot/internal/llm"
	"github.com/Chatresh7/edtech-bot/internal/retriever"
	"github.com/Chatresh7/edtech-bot/internal/service"
	"github.com/Chatresh7/edtech-bot/internal/session"
	"github.com/Chatresh7/edtech-bot/internal/vectorstore"
)

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Configure structured logging with configurable level and format
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	// Load the knowledge base
	corpus, err := kb.LoadFile(cfg.KBPath)
	if err != nil {
		log.Fatalf("Failed to load knowledge base: %v", err)
	}
	slog.Info("Knowledge base loaded", "path", cfg.KBPath, "articles", corpus.Len())

	// Select the embedding backend
	var embedder embedding.Embedder
	switch cfg.EmbeddingBackend {
	case "openai":
		embedder = embedding.NewRemoteClient(cfg.EmbeddingBaseURL, cfg.LLMAPIKey, cfg.EmbeddingModelName, cfg.EmbeddingDim)
	default:
		embedder = embedding.NewTFIDF()
	}

	ctx := context.Background()

	// Select the vector store backend
	var store vectorstore.VectorStore
	switch cfg.VectorBackend {
	case "qdrant":
		if cfg.EmbeddingDim <= 0 {
			log.Fatalf("EMBEDDING_DIM is required when VECTOR_BACKEND=qdrant")
		}
		qdrantStore, err := vectorstore.NewQdrantStore(cfg.QdrantURL)
		if err != nil {
			log.Fatalf("Failed to create Qdrant client: %v", err)
		}
		if err := qdrantStore.EnsureCollection(ctx, cfg.QdrantCollection, cfg.EmbeddingDim); err != nil {
			log.Fatalf("Failed to ensure Qdrant collection: %v", err)
		}
		slog.Info("Qdrant collection ready", "collection", cfg.QdrantCollection, "vector_size", cfg.EmbeddingDim)
		store = qdrantStore
	default:
		store = vectorstore.NewMemoryStore()
	}

	// Build the retrieval index now so a broken corpus or embedder fails the
	// process at startup instead of on the first request.
	index := retriever.NewHandle(corpus, embedder, store, cfg.QdrantCollection)
	ret, err := index.Get(ctx)
	if err != nil {
		log.Fatalf("Failed to build retrieval index: %v", err)
	}
	slog.Info("Retrieval index ready", "articles", ret.CorpusSize(), "embedder", embedder.Name())

	// Initialize the interaction log
	audit, err := auditlog.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open interaction log: %v", err)
	}
	defer func() {
		_ = audit.Close()
	}()
	slog.Info("Interaction log initialized", "path", cfg.DBPath)

	// Create LLM client (external service layer)
	generator := llm.NewClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModelName)

	sessions := session.NewStore()

	chatService := service.NewChatService(ret, generator, audit, sessions, service.Options{
		ConfidenceThreshold: cfg.ConfidenceThreshold,
		DefaultTopK:         cfg.DefaultTopK,
		MaxTopK:             cfg.MaxTopK,
		HistoryWindow:       cfg.HistoryWindow,
		RateLimit:           cfg.RateLimit,
		RateLimitWindow:     cfg.RateLimitWindow,
	})

	deps := &http.Deps{
		ChatService:  chatService,
		Index:        index,
		Corpus:       corpus,
		Sessions:     sessions,
		EmbedderName: embedder.Name(),
	}
	router := http.NewRouter(deps)

	addr := ":" + cfg.APIPort
	slog.Info("Starting API server", "addr", addr)
	slog.Debug("LLM configuration", "base_url", cfg.LLMBaseURL, "model", cfg.LLMModelName)
	if err := nethttp.ListenAndServe(addr, router); err != nil {
		log.Fatalf("API server failed to start: %v", err)
	}
}
