package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"

	_ "github.com/lib/pq"

	"github.com/Shiva-Subramaniam-NR/llm-prompt-analyzer/internal/alignment"
	"github.com/Shiva-Subramaniam-NR/llm-prompt-analyzer/internal/api"
	"github.com/Shiva-Subramaniam-NR/llm-prompt-analyzer/internal/config"
	"github.com/Shiva-Subramaniam-NR/llm-prompt-analyzer/internal/contradiction"
	"github.com/Shiva-Subramaniam-NR/llm-prompt-analyzer/internal/deepanalysis"
	"github.com/Shiva-Subramaniam-NR/llm-prompt-analyzer/internal/embeddings"
	"github.com/Shiva-Subramaniam-NR/llm-prompt-analyzer/internal/parser"
	"github.com/Shiva-Subramaniam-NR/llm-prompt-analyzer/internal/quality"
	"github.com/Shiva-Subramaniam-NR/llm-prompt-analyzer/internal/storage"
	"github.com/Shiva-Subramaniam-NR/llm-prompt-analyzer/internal/verbosity"
)

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	openRouterKey := os.Getenv("OPENROUTER_API_KEY")
	if openRouterKey == "" {
		log.Fatalf("OPENROUTER_API_KEY is required")
	}
	client := embeddings.NewClient(openRouterKey)

	providerOpts := []embeddings.ProviderOption{}
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		db, err := sql.Open("postgres", dbURL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()
		if err := db.Ping(); err != nil {
			log.Fatalf("Failed to ping database: %v", err)
		}

		cache := storage.NewPostgresEmbeddingCache(db, client.Model())
		if err := cache.Init(context.Background()); err != nil {
			log.Fatalf("Failed to init embedding cache: %v", err)
		}
		providerOpts = append(providerOpts, embeddings.WithCache(cache))
	}
	provider := embeddings.NewProvider(client, providerOpts...)

	// anchor precomputation doubles as the startup probe: if the
	// embedding backend is down, fail now rather than per request
	ctx := context.Background()
	extractor, err := parser.NewExtractor(ctx, provider, &cfg.Parser)
	if err != nil {
		log.Fatalf("Failed to initialize requirement extractor: %v", err)
	}
	detector, err := contradiction.NewDetector(ctx, provider, &cfg.Contradiction)
	if err != nil {
		log.Fatalf("Failed to initialize contradiction detector: %v", err)
	}

	var bridge quality.DeepAnalyzer
	if anthropicKey := os.Getenv("ANTHROPIC_API_KEY"); anthropicKey != "" {
		bridge = deepanalysis.NewBridge(deepanalysis.Config{
			APIKey:     anthropicKey,
			Timeout:    cfg.Bridge.Timeout.Std(),
			MaxRetries: cfg.Bridge.MaxRetries,
		})
	} else {
		log.Println("ANTHROPIC_API_KEY not set, deep analysis disabled")
	}

	orchestrator := quality.NewOrchestrator(cfg, extractor, detector,
		alignment.NewEvaluator(provider, &cfg.Alignment),
		verbosity.NewAnalyzer(&cfg.Verbosity),
		bridge)

	server := api.NewServer(orchestrator)

	fmt.Printf("Starting prompt-analyzer server on port %s\n", port)
	if err := server.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
