package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"recipechef/internal/config"
	"recipechef/internal/domain"
	"recipechef/internal/embedding"
	"recipechef/internal/extract"
	"recipechef/internal/llm"
	"recipechef/internal/prompt"
	"recipechef/internal/service"
	"recipechef/internal/store/memory"
	"recipechef/internal/store/pg"
	"recipechef/internal/tui"
)

func main() {
	_ = godotenv.Load()

	var cfgPath string
	var owner string
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/recipechef/config.yaml if not provided)")
	flag.StringVar(&owner, "user", "default", "User the session belongs to")
	flag.Parse()
	inputs := flag.Args()

	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	chef, closeStore, err := buildChef(cfg)
	if err != nil {
		log.Fatalf("failed to assemble service: %v", err)
	}
	if closeStore != nil {
		defer closeStore()
	}

	// Ingest any cookbooks passed on the command line before the chat opens.
	for _, path := range inputs {
		data, err := os.ReadFile(path)
		if err != nil {
			log.Fatalf("read %s: %v", path, err)
		}
		res, err := chef.IngestDocument(context.Background(), owner, filepath.Base(path), data)
		if err != nil {
			log.Fatalf("ingest %s: %v", path, err)
		}
		fmt.Printf("ingested %s (%d chunks)\n", res.Document.Name, res.Chunks)
	}

	m := tui.New(chef, owner)
	if _, err := tea.NewProgram(m).Run(); err != nil {
		log.Fatal(err)
	}
}

func buildChef(cfg *config.AppConfig) (*service.Chef, func() error, error) {
	var (
		corpus     domain.CorpusStore
		documents  domain.DocumentStore
		profiles   domain.ProfileStore
		favourites domain.FavouriteStore
		closeStore func() error
	)
	switch cfg.Store.Type {
	case "memory", "":
		st := memory.New()
		corpus, documents, profiles, favourites = st, st, st, st
	case "postgres":
		st, err := pg.New(cfg.PostgresConn(), cfg.Embedder.Dimension)
		if err != nil {
			return nil, nil, err
		}
		corpus, documents, profiles, favourites = st, st, st, st
		closeStore = st.Close
	default:
		return nil, nil, fmt.Errorf("unknown store type: %s", cfg.Store.Type)
	}

	embedder := embedding.NewClient(embedding.Config{
		BaseURL:   cfg.Embedder.BaseURL,
		APIKey:    cfg.EmbedderAPIKey(),
		Model:     cfg.Embedder.Model,
		Dimension: cfg.Embedder.Dimension,
		Timeout:   time.Duration(cfg.Embedder.TimeoutSecs) * time.Second,
	}, embedding.EveryN(cfg.Embedder.PaceEvery, time.Duration(cfg.Embedder.PaceDelaySecs)*time.Second))

	generator := llm.NewClient(llm.Config{
		BaseURL:           cfg.Generator.BaseURL,
		APIKey:            cfg.GeneratorAPIKey(),
		Model:             cfg.Generator.Model,
		Timeout:           time.Duration(cfg.Generator.TimeoutSecs) * time.Second,
		RequestsPerSecond: cfg.Generator.RequestsPerSecond,
		Temperature:       cfg.Generator.Temperature,
	})

	chef := service.New(service.Deps{
		Embedder:   embedder,
		Store:      corpus,
		Documents:  documents,
		Generator:  generator,
		Extractor:  extract.New(),
		Profiles:   profiles,
		Favourites: favourites,
	}, prompt.Default(), service.Config{
		ChunkTargetSize: cfg.Chunker.TargetSize,
		TopK:            cfg.Retriever.TopK,
		MealPlanTopK:    cfg.Retriever.MealPlanTopK,
	}, zap.NewNop())

	return chef, closeStore, nil
}
