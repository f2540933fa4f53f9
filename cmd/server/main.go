package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"recipechef/internal/api"
	"recipechef/internal/config"
	"recipechef/internal/domain"
	"recipechef/internal/embedding"
	"recipechef/internal/extract"
	"recipechef/internal/llm"
	"recipechef/internal/logging"
	"recipechef/internal/prompt"
	"recipechef/internal/service"
	"recipechef/internal/store/memory"
	"recipechef/internal/store/pg"
)

func main() {
	_ = godotenv.Load()

	var cfgPath string
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/recipechef/config.yaml if not provided)")
	flag.Parse()

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

	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	chef, closeStore, err := buildChef(cfg, logger)
	if err != nil {
		logger.Fatal("failed to assemble service", zap.Error(err))
	}
	if closeStore != nil {
		defer closeStore()
	}

	app := fiber.New(fiber.Config{BodyLimit: 50 * 1024 * 1024})
	api.RegisterRoutes(app, chef, logger)

	logger.Info("listening", zap.String("addr", cfg.Server.Addr))
	if err := app.Listen(cfg.Server.Addr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func buildChef(cfg *config.AppConfig, logger *zap.Logger) (*service.Chef, func() error, error) {
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
	}, logger)

	return chef, closeStore, nil
}
