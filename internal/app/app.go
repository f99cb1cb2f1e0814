package app

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"vitrine/internal/config"
	"vitrine/internal/interpreter"
	"vitrine/internal/models"
	"vitrine/internal/search"
	"vitrine/internal/store"
	"vitrine/internal/store/local"
	"vitrine/internal/store/primary"
)

// App holds the initialized components shared by the CLI commands, the HTTP
// server and the worker.
type App struct {
	Config *config.Config

	CatalogStore store.CatalogStore
	HistoryStore store.SearchHistoryStore
	JobClient    store.JobClient
	Interpreter  interpreter.Service
}

func NewApp(cfg *config.Config) (*App, error) {
	ctx := context.Background()
	app := &App{Config: cfg}

	if err := app.initStore(ctx); err != nil {
		return nil, err
	}
	if err := app.initJobClient(); err != nil {
		app.cleanupPartialInit()
		return nil, err
	}
	if err := app.initInterpreter(ctx); err != nil {
		app.cleanupPartialInit()
		return nil, err
	}

	log.Debug("Application initialization complete.")
	return app, nil
}

// --- Private Helper Methods ---

// initStore opens the Postgres store when a DSN is configured, otherwise the
// local sqlite store. The concrete store serves both catalog and history.
func (a *App) initStore(ctx context.Context) error {
	if dsn := a.Config.Database.Primary.DSN; dsn != "" {
		ps, err := primary.NewPrimaryStore(ctx, dsn)
		if err != nil {
			return fmt.Errorf("init primary store: %w", err)
		}
		a.CatalogStore = ps
		a.HistoryStore = ps
		return nil
	}

	ls, err := local.NewStore(a.Config.Database.Local.Path)
	if err != nil {
		return fmt.Errorf("init local store: %w", err)
	}
	log.Debugf("Using local sqlite store at %s", a.Config.Database.Local.Path)
	a.CatalogStore = ls
	a.HistoryStore = ls
	return nil
}

func (a *App) initJobClient() error {
	a.JobClient = store.NewAsynqJobClient(a.Config.Redis.Address, a.Config.Redis.Password, a.Config.Redis.DB)
	return nil
}

func (a *App) initInterpreter(ctx context.Context) error {
	cfg := a.Config
	opts := interpreter.Options{
		Model:           cfg.Interpreter.Model,
		Temperature:     cfg.Interpreter.Temperature,
		TemperatureSet:  cfg.Interpreter.TemperatureSet,
		MaxOutputTokens: cfg.Interpreter.MaxOutputTokens,
		MinQueryLength:  cfg.Interpreter.MinQueryLength,
		CatalogLimit:    cfg.Interpreter.CatalogLimit,
	}

	if cfg.Interpreter.PromptTemplate != "" {
		promptContent, err := config.LoadPromptContent(cfg.Interpreter.PromptTemplate)
		if err != nil {
			log.Warnf("Failed to load interpreter prompt: %v. Falling back to the built-in prompt.", err)
		} else {
			opts.SystemPrompt = promptContent
		}
	}

	switch cfg.Interpreter.Provider {
	case "gemini", "":
		svc, err := interpreter.NewGeminiInterpreter(ctx, cfg.Interpreter.GoogleApiKey, opts)
		if err != nil {
			return fmt.Errorf("init gemini interpreter: %w", err)
		}
		a.Interpreter = svc
	case "openai":
		a.Interpreter = interpreter.NewOpenAIInterpreter(cfg.Interpreter.OpenaiApiKey, opts)
	case "none":
		a.Interpreter = interpreter.NewNoopService()
	default:
		return fmt.Errorf("unknown interpreter provider configured: %s", cfg.Interpreter.Provider)
	}
	return nil
}

// NewSearchSession builds a session wired to the app's interpreter, seeded
// with the most viewed product names as catalog context.
func (a *App) NewSearchSession(ctx context.Context, onResult func(models.Interpretation)) (*search.Session, error) {
	names, err := a.CatalogStore.ProductNames(ctx, a.Config.Interpreter.CatalogLimit)
	if err != nil {
		return nil, fmt.Errorf("load product names: %w", err)
	}
	return search.NewSession(a.Interpreter, search.Config{
		Debounce:       time.Duration(a.Config.Search.DebounceMs) * time.Millisecond,
		DebounceSet:    a.Config.Search.DebounceSet,
		MinQueryLength: a.Config.Interpreter.MinQueryLength,
		CacheSize:      a.Config.Search.CacheSize,
		ProductNames:   names,
		OnResult:       onResult,
	}), nil
}

// Close releases every component that holds external connections.
func (a *App) Close() {
	if a.JobClient != nil {
		a.JobClient.Close()
	}
	if a.CatalogStore != nil {
		a.CatalogStore.Close()
	}
	if c, ok := a.Interpreter.(interface{ Close() error }); ok && c != nil {
		if err := c.Close(); err != nil {
			log.Warnf("Error closing interpreter: %v", err)
		}
	}
}

func (a *App) cleanupPartialInit() {
	a.Close()
}
