// Package app wires configuration into a ready-to-run analysis stack. Both
// the daemon and the CLI build from here so they stay behaviorally identical.
package app

import (
	"context"
	"log/slog"

	"github.com/claimsight/claim-analyzer/internal/advice"
	"github.com/claimsight/claim-analyzer/internal/common"
	"github.com/claimsight/claim-analyzer/internal/export"
	"github.com/claimsight/claim-analyzer/internal/extract"
	"github.com/claimsight/claim-analyzer/internal/ner"
	"github.com/claimsight/claim-analyzer/internal/ocr"
	"github.com/claimsight/claim-analyzer/internal/pipeline"
	"github.com/claimsight/claim-analyzer/internal/repository"
	"github.com/claimsight/claim-analyzer/internal/reputation"
	"github.com/claimsight/claim-analyzer/internal/verify"
)

type App struct {
	Config    *common.Config
	Logger    *slog.Logger
	DB        *repository.DB
	Jobs      repository.AnalysisJobRepository
	Claims    repository.ClaimRepository
	Processor *pipeline.Processor
	Exporter  *export.Service
}

// Build opens the database, loads reference data and assembles the pipeline.
// Reference-data load failure is not fatal: the engine then yields the Error
// verdict on every claim, which is the documented terminal behavior.
func Build(ctx context.Context, cfg *common.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := repository.Open(ctx, repository.Config{
		DSN:              cfg.Database.DSN,
		MaxConns:         cfg.Database.MaxConns,
		MinConns:         cfg.Database.MinConns,
		MaxConnLifetime:  cfg.Database.MaxConnLifetime,
		MaxConnIdleTime:  cfg.Database.MaxConnIdleTime,
		DialTimeout:      cfg.Database.DialTimeout,
		StatementTimeout: cfg.Database.StatementTimeout,
	}, logger)
	if err != nil {
		return nil, err
	}
	if err := repository.Migrate(ctx, db.SQL, logger); err != nil {
		db.Close(logger)
		return nil, err
	}

	jobs := repository.NewAnalysisJobRepository(db, logger)
	claims := repository.NewClaimRepository(db, logger)

	textExtractor := ocr.NewExtractor(ocr.Config{
		TesseractLang: cfg.OCR.TesseractLang,
		DPI:           cfg.OCR.DPI,
		MaxPages:      cfg.OCR.MaxPages,
		TessdataDir:   cfg.OCR.TessdataDir,
	}, logger)

	gaz := ner.NewGazetteer(ner.DefaultProviders)
	if cfg.NER.GazetteerPath != "" {
		loaded, err := ner.LoadGazetteer(cfg.NER.GazetteerPath)
		if err != nil {
			logger.Warn("app.gazetteer.load_failed", "path", cfg.NER.GazetteerPath, "error", err)
		} else {
			gaz = loaded
		}
	}
	recognizer := ner.NewClient(ner.Config{
		BaseURL: cfg.NER.BaseURL,
		Timeout: cfg.NER.Timeout,
	}, gaz, logger)
	fieldExtractor := extract.NewExtractor(recognizer, logger)

	refs, err := verify.LoadReferenceData(cfg.RefData.PoliciesPath, cfg.RefData.LimitsPath, logger)
	if err != nil {
		logger.Error("app.refdata.load_failed", "error", err)
		refs = nil
	}
	engine := verify.NewEngine(refs, logger)

	memory := reputation.NewMemoryCache(cfg.Reputation.CacheTTL, cfg.Reputation.CacheTTL)
	var cache reputation.Cache = memory
	if cfg.Reputation.RedisAddr != "" {
		remote, err := reputation.NewRedisCache(cfg.Reputation.RedisAddr)
		if err != nil {
			logger.Warn("app.redis.unavailable", "addr", cfg.Reputation.RedisAddr, "error", err)
		} else {
			cache = reputation.NewLayeredCache(memory, remote)
		}
	}
	repClient := reputation.NewClient(reputation.Config{
		APIKey:         cfg.Reputation.APIKey,
		SearchEngineID: cfg.Reputation.SearchEngineID,
		Timeout:        cfg.Reputation.Timeout,
		CacheTTL:       cfg.Reputation.CacheTTL,
		RatePerMinute:  cfg.Reputation.RatePerMinute,
	}, cache, logger)

	provider, err := advice.NewProvider(advice.Config{
		Provider:    cfg.Advisor.Provider,
		Model:       cfg.Advisor.Model,
		GeminiKey:   cfg.Advisor.GeminiKey,
		OpenAIKey:   cfg.Advisor.OpenAIKey,
		Temperature: cfg.Advisor.Temperature,
		Timeout:     cfg.Advisor.Timeout,
	})
	if err != nil {
		logger.Warn("app.advice.provider_failed", "provider", cfg.Advisor.Provider, "error", err)
		provider = nil
	}
	advisor := advice.NewAdvisor(provider, logger)

	processor := pipeline.NewProcessor(logger, jobs,
		pipeline.NewOCRStage(jobs, textExtractor, logger),
		pipeline.NewDecideStage(jobs, claims, fieldExtractor, engine, logger),
		pipeline.NewEnrichStage(jobs, claims, repClient, advisor, logger),
	)

	return &App{
		Config:    cfg,
		Logger:    logger,
		DB:        db,
		Jobs:      jobs,
		Claims:    claims,
		Processor: processor,
		Exporter:  export.NewService(claims, logger),
	}, nil
}

// Close releases the database resources.
func (a *App) Close() {
	a.DB.Close(a.Logger)
}
