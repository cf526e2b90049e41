package main

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/answer-engine/internal/ambiguity"
	"github.com/sells-group/answer-engine/internal/answer"
	"github.com/sells-group/answer-engine/internal/cache"
	"github.com/sells-group/answer-engine/internal/entity"
	"github.com/sells-group/answer-engine/internal/intent"
	"github.com/sells-group/answer-engine/internal/retrieval"
	"github.com/sells-group/answer-engine/internal/score"
	"github.com/sells-group/answer-engine/internal/source"
	"github.com/sells-group/answer-engine/pkg/llm"
	"github.com/sells-group/answer-engine/pkg/websearch"
	"github.com/sells-group/answer-engine/pkg/wikipedia"
)

// engineEnv holds the assembled pipeline and the resources the commands
// must release.
type engineEnv struct {
	Engine *answer.Engine
	Store  cache.Store   // may be nil
	Index  *entity.Index // may be nil
}

// Close releases resources held by the engine environment.
func (e *engineEnv) Close() {
	if e.Index != nil {
		_ = e.Index.Close()
	}
	if e.Store != nil {
		_ = e.Store.Close()
	}
}

// initEngine sets up the cache, entity index, source adapters, and the
// answer engine. Callers should defer env.Close().
func initEngine(ctx context.Context) (*engineEnv, error) {
	store, err := initCache(ctx)
	if err != nil {
		return nil, err
	}

	var index *entity.Index
	if cfg.Entities.Path != "" {
		index, err = entity.OpenIndex(cfg.Entities.Path)
		if err != nil {
			zap.L().Warn("entity index unavailable, disambiguation disabled", zap.Error(err))
			index = nil
		}
	}

	srcCfg, err := source.LoadConfig(cfg.Sources.ConfigPath)
	if err != nil {
		closeAll(store, index)
		return nil, err
	}

	registry := source.NewRegistry()

	if srcCfg.EnabledFor("wikipedia") {
		var wikiOpts []wikipedia.Option
		if cfg.Sources.Wikipedia.BaseURL != "" {
			wikiOpts = append(wikiOpts, wikipedia.WithBaseURL(cfg.Sources.Wikipedia.BaseURL))
		}
		registry.Register(source.NewWikipediaAdapter(
			wikipedia.NewClient(wikiOpts...),
			srcCfg.WeightFor("wikipedia"),
			source.NewGuard("wikipedia", srcCfg.Defaults),
		))
	}

	if srcCfg.EnabledFor("websearch") {
		if cfg.Sources.Websearch.Key == "" {
			zap.L().Debug("ANSWERS_SOURCES_WEBSEARCH_KEY not set, web search source disabled")
		} else {
			var wsOpts []websearch.Option
			if cfg.Sources.Websearch.BaseURL != "" {
				wsOpts = append(wsOpts, websearch.WithBaseURL(cfg.Sources.Websearch.BaseURL))
			}
			registry.Register(source.NewWebsearchAdapter(
				websearch.NewClient(cfg.Sources.Websearch.Key, wsOpts...),
				cfg.Sources.Websearch.Model,
				srcCfg.WeightFor("websearch"),
				source.NewGuard("websearch", srcCfg.Defaults),
			))
		}
	}

	if len(registry.All()) == 0 {
		closeAll(store, index)
		return nil, eris.New("no sources enabled")
	}

	parserOpts := []intent.Option{}
	if cfg.Intent.UseLLM {
		if cfg.Anthropic.Key == "" {
			zap.L().Debug("ANSWERS_ANTHROPIC_KEY not set, llm intent extraction disabled")
		} else {
			extractor := intent.NewLLMExtractor(llm.NewClient(cfg.Anthropic.Key), cfg.Anthropic.Model)
			parserOpts = append(parserOpts, intent.WithExtractor(extractor))
		}
	}
	parser := intent.NewParser(parserOpts...)

	var lookup ambiguity.EntityLookup
	if index != nil {
		lookup = index
	}

	engine := answer.NewEngine(
		parser,
		store,
		retrieval.NewOrchestrator(registry, cfg.Retrieval.Deadline()),
		score.NewScorer(cfg.Score.ErrorPenalty),
		ambiguity.NewDetector(cfg.Ambiguity.ConflictThreshold, lookup),
		cfg.Cache,
	)

	return &engineEnv{Engine: engine, Store: store, Index: index}, nil
}

// initCache opens the configured cache backend. A failed open degrades to
// uncached operation.
func initCache(ctx context.Context) (cache.Store, error) {
	var (
		store cache.Store
		err   error
	)
	switch cfg.Cache.Driver {
	case "postgres":
		store, err = cache.NewPostgresStore(ctx, cfg.Cache.DatabaseURL)
	case "sqlite", "":
		store, err = cache.NewSQLiteStore(cfg.Cache.Path)
	default:
		return nil, eris.Errorf("unknown cache driver %q", cfg.Cache.Driver)
	}
	if err != nil {
		zap.L().Warn("cache unavailable, running uncached",
			zap.String("driver", cfg.Cache.Driver),
			zap.Error(err),
		)
		return nil, nil
	}
	return store, nil
}

func closeAll(store cache.Store, index *entity.Index) {
	if index != nil {
		_ = index.Close()
	}
	if store != nil {
		_ = store.Close()
	}
}
