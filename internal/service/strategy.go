package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"pandey.app/outreach/common/llm"
	"pandey.app/outreach/common/logger"
	"pandey.app/outreach/internal/cache"
	"pandey.app/outreach/internal/model"
	"pandey.app/outreach/internal/strategy"
)

var (
	ErrInvalidProspect = errors.New("invalid prospect")
	ErrGeneration      = errors.New("strategy generation failed")
)

const (
	strategySchemaName = "prospect_strategy"
	finishReasonLength = "length"
)

type StrategyService interface {
	Generate(ctx context.Context, p model.Prospect) (strategy.Result, error)
}

type strategyService struct {
	client llm.Client
	cache  cache.StrategyCache
	schema any
}

func NewStrategyService(client llm.Client, c cache.StrategyCache) StrategyService {
	if c == nil {
		c = cache.NewNoop()
	}
	return &strategyService{
		client: client,
		cache:  c,
		schema: llm.GenerateSchema[model.Strategy](),
	}
}

// Generate produces a strategy for p. Only a failed generation call is an
// error; a response that cannot be fully understood still yields a result,
// with placeholders standing in for the missing parts.
func (s *strategyService) Generate(ctx context.Context, p model.Prospect) (strategy.Result, error) {
	p = NormalizeProspect(p)
	if err := validateProspect(p); err != nil {
		return strategy.Result{}, err
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{Component: "outreach.service.strategy"})
	sc := logger.StartSpan(ctx, "strategy.generate")
	defer sc.End()
	ctx = sc.Context()

	userPrompt := strategy.BuildPrompt(p)
	key := cache.Key(s.client.Model(), strategy.SystemPrompt, userPrompt)

	if cached, ok := s.cache.Get(ctx, key); ok {
		slog.InfoContext(ctx, "strategy served from cache")
		return strategy.Result{Strategy: *cached, Source: strategy.SourceCache, Recovered: 5}, nil
	}

	start := time.Now()
	resp, err := s.client.Generate(ctx, llm.Request{
		SystemPrompt: strategy.SystemPrompt,
		UserPrompt:   userPrompt,
		SchemaName:   strategySchemaName,
		Schema:       s.schema,
	})
	if err != nil {
		sc.RecordError(err)
		slog.ErrorContext(ctx, "strategy generation failed",
			"error", err,
			"duration_ms", time.Since(start).Milliseconds())
		return strategy.Result{}, fmt.Errorf("%w: %w", ErrGeneration, err)
	}

	result := strategy.Extract(ctx, resp.Content)

	if result.Degraded() {
		slog.WarnContext(ctx, "strategy is incomplete, some sections use placeholders",
			"source", result.Source,
			"recovered_fields", result.Recovered,
			"finish_reason", resp.FinishReason)
		return result, nil
	}

	if cacheable(result, resp) {
		s.cache.Set(ctx, key, result.Strategy)
	} else {
		slog.WarnContext(ctx, "strategy may be incomplete, not caching it",
			"source", result.Source,
			"finish_reason", resp.FinishReason)
	}

	slog.InfoContext(ctx, "strategy generated",
		"source", result.Source,
		"model", resp.Model,
		"prompt_tokens", resp.PromptTokens,
		"completion_tokens", resp.CompletionTokens,
		"duration_ms", time.Since(start).Milliseconds())

	return result, nil
}

// cacheable is false for replies cut off at the token limit and for JSON
// that only parsed after repair, since a clipped last field reads as complete.
func cacheable(result strategy.Result, resp *llm.Response) bool {
	return result.Source == strategy.SourceJSON && resp.FinishReason != finishReasonLength
}
