package service

import (
	"pandey.app/outreach/common/llm"
	"pandey.app/outreach/internal/cache"
	"pandey.app/outreach/internal/store"
)

type Services struct {
	prospects store.ProspectStore
	llm       llm.Client
	cache     cache.StrategyCache
}

func NewServices(prospects store.ProspectStore, client llm.Client, c cache.StrategyCache) *Services {
	return &Services{
		prospects: prospects,
		llm:       client,
		cache:     c,
	}
}

func (s *Services) Strategies() StrategyService {
	return NewStrategyService(s.llm, s.cache)
}

func (s *Services) Prospects() ProspectService {
	return NewProspectService(s.prospects, s.Strategies())
}
