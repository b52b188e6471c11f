package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"pandey.app/outreach/common/id"
	"pandey.app/outreach/common/logger"
	"pandey.app/outreach/internal/model"
	"pandey.app/outreach/internal/store"
	"pandey.app/outreach/internal/strategy"
)

var ErrInvalidStatus = errors.New("invalid prospect status")

// ProspectUpdate replaces the editable parts of a saved prospect. An empty
// Status keeps the current one; a nil FollowUpAt clears it.
type ProspectUpdate struct {
	Prospect   model.Prospect
	Status     model.ProspectStatus
	FollowUpAt *time.Time
}

type ProspectService interface {
	List(ctx context.Context, userID string) ([]model.SavedProspect, error)
	Get(ctx context.Context, userID string, id int64) (*model.SavedProspect, error)
	Create(ctx context.Context, userID string, p model.Prospect) (*model.SavedProspect, error)
	Update(ctx context.Context, userID string, id int64, in ProspectUpdate) (*model.SavedProspect, error)
	Delete(ctx context.Context, userID string, id int64) error
	// Sync replaces the user's whole list, e.g. when a client uploads its
	// local copy.
	Sync(ctx context.Context, userID string, prospects []model.SavedProspect) ([]model.SavedProspect, error)
	GenerateStrategy(ctx context.Context, userID string, id int64) (*model.SavedProspect, strategy.Result, error)
}

type prospectService struct {
	prospects  store.ProspectStore
	strategies StrategyService
	now        func() time.Time
}

func NewProspectService(prospects store.ProspectStore, strategies StrategyService) ProspectService {
	return &prospectService{
		prospects:  prospects,
		strategies: strategies,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (s *prospectService) List(ctx context.Context, userID string) ([]model.SavedProspect, error) {
	prospects, err := s.prospects.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing prospects: %w", err)
	}
	return prospects, nil
}

func (s *prospectService) Get(ctx context.Context, userID string, id int64) (*model.SavedProspect, error) {
	p, err := s.prospects.Get(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("getting prospect: %w", err)
	}
	return p, nil
}

func (s *prospectService) Create(ctx context.Context, userID string, in model.Prospect) (*model.SavedProspect, error) {
	in = NormalizeProspect(in)
	if err := validateProspect(in); err != nil {
		return nil, err
	}

	now := s.now()
	p := &model.SavedProspect{
		Prospect:  in,
		ID:        id.New(),
		UserID:    userID,
		Status:    model.ProspectStatusNew,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.prospects.Create(ctx, p); err != nil {
		slog.ErrorContext(ctx, "failed to create prospect", "error", err)
		return nil, fmt.Errorf("creating prospect: %w", err)
	}

	slog.InfoContext(ctx, "prospect created", "prospect_id", p.ID)
	return p, nil
}

func (s *prospectService) Update(ctx context.Context, userID string, id int64, in ProspectUpdate) (*model.SavedProspect, error) {
	prospect := NormalizeProspect(in.Prospect)
	if err := validateProspect(prospect); err != nil {
		return nil, err
	}
	if in.Status != "" && !in.Status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, in.Status)
	}

	p, err := s.prospects.Get(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("getting prospect: %w", err)
	}

	p.Prospect = prospect
	if in.Status != "" {
		p.Status = in.Status
	}
	p.FollowUpAt = in.FollowUpAt
	p.UpdatedAt = s.now()

	if err := s.prospects.Update(ctx, p); err != nil {
		slog.ErrorContext(ctx, "failed to update prospect", "error", err, "prospect_id", id)
		return nil, fmt.Errorf("updating prospect: %w", err)
	}
	return p, nil
}

func (s *prospectService) Delete(ctx context.Context, userID string, id int64) error {
	if err := s.prospects.Delete(ctx, userID, id); err != nil {
		return fmt.Errorf("deleting prospect: %w", err)
	}
	slog.InfoContext(ctx, "prospect deleted", "prospect_id", id)
	return nil
}

func (s *prospectService) Sync(ctx context.Context, userID string, prospects []model.SavedProspect) ([]model.SavedProspect, error) {
	now := s.now()
	out := make([]model.SavedProspect, 0, len(prospects))
	seen := make(map[int64]bool, len(prospects))

	for _, p := range prospects {
		p.Prospect = NormalizeProspect(p.Prospect)
		if err := validateProspect(p.Prospect); err != nil {
			return nil, err
		}
		if p.Status == "" {
			p.Status = model.ProspectStatusNew
		}
		if !p.Status.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, p.Status)
		}
		if p.ID <= 0 || seen[p.ID] {
			p.ID = id.New()
		}
		seen[p.ID] = true
		if p.CreatedAt.IsZero() {
			p.CreatedAt = now
		}
		if p.UpdatedAt.IsZero() {
			p.UpdatedAt = now
		}
		p.UserID = userID
		out = append(out, p)
	}

	if err := s.prospects.ReplaceAll(ctx, userID, out); err != nil {
		slog.ErrorContext(ctx, "failed to sync prospects", "error", err, "count", len(out))
		return nil, fmt.Errorf("syncing prospects: %w", err)
	}

	slog.InfoContext(ctx, "prospects synced", "count", len(out))
	return out, nil
}

func (s *prospectService) GenerateStrategy(ctx context.Context, userID string, id int64) (*model.SavedProspect, strategy.Result, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{ProspectID: &id})

	p, err := s.prospects.Get(ctx, userID, id)
	if err != nil {
		return nil, strategy.Result{}, fmt.Errorf("getting prospect: %w", err)
	}

	result, err := s.strategies.Generate(ctx, p.Prospect)
	if err != nil {
		return nil, strategy.Result{}, err
	}

	now := s.now()
	generated := result.Strategy
	p.Strategy = &generated
	p.StrategyGeneratedAt = &now
	p.UpdatedAt = now

	if err := s.prospects.Update(ctx, p); err != nil {
		slog.ErrorContext(ctx, "failed to save generated strategy", "error", err)
		return nil, strategy.Result{}, fmt.Errorf("saving strategy: %w", err)
	}

	return p, result, nil
}
