package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"pandey.app/outreach/internal/model"
)

// FallbackProspectStore serves from primary and falls back to secondary
// whenever primary fails for a reason other than a missing record. Writes
// that fail on primary are still kept in secondary, but return
// ErrPrimaryUnavailable since primary will not see them once it recovers.
type FallbackProspectStore struct {
	primary   ProspectStore
	secondary ProspectStore
}

func NewFallbackProspectStore(primary, secondary ProspectStore) *FallbackProspectStore {
	return &FallbackProspectStore{primary: primary, secondary: secondary}
}

func (s *FallbackProspectStore) List(ctx context.Context, userID string) ([]model.SavedProspect, error) {
	prospects, err := s.primary.List(ctx, userID)
	if err == nil {
		return prospects, nil
	}
	s.warn(ctx, "list", err)
	return s.secondary.List(ctx, userID)
}

func (s *FallbackProspectStore) Get(ctx context.Context, userID string, id int64) (*model.SavedProspect, error) {
	p, err := s.primary.Get(ctx, userID, id)
	if err == nil || !shouldFallBack(err) {
		return p, err
	}
	s.warn(ctx, "get", err)
	return s.secondary.Get(ctx, userID, id)
}

func (s *FallbackProspectStore) Create(ctx context.Context, p *model.SavedProspect) error {
	err := s.primary.Create(ctx, p)
	if err == nil || !shouldFallBack(err) {
		return err
	}
	s.warn(ctx, "create", err)
	return s.fallbackWrite(err, s.secondary.Create(ctx, p))
}

func (s *FallbackProspectStore) Update(ctx context.Context, p *model.SavedProspect) error {
	err := s.primary.Update(ctx, p)
	if err == nil || !shouldFallBack(err) {
		return err
	}
	s.warn(ctx, "update", err)
	return s.fallbackWrite(err, s.secondary.Update(ctx, p))
}

func (s *FallbackProspectStore) Delete(ctx context.Context, userID string, id int64) error {
	err := s.primary.Delete(ctx, userID, id)
	if err == nil || !shouldFallBack(err) {
		return err
	}
	s.warn(ctx, "delete", err)
	return s.fallbackWrite(err, s.secondary.Delete(ctx, userID, id))
}

func (s *FallbackProspectStore) ReplaceAll(ctx context.Context, userID string, prospects []model.SavedProspect) error {
	err := s.primary.ReplaceAll(ctx, userID, prospects)
	if err == nil {
		return nil
	}
	s.warn(ctx, "replace all", err)
	return s.fallbackWrite(err, s.secondary.ReplaceAll(ctx, userID, prospects))
}

// fallbackWrite reports a write that primary missed. The secondary error is
// kept as text only, so a record absent from secondary does not read as
// ErrNotFound.
func (s *FallbackProspectStore) fallbackWrite(primaryErr, secondaryErr error) error {
	if secondaryErr != nil {
		return fmt.Errorf("%w: %w (fallback: %v)", ErrPrimaryUnavailable, primaryErr, secondaryErr)
	}
	return fmt.Errorf("%w: %w", ErrPrimaryUnavailable, primaryErr)
}

func (s *FallbackProspectStore) warn(ctx context.Context, op string, err error) {
	slog.WarnContext(ctx, "primary prospect store failed, using fallback", "operation", op, "error", err)
}

// Domain errors are answers, not outages.
func shouldFallBack(err error) bool {
	return !errors.Is(err, ErrNotFound) &&
		!errors.Is(err, ErrAlreadyExists) &&
		!errors.Is(err, ErrInvalidUserID) &&
		!errors.Is(err, context.Canceled)
}
