package store

import (
	"context"
	"errors"

	"pandey.app/outreach/internal/model"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

var (
	ErrAlreadyExists = errors.New("already exists")
	ErrInvalidUserID = errors.New("invalid user id")
	// ErrPrimaryUnavailable marks a write that only reached the fallback store.
	ErrPrimaryUnavailable = errors.New("primary prospect store unavailable")
)

// ProspectStore defines the contract for saved prospect data access.
// Every operation is scoped to the owning user.
type ProspectStore interface {
	List(ctx context.Context, userID string) ([]model.SavedProspect, error)
	Get(ctx context.Context, userID string, id int64) (*model.SavedProspect, error)
	Create(ctx context.Context, p *model.SavedProspect) error
	Update(ctx context.Context, p *model.SavedProspect) error
	Delete(ctx context.Context, userID string, id int64) error
	// ReplaceAll swaps the user's whole prospect list for prospects.
	ReplaceAll(ctx context.Context, userID string, prospects []model.SavedProspect) error
}
