package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"pandey.app/outreach/core/db"
	"pandey.app/outreach/internal/model"
)

// The prospects table is managed outside this repository:
//
//	id                    bigint primary key
//	user_id               text not null
//	name                  text not null
//	title                 text not null default ''
//	company               text not null default ''
//	industry              text not null default ''
//	notes                 text not null default ''
//	known_pain_points     text not null default ''
//	prior_interactions    text not null default ''
//	links                 text[] not null default '{}'
//	status                text not null default 'new'
//	strategy              jsonb
//	strategy_generated_at timestamptz
//	follow_up_at          timestamptz
//	created_at            timestamptz not null
//	updated_at            timestamptz not null
const prospectColumns = `id, user_id, name, title, company, industry, notes,
	known_pain_points, prior_interactions, links, status, strategy,
	strategy_generated_at, follow_up_at, created_at, updated_at`

const uniqueViolation = "23505"

type prospectStore struct {
	db *db.DB
}

func newProspectStore(database *db.DB) ProspectStore {
	return &prospectStore{db: database}
}

func (s *prospectStore) List(ctx context.Context, userID string) ([]model.SavedProspect, error) {
	rows, err := s.db.Pool().Query(ctx,
		`SELECT `+prospectColumns+` FROM prospects WHERE user_id = $1 ORDER BY created_at DESC, id DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("listing prospects: %w", err)
	}
	defer rows.Close()

	prospects := make([]model.SavedProspect, 0)
	for rows.Next() {
		p, err := scanProspect(rows)
		if err != nil {
			return nil, err
		}
		prospects = append(prospects, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating prospects: %w", err)
	}
	return prospects, nil
}

func (s *prospectStore) Get(ctx context.Context, userID string, id int64) (*model.SavedProspect, error) {
	row := s.db.Pool().QueryRow(ctx,
		`SELECT `+prospectColumns+` FROM prospects WHERE user_id = $1 AND id = $2`,
		userID, id)
	p, err := scanProspect(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *prospectStore) Create(ctx context.Context, p *model.SavedProspect) error {
	if err := insertProspect(ctx, s.db.Pool(), p); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (s *prospectStore) Update(ctx context.Context, p *model.SavedProspect) error {
	strategy, err := marshalStrategy(p.Strategy)
	if err != nil {
		return err
	}

	tag, err := s.db.Pool().Exec(ctx, `
		UPDATE prospects SET
			name = $3, title = $4, company = $5, industry = $6, notes = $7,
			known_pain_points = $8, prior_interactions = $9, links = $10,
			status = $11, strategy = $12, strategy_generated_at = $13,
			follow_up_at = $14, updated_at = $15
		WHERE user_id = $1 AND id = $2`,
		p.UserID, p.ID,
		p.Name, p.Title, p.Company, p.Industry, p.Notes,
		p.KnownPainPoints, p.PriorInteractions, nonNilLinks(p.Links),
		string(p.Status), strategy, p.StrategyGeneratedAt,
		p.FollowUpAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("updating prospect: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *prospectStore) Delete(ctx context.Context, userID string, id int64) error {
	tag, err := s.db.Pool().Exec(ctx,
		`DELETE FROM prospects WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return fmt.Errorf("deleting prospect: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *prospectStore) ReplaceAll(ctx context.Context, userID string, prospects []model.SavedProspect) error {
	return s.db.WithTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM prospects WHERE user_id = $1`, userID); err != nil {
			return fmt.Errorf("clearing prospects: %w", err)
		}
		for i := range prospects {
			prospects[i].UserID = userID
			if err := insertProspect(ctx, tx, &prospects[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func insertProspect(ctx context.Context, q execer, p *model.SavedProspect) error {
	strategy, err := marshalStrategy(p.Strategy)
	if err != nil {
		return err
	}

	_, err = q.Exec(ctx, `INSERT INTO prospects (`+prospectColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		p.ID, p.UserID, p.Name, p.Title, p.Company, p.Industry, p.Notes,
		p.KnownPainPoints, p.PriorInteractions, nonNilLinks(p.Links),
		string(p.Status), strategy, p.StrategyGeneratedAt, p.FollowUpAt,
		p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting prospect: %w", err)
	}
	return nil
}

func scanProspect(row pgx.Row) (*model.SavedProspect, error) {
	var (
		p        model.SavedProspect
		status   string
		strategy []byte
	)
	err := row.Scan(
		&p.ID, &p.UserID, &p.Name, &p.Title, &p.Company, &p.Industry, &p.Notes,
		&p.KnownPainPoints, &p.PriorInteractions, &p.Links, &status, &strategy,
		&p.StrategyGeneratedAt, &p.FollowUpAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning prospect: %w", err)
	}

	p.Status = model.ProspectStatus(status)
	if len(strategy) > 0 {
		var s model.Strategy
		if err := json.Unmarshal(strategy, &s); err != nil {
			return nil, fmt.Errorf("decoding prospect strategy: %w", err)
		}
		p.Strategy = &s
	}
	return &p, nil
}

func marshalStrategy(s *model.Strategy) ([]byte, error) {
	if s == nil {
		return nil, nil
	}
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encoding prospect strategy: %w", err)
	}
	return data, nil
}

func nonNilLinks(links []string) []string {
	if links == nil {
		return []string{}
	}
	return links
}
