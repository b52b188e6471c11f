package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"sync"
	"time"

	"pandey.app/outreach/internal/model"
)

const prospectsDir = "prospects"

var userIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,128}$`)

// FileProspectStore keeps each user's prospects in one JSON file under
// <root>/prospects/<userID>.json.
type FileProspectStore struct {
	dir string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewFileProspectStore(rootDir string) (*FileProspectStore, error) {
	if rootDir == "" {
		return nil, fmt.Errorf("data directory is required")
	}

	dir := filepath.Join(rootDir, prospectsDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating prospects directory: %w", err)
	}

	return &FileProspectStore{dir: dir, locks: make(map[string]*sync.Mutex)}, nil
}

func (s *FileProspectStore) List(ctx context.Context, userID string) ([]model.SavedProspect, error) {
	unlock, err := s.lock(userID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	prospects := s.load(ctx, userID)
	slices.SortStableFunc(prospects, func(a, b model.SavedProspect) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return prospects, nil
}

func (s *FileProspectStore) Get(ctx context.Context, userID string, id int64) (*model.SavedProspect, error) {
	unlock, err := s.lock(userID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	prospects := s.load(ctx, userID)
	if i := indexOf(prospects, id); i >= 0 {
		return &prospects[i], nil
	}
	return nil, ErrNotFound
}

func (s *FileProspectStore) Create(ctx context.Context, p *model.SavedProspect) error {
	unlock, err := s.lock(p.UserID)
	if err != nil {
		return err
	}
	defer unlock()

	prospects := s.load(ctx, p.UserID)
	if indexOf(prospects, p.ID) >= 0 {
		return ErrAlreadyExists
	}
	return s.save(p.UserID, append(prospects, *p))
}

func (s *FileProspectStore) Update(ctx context.Context, p *model.SavedProspect) error {
	unlock, err := s.lock(p.UserID)
	if err != nil {
		return err
	}
	defer unlock()

	prospects := s.load(ctx, p.UserID)
	i := indexOf(prospects, p.ID)
	if i < 0 {
		return ErrNotFound
	}
	prospects[i] = *p
	return s.save(p.UserID, prospects)
}

func (s *FileProspectStore) Delete(ctx context.Context, userID string, id int64) error {
	unlock, err := s.lock(userID)
	if err != nil {
		return err
	}
	defer unlock()

	prospects := s.load(ctx, userID)
	i := indexOf(prospects, id)
	if i < 0 {
		return ErrNotFound
	}
	return s.save(userID, slices.Delete(prospects, i, i+1))
}

func (s *FileProspectStore) ReplaceAll(ctx context.Context, userID string, prospects []model.SavedProspect) error {
	unlock, err := s.lock(userID)
	if err != nil {
		return err
	}
	defer unlock()

	for i := range prospects {
		prospects[i].UserID = userID
	}
	return s.save(userID, prospects)
}

// lock validates userID and holds that user's file lock until the returned
// func is called.
func (s *FileProspectStore) lock(userID string) (func(), error) {
	if !userIDPattern.MatchString(userID) {
		return nil, ErrInvalidUserID
	}

	s.mu.Lock()
	l, ok := s.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[userID] = l
	}
	s.mu.Unlock()

	l.Lock()
	return l.Unlock, nil
}

func (s *FileProspectStore) path(userID string) string {
	return filepath.Join(s.dir, userID+".json")
}

// load treats a missing or unreadable file as an empty list. A corrupt file
// is renamed to <userID>.json.corrupt-<timestamp> so the next save cannot
// overwrite it.
func (s *FileProspectStore) load(ctx context.Context, userID string) []model.SavedProspect {
	data, err := os.ReadFile(s.path(userID))
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			slog.WarnContext(ctx, "reading prospects file failed", "error", err, "user_id", userID)
		}
		return []model.SavedProspect{}
	}

	var prospects []model.SavedProspect
	if err := json.Unmarshal(data, &prospects); err != nil {
		aside := s.path(userID) + ".corrupt-" + time.Now().UTC().Format("20060102T150405.000000000")
		slog.WarnContext(ctx, "prospects file is corrupt, moving it aside and treating as empty",
			"error", err, "user_id", userID, "moved_to", aside)
		if err := os.Rename(s.path(userID), aside); err != nil {
			slog.ErrorContext(ctx, "moving corrupt prospects file failed", "error", err, "user_id", userID)
		}
		return []model.SavedProspect{}
	}
	if prospects == nil {
		prospects = []model.SavedProspect{}
	}
	return prospects
}

func (s *FileProspectStore) save(userID string, prospects []model.SavedProspect) error {
	if prospects == nil {
		prospects = []model.SavedProspect{}
	}
	data, err := json.MarshalIndent(prospects, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding prospects: %w", err)
	}

	// Atomic write: write to temp file, then rename
	fullPath := s.path(userID)
	tmp, err := os.CreateTemp(s.dir, userID+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp prospects file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing temp prospects file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp prospects file: %w", err)
	}

	if err := os.Rename(tmpPath, fullPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming prospects file: %w", err)
	}
	return nil
}

func indexOf(prospects []model.SavedProspect, id int64) int {
	return slices.IndexFunc(prospects, func(p model.SavedProspect) bool {
		return p.ID == id
	})
}
