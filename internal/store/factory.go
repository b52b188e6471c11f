package store

import (
	"pandey.app/outreach/core/db"
)

type Stores struct {
	db      *db.DB
	dataDir string
}

// NewStores wires the available backends. database may be nil, in which
// case prospects live on the local filesystem only.
func NewStores(database *db.DB, dataDir string) *Stores {
	return &Stores{db: database, dataDir: dataDir}
}

func (s *Stores) Prospects() (ProspectStore, error) {
	files, err := NewFileProspectStore(s.dataDir)
	if err != nil {
		return nil, err
	}
	if s.db == nil {
		return files, nil
	}
	return NewFallbackProspectStore(newProspectStore(s.db), files), nil
}
